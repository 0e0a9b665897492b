package paymenttracking

import (
	"context"
	"time"
	
	"github.com/go-co-op/gocron/v2"
	db "github.com/katatrina/storefront-BE/internal/db/sqlc"
	"github.com/katatrina/storefront-BE/internal/vnpay"
	"github.com/rs/zerolog/log"
)

const (
	defaultInterval = 5 * time.Minute
	defaultAfter    = 20 * time.Minute
)

// TransactionQuerier hỏi VNPay trạng thái hiện tại của một giao dịch.
type TransactionQuerier interface {
	QueryTransaction(ctx context.Context, txnRef string, transactionDate string, ipAddr string) (*vnpay.QueryTransactionResponse, error)
}

// Settler áp dụng kết quả querydr qua cùng luồng với callback.
type Settler interface {
	SettleQueryResult(ctx context.Context, resp *vnpay.QueryTransactionResponse) (bool, error)
	ExpirePayment(ctx context.Context, txnRef string, createDate string, resp *vnpay.QueryTransactionResponse, now time.Time) (bool, error)
}

// PaymentTracker đối soát các giao dịch VNPay bị treo ở trạng thái pending
// (ví dụ IPN không tới được server).
type PaymentTracker struct {
	store     db.Store
	querier   TransactionQuerier
	settler   Settler
	scheduler gocron.Scheduler
	interval  time.Duration
	after     time.Duration
	batchSize int32
	serverIP  string
}

// NewPaymentTracker tạo một tracker mới để đối soát giao dịch VNPay.
func NewPaymentTracker(store db.Store, querier TransactionQuerier, settler Settler, interval, after time.Duration) (*PaymentTracker, error) {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return nil, err
	}
	
	if interval <= 0 {
		interval = defaultInterval
	}
	if after <= 0 {
		after = defaultAfter
	}
	
	return &PaymentTracker{
		store:     store,
		querier:   querier,
		settler:   settler,
		scheduler: scheduler,
		interval:  interval,
		after:     after,
		batchSize: 50,
		serverIP:  "127.0.0.1",
	}, nil
}

// Start bắt đầu chạy cronjob đối soát.
func (t *PaymentTracker) Start() error {
	_, err := t.scheduler.NewJob(
		gocron.DurationJob(t.interval),
		gocron.NewTask(
			func() {
				t.reconcilePendingPayments(context.Background())
			},
		),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return err
	}
	
	t.scheduler.Start()
	log.Info().Dur("interval", t.interval).Msg("payment tracker started 🔁")
	return nil
}

// Stop dừng cronjob đối soát.
func (t *PaymentTracker) Stop() error {
	return t.scheduler.Shutdown()
}
