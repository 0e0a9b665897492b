package worker

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"
	
	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/katatrina/storefront-BE/internal/alert"
	db "github.com/katatrina/storefront-BE/internal/db/sqlc"
	"github.com/katatrina/storefront-BE/internal/mailer"
	"github.com/katatrina/storefront-BE/internal/notification"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	db.Store
	order   db.Order
	payment db.Payment
}

func (s *fakeStore) GetOrderByID(_ context.Context, id uuid.UUID) (db.Order, error) {
	if id != s.order.ID {
		return db.Order{}, db.ErrRecordNotFound
	}
	return s.order, nil
}

func (s *fakeStore) GetLatestPaymentByOrderID(_ context.Context, orderID uuid.UUID) (db.Payment, error) {
	if orderID != s.payment.OrderID {
		return db.Payment{}, db.ErrRecordNotFound
	}
	return s.payment, nil
}

type fakeMailer struct {
	receipts []mailer.PaymentReceipt
	err      error
}

func (m *fakeMailer) SendPaymentReceipt(_ context.Context, receipt mailer.PaymentReceipt) error {
	if m.err != nil {
		return m.err
	}
	m.receipts = append(m.receipts, receipt)
	return nil
}

type fakeNotifier struct {
	notifications []*notification.Notification
}

func (n *fakeNotifier) SendNotification(_ context.Context, notification *notification.Notification) error {
	n.notifications = append(n.notifications, notification)
	return nil
}

type fakeAlerter struct {
	incidents []alert.Incident
}

func (a *fakeAlerter) ReportIncident(_ context.Context, incident alert.Incident) error {
	a.incidents = append(a.incidents, incident)
	return nil
}

func newPaidOrder() (db.Order, db.Payment) {
	transactionNo := "14012345"
	order := db.Order{
		ID:          uuid.New(),
		Code:        "ORD123456",
		BuyerID:     "user-1",
		BuyerEmail:  "buyer@example.vn",
		TotalAmount: 150000,
		Status:      db.OrderStatusPaid,
	}
	payment := db.Payment{
		ID:                    uuid.New(),
		OrderID:               order.ID,
		Amount:                150000,
		Method:                db.PaymentMethodVnpay,
		Status:                db.PaymentStatusSuccess,
		ProviderTransactionNo: &transactionNo,
		UpdatedAt:             time.Now(),
	}
	return order, payment
}

func receiptTask(t *testing.T, payload PayloadSendPaymentReceipt) *asynq.Task {
	t.Helper()
	
	data, err := json.Marshal(payload)
	require.NoError(t, err)
	return asynq.NewTask(TaskSendPaymentReceipt, data)
}

func TestProcessTaskSendPaymentReceipt(t *testing.T) {
	order, payment := newPaidOrder()
	mail := &fakeMailer{}
	notifier := &fakeNotifier{}
	
	processor := &RedisTaskProcessor{store: &fakeStore{order: order, payment: payment}}
	WithMailer(mail)(processor)
	WithNotifier(notifier)(processor)
	
	err := processor.ProcessTaskSendPaymentReceipt(context.Background(), receiptTask(t, PayloadSendPaymentReceipt{
		OrderID:   order.ID,
		PaymentID: payment.ID,
	}))
	require.NoError(t, err)
	
	require.Len(t, mail.receipts, 1)
	require.Equal(t, order.BuyerEmail, mail.receipts[0].To)
	require.Equal(t, order.Code, mail.receipts[0].OrderCode)
	require.Equal(t, "14012345", mail.receipts[0].TransactionNo)
	
	require.Len(t, notifier.notifications, 1)
	require.Equal(t, order.BuyerID, notifier.notifications[0].RecipientID)
	require.Equal(t, notification.TypePayment, notifier.notifications[0].Type)
	require.Contains(t, notifier.notifications[0].Message, "150.000 ₫")
}

func TestProcessTaskSendPaymentReceiptSkipsUnsuccessfulPayment(t *testing.T) {
	order, payment := newPaidOrder()
	payment.Status = db.PaymentStatusFailed
	mail := &fakeMailer{}
	
	processor := &RedisTaskProcessor{store: &fakeStore{order: order, payment: payment}, mailer: mail}
	
	err := processor.ProcessTaskSendPaymentReceipt(context.Background(), receiptTask(t, PayloadSendPaymentReceipt{
		OrderID:   order.ID,
		PaymentID: payment.ID,
	}))
	require.NoError(t, err)
	require.Empty(t, mail.receipts)
}

func TestProcessTaskSendPaymentReceiptErrors(t *testing.T) {
	order, payment := newPaidOrder()
	
	processor := &RedisTaskProcessor{store: &fakeStore{order: order, payment: payment}}
	
	err := processor.ProcessTaskSendPaymentReceipt(context.Background(), asynq.NewTask(TaskSendPaymentReceipt, []byte("{")))
	require.ErrorIs(t, err, asynq.SkipRetry)
	
	err = processor.ProcessTaskSendPaymentReceipt(context.Background(), receiptTask(t, PayloadSendPaymentReceipt{
		OrderID:   uuid.New(),
		PaymentID: payment.ID,
	}))
	require.ErrorIs(t, err, asynq.SkipRetry)
	
	// Lỗi gửi mail thì để asynq thử lại
	processor.mailer = &fakeMailer{err: errors.New("smtp unavailable")}
	err = processor.ProcessTaskSendPaymentReceipt(context.Background(), receiptTask(t, PayloadSendPaymentReceipt{
		OrderID:   order.ID,
		PaymentID: payment.ID,
	}))
	require.Error(t, err)
	require.NotErrorIs(t, err, asynq.SkipRetry)
}

func TestProcessTaskReportPaymentIncident(t *testing.T) {
	occurredAt := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	data, err := json.Marshal(PayloadReportPaymentIncident{
		TxnRef:     "ORD123456",
		Reason:     "secure hash mismatch",
		Source:     "ipn",
		OccurredAt: occurredAt,
	})
	require.NoError(t, err)
	task := asynq.NewTask(TaskReportPaymentIncident, data)
	
	// Không cấu hình Discord thì chỉ ghi log
	processor := &RedisTaskProcessor{}
	require.NoError(t, processor.ProcessTaskReportPaymentIncident(context.Background(), task))
	
	alerter := &fakeAlerter{}
	WithAlerter(alerter)(processor)
	require.NoError(t, processor.ProcessTaskReportPaymentIncident(context.Background(), task))
	
	require.Len(t, alerter.incidents, 1)
	require.Equal(t, "ORD123456", alerter.incidents[0].TxnRef)
	require.Equal(t, "ipn", alerter.incidents[0].Source)
	require.True(t, occurredAt.Equal(alerter.incidents[0].OccurredAt))
}
