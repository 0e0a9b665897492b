package vnpay

import (
	"context"
	"fmt"
	"sync"
	"time"
	
	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	db "github.com/katatrina/storefront-BE/internal/db/sqlc"
	"github.com/katatrina/storefront-BE/internal/worker"
)

// fakeStore giữ đơn hàng và giao dịch trong bộ nhớ, mô phỏng các điều kiện
// status = 'pending' của SQLStore.
type fakeStore struct {
	db.Store
	
	mu        sync.Mutex
	orders    map[string]db.Order
	payments  []db.Payment
	callbacks []db.CreatePaymentCallbackParams
}

func newFakeStore(orders ...db.Order) *fakeStore {
	store := &fakeStore{orders: make(map[string]db.Order)}
	for _, order := range orders {
		store.orders[order.Code] = order
	}
	return store
}

func (s *fakeStore) GetOrderByCode(_ context.Context, code string) (db.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	
	order, ok := s.orders[code]
	if !ok {
		return db.Order{}, db.ErrRecordNotFound
	}
	return order, nil
}

func (s *fakeStore) CreateVNPayPaymentTx(_ context.Context, arg db.CreateVNPayPaymentTxParams) (db.Payment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	
	order, ok := s.orders[arg.OrderCode]
	if !ok {
		return db.Payment{}, db.ErrRecordNotFound
	}
	if order.Status != db.OrderStatusPending {
		return db.Payment{}, fmt.Errorf("order %s: %w", order.Code, db.ErrOrderNotPending)
	}
	
	for i, payment := range s.payments {
		if payment.OrderID == order.ID && payment.Status == db.PaymentStatusPending {
			s.payments[i].RedirectURL = arg.RedirectURL
			s.payments[i].ProviderCreateDate = arg.ProviderCreateDate
			s.payments[i].Amount = arg.Amount
			return s.payments[i], nil
		}
	}
	
	payment := db.Payment{
		ID:                 uuid.New(),
		OrderID:            order.ID,
		Amount:             arg.Amount,
		Method:             db.PaymentMethodVnpay,
		Status:             db.PaymentStatusPending,
		RedirectURL:        arg.RedirectURL,
		ProviderCreateDate: arg.ProviderCreateDate,
		CreatedAt:          time.Now(),
		UpdatedAt:          time.Now(),
	}
	s.payments = append(s.payments, payment)
	return payment, nil
}

func (s *fakeStore) HandleVNPayCallbackTx(_ context.Context, arg db.HandleVNPayCallbackTxParams) (db.HandleVNPayCallbackTxResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	
	var result db.HandleVNPayCallbackTxResult
	
	order, ok := s.orders[arg.OrderCode]
	if !ok {
		return result, db.ErrRecordNotFound
	}
	result.Order = order
	
	if arg.TransactionNo != nil && *arg.TransactionNo != "" && *arg.TransactionNo != "0" {
		for _, payment := range s.payments {
			if payment.OrderID == order.ID && payment.ProviderTransactionNo != nil && *payment.ProviderTransactionNo == *arg.TransactionNo {
				result.Payment = payment
				result.Duplicate = true
				return result, nil
			}
		}
	}
	
	pendingIdx, latestIdx := -1, -1
	for i, payment := range s.payments {
		if payment.OrderID != order.ID {
			continue
		}
		latestIdx = i
		if payment.Status == db.PaymentStatusPending {
			pendingIdx = i
		}
	}
	
	if pendingIdx < 0 {
		if latestIdx < 0 {
			return result, db.ErrRecordNotFound
		}
		result.Payment = s.payments[latestIdx]
		result.Duplicate = true
		return result, nil
	}
	
	if arg.Succeeded {
		if order.Status != db.OrderStatusPending {
			return result, fmt.Errorf("order %s: %w", order.Code, db.ErrOrderNotPending)
		}
		s.payments[pendingIdx].Status = db.PaymentStatusSuccess
		order.Status = db.OrderStatusPaid
		s.orders[order.Code] = order
		result.Order = order
	} else {
		s.payments[pendingIdx].Status = db.PaymentStatusFailed
	}
	s.payments[pendingIdx].ProviderTransactionNo = arg.TransactionNo
	s.payments[pendingIdx].ResponseCode = arg.ResponseCode
	result.Payment = s.payments[pendingIdx]
	
	return result, nil
}

func (s *fakeStore) CreatePaymentCallback(_ context.Context, arg db.CreatePaymentCallbackParams) (db.PaymentCallback, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	
	s.callbacks = append(s.callbacks, arg)
	return db.PaymentCallback{
		ID:       int64(len(s.callbacks)),
		TxnRef:   arg.TxnRef,
		Source:   arg.Source,
		RawQuery: arg.RawQuery,
		Verified: arg.Verified,
		Outcome:  arg.Outcome,
	}, nil
}

func (s *fakeStore) order(code string) db.Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.orders[code]
}

func (s *fakeStore) paymentsOf(orderID uuid.UUID) []db.Payment {
	s.mu.Lock()
	defer s.mu.Unlock()
	
	var payments []db.Payment
	for _, payment := range s.payments {
		if payment.OrderID == orderID {
			payments = append(payments, payment)
		}
	}
	return payments
}

type fakeDistributor struct {
	mu        sync.Mutex
	receipts  []*worker.PayloadSendPaymentReceipt
	incidents []*worker.PayloadReportPaymentIncident
}

func (d *fakeDistributor) DistributeTaskSendPaymentReceipt(_ context.Context, payload *worker.PayloadSendPaymentReceipt, _ ...asynq.Option) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.receipts = append(d.receipts, payload)
	return nil
}

func (d *fakeDistributor) DistributeTaskReportPaymentIncident(_ context.Context, payload *worker.PayloadReportPaymentIncident, _ ...asynq.Option) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.incidents = append(d.incidents, payload)
	return nil
}

type fakeFileStore struct {
	uploads []string
}

func (f *fakeFileStore) UploadFile(_ context.Context, file []byte, filename string, folder string) (string, error) {
	if len(file) == 0 {
		return "", fmt.Errorf("empty file")
	}
	f.uploads = append(f.uploads, folder+"/"+filename)
	return "https://res.cloudinary.com/demo/image/upload/" + folder + "/" + filename, nil
}
