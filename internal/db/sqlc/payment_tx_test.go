package db

import (
	"context"
	"testing"
	"time"
	
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/require"
)

var (
	orderColumns = []string{
		"id", "code", "buyer_id", "buyer_email", "total_amount", "status",
		"payment_method", "note", "created_at", "updated_at",
	}
	paymentColumns = []string{
		"id", "order_id", "amount", "method", "status", "redirect_url", "provider_create_date",
		"provider_transaction_no", "response_code", "created_at", "updated_at",
	}
)

const (
	lockOrderSQL         = `FROM orders\s+WHERE code = \$1\s+FOR UPDATE`
	pendingPaymentSQL    = `WHERE order_id = \$1 AND status = 'pending'\s+FOR UPDATE`
	latestPaymentSQL     = `ORDER BY created_at DESC`
	paymentByTxnNoSQL    = `provider_transaction_no = \$2`
	createPaymentSQL     = `INSERT INTO payments`
	refreshPaymentSQL    = `UPDATE payments\s+SET amount`
	updatePaymentSQL     = `UPDATE payments\s+SET status`
	updateOrderStatusSQL = `UPDATE orders\s+SET status`
)

func newMockStore(t *testing.T) (Store, pgxmock.PgxPoolIface) {
	t.Helper()
	
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	
	return NewStore(mock), mock
}

func orderRow(order Order) *pgxmock.Rows {
	return pgxmock.NewRows(orderColumns).AddRow(
		order.ID, order.Code, order.BuyerID, order.BuyerEmail, order.TotalAmount, order.Status,
		order.PaymentMethod, order.Note, order.CreatedAt, order.UpdatedAt,
	)
}

func paymentRow(payment Payment) *pgxmock.Rows {
	return pgxmock.NewRows(paymentColumns).AddRow(
		payment.ID, payment.OrderID, payment.Amount, payment.Method, payment.Status, payment.RedirectURL,
		payment.ProviderCreateDate, payment.ProviderTransactionNo, payment.ResponseCode, payment.CreatedAt, payment.UpdatedAt,
	)
}

func sampleOrder(status OrderStatus) Order {
	now := time.Now().Truncate(time.Second)
	return Order{
		ID:            uuid.New(),
		Code:          "ORD123456",
		BuyerID:       "user-1",
		BuyerEmail:    "buyer@example.vn",
		TotalAmount:   150000,
		Status:        status,
		PaymentMethod: PaymentMethodVnpay,
		Note:          (*string)(nil),
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

func samplePayment(order Order, status PaymentStatus) Payment {
	now := time.Now().Truncate(time.Second)
	return Payment{
		ID:                    uuid.New(),
		OrderID:               order.ID,
		Amount:                order.TotalAmount,
		Method:                PaymentMethodVnpay,
		Status:                status,
		RedirectURL:           "https://sandbox.vnpayment.vn/paymentv2/vpcpay.html?vnp_TxnRef=" + order.Code,
		ProviderCreateDate:    "20240101120000",
		ProviderTransactionNo: (*string)(nil),
		ResponseCode:          (*string)(nil),
		CreatedAt:             now,
		UpdatedAt:             now,
	}
}

func stringPtr(s string) *string {
	return &s
}

func TestCreateVNPayPaymentTxCreatesPayment(t *testing.T) {
	store, mock := newMockStore(t)
	order := sampleOrder(OrderStatusPending)
	payment := samplePayment(order, PaymentStatusPending)
	
	mock.ExpectBegin()
	mock.ExpectQuery(lockOrderSQL).WithArgs(order.Code).WillReturnRows(orderRow(order))
	mock.ExpectQuery(pendingPaymentSQL).WithArgs(order.ID).WillReturnError(pgx.ErrNoRows)
	mock.ExpectQuery(createPaymentSQL).
		WithArgs(pgxmock.AnyArg(), order.ID, order.TotalAmount, PaymentMethodVnpay, PaymentStatusPending, payment.RedirectURL, payment.ProviderCreateDate).
		WillReturnRows(paymentRow(payment))
	mock.ExpectCommit()
	
	result, err := store.CreateVNPayPaymentTx(context.Background(), CreateVNPayPaymentTxParams{
		OrderCode:          order.Code,
		Amount:             order.TotalAmount,
		RedirectURL:        payment.RedirectURL,
		ProviderCreateDate: payment.ProviderCreateDate,
	})
	require.NoError(t, err)
	require.Equal(t, payment.ID, result.ID)
	require.Equal(t, PaymentStatusPending, result.Status)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateVNPayPaymentTxRefreshesPendingPayment(t *testing.T) {
	store, mock := newMockStore(t)
	order := sampleOrder(OrderStatusPending)
	pending := samplePayment(order, PaymentStatusPending)
	
	refreshed := pending
	refreshed.RedirectURL = pending.RedirectURL + "&vnp_BankCode=NCB"
	refreshed.ProviderCreateDate = "20240101130000"
	
	mock.ExpectBegin()
	mock.ExpectQuery(lockOrderSQL).WithArgs(order.Code).WillReturnRows(orderRow(order))
	mock.ExpectQuery(pendingPaymentSQL).WithArgs(order.ID).WillReturnRows(paymentRow(pending))
	mock.ExpectQuery(refreshPaymentSQL).
		WithArgs(order.TotalAmount, refreshed.RedirectURL, refreshed.ProviderCreateDate, pending.ID).
		WillReturnRows(paymentRow(refreshed))
	mock.ExpectCommit()
	
	result, err := store.CreateVNPayPaymentTx(context.Background(), CreateVNPayPaymentTxParams{
		OrderCode:          order.Code,
		Amount:             order.TotalAmount,
		RedirectURL:        refreshed.RedirectURL,
		ProviderCreateDate: refreshed.ProviderCreateDate,
	})
	require.NoError(t, err)
	require.Equal(t, pending.ID, result.ID)
	require.Equal(t, refreshed.RedirectURL, result.RedirectURL)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateVNPayPaymentTxPendingConflict(t *testing.T) {
	store, mock := newMockStore(t)
	order := sampleOrder(OrderStatusPending)
	
	mock.ExpectBegin()
	mock.ExpectQuery(lockOrderSQL).WithArgs(order.Code).WillReturnRows(orderRow(order))
	mock.ExpectQuery(pendingPaymentSQL).WithArgs(order.ID).WillReturnError(pgx.ErrNoRows)
	mock.ExpectQuery(createPaymentSQL).WillReturnError(&pgconn.PgError{
		Code:           UniqueViolationCode,
		ConstraintName: OnePendingPaymentConstraint,
	})
	mock.ExpectRollback()
	
	_, err := store.CreateVNPayPaymentTx(context.Background(), CreateVNPayPaymentTxParams{
		OrderCode:          order.Code,
		Amount:             order.TotalAmount,
		RedirectURL:        "https://sandbox.vnpayment.vn/paymentv2/vpcpay.html",
		ProviderCreateDate: "20240101120000",
	})
	require.ErrorIs(t, err, ErrPaymentConflict)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateVNPayPaymentTxRejectsPaidOrder(t *testing.T) {
	store, mock := newMockStore(t)
	order := sampleOrder(OrderStatusPaid)
	
	mock.ExpectBegin()
	mock.ExpectQuery(lockOrderSQL).WithArgs(order.Code).WillReturnRows(orderRow(order))
	mock.ExpectRollback()
	
	_, err := store.CreateVNPayPaymentTx(context.Background(), CreateVNPayPaymentTxParams{
		OrderCode: order.Code,
		Amount:    order.TotalAmount,
	})
	require.ErrorIs(t, err, ErrOrderNotPending)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateVNPayPaymentTxOrderNotFound(t *testing.T) {
	store, mock := newMockStore(t)
	
	mock.ExpectBegin()
	mock.ExpectQuery(lockOrderSQL).WithArgs("ORD000000").WillReturnError(pgx.ErrNoRows)
	mock.ExpectRollback()
	
	_, err := store.CreateVNPayPaymentTx(context.Background(), CreateVNPayPaymentTxParams{OrderCode: "ORD000000"})
	require.ErrorIs(t, err, ErrRecordNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestHandleVNPayCallbackTxSuccess(t *testing.T) {
	store, mock := newMockStore(t)
	order := sampleOrder(OrderStatusPending)
	pending := samplePayment(order, PaymentStatusPending)
	
	settled := pending
	settled.Status = PaymentStatusSuccess
	settled.ProviderTransactionNo = stringPtr("14012345")
	settled.ResponseCode = stringPtr("00")
	
	paid := order
	paid.Status = OrderStatusPaid
	
	mock.ExpectBegin()
	mock.ExpectQuery(lockOrderSQL).WithArgs(order.Code).WillReturnRows(orderRow(order))
	mock.ExpectQuery(paymentByTxnNoSQL).WithArgs(order.ID, pgxmock.AnyArg()).WillReturnError(pgx.ErrNoRows)
	mock.ExpectQuery(pendingPaymentSQL).WithArgs(order.ID).WillReturnRows(paymentRow(pending))
	mock.ExpectQuery(updatePaymentSQL).
		WithArgs(PaymentStatusSuccess, pgxmock.AnyArg(), pgxmock.AnyArg(), pending.ID).
		WillReturnRows(paymentRow(settled))
	mock.ExpectQuery(updateOrderStatusSQL).WithArgs(OrderStatusPaid, order.ID).WillReturnRows(orderRow(paid))
	mock.ExpectCommit()
	
	result, err := store.HandleVNPayCallbackTx(context.Background(), HandleVNPayCallbackTxParams{
		OrderCode:     order.Code,
		Succeeded:     true,
		TransactionNo: stringPtr("14012345"),
		ResponseCode:  stringPtr("00"),
	})
	require.NoError(t, err)
	require.False(t, result.Duplicate)
	require.Equal(t, PaymentStatusSuccess, result.Payment.Status)
	require.Equal(t, OrderStatusPaid, result.Order.Status)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestHandleVNPayCallbackTxFailure(t *testing.T) {
	store, mock := newMockStore(t)
	order := sampleOrder(OrderStatusPending)
	pending := samplePayment(order, PaymentStatusPending)
	
	failed := pending
	failed.Status = PaymentStatusFailed
	failed.ResponseCode = stringPtr("24")
	
	// vnp_TransactionNo = 0 không dùng để dò callback lặp lại
	mock.ExpectBegin()
	mock.ExpectQuery(lockOrderSQL).WithArgs(order.Code).WillReturnRows(orderRow(order))
	mock.ExpectQuery(pendingPaymentSQL).WithArgs(order.ID).WillReturnRows(paymentRow(pending))
	mock.ExpectQuery(updatePaymentSQL).
		WithArgs(PaymentStatusFailed, pgxmock.AnyArg(), pgxmock.AnyArg(), pending.ID).
		WillReturnRows(paymentRow(failed))
	mock.ExpectCommit()
	
	result, err := store.HandleVNPayCallbackTx(context.Background(), HandleVNPayCallbackTxParams{
		OrderCode:     order.Code,
		Succeeded:     false,
		TransactionNo: stringPtr("0"),
		ResponseCode:  stringPtr("24"),
	})
	require.NoError(t, err)
	require.False(t, result.Duplicate)
	require.Equal(t, PaymentStatusFailed, result.Payment.Status)
	require.Equal(t, OrderStatusPending, result.Order.Status)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestHandleVNPayCallbackTxReplayByTransactionNo(t *testing.T) {
	store, mock := newMockStore(t)
	order := sampleOrder(OrderStatusPaid)
	processed := samplePayment(order, PaymentStatusSuccess)
	processed.ProviderTransactionNo = stringPtr("14012345")
	
	mock.ExpectBegin()
	mock.ExpectQuery(lockOrderSQL).WithArgs(order.Code).WillReturnRows(orderRow(order))
	mock.ExpectQuery(paymentByTxnNoSQL).WithArgs(order.ID, pgxmock.AnyArg()).WillReturnRows(paymentRow(processed))
	mock.ExpectCommit()
	
	result, err := store.HandleVNPayCallbackTx(context.Background(), HandleVNPayCallbackTxParams{
		OrderCode:     order.Code,
		Succeeded:     true,
		TransactionNo: stringPtr("14012345"),
	})
	require.NoError(t, err)
	require.True(t, result.Duplicate)
	require.Equal(t, processed.ID, result.Payment.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestHandleVNPayCallbackTxTerminalPaymentIsNotOverwritten(t *testing.T) {
	store, mock := newMockStore(t)
	order := sampleOrder(OrderStatusPending)
	failed := samplePayment(order, PaymentStatusFailed)
	
	mock.ExpectBegin()
	mock.ExpectQuery(lockOrderSQL).WithArgs(order.Code).WillReturnRows(orderRow(order))
	mock.ExpectQuery(pendingPaymentSQL).WithArgs(order.ID).WillReturnError(pgx.ErrNoRows)
	mock.ExpectQuery(latestPaymentSQL).WithArgs(order.ID).WillReturnRows(paymentRow(failed))
	mock.ExpectCommit()
	
	result, err := store.HandleVNPayCallbackTx(context.Background(), HandleVNPayCallbackTxParams{
		OrderCode: order.Code,
		Succeeded: true,
	})
	require.NoError(t, err)
	require.True(t, result.Duplicate)
	require.Equal(t, PaymentStatusFailed, result.Payment.Status)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestHandleVNPayCallbackTxCanceledOrder(t *testing.T) {
	store, mock := newMockStore(t)
	order := sampleOrder(OrderStatusCanceled)
	pending := samplePayment(order, PaymentStatusPending)
	
	settled := pending
	settled.Status = PaymentStatusSuccess
	
	mock.ExpectBegin()
	mock.ExpectQuery(lockOrderSQL).WithArgs(order.Code).WillReturnRows(orderRow(order))
	mock.ExpectQuery(pendingPaymentSQL).WithArgs(order.ID).WillReturnRows(paymentRow(pending))
	mock.ExpectQuery(updatePaymentSQL).
		WithArgs(PaymentStatusSuccess, pgxmock.AnyArg(), pgxmock.AnyArg(), pending.ID).
		WillReturnRows(paymentRow(settled))
	mock.ExpectQuery(updateOrderStatusSQL).WithArgs(OrderStatusPaid, order.ID).WillReturnError(pgx.ErrNoRows)
	mock.ExpectRollback()
	
	_, err := store.HandleVNPayCallbackTx(context.Background(), HandleVNPayCallbackTxParams{
		OrderCode: order.Code,
		Succeeded: true,
	})
	require.ErrorIs(t, err, ErrOrderNotPending)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTouchPendingPayment(t *testing.T) {
	store, mock := newMockStore(t)
	paymentID := uuid.New()
	
	mock.ExpectExec(`UPDATE payments\s+SET updated_at = now\(\)\s+WHERE id = \$1 AND status = 'pending'`).
		WithArgs(paymentID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	
	require.NoError(t, store.TouchPendingPayment(context.Background(), paymentID))
	require.NoError(t, mock.ExpectationsWereMet())
}
