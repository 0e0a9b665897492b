package db

import (
	"context"
	"errors"
	"fmt"
	
	"github.com/google/uuid"
)

type CreateVNPayPaymentTxParams struct {
	OrderCode          string
	Amount             int64
	RedirectURL        string
	ProviderCreateDate string
}

// CreateVNPayPaymentTx ghi nhận một lượt thanh toán VNPay cho đơn hàng.
// Nếu đơn hàng đã có giao dịch đang chờ, giao dịch đó được làm mới thay vì tạo thêm.
func (store *SQLStore) CreateVNPayPaymentTx(ctx context.Context, arg CreateVNPayPaymentTxParams) (Payment, error) {
	var payment Payment
	
	err := store.ExecTx(ctx, func(qTx *Queries) error {
		// Khóa đơn hàng để các lượt tạo thanh toán đồng thời chạy tuần tự
		order, err := qTx.GetOrderByCodeForUpdate(ctx, arg.OrderCode)
		if err != nil {
			return err
		}
		
		if order.Status != OrderStatusPending {
			return fmt.Errorf("order %s has status %s: %w", order.Code, order.Status, ErrOrderNotPending)
		}
		
		pending, err := qTx.GetPendingPaymentByOrderID(ctx, order.ID)
		switch {
		case err == nil:
			payment, err = qTx.RefreshPendingPayment(ctx, RefreshPendingPaymentParams{
				Amount:             arg.Amount,
				RedirectURL:        arg.RedirectURL,
				ProviderCreateDate: arg.ProviderCreateDate,
				ID:                 pending.ID,
			})
			if err != nil {
				return fmt.Errorf("failed to refresh pending payment: %w", err)
			}
			return nil
		case !errors.Is(err, ErrRecordNotFound):
			return fmt.Errorf("failed to get pending payment: %w", err)
		}
		
		paymentID, _ := uuid.NewV7()
		payment, err = qTx.CreatePayment(ctx, CreatePaymentParams{
			ID:                 paymentID,
			OrderID:            order.ID,
			Amount:             arg.Amount,
			Method:             PaymentMethodVnpay,
			Status:             PaymentStatusPending,
			RedirectURL:        arg.RedirectURL,
			ProviderCreateDate: arg.ProviderCreateDate,
		})
		if err != nil {
			if code, constraint := ErrorDescription(err); code == UniqueViolationCode && constraint == OnePendingPaymentConstraint {
				return ErrPaymentConflict
			}
			return fmt.Errorf("failed to create payment: %w", err)
		}
		
		return nil
	})
	
	return payment, err
}

type HandleVNPayCallbackTxParams struct {
	OrderCode     string
	Succeeded     bool
	TransactionNo *string
	ResponseCode  *string
}

type HandleVNPayCallbackTxResult struct {
	Order   Order   `json:"order"`
	Payment Payment `json:"payment"`
	// Duplicate is true when the callback changed nothing because the payment
	// had already reached a terminal status.
	Duplicate bool `json:"duplicate"`
}

// HandleVNPayCallbackTx chuyển giao dịch đang chờ sang SUCCESS hoặc FAILED.
// Mọi cập nhật đều có điều kiện status = 'pending' nên trạng thái cuối không bao giờ bị ghi đè.
func (store *SQLStore) HandleVNPayCallbackTx(ctx context.Context, arg HandleVNPayCallbackTxParams) (HandleVNPayCallbackTxResult, error) {
	var result HandleVNPayCallbackTxResult
	
	err := store.ExecTx(ctx, func(qTx *Queries) error {
		order, err := qTx.GetOrderByCodeForUpdate(ctx, arg.OrderCode)
		if err != nil {
			return err
		}
		result.Order = order
		
		// Callback lặp lại cho cùng một mã giao dịch VNPay
		if isRealTransactionNo(arg.TransactionNo) {
			processed, err := qTx.GetPaymentByProviderTransactionNo(ctx, GetPaymentByProviderTransactionNoParams{
				OrderID:               order.ID,
				ProviderTransactionNo: arg.TransactionNo,
			})
			if err == nil {
				result.Payment = processed
				result.Duplicate = true
				return nil
			}
			if !errors.Is(err, ErrRecordNotFound) {
				return fmt.Errorf("failed to look up processed payment: %w", err)
			}
		}
		
		pending, err := qTx.GetPendingPaymentByOrderID(ctx, order.ID)
		if err != nil {
			if !errors.Is(err, ErrRecordNotFound) {
				return fmt.Errorf("failed to get pending payment: %w", err)
			}
			
			// Không còn giao dịch chờ: giao dịch gần nhất đã ở trạng thái cuối
			latest, err := qTx.GetLatestPaymentByOrderID(ctx, order.ID)
			if err != nil {
				return err
			}
			result.Payment = latest
			result.Duplicate = true
			return nil
		}
		
		status := PaymentStatusFailed
		if arg.Succeeded {
			status = PaymentStatusSuccess
		}
		
		result.Payment, err = qTx.UpdatePaymentStatus(ctx, UpdatePaymentStatusParams{
			Status:                status,
			ProviderTransactionNo: arg.TransactionNo,
			ResponseCode:          arg.ResponseCode,
			ID:                    pending.ID,
		})
		if err != nil {
			return fmt.Errorf("failed to update payment status: %w", err)
		}
		
		if !arg.Succeeded {
			return nil
		}
		
		result.Order, err = qTx.UpdateOrderStatus(ctx, UpdateOrderStatusParams{
			Status: OrderStatusPaid,
			ID:     order.ID,
		})
		if err != nil {
			if errors.Is(err, ErrRecordNotFound) {
				return fmt.Errorf("order %s has status %s: %w", order.Code, order.Status, ErrOrderNotPending)
			}
			return fmt.Errorf("failed to mark order as paid: %w", err)
		}
		
		return nil
	})
	
	return result, err
}

// VNPay trả vnp_TransactionNo = 0 khi người dùng hủy giao dịch
func isRealTransactionNo(transactionNo *string) bool {
	return transactionNo != nil && *transactionNo != "" && *transactionNo != "0"
}
