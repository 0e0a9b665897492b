package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	
	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	db "github.com/katatrina/storefront-BE/internal/db/sqlc"
	"github.com/katatrina/storefront-BE/internal/mailer"
	"github.com/katatrina/storefront-BE/internal/notification"
	"github.com/katatrina/storefront-BE/internal/util"
	"github.com/rs/zerolog/log"
)

// PayloadSendPaymentReceipt contain all data of the task that we want to store in Redis.
type PayloadSendPaymentReceipt struct {
	OrderID   uuid.UUID `json:"order_id"`
	PaymentID uuid.UUID `json:"payment_id"`
}

func (distributor *RedisTaskDistributor) DistributeTaskSendPaymentReceipt(
	ctx context.Context,
	payload *PayloadSendPaymentReceipt,
	opts ...asynq.Option,
) error {
	jsonPayload, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal task payload: %w", err)
	}
	
	task := asynq.NewTask(TaskSendPaymentReceipt, jsonPayload, opts...)
	info, err := distributor.client.EnqueueContext(ctx, task)
	if err != nil {
		return fmt.Errorf("failed to enqueue task: %w", err)
	}
	
	log.Info().Str("type", task.Type()).Bytes("payload", task.Payload()).Str("queue", info.Queue).Int("max_retry", info.MaxRetry).Msg("task enqueued")
	
	return nil
}

func (processor *RedisTaskProcessor) ProcessTaskSendPaymentReceipt(
	ctx context.Context,
	task *asynq.Task,
) error {
	var payload PayloadSendPaymentReceipt
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %w", asynq.SkipRetry)
	}
	
	order, err := processor.store.GetOrderByID(ctx, payload.OrderID)
	if err != nil {
		if errors.Is(err, db.ErrRecordNotFound) {
			return fmt.Errorf("order %s not found: %w", payload.OrderID, asynq.SkipRetry)
		}
		return fmt.Errorf("failed to get order: %w", err)
	}
	
	payment, err := processor.store.GetLatestPaymentByOrderID(ctx, order.ID)
	if err != nil {
		return fmt.Errorf("failed to get payment: %w", err)
	}
	
	// Chỉ gửi biên nhận cho giao dịch đã thành công
	if payment.ID != payload.PaymentID || payment.Status != db.PaymentStatusSuccess {
		log.Warn().Str("order_code", order.Code).Str("payment_status", string(payment.Status)).
			Msg("payment is not successful, receipt skipped")
		return nil
	}
	
	transactionNo := ""
	if payment.ProviderTransactionNo != nil {
		transactionNo = *payment.ProviderTransactionNo
	}
	
	if processor.mailer != nil && order.BuyerEmail != "" {
		err = processor.mailer.SendPaymentReceipt(ctx, mailer.PaymentReceipt{
			To:            order.BuyerEmail,
			OrderCode:     order.Code,
			Amount:        payment.Amount,
			TransactionNo: transactionNo,
			PaidAt:        payment.UpdatedAt,
		})
		if err != nil {
			return fmt.Errorf("failed to send receipt email: %w", err)
		}
	}
	
	if processor.notifier != nil {
		err = processor.notifier.SendNotification(ctx, &notification.Notification{
			RecipientID: order.BuyerID,
			Title:       "Thanh toán thành công",
			Message:     fmt.Sprintf("Đơn hàng %s đã được thanh toán %s qua VNPay.", order.Code, util.FormatVND(payment.Amount)),
			Type:        notification.TypePayment,
			ReferenceID: order.ID.String(),
		})
		if err != nil {
			return fmt.Errorf("failed to send notification: %w", err)
		}
	}
	
	log.Info().Str("type", task.Type()).Bytes("payload", task.Payload()).
		Str("order_code", order.Code).Msg("task processed")
	
	return nil
}
