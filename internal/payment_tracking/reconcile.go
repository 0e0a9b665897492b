package paymenttracking

import (
	"context"
	"time"
	
	db "github.com/katatrina/storefront-BE/internal/db/sqlc"
	"github.com/rs/zerolog/log"
)

// reconcilePendingPayments returns the number of payments that changed state.
func (t *PaymentTracker) reconcilePendingPayments(ctx context.Context) int {
	cutoff := time.Now().Add(-t.after)
	
	payments, err := t.store.ListStalePendingPayments(ctx, db.ListStalePendingPaymentsParams{
		Before: cutoff,
		Limit:  t.batchSize,
	})
	if err != nil {
		log.Error().Err(err).Str("job", "reconcile_payments").Msg("failed to list stale pending payments")
		return 0
	}
	
	if len(payments) == 0 {
		return 0
	}
	
	log.Info().Str("job", "reconcile_payments").Int("count", len(payments)).
		Time("cutoff", cutoff).Msg("Found pending payments to reconcile")
	
	settled := 0
	for _, payment := range payments {
		if ctx.Err() != nil {
			break
		}
		
		if t.reconcilePayment(ctx, payment) {
			settled++
			continue
		}
		
		// Đẩy giao dịch chưa có kết quả xuống cuối hàng đợi để batch sau xét các giao dịch khác
		if err := t.store.TouchPendingPayment(ctx, payment.ID); err != nil {
			log.Error().Err(err).Str("payment_id", payment.ID.String()).Msg("failed to touch pending payment")
		}
	}
	
	return settled
}

// reconcilePayment reports whether the payment left the pending state.
func (t *PaymentTracker) reconcilePayment(ctx context.Context, payment db.ListStalePendingPaymentsRow) bool {
	resp, err := t.querier.QueryTransaction(ctx, payment.OrderCode, payment.ProviderCreateDate, t.serverIP)
	if err != nil {
		log.Error().Err(err).
			Str("order_code", payment.OrderCode).
			Str("payment_id", payment.ID.String()).
			Msg("failed to query vnpay transaction")
		return false
	}
	
	changed, err := t.settler.SettleQueryResult(ctx, resp)
	if err != nil {
		log.Error().Err(err).
			Str("order_code", payment.OrderCode).
			Str("payment_id", payment.ID.String()).
			Msg("failed to settle reconciled payment")
		return false
	}
	
	if changed {
		log.Info().Str("order_code", payment.OrderCode).
			Str("transaction_status", resp.TransactionStatus).Msg("payment reconciled")
		return true
	}
	
	expired, err := t.settler.ExpirePayment(ctx, payment.OrderCode, payment.ProviderCreateDate, resp, time.Now())
	if err != nil {
		log.Error().Err(err).
			Str("order_code", payment.OrderCode).
			Str("payment_id", payment.ID.String()).
			Msg("failed to expire pending payment")
		return false
	}
	
	if !expired {
		log.Debug().Str("order_code", payment.OrderCode).
			Str("response_code", resp.ResponseCode).
			Str("transaction_status", resp.TransactionStatus).Msg("payment still inconclusive")
	}
	
	return expired
}
