package vnpay

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"time"
	
	"github.com/hibiken/asynq"
	db "github.com/katatrina/storefront-BE/internal/db/sqlc"
	"github.com/katatrina/storefront-BE/internal/metrics"
	"github.com/katatrina/storefront-BE/internal/util"
	"github.com/katatrina/storefront-BE/internal/worker"
	"github.com/rs/zerolog/log"
)

type settlement struct {
	Source        string
	TxnRef        string
	Amount        *int64
	Succeeded     bool
	TransactionNo string
	ResponseCode  string
}

// ProcessCallback xác thực và xử lý callback (IPN hoặc return URL) từ VNPay.
// Callback không hợp lệ không bao giờ làm thay đổi trạng thái.
func (s *VNPayService) ProcessCallback(ctx context.Context, source string, values url.Values) (*CallbackResult, error) {
	result := &CallbackResult{}
	outcome := metrics.OutcomeError
	defer func() {
		metrics.RecordCallback(source, outcome)
		s.logCallback(ctx, source, values, result, outcome)
	}()
	
	params, parseErr := ParseCallback(values)
	result.CallbackParams = params
	result.Verified = Verify(values, s.config.HashSecret)
	if !result.Verified {
		outcome = metrics.OutcomeInvalidSignature
		s.reportIncident(ctx, params.TxnRef, source, "secure hash mismatch")
		return result, ErrVerification
	}
	
	if parseErr != nil {
		outcome = metrics.OutcomeInvalidRequest
		return result, parseErr
	}
	
	result.Succeeded = params.ResponseCode == ResponseCodeSuccess
	
	txResult, err := s.settle(ctx, settlement{
		Source:        source,
		TxnRef:        params.TxnRef,
		Amount:        params.Amount,
		Succeeded:     result.Succeeded,
		TransactionNo: params.TransactionNo,
		ResponseCode:  params.ResponseCode,
	})
	outcome = settleOutcome(txResult, result.Succeeded, err)
	if err != nil {
		return result, err
	}
	
	result.Duplicate = txResult.Duplicate
	return result, nil
}

// SettleQueryResult applies a verified querydr answer. It reports false when
// the answer is not conclusive and the payment should stay pending.
func (s *VNPayService) SettleQueryResult(ctx context.Context, resp *QueryTransactionResponse) (bool, error) {
	if resp.ResponseCode != ResponseCodeSuccess {
		return false, nil
	}
	
	var succeeded bool
	switch resp.TransactionStatus {
	case TransactionStatusSuccess:
		succeeded = true
	case TransactionStatusFailed:
		succeeded = false
	default:
		return false, nil
	}
	
	var amount *int64
	if resp.Amount != "" {
		parsed, err := strconv.ParseInt(resp.Amount, 10, 64)
		if err != nil {
			return false, fmt.Errorf("%w: invalid querydr amount %q", ErrValidation, resp.Amount)
		}
		amount = &parsed
	}
	
	txResult, err := s.settle(ctx, settlement{
		Source:        SourceReconcile,
		TxnRef:        resp.TxnRef,
		Amount:        amount,
		Succeeded:     succeeded,
		TransactionNo: resp.TransactionNo,
		ResponseCode:  resp.TransactionStatus,
	})
	metrics.RecordCallback(SourceReconcile, settleOutcome(txResult, succeeded, err))
	if err != nil {
		return false, err
	}
	
	return !txResult.Duplicate, nil
}

// ExpirePayment marks a pending payment FAILED once its vnp_ExpireDate plus
// ExpiryGracePeriod has passed and querydr still reports it unfinished (01) or
// unknown (91). The payer can no longer complete it on the gateway.
func (s *VNPayService) ExpirePayment(ctx context.Context, txnRef string, createDate string, resp *QueryTransactionResponse, now time.Time) (bool, error) {
	created, err := ParseDate(createDate)
	if err != nil {
		return false, fmt.Errorf("%w: invalid create date %q", ErrValidation, createDate)
	}
	
	if now.Before(created.Add(s.config.PaymentTimeout + ExpiryGracePeriod)) {
		return false, nil
	}
	
	var responseCode string
	switch {
	case resp.ResponseCode == QueryResponseCodeNotFound:
		responseCode = resp.ResponseCode
	case resp.ResponseCode == ResponseCodeSuccess && resp.TransactionStatus == TransactionStatusPending:
		responseCode = resp.TransactionStatus
	default:
		return false, nil
	}
	
	txResult, err := s.settle(ctx, settlement{
		Source:       SourceReconcile,
		TxnRef:       txnRef,
		Succeeded:    false,
		ResponseCode: responseCode,
	})
	metrics.RecordCallback(SourceReconcile, settleOutcome(txResult, false, err))
	if err != nil {
		return false, err
	}
	
	if !txResult.Duplicate {
		log.Info().Str("txn_ref", txnRef).Str("response_code", responseCode).
			Time("created_at", created).Msg("pending payment expired")
	}
	
	return !txResult.Duplicate, nil
}

// settle kiểm tra đơn hàng, số tiền rồi chuyển trạng thái giao dịch.
func (s *VNPayService) settle(ctx context.Context, arg settlement) (db.HandleVNPayCallbackTxResult, error) {
	var txResult db.HandleVNPayCallbackTxResult
	
	if arg.TxnRef == "" {
		return txResult, fmt.Errorf("%w: %s is required", ErrValidation, FieldTxnRef)
	}
	
	order, err := s.dbStore.GetOrderByCode(ctx, arg.TxnRef)
	if err != nil {
		if errors.Is(err, db.ErrRecordNotFound) {
			return txResult, fmt.Errorf("%w: %s", ErrNotFound, arg.TxnRef)
		}
		return txResult, fmt.Errorf("failed to get order %s: %w", arg.TxnRef, err)
	}
	
	if arg.Amount != nil && *arg.Amount != order.TotalAmount*AmountMultiplier {
		s.reportIncident(ctx, arg.TxnRef, arg.Source, fmt.Sprintf("amount mismatch: expected %d, got %d",
			order.TotalAmount*AmountMultiplier, *arg.Amount))
		return txResult, fmt.Errorf("%w: order %s expects %d, got %d",
			ErrAmountMismatch, order.Code, order.TotalAmount*AmountMultiplier, *arg.Amount)
	}
	
	txParams := db.HandleVNPayCallbackTxParams{
		OrderCode: order.Code,
		Succeeded: arg.Succeeded,
	}
	if arg.TransactionNo != "" {
		txParams.TransactionNo = util.StringPointer(arg.TransactionNo)
	}
	if arg.ResponseCode != "" {
		txParams.ResponseCode = util.StringPointer(arg.ResponseCode)
	}
	
	txResult, err = s.dbStore.HandleVNPayCallbackTx(ctx, txParams)
	if err != nil {
		switch {
		case errors.Is(err, db.ErrRecordNotFound):
			return txResult, fmt.Errorf("%w: no payment for order %s", ErrNotFound, order.Code)
		case errors.Is(err, db.ErrOrderNotPending):
			return txResult, fmt.Errorf("%w: %w", ErrValidation, err)
		}
		return txResult, fmt.Errorf("failed to settle payment for order %s: %w", order.Code, err)
	}
	
	if txResult.Duplicate {
		log.Info().Str("txn_ref", arg.TxnRef).Str("source", arg.Source).
			Str("payment_status", string(txResult.Payment.Status)).Msg("payment already processed, callback ignored")
		return txResult, nil
	}
	
	log.Info().Str("txn_ref", arg.TxnRef).Str("source", arg.Source).
		Str("payment_status", string(txResult.Payment.Status)).Msg("payment settled")
	
	if arg.Succeeded {
		err = s.distributor.DistributeTaskSendPaymentReceipt(ctx, &worker.PayloadSendPaymentReceipt{
			OrderID:   txResult.Order.ID,
			PaymentID: txResult.Payment.ID,
		}, asynq.MaxRetry(5), asynq.Queue(worker.QueueDefault))
		if err != nil {
			log.Error().Err(err).Str("txn_ref", arg.TxnRef).Msg("failed to distribute payment receipt task")
		}
	}
	
	return txResult, nil
}

func settleOutcome(txResult db.HandleVNPayCallbackTxResult, succeeded bool, err error) string {
	switch {
	case err == nil && txResult.Duplicate:
		return metrics.OutcomeDuplicate
	case err == nil && succeeded:
		return metrics.OutcomeSuccess
	case err == nil:
		return metrics.OutcomeFailed
	case errors.Is(err, ErrAmountMismatch):
		return metrics.OutcomeAmountMismatch
	case errors.Is(err, ErrNotFound):
		return metrics.OutcomeOrderNotFound
	case errors.Is(err, ErrValidation):
		return metrics.OutcomeInvalidRequest
	default:
		return metrics.OutcomeError
	}
}

func (s *VNPayService) logCallback(ctx context.Context, source string, values url.Values, result *CallbackResult, outcome string) {
	_, err := s.dbStore.CreatePaymentCallback(ctx, db.CreatePaymentCallbackParams{
		TxnRef:   result.TxnRef,
		Source:   source,
		RawQuery: values.Encode(),
		Verified: result.Verified,
		Outcome:  outcome,
	})
	if err != nil {
		log.Error().Err(err).Str("txn_ref", result.TxnRef).Msg("failed to record payment callback")
	}
}
