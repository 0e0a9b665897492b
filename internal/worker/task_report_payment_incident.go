package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
	
	"github.com/hibiken/asynq"
	"github.com/katatrina/storefront-BE/internal/alert"
	"github.com/rs/zerolog/log"
)

type PayloadReportPaymentIncident struct {
	TxnRef     string    `json:"txn_ref"`
	Reason     string    `json:"reason"`
	Source     string    `json:"source"`
	OccurredAt time.Time `json:"occurred_at"`
}

func (distributor *RedisTaskDistributor) DistributeTaskReportPaymentIncident(
	ctx context.Context,
	payload *PayloadReportPaymentIncident,
	opts ...asynq.Option,
) error {
	jsonPayload, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal task payload: %w", err)
	}
	
	task := asynq.NewTask(TaskReportPaymentIncident, jsonPayload, opts...)
	info, err := distributor.client.EnqueueContext(ctx, task)
	if err != nil {
		return fmt.Errorf("failed to enqueue task: %w", err)
	}
	
	log.Info().Str("type", task.Type()).Str("queue", info.Queue).Int("max_retry", info.MaxRetry).Msg("task enqueued")
	
	return nil
}

func (processor *RedisTaskProcessor) ProcessTaskReportPaymentIncident(
	ctx context.Context,
	task *asynq.Task,
) error {
	var payload PayloadReportPaymentIncident
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %w", asynq.SkipRetry)
	}
	
	if processor.alerter == nil {
		log.Warn().Str("txn_ref", payload.TxnRef).Str("reason", payload.Reason).
			Msg("payment incident (no alert channel configured)")
		return nil
	}
	
	err := processor.alerter.ReportIncident(ctx, alert.Incident{
		TxnRef:     payload.TxnRef,
		Reason:     payload.Reason,
		Source:     payload.Source,
		OccurredAt: payload.OccurredAt,
	})
	if err != nil {
		return err
	}
	
	log.Info().Str("type", task.Type()).Str("txn_ref", payload.TxnRef).Msg("task processed")
	
	return nil
}
