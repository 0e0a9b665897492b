package worker

import (
	"context"
	
	"github.com/hibiken/asynq"
	"github.com/katatrina/storefront-BE/internal/alert"
	db "github.com/katatrina/storefront-BE/internal/db/sqlc"
	"github.com/katatrina/storefront-BE/internal/mailer"
	"github.com/katatrina/storefront-BE/internal/notification"
	"github.com/rs/zerolog/log"
)

/*
 This file contains code that will pick up the tasks from the Redis queue and process them.
*/

const (
	QueueCritical = "critical"
	QueueDefault  = "default"
)

type ReceiptMailer interface {
	SendPaymentReceipt(ctx context.Context, receipt mailer.PaymentReceipt) error
}

type Notifier interface {
	SendNotification(ctx context.Context, notification *notification.Notification) error
}

type IncidentAlerter interface {
	ReportIncident(ctx context.Context, incident alert.Incident) error
}

type RedisTaskProcessor struct {
	server   *asynq.Server
	store    db.Store
	mailer   ReceiptMailer
	notifier Notifier
	alerter  IncidentAlerter
}

// ProcessorOption wires an optional sink into the processor.
type ProcessorOption func(*RedisTaskProcessor)

func WithMailer(m ReceiptMailer) ProcessorOption {
	return func(p *RedisTaskProcessor) {
		p.mailer = m
	}
}

func WithNotifier(n Notifier) ProcessorOption {
	return func(p *RedisTaskProcessor) {
		p.notifier = n
	}
}

func WithAlerter(a IncidentAlerter) ProcessorOption {
	return func(p *RedisTaskProcessor) {
		p.alerter = a
	}
}

func NewRedisTaskProcessor(redisOpt asynq.RedisClientOpt, store db.Store, opts ...ProcessorOption) *RedisTaskProcessor {
	server := asynq.NewServer(
		redisOpt,
		asynq.Config{
			Queues: map[string]int{
				QueueCritical: 10,
				QueueDefault:  5,
			},
			ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, task *asynq.Task, err error) {
				log.Error().Err(err).Str("type", task.Type()).
					Bytes("payload", task.Payload()).Msg("process task failed")
			}),
			Logger: NewLogger(),
		},
	)
	
	processor := &RedisTaskProcessor{
		server: server,
		store:  store,
	}
	for _, opt := range opts {
		opt(processor)
	}
	
	return processor
}

// Start registers the task handlers for the mux, attaches the mux to the asynq server, and starts the server.
func (processor *RedisTaskProcessor) Start() error {
	mux := asynq.NewServeMux()
	
	mux.HandleFunc(TaskSendPaymentReceipt, processor.ProcessTaskSendPaymentReceipt)
	mux.HandleFunc(TaskReportPaymentIncident, processor.ProcessTaskReportPaymentIncident)
	
	return processor.server.Start(mux)
}

// Shutdown waits for in-flight tasks and stops the server.
func (processor *RedisTaskProcessor) Shutdown() {
	processor.server.Shutdown()
}
