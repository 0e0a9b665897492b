package worker

import (
	"context"
	
	"github.com/hibiken/asynq"
)

const (
	TaskSendPaymentReceipt    = "payment:send_receipt"
	TaskReportPaymentIncident = "payment:report_incident"
)

/*
This file will contain the codes to create tasks and distributes them to the Redis queue.
*/

type TaskDistributor interface {
	DistributeTaskSendPaymentReceipt(ctx context.Context, payload *PayloadSendPaymentReceipt, opts ...asynq.Option) error
	DistributeTaskReportPaymentIncident(ctx context.Context, payload *PayloadReportPaymentIncident, opts ...asynq.Option) error
}

type RedisTaskDistributor struct {
	client *asynq.Client // client sends tasks to redis queue.
}

func NewTaskDistributor(redisOpt asynq.RedisClientOpt) TaskDistributor {
	client := asynq.NewClient(redisOpt)
	
	return &RedisTaskDistributor{
		client: client,
	}
}
