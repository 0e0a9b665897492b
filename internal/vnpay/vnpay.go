package vnpay

import (
	"context"
	"time"
	
	"github.com/hibiken/asynq"
	db "github.com/katatrina/storefront-BE/internal/db/sqlc"
	"github.com/katatrina/storefront-BE/internal/storage"
	"github.com/katatrina/storefront-BE/internal/worker"
	"github.com/rs/zerolog/log"
)

const (
	SourceIPN       = "ipn"
	SourceReturn    = "return"
	SourceReconcile = "reconcile"
)

type VNPayService struct {
	config      Config
	dbStore     db.Store
	distributor worker.TaskDistributor
	fileStore   storage.FileStore // nil khi không cấu hình Cloudinary
}

func NewVNPayService(store db.Store, distributor worker.TaskDistributor, config Config, fileStore storage.FileStore) (*VNPayService, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	
	return &VNPayService{
		config:      config,
		dbStore:     store,
		distributor: distributor,
		fileStore:   fileStore,
	}, nil
}

// Config returns the validated merchant configuration.
func (s *VNPayService) Config() Config {
	return s.config
}

func (s *VNPayService) reportIncident(ctx context.Context, txnRef, source, reason string) {
	log.Warn().Str("txn_ref", txnRef).Str("source", source).Str("reason", reason).Msg("payment incident")
	
	err := s.distributor.DistributeTaskReportPaymentIncident(ctx, &worker.PayloadReportPaymentIncident{
		TxnRef:     txnRef,
		Reason:     reason,
		Source:     source,
		OccurredAt: time.Now(),
	}, asynq.Queue(worker.QueueCritical))
	if err != nil {
		log.Error().Err(err).Str("txn_ref", txnRef).Msg("failed to distribute payment incident task")
	}
}
