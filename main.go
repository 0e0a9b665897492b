package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	
	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/katatrina/storefront-BE/api"
	"github.com/katatrina/storefront-BE/internal/alert"
	db "github.com/katatrina/storefront-BE/internal/db/sqlc"
	"github.com/katatrina/storefront-BE/internal/mailer"
	"github.com/katatrina/storefront-BE/internal/notification"
	paymenttracking "github.com/katatrina/storefront-BE/internal/payment_tracking"
	"github.com/katatrina/storefront-BE/internal/ratelimit"
	"github.com/katatrina/storefront-BE/internal/storage"
	"github.com/katatrina/storefront-BE/internal/util"
	"github.com/katatrina/storefront-BE/internal/vnpay"
	"github.com/katatrina/storefront-BE/internal/worker"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.ngrok.com/ngrok"
	ngrokconfig "golang.ngrok.com/ngrok/config"
)

//	@title			Storefront Payment API
//	@version		1.0.0
//	@description	VNPay payment API for the storefront

//	@host		localhost:8080
//	@BasePath	/v1
//	@schemes	http https

//	@securityDefinitions.apikey	accessToken
//	@in							header
//	@name						Authorization
//	@description				Type "Bearer" followed by a space and JWT token.
func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	
	// Load configurations
	config, err := util.LoadConfig("./app.env")
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config file 😣")
	}
	
	log.Info().Msg("configurations loaded successfully ✅")
	
	runDBMigration(config.MigrationURL, config.DatabaseURL)
	
	// Create connection pool
	connPool, err := pgxpool.New(ctx, config.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to validate db connection string 😣")
	}
	defer connPool.Close()
	
	pingErr := connPool.Ping(ctx)
	if pingErr != nil {
		log.Fatal().Err(pingErr).Msg("failed to connect to db 😣")
	}
	log.Info().Msg("connected to db ✅")
	
	store := db.NewStore(connPool)
	
	redisDb := redis.NewClient(&redis.Options{
		Addr:     config.RedisServerAddress,
		Password: "", // no password set
		DB:       0,  // use default DB
	})
	defer redisDb.Close()
	
	redisOpt := asynq.RedisClientOpt{
		Addr: config.RedisServerAddress,
	}
	
	taskDistributor := worker.NewTaskDistributor(redisOpt)
	
	taskProcessor := newTaskProcessor(ctx, config, redisOpt, store)
	if err = taskProcessor.Start(); err != nil {
		log.Fatal().Err(err).Msg("failed to start task processor 😣")
	}
	defer taskProcessor.Shutdown()
	log.Info().Msg("task processor started ✅")
	
	// Cloudinary chỉ dùng để host ảnh QR, không bắt buộc
	var fileStore storage.FileStore
	if config.CloudinaryURL != "" {
		fileStore, err = storage.NewCloudinaryStore(config.CloudinaryURL)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to create cloudinary store 😣")
		}
		log.Info().Msg("Cloudinary store created successfully ✅")
	}
	
	vnpayConfig := vnpay.Config{
		TmnCode:        config.VNPayTmnCode,
		HashSecret:     config.VNPayHashSecret,
		PaymentURL:     config.VNPayPaymentURL,
		APIURL:         config.VNPayAPIURL,
		ReturnURL:      config.VNPayReturnURL,
		IPNURL:         config.VNPayIPNURL,
		Version:        config.VNPayVersion,
		Command:        config.VNPayCommand,
		CurrCode:       config.VNPayCurrCode,
		Locale:         config.VNPayLocale,
		OrderType:      config.VNPayOrderType,
		PaymentTimeout: config.VNPayPaymentTimeout,
	}
	
	vnpayService, err := vnpay.NewVNPayService(store, taskDistributor, vnpayConfig, fileStore)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create vnpay service 😣")
	}
	log.Info().Msg("VNPay service created successfully ✅")
	
	queryClient := vnpay.NewQueryClient(vnpayService.Config())
	defer queryClient.Close()
	
	paymentTracker, err := paymenttracking.NewPaymentTracker(store, queryClient, vnpayService, config.ReconcileInterval, config.ReconcileAfter)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create payment tracker 😣")
	}
	if err = paymentTracker.Start(); err != nil {
		log.Fatal().Err(err).Msg("failed to start payment tracker 😣")
	}
	defer paymentTracker.Stop()
	
	limiter := ratelimit.NewLimiter(redisDb, "ratelimit:payment", config.PaymentRateLimit, config.PaymentRateWindow)
	
	runHTTPServer(ctx, config, store, vnpayService, limiter)
}

func runDBMigration(migrationURL string, dbSource string) {
	migration, err := migrate.New(migrationURL, dbSource)
	if err != nil {
		log.Fatal().Err(err).Msg("cannot create new migrate instance 😣")
	}
	defer migration.Close()
	
	if err = migration.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		log.Fatal().Err(err).Msg("failed to run migrate up 😣")
	}
	
	log.Info().Msg("db migrated successfully ✅")
}

// newTaskProcessor gắn các kênh gửi (mail, Firestore, Discord) đã được cấu hình.
func newTaskProcessor(ctx context.Context, config util.Config, redisOpt asynq.RedisClientOpt, store db.Store) *worker.RedisTaskProcessor {
	var opts []worker.ProcessorOption
	
	if config.GmailSMTPUsername != "" {
		mailService, err := mailer.NewGmailSender(config.GmailSMTPUsername, config.GmailSMTPPassword)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to create mailer service 😣")
		}
		opts = append(opts, worker.WithMailer(mailService))
	}
	
	if config.FirebaseCredentialFile != "" {
		firebaseApp, err := notification.NewFirebaseApp(ctx, config.FirebaseCredentialFile)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to create firebase app 😣")
		}
		
		notificationService, err := notification.NewNotificationService(ctx, firebaseApp)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to create notification service 😣")
		}
		opts = append(opts, worker.WithNotifier(notificationService))
	}
	
	if config.DiscordBotToken != "" {
		alerter, err := alert.NewDiscordAlerter(config.DiscordBotToken, config.DiscordChannelID)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to create discord alerter 😣")
		}
		opts = append(opts, worker.WithAlerter(alerter))
	}
	
	return worker.NewRedisTaskProcessor(redisOpt, store, opts...)
}

func runHTTPServer(ctx context.Context, config util.Config, store db.Store, paymentService api.PaymentService, limiter api.RateLimiter) {
	server, err := api.NewServer(store, paymentService, limiter, &config)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create HTTP server 😣")
	}
	
	httpServer := &http.Server{
		Addr:    config.HTTPServerAddress,
		Handler: server.Handler(),
	}
	
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("failed to shutdown HTTP server")
		}
	}()
	
	// Dùng ngrok để VNPay gọi được IPN về máy local
	if config.NgrokAuthToken != "" {
		tunnel, err := ngrok.Listen(ctx, ngrokconfig.HTTPEndpoint(), ngrok.WithAuthtoken(config.NgrokAuthToken))
		if err != nil {
			log.Fatal().Err(err).Msg("failed to open ngrok tunnel 😣")
		}
		log.Info().Str("url", tunnel.URL()).Msg("ngrok tunnel established ✅")
		
		err = httpServer.Serve(tunnel)
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("failed to start HTTP server 😣")
		}
		return
	}
	
	log.Info().Str("address", config.HTTPServerAddress).Msg("starting HTTP server 🚀")
	err = httpServer.ListenAndServe()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal().Err(err).Msg("failed to start HTTP server 😣")
	}
}
