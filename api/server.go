package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	db "github.com/katatrina/storefront-BE/internal/db/sqlc"
	"github.com/katatrina/storefront-BE/internal/metrics"
	"github.com/katatrina/storefront-BE/internal/token"
	"github.com/katatrina/storefront-BE/internal/util"
	"github.com/katatrina/storefront-BE/internal/vnpay"
	"github.com/rs/zerolog/log"
)

// PaymentService là phần nghiệp vụ VNPay mà HTTP layer cần.
type PaymentService interface {
	CreatePayment(ctx context.Context, order db.Order, arg vnpay.CreatePaymentParams) (*vnpay.CreatePaymentResult, error)
	ProcessCallback(ctx context.Context, source string, values url.Values) (*vnpay.CallbackResult, error)
}

type RateLimiter interface {
	Allow(ctx context.Context, identifier string) error
}

type Server struct {
	router         *gin.Engine
	dbStore        db.Store
	tokenMaker     token.Maker
	config         *util.Config
	paymentService PaymentService
	limiter        RateLimiter
}

// NewServer creates a new HTTP server and set up routing.
func NewServer(store db.Store, paymentService PaymentService, limiter RateLimiter, config *util.Config) (*Server, error) {
	// Create a new JWT token maker
	tokenMaker, err := token.NewJWTMaker(config.TokenSecretKey)
	if err != nil {
		return nil, fmt.Errorf("failed to create token maker: %w", err)
	}
	log.Info().Msg("Token maker created successfully ✅")
	
	server := &Server{
		dbStore:        store,
		tokenMaker:     tokenMaker,
		config:         config,
		paymentService: paymentService,
		limiter:        limiter,
	}
	
	server.setupRouter()
	return server, nil
}

// setupRouter configures the HTTP server routes.
func (server *Server) setupRouter() *gin.Engine {
	router := gin.Default()
	router.Use(metrics.Middleware())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     server.config.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE"},
		AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}))
	
	router.GET("/health", server.healthCheck)
	router.GET("/metrics", metrics.Handler())
	
	v1 := router.Group("/v1")
	
	v1.POST("/tokens/verify", server.verifyAccessToken)
	
	orderGroup := v1.Group("/orders", authMiddleware(server.tokenMaker))
	{
		orderGroup.POST(":orderID/payments/vnpay", server.createVNPayPayment) // Tạo lượt thanh toán VNPay cho đơn hàng
		orderGroup.GET(":orderID/payment", server.getOrderPayment)            // Lấy giao dịch gần nhất của đơn hàng
	}
	
	// VNPay gọi vào, không có access token
	vnpayGroup := v1.Group("/payments/vnpay")
	{
		vnpayGroup.GET("ipn", server.handleVNPayIPN)
		vnpayGroup.GET("return", server.handleVNPayReturn)
	}
	
	server.router = router
	return router
}

func (server *Server) Handler() http.Handler {
	return server.router
}

func (server *Server) Start(address string) error {
	return server.router.Run(address)
}

func (server *Server) healthCheck(c *gin.Context) {
	if err := server.dbStore.Ping(c); err != nil {
		log.Error().Err(err).Msg("health check failed")
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
		return
	}
	
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
