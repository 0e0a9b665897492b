package api

import (
	"errors"
	"fmt"
	"net/http"
	"time"
	
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	db "github.com/katatrina/storefront-BE/internal/db/sqlc"
	"github.com/katatrina/storefront-BE/internal/ratelimit"
	"github.com/katatrina/storefront-BE/internal/token"
	"github.com/katatrina/storefront-BE/internal/validator"
	"github.com/katatrina/storefront-BE/internal/vnpay"
	"github.com/rs/zerolog/log"
)

// Mã phản hồi cho IPN theo quy ước của VNPay
const (
	ipnCodeConfirmed        = "00"
	ipnCodeOrderNotFound    = "01"
	ipnCodeAlreadyConfirmed = "02"
	ipnCodeInvalidAmount    = "04"
	ipnCodeInvalidRequest   = "97"
	ipnCodeUnknownError     = "99"
)

type createVNPayPaymentRequest struct {
	BankCode string `json:"bank_code"`
	Locale   string `json:"locale" binding:"omitempty,oneof=vn en"`
}

type createVNPayPaymentResponse struct {
	PaymentID  uuid.UUID `json:"payment_id"`
	OrderCode  string    `json:"order_code"`
	PaymentURL string    `json:"payment_url"`
	QRCodeURL  string    `json:"qr_code_url,omitempty"`
	ExpiresAt  time.Time `json:"expires_at"`
}

// loadAuthorizedOrder trả về đơn hàng nếu người dùng là chủ đơn hoặc admin.
// Khi trả về false thì response đã được ghi.
func (server *Server) loadAuthorizedOrder(c *gin.Context) (db.Order, bool) {
	authPayload := c.MustGet(authorizationPayloadKey).(*token.Payload)
	
	orderID, err := uuid.Parse(c.Param("orderID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, failedValidationError([]*FieldViolation{fieldViolation("orderID", err)}))
		return db.Order{}, false
	}
	
	order, err := server.dbStore.GetOrderByID(c, orderID)
	if err != nil {
		if errors.Is(err, db.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, errorResponse(fmt.Errorf("order ID %s not found", orderID)))
			return db.Order{}, false
		}
		
		c.JSON(http.StatusInternalServerError, errorResponse(err))
		return db.Order{}, false
	}
	
	if order.BuyerID != authPayload.Subject && authPayload.Role != token.RoleAdmin {
		c.JSON(http.StatusForbidden, errorResponse(ErrNotOrderOwner))
		return db.Order{}, false
	}
	
	return order, true
}

//	@Summary		Create a VNPay payment
//	@Description	Sign a VNPay payment URL for a pending order
//	@Tags			payments
//	@Accept			json
//	@Produce		json
//	@Security		accessToken
//	@Param			orderID	path		string						true	"Order ID"
//	@Param			request	body		createVNPayPaymentRequest	false	"Payment options"
//	@Success		200		{object}	createVNPayPaymentResponse
//	@Failure		400		"Bad request"
//	@Failure		403		"Forbidden"
//	@Failure		404		"Order not found"
//	@Failure		429		"Too many payment attempts"
//	@Failure		500		"Internal server error"
//	@Router			/orders/{orderID}/payments/vnpay [post]
func (server *Server) createVNPayPayment(c *gin.Context) {
	authPayload := c.MustGet(authorizationPayloadKey).(*token.Payload)
	
	var req createVNPayPaymentRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, errorResponse(err))
			return
		}
	}
	
	if req.BankCode != "" {
		if err := validator.ValidateBankCode(req.BankCode); err != nil {
			c.JSON(http.StatusBadRequest, failedValidationError([]*FieldViolation{fieldViolation("bank_code", err)}))
			return
		}
	}
	
	if err := server.limiter.Allow(c, authPayload.Subject); err != nil {
		if errors.Is(err, ratelimit.ErrLimitExceeded) {
			c.JSON(http.StatusTooManyRequests, errorResponse(err))
			return
		}
		
		// Redis lỗi thì vẫn cho tạo thanh toán
		log.Error().Err(err).Str("user_id", authPayload.Subject).Msg("rate limiter unavailable")
	}
	
	order, ok := server.loadAuthorizedOrder(c)
	if !ok {
		return
	}
	
	result, err := server.paymentService.CreatePayment(c, order, vnpay.CreatePaymentParams{
		ClientIP: c.ClientIP(),
		BankCode: req.BankCode,
		Locale:   req.Locale,
	})
	if err != nil {
		switch {
		case errors.Is(err, vnpay.ErrValidation):
			c.JSON(http.StatusBadRequest, errorResponse(err))
		case errors.Is(err, vnpay.ErrNotFound):
			c.JSON(http.StatusNotFound, errorResponse(err))
		default:
			log.Error().Err(err).Str("order_code", order.Code).Msg("failed to create vnpay payment")
			c.JSON(http.StatusInternalServerError, errorResponse(err))
		}
		return
	}
	
	c.JSON(http.StatusOK, createVNPayPaymentResponse{
		PaymentID:  result.Payment.ID,
		OrderCode:  result.OrderCode,
		PaymentURL: result.PaymentURL,
		QRCodeURL:  result.QRCodeURL,
		ExpiresAt:  result.ExpiresAt,
	})
}

//	@Summary		Get order payment
//	@Description	Get the latest payment attempt of an order
//	@Tags			payments
//	@Produce		json
//	@Security		accessToken
//	@Param			orderID	path		string	true	"Order ID"
//	@Success		200		{object}	db.Payment
//	@Failure		403		"Forbidden"
//	@Failure		404		"Not found"
//	@Failure		500		"Internal server error"
//	@Router			/orders/{orderID}/payment [get]
func (server *Server) getOrderPayment(c *gin.Context) {
	order, ok := server.loadAuthorizedOrder(c)
	if !ok {
		return
	}
	
	payment, err := server.dbStore.GetLatestPaymentByOrderID(c, order.ID)
	if err != nil {
		if errors.Is(err, db.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, errorResponse(ErrPaymentNotFound))
			return
		}
		
		c.JSON(http.StatusInternalServerError, errorResponse(err))
		return
	}
	
	c.JSON(http.StatusOK, payment)
}

type vnpayIPNResponse struct {
	RspCode string `json:"RspCode"`
	Message string `json:"Message"`
}

//	@Summary		VNPay IPN
//	@Description	Server-to-server payment notification from VNPay. Always answers 200.
//	@Tags			payments
//	@Produce		json
//	@Success		200	{object}	vnpayIPNResponse
//	@Router			/payments/vnpay/ipn [get]
func (server *Server) handleVNPayIPN(c *gin.Context) {
	result, err := server.paymentService.ProcessCallback(c, vnpay.SourceIPN, c.Request.URL.Query())
	c.JSON(http.StatusOK, ipnResponse(result, err))
}

func ipnResponse(result *vnpay.CallbackResult, err error) vnpayIPNResponse {
	switch {
	case err == nil && result.Duplicate:
		return vnpayIPNResponse{RspCode: ipnCodeAlreadyConfirmed, Message: "Order already confirmed"}
	case err == nil:
		return vnpayIPNResponse{RspCode: ipnCodeConfirmed, Message: "Confirm Success"}
	case errors.Is(err, vnpay.ErrAmountMismatch):
		return vnpayIPNResponse{RspCode: ipnCodeInvalidAmount, Message: "Invalid amount"}
	case errors.Is(err, vnpay.ErrNotFound):
		return vnpayIPNResponse{RspCode: ipnCodeOrderNotFound, Message: "Order not found"}
	case errors.Is(err, db.ErrOrderNotPending):
		return vnpayIPNResponse{RspCode: ipnCodeAlreadyConfirmed, Message: "Order already confirmed"}
	case errors.Is(err, vnpay.ErrVerification), errors.Is(err, vnpay.ErrValidation):
		return vnpayIPNResponse{RspCode: ipnCodeInvalidRequest, Message: "Invalid request"}
	default:
		log.Error().Err(err).Msg("failed to process vnpay ipn")
		return vnpayIPNResponse{RspCode: ipnCodeUnknownError, Message: "Unknown error"}
	}
}

//	@Summary		VNPay return URL
//	@Description	The payer's browser is redirected here after paying on VNPay
//	@Tags			payments
//	@Produce		json
//	@Success		200	{object}	map[string]string
//	@Failure		400	"Invalid request"
//	@Failure		404	"Order not found"
//	@Failure		500	"Internal server error"
//	@Router			/payments/vnpay/return [get]
func (server *Server) handleVNPayReturn(c *gin.Context) {
	result, err := server.paymentService.ProcessCallback(c, vnpay.SourceReturn, c.Request.URL.Query())
	if err != nil {
		switch {
		case errors.Is(err, vnpay.ErrAmountMismatch):
			c.JSON(http.StatusBadRequest, errorResponse(ErrInvalidAmount))
		case errors.Is(err, vnpay.ErrVerification), errors.Is(err, vnpay.ErrValidation):
			c.JSON(http.StatusBadRequest, errorResponse(ErrInvalidCallback))
		case errors.Is(err, vnpay.ErrNotFound):
			c.JSON(http.StatusNotFound, errorResponse(ErrOrderNotFound))
		default:
			log.Error().Err(err).Msg("failed to process vnpay return")
			c.JSON(http.StatusInternalServerError, errorResponse(ErrInternalServer))
		}
		return
	}
	
	status := "failed"
	if result.Succeeded {
		status = "success"
	}
	
	c.JSON(http.StatusOK, gin.H{
		"status":     status,
		"order_code": result.TxnRef,
	})
}
