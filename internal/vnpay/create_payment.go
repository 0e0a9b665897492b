package vnpay

import (
	"context"
	"errors"
	"fmt"
	"time"
	
	db "github.com/katatrina/storefront-BE/internal/db/sqlc"
	"github.com/katatrina/storefront-BE/internal/metrics"
	"github.com/katatrina/storefront-BE/internal/util"
	"github.com/rs/zerolog/log"
)

const (
	qrCodeSize   = 256
	qrCodeFolder = "payment_qr"
)

type CreatePaymentParams struct {
	ClientIP string
	BankCode string
	Locale   string
}

type CreatePaymentResult struct {
	Payment    db.Payment `json:"payment"`
	OrderCode  string     `json:"order_code"`
	PaymentURL string     `json:"payment_url"`
	QRCodeURL  string     `json:"qr_code_url,omitempty"`
	ExpiresAt  time.Time  `json:"expires_at"`
}

// BuildPaymentParams fills the outbound request for order at time now.
func (s *VNPayService) BuildPaymentParams(order db.Order, arg CreatePaymentParams, now time.Time) PaymentParams {
	locale := arg.Locale
	if locale == "" {
		locale = s.config.Locale
	}
	
	ipAddr := arg.ClientIP
	if ipAddr == "" {
		ipAddr = "127.0.0.1"
	}
	
	return PaymentParams{
		Version:    s.config.Version,
		Command:    s.config.Command,
		TmnCode:    s.config.TmnCode,
		Locale:     locale,
		CurrCode:   s.config.CurrCode,
		TxnRef:     order.Code,
		OrderInfo:  fmt.Sprintf("Thanh toan don hang %s", order.Code),
		OrderType:  s.config.OrderType,
		Amount:     order.TotalAmount * AmountMultiplier,
		ReturnURL:  s.config.ReturnURL,
		IPAddr:     ipAddr,
		CreateDate: FormatDate(now),
		ExpireDate: FormatDate(now.Add(s.config.PaymentTimeout)),
		BankCode:   arg.BankCode,
	}
}

// CreatePayment signs a payment request for order and records it as pending.
func (s *VNPayService) CreatePayment(ctx context.Context, order db.Order, arg CreatePaymentParams) (*CreatePaymentResult, error) {
	if order.Status != db.OrderStatusPending {
		return nil, fmt.Errorf("%w: order %s has status %s", ErrValidation, order.Code, order.Status)
	}
	if order.TotalAmount <= 0 {
		return nil, fmt.Errorf("%w: order total must be greater than zero", ErrValidation)
	}
	
	now := time.Now()
	params := s.BuildPaymentParams(order, arg, now)
	
	signed, err := Sign(params, s.config.HashSecret, s.config.PaymentURL)
	if err != nil {
		return nil, err
	}
	
	payment, err := s.dbStore.CreateVNPayPaymentTx(ctx, db.CreateVNPayPaymentTxParams{
		OrderCode:          order.Code,
		Amount:             order.TotalAmount,
		RedirectURL:        signed.URL,
		ProviderCreateDate: params.CreateDate,
	})
	if err != nil {
		switch {
		case errors.Is(err, db.ErrRecordNotFound):
			return nil, fmt.Errorf("%w: %s", ErrNotFound, order.Code)
		case errors.Is(err, db.ErrOrderNotPending), errors.Is(err, db.ErrPaymentConflict):
			return nil, fmt.Errorf("%w: %w", ErrValidation, err)
		}
		return nil, fmt.Errorf("failed to create payment record: %w", err)
	}
	
	metrics.RecordPaymentCreated()
	log.Info().Str("order_code", order.Code).Str("payment_id", payment.ID.String()).
		Int64("amount", params.Amount).Msg("vnpay payment created")
	
	result := &CreatePaymentResult{
		Payment:    payment,
		OrderCode:  order.Code,
		PaymentURL: signed.URL,
		ExpiresAt:  now.Add(s.config.PaymentTimeout),
	}
	
	// QR chỉ là tiện ích hiển thị, lỗi không làm hỏng lượt thanh toán
	if s.fileStore != nil {
		qrCodeURL, err := s.uploadQRCode(ctx, payment, signed.URL)
		if err != nil {
			log.Error().Err(err).Str("order_code", order.Code).Msg("failed to upload payment QR code")
		} else {
			result.QRCodeURL = qrCodeURL
		}
	}
	
	return result, nil
}

func (s *VNPayService) uploadQRCode(ctx context.Context, payment db.Payment, paymentURL string) (string, error) {
	png, err := util.GenerateQRCode(paymentURL, qrCodeSize)
	if err != nil {
		return "", fmt.Errorf("failed to generate QR code: %w", err)
	}
	
	return s.fileStore.UploadFile(ctx, png, payment.ID.String()+".png", qrCodeFolder)
}
