package vnpay

import (
	"fmt"
	"strings"
	"time"
)

const (
	DefaultVersion        = "2.1.0"
	DefaultCommand        = "pay"
	DefaultCurrCode       = "VND"
	DefaultLocale         = "vn"
	DefaultOrderType      = "other"
	DefaultPaymentTimeout = 15 * time.Minute
	
	// Thời gian chờ thêm sau vnp_ExpireDate trước khi coi giao dịch là hết hạn
	ExpiryGracePeriod = 15 * time.Minute
)

// Config holds the merchant settings issued by VNPay.
type Config struct {
	TmnCode        string
	HashSecret     string
	PaymentURL     string // cổng thanh toán, ví dụ https://sandbox.vnpayment.vn/paymentv2/vpcpay.html
	APIURL         string // API truy vấn giao dịch (querydr)
	ReturnURL      string
	IPNURL         string
	Version        string
	Command        string
	CurrCode       string
	Locale         string
	OrderType      string
	PaymentTimeout time.Duration
}

// Validate fills protocol defaults and reports missing merchant settings.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.TmnCode) == "" {
		return fmt.Errorf("%w: merchant code is required", ErrConfiguration)
	}
	if strings.TrimSpace(c.HashSecret) == "" {
		return fmt.Errorf("%w: hash secret is required", ErrConfiguration)
	}
	if strings.TrimSpace(c.PaymentURL) == "" {
		return fmt.Errorf("%w: payment url is required", ErrConfiguration)
	}
	if strings.TrimSpace(c.ReturnURL) == "" {
		return fmt.Errorf("%w: return url is required", ErrConfiguration)
	}
	
	if c.Version == "" {
		c.Version = DefaultVersion
	}
	if c.Command == "" {
		c.Command = DefaultCommand
	}
	if c.CurrCode == "" {
		c.CurrCode = DefaultCurrCode
	}
	if c.Locale == "" {
		c.Locale = DefaultLocale
	}
	if c.OrderType == "" {
		c.OrderType = DefaultOrderType
	}
	if c.PaymentTimeout <= 0 {
		c.PaymentTimeout = DefaultPaymentTimeout
	}
	
	return nil
}
