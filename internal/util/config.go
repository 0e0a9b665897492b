package util

import (
	"errors"
	"fmt"
	"io/fs"
	"time"
	
	"github.com/spf13/viper"
)

// Config stores all configuration of the application.
// The values are read by viper from a config file or environment variables.
type Config struct {
	Environment            string        `mapstructure:"ENVIRONMENT"`
	AllowedOrigins         []string      `mapstructure:"ALLOWED_ORIGINS"`
	DatabaseURL            string        `mapstructure:"DATABASE_URL"`
	MigrationURL           string        `mapstructure:"MIGRATION_URL"`
	HTTPServerAddress      string        `mapstructure:"HTTP_SERVER_ADDRESS"`
	TokenSecretKey         string        `mapstructure:"TOKEN_SECRET_KEY"`
	RedisServerAddress     string        `mapstructure:"REDIS_SERVER_ADDRESS"`
	VNPayTmnCode           string        `mapstructure:"VNPAY_TMN_CODE"`
	VNPayHashSecret        string        `mapstructure:"VNPAY_HASH_SECRET"`
	VNPayPaymentURL        string        `mapstructure:"VNPAY_PAYMENT_URL"`
	VNPayAPIURL            string        `mapstructure:"VNPAY_API_URL"`
	VNPayReturnURL         string        `mapstructure:"VNPAY_RETURN_URL"`
	VNPayIPNURL            string        `mapstructure:"VNPAY_IPN_URL"`
	VNPayVersion           string        `mapstructure:"VNPAY_VERSION"`
	VNPayCommand           string        `mapstructure:"VNPAY_COMMAND"`
	VNPayCurrCode          string        `mapstructure:"VNPAY_CURR_CODE"`
	VNPayLocale            string        `mapstructure:"VNPAY_LOCALE"`
	VNPayOrderType         string        `mapstructure:"VNPAY_ORDER_TYPE"`
	VNPayPaymentTimeout    time.Duration `mapstructure:"VNPAY_PAYMENT_TIMEOUT"`
	PaymentRateLimit       int64         `mapstructure:"PAYMENT_RATE_LIMIT"`
	PaymentRateWindow      time.Duration `mapstructure:"PAYMENT_RATE_WINDOW"`
	ReconcileInterval      time.Duration `mapstructure:"RECONCILE_INTERVAL"`
	ReconcileAfter         time.Duration `mapstructure:"RECONCILE_AFTER"`
	GmailSMTPUsername      string        `mapstructure:"GMAIL_SMTP_USERNAME"`
	GmailSMTPPassword      string        `mapstructure:"GMAIL_SMTP_PASSWORD"`
	CloudinaryURL          string        `mapstructure:"CLOUDINARY_URL"`
	FirebaseCredentialFile string        `mapstructure:"FIREBASE_CREDENTIALS_FILE"`
	DiscordBotToken        string        `mapstructure:"DISCORD_BOT_TOKEN"`
	DiscordChannelID       string        `mapstructure:"DISCORD_CHANNEL_ID"`
	NgrokAuthToken         string        `mapstructure:"NGROK_AUTHTOKEN"`
}

// LoadConfig reads configuration from file or environment variables.
func LoadConfig(path string) (config Config, err error) {
	v := viper.New()
	
	// Set defaults for non-sensitive config
	v.SetDefault("ENVIRONMENT", "development")
	v.SetDefault("ALLOWED_ORIGINS", []string{"http://localhost:3000"})
	v.SetDefault("MIGRATION_URL", "file://internal/db/migration")
	v.SetDefault("HTTP_SERVER_ADDRESS", "0.0.0.0:8080")
	v.SetDefault("VNPAY_PAYMENT_URL", "https://sandbox.vnpayment.vn/paymentv2/vpcpay.html")
	v.SetDefault("VNPAY_API_URL", "https://sandbox.vnpayment.vn/merchant_webapi/api/transaction")
	v.SetDefault("VNPAY_VERSION", "2.1.0")
	v.SetDefault("VNPAY_COMMAND", "pay")
	v.SetDefault("VNPAY_CURR_CODE", "VND")
	v.SetDefault("VNPAY_LOCALE", "vn")
	v.SetDefault("VNPAY_ORDER_TYPE", "other")
	v.SetDefault("VNPAY_PAYMENT_TIMEOUT", "15m")
	v.SetDefault("PAYMENT_RATE_LIMIT", 5)
	v.SetDefault("PAYMENT_RATE_WINDOW", "10m")
	v.SetDefault("RECONCILE_INTERVAL", "5m")
	v.SetDefault("RECONCILE_AFTER", "20m")
	
	// Secrets have no default but must be known to viper so env variables are picked up
	for _, key := range []string{
		"DATABASE_URL", "TOKEN_SECRET_KEY", "REDIS_SERVER_ADDRESS",
		"VNPAY_TMN_CODE", "VNPAY_HASH_SECRET", "VNPAY_RETURN_URL", "VNPAY_IPN_URL",
		"GMAIL_SMTP_USERNAME", "GMAIL_SMTP_PASSWORD", "CLOUDINARY_URL", "FIREBASE_CREDENTIALS_FILE",
		"DISCORD_BOT_TOKEN", "DISCORD_CHANNEL_ID", "NGROK_AUTHTOKEN",
	} {
		v.SetDefault(key, "")
	}
	
	// Prefer environment variables over config file
	v.AutomaticEnv()
	
	// Load config file
	v.SetConfigFile(path)
	v.SetConfigType("env")
	if err = v.ReadInConfig(); err != nil {
		// Không có file thì chỉ dùng biến môi trường
		if !errors.Is(err, fs.ErrNotExist) {
			return
		}
		err = nil
	}
	
	// Unmarshal config into struct
	err = v.UnmarshalExact(&config)
	if err != nil {
		return
	}
	
	// Validate required configuration
	err = validateConfig(config)
	return
}

func validateConfig(config Config) error {
	if config.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	if config.TokenSecretKey == "" {
		return fmt.Errorf("TOKEN_SECRET_KEY is required")
	}
	if config.RedisServerAddress == "" {
		return fmt.Errorf("REDIS_SERVER_ADDRESS is required")
	}
	if config.VNPayTmnCode == "" {
		return fmt.Errorf("VNPAY_TMN_CODE is required")
	}
	if config.VNPayHashSecret == "" {
		return fmt.Errorf("VNPAY_HASH_SECRET is required")
	}
	if config.VNPayReturnURL == "" {
		return fmt.Errorf("VNPAY_RETURN_URL is required")
	}
	if config.PaymentRateLimit <= 0 {
		return fmt.Errorf("PAYMENT_RATE_LIMIT must be positive")
	}
	
	return nil
}
