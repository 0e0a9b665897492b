package vnpay

import (
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"fmt"
	"strings"
)

// Sign computes the secure hash of params with secret and assembles the redirect URL.
func Sign(params PaymentParams, secret string, paymentURL string) (SignedRequest, error) {
	if strings.TrimSpace(params.TmnCode) == "" {
		return SignedRequest{}, fmt.Errorf("%w: merchant code is required", ErrConfiguration)
	}
	if strings.TrimSpace(secret) == "" {
		return SignedRequest{}, fmt.Errorf("%w: hash secret is required", ErrConfiguration)
	}
	if strings.TrimSpace(paymentURL) == "" {
		return SignedRequest{}, fmt.Errorf("%w: payment url is required", ErrConfiguration)
	}
	
	if strings.TrimSpace(params.TxnRef) == "" {
		return SignedRequest{}, fmt.Errorf("%w: txn ref is required", ErrValidation)
	}
	if params.Amount <= 0 {
		return SignedRequest{}, fmt.Errorf("%w: amount must be greater than zero", ErrValidation)
	}
	
	canonical := params.Canonical()
	secureHash := hmacSHA512(secret, canonical)
	
	return SignedRequest{
		Params:     params,
		SecureHash: secureHash,
		URL:        paymentURL + "?" + canonical + "&" + FieldSecureHash + "=" + secureHash,
	}, nil
}

// hmacSHA512 returns the lowercase hex HMAC-SHA512 of data keyed by secret.
func hmacSHA512(secret string, data string) string {
	h := hmac.New(sha512.New, []byte(secret))
	h.Write([]byte(data))
	return hex.EncodeToString(h.Sum(nil))
}
