package vnpay

import (
	"errors"
	"fmt"
)

var (
	// ErrConfiguration means a required merchant setting is missing.
	ErrConfiguration = errors.New("vnpay configuration error")
	// ErrValidation means the request or callback carries unusable data.
	ErrValidation = errors.New("invalid payment request")
	// ErrAmountMismatch means a verified callback reports an amount different from the order total.
	ErrAmountMismatch = fmt.Errorf("%w: amount mismatch", ErrValidation)
	// ErrVerification means the secure hash of an inbound message does not match.
	ErrVerification = errors.New("payment callback verification failed")
	// ErrNotFound means the referenced order or payment does not exist.
	ErrNotFound = errors.New("order not found")
)
