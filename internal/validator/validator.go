package validator

import (
	"fmt"
	"regexp"
)

var isValidBankCode = regexp.MustCompile(`^[A-Z0-9]+$`).MatchString

func ValidateString(value string, minLength int, maxLength int) error {
	n := len(value)
	if n < minLength || n > maxLength {
		return fmt.Errorf("must contain from %d to %d characters", minLength, maxLength)
	}
	
	return nil
}

// ValidateBankCode kiểm tra vnp_BankCode, ví dụ: VNPAYQR, VNBANK, INTCARD, NCB.
func ValidateBankCode(value string) error {
	if err := ValidateString(value, 2, 20); err != nil {
		return err
	}
	
	if !isValidBankCode(value) {
		return fmt.Errorf("must contain only uppercase letters and digits")
	}
	
	return nil
}
