package vnpay

import (
	"crypto/hmac"
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// Verify reports whether the vnp_SecureHash carried in values matches the
// hash recomputed over every other field.
func Verify(values url.Values, secret string) bool {
	supplied := strings.ToLower(values.Get(FieldSecureHash))
	if supplied == "" || secret == "" {
		return false
	}
	
	fields := make(map[string]string, len(values))
	for key := range values {
		if key == FieldSecureHash || key == FieldSecureHashType {
			continue
		}
		// Chỉ các tham số vnp_ được VNPay ký
		if !strings.HasPrefix(key, "vnp_") {
			continue
		}
		fields[key] = values.Get(key)
	}
	
	expected := hmacSHA512(secret, Canonicalize(fields))
	return hmac.Equal([]byte(expected), []byte(supplied))
}

// ParseCallback reads the callback fields out of the query string.
func ParseCallback(values url.Values) (CallbackParams, error) {
	params := CallbackParams{
		TmnCode:           values.Get(FieldTmnCode),
		TxnRef:            values.Get(FieldTxnRef),
		BankCode:          values.Get(FieldBankCode),
		BankTranNo:        values.Get(FieldBankTranNo),
		CardType:          values.Get(FieldCardType),
		OrderInfo:         values.Get(FieldOrderInfo),
		PayDate:           values.Get(FieldPayDate),
		ResponseCode:      values.Get(FieldResponseCode),
		TransactionNo:     values.Get(FieldTransactionNo),
		TransactionStatus: values.Get(FieldTransactionStatus),
		SecureHash:        values.Get(FieldSecureHash),
	}
	
	if raw := values.Get(FieldAmount); raw != "" {
		amount, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || amount < 0 {
			return params, fmt.Errorf("%w: invalid %s %q", ErrValidation, FieldAmount, raw)
		}
		params.Amount = &amount
	}
	
	return params, nil
}
