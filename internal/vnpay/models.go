package vnpay

import (
	"strconv"
)

const (
	FieldVersion           = "vnp_Version"
	FieldCommand           = "vnp_Command"
	FieldTmnCode           = "vnp_TmnCode"
	FieldAmount            = "vnp_Amount"
	FieldCurrCode          = "vnp_CurrCode"
	FieldTxnRef            = "vnp_TxnRef"
	FieldOrderInfo         = "vnp_OrderInfo"
	FieldOrderType         = "vnp_OrderType"
	FieldLocale            = "vnp_Locale"
	FieldReturnURL         = "vnp_ReturnUrl"
	FieldIPAddr            = "vnp_IpAddr"
	FieldCreateDate        = "vnp_CreateDate"
	FieldExpireDate        = "vnp_ExpireDate"
	FieldBankCode          = "vnp_BankCode"
	FieldBankTranNo        = "vnp_BankTranNo"
	FieldCardType          = "vnp_CardType"
	FieldPayDate           = "vnp_PayDate"
	FieldResponseCode      = "vnp_ResponseCode"
	FieldTransactionNo     = "vnp_TransactionNo"
	FieldTransactionStatus = "vnp_TransactionStatus"
	FieldSecureHash        = "vnp_SecureHash"
	FieldSecureHashType    = "vnp_SecureHashType"
)

// ResponseCodeSuccess is the vnp_ResponseCode of a successful payment.
const ResponseCodeSuccess = "00"

// AmountMultiplier converts VND to the vnp_Amount unit.
const AmountMultiplier = 100

// PaymentParams is one outbound payment-initiation request, without its secure hash.
type PaymentParams struct {
	Version    string
	Command    string
	TmnCode    string
	Locale     string
	CurrCode   string
	TxnRef     string // mã đơn hàng
	OrderInfo  string
	OrderType  string
	Amount     int64 // đã nhân 100
	ReturnURL  string
	IPAddr     string
	CreateDate string
	ExpireDate string
	BankCode   string
}

// Fields returns the wire representation of the parameters.
func (p PaymentParams) Fields() map[string]string {
	return map[string]string{
		FieldVersion:    p.Version,
		FieldCommand:    p.Command,
		FieldTmnCode:    p.TmnCode,
		FieldLocale:     p.Locale,
		FieldCurrCode:   p.CurrCode,
		FieldTxnRef:     p.TxnRef,
		FieldOrderInfo:  p.OrderInfo,
		FieldOrderType:  p.OrderType,
		FieldAmount:     strconv.FormatInt(p.Amount, 10),
		FieldReturnURL:  p.ReturnURL,
		FieldIPAddr:     p.IPAddr,
		FieldCreateDate: p.CreateDate,
		FieldExpireDate: p.ExpireDate,
		FieldBankCode:   p.BankCode,
	}
}

// Canonical returns the string the secure hash is computed over.
func (p PaymentParams) Canonical() string {
	return Canonicalize(p.Fields())
}

// SignedRequest is a signed payment request and the URL the payer is redirected to.
type SignedRequest struct {
	Params     PaymentParams `json:"-"`
	SecureHash string        `json:"secure_hash"`
	URL        string        `json:"payment_url"`
}

// CallbackParams are the fields VNPay sends to the return URL and the IPN URL.
type CallbackParams struct {
	TmnCode           string `json:"tmn_code"`
	TxnRef            string `json:"txn_ref"`
	Amount            *int64 `json:"amount"` // đơn vị vnp_Amount (VND x 100)
	BankCode          string `json:"bank_code"`
	BankTranNo        string `json:"bank_tran_no"`
	CardType          string `json:"card_type"`
	OrderInfo         string `json:"order_info"`
	PayDate           string `json:"pay_date"`
	ResponseCode      string `json:"response_code"`
	TransactionNo     string `json:"transaction_no"`
	TransactionStatus string `json:"transaction_status"`
	SecureHash        string `json:"-"`
}

// CallbackResult is the outcome of processing one inbound callback.
type CallbackResult struct {
	CallbackParams
	Verified  bool `json:"verified"`
	Succeeded bool `json:"succeeded"`
	// Duplicate is true when the payment was already terminal and nothing changed.
	Duplicate bool `json:"duplicate"`
}
