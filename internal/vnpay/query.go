package vnpay

import (
	"context"
	"crypto/hmac"
	"fmt"
	"strings"
	"time"
	
	"github.com/katatrina/storefront-BE/internal/util"
	"resty.dev/v3"
)

const (
	commandQueryDR = "querydr"
	
	TransactionStatusSuccess = "00"
	TransactionStatusPending = "01"
	TransactionStatusFailed  = "02"
	
	// vnp_ResponseCode của querydr khi VNPay không có giao dịch với TxnRef này
	QueryResponseCodeNotFound = "91"
)

// QueryTransactionRequest is the JSON body of the querydr API.
type QueryTransactionRequest struct {
	RequestID       string `json:"vnp_RequestId"`
	Version         string `json:"vnp_Version"`
	Command         string `json:"vnp_Command"`
	TmnCode         string `json:"vnp_TmnCode"`
	TxnRef          string `json:"vnp_TxnRef"`
	OrderInfo       string `json:"vnp_OrderInfo"`
	TransactionDate string `json:"vnp_TransactionDate"`
	CreateDate      string `json:"vnp_CreateDate"`
	IPAddr          string `json:"vnp_IpAddr"`
	SecureHash      string `json:"vnp_SecureHash"`
}

// QueryTransactionResponse is the querydr API answer.
type QueryTransactionResponse struct {
	ResponseID        string `json:"vnp_ResponseId"`
	Command           string `json:"vnp_Command"`
	ResponseCode      string `json:"vnp_ResponseCode"`
	Message           string `json:"vnp_Message"`
	TmnCode           string `json:"vnp_TmnCode"`
	TxnRef            string `json:"vnp_TxnRef"`
	Amount            string `json:"vnp_Amount"`
	BankCode          string `json:"vnp_BankCode"`
	PayDate           string `json:"vnp_PayDate"`
	TransactionNo     string `json:"vnp_TransactionNo"`
	TransactionType   string `json:"vnp_TransactionType"`
	TransactionStatus string `json:"vnp_TransactionStatus"`
	OrderInfo         string `json:"vnp_OrderInfo"`
	PromotionCode     string `json:"vnp_PromotionCode"`
	PromotionAmount   string `json:"vnp_PromotionAmount"`
	SecureHash        string `json:"vnp_SecureHash"`
}

// querydr ký chuỗi các giá trị nối bằng "|" theo thứ tự cố định
func (r *QueryTransactionRequest) hashData() string {
	return strings.Join([]string{
		r.RequestID, r.Version, r.Command, r.TmnCode, r.TxnRef,
		r.TransactionDate, r.CreateDate, r.IPAddr, r.OrderInfo,
	}, "|")
}

func (r *QueryTransactionResponse) hashData() string {
	return strings.Join([]string{
		r.ResponseID, r.Command, r.ResponseCode, r.Message, r.TmnCode, r.TxnRef,
		r.Amount, r.BankCode, r.PayDate, r.TransactionNo, r.TransactionType,
		r.TransactionStatus, r.OrderInfo, r.PromotionCode, r.PromotionAmount,
	}, "|")
}

// VerifyQueryResponse reports whether the querydr answer is signed with secret.
func VerifyQueryResponse(resp *QueryTransactionResponse, secret string) bool {
	if resp == nil || resp.SecureHash == "" || secret == "" {
		return false
	}
	expected := hmacSHA512(secret, resp.hashData())
	return hmac.Equal([]byte(expected), []byte(strings.ToLower(resp.SecureHash)))
}

// QueryClient calls the VNPay merchant API.
type QueryClient struct {
	client *resty.Client
	config Config
}

func NewQueryClient(config Config) *QueryClient {
	client := resty.New().
		SetTimeout(15*time.Second).
		SetHeader("Content-Type", "application/json")
	
	return &QueryClient{
		client: client,
		config: config,
	}
}

// QueryTransaction asks VNPay for the current state of the payment txnRef
// created at transactionDate (yyyyMMddHHmmss).
func (c *QueryClient) QueryTransaction(ctx context.Context, txnRef string, transactionDate string, ipAddr string) (*QueryTransactionResponse, error) {
	if strings.TrimSpace(c.config.APIURL) == "" {
		return nil, fmt.Errorf("%w: api url is required", ErrConfiguration)
	}
	
	req := QueryTransactionRequest{
		RequestID:       util.GenerateRequestID(),
		Version:         c.config.Version,
		Command:         commandQueryDR,
		TmnCode:         c.config.TmnCode,
		TxnRef:          txnRef,
		OrderInfo:       fmt.Sprintf("Truy van giao dich %s", txnRef),
		TransactionDate: transactionDate,
		CreateDate:      CreateDate(),
		IPAddr:          ipAddr,
	}
	req.SecureHash = hmacSHA512(c.config.HashSecret, req.hashData())
	
	var result QueryTransactionResponse
	resp, err := c.client.R().
		SetContext(ctx).
		SetBody(req).
		SetResult(&result).
		Post(c.config.APIURL)
	if err != nil {
		return nil, fmt.Errorf("failed to call vnpay querydr: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("vnpay querydr returned status %d: %s", resp.StatusCode(), resp.String())
	}
	
	if !VerifyQueryResponse(&result, c.config.HashSecret) {
		return nil, fmt.Errorf("querydr response for %s: %w", txnRef, ErrVerification)
	}
	
	return &result, nil
}

// Close releases the underlying HTTP client.
func (c *QueryClient) Close() error {
	return c.client.Close()
}
