package vnpay

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newQueryServer(t *testing.T, respond func(req QueryTransactionRequest) (int, QueryTransactionResponse)) *httptest.Server {
	t.Helper()
	
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		
		var req QueryTransactionRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		
		status, resp := respond(req)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(resp)
	}))
	t.Cleanup(server.Close)
	
	return server
}

func signedQueryResponse(req QueryTransactionRequest, transactionStatus string) QueryTransactionResponse {
	resp := QueryTransactionResponse{
		ResponseID:        "resp-" + req.RequestID,
		Command:           commandQueryDR,
		ResponseCode:      ResponseCodeSuccess,
		Message:           "QueryDR Success",
		TmnCode:           req.TmnCode,
		TxnRef:            req.TxnRef,
		Amount:            "15000000",
		BankCode:          "NCB",
		PayDate:           "20240101121500",
		TransactionNo:     "14012345",
		TransactionType:   "01",
		TransactionStatus: transactionStatus,
		OrderInfo:         req.OrderInfo,
	}
	resp.SecureHash = hmacSHA512(testHashSecret, resp.hashData())
	return resp
}

func TestQueryTransaction(t *testing.T) {
	server := newQueryServer(t, func(req QueryTransactionRequest) (int, QueryTransactionResponse) {
		assert.Equal(t, commandQueryDR, req.Command)
		assert.Equal(t, "ORD123456", req.TxnRef)
		assert.Equal(t, "20240101120000", req.TransactionDate)
		assert.Regexp(t, `^RQ[0-9A-Z]{18}$`, req.RequestID)
		assert.Regexp(t, `^\d{14}$`, req.CreateDate)
		assert.Equal(t, hmacSHA512(testHashSecret, req.hashData()), req.SecureHash)
		
		return http.StatusOK, signedQueryResponse(req, TransactionStatusSuccess)
	})
	
	config := testConfig()
	config.APIURL = server.URL
	client := NewQueryClient(config)
	defer client.Close()
	
	resp, err := client.QueryTransaction(context.Background(), "ORD123456", "20240101120000", "127.0.0.1")
	require.NoError(t, err)
	require.Equal(t, TransactionStatusSuccess, resp.TransactionStatus)
	require.Equal(t, "ORD123456", resp.TxnRef)
	require.True(t, VerifyQueryResponse(resp, testHashSecret))
}

func TestQueryTransactionRejectsUnsignedResponse(t *testing.T) {
	server := newQueryServer(t, func(req QueryTransactionRequest) (int, QueryTransactionResponse) {
		resp := signedQueryResponse(req, TransactionStatusSuccess)
		resp.Amount = "100"
		return http.StatusOK, resp
	})
	
	config := testConfig()
	config.APIURL = server.URL
	client := NewQueryClient(config)
	defer client.Close()
	
	_, err := client.QueryTransaction(context.Background(), "ORD123456", "20240101120000", "127.0.0.1")
	require.ErrorIs(t, err, ErrVerification)
}

func TestQueryTransactionHTTPError(t *testing.T) {
	server := newQueryServer(t, func(req QueryTransactionRequest) (int, QueryTransactionResponse) {
		return http.StatusInternalServerError, QueryTransactionResponse{}
	})
	
	config := testConfig()
	config.APIURL = server.URL
	client := NewQueryClient(config)
	defer client.Close()
	
	_, err := client.QueryTransaction(context.Background(), "ORD123456", "20240101120000", "127.0.0.1")
	require.Error(t, err)
	require.NotErrorIs(t, err, ErrVerification)
}

func TestQueryTransactionRequiresAPIURL(t *testing.T) {
	client := NewQueryClient(testConfig())
	defer client.Close()
	
	_, err := client.QueryTransaction(context.Background(), "ORD123456", "20240101120000", "127.0.0.1")
	require.ErrorIs(t, err, ErrConfiguration)
}
