package api

import (
	"errors"
	
	"github.com/gin-gonic/gin"
)

var (
	ErrNotOrderOwner   = errors.New("order does not belong to authenticated user")
	ErrPaymentNotFound = errors.New("order has no payment yet")
	
	// Lỗi trả về cho callback VNPay, không tiết lộ bước kiểm tra nào thất bại
	ErrInvalidCallback = errors.New("invalid request")
	ErrInvalidAmount   = errors.New("invalid amount")
	ErrOrderNotFound   = errors.New("order not found")
	ErrInternalServer  = errors.New("internal server error")
)

type FailedValidationResponse struct {
	Message         string            `json:"message"`
	FieldViolations []*FieldViolation `json:"field_violations"`
}

type FieldViolation struct {
	Field       string `json:"field"`
	Description string `json:"description"`
}

func fieldViolation(field string, err error) *FieldViolation {
	return &FieldViolation{
		Field:       field,
		Description: err.Error(),
	}
}

func errorResponse(err error) gin.H {
	return gin.H{"error": err.Error()}
}

func failedValidationError(violations []*FieldViolation) *FailedValidationResponse {
	return &FailedValidationResponse{
		Message:         "Invalid request parameters",
		FieldViolations: violations,
	}
}
