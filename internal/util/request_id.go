package util

import (
	"github.com/lithammer/shortuuid/v4"
)

const (
	alphabet = "23456789ABCDEFGHJKLMNPQRSTUVWXYZ"
)

// GenerateRequestID generates a vnp_RequestId in the format "RQXXXXXXXXXXXXXXXXXX".
// VNPay requires it to be alphanumeric, at most 32 characters and unique within a day.
func GenerateRequestID() string {
	id := shortuuid.NewWithAlphabet(alphabet)
	return "RQ" + id[:18]
}
