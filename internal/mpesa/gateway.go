package mpesa

import (
	"context"
	"regexp"
)

// STKPushResult is the synchronous reply to an initiate call. The terminal
// outcome arrives later through the callback (or a status query).
type STKPushResult struct {
	CheckoutRequestID string
	MerchantRequestID string
	ResponseCode      string
	CustomerMessage   string
}

// QueryResult is the reply to a status query against the gateway.
type QueryResult struct {
	ResultCode string
	ResultDesc string
}

// Gateway is the payment gateway consumed by the payment service. The real
// Daraja client and the dev-mode simulator both satisfy it.
type Gateway interface {
	InitiateSTKPush(ctx context.Context, phoneNumber string, amount float64, accountReference, description string) (*STKPushResult, error)
	QuerySTKPush(ctx context.Context, checkoutRequestID string) (*QueryResult, error)
}

var phonePrefixRe = regexp.MustCompile(`^(\+?254|0)`)

// NormalizePhone rewrites a Kenyan MSISDN to the 254XXXXXXXXX form the
// gateway expects.
func NormalizePhone(phone string) string {
	return phonePrefixRe.ReplaceAllString(phone, "254")
}
