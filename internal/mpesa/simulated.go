package mpesa

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// SimulatedGateway replaces the live Daraja client in environments without
// gateway connectivity. Every initiate succeeds with synthetic references;
// the payment service treats the result as an already-confirmed payment.
type SimulatedGateway struct{}

func NewSimulatedGateway() *SimulatedGateway {
	return &SimulatedGateway{}
}

func (g *SimulatedGateway) InitiateSTKPush(ctx context.Context, phoneNumber string, amount float64, accountReference, description string) (*STKPushResult, error) {
	suffix := uuid.NewString()[:8]
	return &STKPushResult{
		CheckoutRequestID: fmt.Sprintf("DEV_CHECKOUT_%s", suffix),
		MerchantRequestID: fmt.Sprintf("DEV_MERCHANT_%s", suffix),
		ResponseCode:      "0",
		CustomerMessage:   "Success (simulated)",
	}, nil
}

func (g *SimulatedGateway) QuerySTKPush(ctx context.Context, checkoutRequestID string) (*QueryResult, error) {
	return &QueryResult{ResultCode: "0", ResultDesc: "Success (simulated)"}, nil
}

// SimulatedReceipt fabricates a receipt number for dev-mode reconciliation.
func SimulatedReceipt() string {
	return "DEV" + uuid.NewString()[:10]
}
