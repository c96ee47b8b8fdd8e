package mpesa

import (
	"errors"
	"fmt"
)

// CallbackPayload mirrors the Daraja STK callback body. Amount and receipt
// arrive as items of CallbackMetadata on success.
type CallbackPayload struct {
	Body struct {
		STKCallback struct {
			MerchantRequestID string `json:"MerchantRequestID"`
			CheckoutRequestID string `json:"CheckoutRequestID"`
			ResultCode        int    `json:"ResultCode"`
			ResultDesc        string `json:"ResultDesc"`
			CallbackMetadata  struct {
				Item []CallbackItem `json:"Item"`
			} `json:"CallbackMetadata"`
		} `json:"stkCallback"`
	} `json:"Body"`
}

type CallbackItem struct {
	Name  string      `json:"Name"`
	Value interface{} `json:"Value"`
}

// CallbackResult is the normalized outcome extracted from a callback.
type CallbackResult struct {
	CheckoutRequestID string
	MerchantRequestID string
	ResultCode        int
	ResultDesc        string
	ReceiptNumber     string
}

var ErrInvalidCallback = errors.New("invalid callback payload")

// ParseCallback normalizes a Daraja callback. ResultCode 0 means success.
func ParseCallback(payload *CallbackPayload) (*CallbackResult, error) {
	cb := payload.Body.STKCallback
	if cb.CheckoutRequestID == "" {
		return nil, ErrInvalidCallback
	}

	result := &CallbackResult{
		CheckoutRequestID: cb.CheckoutRequestID,
		MerchantRequestID: cb.MerchantRequestID,
		ResultCode:        cb.ResultCode,
		ResultDesc:        cb.ResultDesc,
	}

	for _, item := range cb.CallbackMetadata.Item {
		if item.Name == "MpesaReceiptNumber" && item.Value != nil {
			result.ReceiptNumber = fmt.Sprintf("%v", item.Value)
		}
	}
	return result, nil
}
