package handlers

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"homehelp_backend/internal/models"
	"homehelp_backend/internal/mpesa"
	"homehelp_backend/internal/services/dto"
	"homehelp_backend/internal/validator"
)

// stubPaymentService records callbacks; the other operations are unused by
// these tests.
type stubPaymentService struct {
	callbacks []*mpesa.CallbackPayload
}

func (s *stubPaymentService) InitiateWorkerPayment(ctx context.Context, userID, phoneNumber string) (*dto.PaymentInitResponse, error) {
	return nil, nil
}

func (s *stubPaymentService) InitiateCustomerPayment(ctx context.Context, userID, phoneNumber string) (*dto.PaymentInitResponse, error) {
	return nil, nil
}

func (s *stubPaymentService) HandleCallback(ctx context.Context, payload *mpesa.CallbackPayload) {
	s.callbacks = append(s.callbacks, payload)
}

func (s *stubPaymentService) CheckStatus(ctx context.Context, userID, paymentID string) (*dto.PaymentStatusResponse, error) {
	return nil, nil
}

func (s *stubPaymentService) History(ctx context.Context, userID string, page, pageSize int) ([]models.Payment, *dto.Pagination, error) {
	return nil, nil, nil
}

func (s *stubPaymentService) AccessStatus(ctx context.Context, userID string) (*dto.AccessStatusResponse, error) {
	return nil, nil
}

func (s *stubPaymentService) RecordContact(ctx context.Context, customerID, workerID string) error {
	return nil
}

func (s *stubPaymentService) CancelStalePending(ctx context.Context) (int64, error) {
	return 0, nil
}

func callbackRouter(stub *stubPaymentService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	handler := NewPaymentHandler(NewBaseHandler(validator.New()), stub)
	router.POST("/api/v1/payments/mpesa/callback", handler.MpesaCallback)
	return router
}

func TestMpesaCallback_AlwaysAcknowledges(t *testing.T) {
	stub := &stubPaymentService{}
	router := callbackRouter(stub)

	body := []byte(`{
		"Body": {
			"stkCallback": {
				"MerchantRequestID": "29115-34620561-1",
				"CheckoutRequestID": "ws_CO_191220191020363925",
				"ResultCode": 0,
				"ResultDesc": "The service request is processed successfully.",
				"CallbackMetadata": {
					"Item": [
						{"Name": "Amount", "Value": 300.00},
						{"Name": "MpesaReceiptNumber", "Value": "NLJ7RT61SV"}
					]
				}
			}
		}
	}`)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/payments/mpesa/callback", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"ResultCode":0`)
	assert.Len(t, stub.callbacks, 1)
	assert.Equal(t, "ws_CO_191220191020363925", stub.callbacks[0].Body.STKCallback.CheckoutRequestID)
}

func TestMpesaCallback_MalformedBodyStillAcknowledged(t *testing.T) {
	stub := &stubPaymentService{}
	router := callbackRouter(stub)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/payments/mpesa/callback", bytes.NewReader([]byte("not json")))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code, "the gateway must never see an error status")
	assert.Empty(t, stub.callbacks)
}
