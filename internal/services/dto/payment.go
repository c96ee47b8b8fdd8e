package dto

import (
	"time"

	"homehelp_backend/internal/models"
)

type InitiatePaymentRequest struct {
	PhoneNumber string `json:"phone_number" binding:"required" validate:"required"`
}

// PaymentInitResponse reports the outcome of an initiate call. Status is
// "success" only in simulated mode; the asynchronous mode answers "pending"
// and the client polls or waits for the callback to land.
type PaymentInitResponse struct {
	Message           string               `json:"message"`
	PaymentID         string               `json:"payment_id"`
	Status            models.PaymentStatus `json:"status"`
	CheckoutRequestID string               `json:"checkout_request_id,omitempty"`
	DevMode           bool                 `json:"dev_mode,omitempty"`
}

type PaymentStatusResponse struct {
	Status  models.PaymentStatus `json:"status"`
	Payment *models.Payment      `json:"payment"`
}

type AccessStatusResponse struct {
	HasActiveAccess  bool                           `json:"has_active_access"`
	AccessExpiresAt  *time.Time                     `json:"access_expires_at"`
	PaymentHistory   []models.CustomerPaymentRecord `json:"payment_history"`
	ContactedWorkers []models.WorkerContact         `json:"contacted_workers"`
}

type HistoryQuery struct {
	Page  int `form:"page"`
	Limit int `form:"limit"`
}

type RecordContactRequest struct {
	WorkerID string `json:"worker_id" binding:"required" validate:"required"`
}
