package models

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
)

type Worker struct {
	BaseModel
	UserID string `gorm:"uniqueIndex;not null"`

	// Application details
	Age         int            `gorm:"not null"`
	County      string         `gorm:"not null"`
	Experience  int            `gorm:"not null"` // years
	ExpectedPay float64        `gorm:"not null"` // KES per month
	Skills      datatypes.JSON `gorm:"type:jsonb"`
	Bio         string         `gorm:"not null"`
	Phone       string         `gorm:"not null"`
	PhotoURL    string

	// Status management. IsVisible is derived from the two statuses and must
	// only be recomputed on approval, rejection or payment-success events,
	// otherwise an admin visibility override gets silently clobbered.
	ApplicationStatus ApplicationStatus   `gorm:"type:varchar(20);default:'pending';index:ix_workers_listing,priority:1"`
	PaymentStatus     WorkerPaymentStatus `gorm:"type:varchar(20);default:'unpaid';index:ix_workers_listing,priority:2"`
	IsVisible         bool                `gorm:"default:false;index:ix_workers_listing,priority:3"`
	RejectionReason   *string

	// Admin actions
	ApprovedBy   *string
	ApprovalDate *time.Time

	// Snapshot of the successful listing-fee payment
	PaymentDetails datatypes.JSON `gorm:"type:jsonb"`

	// Analytics
	ProfileViews int `gorm:"default:0"`
	ContactCount int `gorm:"default:0"`

	// Relations
	Notifications []Notification `gorm:"foreignKey:WorkerID"`
}

// WorkerPaymentDetails is the snapshot persisted on a successful
// worker_listing_fee reconciliation.
type WorkerPaymentDetails struct {
	Amount             float64   `json:"amount"`
	MpesaReceiptNumber string    `json:"mpesa_receipt_number"`
	TransactionDate    time.Time `json:"transaction_date"`
	PhoneNumber        string    `json:"phone_number"`
}

// GetSkills decodes the stored skills list.
func (w *Worker) GetSkills() []string {
	var skills []string
	if len(w.Skills) > 0 {
		_ = json.Unmarshal(w.Skills, &skills)
	}
	return skills
}

// SetSkills stores the skills list.
func (w *Worker) SetSkills(skills []string) {
	data, _ := json.Marshal(skills)
	w.Skills = datatypes.JSON(data)
}

// SetPaymentDetails stores the listing-fee payment snapshot.
func (w *Worker) SetPaymentDetails(details WorkerPaymentDetails) {
	data, _ := json.Marshal(details)
	w.PaymentDetails = datatypes.JSON(data)
}

// GetPaymentDetails decodes the listing-fee payment snapshot, if any.
func (w *Worker) GetPaymentDetails() *WorkerPaymentDetails {
	if len(w.PaymentDetails) == 0 {
		return nil
	}
	var details WorkerPaymentDetails
	if err := json.Unmarshal(w.PaymentDetails, &details); err != nil {
		return nil
	}
	return &details
}
