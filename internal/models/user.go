package models

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
)

type User struct {
	BaseModel
	Email        string `gorm:"uniqueIndex;not null"`
	PasswordHash string `gorm:"not null" json:"-"`
	FirstName    string `gorm:"not null"`
	LastName     string
	Phone        string
	Role         UserRole `gorm:"type:varchar(20);default:'customer'"`
	IsActive     bool     `gorm:"default:true"`
	LastLogin    *time.Time

	// Customer access window. The flag alone is not authoritative: "active"
	// always means HasActiveAccess && AccessExpiresAt strictly in the future.
	HasActiveAccess bool `gorm:"default:false"`
	AccessExpiresAt *time.Time
	PaymentHistory  datatypes.JSON `gorm:"type:jsonb"`

	// Relations
	Worker   *Worker         `gorm:"foreignKey:UserID"`
	Contacts []WorkerContact `gorm:"foreignKey:CustomerID"`
}

// CustomerPaymentRecord is one entry of User.PaymentHistory.
type CustomerPaymentRecord struct {
	Amount             float64   `json:"amount"`
	MpesaReceiptNumber string    `json:"mpesa_receipt_number"`
	TransactionDate    time.Time `json:"transaction_date"`
}

// GetPaymentHistory decodes the stored payment history, oldest first.
func (u *User) GetPaymentHistory() []CustomerPaymentRecord {
	var history []CustomerPaymentRecord
	if len(u.PaymentHistory) > 0 {
		_ = json.Unmarshal(u.PaymentHistory, &history)
	}
	return history
}

// AppendPaymentHistory appends one record to the stored payment history.
func (u *User) AppendPaymentHistory(rec CustomerPaymentRecord) {
	history := append(u.GetPaymentHistory(), rec)
	data, _ := json.Marshal(history)
	u.PaymentHistory = datatypes.JSON(data)
}

// WorkerContact is the idempotency ledger for contact unlocks: one row per
// (customer, worker) pair, created on first contact only.
type WorkerContact struct {
	BaseModel
	CustomerID  string    `gorm:"not null;uniqueIndex:ux_worker_contacts_pair,priority:1"`
	WorkerID    string    `gorm:"not null;uniqueIndex:ux_worker_contacts_pair,priority:2"`
	ContactedAt time.Time `gorm:"not null"`
}
