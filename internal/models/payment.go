package models

import "time"

// Payment is one ledger entry of the payment lifecycle: created pending,
// mutated exactly once into a terminal status, never deleted.
type Payment struct {
	BaseModel
	UserID   string         `gorm:"not null;index:ix_payments_user_status,priority:1"`
	UserRole UserRole       `gorm:"type:varchar(20);not null"`
	Purpose  PaymentPurpose `gorm:"type:varchar(40);not null"`
	Amount   float64        `gorm:"not null"`
	Status   PaymentStatus  `gorm:"type:varchar(20);default:'pending';index:ix_payments_user_status,priority:2"`

	// M-Pesa correlation and result details. CheckoutRequestID is the key an
	// asynchronous callback is matched on.
	PhoneNumber        string
	CheckoutRequestID  *string `gorm:"uniqueIndex"`
	MerchantRequestID  string
	MpesaReceiptNumber string
	ResultCode         string
	ResultDesc         string
	TransactionDate    *time.Time
}
