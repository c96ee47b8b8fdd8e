package models

type UserRole string
type ApplicationStatus string
type WorkerPaymentStatus string
type PaymentStatus string
type PaymentPurpose string
type NotificationKind string

const (
	UserRoleCustomer UserRole = "customer"
	UserRoleWorker   UserRole = "worker"
	UserRoleAdmin    UserRole = "admin"

	ApplicationStatusPending  ApplicationStatus = "pending"
	ApplicationStatusApproved ApplicationStatus = "approved"
	ApplicationStatusRejected ApplicationStatus = "rejected"

	WorkerPaymentStatusUnpaid WorkerPaymentStatus = "unpaid"
	WorkerPaymentStatusPaid   WorkerPaymentStatus = "paid"

	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusSuccess   PaymentStatus = "success"
	PaymentStatusFailed    PaymentStatus = "failed"
	PaymentStatusCancelled PaymentStatus = "cancelled"

	PaymentPurposeWorkerListingFee  PaymentPurpose = "worker_listing_fee"
	PaymentPurposeCustomerUnlockFee PaymentPurpose = "customer_unlock_fee"

	NotificationKindApproval       NotificationKind = "approval"
	NotificationKindRejection      NotificationKind = "rejection"
	NotificationKindPaymentSuccess NotificationKind = "payment_success"
	NotificationKindProfileViewed  NotificationKind = "profile_viewed"
	NotificationKindContacted      NotificationKind = "contacted"
)

// IsTerminal reports whether a payment status admits no further transition.
func (s PaymentStatus) IsTerminal() bool {
	return s == PaymentStatusSuccess || s == PaymentStatusFailed || s == PaymentStatusCancelled
}

// PurposeForRole returns the only payment purpose a role may request.
func PurposeForRole(role UserRole) (PaymentPurpose, bool) {
	switch role {
	case UserRoleWorker:
		return PaymentPurposeWorkerListingFee, true
	case UserRoleCustomer:
		return PaymentPurposeCustomerUnlockFee, true
	default:
		return "", false
	}
}
