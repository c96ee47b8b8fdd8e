package services

import (
	"time"

	"homehelp_backend/internal/models"
)

// IsAccessActive reports whether the customer's contact-unlock window is
// active at the given instant. The stored flag alone is never authoritative:
// expiry is evaluated lazily on every check, so no background sweep is
// needed to turn windows off.
func IsAccessActive(user *models.User, now time.Time) bool {
	return user.HasActiveAccess &&
		user.AccessExpiresAt != nil &&
		user.AccessExpiresAt.After(now)
}

// GrantAccessWindow opens (or restarts) the customer's access window for the
// given duration and appends the paying transaction to the payment history.
// Each successful payment restarts the window; remaining time on a previous
// window is not added.
func GrantAccessWindow(user *models.User, durationHours int, now time.Time, rec models.CustomerPaymentRecord) {
	expiresAt := now.Add(time.Duration(durationHours) * time.Hour)
	user.HasActiveAccess = true
	user.AccessExpiresAt = &expiresAt
	user.AppendPaymentHistory(rec)
}
