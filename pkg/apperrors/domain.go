package apperrors

import (
	"net/http"
)

// Domain error factories and predefined errors for the marketplace and the
// payment core. Services return these; handlers map them via HandleError.

// --- generic resource factories ---

// ErrNotFound converts a repository miss (gorm.ErrRecordNotFound and the
// like) into a 404 AppError.
func ErrNotFound(err error) *AppError {
	return Wrap(err, CodeNotFound, "resource", "Resource not found", http.StatusNotFound)
}

func ErrAlreadyExists(err error) *AppError {
	return Wrap(err, CodeAlreadyExists, "resource", "Resource already exists", http.StatusConflict)
}

func ErrConflict(err error, domain, message string) *AppError {
	return Wrap(err, CodeConflict, domain, message, http.StatusConflict)
}

func ErrInvalidOperation(domain, message string) *AppError {
	return New(CodeInvalidOperation, domain, message, http.StatusBadRequest)
}

// --- payment core ---

// ErrInvalidPurposeForRole rejects a role/purpose pairing before any ledger
// write: only workers may pay the listing fee, only customers the unlock fee.
func ErrInvalidPurposeForRole(message string) *AppError {
	return New(CodeInvalidPurposeForRole, "payment", message, http.StatusBadRequest)
}

// ErrAlreadyEntitled rejects an attempt whose entitlement the payer already
// holds (worker already paid; customer access expiry strictly in the future).
func ErrAlreadyEntitled(message string) *AppError {
	return New(CodeAlreadyEntitled, "payment", message, http.StatusBadRequest)
}

// ErrInvalidStateTransition signals a terminal ledger entry asked to move to
// a different terminal status.
func ErrInvalidStateTransition(message string) *AppError {
	return New(CodeInvalidStateTransition, "payment", message, http.StatusConflict)
}

// ErrGatewayUnavailable wraps an M-Pesa initiate failure. The ledger entry is
// marked failed before this surfaces to the caller.
func ErrGatewayUnavailable(err error) *AppError {
	return Wrap(err, CodeGatewayUnavailable, "payment", "Failed to initiate payment", http.StatusBadGateway)
}

// ErrAccessRequired rejects a contact-unlock read without an active window.
var ErrAccessRequired = New(
	CodeAccessRequired,
	"access",
	"You need to pay to unlock contact details",
	http.StatusForbidden,
)

// --- marketplace ---

var ErrWorkerNotFound = New(
	CodeNotFound,
	"worker",
	"Worker profile not found",
	http.StatusNotFound,
)

var ErrApplicationNotApproved = New(
	CodeInvalidOperation,
	"worker",
	"Your application must be approved first",
	http.StatusForbidden,
)

var ErrWorkerAlreadyApproved = New(
	CodeInvalidOperation,
	"admin",
	"Worker already approved",
	http.StatusBadRequest,
)

var ErrRejectionReasonRequired = New(
	CodeValidationFailed,
	"admin",
	"Rejection reason is required",
	http.StatusBadRequest,
)

var ErrCannotModifyAdmin = New(
	CodeForbidden,
	"admin",
	"Cannot deactivate admin users",
	http.StatusForbidden,
)

var ErrAccountDeactivated = New(
	CodeForbidden,
	"auth",
	"Account is deactivated",
	http.StatusForbidden,
)

var ErrInvalidCredentials = New(
	CodeInvalidCredentials,
	"auth",
	"Invalid email or password",
	http.StatusUnauthorized,
)
