package apperrors

// ErrorCode is a machine-readable error code returned to API clients.
type ErrorCode string

const (
	// System errors
	CodeInternalError        ErrorCode = "INTERNAL_ERROR"
	CodeDatabaseError        ErrorCode = "DATABASE_ERROR"
	CodeExternalServiceError ErrorCode = "EXTERNAL_SERVICE_ERROR"

	// Generic business-logic codes
	CodeNotFound         ErrorCode = "NOT_FOUND"
	CodeAlreadyExists    ErrorCode = "ALREADY_EXISTS"
	CodeValidationFailed ErrorCode = "VALIDATION_FAILED"
	CodeConflict         ErrorCode = "CONFLICT"
	CodeInvalidOperation ErrorCode = "INVALID_OPERATION"

	// Authentication and authorization
	CodeUnauthorized       ErrorCode = "UNAUTHORIZED"
	CodeForbidden          ErrorCode = "FORBIDDEN"
	CodeInvalidCredentials ErrorCode = "INVALID_CREDENTIALS"
	CodeInvalidToken       ErrorCode = "INVALID_TOKEN"

	// Payment core
	CodeInvalidPurposeForRole  ErrorCode = "INVALID_PURPOSE_FOR_ROLE"
	CodeAlreadyEntitled        ErrorCode = "ALREADY_ENTITLED"
	CodeInvalidStateTransition ErrorCode = "INVALID_STATE_TRANSITION"
	CodeAccessRequired         ErrorCode = "ACCESS_REQUIRED"
	CodeGatewayUnavailable     ErrorCode = "GATEWAY_UNAVAILABLE"
)
