package dto

import "homehelp_backend/internal/models"

type RegisterRequest struct {
	Email     string `json:"email" binding:"required" validate:"required,email"`
	Password  string `json:"password" binding:"required" validate:"required,min=8"`
	FirstName string `json:"first_name" binding:"required" validate:"required"`
	LastName  string `json:"last_name"`
	Phone     string `json:"phone"`
	Role      string `json:"role" validate:"omitempty,oneof=customer worker"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required" validate:"required,email"`
	Password string `json:"password" binding:"required" validate:"required"`
}

// UserInfo is the user payload returned by auth endpoints. The worker
// application fields are only populated for the worker role.
type UserInfo struct {
	ID        string          `json:"id"`
	Email     string          `json:"email"`
	FirstName string          `json:"first_name"`
	LastName  string          `json:"last_name,omitempty"`
	Phone     string          `json:"phone,omitempty"`
	Role      models.UserRole `json:"role"`

	ApplicationStatus string  `json:"application_status,omitempty"`
	PaymentStatus     string  `json:"payment_status,omitempty"`
	RejectionReason   *string `json:"rejection_reason,omitempty"`
	IsVisible         *bool   `json:"is_visible,omitempty"`
}

type AuthResponse struct {
	Message string   `json:"message"`
	Token   string   `json:"token"`
	User    UserInfo `json:"user"`
}
