package dto

import (
	"time"

	"homehelp_backend/internal/models"
)

type ApplicationRequest struct {
	Age         int      `json:"age" binding:"required" validate:"required,min=18,max=65"`
	County      string   `json:"county" binding:"required" validate:"required"`
	Experience  *int     `json:"experience" binding:"required" validate:"required,min=0,max=50"`
	ExpectedPay float64  `json:"expected_pay" binding:"required" validate:"required,min=5000,max=50000"`
	Skills      []string `json:"skills" binding:"required" validate:"required,min=1"`
	Bio         string   `json:"bio" binding:"required" validate:"required,min=50,max=500"`
	Phone       string   `json:"phone" binding:"required" validate:"required"`
	PhotoURL    string   `json:"photo_url"`
}

type UpdateProfileRequest struct {
	Bio         string   `json:"bio" validate:"omitempty,min=50,max=500"`
	Skills      []string `json:"skills"`
	ExpectedPay float64  `json:"expected_pay" validate:"omitempty,min=5000,max=50000"`
	County      string   `json:"county"`
	Phone       string   `json:"phone"`
}

type BrowseQuery struct {
	County     string  `form:"county"`
	Skills     string  `form:"skills"` // comma-separated
	MinPay     float64 `form:"min_pay"`
	MaxPay     float64 `form:"max_pay"`
	Experience int     `form:"experience"`
	Page       int     `form:"page"`
	Limit      int     `form:"limit"`
}

type Pagination struct {
	CurrentPage int   `json:"current_page"`
	TotalPages  int   `json:"total_pages"`
	Total       int64 `json:"total"`
	HasMore     bool  `json:"has_more"`
}

// WorkerView is a browse/detail projection of a worker. Contact details are
// nil unless the requester holds an active access window.
type WorkerView struct {
	ID                string                   `json:"id"`
	Age               int                      `json:"age"`
	County            string                   `json:"county"`
	Experience        int                      `json:"experience"`
	ExpectedPay       float64                  `json:"expected_pay"`
	Skills            []string                 `json:"skills"`
	Bio               string                   `json:"bio"`
	PhotoURL          string                   `json:"photo_url,omitempty"`
	ProfileViews      int                      `json:"profile_views"`
	ShowContact       bool                     `json:"show_contact"`
	Phone             *string                  `json:"phone,omitempty"`
	ApplicationStatus models.ApplicationStatus `json:"application_status,omitempty"`
	MemberSince       time.Time                `json:"member_since"`
}

type WorkerStats struct {
	ProfileViews      int                        `json:"profile_views"`
	ContactCount      int                        `json:"contact_count"`
	ApplicationStatus models.ApplicationStatus   `json:"application_status"`
	PaymentStatus     models.WorkerPaymentStatus `json:"payment_status"`
	IsVisible         bool                       `json:"is_visible"`
	MemberSince       time.Time                  `json:"member_since"`
}

type WorkerDashboard struct {
	Worker                   *models.Worker        `json:"worker"`
	Notifications            []models.Notification `json:"notifications"`
	UnreadNotificationsCount int64                 `json:"unread_notifications_count"`
}
