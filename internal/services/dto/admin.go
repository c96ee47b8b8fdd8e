package dto

import "homehelp_backend/internal/models"

type RejectWorkerRequest struct {
	Reason string `json:"reason" binding:"required" validate:"required"`
}

type ApplicationListQuery struct {
	Status        string `form:"status" validate:"omitempty,oneof=pending approved rejected"`
	PaymentStatus string `form:"payment_status" validate:"omitempty,oneof=unpaid paid"`
	Page          int    `form:"page"`
	Limit         int    `form:"limit"`
}

type UserListQuery struct {
	Role     string `form:"role" validate:"omitempty,oneof=customer worker admin"`
	IsActive *bool  `form:"is_active"`
	Page     int    `form:"page"`
	Limit    int    `form:"limit"`
}

type PaymentListQuery struct {
	Status  string `form:"status" validate:"omitempty,oneof=pending success failed cancelled"`
	Purpose string `form:"purpose" validate:"omitempty,oneof=worker_listing_fee customer_unlock_fee"`
	Page    int    `form:"page"`
	Limit   int    `form:"limit"`
}

type RevenueStats struct {
	Total         float64 `json:"total"`
	FromWorkers   float64 `json:"from_workers"`
	FromCustomers float64 `json:"from_customers"`
}

type WorkerStatsBlock struct {
	Total    int64 `json:"total"`
	Pending  int64 `json:"pending"`
	Approved int64 `json:"approved"`
	Rejected int64 `json:"rejected"`
	Visible  int64 `json:"visible"`
	Paid     int64 `json:"paid"`
	Unpaid   int64 `json:"unpaid"`
}

type CustomerStatsBlock struct {
	Total  int64 `json:"total"`
	Active int64 `json:"active"`
}

type TrendPoint struct {
	Date    string                `json:"date"`
	Purpose models.PaymentPurpose `json:"purpose"`
	Count   int64                 `json:"count"`
	Total   float64               `json:"total"`
}

type AnalyticsResponse struct {
	Workers              WorkerStatsBlock   `json:"workers"`
	Customers            CustomerStatsBlock `json:"customers"`
	Revenue              RevenueStats       `json:"revenue"`
	MostViewedWorkers    []models.Worker    `json:"most_viewed_workers"`
	MostContactedWorkers []models.Worker    `json:"most_contacted_workers"`
	RecentApplications   []models.Worker    `json:"recent_applications"`
	RecentPayments       []models.Payment   `json:"recent_payments"`
	PaymentTrends        []TrendPoint       `json:"payment_trends"`
}
