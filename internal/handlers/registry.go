package handlers

import (
	"homehelp_backend/internal/services"
	"homehelp_backend/internal/validator"
)

// AppHandlers holds every HTTP handler.
type AppHandlers struct {
	AuthHandler    *AuthHandler
	WorkerHandler  *WorkerHandler
	PaymentHandler *PaymentHandler
	AdminHandler   *AdminHandler
}

func NewAppHandlers(container *services.ServiceContainer, v *validator.Validator) *AppHandlers {
	base := NewBaseHandler(v)

	return &AppHandlers{
		AuthHandler:    NewAuthHandler(base, container.AuthService),
		WorkerHandler:  NewWorkerHandler(base, container.WorkerService),
		PaymentHandler: NewPaymentHandler(base, container.PaymentService),
		AdminHandler:   NewAdminHandler(base, container.AdminService),
	}
}
