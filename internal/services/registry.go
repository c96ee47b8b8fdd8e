package services

import (
	"homehelp_backend/internal/config"
	"homehelp_backend/internal/mpesa"
	"homehelp_backend/internal/repositories"
)

// ServiceContainer holds every application service.
type ServiceContainer struct {
	AuthService         AuthService
	WorkerService       WorkerService
	PaymentService      PaymentService
	AdminService        AdminService
	NotificationService NotificationService
}

func NewServiceContainer(cfg *config.Config, repos *repositories.RepositoryContainer, gateway mpesa.Gateway) *ServiceContainer {
	notifications := NewNotificationService(repos.Notifications)

	return &ServiceContainer{
		AuthService:   NewAuthService(repos.Users, repos.Workers),
		WorkerService: NewWorkerService(repos.Workers, repos.Users, notifications),
		PaymentService: NewPaymentService(
			cfg.Payments,
			gateway,
			repos.Payments,
			repos.Workers,
			repos.Users,
			repos.Contacts,
			notifications,
		),
		AdminService:        NewAdminService(cfg.Payments, repos.Workers, repos.Users, repos.Payments, notifications),
		NotificationService: notifications,
	}
}
