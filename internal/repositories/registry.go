package repositories

import "gorm.io/gorm"

// RepositoryContainer holds every data-access repository.
type RepositoryContainer struct {
	Users         UserRepository
	Workers       WorkerRepository
	Payments      PaymentRepository
	Contacts      ContactRepository
	Notifications NotificationRepository
}

func NewRepositoryContainer(db *gorm.DB) *RepositoryContainer {
	return &RepositoryContainer{
		Users:         NewUserRepository(db),
		Workers:       NewWorkerRepository(db),
		Payments:      NewPaymentRepository(db),
		Contacts:      NewContactRepository(db),
		Notifications: NewNotificationRepository(db),
	}
}
