package services

import (
	"context"

	"homehelp_backend/internal/logger"
	"homehelp_backend/internal/models"
	"homehelp_backend/internal/repositories"
)

// NotificationService is the worker-facing notification sink. Notify is
// fire-and-forget for its callers: a failed write is logged, never
// propagated, so a notification failure can never fail a payment.
type NotificationService interface {
	Notify(ctx context.Context, workerID string, kind models.NotificationKind, message string)
	ListForWorker(ctx context.Context, workerID string) ([]models.Notification, error)
	UnreadCount(ctx context.Context, workerID string) (int64, error)
	MarkAllRead(ctx context.Context, workerID string) error
}

type notificationService struct {
	repo repositories.NotificationRepository
}

func NewNotificationService(repo repositories.NotificationRepository) NotificationService {
	return &notificationService{repo: repo}
}

func (s *notificationService) Notify(ctx context.Context, workerID string, kind models.NotificationKind, message string) {
	notification := &models.Notification{
		WorkerID: workerID,
		Kind:     kind,
		Message:  message,
	}
	if err := s.repo.Create(notification); err != nil {
		logger.CtxWithError(ctx, "failed to create worker notification", err,
			"worker_id", workerID, "kind", kind)
	}
}

func (s *notificationService) ListForWorker(ctx context.Context, workerID string) ([]models.Notification, error) {
	return s.repo.FindByWorker(workerID)
}

func (s *notificationService) UnreadCount(ctx context.Context, workerID string) (int64, error) {
	return s.repo.CountUnread(workerID)
}

func (s *notificationService) MarkAllRead(ctx context.Context, workerID string) error {
	return s.repo.MarkAllRead(workerID)
}
