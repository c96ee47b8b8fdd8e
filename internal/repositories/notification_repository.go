package repositories

import (
	"time"

	"homehelp_backend/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// maxNotificationsPerWorker bounds the per-worker notification log.
const maxNotificationsPerWorker = 50

type NotificationRepository interface {
	// Create appends a notification and trims the worker's log to the 50
	// most recent entries.
	Create(notification *models.Notification) error
	FindByWorker(workerID string) ([]models.Notification, error)
	CountUnread(workerID string) (int64, error)
	MarkAllRead(workerID string) error
}

type NotificationRepositoryImpl struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) NotificationRepository {
	return &NotificationRepositoryImpl{db: db}
}

func (r *NotificationRepositoryImpl) Create(notification *models.Notification) error {
	if notification.ID == "" {
		notification.ID = uuid.NewString()
	}

	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(notification).Error; err != nil {
			return err
		}
		return tx.Exec(`
			DELETE FROM notifications
			WHERE worker_id = ?
			AND id NOT IN (
				SELECT id FROM notifications
				WHERE worker_id = ?
				ORDER BY created_at DESC
				LIMIT ?
			)
		`, notification.WorkerID, notification.WorkerID, maxNotificationsPerWorker).Error
	})
}

func (r *NotificationRepositoryImpl) FindByWorker(workerID string) ([]models.Notification, error) {
	var notifications []models.Notification
	err := r.db.Where("worker_id = ?", workerID).
		Order("created_at DESC").
		Limit(maxNotificationsPerWorker).
		Find(&notifications).Error
	return notifications, err
}

func (r *NotificationRepositoryImpl) CountUnread(workerID string) (int64, error) {
	var count int64
	err := r.db.Model(&models.Notification{}).
		Where("worker_id = ? AND is_read = ?", workerID, false).
		Count(&count).Error
	return count, err
}

func (r *NotificationRepositoryImpl) MarkAllRead(workerID string) error {
	now := time.Now()
	return r.db.Model(&models.Notification{}).
		Where("worker_id = ? AND is_read = ?", workerID, false).
		Updates(map[string]interface{}{"is_read": true, "read_at": now}).Error
}
