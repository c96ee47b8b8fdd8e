package models

import "time"

// Notification is one worker-facing status message. The per-worker log is
// bounded: the repository trims it to the 50 most recent rows.
type Notification struct {
	BaseModel
	WorkerID string           `gorm:"not null;index"`
	Kind     NotificationKind `gorm:"type:varchar(30);not null"`
	Message  string           `gorm:"not null"`
	IsRead   bool             `gorm:"default:false"`
	ReadAt   *time.Time
}
