package repositories

import (
	"time"

	"homehelp_backend/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ContactRepository interface {
	// Record inserts the (customer, worker) pair. The unique index makes the
	// operation idempotent: created=false means the pair already existed and
	// the worker's contact counter must not be incremented again.
	Record(customerID, workerID string, at time.Time) (created bool, err error)
	FindByCustomer(customerID string) ([]models.WorkerContact, error)
}

type ContactRepositoryImpl struct {
	db *gorm.DB
}

func NewContactRepository(db *gorm.DB) ContactRepository {
	return &ContactRepositoryImpl{db: db}
}

func (r *ContactRepositoryImpl) Record(customerID, workerID string, at time.Time) (bool, error) {
	contact := models.WorkerContact{
		BaseModel:   models.BaseModel{ID: uuid.NewString()},
		CustomerID:  customerID,
		WorkerID:    workerID,
		ContactedAt: at,
	}

	result := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "customer_id"}, {Name: "worker_id"}},
		DoNothing: true,
	}).Create(&contact)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

func (r *ContactRepositoryImpl) FindByCustomer(customerID string) ([]models.WorkerContact, error) {
	var contacts []models.WorkerContact
	err := r.db.Where("customer_id = ?", customerID).
		Order("contacted_at DESC").
		Find(&contacts).Error
	return contacts, err
}
