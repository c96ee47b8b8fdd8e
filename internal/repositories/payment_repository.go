package repositories

import (
	"errors"
	"time"

	"homehelp_backend/internal/models"

	"gorm.io/gorm"
)

var (
	ErrPaymentNotFound = errors.New("payment not found")
	// ErrTerminalConflict means the entry is already in a different terminal
	// status than the one requested.
	ErrTerminalConflict = errors.New("payment already in a different terminal status")
)

// PaymentFilter narrows admin payment-history queries.
type PaymentFilter struct {
	Status   models.PaymentStatus
	Purpose  models.PaymentPurpose
	Page     int
	PageSize int
}

// PurposeRevenue is one row of the revenue aggregation.
type PurposeRevenue struct {
	Purpose models.PaymentPurpose
	Total   float64
}

// PaymentTrendPoint is one day/purpose bucket of the payment trend.
type PaymentTrendPoint struct {
	Date    string
	Purpose models.PaymentPurpose
	Count   int64
	Total   float64
}

type PaymentRepository interface {
	Create(payment *models.Payment) error
	Update(payment *models.Payment) error
	FindByID(id string) (*models.Payment, error)
	// FindByCheckoutRequestID correlates an asynchronous callback with its
	// ledger entry. A miss returns ErrPaymentNotFound; callers treat it as a
	// normal outcome, not a failure.
	FindByCheckoutRequestID(ref string) (*models.Payment, error)
	// MarkTerminal moves an entry from pending into the given terminal
	// status. It is the sole serialization point: the transition is a
	// compare-and-set on status=pending. Returns transitioned=true when this
	// call performed the transition, false (no error) when the entry already
	// held the same terminal status, and ErrTerminalConflict when it held a
	// different one.
	MarkTerminal(id string, status models.PaymentStatus, updates map[string]interface{}) (transitioned bool, err error)
	HasNonTerminal(userID string, purpose models.PaymentPurpose) (bool, error)
	FindByUser(userID string, page, pageSize int) ([]models.Payment, int64, error)
	FindWithFilter(filter PaymentFilter) ([]models.Payment, int64, error)

	// Maintenance
	CancelStalePending(olderThan time.Time) (int64, error)

	// Analytics
	RevenueByPurpose() ([]PurposeRevenue, error)
	RecentSuccessful(limit int) ([]models.Payment, error)
	TrendSince(since time.Time) ([]PaymentTrendPoint, error)
}

type PaymentRepositoryImpl struct {
	db *gorm.DB
}

func NewPaymentRepository(db *gorm.DB) PaymentRepository {
	return &PaymentRepositoryImpl{db: db}
}

func (r *PaymentRepositoryImpl) Create(payment *models.Payment) error {
	return r.db.Create(payment).Error
}

func (r *PaymentRepositoryImpl) Update(payment *models.Payment) error {
	return r.db.Save(payment).Error
}

func (r *PaymentRepositoryImpl) FindByID(id string) (*models.Payment, error) {
	var payment models.Payment
	err := r.db.First(&payment, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPaymentNotFound
		}
		return nil, err
	}
	return &payment, nil
}

func (r *PaymentRepositoryImpl) FindByCheckoutRequestID(ref string) (*models.Payment, error) {
	var payment models.Payment
	err := r.db.First(&payment, "checkout_request_id = ?", ref).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPaymentNotFound
		}
		return nil, err
	}
	return &payment, nil
}

func (r *PaymentRepositoryImpl) MarkTerminal(id string, status models.PaymentStatus, updates map[string]interface{}) (bool, error) {
	if !status.IsTerminal() {
		return false, ErrTerminalConflict
	}

	values := map[string]interface{}{"status": status}
	for k, v := range updates {
		values[k] = v
	}

	result := r.db.Model(&models.Payment{}).
		Where("id = ? AND status = ?", id, models.PaymentStatusPending).
		Updates(values)
	if result.Error != nil {
		return false, result.Error
	}
	if result.RowsAffected == 1 {
		return true, nil
	}

	// No row moved: either the id is unknown or the entry is already
	// terminal. Re-read to tell a duplicate delivery from a conflict.
	current, err := r.FindByID(id)
	if err != nil {
		return false, err
	}
	if current.Status == status {
		return false, nil
	}
	return false, ErrTerminalConflict
}

func (r *PaymentRepositoryImpl) HasNonTerminal(userID string, purpose models.PaymentPurpose) (bool, error) {
	var count int64
	err := r.db.Model(&models.Payment{}).
		Where("user_id = ? AND purpose = ? AND status = ?", userID, purpose, models.PaymentStatusPending).
		Count(&count).Error
	return count > 0, err
}

func (r *PaymentRepositoryImpl) FindByUser(userID string, page, pageSize int) ([]models.Payment, int64, error) {
	var payments []models.Payment
	var total int64

	query := r.db.Model(&models.Payment{}).Where("user_id = ?", userID)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Order("created_at DESC").
		Offset((page - 1) * pageSize).Limit(pageSize).
		Find(&payments).Error
	return payments, total, err
}

func (r *PaymentRepositoryImpl) FindWithFilter(filter PaymentFilter) ([]models.Payment, int64, error) {
	var payments []models.Payment
	var total int64

	query := r.db.Model(&models.Payment{})
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.Purpose != "" {
		query = query.Where("purpose = ?", filter.Purpose)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page, pageSize := filter.Page, filter.PageSize
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 50
	}

	err := query.Order("created_at DESC").
		Offset((page - 1) * pageSize).Limit(pageSize).
		Find(&payments).Error
	return payments, total, err
}

func (r *PaymentRepositoryImpl) CancelStalePending(olderThan time.Time) (int64, error) {
	result := r.db.Model(&models.Payment{}).
		Where("status = ? AND created_at < ?", models.PaymentStatusPending, olderThan).
		Updates(map[string]interface{}{
			"status":      models.PaymentStatusCancelled,
			"result_desc": "Cancelled: no confirmation received",
		})
	return result.RowsAffected, result.Error
}

func (r *PaymentRepositoryImpl) RevenueByPurpose() ([]PurposeRevenue, error) {
	var rows []PurposeRevenue
	err := r.db.Model(&models.Payment{}).
		Select("purpose, COALESCE(SUM(amount), 0) AS total").
		Where("status = ?", models.PaymentStatusSuccess).
		Group("purpose").
		Scan(&rows).Error
	return rows, err
}

func (r *PaymentRepositoryImpl) RecentSuccessful(limit int) ([]models.Payment, error) {
	var payments []models.Payment
	err := r.db.Where("status = ?", models.PaymentStatusSuccess).
		Order("created_at DESC").Limit(limit).
		Find(&payments).Error
	return payments, err
}

func (r *PaymentRepositoryImpl) TrendSince(since time.Time) ([]PaymentTrendPoint, error) {
	var rows []PaymentTrendPoint
	err := r.db.Model(&models.Payment{}).
		Select("to_char(created_at, 'YYYY-MM-DD') AS date, purpose, COUNT(*) AS count, COALESCE(SUM(amount), 0) AS total").
		Where("status = ? AND created_at >= ?", models.PaymentStatusSuccess, since).
		Group("date, purpose").
		Order("date").
		Scan(&rows).Error
	return rows, err
}
