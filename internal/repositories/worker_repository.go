package repositories

import (
	"errors"
	"fmt"

	"homehelp_backend/internal/models"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var ErrWorkerNotFound = errors.New("worker not found")

// BrowseFilter narrows the public worker listing. Only visible workers are
// ever returned.
type BrowseFilter struct {
	County        string
	Skills        []string
	MinPay        float64
	MaxPay        float64
	MinExperience int
	Page          int
	PageSize      int
}

// ApplicationFilter narrows the admin application listing.
type ApplicationFilter struct {
	Status        models.ApplicationStatus
	PaymentStatus models.WorkerPaymentStatus
	Page          int
	PageSize      int
}

// WorkerCounts is the admin-dashboard breakdown of worker records.
type WorkerCounts struct {
	Total    int64
	Pending  int64
	Approved int64
	Rejected int64
	Visible  int64
	Paid     int64
	Unpaid   int64 // approved but unpaid
}

type WorkerRepository interface {
	Create(worker *models.Worker) error
	Update(worker *models.Worker) error
	FindByID(id string) (*models.Worker, error)
	FindByUserID(userID string) (*models.Worker, error)
	FindVisible(filter BrowseFilter) ([]models.Worker, int64, error)
	FindWithFilter(filter ApplicationFilter) ([]models.Worker, int64, error)
	IncrementProfileViews(id string) (int, error)
	IncrementContactCount(id string) error
	SetVisibility(id string, visible bool) error

	// Analytics
	GetCounts() (*WorkerCounts, error)
	MostViewed(limit int) ([]models.Worker, error)
	MostContacted(limit int) ([]models.Worker, error)
	Recent(limit int) ([]models.Worker, error)
}

type WorkerRepositoryImpl struct {
	db *gorm.DB
}

func NewWorkerRepository(db *gorm.DB) WorkerRepository {
	return &WorkerRepositoryImpl{db: db}
}

func (r *WorkerRepositoryImpl) Create(worker *models.Worker) error {
	return r.db.Create(worker).Error
}

func (r *WorkerRepositoryImpl) Update(worker *models.Worker) error {
	return r.db.Save(worker).Error
}

func (r *WorkerRepositoryImpl) FindByID(id string) (*models.Worker, error) {
	var worker models.Worker
	err := r.db.First(&worker, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrWorkerNotFound
		}
		return nil, err
	}
	return &worker, nil
}

func (r *WorkerRepositoryImpl) FindByUserID(userID string) (*models.Worker, error) {
	var worker models.Worker
	err := r.db.First(&worker, "user_id = ?", userID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrWorkerNotFound
		}
		return nil, err
	}
	return &worker, nil
}

func (r *WorkerRepositoryImpl) FindVisible(filter BrowseFilter) ([]models.Worker, int64, error) {
	var workers []models.Worker
	var total int64

	query := r.db.Model(&models.Worker{}).Where("is_visible = ?", true)

	if filter.County != "" {
		query = query.Where("county ILIKE ?", "%"+filter.County+"%")
	}
	if len(filter.Skills) > 0 {
		// Any of the requested skills matches.
		skillsQuery := r.db
		for _, skill := range filter.Skills {
			skillsQuery = skillsQuery.Or("skills @> ?", datatypes.JSON(fmt.Sprintf(`[%q]`, skill)))
		}
		query = query.Where(skillsQuery)
	}
	if filter.MinPay > 0 {
		query = query.Where("expected_pay >= ?", filter.MinPay)
	}
	if filter.MaxPay > 0 {
		query = query.Where("expected_pay <= ?", filter.MaxPay)
	}
	if filter.MinExperience > 0 {
		query = query.Where("experience >= ?", filter.MinExperience)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page, pageSize := normalizePage(filter.Page, filter.PageSize, 12)
	err := query.Order("profile_views DESC, created_at DESC").
		Offset((page - 1) * pageSize).Limit(pageSize).
		Find(&workers).Error
	return workers, total, err
}

func (r *WorkerRepositoryImpl) FindWithFilter(filter ApplicationFilter) ([]models.Worker, int64, error) {
	var workers []models.Worker
	var total int64

	query := r.db.Model(&models.Worker{})
	if filter.Status != "" {
		query = query.Where("application_status = ?", filter.Status)
	}
	if filter.PaymentStatus != "" {
		query = query.Where("payment_status = ?", filter.PaymentStatus)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page, pageSize := normalizePage(filter.Page, filter.PageSize, 20)
	err := query.Order("created_at DESC").
		Offset((page - 1) * pageSize).Limit(pageSize).
		Find(&workers).Error
	return workers, total, err
}

func (r *WorkerRepositoryImpl) IncrementProfileViews(id string) (int, error) {
	result := r.db.Model(&models.Worker{}).
		Where("id = ?", id).
		UpdateColumn("profile_views", gorm.Expr("profile_views + 1"))
	if result.Error != nil {
		return 0, result.Error
	}
	if result.RowsAffected == 0 {
		return 0, ErrWorkerNotFound
	}

	var worker models.Worker
	if err := r.db.Select("profile_views").First(&worker, "id = ?", id).Error; err != nil {
		return 0, err
	}
	return worker.ProfileViews, nil
}

func (r *WorkerRepositoryImpl) IncrementContactCount(id string) error {
	result := r.db.Model(&models.Worker{}).
		Where("id = ?", id).
		UpdateColumn("contact_count", gorm.Expr("contact_count + 1"))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrWorkerNotFound
	}
	return nil
}

func (r *WorkerRepositoryImpl) SetVisibility(id string, visible bool) error {
	result := r.db.Model(&models.Worker{}).
		Where("id = ?", id).
		Update("is_visible", visible)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrWorkerNotFound
	}
	return nil
}

func (r *WorkerRepositoryImpl) GetCounts() (*WorkerCounts, error) {
	counts := &WorkerCounts{}
	model := func() *gorm.DB { return r.db.Model(&models.Worker{}) }

	if err := model().Count(&counts.Total).Error; err != nil {
		return nil, err
	}
	if err := model().Where("application_status = ?", models.ApplicationStatusPending).Count(&counts.Pending).Error; err != nil {
		return nil, err
	}
	if err := model().Where("application_status = ?", models.ApplicationStatusApproved).Count(&counts.Approved).Error; err != nil {
		return nil, err
	}
	if err := model().Where("application_status = ?", models.ApplicationStatusRejected).Count(&counts.Rejected).Error; err != nil {
		return nil, err
	}
	if err := model().Where("is_visible = ?", true).Count(&counts.Visible).Error; err != nil {
		return nil, err
	}
	if err := model().Where("payment_status = ?", models.WorkerPaymentStatusPaid).Count(&counts.Paid).Error; err != nil {
		return nil, err
	}
	if err := model().Where("application_status = ? AND payment_status = ?",
		models.ApplicationStatusApproved, models.WorkerPaymentStatusUnpaid).Count(&counts.Unpaid).Error; err != nil {
		return nil, err
	}
	return counts, nil
}

func (r *WorkerRepositoryImpl) MostViewed(limit int) ([]models.Worker, error) {
	var workers []models.Worker
	err := r.db.Where("is_visible = ?", true).
		Order("profile_views DESC").Limit(limit).
		Find(&workers).Error
	return workers, err
}

func (r *WorkerRepositoryImpl) MostContacted(limit int) ([]models.Worker, error) {
	var workers []models.Worker
	err := r.db.Where("is_visible = ?", true).
		Order("contact_count DESC").Limit(limit).
		Find(&workers).Error
	return workers, err
}

func (r *WorkerRepositoryImpl) Recent(limit int) ([]models.Worker, error) {
	var workers []models.Worker
	err := r.db.Order("created_at DESC").Limit(limit).Find(&workers).Error
	return workers, err
}

func normalizePage(page, pageSize, defaultSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = defaultSize
	}
	if pageSize > 100 {
		pageSize = 100
	}
	return page, pageSize
}
