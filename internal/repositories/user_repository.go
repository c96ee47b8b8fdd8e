package repositories

import (
	"errors"
	"time"

	"homehelp_backend/internal/models"

	"gorm.io/gorm"
)

var (
	ErrUserNotFound      = errors.New("user not found")
	ErrUserAlreadyExists = errors.New("user already exists")
)

type UserFilter struct {
	Role     models.UserRole
	IsActive *bool
	Page     int
	PageSize int
}

// CustomerCounts is the admin-dashboard breakdown of customer accounts.
type CustomerCounts struct {
	Total  int64
	Active int64 // holding an unexpired access window
}

type UserRepository interface {
	FindByID(id string) (*models.User, error)
	FindByEmail(email string) (*models.User, error)
	Create(user *models.User) error
	Update(user *models.User) error
	UpdateLastLogin(userID string, at time.Time) error
	FindWithFilter(filter UserFilter) ([]models.User, int64, error)

	// Analytics
	GetCustomerCounts(now time.Time) (*CustomerCounts, error)
}

type UserRepositoryImpl struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &UserRepositoryImpl{db: db}
}

func (r *UserRepositoryImpl) FindByID(id string) (*models.User, error) {
	var user models.User
	err := r.db.Preload("Worker").First(&user, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *UserRepositoryImpl) FindByEmail(email string) (*models.User, error) {
	var user models.User
	err := r.db.Preload("Worker").First(&user, "email = ?", email).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *UserRepositoryImpl) Create(user *models.User) error {
	var existing models.User
	if err := r.db.Where("email = ?", user.Email).First(&existing).Error; err == nil {
		return ErrUserAlreadyExists
	}
	return r.db.Create(user).Error
}

func (r *UserRepositoryImpl) Update(user *models.User) error {
	return r.db.Save(user).Error
}

func (r *UserRepositoryImpl) UpdateLastLogin(userID string, at time.Time) error {
	return r.db.Model(&models.User{}).
		Where("id = ?", userID).
		Update("last_login", at).Error
}

func (r *UserRepositoryImpl) FindWithFilter(filter UserFilter) ([]models.User, int64, error) {
	var users []models.User
	var total int64

	query := r.db.Model(&models.User{})
	if filter.Role != "" {
		query = query.Where("role = ?", filter.Role)
	}
	if filter.IsActive != nil {
		query = query.Where("is_active = ?", *filter.IsActive)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page, pageSize := normalizePage(filter.Page, filter.PageSize, 50)
	err := query.Order("created_at DESC").
		Offset((page - 1) * pageSize).Limit(pageSize).
		Find(&users).Error
	return users, total, err
}

func (r *UserRepositoryImpl) GetCustomerCounts(now time.Time) (*CustomerCounts, error) {
	counts := &CustomerCounts{}

	if err := r.db.Model(&models.User{}).
		Where("role = ?", models.UserRoleCustomer).
		Count(&counts.Total).Error; err != nil {
		return nil, err
	}
	if err := r.db.Model(&models.User{}).
		Where("role = ? AND has_active_access = ? AND access_expires_at > ?",
			models.UserRoleCustomer, true, now).
		Count(&counts.Active).Error; err != nil {
		return nil, err
	}
	return counts, nil
}
