package services

import (
	"context"
	"fmt"
	"time"

	"homehelp_backend/internal/config"
	"homehelp_backend/internal/logger"
	"homehelp_backend/internal/models"
	"homehelp_backend/internal/repositories"
	"homehelp_backend/internal/services/dto"
	"homehelp_backend/pkg/apperrors"
)

// AdminService covers application review, user administration and platform
// analytics.
type AdminService interface {
	ListApplications(ctx context.Context, query *dto.ApplicationListQuery) ([]models.Worker, *dto.Pagination, error)
	GetApplication(ctx context.Context, workerID string) (*models.Worker, error)
	ApproveWorker(ctx context.Context, workerID, adminID string) (*models.Worker, error)
	RejectWorker(ctx context.Context, workerID, reason string) (*models.Worker, error)
	// ToggleVisibility is the manual override. It flips the flag directly and
	// is never recomputed away until the next approval or payment event.
	ToggleVisibility(ctx context.Context, workerID string) (*models.Worker, error)

	ListUsers(ctx context.Context, query *dto.UserListQuery) ([]models.User, *dto.Pagination, error)
	ToggleUserActive(ctx context.Context, userID string) (*models.User, error)

	ListPayments(ctx context.Context, query *dto.PaymentListQuery) ([]models.Payment, *dto.Pagination, error)
	Analytics(ctx context.Context) (*dto.AnalyticsResponse, error)
}

type adminService struct {
	cfg           config.PaymentsConfig
	workerRepo    repositories.WorkerRepository
	userRepo      repositories.UserRepository
	paymentRepo   repositories.PaymentRepository
	notifications NotificationService
	now           func() time.Time
}

func NewAdminService(
	cfg config.PaymentsConfig,
	workerRepo repositories.WorkerRepository,
	userRepo repositories.UserRepository,
	paymentRepo repositories.PaymentRepository,
	notifications NotificationService,
) AdminService {
	return &adminService{
		cfg:           cfg,
		workerRepo:    workerRepo,
		userRepo:      userRepo,
		paymentRepo:   paymentRepo,
		notifications: notifications,
		now:           time.Now,
	}
}

func (s *adminService) ListApplications(ctx context.Context, query *dto.ApplicationListQuery) ([]models.Worker, *dto.Pagination, error) {
	filter := repositories.ApplicationFilter{
		Status:        models.ApplicationStatus(query.Status),
		PaymentStatus: models.WorkerPaymentStatus(query.PaymentStatus),
		Page:          query.Page,
		PageSize:      query.Limit,
	}

	workers, total, err := s.workerRepo.FindWithFilter(filter)
	if err != nil {
		return nil, nil, apperrors.InternalError(err)
	}
	return workers, buildPagination(query.Page, query.Limit, total), nil
}

func (s *adminService) GetApplication(ctx context.Context, workerID string) (*models.Worker, error) {
	worker, err := s.workerRepo.FindByID(workerID)
	if err != nil {
		if err == repositories.ErrWorkerNotFound {
			return nil, apperrors.ErrWorkerNotFound
		}
		return nil, apperrors.InternalError(err)
	}
	return worker, nil
}

func (s *adminService) ApproveWorker(ctx context.Context, workerID, adminID string) (*models.Worker, error) {
	worker, err := s.workerRepo.FindByID(workerID)
	if err != nil {
		if err == repositories.ErrWorkerNotFound {
			return nil, apperrors.ErrWorkerNotFound
		}
		return nil, apperrors.InternalError(err)
	}

	if err := ApproveApplication(worker, adminID, s.now()); err != nil {
		return nil, err
	}
	if err := s.workerRepo.Update(worker); err != nil {
		return nil, apperrors.InternalError(err)
	}

	message := fmt.Sprintf(
		"Congratulations! Your application has been approved. Complete your listing payment of KES %.0f to become visible to customers.",
		s.cfg.WorkerListingFee)
	if worker.PaymentStatus == models.WorkerPaymentStatusPaid {
		message = "Congratulations! Your application has been approved. Your profile is now visible to customers."
	}
	s.notifications.Notify(ctx, worker.ID, models.NotificationKindApproval, message)

	logger.CtxInfo(ctx, "worker application approved",
		"worker_id", worker.ID, "admin_id", adminID, "is_visible", worker.IsVisible)
	return worker, nil
}

func (s *adminService) RejectWorker(ctx context.Context, workerID, reason string) (*models.Worker, error) {
	worker, err := s.workerRepo.FindByID(workerID)
	if err != nil {
		if err == repositories.ErrWorkerNotFound {
			return nil, apperrors.ErrWorkerNotFound
		}
		return nil, apperrors.InternalError(err)
	}

	if err := RejectApplication(worker, reason); err != nil {
		return nil, err
	}
	if err := s.workerRepo.Update(worker); err != nil {
		return nil, apperrors.InternalError(err)
	}

	s.notifications.Notify(ctx, worker.ID, models.NotificationKindRejection,
		fmt.Sprintf("Your application was not approved. Reason: %s. You may update your details and resubmit.", reason))

	logger.CtxInfo(ctx, "worker application rejected", "worker_id", worker.ID, "reason", reason)
	return worker, nil
}

func (s *adminService) ToggleVisibility(ctx context.Context, workerID string) (*models.Worker, error) {
	worker, err := s.workerRepo.FindByID(workerID)
	if err != nil {
		if err == repositories.ErrWorkerNotFound {
			return nil, apperrors.ErrWorkerNotFound
		}
		return nil, apperrors.InternalError(err)
	}

	worker.IsVisible = !worker.IsVisible
	if err := s.workerRepo.SetVisibility(worker.ID, worker.IsVisible); err != nil {
		return nil, apperrors.InternalError(err)
	}

	logger.CtxInfo(ctx, "worker visibility toggled", "worker_id", worker.ID, "is_visible", worker.IsVisible)
	return worker, nil
}

func (s *adminService) ListUsers(ctx context.Context, query *dto.UserListQuery) ([]models.User, *dto.Pagination, error) {
	filter := repositories.UserFilter{
		Role:     models.UserRole(query.Role),
		IsActive: query.IsActive,
		Page:     query.Page,
		PageSize: query.Limit,
	}

	users, total, err := s.userRepo.FindWithFilter(filter)
	if err != nil {
		return nil, nil, apperrors.InternalError(err)
	}
	return users, buildPagination(query.Page, query.Limit, total), nil
}

func (s *adminService) ToggleUserActive(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if err == repositories.ErrUserNotFound {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.InternalError(err)
	}
	if user.Role == models.UserRoleAdmin {
		return nil, apperrors.ErrCannotModifyAdmin
	}

	user.IsActive = !user.IsActive
	if err := s.userRepo.Update(user); err != nil {
		return nil, apperrors.InternalError(err)
	}

	// Deactivating a worker account also pulls the listing. The stored
	// statuses survive, so reactivation plus the next qualifying event
	// restores visibility.
	if !user.IsActive && user.Role == models.UserRoleWorker {
		if worker, werr := s.workerRepo.FindByUserID(user.ID); werr == nil && worker.IsVisible {
			if verr := s.workerRepo.SetVisibility(worker.ID, false); verr != nil {
				logger.CtxWithError(ctx, "failed to hide worker on deactivation", verr, "worker_id", worker.ID)
			}
		}
	}

	logger.CtxInfo(ctx, "user active flag toggled", "user_id", user.ID, "is_active", user.IsActive)
	return user, nil
}

func (s *adminService) ListPayments(ctx context.Context, query *dto.PaymentListQuery) ([]models.Payment, *dto.Pagination, error) {
	filter := repositories.PaymentFilter{
		Status:   models.PaymentStatus(query.Status),
		Purpose:  models.PaymentPurpose(query.Purpose),
		Page:     query.Page,
		PageSize: query.Limit,
	}

	payments, total, err := s.paymentRepo.FindWithFilter(filter)
	if err != nil {
		return nil, nil, apperrors.InternalError(err)
	}
	return payments, buildPagination(query.Page, query.Limit, total), nil
}

func (s *adminService) Analytics(ctx context.Context) (*dto.AnalyticsResponse, error) {
	workerCounts, err := s.workerRepo.GetCounts()
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	customerCounts, err := s.userRepo.GetCustomerCounts(s.now())
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	revenueRows, err := s.paymentRepo.RevenueByPurpose()
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	var revenue dto.RevenueStats
	for _, row := range revenueRows {
		revenue.Total += row.Total
		switch row.Purpose {
		case models.PaymentPurposeWorkerListingFee:
			revenue.FromWorkers = row.Total
		case models.PaymentPurposeCustomerUnlockFee:
			revenue.FromCustomers = row.Total
		}
	}

	mostViewed, err := s.workerRepo.MostViewed(5)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	mostContacted, err := s.workerRepo.MostContacted(5)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	recentApplications, err := s.workerRepo.Recent(10)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	recentPayments, err := s.paymentRepo.RecentSuccessful(10)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	trendRows, err := s.paymentRepo.TrendSince(s.now().AddDate(0, 0, -30))
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	trends := make([]dto.TrendPoint, 0, len(trendRows))
	for _, row := range trendRows {
		trends = append(trends, dto.TrendPoint{
			Date:    row.Date,
			Purpose: row.Purpose,
			Count:   row.Count,
			Total:   row.Total,
		})
	}

	return &dto.AnalyticsResponse{
		Workers: dto.WorkerStatsBlock{
			Total:    workerCounts.Total,
			Pending:  workerCounts.Pending,
			Approved: workerCounts.Approved,
			Rejected: workerCounts.Rejected,
			Visible:  workerCounts.Visible,
			Paid:     workerCounts.Paid,
			Unpaid:   workerCounts.Unpaid,
		},
		Customers: dto.CustomerStatsBlock{
			Total:  customerCounts.Total,
			Active: customerCounts.Active,
		},
		Revenue:              revenue,
		MostViewedWorkers:    mostViewed,
		MostContactedWorkers: mostContacted,
		RecentApplications:   recentApplications,
		RecentPayments:       recentPayments,
		PaymentTrends:        trends,
	}, nil
}

func buildPagination(page, pageSize int, total int64) *dto.Pagination {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}
	totalPages := int((total + int64(pageSize) - 1) / int64(pageSize))
	return &dto.Pagination{
		CurrentPage: page,
		TotalPages:  totalPages,
		Total:       total,
		HasMore:     page < totalPages,
	}
}
