package services

import (
	"context"
	"strings"
	"time"

	"homehelp_backend/internal/logger"
	"homehelp_backend/internal/models"
	"homehelp_backend/internal/mpesa"
	"homehelp_backend/internal/repositories"
	"homehelp_backend/internal/services/dto"
	"homehelp_backend/pkg/apperrors"
)

// WorkerService covers the worker application lifecycle and the customer
// browse surface. Contact details are disclosed only to customers holding an
// active access window.
type WorkerService interface {
	SubmitApplication(ctx context.Context, userID string, req *dto.ApplicationRequest) (*models.Worker, error)
	Dashboard(ctx context.Context, userID string) (*dto.WorkerDashboard, error)
	UpdateProfile(ctx context.Context, userID string, req *dto.UpdateProfileRequest) (*models.Worker, error)
	MarkNotificationsRead(ctx context.Context, userID string) error
	Stats(ctx context.Context, userID string) (*dto.WorkerStats, error)

	Browse(ctx context.Context, query *dto.BrowseQuery) ([]dto.WorkerView, *dto.Pagination, error)
	GetByID(ctx context.Context, workerID, viewerID string) (*dto.WorkerView, error)
	// RecordView bumps the profile-view counter when a customer opens a
	// worker card, without fetching the full profile.
	RecordView(ctx context.Context, workerID string) (int, error)
}

type workerService struct {
	workerRepo    repositories.WorkerRepository
	userRepo      repositories.UserRepository
	notifications NotificationService
	now           func() time.Time
}

func NewWorkerService(workerRepo repositories.WorkerRepository, userRepo repositories.UserRepository, notifications NotificationService) WorkerService {
	return &workerService{
		workerRepo:    workerRepo,
		userRepo:      userRepo,
		notifications: notifications,
		now:           time.Now,
	}
}

func (s *workerService) SubmitApplication(ctx context.Context, userID string, req *dto.ApplicationRequest) (*models.Worker, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if err == repositories.ErrUserNotFound {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.InternalError(err)
	}
	if user.Role != models.UserRoleWorker {
		return nil, apperrors.NewForbiddenError("Only workers can submit an application")
	}

	existing, err := s.workerRepo.FindByUserID(userID)
	if err != nil && err != repositories.ErrWorkerNotFound {
		return nil, apperrors.InternalError(err)
	}

	if existing != nil {
		if existing.ApplicationStatus != models.ApplicationStatusRejected {
			return nil, apperrors.ErrConflict(nil, "worker", "An application already exists for this account")
		}
		// Resubmission after rejection: profile fields are replaced and the
		// record re-enters review. Any prior listing payment is retained.
		s.applyApplicationFields(existing, req)
		ResubmitApplication(existing)
		if err := s.workerRepo.Update(existing); err != nil {
			return nil, apperrors.InternalError(err)
		}
		logger.CtxInfo(ctx, "worker application resubmitted", "worker_id", existing.ID, "user_id", userID)
		return existing, nil
	}

	worker := &models.Worker{
		UserID:            userID,
		ApplicationStatus: models.ApplicationStatusPending,
		PaymentStatus:     models.WorkerPaymentStatusUnpaid,
	}
	s.applyApplicationFields(worker, req)
	if err := s.workerRepo.Create(worker); err != nil {
		return nil, apperrors.InternalError(err)
	}

	logger.CtxInfo(ctx, "worker application submitted", "worker_id", worker.ID, "user_id", userID)
	return worker, nil
}

func (s *workerService) applyApplicationFields(worker *models.Worker, req *dto.ApplicationRequest) {
	worker.Age = req.Age
	worker.County = req.County
	if req.Experience != nil {
		worker.Experience = *req.Experience
	}
	worker.ExpectedPay = req.ExpectedPay
	worker.SetSkills(req.Skills)
	worker.Bio = req.Bio
	worker.Phone = mpesa.NormalizePhone(req.Phone)
	worker.PhotoURL = req.PhotoURL
}

func (s *workerService) Dashboard(ctx context.Context, userID string) (*dto.WorkerDashboard, error) {
	worker, err := s.workerRepo.FindByUserID(userID)
	if err != nil {
		if err == repositories.ErrWorkerNotFound {
			return nil, apperrors.ErrWorkerNotFound
		}
		return nil, apperrors.InternalError(err)
	}

	notifications, err := s.notifications.ListForWorker(ctx, worker.ID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	unread, err := s.notifications.UnreadCount(ctx, worker.ID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	return &dto.WorkerDashboard{
		Worker:                   worker,
		Notifications:            notifications,
		UnreadNotificationsCount: unread,
	}, nil
}

func (s *workerService) UpdateProfile(ctx context.Context, userID string, req *dto.UpdateProfileRequest) (*models.Worker, error) {
	worker, err := s.workerRepo.FindByUserID(userID)
	if err != nil {
		if err == repositories.ErrWorkerNotFound {
			return nil, apperrors.ErrWorkerNotFound
		}
		return nil, apperrors.InternalError(err)
	}

	if worker.ApplicationStatus == models.ApplicationStatusRejected {
		return nil, apperrors.ErrInvalidOperation("worker", "Rejected applications must be resubmitted, not edited")
	}

	if req.Bio != "" {
		worker.Bio = req.Bio
	}
	if len(req.Skills) > 0 {
		worker.SetSkills(req.Skills)
	}
	if req.ExpectedPay > 0 {
		worker.ExpectedPay = req.ExpectedPay
	}
	if req.County != "" {
		worker.County = req.County
	}
	if req.Phone != "" {
		worker.Phone = mpesa.NormalizePhone(req.Phone)
	}

	if err := s.workerRepo.Update(worker); err != nil {
		return nil, apperrors.InternalError(err)
	}
	return worker, nil
}

func (s *workerService) MarkNotificationsRead(ctx context.Context, userID string) error {
	worker, err := s.workerRepo.FindByUserID(userID)
	if err != nil {
		if err == repositories.ErrWorkerNotFound {
			return apperrors.ErrWorkerNotFound
		}
		return apperrors.InternalError(err)
	}
	if err := s.notifications.MarkAllRead(ctx, worker.ID); err != nil {
		return apperrors.InternalError(err)
	}
	return nil
}

func (s *workerService) Stats(ctx context.Context, userID string) (*dto.WorkerStats, error) {
	worker, err := s.workerRepo.FindByUserID(userID)
	if err != nil {
		if err == repositories.ErrWorkerNotFound {
			return nil, apperrors.ErrWorkerNotFound
		}
		return nil, apperrors.InternalError(err)
	}

	return &dto.WorkerStats{
		ProfileViews:      worker.ProfileViews,
		ContactCount:      worker.ContactCount,
		ApplicationStatus: worker.ApplicationStatus,
		PaymentStatus:     worker.PaymentStatus,
		IsVisible:         worker.IsVisible,
		MemberSince:       worker.CreatedAt,
	}, nil
}

func (s *workerService) RecordView(ctx context.Context, workerID string) (int, error) {
	views, err := s.workerRepo.IncrementProfileViews(workerID)
	if err != nil {
		if err == repositories.ErrWorkerNotFound {
			return 0, apperrors.ErrWorkerNotFound
		}
		return 0, apperrors.InternalError(err)
	}
	return views, nil
}

func (s *workerService) Browse(ctx context.Context, query *dto.BrowseQuery) ([]dto.WorkerView, *dto.Pagination, error) {
	filter := repositories.BrowseFilter{
		County:        query.County,
		MinPay:        query.MinPay,
		MaxPay:        query.MaxPay,
		MinExperience: query.Experience,
		Page:          query.Page,
		PageSize:      query.Limit,
	}
	if query.Skills != "" {
		for _, skill := range strings.Split(query.Skills, ",") {
			if skill = strings.TrimSpace(skill); skill != "" {
				filter.Skills = append(filter.Skills, skill)
			}
		}
	}

	workers, total, err := s.workerRepo.FindVisible(filter)
	if err != nil {
		return nil, nil, apperrors.InternalError(err)
	}

	views := make([]dto.WorkerView, 0, len(workers))
	for i := range workers {
		// Browse listings never carry contact details regardless of the
		// viewer's access state.
		views = append(views, buildWorkerView(&workers[i], false))
	}

	return views, buildPagination(query.Page, query.Limit, total), nil
}

func (s *workerService) GetByID(ctx context.Context, workerID, viewerID string) (*dto.WorkerView, error) {
	worker, err := s.workerRepo.FindByID(workerID)
	if err != nil {
		if err == repositories.ErrWorkerNotFound {
			return nil, apperrors.ErrWorkerNotFound
		}
		return nil, apperrors.InternalError(err)
	}
	if !worker.IsVisible {
		return nil, apperrors.ErrWorkerNotFound
	}

	showContact := false
	if viewerID != "" {
		viewer, err := s.userRepo.FindByID(viewerID)
		if err == nil {
			showContact = IsAccessActive(viewer, s.now())
		}
	}

	views, err := s.workerRepo.IncrementProfileViews(workerID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	worker.ProfileViews = views

	view := buildWorkerView(worker, showContact)
	return &view, nil
}

func buildWorkerView(worker *models.Worker, showContact bool) dto.WorkerView {
	view := dto.WorkerView{
		ID:           worker.ID,
		Age:          worker.Age,
		County:       worker.County,
		Experience:   worker.Experience,
		ExpectedPay:  worker.ExpectedPay,
		Skills:       worker.GetSkills(),
		Bio:          worker.Bio,
		PhotoURL:     worker.PhotoURL,
		ProfileViews: worker.ProfileViews,
		ShowContact:  showContact,
		MemberSince:  worker.CreatedAt,
	}
	if showContact {
		phone := worker.Phone
		view.Phone = &phone
	}
	return view
}
