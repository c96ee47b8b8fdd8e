package services

import (
	"context"
	"time"

	"golang.org/x/crypto/bcrypt"

	"homehelp_backend/internal/auth"
	"homehelp_backend/internal/logger"
	"homehelp_backend/internal/models"
	"homehelp_backend/internal/mpesa"
	"homehelp_backend/internal/repositories"
	"homehelp_backend/internal/services/dto"
	"homehelp_backend/pkg/apperrors"
)

type AuthService interface {
	Register(ctx context.Context, req *dto.RegisterRequest) (*dto.AuthResponse, error)
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error)
	// AdminLogin is Login restricted to the admin role. Credentials valid for
	// a non-admin account are rejected the same way as bad credentials.
	AdminLogin(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error)
	Me(ctx context.Context, userID string) (*dto.UserInfo, error)
}

type authService struct {
	userRepo   repositories.UserRepository
	workerRepo repositories.WorkerRepository
}

func NewAuthService(userRepo repositories.UserRepository, workerRepo repositories.WorkerRepository) AuthService {
	return &authService{userRepo: userRepo, workerRepo: workerRepo}
}

func (s *authService) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.AuthResponse, error) {
	role := models.UserRole(req.Role)
	if role == "" {
		role = models.UserRoleCustomer
	}
	if role != models.UserRoleCustomer && role != models.UserRoleWorker {
		return nil, apperrors.NewBadRequestError("Role must be customer or worker")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	user := &models.User{
		Email:        req.Email,
		PasswordHash: string(hashed),
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Role:         role,
		IsActive:     true,
	}
	if req.Phone != "" {
		user.Phone = mpesa.NormalizePhone(req.Phone)
	}

	if err := s.userRepo.Create(user); err != nil {
		if err == repositories.ErrUserAlreadyExists {
			return nil, apperrors.ErrAlreadyExists(err)
		}
		return nil, apperrors.InternalError(err)
	}

	token, err := auth.GenerateToken(user.ID, string(user.Role))
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	logger.CtxInfo(ctx, "user registered", "user_id", user.ID, "role", user.Role)

	return &dto.AuthResponse{
		Message: "Registration successful",
		Token:   token,
		User:    s.buildUserInfo(user),
	}, nil
}

func (s *authService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error) {
	return s.login(ctx, req, "")
}

func (s *authService) AdminLogin(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error) {
	return s.login(ctx, req, models.UserRoleAdmin)
}

func (s *authService) login(ctx context.Context, req *dto.LoginRequest, requiredRole models.UserRole) (*dto.AuthResponse, error) {
	user, err := s.userRepo.FindByEmail(req.Email)
	if err != nil {
		if err == repositories.ErrUserNotFound {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, apperrors.InternalError(err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, apperrors.ErrInvalidCredentials
	}
	if requiredRole != "" && user.Role != requiredRole {
		return nil, apperrors.ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, apperrors.ErrAccountDeactivated
	}

	token, err := auth.GenerateToken(user.ID, string(user.Role))
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	now := time.Now()
	if err := s.userRepo.UpdateLastLogin(user.ID, now); err != nil {
		logger.CtxWithError(ctx, "failed to record last login", err, "user_id", user.ID)
	}

	return &dto.AuthResponse{
		Message: "Login successful",
		Token:   token,
		User:    s.buildUserInfo(user),
	}, nil
}

func (s *authService) Me(ctx context.Context, userID string) (*dto.UserInfo, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if err == repositories.ErrUserNotFound {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.InternalError(err)
	}
	info := s.buildUserInfo(user)
	return &info, nil
}

func (s *authService) buildUserInfo(user *models.User) dto.UserInfo {
	info := dto.UserInfo{
		ID:        user.ID,
		Email:     user.Email,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Phone:     user.Phone,
		Role:      user.Role,
	}

	if user.Role != models.UserRoleWorker {
		return info
	}

	worker := user.Worker
	if worker == nil {
		w, err := s.workerRepo.FindByUserID(user.ID)
		if err != nil {
			return info
		}
		worker = w
	}

	info.ApplicationStatus = string(worker.ApplicationStatus)
	info.PaymentStatus = string(worker.PaymentStatus)
	info.RejectionReason = worker.RejectionReason
	visible := worker.IsVisible
	info.IsVisible = &visible
	return info
}
