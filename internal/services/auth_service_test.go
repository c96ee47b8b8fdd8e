package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"homehelp_backend/internal/auth"
	"homehelp_backend/internal/config"
	"homehelp_backend/internal/models"
	"homehelp_backend/internal/services/dto"
	"homehelp_backend/pkg/apperrors"
)

func init() {
	cfg := &config.Config{}
	cfg.JWT.Secret = "test-secret"
	cfg.JWT.TTL = 60
	config.AppConfig = cfg
}

func newAuthFixture(t *testing.T) (AuthService, *fakeUserRepo, *fakeWorkerRepo) {
	t.Helper()
	userRepo := newFakeUserRepo()
	workerRepo := newFakeWorkerRepo()
	return NewAuthService(userRepo, workerRepo), userRepo, workerRepo
}

func TestRegisterAndLogin(t *testing.T) {
	svc, _, _ := newAuthFixture(t)

	registered, err := svc.Register(context.Background(), &dto.RegisterRequest{
		Email:     "jane@example.com",
		Password:  "password123",
		FirstName: "Jane",
		Phone:     "0712345678",
		Role:      "customer",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, registered.Token)
	assert.Equal(t, models.UserRoleCustomer, registered.User.Role)
	assert.Equal(t, "254712345678", registered.User.Phone)

	claims, err := auth.ParseToken(registered.Token)
	require.NoError(t, err)
	assert.Equal(t, registered.User.ID, claims.UserID)
	assert.Equal(t, "customer", claims.Role)

	loggedIn, err := svc.Login(context.Background(), &dto.LoginRequest{
		Email:    "jane@example.com",
		Password: "password123",
	})
	require.NoError(t, err)
	assert.Equal(t, registered.User.ID, loggedIn.User.ID)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	svc, _, _ := newAuthFixture(t)

	req := &dto.RegisterRequest{
		Email:     "dup@example.com",
		Password:  "password123",
		FirstName: "First",
	}
	_, err := svc.Register(context.Background(), req)
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), req)
	require.Error(t, err)
	assertAppErrorCode(t, err, apperrors.CodeAlreadyExists)
}

func TestRegister_RejectsAdminRole(t *testing.T) {
	svc, _, _ := newAuthFixture(t)

	_, err := svc.Register(context.Background(), &dto.RegisterRequest{
		Email:     "evil@example.com",
		Password:  "password123",
		FirstName: "Evil",
		Role:      "admin",
	})
	require.Error(t, err)
}

func TestLogin_WrongPasswordAndDeactivated(t *testing.T) {
	svc, userRepo, _ := newAuthFixture(t)

	registered, err := svc.Register(context.Background(), &dto.RegisterRequest{
		Email:     "user@example.com",
		Password:  "password123",
		FirstName: "User",
	})
	require.NoError(t, err)

	_, err = svc.Login(context.Background(), &dto.LoginRequest{
		Email:    "user@example.com",
		Password: "wrong",
	})
	assert.Equal(t, apperrors.ErrInvalidCredentials, err)

	_, err = svc.Login(context.Background(), &dto.LoginRequest{
		Email:    "nobody@example.com",
		Password: "password123",
	})
	assert.Equal(t, apperrors.ErrInvalidCredentials, err)

	user, err := userRepo.FindByID(registered.User.ID)
	require.NoError(t, err)
	user.IsActive = false
	require.NoError(t, userRepo.Update(user))

	_, err = svc.Login(context.Background(), &dto.LoginRequest{
		Email:    "user@example.com",
		Password: "password123",
	})
	assert.Equal(t, apperrors.ErrAccountDeactivated, err)
}

func TestAdminLogin_RejectsNonAdmin(t *testing.T) {
	svc, _, _ := newAuthFixture(t)

	_, err := svc.Register(context.Background(), &dto.RegisterRequest{
		Email:     "worker@example.com",
		Password:  "password123",
		FirstName: "Worker",
		Role:      "worker",
	})
	require.NoError(t, err)

	_, err = svc.AdminLogin(context.Background(), &dto.LoginRequest{
		Email:    "worker@example.com",
		Password: "password123",
	})
	assert.Equal(t, apperrors.ErrInvalidCredentials, err)
}

func TestMe_AttachesWorkerStatus(t *testing.T) {
	svc, userRepo, workerRepo := newAuthFixture(t)

	registered, err := svc.Register(context.Background(), &dto.RegisterRequest{
		Email:     "w@example.com",
		Password:  "password123",
		FirstName: "W",
		Role:      "worker",
	})
	require.NoError(t, err)

	user, err := userRepo.FindByID(registered.User.ID)
	require.NoError(t, err)
	reason := "bio too short"
	worker := &models.Worker{
		UserID:            user.ID,
		ApplicationStatus: models.ApplicationStatusRejected,
		PaymentStatus:     models.WorkerPaymentStatusUnpaid,
		RejectionReason:   &reason,
	}
	require.NoError(t, workerRepo.Create(worker))

	info, err := svc.Me(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, "rejected", info.ApplicationStatus)
	require.NotNil(t, info.RejectionReason)
	assert.Equal(t, "bio too short", *info.RejectionReason)
}
