package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"homehelp_backend/internal/config"
	"homehelp_backend/internal/models"
	"homehelp_backend/internal/services/dto"
	"homehelp_backend/pkg/apperrors"
)

type adminFixture struct {
	svc           *adminService
	workerRepo    *fakeWorkerRepo
	userRepo      *fakeUserRepo
	paymentRepo   *fakePaymentRepo
	notifications *fakeNotificationRepo
	now           time.Time
}

func newAdminFixture(t *testing.T) *adminFixture {
	t.Helper()
	f := &adminFixture{
		workerRepo:    newFakeWorkerRepo(),
		userRepo:      newFakeUserRepo(),
		paymentRepo:   newFakePaymentRepo(),
		notifications: &fakeNotificationRepo{},
		now:           time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC),
	}
	f.svc = &adminService{
		cfg: config.PaymentsConfig{
			WorkerListingFee:  300,
			CustomerUnlockFee: 500,
		},
		workerRepo:    f.workerRepo,
		userRepo:      f.userRepo,
		paymentRepo:   f.paymentRepo,
		notifications: NewNotificationService(f.notifications),
		now:           func() time.Time { return f.now },
	}
	return f
}

func (f *adminFixture) addPendingWorker(t *testing.T) *models.Worker {
	t.Helper()
	user := &models.User{Email: "w@example.com", Role: models.UserRoleWorker, IsActive: true}
	require.NoError(t, f.userRepo.Create(user))
	worker := &models.Worker{
		UserID:            user.ID,
		ApplicationStatus: models.ApplicationStatusPending,
		PaymentStatus:     models.WorkerPaymentStatusUnpaid,
	}
	require.NoError(t, f.workerRepo.Create(worker))
	return worker
}

func TestApproveWorker_UnpaidStaysHidden(t *testing.T) {
	f := newAdminFixture(t)
	worker := f.addPendingWorker(t)

	approved, err := f.svc.ApproveWorker(context.Background(), worker.ID, "admin-1")
	require.NoError(t, err)
	assert.Equal(t, models.ApplicationStatusApproved, approved.ApplicationStatus)
	assert.False(t, approved.IsVisible, "approval without payment must not list")

	approvals := f.notifications.byKind(models.NotificationKindApproval)
	require.Len(t, approvals, 1)
	assert.Contains(t, approvals[0].Message, "KES 300")

	_, err = f.svc.ApproveWorker(context.Background(), worker.ID, "admin-1")
	assert.Equal(t, apperrors.ErrWorkerAlreadyApproved, err)
}

func TestApproveWorker_PaidTurnsVisible(t *testing.T) {
	f := newAdminFixture(t)
	worker := f.addPendingWorker(t)
	worker.PaymentStatus = models.WorkerPaymentStatusPaid
	require.NoError(t, f.workerRepo.Update(worker))

	approved, err := f.svc.ApproveWorker(context.Background(), worker.ID, "admin-1")
	require.NoError(t, err)
	assert.True(t, approved.IsVisible)

	approvals := f.notifications.byKind(models.NotificationKindApproval)
	require.Len(t, approvals, 1)
	assert.NotContains(t, approvals[0].Message, "KES", "paid worker needs no payment prompt")
}

func TestRejectWorker(t *testing.T) {
	f := newAdminFixture(t)
	worker := f.addPendingWorker(t)

	_, err := f.svc.RejectWorker(context.Background(), worker.ID, "")
	assert.Equal(t, apperrors.ErrRejectionReasonRequired, err)

	rejected, err := f.svc.RejectWorker(context.Background(), worker.ID, "incomplete documents")
	require.NoError(t, err)
	assert.Equal(t, models.ApplicationStatusRejected, rejected.ApplicationStatus)
	assert.False(t, rejected.IsVisible)

	rejections := f.notifications.byKind(models.NotificationKindRejection)
	require.Len(t, rejections, 1)
	assert.Contains(t, rejections[0].Message, "incomplete documents")
}

func TestToggleVisibility_OverrideSurvivesUnrelatedWrites(t *testing.T) {
	f := newAdminFixture(t)
	worker := f.addPendingWorker(t)
	worker.ApplicationStatus = models.ApplicationStatusApproved
	worker.PaymentStatus = models.WorkerPaymentStatusPaid
	worker.IsVisible = true
	require.NoError(t, f.workerRepo.Update(worker))

	suspended, err := f.svc.ToggleVisibility(context.Background(), worker.ID)
	require.NoError(t, err)
	assert.False(t, suspended.IsVisible)

	// An unrelated profile write must not resurrect the listing: only
	// approval and payment events recompute the flag.
	stored, err := f.workerRepo.FindByID(worker.ID)
	require.NoError(t, err)
	stored.Bio = "updated bio"
	require.NoError(t, f.workerRepo.Update(stored))

	after, err := f.workerRepo.FindByID(worker.ID)
	require.NoError(t, err)
	assert.False(t, after.IsVisible)

	restored, err := f.svc.ToggleVisibility(context.Background(), worker.ID)
	require.NoError(t, err)
	assert.True(t, restored.IsVisible)
}

func TestToggleUserActive(t *testing.T) {
	f := newAdminFixture(t)
	worker := f.addPendingWorker(t)
	worker.ApplicationStatus = models.ApplicationStatusApproved
	worker.PaymentStatus = models.WorkerPaymentStatusPaid
	worker.IsVisible = true
	require.NoError(t, f.workerRepo.Update(worker))

	admin := &models.User{Email: "admin@example.com", Role: models.UserRoleAdmin, IsActive: true}
	require.NoError(t, f.userRepo.Create(admin))

	_, err := f.svc.ToggleUserActive(context.Background(), admin.ID)
	assert.Equal(t, apperrors.ErrCannotModifyAdmin, err)

	deactivated, err := f.svc.ToggleUserActive(context.Background(), worker.UserID)
	require.NoError(t, err)
	assert.False(t, deactivated.IsActive)

	stored, err := f.workerRepo.FindByID(worker.ID)
	require.NoError(t, err)
	assert.False(t, stored.IsVisible, "deactivating a worker account pulls the listing")
}

func TestAnalytics_RevenueSplit(t *testing.T) {
	f := newAdminFixture(t)

	require.NoError(t, f.paymentRepo.Create(&models.Payment{
		UserID: "u1", Purpose: models.PaymentPurposeWorkerListingFee,
		Amount: 300, Status: models.PaymentStatusSuccess,
	}))
	require.NoError(t, f.paymentRepo.Create(&models.Payment{
		UserID: "u2", Purpose: models.PaymentPurposeCustomerUnlockFee,
		Amount: 500, Status: models.PaymentStatusSuccess,
	}))
	require.NoError(t, f.paymentRepo.Create(&models.Payment{
		UserID: "u3", Purpose: models.PaymentPurposeCustomerUnlockFee,
		Amount: 500, Status: models.PaymentStatusFailed,
	}))

	analytics, err := f.svc.Analytics(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 300.0, analytics.Revenue.FromWorkers)
	assert.Equal(t, 500.0, analytics.Revenue.FromCustomers)
	assert.Equal(t, 800.0, analytics.Revenue.Total, "failed payments never count as revenue")
}

func TestListApplications_StatusFilter(t *testing.T) {
	f := newAdminFixture(t)
	pending := f.addPendingWorker(t)

	approved := &models.Worker{
		UserID:            "other",
		ApplicationStatus: models.ApplicationStatusApproved,
	}
	require.NoError(t, f.workerRepo.Create(approved))

	workers, pagination, err := f.svc.ListApplications(context.Background(), &dto.ApplicationListQuery{Status: "pending"})
	require.NoError(t, err)
	require.Len(t, workers, 1)
	assert.Equal(t, pending.ID, workers[0].ID)
	assert.Equal(t, int64(1), pagination.Total)
}
