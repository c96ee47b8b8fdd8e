package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"homehelp_backend/internal/models"
	"homehelp_backend/internal/services/dto"
	"homehelp_backend/pkg/apperrors"
)

type workerFixture struct {
	svc           *workerService
	workerRepo    *fakeWorkerRepo
	userRepo      *fakeUserRepo
	notifications *fakeNotificationRepo
	now           time.Time
}

func newWorkerFixture(t *testing.T) *workerFixture {
	t.Helper()
	f := &workerFixture{
		workerRepo:    newFakeWorkerRepo(),
		userRepo:      newFakeUserRepo(),
		notifications: &fakeNotificationRepo{},
		now:           time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC),
	}
	f.svc = &workerService{
		workerRepo:    f.workerRepo,
		userRepo:      f.userRepo,
		notifications: NewNotificationService(f.notifications),
		now:           func() time.Time { return f.now },
	}
	return f
}

func (f *workerFixture) addUser(t *testing.T, email string, role models.UserRole) *models.User {
	t.Helper()
	user := &models.User{Email: email, Role: role, IsActive: true}
	require.NoError(t, f.userRepo.Create(user))
	return user
}

func validApplication() *dto.ApplicationRequest {
	experience := 5
	return &dto.ApplicationRequest{
		Age:         28,
		County:      "Nairobi",
		Experience:  &experience,
		ExpectedPay: 15000,
		Skills:      []string{"cleaning", "cooking"},
		Bio:         "Experienced house help with five years of full-time work in Nairobi households and excellent references.",
		Phone:       "0712345678",
	}
}

func TestSubmitApplication_CreatesPending(t *testing.T) {
	f := newWorkerFixture(t)
	user := f.addUser(t, "w@example.com", models.UserRoleWorker)

	worker, err := f.svc.SubmitApplication(context.Background(), user.ID, validApplication())
	require.NoError(t, err)
	assert.Equal(t, models.ApplicationStatusPending, worker.ApplicationStatus)
	assert.Equal(t, models.WorkerPaymentStatusUnpaid, worker.PaymentStatus)
	assert.False(t, worker.IsVisible)
	assert.Equal(t, "254712345678", worker.Phone)
	assert.Equal(t, []string{"cleaning", "cooking"}, worker.GetSkills())
}

func TestSubmitApplication_CustomerForbidden(t *testing.T) {
	f := newWorkerFixture(t)
	user := f.addUser(t, "c@example.com", models.UserRoleCustomer)

	_, err := f.svc.SubmitApplication(context.Background(), user.ID, validApplication())
	require.Error(t, err)
	assertAppErrorCode(t, err, apperrors.CodeForbidden)
}

func TestSubmitApplication_DuplicateBlockedUnlessRejected(t *testing.T) {
	f := newWorkerFixture(t)
	user := f.addUser(t, "w@example.com", models.UserRoleWorker)

	first, err := f.svc.SubmitApplication(context.Background(), user.ID, validApplication())
	require.NoError(t, err)

	_, err = f.svc.SubmitApplication(context.Background(), user.ID, validApplication())
	require.Error(t, err)
	assertAppErrorCode(t, err, apperrors.CodeConflict)

	// After rejection the same call becomes a resubmission.
	stored, err := f.workerRepo.FindByID(first.ID)
	require.NoError(t, err)
	require.NoError(t, RejectApplication(stored, "bad photo"))
	stored.PaymentStatus = models.WorkerPaymentStatusPaid // paid before rejection
	require.NoError(t, f.workerRepo.Update(stored))

	req := validApplication()
	req.County = "Mombasa"
	resubmitted, err := f.svc.SubmitApplication(context.Background(), user.ID, req)
	require.NoError(t, err)
	assert.Equal(t, first.ID, resubmitted.ID, "resubmission reuses the record")
	assert.Equal(t, models.ApplicationStatusPending, resubmitted.ApplicationStatus)
	assert.Nil(t, resubmitted.RejectionReason)
	assert.Equal(t, "Mombasa", resubmitted.County)
	assert.Equal(t, models.WorkerPaymentStatusPaid, resubmitted.PaymentStatus)
}

func TestUpdateProfile_RejectedMustResubmit(t *testing.T) {
	f := newWorkerFixture(t)
	user := f.addUser(t, "w@example.com", models.UserRoleWorker)

	worker, err := f.svc.SubmitApplication(context.Background(), user.ID, validApplication())
	require.NoError(t, err)

	stored, err := f.workerRepo.FindByID(worker.ID)
	require.NoError(t, err)
	require.NoError(t, RejectApplication(stored, "bad photo"))
	require.NoError(t, f.workerRepo.Update(stored))

	_, err = f.svc.UpdateProfile(context.Background(), user.ID, &dto.UpdateProfileRequest{County: "Kisumu"})
	require.Error(t, err)
	assertAppErrorCode(t, err, apperrors.CodeInvalidOperation)
}

func TestBrowse_OnlyVisibleWorkers(t *testing.T) {
	f := newWorkerFixture(t)

	visible := &models.Worker{
		UserID:            "u1",
		ApplicationStatus: models.ApplicationStatusApproved,
		PaymentStatus:     models.WorkerPaymentStatusPaid,
		IsVisible:         true,
		Phone:             "254700000001",
		County:            "Nairobi",
	}
	hidden := &models.Worker{
		UserID:            "u2",
		ApplicationStatus: models.ApplicationStatusApproved,
		PaymentStatus:     models.WorkerPaymentStatusUnpaid,
		IsVisible:         false,
	}
	require.NoError(t, f.workerRepo.Create(visible))
	require.NoError(t, f.workerRepo.Create(hidden))

	views, pagination, err := f.svc.Browse(context.Background(), &dto.BrowseQuery{})
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, visible.ID, views[0].ID)
	assert.False(t, views[0].ShowContact)
	assert.Nil(t, views[0].Phone, "browse listing never discloses contact")
	assert.Equal(t, int64(1), pagination.Total)
}

func TestGetByID_ContactDisclosure(t *testing.T) {
	f := newWorkerFixture(t)

	worker := &models.Worker{
		UserID:            "u1",
		ApplicationStatus: models.ApplicationStatusApproved,
		PaymentStatus:     models.WorkerPaymentStatusPaid,
		IsVisible:         true,
		Phone:             "254700000001",
	}
	require.NoError(t, f.workerRepo.Create(worker))

	paid := f.addUser(t, "paid@example.com", models.UserRoleCustomer)
	expires := f.now.Add(10 * time.Hour)
	paid.HasActiveAccess = true
	paid.AccessExpiresAt = &expires
	require.NoError(t, f.userRepo.Update(paid))

	unpaid := f.addUser(t, "unpaid@example.com", models.UserRoleCustomer)

	view, err := f.svc.GetByID(context.Background(), worker.ID, paid.ID)
	require.NoError(t, err)
	assert.True(t, view.ShowContact)
	require.NotNil(t, view.Phone)
	assert.Equal(t, "254700000001", *view.Phone)

	view, err = f.svc.GetByID(context.Background(), worker.ID, unpaid.ID)
	require.NoError(t, err)
	assert.False(t, view.ShowContact)
	assert.Nil(t, view.Phone)

	// Anonymous view, and each detail view bumps the counter.
	view, err = f.svc.GetByID(context.Background(), worker.ID, "")
	require.NoError(t, err)
	assert.False(t, view.ShowContact)
	assert.Equal(t, 3, view.ProfileViews)
}

func TestGetByID_HiddenWorkerIsNotFound(t *testing.T) {
	f := newWorkerFixture(t)

	worker := &models.Worker{UserID: "u1", IsVisible: false}
	require.NoError(t, f.workerRepo.Create(worker))

	_, err := f.svc.GetByID(context.Background(), worker.ID, "")
	require.Error(t, err)
	assertAppErrorCode(t, err, apperrors.CodeNotFound)
}

func TestDashboard(t *testing.T) {
	f := newWorkerFixture(t)
	user := f.addUser(t, "w@example.com", models.UserRoleWorker)

	worker, err := f.svc.SubmitApplication(context.Background(), user.ID, validApplication())
	require.NoError(t, err)

	svc := NewNotificationService(f.notifications)
	svc.Notify(context.Background(), worker.ID, models.NotificationKindApproval, "Approved")
	svc.Notify(context.Background(), worker.ID, models.NotificationKindPaymentSuccess, "Paid")

	dashboard, err := f.svc.Dashboard(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Len(t, dashboard.Notifications, 2)
	assert.Equal(t, int64(2), dashboard.UnreadNotificationsCount)

	require.NoError(t, f.svc.MarkNotificationsRead(context.Background(), user.ID))
	dashboard, err = f.svc.Dashboard(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Zero(t, dashboard.UnreadNotificationsCount)
}

func TestStats_ReflectsCounters(t *testing.T) {
	f := newWorkerFixture(t)
	user := f.addUser(t, "w@example.com", models.UserRoleWorker)

	worker := &models.Worker{
		UserID:            user.ID,
		ApplicationStatus: models.ApplicationStatusApproved,
		PaymentStatus:     models.WorkerPaymentStatusPaid,
		IsVisible:         true,
		ProfileViews:      7,
		ContactCount:      3,
	}
	require.NoError(t, f.workerRepo.Create(worker))

	stats, err := f.svc.Stats(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, 7, stats.ProfileViews)
	assert.Equal(t, 3, stats.ContactCount)
	assert.Equal(t, models.ApplicationStatusApproved, stats.ApplicationStatus)
	assert.Equal(t, models.WorkerPaymentStatusPaid, stats.PaymentStatus)
	assert.True(t, stats.IsVisible)
	assert.Equal(t, worker.CreatedAt, stats.MemberSince)
}

func TestStats_NoApplication(t *testing.T) {
	f := newWorkerFixture(t)
	user := f.addUser(t, "w@example.com", models.UserRoleWorker)

	_, err := f.svc.Stats(context.Background(), user.ID)
	require.Error(t, err)
	assertAppErrorCode(t, err, apperrors.CodeNotFound)
}

func TestRecordView_CountsCardClicks(t *testing.T) {
	f := newWorkerFixture(t)

	worker := &models.Worker{UserID: "u1", IsVisible: true}
	require.NoError(t, f.workerRepo.Create(worker))

	views, err := f.svc.RecordView(context.Background(), worker.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, views)

	views, err = f.svc.RecordView(context.Background(), worker.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, views)

	_, err = f.svc.RecordView(context.Background(), "missing")
	require.Error(t, err)
	assertAppErrorCode(t, err, apperrors.CodeNotFound)
}
