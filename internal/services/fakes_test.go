package services

import (
	"fmt"
	"sort"
	"time"

	"homehelp_backend/internal/models"
	"homehelp_backend/internal/repositories"
)

// In-memory repository fakes. They reproduce the contracts the services
// depend on, most importantly the compare-and-set semantics of MarkTerminal
// and the idempotent insert of the contact ledger.

type fakePaymentRepo struct {
	payments map[string]*models.Payment
	seq      int
}

func newFakePaymentRepo() *fakePaymentRepo {
	return &fakePaymentRepo{payments: make(map[string]*models.Payment)}
}

func (r *fakePaymentRepo) Create(payment *models.Payment) error {
	r.seq++
	if payment.ID == "" {
		payment.ID = fmt.Sprintf("pay-%d", r.seq)
	}
	payment.CreatedAt = time.Now()
	clone := *payment
	r.payments[payment.ID] = &clone
	return nil
}

func (r *fakePaymentRepo) Update(payment *models.Payment) error {
	if _, ok := r.payments[payment.ID]; !ok {
		return repositories.ErrPaymentNotFound
	}
	clone := *payment
	r.payments[payment.ID] = &clone
	return nil
}

func (r *fakePaymentRepo) FindByID(id string) (*models.Payment, error) {
	payment, ok := r.payments[id]
	if !ok {
		return nil, repositories.ErrPaymentNotFound
	}
	clone := *payment
	return &clone, nil
}

func (r *fakePaymentRepo) FindByCheckoutRequestID(ref string) (*models.Payment, error) {
	for _, payment := range r.payments {
		if payment.CheckoutRequestID != nil && *payment.CheckoutRequestID == ref {
			clone := *payment
			return &clone, nil
		}
	}
	return nil, repositories.ErrPaymentNotFound
}

func (r *fakePaymentRepo) MarkTerminal(id string, status models.PaymentStatus, updates map[string]interface{}) (bool, error) {
	payment, ok := r.payments[id]
	if !ok {
		return false, repositories.ErrPaymentNotFound
	}
	if payment.Status != models.PaymentStatusPending {
		if payment.Status == status {
			return false, nil
		}
		return false, repositories.ErrTerminalConflict
	}

	payment.Status = status
	for key, value := range updates {
		switch key {
		case "result_code":
			payment.ResultCode = value.(string)
		case "result_desc":
			payment.ResultDesc = value.(string)
		case "mpesa_receipt_number":
			payment.MpesaReceiptNumber = value.(string)
		case "transaction_date":
			at := value.(time.Time)
			payment.TransactionDate = &at
		}
	}
	return true, nil
}

func (r *fakePaymentRepo) HasNonTerminal(userID string, purpose models.PaymentPurpose) (bool, error) {
	for _, payment := range r.payments {
		if payment.UserID == userID && payment.Purpose == purpose && !payment.Status.IsTerminal() {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakePaymentRepo) FindByUser(userID string, page, pageSize int) ([]models.Payment, int64, error) {
	var out []models.Payment
	for _, payment := range r.payments {
		if payment.UserID == userID {
			out = append(out, *payment)
		}
	}
	return out, int64(len(out)), nil
}

func (r *fakePaymentRepo) FindWithFilter(filter repositories.PaymentFilter) ([]models.Payment, int64, error) {
	var out []models.Payment
	for _, payment := range r.payments {
		if filter.Status != "" && payment.Status != filter.Status {
			continue
		}
		if filter.Purpose != "" && payment.Purpose != filter.Purpose {
			continue
		}
		out = append(out, *payment)
	}
	return out, int64(len(out)), nil
}

func (r *fakePaymentRepo) CancelStalePending(olderThan time.Time) (int64, error) {
	var cancelled int64
	for _, payment := range r.payments {
		if payment.Status == models.PaymentStatusPending && payment.CreatedAt.Before(olderThan) {
			payment.Status = models.PaymentStatusCancelled
			payment.ResultDesc = "Cancelled: no confirmation received"
			cancelled++
		}
	}
	return cancelled, nil
}

func (r *fakePaymentRepo) RevenueByPurpose() ([]repositories.PurposeRevenue, error) {
	totals := make(map[models.PaymentPurpose]float64)
	for _, payment := range r.payments {
		if payment.Status == models.PaymentStatusSuccess {
			totals[payment.Purpose] += payment.Amount
		}
	}
	var out []repositories.PurposeRevenue
	for purpose, total := range totals {
		out = append(out, repositories.PurposeRevenue{Purpose: purpose, Total: total})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Purpose < out[j].Purpose })
	return out, nil
}

func (r *fakePaymentRepo) RecentSuccessful(limit int) ([]models.Payment, error) {
	var out []models.Payment
	for _, payment := range r.payments {
		if payment.Status == models.PaymentStatusSuccess {
			out = append(out, *payment)
		}
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *fakePaymentRepo) TrendSince(since time.Time) ([]repositories.PaymentTrendPoint, error) {
	return nil, nil
}

type fakeWorkerRepo struct {
	workers map[string]*models.Worker
	seq     int
}

func newFakeWorkerRepo() *fakeWorkerRepo {
	return &fakeWorkerRepo{workers: make(map[string]*models.Worker)}
}

func (r *fakeWorkerRepo) Create(worker *models.Worker) error {
	r.seq++
	if worker.ID == "" {
		worker.ID = fmt.Sprintf("worker-%d", r.seq)
	}
	worker.CreatedAt = time.Now()
	clone := *worker
	r.workers[worker.ID] = &clone
	return nil
}

func (r *fakeWorkerRepo) Update(worker *models.Worker) error {
	if _, ok := r.workers[worker.ID]; !ok {
		return repositories.ErrWorkerNotFound
	}
	clone := *worker
	r.workers[worker.ID] = &clone
	return nil
}

func (r *fakeWorkerRepo) FindByID(id string) (*models.Worker, error) {
	worker, ok := r.workers[id]
	if !ok {
		return nil, repositories.ErrWorkerNotFound
	}
	clone := *worker
	return &clone, nil
}

func (r *fakeWorkerRepo) FindByUserID(userID string) (*models.Worker, error) {
	for _, worker := range r.workers {
		if worker.UserID == userID {
			clone := *worker
			return &clone, nil
		}
	}
	return nil, repositories.ErrWorkerNotFound
}

func (r *fakeWorkerRepo) FindVisible(filter repositories.BrowseFilter) ([]models.Worker, int64, error) {
	var out []models.Worker
	for _, worker := range r.workers {
		if worker.IsVisible {
			out = append(out, *worker)
		}
	}
	return out, int64(len(out)), nil
}

func (r *fakeWorkerRepo) FindWithFilter(filter repositories.ApplicationFilter) ([]models.Worker, int64, error) {
	var out []models.Worker
	for _, worker := range r.workers {
		if filter.Status != "" && worker.ApplicationStatus != filter.Status {
			continue
		}
		if filter.PaymentStatus != "" && worker.PaymentStatus != filter.PaymentStatus {
			continue
		}
		out = append(out, *worker)
	}
	return out, int64(len(out)), nil
}

func (r *fakeWorkerRepo) IncrementProfileViews(id string) (int, error) {
	worker, ok := r.workers[id]
	if !ok {
		return 0, repositories.ErrWorkerNotFound
	}
	worker.ProfileViews++
	return worker.ProfileViews, nil
}

func (r *fakeWorkerRepo) IncrementContactCount(id string) error {
	worker, ok := r.workers[id]
	if !ok {
		return repositories.ErrWorkerNotFound
	}
	worker.ContactCount++
	return nil
}

func (r *fakeWorkerRepo) SetVisibility(id string, visible bool) error {
	worker, ok := r.workers[id]
	if !ok {
		return repositories.ErrWorkerNotFound
	}
	worker.IsVisible = visible
	return nil
}

func (r *fakeWorkerRepo) GetCounts() (*repositories.WorkerCounts, error) {
	return &repositories.WorkerCounts{}, nil
}

func (r *fakeWorkerRepo) MostViewed(limit int) ([]models.Worker, error)    { return nil, nil }
func (r *fakeWorkerRepo) MostContacted(limit int) ([]models.Worker, error) { return nil, nil }
func (r *fakeWorkerRepo) Recent(limit int) ([]models.Worker, error)        { return nil, nil }

type fakeUserRepo struct {
	users map[string]*models.User
	seq   int
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*models.User)}
}

func (r *fakeUserRepo) FindByID(id string) (*models.User, error) {
	user, ok := r.users[id]
	if !ok {
		return nil, repositories.ErrUserNotFound
	}
	clone := *user
	return &clone, nil
}

func (r *fakeUserRepo) FindByEmail(email string) (*models.User, error) {
	for _, user := range r.users {
		if user.Email == email {
			clone := *user
			return &clone, nil
		}
	}
	return nil, repositories.ErrUserNotFound
}

func (r *fakeUserRepo) Create(user *models.User) error {
	for _, existing := range r.users {
		if existing.Email == user.Email {
			return repositories.ErrUserAlreadyExists
		}
	}
	r.seq++
	if user.ID == "" {
		user.ID = fmt.Sprintf("user-%d", r.seq)
	}
	clone := *user
	r.users[user.ID] = &clone
	return nil
}

func (r *fakeUserRepo) Update(user *models.User) error {
	if _, ok := r.users[user.ID]; !ok {
		return repositories.ErrUserNotFound
	}
	clone := *user
	r.users[user.ID] = &clone
	return nil
}

func (r *fakeUserRepo) UpdateLastLogin(userID string, at time.Time) error {
	user, ok := r.users[userID]
	if !ok {
		return repositories.ErrUserNotFound
	}
	user.LastLogin = &at
	return nil
}

func (r *fakeUserRepo) FindWithFilter(filter repositories.UserFilter) ([]models.User, int64, error) {
	var out []models.User
	for _, user := range r.users {
		if filter.Role != "" && user.Role != filter.Role {
			continue
		}
		out = append(out, *user)
	}
	return out, int64(len(out)), nil
}

func (r *fakeUserRepo) GetCustomerCounts(now time.Time) (*repositories.CustomerCounts, error) {
	return &repositories.CustomerCounts{}, nil
}

type fakeContactRepo struct {
	pairs    map[string]time.Time
	contacts []models.WorkerContact
}

func newFakeContactRepo() *fakeContactRepo {
	return &fakeContactRepo{pairs: make(map[string]time.Time)}
}

func (r *fakeContactRepo) Record(customerID, workerID string, at time.Time) (bool, error) {
	key := customerID + "/" + workerID
	if _, ok := r.pairs[key]; ok {
		return false, nil
	}
	r.pairs[key] = at
	r.contacts = append(r.contacts, models.WorkerContact{
		CustomerID:  customerID,
		WorkerID:    workerID,
		ContactedAt: at,
	})
	return true, nil
}

func (r *fakeContactRepo) FindByCustomer(customerID string) ([]models.WorkerContact, error) {
	var out []models.WorkerContact
	for _, contact := range r.contacts {
		if contact.CustomerID == customerID {
			out = append(out, contact)
		}
	}
	return out, nil
}

type fakeNotificationRepo struct {
	notifications []*models.Notification
}

func (r *fakeNotificationRepo) Create(notification *models.Notification) error {
	clone := *notification
	r.notifications = append(r.notifications, &clone)
	return nil
}

func (r *fakeNotificationRepo) FindByWorker(workerID string) ([]models.Notification, error) {
	var out []models.Notification
	for _, n := range r.notifications {
		if n.WorkerID == workerID {
			out = append(out, *n)
		}
	}
	return out, nil
}

func (r *fakeNotificationRepo) CountUnread(workerID string) (int64, error) {
	var count int64
	for _, n := range r.notifications {
		if n.WorkerID == workerID && !n.IsRead {
			count++
		}
	}
	return count, nil
}

func (r *fakeNotificationRepo) MarkAllRead(workerID string) error {
	for _, n := range r.notifications {
		if n.WorkerID == workerID {
			n.IsRead = true
		}
	}
	return nil
}

func (r *fakeNotificationRepo) byKind(kind models.NotificationKind) []*models.Notification {
	var out []*models.Notification
	for _, n := range r.notifications {
		if n.Kind == kind {
			out = append(out, n)
		}
	}
	return out
}
