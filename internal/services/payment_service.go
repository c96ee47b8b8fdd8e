package services

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"homehelp_backend/internal/config"
	"homehelp_backend/internal/logger"
	"homehelp_backend/internal/models"
	"homehelp_backend/internal/mpesa"
	"homehelp_backend/internal/repositories"
	"homehelp_backend/internal/services/dto"
	"homehelp_backend/pkg/apperrors"
)

// ReconcileOutcome is a terminal gateway result funneled into Reconcile,
// whether it arrived through the inbound callback, a status poll, or the
// simulated gateway.
type ReconcileOutcome struct {
	Success         bool
	ResultCode      string
	ResultDesc      string
	ReceiptNumber   string
	TransactionDate time.Time
}

// PaymentService owns the payment ledger and the reconciliation dispatcher:
// attempt creation with the role/purpose and double-charge guards, gateway
// initiation, and the exactly-once application of terminal outcomes to the
// owning worker or customer record.
type PaymentService interface {
	InitiateWorkerPayment(ctx context.Context, userID, phoneNumber string) (*dto.PaymentInitResponse, error)
	InitiateCustomerPayment(ctx context.Context, userID, phoneNumber string) (*dto.PaymentInitResponse, error)
	// HandleCallback processes an inbound gateway callback. Errors are
	// absorbed and logged; the handler always acknowledges receipt so the
	// gateway does not retry.
	HandleCallback(ctx context.Context, payload *mpesa.CallbackPayload)
	CheckStatus(ctx context.Context, userID, paymentID string) (*dto.PaymentStatusResponse, error)
	History(ctx context.Context, userID string, page, pageSize int) ([]models.Payment, *dto.Pagination, error)
	AccessStatus(ctx context.Context, userID string) (*dto.AccessStatusResponse, error)
	RecordContact(ctx context.Context, customerID, workerID string) error
	// CancelStalePending cancels pending attempts older than the configured
	// TTL. Run periodically by the payments worker.
	CancelStalePending(ctx context.Context) (int64, error)
}

type paymentService struct {
	cfg           config.PaymentsConfig
	gateway       mpesa.Gateway
	paymentRepo   repositories.PaymentRepository
	workerRepo    repositories.WorkerRepository
	userRepo      repositories.UserRepository
	contactRepo   repositories.ContactRepository
	notifications NotificationService
	now           func() time.Time
}

func NewPaymentService(
	cfg config.PaymentsConfig,
	gateway mpesa.Gateway,
	paymentRepo repositories.PaymentRepository,
	workerRepo repositories.WorkerRepository,
	userRepo repositories.UserRepository,
	contactRepo repositories.ContactRepository,
	notifications NotificationService,
) PaymentService {
	return &paymentService{
		cfg:           cfg,
		gateway:       gateway,
		paymentRepo:   paymentRepo,
		workerRepo:    workerRepo,
		userRepo:      userRepo,
		contactRepo:   contactRepo,
		notifications: notifications,
		now:           time.Now,
	}
}

func (s *paymentService) InitiateWorkerPayment(ctx context.Context, userID, phoneNumber string) (*dto.PaymentInitResponse, error) {
	if err := s.checkPurpose(userID, models.PaymentPurposeWorkerListingFee); err != nil {
		return nil, err
	}

	worker, err := s.workerRepo.FindByUserID(userID)
	if err != nil {
		if err == repositories.ErrWorkerNotFound {
			return nil, apperrors.ErrWorkerNotFound
		}
		return nil, apperrors.InternalError(err)
	}

	if worker.ApplicationStatus != models.ApplicationStatusApproved {
		return nil, apperrors.ErrApplicationNotApproved
	}
	if worker.PaymentStatus == models.WorkerPaymentStatusPaid {
		return nil, apperrors.ErrAlreadyEntitled("Payment already completed")
	}

	return s.initiate(ctx, userID, models.UserRoleWorker, models.PaymentPurposeWorkerListingFee,
		s.cfg.WorkerListingFee, phoneNumber,
		fmt.Sprintf("WORKER%s", userID), "HomeHelp Worker Listing Fee")
}

func (s *paymentService) InitiateCustomerPayment(ctx context.Context, userID, phoneNumber string) (*dto.PaymentInitResponse, error) {
	if err := s.checkPurpose(userID, models.PaymentPurposeCustomerUnlockFee); err != nil {
		return nil, err
	}

	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if err == repositories.ErrUserNotFound {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.InternalError(err)
	}

	if IsAccessActive(user, s.now()) {
		return nil, apperrors.ErrAlreadyEntitled("You already have active access")
	}

	return s.initiate(ctx, userID, models.UserRoleCustomer, models.PaymentPurposeCustomerUnlockFee,
		s.cfg.CustomerUnlockFee, phoneNumber,
		fmt.Sprintf("CUSTOMER%s", userID), "HomeHelp Contact Unlock Fee")
}

// checkPurpose enforces the role/purpose pairing server-side, independent of
// route-level role middleware: workers pay the listing fee, customers the
// unlock fee, admins pay nothing.
func (s *paymentService) checkPurpose(userID string, purpose models.PaymentPurpose) error {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if err == repositories.ErrUserNotFound {
			return apperrors.ErrNotFound(err)
		}
		return apperrors.InternalError(err)
	}

	expected, ok := models.PurposeForRole(user.Role)
	if !ok || expected != purpose {
		return apperrors.ErrInvalidPurposeForRole(
			fmt.Sprintf("Role %s cannot pay %s", user.Role, purpose))
	}
	return nil
}

// initiate runs the shared tail of both initiate paths: the pending-attempt
// guard, the ledger write, the gateway call, and (in simulated mode) the
// immediate reconciliation.
func (s *paymentService) initiate(ctx context.Context, userID string, role models.UserRole, purpose models.PaymentPurpose, amount float64, phoneNumber, accountRef, description string) (*dto.PaymentInitResponse, error) {
	pending, err := s.paymentRepo.HasNonTerminal(userID, purpose)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	if pending {
		return nil, apperrors.ErrConflict(nil, "payment", "A payment for this purpose is already awaiting confirmation")
	}

	payment := &models.Payment{
		UserID:      userID,
		UserRole:    role,
		Purpose:     purpose,
		Amount:      amount,
		Status:      models.PaymentStatusPending,
		PhoneNumber: phoneNumber,
	}
	if err := s.paymentRepo.Create(payment); err != nil {
		return nil, apperrors.InternalError(err)
	}

	result, err := s.gateway.InitiateSTKPush(ctx, phoneNumber, amount, accountRef, description)
	if err != nil {
		// No dangling pending entry: a failed initiate is terminal.
		if _, markErr := s.paymentRepo.MarkTerminal(payment.ID, models.PaymentStatusFailed, map[string]interface{}{
			"result_desc": err.Error(),
		}); markErr != nil {
			logger.CtxWithError(ctx, "failed to mark payment failed after gateway error", markErr, "payment_id", payment.ID)
		}
		return nil, apperrors.ErrGatewayUnavailable(err)
	}

	payment.CheckoutRequestID = &result.CheckoutRequestID
	payment.MerchantRequestID = result.MerchantRequestID
	if err := s.paymentRepo.Update(payment); err != nil {
		return nil, apperrors.InternalError(err)
	}

	logger.CtxInfo(ctx, "payment initiated",
		"payment_id", payment.ID, "purpose", purpose, "amount", amount,
		"checkout_request_id", result.CheckoutRequestID)

	if s.cfg.DevMode {
		// Trusted mode: the gateway result is treated as a confirmed payment
		// and funneled through the same reconcile path as a real callback.
		outcome := ReconcileOutcome{
			Success:         true,
			ResultCode:      "0",
			ResultDesc:      "Success (simulated)",
			ReceiptNumber:   mpesa.SimulatedReceipt(),
			TransactionDate: s.now(),
		}
		if err := s.Reconcile(ctx, payment, outcome); err != nil {
			return nil, err
		}
		return &dto.PaymentInitResponse{
			Message:   "Payment successful (simulated)",
			PaymentID: payment.ID,
			Status:    models.PaymentStatusSuccess,
			DevMode:   true,
		}, nil
	}

	return &dto.PaymentInitResponse{
		Message:           "Payment initiated successfully. Please complete payment on your phone.",
		PaymentID:         payment.ID,
		Status:            models.PaymentStatusPending,
		CheckoutRequestID: result.CheckoutRequestID,
	}, nil
}

func (s *paymentService) HandleCallback(ctx context.Context, payload *mpesa.CallbackPayload) {
	result, err := mpesa.ParseCallback(payload)
	if err != nil {
		logger.CtxWarn(ctx, "discarding malformed mpesa callback", "error", err.Error())
		return
	}

	payment, err := s.paymentRepo.FindByCheckoutRequestID(result.CheckoutRequestID)
	if err != nil {
		if err == repositories.ErrPaymentNotFound {
			// Stale, replayed or foreign callback. Normal outcome: log and
			// acknowledge so the gateway does not retry.
			logger.CtxInfo(ctx, "mpesa callback for unknown checkout request",
				"checkout_request_id", result.CheckoutRequestID)
			return
		}
		logger.CtxWithError(ctx, "mpesa callback lookup failed", err,
			"checkout_request_id", result.CheckoutRequestID)
		return
	}

	outcome := ReconcileOutcome{
		Success:         result.ResultCode == 0,
		ResultCode:      strconv.Itoa(result.ResultCode),
		ResultDesc:      result.ResultDesc,
		ReceiptNumber:   result.ReceiptNumber,
		TransactionDate: s.now(),
	}
	if err := s.Reconcile(ctx, payment, outcome); err != nil {
		logger.CtxWithError(ctx, "mpesa callback reconciliation failed", err,
			"payment_id", payment.ID, "checkout_request_id", result.CheckoutRequestID)
	}
}

// Reconcile applies a terminal outcome to the ledger entry and, exactly once
// per attempt, to the entity it entitles. MarkTerminal's compare-and-set on
// the pending status is the dedupe guard: a duplicate delivery finds the
// entry already terminal and causes no downstream effect.
func (s *paymentService) Reconcile(ctx context.Context, payment *models.Payment, outcome ReconcileOutcome) error {
	status := models.PaymentStatusFailed
	updates := map[string]interface{}{
		"result_code": outcome.ResultCode,
		"result_desc": outcome.ResultDesc,
	}
	if outcome.Success {
		status = models.PaymentStatusSuccess
		updates["mpesa_receipt_number"] = outcome.ReceiptNumber
		updates["transaction_date"] = outcome.TransactionDate
	}

	transitioned, err := s.paymentRepo.MarkTerminal(payment.ID, status, updates)
	if err != nil {
		if err == repositories.ErrTerminalConflict {
			return apperrors.ErrInvalidStateTransition(
				fmt.Sprintf("payment %s already finalized with a different status", payment.ID))
		}
		return apperrors.InternalError(err)
	}
	if !transitioned {
		logger.CtxInfo(ctx, "duplicate payment outcome ignored",
			"payment_id", payment.ID, "status", status)
		return nil
	}

	if !outcome.Success {
		logger.CtxInfo(ctx, "payment failed",
			"payment_id", payment.ID, "result_code", outcome.ResultCode, "result_desc", outcome.ResultDesc)
		return nil
	}

	switch payment.Purpose {
	case models.PaymentPurposeWorkerListingFee:
		return s.applyWorkerPayment(ctx, payment, outcome)
	case models.PaymentPurposeCustomerUnlockFee:
		return s.applyCustomerPayment(ctx, payment, outcome)
	default:
		return apperrors.ErrInvalidOperation("payment", "unknown payment purpose")
	}
}

func (s *paymentService) applyWorkerPayment(ctx context.Context, payment *models.Payment, outcome ReconcileOutcome) error {
	worker, err := s.workerRepo.FindByUserID(payment.UserID)
	if err != nil {
		return apperrors.InternalError(err)
	}

	worker.PaymentStatus = models.WorkerPaymentStatusPaid
	worker.SetPaymentDetails(models.WorkerPaymentDetails{
		Amount:             payment.Amount,
		MpesaReceiptNumber: outcome.ReceiptNumber,
		TransactionDate:    outcome.TransactionDate,
		PhoneNumber:        payment.PhoneNumber,
	})
	RecomputeVisibility(worker)

	if err := s.workerRepo.Update(worker); err != nil {
		return apperrors.InternalError(err)
	}

	s.notifications.Notify(ctx, worker.ID, models.NotificationKindPaymentSuccess,
		fmt.Sprintf("Payment of KES %.0f received successfully. Your profile is now visible to customers!", payment.Amount))

	logger.CtxInfo(ctx, "worker payment reconciled",
		"payment_id", payment.ID, "worker_id", worker.ID, "is_visible", worker.IsVisible)
	return nil
}

func (s *paymentService) applyCustomerPayment(ctx context.Context, payment *models.Payment, outcome ReconcileOutcome) error {
	user, err := s.userRepo.FindByID(payment.UserID)
	if err != nil {
		return apperrors.InternalError(err)
	}

	GrantAccessWindow(user, s.cfg.AccessDurationHours, s.now(), models.CustomerPaymentRecord{
		Amount:             payment.Amount,
		MpesaReceiptNumber: outcome.ReceiptNumber,
		TransactionDate:    outcome.TransactionDate,
	})

	if err := s.userRepo.Update(user); err != nil {
		return apperrors.InternalError(err)
	}

	logger.CtxInfo(ctx, "customer payment reconciled",
		"payment_id", payment.ID, "user_id", user.ID, "access_expires_at", user.AccessExpiresAt)
	return nil
}

func (s *paymentService) CheckStatus(ctx context.Context, userID, paymentID string) (*dto.PaymentStatusResponse, error) {
	payment, err := s.paymentRepo.FindByID(paymentID)
	if err != nil {
		if err == repositories.ErrPaymentNotFound {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.InternalError(err)
	}
	if payment.UserID != userID {
		return nil, apperrors.NewForbiddenError("Not authorized to view this payment")
	}

	// Pull fallback for environments without inbound callback reachability:
	// a pending attempt with a known checkout reference is resolved against
	// the gateway's query API and funneled into the same reconcile path.
	if payment.Status == models.PaymentStatusPending && !s.cfg.DevMode && payment.CheckoutRequestID != nil {
		if query, qerr := s.gateway.QuerySTKPush(ctx, *payment.CheckoutRequestID); qerr == nil && query.ResultCode != "" {
			outcome := ReconcileOutcome{
				Success:         query.ResultCode == "0",
				ResultCode:      query.ResultCode,
				ResultDesc:      query.ResultDesc,
				TransactionDate: s.now(),
			}
			if rerr := s.Reconcile(ctx, payment, outcome); rerr != nil {
				logger.CtxWithError(ctx, "poll reconciliation failed", rerr, "payment_id", payment.ID)
			}
			if refreshed, ferr := s.paymentRepo.FindByID(paymentID); ferr == nil {
				payment = refreshed
			}
		}
	}

	return &dto.PaymentStatusResponse{Status: payment.Status, Payment: payment}, nil
}

func (s *paymentService) History(ctx context.Context, userID string, page, pageSize int) ([]models.Payment, *dto.Pagination, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}

	payments, total, err := s.paymentRepo.FindByUser(userID, page, pageSize)
	if err != nil {
		return nil, nil, apperrors.InternalError(err)
	}
	return payments, buildPagination(page, pageSize, total), nil
}

func (s *paymentService) AccessStatus(ctx context.Context, userID string) (*dto.AccessStatusResponse, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if err == repositories.ErrUserNotFound {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.InternalError(err)
	}

	contacts, err := s.contactRepo.FindByCustomer(userID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	return &dto.AccessStatusResponse{
		HasActiveAccess:  IsAccessActive(user, s.now()),
		AccessExpiresAt:  user.AccessExpiresAt,
		PaymentHistory:   user.GetPaymentHistory(),
		ContactedWorkers: contacts,
	}, nil
}

func (s *paymentService) RecordContact(ctx context.Context, customerID, workerID string) error {
	customer, err := s.userRepo.FindByID(customerID)
	if err != nil {
		if err == repositories.ErrUserNotFound {
			return apperrors.ErrNotFound(err)
		}
		return apperrors.InternalError(err)
	}

	if !IsAccessActive(customer, s.now()) {
		return apperrors.ErrAccessRequired
	}

	worker, err := s.workerRepo.FindByID(workerID)
	if err != nil {
		if err == repositories.ErrWorkerNotFound {
			return apperrors.ErrWorkerNotFound
		}
		return apperrors.InternalError(err)
	}

	created, err := s.contactRepo.Record(customerID, workerID, s.now())
	if err != nil {
		return apperrors.InternalError(err)
	}
	if !created {
		// Repeat contact with the same worker: counted once per pair.
		return nil
	}

	if err := s.workerRepo.IncrementContactCount(workerID); err != nil {
		return apperrors.InternalError(err)
	}
	s.notifications.Notify(ctx, worker.ID, models.NotificationKindContacted,
		"A customer has viewed your contact details")
	return nil
}

func (s *paymentService) CancelStalePending(ctx context.Context) (int64, error) {
	cutoff := s.now().Add(-time.Duration(s.cfg.PendingTTLMinutes) * time.Minute)
	cancelled, err := s.paymentRepo.CancelStalePending(cutoff)
	if err != nil {
		return 0, err
	}
	if cancelled > 0 {
		logger.CtxInfo(ctx, "cancelled stale pending payments", "count", cancelled)
	}
	return cancelled, nil
}
