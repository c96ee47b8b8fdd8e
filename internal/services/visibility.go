package services

import (
	"time"

	"homehelp_backend/internal/models"
	"homehelp_backend/pkg/apperrors"
)

// RecomputeVisibility derives the public-visibility flag from the review and
// payment outcomes: visible iff approved AND paid.
//
// It must only be called after an approval, rejection or payment-success
// event. An admin suspend/reinstate override writes IsVisible directly and
// relies on unrelated writes never recomputing it.
func RecomputeVisibility(worker *models.Worker) {
	worker.IsVisible = worker.ApplicationStatus == models.ApplicationStatusApproved &&
		worker.PaymentStatus == models.WorkerPaymentStatusPaid
}

// ApproveApplication moves a pending or rejected application to approved and
// recomputes visibility. Approving an already-approved worker is rejected.
func ApproveApplication(worker *models.Worker, adminID string, now time.Time) error {
	if worker.ApplicationStatus == models.ApplicationStatusApproved {
		return apperrors.ErrWorkerAlreadyApproved
	}

	worker.ApplicationStatus = models.ApplicationStatusApproved
	worker.ApprovedBy = &adminID
	worker.ApprovalDate = &now
	worker.RejectionReason = nil
	RecomputeVisibility(worker)
	return nil
}

// RejectApplication moves an application to rejected with a reason and
// recomputes visibility (always false for a rejected worker).
func RejectApplication(worker *models.Worker, reason string) error {
	if reason == "" {
		return apperrors.ErrRejectionReasonRequired
	}

	worker.ApplicationStatus = models.ApplicationStatusRejected
	worker.RejectionReason = &reason
	RecomputeVisibility(worker)
	return nil
}

// ResubmitApplication resets a rejected application to pending and clears the
// rejection reason. Payment status is deliberately untouched: a worker who
// paid before rejection does not pay again after re-approval. Visibility is
// not recomputed here; rejection already forced it false.
func ResubmitApplication(worker *models.Worker) {
	if worker.ApplicationStatus != models.ApplicationStatusRejected {
		return
	}
	worker.ApplicationStatus = models.ApplicationStatusPending
	worker.RejectionReason = nil
}
