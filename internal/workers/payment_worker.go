package workers

import (
	"context"
	"time"

	"homehelp_backend/internal/logger"
	"homehelp_backend/internal/services"
)

// PaymentWorker periodically cancels pending payment attempts that never
// received a gateway confirmation. Cancellation frees the user to start a
// fresh attempt; a late callback for a cancelled entry is ignored by the
// terminal-status guard.
type PaymentWorker struct {
	payments services.PaymentService
	interval time.Duration
}

func NewPaymentWorker(payments services.PaymentService) *PaymentWorker {
	return &PaymentWorker{
		payments: payments,
		interval: 10 * time.Minute,
	}
}

func (w *PaymentWorker) Start(ctx context.Context) {
	go w.cancelStalePending(ctx)
}

func (w *PaymentWorker) cancelStalePending(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("payment worker stopped")
			return
		case <-ticker.C:
			if _, err := w.payments.CancelStalePending(ctx); err != nil {
				logger.WithError(err).Error("failed to cancel stale pending payments")
			}
		}
	}
}
