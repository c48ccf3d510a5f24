package worker

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/storelane/storelane-api/internal/service"
)

// SubscriptionReconcileWorker re-verifies pending subscriptions on a fixed
// interval, catching webhook deliveries that never arrived.
type SubscriptionReconcileWorker struct {
	paymentService *service.PaymentService
	interval       time.Duration
}

// NewSubscriptionReconcileWorker constructs a SubscriptionReconcileWorker.
func NewSubscriptionReconcileWorker(paymentService *service.PaymentService, interval time.Duration) *SubscriptionReconcileWorker {
	return &SubscriptionReconcileWorker{
		paymentService: paymentService,
		interval:       interval,
	}
}

// Start begins the reconcile loop and listens for context cancellation.
func (w *SubscriptionReconcileWorker) Start(ctx context.Context) {
	log.Info().Dur("interval", w.interval).Msg("Starting subscription reconcile worker")

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			w.run(ctx)
		case <-ctx.Done():
			log.Info().Msg("Subscription reconcile worker stopped")
			return
		}
	}
}

func (w *SubscriptionReconcileWorker) run(ctx context.Context) {
	if err := w.paymentService.ReconcilePending(ctx); err != nil {
		log.Error().Err(err).Msg("Failed to reconcile pending subscriptions")
	}
}
