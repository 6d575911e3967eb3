package worker

import (
	"context"
	"errors"
	"log/slog"

	"ordergrid/internal/grid"
	"ordergrid/internal/service"
)

// EstimateWorker drains queued estimation tickets, calls the external
// price-estimation service and delivers completions back into the owning
// session. Issuing a ticket never blocks editing; a completion whose row was
// edited or deleted in the meantime is discarded.
type EstimateWorker struct {
	sessions  *service.SessionStore
	estimator *service.EstimateClient
	queue     chan grid.EstimateTicket
}

func NewEstimateWorker(sessions *service.SessionStore, estimator *service.EstimateClient) *EstimateWorker {
	return &EstimateWorker{
		sessions:  sessions,
		estimator: estimator,
		queue:     make(chan grid.EstimateTicket, 64),
	}
}

// Enqueue hands a ticket to the worker. Reports false when the queue is
// full; the caller surfaces that as a retryable failure.
func (w *EstimateWorker) Enqueue(t grid.EstimateTicket) bool {
	select {
	case w.queue <- t:
		return true
	default:
		return false
	}
}

func (w *EstimateWorker) Start(ctx context.Context) {
	slog.Info("starting estimate worker")
	for {
		select {
		case <-ctx.Done():
			slog.Info("estimate worker stopped")
			return
		case t := <-w.queue:
			w.process(ctx, t)
		}
	}
}

func (w *EstimateWorker) process(ctx context.Context, t grid.EstimateTicket) {
	resp, err := w.estimator.Estimate(ctx, service.EstimateRequest{
		ItemCode:    t.ItemCode,
		Description: t.Description,
		Quantity:    t.Quantity,
		Supplier:    t.Supplier,
	})
	if err != nil {
		if errors.Is(err, service.ErrRateLimited) {
			slog.Warn("estimation rate limited, dropping", "row", t.RowID)
			return
		}
		if errors.Is(err, service.ErrEstimateUnavailable) {
			return
		}
		slog.Error("estimation failed", "row", t.RowID, "error", err)
		return
	}

	sess, ok := w.sessions.Lookup(t.SessionID)
	if !ok {
		slog.Warn("estimation for vanished session", "session", t.SessionID)
		return
	}

	if sess.MergeEstimate(t.RowID, t.Version, resp.EstimatedPrice, resp.Confidence) {
		slog.Info("estimate merged", "row", t.RowID, "price", resp.EstimatedPrice, "confidence", resp.Confidence)
	} else {
		slog.Info("stale estimate discarded", "row", t.RowID)
	}
}
