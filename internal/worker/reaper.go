package worker

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	domainErrors "github.com/caom/ecommerce/internal/domain/errors"
	"github.com/caom/ecommerce/internal/domain/model"
)

// FulfillmentFacade exposes the subset of application functionality required
// by the reaper.
type FulfillmentFacade interface {
	StalePendingOrders(ctx context.Context, cutoff time.Time, limit int) ([]model.Order, error)
	CancelExpiredOrder(ctx context.Context, orderID int64) error
}

// OrderReaper cancels PENDING orders that outlived their TTL, returning
// their reserved stock to the catalog. A TTL of zero disables the reaper.
type OrderReaper struct {
	facade       FulfillmentFacade
	ttl          time.Duration
	pollInterval time.Duration
	batchSize    int
	workers      int
	logger       *slog.Logger

	jobs   chan model.Order
	wg     sync.WaitGroup
	cancel context.CancelFunc
	mu     sync.Mutex
}

// NewOrderReaper constructs the reaper worker pool.
func NewOrderReaper(facade FulfillmentFacade, ttl, pollInterval time.Duration, batchSize, workers int, logger *slog.Logger) *OrderReaper {
	if workers <= 0 {
		workers = 1
	}
	if batchSize <= 0 {
		batchSize = 1
	}
	return &OrderReaper{
		facade:       facade,
		ttl:          ttl,
		pollInterval: pollInterval,
		batchSize:    batchSize,
		workers:      workers,
		logger:       logger,
		jobs:         make(chan model.Order, batchSize*workers),
	}
}

// Start launches background processing. No-op when the TTL is not positive.
func (r *OrderReaper) Start(ctx context.Context) {
	if r.ttl <= 0 {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	runCtx, cancel := context.WithCancel(ctx)
	r.cancel = cancel

	for i := 0; i < r.workers; i++ {
		r.wg.Add(1)
		go r.worker(runCtx)
	}

	r.wg.Add(1)
	go r.dispatch(runCtx)
}

// Stop waits for all workers to finish.
func (r *OrderReaper) Stop() {
	r.mu.Lock()
	if r.cancel != nil {
		r.cancel()
		r.cancel = nil
	}
	r.mu.Unlock()

	r.wg.Wait()
}

func (r *OrderReaper) dispatch(ctx context.Context) {
	defer r.wg.Done()
	defer close(r.jobs)
	ticker := time.NewTicker(r.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.fetchAndDispatch(ctx)
		}
	}
}

func (r *OrderReaper) fetchAndDispatch(ctx context.Context) {
	cutoff := time.Now().Add(-r.ttl)
	orders, err := r.facade.StalePendingOrders(ctx, cutoff, r.batchSize)
	if err != nil {
		r.logger.Error("fetch stale orders failed", slog.String("error", err.Error()))
		return
	}
	for _, order := range orders {
		select {
		case <-ctx.Done():
			return
		case r.jobs <- order:
		}
	}
}

func (r *OrderReaper) worker(ctx context.Context) {
	defer r.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case order, ok := <-r.jobs:
			if !ok {
				return
			}
			r.reap(ctx, order)
		}
	}
}

func (r *OrderReaper) reap(ctx context.Context, order model.Order) {
	err := r.facade.CancelExpiredOrder(ctx, order.ID)
	switch {
	case err == nil:
		r.logger.Info("expired order cancelled", slog.Int64("order_id", order.ID))
	case errors.Is(err, domainErrors.ErrInvalidStateTransition), errors.Is(err, domainErrors.ErrOrderNotFound):
		// The order progressed or disappeared between the poll and the
		// cancel attempt; nothing to do.
	default:
		r.logger.Error("cancel expired order failed",
			slog.Int64("order_id", order.ID),
			slog.String("error", err.Error()),
		)
	}
}
