package worker

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	domainErrors "github.com/caom/ecommerce/internal/domain/errors"
	"github.com/caom/ecommerce/internal/domain/model"
)

type facadeStub struct {
	mu        sync.Mutex
	stale     []model.Order
	staleErr  error
	cancelErr error
	cancelled []int64
	notify    chan int64
}

func newFacadeStub() *facadeStub {
	return &facadeStub{notify: make(chan int64, 64)}
}

func (f *facadeStub) StalePendingOrders(ctx context.Context, cutoff time.Time, limit int) ([]model.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.staleErr != nil {
		return nil, f.staleErr
	}
	out := f.stale
	f.stale = nil
	return out, nil
}

func (f *facadeStub) CancelExpiredOrder(ctx context.Context, orderID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.cancelErr != nil {
		return f.cancelErr
	}
	f.cancelled = append(f.cancelled, orderID)
	select {
	case f.notify <- orderID:
	default:
	}
	return nil
}

func (f *facadeStub) cancelledIDs() []int64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]int64(nil), f.cancelled...)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestNewOrderReaper_Defaults(t *testing.T) {
	r := NewOrderReaper(newFacadeStub(), time.Hour, time.Minute, 0, 0, testLogger())
	if r.workers != 1 || r.batchSize != 1 {
		t.Fatalf("unexpected defaults: workers=%d batch=%d", r.workers, r.batchSize)
	}
}

func TestOrderReaper_DisabledWithoutTTL(t *testing.T) {
	r := NewOrderReaper(newFacadeStub(), 0, time.Millisecond, 1, 1, testLogger())
	r.Start(context.Background())
	r.Stop()
}

func TestOrderReaper_CancelsStaleOrders(t *testing.T) {
	facade := newFacadeStub()
	facade.stale = []model.Order{
		{ID: 1, Status: model.OrderStatusPending},
		{ID: 2, Status: model.OrderStatusPending},
	}

	r := NewOrderReaper(facade, time.Hour, 5*time.Millisecond, 10, 2, testLogger())
	r.Start(context.Background())
	defer r.Stop()

	seen := map[int64]bool{}
	deadline := time.After(2 * time.Second)
	for len(seen) < 2 {
		select {
		case id := <-facade.notify:
			seen[id] = true
		case <-deadline:
			t.Fatalf("timed out, cancelled so far: %v", facade.cancelledIDs())
		}
	}
	if !seen[1] || !seen[2] {
		t.Fatalf("unexpected cancellations: %v", seen)
	}
}

func TestOrderReaper_ToleratesBenignRaces(t *testing.T) {
	facade := newFacadeStub()
	facade.cancelErr = domainErrors.ErrInvalidStateTransition

	r := NewOrderReaper(facade, time.Hour, time.Minute, 10, 1, testLogger())
	r.reap(context.Background(), model.Order{ID: 5})

	facade.cancelErr = domainErrors.ErrOrderNotFound
	r.reap(context.Background(), model.Order{ID: 6})

	facade.cancelErr = errors.New("db down")
	r.reap(context.Background(), model.Order{ID: 7})

	if got := facade.cancelledIDs(); len(got) != 0 {
		t.Fatalf("unexpected cancellations: %v", got)
	}
}

func TestOrderReaper_FetchErrorDoesNotStopLoop(t *testing.T) {
	facade := newFacadeStub()
	facade.staleErr = errors.New("boom")

	r := NewOrderReaper(facade, time.Hour, 5*time.Millisecond, 10, 1, testLogger())
	r.Start(context.Background())

	time.Sleep(20 * time.Millisecond)
	facade.mu.Lock()
	facade.staleErr = nil
	facade.stale = []model.Order{{ID: 3, Status: model.OrderStatusPending}}
	facade.mu.Unlock()

	select {
	case id := <-facade.notify:
		if id != 3 {
			t.Fatalf("unexpected order: %d", id)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("reaper never recovered after fetch error")
	}
	r.Stop()
}

func TestOrderReaper_StopIsIdempotent(t *testing.T) {
	r := NewOrderReaper(newFacadeStub(), time.Hour, time.Minute, 1, 1, testLogger())
	r.Start(context.Background())
	r.Stop()
	r.Stop()
}
