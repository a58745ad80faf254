package stock

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/shopspring/decimal"

	domainErrors "github.com/caom/ecommerce/internal/domain/errors"
	"github.com/caom/ecommerce/internal/domain/model"
	"github.com/caom/ecommerce/internal/test"
)

func newLedgerFixture() (*Ledger, *test.ProductRepositoryStub) {
	products := test.NewProductRepositoryStub()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewLedger(products, logger), products
}

func TestLedgerReserve(t *testing.T) {
	ledger, products := newLedgerFixture()
	p := products.Add("widget", decimal.New(1, 0), 5)

	if err := ledger.Reserve(context.Background(), p.ID, 3); err != nil {
		t.Fatalf("reserve: %v", err)
	}
	if got := products.Stock(p.ID); got != 2 {
		t.Fatalf("unexpected stock: %d", got)
	}

	if err := ledger.Reserve(context.Background(), p.ID, 3); !errors.Is(err, domainErrors.ErrInsufficientStock) {
		t.Fatalf("expected ErrInsufficientStock, got %v", err)
	}
	if got := products.Stock(p.ID); got != 2 {
		t.Fatalf("failed reserve changed stock: %d", got)
	}
}

func TestLedgerReserve_Validation(t *testing.T) {
	ledger, products := newLedgerFixture()
	p := products.Add("widget", decimal.New(1, 0), 5)

	for _, qty := range []int{0, -1} {
		if err := ledger.Reserve(context.Background(), p.ID, qty); !errors.Is(err, domainErrors.ErrValidation) {
			t.Fatalf("qty %d: expected ErrValidation, got %v", qty, err)
		}
	}
	if err := ledger.Reserve(context.Background(), 404, 1); !errors.Is(err, domainErrors.ErrProductNotFound) {
		t.Fatalf("expected ErrProductNotFound, got %v", err)
	}
}

func TestLedgerRelease(t *testing.T) {
	ledger, products := newLedgerFixture()
	p := products.Add("widget", decimal.New(1, 0), 2)

	if err := ledger.Release(context.Background(), p.ID, 3); err != nil {
		t.Fatalf("release: %v", err)
	}
	if got := products.Stock(p.ID); got != 5 {
		t.Fatalf("unexpected stock: %d", got)
	}
	if err := ledger.Release(context.Background(), p.ID, 0); !errors.Is(err, domainErrors.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestLedgerReleaseItems(t *testing.T) {
	ledger, products := newLedgerFixture()
	a := products.Add("alpha", decimal.New(1, 0), 0)
	b := products.Add("beta", decimal.New(1, 0), 0)

	err := ledger.ReleaseItems(context.Background(), []model.OrderItem{
		{ProductID: a.ID, Quantity: 2},
		{ProductID: b.ID, Quantity: 3},
	})
	if err != nil {
		t.Fatalf("release items: %v", err)
	}
	if products.Stock(a.ID) != 2 || products.Stock(b.ID) != 3 {
		t.Fatalf("unexpected stocks: %d %d", products.Stock(a.ID), products.Stock(b.ID))
	}
}

func TestLedgerReleaseItems_ContinuesPastFailures(t *testing.T) {
	ledger, products := newLedgerFixture()
	b := products.Add("beta", decimal.New(1, 0), 0)

	err := ledger.ReleaseItems(context.Background(), []model.OrderItem{
		{ProductID: 404, Quantity: 2},
		{ProductID: b.ID, Quantity: 3},
	})
	if !errors.Is(err, domainErrors.ErrProductNotFound) {
		t.Fatalf("expected ErrProductNotFound, got %v", err)
	}
	// the second item is still released despite the first failing
	if got := products.Stock(b.ID); got != 3 {
		t.Fatalf("unexpected stock: %d", got)
	}
}

func TestLedgerReleaseItems_Empty(t *testing.T) {
	ledger, _ := newLedgerFixture()
	if err := ledger.ReleaseItems(context.Background(), nil); err != nil {
		t.Fatalf("release empty: %v", err)
	}
}
