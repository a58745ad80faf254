package stock

import (
	"context"
	"fmt"
	"log/slog"

	domainErrors "github.com/caom/ecommerce/internal/domain/errors"
	"github.com/caom/ecommerce/internal/domain/model"
	"github.com/caom/ecommerce/internal/domain/repository"
)

// Ledger guards inventory changes. Reservation and release delegate to the
// product repository, whose conditional updates serialize per product; the
// ledger itself never deduplicates, idempotency is the caller's concern.
type Ledger struct {
	products repository.ProductRepository
	logger   *slog.Logger
}

// NewLedger constructs Ledger over the catalog repository.
func NewLedger(products repository.ProductRepository, logger *slog.Logger) *Ledger {
	return &Ledger{products: products, logger: logger}
}

// Reserve atomically checks availability and decrements stock.
func (l *Ledger) Reserve(ctx context.Context, productID int64, quantity int) error {
	if quantity <= 0 {
		return fmt.Errorf("%w: reserve quantity must be positive", domainErrors.ErrValidation)
	}
	return l.products.ReserveStock(ctx, productID, quantity)
}

// Release atomically increments stock, reversing a reservation.
func (l *Ledger) Release(ctx context.Context, productID int64, quantity int) error {
	if quantity <= 0 {
		return fmt.Errorf("%w: release quantity must be positive", domainErrors.ErrValidation)
	}
	return l.products.ReleaseStock(ctx, productID, quantity)
}

// ReleaseItems releases stock for every line item, attempting all of them
// even when some fail, and reports the first failure.
func (l *Ledger) ReleaseItems(ctx context.Context, items []model.OrderItem) error {
	var firstErr error
	for _, item := range items {
		if err := l.Release(ctx, item.ProductID, item.Quantity); err != nil {
			l.logger.Error("stock release failed",
				slog.Int64("product_id", item.ProductID),
				slog.Int("quantity", item.Quantity),
				slog.String("error", err.Error()),
			)
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}
