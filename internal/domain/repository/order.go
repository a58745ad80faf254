package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/caom/ecommerce/internal/domain/model"
)

// OrderRepository describes persistence operations with orders. Every read
// returns the order header together with its line items.
type OrderRepository interface {
	// Create persists the order with its line items in one transaction,
	// assigning identities and the creation timestamp.
	Create(ctx context.Context, userID int64, total decimal.Decimal, items []model.OrderItem) (*model.Order, error)
	GetByID(ctx context.Context, orderID int64) (*model.Order, error)
	ListByUser(ctx context.Context, userID int64) ([]model.Order, error)
	ListAll(ctx context.Context) ([]model.Order, error)
	// TransitionStatus writes the new status only if the stored status
	// still equals from; otherwise it fails with
	// ErrInvalidStateTransition (or ErrOrderNotFound for a missing
	// order), making the flip a compare-and-set.
	TransitionStatus(ctx context.Context, orderID int64, from, to model.OrderStatus) error
	Delete(ctx context.Context, orderID int64) error
	// SelectStalePending returns PENDING orders created before the cutoff,
	// oldest first.
	SelectStalePending(ctx context.Context, cutoff time.Time, limit int) ([]model.Order, error)
}
