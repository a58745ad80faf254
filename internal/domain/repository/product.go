package repository

import (
	"context"

	"github.com/caom/ecommerce/internal/domain/model"
)

// ProductRepository describes catalog persistence together with the
// authoritative stock counter.
type ProductRepository interface {
	Create(ctx context.Context, product *model.Product) (*model.Product, error)
	GetByID(ctx context.Context, productID int64) (*model.Product, error)
	List(ctx context.Context) ([]model.Product, error)
	Update(ctx context.Context, product *model.Product) (*model.Product, error)
	Delete(ctx context.Context, productID int64) error
	// ReserveStock decrements availability only if the remaining stock
	// covers the quantity; the check and the decrement are one atomic step.
	ReserveStock(ctx context.Context, productID int64, quantity int) error
	// ReleaseStock increments availability, compensating a reservation.
	ReleaseStock(ctx context.Context, productID int64, quantity int) error
}
