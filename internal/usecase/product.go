package usecase

import (
	"context"
	"fmt"
	"strings"

	domainErrors "github.com/caom/ecommerce/internal/domain/errors"
	"github.com/caom/ecommerce/internal/domain/model"
	"github.com/caom/ecommerce/internal/domain/repository"
)

const maxProductNameLen = 100

// ProductUseCase manages the product catalog. Catalog mutations are
// administrative; reads are open to any caller.
type ProductUseCase struct {
	products repository.ProductRepository
}

// NewProductUseCase constructs ProductUseCase.
func NewProductUseCase(products repository.ProductRepository) *ProductUseCase {
	return &ProductUseCase{products: products}
}

func validateProduct(p *model.Product) error {
	name := strings.TrimSpace(p.Name)
	if name == "" || len(name) > maxProductNameLen {
		return fmt.Errorf("%w: product name must be 1..%d characters", domainErrors.ErrValidation, maxProductNameLen)
	}
	if p.Price.IsNegative() {
		return fmt.Errorf("%w: price must not be negative", domainErrors.ErrValidation)
	}
	if p.Stock < 0 {
		return fmt.Errorf("%w: stock must not be negative", domainErrors.ErrValidation)
	}
	return nil
}

// Create adds a catalog entry; administrators only.
func (u *ProductUseCase) Create(ctx context.Context, principal model.Principal, product *model.Product) (*model.Product, error) {
	if !IsAdmin(principal) {
		return nil, domainErrors.ErrUnauthorized
	}
	if err := validateProduct(product); err != nil {
		return nil, err
	}
	return u.products.Create(ctx, product)
}

// Update replaces a catalog entry; administrators only.
func (u *ProductUseCase) Update(ctx context.Context, principal model.Principal, product *model.Product) (*model.Product, error) {
	if !IsAdmin(principal) {
		return nil, domainErrors.ErrUnauthorized
	}
	if err := validateProduct(product); err != nil {
		return nil, err
	}
	return u.products.Update(ctx, product)
}

// Delete removes a catalog entry; administrators only.
func (u *ProductUseCase) Delete(ctx context.Context, principal model.Principal, productID int64) error {
	if !IsAdmin(principal) {
		return domainErrors.ErrUnauthorized
	}
	return u.products.Delete(ctx, productID)
}

// Get returns a single product.
func (u *ProductUseCase) Get(ctx context.Context, productID int64) (*model.Product, error) {
	return u.products.GetByID(ctx, productID)
}

// List returns the full catalog.
func (u *ProductUseCase) List(ctx context.Context) ([]model.Product, error) {
	return u.products.List(ctx)
}
