package app

import (
	"context"
	"time"

	"github.com/caom/ecommerce/internal/domain/model"
	"github.com/caom/ecommerce/internal/usecase"
)

// reaperPrincipal is the system actor the background reaper cancels stale
// orders as. Administrative so the owner check never blocks it.
var reaperPrincipal = model.Principal{Role: model.RoleAdmin}

// CommerceFacade aggregates the use cases behind one application surface.
type CommerceFacade struct {
	auth     *usecase.AuthUseCase
	products *usecase.ProductUseCase
	orders   *usecase.OrderUseCase
}

// NewCommerceFacade constructs CommerceFacade.
func NewCommerceFacade(auth *usecase.AuthUseCase, products *usecase.ProductUseCase, orders *usecase.OrderUseCase) *CommerceFacade {
	return &CommerceFacade{auth: auth, products: products, orders: orders}
}

func (f *CommerceFacade) Register(ctx context.Context, login, password string) (string, error) {
	_, token, err := f.auth.Register(ctx, login, password)
	return token, err
}

func (f *CommerceFacade) Authenticate(ctx context.Context, login, password string) (string, error) {
	_, token, err := f.auth.Authenticate(ctx, login, password)
	return token, err
}

func (f *CommerceFacade) ResolvePrincipal(ctx context.Context, token string) (model.Principal, error) {
	return f.auth.ResolvePrincipal(ctx, token)
}

func (f *CommerceFacade) CreateProduct(ctx context.Context, principal model.Principal, product *model.Product) (*model.Product, error) {
	return f.products.Create(ctx, principal, product)
}

func (f *CommerceFacade) UpdateProduct(ctx context.Context, principal model.Principal, product *model.Product) (*model.Product, error) {
	return f.products.Update(ctx, principal, product)
}

func (f *CommerceFacade) DeleteProduct(ctx context.Context, principal model.Principal, productID int64) error {
	return f.products.Delete(ctx, principal, productID)
}

func (f *CommerceFacade) Product(ctx context.Context, productID int64) (*model.Product, error) {
	return f.products.Get(ctx, productID)
}

func (f *CommerceFacade) Products(ctx context.Context) ([]model.Product, error) {
	return f.products.List(ctx)
}

func (f *CommerceFacade) CreateOrder(ctx context.Context, principal model.Principal, items []model.OrderItem) (*model.Order, error) {
	return f.orders.Create(ctx, principal, items)
}

func (f *CommerceFacade) Order(ctx context.Context, principal model.Principal, orderID int64) (*model.Order, error) {
	return f.orders.Get(ctx, principal, orderID)
}

func (f *CommerceFacade) Orders(ctx context.Context, principal model.Principal) ([]model.Order, error) {
	return f.orders.ListByUser(ctx, principal)
}

func (f *CommerceFacade) AllOrders(ctx context.Context, principal model.Principal) ([]model.Order, error) {
	return f.orders.ListAll(ctx, principal)
}

func (f *CommerceFacade) UpdateOrderStatus(ctx context.Context, principal model.Principal, orderID int64, status model.OrderStatus) (*model.Order, error) {
	return f.orders.UpdateStatus(ctx, principal, orderID, status)
}

func (f *CommerceFacade) CancelOrder(ctx context.Context, principal model.Principal, orderID int64) (*model.Order, error) {
	return f.orders.Cancel(ctx, principal, orderID)
}

func (f *CommerceFacade) DeleteOrder(ctx context.Context, principal model.Principal, orderID int64) error {
	return f.orders.Delete(ctx, principal, orderID)
}

// StalePendingOrders lists PENDING orders created before the cutoff.
func (f *CommerceFacade) StalePendingOrders(ctx context.Context, cutoff time.Time, limit int) ([]model.Order, error) {
	return f.orders.StalePending(ctx, cutoff, limit)
}

// CancelExpiredOrder cancels a stale order on behalf of the system.
func (f *CommerceFacade) CancelExpiredOrder(ctx context.Context, orderID int64) error {
	_, err := f.orders.Cancel(ctx, reaperPrincipal, orderID)
	return err
}
