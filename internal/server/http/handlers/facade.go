package handlers

import (
	"context"

	"github.com/caom/ecommerce/internal/domain/model"
)

// AuthFacade describes authentication capabilities required by handlers.
type AuthFacade interface {
	Register(ctx context.Context, login, password string) (string, error)
	Authenticate(ctx context.Context, login, password string) (string, error)
	ResolvePrincipal(ctx context.Context, token string) (model.Principal, error)
}

// ProductFacade encapsulates catalog operations exposed via HTTP.
type ProductFacade interface {
	CreateProduct(ctx context.Context, principal model.Principal, product *model.Product) (*model.Product, error)
	UpdateProduct(ctx context.Context, principal model.Principal, product *model.Product) (*model.Product, error)
	DeleteProduct(ctx context.Context, principal model.Principal, productID int64) error
	Product(ctx context.Context, productID int64) (*model.Product, error)
	Products(ctx context.Context) ([]model.Product, error)
}

// OrderFacade encapsulates order lifecycle operations exposed via HTTP.
type OrderFacade interface {
	CreateOrder(ctx context.Context, principal model.Principal, items []model.OrderItem) (*model.Order, error)
	Order(ctx context.Context, principal model.Principal, orderID int64) (*model.Order, error)
	Orders(ctx context.Context, principal model.Principal) ([]model.Order, error)
	AllOrders(ctx context.Context, principal model.Principal) ([]model.Order, error)
	UpdateOrderStatus(ctx context.Context, principal model.Principal, orderID int64, status model.OrderStatus) (*model.Order, error)
	CancelOrder(ctx context.Context, principal model.Principal, orderID int64) (*model.Order, error)
	DeleteOrder(ctx context.Context, principal model.Principal, orderID int64) error
}

// CommerceFacade aggregates the full set of operations used across handlers.
type CommerceFacade interface {
	AuthFacade
	ProductFacade
	OrderFacade
}
