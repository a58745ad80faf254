package test

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/caom/ecommerce/internal/domain/model"
)

// CommerceFacadeStub bundles the per-area stubs into one application facade.
type CommerceFacadeStub struct {
	AuthFacadeStub
	ProductFacadeStub
	OrderFacadeStub
}

// AuthFacadeStub provides controllable behaviour for auth endpoints.
type AuthFacadeStub struct {
	RegisterFn         func(context.Context, string, string) (string, error)
	AuthenticateFn     func(context.Context, string, string) (string, error)
	ResolvePrincipalFn func(context.Context, string) (model.Principal, error)
}

// Register delegates to provided function or returns a static token.
func (s AuthFacadeStub) Register(ctx context.Context, login, password string) (string, error) {
	if s.RegisterFn != nil {
		return s.RegisterFn(ctx, login, password)
	}
	return "stub-token", nil
}

// Authenticate delegates to provided function or returns a static token.
func (s AuthFacadeStub) Authenticate(ctx context.Context, login, password string) (string, error) {
	if s.AuthenticateFn != nil {
		return s.AuthenticateFn(ctx, login, password)
	}
	return "stub-token", nil
}

// ResolvePrincipal delegates or resolves to a plain customer.
func (s AuthFacadeStub) ResolvePrincipal(ctx context.Context, token string) (model.Principal, error) {
	if s.ResolvePrincipalFn != nil {
		return s.ResolvePrincipalFn(ctx, token)
	}
	return model.Principal{UserID: 1, Role: model.RoleCustomer}, nil
}

// ProductFacadeStub simulates catalog operations.
type ProductFacadeStub struct {
	CreateFn func(context.Context, model.Principal, *model.Product) (*model.Product, error)
	UpdateFn func(context.Context, model.Principal, *model.Product) (*model.Product, error)
	DeleteFn func(context.Context, model.Principal, int64) error
	GetFn    func(context.Context, int64) (*model.Product, error)
	ListFn   func(context.Context) ([]model.Product, error)
}

func (s ProductFacadeStub) CreateProduct(ctx context.Context, p model.Principal, product *model.Product) (*model.Product, error) {
	if s.CreateFn != nil {
		return s.CreateFn(ctx, p, product)
	}
	out := *product
	out.ID = 1
	return &out, nil
}

func (s ProductFacadeStub) UpdateProduct(ctx context.Context, p model.Principal, product *model.Product) (*model.Product, error) {
	if s.UpdateFn != nil {
		return s.UpdateFn(ctx, p, product)
	}
	out := *product
	return &out, nil
}

func (s ProductFacadeStub) DeleteProduct(ctx context.Context, p model.Principal, productID int64) error {
	if s.DeleteFn != nil {
		return s.DeleteFn(ctx, p, productID)
	}
	return nil
}

func (s ProductFacadeStub) Product(ctx context.Context, productID int64) (*model.Product, error) {
	if s.GetFn != nil {
		return s.GetFn(ctx, productID)
	}
	return &model.Product{ID: productID, Name: "widget", Price: decimal.New(100, -2), Stock: 10}, nil
}

func (s ProductFacadeStub) Products(ctx context.Context) ([]model.Product, error) {
	if s.ListFn != nil {
		return s.ListFn(ctx)
	}
	return []model.Product{{ID: 1, Name: "widget", Price: decimal.New(100, -2), Stock: 10}}, nil
}

// OrderFacadeStub simulates order lifecycle operations.
type OrderFacadeStub struct {
	CreateFn       func(context.Context, model.Principal, []model.OrderItem) (*model.Order, error)
	GetFn          func(context.Context, model.Principal, int64) (*model.Order, error)
	ListFn         func(context.Context, model.Principal) ([]model.Order, error)
	ListAllFn      func(context.Context, model.Principal) ([]model.Order, error)
	UpdateStatusFn func(context.Context, model.Principal, int64, model.OrderStatus) (*model.Order, error)
	CancelFn       func(context.Context, model.Principal, int64) (*model.Order, error)
	DeleteFn       func(context.Context, model.Principal, int64) error
}

func (s OrderFacadeStub) CreateOrder(ctx context.Context, p model.Principal, items []model.OrderItem) (*model.Order, error) {
	if s.CreateFn != nil {
		return s.CreateFn(ctx, p, items)
	}
	return &model.Order{ID: 1, UserID: p.UserID, Status: model.OrderStatusPending, Items: items}, nil
}

func (s OrderFacadeStub) Order(ctx context.Context, p model.Principal, orderID int64) (*model.Order, error) {
	if s.GetFn != nil {
		return s.GetFn(ctx, p, orderID)
	}
	return &model.Order{ID: orderID, UserID: p.UserID, Status: model.OrderStatusPending}, nil
}

func (s OrderFacadeStub) Orders(ctx context.Context, p model.Principal) ([]model.Order, error) {
	if s.ListFn != nil {
		return s.ListFn(ctx, p)
	}
	return []model.Order{{ID: 1, UserID: p.UserID, Status: model.OrderStatusPending}}, nil
}

func (s OrderFacadeStub) AllOrders(ctx context.Context, p model.Principal) ([]model.Order, error) {
	if s.ListAllFn != nil {
		return s.ListAllFn(ctx, p)
	}
	return []model.Order{{ID: 1, UserID: 2, Status: model.OrderStatusPending}}, nil
}

func (s OrderFacadeStub) UpdateOrderStatus(ctx context.Context, p model.Principal, orderID int64, status model.OrderStatus) (*model.Order, error) {
	if s.UpdateStatusFn != nil {
		return s.UpdateStatusFn(ctx, p, orderID, status)
	}
	return &model.Order{ID: orderID, UserID: p.UserID, Status: status}, nil
}

func (s OrderFacadeStub) CancelOrder(ctx context.Context, p model.Principal, orderID int64) (*model.Order, error) {
	if s.CancelFn != nil {
		return s.CancelFn(ctx, p, orderID)
	}
	return &model.Order{ID: orderID, UserID: p.UserID, Status: model.OrderStatusCancelled}, nil
}

func (s OrderFacadeStub) DeleteOrder(ctx context.Context, p model.Principal, orderID int64) error {
	if s.DeleteFn != nil {
		return s.DeleteFn(ctx, p, orderID)
	}
	return nil
}
