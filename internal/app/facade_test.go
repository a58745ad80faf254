package app

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	domainErrors "github.com/caom/ecommerce/internal/domain/errors"
	"github.com/caom/ecommerce/internal/domain/model"
	pkgAuth "github.com/caom/ecommerce/internal/pkg/auth"
	"github.com/caom/ecommerce/internal/stock"
	testhelpers "github.com/caom/ecommerce/internal/test"
	"github.com/caom/ecommerce/internal/usecase"
)

func newFacade() (*CommerceFacade, *testhelpers.UserRepositoryStub, *testhelpers.ProductRepositoryStub, *testhelpers.OrderRepositoryStub) {
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))

	users := testhelpers.NewUserRepositoryStub()
	authUC := usecase.NewAuthUseCase(users, pkgAuth.NewBcryptHasher(4), pkgAuth.NewHMACStrategy("secret", pkgAuth.Options{TTL: time.Minute}))

	products := testhelpers.NewProductRepositoryStub()
	productUC := usecase.NewProductUseCase(products)

	orders := testhelpers.NewOrderRepositoryStub()
	ledger := stock.NewLedger(products, logger)
	orderUC := usecase.NewOrderUseCase(orders, products, ledger, logger)

	return NewCommerceFacade(authUC, productUC, orderUC), users, products, orders
}

func TestCommerceFacadeAuth(t *testing.T) {
	facade, users, _, _ := newFacade()

	token, err := facade.Register(context.Background(), "alice", "password")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if token == "" {
		t.Fatal("expected token")
	}
	if _, err := users.GetByLogin(context.Background(), "alice"); err != nil {
		t.Fatalf("user not stored: %v", err)
	}

	if _, err := facade.Authenticate(context.Background(), "alice", "password"); err != nil {
		t.Fatalf("authenticate: %v", err)
	}

	principal, err := facade.ResolvePrincipal(context.Background(), token)
	if err != nil {
		t.Fatalf("resolve principal: %v", err)
	}
	if principal.Role != model.RoleCustomer {
		t.Fatalf("unexpected role: %s", principal.Role)
	}
}

func TestCommerceFacadeCatalog(t *testing.T) {
	facade, _, _, _ := newFacade()
	adminP := model.Principal{UserID: 99, Role: model.RoleAdmin}

	created, err := facade.CreateProduct(context.Background(), adminP, &model.Product{
		Name:  "widget",
		Price: decimal.RequireFromString("9.99"),
		Stock: 5,
	})
	if err != nil {
		t.Fatalf("create product: %v", err)
	}

	got, err := facade.Product(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("get product: %v", err)
	}
	if got.Name != "widget" {
		t.Fatalf("unexpected product: %+v", got)
	}

	got.Stock = 9
	if _, err := facade.UpdateProduct(context.Background(), adminP, got); err != nil {
		t.Fatalf("update product: %v", err)
	}

	list, err := facade.Products(context.Background())
	if err != nil {
		t.Fatalf("list products: %v", err)
	}
	if len(list) != 1 || list[0].Stock != 9 {
		t.Fatalf("unexpected catalog: %+v", list)
	}

	if err := facade.DeleteProduct(context.Background(), adminP, created.ID); err != nil {
		t.Fatalf("delete product: %v", err)
	}
}

func TestCommerceFacadeOrderLifecycle(t *testing.T) {
	facade, _, products, _ := newFacade()
	p := products.Add("widget", decimal.RequireFromString("19.99"), 10)
	owner := model.Principal{UserID: 1, Role: model.RoleCustomer}
	adminP := model.Principal{UserID: 99, Role: model.RoleAdmin}

	order, err := facade.CreateOrder(context.Background(), owner, []model.OrderItem{{ProductID: p.ID, Quantity: 3}})
	if err != nil {
		t.Fatalf("create order: %v", err)
	}
	if products.Stock(p.ID) != 7 {
		t.Fatalf("unexpected stock: %d", products.Stock(p.ID))
	}

	if _, err := facade.Order(context.Background(), owner, order.ID); err != nil {
		t.Fatalf("get order: %v", err)
	}
	if own, _ := facade.Orders(context.Background(), owner); len(own) != 1 {
		t.Fatalf("unexpected own orders: %+v", own)
	}
	if all, err := facade.AllOrders(context.Background(), adminP); err != nil || len(all) != 1 {
		t.Fatalf("unexpected all orders: %v %+v", err, all)
	}

	shipped, err := facade.UpdateOrderStatus(context.Background(), owner, order.ID, model.OrderStatusShipped)
	if err != nil {
		t.Fatalf("ship: %v", err)
	}
	if shipped.Status != model.OrderStatusShipped {
		t.Fatalf("unexpected status: %s", shipped.Status)
	}

	if err := facade.DeleteOrder(context.Background(), adminP, order.ID); err != nil {
		t.Fatalf("delete order: %v", err)
	}
	if products.Stock(p.ID) != 10 {
		t.Fatalf("stock not restored: %d", products.Stock(p.ID))
	}
}

func TestCommerceFacadeReaperOperations(t *testing.T) {
	facade, _, products, orders := newFacade()
	p := products.Add("widget", decimal.RequireFromString("1.00"), 10)
	owner := model.Principal{UserID: 1, Role: model.RoleCustomer}

	order, err := facade.CreateOrder(context.Background(), owner, []model.OrderItem{{ProductID: p.ID, Quantity: 2}})
	if err != nil {
		t.Fatalf("create order: %v", err)
	}
	orders.Orders[order.ID].CreatedAt = time.Now().Add(-2 * time.Hour)

	stale, err := facade.StalePendingOrders(context.Background(), time.Now().Add(-time.Hour), 10)
	if err != nil {
		t.Fatalf("stale orders: %v", err)
	}
	if len(stale) != 1 {
		t.Fatalf("unexpected stale orders: %+v", stale)
	}

	if err := facade.CancelExpiredOrder(context.Background(), order.ID); err != nil {
		t.Fatalf("cancel expired: %v", err)
	}
	if products.Stock(p.ID) != 10 {
		t.Fatalf("stock not restored: %d", products.Stock(p.ID))
	}

	// second cancel is the benign race the reaper tolerates
	if err := facade.CancelExpiredOrder(context.Background(), order.ID); !errors.Is(err, domainErrors.ErrInvalidStateTransition) {
		t.Fatalf("expected ErrInvalidStateTransition, got %v", err)
	}
}
