package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	domainErrors "github.com/caom/ecommerce/internal/domain/errors"
	"github.com/caom/ecommerce/internal/domain/model"
	"github.com/caom/ecommerce/internal/domain/repository"
)

// StockLedger describes the inventory operations the order lifecycle needs.
type StockLedger interface {
	Reserve(ctx context.Context, productID int64, quantity int) error
	Release(ctx context.Context, productID int64, quantity int) error
	ReleaseItems(ctx context.Context, items []model.OrderItem) error
}

// OrderUseCase orchestrates the order lifecycle: creation with atomic
// inventory reservation, status transitions, cancellation and deletion.
type OrderUseCase struct {
	orders   repository.OrderRepository
	products repository.ProductRepository
	ledger   StockLedger
	logger   *slog.Logger
}

// NewOrderUseCase constructs OrderUseCase.
func NewOrderUseCase(orders repository.OrderRepository, products repository.ProductRepository, ledger StockLedger, logger *slog.Logger) *OrderUseCase {
	return &OrderUseCase{orders: orders, products: products, ledger: ledger, logger: logger}
}

// Create validates the request, reserves stock item by item in request
// order and persists the order as PENDING. The operation is all-or-nothing:
// any failure releases every reservation made so far before the error is
// returned, so no stock is ever held without a persisted order.
func (u *OrderUseCase) Create(ctx context.Context, principal model.Principal, items []model.OrderItem) (*model.Order, error) {
	if len(items) == 0 {
		return nil, fmt.Errorf("%w: order must contain at least one item", domainErrors.ErrValidation)
	}
	for _, item := range items {
		if item.Quantity <= 0 {
			return nil, fmt.Errorf("%w: quantity must be positive for product %d", domainErrors.ErrValidation, item.ProductID)
		}
	}

	var reserved []model.OrderItem
	rollback := func() {
		if err := u.ledger.ReleaseItems(ctx, reserved); err != nil {
			u.logger.Error("compensating release incomplete", slog.String("error", err.Error()))
		}
	}

	total := decimal.Zero
	lines := make([]model.OrderItem, 0, len(items))
	for _, item := range items {
		product, err := u.products.GetByID(ctx, item.ProductID)
		if err != nil {
			rollback()
			return nil, err
		}
		if err := u.ledger.Reserve(ctx, item.ProductID, item.Quantity); err != nil {
			rollback()
			return nil, err
		}
		line := model.OrderItem{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: product.Price,
		}
		reserved = append(reserved, line)
		lines = append(lines, line)
		total = total.Add(line.Subtotal())
	}

	order, err := u.orders.Create(ctx, principal.UserID, total, lines)
	if err != nil {
		rollback()
		return nil, err
	}

	u.logger.Info("order created",
		slog.Int64("order_id", order.ID),
		slog.Int64("user_id", principal.UserID),
		slog.String("total", order.TotalPrice.StringFixed(2)),
	)
	return order, nil
}

// Get returns the order with its line items for the owner or an admin.
func (u *OrderUseCase) Get(ctx context.Context, principal model.Principal, orderID int64) (*model.Order, error) {
	order, err := u.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !CanManageOrder(principal, order) {
		return nil, domainErrors.ErrUnauthorized
	}
	return order, nil
}

// ListByUser returns the principal's own orders, newest first.
func (u *OrderUseCase) ListByUser(ctx context.Context, principal model.Principal) ([]model.Order, error) {
	return u.orders.ListByUser(ctx, principal.UserID)
}

// ListAll returns every order in the system; administrators only.
func (u *OrderUseCase) ListAll(ctx context.Context, principal model.Principal) ([]model.Order, error) {
	if !IsAdmin(principal) {
		return nil, domainErrors.ErrUnauthorized
	}
	return u.orders.ListAll(ctx)
}

// UpdateStatus moves the order along the PENDING -> SHIPPED -> DELIVERED
// progression. A CANCELLED target routes through the cancellation logic so
// stock restoration happens on the single legal cancel edge.
func (u *OrderUseCase) UpdateStatus(ctx context.Context, principal model.Principal, orderID int64, status model.OrderStatus) (*model.Order, error) {
	order, err := u.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !CanManageOrder(principal, order) {
		return nil, domainErrors.ErrUnauthorized
	}

	if status == model.OrderStatusCancelled {
		return u.cancel(ctx, order)
	}

	if !order.Status.CanTransitionTo(status) {
		return nil, fmt.Errorf("%w: %s to %s", domainErrors.ErrInvalidStateTransition, order.Status, status)
	}
	// the conditional write also catches a status that moved between the
	// read above and this point
	if err := u.orders.TransitionStatus(ctx, order.ID, order.Status, status); err != nil {
		return nil, err
	}
	return u.orders.GetByID(ctx, order.ID)
}

// Cancel cancels a PENDING order, restoring stock for all its line items.
func (u *OrderUseCase) Cancel(ctx context.Context, principal model.Principal, orderID int64) (*model.Order, error) {
	order, err := u.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.Status != model.OrderStatusPending {
		return nil, fmt.Errorf("%w: only pending orders can be cancelled", domainErrors.ErrInvalidStateTransition)
	}
	if !CanManageOrder(principal, order) {
		return nil, domainErrors.ErrUnauthorized
	}
	return u.cancel(ctx, order)
}

// cancel claims the PENDING -> CANCELLED edge with a conditional status
// write and restores stock only after winning it. Two concurrent cancels of
// the same order therefore release its quantities exactly once; the loser
// fails with ErrInvalidStateTransition.
func (u *OrderUseCase) cancel(ctx context.Context, order *model.Order) (*model.Order, error) {
	if order.Status != model.OrderStatusPending {
		return nil, fmt.Errorf("%w: only pending orders can be cancelled", domainErrors.ErrInvalidStateTransition)
	}
	if err := u.orders.TransitionStatus(ctx, order.ID, model.OrderStatusPending, model.OrderStatusCancelled); err != nil {
		return nil, err
	}
	if err := u.ledger.ReleaseItems(ctx, order.Items); err != nil {
		u.logger.Error("stock release incomplete after cancel",
			slog.Int64("order_id", order.ID),
			slog.String("error", err.Error()),
		)
	}
	u.logger.Info("order cancelled", slog.Int64("order_id", order.ID))
	return u.orders.GetByID(ctx, order.ID)
}

// Delete removes an order and its line items; administrators only. Unless
// the order was already cancelled its stock is restored first, so deletion
// never destroys reserved inventory.
func (u *OrderUseCase) Delete(ctx context.Context, principal model.Principal, orderID int64) error {
	order, err := u.orders.GetByID(ctx, orderID)
	if err != nil {
		return err
	}
	if !IsAdmin(principal) {
		return domainErrors.ErrUnauthorized
	}

	// Claim the order by flipping it to CANCELLED before touching stock.
	// A concurrent cancel that wins the flip instead has already restored
	// the quantities, so the loop re-reads and skips the release.
	for order.Status != model.OrderStatusCancelled {
		err := u.orders.TransitionStatus(ctx, orderID, order.Status, model.OrderStatusCancelled)
		if errors.Is(err, domainErrors.ErrInvalidStateTransition) {
			if order, err = u.orders.GetByID(ctx, orderID); err != nil {
				return err
			}
			continue
		}
		if err != nil {
			return err
		}
		if err := u.ledger.ReleaseItems(ctx, order.Items); err != nil {
			u.logger.Error("stock release incomplete before delete",
				slog.Int64("order_id", order.ID),
				slog.String("error", err.Error()),
			)
		}
		break
	}

	if err := u.orders.Delete(ctx, order.ID); err != nil {
		return err
	}
	u.logger.Info("order deleted", slog.Int64("order_id", order.ID))
	return nil
}

// StalePending returns PENDING orders created before the cutoff.
func (u *OrderUseCase) StalePending(ctx context.Context, cutoff time.Time, limit int) ([]model.Order, error) {
	return u.orders.SelectStalePending(ctx, cutoff, limit)
}
