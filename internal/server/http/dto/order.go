package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderItemRequest is one requested (product, quantity) pair.
type OrderItemRequest struct {
	ProductID int64 `json:"productId"`
	Quantity  int   `json:"quantity"`
}

// CreateOrderRequest describes an order creation payload.
type CreateOrderRequest struct {
	Items []OrderItemRequest `json:"items"`
}

// UpdateOrderStatusRequest carries the requested status transition.
type UpdateOrderStatusRequest struct {
	Status string `json:"status"`
}

// OrderItemResponse is one order line with its snapshotted unit price.
type OrderItemResponse struct {
	OrderItemID int64           `json:"orderItemId"`
	ProductID   int64           `json:"productId"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
}

// OrderResponse represents a full order record.
type OrderResponse struct {
	OrderID    int64               `json:"orderId"`
	OwnerID    int64               `json:"ownerId"`
	Status     string              `json:"status"`
	TotalPrice decimal.Decimal     `json:"totalPrice"`
	CreatedAt  time.Time           `json:"createdAt"`
	Items      []OrderItemResponse `json:"items"`
}

// ErrorResponse is the uniform error payload.
type ErrorResponse struct {
	Message string `json:"message"`
}
