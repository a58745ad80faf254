package test

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	domainErrors "github.com/caom/ecommerce/internal/domain/errors"
	"github.com/caom/ecommerce/internal/domain/model"
)

// UserRepositoryStub stores users in-memory for tests.
type UserRepositoryStub struct {
	Users map[string]*model.User
	ByID  map[int64]*model.User
	Next  int64
	Err   error
}

// NewUserRepositoryStub constructs stub repository with initialized maps.
func NewUserRepositoryStub() *UserRepositoryStub {
	return &UserRepositoryStub{
		Users: make(map[string]*model.User),
		ByID:  make(map[int64]*model.User),
		Next:  1,
	}
}

// Create registers user unless already exists or stub has explicit error.
func (s *UserRepositoryStub) Create(ctx context.Context, login, passwordHash string, role model.Role) (*model.User, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	if _, exists := s.Users[login]; exists {
		return nil, domainErrors.ErrAlreadyExists
	}
	if s.Next == 0 {
		s.Next = 1
	}
	user := &model.User{ID: s.Next, Login: login, PasswordHash: passwordHash, Role: role, CreatedAt: time.Now()}
	s.Next++
	s.Users[login] = user
	s.ByID[user.ID] = user
	return user, nil
}

// GetByLogin fetches user by login or returns not found.
func (s *UserRepositoryStub) GetByLogin(ctx context.Context, login string) (*model.User, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	if user, ok := s.Users[login]; ok {
		return user, nil
	}
	return nil, domainErrors.ErrUserNotFound
}

// GetByID fetches user by identifier or returns not found.
func (s *UserRepositoryStub) GetByID(ctx context.Context, id int64) (*model.User, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	if user, ok := s.ByID[id]; ok {
		return user, nil
	}
	return nil, domainErrors.ErrUserNotFound
}

// ProductRepositoryStub keeps the catalog in-memory. Reserve and release are
// serialized by a mutex so concurrency tests exercise the same atomicity
// contract as the SQL implementation.
type ProductRepositoryStub struct {
	mu       sync.Mutex
	Products map[int64]*model.Product
	Next     int64
	Err      error
}

// NewProductRepositoryStub constructs stub catalog.
func NewProductRepositoryStub() *ProductRepositoryStub {
	return &ProductRepositoryStub{Products: make(map[int64]*model.Product), Next: 1}
}

// Add seeds a product and returns it.
func (s *ProductRepositoryStub) Add(name string, price decimal.Decimal, stock int) *model.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Next == 0 {
		s.Next = 1
	}
	p := &model.Product{ID: s.Next, Name: name, Price: price, Stock: stock, CreatedAt: time.Now()}
	s.Next++
	s.Products[p.ID] = p
	return p
}

// Stock returns the current availability of a product.
func (s *ProductRepositoryStub) Stock(productID int64) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p, ok := s.Products[productID]; ok {
		return p.Stock
	}
	return 0
}

func (s *ProductRepositoryStub) Create(ctx context.Context, product *model.Product) (*model.Product, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	p := s.Add(product.Name, product.Price, product.Stock)
	p.Description = product.Description
	return p, nil
}

func (s *ProductRepositoryStub) GetByID(ctx context.Context, productID int64) (*model.Product, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if p, ok := s.Products[productID]; ok {
		cp := *p
		return &cp, nil
	}
	return nil, domainErrors.ErrProductNotFound
}

func (s *ProductRepositoryStub) List(ctx context.Context) ([]model.Product, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	result := make([]model.Product, 0, len(s.Products))
	for _, p := range s.Products {
		result = append(result, *p)
	}
	return result, nil
}

func (s *ProductRepositoryStub) Update(ctx context.Context, product *model.Product) (*model.Product, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.Products[product.ID]; !ok {
		return nil, domainErrors.ErrProductNotFound
	}
	cp := *product
	s.Products[product.ID] = &cp
	out := cp
	return &out, nil
}

func (s *ProductRepositoryStub) Delete(ctx context.Context, productID int64) error {
	if s.Err != nil {
		return s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.Products[productID]; !ok {
		return domainErrors.ErrProductNotFound
	}
	delete(s.Products, productID)
	return nil
}

// ReserveStock checks and decrements under one lock, mirroring the
// conditional UPDATE of the SQL repository.
func (s *ProductRepositoryStub) ReserveStock(ctx context.Context, productID int64, quantity int) error {
	if s.Err != nil {
		return s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.Products[productID]
	if !ok {
		return domainErrors.ErrProductNotFound
	}
	if p.Stock < quantity {
		return domainErrors.ErrInsufficientStock
	}
	p.Stock -= quantity
	return nil
}

func (s *ProductRepositoryStub) ReleaseStock(ctx context.Context, productID int64, quantity int) error {
	if s.Err != nil {
		return s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.Products[productID]
	if !ok {
		return domainErrors.ErrProductNotFound
	}
	p.Stock += quantity
	return nil
}

// OrderRepositoryStub stores orders in-memory; individual operations can be
// overridden through the Fn fields to simulate failures.
type OrderRepositoryStub struct {
	mu     sync.Mutex
	Orders map[int64]*model.Order
	Next   int64

	CreateFn           func(context.Context, int64, decimal.Decimal, []model.OrderItem) (*model.Order, error)
	GetByIDFn          func(context.Context, int64) (*model.Order, error)
	TransitionStatusFn func(context.Context, int64, model.OrderStatus, model.OrderStatus) error
	DeleteFn           func(context.Context, int64) error
}

// NewOrderRepositoryStub constructs stub order store.
func NewOrderRepositoryStub() *OrderRepositoryStub {
	return &OrderRepositoryStub{Orders: make(map[int64]*model.Order), Next: 1}
}

func (s *OrderRepositoryStub) clone(o *model.Order) *model.Order {
	cp := *o
	cp.Items = append([]model.OrderItem(nil), o.Items...)
	return &cp
}

func (s *OrderRepositoryStub) Create(ctx context.Context, userID int64, total decimal.Decimal, items []model.OrderItem) (*model.Order, error) {
	if s.CreateFn != nil {
		return s.CreateFn(ctx, userID, total, items)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Next == 0 {
		s.Next = 1
	}
	order := &model.Order{
		ID:         s.Next,
		UserID:     userID,
		TotalPrice: total,
		Status:     model.OrderStatusPending,
		CreatedAt:  time.Now(),
	}
	s.Next++
	for i, item := range items {
		item.ID = int64(i + 1)
		item.OrderID = order.ID
		order.Items = append(order.Items, item)
	}
	s.Orders[order.ID] = order
	return s.clone(order), nil
}

func (s *OrderRepositoryStub) GetByID(ctx context.Context, orderID int64) (*model.Order, error) {
	if s.GetByIDFn != nil {
		return s.GetByIDFn(ctx, orderID)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if order, ok := s.Orders[orderID]; ok {
		return s.clone(order), nil
	}
	return nil, domainErrors.ErrOrderNotFound
}

func (s *OrderRepositoryStub) ListByUser(ctx context.Context, userID int64) ([]model.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var result []model.Order
	for _, order := range s.Orders {
		if order.UserID == userID {
			result = append(result, *s.clone(order))
		}
	}
	return result, nil
}

func (s *OrderRepositoryStub) ListAll(ctx context.Context) ([]model.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var result []model.Order
	for _, order := range s.Orders {
		result = append(result, *s.clone(order))
	}
	return result, nil
}

// TransitionStatus mirrors the conditional single-statement UPDATE of the
// real store: the flip happens only while the stored status still matches
// the expected one, all under one lock.
func (s *OrderRepositoryStub) TransitionStatus(ctx context.Context, orderID int64, from, to model.OrderStatus) error {
	if s.TransitionStatusFn != nil {
		return s.TransitionStatusFn(ctx, orderID, from, to)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	order, ok := s.Orders[orderID]
	if !ok {
		return domainErrors.ErrOrderNotFound
	}
	if order.Status != from {
		return fmt.Errorf("%w: order %d is no longer %s", domainErrors.ErrInvalidStateTransition, orderID, from)
	}
	order.Status = to
	return nil
}

func (s *OrderRepositoryStub) Delete(ctx context.Context, orderID int64) error {
	if s.DeleteFn != nil {
		return s.DeleteFn(ctx, orderID)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.Orders[orderID]; !ok {
		return domainErrors.ErrOrderNotFound
	}
	delete(s.Orders, orderID)
	return nil
}

func (s *OrderRepositoryStub) SelectStalePending(ctx context.Context, cutoff time.Time, limit int) ([]model.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var result []model.Order
	for _, order := range s.Orders {
		if order.Status == model.OrderStatusPending && order.CreatedAt.Before(cutoff) {
			result = append(result, *s.clone(order))
			if len(result) == limit {
				break
			}
		}
	}
	return result, nil
}
