package usecase

import (
	"context"
	"io"
	"sort"
	"sync"
	"time"

	"legerity_service/internal/domain"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// memStore is an in-memory implementation of every repository port plus a
// snapshotting Transactor. Hooks let a test fail a given step.
type memStore struct {
	mu sync.Mutex

	nextID   int64
	products map[int64]domain.Product
	carts    map[int64]int64 // user id -> cart id
	items    map[int64]domain.CartItem
	orders   map[int64]domain.Order
	users    map[int64]domain.User
	reviews  []domain.Review

	failCreateOrder error
	failClearItems  error
	commits         int
	rollbacks       int
}

func newMemStore() *memStore {
	return &memStore{
		products: map[int64]domain.Product{},
		carts:    map[int64]int64{},
		items:    map[int64]domain.CartItem{},
		orders:   map[int64]domain.Order{},
		users:    map[int64]domain.User{},
	}
}

func newTestLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func (s *memStore) id() int64 {
	s.nextID++
	return s.nextID
}

func (s *memStore) addProduct(price string, stock int) domain.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := domain.Product{
		ID:       s.id(),
		Info:     "test product",
		Price:    decimal.RequireFromString(price),
		Stock:    stock,
		Category: domain.CategoryOil,
	}
	s.products[p.ID] = p
	return p
}

// deleteProduct mimics ON DELETE SET NULL on cart_items.product_id.
func (s *memStore) deleteProduct(id int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.products, id)
	for itemID, item := range s.items {
		if item.ProductID != nil && *item.ProductID == id {
			item.ProductID = nil
			s.items[itemID] = item
		}
	}
}

func (s *memStore) setStock(id int64, stock int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := s.products[id]
	p.Stock = stock
	s.products[id] = p
}

func (s *memStore) product(id int64) domain.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.products[id]
}

func (s *memStore) itemCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

func (s *memStore) orderCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.orders)
}

type memSnapshot struct {
	nextID   int64
	products map[int64]domain.Product
	carts    map[int64]int64
	items    map[int64]domain.CartItem
	orders   map[int64]domain.Order
	users    map[int64]domain.User
}

func copyMap[K comparable, V any](m map[K]V) map[K]V {
	out := make(map[K]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func (s *memStore) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	s.mu.Lock()
	snap := memSnapshot{
		nextID:   s.nextID,
		products: copyMap(s.products),
		carts:    copyMap(s.carts),
		items:    copyMap(s.items),
		orders:   copyMap(s.orders),
		users:    copyMap(s.users),
	}
	s.mu.Unlock()

	if err := fn(ctx); err != nil {
		s.mu.Lock()
		s.nextID = snap.nextID
		s.products = snap.products
		s.carts = snap.carts
		s.items = snap.items
		s.orders = snap.orders
		s.users = snap.users
		s.rollbacks++
		s.mu.Unlock()
		return err
	}
	s.mu.Lock()
	s.commits++
	s.mu.Unlock()
	return nil
}

// ProductRepository

func (s *memStore) GetProductByID(ctx context.Context, id int64) (*domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.products[id]
	if !ok {
		return nil, domain.NotFound("product with id %d not found", id)
	}
	return &p, nil
}

func (s *memStore) ListProducts(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	all := []domain.Product{}
	for _, p := range s.products {
		if filter.Category == "" || p.Category == filter.Category {
			all = append(all, p)
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })
	if filter.Offset >= len(all) {
		return []domain.Product{}, nil
	}
	all = all[filter.Offset:]
	if len(all) > filter.Limit {
		all = all[:filter.Limit]
	}
	return all, nil
}

func (s *memStore) CountProducts(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.products), nil
}

func (s *memStore) ReserveStock(ctx context.Context, id int64, quantity int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.products[id]
	if !ok || p.Stock < quantity {
		return domain.NewValidationError("quantity", "Not enough stock")
	}
	p.Stock -= quantity
	p.SalesNumber += quantity
	s.products[id] = p
	return nil
}

// CartRepository

func (s *memStore) GetOrCreateCart(ctx context.Context, userID int64) (*domain.Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cartID, ok := s.carts[userID]
	if !ok {
		cartID = s.id()
		s.carts[userID] = cartID
	}
	return &domain.Cart{ID: cartID, UserID: userID, Items: []domain.CartItem{}}, nil
}

func (s *memStore) withProduct(item domain.CartItem) domain.CartItem {
	if item.ProductID != nil {
		if p, ok := s.products[*item.ProductID]; ok {
			item.Product = &p
			return item
		}
	}
	item.ProductID = nil
	item.Product = nil
	return item
}

func (s *memStore) ListItems(ctx context.Context, cartID int64) ([]domain.CartItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	items := []domain.CartItem{}
	for _, item := range s.items {
		if item.CartID == cartID {
			items = append(items, s.withProduct(item))
		}
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })
	return items, nil
}

func (s *memStore) ListItemsForUpdate(ctx context.Context, cartID int64) ([]domain.CartItem, error) {
	return s.ListItems(ctx, cartID)
}

func (s *memStore) ownedItem(userID, itemID int64) (domain.CartItem, bool) {
	item, ok := s.items[itemID]
	if !ok || s.carts[userID] != item.CartID {
		return domain.CartItem{}, false
	}
	return item, true
}

func (s *memStore) GetItem(ctx context.Context, userID, itemID int64) (*domain.CartItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	item, ok := s.ownedItem(userID, itemID)
	if !ok {
		return nil, domain.NotFound("Cart item not found")
	}
	item = s.withProduct(item)
	return &item, nil
}

func (s *memStore) ItemExists(ctx context.Context, cartID, productID int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, item := range s.items {
		if item.CartID == cartID && item.ProductID != nil && *item.ProductID == productID {
			return true, nil
		}
	}
	return false, nil
}

func (s *memStore) CreateItem(ctx context.Context, item *domain.CartItem) (*domain.CartItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.items {
		if existing.CartID == item.CartID && existing.ProductID != nil && *existing.ProductID == *item.ProductID {
			return nil, domain.ErrProductAlreadyInCart
		}
	}
	productID := *item.ProductID
	item.ID = s.id()
	s.items[item.ID] = domain.CartItem{ID: item.ID, CartID: item.CartID, ProductID: &productID, Quantity: item.Quantity}
	return item, nil
}

func (s *memStore) UpdateItemQuantity(ctx context.Context, itemID int64, quantity int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	item, ok := s.items[itemID]
	if !ok {
		return domain.NotFound("Cart item not found")
	}
	item.Quantity = quantity
	s.items[itemID] = item
	return nil
}

func (s *memStore) DeleteItem(ctx context.Context, userID, itemID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.ownedItem(userID, itemID); !ok {
		return domain.NotFound("Cart item not found")
	}
	delete(s.items, itemID)
	return nil
}

func (s *memStore) ClearItems(ctx context.Context, cartID int64, itemIDs []int64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failClearItems != nil {
		return 0, s.failClearItems
	}
	var cleared int64
	for _, id := range itemIDs {
		if item, ok := s.items[id]; ok && item.CartID == cartID {
			delete(s.items, id)
			cleared++
		}
	}
	return cleared, nil
}

// OrderRepository

var baseTime = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func (s *memStore) CreateOrder(ctx context.Context, order *domain.Order) (*domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failCreateOrder != nil {
		return nil, s.failCreateOrder
	}
	order.ID = s.id()
	order.CreatedAt = baseTime.Add(time.Duration(order.ID) * time.Minute)
	lines := make([]domain.OrderLine, len(order.Lines))
	for i, line := range order.Lines {
		line.ID = s.id()
		line.OrderID = order.ID
		lines[i] = line
	}
	order.Lines = lines
	stored := *order
	stored.Lines = append([]domain.OrderLine(nil), lines...)
	s.orders[order.ID] = stored
	return order, nil
}

func (s *memStore) GetOrderByID(ctx context.Context, userID, id int64) (*domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	order, ok := s.orders[id]
	if !ok || order.UserID != userID {
		return nil, domain.NotFound("order with id %d not found", id)
	}
	return &order, nil
}

func (s *memStore) ListOrdersByUserID(ctx context.Context, userID int64, limit, offset int) ([]domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	orders := []domain.Order{}
	for _, order := range s.orders {
		if order.UserID == userID {
			orders = append(orders, order)
		}
	}
	sort.Slice(orders, func(i, j int) bool { return orders[i].CreatedAt.After(orders[j].CreatedAt) })
	if offset >= len(orders) {
		return []domain.Order{}, nil
	}
	orders = orders[offset:]
	if len(orders) > limit {
		orders = orders[:limit]
	}
	return orders, nil
}

// UserRepository

func (s *memStore) CreateUser(ctx context.Context, user *domain.User) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.users {
		if existing.Email == user.Email {
			return nil, domain.Conflict("user with email '%s' already exists", user.Email)
		}
	}
	user.ID = s.id()
	user.CreatedAt = baseTime
	s.users[user.ID] = *user
	return user, nil
}

func (s *memStore) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, user := range s.users {
		if user.Email == email {
			return &user, nil
		}
	}
	return nil, domain.NotFound("user with email %s not found", email)
}

func (s *memStore) GetUserByID(ctx context.Context, id int64) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[id]
	if !ok {
		return nil, domain.NotFound("user with id %d not found", id)
	}
	return &user, nil
}

func (s *memStore) CountCustomers(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	count := 0
	for _, user := range s.users {
		if !user.IsStaff {
			count++
		}
	}
	return count, nil
}

// ReviewRepository

func (s *memStore) ListReviews(ctx context.Context) ([]domain.Review, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.Review{}, s.reviews...), nil
}
