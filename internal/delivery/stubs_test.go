package delivery

import (
	"context"
	"io"
	"testing"
	"time"

	"legerity_service/internal/auth"
	"legerity_service/internal/domain"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

type stubCartUseCase struct {
	getCart    func(ctx context.Context, userID int64) (*domain.Cart, error)
	addItem    func(ctx context.Context, userID int64, input domain.AddCartItemInput) (*domain.CartItem, error)
	updateItem func(ctx context.Context, userID, itemID int64, input domain.UpdateCartItemInput) (*domain.CartItem, error)
	removeItem func(ctx context.Context, userID, itemID int64) error
}

func (s *stubCartUseCase) GetCart(ctx context.Context, userID int64) (*domain.Cart, error) {
	return s.getCart(ctx, userID)
}

func (s *stubCartUseCase) AddItem(ctx context.Context, userID int64, input domain.AddCartItemInput) (*domain.CartItem, error) {
	return s.addItem(ctx, userID, input)
}

func (s *stubCartUseCase) UpdateItemQuantity(ctx context.Context, userID, itemID int64, input domain.UpdateCartItemInput) (*domain.CartItem, error) {
	return s.updateItem(ctx, userID, itemID, input)
}

func (s *stubCartUseCase) RemoveItem(ctx context.Context, userID, itemID int64) error {
	return s.removeItem(ctx, userID, itemID)
}

type stubOrderUseCase struct {
	placeOrder func(ctx context.Context, userID int64, input domain.CheckoutInput) (*domain.Order, error)
	getOrder   func(ctx context.Context, userID, id int64) (*domain.Order, error)
	listOrders func(ctx context.Context, userID int64, limit, offset int) ([]domain.Order, error)
}

func (s *stubOrderUseCase) PlaceOrder(ctx context.Context, userID int64, input domain.CheckoutInput) (*domain.Order, error) {
	return s.placeOrder(ctx, userID, input)
}

func (s *stubOrderUseCase) GetOrder(ctx context.Context, userID, id int64) (*domain.Order, error) {
	return s.getOrder(ctx, userID, id)
}

func (s *stubOrderUseCase) ListOrders(ctx context.Context, userID int64, limit, offset int) ([]domain.Order, error) {
	return s.listOrders(ctx, userID, limit, offset)
}

type stubProductUseCase struct {
	getProduct   func(ctx context.Context, id int64) (*domain.Product, error)
	listProducts func(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, error)
}

func (s *stubProductUseCase) GetProduct(ctx context.Context, id int64) (*domain.Product, error) {
	return s.getProduct(ctx, id)
}

func (s *stubProductUseCase) ListProducts(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, error) {
	return s.listProducts(ctx, filter)
}

type stubUserUseCase struct {
	register func(ctx context.Context, input domain.RegisterInput) (*domain.User, error)
	login    func(ctx context.Context, email, password string) (*domain.TokenPair, error)
	refresh  func(ctx context.Context, token string) (string, error)
}

func (s *stubUserUseCase) Register(ctx context.Context, input domain.RegisterInput) (*domain.User, error) {
	return s.register(ctx, input)
}

func (s *stubUserUseCase) Login(ctx context.Context, email, password string) (*domain.TokenPair, error) {
	return s.login(ctx, email, password)
}

func (s *stubUserUseCase) RefreshAccessToken(ctx context.Context, token string) (string, error) {
	return s.refresh(ctx, token)
}

type stubSiteUseCase struct {
	about   *domain.About
	reviews []domain.Review
	err     error
}

func (s *stubSiteUseCase) About(ctx context.Context) (*domain.About, error) {
	return s.about, s.err
}

func (s *stubSiteUseCase) ListReviews(ctx context.Context) ([]domain.Review, error) {
	return s.reviews, s.err
}

type testServer struct {
	router   *gin.Engine
	tokens   *auth.JWTManager
	cart     *stubCartUseCase
	orders   *stubOrderUseCase
	products *stubProductUseCase
	users    *stubUserUseCase
	site     *stubSiteUseCase
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	s := &testServer{
		tokens: auth.NewJWTManager(auth.JWTConfig{
			SecretKey:            "handler-secret",
			AccessTokenDuration:  time.Minute,
			RefreshTokenDuration: time.Hour,
			Issuer:               "legerity-test",
		}),
		cart:     &stubCartUseCase{},
		orders:   &stubOrderUseCase{},
		products: &stubProductUseCase{},
		users:    &stubUserUseCase{},
		site:     &stubSiteUseCase{},
	}
	s.router = NewRouter(RouterConfig{AllowOrigins: []string{"*"}, Tokens: s.tokens}, Handlers{
		Auth:    NewAuthHandler(s.users, logger),
		Site:    NewSiteHandler(s.site, logger),
		Product: NewProductHandler(s.products, logger),
		Cart:    NewCartHandler(s.cart, logger),
		Order:   NewOrderHandler(s.orders, logger),
	}, logger)
	return s
}

func (s *testServer) bearer(t *testing.T, userID int64) string {
	t.Helper()
	token, err := s.tokens.GenerateAccessToken(userID)
	require.NoError(t, err)
	return "Bearer " + token
}

func testProduct(id int64, price string, stock int) *domain.Product {
	return &domain.Product{
		ID:       id,
		Info:     "info",
		Price:    decimal.RequireFromString(price),
		Stock:    stock,
		Category: domain.CategoryOil,
	}
}
