package commerce

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/agrifarma/backend/internal/domain/commerce"
	"github.com/agrifarma/backend/internal/domain/identity"
	"github.com/agrifarma/backend/internal/domain/shared"
	"github.com/agrifarma/backend/internal/infrastructure/logger"
	"github.com/agrifarma/backend/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DefaultCheckoutWait is how long a checkout waits for a concurrent one
const DefaultCheckoutWait = 5 * time.Second

// CheckoutRecorder records checkout latency by outcome
type CheckoutRecorder interface {
	RecordCheckout(ctx context.Context, elapsed time.Duration, outcome string)
}

// CartService handles the cart, checkout and order history
type CartService struct {
	cart     commerce.CartRepository
	products commerce.ProductRepository
	orders   commerce.OrderRepository
	store    commerce.CheckoutStore
	lock     commerce.CheckoutLock
	events   shared.EventPublisher
	metrics  CheckoutRecorder
	wait     time.Duration
	now      func() time.Time
	logger   *zap.Logger
}

// CartServiceOption configures a CartService
type CartServiceOption func(*CartService)

// WithCheckoutWait sets how long Checkout waits for the per-user lock
func WithCheckoutWait(wait time.Duration) CartServiceOption {
	return func(s *CartService) {
		if wait > 0 {
			s.wait = wait
		}
	}
}

// WithCheckoutRecorder records checkout outcomes
func WithCheckoutRecorder(recorder CheckoutRecorder) CartServiceOption {
	return func(s *CartService) {
		s.metrics = recorder
	}
}

// WithClock overrides the order timestamp source
func WithClock(now func() time.Time) CartServiceOption {
	return func(s *CartService) {
		s.now = now
	}
}

// NewCartService creates a new cart service
func NewCartService(
	cart commerce.CartRepository,
	products commerce.ProductRepository,
	orders commerce.OrderRepository,
	store commerce.CheckoutStore,
	lock commerce.CheckoutLock,
	events shared.EventPublisher,
	logger *zap.Logger,
	opts ...CartServiceOption,
) *CartService {
	s := &CartService{
		cart:     cart,
		products: products,
		orders:   orders,
		store:    store,
		lock:     lock,
		events:   events,
		wait:     DefaultCheckoutWait,
		now:      func() time.Time { return time.Now().UTC() },
		logger:   logger.Named("cart"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// AddToCart adds quantity units of an approved product. Repeat adds
// increment the existing line.
func (s *CartService) AddToCart(ctx context.Context, user identity.Actor, productID uuid.UUID, quantity int) (*CartItemView, error) {
	item, err := commerce.NewCartItem(user, productID, quantity)
	if err != nil {
		return nil, err
	}

	product, err := s.products.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if !product.IsApproved {
		return nil, shared.NewNotFoundError("Product")
	}

	saved, err := s.cart.AddQuantity(ctx, item)
	if err != nil {
		return nil, fmt.Errorf("add to cart: %w", err)
	}

	logger.L(ctx).Debug("Added to cart",
		zap.String("product_id", productID.String()),
		zap.Int("quantity", saved.Quantity),
	)
	return &CartItemView{ID: saved.ID, ProductID: saved.ProductID, Quantity: saved.Quantity}, nil
}

// RemoveFromCart deletes one of the user's cart lines
func (s *CartService) RemoveFromCart(ctx context.Context, user identity.Actor, itemID uuid.UUID) error {
	if err := user.RequireAuthenticated(); err != nil {
		return err
	}
	item, err := s.cart.FindByID(ctx, itemID)
	if err != nil {
		return err
	}
	if err := item.CheckOwner(user); err != nil {
		logger.L(ctx).Warn("Attempt to remove another user's cart item", zap.String("cart_item_id", itemID.String()))
		return err
	}
	if err := s.cart.Delete(ctx, item.ID); err != nil {
		return fmt.Errorf("remove from cart: %w", err)
	}
	return nil
}

// ViewCart returns the user's cart priced at current product prices
func (s *CartService) ViewCart(ctx context.Context, user identity.Actor) (*CartView, error) {
	if err := user.RequireAuthenticated(); err != nil {
		return nil, err
	}
	cart, err := s.loadCart(ctx, user.UserID)
	if err != nil {
		return nil, err
	}
	view := ToCartView(cart)
	return &view, nil
}

func (s *CartService) loadCart(ctx context.Context, userID uuid.UUID) (commerce.Cart, error) {
	items, err := s.cart.FindByUser(ctx, userID)
	if err != nil {
		return commerce.Cart{}, fmt.Errorf("load cart: %w", err)
	}
	cart := commerce.Cart{UserID: userID, Lines: make([]commerce.CartLine, 0, len(items))}
	if len(items) == 0 {
		return cart, nil
	}

	ids := make([]uuid.UUID, len(items))
	for i, item := range items {
		ids[i] = item.ProductID
	}
	products, err := s.products.FindByIDs(ctx, ids)
	if err != nil {
		return commerce.Cart{}, fmt.Errorf("load cart products: %w", err)
	}
	byID := make(map[uuid.UUID]commerce.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}
	for _, item := range items {
		if p, ok := byID[item.ProductID]; ok {
			cart.Lines = append(cart.Lines, commerce.CartLine{Item: item, Product: p})
		}
	}
	return cart, nil
}

// Checkout turns the user's cart into orders in one transaction.
// Concurrent checkouts for the same user are serialized; one that cannot
// get the lock in time fails with ErrCheckoutInProgress.
func (s *CartService) Checkout(ctx context.Context, user identity.Actor, shippingAddress string) (*CheckoutResult, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "commerce", "checkout")
	defer span.End()
	started := time.Now()

	if err := user.RequireAuthenticated(); err != nil {
		return nil, err
	}
	shippingAddress = strings.TrimSpace(shippingAddress)
	if shippingAddress == "" {
		return nil, shared.NewValidationError("Shipping address is required")
	}

	release, err := s.lock.Acquire(ctx, user.UserID, s.wait)
	if err != nil {
		if errors.Is(err, commerce.ErrCheckoutInProgress) {
			s.record(ctx, started, telemetry.CheckoutOutcomeBusy)
			logger.L(ctx).Warn("Checkout already in progress")
			return nil, err
		}
		s.record(ctx, started, telemetry.CheckoutOutcomeFailed)
		telemetry.RecordError(span, err)
		return nil, fmt.Errorf("acquire checkout lock: %w", err)
	}
	defer release()

	at := s.now()
	orders, err := s.store.Checkout(ctx, user.UserID, func(cart commerce.Cart) ([]*commerce.Order, error) {
		telemetry.SetAttributes(span, telemetry.SpanAttrCartLines, len(cart.Lines))
		return cart.CheckoutAt(shippingAddress, at)
	})
	if err != nil {
		if errors.Is(err, commerce.ErrEmptyCart) {
			s.record(ctx, started, telemetry.CheckoutOutcomeEmpty)
			return nil, err
		}
		s.record(ctx, started, telemetry.CheckoutOutcomeFailed)
		var domainErr *shared.DomainError
		if errors.As(err, &domainErr) {
			return nil, err
		}
		telemetry.RecordError(span, err)
		return nil, fmt.Errorf("checkout: %w", err)
	}

	total := commerce.SumTotals(orders)
	if s.events != nil {
		publish(ctx, s.events, commerce.NewOrderPlacedEvent(user.UserID, orders))
	}
	s.record(ctx, started, telemetry.CheckoutOutcomeSuccess)

	telemetry.SetAttributes(span, telemetry.SpanAttrOrderCount, len(orders), telemetry.SpanAttrAmount, total.String())
	logger.L(ctx).Info("Checkout completed",
		zap.Int("orders", len(orders)),
		zap.String("total", total.StringFixed(2)),
	)

	result := &CheckoutResult{Orders: make([]OrderView, len(orders)), Total: total}
	for i, o := range orders {
		result.Orders[i] = ToOrderView(o)
	}
	return result, nil
}

// ListOrders returns the user's orders, newest first
func (s *CartService) ListOrders(ctx context.Context, user identity.Actor) ([]OrderView, error) {
	if err := user.RequireAuthenticated(); err != nil {
		return nil, err
	}
	orders, err := s.orders.FindByUser(ctx, user.UserID)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	views := make([]OrderView, len(orders))
	for i := range orders {
		views[i] = ToOrderView(&orders[i])
	}
	return views, nil
}

func (s *CartService) record(ctx context.Context, started time.Time, outcome string) {
	if s.metrics != nil {
		s.metrics.RecordCheckout(ctx, time.Since(started), outcome)
	}
}
