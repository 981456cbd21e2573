package telemetry

import (
	"context"
	"errors"
	"time"

	"github.com/agrifarma/backend/internal/domain/commerce"
	"github.com/agrifarma/backend/internal/domain/content"
	"github.com/agrifarma/backend/internal/domain/identity"
	"github.com/agrifarma/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// ErrMeterNil is returned when no meter is supplied.
var ErrMeterNil = errors.New("NewBusinessMetrics: meter cannot be nil")

// Checkout outcomes recorded on agrifarma_checkout_duration_seconds.
const (
	CheckoutOutcomeSuccess = "success"
	CheckoutOutcomeEmpty   = "empty_cart"
	CheckoutOutcomeBusy    = "lock_busy"
	CheckoutOutcomeFailed  = "failed"
)

// BusinessMetrics records marketplace and community activity. It
// subscribes to the event bus for most counters; checkout latency is
// recorded directly by the commerce service.
type BusinessMetrics struct {
	logger *zap.Logger

	registrations      *Counter
	consultantsPending *Counter
	postsCreated       *Counter
	productsListed     *Counter
	ordersPlaced       *Counter
	orderAmountCents   *Counter
	checkoutDuration   *Histogram
}

// NewBusinessMetrics creates the business instruments on meter.
func NewBusinessMetrics(meter metric.Meter, logger *zap.Logger) (*BusinessMetrics, error) {
	if meter == nil {
		return nil, ErrMeterNil
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	bm := &BusinessMetrics{logger: logger}
	counters := []struct {
		target     **Counter
		name, desc string
		unit       string
	}{
		{&bm.registrations, "agrifarma_user_registrations_total", "Users registered", "{users}"},
		{&bm.consultantsPending, "agrifarma_consultant_applications_total", "Consultancy applications submitted", "{applications}"},
		{&bm.postsCreated, "agrifarma_posts_created_total", "Forum and knowledge posts created", "{posts}"},
		{&bm.productsListed, "agrifarma_products_listed_total", "Marketplace products listed", "{products}"},
		{&bm.ordersPlaced, "agrifarma_orders_placed_total", "Orders created by checkout", "{orders}"},
		{&bm.orderAmountCents, "agrifarma_order_amount_cents_total", "Order value in cents", "{cents}"},
	}
	for _, c := range counters {
		counter, err := NewCounter(meter, c.name, c.desc, c.unit)
		if err != nil {
			return nil, err
		}
		*c.target = counter
	}

	var err error
	bm.checkoutDuration, err = NewHistogram(meter, HistogramOpts{
		Name:        "agrifarma_checkout_duration_seconds",
		Description: "Checkout latency including lock wait",
		Unit:        "s",
		Boundaries:  CheckoutDurationBuckets,
	})
	if err != nil {
		return nil, err
	}

	return bm, nil
}

// EventTypes implements shared.EventHandler.
func (bm *BusinessMetrics) EventTypes() []string {
	return []string{
		identity.EventTypeUserRegistered,
		identity.EventTypeConsultantApplied,
		content.EventTypePostCreated,
		commerce.EventTypeProductListed,
		commerce.EventTypeOrderPlaced,
	}
}

// Handle implements shared.EventHandler.
func (bm *BusinessMetrics) Handle(ctx context.Context, event shared.DomainEvent) error {
	switch e := event.(type) {
	case *identity.UserRegisteredEvent:
		bm.registrations.Inc(ctx, AttrRole.String(string(e.Role)))
	case *identity.ConsultantAppliedEvent:
		bm.consultantsPending.Inc(ctx)
	case *content.PostCreatedEvent:
		bm.postsCreated.Inc(ctx, AttrPostType.String(string(e.PostType)), AttrApproved.Bool(e.IsApproved))
	case *commerce.ProductListedEvent:
		bm.productsListed.Inc(ctx, AttrApproved.Bool(e.IsApproved))
	case *commerce.OrderPlacedEvent:
		bm.RecordOrders(ctx, e.Lines, e.Total)
	default:
		bm.logger.Debug("business metrics ignoring event", zap.String("event_type", event.EventType()))
	}
	return nil
}

// RecordOrders adds n orders worth total to the order counters.
func (bm *BusinessMetrics) RecordOrders(ctx context.Context, n int, total decimal.Decimal) {
	bm.ordersPlaced.Add(ctx, int64(n))
	bm.orderAmountCents.Add(ctx, total.Shift(2).Round(0).IntPart())
}

// RecordCheckout records one checkout attempt.
func (bm *BusinessMetrics) RecordCheckout(ctx context.Context, elapsed time.Duration, outcome string) {
	bm.checkoutDuration.RecordDuration(ctx, elapsed, AttrOutcome.String(outcome))
}

var _ shared.EventHandler = (*BusinessMetrics)(nil)
