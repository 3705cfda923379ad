package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/mrops-br/shophub-api/internal/domain"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// CheckoutService turns the current cart into an order. Nothing is charged:
// payment details are only validated for presence.
type CheckoutService struct {
	cart   *CartService
	delay  time.Duration
	now    func() time.Time
	tracer trace.Tracer
	logger *slog.Logger

	orders metric.Int64Counter
}

func NewCheckoutService(
	cart *CartService,
	delay time.Duration,
	tracer trace.Tracer,
	meter metric.Meter,
	logger *slog.Logger,
) *CheckoutService {
	orders, _ := meter.Int64Counter(
		"checkout.orders",
		metric.WithDescription("Checkout attempts by result"),
	)

	return &CheckoutService{
		cart:   cart,
		delay:  delay,
		now:    time.Now,
		tracer: tracer,
		logger: logger,
		orders: orders,
	}
}

// PlaceOrder validates the form, waits out the processing delay and then
// empties the cart into an Order. If ctx is done during the delay the cart
// is left as it was.
func (s *CheckoutService) PlaceOrder(ctx context.Context, shipping domain.ShippingInfo, payment domain.PaymentInfo) (*domain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "CheckoutService.PlaceOrder")
	defer span.End()

	if err := domain.ValidateCheckout(shipping, payment); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Validation failed")
		s.record(ctx, "invalid")
		s.logger.WarnContext(ctx, "Checkout rejected",
			slog.String("error", err.Error()),
		)
		return nil, err
	}

	if s.cart.Snapshot(ctx).TotalItems == 0 {
		span.SetStatus(codes.Error, "Empty cart")
		s.record(ctx, "empty_cart")
		return nil, domain.ErrEmptyCart
	}

	s.logger.InfoContext(ctx, "Processing order",
		slog.Duration("delay", s.delay),
	)

	if s.delay > 0 {
		timer := time.NewTimer(s.delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			span.RecordError(ctx.Err())
			span.SetStatus(codes.Error, "Checkout cancelled")
			s.record(ctx, "cancelled")
			return nil, fmt.Errorf("CheckoutService.PlaceOrder: %w", ctx.Err())
		case <-timer.C:
		}
	}

	// the cart may have been emptied while the order was processing
	snap := s.cart.drain(ctx)
	if snap.TotalItems == 0 {
		span.SetStatus(codes.Error, "Empty cart")
		s.record(ctx, "empty_cart")
		return nil, domain.ErrEmptyCart
	}

	order := &domain.Order{
		ID:        uuid.NewString(),
		Items:     snap.Items,
		ItemCount: snap.TotalItems,
		Subtotal:  snap.TotalPrice,
		Shipping:  shipping,
		PlacedAt:  s.now().UTC(),
	}

	span.SetAttributes(
		attribute.String("order.id", order.ID),
		attribute.Int("order.item_count", order.ItemCount),
		attribute.Float64("order.subtotal", order.Subtotal),
	)

	s.record(ctx, "success")
	s.logger.InfoContext(ctx, "Order placed",
		slog.String("order_id", order.ID),
		slog.Int("item_count", order.ItemCount),
		slog.Float64("subtotal", order.Subtotal),
	)

	span.SetStatus(codes.Ok, "Order placed")
	return order, nil
}

func (s *CheckoutService) record(ctx context.Context, result string) {
	s.orders.Add(ctx, 1,
		metric.WithAttributes(attribute.String("result", result)),
	)
}
