package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/mrops-br/shophub-api/internal/domain"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// CartSnapshot is a consistent view of the cart taken under one lock
type CartSnapshot struct {
	Items      []domain.CartEntry
	TotalItems int
	TotalPrice float64
}

// CartService owns the in-memory cart and mirrors it to durable storage after
// every mutation. The stored value is loaded lazily by the first operation and
// nothing is written before that load, so an empty cart never overwrites a
// stored one.
type CartService struct {
	mu     sync.Mutex
	cart   *domain.Cart
	loaded bool

	store  domain.KeyValueStore
	key    string
	tracer trace.Tracer
	logger *slog.Logger

	cartOperations  metric.Int64Counter
	persistFailures metric.Int64Counter
}

// NewCartService creates a cart bound to key in store
func NewCartService(
	store domain.KeyValueStore,
	key string,
	tracer trace.Tracer,
	meter metric.Meter,
	logger *slog.Logger,
) *CartService {
	cartOperations, _ := meter.Int64Counter(
		"cart.operations",
		metric.WithDescription("Total number of cart operations"),
	)

	persistFailures, _ := meter.Int64Counter(
		"cart.persist.failures",
		metric.WithDescription("Cart writes to durable storage that failed and were dropped"),
	)

	return &CartService{
		cart:            domain.NewCart(nil),
		store:           store,
		key:             key,
		tracer:          tracer,
		logger:          logger,
		cartOperations:  cartOperations,
		persistFailures: persistFailures,
	}
}

// Load rehydrates the cart from storage if that has not happened yet
func (s *CartService) Load(ctx context.Context) {
	ctx, span := s.tracer.Start(ctx, "CartService.Load")
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.ensureLoaded(ctx)
}

// AddToCart merges quantity units of product into the cart. A non-positive
// quantity is rejected with ErrInvalidQuantity, and one that would take the
// entry past domain.MaxQuantity with ErrQuantityLimit. Either way the cart is
// left untouched.
func (s *CartService) AddToCart(ctx context.Context, product domain.Product, quantity int) (CartSnapshot, error) {
	ctx, span := s.tracer.Start(ctx, "CartService.AddToCart")
	defer span.End()

	span.SetAttributes(
		attribute.Int64("product.id", product.ID),
		attribute.Int("cart.quantity", quantity),
	)

	if quantity <= 0 {
		span.SetStatus(codes.Error, "Invalid quantity")
		s.record(ctx, "add", "invalid")
		return CartSnapshot{}, domain.ErrInvalidQuantity
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.ensureLoaded(ctx)
	if !s.cart.Add(product, quantity) {
		span.SetStatus(codes.Error, "Quantity limit exceeded")
		s.record(ctx, "add", "invalid")
		s.logger.WarnContext(ctx, "Cart quantity limit exceeded",
			slog.Int64("product_id", product.ID),
			slog.Int("quantity", quantity),
		)
		return CartSnapshot{}, domain.ErrQuantityLimit
	}
	s.persist(ctx)

	s.logger.InfoContext(ctx, "Product added to cart",
		slog.Int64("product_id", product.ID),
		slog.Int("quantity", quantity),
		slog.Int("total_items", s.cart.TotalItems()),
	)

	s.record(ctx, "add", "success")
	span.SetStatus(codes.Ok, "Product added to cart")
	return s.snapshot(), nil
}

// RemoveFromCart deletes the entry for productID. Unknown ids are a no-op.
func (s *CartService) RemoveFromCart(ctx context.Context, productID int64) CartSnapshot {
	ctx, span := s.tracer.Start(ctx, "CartService.RemoveFromCart")
	defer span.End()

	span.SetAttributes(attribute.Int64("product.id", productID))

	s.mu.Lock()
	defer s.mu.Unlock()

	s.ensureLoaded(ctx)
	removed := s.cart.Remove(productID)
	s.persist(ctx)

	s.logger.InfoContext(ctx, "Remove from cart",
		slog.Int64("product_id", productID),
		slog.Bool("removed", removed),
	)

	s.record(ctx, "remove", resultOf(removed))
	return s.snapshot()
}

// UpdateQuantity sets the absolute quantity of an entry, capped at
// domain.MaxQuantity; quantity <= 0 removes it. Unknown ids are a no-op.
func (s *CartService) UpdateQuantity(ctx context.Context, productID int64, quantity int) CartSnapshot {
	ctx, span := s.tracer.Start(ctx, "CartService.UpdateQuantity")
	defer span.End()

	span.SetAttributes(
		attribute.Int64("product.id", productID),
		attribute.Int("cart.quantity", quantity),
	)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.ensureLoaded(ctx)
	changed := s.cart.UpdateQuantity(productID, quantity)
	s.persist(ctx)

	s.logger.InfoContext(ctx, "Cart quantity updated",
		slog.Int64("product_id", productID),
		slog.Int("quantity", quantity),
		slog.Bool("changed", changed),
	)

	s.record(ctx, "update_quantity", resultOf(changed))
	return s.snapshot()
}

// ClearCart empties the cart unconditionally
func (s *CartService) ClearCart(ctx context.Context) {
	ctx, span := s.tracer.Start(ctx, "CartService.ClearCart")
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.ensureLoaded(ctx)
	s.cart.Clear()
	s.persist(ctx)

	s.logger.InfoContext(ctx, "Cart cleared")
	s.record(ctx, "clear", "success")
}

// Snapshot returns entries and totals together
func (s *CartService) Snapshot(ctx context.Context) CartSnapshot {
	ctx, span := s.tracer.Start(ctx, "CartService.Snapshot")
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.ensureLoaded(ctx)
	return s.snapshot()
}

// Items returns the entries in insertion order
func (s *CartService) Items(ctx context.Context) []domain.CartEntry {
	return s.Snapshot(ctx).Items
}

// TotalItems is the sum of quantities across all entries
func (s *CartService) TotalItems(ctx context.Context) int {
	return s.Snapshot(ctx).TotalItems
}

// TotalPrice is the unrounded subtotal of the cart
func (s *CartService) TotalPrice(ctx context.Context) float64 {
	return s.Snapshot(ctx).TotalPrice
}

// drain clears the cart and returns what it held, as one step
func (s *CartService) drain(ctx context.Context) CartSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.ensureLoaded(ctx)
	snap := s.snapshot()
	s.cart.Clear()
	s.persist(ctx)
	s.record(ctx, "clear", "success")
	return snap
}

func (s *CartService) snapshot() CartSnapshot {
	return CartSnapshot{
		Items:      s.cart.Entries(),
		TotalItems: s.cart.TotalItems(),
		TotalPrice: s.cart.TotalPrice(),
	}
}

// ensureLoaded must be called with mu held
func (s *CartService) ensureLoaded(ctx context.Context) {
	if s.loaded {
		return
	}
	s.loaded = true
	s.cart = domain.NewCart(s.readStored(ctx))
}

// readStored never fails: a missing key, a read error or a malformed payload
// all yield an empty cart.
func (s *CartService) readStored(ctx context.Context) []domain.CartEntry {
	raw, err := s.store.Get(ctx, s.key)
	if errors.Is(err, domain.ErrKeyNotFound) {
		s.logger.DebugContext(ctx, "No stored cart, starting empty")
		return nil
	}
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to read stored cart",
			slog.String("key", s.key),
			slog.String("error", err.Error()),
		)
		return nil
	}

	entries, err := decodeEntries(raw)
	if err != nil {
		s.logger.WarnContext(ctx, "Discarding malformed stored cart",
			slog.String("key", s.key),
			slog.String("error", err.Error()),
		)
		return nil
	}

	s.logger.InfoContext(ctx, "Cart restored from storage",
		slog.Int("entries", len(entries)),
	)
	return entries
}

// persist writes the full entry list. Failures are logged and swallowed so
// the in-memory mutation always stands.
func (s *CartService) persist(ctx context.Context) {
	data, err := json.Marshal(s.cart.Entries())
	if err == nil {
		err = s.store.Set(ctx, s.key, string(data))
	}
	if err != nil {
		trace.SpanFromContext(ctx).RecordError(err)
		s.persistFailures.Add(ctx, 1)
		s.logger.WarnContext(ctx, "Failed to persist cart",
			slog.String("key", s.key),
			slog.String("error", err.Error()),
		)
	}
}

func (s *CartService) record(ctx context.Context, operation, result string) {
	s.cartOperations.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("operation", operation),
			attribute.String("result", result),
		),
	)
}

func decodeEntries(raw string) ([]domain.CartEntry, error) {
	var entries []domain.CartEntry
	if err := json.Unmarshal([]byte(raw), &entries); err != nil {
		return nil, fmt.Errorf("stored cart is not an array of entries: %w", err)
	}
	return entries, nil
}

func resultOf(changed bool) string {
	if changed {
		return "success"
	}
	return "noop"
}
