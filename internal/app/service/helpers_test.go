package service

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"github.com/mrops-br/shophub-api/internal/domain"
	"github.com/mrops-br/shophub-api/internal/infrastructure/repository/memory"
	"github.com/mrops-br/shophub-api/internal/infrastructure/storage"
	metricnoop "go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"
)

var errStoreDown = errors.New("store unavailable")

func testTracer() trace.Tracer {
	return tracenoop.NewTracerProvider().Tracer("test")
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestCart(store domain.KeyValueStore) *CartService {
	return NewCartService(store, "shopHub-cart", testTracer(), metricnoop.NewMeterProvider().Meter("test"), testLogger())
}

func newTestCatalog(source domain.CatalogSource) *CatalogService {
	local := memory.NewProductRepository(testTracer(), testLogger())
	return NewCatalogService(source, local, 1000, testTracer(), metricnoop.NewMeterProvider().Meter("test"), testLogger())
}

func newMemoryStore() domain.KeyValueStore {
	return storage.NewMemoryStore()
}

func product(id int64, price float64) domain.Product {
	return domain.Product{ID: id, Title: "Product", Price: price, Category: "misc"}
}

// failingStore reads from an inner store but refuses every write
type failingStore struct {
	domain.KeyValueStore
	writes int
}

func (s *failingStore) Set(context.Context, string, string) error {
	s.writes++
	return errStoreDown
}

func (s *failingStore) Delete(context.Context, string) error {
	s.writes++
	return errStoreDown
}

// brokenStore fails every call
type brokenStore struct{}

func (brokenStore) Get(context.Context, string) (string, error) { return "", errStoreDown }
func (brokenStore) Set(context.Context, string, string) error   { return errStoreDown }
func (brokenStore) Delete(context.Context, string) error        { return errStoreDown }
func (brokenStore) Close() error                                { return nil }

// stubSource serves a fixed product list or error
type stubSource struct {
	products []domain.Product
	err      error
	calls    int
}

func (s *stubSource) FetchProducts(context.Context) ([]domain.Product, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.products, nil
}

func ptr[T any](v T) *T { return &v }
