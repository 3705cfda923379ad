package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/mrops-br/shophub-api/internal/domain"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// CatalogState is what the product listing view renders
type CatalogState struct {
	Products          []domain.Product
	Loading           bool
	Error             string
	SearchQuery       string
	Filters           domain.FilterCriteria
	Categories        []string
	IsAnyFilterActive bool
}

// CatalogService holds the fetched catalog together with the active search
// text and filter criteria, and derives the visible product list from them.
type CatalogService struct {
	mu       sync.RWMutex
	products []domain.Product
	loading  bool
	fetchErr string
	query    string
	filters  domain.FilterCriteria
	defaults domain.FilterCriteria

	idMu   sync.Mutex
	lastID int64
	now    func() time.Time

	source domain.CatalogSource
	local  domain.LocalProductRepository
	tracer trace.Tracer
	logger *slog.Logger

	catalogOperations metric.Int64Counter
	fetchFailures     metric.Int64Counter
}

// NewCatalogService creates an empty catalog. Call FetchProducts to populate it.
func NewCatalogService(
	source domain.CatalogSource,
	local domain.LocalProductRepository,
	defaultMaxPrice float64,
	tracer trace.Tracer,
	meter metric.Meter,
	logger *slog.Logger,
) *CatalogService {
	catalogOperations, _ := meter.Int64Counter(
		"catalog.operations",
		metric.WithDescription("Total number of catalog operations"),
	)

	fetchFailures, _ := meter.Int64Counter(
		"catalog.fetch.failures",
		metric.WithDescription("Remote catalog reads that failed"),
	)

	defaults := domain.DefaultFilterCriteria(defaultMaxPrice)

	return &CatalogService{
		filters:           defaults,
		defaults:          defaults,
		now:               time.Now,
		source:            source,
		local:             local,
		tracer:            tracer,
		logger:            logger,
		catalogOperations: catalogOperations,
		fetchFailures:     fetchFailures,
	}
}

// FetchProducts reads the remote catalog once. On success the product list is
// replaced; on failure the previous list stays and the error message is kept
// in the catalog state. There is no retry.
func (s *CatalogService) FetchProducts(ctx context.Context) error {
	ctx, span := s.tracer.Start(ctx, "CatalogService.FetchProducts")
	defer span.End()

	s.mu.Lock()
	s.loading = true
	s.fetchErr = ""
	s.mu.Unlock()

	s.logger.InfoContext(ctx, "Fetching catalog")

	products, err := s.source.FetchProducts(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false

	if err != nil {
		s.fetchErr = err.Error()
		span.RecordError(err)
		span.SetStatus(codes.Error, "Catalog fetch failed")
		s.fetchFailures.Add(ctx, 1)
		s.record(ctx, "fetch", "failure")
		s.logger.ErrorContext(ctx, "Failed to fetch catalog",
			slog.String("error", err.Error()),
			slog.Int("kept_products", len(s.products)),
		)
		return fmt.Errorf("CatalogService.FetchProducts: %w", err)
	}

	s.products = products
	span.SetAttributes(attribute.Int("product.count", len(products)))
	s.record(ctx, "fetch", "success")
	s.logger.InfoContext(ctx, "Catalog fetched",
		slog.Int("count", len(products)),
	)

	span.SetStatus(codes.Ok, "Catalog fetched")
	return nil
}

// SetSearchQuery replaces the active search text
func (s *CatalogService) SetSearchQuery(ctx context.Context, query string) {
	s.mu.Lock()
	s.query = query
	s.mu.Unlock()

	s.logger.DebugContext(ctx, "Search query set", slog.String("query", query))
	s.record(ctx, "search", "success")
}

func (s *CatalogService) SearchQuery() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.query
}

// UpdateFilters merges patch into the current criteria
func (s *CatalogService) UpdateFilters(ctx context.Context, patch domain.FilterPatch) domain.FilterCriteria {
	s.mu.Lock()
	s.filters = s.filters.Merge(patch)
	filters := s.filters
	s.mu.Unlock()

	s.logger.DebugContext(ctx, "Filters updated",
		slog.String("category", filters.Category),
		slog.Float64("min_price", filters.MinPrice),
		slog.Float64("max_price", filters.MaxPrice),
		slog.Float64("min_rating", filters.MinRating),
	)
	s.record(ctx, "update_filters", "success")
	return filters
}

// ClearFilters resets the criteria to defaults. The search text is kept.
func (s *CatalogService) ClearFilters(ctx context.Context) domain.FilterCriteria {
	s.mu.Lock()
	s.filters = s.defaults
	s.mu.Unlock()

	s.record(ctx, "clear_filters", "success")
	return s.defaults
}

func (s *CatalogService) Filters() domain.FilterCriteria {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.filters
}

// VisibleProducts is the fetched list narrowed by search and filters, in fetch order
func (s *CatalogService) VisibleProducts() []domain.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return domain.VisibleProducts(s.products, s.query, s.filters)
}

// Categories lists "all" followed by the distinct categories of the full catalog
func (s *CatalogService) Categories() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return domain.Categories(s.products)
}

// State returns the full catalog view state
func (s *CatalogService) State() CatalogState {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return CatalogState{
		Products:          domain.VisibleProducts(s.products, s.query, s.filters),
		Loading:           s.loading,
		Error:             s.fetchErr,
		SearchQuery:       s.query,
		Filters:           s.filters,
		Categories:        domain.Categories(s.products),
		IsAnyFilterActive: s.filters.IsActive(s.defaults),
	}
}

// FindProduct looks a product up in the fetched catalog, then among local products
func (s *CatalogService) FindProduct(ctx context.Context, id int64) (domain.Product, error) {
	ctx, span := s.tracer.Start(ctx, "CatalogService.FindProduct")
	defer span.End()

	span.SetAttributes(attribute.Int64("product.id", id))

	s.mu.RLock()
	for _, p := range s.products {
		if p.ID == id {
			s.mu.RUnlock()
			span.SetStatus(codes.Ok, "Product found")
			return p, nil
		}
	}
	s.mu.RUnlock()

	p, err := s.local.FindByID(ctx, id)
	if err != nil {
		span.SetStatus(codes.Error, "Product not found")
		s.logger.WarnContext(ctx, "Product not found", slog.Int64("product_id", id))
		s.record(ctx, "read", "not_found")
		return domain.Product{}, err
	}

	span.SetStatus(codes.Ok, "Product found")
	return *p, nil
}

// AddProduct stores a locally created product under a timestamp-based id
func (s *CatalogService) AddProduct(ctx context.Context, draft domain.Product) (domain.Product, error) {
	ctx, span := s.tracer.Start(ctx, "CatalogService.AddProduct")
	defer span.End()

	if err := draft.Validate(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Validation failed")
		s.record(ctx, "create", "failure")
		return domain.Product{}, err
	}

	draft.ID = s.nextLocalID()
	span.SetAttributes(attribute.Int64("product.id", draft.ID))

	if err := s.local.Create(ctx, &draft); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to store product")
		s.record(ctx, "create", "failure")
		return domain.Product{}, fmt.Errorf("CatalogService.AddProduct: %w", err)
	}

	s.record(ctx, "create", "success")
	span.SetStatus(codes.Ok, "Product created successfully")
	return draft, nil
}

// UpdateProduct merges patch into a local product
func (s *CatalogService) UpdateProduct(ctx context.Context, id int64, patch domain.ProductPatch) (domain.Product, error) {
	ctx, span := s.tracer.Start(ctx, "CatalogService.UpdateProduct")
	defer span.End()

	span.SetAttributes(attribute.Int64("product.id", id))

	current, err := s.local.FindByID(ctx, id)
	if err != nil {
		span.SetStatus(codes.Error, "Product not found")
		s.record(ctx, "update", "not_found")
		return domain.Product{}, err
	}

	updated := current.Apply(patch)
	if err := updated.Validate(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Validation failed")
		s.record(ctx, "update", "failure")
		return domain.Product{}, err
	}

	if err := s.local.Update(ctx, &updated); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to update product")
		s.record(ctx, "update", "failure")
		return domain.Product{}, err
	}

	s.record(ctx, "update", "success")
	span.SetStatus(codes.Ok, "Product updated successfully")
	return updated, nil
}

// DeleteProduct removes a local product
func (s *CatalogService) DeleteProduct(ctx context.Context, id int64) error {
	ctx, span := s.tracer.Start(ctx, "CatalogService.DeleteProduct")
	defer span.End()

	span.SetAttributes(attribute.Int64("product.id", id))

	if err := s.local.Delete(ctx, id); err != nil {
		span.SetStatus(codes.Error, "Failed to delete product")
		if errors.Is(err, domain.ErrProductNotFound) {
			s.record(ctx, "delete", "not_found")
		} else {
			s.record(ctx, "delete", "failure")
		}
		return err
	}

	s.record(ctx, "delete", "success")
	span.SetStatus(codes.Ok, "Product deleted successfully")
	return nil
}

// LocalProducts lists the locally managed products in creation order
func (s *CatalogService) LocalProducts(ctx context.Context) ([]domain.Product, error) {
	ctx, span := s.tracer.Start(ctx, "CatalogService.LocalProducts")
	defer span.End()

	found, err := s.local.FindAll(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to list local products")
		return nil, fmt.Errorf("CatalogService.LocalProducts: %w", err)
	}

	products := make([]domain.Product, 0, len(found))
	for _, p := range found {
		products = append(products, *p)
	}

	span.SetAttributes(attribute.Int("product.count", len(products)))
	return products, nil
}

// nextLocalID is the current unix millisecond, bumped past the last issued
// id when two products are created within the same millisecond
func (s *CatalogService) nextLocalID() int64 {
	s.idMu.Lock()
	defer s.idMu.Unlock()

	id := s.now().UnixMilli()
	if id <= s.lastID {
		id = s.lastID + 1
	}
	s.lastID = id
	return id
}

func (s *CatalogService) record(ctx context.Context, operation, result string) {
	s.catalogOperations.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("operation", operation),
			attribute.String("result", result),
		),
	)
}
