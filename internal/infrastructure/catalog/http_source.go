// Package catalog reads the product list from the remote catalog API.
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/mrops-br/shophub-api/internal/domain"
	"github.com/mrops-br/shophub-api/internal/infrastructure/config"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var _ domain.CatalogSource = (*HTTPSource)(nil)

// HTTPSource fetches products with a single unauthenticated GET
type HTTPSource struct {
	client *http.Client
	url    string
	tracer trace.Tracer
	logger *slog.Logger
}

// NewHTTPSource creates a source for cfg.URL. The client transport is
// instrumented so outgoing requests join the caller's trace.
func NewHTTPSource(cfg *config.CatalogConfig, tracer trace.Tracer, logger *slog.Logger) *HTTPSource {
	return &HTTPSource{
		client: &http.Client{
			Transport: otelhttp.NewTransport(http.DefaultTransport),
			Timeout:   cfg.Timeout,
		},
		url:    cfg.URL,
		tracer: tracer,
		logger: logger,
	}
}

// FetchProducts reads the whole catalog. Any non-2xx status is a failure.
func (s *HTTPSource) FetchProducts(ctx context.Context) ([]domain.Product, error) {
	ctx, span := s.tracer.Start(ctx, "HTTPSource.FetchProducts")
	defer span.End()

	span.SetAttributes(attribute.String("catalog.url", s.url))

	products, err := s.fetch(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Catalog fetch failed")
		s.logger.WarnContext(ctx, "Catalog fetch failed",
			slog.String("url", s.url),
			slog.String("error", err.Error()),
		)
		return nil, err
	}

	span.SetAttributes(attribute.Int("product.count", len(products)))
	span.SetStatus(codes.Ok, "Catalog fetched")
	return products, nil
}

func (s *HTTPSource) fetch(ctx context.Context) ([]domain.Product, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build catalog request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch products: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("failed to fetch products: unexpected status %d", resp.StatusCode)
	}

	var products []domain.Product
	if err := json.NewDecoder(resp.Body).Decode(&products); err != nil {
		return nil, fmt.Errorf("failed to decode products: %w", err)
	}
	if products == nil {
		return nil, fmt.Errorf("failed to decode products: payload is not an array")
	}

	return products, nil
}
