package catalog

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/mrops-br/shophub-api/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace/noop"
)

const fakeStoreBody = `[
  {"id":1,"title":"Fjallraven - Foldsack No. 1 Backpack","price":109.95,"description":"Your perfect pack","category":"men's clothing","image":"https://fakestoreapi.com/img/81fPKd-2AYL._AC_SL1500_.jpg","rating":{"rate":3.9,"count":120}},
  {"id":2,"title":"Mens Casual Premium Slim Fit T-Shirts","price":22.3,"description":"Slim-fitting style","category":"men's clothing","image":"https://fakestoreapi.com/img/71-3HjGNDUL._AC_SY879._SX._UX._SY._UY_.jpg","rating":{"rate":4.1,"count":259}}
]`

func newTestSource(url string) *HTTPSource {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewHTTPSource(&config.CatalogConfig{URL: url}, noop.NewTracerProvider().Tracer("test"), logger)
}

func TestHTTPSource_FetchProducts(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/products", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, fakeStoreBody)
	}))
	defer srv.Close()

	products, err := newTestSource(srv.URL + "/products").FetchProducts(context.Background())
	require.NoError(t, err)

	require.Len(t, products, 2)
	assert.Equal(t, int64(1), products[0].ID)
	assert.Equal(t, 109.95, products[0].Price)
	assert.Equal(t, "men's clothing", products[0].Category)
	assert.Equal(t, 3.9, products[0].Rating.Rate)
	assert.Equal(t, 259, products[1].Rating.Count)
}

func TestHTTPSource_FetchProductsFailures(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr string
	}{
		{"server error", http.StatusInternalServerError, `{"error":"boom"}`, "unexpected status 500"},
		{"not found", http.StatusNotFound, ``, "unexpected status 404"},
		{"malformed json", http.StatusOK, `[{"id":`, "failed to decode products"},
		{"object payload", http.StatusOK, `{"id":1}`, "failed to decode products"},
		{"null payload", http.StatusOK, `null`, "payload is not an array"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, tt.body)
			}))
			defer srv.Close()

			_, err := newTestSource(srv.URL).FetchProducts(context.Background())
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestHTTPSource_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := newTestSource(url).FetchProducts(context.Background())
	assert.ErrorContains(t, err, "failed to fetch products")
}
