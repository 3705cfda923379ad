package http

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/mrops-br/shophub-api/internal/infrastructure/config"
	"github.com/mrops-br/shophub-api/internal/infrastructure/http/handler"
	"github.com/mrops-br/shophub-api/internal/infrastructure/http/middleware"
	"github.com/mrops-br/shophub-api/internal/infrastructure/telemetry"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/attribute"
)

// Handlers groups the route handlers the server mounts
type Handlers struct {
	Products *handler.ProductHandler
	Catalog  *handler.CatalogHandler
	Cart     *handler.CartHandler
	Auth     *handler.AuthHandler
	Checkout *handler.CheckoutHandler
}

// Server represents the HTTP server
type Server struct {
	router    *chi.Mux
	config    *config.ServerConfig
	handlers  Handlers
	sessions  middleware.SessionSource
	logger    *slog.Logger
	telemetry *telemetry.Telemetry
	srv       *http.Server
}

// NewServer creates a new HTTP server
func NewServer(
	cfg *config.ServerConfig,
	handlers Handlers,
	sessions middleware.SessionSource,
	logger *slog.Logger,
	telem *telemetry.Telemetry,
) *Server {
	s := &Server{
		router:    chi.NewRouter(),
		config:    cfg,
		handlers:  handlers,
		sessions:  sessions,
		logger:    logger,
		telemetry: telem,
	}

	s.setupMiddleware()
	s.setupRoutes()

	s.srv = &http.Server{
		Addr:         cfg.Addr(),
		Handler:      s.Handler(),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return s
}

// setupMiddleware configures the middleware chain
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.StructuredLogger(s.logger))
	s.router.Use(chimiddleware.Recoverer)
	s.router.Use(chimiddleware.RequestID)

	s.router.Use(middleware.HTTPRouteContext())

	meter := s.telemetry.MeterProvider.Meter("shophub-api")
	s.router.Use(middleware.ActiveRequestsMiddleware(meter))
	s.router.Use(middleware.DurationMillisecondsMiddleware(meter))
}

// setupRoutes configures the API routes
func (s *Server) setupRoutes() {
	requireSession := middleware.RequireSession(s.sessions, s.logger)

	s.router.Route("/api/v1", func(r chi.Router) {
		r.Route("/products", func(r chi.Router) {
			r.Get("/", s.handlers.Products.ListProducts)
			r.Get("/{id}", s.handlers.Products.GetProduct)
		})
		r.Get("/categories", s.handlers.Products.ListCategories)

		r.Route("/catalog", func(r chi.Router) {
			r.Get("/", s.handlers.Catalog.GetState)
			r.Post("/refresh", s.handlers.Catalog.Refresh)
			r.Put("/search", s.handlers.Catalog.SetSearch)
			r.Patch("/filters", s.handlers.Catalog.UpdateFilters)
			r.Delete("/filters", s.handlers.Catalog.ClearFilters)
		})

		r.Route("/local-products", func(r chi.Router) {
			r.Get("/", s.handlers.Products.ListLocalProducts)
			r.Group(func(r chi.Router) {
				r.Use(requireSession)
				r.Post("/", s.handlers.Products.CreateLocalProduct)
				r.Put("/{id}", s.handlers.Products.UpdateLocalProduct)
				r.Delete("/{id}", s.handlers.Products.DeleteLocalProduct)
			})
		})

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", s.handlers.Cart.GetCart)
			r.Delete("/", s.handlers.Cart.ClearCart)
			r.Post("/items", s.handlers.Cart.AddItem)
			r.Patch("/items/{id}", s.handlers.Cart.UpdateItem)
			r.Delete("/items/{id}", s.handlers.Cart.RemoveItem)
		})

		r.Route("/auth", func(r chi.Router) {
			r.Post("/login", s.handlers.Auth.Login)
			r.Post("/logout", s.handlers.Auth.Logout)
			r.Get("/me", s.handlers.Auth.Me)
		})

		r.Post("/checkout", s.handlers.Checkout.PlaceOrder)
	})

	s.router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	// Prometheus metrics endpoint, fed by the OpenTelemetry prometheus reader
	s.router.Get("/metrics", s.telemetry.MetricsHandler().ServeHTTP)
}

// Handler returns the router wrapped with otelhttp for request spans and
// the standard http.server.* metrics
func (s *Server) Handler() http.Handler {
	return otelhttp.NewHandler(s.router, "http-server",
		otelhttp.WithSpanNameFormatter(func(operation string, r *http.Request) string {
			return fmt.Sprintf("%s %s", r.Method, r.URL.Path)
		}),
		otelhttp.WithTracerProvider(s.telemetry.TracerProvider),
		otelhttp.WithMeterProvider(s.telemetry.MeterProvider),
		otelhttp.WithMetricAttributesFn(func(r *http.Request) []attribute.KeyValue {
			return []attribute.KeyValue{
				attribute.String("http.route", middleware.RoutePattern(r)),
			}
		}),
	)
}

// Start blocks serving HTTP until Stop is called
func (s *Server) Start() error {
	s.logger.Info("Starting HTTP server",
		slog.String("address", s.srv.Addr),
	)

	if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http server: %w", err)
	}
	return nil
}

// Stop drains in-flight requests and shuts the listener down
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("Stopping HTTP server")
	return s.srv.Shutdown(ctx)
}
