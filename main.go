package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/mrops-br/shophub-api/internal/app/service"
	"github.com/mrops-br/shophub-api/internal/infrastructure/auth"
	"github.com/mrops-br/shophub-api/internal/infrastructure/catalog"
	"github.com/mrops-br/shophub-api/internal/infrastructure/config"
	"github.com/mrops-br/shophub-api/internal/infrastructure/http"
	"github.com/mrops-br/shophub-api/internal/infrastructure/http/handler"
	"github.com/mrops-br/shophub-api/internal/infrastructure/repository/memory"
	"github.com/mrops-br/shophub-api/internal/infrastructure/storage"
	"github.com/mrops-br/shophub-api/internal/infrastructure/telemetry"
	"github.com/mrops-br/shophub-api/pkg/closer"
)

func main() {
	cfg, err := config.LoadConfig(os.Args[1:])
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	telem, err := telemetry.NewTelemetry(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize telemetry: %v", err)
	}

	closers := closer.New(0)
	closers.Add("telemetry", telem.Shutdown)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	tracer := telem.TracerProvider.Tracer("shophub-api")
	meter := telem.MeterProvider.Meter("shophub-api")
	logger := telem.Logger

	logger.Info("Starting ShopHub API", "config", cfg.String())

	store, err := storage.New(&cfg.Storage)
	if err != nil {
		logger.Error("Failed to open storage", "error", err.Error())
		_ = closers.Close(context.Background())
		os.Exit(1)
	}
	closers.Add("storage", func(context.Context) error { return store.Close() })

	source := catalog.NewHTTPSource(&cfg.Catalog, tracer, logger)
	localProducts := memory.NewProductRepository(tracer, logger)

	catalogService := service.NewCatalogService(source, localProducts, cfg.Catalog.DefaultMaxPrice, tracer, meter, logger)
	cartService := service.NewCartService(store, cfg.Storage.CartKey, tracer, meter, logger)
	authService := service.NewAuthService(auth.NewStaticVerifier(&cfg.Auth), store, cfg.Storage.SessionKey, tracer, meter, logger)
	checkoutService := service.NewCheckoutService(cartService, cfg.Checkout.Delay, tracer, meter, logger)

	// Rehydrate persisted state before serving so the first request sees it
	cartService.Load(ctx)
	authService.IsAuthenticated(ctx)

	// One fetch at startup; failures stay visible on GET /api/v1/catalog
	go func() {
		_ = catalogService.FetchProducts(ctx)
	}()

	server := http.NewServer(
		&cfg.Server,
		http.Handlers{
			Products: handler.NewProductHandler(catalogService, logger),
			Catalog:  handler.NewCatalogHandler(catalogService, logger),
			Cart:     handler.NewCartHandler(cartService, catalogService, logger),
			Auth:     handler.NewAuthHandler(authService, logger),
			Checkout: handler.NewCheckoutHandler(checkoutService, logger),
		},
		authService,
		logger,
		telem,
	)
	closers.Add("http", server.Stop)

	go func() {
		if err := server.Start(); err != nil {
			logger.Error("Server error", "error", err.Error())
			cancel()
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-quit:
		logger.Info("Shutting down server...")
	case <-ctx.Done():
		logger.Info("Context cancelled, shutting down...")
	}
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := closers.Close(shutdownCtx); err != nil {
		log.Printf("Shutdown finished with errors: %v", err)
	}

	logger.Info("Server stopped")
}
