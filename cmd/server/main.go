package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alexedwards/scs/v2"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"

	"github.com/freshkart/storefront-api/internal/catalog"
	"github.com/freshkart/storefront-api/internal/config"
	"github.com/freshkart/storefront-api/internal/handlers"
	"github.com/freshkart/storefront-api/internal/middleware"
	"github.com/freshkart/storefront-api/internal/orders"
	"github.com/freshkart/storefront-api/pkg/logger"
)

func main() {
	// Load .env if present, then configuration from environment
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize structured logger
	log := logger.New(cfg.LogLevel)
	slog.SetDefault(log)

	log.Info("starting storefront api server",
		"port", cfg.Server.Port,
		"host", cfg.Server.Host,
		"log_level", cfg.LogLevel,
	)

	// Initialize the catalog service
	catalogClient := catalog.NewClient(cfg.Catalog.APIURL,
		catalog.WithHTTPClient(&http.Client{
			Timeout: time.Duration(cfg.Catalog.FetchTimeout) * time.Second,
		}),
	)
	catalogService := catalog.NewService(catalogClient,
		catalog.WithCacheTTL(time.Duration(cfg.Catalog.CacheTTLSecs)*time.Second),
	)

	// Warm the catalog. A failure here is not fatal: the first request
	// that needs the catalog retries, and the refresh endpoint allows a
	// manual reload.
	warmCtx, warmCancel := context.WithTimeout(context.Background(), time.Duration(cfg.Catalog.FetchTimeout)*time.Second)
	if _, err := catalogService.InitializeProducts(warmCtx); err != nil {
		log.Warn("catalog warm-up failed, continuing without snapshot", "error", err)
	} else {
		log.Info("catalog loaded", "stats", catalogService.Stats())
	}
	warmCancel()

	// Session manager backs the per-browser carts and receipts
	sessions := scs.New()
	sessions.Lifetime = time.Duration(cfg.Session.LifetimeMins) * time.Minute
	sessions.Cookie.Name = "storefront_session"
	sessions.Cookie.HttpOnly = true
	sessions.Cookie.SameSite = http.SameSiteLaxMode

	// Initialize the order pipeline
	submitClient := orders.NewSubmitClient(cfg.Orders.SubmitURL,
		orders.WithHTTPClient(&http.Client{
			Timeout: time.Duration(cfg.Orders.SubmitTimeout) * time.Second,
		}),
	)
	orderService := orders.NewService(submitClient, cfg.Orders.DeliveryCharge)

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler(catalogService, log)
	productHandler := handlers.NewProductHandler(catalogService, log)
	cartHandler := handlers.NewCartHandler(sessions, catalogService, log)
	orderHandler := handlers.NewOrderHandler(orderService, sessions, log)

	// Create router
	r := chi.NewRouter()

	// Apply middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logger(log))
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(60 * time.Second))

	// CORS configuration. The session cookie only flows cross-origin
	// when the frontend's origin is listed via CORS_ALLOWED_ORIGINS;
	// with the wildcard default, credentials stay off.
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.Server.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token", "api_key"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: cfg.Server.CORSAllowCredentials(),
		MaxAge:           300,
	}))

	// Register health check endpoint
	r.Get("/health", healthHandler.ServeHTTP)

	// API routes
	r.Route("/api", func(r chi.Router) {
		// Product endpoints
		r.Get("/products", productHandler.ListProducts)
		r.Get("/products/featured", productHandler.GetFeatured)
		r.Get("/products/search", productHandler.Search)
		r.Get("/products/category/{category}", productHandler.GetByCategory)
		r.Get("/products/{productId}", productHandler.GetProduct)
		r.Get("/categories", productHandler.GetCategories)

		// Admin-only manual refresh
		r.Group(func(r chi.Router) {
			r.Use(middleware.APIKeyAuth(cfg.Auth))
			r.Post("/catalog/refresh", productHandler.Refresh)
		})

		// Cart and order endpoints need the session
		r.Group(func(r chi.Router) {
			r.Use(sessions.LoadAndSave)

			r.Get("/cart", cartHandler.GetCart)
			r.Post("/cart/items", cartHandler.AddItem)
			r.Patch("/cart/items/{itemId}", cartHandler.UpdateItem)
			r.Delete("/cart/items/{itemId}", cartHandler.RemoveItem)
			r.Delete("/cart", cartHandler.ClearCart)

			r.Post("/orders", orderHandler.CreateOrder)
			r.Get("/orders/last", orderHandler.GetLastOrder)
		})
	})

	// Create HTTP server
	addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Info("server listening", "address", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")

	// Create shutdown context with timeout
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer cancel()

	// Attempt graceful shutdown
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	log.Info("server stopped gracefully")
}
