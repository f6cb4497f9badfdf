package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/MinhAn2007/fashion-admin-dashboard-sub000/internal/backend"
	"github.com/MinhAn2007/fashion-admin-dashboard-sub000/internal/config"
	"github.com/MinhAn2007/fashion-admin-dashboard-sub000/internal/handlers"
)

func main() {
	// Configure slog to output DEBUG level messages
	// This should be done as early as possible in main
	handlerOpts := &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}
	// Using TextHandler for console readability; for production JSONHandler might be preferred.
	logger := slog.New(slog.NewTextHandler(os.Stdout, handlerOpts))
	slog.SetDefault(logger)

	// 1. Load Configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	// 2. Upstream store client
	store, err := backend.NewClient(backend.Config{
		BaseURL: cfg.StoreURL,
		Token:   cfg.StoreToken,
	})
	if err != nil {
		slog.Error("Failed to initialize store client", "error", err)
		os.Exit(1)
	}

	// 3. Setup Handlers
	orderHandler := &handlers.OrderHandler{Backend: store}
	reportsHandler := &handlers.ReportsHandler{Backend: store}
	liveHandler := &handlers.LiveHandler{
		Backend: store,
		PushURL: cfg.PushURL,
		Token:   cfg.StoreToken,
		Channel: cfg.Push.Channel(),
	}

	// Rate Limiter for mutating actions (1 request per second per client)
	rateLimiter := handlers.NewRateLimiter(1 * time.Second)

	r := chi.NewRouter()
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	r.Route("/api", func(r chi.Router) {
		r.Use(handlers.RequireToken)

		r.Get("/orders/{id}", orderHandler.Show)
		r.Post("/orders/{id}/actions", rateLimiter.Middleware(orderHandler.Act))
		r.Get("/orders/{id}/live", liveHandler.Stream)

		r.Get("/reports/categories", reportsHandler.Categories)
		r.Get("/reports/revenue", reportsHandler.Revenue)
		r.Get("/reports/orders", reportsHandler.Orders)
	})

	// Wrap the router with middleware chain
	// Chain: Logger -> Security Headers -> Mux
	handler := handlers.LoggingMiddleware(
		handlers.SecurityHeadersMiddleware(r),
	)

	// 4. Start Server with Graceful Shutdown
	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: handler,
	}

	// Create a channel to listen for OS signals
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	// Goroutine to start the server
	go func() {
		slog.Info("Server starting", "port", cfg.Port, "store", cfg.StoreURL)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("Server failed to listen and serve", "error", err)
			os.Exit(1)
		}
	}()

	// Block until a signal is received
	<-stop

	slog.Info("Shutting down server gracefully...")

	// Create a deadline to wait for.
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		slog.Error("Server shutdown failed", "error", err)
		os.Exit(1)
	}

	slog.Info("Server exited gracefully.")
}
