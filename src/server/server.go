package server

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	logger "github.com/sirupsen/logrus"

	"bluetrade/src/auth"
	"bluetrade/src/handler"
	"bluetrade/src/service"
)

// StartServer wires the services behind the HTTP surface and blocks until
// SIGINT/SIGTERM, then shuts down gracefully.
func StartServer(port string) {
	config := GetConfig()

	tradingService := service.NewTradingService()
	stockService := service.NewStockService(time.Duration(config.QuoteCacheTTLMin) * time.Minute)
	portfolioService := service.NewPortfolioService()
	watchlistService := service.NewWatchlistService()
	authService := service.NewAuthService()

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	// Public routes
	r.Get("/healthcheck", func(w http.ResponseWriter, r *http.Request) {
		if _, err := w.Write([]byte("OK")); err != nil {
			logger.WithError(err).Error("healthcheck write error")
		}
	})

	handler.NewAuthHandler(authService).RegisterRoutes(r)
	handler.NewTradingHandler(tradingService).RegisterRoutes(r)
	handler.NewStockHandler(stockService).RegisterRoutes(r)

	// Routes requiring a bearer token
	r.Group(func(r chi.Router) {
		r.Use(auth.Middleware(authService))
		handler.NewPortfolioHandler(portfolioService).RegisterRoutes(r)
		handler.NewWatchlistHandler(watchlistService).RegisterRoutes(r)
	})

	addr := ":" + port
	srv := &http.Server{
		Addr:    addr,
		Handler: r,
	}

	// Start server in goroutine
	go func() {
		logger.Infof("Listening on %s", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Fatal("Server crashed")
		}
	}()

	// Shutdown on SIGINT or SIGTERM
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	logger.Info("Shutting down gracefully...")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.WithError(err).Error("Shutdown error")
	}
}
