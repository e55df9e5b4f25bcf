package routes

import (
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/akaibo/orderbook/internal/api/handlers"
	"github.com/akaibo/orderbook/internal/api/middleware"
)

// SetupRoutes configures all API routes with middleware
func SetupRoutes(engineHolder *handlers.EngineHolder, log *zap.Logger) http.Handler {
	r := mux.NewRouter()

	api := r.PathPrefix("/api/v1").Subrouter()

	// Health check
	api.HandleFunc("/health", handlers.HealthHandler).Methods(http.MethodGet)

	// Order submission
	api.HandleFunc("/orders/limit", engineHolder.SubmitLimitOrderHandler).Methods(http.MethodPost)

	// Per-pair read side
	api.HandleFunc("/{pair}/orderbook", engineHolder.GetOrderBookHandler).Methods(http.MethodGet)
	api.HandleFunc("/{pair}/tradehistory", engineHolder.GetTradeHistoryHandler).Methods(http.MethodGet)

	// Middleware order matters: Recovery wraps everything, Logging sees the
	// final status code.
	r.Use(middleware.Recovery(log))
	r.Use(middleware.Logging(log))

	return r
}
