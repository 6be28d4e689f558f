package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/teamfortytwo/atlas/internal/server/handler"
	"github.com/teamfortytwo/atlas/internal/server/middleware"
	"github.com/teamfortytwo/atlas/internal/server/ws"
)

// Config holds the HTTP server configuration.
type Config struct {
	Port        int
	CORSOrigins []string
	APIKey      string // if empty, authentication is disabled
}

// Handlers aggregates all HTTP handlers that the server needs to register.
type Handlers struct {
	Health   *handler.HealthHandler
	Listings *handler.ListingHandler
	Orders   *handler.OrderHandler
	History  *handler.HistoryHandler
	Users    *handler.UserHandler
	Prices   *handler.PriceHandler
}

// Server is the HTTP + WebSocket API for the marketplace engine.
type Server struct {
	httpServer *http.Server
	mux        *http.ServeMux
	logger     *slog.Logger
}

// NewServer creates a Server with all routes registered on the ServeMux and
// the middleware chain (logging, CORS, auth) applied.
func NewServer(cfg Config, handlers Handlers, wsHub *ws.Hub, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	// Health check.
	mux.HandleFunc("GET /api/health", handlers.Health.HealthCheck)

	// Listing endpoints.
	mux.HandleFunc("GET /api/listings", handlers.Listings.ListListings)
	mux.HandleFunc("POST /api/listings", handlers.Listings.CreateListing)
	mux.HandleFunc("POST /api/listings/{id}/sale", handlers.Listings.ListForSale)
	mux.HandleFunc("DELETE /api/listings/{id}/sale", handlers.Listings.CancelSale)

	// Bundle endpoints.
	mux.HandleFunc("POST /api/bundles", handlers.Listings.CreateBundle)
	mux.HandleFunc("DELETE /api/bundles/{id}", handlers.Listings.CancelBundle)

	// Order book endpoints.
	mux.HandleFunc("GET /api/orderbook", handlers.Orders.GetOrderBook)
	mux.HandleFunc("POST /api/orders", handlers.Orders.SubmitOrder)
	mux.HandleFunc("PUT /api/orders/{id}", handlers.Orders.EditOrder)
	mux.HandleFunc("DELETE /api/orders/{id}", handlers.Orders.DeleteOrder)

	// Transaction ledger.
	mux.HandleFunc("GET /api/history", handlers.History.GetHistory)
	mux.HandleFunc("DELETE /api/history", handlers.History.ResetHistory)

	// Seller profiles.
	mux.HandleFunc("GET /api/users/{username}", handlers.Users.GetUser)

	// Node price.
	mux.HandleFunc("GET /api/price/node", handlers.Prices.GetNodePrice)

	// WebSocket event stream.
	if wsHub != nil {
		mux.HandleFunc("GET /ws", wsHub.HandleWS)
	}

	var h http.Handler = mux
	h = middleware.Auth(cfg.APIKey)(h)
	h = middleware.Logging(logger)(h)
	h = middleware.CORS(cfg.CORSOrigins)(h)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      h,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return &Server{
		httpServer: srv,
		mux:        mux,
		logger:     logger,
	}
}

// Start begins listening for HTTP requests. It blocks until the server
// encounters an error or is shut down.
func (s *Server) Start() error {
	s.logger.Info("server: starting",
		slog.String("addr", s.httpServer.Addr),
	)
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server: listen: %w", err)
	}
	return nil
}

// Shutdown gracefully shuts down the server, waiting for in-flight requests
// to complete within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("server: shutting down")
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server: shutdown: %w", err)
	}
	return nil
}
