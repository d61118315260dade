package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/freshkart/storefront-api/internal/catalog"
)

// HealthHandler provides health check endpoint
type HealthHandler struct {
	catalog *catalog.Service
	logger  *slog.Logger
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(catalogService *catalog.Service, logger *slog.Logger) *HealthHandler {
	return &HealthHandler{
		catalog: catalogService,
		logger:  logger,
	}
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status        string    `json:"status"`
	Timestamp     time.Time `json:"timestamp"`
	Version       string    `json:"version"`
	CatalogPrimed bool      `json:"catalogPrimed"`
}

// ServeHTTP handles health check requests
func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	response := HealthResponse{
		Status:        "healthy",
		Timestamp:     time.Now().UTC(),
		Version:       "1.0.0",
		CatalogPrimed: h.catalog.IsInitialized(),
	}

	WriteJSON(w, http.StatusOK, response, h.logger)
}
