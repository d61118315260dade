package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/freshkart/storefront-api/internal/catalog"
)

const defaultFeaturedLimit = 8

// ProductHandler handles product-related HTTP requests
type ProductHandler struct {
	service *catalog.Service
	logger  *slog.Logger
}

// NewProductHandler creates a new product handler
func NewProductHandler(service *catalog.Service, logger *slog.Logger) *ProductHandler {
	return &ProductHandler{
		service: service,
		logger:  logger,
	}
}

// ListProducts handles GET /api/products
// Returns the full catalog partitioned by category.
func (h *ProductHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	data, err := h.service.GetAllProducts(r.Context())
	if err != nil {
		h.logger.Error("failed to load catalog", "error", err)
		WriteError(w, http.StatusBadGateway, "Failed to load catalog", h.logger)
		return
	}

	WriteJSON(w, http.StatusOK, data, h.logger)
}

// GetProduct handles GET /api/products/{productId}
func (h *ProductHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	productID := chi.URLParam(r, "productId")
	if productID == "" {
		WriteError(w, http.StatusBadRequest, "Invalid ID supplied", h.logger)
		return
	}

	product, err := h.service.GetProductByID(r.Context(), productID)
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			h.logger.Info("product not found", "productId", productID)
			WriteError(w, http.StatusNotFound, "Product not found", h.logger)
			return
		}

		h.logger.Error("failed to get product", "productId", productID, "error", err)
		WriteError(w, http.StatusBadGateway, "Failed to load catalog", h.logger)
		return
	}

	WriteJSON(w, http.StatusOK, product, h.logger)
}

// GetFeatured handles GET /api/products/featured?limit=n
func (h *ProductHandler) GetFeatured(w http.ResponseWriter, r *http.Request) {
	limit := defaultFeaturedLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			WriteError(w, http.StatusBadRequest, "Invalid limit", h.logger)
			return
		}
		limit = parsed
	}

	products, err := h.service.GetFeaturedProducts(r.Context(), limit)
	if err != nil {
		h.logger.Error("failed to load featured products", "error", err)
		WriteError(w, http.StatusBadGateway, "Failed to load catalog", h.logger)
		return
	}

	WriteJSON(w, http.StatusOK, products, h.logger)
}

// Search handles GET /api/products/search?q=term
// Search runs against the in-memory snapshot only; a blank query
// returns an empty result set.
func (h *ProductHandler) Search(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	results := h.service.SearchProducts(query)

	WriteJSON(w, http.StatusOK, results, h.logger)
}

// GetByCategory handles GET /api/products/category/{category}
// with an optional subcategory filter. Unknown categories yield an
// empty list rather than an error.
func (h *ProductHandler) GetByCategory(w http.ResponseWriter, r *http.Request) {
	category := chi.URLParam(r, "category")
	subcategory := r.URL.Query().Get("subcategory")

	if subcategory != "" {
		// Subcategory filtering needs the primed snapshot.
		if _, err := h.service.InitializeProducts(r.Context()); err != nil {
			h.logger.Error("failed to load catalog", "error", err)
			WriteError(w, http.StatusBadGateway, "Failed to load catalog", h.logger)
			return
		}
		WriteJSON(w, http.StatusOK, h.service.GetProductsBySubcategory(category, subcategory), h.logger)
		return
	}

	products, err := h.service.GetProductsByCategory(r.Context(), category)
	if err != nil {
		h.logger.Error("failed to load category", "category", category, "error", err)
		WriteError(w, http.StatusBadGateway, "Failed to load catalog", h.logger)
		return
	}

	WriteJSON(w, http.StatusOK, products, h.logger)
}

// GetCategories handles GET /api/categories
func (h *ProductHandler) GetCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.service.GetCategories(r.Context())
	if err != nil {
		h.logger.Error("failed to load categories", "error", err)
		WriteError(w, http.StatusBadGateway, "Failed to load catalog", h.logger)
		return
	}

	WriteJSON(w, http.StatusOK, categories, h.logger)
}

// Refresh handles POST /api/catalog/refresh
// Drops every cached value and reloads the catalog from upstream.
func (h *ProductHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	if _, err := h.service.RefreshProducts(r.Context()); err != nil {
		h.logger.Error("catalog refresh failed", "error", err)
		WriteError(w, http.StatusBadGateway, "Catalog refresh failed", h.logger)
		return
	}

	stats := h.service.Stats()
	h.logger.Info("catalog refreshed", "stats", stats)
	WriteJSON(w, http.StatusOK, map[string]any{
		"message": "Catalog refreshed",
		"stats":   stats,
	}, h.logger)
}
