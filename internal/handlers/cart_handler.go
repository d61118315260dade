package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/alexedwards/scs/v2"
	"github.com/go-chi/chi/v5"

	"github.com/freshkart/storefront-api/internal/cart"
	"github.com/freshkart/storefront-api/internal/catalog"
	"github.com/freshkart/storefront-api/internal/models"
)

const sessionCartKey = "cart"

// CartHandler manages the per-session shopping cart. Cart state lives
// in the session as JSON; every mutation goes through the reducer.
type CartHandler struct {
	sessions *scs.SessionManager
	catalog  *catalog.Service
	logger   *slog.Logger
}

// NewCartHandler creates a new cart handler
func NewCartHandler(sessions *scs.SessionManager, catalogService *catalog.Service, logger *slog.Logger) *CartHandler {
	return &CartHandler{
		sessions: sessions,
		catalog:  catalogService,
		logger:   logger,
	}
}

// AddItemRequest is the body of POST /api/cart/items.
type AddItemRequest struct {
	ProductID string `json:"productId"`
	Weight    string `json:"weight"`
	Quantity  int    `json:"quantity"`
}

// UpdateItemRequest is the body of PATCH /api/cart/items/{itemId}.
type UpdateItemRequest struct {
	Quantity int `json:"quantity"`
}

// CartView is the response shape for every cart endpoint.
type CartView struct {
	Items      []models.CartItem `json:"items"`
	TotalItems int               `json:"totalItems"`
	Subtotal   float64           `json:"subtotal"`
}

// GetCart handles GET /api/cart
func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	state := h.loadState(r)
	WriteJSON(w, http.StatusOK, viewOf(state), h.logger)
}

// AddItem handles POST /api/cart/items
// The unit price is derived server-side from the product base price and
// the chosen weight; adding an existing (product, weight) pair merges
// quantities instead of duplicating the line.
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	var req AddItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid request body", h.logger)
		return
	}

	if req.ProductID == "" {
		WriteError(w, http.StatusBadRequest, "productId is required", h.logger)
		return
	}
	if req.Quantity < 1 {
		WriteError(w, http.StatusBadRequest, "Quantity must be positive", h.logger)
		return
	}

	product, err := h.catalog.GetProductByID(r.Context(), req.ProductID)
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			WriteError(w, http.StatusNotFound, "Product not found", h.logger)
			return
		}
		h.logger.Error("failed to look up product", "productId", req.ProductID, "error", err)
		WriteError(w, http.StatusBadGateway, "Failed to load catalog", h.logger)
		return
	}

	if !product.InStock {
		WriteError(w, http.StatusBadRequest, "Product is out of stock", h.logger)
		return
	}

	unitPrice, err := cart.UnitPrice(product.Price, req.Weight)
	if err != nil {
		WriteError(w, http.StatusBadRequest, "Unknown weight option", h.logger)
		return
	}

	state := h.loadState(r)
	state = cart.Reduce(state, cart.AddItem{Item: models.CartItem{
		ID:       product.ID,
		Name:     product.Name,
		Price:    unitPrice,
		Quantity: req.Quantity,
		Weight:   req.Weight,
		Image:    product.Image,
		Category: product.Category,
	}})
	h.saveState(r, state)

	h.logger.Info("item added to cart",
		"productId", product.ID,
		"weight", req.Weight,
		"quantity", req.Quantity,
	)
	WriteJSON(w, http.StatusOK, viewOf(state), h.logger)
}

// UpdateItem handles PATCH /api/cart/items/{itemId}
// A quantity of zero or less removes the line; unknown ids are a no-op.
func (h *CartHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	itemID := chi.URLParam(r, "itemId")

	var req UpdateItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid request body", h.logger)
		return
	}

	state := cart.Reduce(h.loadState(r), cart.UpdateQuantity{Key: itemID, Quantity: req.Quantity})
	h.saveState(r, state)

	WriteJSON(w, http.StatusOK, viewOf(state), h.logger)
}

// RemoveItem handles DELETE /api/cart/items/{itemId}
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	itemID := chi.URLParam(r, "itemId")

	state := cart.Reduce(h.loadState(r), cart.RemoveItem{Key: itemID})
	h.saveState(r, state)

	WriteJSON(w, http.StatusOK, viewOf(state), h.logger)
}

// ClearCart handles DELETE /api/cart
func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	state := cart.Reduce(h.loadState(r), cart.Clear{})
	h.saveState(r, state)

	WriteJSON(w, http.StatusOK, viewOf(state), h.logger)
}

// loadState reads the cart from the session, starting empty when the
// session has none or holds unreadable data.
func (h *CartHandler) loadState(r *http.Request) cart.State {
	data := h.sessions.GetBytes(r.Context(), sessionCartKey)
	if len(data) == 0 {
		return cart.State{Items: []models.CartItem{}}
	}

	var state cart.State
	if err := json.Unmarshal(data, &state); err != nil {
		h.logger.Warn("discarding unreadable session cart", "error", err)
		return cart.State{Items: []models.CartItem{}}
	}
	return state
}

func (h *CartHandler) saveState(r *http.Request, state cart.State) {
	data, err := json.Marshal(state)
	if err != nil {
		h.logger.Error("failed to encode session cart", "error", err)
		return
	}
	h.sessions.Put(r.Context(), sessionCartKey, data)
}

func viewOf(state cart.State) CartView {
	return CartView{
		Items:      state.Items,
		TotalItems: state.TotalItems(),
		Subtotal:   state.TotalPrice(),
	}
}
