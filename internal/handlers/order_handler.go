package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/alexedwards/scs/v2"

	"github.com/freshkart/storefront-api/internal/cart"
	"github.com/freshkart/storefront-api/internal/models"
	"github.com/freshkart/storefront-api/internal/orders"
)

const sessionReceiptKey = "lastOrder"

// OrderHandler handles checkout and the per-session order receipt.
type OrderHandler struct {
	orderService *orders.Service
	sessions     *scs.SessionManager
	logger       *slog.Logger
}

// NewOrderHandler creates a new order handler
func NewOrderHandler(orderService *orders.Service, sessions *scs.SessionManager, logger *slog.Logger) *OrderHandler {
	return &OrderHandler{
		orderService: orderService,
		sessions:     sessions,
		logger:       logger,
	}
}

// CheckoutRequest is the body of POST /api/orders.
type CheckoutRequest struct {
	CustomerInfo models.CustomerInfo `json:"customerInfo"`
}

// CreateOrder handles POST /api/orders
// Builds the order from the session cart, submits it to the order log
// and clears the cart only after a successful submission, so a failed
// checkout can simply be retried.
func (h *OrderHandler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	var req CheckoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid request body", h.logger)
		return
	}

	data := h.sessions.GetBytes(r.Context(), sessionCartKey)
	var state cart.State
	if len(data) > 0 {
		if err := json.Unmarshal(data, &state); err != nil {
			h.logger.Warn("discarding unreadable session cart", "error", err)
			state = cart.State{}
		}
	}

	order, err := h.orderService.CreateOrder(r.Context(), req.CustomerInfo, state)
	if err != nil {
		switch {
		case errors.Is(err, orders.ErrEmptyCart):
			WriteError(w, http.StatusBadRequest, "Cart is empty", h.logger)
		case errors.Is(err, orders.ErrMissingName),
			errors.Is(err, orders.ErrMissingPhone),
			errors.Is(err, orders.ErrMissingAddress):
			WriteError(w, http.StatusBadRequest, err.Error(), h.logger)
		case errors.Is(err, orders.ErrSubmitFailed):
			h.logger.Error("order submission failed", "error", err)
			WriteError(w, http.StatusBadGateway, "Failed to submit order, please try again", h.logger)
		default:
			h.logger.Error("failed to create order", "error", err)
			WriteError(w, http.StatusInternalServerError, "Internal server error", h.logger)
		}
		return
	}

	h.sessions.Remove(r.Context(), sessionCartKey)
	if receipt, err := json.Marshal(order); err == nil {
		h.sessions.Put(r.Context(), sessionReceiptKey, receipt)
	}

	h.logger.Info("order created successfully",
		"order_id", order.ID,
		"items_count", len(order.Items),
		"total", order.Total,
	)
	WriteJSON(w, http.StatusOK, order, h.logger)
}

// GetLastOrder handles GET /api/orders/last
// Returns the receipt of the session's most recent order.
func (h *OrderHandler) GetLastOrder(w http.ResponseWriter, r *http.Request) {
	data := h.sessions.GetBytes(r.Context(), sessionReceiptKey)
	if len(data) == 0 {
		WriteError(w, http.StatusNotFound, "No order found", h.logger)
		return
	}

	var order models.Order
	if err := json.Unmarshal(data, &order); err != nil {
		h.logger.Error("failed to decode stored receipt", "error", err)
		WriteError(w, http.StatusInternalServerError, "Internal server error", h.logger)
		return
	}

	WriteJSON(w, http.StatusOK, order, h.logger)
}
