package handlers

import (
	"encoding/json"
	"net/http"
	"testing"
)

func okSubmit(w http.ResponseWriter, r *http.Request) {
	_ = json.NewEncoder(w).Encode(map[string]any{"success": true, "message": "Order submitted successfully"})
}

func TestCartFlow(t *testing.T) {
	server, client := newCartServer(t, okSubmit)

	// Empty cart to start
	var view CartView
	if status := doJSON(t, client, http.MethodGet, server.URL+"/api/cart", nil, &view); status != http.StatusOK {
		t.Fatalf("GET cart status = %d", status)
	}
	if view.TotalItems != 0 || len(view.Items) != 0 {
		t.Fatalf("expected empty cart, got %+v", view)
	}

	// Add 2x chicken 500g: unit price 100 * 2 = 200
	add := AddItemRequest{ProductID: "a", Weight: "500g", Quantity: 2}
	if status := doJSON(t, client, http.MethodPost, server.URL+"/api/cart/items", add, &view); status != http.StatusOK {
		t.Fatalf("POST item status = %d", status)
	}
	if len(view.Items) != 1 {
		t.Fatalf("expected 1 line, got %d", len(view.Items))
	}
	if view.Items[0].ID != "a-500g" {
		t.Errorf("line id = %s, want a-500g", view.Items[0].ID)
	}
	if view.Items[0].Price != 200 {
		t.Errorf("unit price = %f, want 200", view.Items[0].Price)
	}
	if view.Subtotal != 400 {
		t.Errorf("subtotal = %f, want 400", view.Subtotal)
	}

	// Adding the same (product, weight) again merges quantities
	add.Quantity = 3
	doJSON(t, client, http.MethodPost, server.URL+"/api/cart/items", add, &view)
	if len(view.Items) != 1 || view.Items[0].Quantity != 5 {
		t.Fatalf("expected merged quantity 5, got %+v", view.Items)
	}
	if view.TotalItems != 5 {
		t.Errorf("totalItems = %d, want 5", view.TotalItems)
	}

	// A different weight is a separate line
	doJSON(t, client, http.MethodPost, server.URL+"/api/cart/items", AddItemRequest{ProductID: "a", Weight: "250g", Quantity: 1}, &view)
	if len(view.Items) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(view.Items))
	}

	// Cart persists across requests in the same session
	doJSON(t, client, http.MethodGet, server.URL+"/api/cart", nil, &view)
	if view.TotalItems != 6 {
		t.Errorf("totalItems after reload = %d, want 6", view.TotalItems)
	}

	// Absolute quantity update
	doJSON(t, client, http.MethodPatch, server.URL+"/api/cart/items/a-500g", UpdateItemRequest{Quantity: 1}, &view)
	if view.Items[0].Quantity != 1 {
		t.Errorf("quantity after update = %d, want 1", view.Items[0].Quantity)
	}

	// Zero quantity removes the line
	doJSON(t, client, http.MethodPatch, server.URL+"/api/cart/items/a-500g", UpdateItemRequest{Quantity: 0}, &view)
	if len(view.Items) != 1 || view.Items[0].ID != "a-250g" {
		t.Fatalf("expected only a-250g left, got %+v", view.Items)
	}

	// Explicit remove
	doJSON(t, client, http.MethodDelete, server.URL+"/api/cart/items/a-250g", nil, &view)
	if len(view.Items) != 0 {
		t.Fatalf("expected empty cart after remove, got %+v", view.Items)
	}

	// Clear the cart
	doJSON(t, client, http.MethodPost, server.URL+"/api/cart/items", AddItemRequest{ProductID: "c", Weight: "1kg", Quantity: 2}, &view)
	if status := doJSON(t, client, http.MethodDelete, server.URL+"/api/cart", nil, &view); status != http.StatusOK {
		t.Fatalf("DELETE cart status = %d", status)
	}
	if view.TotalItems != 0 {
		t.Errorf("totalItems after clear = %d, want 0", view.TotalItems)
	}
}

func TestAddItem_Validation(t *testing.T) {
	server, client := newCartServer(t, okSubmit)

	tests := []struct {
		name       string
		req        AddItemRequest
		wantStatus int
	}{
		{
			name:       "unknown product",
			req:        AddItemRequest{ProductID: "zzz", Weight: "250g", Quantity: 1},
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "missing product id",
			req:        AddItemRequest{Weight: "250g", Quantity: 1},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "unknown weight",
			req:        AddItemRequest{ProductID: "a", Weight: "2kg", Quantity: 1},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "zero quantity",
			req:        AddItemRequest{ProductID: "a", Weight: "250g", Quantity: 0},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "out of stock product",
			req:        AddItemRequest{ProductID: "d", Weight: "250g", Quantity: 1},
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status := doJSON(t, client, http.MethodPost, server.URL+"/api/cart/items", tt.req, nil)
			if status != tt.wantStatus {
				t.Errorf("status = %d, want %d", status, tt.wantStatus)
			}
		})
	}

	// None of the rejected requests may have touched the cart
	var view CartView
	doJSON(t, client, http.MethodGet, server.URL+"/api/cart", nil, &view)
	if view.TotalItems != 0 {
		t.Errorf("cart not empty after rejected adds: %+v", view)
	}
}
