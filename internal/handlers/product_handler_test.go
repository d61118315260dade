package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/freshkart/storefront-api/internal/models"
)

func newProductRouter(t *testing.T) (*chi.Mux, *ProductHandler) {
	t.Helper()

	svc := newTestCatalog(t)
	if _, err := svc.InitializeProducts(context.Background()); err != nil {
		t.Fatalf("failed to prime catalog: %v", err)
	}

	handler := NewProductHandler(svc, testLogger)

	r := chi.NewRouter()
	r.Get("/api/products", handler.ListProducts)
	r.Get("/api/products/featured", handler.GetFeatured)
	r.Get("/api/products/search", handler.Search)
	r.Get("/api/products/category/{category}", handler.GetByCategory)
	r.Get("/api/products/{productId}", handler.GetProduct)
	r.Get("/api/categories", handler.GetCategories)
	r.Post("/api/catalog/refresh", handler.Refresh)

	return r, handler
}

func TestListProducts(t *testing.T) {
	r, _ := newProductRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/products", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}

	var data models.CategoryData
	if err := json.NewDecoder(w.Body).Decode(&data); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if len(data.All) != 4 {
		t.Errorf("expected 4 products, got %d", len(data.All))
	}
	if len(data.Meat) != 2 || len(data.Fish) != 2 {
		t.Errorf("unexpected partition: meat=%d fish=%d", len(data.Meat), len(data.Fish))
	}
}

func TestGetProduct_Success(t *testing.T) {
	r, _ := newProductRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/products/a", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}

	var product models.Product
	if err := json.NewDecoder(w.Body).Decode(&product); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if product.ID != "a" {
		t.Errorf("expected product ID a, got %s", product.ID)
	}
	if product.Name != "Chicken Curry Cut" {
		t.Errorf("expected product name 'Chicken Curry Cut', got %s", product.Name)
	}
	if product.Price != 100 {
		t.Errorf("expected product price 100, got %f", product.Price)
	}
}

func TestGetProduct_NotFound(t *testing.T) {
	r, _ := newProductRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/products/unknown", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("expected status 404, got %d", w.Code)
	}
}

func TestGetFeatured(t *testing.T) {
	r, _ := newProductRouter(t)

	tests := []struct {
		name       string
		url        string
		wantStatus int
		wantIDs    []string
	}{
		{
			name:       "default limit",
			url:        "/api/products/featured",
			wantStatus: http.StatusOK,
			wantIDs:    []string{"c", "a", "b", "d"},
		},
		{
			name:       "explicit limit",
			url:        "/api/products/featured?limit=2",
			wantStatus: http.StatusOK,
			wantIDs:    []string{"c", "a"},
		},
		{
			name:       "invalid limit",
			url:        "/api/products/featured?limit=abc",
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "zero limit",
			url:        "/api/products/featured?limit=0",
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.url, nil)
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", w.Code, tt.wantStatus)
			}
			if tt.wantStatus != http.StatusOK {
				return
			}

			var products []models.Product
			if err := json.NewDecoder(w.Body).Decode(&products); err != nil {
				t.Fatalf("failed to decode response: %v", err)
			}
			if len(products) != len(tt.wantIDs) {
				t.Fatalf("got %d products, want %d", len(products), len(tt.wantIDs))
			}
			for i, id := range tt.wantIDs {
				if products[i].ID != id {
					t.Errorf("products[%d] = %s, want %s", i, products[i].ID, id)
				}
			}
		})
	}
}

func TestSearch(t *testing.T) {
	r, _ := newProductRouter(t)

	tests := []struct {
		name  string
		url   string
		count int
	}{
		{name: "match", url: "/api/products/search?q=rohu", count: 1},
		{name: "case insensitive", url: "/api/products/search?q=MUTTON", count: 1},
		{name: "blank query", url: "/api/products/search?q=", count: 0},
		{name: "no query param", url: "/api/products/search", count: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.url, nil)
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			if w.Code != http.StatusOK {
				t.Fatalf("expected status 200, got %d", w.Code)
			}

			var products []models.Product
			if err := json.NewDecoder(w.Body).Decode(&products); err != nil {
				t.Fatalf("failed to decode response: %v", err)
			}
			if len(products) != tt.count {
				t.Errorf("got %d results, want %d", len(products), tt.count)
			}
		})
	}
}

func TestGetByCategory(t *testing.T) {
	r, _ := newProductRouter(t)

	tests := []struct {
		name  string
		url   string
		count int
	}{
		{name: "meat", url: "/api/products/category/meat", count: 2},
		{name: "fish", url: "/api/products/category/fish", count: 2},
		{name: "unknown category is empty", url: "/api/products/category/poultry", count: 0},
		{name: "subcategory filter", url: "/api/products/category/meat?subcategory=chicken", count: 1},
		{name: "unmatched subcategory", url: "/api/products/category/meat?subcategory=seafood", count: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.url, nil)
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			if w.Code != http.StatusOK {
				t.Fatalf("expected status 200, got %d", w.Code)
			}

			var products []models.Product
			if err := json.NewDecoder(w.Body).Decode(&products); err != nil {
				t.Fatalf("failed to decode response: %v", err)
			}
			if len(products) != tt.count {
				t.Errorf("got %d products, want %d", len(products), tt.count)
			}
		})
	}
}

func TestGetCategories(t *testing.T) {
	r, _ := newProductRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/categories", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}

	var categories models.CategoriesResponse
	if err := json.NewDecoder(w.Body).Decode(&categories); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if categories.Meat.Name != "Fresh Meat" {
		t.Errorf("meat category name = %s", categories.Meat.Name)
	}
	if categories.Fish.Count != 2 {
		t.Errorf("fish count = %d, want 2", categories.Fish.Count)
	}
}

func TestRefresh(t *testing.T) {
	r, _ := newProductRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/api/catalog/refresh", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}

	var body map[string]any
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if body["message"] != "Catalog refreshed" {
		t.Errorf("message = %v", body["message"])
	}
}
