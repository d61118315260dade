package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"testing"

	"github.com/alexedwards/scs/v2"
	"github.com/go-chi/chi/v5"

	"github.com/freshkart/storefront-api/internal/catalog"
	"github.com/freshkart/storefront-api/internal/models"
	"github.com/freshkart/storefront-api/internal/orders"
	"github.com/freshkart/storefront-api/pkg/logger"
)

// testCatalogData is the canned upstream catalog used by handler tests.
func testCatalogData() models.CategoryData {
	meat := []models.Product{
		{ID: "a", Name: "Chicken Curry Cut", Description: "Fresh cut chicken", Price: 100, Rating: 4.5, Category: "meat", Subcategory: "chicken", Features: []string{"Antibiotic free"}, Unit: "250g", InStock: true},
		{ID: "b", Name: "Mutton Boneless", Description: "Tender goat meat", Price: 200, Rating: 4.5, Category: "meat", Subcategory: "mutton", Features: []string{"Hand cut"}, Unit: "250g", InStock: true},
	}
	fish := []models.Product{
		{ID: "c", Name: "Rohu Fish", Description: "River fresh rohu", Price: 150, Rating: 4.8, Category: "fish", Subcategory: "freshwater", Features: []string{"Cleaned"}, Unit: "250g", InStock: true},
		{ID: "d", Name: "Prawns Medium", Description: "Sweet prawns", Price: 300, Rating: 4.2, Category: "fish", Subcategory: "shellfish", Features: []string{"Deveined"}, Unit: "250g", InStock: false},
	}
	all := append(append([]models.Product{}, meat...), fish...)
	return models.CategoryData{Meat: meat, Fish: fish, All: all}
}

// newTestCatalog builds a primed catalog service backed by a fake
// upstream serving testCatalogData.
func newTestCatalog(t *testing.T) *catalog.Service {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		payload, err := json.Marshal(testCatalogData())
		if err != nil {
			t.Errorf("failed to marshal catalog: %v", err)
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"data":    json.RawMessage(payload),
		})
	}))
	t.Cleanup(server.Close)

	return catalog.NewService(catalog.NewClient(server.URL))
}

var testLogger = logger.New("error")

// newCartServer mounts the session-backed cart and order routes behind
// a real HTTP server, plus a cookie-jar client so session state carries
// across requests. submitHandler fakes the external order endpoint.
func newCartServer(t *testing.T, submitHandler http.HandlerFunc) (*httptest.Server, *http.Client) {
	t.Helper()

	svc := newTestCatalog(t)
	if _, err := svc.InitializeProducts(context.Background()); err != nil {
		t.Fatalf("failed to prime catalog: %v", err)
	}

	submitServer := httptest.NewServer(submitHandler)
	t.Cleanup(submitServer.Close)

	sessions := scs.New()
	orderService := orders.NewService(orders.NewSubmitClient(submitServer.URL), 10)

	cartHandler := NewCartHandler(sessions, svc, testLogger)
	orderHandler := NewOrderHandler(orderService, sessions, testLogger)

	r := chi.NewRouter()
	r.Group(func(r chi.Router) {
		r.Use(sessions.LoadAndSave)

		r.Get("/api/cart", cartHandler.GetCart)
		r.Post("/api/cart/items", cartHandler.AddItem)
		r.Patch("/api/cart/items/{itemId}", cartHandler.UpdateItem)
		r.Delete("/api/cart/items/{itemId}", cartHandler.RemoveItem)
		r.Delete("/api/cart", cartHandler.ClearCart)

		r.Post("/api/orders", orderHandler.CreateOrder)
		r.Get("/api/orders/last", orderHandler.GetLastOrder)
	})

	server := httptest.NewServer(r)
	t.Cleanup(server.Close)

	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatalf("failed to create cookie jar: %v", err)
	}

	return server, &http.Client{Jar: jar}
}

// doJSON issues one request with an optional JSON body and decodes the
// JSON response into out when it is non-nil.
func doJSON(t *testing.T, client *http.Client, method, url string, body any, out any) int {
	t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal request body: %v", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequest(method, url, reader)
	if err != nil {
		t.Fatalf("failed to create request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("%s %s failed: %v", method, url, err)
	}
	defer resp.Body.Close()

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
	}
	return resp.StatusCode
}
