package catalog

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/bits-and-blooms/bloom/v3"
	"golang.org/x/sync/singleflight"

	"github.com/freshkart/storefront-api/internal/models"
)

var ErrNotFound = errors.New("product not found")

const defaultCacheTTL = 5 * time.Minute

// bloomFalsePositiveRate controls the sizing of the known-id filter.
const bloomFalsePositiveRate = 0.01

// cacheEntry is one derived-cache value with its write timestamp.
type cacheEntry struct {
	data      any
	timestamp time.Time
}

// Service caches the product catalog for the lifetime of the process.
// The primary snapshot is fetched once (concurrent callers share a
// single in-flight request) and stays valid until explicitly cleared.
// Derived per-key entries expire after the configured TTL.
type Service struct {
	client *Client
	ttl    time.Duration
	now    func() time.Time

	group singleflight.Group

	mu       sync.RWMutex
	catalog  *models.CategoryData
	known    *bloom.BloomFilter
	cache    map[string]cacheEntry
	loadedAt time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithCacheTTL overrides the derived-cache TTL.
func WithCacheTTL(d time.Duration) Option {
	return func(s *Service) { s.ttl = d }
}

// WithNow overrides the clock, for tests.
func WithNow(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// NewService creates a catalog service backed by the given client.
func NewService(client *Client, opts ...Option) *Service {
	s := &Service{
		client: client,
		ttl:    defaultCacheTTL,
		now:    time.Now,
		cache:  make(map[string]cacheEntry),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// InitializeProducts loads the full catalog, fetching it at most once
// even under concurrent callers. A failed fetch leaves the service
// uninitialized so a later call can retry.
func (s *Service) InitializeProducts(ctx context.Context) (*models.CategoryData, error) {
	if snap := s.snapshot(); snap != nil {
		return snap, nil
	}

	v, err, _ := s.group.Do("catalog", func() (any, error) {
		// A previous flight may have primed the snapshot already.
		if snap := s.snapshot(); snap != nil {
			return snap, nil
		}

		var data models.CategoryData
		if err := s.client.fetch(ctx, actionGetAllProducts, nil, &data); err != nil {
			return nil, err
		}
		if len(data.All) == 0 {
			data.All = append(append([]models.Product{}, data.Meat...), data.Fish...)
		}

		s.prime(&data)
		return &data, nil
	})
	if err != nil {
		return nil, err
	}

	return v.(*models.CategoryData), nil
}

// GetAllProducts returns the full catalog, loading it if necessary.
func (s *Service) GetAllProducts(ctx context.Context) (*models.CategoryData, error) {
	return s.InitializeProducts(ctx)
}

// GetProductsByCategory returns all products in the given category.
// Unknown categories yield an empty result, never an error.
func (s *Service) GetProductsByCategory(ctx context.Context, category string) ([]models.Product, error) {
	if !validCategory(category) {
		return []models.Product{}, nil
	}

	key := "category_" + category
	if v, ok := s.getCached(key); ok {
		return v.([]models.Product), nil
	}

	if snap := s.snapshot(); snap != nil {
		products := categorySlice(snap, category)
		s.setCached(key, products)
		return products, nil
	}

	var products []models.Product
	if err := s.client.fetch(ctx, actionGetProductsByCategory, map[string]string{"category": category}, &products); err != nil {
		return nil, err
	}
	s.setCached(key, products)
	return products, nil
}

// GetProductByID looks up a single product. A missing product is
// reported as ErrNotFound, distinct from transport errors.
func (s *Service) GetProductByID(ctx context.Context, id string) (*models.Product, error) {
	key := "product_" + id
	if v, ok := s.getCached(key); ok {
		p := v.(models.Product)
		return &p, nil
	}

	if snap := s.snapshot(); snap != nil {
		// The bloom filter never misses a known id, so a negative
		// answer avoids the linear scan entirely.
		if !s.mightContain(id) {
			return nil, ErrNotFound
		}
		for _, p := range snap.All {
			if p.ID == id {
				s.setCached(key, p)
				return &p, nil
			}
		}
		return nil, ErrNotFound
	}

	var product models.Product
	if err := s.client.fetch(ctx, actionGetProductByID, map[string]string{"id": id}, &product); err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	s.setCached(key, product)
	return &product, nil
}

// GetFeaturedProducts returns up to limit products ordered by rating
// descending. Ties keep their original catalog order.
func (s *Service) GetFeaturedProducts(ctx context.Context, limit int) ([]models.Product, error) {
	if limit <= 0 {
		return []models.Product{}, nil
	}

	key := fmt.Sprintf("featured_%d", limit)
	if v, ok := s.getCached(key); ok {
		return v.([]models.Product), nil
	}

	if snap := s.snapshot(); snap != nil {
		featured := append([]models.Product{}, snap.All...)
		sort.SliceStable(featured, func(i, j int) bool {
			return featured[i].Rating > featured[j].Rating
		})
		if len(featured) > limit {
			featured = featured[:limit]
		}
		s.setCached(key, featured)
		return featured, nil
	}

	var products []models.Product
	params := map[string]string{"limit": fmt.Sprintf("%d", limit)}
	if err := s.client.fetch(ctx, actionGetFeaturedProducts, params, &products); err != nil {
		return nil, err
	}
	s.setCached(key, products)
	return products, nil
}

// SearchProducts matches the query case-insensitively against each of
// name, description, category, subcategory and the joined features; a
// match must fall within a single field. It only consults the
// in-memory snapshot: before initialization, and for a blank query, the
// result is empty.
func (s *Service) SearchProducts(query string) []models.Product {
	snap := s.snapshot()
	if snap == nil {
		return []models.Product{}
	}

	term := strings.ToLower(strings.TrimSpace(query))
	if term == "" {
		return []models.Product{}
	}

	results := []models.Product{}
	for _, p := range snap.All {
		fields := []string{
			p.Name,
			p.Description,
			p.Category,
			p.Subcategory,
			strings.Join(p.Features, " "),
		}
		for _, field := range fields {
			if strings.Contains(strings.ToLower(field), term) {
				results = append(results, p)
				break
			}
		}
	}
	return results
}

// GetProductsBySubcategory filters the cached category by subcategory.
func (s *Service) GetProductsBySubcategory(category, subcategory string) []models.Product {
	snap := s.snapshot()
	if snap == nil || !validCategory(category) {
		return []models.Product{}
	}

	results := []models.Product{}
	for _, p := range categorySlice(snap, category) {
		if p.Subcategory == subcategory {
			results = append(results, p)
		}
	}
	return results
}

// GetSubcategories returns the distinct subcategories of a category in
// catalog order.
func (s *Service) GetSubcategories(category string) []string {
	snap := s.snapshot()
	if snap == nil || !validCategory(category) {
		return []string{}
	}

	seen := make(map[string]bool)
	subcategories := []string{}
	for _, p := range categorySlice(snap, category) {
		if !seen[p.Subcategory] {
			seen[p.Subcategory] = true
			subcategories = append(subcategories, p.Subcategory)
		}
	}
	return subcategories
}

// GetCategories returns the category overview used for navigation.
func (s *Service) GetCategories(ctx context.Context) (*models.CategoriesResponse, error) {
	const key = "categories"
	if v, ok := s.getCached(key); ok {
		c := v.(models.CategoriesResponse)
		return &c, nil
	}

	if snap := s.snapshot(); snap != nil {
		categories := models.CategoriesResponse{
			Meat: models.CategoryInfo{
				Name:          "Fresh Meat",
				Subcategories: s.GetSubcategories(models.CategoryMeat),
				Count:         len(snap.Meat),
			},
			Fish: models.CategoryInfo{
				Name:          "Fresh Fish",
				Subcategories: s.GetSubcategories(models.CategoryFish),
				Count:         len(snap.Fish),
			},
		}
		s.setCached(key, categories)
		return &categories, nil
	}

	var categories models.CategoriesResponse
	if err := s.client.fetch(ctx, actionGetCategories, nil, &categories); err != nil {
		return nil, err
	}
	s.setCached(key, categories)
	return &categories, nil
}

// RefreshProducts drops every cached value and reloads the catalog.
func (s *Service) RefreshProducts(ctx context.Context) (*models.CategoryData, error) {
	s.ClearCache()
	return s.InitializeProducts(ctx)
}

// ClearCache drops the derived cache and the primary snapshot, forcing
// the next read to re-fetch.
func (s *Service) ClearCache() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cache = make(map[string]cacheEntry)
	s.catalog = nil
	s.known = nil
	s.loadedAt = time.Time{}
}

// IsInitialized reports whether the primary snapshot is loaded.
func (s *Service) IsInitialized() bool {
	return s.snapshot() != nil
}

// Stats returns counters describing the cached catalog.
func (s *Service) Stats() map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]any{
		"initialized":     s.catalog != nil,
		"derived_entries": len(s.cache),
	}
	if s.catalog != nil {
		stats["total_products"] = len(s.catalog.All)
		stats["meat_products"] = len(s.catalog.Meat)
		stats["fish_products"] = len(s.catalog.Fish)
		stats["loaded_at"] = s.loadedAt
	}
	return stats
}

// prime installs a freshly fetched catalog and rebuilds the known-id
// filter.
func (s *Service) prime(data *models.CategoryData) {
	filter := bloom.NewWithEstimates(uint(len(data.All))+1, bloomFalsePositiveRate)
	for _, p := range data.All {
		filter.AddString(p.ID)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.catalog = data
	s.known = filter
	s.loadedAt = s.now()
}

func (s *Service) snapshot() *models.CategoryData {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.catalog
}

func (s *Service) mightContain(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.known == nil {
		return true
	}
	return s.known.TestString(id)
}

func (s *Service) getCached(key string) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, ok := s.cache[key]
	if !ok {
		return nil, false
	}
	if s.now().Sub(entry.timestamp) >= s.ttl {
		return nil, false
	}
	return entry.data, true
}

func (s *Service) setCached(key string, data any) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cache[key] = cacheEntry{data: data, timestamp: s.now()}
}

func validCategory(category string) bool {
	return category == models.CategoryMeat || category == models.CategoryFish
}

func categorySlice(data *models.CategoryData, category string) []models.Product {
	switch category {
	case models.CategoryMeat:
		return data.Meat
	case models.CategoryFish:
		return data.Fish
	default:
		return []models.Product{}
	}
}
