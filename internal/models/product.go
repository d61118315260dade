package models

// Product categories form a closed two-value set. Any other value is
// treated as "no products", never as an error.
const (
	CategoryMeat = "meat"
	CategoryFish = "fish"
)

// Product represents a single catalog entry as served by the remote
// catalog API. Products are immutable once fetched.
type Product struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Price       float64  `json:"price"` // base price for the smallest weight option
	Image       string   `json:"image"`
	Rating      float64  `json:"rating"` // 0 when unrated
	Category    string   `json:"category"`
	Subcategory string   `json:"subcategory"`
	Features    []string `json:"features"`
	Unit        string   `json:"unit"`
	InStock     bool     `json:"inStock"`
}

// CategoryData is the full catalog partitioned by category, matching the
// shape of the getAllProducts response.
type CategoryData struct {
	Meat []Product `json:"meat"`
	Fish []Product `json:"fish"`
	All  []Product `json:"all"`
}

// CategoryInfo describes one category for navigation purposes.
type CategoryInfo struct {
	Name          string   `json:"name"`
	Subcategories []string `json:"subcategories"`
	Count         int      `json:"count"`
}

// CategoriesResponse is the category overview for both categories.
type CategoriesResponse struct {
	Meat CategoryInfo `json:"meat"`
	Fish CategoryInfo `json:"fish"`
}
