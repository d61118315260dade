package cart

import (
	"sync"

	"github.com/freshkart/storefront-api/internal/models"
)

// Store wraps the reducer for callers that want a long-lived in-process
// cart instead of managing State values themselves.
type Store struct {
	mu    sync.Mutex
	state State
}

// NewStore creates an empty cart store.
func NewStore() *Store {
	return &Store{state: State{Items: []models.CartItem{}}}
}

// AddItem adds a candidate line, merging quantities on key collision.
func (s *Store) AddItem(item models.CartItem) {
	s.dispatch(AddItem{Item: item})
}

// RemoveItem deletes the line with the given key, if present.
func (s *Store) RemoveItem(key string) {
	s.dispatch(RemoveItem{Key: key})
}

// UpdateQuantity sets the absolute quantity of a line; zero or less
// removes it.
func (s *Store) UpdateQuantity(key string, quantity int) {
	s.dispatch(UpdateQuantity{Key: key, Quantity: quantity})
}

// Clear empties the cart.
func (s *Store) Clear() {
	s.dispatch(Clear{})
}

// Items returns a copy of the current cart lines in insertion order.
func (s *Store) Items() []models.CartItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.CartItem{}, s.state.Items...)
}

// State returns the current state value.
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// TotalItems is the sum of all line quantities.
func (s *Store) TotalItems() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.TotalItems()
}

// TotalPrice is the sum of price times quantity over all lines.
func (s *Store) TotalPrice() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.TotalPrice()
}

func (s *Store) dispatch(action Action) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = Reduce(s.state, action)
}
