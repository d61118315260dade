// Package cart implements the shopping cart as a pure state-transition
// function over an immutable item list, plus a mutex-guarded store for
// in-process use.
package cart

import "github.com/freshkart/storefront-api/internal/models"

// State is the complete cart contents. Reduce never mutates a State in
// place; every transition returns a fresh value.
type State struct {
	Items []models.CartItem `json:"items"`
}

// Action is one cart transition. The concrete types below are the only
// implementations.
type Action interface {
	isAction()
}

// AddItem appends a candidate line to the cart. If a line with the same
// identity key already exists its quantity is incremented instead.
type AddItem struct {
	Item models.CartItem
}

// RemoveItem deletes the line with the given identity key. Absent keys
// are a no-op.
type RemoveItem struct {
	Key string
}

// UpdateQuantity sets the absolute quantity of a line. A quantity of
// zero or less removes the line.
type UpdateQuantity struct {
	Key      string
	Quantity int
}

// Clear empties the cart.
type Clear struct{}

func (AddItem) isAction()        {}
func (RemoveItem) isAction()     {}
func (UpdateQuantity) isAction() {}
func (Clear) isAction()          {}

// ItemKey builds the identity key that deduplicates cart lines: the
// same product in two weights is two distinct lines.
func ItemKey(productID, weight string) string {
	return productID + "-" + weight
}

// Reduce applies one action to a state and returns the resulting state.
// Unknown actions leave the state unchanged.
func Reduce(state State, action Action) State {
	switch a := action.(type) {
	case AddItem:
		key := ItemKey(a.Item.ID, a.Item.Weight)
		for i, item := range state.Items {
			if item.ID == key {
				items := append([]models.CartItem{}, state.Items...)
				items[i].Quantity += a.Item.Quantity
				return State{Items: items}
			}
		}
		line := a.Item
		line.ID = key
		return State{Items: append(append([]models.CartItem{}, state.Items...), line)}

	case RemoveItem:
		items := []models.CartItem{}
		for _, item := range state.Items {
			if item.ID != a.Key {
				items = append(items, item)
			}
		}
		return State{Items: items}

	case UpdateQuantity:
		if a.Quantity <= 0 {
			return Reduce(state, RemoveItem{Key: a.Key})
		}
		items := append([]models.CartItem{}, state.Items...)
		for i := range items {
			if items[i].ID == a.Key {
				items[i].Quantity = a.Quantity
			}
		}
		return State{Items: items}

	case Clear:
		return State{Items: []models.CartItem{}}

	default:
		return state
	}
}

// TotalItems is the sum of all line quantities.
func (s State) TotalItems() int {
	total := 0
	for _, item := range s.Items {
		total += item.Quantity
	}
	return total
}

// TotalPrice is the sum of price times quantity over all lines. The
// flat delivery surcharge is added by the checkout layer, not here.
func (s State) TotalPrice() float64 {
	total := 0.0
	for _, item := range s.Items {
		total += item.Price * float64(item.Quantity)
	}
	return total
}
