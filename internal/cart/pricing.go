package cart

import (
	"errors"
	"fmt"
)

var ErrUnknownWeight = errors.New("unknown weight option")

// WeightOption is one selectable portion size. The multiplier applies
// to the product base price (the 250g price).
type WeightOption struct {
	Value      string  `json:"value"`
	Label      string  `json:"label"`
	Multiplier float64 `json:"multiplier"`
}

// WeightOptions are the portion sizes offered for every product.
var WeightOptions = []WeightOption{
	{Value: "250g", Label: "250g", Multiplier: 1},
	{Value: "500g", Label: "500g", Multiplier: 2},
	{Value: "750g", Label: "750g", Multiplier: 3},
	{Value: "1kg", Label: "1kg", Multiplier: 4},
}

// UnitPrice computes the price of one unit of the given weight from the
// product base price. Weights outside WeightOptions are rejected.
func UnitPrice(basePrice float64, weight string) (float64, error) {
	for _, option := range WeightOptions {
		if option.Value == weight {
			return basePrice * option.Multiplier, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownWeight, weight)
}
