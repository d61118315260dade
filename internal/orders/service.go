package orders

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/freshkart/storefront-api/internal/cart"
	"github.com/freshkart/storefront-api/internal/models"
)

var (
	ErrEmptyCart      = errors.New("cart is empty")
	ErrMissingName    = errors.New("customer name is required")
	ErrMissingPhone   = errors.New("customer phone is required")
	ErrMissingAddress = errors.New("delivery address is required")
	ErrSubmitFailed   = errors.New("order submission failed")
)

// Service turns a cart and customer details into a submitted order.
type Service struct {
	submit         *SubmitClient
	deliveryCharge float64
	now            func() time.Time
}

// NewService creates an order service. deliveryCharge is the flat fee
// added on top of the cart subtotal.
func NewService(submit *SubmitClient, deliveryCharge float64) *Service {
	return &Service{
		submit:         submit,
		deliveryCharge: deliveryCharge,
		now:            time.Now,
	}
}

// CreateOrder validates the checkout request, submits the order to the
// external log and returns the receipt. On any failure the caller's
// cart state is left untouched so the customer can retry.
func (s *Service) CreateOrder(ctx context.Context, customer models.CustomerInfo, cartState cart.State) (*models.Order, error) {
	if len(cartState.Items) == 0 {
		return nil, ErrEmptyCart
	}
	if customer.Name == "" {
		return nil, ErrMissingName
	}
	if customer.Phone == "" {
		return nil, ErrMissingPhone
	}
	if customer.Address == "" {
		return nil, ErrMissingAddress
	}

	lines := make([]models.OrderLine, 0, len(cartState.Items))
	for _, item := range cartState.Items {
		lines = append(lines, models.OrderLine{
			Name:       item.Name,
			Weight:     item.Weight,
			Quantity:   item.Quantity,
			Price:      item.Price,
			TotalPrice: item.Price * float64(item.Quantity),
		})
	}

	subtotal := cartState.TotalPrice()
	total := subtotal + s.deliveryCharge

	payload := models.OrderPayload{
		CustomerInfo: customer,
		Items:        lines,
		Total:        total,
	}

	if err := s.submit.Submit(ctx, payload); err != nil {
		return nil, errors.Join(ErrSubmitFailed, err)
	}

	return &models.Order{
		ID:             uuid.New().String(),
		CustomerInfo:   customer,
		Items:          lines,
		Subtotal:       subtotal,
		DeliveryCharge: s.deliveryCharge,
		Total:          total,
		PlacedAt:       s.now().UTC(),
	}, nil
}
