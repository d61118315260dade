package models

import "time"

// CustomerInfo holds the checkout form fields. TableNumber carries the
// delivery address; the JSON name is kept for compatibility with the
// order-log endpoint.
type CustomerInfo struct {
	Name         string `json:"name"`
	Phone        string `json:"phone"`
	Address      string `json:"tableNumber"`
	DeliveryTime string `json:"deliveryTime,omitempty"`
	Notes        string `json:"notes,omitempty"`
}

// OrderLine is a single purchased item as reported to the order log.
type OrderLine struct {
	Name       string  `json:"name"`
	Weight     string  `json:"weight"`
	Quantity   int     `json:"quantity"`
	Price      float64 `json:"price"`
	TotalPrice float64 `json:"totalPrice"`
}

// OrderPayload is the body POSTed to the external order-submission
// endpoint.
type OrderPayload struct {
	CustomerInfo CustomerInfo `json:"customerInfo"`
	Items        []OrderLine  `json:"items"`
	Total        float64      `json:"total"`
}

// Order is the receipt returned to the customer after a successful
// checkout.
type Order struct {
	ID             string       `json:"id"`
	CustomerInfo   CustomerInfo `json:"customerInfo"`
	Items          []OrderLine  `json:"items"`
	Subtotal       float64      `json:"subtotal"`
	DeliveryCharge float64      `json:"deliveryCharge"`
	Total          float64      `json:"total"`
	PlacedAt       time.Time    `json:"placedAt"`
}
