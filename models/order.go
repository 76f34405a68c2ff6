package models

import "time"

// CartItem is a cart entry resolved against the catalog.
type CartItem struct {
	ProductName string         `json:"productName"`
	Variant     ProductVariant `json:"variant"`
	Quantity    int            `json:"quantity"`
}

// ContactForm is the customer contact and shipping section of the pre-order form.
type ContactForm struct {
	FullName string `json:"full_name" validate:"required,max=200"`
	Email    string `json:"email" validate:"required,email"`
	Phone    string `json:"phone" validate:"required,max=30"`
	City     string `json:"city" validate:"required,city"`
	Address  string `json:"address" validate:"required,max=500"`
	Notes    string `json:"notes,omitempty" validate:"max=2000"`
}

// OrderItem is one line of a submitted order.
type OrderItem struct {
	ProductName string  `json:"productName"`
	Size        string  `json:"size"`
	Quantity    int     `json:"quantity"`
	Price       float64 `json:"price"`
}

// OrderPayload is what gets handed to the order sinks and the notifier.
type OrderPayload struct {
	FullName string      `json:"full_name"`
	Email    string      `json:"email"`
	Phone    string      `json:"phone"`
	City     string      `json:"city"`
	Address  string      `json:"address"`
	Notes    string      `json:"notes,omitempty"`
	Items    []OrderItem `json:"items"`
	Subtotal float64     `json:"subtotal"`
	Discount float64     `json:"discount"`
	Shipping float64     `json:"shipping"`
	Total    float64     `json:"total"`
}

// OrderRecord is a payload stamped with its generated identifier.
type OrderRecord struct {
	ID        string
	CreatedAt time.Time
	Payload   OrderPayload
}

// OrderConfirmation acknowledges a stored order.
type OrderConfirmation struct {
	OrderID string `json:"orderId"`
	Range   string `json:"range,omitempty"`
}

// StoredOrder is an order read back from a sink.
type StoredOrder struct {
	Timestamp string  `json:"timestamp"`
	OrderID   string  `json:"orderId"`
	FullName  string  `json:"fullName"`
	Email     string  `json:"email"`
	Phone     string  `json:"phone"`
	City      string  `json:"city"`
	Address   string  `json:"address"`
	Notes     string  `json:"notes"`
	Items     string  `json:"items"`
	Subtotal  float64 `json:"subtotal"`
	Discount  float64 `json:"discount"`
	Shipping  float64 `json:"shipping"`
	Total     float64 `json:"total"`
}
