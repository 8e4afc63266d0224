package order

import (
	"time"

	"github.com/google/uuid"
)

// Status is the fulfillment lifecycle state of an order.
type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusShipped    Status = "shipped"
	StatusDelivered  Status = "delivered"
	StatusCancelled  Status = "cancelled"
)

// PaymentStatus tracks the payment side of an order.
type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "pending"
	PaymentPaid     PaymentStatus = "paid"
	PaymentFailed   PaymentStatus = "failed"
	PaymentRefunded PaymentStatus = "refunded"
)

// Customer is the embedded recipient record. Orders own this data; there is
// no external customer entity.
type Customer struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

// Item is one line of an order. Product name, SKU and unit price are
// point-in-time snapshots: later catalog edits never change them.
type Item struct {
	ProductID   uuid.UUID `json:"product"`
	ProductName string    `json:"productName"`
	SKU         string    `json:"sku"`
	Quantity    int       `json:"quantity"`
	UnitPrice   float64   `json:"unitPrice"`
	TotalPrice  float64   `json:"totalPrice"`
}

// Creator identifies the user who placed the order, resolved for display.
type Creator struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name,omitempty"`
	Email string    `json:"email,omitempty"`
}

// Order is an immutable record of a sale at the moment it was placed.
type Order struct {
	ID             uuid.UUID     `json:"id"`
	OrderNumber    string        `json:"orderNumber"`
	Customer       Customer      `json:"customer"`
	Items          []Item        `json:"items"`
	Subtotal       float64       `json:"subtotal"`
	Tax            float64       `json:"tax"`
	ShippingCost   float64       `json:"shippingCost"`
	TotalAmount    float64       `json:"totalAmount"`
	Status         Status        `json:"status"`
	PaymentStatus  PaymentStatus `json:"paymentStatus"`
	PaymentMethod  string        `json:"paymentMethod"`
	ShippingMethod string        `json:"shippingMethod"`
	TrackingNumber string        `json:"trackingNumber,omitempty"`
	Notes          string        `json:"notes,omitempty"`
	CreatedBy      Creator       `json:"createdBy"`
	CreatedAt      time.Time     `json:"createdAt"`
	UpdatedAt      time.Time     `json:"updatedAt"`
}

// ItemRequest describes one requested line during order placement. The
// optional product name is only used in error messages for missing products.
type ItemRequest struct {
	Product     string `json:"product" validate:"required"`
	ProductName string `json:"productName,omitempty"`
	Quantity    int    `json:"quantity" validate:"gte=1"`
}

// PlaceOrderRequest is the payload for creating a new order.
type PlaceOrderRequest struct {
	Customer       Customer      `json:"customer"`
	Items          []ItemRequest `json:"items" validate:"required,min=1,dive"`
	Tax            float64       `json:"tax" validate:"gte=0"`
	ShippingCost   float64       `json:"shippingCost" validate:"gte=0"`
	PaymentMethod  string        `json:"paymentMethod" validate:"required"`
	ShippingMethod string        `json:"shippingMethod" validate:"required"`
	Notes          string        `json:"notes,omitempty"`
}

// UpdateStatusRequest advances an order's fulfillment or payment status.
type UpdateStatusRequest struct {
	Status         string `json:"status,omitempty"`
	PaymentStatus  string `json:"paymentStatus,omitempty"`
	TrackingNumber string `json:"trackingNumber,omitempty"`
}

// Filter narrows an order listing. Zero values mean "no constraint".
type Filter struct {
	Status        Status
	PaymentStatus PaymentStatus
	Page          int
	Limit         int
}
