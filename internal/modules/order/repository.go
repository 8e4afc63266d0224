package order

import "context"

// ProductSnapshot is the minimal product view the order workflow reads
// before committing: enough for availability checks and line snapshots.
type ProductSnapshot struct {
	ID           string
	Name         string
	SKU          string
	UnitPrice    float64
	CurrentStock int
}

// Repository defines data access for orders.
type Repository interface {
	// GetProductSnapshot fetches the current name, SKU, price and stock of a
	// product for the pre-commit availability check.
	GetProductSnapshot(ctx context.Context, productID string) (*ProductSnapshot, error)

	// Create persists the order and decrements stock for every line inside a
	// single transaction. Each decrement is conditional on sufficient stock;
	// losing a race surfaces as the same insufficient-stock Validation error
	// and nothing is written. A duplicate order number fails with Conflict.
	Create(ctx context.Context, o *Order) error

	// GetByID retrieves a full order with its items and creator.
	GetByID(ctx context.Context, id string) (*Order, error)

	// List returns a page of orders matching the filter plus the total
	// match count, newest first.
	List(ctx context.Context, f Filter) ([]*Order, int, error)

	// UpdateStatus persists new fulfillment/payment status values.
	UpdateStatus(ctx context.Context, id string, status Status, paymentStatus PaymentStatus, trackingNumber string) error
}
