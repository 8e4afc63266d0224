package inventory

import (
	"time"

	"github.com/google/uuid"
)

// Status is the stock-derived lifecycle state of a product.
type Status string

const (
	StatusInStock      Status = "in-stock"
	StatusLowStock     Status = "low-stock"
	StatusOutOfStock   Status = "out-of-stock"
	StatusDiscontinued Status = "discontinued"
)

// Product is a catalog entry with stock tracking.
type Product struct {
	ID              uuid.UUID  `json:"id"`
	Name            string     `json:"name"`
	SKU             string     `json:"sku"`
	Category        string     `json:"category"`
	Description     string     `json:"description,omitempty"`
	CurrentStock    int        `json:"currentStock"`
	ReorderLevel    int        `json:"reorderLevel"`
	ReorderQuantity int        `json:"reorderQuantity"`
	UnitPrice       float64    `json:"unitPrice"`
	Supplier        string     `json:"supplier"`
	Location        string     `json:"location"`
	Status          Status     `json:"status"`
	LastRestocked   *time.Time `json:"lastRestocked,omitempty"`
	CreatedAt       time.Time  `json:"createdAt"`
	UpdatedAt       time.Time  `json:"updatedAt"`
}

// DeriveStatus computes the status for a stock level. Zero stock forces
// out-of-stock even for a discontinued product; discontinued is otherwise
// sticky above the reorder level.
func DeriveStatus(stock, reorderLevel int, prior Status) Status {
	switch {
	case stock == 0:
		return StatusOutOfStock
	case stock <= reorderLevel:
		return StatusLowStock
	case prior != StatusDiscontinued:
		return StatusInStock
	default:
		return prior
	}
}

// CreateProductRequest is the payload for adding a product.
type CreateProductRequest struct {
	Name            string  `json:"name" validate:"required"`
	SKU             string  `json:"sku" validate:"required"`
	Category        string  `json:"category" validate:"required"`
	Description     string  `json:"description"`
	CurrentStock    int     `json:"currentStock" validate:"gte=0"`
	ReorderLevel    *int    `json:"reorderLevel,omitempty" validate:"omitempty,gte=0"`
	ReorderQuantity *int    `json:"reorderQuantity,omitempty" validate:"omitempty,gte=1"`
	UnitPrice       float64 `json:"unitPrice" validate:"gte=0"`
	Supplier        string  `json:"supplier" validate:"required"`
	Location        string  `json:"location" validate:"required"`
}

// UpdateProductRequest carries a partial product edit. Nil fields are left
// unchanged.
type UpdateProductRequest struct {
	Name            *string  `json:"name,omitempty" validate:"omitempty,min=1"`
	SKU             *string  `json:"sku,omitempty" validate:"omitempty,min=1"`
	Category        *string  `json:"category,omitempty" validate:"omitempty,min=1"`
	Description     *string  `json:"description,omitempty"`
	CurrentStock    *int     `json:"currentStock,omitempty" validate:"omitempty,gte=0"`
	ReorderLevel    *int     `json:"reorderLevel,omitempty" validate:"omitempty,gte=0"`
	ReorderQuantity *int     `json:"reorderQuantity,omitempty" validate:"omitempty,gte=1"`
	UnitPrice       *float64 `json:"unitPrice,omitempty" validate:"omitempty,gte=0"`
	Supplier        *string  `json:"supplier,omitempty" validate:"omitempty,min=1"`
	Location        *string  `json:"location,omitempty" validate:"omitempty,min=1"`
	Status          *Status  `json:"status,omitempty"`
}

// Filter narrows a product listing. Zero values mean "no constraint".
type Filter struct {
	Category string
	Status   Status
	Search   string
	Page     int
	Limit    int
}
