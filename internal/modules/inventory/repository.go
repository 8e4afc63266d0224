package inventory

import "context"

// Repository defines product data storage.
type Repository interface {
	// Create persists a new product. Fails with Conflict if the SKU exists.
	Create(ctx context.Context, p *Product) error

	// GetByID retrieves a product by UUID.
	GetByID(ctx context.Context, id string) (*Product, error)

	// List returns a page of products matching the filter plus the total
	// match count.
	List(ctx context.Context, f Filter) ([]*Product, int, error)

	// Update persists all fields of p. Fails with Conflict on SKU collision.
	Update(ctx context.Context, p *Product) error

	// Delete removes a product by UUID.
	Delete(ctx context.Context, id string) error

	// ListLowestStock returns up to limit products ordered by stock ascending.
	ListLowestStock(ctx context.Context, limit int) ([]*Product, error)

	// CountNeedingReorder counts products that are low or out of stock.
	CountNeedingReorder(ctx context.Context) (int, error)
}
