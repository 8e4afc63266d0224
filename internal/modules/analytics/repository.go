package analytics

import (
	"context"
	"time"
)

// Repository defines the read-only reporting queries over the order and
// product stores.
type Repository interface {
	// CountOrdersSince counts orders created at or after since.
	CountOrdersSince(ctx context.Context, since time.Time) (int, error)

	// PaidRevenueSince sums totals of paid orders created since.
	PaidRevenueSince(ctx context.Context, since time.Time) (float64, error)

	// RecentOrders returns the latest orders with creator names.
	RecentOrders(ctx context.Context, limit int) ([]RecentOrder, error)

	// TopProducts ranks line-item product names by quantity sold since.
	TopProducts(ctx context.Context, since time.Time, limit int) ([]TopProduct, error)

	// CategoryDistribution groups products by category with inventory value.
	CategoryDistribution(ctx context.Context) ([]CategoryStat, error)

	// OrderStatusDistribution histograms order statuses since.
	OrderStatusDistribution(ctx context.Context, since time.Time) ([]StatusCount, error)

	// DailyRevenue buckets paid revenue and order counts per day since.
	DailyRevenue(ctx context.Context, since time.Time) ([]DailyPoint, error)
}
