package analytics

import (
	"context"
	"database/sql"
	"time"
)

type postgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository creates a new PostgreSQL analytics repository.
func NewPostgresRepository(db *sql.DB) Repository {
	return &postgresRepository{db: db}
}

func (r *postgresRepository) CountOrdersSince(ctx context.Context, since time.Time) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM orders WHERE created_at >= $1`, since).Scan(&count)
	return count, err
}

func (r *postgresRepository) PaidRevenueSince(ctx context.Context, since time.Time) (float64, error) {
	var revenue float64
	err := r.db.QueryRowContext(ctx, `
		SELECT COALESCE(SUM(total_amount), 0) FROM orders
		WHERE created_at >= $1 AND payment_status = 'paid'`, since).Scan(&revenue)
	return revenue, err
}

func (r *postgresRepository) RecentOrders(ctx context.Context, limit int) ([]RecentOrder, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT o.order_number, o.customer_name, o.total_amount, o.status,
		       COALESCE(u.name, ''), o.created_at
		FROM orders o
		LEFT JOIN users u ON u.id = o.created_by
		ORDER BY o.created_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []RecentOrder
	for rows.Next() {
		var o RecentOrder
		if err := rows.Scan(&o.OrderNumber, &o.CustomerName, &o.TotalAmount,
			&o.Status, &o.CreatedByName, &o.CreatedAt); err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, rows.Err()
}

func (r *postgresRepository) TopProducts(ctx context.Context, since time.Time, limit int) ([]TopProduct, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT i.product_name, SUM(i.quantity), SUM(i.total_price)
		FROM order_items i
		JOIN orders o ON o.id = i.order_id
		WHERE o.created_at >= $1
		GROUP BY i.product_name
		ORDER BY SUM(i.quantity) DESC
		LIMIT $2`, since, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []TopProduct
	for rows.Next() {
		var p TopProduct
		if err := rows.Scan(&p.ProductName, &p.TotalQuantity, &p.TotalRevenue); err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

func (r *postgresRepository) CategoryDistribution(ctx context.Context) ([]CategoryStat, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT category, COUNT(*), COALESCE(SUM(current_stock * unit_price), 0)
		FROM products
		GROUP BY category
		ORDER BY COUNT(*) DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stats []CategoryStat
	for rows.Next() {
		var s CategoryStat
		if err := rows.Scan(&s.Category, &s.Count, &s.TotalValue); err != nil {
			return nil, err
		}
		stats = append(stats, s)
	}
	return stats, rows.Err()
}

func (r *postgresRepository) OrderStatusDistribution(ctx context.Context, since time.Time) ([]StatusCount, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT status, COUNT(*) FROM orders
		WHERE created_at >= $1
		GROUP BY status`, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var counts []StatusCount
	for rows.Next() {
		var c StatusCount
		if err := rows.Scan(&c.Status, &c.Count); err != nil {
			return nil, err
		}
		counts = append(counts, c)
	}
	return counts, rows.Err()
}

func (r *postgresRepository) DailyRevenue(ctx context.Context, since time.Time) ([]DailyPoint, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT TO_CHAR(created_at, 'YYYY-MM-DD'), COALESCE(SUM(total_amount), 0), COUNT(*)
		FROM orders
		WHERE created_at >= $1 AND payment_status = 'paid'
		GROUP BY TO_CHAR(created_at, 'YYYY-MM-DD')
		ORDER BY 1 ASC`, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var points []DailyPoint
	for rows.Next() {
		var p DailyPoint
		if err := rows.Scan(&p.Date, &p.Revenue, &p.Orders); err != nil {
			return nil, err
		}
		points = append(points, p)
	}
	return points, rows.Err()
}
