package order

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/kasonde-dev/stockpilot-backend/internal/apperr"
)

const orderColumns = `o.id, o.order_number, o.customer_name, o.customer_email,
	o.customer_phone, o.customer_address, o.subtotal, o.tax, o.shipping_cost,
	o.total_amount, o.status, o.payment_status, o.payment_method,
	o.shipping_method, o.tracking_number, o.notes, o.created_by,
	u.name, u.email, o.created_at, o.updated_at`

type postgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository creates a new PostgreSQL order repository.
func NewPostgresRepository(db *sql.DB) Repository {
	return &postgresRepository{db: db}
}

func (r *postgresRepository) GetProductSnapshot(ctx context.Context, productID string) (*ProductSnapshot, error) {
	uid, err := uuid.Parse(productID)
	if err != nil {
		return nil, apperr.Newf(apperr.KindNotFound, "Product %s not found", productID)
	}
	s := &ProductSnapshot{}
	err = r.db.QueryRowContext(ctx,
		`SELECT id, name, sku, unit_price, current_stock FROM products WHERE id=$1`, uid).
		Scan(&s.ID, &s.Name, &s.SKU, &s.UnitPrice, &s.CurrentStock)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.Newf(apperr.KindNotFound, "Product %s not found", productID)
	}
	if err != nil {
		return nil, err
	}
	return s, nil
}

// Create runs the stock decrements and the order insert as one transaction.
// The decrement re-checks availability so a concurrent order cannot oversell
// between the service's snapshot read and this commit.
func (r *postgresRepository) Create(ctx context.Context, o *Order) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, item := range o.Items {
		res, err := tx.ExecContext(ctx, `
			UPDATE products SET
			  current_stock = current_stock - $1,
			  status = CASE
			    WHEN current_stock - $1 = 0 THEN 'out-of-stock'
			    WHEN current_stock - $1 <= reorder_level THEN 'low-stock'
			    WHEN status <> 'discontinued' THEN 'in-stock'
			    ELSE status
			  END,
			  updated_at = NOW()
			WHERE id = $2 AND current_stock >= $1`,
			item.Quantity, item.ProductID)
		if err != nil {
			return fmt.Errorf("decrement stock: %w", err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			var available int
			err := tx.QueryRowContext(ctx,
				`SELECT current_stock FROM products WHERE id=$1`, item.ProductID).Scan(&available)
			if errors.Is(err, sql.ErrNoRows) {
				return apperr.Newf(apperr.KindNotFound, "Product %s not found", item.ProductName)
			}
			if err != nil {
				return err
			}
			return apperr.Newf(apperr.KindValidation,
				"Insufficient stock for %s. Available: %d", item.ProductName, available)
		}
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO orders
		  (id, order_number, customer_name, customer_email, customer_phone,
		   customer_address, subtotal, tax, shipping_cost, total_amount,
		   status, payment_status, payment_method, shipping_method,
		   tracking_number, notes, created_by)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17)`,
		o.ID, o.OrderNumber, o.Customer.Name, o.Customer.Email, o.Customer.Phone,
		o.Customer.Address, o.Subtotal, o.Tax, o.ShippingCost, o.TotalAmount,
		o.Status, o.PaymentStatus, o.PaymentMethod, o.ShippingMethod,
		o.TrackingNumber, o.Notes, o.CreatedBy.ID)
	if isUniqueViolation(err) {
		return apperr.New(apperr.KindConflict, "Order number already exists")
	}
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}

	for _, item := range o.Items {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO order_items
			  (id, order_id, product_id, product_name, sku, quantity, unit_price, total_price)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
			uuid.New(), o.ID, item.ProductID, item.ProductName, item.SKU,
			item.Quantity, item.UnitPrice, item.TotalPrice)
		if err != nil {
			return fmt.Errorf("insert order item: %w", err)
		}
	}

	return tx.Commit()
}

func (r *postgresRepository) GetByID(ctx context.Context, id string) (*Order, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, apperr.New(apperr.KindNotFound, "Order not found")
	}
	o, err := scanOrderFrom(r.db.QueryRowContext(ctx, `
		SELECT `+orderColumns+` FROM orders o
		LEFT JOIN users u ON u.id = o.created_by
		WHERE o.id = $1`, uid))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.New(apperr.KindNotFound, "Order not found")
	}
	if err != nil {
		return nil, err
	}
	items, err := r.loadItems(ctx, []uuid.UUID{o.ID})
	if err != nil {
		return nil, err
	}
	o.Items = items[o.ID]
	return o, nil
}

func (r *postgresRepository) List(ctx context.Context, f Filter) ([]*Order, int, error) {
	where := ""
	var args []interface{}
	if f.Status != "" {
		args = append(args, f.Status)
		where = fmt.Sprintf(" WHERE o.status = $%d", len(args))
	}
	if f.PaymentStatus != "" {
		args = append(args, f.PaymentStatus)
		if where == "" {
			where = fmt.Sprintf(" WHERE o.payment_status = $%d", len(args))
		} else {
			where += fmt.Sprintf(" AND o.payment_status = $%d", len(args))
		}
	}

	var total int
	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM orders o`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	offset := (f.Page - 1) * f.Limit
	args = append(args, f.Limit, offset)
	rows, err := r.db.QueryContext(ctx, fmt.Sprintf(`
		SELECT `+orderColumns+` FROM orders o
		LEFT JOIN users u ON u.id = o.created_by`+where+`
		ORDER BY o.created_at DESC LIMIT $%d OFFSET $%d`, len(args)-1, len(args)),
		args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var orders []*Order
	var ids []uuid.UUID
	for rows.Next() {
		o, err := scanOrderFrom(rows)
		if err != nil {
			return nil, 0, err
		}
		orders = append(orders, o)
		ids = append(ids, o.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	if len(ids) > 0 {
		items, err := r.loadItems(ctx, ids)
		if err != nil {
			return nil, 0, err
		}
		for _, o := range orders {
			o.Items = items[o.ID]
		}
	}
	return orders, total, nil
}

func (r *postgresRepository) UpdateStatus(ctx context.Context, id string, status Status, paymentStatus PaymentStatus, trackingNumber string) error {
	uid, err := uuid.Parse(id)
	if err != nil {
		return apperr.New(apperr.KindNotFound, "Order not found")
	}
	res, err := r.db.ExecContext(ctx, `
		UPDATE orders SET status=$1, payment_status=$2, tracking_number=$3, updated_at=$4
		WHERE id=$5`,
		status, paymentStatus, trackingNumber, time.Now(), uid)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperr.New(apperr.KindNotFound, "Order not found")
	}
	return nil
}

// ── helpers ──────────────────────────────────────────────────────────────────

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanOrderFrom(s rowScanner) (*Order, error) {
	o := &Order{}
	var trackingNumber, notes, creatorName, creatorEmail sql.NullString
	err := s.Scan(&o.ID, &o.OrderNumber, &o.Customer.Name, &o.Customer.Email,
		&o.Customer.Phone, &o.Customer.Address, &o.Subtotal, &o.Tax,
		&o.ShippingCost, &o.TotalAmount, &o.Status, &o.PaymentStatus,
		&o.PaymentMethod, &o.ShippingMethod, &trackingNumber, &notes,
		&o.CreatedBy.ID, &creatorName, &creatorEmail, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return nil, err
	}
	o.TrackingNumber = trackingNumber.String
	o.Notes = notes.String
	o.CreatedBy.Name = creatorName.String
	o.CreatedBy.Email = creatorEmail.String
	return o, nil
}

func (r *postgresRepository) loadItems(ctx context.Context, orderIDs []uuid.UUID) (map[uuid.UUID][]Item, error) {
	ids := make([]string, len(orderIDs))
	for i, id := range orderIDs {
		ids[i] = id.String()
	}
	rows, err := r.db.QueryContext(ctx, `
		SELECT order_id, product_id, product_name, sku, quantity, unit_price, total_price
		FROM order_items WHERE order_id = ANY($1::uuid[]) ORDER BY created_at ASC`,
		pq.Array(ids))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make(map[uuid.UUID][]Item)
	for rows.Next() {
		var orderID uuid.UUID
		var item Item
		if err := rows.Scan(&orderID, &item.ProductID, &item.ProductName,
			&item.SKU, &item.Quantity, &item.UnitPrice, &item.TotalPrice); err != nil {
			return nil, err
		}
		items[orderID] = append(items[orderID], item)
	}
	return items, rows.Err()
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}
