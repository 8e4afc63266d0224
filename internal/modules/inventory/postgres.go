package inventory

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

const productColumns = `id, name, sku, category, description, current_stock,
	reorder_level, reorder_quantity, unit_price, supplier, location, status,
	last_restocked, created_at, updated_at`

type postgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository creates a new PostgreSQL product repository.
func NewPostgresRepository(db *sql.DB) Repository {
	return &postgresRepository{db: db}
}

func (r *postgresRepository) Create(ctx context.Context, p *Product) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO products
		  (id, name, sku, category, description, current_stock,
		   reorder_level, reorder_quantity, unit_price, supplier, location, status, last_restocked)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)`,
		p.ID, p.Name, p.SKU, p.Category, p.Description, p.CurrentStock,
		p.ReorderLevel, p.ReorderQuantity, p.UnitPrice, p.Supplier, p.Location,
		p.Status, p.LastRestocked)
	if isUniqueViolation(err) {
		return apperr.New(apperr.KindConflict, "SKU already exists")
	}
	return err
}

func (r *postgresRepository) GetByID(ctx context.Context, id string) (*Product, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, apperr.New(apperr.KindNotFound, "Product not found")
	}
	return scanProduct(r.db.QueryRowContext(ctx,
		`SELECT `+productColumns+` FROM products WHERE id = $1`, uid))
}

func (r *postgresRepository) List(ctx context.Context, f Filter) ([]*Product, int, error) {
	where := ""
	var args []interface{}
	add := func(clause string, value interface{}) {
		args = append(args, value)
		if where == "" {
			where = " WHERE "
		} else {
			where += " AND "
		}
		where += fmt.Sprintf(clause, len(args))
	}

	if f.Category != "" {
		add("category = $%d", f.Category)
	}
	if f.Status != "" {
		add("status = $%d", f.Status)
	}
	if f.Search != "" {
		pattern := "%" + f.Search + "%"
		args = append(args, pattern)
		n := len(args)
		clause := fmt.Sprintf("(name ILIKE $%d OR sku ILIKE $%d OR supplier ILIKE $%d)", n, n, n)
		if where == "" {
			where = " WHERE " + clause
		} else {
			where += " AND " + clause
		}
	}

	var total int
	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM products`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	offset := (f.Page - 1) * f.Limit
	args = append(args, f.Limit, offset)
	query := fmt.Sprintf(`SELECT `+productColumns+` FROM products`+where+
		` ORDER BY created_at DESC LIMIT $%d OFFSET $%d`, len(args)-1, len(args))

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	products, err := scanProducts(rows)
	return products, total, err
}

func (r *postgresRepository) Update(ctx context.Context, p *Product) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE products SET
		  name=$1, sku=$2, category=$3, description=$4, current_stock=$5,
		  reorder_level=$6, reorder_quantity=$7, unit_price=$8, supplier=$9,
		  location=$10, status=$11, last_restocked=$12, updated_at=$13
		WHERE id=$14`,
		p.Name, p.SKU, p.Category, p.Description, p.CurrentStock,
		p.ReorderLevel, p.ReorderQuantity, p.UnitPrice, p.Supplier,
		p.Location, p.Status, p.LastRestocked, time.Now(), p.ID)
	if isUniqueViolation(err) {
		return apperr.New(apperr.KindConflict, "SKU already exists")
	}
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperr.New(apperr.KindNotFound, "Product not found")
	}
	return nil
}

func (r *postgresRepository) Delete(ctx context.Context, id string) error {
	uid, err := uuid.Parse(id)
	if err != nil {
		return apperr.New(apperr.KindNotFound, "Product not found")
	}
	res, err := r.db.ExecContext(ctx, `DELETE FROM products WHERE id=$1`, uid)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperr.New(apperr.KindNotFound, "Product not found")
	}
	return nil
}

func (r *postgresRepository) ListLowestStock(ctx context.Context, limit int) ([]*Product, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+productColumns+` FROM products ORDER BY current_stock ASC LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanProducts(rows)
}

func (r *postgresRepository) CountNeedingReorder(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM products WHERE status IN ('low-stock','out-of-stock')`).Scan(&count)
	return count, err
}

// ── helpers ──────────────────────────────────────────────────────────────────

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanProductFrom(s rowScanner) (*Product, error) {
	p := &Product{}
	var description sql.NullString
	var lastRestocked sql.NullTime
	err := s.Scan(&p.ID, &p.Name, &p.SKU, &p.Category, &description,
		&p.CurrentStock, &p.ReorderLevel, &p.ReorderQuantity, &p.UnitPrice,
		&p.Supplier, &p.Location, &p.Status, &lastRestocked,
		&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	p.Description = description.String
	if lastRestocked.Valid {
		t := lastRestocked.Time
		p.LastRestocked = &t
	}
	return p, nil
}

func scanProduct(row *sql.Row) (*Product, error) {
	p, err := scanProductFrom(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.New(apperr.KindNotFound, "Product not found")
	}
	return p, err
}

func scanProducts(rows *sql.Rows) ([]*Product, error) {
	var products []*Product
	for rows.Next() {
		p, err := scanProductFrom(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}
