package user

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/kasonde-dev/stockpilot-backend/internal/apperr"
)

type postgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository creates a new PostgreSQL user repository.
func NewPostgresRepository(db *sql.DB) Repository {
	return &postgresRepository{db: db}
}

func (r *postgresRepository) Create(ctx context.Context, u *User) error {
	query := `
		INSERT INTO users (id, name, email, password_hash, role, department, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.db.ExecContext(ctx, query,
		u.ID, u.Name, u.Email, u.PasswordHash, u.Role, u.Department, u.IsActive)
	if isUniqueViolation(err) {
		return apperr.New(apperr.KindConflict, "Email already registered")
	}
	return err
}

func (r *postgresRepository) GetByEmail(ctx context.Context, email string) (*User, error) {
	return r.scanOne(r.db.QueryRowContext(ctx, `
		SELECT id, name, email, password_hash, role, department, is_active, created_at, updated_at
		FROM users WHERE email = $1`, email))
}

func (r *postgresRepository) GetByID(ctx context.Context, id string) (*User, error) {
	parsedID, err := uuid.Parse(id)
	if err != nil {
		return nil, apperr.New(apperr.KindNotFound, "User not found")
	}
	return r.scanOne(r.db.QueryRowContext(ctx, `
		SELECT id, name, email, password_hash, role, department, is_active, created_at, updated_at
		FROM users WHERE id = $1`, parsedID))
}

func (r *postgresRepository) CountActive(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM users WHERE is_active = TRUE`).Scan(&count)
	return count, err
}

func (r *postgresRepository) scanOne(row *sql.Row) (*User, error) {
	u := &User{}
	var department sql.NullString
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Role,
		&department, &u.IsActive, &u.CreatedAt, &u.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.New(apperr.KindNotFound, "User not found")
	}
	if err != nil {
		return nil, err
	}
	u.Department = department.String
	return u, nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}
