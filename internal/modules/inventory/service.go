package inventory

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/kasonde-dev/stockpilot-backend/internal/apperr"
)

const (
	defaultReorderLevel    = 10
	defaultReorderQuantity = 50
	defaultPageSize        = 20
	maxPageSize            = 100
)

// Service defines the product catalog business logic.
type Service interface {
	Create(ctx context.Context, req CreateProductRequest) (*Product, error)
	Get(ctx context.Context, id string) (*Product, error)
	List(ctx context.Context, f Filter) ([]*Product, int, error)
	Update(ctx context.Context, id string, req UpdateProductRequest) (*Product, error)
	Delete(ctx context.Context, id string) error
}

type service struct {
	repo     Repository
	validate *validator.Validate
}

// NewService creates a new inventory service.
func NewService(repo Repository) Service {
	return &service{repo: repo, validate: validator.New()}
}

func (s *service) Create(ctx context.Context, req CreateProductRequest) (*Product, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, validationError(err)
	}

	reorderLevel := defaultReorderLevel
	if req.ReorderLevel != nil {
		reorderLevel = *req.ReorderLevel
	}
	reorderQuantity := defaultReorderQuantity
	if req.ReorderQuantity != nil {
		reorderQuantity = *req.ReorderQuantity
	}

	now := time.Now()
	p := &Product{
		ID:              uuid.New(),
		Name:            strings.TrimSpace(req.Name),
		SKU:             strings.ToUpper(strings.TrimSpace(req.SKU)),
		Category:        strings.TrimSpace(req.Category),
		Description:     strings.TrimSpace(req.Description),
		CurrentStock:    req.CurrentStock,
		ReorderLevel:    reorderLevel,
		ReorderQuantity: reorderQuantity,
		UnitPrice:       req.UnitPrice,
		Supplier:        strings.TrimSpace(req.Supplier),
		Location:        strings.TrimSpace(req.Location),
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	p.Status = DeriveStatus(p.CurrentStock, p.ReorderLevel, StatusInStock)

	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *service) Get(ctx context.Context, id string) (*Product, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) List(ctx context.Context, f Filter) ([]*Product, int, error) {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 {
		f.Limit = defaultPageSize
	}
	if f.Limit > maxPageSize {
		f.Limit = maxPageSize
	}
	return s.repo.List(ctx, f)
}

func (s *service) Update(ctx context.Context, id string, req UpdateProductRequest) (*Product, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, validationError(err)
	}
	if req.Status != nil && !validStatus(*req.Status) {
		return nil, apperr.New(apperr.KindValidation, "Invalid product status")
	}

	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		p.Name = strings.TrimSpace(*req.Name)
	}
	if req.SKU != nil {
		p.SKU = strings.ToUpper(strings.TrimSpace(*req.SKU))
	}
	if req.Category != nil {
		p.Category = strings.TrimSpace(*req.Category)
	}
	if req.Description != nil {
		p.Description = strings.TrimSpace(*req.Description)
	}
	if req.CurrentStock != nil {
		if *req.CurrentStock > p.CurrentStock {
			now := time.Now()
			p.LastRestocked = &now
		}
		p.CurrentStock = *req.CurrentStock
	}
	if req.ReorderLevel != nil {
		p.ReorderLevel = *req.ReorderLevel
	}
	if req.ReorderQuantity != nil {
		p.ReorderQuantity = *req.ReorderQuantity
	}
	if req.UnitPrice != nil {
		p.UnitPrice = *req.UnitPrice
	}
	if req.Supplier != nil {
		p.Supplier = strings.TrimSpace(*req.Supplier)
	}
	if req.Location != nil {
		p.Location = strings.TrimSpace(*req.Location)
	}
	if req.Status != nil {
		p.Status = *req.Status
	}
	p.Status = DeriveStatus(p.CurrentStock, p.ReorderLevel, p.Status)

	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

func validStatus(st Status) bool {
	switch st {
	case StatusInStock, StatusLowStock, StatusOutOfStock, StatusDiscontinued:
		return true
	}
	return false
}

func validationError(err error) error {
	var ve validator.ValidationErrors
	if errors.As(err, &ve) && len(ve) > 0 {
		return apperr.Newf(apperr.KindValidation, "Invalid value for field '%s'", ve[0].Field())
	}
	return apperr.Wrap(apperr.KindValidation, "Invalid request", err)
}
