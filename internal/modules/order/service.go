package order

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/kasonde-dev/stockpilot-backend/internal/apperr"
	"github.com/kasonde-dev/stockpilot-backend/internal/modules/auth"
	"github.com/kasonde-dev/stockpilot-backend/internal/modules/user"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// Service defines the order management business logic.
type Service interface {
	// PlaceOrder validates availability, snapshots prices, computes totals,
	// and persists the order while decrementing stock atomically.
	PlaceOrder(ctx context.Context, caller auth.Identity, req PlaceOrderRequest) (*Order, error)

	// Get retrieves a full order by UUID.
	Get(ctx context.Context, id string) (*Order, error)

	// List returns a page of orders plus the total match count.
	List(ctx context.Context, f Filter) ([]*Order, int, error)

	// UpdateStatus advances the fulfillment and/or payment status.
	UpdateStatus(ctx context.Context, id string, req UpdateStatusRequest) (*Order, error)
}

type service struct {
	repo     Repository
	users    user.Repository
	validate *validator.Validate
}

// NewService creates a new order service.
func NewService(repo Repository, users user.Repository) Service {
	return &service{repo: repo, users: users, validate: validator.New()}
}

// validTransitions defines the allowed fulfillment state machine.
var validTransitions = map[Status][]Status{
	StatusPending:    {StatusProcessing, StatusCancelled},
	StatusProcessing: {StatusShipped, StatusCancelled},
	StatusShipped:    {StatusDelivered},
	StatusDelivered:  {},
	StatusCancelled:  {},
}

// validPaymentTransitions defines the allowed payment state machine.
var validPaymentTransitions = map[PaymentStatus][]PaymentStatus{
	PaymentPending:  {PaymentPaid, PaymentFailed},
	PaymentPaid:     {PaymentRefunded},
	PaymentFailed:   {},
	PaymentRefunded: {},
}

func (s *service) PlaceOrder(ctx context.Context, caller auth.Identity, req PlaceOrderRequest) (*Order, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, validationError(err)
	}
	if err := validateCustomer(req.Customer); err != nil {
		return nil, err
	}

	creatorID, err := uuid.Parse(caller.UserID)
	if err != nil {
		return nil, apperr.New(apperr.KindUnauthorized, "Unauthorized")
	}

	// Snapshot read per item: friendly availability errors and immutable
	// price/name copies. The repository re-checks stock conditionally inside
	// the commit transaction, so a lost race cannot oversell.
	items := make([]Item, 0, len(req.Items))
	var subtotal float64
	for _, ir := range req.Items {
		snap, err := s.repo.GetProductSnapshot(ctx, ir.Product)
		if err != nil {
			if apperr.KindOf(err) == apperr.KindNotFound && ir.ProductName != "" {
				return nil, apperr.Newf(apperr.KindNotFound, "Product %s not found", ir.ProductName)
			}
			return nil, err
		}
		if snap.CurrentStock < ir.Quantity {
			return nil, apperr.Newf(apperr.KindValidation,
				"Insufficient stock for %s. Available: %d", snap.Name, snap.CurrentStock)
		}

		productID, err := uuid.Parse(snap.ID)
		if err != nil {
			return nil, fmt.Errorf("invalid product id %q: %w", snap.ID, err)
		}
		lineTotal := round2(snap.UnitPrice * float64(ir.Quantity))
		subtotal += lineTotal
		items = append(items, Item{
			ProductID:   productID,
			ProductName: snap.Name,
			SKU:         snap.SKU,
			Quantity:    ir.Quantity,
			UnitPrice:   snap.UnitPrice,
			TotalPrice:  lineTotal,
		})
	}

	now := time.Now()
	o := &Order{
		ID:             uuid.New(),
		OrderNumber:    generateOrderNumber(),
		Customer:       trimCustomer(req.Customer),
		Items:          items,
		Subtotal:       round2(subtotal),
		Tax:            round2(req.Tax),
		ShippingCost:   round2(req.ShippingCost),
		Status:         StatusPending,
		PaymentStatus:  PaymentPending,
		PaymentMethod:  req.PaymentMethod,
		ShippingMethod: req.ShippingMethod,
		Notes:          req.Notes,
		CreatedBy:      Creator{ID: creatorID, Email: caller.Email},
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	o.TotalAmount = round2(o.Subtotal + o.Tax + o.ShippingCost)

	if creator, err := s.users.GetByID(ctx, caller.UserID); err == nil {
		o.CreatedBy.Name = creator.Name
		o.CreatedBy.Email = creator.Email
	}

	if err := s.repo.Create(ctx, o); err != nil {
		// Order number collision: regenerate once and retry.
		if apperr.KindOf(err) == apperr.KindConflict {
			o.OrderNumber = generateOrderNumber()
			err = s.repo.Create(ctx, o)
		}
		if err != nil {
			return nil, err
		}
	}
	return o, nil
}

func (s *service) Get(ctx context.Context, id string) (*Order, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) List(ctx context.Context, f Filter) ([]*Order, int, error) {
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

func (s *service) UpdateStatus(ctx context.Context, id string, req UpdateStatusRequest) (*Order, error) {
	o, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Status != "" {
		next := Status(strings.ToLower(req.Status))
		if !transitionAllowed(validTransitions, o.Status, next) {
			return nil, apperr.Newf(apperr.KindValidation,
				"Cannot transition order from %s to %s", o.Status, next)
		}
		o.Status = next
	}
	if req.PaymentStatus != "" {
		next := PaymentStatus(strings.ToLower(req.PaymentStatus))
		if !transitionAllowed(validPaymentTransitions, o.PaymentStatus, next) {
			return nil, apperr.Newf(apperr.KindValidation,
				"Cannot transition payment from %s to %s", o.PaymentStatus, next)
		}
		o.PaymentStatus = next
	}
	if req.TrackingNumber != "" {
		o.TrackingNumber = req.TrackingNumber
	}

	if err := s.repo.UpdateStatus(ctx, id, o.Status, o.PaymentStatus, o.TrackingNumber); err != nil {
		return nil, err
	}
	return o, nil
}

// ── helpers ───────────────────────────────────────────────────────────────────

func transitionAllowed[T comparable](table map[T][]T, from, to T) bool {
	for _, allowed := range table[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

func validateCustomer(c Customer) error {
	if strings.TrimSpace(c.Name) == "" || strings.TrimSpace(c.Email) == "" ||
		strings.TrimSpace(c.Phone) == "" || strings.TrimSpace(c.Address) == "" {
		return apperr.New(apperr.KindValidation, "Customer name, email, phone, and address are required")
	}
	return nil
}

func trimCustomer(c Customer) Customer {
	return Customer{
		Name:    strings.TrimSpace(c.Name),
		Email:   strings.ToLower(strings.TrimSpace(c.Email)),
		Phone:   strings.TrimSpace(c.Phone),
		Address: strings.TrimSpace(c.Address),
	}
}

// generateOrderNumber creates an order number: ORD-<base36 millis>-<suffix>.
// Collisions are near impossible but the caller retries once on conflict.
func generateOrderNumber() string {
	ts := strings.ToUpper(strconv.FormatInt(time.Now().UnixMilli(), 36))
	suffix := strings.ToUpper(uuid.New().String()[:4])
	return fmt.Sprintf("ORD-%s-%s", ts, suffix)
}

func round2(v float64) float64 {
	return float64(int(v*100+0.5)) / 100
}

func validationError(err error) error {
	var ve validator.ValidationErrors
	if errors.As(err, &ve) && len(ve) > 0 {
		return apperr.Newf(apperr.KindValidation, "Invalid value for field '%s'", ve[0].Field())
	}
	return apperr.Wrap(apperr.KindValidation, "Invalid request", err)
}
