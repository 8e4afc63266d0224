package order

import (
	"context"
	"regexp"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kasonde-dev/stockpilot-backend/internal/apperr"
	"github.com/kasonde-dev/stockpilot-backend/internal/modules/auth"
	"github.com/kasonde-dev/stockpilot-backend/internal/modules/user"
)

type fakeOrderRepo struct {
	products      map[string]*ProductSnapshot
	orders        map[string]*Order
	conflictsLeft int    // Create returns Conflict this many times
	beforeCreate  func() // runs inside Create, before the stock checks
	orderNumbers  []string
}

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{
		products: make(map[string]*ProductSnapshot),
		orders:   make(map[string]*Order),
	}
}

func (f *fakeOrderRepo) addProduct(name, sku string, price float64, stock int) string {
	id := uuid.New().String()
	f.products[id] = &ProductSnapshot{ID: id, Name: name, SKU: sku, UnitPrice: price, CurrentStock: stock}
	return id
}

func (f *fakeOrderRepo) GetProductSnapshot(_ context.Context, productID string) (*ProductSnapshot, error) {
	p, ok := f.products[productID]
	if !ok {
		return nil, apperr.Newf(apperr.KindNotFound, "Product %s not found", productID)
	}
	clone := *p
	return &clone, nil
}

// Create mirrors the postgres repository: conditional decrements and the
// order insert succeed or fail as a unit.
func (f *fakeOrderRepo) Create(_ context.Context, o *Order) error {
	f.orderNumbers = append(f.orderNumbers, o.OrderNumber)
	if f.conflictsLeft > 0 {
		f.conflictsLeft--
		return apperr.New(apperr.KindConflict, "Order number already exists")
	}
	if f.beforeCreate != nil {
		f.beforeCreate()
	}
	for _, item := range o.Items {
		p, ok := f.products[item.ProductID.String()]
		if !ok {
			return apperr.Newf(apperr.KindNotFound, "Product %s not found", item.ProductName)
		}
		if p.CurrentStock < item.Quantity {
			return apperr.Newf(apperr.KindValidation,
				"Insufficient stock for %s. Available: %d", item.ProductName, p.CurrentStock)
		}
	}
	for _, item := range o.Items {
		f.products[item.ProductID.String()].CurrentStock -= item.Quantity
	}
	clone := *o
	f.orders[o.ID.String()] = &clone
	return nil
}

func (f *fakeOrderRepo) GetByID(_ context.Context, id string) (*Order, error) {
	o, ok := f.orders[id]
	if !ok {
		return nil, apperr.New(apperr.KindNotFound, "Order not found")
	}
	clone := *o
	return &clone, nil
}

func (f *fakeOrderRepo) List(_ context.Context, _ Filter) ([]*Order, int, error) {
	var out []*Order
	for _, o := range f.orders {
		out = append(out, o)
	}
	return out, len(out), nil
}

func (f *fakeOrderRepo) UpdateStatus(_ context.Context, id string, status Status, paymentStatus PaymentStatus, trackingNumber string) error {
	o, ok := f.orders[id]
	if !ok {
		return apperr.New(apperr.KindNotFound, "Order not found")
	}
	o.Status = status
	o.PaymentStatus = paymentStatus
	o.TrackingNumber = trackingNumber
	return nil
}

type stubUserRepo struct{ u *user.User }

func (s *stubUserRepo) Create(context.Context, *user.User) error { return nil }
func (s *stubUserRepo) GetByEmail(context.Context, string) (*user.User, error) {
	return s.u, nil
}
func (s *stubUserRepo) GetByID(context.Context, string) (*user.User, error) {
	if s.u == nil {
		return nil, apperr.New(apperr.KindNotFound, "User not found")
	}
	return s.u, nil
}
func (s *stubUserRepo) CountActive(context.Context) (int, error) { return 1, nil }

func newTestService(repo *fakeOrderRepo) (Service, auth.Identity) {
	creator := &user.User{ID: uuid.New(), Name: "Jane Banda", Email: "jane@example.com", Role: user.RoleStaff}
	svc := NewService(repo, &stubUserRepo{u: creator})
	return svc, auth.Identity{UserID: creator.ID.String(), Email: creator.Email, Role: creator.Role}
}

func validRequest(productID string, qty int) PlaceOrderRequest {
	return PlaceOrderRequest{
		Customer: Customer{
			Name:    "Acme Ltd",
			Email:   "orders@acme.test",
			Phone:   "+260970000000",
			Address: "12 Cairo Rd, Lusaka",
		},
		Items:          []ItemRequest{{Product: productID, Quantity: qty}},
		Tax:            2.5,
		ShippingCost:   7.0,
		PaymentMethod:  "card",
		ShippingMethod: "courier",
	}
}

var orderNumberPattern = regexp.MustCompile(`^ORD-[0-9A-Z]+-[0-9A-Z]{4}$`)

func TestPlaceOrder(t *testing.T) {
	repo := newFakeOrderRepo()
	pid := repo.addProduct("Vinyl Banner Roll", "SKU-A", 24.5, 5)
	svc, caller := newTestService(repo)

	o, err := svc.PlaceOrder(context.Background(), caller, validRequest(pid, 3))
	require.NoError(t, err)

	require.Len(t, o.Items, 1)
	item := o.Items[0]
	assert.Equal(t, "Vinyl Banner Roll", item.ProductName)
	assert.Equal(t, "SKU-A", item.SKU)
	assert.Equal(t, 24.5, item.UnitPrice)
	assert.Equal(t, 73.5, item.TotalPrice)

	assert.Equal(t, 73.5, o.Subtotal)
	assert.Equal(t, o.Subtotal+o.Tax+o.ShippingCost, o.TotalAmount)
	assert.Equal(t, StatusPending, o.Status)
	assert.Equal(t, PaymentPending, o.PaymentStatus)
	assert.Regexp(t, orderNumberPattern, o.OrderNumber)

	assert.Equal(t, "Jane Banda", o.CreatedBy.Name)
	assert.Equal(t, "jane@example.com", o.CreatedBy.Email)

	assert.Equal(t, 2, repo.products[pid].CurrentStock, "stock decremented by exactly the ordered quantity")
}

func TestPlaceOrderMultipleLines(t *testing.T) {
	repo := newFakeOrderRepo()
	pidA := repo.addProduct("Vinyl Banner Roll", "SKU-A", 24.5, 5)
	pidB := repo.addProduct("Copy Paper", "SKU-B", 3.25, 40)
	svc, caller := newTestService(repo)

	req := validRequest(pidA, 2)
	req.Items = append(req.Items, ItemRequest{Product: pidB, Quantity: 10})
	o, err := svc.PlaceOrder(context.Background(), caller, req)
	require.NoError(t, err)

	require.Len(t, o.Items, 2)
	var sum float64
	for _, item := range o.Items {
		sum += item.TotalPrice
	}
	assert.Equal(t, sum, o.Subtotal)
	assert.Equal(t, 3, repo.products[pidA].CurrentStock)
	assert.Equal(t, 30, repo.products[pidB].CurrentStock)
}

func TestPlaceOrderSnapshotsAreImmutable(t *testing.T) {
	repo := newFakeOrderRepo()
	pid := repo.addProduct("Vinyl Banner Roll", "SKU-A", 24.5, 5)
	svc, caller := newTestService(repo)

	o, err := svc.PlaceOrder(context.Background(), caller, validRequest(pid, 1))
	require.NoError(t, err)

	// Catalog edits after the fact must not touch the order.
	repo.products[pid].UnitPrice = 99.99
	repo.products[pid].Name = "Renamed"

	stored, err := svc.Get(context.Background(), o.ID.String())
	require.NoError(t, err)
	assert.Equal(t, 24.5, stored.Items[0].UnitPrice)
	assert.Equal(t, "Vinyl Banner Roll", stored.Items[0].ProductName)
}

func TestPlaceOrderInsufficientStock(t *testing.T) {
	repo := newFakeOrderRepo()
	pid := repo.addProduct("Vinyl Banner Roll", "SKU-A", 24.5, 5)
	svc, caller := newTestService(repo)

	_, err := svc.PlaceOrder(context.Background(), caller, validRequest(pid, 10))
	require.Error(t, err)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
	assert.Equal(t, "Insufficient stock for Vinyl Banner Roll. Available: 5", apperr.Message(err))

	assert.Equal(t, 5, repo.products[pid].CurrentStock, "failed order leaves stock unchanged")
	assert.Empty(t, repo.orders, "failed order persists nothing")
}

func TestPlaceOrderProductNotFound(t *testing.T) {
	repo := newFakeOrderRepo()
	svc, caller := newTestService(repo)

	req := validRequest(uuid.New().String(), 1)
	req.Items[0].ProductName = "Vinyl Banner Roll"
	_, err := svc.PlaceOrder(context.Background(), caller, req)
	require.Error(t, err)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
	assert.Equal(t, "Product Vinyl Banner Roll not found", apperr.Message(err))
}

func TestPlaceOrderLostRaceSurfacesAsValidation(t *testing.T) {
	repo := newFakeOrderRepo()
	pid := repo.addProduct("Vinyl Banner Roll", "SKU-A", 24.5, 5)
	svc, caller := newTestService(repo)

	// Deplete stock between the snapshot read and the commit, as a concurrent
	// order would: the conditional decrement refuses and nothing is written.
	repo.beforeCreate = func() { repo.products[pid].CurrentStock = 1 }

	_, err := svc.PlaceOrder(context.Background(), caller, validRequest(pid, 3))
	require.Error(t, err)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
	assert.Equal(t, 1, repo.products[pid].CurrentStock)
	assert.Empty(t, repo.orders)
}

func TestPlaceOrderRegeneratesNumberOnConflict(t *testing.T) {
	repo := newFakeOrderRepo()
	pid := repo.addProduct("Vinyl Banner Roll", "SKU-A", 24.5, 5)
	repo.conflictsLeft = 1
	svc, caller := newTestService(repo)

	o, err := svc.PlaceOrder(context.Background(), caller, validRequest(pid, 1))
	require.NoError(t, err)

	require.Len(t, repo.orderNumbers, 2, "one retry after the conflict")
	assert.NotEqual(t, repo.orderNumbers[0], repo.orderNumbers[1])
	assert.Equal(t, repo.orderNumbers[1], o.OrderNumber)
}

func TestPlaceOrderValidation(t *testing.T) {
	repo := newFakeOrderRepo()
	pid := repo.addProduct("Vinyl Banner Roll", "SKU-A", 24.5, 5)
	svc, caller := newTestService(repo)

	tests := []struct {
		name   string
		mutate func(*PlaceOrderRequest)
	}{
		{"no items", func(r *PlaceOrderRequest) { r.Items = nil }},
		{"zero quantity", func(r *PlaceOrderRequest) { r.Items[0].Quantity = 0 }},
		{"missing payment method", func(r *PlaceOrderRequest) { r.PaymentMethod = "" }},
		{"missing shipping method", func(r *PlaceOrderRequest) { r.ShippingMethod = "" }},
		{"negative tax", func(r *PlaceOrderRequest) { r.Tax = -1 }},
		{"missing customer phone", func(r *PlaceOrderRequest) { r.Customer.Phone = "" }},
		{"missing customer address", func(r *PlaceOrderRequest) { r.Customer.Address = "" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRequest(pid, 1)
			tt.mutate(&req)
			_, err := svc.PlaceOrder(context.Background(), caller, req)
			require.Error(t, err)
			assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
		})
	}
	assert.Empty(t, repo.orders)
}

func TestUpdateStatusTransitions(t *testing.T) {
	repo := newFakeOrderRepo()
	pid := repo.addProduct("Vinyl Banner Roll", "SKU-A", 24.5, 50)
	svc, caller := newTestService(repo)

	o, err := svc.PlaceOrder(context.Background(), caller, validRequest(pid, 1))
	require.NoError(t, err)

	_, err = svc.UpdateStatus(context.Background(), o.ID.String(), UpdateStatusRequest{Status: "delivered"})
	require.Error(t, err)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))

	for _, next := range []string{"processing", "shipped", "delivered"} {
		updated, err := svc.UpdateStatus(context.Background(), o.ID.String(), UpdateStatusRequest{Status: next})
		require.NoError(t, err)
		assert.Equal(t, Status(next), updated.Status)
	}

	_, err = svc.UpdateStatus(context.Background(), o.ID.String(), UpdateStatusRequest{Status: "cancelled"})
	require.Error(t, err, "delivered is terminal")
}

func TestUpdatePaymentStatusTransitions(t *testing.T) {
	repo := newFakeOrderRepo()
	pid := repo.addProduct("Vinyl Banner Roll", "SKU-A", 24.5, 50)
	svc, caller := newTestService(repo)

	o, err := svc.PlaceOrder(context.Background(), caller, validRequest(pid, 1))
	require.NoError(t, err)

	_, err = svc.UpdateStatus(context.Background(), o.ID.String(), UpdateStatusRequest{PaymentStatus: "refunded"})
	require.Error(t, err, "cannot refund an unpaid order")

	updated, err := svc.UpdateStatus(context.Background(), o.ID.String(), UpdateStatusRequest{PaymentStatus: "paid"})
	require.NoError(t, err)
	assert.Equal(t, PaymentPaid, updated.PaymentStatus)

	updated, err = svc.UpdateStatus(context.Background(), o.ID.String(), UpdateStatusRequest{PaymentStatus: "refunded"})
	require.NoError(t, err)
	assert.Equal(t, PaymentRefunded, updated.PaymentStatus)
}

func TestGenerateOrderNumberFormat(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		n := generateOrderNumber()
		assert.Regexp(t, orderNumberPattern, n)
		seen[n] = true
	}
	assert.Greater(t, len(seen), 90, "order numbers are effectively unique")
}
