package analytics

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kasonde-dev/stockpilot-backend/internal/modules/inventory"
	"github.com/kasonde-dev/stockpilot-backend/internal/modules/user"
)

type fakeAnalyticsRepo struct {
	report  Report
	failOn  string
	queried []string
}

func (f *fakeAnalyticsRepo) call(name string) error {
	f.queried = append(f.queried, name)
	if f.failOn == name {
		return errors.New(name + " failed")
	}
	return nil
}

func (f *fakeAnalyticsRepo) CountOrdersSince(_ context.Context, _ time.Time) (int, error) {
	return f.report.Overview.TotalOrders, f.call("orders")
}
func (f *fakeAnalyticsRepo) PaidRevenueSince(_ context.Context, _ time.Time) (float64, error) {
	return f.report.Overview.TotalRevenue, f.call("revenue")
}
func (f *fakeAnalyticsRepo) RecentOrders(_ context.Context, _ int) ([]RecentOrder, error) {
	return f.report.RecentOrders, f.call("recent")
}
func (f *fakeAnalyticsRepo) TopProducts(_ context.Context, _ time.Time, _ int) ([]TopProduct, error) {
	return f.report.TopProducts, f.call("top")
}
func (f *fakeAnalyticsRepo) CategoryDistribution(_ context.Context) ([]CategoryStat, error) {
	return f.report.CategoryDistribution, f.call("categories")
}
func (f *fakeAnalyticsRepo) OrderStatusDistribution(_ context.Context, _ time.Time) ([]StatusCount, error) {
	return f.report.OrderStatusDistribution, f.call("statuses")
}
func (f *fakeAnalyticsRepo) DailyRevenue(_ context.Context, _ time.Time) ([]DailyPoint, error) {
	return f.report.DailyRevenue, f.call("daily")
}

type stubProducts struct {
	inventory.Repository
	needingReorder int
	err            error
}

func (s *stubProducts) CountNeedingReorder(context.Context) (int, error) {
	return s.needingReorder, s.err
}

type stubUsers struct {
	user.Repository
	active int
}

func (s *stubUsers) CountActive(context.Context) (int, error) { return s.active, nil }

func TestReportComposesAllSections(t *testing.T) {
	repo := &fakeAnalyticsRepo{report: Report{
		Overview: Overview{TotalOrders: 12, TotalRevenue: 950.5},
		RecentOrders: []RecentOrder{
			{OrderNumber: "ORD-1", CustomerName: "Acme Ltd", TotalAmount: 83, Status: "pending"},
		},
		TopProducts:             []TopProduct{{ProductName: "Vinyl Banner Roll", TotalQuantity: 40, TotalRevenue: 980}},
		CategoryDistribution:    []CategoryStat{{Category: "Printing", Count: 3, TotalValue: 410.5}},
		OrderStatusDistribution: []StatusCount{{Status: "pending", Count: 7}},
		DailyRevenue:            []DailyPoint{{Date: "2026-08-30", Revenue: 120, Orders: 2}},
	}}
	svc := NewService(repo, &stubProducts{needingReorder: 4}, &stubUsers{active: 9}, nil)

	got, err := svc.Report(context.Background(), 30)
	require.NoError(t, err)

	assert.Equal(t, 12, got.Overview.TotalOrders)
	assert.Equal(t, 950.5, got.Overview.TotalRevenue)
	assert.Equal(t, 4, got.Overview.LowStockCount)
	assert.Equal(t, 9, got.Overview.ActiveUsers)
	assert.Equal(t, repo.report.RecentOrders, got.RecentOrders)
	assert.Equal(t, repo.report.TopProducts, got.TopProducts)
	assert.Equal(t, repo.report.CategoryDistribution, got.CategoryDistribution)
	assert.Equal(t, repo.report.OrderStatusDistribution, got.OrderStatusDistribution)
	assert.Equal(t, repo.report.DailyRevenue, got.DailyRevenue)
}

func TestReportDefaultsPeriod(t *testing.T) {
	repo := &fakeAnalyticsRepo{}
	svc := NewService(repo, &stubProducts{}, &stubUsers{}, nil)

	_, err := svc.Report(context.Background(), 0)
	require.NoError(t, err)
	_, err = svc.Report(context.Background(), -7)
	require.NoError(t, err)
}

func TestReportFailsWholesale(t *testing.T) {
	for _, failOn := range []string{"orders", "revenue", "recent", "top", "categories", "statuses", "daily"} {
		t.Run(failOn, func(t *testing.T) {
			repo := &fakeAnalyticsRepo{failOn: failOn}
			svc := NewService(repo, &stubProducts{}, &stubUsers{}, nil)

			got, err := svc.Report(context.Background(), 30)
			require.Error(t, err)
			assert.Nil(t, got, "no partial report on a failed sub-query")
		})
	}
}

func TestReportFailsOnInventoryCount(t *testing.T) {
	repo := &fakeAnalyticsRepo{}
	svc := NewService(repo, &stubProducts{err: errors.New("db gone")}, &stubUsers{}, nil)

	_, err := svc.Report(context.Background(), 30)
	require.Error(t, err)
}
