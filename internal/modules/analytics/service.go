package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/kasonde-dev/stockpilot-backend/internal/cache"
	"github.com/kasonde-dev/stockpilot-backend/internal/modules/inventory"
	"github.com/kasonde-dev/stockpilot-backend/internal/modules/user"
)

const (
	recentOrderLimit = 5
	topProductLimit  = 10
	reportCacheTTL   = time.Minute
)

// Service builds the analytics aggregate. Any failed sub-query fails the
// whole report; there is no partial-results mode.
type Service interface {
	Report(ctx context.Context, periodDays int) (*Report, error)
}

type service struct {
	repo     Repository
	products inventory.Repository
	users    user.Repository
	cache    *cache.Cache
}

// NewService creates a new analytics service. The cache may be nil.
func NewService(repo Repository, products inventory.Repository, users user.Repository, c *cache.Cache) Service {
	return &service{repo: repo, products: products, users: users, cache: c}
}

func (s *service) Report(ctx context.Context, periodDays int) (*Report, error) {
	if periodDays < 1 {
		periodDays = 30
	}

	key := fmt.Sprintf("analytics:report:%d", periodDays)
	cached := &Report{}
	if s.cache.GetJSON(ctx, key, cached) {
		return cached, nil
	}

	since := time.Now().AddDate(0, 0, -periodDays)
	report := &Report{}

	var err error
	if report.Overview.TotalOrders, err = s.repo.CountOrdersSince(ctx, since); err != nil {
		return nil, err
	}
	if report.Overview.TotalRevenue, err = s.repo.PaidRevenueSince(ctx, since); err != nil {
		return nil, err
	}
	if report.Overview.LowStockCount, err = s.products.CountNeedingReorder(ctx); err != nil {
		return nil, err
	}
	if report.Overview.ActiveUsers, err = s.users.CountActive(ctx); err != nil {
		return nil, err
	}
	if report.RecentOrders, err = s.repo.RecentOrders(ctx, recentOrderLimit); err != nil {
		return nil, err
	}
	if report.TopProducts, err = s.repo.TopProducts(ctx, since, topProductLimit); err != nil {
		return nil, err
	}
	if report.CategoryDistribution, err = s.repo.CategoryDistribution(ctx); err != nil {
		return nil, err
	}
	if report.OrderStatusDistribution, err = s.repo.OrderStatusDistribution(ctx, since); err != nil {
		return nil, err
	}
	if report.DailyRevenue, err = s.repo.DailyRevenue(ctx, since); err != nil {
		return nil, err
	}

	s.cache.SetJSON(ctx, key, report, reportCacheTTL)
	return report, nil
}
