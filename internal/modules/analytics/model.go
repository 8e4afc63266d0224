package analytics

import "time"

// Overview is the headline numbers block of a report.
type Overview struct {
	TotalOrders   int     `json:"totalOrders"`
	TotalRevenue  float64 `json:"totalRevenue"`
	LowStockCount int     `json:"lowStockCount"`
	ActiveUsers   int     `json:"activeUsers"`
}

// RecentOrder is a trimmed order row for the dashboard feed.
type RecentOrder struct {
	OrderNumber   string    `json:"orderNumber"`
	CustomerName  string    `json:"customerName"`
	TotalAmount   float64   `json:"totalAmount"`
	Status        string    `json:"status"`
	CreatedByName string    `json:"createdByName,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
}

// TopProduct aggregates sold quantity per snapshot product name.
type TopProduct struct {
	ProductName   string  `json:"productName"`
	TotalQuantity int     `json:"totalQuantity"`
	TotalRevenue  float64 `json:"totalRevenue"`
}

// CategoryStat is product count and inventory value per category.
type CategoryStat struct {
	Category   string  `json:"category"`
	Count      int     `json:"count"`
	TotalValue float64 `json:"totalValue"`
}

// StatusCount is an order-status histogram bucket.
type StatusCount struct {
	Status string `json:"status"`
	Count  int    `json:"count"`
}

// DailyPoint is one day of the revenue series.
type DailyPoint struct {
	Date    string  `json:"date"`
	Revenue float64 `json:"revenue"`
	Orders  int     `json:"orders"`
}

// Report is the full analytics aggregate for a lookback window.
type Report struct {
	Overview                Overview      `json:"overview"`
	RecentOrders            []RecentOrder `json:"recentOrders"`
	TopProducts             []TopProduct  `json:"topProducts"`
	CategoryDistribution    []CategoryStat `json:"categoryDistribution"`
	OrderStatusDistribution []StatusCount `json:"orderStatusDistribution"`
	DailyRevenue            []DailyPoint  `json:"dailyRevenue"`
}
