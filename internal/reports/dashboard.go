package reports

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"shopledger-backend/internal/expense"
	"shopledger-backend/internal/inventory"
	"shopledger-backend/internal/models"
)

type DashboardStats struct {
	TotalInventoryValue decimal.Decimal `json:"total_inventory_value"`
	TotalProducts       int             `json:"total_products"`
	LowStockCount       int             `json:"low_stock_count"`
	TodaySalesRevenue   decimal.Decimal `json:"today_sales_revenue"`
	TodaySalesProfit    decimal.Decimal `json:"today_sales_profit"`
	TotalExpense        decimal.Decimal `json:"total_expense"`
	NetProfit           decimal.Decimal `json:"net_profit"`
	RecentSalesCount    int64           `json:"recent_sales_count"`
}

type WeeklySalesPoint struct {
	Date  string          `json:"date"` // day name: Mon, Tue, ...
	Sales decimal.Decimal `json:"sales"`
}

type DashboardReport struct {
	Stats       DashboardStats     `json:"stats"`
	WeeklySales []WeeklySalesPoint `json:"weekly_sales"`
}

type salesAggregate struct {
	Revenue    decimal.Decimal
	Profit     decimal.Decimal
	SalesCount int64
}

// Dashboard recomputes the snapshot from scratch on every call; nothing is
// cached or materialized, so the figures always match the committed ledger.
// "Today" is the calendar day of now in its own location.
func Dashboard(db *gorm.DB, now time.Time) (*DashboardReport, error) {
	// Inventory value and stock alerts over derived balances.
	stats, err := inventory.ProductStockStats(db)
	if err != nil {
		return nil, err
	}

	totalValue := decimal.Zero
	lowStockCount := 0
	for _, p := range stats {
		if p.StockBalance > 0 {
			totalValue = totalValue.Add(p.PurchasePrice.Mul(decimal.NewFromInt(p.StockBalance)))
		}
		// stock <= min_stock counts as low, including zero and negative
		if p.StockBalance <= int64(p.MinStock) {
			lowStockCount++
		}
	}

	// Today's sales performance.
	todayStart, todayEnd := dayBounds(now)
	var today salesAggregate
	if err := db.Model(&models.Sale{}).
		Select(`COALESCE(SUM(total_amount), 0) AS revenue,
			COALESCE(SUM(total_amount - purchase_price * quantity), 0) AS profit,
			COUNT(id) AS sales_count`).
		Where("NOT is_deleted AND created_at >= ? AND created_at < ?", todayStart, todayEnd).
		Scan(&today).Error; err != nil {
		return nil, err
	}

	// Today's expenses: amounts are signed, so income offsets spend.
	totalExpense, err := expense.DailyTotal(db, now)
	if err != nil {
		return nil, err
	}

	weekly, err := weeklySales(db, now)
	if err != nil {
		return nil, err
	}

	return &DashboardReport{
		Stats: DashboardStats{
			TotalInventoryValue: totalValue,
			TotalProducts:       len(stats),
			LowStockCount:       lowStockCount,
			TodaySalesRevenue:   today.Revenue,
			TodaySalesProfit:    today.Profit,
			TotalExpense:        totalExpense,
			NetProfit:           today.Profit.Add(totalExpense),
			RecentSalesCount:    today.SalesCount,
		},
		WeeklySales: weekly,
	}, nil
}

// weeklySales buckets the trailing 7 calendar days of revenue, oldest first.
func weeklySales(db *gorm.DB, now time.Time) ([]WeeklySalesPoint, error) {
	weekStart, _ := dayBounds(now.AddDate(0, 0, -6))
	_, todayEnd := dayBounds(now)

	var rows []models.Sale
	if err := db.Where("NOT is_deleted AND created_at >= ? AND created_at < ?", weekStart, todayEnd).
		Find(&rows).Error; err != nil {
		return nil, err
	}

	revenueByDay := make(map[string]decimal.Decimal)
	for i := range rows {
		key := rows[i].CreatedAt.Format("2006-01-02")
		revenueByDay[key] = revenueByDay[key].Add(rows[i].TotalAmount)
	}

	weekly := make([]WeeklySalesPoint, 0, 7)
	for i := 6; i >= 0; i-- {
		day := now.AddDate(0, 0, -i)
		weekly = append(weekly, WeeklySalesPoint{
			Date:  day.Format("Mon"),
			Sales: revenueByDay[day.Format("2006-01-02")],
		})
	}
	return weekly, nil
}

func dayBounds(t time.Time) (time.Time, time.Time) {
	start := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	return start, start.AddDate(0, 0, 1)
}
