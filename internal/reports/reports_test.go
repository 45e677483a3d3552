package reports

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"shopledger-backend/internal/database"
	"shopledger-backend/internal/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func seedProduct(t *testing.T, db *gorm.DB, name, price string, minStock, stock int) *models.Product {
	t.Helper()
	product := models.Product{
		Name:          name,
		Unit:          "pcs",
		PurchasePrice: decimal.RequireFromString(price),
		MinStock:      minStock,
	}
	if err := db.Create(&product).Error; err != nil {
		t.Fatalf("seed product: %v", err)
	}
	if stock != 0 {
		typ := models.TransactionIn
		qty := stock
		if stock < 0 {
			typ = models.TransactionOut
			qty = -stock
		}
		trx := models.StockTransaction{ProductID: product.ID, Quantity: qty, Type: typ}
		if err := db.Create(&trx).Error; err != nil {
			t.Fatalf("seed stock: %v", err)
		}
	}
	return &product
}

func seedSale(t *testing.T, db *gorm.DB, product *models.Product, qty int, sell, cost string, payment models.PaymentType, at time.Time) *models.Sale {
	t.Helper()
	sellDec := decimal.RequireFromString(sell)
	sale := models.Sale{
		ProductID:     product.ID,
		CustomerName:  "Customer",
		Quantity:      qty,
		SellingPrice:  sellDec,
		PurchasePrice: decimal.RequireFromString(cost),
		TotalAmount:   sellDec.Mul(decimal.NewFromInt(int64(qty))),
		PaymentType:   payment,
		CreatedAt:     at,
	}
	if err := db.Create(&sale).Error; err != nil {
		t.Fatalf("seed sale: %v", err)
	}
	return &sale
}

func seedExpense(t *testing.T, db *gorm.DB, amount string, at time.Time) *models.Expense {
	t.Helper()
	exp := models.Expense{
		Name:        "Expense",
		Amount:      decimal.RequireFromString(amount),
		Quantity:    1,
		ExpenseDate: at,
	}
	if err := db.Create(&exp).Error; err != nil {
		t.Fatalf("seed expense: %v", err)
	}
	return &exp
}

func TestDashboardStats(t *testing.T) {
	db := newTestDB(t)
	now := time.Now()

	healthy := seedProduct(t, db, "Healthy", "100.00", 5, 10) // value 1000
	seedProduct(t, db, "At threshold", "50.00", 5, 5)         // low, value 250
	seedProduct(t, db, "Out of stock", "20.00", 5, 0)         // low, no value
	seedProduct(t, db, "Oversold", "20.00", 5, -3)            // low, negative never counts as value

	seedSale(t, db, healthy, 2, "150.00", "100.00", models.PaymentDebit, now)
	seedExpense(t, db, "-40.00", now)

	// Yesterday's activity must not leak into today's figures.
	seedSale(t, db, healthy, 1, "999.00", "100.00", models.PaymentDebit, now.AddDate(0, 0, -1))

	report, err := Dashboard(db, now)
	if err != nil {
		t.Fatalf("Dashboard: %v", err)
	}
	stats := report.Stats

	if stats.TotalProducts != 4 {
		t.Errorf("total products = %d, want 4", stats.TotalProducts)
	}
	if stats.LowStockCount != 3 {
		t.Errorf("low stock = %d, want 3 (threshold, zero and negative)", stats.LowStockCount)
	}
	if !stats.TotalInventoryValue.Equal(decimal.RequireFromString("1250.00")) {
		t.Errorf("inventory value = %s, want 1250.00", stats.TotalInventoryValue)
	}
	if !stats.TodaySalesRevenue.Equal(decimal.RequireFromString("300.00")) {
		t.Errorf("today revenue = %s, want 300.00", stats.TodaySalesRevenue)
	}
	if !stats.TodaySalesProfit.Equal(decimal.RequireFromString("100.00")) {
		t.Errorf("today profit = %s, want 100.00", stats.TodaySalesProfit)
	}
	if !stats.TotalExpense.Equal(decimal.RequireFromString("-40.00")) {
		t.Errorf("today expense = %s, want -40.00", stats.TotalExpense)
	}
	if !stats.NetProfit.Equal(decimal.RequireFromString("60.00")) {
		t.Errorf("net profit = %s, want 60.00", stats.NetProfit)
	}
	if stats.RecentSalesCount != 1 {
		t.Errorf("today sales count = %d, want 1", stats.RecentSalesCount)
	}
}

func TestDashboardWeeklySales(t *testing.T) {
	db := newTestDB(t)
	now := time.Now()
	product := seedProduct(t, db, "Widget", "10.00", 5, 100)

	seedSale(t, db, product, 1, "30.00", "10.00", models.PaymentDebit, now)
	seedSale(t, db, product, 2, "30.00", "10.00", models.PaymentDebit, now.AddDate(0, 0, -2))
	// Outside the trailing week.
	seedSale(t, db, product, 5, "30.00", "10.00", models.PaymentDebit, now.AddDate(0, 0, -8))

	report, err := Dashboard(db, now)
	if err != nil {
		t.Fatalf("Dashboard: %v", err)
	}
	weekly := report.WeeklySales
	if len(weekly) != 7 {
		t.Fatalf("weekly has %d points, want 7", len(weekly))
	}
	if !weekly[6].Sales.Equal(decimal.RequireFromString("30.00")) {
		t.Errorf("today bucket = %s, want 30.00", weekly[6].Sales)
	}
	if !weekly[4].Sales.Equal(decimal.RequireFromString("60.00")) {
		t.Errorf("two days ago bucket = %s, want 60.00", weekly[4].Sales)
	}
	if weekly[6].Date != now.Format("Mon") {
		t.Errorf("last label = %q, want today's day name %q", weekly[6].Date, now.Format("Mon"))
	}
	var total decimal.Decimal
	for _, p := range weekly {
		total = total.Add(p.Sales)
	}
	if !total.Equal(decimal.RequireFromString("90.00")) {
		t.Errorf("weekly total = %s, want 90.00 (older sale excluded)", total)
	}
}

func TestPeriodFinancialSummary(t *testing.T) {
	db := newTestDB(t)
	product := seedProduct(t, db, "Widget", "10.00", 5, 100)

	d1 := time.Date(2026, 8, 10, 9, 0, 0, 0, time.Local)
	d2 := time.Date(2026, 8, 11, 9, 0, 0, 0, time.Local)

	seedSale(t, db, product, 2, "150.00", "100.00", models.PaymentCredit, d1)
	seedSale(t, db, product, 1, "80.00", "50.00", models.PaymentDebit, d2)
	seedExpense(t, db, "-40.00", d1)
	seedExpense(t, db, "10.00", d2)

	// Soft-deleted rows in range are invisible to reporting.
	deletedAt := d1
	deletedSale := seedSale(t, db, product, 9, "999.00", "1.00", models.PaymentCredit, d1)
	db.Model(deletedSale).Updates(map[string]any{"is_deleted": true, "deleted_at": deletedAt})
	deletedExp := seedExpense(t, db, "-77777.00", d1)
	db.Model(deletedExp).Updates(map[string]any{"is_deleted": true, "deleted_at": deletedAt})

	summary, err := PeriodFinancialSummary(db, d1, d2.AddDate(0, 0, 1)) // 3-day window
	if err != nil {
		t.Fatalf("PeriodFinancialSummary: %v", err)
	}

	if summary.Period.Days != 3 {
		t.Errorf("days = %d, want 3", summary.Period.Days)
	}

	ss := summary.SalesSummary
	if ss.TotalSalesCount != 2 || ss.TotalQuantitySold != 3 {
		t.Errorf("sales count/qty = %d/%d, want 2/3", ss.TotalSalesCount, ss.TotalQuantitySold)
	}
	if !ss.TotalRevenue.Equal(decimal.RequireFromString("380.00")) {
		t.Errorf("revenue = %s, want 380.00", ss.TotalRevenue)
	}
	if !ss.TotalCost.Equal(decimal.RequireFromString("250.00")) {
		t.Errorf("cost = %s, want 250.00", ss.TotalCost)
	}
	if !ss.GrossProfit.Equal(decimal.RequireFromString("130.00")) {
		t.Errorf("gross profit = %s, want 130.00", ss.GrossProfit)
	}
	if ss.ProfitMargin != 34.21 {
		t.Errorf("profit margin = %v, want 34.21", ss.ProfitMargin)
	}

	es := summary.ExpenseSummary
	if !es.TotalExpenses.Equal(decimal.RequireFromString("40.00")) {
		t.Errorf("total expenses = %s, want 40.00 (positive figure)", es.TotalExpenses)
	}
	if !es.TotalIncome.Equal(decimal.RequireFromString("10.00")) {
		t.Errorf("total income = %s, want 10.00", es.TotalIncome)
	}
	if !es.NetExpense.Equal(decimal.RequireFromString("-30.00")) {
		t.Errorf("net expense = %s, want -30.00", es.NetExpense)
	}
	if es.ExpenseCount != 2 {
		t.Errorf("expense count = %d, want 2", es.ExpenseCount)
	}

	cd := summary.CreditDebit
	if !cd.TotalCredit.Equal(decimal.RequireFromString("300.00")) || !cd.TotalCash.Equal(decimal.RequireFromString("80.00")) {
		t.Errorf("credit/cash = %s/%s, want 300.00/80.00", cd.TotalCredit, cd.TotalCash)
	}
	if cd.CreditCount != 1 || cd.CashCount != 1 {
		t.Errorf("credit/cash counts = %d/%d, want 1/1", cd.CreditCount, cd.CashCount)
	}
	if cd.CreditPercentage != 78.95 {
		t.Errorf("credit percentage = %v, want 78.95", cd.CreditPercentage)
	}

	if !summary.Overall.NetProfit.Equal(decimal.RequireFromString("100.00")) {
		t.Errorf("net profit = %s, want 100.00 (130 gross - 30 net expense)", summary.Overall.NetProfit)
	}
	if summary.Overall.TotalTransactions != 4 {
		t.Errorf("total transactions = %d, want 4", summary.Overall.TotalTransactions)
	}

	bd := summary.DailyBreakdown
	if len(bd) != 3 {
		t.Fatalf("breakdown has %d days, want 3", len(bd))
	}
	if bd[1].Date != "2026-08-11" {
		t.Errorf("second day = %q, want 2026-08-11", bd[1].Date)
	}
	if !bd[1].Revenue.Equal(decimal.RequireFromString("80.00")) ||
		!bd[1].Profit.Equal(decimal.RequireFromString("30.00")) ||
		!bd[1].Expenses.Equal(decimal.RequireFromString("10.00")) {
		t.Errorf("second day = %+v, want revenue 80.00 profit 30.00 expenses 10.00", bd[1])
	}
	if !bd[2].Revenue.IsZero() || !bd[2].Profit.IsZero() || !bd[2].Expenses.IsZero() {
		t.Errorf("empty third day not zero-filled: %+v", bd[2])
	}
}

func TestPeriodSummaryEmptyRange(t *testing.T) {
	db := newTestDB(t)

	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.Local)
	summary, err := PeriodFinancialSummary(db, start, start)
	if err != nil {
		t.Fatalf("PeriodFinancialSummary: %v", err)
	}
	if summary.SalesSummary.ProfitMargin != 0 || summary.CreditDebit.CreditPercentage != 0 {
		t.Errorf("zero-revenue guards failed: margin=%v credit%%=%v",
			summary.SalesSummary.ProfitMargin, summary.CreditDebit.CreditPercentage)
	}
	if len(summary.DailyBreakdown) != 1 {
		t.Errorf("breakdown has %d days, want 1", len(summary.DailyBreakdown))
	}
}

func TestBuildPeriodSummaryWorkbook(t *testing.T) {
	summary := &PeriodSummary{
		Period: PeriodInfo{StartDate: "2026-08-10", EndDate: "2026-08-12", Days: 3},
		DailyBreakdown: []DailyBreakdownPoint{
			{Date: "2026-08-10"},
			{Date: "2026-08-11"},
			{Date: "2026-08-12"},
		},
	}

	f, err := BuildPeriodSummaryWorkbook(summary)
	if err != nil {
		t.Fatalf("BuildPeriodSummaryWorkbook: %v", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	want := map[string]bool{"Summary": false, "Daily": false}
	for _, s := range sheets {
		if _, ok := want[s]; ok {
			want[s] = true
		}
	}
	for name, found := range want {
		if !found {
			t.Errorf("sheet %q missing, have %v", name, sheets)
		}
	}

	cell, err := f.GetCellValue("Daily", "A2")
	if err != nil {
		t.Fatalf("GetCellValue: %v", err)
	}
	if cell != "2026-08-10" {
		t.Errorf("Daily!A2 = %q, want first breakdown date", cell)
	}
}
