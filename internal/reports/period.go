package reports

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"shopledger-backend/internal/models"
)

type PeriodInfo struct {
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	Days      int    `json:"days"`
}

type SalesSummary struct {
	TotalSalesCount   int64           `json:"total_sales_count"`
	TotalQuantitySold int64           `json:"total_quantity_sold"`
	TotalRevenue      decimal.Decimal `json:"total_revenue"`
	TotalCost         decimal.Decimal `json:"total_cost"`
	GrossProfit       decimal.Decimal `json:"gross_profit"`
	ProfitMargin      float64         `json:"profit_margin"`
}

type ExpenseSummary struct {
	TotalExpenses decimal.Decimal `json:"total_expenses"` // spend, as a positive figure
	TotalIncome   decimal.Decimal `json:"total_income"`
	NetExpense    decimal.Decimal `json:"net_expense"` // signed: income + negative spend
	ExpenseCount  int64           `json:"expense_count"`
}

type CreditDebitSummary struct {
	TotalCredit      decimal.Decimal `json:"total_credit"`
	TotalCash        decimal.Decimal `json:"total_cash"`
	CreditCount      int64           `json:"credit_count"`
	CashCount        int64           `json:"cash_count"`
	CreditPercentage float64         `json:"credit_percentage"`
}

type OverallSummary struct {
	NetProfit         decimal.Decimal `json:"net_profit"`
	TotalTransactions int64           `json:"total_transactions"`
}

type DailyBreakdownPoint struct {
	Date     string          `json:"date"`
	Revenue  decimal.Decimal `json:"revenue"`
	Profit   decimal.Decimal `json:"profit"`
	Expenses decimal.Decimal `json:"expenses"` // signed net for the day
}

type PeriodSummary struct {
	Period         PeriodInfo            `json:"period"`
	SalesSummary   SalesSummary          `json:"sales_summary"`
	ExpenseSummary ExpenseSummary        `json:"expense_summary"`
	CreditDebit    CreditDebitSummary    `json:"credit_debit"`
	Overall        OverallSummary        `json:"overall"`
	DailyBreakdown []DailyBreakdownPoint `json:"daily_breakdown"`
}

type periodSalesAgg struct {
	SalesCount   int64
	QuantitySold int64
	Revenue      decimal.Decimal
	Cost         decimal.Decimal
	CreditTotal  decimal.Decimal
	CashTotal    decimal.Decimal
	CreditCount  int64
	CashCount    int64
}

type periodExpenseAgg struct {
	SpendTotal   decimal.Decimal // negative amounts, summed (comes back <= 0)
	IncomeTotal  decimal.Decimal
	ExpenseCount int64
}

// PeriodFinancialSummary aggregates sales and expenses over [start, end],
// both dates inclusive, interpreted as whole calendar days. Soft-deleted
// rows are excluded everywhere.
func PeriodFinancialSummary(db *gorm.DB, start, end time.Time) (*PeriodSummary, error) {
	rangeStart, _ := dayBounds(start)
	_, rangeEnd := dayBounds(end)
	days := int(rangeEnd.Sub(rangeStart).Hours()/24 + 0.5)

	var sales periodSalesAgg
	if err := db.Model(&models.Sale{}).
		Select(`COUNT(id) AS sales_count,
			COALESCE(SUM(quantity), 0) AS quantity_sold,
			COALESCE(SUM(total_amount), 0) AS revenue,
			COALESCE(SUM(purchase_price * quantity), 0) AS cost,
			COALESCE(SUM(CASE WHEN payment_type = 'Credit' THEN total_amount ELSE 0 END), 0) AS credit_total,
			COALESCE(SUM(CASE WHEN payment_type = 'Debit' THEN total_amount ELSE 0 END), 0) AS cash_total,
			COALESCE(SUM(CASE WHEN payment_type = 'Credit' THEN 1 ELSE 0 END), 0) AS credit_count,
			COALESCE(SUM(CASE WHEN payment_type = 'Debit' THEN 1 ELSE 0 END), 0) AS cash_count`).
		Where("NOT is_deleted AND created_at >= ? AND created_at < ?", rangeStart, rangeEnd).
		Scan(&sales).Error; err != nil {
		return nil, err
	}

	var expenses periodExpenseAgg
	if err := db.Model(&models.Expense{}).
		Select(`COALESCE(SUM(CASE WHEN amount < 0 THEN amount ELSE 0 END), 0) AS spend_total,
			COALESCE(SUM(CASE WHEN amount > 0 THEN amount ELSE 0 END), 0) AS income_total,
			COUNT(id) AS expense_count`).
		Where("NOT is_deleted AND expense_date >= ? AND expense_date < ?", rangeStart, rangeEnd).
		Scan(&expenses).Error; err != nil {
		return nil, err
	}

	grossProfit := sales.Revenue.Sub(sales.Cost)
	netExpense := expenses.IncomeTotal.Add(expenses.SpendTotal)

	profitMargin := 0.0
	if sales.Revenue.IsPositive() {
		profitMargin, _ = grossProfit.Div(sales.Revenue).
			Mul(decimal.NewFromInt(100)).Round(2).Float64()
	}

	creditPercentage := 0.0
	if sales.Revenue.IsPositive() {
		creditPercentage, _ = sales.CreditTotal.Div(sales.Revenue).
			Mul(decimal.NewFromInt(100)).Round(2).Float64()
	}

	breakdown, err := dailyBreakdown(db, rangeStart, rangeEnd, days)
	if err != nil {
		return nil, err
	}

	return &PeriodSummary{
		Period: PeriodInfo{
			StartDate: rangeStart.Format("2006-01-02"),
			EndDate:   end.Format("2006-01-02"),
			Days:      days,
		},
		SalesSummary: SalesSummary{
			TotalSalesCount:   sales.SalesCount,
			TotalQuantitySold: sales.QuantitySold,
			TotalRevenue:      sales.Revenue,
			TotalCost:         sales.Cost,
			GrossProfit:       grossProfit,
			ProfitMargin:      profitMargin,
		},
		ExpenseSummary: ExpenseSummary{
			TotalExpenses: expenses.SpendTotal.Neg(),
			TotalIncome:   expenses.IncomeTotal,
			NetExpense:    netExpense,
			ExpenseCount:  expenses.ExpenseCount,
		},
		CreditDebit: CreditDebitSummary{
			TotalCredit:      sales.CreditTotal,
			TotalCash:        sales.CashTotal,
			CreditCount:      sales.CreditCount,
			CashCount:        sales.CashCount,
			CreditPercentage: creditPercentage,
		},
		Overall: OverallSummary{
			NetProfit:         grossProfit.Add(netExpense),
			TotalTransactions: sales.SalesCount + expenses.ExpenseCount,
		},
		DailyBreakdown: breakdown,
	}, nil
}

// dailyBreakdown emits one point per calendar day in the range, zero-filled
// for days without activity. Rows are fetched once and bucketed in Go so the
// date arithmetic stays portable across drivers.
func dailyBreakdown(db *gorm.DB, rangeStart, rangeEnd time.Time, days int) ([]DailyBreakdownPoint, error) {
	var sales []models.Sale
	if err := db.Where("NOT is_deleted AND created_at >= ? AND created_at < ?", rangeStart, rangeEnd).
		Find(&sales).Error; err != nil {
		return nil, err
	}

	var expenses []models.Expense
	if err := db.Where("NOT is_deleted AND expense_date >= ? AND expense_date < ?", rangeStart, rangeEnd).
		Find(&expenses).Error; err != nil {
		return nil, err
	}

	type dayTotals struct {
		revenue  decimal.Decimal
		profit   decimal.Decimal
		expenses decimal.Decimal
	}
	byDay := make(map[string]dayTotals)

	for i := range sales {
		s := &sales[i]
		key := s.CreatedAt.Format("2006-01-02")
		t := byDay[key]
		t.revenue = t.revenue.Add(s.TotalAmount)
		t.profit = t.profit.Add(s.TotalAmount.Sub(s.PurchasePrice.Mul(decimal.NewFromInt(int64(s.Quantity)))))
		byDay[key] = t
	}
	for i := range expenses {
		e := &expenses[i]
		key := e.ExpenseDate.Format("2006-01-02")
		t := byDay[key]
		t.expenses = t.expenses.Add(e.Amount)
		byDay[key] = t
	}

	breakdown := make([]DailyBreakdownPoint, 0, days)
	for day := rangeStart; day.Before(rangeEnd); day = day.AddDate(0, 0, 1) {
		key := day.Format("2006-01-02")
		t := byDay[key]
		breakdown = append(breakdown, DailyBreakdownPoint{
			Date:     key,
			Revenue:  t.revenue,
			Profit:   t.profit,
			Expenses: t.expenses,
		})
	}
	return breakdown, nil
}
