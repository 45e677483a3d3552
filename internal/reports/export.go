package reports

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

// BuildPeriodSummaryWorkbook renders a period summary as an xlsx workbook
// with a Summary sheet and a Daily sheet.
func BuildPeriodSummaryWorkbook(summary *PeriodSummary) (*excelize.File, error) {
	f := excelize.NewFile()

	const summarySheet = "Summary"
	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		return nil, err
	}

	rows := [][]any{
		{"Period", fmt.Sprintf("%s to %s (%d days)", summary.Period.StartDate, summary.Period.EndDate, summary.Period.Days)},
		{},
		{"Sales"},
		{"Total sales", summary.SalesSummary.TotalSalesCount},
		{"Quantity sold", summary.SalesSummary.TotalQuantitySold},
		{"Revenue", summary.SalesSummary.TotalRevenue.String()},
		{"Cost of goods", summary.SalesSummary.TotalCost.String()},
		{"Gross profit", summary.SalesSummary.GrossProfit.String()},
		{"Profit margin %", summary.SalesSummary.ProfitMargin},
		{},
		{"Expenses"},
		{"Total expenses", summary.ExpenseSummary.TotalExpenses.String()},
		{"Other income", summary.ExpenseSummary.TotalIncome.String()},
		{"Net expense", summary.ExpenseSummary.NetExpense.String()},
		{"Entries", summary.ExpenseSummary.ExpenseCount},
		{},
		{"Payments"},
		{"Credit total", summary.CreditDebit.TotalCredit.String()},
		{"Cash total", summary.CreditDebit.TotalCash.String()},
		{"Credit sales", summary.CreditDebit.CreditCount},
		{"Cash sales", summary.CreditDebit.CashCount},
		{"Credit %", summary.CreditDebit.CreditPercentage},
		{},
		{"Overall"},
		{"Net profit", summary.Overall.NetProfit.String()},
		{"Total transactions", summary.Overall.TotalTransactions},
	}
	for i, row := range rows {
		if len(row) == 0 {
			continue
		}
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(summarySheet, cell, &row); err != nil {
			return nil, err
		}
	}

	const dailySheet = "Daily"
	if _, err := f.NewSheet(dailySheet); err != nil {
		return nil, err
	}
	header := []any{"Date", "Revenue", "Profit", "Expenses"}
	if err := f.SetSheetRow(dailySheet, "A1", &header); err != nil {
		return nil, err
	}
	for i, day := range summary.DailyBreakdown {
		row := []any{day.Date, day.Revenue.String(), day.Profit.String(), day.Expenses.String()}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(dailySheet, cell, &row); err != nil {
			return nil, err
		}
	}

	return f, nil
}
