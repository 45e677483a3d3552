package expense

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"shopledger-backend/internal/models"
)

var ErrExpenseNotFound = errors.New("expense not found")

type CreateExpenseInput struct {
	Name        string
	Amount      decimal.Decimal // negative = expense, positive = income/gift
	Quantity    *int
	Details     string
	ExpenseDate *time.Time
}

func Create(db *gorm.DB, in CreateExpenseInput) (*models.Expense, error) {
	exp := models.Expense{
		Name:        in.Name,
		Amount:      in.Amount,
		Quantity:    1,
		Details:     in.Details,
		ExpenseDate: time.Now(),
	}
	if in.Quantity != nil {
		exp.Quantity = *in.Quantity
	}
	if in.ExpenseDate != nil {
		exp.ExpenseDate = *in.ExpenseDate
	}

	if err := db.Create(&exp).Error; err != nil {
		return nil, err
	}
	return &exp, nil
}

type UpdateExpenseInput struct {
	Name        *string
	Amount      *decimal.Decimal
	Quantity    *int
	Details     *string
	ExpenseDate *time.Time
}

func Update(db *gorm.DB, id uuid.UUID, in UpdateExpenseInput) (*models.Expense, error) {
	var exp models.Expense
	if err := db.First(&exp, "id = ? AND NOT is_deleted", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrExpenseNotFound
		}
		return nil, err
	}

	if in.Name != nil {
		exp.Name = *in.Name
	}
	if in.Amount != nil {
		exp.Amount = *in.Amount
	}
	if in.Quantity != nil {
		exp.Quantity = *in.Quantity
	}
	if in.Details != nil {
		exp.Details = *in.Details
	}
	if in.ExpenseDate != nil {
		exp.ExpenseDate = *in.ExpenseDate
	}

	if err := db.Save(&exp).Error; err != nil {
		return nil, err
	}
	return &exp, nil
}

func Get(db *gorm.DB, id uuid.UUID) (*models.Expense, error) {
	var exp models.Expense
	if err := db.First(&exp, "id = ? AND NOT is_deleted", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrExpenseNotFound
		}
		return nil, err
	}
	return &exp, nil
}

// Delete soft-deletes and returns the marked row, which stays available for
// history but drops out of listings and aggregates.
func Delete(db *gorm.DB, id uuid.UUID) (*models.Expense, error) {
	var exp models.Expense
	if err := db.First(&exp, "id = ? AND NOT is_deleted", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrExpenseNotFound
		}
		return nil, err
	}

	now := time.Now()
	exp.IsDeleted = true
	exp.DeletedAt = &now
	if err := db.Save(&exp).Error; err != nil {
		return nil, err
	}
	return &exp, nil
}

type ListExpensesParams struct {
	Skip           int
	Limit          int
	Date           *time.Time // filter to one calendar day of expense_date
	IncludeDeleted bool
}

func List(db *gorm.DB, params ListExpensesParams) ([]models.Expense, error) {
	if params.Limit <= 0 {
		params.Limit = 100
	}

	q := db.Model(&models.Expense{})
	if !params.IncludeDeleted {
		q = q.Where("NOT is_deleted")
	}
	if params.Date != nil {
		start, end := dayBounds(*params.Date)
		q = q.Where("expense_date >= ? AND expense_date < ?", start, end)
	}

	var rows []models.Expense
	err := q.Order("created_at DESC").
		Offset(params.Skip).Limit(params.Limit).
		Find(&rows).Error
	return rows, err
}

// DailyTotal sums the signed amounts of one calendar day's active expenses.
func DailyTotal(db *gorm.DB, date time.Time) (decimal.Decimal, error) {
	start, end := dayBounds(date)

	var total decimal.Decimal
	err := db.Model(&models.Expense{}).
		Select("COALESCE(SUM(amount), 0)").
		Where("NOT is_deleted AND expense_date >= ? AND expense_date < ?", start, end).
		Scan(&total).Error
	return total, err
}

type DailyExpenseTotal struct {
	Date  string          `json:"date"`
	Total decimal.Decimal `json:"total"`
	Count int             `json:"count"`
}

// TotalsByDateRange buckets active expenses per calendar day over an
// inclusive range. Days without expenses are omitted.
func TotalsByDateRange(db *gorm.DB, start, end time.Time) ([]DailyExpenseTotal, error) {
	rangeStart, _ := dayBounds(start)
	_, rangeEnd := dayBounds(end)

	var rows []models.Expense
	if err := db.Where("NOT is_deleted AND expense_date >= ? AND expense_date < ?", rangeStart, rangeEnd).
		Order("expense_date ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}

	totals := make([]DailyExpenseTotal, 0)
	index := make(map[string]int)
	for i := range rows {
		key := rows[i].ExpenseDate.Format("2006-01-02")
		pos, ok := index[key]
		if !ok {
			pos = len(totals)
			index[key] = pos
			totals = append(totals, DailyExpenseTotal{Date: key, Total: decimal.Zero})
		}
		totals[pos].Total = totals[pos].Total.Add(rows[i].Amount)
		totals[pos].Count++
	}
	return totals, nil
}

func dayBounds(t time.Time) (time.Time, time.Time) {
	start := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	return start, start.AddDate(0, 0, 1)
}
