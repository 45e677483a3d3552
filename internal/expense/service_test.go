package expense

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"shopledger-backend/internal/database"
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

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 12, 0, 0, 0, time.Local)
}

func TestCreateExpenseDefaults(t *testing.T) {
	db := newTestDB(t)

	exp, err := Create(db, CreateExpenseInput{
		Name:   "Shop rent",
		Amount: decimal.RequireFromString("-150000"),
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if exp.Quantity != 1 {
		t.Errorf("quantity = %d, want default 1", exp.Quantity)
	}
	if exp.ExpenseDate.IsZero() {
		t.Error("expense date not defaulted")
	}
}

func TestListFiltersByCalendarDay(t *testing.T) {
	db := newTestDB(t)

	target := day(2026, 8, 10)
	other := day(2026, 8, 11)
	for _, in := range []CreateExpenseInput{
		{Name: "Fuel", Amount: decimal.RequireFromString("-5000"), ExpenseDate: &target},
		{Name: "Snacks", Amount: decimal.RequireFromString("-2000"), ExpenseDate: &target},
		{Name: "Next day", Amount: decimal.RequireFromString("-9999"), ExpenseDate: &other},
	} {
		if _, err := Create(db, in); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}

	rows, err := List(db, ListExpensesParams{Date: &target})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("got %d rows for the day, want 2", len(rows))
	}
}

func TestSoftDeleteExcludesFromListsAndTotals(t *testing.T) {
	db := newTestDB(t)

	target := day(2026, 8, 10)
	kept, err := Create(db, CreateExpenseInput{
		Name: "Fuel", Amount: decimal.RequireFromString("-5000"), ExpenseDate: &target,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	gone, err := Create(db, CreateExpenseInput{
		Name: "Mistake", Amount: decimal.RequireFromString("-100000"), ExpenseDate: &target,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	deleted, err := Delete(db, gone.ID)
	if err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if !deleted.IsDeleted || deleted.DeletedAt == nil {
		t.Fatalf("row not marked deleted: %+v", deleted)
	}

	rows, err := List(db, ListExpensesParams{Date: &target})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(rows) != 1 || rows[0].ID != kept.ID {
		t.Fatalf("list = %+v, want only the active expense", rows)
	}

	total, err := DailyTotal(db, target)
	if err != nil {
		t.Fatalf("DailyTotal: %v", err)
	}
	if !total.Equal(decimal.RequireFromString("-5000")) {
		t.Errorf("daily total = %s, want -5000 (deleted row excluded)", total)
	}

	rows, err = List(db, ListExpensesParams{Date: &target, IncludeDeleted: true})
	if err != nil {
		t.Fatalf("List include_deleted: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("include_deleted list has %d rows, want 2", len(rows))
	}

	if _, err := Delete(db, gone.ID); !errors.Is(err, ErrExpenseNotFound) {
		t.Errorf("second delete: err = %v, want ErrExpenseNotFound", err)
	}
}

func TestDailyTotalIsSigned(t *testing.T) {
	db := newTestDB(t)

	target := day(2026, 8, 10)
	for _, in := range []CreateExpenseInput{
		{Name: "Rent", Amount: decimal.RequireFromString("-15000"), ExpenseDate: &target},
		{Name: "Cashback", Amount: decimal.RequireFromString("5000"), ExpenseDate: &target},
	} {
		if _, err := Create(db, in); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}

	total, err := DailyTotal(db, target)
	if err != nil {
		t.Fatalf("DailyTotal: %v", err)
	}
	if !total.Equal(decimal.RequireFromString("-10000")) {
		t.Errorf("total = %s, want -10000 (income offsets spend)", total)
	}
}

func TestTotalsByDateRangeBucketsPerDay(t *testing.T) {
	db := newTestDB(t)

	d1 := day(2026, 8, 10)
	d2 := day(2026, 8, 12)
	for _, in := range []CreateExpenseInput{
		{Name: "A", Amount: decimal.RequireFromString("-100"), ExpenseDate: &d1},
		{Name: "B", Amount: decimal.RequireFromString("-200"), ExpenseDate: &d1},
		{Name: "C", Amount: decimal.RequireFromString("-50"), ExpenseDate: &d2},
	} {
		if _, err := Create(db, in); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}

	totals, err := TotalsByDateRange(db, d1, d2)
	if err != nil {
		t.Fatalf("TotalsByDateRange: %v", err)
	}
	if len(totals) != 2 {
		t.Fatalf("got %d buckets, want 2 (empty days omitted)", len(totals))
	}
	if totals[0].Date != "2026-08-10" || !totals[0].Total.Equal(decimal.RequireFromString("-300")) || totals[0].Count != 2 {
		t.Errorf("first bucket = %+v, want 2026-08-10 total -300 count 2", totals[0])
	}
	if totals[1].Date != "2026-08-12" || !totals[1].Total.Equal(decimal.RequireFromString("-50")) || totals[1].Count != 1 {
		t.Errorf("second bucket = %+v, want 2026-08-12 total -50 count 1", totals[1])
	}
}

func TestGetAndUpdateMissingExpense(t *testing.T) {
	db := newTestDB(t)

	if _, err := Get(db, uuid.New()); !errors.Is(err, ErrExpenseNotFound) {
		t.Errorf("Get: err = %v, want ErrExpenseNotFound", err)
	}
	name := "x"
	if _, err := Update(db, uuid.New(), UpdateExpenseInput{Name: &name}); !errors.Is(err, ErrExpenseNotFound) {
		t.Errorf("Update: err = %v, want ErrExpenseNotFound", err)
	}
}
