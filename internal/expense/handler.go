package expense

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"shopledger-backend/internal/audit"
	"shopledger-backend/internal/auth"
	"shopledger-backend/internal/database"
	"shopledger-backend/internal/models"
	"shopledger-backend/internal/validation"
)

type CreateExpenseRequest struct {
	Name        string          `json:"name" validate:"required,max=255"`
	Amount      decimal.Decimal `json:"amount"` // negative = expense, positive = income
	Quantity    *int            `json:"quantity" validate:"omitempty,gt=0"`
	Details     string          `json:"details"`
	ExpenseDate *time.Time      `json:"expense_date"`
}

type UpdateExpenseRequest struct {
	Name        *string          `json:"name" validate:"omitempty,min=1,max=255"`
	Amount      *decimal.Decimal `json:"amount"`
	Quantity    *int             `json:"quantity" validate:"omitempty,gt=0"`
	Details     *string          `json:"details"`
	ExpenseDate *time.Time       `json:"expense_date"`
}

type ExpenseResponse struct {
	ID          uuid.UUID       `json:"id"`
	Name        string          `json:"name"`
	Amount      decimal.Decimal `json:"amount"`
	Quantity    int             `json:"quantity"`
	Details     string          `json:"details"`
	ExpenseDate time.Time       `json:"expense_date"`
	CreatedAt   time.Time       `json:"created_at"`
	IsDeleted   bool            `json:"is_deleted"`
	DeletedAt   *time.Time      `json:"deleted_at"`
}

// GET /api/expenses?skip=&limit=&expense_date=&include_deleted=
func ListExpensesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		params := ListExpensesParams{
			Skip:           c.QueryInt("skip", 0),
			Limit:          c.QueryInt("limit", 100),
			IncludeDeleted: c.QueryBool("include_deleted", false),
		}

		if dateStr := c.Query("expense_date"); dateStr != "" {
			d, err := time.ParseInLocation("2006-01-02", dateStr, time.Local)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "expense_date must be 'YYYY-MM-DD'")
			}
			params.Date = &d
		}

		rows, err := List(database.DB, params)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not list expenses")
		}

		resp := make([]ExpenseResponse, 0, len(rows))
		for i := range rows {
			resp = append(resp, toExpenseResponse(&rows[i]))
		}
		return c.JSON(resp)
	}
}

// GET /api/expenses/daily-total?expense_date=YYYY-MM-DD
func DailyTotalHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		dateStr := c.Query("expense_date")
		if dateStr == "" {
			return fiber.NewError(fiber.StatusBadRequest, "expense_date is required")
		}
		d, err := time.ParseInLocation("2006-01-02", dateStr, time.Local)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "expense_date must be 'YYYY-MM-DD'")
		}

		total, err := DailyTotal(database.DB, d)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not compute daily total")
		}

		return c.JSON(fiber.Map{
			"date":  dateStr,
			"total": total,
		})
	}
}

// GET /api/expenses/date-range?start_date=&end_date=
func DateRangeTotalsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start, end, err := parseDateRange(c.Query("start_date"), c.Query("end_date"))
		if err != nil {
			return err
		}

		totals, err := TotalsByDateRange(database.DB, start, end)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not compute range totals")
		}
		return c.JSON(totals)
	}
}

// GET /api/expenses/:id
func GetExpenseHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := uuid.Parse(c.Params("id"))
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid expense id")
		}

		exp, err := Get(database.DB, id)
		if err != nil {
			if errors.Is(err, ErrExpenseNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "Expense not found")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "Could not load expense")
		}
		return c.JSON(toExpenseResponse(exp))
	}
}

// POST /api/expenses
func CreateExpenseHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateExpenseRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}
		body.Name = strings.TrimSpace(body.Name)
		if err := validation.Struct(body); err != nil {
			return err
		}
		if body.Amount.IsZero() {
			return fiber.NewError(fiber.StatusBadRequest, "amount must be non-zero (negative for expenses, positive for income)")
		}

		exp, err := Create(database.DB, CreateExpenseInput{
			Name:        body.Name,
			Amount:      body.Amount,
			Quantity:    body.Quantity,
			Details:     body.Details,
			ExpenseDate: body.ExpenseDate,
		})
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not create expense")
		}

		writeExpenseLog(c, models.AuditActionCreate, exp, nil,
			fmt.Sprintf("Expense created: %s %s", exp.Name, exp.Amount))

		return c.Status(fiber.StatusCreated).JSON(toExpenseResponse(exp))
	}
}

// PUT /api/expenses/:id
func UpdateExpenseHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := uuid.Parse(c.Params("id"))
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid expense id")
		}

		var body UpdateExpenseRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}
		if err := validation.Struct(body); err != nil {
			return err
		}

		exp, err := Update(database.DB, id, UpdateExpenseInput{
			Name:        body.Name,
			Amount:      body.Amount,
			Quantity:    body.Quantity,
			Details:     body.Details,
			ExpenseDate: body.ExpenseDate,
		})
		if err != nil {
			if errors.Is(err, ErrExpenseNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "Expense not found")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "Could not update expense")
		}

		writeExpenseLog(c, models.AuditActionUpdate, exp, nil,
			fmt.Sprintf("Expense updated: %s", exp.ID))

		return c.JSON(toExpenseResponse(exp))
	}
}

// DELETE /api/expenses/:id — soft delete; responds with the marked row.
func DeleteExpenseHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := uuid.Parse(c.Params("id"))
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid expense id")
		}

		exp, err := Delete(database.DB, id)
		if err != nil {
			if errors.Is(err, ErrExpenseNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "Expense not found")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "Could not delete expense")
		}

		writeExpenseLog(c, models.AuditActionDelete, nil, exp,
			fmt.Sprintf("Expense deleted: %s", exp.Name))

		return c.JSON(toExpenseResponse(exp))
	}
}

func parseDateRange(startStr, endStr string) (time.Time, time.Time, error) {
	if startStr == "" || endStr == "" {
		return time.Time{}, time.Time{}, fiber.NewError(fiber.StatusBadRequest, "start_date and end_date are required (YYYY-MM-DD)")
	}
	start, err := time.ParseInLocation("2006-01-02", startStr, time.Local)
	if err != nil {
		return time.Time{}, time.Time{}, fiber.NewError(fiber.StatusBadRequest, "start_date is invalid")
	}
	end, err := time.ParseInLocation("2006-01-02", endStr, time.Local)
	if err != nil {
		return time.Time{}, time.Time{}, fiber.NewError(fiber.StatusBadRequest, "end_date is invalid")
	}
	if end.Before(start) {
		return time.Time{}, time.Time{}, fiber.NewError(fiber.StatusBadRequest, "end_date must not be before start_date")
	}
	return start, end, nil
}

func writeExpenseLog(c *fiber.Ctx, action models.AuditAction, after, before *models.Expense, description string) {
	userID, _ := c.Locals(auth.CtxUserIDKey).(uuid.UUID)
	userEmail, _ := c.Locals(auth.CtxUserEmailKey).(string)

	entityID := uuid.Nil
	var beforeData, afterData any
	if before != nil {
		entityID = before.ID
		beforeData = toExpenseResponse(before)
	}
	if after != nil {
		entityID = after.ID
		afterData = toExpenseResponse(after)
	}

	if err := audit.WriteLog(audit.LogOptions{
		UserID:      userID,
		UserName:    userEmail,
		EntityType:  "expense",
		EntityID:    entityID,
		Action:      action,
		Description: description,
		Before:      beforeData,
		After:       afterData,
	}); err != nil {
		logrus.WithError(err).Warn("audit log write failed")
	}
}

func toExpenseResponse(e *models.Expense) ExpenseResponse {
	return ExpenseResponse{
		ID:          e.ID,
		Name:        e.Name,
		Amount:      e.Amount,
		Quantity:    e.Quantity,
		Details:     e.Details,
		ExpenseDate: e.ExpenseDate,
		CreatedAt:   e.CreatedAt,
		IsDeleted:   e.IsDeleted,
		DeletedAt:   e.DeletedAt,
	}
}
