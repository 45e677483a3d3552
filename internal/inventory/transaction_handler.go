package inventory

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"shopledger-backend/internal/database"
	"shopledger-backend/internal/models"
	"shopledger-backend/internal/validation"
)

type CreateTransactionRequest struct {
	ProductID     uuid.UUID        `json:"product_id" validate:"required"`
	Quantity      int              `json:"quantity" validate:"required,gt=0"`
	Type          string           `json:"type" validate:"required,oneof=IN OUT"`
	PurchasePrice *decimal.Decimal `json:"purchase_price"`
	PartyName     string           `json:"party_name" validate:"max=255"`
}

type TransactionResponse struct {
	ID            uuid.UUID       `json:"id"`
	ProductID     uuid.UUID       `json:"product_id"`
	Quantity      int             `json:"quantity"`
	Type          string          `json:"type"`
	PartyName     string          `json:"party_name"`
	PurchasePrice decimal.Decimal `json:"purchase_price"`
	SaleID        *uuid.UUID      `json:"sale_id"`
	CreatedAt     time.Time       `json:"created_at"`
	IsDeleted     bool            `json:"is_deleted"`
	DeletedAt     *time.Time      `json:"deleted_at"`
}

// GET /api/transactions?skip=&limit=&include_deleted=
func ListTransactionsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		rows, err := ListTransactions(database.DB, ListTransactionsParams{
			Skip:           c.QueryInt("skip", 0),
			Limit:          c.QueryInt("limit", 100),
			IncludeDeleted: c.QueryBool("include_deleted", false),
		})
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not list transactions")
		}

		resp := make([]TransactionResponse, 0, len(rows))
		for i := range rows {
			resp = append(resp, toTransactionResponse(&rows[i]))
		}
		return c.JSON(resp)
	}
}

// POST /api/transactions
func CreateTransactionHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateTransactionRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}
		if err := validation.Struct(body); err != nil {
			return err
		}

		trx, err := CreateTransaction(database.DB, CreateTransactionInput{
			ProductID:     body.ProductID,
			Quantity:      body.Quantity,
			Type:          models.TransactionType(body.Type),
			PurchasePrice: body.PurchasePrice,
			PartyName:     body.PartyName,
		})
		if err != nil {
			switch {
			case errors.Is(err, ErrProductNotFound):
				return fiber.NewError(fiber.StatusNotFound, "Product not found")
			case errors.Is(err, ErrInvalidQuantity), errors.Is(err, ErrInvalidType):
				return fiber.NewError(fiber.StatusBadRequest, err.Error())
			}
			return fiber.NewError(fiber.StatusInternalServerError, "Could not create transaction")
		}

		return c.Status(fiber.StatusCreated).JSON(toTransactionResponse(trx))
	}
}

// DELETE /api/transactions/:id — soft delete only; the entry stays in the
// ledger history but drops out of every balance and report.
func DeleteTransactionHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := uuid.Parse(c.Params("id"))
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid transaction id")
		}

		if _, err := DeleteTransaction(database.DB, id); err != nil {
			if errors.Is(err, ErrTransactionNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "Transaction not found")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "Could not delete transaction")
		}

		return c.SendStatus(fiber.StatusNoContent)
	}
}

func toTransactionResponse(t *models.StockTransaction) TransactionResponse {
	return TransactionResponse{
		ID:            t.ID,
		ProductID:     t.ProductID,
		Quantity:      t.Quantity,
		Type:          string(t.Type),
		PartyName:     t.PartyName,
		PurchasePrice: t.PurchasePrice,
		SaleID:        t.SaleID,
		CreatedAt:     t.CreatedAt,
		IsDeleted:     t.IsDeleted,
		DeletedAt:     t.DeletedAt,
	}
}
