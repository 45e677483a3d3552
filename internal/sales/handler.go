package sales

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

type CreateSaleRequest struct {
	ProductID     uuid.UUID       `json:"product_id" validate:"required"`
	CustomerName  string          `json:"customer_name" validate:"required,max=255"`
	CustomerPhone string          `json:"customer_phone" validate:"max=11"`
	Quantity      int             `json:"quantity" validate:"required,gt=0"`
	SellingPrice  decimal.Decimal `json:"selling_price"`
	PaymentType   string          `json:"payment_type" validate:"required,oneof=Credit Debit"`
	CreatedAt     *time.Time      `json:"created_at"` // optional backdate
}

type UpdateSaleRequest struct {
	ProductID     *uuid.UUID       `json:"product_id"`
	CustomerName  *string          `json:"customer_name" validate:"omitempty,min=1,max=255"`
	CustomerPhone *string          `json:"customer_phone" validate:"omitempty,max=11"`
	Quantity      *int             `json:"quantity" validate:"omitempty,gt=0"`
	SellingPrice  *decimal.Decimal `json:"selling_price"`
	PaymentType   *string          `json:"payment_type" validate:"omitempty,oneof=Credit Debit"`
}

type SaleResponse struct {
	ID            uuid.UUID       `json:"id"`
	ProductID     uuid.UUID       `json:"product_id"`
	CustomerName  string          `json:"customer_name"`
	CustomerPhone string          `json:"customer_phone"`
	Quantity      int             `json:"quantity"`
	SellingPrice  decimal.Decimal `json:"selling_price"`
	PurchasePrice decimal.Decimal `json:"purchase_price"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	PaymentType   string          `json:"payment_type"`
	CreatedAt     time.Time       `json:"created_at"`
	IsDeleted     bool            `json:"is_deleted"`
	DeletedAt     *time.Time      `json:"deleted_at"`
}

// GET /api/sales?skip=&limit=&include_deleted=
func ListSalesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		rows, err := List(database.DB, ListSalesParams{
			Skip:           c.QueryInt("skip", 0),
			Limit:          c.QueryInt("limit", 100),
			IncludeDeleted: c.QueryBool("include_deleted", false),
		})
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not list sales")
		}

		resp := make([]SaleResponse, 0, len(rows))
		for i := range rows {
			resp = append(resp, toSaleResponse(&rows[i]))
		}
		return c.JSON(resp)
	}
}

// POST /api/sales
func CreateSaleHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateSaleRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}
		body.CustomerName = strings.TrimSpace(body.CustomerName)
		if err := validation.Struct(body); err != nil {
			return err
		}

		sale, err := Create(database.DB, CreateSaleInput{
			ProductID:     body.ProductID,
			CustomerName:  body.CustomerName,
			CustomerPhone: body.CustomerPhone,
			Quantity:      body.Quantity,
			SellingPrice:  body.SellingPrice,
			PaymentType:   models.PaymentType(body.PaymentType),
			CreatedAt:     body.CreatedAt,
		})
		if err != nil {
			return mapSaleError(err, "Could not create sale")
		}

		writeSaleLog(c, models.AuditActionCreate, sale, nil,
			fmt.Sprintf("Sale created: %s x%d", sale.CustomerName, sale.Quantity))

		return c.Status(fiber.StatusCreated).JSON(toSaleResponse(sale))
	}
}

// PUT /api/sales/:id
func UpdateSaleHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := uuid.Parse(c.Params("id"))
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid sale id")
		}

		var body UpdateSaleRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}
		if err := validation.Struct(body); err != nil {
			return err
		}

		in := UpdateSaleInput{
			ProductID:     body.ProductID,
			CustomerName:  body.CustomerName,
			CustomerPhone: body.CustomerPhone,
			Quantity:      body.Quantity,
			SellingPrice:  body.SellingPrice,
		}
		if body.PaymentType != nil {
			pt := models.PaymentType(*body.PaymentType)
			in.PaymentType = &pt
		}

		sale, err := Update(database.DB, id, in)
		if err != nil {
			return mapSaleError(err, "Could not update sale")
		}

		writeSaleLog(c, models.AuditActionUpdate, sale, nil,
			fmt.Sprintf("Sale updated: %s", sale.ID))

		return c.JSON(toSaleResponse(sale))
	}
}

// DELETE /api/sales/:id — soft delete; the linked ledger entry goes with it.
func DeleteSaleHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := uuid.Parse(c.Params("id"))
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid sale id")
		}

		sale, err := Delete(database.DB, id)
		if err != nil {
			return mapSaleError(err, "Could not delete sale")
		}

		writeSaleLog(c, models.AuditActionDelete, nil, sale,
			fmt.Sprintf("Sale deleted: %s", sale.ID))

		return c.SendStatus(fiber.StatusNoContent)
	}
}

func mapSaleError(err error, fallback string) error {
	switch {
	case errors.Is(err, ErrSaleNotFound):
		return fiber.NewError(fiber.StatusNotFound, "Sale not found")
	case errors.Is(err, ErrProductNotFound):
		return fiber.NewError(fiber.StatusNotFound, "Product not found")
	case errors.Is(err, ErrInsufficientStock):
		return fiber.NewError(fiber.StatusConflict, "Insufficient stock for sale")
	case errors.Is(err, ErrInvalidQuantity), errors.Is(err, ErrInvalidPaymentType):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	return fiber.NewError(fiber.StatusInternalServerError, fallback)
}

func writeSaleLog(c *fiber.Ctx, action models.AuditAction, after, before *models.Sale, description string) {
	userID, _ := c.Locals(auth.CtxUserIDKey).(uuid.UUID)
	userEmail, _ := c.Locals(auth.CtxUserEmailKey).(string)

	entityID := uuid.Nil
	var beforeData, afterData any
	if before != nil {
		entityID = before.ID
		beforeData = toSaleResponse(before)
	}
	if after != nil {
		entityID = after.ID
		afterData = toSaleResponse(after)
	}

	if err := audit.WriteLog(audit.LogOptions{
		UserID:      userID,
		UserName:    userEmail,
		EntityType:  "sale",
		EntityID:    entityID,
		Action:      action,
		Description: description,
		Before:      beforeData,
		After:       afterData,
	}); err != nil {
		// audit failure is not fatal for the request
		logrus.WithError(err).Warn("audit log write failed")
	}
}

func toSaleResponse(s *models.Sale) SaleResponse {
	return SaleResponse{
		ID:            s.ID,
		ProductID:     s.ProductID,
		CustomerName:  s.CustomerName,
		CustomerPhone: s.CustomerPhone,
		Quantity:      s.Quantity,
		SellingPrice:  s.SellingPrice,
		PurchasePrice: s.PurchasePrice,
		TotalAmount:   s.TotalAmount,
		PaymentType:   string(s.PaymentType),
		CreatedAt:     s.CreatedAt,
		IsDeleted:     s.IsDeleted,
		DeletedAt:     s.DeletedAt,
	}
}
