package inventory

import (
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"shopledger-backend/internal/database"
	"shopledger-backend/internal/models"
	"shopledger-backend/internal/validation"
)

type CreateProductRequest struct {
	CompanyID     *uuid.UUID      `json:"company_id"`
	Name          string          `json:"name" validate:"required,max=255"`
	Category      string          `json:"category" validate:"max=100"`
	Unit          string          `json:"unit" validate:"required,max=20"`
	PurchasePrice decimal.Decimal `json:"purchase_price"`
	MinStock      *int            `json:"min_stock" validate:"omitempty,gte=0"`
}

type UpdateProductRequest struct {
	CompanyID     *uuid.UUID       `json:"company_id"`
	Name          *string          `json:"name" validate:"omitempty,min=1,max=255"`
	Category      *string          `json:"category" validate:"omitempty,max=100"`
	Unit          *string          `json:"unit" validate:"omitempty,min=1,max=20"`
	PurchasePrice *decimal.Decimal `json:"purchase_price"`
	MinStock      *int             `json:"min_stock" validate:"omitempty,gte=0"`
}

type ProductResponse struct {
	ID            uuid.UUID       `json:"id"`
	CompanyID     *uuid.UUID      `json:"company_id"`
	Name          string          `json:"name"`
	Category      string          `json:"category"`
	Unit          string          `json:"unit"`
	PurchasePrice decimal.Decimal `json:"purchase_price"`
	MinStock      int             `json:"min_stock"`
	CreatedAt     time.Time       `json:"created_at"`
}

// GET /api/products?skip=&limit=&search=&category=
func ListProductsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		params := ListProductsParams{
			Skip:     c.QueryInt("skip", 0),
			Limit:    c.QueryInt("limit", 100),
			Search:   strings.TrimSpace(c.Query("search")),
			Category: strings.TrimSpace(c.Query("category")),
		}

		rows, err := ProductsWithStock(database.DB, params)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not list products")
		}
		return c.JSON(rows)
	}
}

// GET /api/products/:id
func GetProductHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := uuid.Parse(c.Params("id"))
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid product id")
		}

		product, err := GetProduct(database.DB, id)
		if err != nil {
			if errors.Is(err, ErrProductNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "Product not found")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "Could not load product")
		}

		stock, err := CurrentStock(database.DB, id)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not compute stock balance")
		}

		return c.JSON(ProductWithStock{
			ID:            product.ID,
			CompanyID:     product.CompanyID,
			Name:          product.Name,
			Category:      product.Category,
			Unit:          product.Unit,
			PurchasePrice: product.PurchasePrice,
			MinStock:      product.MinStock,
			CreatedAt:     product.CreatedAt,
			CurrentStock:  stock,
		})
	}
}

// POST /api/products
func CreateProductHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateProductRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}
		body.Name = strings.TrimSpace(body.Name)
		if err := validation.Struct(body); err != nil {
			return err
		}

		product, err := CreateProduct(database.DB, CreateProductInput{
			CompanyID:     body.CompanyID,
			Name:          body.Name,
			Category:      body.Category,
			Unit:          body.Unit,
			PurchasePrice: body.PurchasePrice,
			MinStock:      body.MinStock,
		})
		if err != nil {
			if errors.Is(err, ErrCompanyNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "Company not found")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "Could not create product")
		}

		return c.Status(fiber.StatusCreated).JSON(toProductResponse(product))
	}
}

// PUT /api/products/:id
func UpdateProductHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := uuid.Parse(c.Params("id"))
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid product id")
		}

		var body UpdateProductRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}
		if err := validation.Struct(body); err != nil {
			return err
		}

		product, err := UpdateProduct(database.DB, id, UpdateProductInput{
			CompanyID:     body.CompanyID,
			Name:          body.Name,
			Category:      body.Category,
			Unit:          body.Unit,
			PurchasePrice: body.PurchasePrice,
			MinStock:      body.MinStock,
		})
		if err != nil {
			if errors.Is(err, ErrProductNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "Product not found")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "Could not update product")
		}

		return c.JSON(toProductResponse(product))
	}
}

// DELETE /api/products/:id — hard delete, cascades to the product's ledger
// entries and sales.
func DeleteProductHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := uuid.Parse(c.Params("id"))
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid product id")
		}

		if err := DeleteProduct(database.DB, id); err != nil {
			if errors.Is(err, ErrProductNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "Product not found")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "Could not delete product")
		}

		return c.SendStatus(fiber.StatusNoContent)
	}
}

func toProductResponse(p *models.Product) ProductResponse {
	return ProductResponse{
		ID:            p.ID,
		CompanyID:     p.CompanyID,
		Name:          p.Name,
		Category:      p.Category,
		Unit:          p.Unit,
		PurchasePrice: p.PurchasePrice,
		MinStock:      p.MinStock,
		CreatedAt:     p.CreatedAt,
	}
}
