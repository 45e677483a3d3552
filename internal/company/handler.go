package company

import (
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"shopledger-backend/internal/database"
	"shopledger-backend/internal/models"
	"shopledger-backend/internal/validation"
)

type CreateCompanyRequest struct {
	Name string `json:"name" validate:"required,max=255"`
}

type UpdateCompanyRequest struct {
	Name string `json:"name" validate:"required,max=255"`
}

type CompanyResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// GET /api/companies?skip=&limit=
func ListCompaniesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		rows, err := List(database.DB, c.QueryInt("skip", 0), c.QueryInt("limit", 100))
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not list companies")
		}

		resp := make([]CompanyResponse, 0, len(rows))
		for _, comp := range rows {
			resp = append(resp, toCompanyResponse(&comp))
		}
		return c.JSON(resp)
	}
}

// POST /api/companies
func CreateCompanyHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateCompanyRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}
		body.Name = strings.TrimSpace(body.Name)
		if err := validation.Struct(body); err != nil {
			return err
		}

		comp, err := Create(database.DB, body.Name)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not create company")
		}
		return c.Status(fiber.StatusCreated).JSON(toCompanyResponse(comp))
	}
}

// PUT /api/companies/:id
func UpdateCompanyHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := uuid.Parse(c.Params("id"))
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid company id")
		}

		var body UpdateCompanyRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}
		body.Name = strings.TrimSpace(body.Name)
		if err := validation.Struct(body); err != nil {
			return err
		}

		comp, err := Update(database.DB, id, body.Name)
		if err != nil {
			if errors.Is(err, ErrCompanyNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "Company not found")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "Could not update company")
		}
		return c.JSON(toCompanyResponse(comp))
	}
}

// DELETE /api/companies/:id — hard delete, refused while products remain.
func DeleteCompanyHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := uuid.Parse(c.Params("id"))
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid company id")
		}

		if err := Delete(database.DB, id); err != nil {
			switch {
			case errors.Is(err, ErrCompanyNotFound):
				return fiber.NewError(fiber.StatusNotFound, "Company not found")
			case errors.Is(err, ErrCompanyHasProducts):
				return fiber.NewError(fiber.StatusConflict, "Company still has products")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "Could not delete company")
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

func toCompanyResponse(comp *models.Company) CompanyResponse {
	return CompanyResponse{
		ID:        comp.ID,
		Name:      comp.Name,
		CreatedAt: comp.CreatedAt,
	}
}
