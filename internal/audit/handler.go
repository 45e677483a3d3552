package audit

import (
	"github.com/gofiber/fiber/v2"

	"shopledger-backend/internal/database"
	"shopledger-backend/internal/models"
)

// GET /api/audit-logs?skip=&limit=&entity_type=
func ListAuditLogsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		q := database.DB.Model(&models.AuditLog{})

		if entityType := c.Query("entity_type"); entityType != "" {
			q = q.Where("entity_type = ?", entityType)
		}

		var logs []models.AuditLog
		if err := q.Order("created_at DESC").
			Offset(c.QueryInt("skip", 0)).
			Limit(c.QueryInt("limit", 100)).
			Find(&logs).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not list audit logs")
		}

		return c.JSON(logs)
	}
}
