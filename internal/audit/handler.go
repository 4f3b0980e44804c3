package audit

import (
	"github.com/CodeBuddy07/accounting-server/internal/database"
	"github.com/CodeBuddy07/accounting-server/internal/models"
	"github.com/CodeBuddy07/accounting-server/internal/pagination"

	"github.com/gofiber/fiber/v2"
)

// GET /api/audit-logs?entityType=customer&entityId=1&page=1&limit=10
func ListAuditLogsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		p := pagination.Parse(c)

		dbq := database.DB.Model(&models.AuditLog{})

		if entityType := c.Query("entityType"); entityType != "" {
			dbq = dbq.Where("entity_type = ?", entityType)
		}
		if entityID := c.QueryInt("entityId", 0); entityID > 0 {
			dbq = dbq.Where("entity_id = ?", entityID)
		}

		var total int64
		if err := dbq.Count(&total).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not count audit logs")
		}

		var logs []models.AuditLog
		if err := dbq.Order("created_at desc, id desc").
			Offset(p.Offset()).
			Limit(p.Limit).
			Find(&logs).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not list audit logs")
		}

		return c.JSON(fiber.Map{
			"data":       logs,
			"page":       p.Page,
			"limit":      p.Limit,
			"total":      total,
			"totalPages": pagination.TotalPages(total, p.Limit),
		})
	}
}
