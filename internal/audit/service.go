package audit

import (
	"encoding/json"
	"fmt"

	"github.com/CodeBuddy07/accounting-server/internal/auth"
	"github.com/CodeBuddy07/accounting-server/internal/database"
	"github.com/CodeBuddy07/accounting-server/internal/logger"
	"github.com/CodeBuddy07/accounting-server/internal/models"

	"github.com/gofiber/fiber/v2"
)

type LogOptions struct {
	AdminID     uint
	AdminName   string
	EntityType  string
	EntityID    uint
	Action      models.AuditAction
	Description string
	Before      any
	After       any
}

// WriteLog appends one audit entry. Best effort from the caller's point of
// view: handlers log the error and move on, the business write has already
// committed.
func WriteLog(opts LogOptions) error {
	// jsonb columns want "null" rather than an empty string
	beforeStr := "null"
	afterStr := "null"

	if opts.Before != nil {
		if b, err := json.Marshal(opts.Before); err == nil {
			beforeStr = string(b)
		}
	}
	if opts.After != nil {
		if b, err := json.Marshal(opts.After); err == nil {
			afterStr = string(b)
		}
	}

	entry := models.AuditLog{
		AdminID:     opts.AdminID,
		AdminName:   opts.AdminName,
		EntityType:  opts.EntityType,
		EntityID:    opts.EntityID,
		Action:      opts.Action,
		Description: opts.Description,
		BeforeData:  beforeStr,
		AfterData:   afterStr,
	}

	if err := database.DB.Create(&entry).Error; err != nil {
		return fmt.Errorf("audit log write failed: %w", err)
	}

	return nil
}

// Record resolves the acting admin from the request and writes an audit
// entry. Failures are logged, never surfaced: the mutation itself already
// succeeded.
func Record(c *fiber.Ctx, entityType string, entityID uint, action models.AuditAction, desc string, before, after any) {
	adminID, err := auth.CurrentAdminID(c)
	if err != nil {
		return
	}

	var admin models.Admin
	database.DB.First(&admin, adminID)

	if err := WriteLog(LogOptions{
		AdminID:     adminID,
		AdminName:   admin.Name,
		EntityType:  entityType,
		EntityID:    entityID,
		Action:      action,
		Description: desc,
		Before:      before,
		After:       after,
	}); err != nil {
		logger.Error(err, "audit log write failed")
	}
}
