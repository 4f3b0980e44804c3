package customer

import (
	"strings"

	"github.com/CodeBuddy07/accounting-server/internal/database"
	"github.com/CodeBuddy07/accounting-server/internal/models"
	"github.com/CodeBuddy07/accounting-server/internal/sms"
	"github.com/CodeBuddy07/accounting-server/internal/template"

	"github.com/gofiber/fiber/v2"
)

type SendSMSRequest struct {
	Message    string `json:"message"`
	TemplateID *uint  `json:"templateId"`
}

// POST /api/customers/:id
// Sends a message to the customer, either free text or a stored template.
// Placeholders are substituted server-side before dispatch.
func SendSMSHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		var cust models.Customer
		if err := database.DB.First(&cust, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Customer not found")
		}

		var body SendSMSRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		content := strings.TrimSpace(body.Message)
		if body.TemplateID != nil {
			var tmpl models.Template
			if err := database.DB.First(&tmpl, *body.TemplateID).Error; err != nil {
				return fiber.NewError(fiber.StatusNotFound, "Template not found")
			}
			content = tmpl.Content
		}
		if content == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Message is required")
		}

		message := template.Render(content, sms.PlaceholderValues(cust, nil))

		if err := sms.Send(cust.Phone, message); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not send SMS")
		}

		return c.JSON(fiber.Map{"message": "SMS sent successfully"})
	}
}
