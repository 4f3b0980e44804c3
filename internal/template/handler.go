package template

import (
	"fmt"
	"strings"

	"github.com/CodeBuddy07/accounting-server/internal/audit"
	"github.com/CodeBuddy07/accounting-server/internal/database"
	"github.com/CodeBuddy07/accounting-server/internal/models"

	"github.com/gofiber/fiber/v2"
)

type CreateTemplateRequest struct {
	Name    string `json:"name"`
	Content string `json:"content"`
}

type UpdateTemplateRequest struct {
	Name    *string `json:"name"`
	Content *string `json:"content"`
}

type TemplateResponse struct {
	ID        uint     `json:"id"`
	Name      string   `json:"name"`
	Content   string   `json:"content"`
	Variables []string `json:"variables"`
}

func toResponse(t models.Template) TemplateResponse {
	return TemplateResponse{
		ID:        t.ID,
		Name:      t.Name,
		Content:   t.Content,
		Variables: ExtractVariables(t.Content),
	}
}

func templateData(t models.Template) map[string]any {
	return map[string]any{"id": t.ID, "name": t.Name, "content": t.Content}
}

// GET /api/templates
func ListTemplatesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var templates []models.Template
		if err := database.DB.Order("name asc").Find(&templates).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not list templates")
		}

		resp := make([]TemplateResponse, 0, len(templates))
		for _, t := range templates {
			resp = append(resp, toResponse(t))
		}
		return c.JSON(fiber.Map{"data": resp})
	}
}

// POST /api/templates
func CreateTemplateHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateTemplateRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		body.Name = strings.TrimSpace(body.Name)
		body.Content = strings.TrimSpace(body.Content)
		if body.Name == "" || body.Content == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Name and content are required")
		}
		if err := ValidateContent(body.Content); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		tmpl := models.Template{Name: body.Name, Content: body.Content}
		if err := database.DB.Create(&tmpl).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not save template")
		}

		audit.Record(c, "template", tmpl.ID, models.AuditActionCreate, fmt.Sprintf("Template added: %s", tmpl.Name), nil, templateData(tmpl))

		return c.Status(fiber.StatusCreated).JSON(toResponse(tmpl))
	}
}

// PUT /api/templates/:id
func UpdateTemplateHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		var tmpl models.Template
		if err := database.DB.First(&tmpl, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Template not found")
		}

		var body UpdateTemplateRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		before := map[string]any{"id": tmpl.ID, "name": tmpl.Name, "content": tmpl.Content}
		updated := false

		if body.Name != nil {
			name := strings.TrimSpace(*body.Name)
			if name == "" {
				return fiber.NewError(fiber.StatusBadRequest, "Name cannot be empty")
			}
			tmpl.Name = name
			updated = true
		}
		if body.Content != nil {
			content := strings.TrimSpace(*body.Content)
			if content == "" {
				return fiber.NewError(fiber.StatusBadRequest, "Content cannot be empty")
			}
			if err := ValidateContent(content); err != nil {
				return fiber.NewError(fiber.StatusBadRequest, err.Error())
			}
			tmpl.Content = content
			updated = true
		}

		if !updated {
			return c.JSON(toResponse(tmpl))
		}

		if err := database.DB.Save(&tmpl).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not update template")
		}

		audit.Record(c, "template", tmpl.ID, models.AuditActionUpdate, fmt.Sprintf("Template updated: %s", tmpl.Name), before, templateData(tmpl))

		return c.JSON(toResponse(tmpl))
	}
}

// DELETE /api/templates/:id
func DeleteTemplateHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		var tmpl models.Template
		if err := database.DB.First(&tmpl, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Template not found")
		}

		if err := database.DB.Delete(&tmpl).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not delete template")
		}

		audit.Record(c, "template", tmpl.ID, models.AuditActionDelete, fmt.Sprintf("Template deleted: %s", tmpl.Name), templateData(tmpl), nil)

		return c.SendStatus(fiber.StatusNoContent)
	}
}
