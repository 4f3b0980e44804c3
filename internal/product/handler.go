package product

import (
	"fmt"
	"strings"

	"github.com/CodeBuddy07/accounting-server/internal/audit"
	"github.com/CodeBuddy07/accounting-server/internal/database"
	"github.com/CodeBuddy07/accounting-server/internal/models"
	"github.com/CodeBuddy07/accounting-server/internal/pagination"

	"github.com/gofiber/fiber/v2"
)

type CreateProductRequest struct {
	Name         string  `json:"name"`
	BuyingPrice  float64 `json:"buyingPrice"`
	SellingPrice float64 `json:"sellingPrice"`
	Note         string  `json:"note"`
}

type UpdateProductRequest struct {
	Name         *string  `json:"name"`
	BuyingPrice  *float64 `json:"buyingPrice"`
	SellingPrice *float64 `json:"sellingPrice"`
	Note         *string  `json:"note"`
}

type ProductResponse struct {
	ID           uint    `json:"id"`
	Name         string  `json:"name"`
	BuyingPrice  float64 `json:"buyingPrice"`
	SellingPrice float64 `json:"sellingPrice"`
	Note         string  `json:"note"`
}

func toResponse(p models.Product) ProductResponse {
	return ProductResponse{
		ID:           p.ID,
		Name:         p.Name,
		BuyingPrice:  p.BuyingPrice,
		SellingPrice: p.SellingPrice,
		Note:         p.Note,
	}
}

func productData(p models.Product) map[string]any {
	return map[string]any{
		"id":           p.ID,
		"name":         p.Name,
		"buyingPrice":  p.BuyingPrice,
		"sellingPrice": p.SellingPrice,
		"note":         p.Note,
	}
}

// GET /api/products?page=1&limit=10&search=rice
func ListProductsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		p := pagination.Parse(c)

		dbq := database.DB.Model(&models.Product{})
		if search := strings.TrimSpace(c.Query("search")); search != "" {
			dbq = dbq.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(search)+"%")
		}

		var total int64
		if err := dbq.Count(&total).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not count products")
		}

		var products []models.Product
		if err := dbq.Order("name asc").
			Offset(p.Offset()).
			Limit(p.Limit).
			Find(&products).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not list products")
		}

		resp := make([]ProductResponse, 0, len(products))
		for _, prod := range products {
			resp = append(resp, toResponse(prod))
		}

		return c.JSON(fiber.Map{
			"data":       resp,
			"page":       p.Page,
			"limit":      p.Limit,
			"total":      total,
			"totalPages": pagination.TotalPages(total, p.Limit),
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
		if body.Name == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Name is required")
		}
		if body.BuyingPrice <= 0 || body.SellingPrice <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Buying and selling price must be greater than zero")
		}

		prod := models.Product{
			Name:         body.Name,
			BuyingPrice:  body.BuyingPrice,
			SellingPrice: body.SellingPrice,
			Note:         strings.TrimSpace(body.Note),
		}
		if err := database.DB.Create(&prod).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not save product")
		}

		audit.Record(c, "product", prod.ID, models.AuditActionCreate,
			fmt.Sprintf("Product added: %s", prod.Name), nil, productData(prod))

		return c.Status(fiber.StatusCreated).JSON(toResponse(prod))
	}
}

// PUT /api/products/:id
func UpdateProductHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		var prod models.Product
		if err := database.DB.First(&prod, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Product not found")
		}

		var body UpdateProductRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		before := productData(prod)
		updated := false

		if body.Name != nil {
			name := strings.TrimSpace(*body.Name)
			if name == "" {
				return fiber.NewError(fiber.StatusBadRequest, "Name cannot be empty")
			}
			prod.Name = name
			updated = true
		}
		if body.BuyingPrice != nil {
			if *body.BuyingPrice <= 0 {
				return fiber.NewError(fiber.StatusBadRequest, "Buying price must be greater than zero")
			}
			prod.BuyingPrice = *body.BuyingPrice
			updated = true
		}
		if body.SellingPrice != nil {
			if *body.SellingPrice <= 0 {
				return fiber.NewError(fiber.StatusBadRequest, "Selling price must be greater than zero")
			}
			prod.SellingPrice = *body.SellingPrice
			updated = true
		}
		if body.Note != nil {
			prod.Note = strings.TrimSpace(*body.Note)
			updated = true
		}

		if !updated {
			return c.JSON(toResponse(prod))
		}

		if err := database.DB.Save(&prod).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not update product")
		}

		audit.Record(c, "product", prod.ID, models.AuditActionUpdate,
			fmt.Sprintf("Product updated: %s", prod.Name), before, productData(prod))

		return c.JSON(toResponse(prod))
	}
}

// DELETE /api/products/:id
func DeleteProductHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		var prod models.Product
		if err := database.DB.First(&prod, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Product not found")
		}

		// Transaction items keep their price snapshot, so historical entries
		// survive the catalog entry.
		if err := database.DB.Delete(&prod).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not delete product")
		}

		audit.Record(c, "product", prod.ID, models.AuditActionDelete,
			fmt.Sprintf("Product deleted: %s", prod.Name), productData(prod), nil)

		return c.SendStatus(fiber.StatusNoContent)
	}
}
