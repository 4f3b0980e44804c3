package customer

import (
	"fmt"
	"strings"

	"github.com/CodeBuddy07/accounting-server/internal/audit"
	"github.com/CodeBuddy07/accounting-server/internal/database"
	"github.com/CodeBuddy07/accounting-server/internal/models"
	"github.com/CodeBuddy07/accounting-server/internal/pagination"

	"github.com/gofiber/fiber/v2"
)

type CreateCustomerRequest struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
	Note  string `json:"note"`

	// Opening position. Either a signed balance, or the dues/receivable pair
	// the management form uses; the pair collapses to receivable - dues.
	Balance    *float64 `json:"balance"`
	Dues       *float64 `json:"dues"`
	Receivable *float64 `json:"receivable"`
}

type UpdateCustomerRequest struct {
	Name  *string `json:"name"`
	Phone *string `json:"phone"`
	Note  *string `json:"note"`
}

type CustomerResponse struct {
	ID         uint    `json:"id"`
	Name       string  `json:"name"`
	Phone      string  `json:"phone"`
	Balance    float64 `json:"balance"`
	Dues       float64 `json:"dues"`       // what the customer owes us
	Receivable float64 `json:"receivable"` // what we owe the customer
	Note       string  `json:"note"`
}

func toResponse(cust models.Customer) CustomerResponse {
	resp := CustomerResponse{
		ID:      cust.ID,
		Name:    cust.Name,
		Phone:   cust.Phone,
		Balance: cust.Balance,
		Note:    cust.Note,
	}
	if cust.Balance < 0 {
		resp.Dues = -cust.Balance
	} else {
		resp.Receivable = cust.Balance
	}
	return resp
}

func customerData(cust models.Customer) map[string]any {
	return map[string]any{
		"id":             cust.ID,
		"name":           cust.Name,
		"phone":          cust.Phone,
		"balance":        cust.Balance,
		"openingBalance": cust.OpeningBalance,
		"note":           cust.Note,
	}
}

// GET /api/customers?page=1&limit=10&search=rahim
func ListCustomersHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		p := pagination.Parse(c)

		dbq := database.DB.Model(&models.Customer{})
		if search := strings.TrimSpace(c.Query("search")); search != "" {
			like := "%" + strings.ToLower(search) + "%"
			dbq = dbq.Where("LOWER(name) LIKE ? OR phone LIKE ?", like, "%"+search+"%")
		}

		var total int64
		if err := dbq.Count(&total).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not count customers")
		}

		var customers []models.Customer
		if err := dbq.Order("name asc").
			Offset(p.Offset()).
			Limit(p.Limit).
			Find(&customers).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not list customers")
		}

		resp := make([]CustomerResponse, 0, len(customers))
		for _, cust := range customers {
			resp = append(resp, toResponse(cust))
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

// POST /api/customers
func CreateCustomerHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateCustomerRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		body.Name = strings.TrimSpace(body.Name)
		body.Phone = strings.TrimSpace(body.Phone)
		if body.Name == "" || body.Phone == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Name and phone are required")
		}

		var opening float64
		switch {
		case body.Balance != nil:
			opening = *body.Balance
		case body.Dues != nil || body.Receivable != nil:
			var dues, receivable float64
			if body.Dues != nil {
				dues = *body.Dues
			}
			if body.Receivable != nil {
				receivable = *body.Receivable
			}
			opening = receivable - dues
		}

		cust := models.Customer{
			Name:           body.Name,
			Phone:          body.Phone,
			Note:           strings.TrimSpace(body.Note),
			Balance:        opening,
			OpeningBalance: opening,
		}
		if err := database.DB.Create(&cust).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not save customer")
		}

		audit.Record(c, "customer", cust.ID, models.AuditActionCreate,
			fmt.Sprintf("Customer added: %s", cust.Name), nil, customerData(cust))

		return c.Status(fiber.StatusCreated).JSON(toResponse(cust))
	}
}

// PUT /api/customers/:id
// Balance is not editable here; it only moves through recorded transactions.
func UpdateCustomerHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		var cust models.Customer
		if err := database.DB.First(&cust, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Customer not found")
		}

		var body UpdateCustomerRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		before := customerData(cust)
		updated := false

		if body.Name != nil {
			name := strings.TrimSpace(*body.Name)
			if name == "" {
				return fiber.NewError(fiber.StatusBadRequest, "Name cannot be empty")
			}
			cust.Name = name
			updated = true
		}
		if body.Phone != nil {
			phone := strings.TrimSpace(*body.Phone)
			if phone == "" {
				return fiber.NewError(fiber.StatusBadRequest, "Phone cannot be empty")
			}
			cust.Phone = phone
			updated = true
		}
		if body.Note != nil {
			cust.Note = strings.TrimSpace(*body.Note)
			updated = true
		}

		if !updated {
			return c.JSON(toResponse(cust))
		}

		if err := database.DB.Save(&cust).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not update customer")
		}

		audit.Record(c, "customer", cust.ID, models.AuditActionUpdate,
			fmt.Sprintf("Customer updated: %s", cust.Name), before, customerData(cust))

		return c.JSON(toResponse(cust))
	}
}

// DELETE /api/customers/:id
// Removes the customer together with their transaction history in one
// database transaction.
func DeleteCustomerHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		var cust models.Customer
		if err := database.DB.First(&cust, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Customer not found")
		}

		var txCount int64
		database.DB.Model(&models.Transaction{}).Where("customer_id = ?", cust.ID).Count(&txCount)

		before := customerData(cust)
		before["transaction_count"] = txCount

		tx := database.DB.Begin()
		if tx.Error != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not start transaction")
		}

		if txCount > 0 {
			var txIDs []uint
			if err := tx.Model(&models.Transaction{}).
				Where("customer_id = ?", cust.ID).
				Pluck("id", &txIDs).Error; err != nil {
				tx.Rollback()
				return fiber.NewError(fiber.StatusInternalServerError, "Could not resolve customer transactions")
			}
			if err := tx.Where("transaction_id IN ?", txIDs).Delete(&models.TransactionItem{}).Error; err != nil {
				tx.Rollback()
				return fiber.NewError(fiber.StatusInternalServerError, "Could not delete transaction items")
			}
			if err := tx.Where("customer_id = ?", cust.ID).Delete(&models.Transaction{}).Error; err != nil {
				tx.Rollback()
				return fiber.NewError(fiber.StatusInternalServerError, "Could not delete transactions")
			}
		}

		if err := tx.Delete(&cust).Error; err != nil {
			tx.Rollback()
			return fiber.NewError(fiber.StatusInternalServerError, "Could not delete customer")
		}

		if err := tx.Commit().Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not commit delete")
		}

		desc := fmt.Sprintf("Customer deleted: %s", cust.Name)
		if txCount > 0 {
			desc = fmt.Sprintf("Customer and history deleted: %s (%d transactions)", cust.Name, txCount)
		}
		audit.Record(c, "customer", cust.ID, models.AuditActionDelete, desc, before, nil)

		return c.SendStatus(fiber.StatusNoContent)
	}
}
