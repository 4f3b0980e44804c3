package transaction

import (
	"fmt"
	"strings"
	"time"

	"github.com/CodeBuddy07/accounting-server/internal/audit"
	"github.com/CodeBuddy07/accounting-server/internal/database"
	"github.com/CodeBuddy07/accounting-server/internal/ledger"
	"github.com/CodeBuddy07/accounting-server/internal/logger"
	"github.com/CodeBuddy07/accounting-server/internal/models"
	"github.com/CodeBuddy07/accounting-server/internal/pagination"
	"github.com/CodeBuddy07/accounting-server/internal/sms"
	"github.com/CodeBuddy07/accounting-server/internal/template"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type ItemRequest struct {
	ProductID uint    `json:"productId"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity"`
}

type DiscountRequest struct {
	Type   models.DiscountType `json:"type"`
	Value  float64             `json:"value"`
	Amount float64             `json:"amount"`
}

type CreateTransactionRequest struct {
	Type         models.TransactionType `json:"type"`
	CustomerID   *uint                  `json:"customerId"`
	CustomerName string                 `json:"customerName"`
	Products     []ItemRequest          `json:"products"`
	Date         string                 `json:"date"` // RFC3339 or "2006-01-02"
	PaymentType  models.PaymentType     `json:"paymentType"`
	Note         string                 `json:"note"`
	SMS          bool                   `json:"sms"`
	Discount     *DiscountRequest       `json:"discount"`
	Subtotal     float64                `json:"subtotal"`
	Total        float64                `json:"total"`
}

type ItemResponse struct {
	ProductID uint    `json:"productId"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity"`
}

type TransactionResponse struct {
	ID             uint                   `json:"id"`
	Type           models.TransactionType `json:"type"`
	CustomerID     *uint                  `json:"customerId,omitempty"`
	CustomerName   string                 `json:"customerName,omitempty"`
	Products       []ItemResponse         `json:"products,omitempty"`
	Subtotal       float64                `json:"subtotal"`
	DiscountType   models.DiscountType    `json:"discountType,omitempty"`
	DiscountValue  float64                `json:"discountValue"`
	DiscountAmount float64                `json:"discountAmount"`
	Total          float64                `json:"total"`
	Date           string                 `json:"date"`
	PaymentType    models.PaymentType     `json:"paymentType"`
	Note           string                 `json:"note"`
	SMS            bool                   `json:"sms"`
	CreatedAt      string                 `json:"createdAt"`
}

// ToResponse converts a stored transaction for the API. Shared with the
// customer report.
func ToResponse(t models.Transaction) TransactionResponse {
	resp := TransactionResponse{
		ID:             t.ID,
		Type:           t.Type,
		CustomerID:     t.CustomerID,
		CustomerName:   t.CustomerName,
		Subtotal:       t.Subtotal,
		DiscountType:   t.DiscountType,
		DiscountValue:  t.DiscountValue,
		DiscountAmount: t.DiscountAmount,
		Total:          t.Total,
		Date:           t.Date.Format(time.RFC3339),
		PaymentType:    t.PaymentType,
		Note:           t.Note,
		SMS:            t.SMS,
		CreatedAt:      t.CreatedAt.Format(time.RFC3339),
	}
	for _, it := range t.Items {
		resp.Products = append(resp.Products, ItemResponse{
			ProductID: it.ProductID,
			Price:     it.Price,
			Quantity:  it.Quantity,
		})
	}
	return resp
}

func parseDate(raw string) (time.Time, error) {
	if raw == "" {
		return time.Now(), nil
	}
	if d, err := time.Parse(time.RFC3339, raw); err == nil {
		return d, nil
	}
	if d, err := time.Parse("2006-01-02", raw); err == nil {
		return d, nil
	}
	return time.Time{}, fmt.Errorf("date must be RFC3339 or 'YYYY-MM-DD'")
}

// POST /api/transactions
// Persists the transaction and moves the customer balance in the same
// database transaction; either both happen or neither does.
func CreateTransactionHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateTransactionRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		date, err := parseDate(body.Date)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		items := make([]ledger.Item, 0, len(body.Products))
		for _, p := range body.Products {
			items = append(items, ledger.Item{ProductID: p.ProductID, Price: p.Price, Quantity: p.Quantity})
		}

		record := models.Transaction{
			Type:         body.Type,
			CustomerID:   body.CustomerID,
			CustomerName: strings.TrimSpace(body.CustomerName),
			Date:         date,
			PaymentType:  body.PaymentType,
			Note:         strings.TrimSpace(body.Note),
			SMS:          body.SMS,
			Total:        body.Total,
		}

		// Sell totals are recomputed server-side; the client's numbers are
		// only a preview.
		if body.Type == models.TransactionTypeSell {
			subtotal := ledger.Subtotal(items)
			record.Subtotal = subtotal
			if body.Discount != nil && body.Discount.Value > 0 {
				amount := ledger.DiscountAmount(body.Discount.Type, body.Discount.Value, subtotal)
				record.DiscountType = body.Discount.Type
				record.DiscountValue = body.Discount.Value
				record.DiscountAmount = amount
				record.Total = ledger.SellTotal(subtotal, amount)
				record.Note = ledger.FullNote(record.Note,
					ledger.DiscountNote(body.Discount.Type, body.Discount.Value, amount, subtotal))
			} else {
				record.Total = subtotal
			}
		} else if body.Type == models.TransactionTypeBuy {
			record.Subtotal = ledger.Subtotal(items)
			record.Total = record.Subtotal
		}

		entry, err := ledger.Classify(ledger.Input{
			Type:        body.Type,
			PaymentType: body.PaymentType,
			HasCustomer: body.CustomerID != nil,
			Items:       items,
			Total:       record.Total,
		})
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		var cust models.Customer
		if body.CustomerID != nil {
			if err := database.DB.First(&cust, *body.CustomerID).Error; err != nil {
				return fiber.NewError(fiber.StatusNotFound, "Customer not found")
			}
			if record.CustomerName == "" {
				record.CustomerName = cust.Name
			}
		}

		for _, it := range items {
			record.Items = append(record.Items, models.TransactionItem{
				ProductID: it.ProductID,
				Price:     it.Price,
				Quantity:  it.Quantity,
			})
		}

		effect := ledger.Effect(entry)

		if err := database.DB.Transaction(func(tx *gorm.DB) error {
			if err := tx.Create(&record).Error; err != nil {
				return err
			}
			if body.CustomerID != nil && effect != 0 {
				// Additive update keeps concurrent submissions against the
				// same customer serialized at the row.
				if err := tx.Model(&models.Customer{}).
					Where("id = ?", *body.CustomerID).
					Update("balance", gorm.Expr("balance + ?", effect)).Error; err != nil {
					return err
				}
			}
			return nil
		}); err != nil {
			logger.Error(err, "transaction create failed")
			return fiber.NewError(fiber.StatusInternalServerError, "Could not save transaction")
		}

		audit.Record(c, "transaction", record.ID, models.AuditActionCreate,
			fmt.Sprintf("%s transaction of ৳%.2f recorded", record.Type, record.Total),
			nil, ToResponse(record))

		if record.SMS && body.CustomerID != nil {
			notifyCustomer(*body.CustomerID, record.Total)
		}

		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"message":     "Transaction completed",
			"transaction": ToResponse(record),
		})
	}
}

// notifyCustomer sends the transaction SMS using the first stored template,
// with the post-transaction balance. Best effort.
func notifyCustomer(customerID uint, amount float64) {
	var cust models.Customer
	if err := database.DB.First(&cust, customerID).Error; err != nil {
		return
	}

	var tmpl models.Template
	if err := database.DB.Order("id asc").First(&tmpl).Error; err != nil {
		return
	}

	message := template.Render(tmpl.Content, sms.PlaceholderValues(cust, &amount))
	if err := sms.Send(cust.Phone, message); err != nil {
		logger.Error(err, "transaction sms failed")
	}
}

// GET /api/transactions?page&limit&search&type&dateFrom&dateTo
func ListTransactionsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		p := pagination.Parse(c)

		dbq := database.DB.Model(&models.Transaction{})

		if typeFilter := c.Query("type"); typeFilter != "" && typeFilter != "all" {
			switch models.TransactionType(typeFilter) {
			case models.TransactionTypeBuy, models.TransactionTypeSell, models.TransactionTypeExpense,
				models.TransactionTypeDue, models.TransactionTypeReceivable:
				dbq = dbq.Where("type = ?", typeFilter)
			default:
				return fiber.NewError(fiber.StatusBadRequest, "Unknown transaction type")
			}
		}

		if search := strings.TrimSpace(c.Query("search")); search != "" {
			like := "%" + strings.ToLower(search) + "%"
			dbq = dbq.Where("LOWER(customer_name) LIKE ? OR LOWER(note) LIKE ?", like, like)
		}

		if from := c.Query("dateFrom"); from != "" {
			d, err := parseDate(from)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "dateFrom: "+err.Error())
			}
			dbq = dbq.Where("date >= ?", d)
		}
		if to := c.Query("dateTo"); to != "" {
			d, err := parseDate(to)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "dateTo: "+err.Error())
			}
			dbq = dbq.Where("date <= ?", d)
		}

		var total int64
		if err := dbq.Count(&total).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not count transactions")
		}

		var transactions []models.Transaction
		if err := dbq.Preload("Items").
			Order("date desc, id desc").
			Offset(p.Offset()).
			Limit(p.Limit).
			Find(&transactions).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not list transactions")
		}

		resp := make([]TransactionResponse, 0, len(transactions))
		for _, t := range transactions {
			resp = append(resp, ToResponse(t))
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
