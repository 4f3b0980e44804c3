package customer

import (
	"math"

	"github.com/CodeBuddy07/accounting-server/internal/database"
	"github.com/CodeBuddy07/accounting-server/internal/logger"
	"github.com/CodeBuddy07/accounting-server/internal/models"
	"github.com/CodeBuddy07/accounting-server/internal/pagination"
	"github.com/CodeBuddy07/accounting-server/internal/transaction"

	"github.com/gofiber/fiber/v2"
)

type ReportTotals struct {
	TotalPurchases float64 `json:"totalPurchases"`
	TotalSales     float64 `json:"totalSales"`
	AmountOwed     float64 `json:"amountOwed"`
	AmountDue      float64 `json:"amountDue"`
}

// GET /api/customers/:id/report
// Totals are computed over the customer's whole history regardless of the
// page being viewed, and the stored balance is cross-checked against the
// opening balance plus the ledger movement.
func CustomerReportHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		var cust models.Customer
		if err := database.DB.First(&cust, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Customer not found")
		}

		p := pagination.Parse(c)

		var totals ReportTotals
		err := database.DB.Model(&models.Transaction{}).
			Where("customer_id = ?", cust.ID).
			Select(`
				COALESCE(SUM(CASE WHEN type = 'buy' THEN total ELSE 0 END), 0)  AS total_purchases,
				COALESCE(SUM(CASE WHEN type = 'sell' THEN total ELSE 0 END), 0) AS total_sales,
				COALESCE(SUM(CASE WHEN (type = 'buy' AND payment_type = 'due') OR type = 'receivable' THEN total ELSE 0 END), 0) AS amount_owed,
				COALESCE(SUM(CASE WHEN (type = 'sell' AND payment_type = 'due') OR type = 'due' THEN total ELSE 0 END), 0)       AS amount_due`).
			Scan(&totals).Error
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not compute totals")
		}

		expected := cust.OpeningBalance + totals.AmountOwed - totals.AmountDue
		reconciled := math.Abs(expected-cust.Balance) < 0.005
		if !reconciled {
			custLog := logger.WithComponent("customer")
			custLog.Warn().
				Uint("customerId", cust.ID).
				Float64("stored", cust.Balance).
				Float64("expected", expected).
				Msg("balance does not reconcile with transaction history")
		}

		var total int64
		if err := database.DB.Model(&models.Transaction{}).
			Where("customer_id = ?", cust.ID).
			Count(&total).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not count transactions")
		}

		var transactions []models.Transaction
		if err := database.DB.Preload("Items").
			Where("customer_id = ?", cust.ID).
			Order("date desc, id desc").
			Offset(p.Offset()).
			Limit(p.Limit).
			Find(&transactions).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not list transactions")
		}

		resp := make([]transaction.TransactionResponse, 0, len(transactions))
		for _, t := range transactions {
			resp = append(resp, transaction.ToResponse(t))
		}

		return c.JSON(fiber.Map{
			"customerInfo": toResponse(cust),
			"totals":       totals,
			"transactions": resp,
			"page":         p.Page,
			"limit":        p.Limit,
			"total":        total,
			"totalPages":   pagination.TotalPages(total, p.Limit),
			"reconciled":   reconciled,
		})
	}
}
