package statistics

import (
	"time"

	"github.com/CodeBuddy07/accounting-server/internal/database"
	"github.com/CodeBuddy07/accounting-server/internal/models"
	"github.com/CodeBuddy07/accounting-server/internal/transaction"

	"github.com/gofiber/fiber/v2"
)

type MonthlyPoint struct {
	Month string  `json:"month"`
	Total float64 `json:"total"`
}

type TopProduct struct {
	ProductID     uint    `json:"productId"`
	Name          string  `json:"name"`
	TotalQuantity int     `json:"totalQuantity"`
	TotalSales    float64 `json:"totalSales"`
}

type TopCustomer struct {
	CustomerID uint    `json:"customerId"`
	Name       string  `json:"name"`
	TotalSpent float64 `json:"totalSpent"`
}

type DashboardResponse struct {
	TotalSales         float64                           `json:"totalSales"`
	TotalPurchases     float64                           `json:"totalPurchases"`
	TotalExpenses      float64                           `json:"totalExpenses"`
	TotalDue           float64                           `json:"totalDue"`
	TotalReceivable    float64                           `json:"totalReceivable"`
	NetCashFlow        float64                           `json:"netCashFlow"`
	ProfitMargin       float64                           `json:"profitMargin"`
	InventoryValue     float64                           `json:"inventoryValue"`
	CustomerCount      int64                             `json:"customerCount"`
	ProductCount       int64                             `json:"productCount"`
	MonthlyTrend       []MonthlyPoint                    `json:"monthlyTrend"`
	TopSellingProducts []TopProduct                      `json:"topSellingProducts"`
	TopCustomers       []TopCustomer                     `json:"topCustomers"`
	RecentTransactions []transaction.TransactionResponse `json:"recentTransactions"`
}

// GET /api/statistics/dashboard
func DashboardHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var resp DashboardResponse

		type sums struct {
			TotalSales     float64
			TotalPurchases float64
			TotalExpenses  float64
		}
		var s sums
		if err := database.DB.Model(&models.Transaction{}).
			Select(`
				COALESCE(SUM(CASE WHEN type = 'sell' THEN total ELSE 0 END), 0)    AS total_sales,
				COALESCE(SUM(CASE WHEN type = 'buy' THEN total ELSE 0 END), 0)     AS total_purchases,
				COALESCE(SUM(CASE WHEN type = 'expense' THEN total ELSE 0 END), 0) AS total_expenses`).
			Scan(&s).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not compute totals")
		}
		resp.TotalSales = s.TotalSales
		resp.TotalPurchases = s.TotalPurchases
		resp.TotalExpenses = s.TotalExpenses

		// Due: what customers owe the business. Receivable: what the
		// business owes out. Same split the customer list exposes.
		type balances struct {
			TotalDue        float64
			TotalReceivable float64
		}
		var b balances
		if err := database.DB.Model(&models.Customer{}).
			Select(`
				COALESCE(SUM(CASE WHEN balance < 0 THEN -balance ELSE 0 END), 0) AS total_due,
				COALESCE(SUM(CASE WHEN balance > 0 THEN balance ELSE 0 END), 0)  AS total_receivable`).
			Scan(&b).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not compute balances")
		}
		resp.TotalDue = b.TotalDue
		resp.TotalReceivable = b.TotalReceivable

		resp.NetCashFlow = resp.TotalSales - resp.TotalPurchases - resp.TotalExpenses
		if resp.TotalSales > 0 {
			resp.ProfitMargin = resp.NetCashFlow / resp.TotalSales * 100
		}

		var inventoryValue float64
		if err := database.DB.Model(&models.Product{}).
			Select("COALESCE(SUM(buying_price), 0)").
			Scan(&inventoryValue).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not compute inventory value")
		}
		resp.InventoryValue = inventoryValue

		if err := database.DB.Model(&models.Customer{}).Count(&resp.CustomerCount).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not count customers")
		}
		if err := database.DB.Model(&models.Product{}).Count(&resp.ProductCount).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not count products")
		}

		trend, err := monthlyTrend(6)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not compute monthly trend")
		}
		resp.MonthlyTrend = trend

		if err := database.DB.Raw(`
			SELECT ti.product_id AS product_id,
			       p.name AS name,
			       SUM(ti.quantity) AS total_quantity,
			       SUM(ti.price * ti.quantity) AS total_sales
			FROM transaction_items ti
			JOIN transactions t ON t.id = ti.transaction_id
			JOIN products p ON p.id = ti.product_id
			WHERE t.type = 'sell'
			GROUP BY ti.product_id, p.name
			ORDER BY total_quantity DESC
			LIMIT 5`).Scan(&resp.TopSellingProducts).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not compute top products")
		}

		if err := database.DB.Raw(`
			SELECT t.customer_id AS customer_id,
			       c.name AS name,
			       SUM(t.total) AS total_spent
			FROM transactions t
			JOIN customers c ON c.id = t.customer_id
			WHERE t.type = 'sell' AND t.customer_id IS NOT NULL
			GROUP BY t.customer_id, c.name
			ORDER BY total_spent DESC
			LIMIT 5`).Scan(&resp.TopCustomers).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not compute top customers")
		}

		var recent []models.Transaction
		if err := database.DB.Preload("Items").
			Order("date desc, id desc").
			Limit(5).
			Find(&recent).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not list recent transactions")
		}
		resp.RecentTransactions = make([]transaction.TransactionResponse, 0, len(recent))
		for _, t := range recent {
			resp.RecentTransactions = append(resp.RecentTransactions, transaction.ToResponse(t))
		}

		return c.JSON(resp)
	}
}

// monthlyTrend sums sell totals per calendar month for the last n months,
// zero-filling months without sales. Bucketing happens in Go so the query
// stays portable across Postgres and the sqlite test database.
func monthlyTrend(n int) ([]MonthlyPoint, error) {
	now := time.Now()
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()).
		AddDate(0, -(n - 1), 0)

	type row struct {
		Date  time.Time
		Total float64
	}
	var rows []row
	if err := database.DB.Model(&models.Transaction{}).
		Select("date, total").
		Where("type = ? AND date >= ?", models.TransactionTypeSell, start).
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	byMonth := make(map[string]float64, n)
	for _, r := range rows {
		byMonth[r.Date.Format("2006-01")] += r.Total
	}

	points := make([]MonthlyPoint, 0, n)
	for i := 0; i < n; i++ {
		m := start.AddDate(0, i, 0)
		points = append(points, MonthlyPoint{
			Month: m.Format("Jan 2006"),
			Total: byMonth[m.Format("2006-01")],
		})
	}
	return points, nil
}
