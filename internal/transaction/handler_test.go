package transaction_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/CodeBuddy07/accounting-server/internal/customer"
	"github.com/CodeBuddy07/accounting-server/internal/database"
	"github.com/CodeBuddy07/accounting-server/internal/models"
	"github.com/CodeBuddy07/accounting-server/internal/testutil"
	"github.com/CodeBuddy07/accounting-server/internal/transaction"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newApp(t *testing.T) *fiber.App {
	t.Helper()
	testutil.SetupDB(t)

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if e, ok := err.(*fiber.Error); ok {
				return c.Status(e.Code).JSON(fiber.Map{"error": e.Message})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
		},
	})
	app.Post("/api/transactions", transaction.CreateTransactionHandler())
	app.Get("/api/transactions", transaction.ListTransactionsHandler())
	app.Get("/api/customers/:id/report", customer.CustomerReportHandler())
	return app
}

func doJSON(t *testing.T, app *fiber.App, method, path string, body any) (int, map[string]any) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var payload map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&payload))
	return resp.StatusCode, payload
}

func seedCustomer(t *testing.T, name string, opening float64) models.Customer {
	t.Helper()
	cust := models.Customer{
		Name:           name,
		Phone:          "01700000000",
		Balance:        opening,
		OpeningBalance: opening,
	}
	require.NoError(t, database.DB.Create(&cust).Error)
	return cust
}

func seedProduct(t *testing.T, name string, buying, selling float64) models.Product {
	t.Helper()
	p := models.Product{Name: name, BuyingPrice: buying, SellingPrice: selling}
	require.NoError(t, database.DB.Create(&p).Error)
	return p
}

func reloadBalance(t *testing.T, id uint) float64 {
	t.Helper()
	var cust models.Customer
	require.NoError(t, database.DB.First(&cust, id).Error)
	return cust.Balance
}

func TestSellOnCreditThenCollection(t *testing.T) {
	app := newApp(t)
	cust := seedCustomer(t, "Rahim", 0)
	prod := seedProduct(t, "Rice 25kg", 1800, 2000)

	status, _ := doJSON(t, app, http.MethodPost, "/api/transactions", fiber.Map{
		"type":        "sell",
		"customerId":  cust.ID,
		"paymentType": "due",
		"date":        "2025-06-01",
		"products": []fiber.Map{
			{"productId": prod.ID, "price": 500, "quantity": 1},
		},
	})
	require.Equal(t, http.StatusCreated, status)
	assert.InDelta(t, -500, reloadBalance(t, cust.ID), 0.001)

	status, _ = doJSON(t, app, http.MethodPost, "/api/transactions", fiber.Map{
		"type":       "receivable",
		"customerId": cust.ID,
		"total":      200,
		"date":       "2025-06-02",
	})
	require.Equal(t, http.StatusCreated, status)
	assert.InDelta(t, -300, reloadBalance(t, cust.ID), 0.001)
}

func TestBuyOnCreditThenPayment(t *testing.T) {
	app := newApp(t)
	supplier := seedCustomer(t, "Karim Traders", 0)
	prod := seedProduct(t, "Flour 50kg", 2500, 2800)

	status, _ := doJSON(t, app, http.MethodPost, "/api/transactions", fiber.Map{
		"type":        "buy",
		"customerId":  supplier.ID,
		"paymentType": "due",
		"date":        "2025-06-01",
		"products": []fiber.Map{
			{"productId": prod.ID, "price": 1000, "quantity": 1},
		},
	})
	require.Equal(t, http.StatusCreated, status)
	assert.InDelta(t, 1000, reloadBalance(t, supplier.ID), 0.001)

	status, _ = doJSON(t, app, http.MethodPost, "/api/transactions", fiber.Map{
		"type":       "due",
		"customerId": supplier.ID,
		"total":      400,
		"date":       "2025-06-03",
	})
	require.Equal(t, http.StatusCreated, status)
	assert.InDelta(t, 600, reloadBalance(t, supplier.ID), 0.001)
}

func TestCashTransactionsLeaveBalanceAlone(t *testing.T) {
	app := newApp(t)
	cust := seedCustomer(t, "Salma", 0)
	prod := seedProduct(t, "Oil 5L", 700, 800)

	status, _ := doJSON(t, app, http.MethodPost, "/api/transactions", fiber.Map{
		"type":        "sell",
		"customerId":  cust.ID,
		"paymentType": "cash",
		"products": []fiber.Map{
			{"productId": prod.ID, "price": 800, "quantity": 2},
		},
	})
	require.Equal(t, http.StatusCreated, status)
	assert.InDelta(t, 0, reloadBalance(t, cust.ID), 0.001)
}

func TestSellTotalsRecomputedWithDiscount(t *testing.T) {
	app := newApp(t)
	cust := seedCustomer(t, "Rahim", 0)
	prod := seedProduct(t, "Rice 25kg", 1800, 2000)

	// Client-sent subtotal/total are ignored; items decide.
	status, payload := doJSON(t, app, http.MethodPost, "/api/transactions", fiber.Map{
		"type":        "sell",
		"customerId":  cust.ID,
		"paymentType": "due",
		"subtotal":    9999,
		"total":       9999,
		"products": []fiber.Map{
			{"productId": prod.ID, "price": 500, "quantity": 2},
		},
		"discount": fiber.Map{"type": "percentage", "value": 10},
	})
	require.Equal(t, http.StatusCreated, status)

	created, ok := payload["transaction"].(map[string]any)
	require.True(t, ok)
	assert.InDelta(t, 1000, created["subtotal"], 0.001)
	assert.InDelta(t, 100, created["discountAmount"], 0.001)
	assert.InDelta(t, 900, created["total"], 0.001)
	assert.Equal(t, "Discount of 10% (৳100.00) on total ৳1000.00 applied.", created["note"])

	assert.InDelta(t, -900, reloadBalance(t, cust.ID), 0.001)
}

func TestInvalidShapeRejectedBeforeWrite(t *testing.T) {
	app := newApp(t)
	cust := seedCustomer(t, "Rahim", 0)

	// Expenses carry no counterparty.
	status, payload := doJSON(t, app, http.MethodPost, "/api/transactions", fiber.Map{
		"type":       "expense",
		"customerId": cust.ID,
		"total":      250,
	})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.NotEmpty(t, payload["error"])

	var count int64
	require.NoError(t, database.DB.Model(&models.Transaction{}).Count(&count).Error)
	assert.Zero(t, count)
	assert.InDelta(t, 0, reloadBalance(t, cust.ID), 0.001)
}

func TestNegativeAmountRejected(t *testing.T) {
	app := newApp(t)
	cust := seedCustomer(t, "Rahim", 0)

	status, _ := doJSON(t, app, http.MethodPost, "/api/transactions", fiber.Map{
		"type":       "receivable",
		"customerId": cust.ID,
		"total":      -50,
	})
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestListFiltersByTypeAndSearch(t *testing.T) {
	app := newApp(t)
	cust := seedCustomer(t, "Rahim", 0)
	prod := seedProduct(t, "Rice 25kg", 1800, 2000)

	for i := 0; i < 3; i++ {
		status, _ := doJSON(t, app, http.MethodPost, "/api/transactions", fiber.Map{
			"type":        "sell",
			"customerId":  cust.ID,
			"paymentType": "cash",
			"date":        fmt.Sprintf("2025-06-0%d", i+1),
			"products": []fiber.Map{
				{"productId": prod.ID, "price": 100, "quantity": 1},
			},
		})
		require.Equal(t, http.StatusCreated, status)
	}
	status, _ := doJSON(t, app, http.MethodPost, "/api/transactions", fiber.Map{
		"type":  "expense",
		"total": 75,
		"note":  "Electricity bill",
		"date":  "2025-06-05",
	})
	require.Equal(t, http.StatusCreated, status)

	status, payload := doJSON(t, app, http.MethodGet, "/api/transactions?type=sell", nil)
	require.Equal(t, http.StatusOK, status)
	assert.EqualValues(t, 3, payload["total"])

	status, payload = doJSON(t, app, http.MethodGet, "/api/transactions?search=electricity", nil)
	require.Equal(t, http.StatusOK, status)
	assert.EqualValues(t, 1, payload["total"])

	status, payload = doJSON(t, app, http.MethodGet, "/api/transactions?dateFrom=2025-06-02&dateTo=2025-06-04", nil)
	require.Equal(t, http.StatusOK, status)
	assert.EqualValues(t, 2, payload["total"])

	status, _ = doJSON(t, app, http.MethodGet, "/api/transactions?type=bogus", nil)
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestReportReconcilesHistory(t *testing.T) {
	app := newApp(t)
	cust := seedCustomer(t, "Rahim", 120)
	prod := seedProduct(t, "Rice 25kg", 1800, 2000)

	// Credit sale 500, collection 200, credit purchase 1000, payment 400.
	// Net movement: -500 + 200 + 1000 - 400 = +300.
	steps := []fiber.Map{
		{"type": "sell", "customerId": cust.ID, "paymentType": "due",
			"products": []fiber.Map{{"productId": prod.ID, "price": 500, "quantity": 1}}},
		{"type": "receivable", "customerId": cust.ID, "total": 200},
		{"type": "buy", "customerId": cust.ID, "paymentType": "due",
			"products": []fiber.Map{{"productId": prod.ID, "price": 1000, "quantity": 1}}},
		{"type": "due", "customerId": cust.ID, "total": 400},
	}
	for _, step := range steps {
		status, _ := doJSON(t, app, http.MethodPost, "/api/transactions", step)
		require.Equal(t, http.StatusCreated, status)
	}

	assert.InDelta(t, 420, reloadBalance(t, cust.ID), 0.001)

	status, payload := doJSON(t, app, http.MethodGet,
		fmt.Sprintf("/api/customers/%d/report", cust.ID), nil)
	require.Equal(t, http.StatusOK, status)

	assert.Equal(t, true, payload["reconciled"])

	totals, ok := payload["totals"].(map[string]any)
	require.True(t, ok)
	assert.InDelta(t, 1000, totals["totalPurchases"], 0.001)
	assert.InDelta(t, 500, totals["totalSales"], 0.001)
	assert.InDelta(t, 1200, totals["amountOwed"], 0.001)
	assert.InDelta(t, 900, totals["amountDue"], 0.001)

	assert.EqualValues(t, 4, payload["total"])
}

func TestReportFlagsDriftedBalance(t *testing.T) {
	app := newApp(t)
	cust := seedCustomer(t, "Rahim", 0)

	status, _ := doJSON(t, app, http.MethodPost, "/api/transactions", fiber.Map{
		"type":       "receivable",
		"customerId": cust.ID,
		"total":      200,
	})
	require.Equal(t, http.StatusCreated, status)

	// Corrupt the stored balance behind the ledger's back.
	require.NoError(t, database.DB.Model(&models.Customer{}).
		Where("id = ?", cust.ID).
		Update("balance", 999).Error)

	status, payload := doJSON(t, app, http.MethodGet,
		fmt.Sprintf("/api/customers/%d/report", cust.ID), nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, false, payload["reconciled"])
}
