package main

import (
	"strings"

	"github.com/CodeBuddy07/accounting-server/internal/audit"
	"github.com/CodeBuddy07/accounting-server/internal/auth"
	"github.com/CodeBuddy07/accounting-server/internal/config"
	"github.com/CodeBuddy07/accounting-server/internal/customer"
	"github.com/CodeBuddy07/accounting-server/internal/database"
	"github.com/CodeBuddy07/accounting-server/internal/logger"
	"github.com/CodeBuddy07/accounting-server/internal/product"
	"github.com/CodeBuddy07/accounting-server/internal/statistics"
	"github.com/CodeBuddy07/accounting-server/internal/template"
	"github.com/CodeBuddy07/accounting-server/internal/transaction"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

func main() {
	cfg := config.Load()
	logger.Setup(cfg.LogLevel)
	database.Init(cfg)

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if e, ok := err.(*fiber.Error); ok {
				return c.Status(e.Code).JSON(fiber.Map{
					"error": e.Message,
				})
			}
			logger.Error(err, "unexpected server error")
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Unexpected server error",
			})
		},
	})

	corsOrigins := strings.Split(cfg.CORSOrigins, ",")
	for i := range corsOrigins {
		corsOrigins[i] = strings.TrimSpace(corsOrigins[i])
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins:     strings.Join(corsOrigins, ","),
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS",
		AllowCredentials: true,
	}))

	api := app.Group("/api")

	// Public auth
	api.Post("/admin/register", auth.RegisterHandler())
	api.Post("/admin/login", auth.LoginHandler(cfg))
	api.Post("/admin/logout", auth.LogoutHandler(cfg))
	api.Post("/admin/forgot-password", auth.ForgotPasswordHandler())
	api.Post("/admin/reset-password", auth.ResetPasswordHandler())

	// Protected
	protected := api.Group("")
	protected.Use(auth.JWTMiddleware(cfg))

	protected.Get("/admin/auth", auth.MeHandler())
	protected.Post("/admin/change-password", auth.ChangePasswordHandler())

	// Customers
	protected.Get("/customers", customer.ListCustomersHandler())
	protected.Post("/customers", customer.CreateCustomerHandler())
	protected.Put("/customers/:id", customer.UpdateCustomerHandler())
	protected.Delete("/customers/:id", customer.DeleteCustomerHandler())
	protected.Post("/customers/:id", customer.SendSMSHandler())
	protected.Get("/customers/:id/report", customer.CustomerReportHandler())

	// Products
	protected.Get("/products", product.ListProductsHandler())
	protected.Post("/products", product.CreateProductHandler())
	protected.Put("/products/:id", product.UpdateProductHandler())
	protected.Delete("/products/:id", product.DeleteProductHandler())

	// Transactions
	protected.Post("/transactions", transaction.CreateTransactionHandler())
	protected.Get("/transactions", transaction.ListTransactionsHandler())

	// SMS templates
	protected.Get("/templates", template.ListTemplatesHandler())
	protected.Post("/templates", template.CreateTemplateHandler())
	protected.Put("/templates/:id", template.UpdateTemplateHandler())
	protected.Delete("/templates/:id", template.DeleteTemplateHandler())

	// Dashboard
	protected.Get("/statistics/dashboard", statistics.DashboardHandler())

	// Audit trail
	protected.Get("/audit-logs", audit.ListAuditLogsHandler())

	logger.Info("server listening on :" + cfg.HTTPPort)
	if err := app.Listen(":" + cfg.HTTPPort); err != nil {
		logger.Fatal(err, "server stopped")
	}
}
