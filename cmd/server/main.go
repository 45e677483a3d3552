package main

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/sirupsen/logrus"

	"shopledger-backend/internal/audit"
	"shopledger-backend/internal/auth"
	"shopledger-backend/internal/company"
	"shopledger-backend/internal/config"
	"shopledger-backend/internal/database"
	"shopledger-backend/internal/expense"
	"shopledger-backend/internal/inventory"
	"shopledger-backend/internal/reports"
	"shopledger-backend/internal/sales"
)

func main() {
	cfg := config.Load()
	database.Init(cfg)

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if e, ok := err.(*fiber.Error); ok {
				return c.Status(e.Code).JSON(fiber.Map{
					"error": e.Message,
				})
			}
			logrus.WithError(err).Error("unexpected error")
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Internal server error",
			})
		},
	})

	corsOrigins := strings.Split(cfg.CORSOrigins, ",")
	for i := range corsOrigins {
		corsOrigins[i] = strings.TrimSpace(corsOrigins[i])
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: strings.Join(corsOrigins, ","),
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
	}))

	api := app.Group("/api")

	// Public auth
	api.Post("/auth/register", auth.RegisterHandler(cfg))
	api.Post("/auth/login", auth.LoginHandler(cfg))

	// Protected
	protected := api.Group("")
	protected.Use(auth.JWTMiddleware(cfg))

	protected.Get("/auth/me", auth.MeHandler())

	// Suppliers / companies
	protected.Post("/companies", company.CreateCompanyHandler())
	protected.Get("/companies", company.ListCompaniesHandler())
	protected.Put("/companies/:id", company.UpdateCompanyHandler())
	protected.Delete("/companies/:id", company.DeleteCompanyHandler())

	// Products (stock is always derived from the ledger)
	protected.Post("/products", inventory.CreateProductHandler())
	protected.Get("/products", inventory.ListProductsHandler())
	protected.Get("/products/:id", inventory.GetProductHandler())
	protected.Put("/products/:id", inventory.UpdateProductHandler())
	protected.Delete("/products/:id", inventory.DeleteProductHandler())

	// Stock ledger
	protected.Post("/transactions", inventory.CreateTransactionHandler())
	protected.Get("/transactions", inventory.ListTransactionsHandler())
	protected.Delete("/transactions/:id", inventory.DeleteTransactionHandler())

	// Sales
	protected.Post("/sales", sales.CreateSaleHandler())
	protected.Get("/sales", sales.ListSalesHandler())
	protected.Put("/sales/:id", sales.UpdateSaleHandler())
	protected.Delete("/sales/:id", sales.DeleteSaleHandler())

	// Expenses
	protected.Post("/expenses", expense.CreateExpenseHandler())
	protected.Get("/expenses", expense.ListExpensesHandler())
	protected.Get("/expenses/daily-total", expense.DailyTotalHandler())
	protected.Get("/expenses/date-range", expense.DateRangeTotalsHandler())
	protected.Get("/expenses/:id", expense.GetExpenseHandler())
	protected.Put("/expenses/:id", expense.UpdateExpenseHandler())
	protected.Delete("/expenses/:id", expense.DeleteExpenseHandler())

	// Reporting
	protected.Get("/reports/dashboard", reports.DashboardHandler())
	protected.Get("/reports/period-summary", reports.PeriodSummaryHandler())
	protected.Get("/reports/period-summary/export", reports.PeriodSummaryExportHandler())

	// Audit logs
	protected.Get("/audit-logs", audit.ListAuditLogsHandler())

	logrus.WithField("port", cfg.HTTPPort).Info("server listening")
	if err := app.Listen(":" + cfg.HTTPPort); err != nil {
		logrus.Fatal(err)
	}
}
