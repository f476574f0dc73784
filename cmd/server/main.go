package main

import (
	"errors"
	"log"

	"lager-backend/internal/articles"
	"lager-backend/internal/audit"
	"lager-backend/internal/config"
	"lager-backend/internal/database"
	"lager-backend/internal/inventur"
	"lager-backend/internal/locations"
	"lager-backend/internal/mobilfunk"
	"lager-backend/internal/orders"
	"lager-backend/internal/serials"
	"lager-backend/internal/stock"
	"lager-backend/internal/suppliers"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

func main() {
	cfg := config.Load()
	database.Init(cfg)

	app := fiber.New(fiber.Config{
		AppName: "lager-backend",
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			message := "Interner Serverfehler"

			var fe *fiber.Error
			if errors.As(err, &fe) {
				code = fe.Code
				message = fe.Message
			}

			return c.Status(code).JSON(fiber.Map{"error": message})
		},
	})

	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.CORSOrigins,
		AllowHeaders: "Origin, Content-Type, Accept",
		AllowMethods: "GET, POST, PUT, PATCH, DELETE",
	}))

	api := app.Group("/api")

	// Artikelstamm
	api.Post("/articles", articles.CreateArticleHandler())
	api.Get("/articles", articles.ListArticlesHandler())
	api.Get("/articles/:id", articles.GetArticleHandler())
	api.Put("/articles/:id", articles.UpdateArticleHandler())
	api.Delete("/articles/:id", articles.DeleteArticleHandler())
	api.Post("/articles/import", articles.ImportArticlesHandler())
	api.Get("/articles/:id/suppliers", suppliers.ListArticleSuppliersHandler())

	// Bestandsbuch
	api.Post("/stock-movements", stock.CreateMovementHandler())
	api.Get("/stock-movements", stock.ListMovementsHandler())
	api.Get("/stock-reconciliation", stock.ReconciliationHandler())

	// Seriennummern
	api.Get("/serials", serials.ListSerialsHandler())
	api.Post("/serials", serials.CreateSerialHandler())
	api.Patch("/serials/:id/status", serials.UpdateSerialStatusHandler())

	// Aufträge
	api.Post("/orders", orders.CreateOrderHandler())
	api.Get("/orders", orders.ListOrdersHandler())
	api.Get("/orders/:id", orders.GetOrderHandler())
	api.Post("/orders/:id/cancel", orders.CancelOrderHandler())
	api.Post("/orders/:id/tech-done", orders.MarkTechDoneHandler())
	api.Post("/orders/:id/setup-done", orders.MarkSetupDoneHandler())
	api.Post("/orders/:id/ship", orders.MarkShippedHandler())

	// Auftragspositionen
	api.Post("/order-items/:id/pick", orders.PickItemHandler())
	api.Post("/order-items/:id/unpick", orders.UnpickItemHandler())
	api.Post("/order-items/:id/receive", orders.ReceiveItemHandler())
	api.Post("/order-items/:id/mark-ordered", orders.MarkItemOrderedHandler())
	api.Post("/order-items/:id/resolve", orders.ResolveFreetextHandler())

	// Mobilfunk-Unteraufträge
	api.Post("/mobilfunk/:id/ordered", mobilfunk.MarkOrderedHandler())
	api.Post("/mobilfunk/:id/received", mobilfunk.MarkReceivedHandler())
	api.Post("/mobilfunk/:id/setup", mobilfunk.MarkSetupDoneHandler())
	api.Post("/mobilfunk/:id/delivered", mobilfunk.MarkDeliveredHandler())

	// Inventur
	api.Post("/inventur", inventur.CreateInventurHandler())
	api.Get("/inventur", inventur.ListInventurenHandler())
	api.Get("/inventur/:id", inventur.GetInventurHandler())
	api.Get("/inventur/:id/export", inventur.ExportInventurHandler())
	api.Put("/inventur/:id/items/:itemID", inventur.CheckItemHandler())
	api.Post("/inventur/:id/apply", inventur.ApplyCorrectionsHandler())
	api.Post("/inventur/:id/cancel", inventur.CancelInventurHandler())

	// Lieferanten & Lagerplätze
	api.Post("/suppliers", suppliers.CreateSupplierHandler())
	api.Get("/suppliers", suppliers.ListSuppliersHandler())
	api.Put("/suppliers/:id", suppliers.UpdateSupplierHandler())
	api.Delete("/suppliers/:id", suppliers.DeleteSupplierHandler())
	api.Post("/article-suppliers", suppliers.CreateArticleSupplierHandler())
	api.Delete("/article-suppliers/:id", suppliers.DeleteArticleSupplierHandler())

	api.Post("/locations", locations.CreateLocationHandler())
	api.Get("/locations", locations.ListLocationsHandler())
	api.Put("/locations/:id", locations.UpdateLocationHandler())
	api.Delete("/locations/:id", locations.DeleteLocationHandler())

	// Protokoll
	api.Get("/audit-logs", audit.ListAuditLogsHandler())

	log.Printf("Lager-Backend lauscht auf Port %s", cfg.HTTPPort)
	if err := app.Listen(":" + cfg.HTTPPort); err != nil {
		log.Fatalf("Server konnte nicht gestartet werden: %v", err)
	}
}
