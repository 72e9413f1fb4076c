package http

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/ramiroschettino/Procesador-de-factura-autom/internal/application/auth"
	"github.com/ramiroschettino/Procesador-de-factura-autom/internal/application/ingestion"
	"github.com/ramiroschettino/Procesador-de-factura-autom/internal/application/purchasing"
	"github.com/ramiroschettino/Procesador-de-factura-autom/internal/application/supplier"
	"github.com/ramiroschettino/Procesador-de-factura-autom/pkg/jwt"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Pipeline  *ingestion.Pipeline
	Matcher   *supplier.Matcher
	Orders    *purchasing.Resolver
	// Auth habilita login y alta de operadores; nil deja solo tokens emitidos por la CLI.
	Auth      *auth.Service
	JWTSecret string
	Provider  string
	// Ping verifica la base en /health; nil la omite.
	Ping func(ctx context.Context) error
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	app.Get("/health", health(deps))

	var authHandler *AuthHandler
	if deps.Auth != nil {
		authHandler = NewAuthHandler(deps.Auth)
		app.Post("/api/auth/login", authHandler.Login)
	}

	// Rutas protegidas (requieren Bearer Token)
	api := app.Group("/api", AuthMiddleware(deps.JWTSecret))
	loaders := RequireRole(jwt.RoleAdmin, jwt.RoleOperator)
	readers := RequireRole(jwt.RoleAdmin, jwt.RoleOperator, jwt.RoleAccountant)

	invoiceHandler := NewInvoiceHandler(deps.Pipeline)
	invoices := api.Group("/invoices", loaders)
	invoices.Post("/extract", invoiceHandler.Extract)
	invoices.Post("/process", invoiceHandler.Process)
	invoices.Post("/reconcile", invoiceHandler.Reconcile)

	supplierHandler := NewSupplierHandler(deps.Pipeline, deps.Matcher, deps.Orders)
	suppliers := api.Group("/suppliers")
	suppliers.Post("/discover", loaders, supplierHandler.Discover)
	suppliers.Get("/search", readers, supplierHandler.Search)
	suppliers.Get("/:code/orders", readers, supplierHandler.Orders)

	api.Get("/orders/:number/items", readers, supplierHandler.OrderItems)

	if authHandler != nil {
		api.Post("/operators", RequireRole(jwt.RoleAdmin), authHandler.Register)
	}
}

func health(deps RouterDeps) fiber.Handler {
	return func(c *fiber.Ctx) error {
		body := fiber.Map{"status": "ok", "ai_provider": deps.Provider}
		if deps.Ping != nil {
			ctx, cancel := context.WithTimeout(c.Context(), 2*time.Second)
			defer cancel()
			if err := deps.Ping(ctx); err != nil {
				body["status"] = "degraded"
				body["database"] = err.Error()
				return c.Status(fiber.StatusServiceUnavailable).JSON(body)
			}
			body["database"] = "ok"
		}
		return c.JSON(body)
	}
}
