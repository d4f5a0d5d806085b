package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Granja-api/internal/domain/entity"
	"github.com/jhoicas/Granja-api/pkg/logger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC     AuthService
	ItemUC     ItemService
	LedgerUC   LedgerService
	KardexUC   KardexService // opcional
	PurchaseUC PurchaseService
	// Idempotency habilita Idempotency-Key en los POST del libro; nil = deshabilitado.
	Idempotency IdempotencyStore
	JWTSecret   string
	Log         *logger.Logger
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	log := deps.Log
	if log == nil {
		log = logger.Nop()
	}
	api := app.Group("/api")
	auth := AuthMiddleware(deps.JWTSecret)
	adminOnly := RequireRole(entity.RoleAdmin)

	// Auth (público)
	authHandler := NewAuthHandler(deps.AuthUC, log)
	api.Post("/auth/login", authHandler.Login)
	api.Get("/auth/me", auth, authHandler.Me)

	var idem fiber.Handler
	if deps.Idempotency != nil {
		idem = Idempotency(deps.Idempotency, log)
	}
	// ledger antepone auth y, si está configurada, la idempotencia.
	ledger := func(h fiber.Handler) []fiber.Handler {
		if idem == nil {
			return []fiber.Handler{auth, h}
		}
		return []fiber.Handler{auth, idem, h}
	}

	// Inventario
	inv := NewInventoryHandler(deps.ItemUC, deps.LedgerUC, deps.KardexUC, log)
	api.Post("/farms/:farmId/inventory", auth, inv.CreateItem)
	api.Get("/farms/:farmId/inventory", auth, inv.ListItems)
	api.Get("/farms/:farmId/inventory/transactions", auth, inv.FarmTransactions)
	api.Get("/inventory/:itemId", auth, inv.GetItem)
	api.Put("/inventory/:itemId", auth, inv.UpdateItem)
	api.Delete("/inventory/:itemId", auth, adminOnly, inv.DeleteItem)
	api.Post("/inventory/:itemId/entry", ledger(inv.Entry)...)
	api.Post("/inventory/:itemId/withdrawal", ledger(inv.Withdrawal)...)
	api.Post("/inventory/:itemId/adjustment", ledger(inv.Adjustment)...)
	api.Get("/inventory/:itemId/transactions", auth, inv.ItemTransactions)
	api.Get("/inventory/:itemId/transactions/verify", auth, inv.VerifyChain)
	api.Get("/inventory/:itemId/transactions/pdf", auth, inv.KardexPDF)

	// Solicitudes de compra
	pr := NewPurchaseHandler(deps.PurchaseUC, log)
	api.Post("/farms/:farmId/purchase-requests", auth, pr.Create)
	api.Get("/farms/:farmId/purchase-requests", auth, pr.List)
	api.Get("/purchase-requests/:id", auth, pr.GetByID)
	api.Patch("/purchase-requests/:id", auth, pr.Update)
	api.Delete("/purchase-requests/:id", auth, adminOnly, pr.Delete)
	api.Post("/purchase-requests/:id/in-progress", auth, pr.MarkInProgress)
	api.Post("/purchase-requests/:id/finalize", auth, pr.Finalize)
}
