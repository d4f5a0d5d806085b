package http

import (
	"context"
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Granja-api/internal/application/dto"
	"github.com/jhoicas/Granja-api/internal/domain"
	"github.com/jhoicas/Granja-api/internal/domain/repository"
	"github.com/jhoicas/Granja-api/pkg/logger"
)

// ItemService catálogo de insumos por granja.
type ItemService interface {
	Create(ctx context.Context, scope domain.Scope, farmID string, in dto.CreateItemRequest) (*dto.ItemResponse, error)
	GetByID(ctx context.Context, scope domain.Scope, id string) (*dto.ItemResponse, error)
	List(ctx context.Context, scope domain.Scope, farmID string, filter repository.ItemFilter) (*dto.ItemListResponse, error)
	Update(ctx context.Context, scope domain.Scope, id string, in dto.UpdateItemRequest) (*dto.ItemResponse, error)
	Delete(ctx context.Context, scope domain.Scope, id string) error
}

// LedgerService movimientos de stock y su historial.
type LedgerService interface {
	Entry(ctx context.Context, scope domain.Scope, itemID string, in dto.EntryRequest) (*dto.LedgerResult, error)
	Withdrawal(ctx context.Context, scope domain.Scope, itemID string, in dto.WithdrawalRequest) (*dto.LedgerResult, error)
	Adjustment(ctx context.Context, scope domain.Scope, itemID string, in dto.AdjustmentRequest) (*dto.LedgerResult, error)
	ListItemTransactions(ctx context.Context, scope domain.Scope, itemID string, q dto.TransactionQuery) (*dto.TransactionListResponse, error)
	ListFarmTransactions(ctx context.Context, scope domain.Scope, farmID string, q dto.TransactionQuery) (*dto.TransactionListResponse, error)
	VerifyChain(ctx context.Context, scope domain.Scope, itemID string) (*dto.ChainVerificationResponse, error)
}

// KardexService PDF del historial de un ítem.
type KardexService interface {
	ItemKardexPDF(ctx context.Context, scope domain.Scope, itemID string) ([]byte, string, error)
}

// InventoryHandler maneja el catálogo de insumos y el libro de movimientos.
type InventoryHandler struct {
	items  ItemService
	ledger LedgerService
	kardex KardexService
	log    *logger.Logger
}

// NewInventoryHandler construye el handler de inventario. kardex puede ser nil (ruta /pdf deshabilitada).
func NewInventoryHandler(items ItemService, ledger LedgerService, kardex KardexService, log *logger.Logger) *InventoryHandler {
	return &InventoryHandler{items: items, ledger: ledger, kardex: kardex, log: log}
}

// CreateItem godoc
// @Summary      Crear insumo
// @Tags         inventory
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        farmId  path  string                 true  "ID de la granja"
// @Param        body    body  dto.CreateItemRequest  true  "name, category, unit, quantity, minimumLevel"
// @Success      201     {object}  dto.ItemResponse
// @Failure      400     {object}  dto.ErrorResponse
// @Failure      404     {object}  dto.ErrorResponse
// @Failure      409     {object}  dto.ErrorResponse
// @Router       /api/farms/{farmId}/inventory [post]
func (h *InventoryHandler) CreateItem(c *fiber.Ctx) error {
	var in dto.CreateItemRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.items.Create(c.UserContext(), ScopeFrom(c), c.Params("farmId"), in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ListItems godoc
// @Summary      Listar insumos de una granja
// @Tags         inventory
// @Produce      json
// @Security     BearerAuth
// @Param        farmId    path   string  true   "ID de la granja"
// @Param        category  query  string  false  "Categoría exacta"
// @Param        search    query  string  false  "Búsqueda parcial por nombre"
// @Param        lowStock  query  bool    false  "Solo ítems en o bajo el mínimo"
// @Success      200       {object}  dto.ItemListResponse
// @Failure      404       {object}  dto.ErrorResponse
// @Router       /api/farms/{farmId}/inventory [get]
func (h *InventoryHandler) ListItems(c *fiber.Ctx) error {
	filter := repository.ItemFilter{
		Category:     strings.TrimSpace(c.Query("category")),
		Search:       strings.TrimSpace(c.Query("search")),
		LowStockOnly: c.QueryBool("lowStock", false),
	}
	out, err := h.items.List(c.UserContext(), ScopeFrom(c), c.Params("farmId"), filter)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// GetItem godoc
// @Summary      Obtener insumo
// @Tags         inventory
// @Produce      json
// @Security     BearerAuth
// @Param        itemId  path  string  true  "ID del insumo"
// @Success      200     {object}  dto.ItemResponse
// @Failure      404     {object}  dto.ErrorResponse
// @Router       /api/inventory/{itemId} [get]
func (h *InventoryHandler) GetItem(c *fiber.Ctx) error {
	out, err := h.items.GetByID(c.UserContext(), ScopeFrom(c), c.Params("itemId"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// UpdateItem godoc
// @Summary      Editar datos del insumo (no la cantidad)
// @Tags         inventory
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        itemId  path  string                 true  "ID del insumo"
// @Param        body    body  dto.UpdateItemRequest  true  "campos a modificar"
// @Success      200     {object}  dto.ItemResponse
// @Failure      400     {object}  dto.ErrorResponse
// @Failure      404     {object}  dto.ErrorResponse
// @Router       /api/inventory/{itemId} [put]
func (h *InventoryHandler) UpdateItem(c *fiber.Ctx) error {
	var in dto.UpdateItemRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.items.Update(c.UserContext(), ScopeFrom(c), c.Params("itemId"), in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// DeleteItem godoc
// @Summary      Eliminar insumo sin movimientos
// @Tags         inventory
// @Security     BearerAuth
// @Param        itemId  path  string  true  "ID del insumo"
// @Success      204
// @Failure      404     {object}  dto.ErrorResponse
// @Failure      409     {object}  dto.ErrorResponse
// @Router       /api/inventory/{itemId} [delete]
func (h *InventoryHandler) DeleteItem(c *fiber.Ctx) error {
	if err := h.items.Delete(c.UserContext(), ScopeFrom(c), c.Params("itemId")); err != nil {
		return writeError(c, h.log, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Entry godoc
// @Summary      Registrar entrada de stock
// @Tags         ledger
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        itemId           path    string            true   "ID del insumo"
// @Param        Idempotency-Key  header  string            false  "Clave para reintentos seguros"
// @Param        body             body    dto.EntryRequest  true   "quantity, documentNumber, unitPrice, source, notes"
// @Success      201              {object}  dto.LedgerResult
// @Failure      400              {object}  dto.ErrorResponse
// @Failure      404              {object}  dto.ErrorResponse
// @Router       /api/inventory/{itemId}/entry [post]
func (h *InventoryHandler) Entry(c *fiber.Ctx) error {
	var in dto.EntryRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.ledger.Entry(c.UserContext(), ScopeFrom(c), c.Params("itemId"), in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Withdrawal godoc
// @Summary      Registrar salida de stock
// @Tags         ledger
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        itemId           path    string                 true   "ID del insumo"
// @Param        Idempotency-Key  header  string                 false  "Clave para reintentos seguros"
// @Param        body             body    dto.WithdrawalRequest  true   "quantity, destination, notes"
// @Success      201              {object}  dto.LedgerResult
// @Failure      400              {object}  dto.ErrorResponse
// @Failure      404              {object}  dto.ErrorResponse
// @Failure      409              {object}  dto.ErrorResponse  "INSUFFICIENT_STOCK"
// @Router       /api/inventory/{itemId}/withdrawal [post]
func (h *InventoryHandler) Withdrawal(c *fiber.Ctx) error {
	var in dto.WithdrawalRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.ledger.Withdrawal(c.UserContext(), ScopeFrom(c), c.Params("itemId"), in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Adjustment godoc
// @Summary      Ajustar stock a un valor absoluto
// @Tags         ledger
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        itemId           path    string                 true   "ID del insumo"
// @Param        Idempotency-Key  header  string                 false  "Clave para reintentos seguros"
// @Param        body             body    dto.AdjustmentRequest  true   "newQuantity, notes"
// @Success      201              {object}  dto.LedgerResult
// @Failure      400              {object}  dto.ErrorResponse
// @Failure      404              {object}  dto.ErrorResponse
// @Router       /api/inventory/{itemId}/adjustment [post]
func (h *InventoryHandler) Adjustment(c *fiber.Ctx) error {
	var in dto.AdjustmentRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.ledger.Adjustment(c.UserContext(), ScopeFrom(c), c.Params("itemId"), in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ItemTransactions godoc
// @Summary      Historial de movimientos de un insumo
// @Tags         ledger
// @Produce      json
// @Security     BearerAuth
// @Param        itemId  path   string  true   "ID del insumo"
// @Param        type    query  string  false  "IN | OUT | ADJUST"
// @Param        from    query  string  false  "YYYY-MM-DD"
// @Param        to      query  string  false  "YYYY-MM-DD"
// @Param        limit   query  int     false  "Máximo 200"
// @Param        offset  query  int     false  "Desplazamiento"
// @Success      200     {object}  dto.TransactionListResponse
// @Failure      400     {object}  dto.ErrorResponse
// @Failure      404     {object}  dto.ErrorResponse
// @Router       /api/inventory/{itemId}/transactions [get]
func (h *InventoryHandler) ItemTransactions(c *fiber.Ctx) error {
	var q dto.TransactionQuery
	if err := c.QueryParser(&q); err != nil {
		return badQuery(c)
	}
	out, err := h.ledger.ListItemTransactions(c.UserContext(), ScopeFrom(c), c.Params("itemId"), q)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// FarmTransactions godoc
// @Summary      Historial de movimientos de una granja
// @Tags         ledger
// @Produce      json
// @Security     BearerAuth
// @Param        farmId  path   string  true   "ID de la granja"
// @Param        itemId  query  string  false  "Filtrar por insumo"
// @Param        type    query  string  false  "IN | OUT | ADJUST"
// @Param        from    query  string  false  "YYYY-MM-DD"
// @Param        to      query  string  false  "YYYY-MM-DD"
// @Param        limit   query  int     false  "Máximo 200"
// @Param        offset  query  int     false  "Desplazamiento"
// @Success      200     {object}  dto.TransactionListResponse
// @Failure      400     {object}  dto.ErrorResponse
// @Failure      404     {object}  dto.ErrorResponse
// @Router       /api/farms/{farmId}/inventory/transactions [get]
func (h *InventoryHandler) FarmTransactions(c *fiber.Ctx) error {
	var q dto.TransactionQuery
	if err := c.QueryParser(&q); err != nil {
		return badQuery(c)
	}
	out, err := h.ledger.ListFarmTransactions(c.UserContext(), ScopeFrom(c), c.Params("farmId"), q)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// VerifyChain godoc
// @Summary      Verificar consistencia del historial
// @Tags         ledger
// @Produce      json
// @Security     BearerAuth
// @Param        itemId  path  string  true  "ID del insumo"
// @Success      200     {object}  dto.ChainVerificationResponse
// @Failure      404     {object}  dto.ErrorResponse
// @Router       /api/inventory/{itemId}/transactions/verify [get]
func (h *InventoryHandler) VerifyChain(c *fiber.Ctx) error {
	out, err := h.ledger.VerifyChain(c.UserContext(), ScopeFrom(c), c.Params("itemId"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// KardexPDF godoc
// @Summary      Kardex del insumo en PDF
// @Tags         ledger
// @Produce      application/pdf
// @Security     BearerAuth
// @Param        itemId  path  string  true  "ID del insumo"
// @Success      200     {file}  binary
// @Failure      404     {object}  dto.ErrorResponse
// @Router       /api/inventory/{itemId}/transactions/pdf [get]
func (h *InventoryHandler) KardexPDF(c *fiber.Ctx) error {
	if h.kardex == nil {
		return fiber.ErrNotFound
	}
	pdf, filename, err := h.kardex.ItemKardexPDF(c.UserContext(), ScopeFrom(c), c.Params("itemId"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
	return c.Send(pdf)
}
