package http

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Granja-api/internal/application/dto"
	"github.com/jhoicas/Granja-api/internal/domain"
	"github.com/jhoicas/Granja-api/pkg/logger"
)

// PurchaseService flujo de solicitudes de compra.
type PurchaseService interface {
	Create(ctx context.Context, scope domain.Scope, farmID string, in dto.CreatePurchaseRequest) (*dto.PurchaseRequestResponse, error)
	GetByID(ctx context.Context, scope domain.Scope, id string) (*dto.PurchaseRequestResponse, error)
	List(ctx context.Context, scope domain.Scope, farmID string, q dto.PurchaseRequestQuery) (*dto.PurchaseRequestListResponse, error)
	Update(ctx context.Context, scope domain.Scope, id string, in dto.UpdatePurchaseRequest) (*dto.PurchaseRequestResponse, error)
	MarkInProgress(ctx context.Context, scope domain.Scope, id string, in dto.ProgressRequest) (*dto.PurchaseRequestResponse, error)
	Finalize(ctx context.Context, scope domain.Scope, id string, in dto.FinalizeRequest) (*dto.PurchaseRequestResponse, error)
	Delete(ctx context.Context, scope domain.Scope, id string) error
}

// PurchaseHandler maneja las solicitudes de compra de una granja.
type PurchaseHandler struct {
	uc  PurchaseService
	log *logger.Logger
}

// NewPurchaseHandler construye el handler.
func NewPurchaseHandler(uc PurchaseService, log *logger.Logger) *PurchaseHandler {
	return &PurchaseHandler{uc: uc, log: log}
}

// Create godoc
// @Summary      Crear solicitud de compra (estado NOVA)
// @Tags         purchase-requests
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        farmId  path  string                     true  "ID de la granja"
// @Param        body    body  dto.CreatePurchaseRequest  true  "produto, quantidade, responsavel, data, urgente, observacao"
// @Success      201     {object}  dto.PurchaseRequestResponse
// @Failure      400     {object}  dto.ErrorResponse
// @Failure      404     {object}  dto.ErrorResponse
// @Router       /api/farms/{farmId}/purchase-requests [post]
func (h *PurchaseHandler) Create(c *fiber.Ctx) error {
	var in dto.CreatePurchaseRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Create(c.UserContext(), ScopeFrom(c), c.Params("farmId"), in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      Listar solicitudes de compra
// @Tags         purchase-requests
// @Produce      json
// @Security     BearerAuth
// @Param        farmId   path   string  true   "ID de la granja"
// @Param        status   query  string  false  "all | NOVA | EM_ANDAMENTO | FINALIZADA"
// @Param        urgente  query  string  false  "true | false"
// @Param        search   query  string  false  "Búsqueda en produto/responsavel"
// @Param        limit    query  int     false  "Máximo 200"
// @Param        offset   query  int     false  "Desplazamiento"
// @Success      200      {object}  dto.PurchaseRequestListResponse
// @Failure      400      {object}  dto.ErrorResponse
// @Failure      404      {object}  dto.ErrorResponse
// @Router       /api/farms/{farmId}/purchase-requests [get]
func (h *PurchaseHandler) List(c *fiber.Ctx) error {
	var q dto.PurchaseRequestQuery
	if err := c.QueryParser(&q); err != nil {
		return badQuery(c)
	}
	out, err := h.uc.List(c.UserContext(), ScopeFrom(c), c.Params("farmId"), q)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener solicitud de compra
// @Tags         purchase-requests
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  string  true  "ID de la solicitud"
// @Success      200 {object}  dto.PurchaseRequestResponse
// @Failure      404 {object}  dto.ErrorResponse
// @Router       /api/purchase-requests/{id} [get]
func (h *PurchaseHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.UserContext(), ScopeFrom(c), c.Params("id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Editar solicitud y/o avanzar su estado
// @Tags         purchase-requests
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path  string                     true  "ID de la solicitud"
// @Param        body  body  dto.UpdatePurchaseRequest  true  "campos a modificar; status opcional"
// @Success      200   {object}  dto.PurchaseRequestResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse  "INVALID_TRANSITION"
// @Router       /api/purchase-requests/{id} [patch]
func (h *PurchaseHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdatePurchaseRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Update(c.UserContext(), ScopeFrom(c), c.Params("id"), in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// MarkInProgress godoc
// @Summary      Pasar a EM_ANDAMENTO con nota de seguimiento
// @Tags         purchase-requests
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path  string               true  "ID de la solicitud"
// @Param        body  body  dto.ProgressRequest  true  "andamento"
// @Success      200   {object}  dto.PurchaseRequestResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/purchase-requests/{id}/in-progress [post]
func (h *PurchaseHandler) MarkInProgress(c *fiber.Ctx) error {
	var in dto.ProgressRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.MarkInProgress(c.UserContext(), ScopeFrom(c), c.Params("id"), in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// Finalize godoc
// @Summary      Finalizar solicitud
// @Tags         purchase-requests
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path  string               true  "ID de la solicitud"
// @Param        body  body  dto.FinalizeRequest  true  "finalizadoPor"
// @Success      200   {object}  dto.PurchaseRequestResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/purchase-requests/{id}/finalize [post]
func (h *PurchaseHandler) Finalize(c *fiber.Ctx) error {
	var in dto.FinalizeRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Finalize(c.UserContext(), ScopeFrom(c), c.Params("id"), in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar solicitud de compra
// @Tags         purchase-requests
// @Security     BearerAuth
// @Param        id  path  string  true  "ID de la solicitud"
// @Success      204
// @Failure      404 {object}  dto.ErrorResponse
// @Router       /api/purchase-requests/{id} [delete]
func (h *PurchaseHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.UserContext(), ScopeFrom(c), c.Params("id")); err != nil {
		return writeError(c, h.log, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
