package purchase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Granja-api/internal/application/dto"
	"github.com/jhoicas/Granja-api/internal/domain"
	"github.com/jhoicas/Granja-api/internal/domain/entity"
	"github.com/jhoicas/Granja-api/internal/domain/repository"
	"github.com/jhoicas/Granja-api/internal/domain/workflow"
	"github.com/jhoicas/Granja-api/pkg/logger"
)

// UseCase casos de uso de solicitudes de compra. Los cambios de estado pasan siempre
// por workflow.Apply; una edición nunca toca status, andamento ni finalizadoPor.
type UseCase struct {
	txRunner TxRunner
	repo     repository.PurchaseRequestRepository
	metrics  WorkflowMetrics
	log      *logger.Logger
	now      func() time.Time
}

// NewUseCase construye el caso de uso. metrics y log pueden ser nil.
func NewUseCase(txRunner TxRunner, repo repository.PurchaseRequestRepository, metrics WorkflowMetrics, log *logger.Logger) *UseCase {
	if metrics == nil {
		metrics = nopMetrics{}
	}
	if log == nil {
		log = logger.Nop()
	}
	return &UseCase{
		txRunner: txRunner,
		repo:     repo,
		metrics:  metrics,
		log:      log.Named("purchase"),
		now:      time.Now,
	}
}

// Create registra una solicitud nueva (status NOVA) para la granja de la ruta.
func (uc *UseCase) Create(ctx context.Context, scope domain.Scope, farmID string, in dto.CreatePurchaseRequest) (*dto.PurchaseRequestResponse, error) {
	if !scope.Allows(farmID) {
		return nil, domain.ErrNotFound
	}
	if in.FarmID != "" && in.FarmID != farmID {
		return nil, domain.NewValidationError("farmId", "no coincide con la granja de la ruta")
	}
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	date, err := dto.ParseDate("data", in.Data)
	if err != nil {
		return nil, err
	}

	now := uc.now()
	req := &entity.PurchaseRequest{
		ID:            uuid.New().String(),
		FarmID:        farmID,
		Product:       strings.TrimSpace(in.Produto),
		QuantityText:  strings.TrimSpace(in.Quantidade),
		Notes:         strings.TrimSpace(in.Observacao),
		Responsible:   strings.TrimSpace(in.Responsavel),
		RequestedDate: date,
		Urgent:        in.Urgente,
		Status:        entity.PurchaseStatusNova,
		CreatedBy:     scope.UserID,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := uc.repo.Create(ctx, req); err != nil {
		return nil, err
	}
	uc.log.Info().Str("request_id", req.ID).Str("farm_id", farmID).Bool("urgente", req.Urgent).Msg("solicitud de compra creada")
	out := toResponse(req)
	return &out, nil
}

// GetByID obtiene una solicitud visible para el scope.
func (uc *UseCase) GetByID(ctx context.Context, scope domain.Scope, id string) (*dto.PurchaseRequestResponse, error) {
	req, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req == nil || !scope.Allows(req.FarmID) {
		return nil, domain.ErrNotFound
	}
	out := toResponse(req)
	return &out, nil
}

// List lista las solicitudes de la granja: urgentes primero, luego por fecha solicitada.
func (uc *UseCase) List(ctx context.Context, scope domain.Scope, farmID string, q dto.PurchaseRequestQuery) (*dto.PurchaseRequestListResponse, error) {
	if !scope.Allows(farmID) {
		return nil, domain.ErrNotFound
	}
	q.DefaultPage()
	if err := dto.Validate(q); err != nil {
		return nil, err
	}
	filter := repository.PurchaseRequestFilter{
		Search: strings.TrimSpace(q.Search),
		Limit:  q.Limit,
		Offset: q.Offset,
	}
	if q.Status != "all" {
		filter.Status = q.Status
	}
	if q.Urgente != "" {
		urgent := q.Urgente == "true"
		filter.Urgent = &urgent
	}

	list, err := uc.repo.ListByFarm(ctx, farmID, filter)
	if err != nil {
		return nil, err
	}
	total, err := uc.repo.CountByFarm(ctx, farmID, filter)
	if err != nil {
		return nil, err
	}
	items := make([]dto.PurchaseRequestResponse, 0, len(list))
	for _, r := range list {
		items = append(items, toResponse(r))
	}
	return &dto.PurchaseRequestListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: q.Limit, Offset: q.Offset, Total: total},
	}, nil
}

// Update aplica una edición parcial y, si viene status, la transición correspondiente.
// Todo ocurre en una sola transacción: si la transición es inválida no se guarda la edición.
func (uc *UseCase) Update(ctx context.Context, scope domain.Scope, id string, in dto.UpdatePurchaseRequest) (*dto.PurchaseRequestResponse, error) {
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	var transition workflow.Transition
	if in.Status != nil {
		t, err := workflow.ForStatus(*in.Status, deref(in.Andamento), deref(in.FinalizadoPor))
		if err != nil {
			return nil, err
		}
		transition = t
	} else if in.Andamento != nil || in.FinalizadoPor != nil {
		return nil, domain.NewValidationError("status", "andamento y finalizadoPor solo se informan junto con status")
	}
	var date *time.Time
	if in.Data != nil {
		d, err := dto.ParseDate("data", *in.Data)
		if err != nil {
			return nil, err
		}
		date = &d
	}

	return uc.mutate(ctx, scope, id, func(req *entity.PurchaseRequest, now time.Time) error {
		if in.HasEdits() {
			if req.IsFinal() {
				return domain.ErrInvalidTransition
			}
			applyEdits(req, in, date)
			req.UpdatedAt = now
		}
		if transition != nil {
			return workflow.Apply(req, transition, now)
		}
		return nil
	}, transition)
}

// MarkInProgress pasa la solicitud a EM_ANDAMENTO con el texto de andamento.
func (uc *UseCase) MarkInProgress(ctx context.Context, scope domain.Scope, id string, in dto.ProgressRequest) (*dto.PurchaseRequestResponse, error) {
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	t := workflow.MarkInProgress{Andamento: in.Andamento}
	return uc.mutate(ctx, scope, id, func(req *entity.PurchaseRequest, now time.Time) error {
		return workflow.Apply(req, t, now)
	}, t)
}

// Finalize cierra la solicitud. Una solicitud ya FINALIZADA devuelve ErrInvalidTransition.
func (uc *UseCase) Finalize(ctx context.Context, scope domain.Scope, id string, in dto.FinalizeRequest) (*dto.PurchaseRequestResponse, error) {
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	t := workflow.Finalize{FinalizadoPor: in.FinalizadoPor}
	return uc.mutate(ctx, scope, id, func(req *entity.PurchaseRequest, now time.Time) error {
		return workflow.Apply(req, t, now)
	}, t)
}

// Delete borra la solicitud definitivamente.
func (uc *UseCase) Delete(ctx context.Context, scope domain.Scope, id string) error {
	req, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if req == nil || !scope.Allows(req.FarmID) {
		return domain.ErrNotFound
	}
	if err := uc.repo.Delete(ctx, req.ID); err != nil {
		return err
	}
	uc.log.Info().Str("request_id", req.ID).Str("user_id", scope.UserID).Msg("solicitud de compra eliminada")
	return nil
}

func (uc *UseCase) mutate(
	ctx context.Context,
	scope domain.Scope,
	id string,
	change func(req *entity.PurchaseRequest, now time.Time) error,
	transition workflow.Transition,
) (*dto.PurchaseRequestResponse, error) {
	var out dto.PurchaseRequestResponse
	var from string
	err := uc.txRunner.RunPurchases(ctx, func(repo repository.PurchaseRequestRepository) error {
		req, err := repo.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if req == nil || !scope.Allows(req.FarmID) {
			return domain.ErrNotFound
		}
		from = req.Status
		if err := change(req, uc.now()); err != nil {
			return err
		}
		if err := repo.Update(ctx, req); err != nil {
			return err
		}
		out = toResponse(req)
		return nil
	})
	if err != nil {
		if transition != nil {
			uc.log.Warn().Err(err).Str("request_id", id).Str("from", from).Str("to", transition.Target()).Msg("transición rechazada")
		}
		return nil, err
	}
	if transition != nil {
		uc.metrics.TransitionApplied(transition.Target())
		uc.log.Info().Str("request_id", id).Str("from", from).Str("to", out.Status).Str("user_id", scope.UserID).Msg("solicitud de compra actualizada")
	}
	return &out, nil
}

func applyEdits(req *entity.PurchaseRequest, in dto.UpdatePurchaseRequest, date *time.Time) {
	if in.Produto != nil {
		req.Product = strings.TrimSpace(*in.Produto)
	}
	if in.Quantidade != nil {
		req.QuantityText = strings.TrimSpace(*in.Quantidade)
	}
	if in.Responsavel != nil {
		req.Responsible = strings.TrimSpace(*in.Responsavel)
	}
	if in.Observacao != nil {
		req.Notes = strings.TrimSpace(*in.Observacao)
	}
	if in.Urgente != nil {
		req.Urgent = *in.Urgente
	}
	if date != nil {
		req.RequestedDate = *date
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func toResponse(r *entity.PurchaseRequest) dto.PurchaseRequestResponse {
	out := dto.PurchaseRequestResponse{
		ID:            r.ID,
		FarmID:        r.FarmID,
		Produto:       r.Product,
		Quantidade:    r.QuantityText,
		Observacao:    r.Notes,
		Responsavel:   r.Responsible,
		Urgente:       r.Urgent,
		Status:        r.Status,
		Andamento:     r.Progress,
		FinalizadoPor: r.FinalizedBy,
		CreatedBy:     r.CreatedBy,
		CreatedAt:     r.CreatedAt,
		UpdatedAt:     r.UpdatedAt,
	}
	if !r.RequestedDate.IsZero() {
		out.Data = r.RequestedDate.Format(dto.DateLayout)
	}
	return out
}
