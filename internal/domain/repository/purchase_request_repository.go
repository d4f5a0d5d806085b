package repository

import (
	"context"

	"github.com/jhoicas/Granja-api/internal/domain/entity"
)

// PurchaseRequestFilter filtros del listado de solicitudes.
type PurchaseRequestFilter struct {
	Status string // vacío o "all" = todos
	Urgent *bool
	Search string // produto o responsavel, sin distinguir mayúsculas
	Limit  int
	Offset int
}

// PurchaseRequestRepository define el puerto de persistencia para solicitudes de compra.
// GetByID y GetForUpdate devuelven (nil, nil) si no existe.
type PurchaseRequestRepository interface {
	Create(ctx context.Context, req *entity.PurchaseRequest) error
	GetByID(ctx context.Context, id string) (*entity.PurchaseRequest, error)
	GetForUpdate(ctx context.Context, id string) (*entity.PurchaseRequest, error)
	Update(ctx context.Context, req *entity.PurchaseRequest) error
	Delete(ctx context.Context, id string) error
	ListByFarm(ctx context.Context, farmID string, filter PurchaseRequestFilter) ([]*entity.PurchaseRequest, error)
	// CountByFarm cantidad de solicitudes que cumplen filter, ignorando Limit y Offset.
	CountByFarm(ctx context.Context, farmID string, filter PurchaseRequestFilter) (int, error)
}
