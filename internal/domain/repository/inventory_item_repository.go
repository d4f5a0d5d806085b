package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Granja-api/internal/domain/entity"
)

// ItemFilter filtros del listado de insumos de una granja.
type ItemFilter struct {
	Category     string
	Search       string // coincidencia parcial sin distinguir mayúsculas sobre el nombre
	LowStockOnly bool   // quantity <= minimum_level
}

// InventoryItemRepository define el puerto de persistencia para insumos.
// GetByID y GetForUpdate devuelven (nil, nil) si el ítem no existe.
type InventoryItemRepository interface {
	Create(ctx context.Context, item *entity.InventoryItem) error
	GetByID(ctx context.Context, id string) (*entity.InventoryItem, error)
	// GetForUpdate bloquea la fila (SELECT FOR UPDATE); usar solo dentro de una transacción.
	GetForUpdate(ctx context.Context, id string) (*entity.InventoryItem, error)
	// Update modifica solo metadatos (nombre, categoría, unidad, nivel mínimo), nunca el saldo.
	Update(ctx context.Context, item *entity.InventoryItem) error
	UpdateQuantity(ctx context.Context, id string, quantity decimal.Decimal) error
	ListByFarm(ctx context.Context, farmID string, filter ItemFilter) ([]*entity.InventoryItem, error)
	Delete(ctx context.Context, id string) error
}
