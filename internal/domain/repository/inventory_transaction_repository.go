package repository

import (
	"context"
	"time"

	"github.com/jhoicas/Granja-api/internal/domain/entity"
)

// TransactionFilter filtros del historial de movimientos. FarmID o InventoryID deben venir informados.
type TransactionFilter struct {
	FarmID      string
	InventoryID string
	Type        string
	From        *time.Time
	To          *time.Time
	Limit       int
	Offset      int
}

// InventoryTransactionRepository puerto del libro de movimientos (solo inserción y lectura).
type InventoryTransactionRepository interface {
	Create(ctx context.Context, tx *entity.InventoryTransaction) error
	// List devuelve los movimientos más recientes primero.
	List(ctx context.Context, filter TransactionFilter) ([]*entity.InventoryTransaction, error)
	// Count cantidad de movimientos que cumplen filter, ignorando Limit y Offset.
	Count(ctx context.Context, filter TransactionFilter) (int, error)
	// ListChain devuelve todos los movimientos del ítem en orden de registro (más antiguo primero).
	ListChain(ctx context.Context, inventoryID string) ([]*entity.InventoryTransaction, error)
	CountByItem(ctx context.Context, inventoryID string) (int, error)
}
