package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Granja-api/internal/domain/entity"
)

// Bootstrap crea una granja con su usuario administrador y, opcionalmente, sus insumos iniciales,
// todo en una transacción. Los saldos de los insumos quedan como saldo inicial del historial.
func (r *TxRunner) Bootstrap(ctx context.Context, farm *entity.Farm, admin *entity.User, items []*entity.InventoryItem) error {
	return r.inTx(ctx, func(tx pgx.Tx) error {
		if err := NewFarmRepository(tx).Create(ctx, farm); err != nil {
			return err
		}
		if err := NewUserRepository(tx).Create(ctx, admin); err != nil {
			return fmt.Errorf("admin %s: %w", admin.Email, err)
		}
		itemRepo := NewInventoryItemRepository(tx)
		for _, it := range items {
			if err := itemRepo.Create(ctx, it); err != nil {
				return fmt.Errorf("insumo %q: %w", it.Name, err)
			}
		}
		return nil
	})
}
