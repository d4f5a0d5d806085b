package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/Granja-api/internal/domain"
	"github.com/jhoicas/Granja-api/internal/domain/entity"
)

// FarmRepo alta de granjas (solo usado por el bootstrap).
type FarmRepo struct {
	q Querier
}

// NewFarmRepository construye el adaptador. Pasar pool o tx (Querier).
func NewFarmRepository(q Querier) *FarmRepo {
	return &FarmRepo{q: q}
}

// Create persiste una granja.
func (r *FarmRepo) Create(ctx context.Context, farm *entity.Farm) error {
	_, err := r.q.Exec(ctx,
		`INSERT INTO farms (id, name, created_at, updated_at) VALUES ($1, $2, $3, $4)`,
		farm.ID, farm.Name, farm.CreatedAt, farm.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert farm: %w", err)
	}
	return nil
}
