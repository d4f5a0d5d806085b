package inventory

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Granja-api/internal/application/dto"
	"github.com/jhoicas/Granja-api/internal/domain"
	"github.com/jhoicas/Granja-api/internal/domain/entity"
	"github.com/jhoicas/Granja-api/internal/domain/repository"
)

// ItemUseCase casos de uso CRUD para insumos. El saldo solo cambia vía LedgerUseCase.
type ItemUseCase struct {
	itemRepo repository.InventoryItemRepository
	txRepo   repository.InventoryTransactionRepository
	now      func() time.Time
}

// NewItemUseCase construye el caso de uso.
func NewItemUseCase(itemRepo repository.InventoryItemRepository, txRepo repository.InventoryTransactionRepository) *ItemUseCase {
	return &ItemUseCase{itemRepo: itemRepo, txRepo: txRepo, now: time.Now}
}

// Create crea un insumo. La cantidad informada es el saldo inicial de su historial.
func (uc *ItemUseCase) Create(ctx context.Context, scope domain.Scope, farmID string, in dto.CreateItemRequest) (*dto.ItemResponse, error) {
	if !scope.Allows(farmID) {
		return nil, domain.ErrNotFound
	}
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	initial := decimal.Zero
	if in.Quantity != nil {
		if in.Quantity.IsNegative() {
			return nil, domain.NewValidationError("quantity", "no puede ser negativa")
		}
		if err := dto.CheckAmount("quantity", *in.Quantity); err != nil {
			return nil, err
		}
		initial = *in.Quantity
	}
	if err := checkMinimumLevel(in.MinimumLevel); err != nil {
		return nil, err
	}

	now := uc.now()
	item := &entity.InventoryItem{
		ID:              uuid.New().String(),
		FarmID:          farmID,
		Name:            strings.TrimSpace(in.Name),
		Category:        strings.TrimSpace(in.Category),
		Quantity:        initial,
		InitialQuantity: initial,
		Unit:            strings.TrimSpace(in.Unit),
		MinimumLevel:    in.MinimumLevel,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := uc.itemRepo.Create(ctx, item); err != nil {
		return nil, err
	}
	out := toItemResponse(item)
	return &out, nil
}

// GetByID obtiene un insumo visible para el scope.
func (uc *ItemUseCase) GetByID(ctx context.Context, scope domain.Scope, id string) (*dto.ItemResponse, error) {
	item, err := uc.load(ctx, scope, id)
	if err != nil {
		return nil, err
	}
	out := toItemResponse(item)
	return &out, nil
}

// List lista los insumos de una granja con su clasificación de stock.
func (uc *ItemUseCase) List(ctx context.Context, scope domain.Scope, farmID string, filter repository.ItemFilter) (*dto.ItemListResponse, error) {
	if !scope.Allows(farmID) {
		return nil, domain.ErrNotFound
	}
	filter.Search = strings.TrimSpace(filter.Search)
	list, err := uc.itemRepo.ListByFarm(ctx, farmID, filter)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ItemResponse, 0, len(list))
	for _, i := range list {
		items = append(items, toItemResponse(i))
	}
	return &dto.ItemListResponse{Items: items, Total: len(items)}, nil
}

// Update modifica metadatos del insumo (nombre, categoría, unidad, nivel mínimo).
func (uc *ItemUseCase) Update(ctx context.Context, scope domain.Scope, id string, in dto.UpdateItemRequest) (*dto.ItemResponse, error) {
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	if err := checkMinimumLevel(in.MinimumLevel); err != nil {
		return nil, err
	}
	item, err := uc.load(ctx, scope, id)
	if err != nil {
		return nil, err
	}
	if in.Name != nil {
		item.Name = strings.TrimSpace(*in.Name)
	}
	if in.Category != nil {
		item.Category = strings.TrimSpace(*in.Category)
	}
	if in.Unit != nil {
		item.Unit = strings.TrimSpace(*in.Unit)
	}
	if in.MinimumLevel != nil {
		item.MinimumLevel = in.MinimumLevel
	}
	item.UpdatedAt = uc.now()
	if err := uc.itemRepo.Update(ctx, item); err != nil {
		return nil, err
	}
	out := toItemResponse(item)
	return &out, nil
}

// Delete elimina un insumo sin movimientos. Con historial devuelve ErrConflict (auditoría).
func (uc *ItemUseCase) Delete(ctx context.Context, scope domain.Scope, id string) error {
	item, err := uc.load(ctx, scope, id)
	if err != nil {
		return err
	}
	n, err := uc.txRepo.CountByItem(ctx, item.ID)
	if err != nil {
		return err
	}
	if n > 0 {
		return domain.ErrConflict
	}
	return uc.itemRepo.Delete(ctx, item.ID)
}

func (uc *ItemUseCase) load(ctx context.Context, scope domain.Scope, id string) (*entity.InventoryItem, error) {
	item, err := uc.itemRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if item == nil || !scope.Allows(item.FarmID) {
		return nil, domain.ErrNotFound
	}
	return item, nil
}

func checkMinimumLevel(v *decimal.Decimal) error {
	if v != nil && v.IsNegative() {
		return domain.NewValidationError("minimumLevel", "no puede ser negativo")
	}
	return dto.CheckOptionalAmount("minimumLevel", v)
}
