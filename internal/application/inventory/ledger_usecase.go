package inventory

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Granja-api/internal/application/dto"
	"github.com/jhoicas/Granja-api/internal/domain"
	"github.com/jhoicas/Granja-api/internal/domain/entity"
	"github.com/jhoicas/Granja-api/internal/domain/ledger"
	"github.com/jhoicas/Granja-api/internal/domain/repository"
	"github.com/jhoicas/Granja-api/pkg/logger"
)

// Policy reglas configurables del libro.
type Policy struct {
	// AllowNegativeStock permite salidas mayores al saldo disponible.
	AllowNegativeStock bool
}

// LedgerUseCase registra entradas, salidas y ajustes de forma transaccional:
// bloqueo de fila del ítem (SELECT FOR UPDATE), cálculo del nuevo saldo, actualización
// del ítem e inserción del movimiento, con Commit o Rollback.
type LedgerUseCase struct {
	txRunner TxRunner
	itemRepo repository.InventoryItemRepository
	txRepo   repository.InventoryTransactionRepository
	policy   Policy
	metrics  LedgerMetrics
	log      *logger.Logger
	now      func() time.Time
}

// NewLedgerUseCase construye el caso de uso. metrics y log pueden ser nil.
func NewLedgerUseCase(
	txRunner TxRunner,
	itemRepo repository.InventoryItemRepository,
	txRepo repository.InventoryTransactionRepository,
	policy Policy,
	metrics LedgerMetrics,
	log *logger.Logger,
) *LedgerUseCase {
	if metrics == nil {
		metrics = nopMetrics{}
	}
	if log == nil {
		log = logger.Nop()
	}
	return &LedgerUseCase{
		txRunner: txRunner,
		itemRepo: itemRepo,
		txRepo:   txRepo,
		policy:   policy,
		metrics:  metrics,
		log:      log.Named("ledger"),
		now:      time.Now,
	}
}

// Entry registra una entrada (IN): nuevo saldo = saldo anterior + quantity.
func (uc *LedgerUseCase) Entry(ctx context.Context, scope domain.Scope, itemID string, in dto.EntryRequest) (*dto.LedgerResult, error) {
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	if err := requirePositive("quantity", in.Quantity); err != nil {
		return nil, err
	}
	if in.UnitPrice != nil && in.UnitPrice.IsNegative() {
		return nil, domain.NewValidationError("unitPrice", "no puede ser negativo")
	}
	if err := dto.CheckOptionalAmount("unitPrice", in.UnitPrice); err != nil {
		return nil, err
	}
	qty := *in.Quantity
	var total decimal.Decimal
	if in.UnitPrice != nil {
		total = in.UnitPrice.Mul(qty).Round(dto.AmountScale)
		if err := dto.CheckAmount("unitPrice", total); err != nil {
			return nil, domain.NewValidationError("unitPrice", "el total (unitPrice × quantity) excede el máximo admitido")
		}
	}
	return uc.record(ctx, scope, itemID, entity.TransactionTypeIN,
		func(current decimal.Decimal) (ledger.Movement, error) {
			return ledger.Entry(current, qty)
		},
		func(tx *entity.InventoryTransaction) {
			tx.DocumentNumber = strings.TrimSpace(in.DocumentNumber)
			tx.DestinationOrSource = strings.TrimSpace(in.Source)
			tx.Notes = strings.TrimSpace(in.Notes)
			if in.UnitPrice != nil {
				unit := *in.UnitPrice
				tx.UnitPrice = &unit
				tx.TotalPrice = &total
			}
		})
}

// Withdrawal registra una salida (OUT): nuevo saldo = saldo anterior - quantity.
// Falla con ErrInsufficientStock si el saldo quedaría negativo y la política no lo permite.
func (uc *LedgerUseCase) Withdrawal(ctx context.Context, scope domain.Scope, itemID string, in dto.WithdrawalRequest) (*dto.LedgerResult, error) {
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	if err := requirePositive("quantity", in.Quantity); err != nil {
		return nil, err
	}
	qty := *in.Quantity
	allowNegative := uc.policy.AllowNegativeStock
	return uc.record(ctx, scope, itemID, entity.TransactionTypeOUT,
		func(current decimal.Decimal) (ledger.Movement, error) {
			return ledger.Withdrawal(current, qty, allowNegative)
		},
		func(tx *entity.InventoryTransaction) {
			tx.DestinationOrSource = strings.TrimSpace(in.Destination)
			tx.Notes = strings.TrimSpace(in.Notes)
		})
}

// Adjustment fija el saldo en newQuantity (ADJUST), sin importar el saldo anterior.
func (uc *LedgerUseCase) Adjustment(ctx context.Context, scope domain.Scope, itemID string, in dto.AdjustmentRequest) (*dto.LedgerResult, error) {
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	if in.NewQuantity == nil {
		return nil, domain.NewValidationError("newQuantity", "es requerido")
	}
	if in.NewQuantity.IsNegative() {
		return nil, domain.NewValidationError("newQuantity", "no puede ser negativa")
	}
	if err := dto.CheckAmount("newQuantity", *in.NewQuantity); err != nil {
		return nil, err
	}
	target := *in.NewQuantity
	return uc.record(ctx, scope, itemID, entity.TransactionTypeADJUST,
		func(current decimal.Decimal) (ledger.Movement, error) {
			return ledger.Adjustment(current, target)
		},
		func(tx *entity.InventoryTransaction) {
			tx.Notes = strings.TrimSpace(in.Notes)
		})
}

// record ejecuta la mutación dentro de una transacción. El ítem se lee con la fila bloqueada,
// de modo que dos movimientos concurrentes sobre el mismo ítem se serializan.
func (uc *LedgerUseCase) record(
	ctx context.Context,
	scope domain.Scope,
	itemID, txType string,
	compute func(current decimal.Decimal) (ledger.Movement, error),
	fill func(tx *entity.InventoryTransaction),
) (*dto.LedgerResult, error) {
	if strings.TrimSpace(itemID) == "" {
		return nil, domain.NewValidationError("itemId", "es requerido")
	}

	var result *dto.LedgerResult
	err := uc.txRunner.Run(ctx, func(
		itemRepo repository.InventoryItemRepository,
		txRepo repository.InventoryTransactionRepository,
	) error {
		item, err := itemRepo.GetForUpdate(ctx, itemID)
		if err != nil {
			return err
		}
		if item == nil || !scope.Allows(item.FarmID) {
			return domain.ErrNotFound
		}

		mov, err := compute(item.Quantity)
		if err != nil {
			return err
		}
		if err := checkMovement(txType, mov); err != nil {
			return err
		}

		now := uc.now()
		if err := itemRepo.UpdateQuantity(ctx, item.ID, mov.NewBalance); err != nil {
			return err
		}
		tx := &entity.InventoryTransaction{
			ID:              uuid.New().String(),
			InventoryID:     item.ID,
			FarmID:          item.FarmID,
			UserID:          scope.UserID,
			Type:            mov.Type,
			Quantity:        mov.Quantity,
			PreviousBalance: mov.PreviousBalance,
			NewBalance:      mov.NewBalance,
			Date:            now,
			CreatedAt:       now,
		}
		fill(tx)
		if err := txRepo.Create(ctx, tx); err != nil {
			return err
		}

		item.Quantity = mov.NewBalance
		item.UpdatedAt = now
		result = &dto.LedgerResult{
			Item:        toItemResponse(item),
			Transaction: toTransactionResponse(tx),
		}
		return nil
	})
	if err != nil {
		uc.metrics.TransactionRejected(txType, rejectionReason(err))
		if errors.Is(err, domain.ErrInsufficientStock) {
			uc.log.Warn().Str("item_id", itemID).Str("farm_id", scope.FarmID).Msg("salida rechazada por stock insuficiente")
		}
		return nil, err
	}

	uc.metrics.TransactionRecorded(txType)
	uc.log.Info().
		Str("item_id", itemID).
		Str("farm_id", result.Transaction.FarmID).
		Str("user_id", scope.UserID).
		Str("type", txType).
		Str("previous_balance", result.Transaction.PreviousBalance.String()).
		Str("new_balance", result.Transaction.NewBalance.String()).
		Msg("movimiento de inventario registrado")
	return result, nil
}

// ListItemTransactions historial de un ítem, más recientes primero.
func (uc *LedgerUseCase) ListItemTransactions(ctx context.Context, scope domain.Scope, itemID string, q dto.TransactionQuery) (*dto.TransactionListResponse, error) {
	item, err := uc.itemRepo.GetByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if item == nil || !scope.Allows(item.FarmID) {
		return nil, domain.ErrNotFound
	}
	return uc.list(ctx, repository.TransactionFilter{InventoryID: item.ID}, q)
}

// ListFarmTransactions historial de todos los ítems de una granja (filtrable por itemId).
func (uc *LedgerUseCase) ListFarmTransactions(ctx context.Context, scope domain.Scope, farmID string, q dto.TransactionQuery) (*dto.TransactionListResponse, error) {
	if !scope.Allows(farmID) {
		return nil, domain.ErrNotFound
	}
	return uc.list(ctx, repository.TransactionFilter{FarmID: farmID, InventoryID: q.InventoryID}, q)
}

func (uc *LedgerUseCase) list(ctx context.Context, filter repository.TransactionFilter, q dto.TransactionQuery) (*dto.TransactionListResponse, error) {
	q.DefaultPage()
	if err := dto.Validate(q); err != nil {
		return nil, err
	}
	from, to, err := dto.ParseDateRange(q.From, q.To)
	if err != nil {
		return nil, err
	}
	filter.Type = q.Type
	filter.From = from
	filter.To = to
	filter.Limit = q.Limit
	filter.Offset = q.Offset

	list, err := uc.txRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	total, err := uc.txRepo.Count(ctx, filter)
	if err != nil {
		return nil, err
	}
	return &dto.TransactionListResponse{
		Items: toTransactionResponses(list),
		Page:  dto.PageResponse{Limit: q.Limit, Offset: q.Offset, Total: total},
	}, nil
}

// VerifyChain reconstruye el saldo del ítem desde su historial completo y lo compara con el guardado.
func (uc *LedgerUseCase) VerifyChain(ctx context.Context, scope domain.Scope, itemID string) (*dto.ChainVerificationResponse, error) {
	item, err := uc.itemRepo.GetByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if item == nil || !scope.Allows(item.FarmID) {
		return nil, domain.ErrNotFound
	}
	txs, err := uc.txRepo.ListChain(ctx, item.ID)
	if err != nil {
		return nil, err
	}
	report := ledger.VerifyChain(item.InitialQuantity, item.Quantity, txs)
	if !report.Consistent {
		uc.log.Error().Str("item_id", item.ID).Int("breaks", len(report.Breaks)).Msg("historial de inventario inconsistente")
	}

	out := &dto.ChainVerificationResponse{
		InventoryID:     item.ID,
		Transactions:    report.Transactions,
		InitialQuantity: report.ReconstructedFrom,
		Reconstructed:   report.Reconstructed,
		CurrentQuantity: report.Current,
		Consistent:      report.Consistent,
	}
	for _, b := range report.Breaks {
		out.Breaks = append(out.Breaks, dto.ChainBreakDTO{TransactionID: b.TransactionID, Reason: b.Reason})
	}
	return out, nil
}

func requirePositive(field string, v *decimal.Decimal) error {
	if v == nil {
		return domain.NewValidationError(field, "es requerido")
	}
	if !v.IsPositive() {
		return domain.NewValidationError(field, "debe ser mayor que cero")
	}
	return dto.CheckAmount(field, *v)
}

// checkMovement el saldo resultante y la cantidad movida también deben caber en la columna.
func checkMovement(txType string, mov ledger.Movement) error {
	field := "quantity"
	if txType == entity.TransactionTypeADJUST {
		field = "newQuantity"
	}
	if dto.CheckAmount(field, mov.NewBalance) != nil || dto.CheckAmount(field, mov.Quantity) != nil {
		return domain.NewValidationError(field, "el saldo resultante excede el máximo admitido")
	}
	return nil
}

func rejectionReason(err error) string {
	switch {
	case errors.Is(err, domain.ErrInsufficientStock):
		return "insufficient_stock"
	case errors.Is(err, domain.ErrInvalidInput):
		return "validation"
	case errors.Is(err, domain.ErrNotFound):
		return "not_found"
	default:
		return "internal"
	}
}
