package inventory

import (
	"context"

	"github.com/jhoicas/Granja-api/internal/domain/entity"
	"github.com/jhoicas/Granja-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Garantiza atomicidad para el libro de inventario: saldo del ítem y fila del movimiento
// se confirman o revierten juntos.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		itemRepo repository.InventoryItemRepository,
		txRepo repository.InventoryTransactionRepository,
	) error) error
}

// LedgerMetrics contadores del libro (implementado por pkg/metrics).
type LedgerMetrics interface {
	TransactionRecorded(txType string)
	TransactionRejected(txType, reason string)
}

// KardexPDFGenerator genera el PDF del historial de movimientos de un ítem.
type KardexPDFGenerator interface {
	GenerateKardexPDF(ctx context.Context, item *entity.InventoryItem, txs []*entity.InventoryTransaction) ([]byte, error)
}

type nopMetrics struct{}

func (nopMetrics) TransactionRecorded(string)         {}
func (nopMetrics) TransactionRejected(string, string) {}
