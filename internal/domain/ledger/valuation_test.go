package ledger_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/Granja-api/internal/domain/entity"
	"github.com/jhoicas/Granja-api/internal/domain/ledger"
)

func priced(typ, prev, qty, price string) *entity.InventoryTransaction {
	tx := &entity.InventoryTransaction{Type: typ, PreviousBalance: d(prev), Quantity: d(qty)}
	if price != "" {
		p := d(price)
		tx.UnitPrice = &p
	}
	return tx
}

func TestWeightedAverageCost_PromedioPonderado(t *testing.T) {
	txs := []*entity.InventoryTransaction{
		priced(entity.TransactionTypeIN, "0", "100", "10"),
		priced(entity.TransactionTypeOUT, "100", "50", ""),
		// 50 a 10 + 150 a 14 = 2600 / 200 = 13
		priced(entity.TransactionTypeIN, "50", "150", "14"),
	}
	cost, ok := ledger.WeightedAverageCost(txs)
	assert.True(t, ok)
	assert.True(t, cost.Equal(d("13")), cost.String())
}

func TestWeightedAverageCost_EntradasSinPrecioNoCuentan(t *testing.T) {
	cost, ok := ledger.WeightedAverageCost([]*entity.InventoryTransaction{
		priced(entity.TransactionTypeIN, "0", "10", ""),
		priced(entity.TransactionTypeADJUST, "10", "5", ""),
	})
	assert.False(t, ok)
	assert.True(t, cost.IsZero())
}

func TestWeightedAverageCost_SaldoNegativoSeTrataComoCero(t *testing.T) {
	cost, ok := ledger.WeightedAverageCost([]*entity.InventoryTransaction{
		priced(entity.TransactionTypeIN, "0", "10", "8"),
		priced(entity.TransactionTypeIN, "-5", "10", "12"),
	})
	assert.True(t, ok)
	assert.True(t, cost.Equal(decimal.NewFromInt(12)))
}
