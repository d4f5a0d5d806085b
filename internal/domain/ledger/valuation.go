package ledger

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Granja-api/internal/domain/entity"
)

// WeightedAverageCost recorre txs en orden cronológico y devuelve el costo unitario promedio
// ponderado de las entradas con precio. Salidas y ajustes no cambian el costo unitario.
// ok es false si ninguna entrada trae unitPrice.
func WeightedAverageCost(txs []*entity.InventoryTransaction) (cost decimal.Decimal, ok bool) {
	for _, tx := range txs {
		if tx.Type != entity.TransactionTypeIN || tx.UnitPrice == nil {
			continue
		}
		if !ok {
			cost, ok = *tx.UnitPrice, true
			continue
		}
		// Un saldo negativo no aporta valor al promedio.
		stock := decimal.Max(tx.PreviousBalance, decimal.Zero)
		cost = averageCost(stock, cost, tx.Quantity, *tx.UnitPrice)
	}
	return cost, ok
}

// averageCost = ((stock * costo) + (cantEntrada * costoEntrada)) / (stock + cantEntrada)
func averageCost(stock, cost, qtyIn, costIn decimal.Decimal) decimal.Decimal {
	sum := stock.Add(qtyIn)
	if sum.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}
	return stock.Mul(cost).Add(qtyIn.Mul(costIn)).Div(sum)
}
