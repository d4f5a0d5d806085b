package ledger

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Granja-api/internal/domain/entity"
)

// ChainBreak describe una transacción que rompe el encadenamiento de saldos.
type ChainBreak struct {
	TransactionID string
	Reason        string
}

// ChainReport resultado de reconstruir el saldo de un ítem desde su historial.
type ChainReport struct {
	Transactions      int
	ReconstructedFrom decimal.Decimal // saldo inicial del ítem
	Reconstructed     decimal.Decimal // saldo al final de la cadena
	Current           decimal.Decimal // saldo guardado en el ítem
	Consistent        bool
	Breaks            []ChainBreak
}

// VerifyChain recorre txs en orden cronológico (más antigua primero) y comprueba que:
// cada PreviousBalance es el NewBalance anterior (o initial en la primera), la aritmética
// de cada tipo es correcta y el saldo final coincide con current.
func VerifyChain(initial, current decimal.Decimal, txs []*entity.InventoryTransaction) ChainReport {
	report := ChainReport{
		Transactions:      len(txs),
		ReconstructedFrom: initial,
		Current:           current,
	}
	balance := initial
	for _, tx := range txs {
		if !tx.PreviousBalance.Equal(balance) {
			report.Breaks = append(report.Breaks, ChainBreak{
				TransactionID: tx.ID,
				Reason:        fmt.Sprintf("saldo anterior %s, se esperaba %s", tx.PreviousBalance, balance),
			})
		}
		if reason := checkArithmetic(tx); reason != "" {
			report.Breaks = append(report.Breaks, ChainBreak{TransactionID: tx.ID, Reason: reason})
		}
		balance = tx.NewBalance
	}
	report.Reconstructed = balance
	if !balance.Equal(current) {
		report.Breaks = append(report.Breaks, ChainBreak{
			Reason: fmt.Sprintf("saldo reconstruido %s difiere del saldo actual %s", balance, current),
		})
	}
	report.Consistent = len(report.Breaks) == 0
	return report
}

func checkArithmetic(tx *entity.InventoryTransaction) string {
	switch tx.Type {
	case entity.TransactionTypeIN:
		if !tx.PreviousBalance.Add(tx.Quantity).Equal(tx.NewBalance) {
			return "entrada: saldo nuevo distinto de anterior + cantidad"
		}
	case entity.TransactionTypeOUT:
		if !tx.PreviousBalance.Sub(tx.Quantity).Equal(tx.NewBalance) {
			return "salida: saldo nuevo distinto de anterior - cantidad"
		}
	case entity.TransactionTypeADJUST:
		if tx.NewBalance.IsNegative() {
			return "ajuste: saldo nuevo negativo"
		}
	default:
		return "tipo desconocido: " + tx.Type
	}
	return ""
}
