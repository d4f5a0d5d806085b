package ledger_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Granja-api/internal/domain/entity"
	"github.com/jhoicas/Granja-api/internal/domain/ledger"
)

// buildChain aplica las operaciones en orden y devuelve las transacciones resultantes y el saldo final.
func buildChain(t *testing.T, initial decimal.Decimal, ops ...func(decimal.Decimal) (ledger.Movement, error)) ([]*entity.InventoryTransaction, decimal.Decimal) {
	t.Helper()
	balance := initial
	var txs []*entity.InventoryTransaction
	for i, op := range ops {
		mov, err := op(balance)
		require.NoError(t, err)
		txs = append(txs, &entity.InventoryTransaction{
			ID:              string(rune('a' + i)),
			Type:            mov.Type,
			Quantity:        mov.Quantity,
			PreviousBalance: mov.PreviousBalance,
			NewBalance:      mov.NewBalance,
		})
		balance = mov.NewBalance
	}
	return txs, balance
}

func entry(q string) func(decimal.Decimal) (ledger.Movement, error) {
	return func(b decimal.Decimal) (ledger.Movement, error) { return ledger.Entry(b, d(q)) }
}

func withdrawal(q string) func(decimal.Decimal) (ledger.Movement, error) {
	return func(b decimal.Decimal) (ledger.Movement, error) { return ledger.Withdrawal(b, d(q), false) }
}

func adjustment(n string) func(decimal.Decimal) (ledger.Movement, error) {
	return func(b decimal.Decimal) (ledger.Movement, error) { return ledger.Adjustment(b, d(n)) }
}

func TestVerifyChain_EscenarioCompleto(t *testing.T) {
	txs, final := buildChain(t, d("100"), entry("50"), withdrawal("30"), adjustment("200"))
	require.True(t, final.Equal(d("200")))

	report := ledger.VerifyChain(d("100"), final, txs)
	assert.True(t, report.Consistent)
	assert.Equal(t, 3, report.Transactions)
	assert.True(t, report.Reconstructed.Equal(d("200")))
	assert.Empty(t, report.Breaks)
}

func TestVerifyChain_SinTransacciones(t *testing.T) {
	report := ledger.VerifyChain(d("7"), d("7"), nil)
	assert.True(t, report.Consistent)

	report = ledger.VerifyChain(d("7"), d("8"), nil)
	assert.False(t, report.Consistent, "saldo del ítem modificado fuera del libro")
}

func TestVerifyChain_DetectaEslabonRoto(t *testing.T) {
	txs, final := buildChain(t, d("10"), entry("5"), entry("5"))
	txs[1].PreviousBalance = d("12") // lectura desactualizada (lost update)
	txs[1].NewBalance = d("17")

	report := ledger.VerifyChain(d("10"), final, txs)
	assert.False(t, report.Consistent)
	require.NotEmpty(t, report.Breaks)
	assert.Equal(t, "b", report.Breaks[0].TransactionID)
}

func TestVerifyChain_DetectaAritmeticaIncorrecta(t *testing.T) {
	txs := []*entity.InventoryTransaction{
		{ID: "x", Type: entity.TransactionTypeOUT, Quantity: d("3"), PreviousBalance: d("10"), NewBalance: d("8")},
	}
	report := ledger.VerifyChain(d("10"), d("8"), txs)
	assert.False(t, report.Consistent)
	assert.Len(t, report.Breaks, 1)
}
