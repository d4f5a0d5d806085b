package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de transacción del libro de inventario.
const (
	TransactionTypeIN     = "IN"     // entrada
	TransactionTypeOUT    = "OUT"    // salida
	TransactionTypeADJUST = "ADJUST" // ajuste a valor absoluto (conteo físico)
)

// ValidTransactionType indica si t es uno de los tipos del libro.
func ValidTransactionType(t string) bool {
	switch t {
	case TransactionTypeIN, TransactionTypeOUT, TransactionTypeADJUST:
		return true
	}
	return false
}

// InventoryTransaction fila inmutable del libro: se crea una vez y nunca se modifica ni se borra.
// PreviousBalance debe coincidir con NewBalance de la transacción anterior del mismo ítem.
type InventoryTransaction struct {
	ID                  string
	InventoryID         string
	FarmID              string
	UserID              string
	Type                string
	Quantity            decimal.Decimal // magnitud del movimiento, siempre >= 0
	PreviousBalance     decimal.Decimal
	NewBalance          decimal.Decimal
	Date                time.Time
	DocumentNumber      string
	Notes               string
	DestinationOrSource string
	UnitPrice           *decimal.Decimal
	TotalPrice          *decimal.Decimal
	CreatedAt           time.Time
}
