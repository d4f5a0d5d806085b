package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Clasificación de stock para listados (solo visual, no es un piso obligatorio).
const (
	StockStatusOK  = "OK"
	StockStatusLow = "LOW"
	StockStatusOut = "OUT"
)

// InventoryItem representa un insumo de la granja (ración, vacuna, fertilizante, combustible...).
// Quantity solo cambia a través del libro de movimientos (entrada, salida, ajuste).
type InventoryItem struct {
	ID              string
	FarmID          string
	Name            string
	Category        string
	Quantity        decimal.Decimal
	InitialQuantity decimal.Decimal // saldo de creación; inicio de la cadena de transacciones
	Unit            string
	MinimumLevel    *decimal.Decimal // nil = sin nivel mínimo
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// StockStatus clasifica el saldo actual frente al nivel mínimo.
func (i *InventoryItem) StockStatus() string {
	if i.Quantity.LessThanOrEqual(decimal.Zero) {
		return StockStatusOut
	}
	if i.MinimumLevel != nil && i.Quantity.LessThanOrEqual(*i.MinimumLevel) {
		return StockStatusLow
	}
	return StockStatusOK
}
