// Package ledger contiene la aritmética de saldos del libro de inventario (servicio de dominio puro).
//
// Cada operación recibe el saldo actual (leído con la fila bloqueada) y devuelve el Movement
// con saldo anterior y nuevo; el caso de uso persiste ambos en la misma transacción.
package ledger

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Granja-api/internal/domain"
	"github.com/jhoicas/Granja-api/internal/domain/entity"
)

// Movement resultado de aplicar una operación sobre un saldo.
type Movement struct {
	Type            string
	Quantity        decimal.Decimal // magnitud registrada en la transacción
	PreviousBalance decimal.Decimal
	NewBalance      decimal.Decimal
}

// Entry suma quantity al saldo. quantity debe ser > 0.
func Entry(current, quantity decimal.Decimal) (Movement, error) {
	if !quantity.IsPositive() {
		return Movement{}, domain.NewValidationError("quantity", "debe ser mayor que cero")
	}
	return Movement{
		Type:            entity.TransactionTypeIN,
		Quantity:        quantity,
		PreviousBalance: current,
		NewBalance:      current.Add(quantity),
	}, nil
}

// Withdrawal resta quantity del saldo. Con allowNegative=false falla con ErrInsufficientStock
// si el saldo quedaría bajo cero.
func Withdrawal(current, quantity decimal.Decimal, allowNegative bool) (Movement, error) {
	if !quantity.IsPositive() {
		return Movement{}, domain.NewValidationError("quantity", "debe ser mayor que cero")
	}
	next := current.Sub(quantity)
	if next.IsNegative() && !allowNegative {
		return Movement{}, domain.ErrInsufficientStock
	}
	return Movement{
		Type:            entity.TransactionTypeOUT,
		Quantity:        quantity,
		PreviousBalance: current,
		NewBalance:      next,
	}, nil
}

// Adjustment fija el saldo en newQuantity (corrección absoluta, no delta).
// Quantity del movimiento es la diferencia absoluta entre ambos saldos.
func Adjustment(current, newQuantity decimal.Decimal) (Movement, error) {
	if newQuantity.IsNegative() {
		return Movement{}, domain.NewValidationError("newQuantity", "no puede ser negativa")
	}
	return Movement{
		Type:            entity.TransactionTypeADJUST,
		Quantity:        newQuantity.Sub(current).Abs(),
		PreviousBalance: current,
		NewBalance:      newQuantity,
	}, nil
}
