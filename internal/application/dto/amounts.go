package dto

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Granja-api/internal/domain"
)

// Límites de las columnas NUMERIC(18,4) de cantidades, saldos y precios.
const (
	AmountScale         = 4
	AmountIntegerDigits = 14
)

// Un coeficiente más largo que esto no cabe en NUMERIC(18,4) salvo con ceros de relleno.
const maxCoefficientBits = 512

// CheckAmount rechaza montos que la columna no guarda tal cual: más de 4 decimales
// significativos o más de 14 dígitos enteros. Trabaja sobre coeficiente y exponente
// sin reescalar, así un exponente enorme se rechaza sin costo.
func CheckAmount(field string, v decimal.Decimal) error {
	coef := v.Coefficient()
	if coef.Sign() == 0 {
		return nil
	}
	if coef.BitLen() > maxCoefficientBits {
		return domain.NewValidationError(field, "valor fuera de rango")
	}
	digits := strings.TrimPrefix(coef.String(), "-")
	exp := int(v.Exponent())

	if exp < -AmountScale {
		// los dígitos por debajo de la cuarta posición decimal deben ser ceros
		drop := -AmountScale - exp
		zeros := len(digits) - len(strings.TrimRight(digits, "0"))
		if drop >= len(digits) || zeros < drop {
			return domain.NewValidationError(field, fmt.Sprintf("admite como máximo %d decimales", AmountScale))
		}
	}
	if len(digits)+exp > AmountIntegerDigits {
		return domain.NewValidationError(field, fmt.Sprintf("admite como máximo %d dígitos enteros", AmountIntegerDigits))
	}
	return nil
}

// CheckOptionalAmount aplica CheckAmount cuando el valor viene informado.
func CheckOptionalAmount(field string, v *decimal.Decimal) error {
	if v == nil {
		return nil
	}
	return CheckAmount(field, *v)
}
