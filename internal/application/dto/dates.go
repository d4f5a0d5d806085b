package dto

import (
	"strings"
	"time"

	"github.com/jhoicas/Granja-api/internal/domain"
)

// DateLayout formato de fecha corta usado por el cliente (input type="date").
const DateLayout = "2006-01-02"

// ParseDate acepta YYYY-MM-DD o RFC3339. Vacío devuelve tiempo cero sin error.
func ParseDate(field, s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(DateLayout, s); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Time{}, domain.NewValidationError(field, "fecha inválida, use YYYY-MM-DD")
}

// ParseDateRange interpreta from/to de un filtro. Un "to" sin hora incluye el día completo.
func ParseDateRange(from, to string) (*time.Time, *time.Time, error) {
	var fromPtr, toPtr *time.Time
	if f, err := ParseDate("from", from); err != nil {
		return nil, nil, err
	} else if !f.IsZero() {
		fromPtr = &f
	}
	if t, err := ParseDate("to", to); err != nil {
		return nil, nil, err
	} else if !t.IsZero() {
		if len(strings.TrimSpace(to)) == len(DateLayout) {
			t = t.Add(24*time.Hour - time.Nanosecond)
		}
		toPtr = &t
	}
	if fromPtr != nil && toPtr != nil && toPtr.Before(*fromPtr) {
		return nil, nil, domain.NewValidationError("to", "debe ser posterior a from")
	}
	return fromPtr, toPtr, nil
}
