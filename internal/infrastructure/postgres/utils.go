package postgres

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

// isUniqueViolation verifica si un error es una violación de constraint único (23505).
func isUniqueViolation(err error) bool {
	return hasPgCode(err, "23505")
}

// isForeignKeyViolation verifica si un error es una violación de llave foránea (23503).
func isForeignKeyViolation(err error) bool {
	return hasPgCode(err, "23503")
}

// isInvalidText verifica si Postgres no pudo convertir un parámetro al tipo de la columna (22P02),
// típicamente un id que no es UUID. Para los repositorios equivale a "no existe".
func isInvalidText(err error) bool {
	return hasPgCode(err, "22P02")
}

func hasPgCode(err error, code string) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == code
	}
	return false
}

// whereBuilder arma cláusulas AND con placeholders $n posicionales.
type whereBuilder struct {
	conds []string
	args  []any
}

func (w *whereBuilder) add(cond string, arg any) {
	w.args = append(w.args, arg)
	w.conds = append(w.conds, fmt.Sprintf(cond, len(w.args)))
}

func (w *whereBuilder) addRaw(cond string) {
	w.conds = append(w.conds, cond)
}

// addContains agrega una coincidencia de subcadena sin distinguir mayúsculas sobre alguna de cols.
// strpos toma el texto literal: % _ y \ no actúan como comodines como en LIKE.
func (w *whereBuilder) addContains(search string, cols ...string) {
	p := w.next(search)
	parts := make([]string, len(cols))
	for i, col := range cols {
		parts[i] = fmt.Sprintf("strpos(lower(%s), lower(%s)) > 0", col, p)
	}
	if len(parts) == 1 {
		w.conds = append(w.conds, parts[0])
		return
	}
	w.conds = append(w.conds, "("+strings.Join(parts, " OR ")+")")
}

// next devuelve el placeholder del próximo argumento y lo registra.
func (w *whereBuilder) next(arg any) string {
	w.args = append(w.args, arg)
	return fmt.Sprintf("$%d", len(w.args))
}

func (w *whereBuilder) sql() string {
	if len(w.conds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(w.conds, " AND ")
}
