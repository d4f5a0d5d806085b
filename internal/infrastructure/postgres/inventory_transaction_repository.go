package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Granja-api/internal/domain/entity"
	"github.com/jhoicas/Granja-api/internal/domain/repository"
)

var _ repository.InventoryTransactionRepository = (*InventoryTransactionRepo)(nil)

const transactionColumns = `id, inventory_id, farm_id, user_id, type, quantity, previous_balance, new_balance,
	date, document_number, notes, destination_or_source, unit_price, total_price, created_at`

// InventoryTransactionRepo libro de movimientos sobre PostgreSQL. Solo inserta y lee:
// las filas nunca se modifican ni se borran. seq (BIGSERIAL) fija el orden de registro.
type InventoryTransactionRepo struct {
	q Querier
}

// NewInventoryTransactionRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInventoryTransactionRepository(q Querier) *InventoryTransactionRepo {
	return &InventoryTransactionRepo{q: q}
}

// Create inserta una fila del libro.
func (r *InventoryTransactionRepo) Create(ctx context.Context, tx *entity.InventoryTransaction) error {
	query := `
		INSERT INTO inventory_transactions (` + transactionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`
	_, err := r.q.Exec(ctx, query,
		tx.ID, tx.InventoryID, tx.FarmID, nullable(tx.UserID), tx.Type, tx.Quantity,
		tx.PreviousBalance, tx.NewBalance, tx.Date, tx.DocumentNumber, tx.Notes,
		tx.DestinationOrSource, tx.UnitPrice, tx.TotalPrice, tx.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert inventory transaction: %w", err)
	}
	return nil
}

// List movimientos filtrados, más recientes primero.
func (r *InventoryTransactionRepo) List(ctx context.Context, filter repository.TransactionFilter) ([]*entity.InventoryTransaction, error) {
	w := transactionWhere(filter)
	query := `SELECT ` + transactionColumns + ` FROM inventory_transactions` + w.sql() + ` ORDER BY date DESC, seq DESC`
	if filter.Limit > 0 {
		query += " LIMIT " + w.next(filter.Limit)
	}
	if filter.Offset > 0 {
		query += " OFFSET " + w.next(filter.Offset)
	}
	return r.query(ctx, query, w.args...)
}

// Count total de movimientos del filtro, para la paginación.
func (r *InventoryTransactionRepo) Count(ctx context.Context, filter repository.TransactionFilter) (int, error) {
	w := transactionWhere(filter)
	var n int
	if err := r.q.QueryRow(ctx, `SELECT count(*) FROM inventory_transactions`+w.sql(), w.args...).Scan(&n); err != nil {
		if isInvalidText(err) {
			return 0, nil
		}
		return 0, fmt.Errorf("count inventory transactions: %w", err)
	}
	return n, nil
}

func transactionWhere(filter repository.TransactionFilter) *whereBuilder {
	w := &whereBuilder{}
	if filter.FarmID != "" {
		w.add("farm_id = $%d", filter.FarmID)
	}
	if filter.InventoryID != "" {
		w.add("inventory_id = $%d", filter.InventoryID)
	}
	if filter.Type != "" {
		w.add("type = $%d", filter.Type)
	}
	if filter.From != nil {
		w.add("date >= $%d", *filter.From)
	}
	if filter.To != nil {
		w.add("date <= $%d", *filter.To)
	}
	return w
}

// ListChain todos los movimientos del ítem en orden de registro.
func (r *InventoryTransactionRepo) ListChain(ctx context.Context, inventoryID string) ([]*entity.InventoryTransaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM inventory_transactions WHERE inventory_id = $1 ORDER BY seq ASC`
	return r.query(ctx, query, inventoryID)
}

// CountByItem cantidad de movimientos registrados para el ítem.
func (r *InventoryTransactionRepo) CountByItem(ctx context.Context, inventoryID string) (int, error) {
	var n int
	if err := r.q.QueryRow(ctx, `SELECT count(*) FROM inventory_transactions WHERE inventory_id = $1`, inventoryID).Scan(&n); err != nil {
		if isInvalidText(err) {
			return 0, nil
		}
		return 0, fmt.Errorf("count inventory transactions: %w", err)
	}
	return n, nil
}

func (r *InventoryTransactionRepo) query(ctx context.Context, query string, args ...any) ([]*entity.InventoryTransaction, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		if isInvalidText(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("list inventory transactions: %w", err)
	}
	defer rows.Close()

	var list []*entity.InventoryTransaction
	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scan inventory transaction: %w", err)
		}
		list = append(list, tx)
	}
	if err := rows.Err(); err != nil {
		if isInvalidText(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("list inventory transactions: %w", err)
	}
	return list, nil
}

func scanTransaction(row pgx.Row) (*entity.InventoryTransaction, error) {
	var t entity.InventoryTransaction
	var userID *string
	err := row.Scan(
		&t.ID, &t.InventoryID, &t.FarmID, &userID, &t.Type, &t.Quantity, &t.PreviousBalance, &t.NewBalance,
		&t.Date, &t.DocumentNumber, &t.Notes, &t.DestinationOrSource, &t.UnitPrice, &t.TotalPrice, &t.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if userID != nil {
		t.UserID = *userID
	}
	return &t, nil
}

// nullable convierte "" en NULL para columnas UUID opcionales.
func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
