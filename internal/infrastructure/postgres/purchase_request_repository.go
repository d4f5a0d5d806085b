package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Granja-api/internal/domain"
	"github.com/jhoicas/Granja-api/internal/domain/entity"
	"github.com/jhoicas/Granja-api/internal/domain/repository"
)

var _ repository.PurchaseRequestRepository = (*PurchaseRequestRepo)(nil)

const purchaseColumns = `id, farm_id, produto, quantidade, observacao, responsavel, data, urgente,
	status, andamento, finalizado_por, created_by, created_at, updated_at`

// PurchaseRequestRepo solicitudes de compra sobre PostgreSQL (usable con pool o tx).
type PurchaseRequestRepo struct {
	q Querier
}

// NewPurchaseRequestRepository construye el adaptador. Pasar pool o tx (Querier).
func NewPurchaseRequestRepository(q Querier) *PurchaseRequestRepo {
	return &PurchaseRequestRepo{q: q}
}

// Create persiste una solicitud.
func (r *PurchaseRequestRepo) Create(ctx context.Context, req *entity.PurchaseRequest) error {
	query := `
		INSERT INTO purchase_requests (` + purchaseColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`
	_, err := r.q.Exec(ctx, query,
		req.ID, req.FarmID, req.Product, req.QuantityText, req.Notes, req.Responsible, req.RequestedDate,
		req.Urgent, req.Status, req.Progress, req.FinalizedBy, nullable(req.CreatedBy), req.CreatedAt, req.UpdatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) || isInvalidText(err) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("insert purchase request: %w", err)
	}
	return nil
}

// GetByID obtiene una solicitud; (nil, nil) si no existe.
func (r *PurchaseRequestRepo) GetByID(ctx context.Context, id string) (*entity.PurchaseRequest, error) {
	return r.get(ctx, `SELECT `+purchaseColumns+` FROM purchase_requests WHERE id = $1`, id)
}

// GetForUpdate obtiene la solicitud bloqueando la fila.
func (r *PurchaseRequestRepo) GetForUpdate(ctx context.Context, id string) (*entity.PurchaseRequest, error) {
	return r.get(ctx, `SELECT `+purchaseColumns+` FROM purchase_requests WHERE id = $1 FOR UPDATE`, id)
}

func (r *PurchaseRequestRepo) get(ctx context.Context, query, id string) (*entity.PurchaseRequest, error) {
	req, err := scanPurchase(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) || isInvalidText(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get purchase request: %w", err)
	}
	return req, nil
}

// Update guarda todos los campos editables y de estado.
func (r *PurchaseRequestRepo) Update(ctx context.Context, req *entity.PurchaseRequest) error {
	query := `
		UPDATE purchase_requests
		SET produto = $2, quantidade = $3, observacao = $4, responsavel = $5, data = $6, urgente = $7,
		    status = $8, andamento = $9, finalizado_por = $10, updated_at = $11
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query,
		req.ID, req.Product, req.QuantityText, req.Notes, req.Responsible, req.RequestedDate, req.Urgent,
		req.Status, req.Progress, req.FinalizedBy, req.UpdatedAt,
	)
	if err != nil {
		if isInvalidText(err) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("update purchase request: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete borra la solicitud (sin borrado lógico).
func (r *PurchaseRequestRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM purchase_requests WHERE id = $1`, id)
	if err != nil {
		if isInvalidText(err) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("delete purchase request: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ListByFarm urgentes primero, luego por fecha solicitada y las más nuevas antes.
func (r *PurchaseRequestRepo) ListByFarm(ctx context.Context, farmID string, filter repository.PurchaseRequestFilter) ([]*entity.PurchaseRequest, error) {
	w := purchaseWhere(farmID, filter)
	query := `SELECT ` + purchaseColumns + ` FROM purchase_requests` + w.sql() +
		` ORDER BY urgente DESC, data ASC, created_at DESC`
	if filter.Limit > 0 {
		query += " LIMIT " + w.next(filter.Limit)
	}
	if filter.Offset > 0 {
		query += " OFFSET " + w.next(filter.Offset)
	}

	rows, err := r.q.Query(ctx, query, w.args...)
	if err != nil {
		if isInvalidText(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("list purchase requests: %w", err)
	}
	defer rows.Close()

	var list []*entity.PurchaseRequest
	for rows.Next() {
		req, err := scanPurchase(rows)
		if err != nil {
			return nil, fmt.Errorf("scan purchase request: %w", err)
		}
		list = append(list, req)
	}
	if err := rows.Err(); err != nil {
		if isInvalidText(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("list purchase requests: %w", err)
	}
	return list, nil
}

// CountByFarm total de solicitudes del filtro, para la paginación.
func (r *PurchaseRequestRepo) CountByFarm(ctx context.Context, farmID string, filter repository.PurchaseRequestFilter) (int, error) {
	w := purchaseWhere(farmID, filter)
	var n int
	if err := r.q.QueryRow(ctx, `SELECT count(*) FROM purchase_requests`+w.sql(), w.args...).Scan(&n); err != nil {
		if isInvalidText(err) {
			return 0, nil
		}
		return 0, fmt.Errorf("count purchase requests: %w", err)
	}
	return n, nil
}

func purchaseWhere(farmID string, filter repository.PurchaseRequestFilter) *whereBuilder {
	w := &whereBuilder{}
	w.add("farm_id = $%d", farmID)
	if filter.Status != "" && filter.Status != "all" {
		w.add("status = $%d", filter.Status)
	}
	if filter.Urgent != nil {
		w.add("urgente = $%d", *filter.Urgent)
	}
	if filter.Search != "" {
		w.addContains(filter.Search, "produto", "responsavel")
	}
	return w
}

func scanPurchase(row pgx.Row) (*entity.PurchaseRequest, error) {
	var p entity.PurchaseRequest
	var createdBy *string
	err := row.Scan(
		&p.ID, &p.FarmID, &p.Product, &p.QuantityText, &p.Notes, &p.Responsible, &p.RequestedDate, &p.Urgent,
		&p.Status, &p.Progress, &p.FinalizedBy, &createdBy, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if createdBy != nil {
		p.CreatedBy = *createdBy
	}
	return &p, nil
}
