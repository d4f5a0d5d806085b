package purchase

import (
	"context"
	"sort"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Granja-api/internal/application/dto"
	"github.com/jhoicas/Granja-api/internal/domain"
	"github.com/jhoicas/Granja-api/internal/domain/entity"
	"github.com/jhoicas/Granja-api/internal/domain/repository"
)

// memRepo repositorio en memoria; RunPurchases trabaja sobre una copia y la publica si fn no falla.
type memRepo struct {
	mu   sync.Mutex
	rows map[string]entity.PurchaseRequest
}

func newMemRepo() *memRepo { return &memRepo{rows: map[string]entity.PurchaseRequest{}} }

func (m *memRepo) RunPurchases(ctx context.Context, fn func(repository.PurchaseRequestRepository) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	staged := &memRepo{rows: make(map[string]entity.PurchaseRequest, len(m.rows))}
	for k, v := range m.rows {
		staged.rows[k] = v
	}
	if err := fn(staged); err != nil {
		return err
	}
	m.rows = staged.rows
	return nil
}

func (m *memRepo) Create(_ context.Context, r *entity.PurchaseRequest) error {
	m.rows[r.ID] = *r
	return nil
}

func (m *memRepo) GetByID(_ context.Context, id string) (*entity.PurchaseRequest, error) {
	r, ok := m.rows[id]
	if !ok {
		return nil, nil
	}
	return &r, nil
}

func (m *memRepo) GetForUpdate(ctx context.Context, id string) (*entity.PurchaseRequest, error) {
	return m.GetByID(ctx, id)
}

func (m *memRepo) Update(_ context.Context, r *entity.PurchaseRequest) error {
	m.rows[r.ID] = *r
	return nil
}

func (m *memRepo) Delete(_ context.Context, id string) error {
	delete(m.rows, id)
	return nil
}

func (m *memRepo) ListByFarm(_ context.Context, farmID string, f repository.PurchaseRequestFilter) ([]*entity.PurchaseRequest, error) {
	out := m.matching(farmID, f)
	if f.Offset >= len(out) {
		return nil, nil
	}
	out = out[f.Offset:]
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, nil
}

func (m *memRepo) CountByFarm(_ context.Context, farmID string, f repository.PurchaseRequestFilter) (int, error) {
	return len(m.matching(farmID, f)), nil
}

func (m *memRepo) matching(farmID string, f repository.PurchaseRequestFilter) []*entity.PurchaseRequest {
	var out []*entity.PurchaseRequest
	for _, r := range m.rows {
		if r.FarmID != farmID || (f.Status != "" && r.Status != f.Status) {
			continue
		}
		if f.Urgent != nil && r.Urgent != *f.Urgent {
			continue
		}
		if f.Search != "" {
			s := strings.ToLower(f.Search)
			if !strings.Contains(strings.ToLower(r.Product), s) && !strings.Contains(strings.ToLower(r.Responsible), s) {
				continue
			}
		}
		r := r
		out = append(out, &r)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Urgent != out[j].Urgent {
			return out[i].Urgent
		}
		if !out[i].RequestedDate.Equal(out[j].RequestedDate) {
			return out[i].RequestedDate.Before(out[j].RequestedDate)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

type countingMetrics struct{ to map[string]int }

func (c *countingMetrics) TransitionApplied(to string) { c.to[to]++ }

const (
	farmA = "farm-a"
	farmB = "farm-b"
)

var scopeA = domain.Scope{UserID: "u1", FarmID: farmA}

func newUseCase() (*UseCase, *memRepo, *countingMetrics) {
	repo := newMemRepo()
	m := &countingMetrics{to: map[string]int{}}
	return NewUseCase(repo, repo, m, nil), repo, m
}

func create(t *testing.T, uc *UseCase, produto string, urgente bool, data string) *dto.PurchaseRequestResponse {
	t.Helper()
	out, err := uc.Create(context.Background(), scopeA, farmA, dto.CreatePurchaseRequest{
		Produto: produto, Quantidade: "10 sacos", Responsavel: "Ana", Data: data, Urgente: urgente,
	})
	require.NoError(t, err)
	return out
}

// ── Ciclo de vida ───────────────────────────────────────────────────────────

func TestPurchase_CicloCompleto(t *testing.T) {
	uc, _, m := newUseCase()
	ctx := context.Background()

	req := create(t, uc, "Ração", false, "2026-03-10")
	assert.Equal(t, entity.PurchaseStatusNova, req.Status)
	assert.Equal(t, "2026-03-10", req.Data)
	assert.Equal(t, "u1", req.CreatedBy)

	out, err := uc.MarkInProgress(ctx, scopeA, req.ID, dto.ProgressRequest{Andamento: "Aguardando fornecedor"})
	require.NoError(t, err)
	assert.Equal(t, entity.PurchaseStatusEmAndamento, out.Status)
	assert.Equal(t, "Aguardando fornecedor", out.Andamento)

	out, err = uc.MarkInProgress(ctx, scopeA, req.ID, dto.ProgressRequest{Andamento: "Pedido enviado"})
	require.NoError(t, err)
	assert.Equal(t, "Pedido enviado", out.Andamento)

	out, err = uc.Finalize(ctx, scopeA, req.ID, dto.FinalizeRequest{FinalizadoPor: "Carlos Mendes"})
	require.NoError(t, err)
	assert.Equal(t, entity.PurchaseStatusFinalizada, out.Status)
	assert.Equal(t, "Carlos Mendes", out.FinalizadoPor)

	_, err = uc.Finalize(ctx, scopeA, req.ID, dto.FinalizeRequest{FinalizadoPor: "Outro"})
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	_, err = uc.MarkInProgress(ctx, scopeA, req.ID, dto.ProgressRequest{Andamento: "volta"})
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	assert.Equal(t, 2, m.to[entity.PurchaseStatusEmAndamento])
	assert.Equal(t, 1, m.to[entity.PurchaseStatusFinalizada])
}

func TestPurchase_FinalizarDesdeNova(t *testing.T) {
	uc, _, _ := newUseCase()
	req := create(t, uc, "Vacina", true, "2026-03-10")

	out, err := uc.Finalize(context.Background(), scopeA, req.ID, dto.FinalizeRequest{FinalizadoPor: "Ana"})
	require.NoError(t, err)
	assert.Equal(t, entity.PurchaseStatusFinalizada, out.Status)
}

func TestPurchase_TextoVacioEnTransicion(t *testing.T) {
	uc, repo, _ := newUseCase()
	req := create(t, uc, "Vacina", true, "2026-03-10")

	_, err := uc.MarkInProgress(context.Background(), scopeA, req.ID, dto.ProgressRequest{Andamento: "   "})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Equal(t, entity.PurchaseStatusNova, repo.rows[req.ID].Status)
}

// ── PATCH ───────────────────────────────────────────────────────────────────

func strp(s string) *string { return &s }

func TestPurchase_Update_EdicionYTransicionAtomicas(t *testing.T) {
	uc, repo, _ := newUseCase()
	ctx := context.Background()
	req := create(t, uc, "Milho", false, "2026-03-10")

	out, err := uc.Update(ctx, scopeA, req.ID, dto.UpdatePurchaseRequest{Produto: strp("Milho moído"), Data: strp("2026-04-01")})
	require.NoError(t, err)
	assert.Equal(t, "Milho moído", out.Produto)
	assert.Equal(t, "2026-04-01", out.Data)
	assert.Equal(t, entity.PurchaseStatusNova, out.Status)

	out, err = uc.Update(ctx, scopeA, req.ID, dto.UpdatePurchaseRequest{Status: strp("EM_ANDAMENTO"), Andamento: strp("Cotando")})
	require.NoError(t, err)
	assert.Equal(t, entity.PurchaseStatusEmAndamento, out.Status)
	assert.Equal(t, "Cotando", out.Andamento)

	_, err = uc.Update(ctx, scopeA, req.ID, dto.UpdatePurchaseRequest{Status: strp("NOVA"), Produto: strp("x")})
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	assert.Equal(t, "Milho moído", repo.rows[req.ID].Product, "la edición se revierte con la transición")

	_, err = uc.Update(ctx, scopeA, req.ID, dto.UpdatePurchaseRequest{Status: strp("FINALIZADA")})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "finalizadoPor es requerido")

	_, err = uc.Update(ctx, scopeA, req.ID, dto.UpdatePurchaseRequest{Andamento: strp("sin status")})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.Update(ctx, scopeA, req.ID, dto.UpdatePurchaseRequest{Status: strp("FINALIZADA"), FinalizadoPor: strp("Ana")})
	require.NoError(t, err)

	_, err = uc.Update(ctx, scopeA, req.ID, dto.UpdatePurchaseRequest{Urgente: boolp(true)})
	assert.ErrorIs(t, err, domain.ErrInvalidTransition, "una solicitud finalizada no se edita")
}

func boolp(b bool) *bool { return &b }

// ── Listado y alcance ───────────────────────────────────────────────────────

func TestPurchase_List_FiltrosYOrden(t *testing.T) {
	uc, _, _ := newUseCase()
	ctx := context.Background()
	create(t, uc, "Ração", false, "2026-03-01")
	urgent := create(t, uc, "Vacina aftosa", true, "2026-03-20")
	done := create(t, uc, "Diesel", false, "2026-02-01")
	_, err := uc.Finalize(ctx, scopeA, done.ID, dto.FinalizeRequest{FinalizadoPor: "Ana"})
	require.NoError(t, err)

	all, err := uc.List(ctx, scopeA, farmA, dto.PurchaseRequestQuery{Status: "all"})
	require.NoError(t, err)
	require.Len(t, all.Items, 3)
	assert.Equal(t, urgent.ID, all.Items[0].ID)

	nova, err := uc.List(ctx, scopeA, farmA, dto.PurchaseRequestQuery{Status: "NOVA"})
	require.NoError(t, err)
	assert.Len(t, nova.Items, 2)

	onlyUrgent, err := uc.List(ctx, scopeA, farmA, dto.PurchaseRequestQuery{Urgente: "true"})
	require.NoError(t, err)
	assert.Len(t, onlyUrgent.Items, 1)

	search, err := uc.List(ctx, scopeA, farmA, dto.PurchaseRequestQuery{Search: "VACINA"})
	require.NoError(t, err)
	assert.Len(t, search.Items, 1)

	_, err = uc.List(ctx, scopeA, farmA, dto.PurchaseRequestQuery{Status: "CANCELADA"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestPurchase_List_PaginaInformaTotal(t *testing.T) {
	uc, _, _ := newUseCase()
	ctx := context.Background()
	for _, d := range []string{"2026-03-01", "2026-03-02", "2026-03-03"} {
		create(t, uc, "Milho", false, d)
	}
	create(t, uc, "Vacina", true, "2026-03-04")

	page, err := uc.List(ctx, scopeA, farmA, dto.PurchaseRequestQuery{PageRequest: dto.PageRequest{Limit: 2, Offset: 2}})
	require.NoError(t, err)
	assert.Len(t, page.Items, 2)
	assert.Equal(t, 4, page.Page.Total)

	milho, err := uc.List(ctx, scopeA, farmA, dto.PurchaseRequestQuery{Search: "milho", PageRequest: dto.PageRequest{Limit: 1}})
	require.NoError(t, err)
	assert.Len(t, milho.Items, 1)
	assert.Equal(t, 3, milho.Page.Total)
}

func TestPurchase_Create_Validaciones(t *testing.T) {
	uc, _, _ := newUseCase()
	ctx := context.Background()

	_, err := uc.Create(ctx, scopeA, farmA, dto.CreatePurchaseRequest{Produto: "x", Quantidade: "1", Responsavel: "a", Data: "10/03/2026"})
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "data", verr.Field)

	_, err = uc.Create(ctx, scopeA, farmA, dto.CreatePurchaseRequest{Produto: "x", Quantidade: "1", Responsavel: "a", Data: "2026-03-10", FarmID: farmB})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.Create(ctx, scopeA, farmB, dto.CreatePurchaseRequest{Produto: "x", Quantidade: "1", Responsavel: "a", Data: "2026-03-10"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestPurchase_OtraGranja_EsNotFound(t *testing.T) {
	uc, repo, _ := newUseCase()
	ctx := context.Background()
	req := create(t, uc, "Ração", false, "2026-03-01")
	other := domain.Scope{UserID: "u2", FarmID: farmB}

	_, err := uc.GetByID(ctx, other, req.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = uc.Finalize(ctx, other, req.ID, dto.FinalizeRequest{FinalizadoPor: "x"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.ErrorIs(t, uc.Delete(ctx, other, req.ID), domain.ErrNotFound)

	require.NoError(t, uc.Delete(ctx, scopeA, req.ID))
	assert.Empty(t, repo.rows)
}
