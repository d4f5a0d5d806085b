package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Granja-api/internal/application/dto"
	"github.com/jhoicas/Granja-api/internal/domain"
	"github.com/jhoicas/Granja-api/internal/domain/repository"
	apphttp "github.com/jhoicas/Granja-api/internal/interfaces/http"
	"github.com/jhoicas/Granja-api/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// App de prueba
// ──────────────────────────────────────────────────────────────────────────────

type fakes struct {
	auth     *fakeAuth
	items    *fakeItems
	ledger   *fakeLedger
	kardex   *fakeKardex
	purchase *fakePurchase
	store    *memIdempotency
}

func newFakes() *fakes {
	return &fakes{
		auth:     &fakeAuth{},
		items:    &fakeItems{},
		ledger:   &fakeLedger{},
		kardex:   &fakeKardex{},
		purchase: &fakePurchase{},
		store:    newMemIdempotency(),
	}
}

func newTestApp(f *fakes) *fiber.App {
	log := logger.Nop()
	app := fiber.New(fiber.Config{ErrorHandler: apphttp.ErrorHandler(log)})
	app.Use(apphttp.RequestID())
	apphttp.Router(app, apphttp.RouterDeps{
		AuthUC:      f.auth,
		ItemUC:      f.items,
		LedgerUC:    f.ledger,
		KardexUC:    f.kardex,
		PurchaseUC:  f.purchase,
		Idempotency: f.store,
		JWTSecret:   testJWTSecret,
		Log:         log,
	})
	return app
}

// do lanza la petición; body puede ser nil, string o cualquier valor serializable a JSON.
func do(t *testing.T, app *fiber.App, method, path, auth string, body any, headers ...string) *http.Response {
	t.Helper()
	var r io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		r = bytes.NewBufferString(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		r = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, r)
	if r != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decodeError(t *testing.T, resp *http.Response) dto.ErrorResponse {
	t.Helper()
	defer resp.Body.Close()
	var out dto.ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

// ──────────────────────────────────────────────────────────────────────────────
// Fakes de servicios
// ──────────────────────────────────────────────────────────────────────────────

type fakeAuth struct {
	err error
}

func (f *fakeAuth) Login(_ context.Context, in dto.LoginRequest) (*dto.LoginResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &dto.LoginResponse{Token: "tok", User: dto.UserResponse{ID: testUserID, Email: in.Email, FarmID: testFarmID}}, nil
}

func (f *fakeAuth) Me(_ context.Context, userID string) (*dto.UserResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &dto.UserResponse{ID: userID, FarmID: testFarmID}, nil
}

type fakeItems struct {
	err        error
	lastScope  domain.Scope
	lastFarm   string
	lastFilter repository.ItemFilter
	deleted    []string
}

func (f *fakeItems) Create(_ context.Context, scope domain.Scope, farmID string, in dto.CreateItemRequest) (*dto.ItemResponse, error) {
	f.lastScope, f.lastFarm = scope, farmID
	if f.err != nil {
		return nil, f.err
	}
	return &dto.ItemResponse{ID: "item-1", FarmID: farmID, Name: in.Name, Unit: in.Unit, StockStatus: "OK"}, nil
}

func (f *fakeItems) GetByID(_ context.Context, scope domain.Scope, id string) (*dto.ItemResponse, error) {
	f.lastScope = scope
	if f.err != nil {
		return nil, f.err
	}
	return &dto.ItemResponse{ID: id, FarmID: scope.FarmID}, nil
}

func (f *fakeItems) List(_ context.Context, scope domain.Scope, farmID string, filter repository.ItemFilter) (*dto.ItemListResponse, error) {
	f.lastScope, f.lastFarm, f.lastFilter = scope, farmID, filter
	if f.err != nil {
		return nil, f.err
	}
	return &dto.ItemListResponse{Items: []dto.ItemResponse{}}, nil
}

func (f *fakeItems) Update(_ context.Context, scope domain.Scope, id string, _ dto.UpdateItemRequest) (*dto.ItemResponse, error) {
	f.lastScope = scope
	if f.err != nil {
		return nil, f.err
	}
	return &dto.ItemResponse{ID: id}, nil
}

func (f *fakeItems) Delete(_ context.Context, _ domain.Scope, id string) error {
	if f.err != nil {
		return f.err
	}
	f.deleted = append(f.deleted, id)
	return nil
}

type fakeLedger struct {
	mu        sync.Mutex
	err       error
	calls     int
	balance   decimal.Decimal
	lastScope domain.Scope
	lastItem  string
	lastQuery dto.TransactionQuery
}

func (f *fakeLedger) apply(scope domain.Scope, itemID, txType string, delta func(decimal.Decimal) decimal.Decimal) (*dto.LedgerResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.lastScope, f.lastItem = scope, itemID
	if f.err != nil {
		return nil, f.err
	}
	prev := f.balance
	f.balance = delta(prev)
	return &dto.LedgerResult{
		Item: dto.ItemResponse{ID: itemID, Quantity: f.balance},
		Transaction: dto.TransactionResponse{
			ID: "tx", InventoryID: itemID, Type: txType,
			PreviousBalance: prev, NewBalance: f.balance, Date: time.Now(),
		},
	}, nil
}

func (f *fakeLedger) Entry(_ context.Context, scope domain.Scope, itemID string, in dto.EntryRequest) (*dto.LedgerResult, error) {
	return f.apply(scope, itemID, "IN", func(d decimal.Decimal) decimal.Decimal { return d.Add(*in.Quantity) })
}

func (f *fakeLedger) Withdrawal(_ context.Context, scope domain.Scope, itemID string, in dto.WithdrawalRequest) (*dto.LedgerResult, error) {
	return f.apply(scope, itemID, "OUT", func(d decimal.Decimal) decimal.Decimal { return d.Sub(*in.Quantity) })
}

func (f *fakeLedger) Adjustment(_ context.Context, scope domain.Scope, itemID string, in dto.AdjustmentRequest) (*dto.LedgerResult, error) {
	return f.apply(scope, itemID, "ADJUST", func(decimal.Decimal) decimal.Decimal { return *in.NewQuantity })
}

func (f *fakeLedger) ListItemTransactions(_ context.Context, scope domain.Scope, itemID string, q dto.TransactionQuery) (*dto.TransactionListResponse, error) {
	f.lastScope, f.lastItem, f.lastQuery = scope, itemID, q
	if f.err != nil {
		return nil, f.err
	}
	return &dto.TransactionListResponse{Items: []dto.TransactionResponse{}}, nil
}

func (f *fakeLedger) ListFarmTransactions(_ context.Context, scope domain.Scope, _ string, q dto.TransactionQuery) (*dto.TransactionListResponse, error) {
	f.lastScope, f.lastQuery = scope, q
	if f.err != nil {
		return nil, f.err
	}
	return &dto.TransactionListResponse{Items: []dto.TransactionResponse{}}, nil
}

func (f *fakeLedger) VerifyChain(_ context.Context, _ domain.Scope, itemID string) (*dto.ChainVerificationResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &dto.ChainVerificationResponse{InventoryID: itemID, Consistent: true}, nil
}

type fakeKardex struct{}

func (fakeKardex) ItemKardexPDF(_ context.Context, _ domain.Scope, itemID string) ([]byte, string, error) {
	if itemID == "missing" {
		return nil, "", domain.ErrNotFound
	}
	return []byte("%PDF-1.4"), "kardex-milho.pdf", nil
}

type fakePurchase struct {
	err       error
	lastScope domain.Scope
	lastQuery dto.PurchaseRequestQuery
	lastPatch dto.UpdatePurchaseRequest
	deleted   []string
}

func (f *fakePurchase) resp(id, status string) (*dto.PurchaseRequestResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &dto.PurchaseRequestResponse{ID: id, FarmID: testFarmID, Status: status}, nil
}

func (f *fakePurchase) Create(_ context.Context, scope domain.Scope, _ string, _ dto.CreatePurchaseRequest) (*dto.PurchaseRequestResponse, error) {
	f.lastScope = scope
	return f.resp("pr-1", "NOVA")
}

func (f *fakePurchase) GetByID(_ context.Context, _ domain.Scope, id string) (*dto.PurchaseRequestResponse, error) {
	return f.resp(id, "NOVA")
}

func (f *fakePurchase) List(_ context.Context, scope domain.Scope, _ string, q dto.PurchaseRequestQuery) (*dto.PurchaseRequestListResponse, error) {
	f.lastScope, f.lastQuery = scope, q
	if f.err != nil {
		return nil, f.err
	}
	return &dto.PurchaseRequestListResponse{Items: []dto.PurchaseRequestResponse{}}, nil
}

func (f *fakePurchase) Update(_ context.Context, _ domain.Scope, id string, in dto.UpdatePurchaseRequest) (*dto.PurchaseRequestResponse, error) {
	f.lastPatch = in
	status := "NOVA"
	if in.Status != nil {
		status = *in.Status
	}
	return f.resp(id, status)
}

func (f *fakePurchase) MarkInProgress(_ context.Context, _ domain.Scope, id string, _ dto.ProgressRequest) (*dto.PurchaseRequestResponse, error) {
	return f.resp(id, "EM_ANDAMENTO")
}

func (f *fakePurchase) Finalize(_ context.Context, _ domain.Scope, id string, _ dto.FinalizeRequest) (*dto.PurchaseRequestResponse, error) {
	return f.resp(id, "FINALIZADA")
}

func (f *fakePurchase) Delete(_ context.Context, _ domain.Scope, id string) error {
	if f.err != nil {
		return f.err
	}
	f.deleted = append(f.deleted, id)
	return nil
}

// memIdempotency IdempotencyStore en memoria (sin expiración).
type memIdempotency struct {
	mu   sync.Mutex
	data map[string]string
	err  error
}

func newMemIdempotency() *memIdempotency { return &memIdempotency{data: map[string]string{}} }

func (m *memIdempotency) Key(scope, id string) string { return scope + ":" + id }

func (m *memIdempotency) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return "", false, m.err
	}
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *memIdempotency) SetNX(_ context.Context, key, value string, _ time.Duration) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return false, m.err
	}
	if _, ok := m.data[key]; ok {
		return false, nil
	}
	m.data[key] = value
	return true, nil
}

func (m *memIdempotency) Set(_ context.Context, key, value string, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

func (m *memIdempotency) Del(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

func (m *memIdempotency) len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.data)
}
