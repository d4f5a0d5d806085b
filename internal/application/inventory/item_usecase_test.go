package inventory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Granja-api/internal/application/dto"
	"github.com/jhoicas/Granja-api/internal/domain"
	"github.com/jhoicas/Granja-api/internal/domain/entity"
	"github.com/jhoicas/Granja-api/internal/domain/repository"
)

func TestItem_CreateYListar(t *testing.T) {
	s := newMemStore()
	uc := NewItemUseCase(s.itemRepo(), s.txRepo())
	ctx := context.Background()

	created, err := uc.Create(ctx, scopeA, farmA, dto.CreateItemRequest{
		Name: " Milho ", Category: "grão", Unit: "kg", Quantity: dec("20"), MinimumLevel: dec("25"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Milho", created.Name)
	assert.Equal(t, "20", created.InitialQuantity.String())
	assert.Equal(t, entity.StockStatusLow, created.StockStatus)

	_, err = uc.Create(ctx, scopeA, farmA, dto.CreateItemRequest{Name: "Vacina", Category: "sanidade", Unit: "dose"})
	require.NoError(t, err)

	all, err := uc.List(ctx, scopeA, farmA, repository.ItemFilter{})
	require.NoError(t, err)
	assert.Equal(t, 2, all.Total)

	low, err := uc.List(ctx, scopeA, farmA, repository.ItemFilter{LowStockOnly: true})
	require.NoError(t, err)
	require.Len(t, low.Items, 2, "sin stock también cuenta como bajo")

	search, err := uc.List(ctx, scopeA, farmA, repository.ItemFilter{Search: "mil"})
	require.NoError(t, err)
	require.Len(t, search.Items, 1)
	assert.Equal(t, "Milho", search.Items[0].Name)
}

func TestItem_Create_Validaciones(t *testing.T) {
	s := newMemStore()
	uc := NewItemUseCase(s.itemRepo(), s.txRepo())
	ctx := context.Background()

	_, err := uc.Create(ctx, scopeA, farmA, dto.CreateItemRequest{Name: "  ", Category: "x", Unit: "kg"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.Create(ctx, scopeA, farmA, dto.CreateItemRequest{Name: "x", Category: "x", Unit: "kg", Quantity: dec("-1")})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.Create(ctx, scopeA, farmB, dto.CreateItemRequest{Name: "x", Category: "x", Unit: "kg"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestItem_MontosFueraDeLaColumna(t *testing.T) {
	s := newMemStore()
	seedItem(s, "item-1", farmA, "30")
	uc := NewItemUseCase(s.itemRepo(), s.txRepo())
	ctx := context.Background()
	var ve *domain.ValidationError

	_, err := uc.Create(ctx, scopeA, farmA, dto.CreateItemRequest{Name: "x", Category: "x", Unit: "kg", Quantity: dec("0.00001")})
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "quantity", ve.Field)

	_, err = uc.Create(ctx, scopeA, farmA, dto.CreateItemRequest{Name: "x", Category: "x", Unit: "kg", MinimumLevel: dec("1e15")})
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "minimumLevel", ve.Field)
	assert.Len(t, s.items, 1)

	_, err = uc.Update(ctx, scopeA, "item-1", dto.UpdateItemRequest{MinimumLevel: dec("2.00005")})
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "minimumLevel", ve.Field)
	assert.Nil(t, s.items["item-1"].MinimumLevel)

	out, err := uc.Create(ctx, scopeA, farmA, dto.CreateItemRequest{Name: "y", Category: "x", Unit: "kg", Quantity: dec("99999999999999.9999")})
	require.NoError(t, err)
	assert.Equal(t, "99999999999999.9999", out.Quantity.String())
}

func TestItem_Update_NoTocaSaldo(t *testing.T) {
	s := newMemStore()
	seedItem(s, "item-1", farmA, "30")
	uc := NewItemUseCase(s.itemRepo(), s.txRepo())

	name := "Ração inicial"
	out, err := uc.Update(context.Background(), scopeA, "item-1", dto.UpdateItemRequest{Name: &name, MinimumLevel: dec("5")})
	require.NoError(t, err)
	assert.Equal(t, name, out.Name)
	assert.Equal(t, "30", s.items["item-1"].Quantity.String())
	assert.Equal(t, "5", s.items["item-1"].MinimumLevel.String())

	_, err = uc.Update(context.Background(), scopeA, "item-1", dto.UpdateItemRequest{MinimumLevel: dec("-1")})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestItem_Delete_ConHistorialEsConflicto(t *testing.T) {
	s := newMemStore()
	seedItem(s, "item-1", farmA, "30")
	seedItem(s, "item-2", farmA, "0")
	items := NewItemUseCase(s.itemRepo(), s.txRepo())
	ledgerUC, _ := newLedger(s, false)
	ctx := context.Background()

	_, err := ledgerUC.Entry(ctx, scopeA, "item-1", dto.EntryRequest{Quantity: dec("1")})
	require.NoError(t, err)

	assert.ErrorIs(t, items.Delete(ctx, scopeA, "item-1"), domain.ErrConflict)
	require.NoError(t, items.Delete(ctx, scopeA, "item-2"))
	_, ok := s.items["item-2"]
	assert.False(t, ok)

	assert.ErrorIs(t, items.Delete(ctx, scopeA, "item-2"), domain.ErrNotFound)
}

func TestReport_KardexPDF(t *testing.T) {
	s := newMemStore()
	seedItem(s, "item-1", farmA, "30")
	ledgerUC, _ := newLedger(s, false)
	ctx := context.Background()
	_, err := ledgerUC.Entry(ctx, scopeA, "item-1", dto.EntryRequest{Quantity: dec("1")})
	require.NoError(t, err)

	gen := &stubPDF{}
	uc := NewReportUseCase(s.itemRepo(), s.txRepo(), gen)
	pdf, name, err := uc.ItemKardexPDF(ctx, scopeA, "item-1")
	require.NoError(t, err)
	assert.NotEmpty(t, pdf)
	assert.Equal(t, "kardex-ra-o.pdf", name)
	assert.Equal(t, 1, gen.gotTxs)

	_, _, err = uc.ItemKardexPDF(ctx, domain.Scope{FarmID: farmB}, "item-1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
