package inventory

import (
	"github.com/jhoicas/Granja-api/internal/application/dto"
	"github.com/jhoicas/Granja-api/internal/domain/entity"
)

func toItemResponse(i *entity.InventoryItem) dto.ItemResponse {
	return dto.ItemResponse{
		ID:              i.ID,
		FarmID:          i.FarmID,
		Name:            i.Name,
		Category:        i.Category,
		Quantity:        i.Quantity,
		InitialQuantity: i.InitialQuantity,
		Unit:            i.Unit,
		MinimumLevel:    i.MinimumLevel,
		StockStatus:     i.StockStatus(),
		CreatedAt:       i.CreatedAt,
		UpdatedAt:       i.UpdatedAt,
	}
}

func toTransactionResponse(t *entity.InventoryTransaction) dto.TransactionResponse {
	return dto.TransactionResponse{
		ID:                  t.ID,
		InventoryID:         t.InventoryID,
		FarmID:              t.FarmID,
		UserID:              t.UserID,
		Type:                t.Type,
		Quantity:            t.Quantity,
		PreviousBalance:     t.PreviousBalance,
		NewBalance:          t.NewBalance,
		Date:                t.Date,
		DocumentNumber:      t.DocumentNumber,
		Notes:               t.Notes,
		DestinationOrSource: t.DestinationOrSource,
		UnitPrice:           t.UnitPrice,
		TotalPrice:          t.TotalPrice,
		CreatedAt:           t.CreatedAt,
	}
}

func toTransactionResponses(list []*entity.InventoryTransaction) []dto.TransactionResponse {
	out := make([]dto.TransactionResponse, 0, len(list))
	for _, t := range list {
		out = append(out, toTransactionResponse(t))
	}
	return out
}
