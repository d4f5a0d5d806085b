package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// Los montos viajan como strings decimales ("12.50"); shopspring/decimal también acepta números JSON.

// CreateItemRequest body para POST /api/farms/:farmId/inventory.
type CreateItemRequest struct {
	Name         string           `json:"name" validate:"required,notblank,max=200"`
	Category     string           `json:"category" validate:"required,notblank,max=100"`
	Unit         string           `json:"unit" validate:"required,notblank,max=30"`
	Quantity     *decimal.Decimal `json:"quantity,omitempty"` // saldo inicial; vacío = 0
	MinimumLevel *decimal.Decimal `json:"minimumLevel,omitempty"`
}

// UpdateItemRequest body para PUT /api/inventory/:itemId. La cantidad no se edita aquí.
type UpdateItemRequest struct {
	Name         *string          `json:"name" validate:"omitnil,notblank,max=200"`
	Category     *string          `json:"category" validate:"omitnil,notblank,max=100"`
	Unit         *string          `json:"unit" validate:"omitnil,notblank,max=30"`
	MinimumLevel *decimal.Decimal `json:"minimumLevel,omitempty"`
}

// ItemResponse salida de un insumo con su clasificación de stock.
type ItemResponse struct {
	ID              string           `json:"id"`
	FarmID          string           `json:"farmId"`
	Name            string           `json:"name"`
	Category        string           `json:"category"`
	Quantity        decimal.Decimal  `json:"quantity"`
	InitialQuantity decimal.Decimal  `json:"initialQuantity"`
	Unit            string           `json:"unit"`
	MinimumLevel    *decimal.Decimal `json:"minimumLevel,omitempty"`
	StockStatus     string           `json:"stockStatus"` // OK | LOW | OUT
	CreatedAt       time.Time        `json:"createdAt"`
	UpdatedAt       time.Time        `json:"updatedAt"`
}

// ItemListResponse lista de insumos de una granja.
type ItemListResponse struct {
	Items []ItemResponse `json:"items"`
	Total int            `json:"total"`
}

// EntryRequest body para POST /api/inventory/:itemId/entry.
type EntryRequest struct {
	Quantity       *decimal.Decimal `json:"quantity"`
	DocumentNumber string           `json:"documentNumber" validate:"max=100"`
	UnitPrice      *decimal.Decimal `json:"unitPrice,omitempty"`
	Source         string           `json:"source" validate:"max=200"` // proveedor u origen
	Notes          string           `json:"notes" validate:"max=2000"`
}

// WithdrawalRequest body para POST /api/inventory/:itemId/withdrawal.
type WithdrawalRequest struct {
	Quantity    *decimal.Decimal `json:"quantity"`
	Destination string           `json:"destination" validate:"max=200"`
	Notes       string           `json:"notes" validate:"max=2000"`
}

// AdjustmentRequest body para POST /api/inventory/:itemId/adjustment.
type AdjustmentRequest struct {
	NewQuantity *decimal.Decimal `json:"newQuantity"`
	Notes       string           `json:"notes" validate:"max=2000"`
}

// TransactionResponse fila del libro de movimientos.
type TransactionResponse struct {
	ID                  string           `json:"id"`
	InventoryID         string           `json:"inventoryId"`
	FarmID              string           `json:"farmId"`
	UserID              string           `json:"userId"`
	Type                string           `json:"type"`
	Quantity            decimal.Decimal  `json:"quantity"`
	PreviousBalance     decimal.Decimal  `json:"previousBalance"`
	NewBalance          decimal.Decimal  `json:"newBalance"`
	Date                time.Time        `json:"date"`
	DocumentNumber      string           `json:"documentNumber,omitempty"`
	Notes               string           `json:"notes,omitempty"`
	DestinationOrSource string           `json:"destinationOrSource,omitempty"`
	UnitPrice           *decimal.Decimal `json:"unitPrice,omitempty"`
	TotalPrice          *decimal.Decimal `json:"totalPrice,omitempty"`
	CreatedAt           time.Time        `json:"createdAt"`
}

// LedgerResult respuesta de una entrada/salida/ajuste: saldo actualizado y fila registrada.
type LedgerResult struct {
	Item        ItemResponse        `json:"item"`
	Transaction TransactionResponse `json:"transaction"`
}

// TransactionQuery filtros de GET .../transactions (query string).
type TransactionQuery struct {
	InventoryID string `query:"itemId" validate:"omitempty,uuid"`
	Type        string `query:"type" validate:"omitempty,oneof=IN OUT ADJUST"`
	From        string `query:"from"` // YYYY-MM-DD o RFC3339
	To          string `query:"to"`
	PageRequest
}

// TransactionListResponse lista paginada de movimientos (más recientes primero).
type TransactionListResponse struct {
	Items []TransactionResponse `json:"items"`
	Page  PageResponse          `json:"page"`
}

// ChainBreakDTO eslabón inconsistente del historial.
type ChainBreakDTO struct {
	TransactionID string `json:"transactionId,omitempty"`
	Reason        string `json:"reason"`
}

// ChainVerificationResponse resultado de reconstruir el saldo desde el historial.
type ChainVerificationResponse struct {
	InventoryID     string          `json:"inventoryId"`
	Transactions    int             `json:"transactions"`
	InitialQuantity decimal.Decimal `json:"initialQuantity"`
	Reconstructed   decimal.Decimal `json:"reconstructedQuantity"`
	CurrentQuantity decimal.Decimal `json:"currentQuantity"`
	Consistent      bool            `json:"consistent"`
	Breaks          []ChainBreakDTO `json:"breaks,omitempty"`
}
