package dto

import "time"

// CreatePurchaseRequest body para POST /api/farms/:farmId/purchase-requests.
type CreatePurchaseRequest struct {
	Produto     string `json:"produto" validate:"required,notblank,max=200"`
	Quantidade  string `json:"quantidade" validate:"required,notblank,max=100"`
	Responsavel string `json:"responsavel" validate:"required,notblank,max=200"`
	Data        string `json:"data" validate:"required"` // YYYY-MM-DD o RFC3339
	Urgente     bool   `json:"urgente"`
	Observacao  string `json:"observacao" validate:"max=2000"`
	FarmID      string `json:"farmId"` // opcional; si viene debe coincidir con la ruta
}

// UpdatePurchaseRequest body para PATCH /api/purchase-requests/:id.
// Campos ausentes no se modifican; Status pasa por la máquina de estados.
type UpdatePurchaseRequest struct {
	Produto       *string `json:"produto" validate:"omitnil,notblank,max=200"`
	Quantidade    *string `json:"quantidade" validate:"omitnil,notblank,max=100"`
	Responsavel   *string `json:"responsavel" validate:"omitnil,notblank,max=200"`
	Data          *string `json:"data" validate:"omitnil,notblank"`
	Observacao    *string `json:"observacao" validate:"omitnil,max=2000"`
	Urgente       *bool   `json:"urgente"`
	Status        *string `json:"status" validate:"omitnil,oneof=NOVA EM_ANDAMENTO FINALIZADA"`
	Andamento     *string `json:"andamento" validate:"omitnil,max=2000"`
	FinalizadoPor *string `json:"finalizadoPor" validate:"omitnil,max=200"`
}

// HasEdits indica si el PATCH trae algún campo editable además del estado.
func (u UpdatePurchaseRequest) HasEdits() bool {
	return u.Produto != nil || u.Quantidade != nil || u.Responsavel != nil ||
		u.Data != nil || u.Observacao != nil || u.Urgente != nil
}

// ProgressRequest body para POST /api/purchase-requests/:id/in-progress.
type ProgressRequest struct {
	Andamento string `json:"andamento" validate:"required,notblank,max=2000"`
}

// FinalizeRequest body para POST /api/purchase-requests/:id/finalize.
type FinalizeRequest struct {
	FinalizadoPor string `json:"finalizadoPor" validate:"required,notblank,max=200"`
}

// PurchaseRequestQuery filtros de GET /api/farms/:farmId/purchase-requests.
type PurchaseRequestQuery struct {
	Status  string `query:"status" validate:"omitempty,oneof=all NOVA EM_ANDAMENTO FINALIZADA"`
	Urgente string `query:"urgente" validate:"omitempty,oneof=true false"`
	Search  string `query:"search" validate:"max=200"`
	PageRequest
}

// PurchaseRequestResponse salida de una solicitud de compra.
type PurchaseRequestResponse struct {
	ID            string    `json:"id"`
	FarmID        string    `json:"farmId"`
	Produto       string    `json:"produto"`
	Quantidade    string    `json:"quantidade"`
	Observacao    string    `json:"observacao,omitempty"`
	Responsavel   string    `json:"responsavel"`
	Data          string    `json:"data"` // YYYY-MM-DD
	Urgente       bool      `json:"urgente"`
	Status        string    `json:"status"`
	Andamento     string    `json:"andamento,omitempty"`
	FinalizadoPor string    `json:"finalizadoPor,omitempty"`
	CreatedBy     string    `json:"createdBy"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// PurchaseRequestListResponse lista de solicitudes de una granja.
type PurchaseRequestListResponse struct {
	Items []PurchaseRequestResponse `json:"items"`
	Page  PageResponse              `json:"page"`
}
