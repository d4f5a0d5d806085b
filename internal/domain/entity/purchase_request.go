package entity

import "time"

// Estados de una solicitud de compra. Solo avanzan: NOVA -> EM_ANDAMENTO -> FINALIZADA.
const (
	PurchaseStatusNova        = "NOVA"
	PurchaseStatusEmAndamento = "EM_ANDAMENTO"
	PurchaseStatusFinalizada  = "FINALIZADA"
)

// ValidPurchaseStatus indica si s es un estado conocido.
func ValidPurchaseStatus(s string) bool {
	switch s {
	case PurchaseStatusNova, PurchaseStatusEmAndamento, PurchaseStatusFinalizada:
		return true
	}
	return false
}

// PurchaseRequest solicitud de compra de un producto para la granja.
// Progress (andamento) y FinalizedBy (finalizadoPor) se llenan en las transiciones correspondientes.
type PurchaseRequest struct {
	ID            string
	FarmID        string
	Product       string // produto
	QuantityText  string // quantidade, texto libre ("10 sacos de 50kg")
	Notes         string // observacao
	Responsible   string // responsavel
	RequestedDate time.Time
	Urgent        bool
	Status        string
	Progress      string // andamento
	FinalizedBy   string // finalizadoPor
	CreatedBy     string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// IsFinal indica si la solicitud llegó al estado terminal.
func (p *PurchaseRequest) IsFinal() bool {
	return p.Status == PurchaseStatusFinalizada
}
