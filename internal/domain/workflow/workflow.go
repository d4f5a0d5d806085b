// Package workflow implementa la máquina de estados de las solicitudes de compra:
// NOVA -> EM_ANDAMENTO -> FINALIZADA, sin retrocesos.
package workflow

import (
	"strings"
	"time"

	"github.com/jhoicas/Granja-api/internal/domain"
	"github.com/jhoicas/Granja-api/internal/domain/entity"
)

// Transition es una transición válida con su texto asociado.
type Transition interface {
	// Target estado destino.
	Target() string
	apply(req *entity.PurchaseRequest)
	validate() error
}

// MarkInProgress pasa la solicitud a EM_ANDAMENTO y reemplaza el andamento.
type MarkInProgress struct {
	Andamento string
}

func (MarkInProgress) Target() string { return entity.PurchaseStatusEmAndamento }

func (t MarkInProgress) validate() error {
	if strings.TrimSpace(t.Andamento) == "" {
		return domain.NewValidationError("andamento", "es requerido")
	}
	return nil
}

func (t MarkInProgress) apply(req *entity.PurchaseRequest) {
	req.Status = entity.PurchaseStatusEmAndamento
	req.Progress = strings.TrimSpace(t.Andamento)
}

// Finalize cierra la solicitud registrando quién la finalizó.
type Finalize struct {
	FinalizadoPor string
}

func (Finalize) Target() string { return entity.PurchaseStatusFinalizada }

func (t Finalize) validate() error {
	if strings.TrimSpace(t.FinalizadoPor) == "" {
		return domain.NewValidationError("finalizadoPor", "es requerido")
	}
	return nil
}

func (t Finalize) apply(req *entity.PurchaseRequest) {
	req.Status = entity.PurchaseStatusFinalizada
	req.FinalizedBy = strings.TrimSpace(t.FinalizadoPor)
}

// CanTransition indica si from -> to está permitido.
// EM_ANDAMENTO -> EM_ANDAMENTO se permite para actualizar el andamento.
func CanTransition(from, to string) bool {
	switch from {
	case entity.PurchaseStatusNova:
		return to == entity.PurchaseStatusEmAndamento || to == entity.PurchaseStatusFinalizada
	case entity.PurchaseStatusEmAndamento:
		return to == entity.PurchaseStatusEmAndamento || to == entity.PurchaseStatusFinalizada
	}
	return false
}

// Apply valida el estado actual y aplica la transición sobre req.
// Devuelve ErrInvalidTransition sin tocar req si no está permitida.
func Apply(req *entity.PurchaseRequest, t Transition, now time.Time) error {
	if err := t.validate(); err != nil {
		return err
	}
	if !CanTransition(req.Status, t.Target()) {
		return domain.ErrInvalidTransition
	}
	t.apply(req)
	req.UpdatedAt = now
	return nil
}

// ForStatus construye la transición que lleva a status, usando el texto que corresponda.
// NOVA no es un destino alcanzable.
func ForStatus(status, andamento, finalizadoPor string) (Transition, error) {
	switch status {
	case entity.PurchaseStatusEmAndamento:
		return MarkInProgress{Andamento: andamento}, nil
	case entity.PurchaseStatusFinalizada:
		return Finalize{FinalizadoPor: finalizadoPor}, nil
	case entity.PurchaseStatusNova:
		return nil, domain.ErrInvalidTransition
	}
	return nil, domain.NewValidationError("status", "valor desconocido")
}
