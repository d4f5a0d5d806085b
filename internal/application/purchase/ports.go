package purchase

import (
	"context"

	"github.com/jhoicas/Granja-api/internal/domain/repository"
)

// TxRunner ejecuta fn dentro de una transacción con el repositorio atado a ella.
// La lectura con bloqueo, la transición y la escritura de la solicitud van juntas.
type TxRunner interface {
	RunPurchases(ctx context.Context, fn func(repo repository.PurchaseRequestRepository) error) error
}

// WorkflowMetrics contador de transiciones aplicadas (implementado por pkg/metrics).
type WorkflowMetrics interface {
	TransitionApplied(to string)
}

type nopMetrics struct{}

func (nopMetrics) TransitionApplied(string) {}
