package inventory

import (
	"context"
	"fmt"
	"strings"

	"github.com/jhoicas/Granja-api/internal/domain"
	"github.com/jhoicas/Granja-api/internal/domain/repository"
)

// ReportUseCase genera el kardex (historial de movimientos) de un insumo en PDF.
type ReportUseCase struct {
	itemRepo  repository.InventoryItemRepository
	txRepo    repository.InventoryTransactionRepository
	generator KardexPDFGenerator
}

// NewReportUseCase construye el caso de uso.
func NewReportUseCase(itemRepo repository.InventoryItemRepository, txRepo repository.InventoryTransactionRepository, generator KardexPDFGenerator) *ReportUseCase {
	return &ReportUseCase{itemRepo: itemRepo, txRepo: txRepo, generator: generator}
}

// ItemKardexPDF devuelve los bytes del PDF y un nombre de archivo sugerido.
func (uc *ReportUseCase) ItemKardexPDF(ctx context.Context, scope domain.Scope, itemID string) ([]byte, string, error) {
	item, err := uc.itemRepo.GetByID(ctx, itemID)
	if err != nil {
		return nil, "", err
	}
	if item == nil || !scope.Allows(item.FarmID) {
		return nil, "", domain.ErrNotFound
	}
	txs, err := uc.txRepo.ListChain(ctx, item.ID)
	if err != nil {
		return nil, "", err
	}
	pdf, err := uc.generator.GenerateKardexPDF(ctx, item, txs)
	if err != nil {
		return nil, "", fmt.Errorf("kardex pdf: %w", err)
	}
	return pdf, kardexFilename(item.Name), nil
}

func kardexFilename(name string) string {
	parts := strings.FieldsFunc(strings.ToLower(name), func(r rune) bool {
		return (r < 'a' || r > 'z') && (r < '0' || r > '9')
	})
	if len(parts) == 0 {
		return "kardex-item.pdf"
	}
	return "kardex-" + strings.Join(parts, "-") + ".pdf"
}
