// Package pdf genera el kardex (ficha de movimientos) de un insumo en PDF.
//
// Layout de la página A4 apaisada:
//
//	┌───────────────────────────────────────────────────────────────────────┐
//	│  HEADER: Insumo + categoría      │  Saldo actual + fecha de emisión   │
//	│  ───────────────────────────────────────────────────────────────────  │
//	│  TABLA: Fecha | Tipo | Cantidad | Saldo ant. | Saldo nuevo | Doc | Obs │
//	│  ───────────────────────────────────────────────────────────────────  │
//	│  FOOTER: verificación del historial + QR con el id del insumo         │
//	└───────────────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strings"
	"time"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/code"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/orientation"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Granja-api/internal/application/inventory"
	"github.com/jhoicas/Granja-api/internal/domain/entity"
	"github.com/jhoicas/Granja-api/internal/domain/ledger"
)

var _ inventory.KardexPDFGenerator = (*KardexGenerator)(nil)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 34, Green: 94, Blue: 50}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorRed     = &props.Color{Red: 170, Green: 30, Blue: 30}
	colorWhite   = &props.Color{Red: 255, Green: 255, Blue: 255}
)

var typeLabels = map[string]string{
	entity.TransactionTypeIN:     "Entrada",
	entity.TransactionTypeOUT:    "Saída",
	entity.TransactionTypeADJUST: "Ajuste",
}

// ── Generator ─────────────────────────────────────────────────────────────────

// KardexGenerator implementa inventory.KardexPDFGenerator usando Maroto v2.
type KardexGenerator struct {
	now func() time.Time
}

// NewKardexGenerator construye el generador.
func NewKardexGenerator() *KardexGenerator { return &KardexGenerator{now: time.Now} }

// GenerateKardexPDF genera el PDF con los movimientos en orden de registro (más antiguo primero).
func (g *KardexGenerator) GenerateKardexPDF(
	_ context.Context,
	item *entity.InventoryItem,
	txs []*entity.InventoryTransaction,
) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithOrientation(orientation.Horizontal).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Kardex "+item.Name, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(item, g.now()))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(openingRow(item))
	m.AddRows(tableHeaderRow())
	m.AddRows(tableRows(txs)...)
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(footerRows(item, txs)...)

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func headerRow(item *entity.InventoryItem, issued time.Time) core.Row {
	return row.New(18).Add(
		col.New(8).Add(
			text.New("KARDEX · "+item.Name, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New(fmt.Sprintf("Categoria: %s   |   Unidade: %s", item.Category, item.Unit), props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(4).Add(
			text.New("SALDO ATUAL", props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right, Color: colorPrimary, Top: 1,
			}),
			text.New(formatDecimal(item.Quantity)+" "+item.Unit, props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 6,
			}),
			text.New("Emitido em "+issued.Format("02/01/2006 15:04"), props.Text{
				Size: 8, Align: align.Right, Top: 13, Color: colorGray,
			}),
		),
	)
}

func openingRow(item *entity.InventoryItem) core.Row {
	return row.New(7).Add(col.New(12).Add(
		text.New("Saldo inicial: "+formatDecimal(item.InitialQuantity)+" "+item.Unit, props.Text{
			Size: 8, Top: 1.5, Color: colorGray,
		}),
	))
}

func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorWhite, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).WithStyle(&props.Cell{BackgroundColor: colorPrimary}).Add(
		h("Data", 2, align.Left),
		h("Tipo", 1, align.Left),
		h("Quantidade", 1, align.Right),
		h("Saldo ant.", 1, align.Right),
		h("Saldo novo", 1, align.Right),
		h("Documento", 2, align.Left),
		h("Origem/Destino · Obs.", 4, align.Left),
	)
}

func tableRows(txs []*entity.InventoryTransaction) []core.Row {
	if len(txs) == 0 {
		return []core.Row{row.New(8).Add(col.New(12).Add(
			text.New("Sem movimentações registradas.", props.Text{Size: 8, Top: 2, Color: colorGray, Align: align.Center}),
		))}
	}
	cell := func(s string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(s, props.Text{Size: 8, Align: a, Top: 1, Left: 1, Right: 1}))
	}
	rows := make([]core.Row, 0, len(txs))
	for _, t := range txs {
		rows = append(rows, row.New(7).Add(
			cell(t.Date.Format("02/01/2006 15:04"), 2, align.Left),
			cell(typeLabels[t.Type], 1, align.Left),
			cell(signedQuantity(t), 1, align.Right),
			cell(formatDecimal(t.PreviousBalance), 1, align.Right),
			cell(formatDecimal(t.NewBalance), 1, align.Right),
			cell(t.DocumentNumber, 2, align.Left),
			cell(joinNonEmpty(" · ", t.DestinationOrSource, t.Notes), 4, align.Left),
		))
	}
	return rows
}

func footerRows(item *entity.InventoryItem, txs []*entity.InventoryTransaction) []core.Row {
	report := ledger.VerifyChain(item.InitialQuantity, item.Quantity, txs)
	status, color := "Histórico consistente com o saldo atual.", colorPrimary
	if !report.Consistent {
		status, color = fmt.Sprintf("Histórico inconsistente: %d divergência(s) encontrada(s).", len(report.Breaks)), colorRed
	}
	return []core.Row{
		row.New(3),
		row.New(30).Add(
			col.New(9).Add(
				text.New(status, props.Text{Style: fontstyle.Bold, Size: 9, Top: 2, Color: color}),
				text.New(fmt.Sprintf("%d movimentação(ões). Saldo reconstruído: %s", report.Transactions, formatDecimal(report.Reconstructed)), props.Text{
					Size: 8, Top: 9, Color: colorGray,
				}),
				text.New(costLine(txs), props.Text{Size: 8, Top: 15, Color: colorGray}),
			),
			col.New(3).Add(code.NewQr("inventory:"+item.ID, props.Rect{Percent: 90, Center: true})),
		),
	}
}

// ── helpers ───────────────────────────────────────────────────────────────────

func costLine(txs []*entity.InventoryTransaction) string {
	cost, ok := ledger.WeightedAverageCost(txs)
	if !ok {
		return "Custo médio ponderado: sem entradas com preço."
	}
	return "Custo médio ponderado: " + formatDecimal(cost.Round(2))
}

func signedQuantity(t *entity.InventoryTransaction) string {
	switch t.Type {
	case entity.TransactionTypeIN:
		return "+" + formatDecimal(t.Quantity)
	case entity.TransactionTypeOUT:
		return "-" + formatDecimal(t.Quantity)
	}
	if t.NewBalance.LessThan(t.PreviousBalance) {
		return "-" + formatDecimal(t.Quantity)
	}
	return "+" + formatDecimal(t.Quantity)
}

// formatDecimal usa punto de miles y coma decimal, sin ceros sobrantes.
// Ej: 1234567.5 → "1.234.567,5", -20 → "-20".
func formatDecimal(d decimal.Decimal) string {
	s := d.Abs().String()
	intPart, frac, _ := strings.Cut(s, ".")
	n := len(intPart)
	var b strings.Builder
	if d.IsNegative() {
		b.WriteByte('-')
	}
	for i, c := range []byte(intPart) {
		if i > 0 && (n-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteByte(c)
	}
	if frac != "" {
		b.WriteByte(',')
		b.WriteString(frac)
	}
	return b.String()
}

func joinNonEmpty(sep string, parts ...string) string {
	out := parts[:0:0]
	for _, p := range parts {
		if strings.TrimSpace(p) != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, sep)
}
