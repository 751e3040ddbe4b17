// Package pdf dibuja la factura en PDF con Maroto v2.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Empresa emisora      │  INVOICE N° + estado        │
//	│  ─────────────────────────────────────────────────────────  │
//	│  BILL TO: cliente             │  Emisión / Vencimiento      │
//	│  Título + descripción + campos de cabecera                  │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Descripción | Cant | P.Unit | Total                 │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTALES: Subtotal / Impuesto (tasa) / TOTAL                │
//	│  ─────────────────────────────────────────────────────────  │
//	│  PAGO: QR del enlace de pago + notas + términos             │
//	└─────────────────────────────────────────────────────────────┘
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
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"

	appbilling "github.com/jhoicas/invoice-builder-api/internal/application/billing"
	"github.com/jhoicas/invoice-builder-api/internal/domain/entity"
)

var _ appbilling.InvoicePDFGenerator = (*MarotoPDFGenerator)(nil)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 37, Green: 99, Blue: 235}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorWhite   = &props.Color{Red: 255, Green: 255, Blue: 255}
	colorRed     = &props.Color{Red: 220, Green: 38, Blue: 38}
	colorGreen   = &props.Color{Red: 22, Green: 163, Blue: 74}
)

// MarotoPDFGenerator implementa billing.InvoicePDFGenerator usando Maroto v2.
type MarotoPDFGenerator struct{}

// NewMarotoPDFGenerator construye el generador.
func NewMarotoPDFGenerator() *MarotoPDFGenerator { return &MarotoPDFGenerator{} }

// GenerateInvoicePDF genera el PDF y devuelve sus bytes.
func (g *MarotoPDFGenerator) GenerateInvoicePDF(_ context.Context, data appbilling.InvoicePDFData) ([]byte, error) {
	inv := data.Invoice
	if inv == nil || data.Client == nil {
		return nil, fmt.Errorf("pdf: factura o cliente ausentes")
	}
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(12).WithRightMargin(12).
		WithTopMargin(12).WithBottomMargin(12).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Invoice "+inv.InvoiceNumber, true).
		WithAuthor(data.CompanyName, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(inv, data.CompanyName, data.Status))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(billToRow(inv, data.Client))
	m.AddRows(subjectRows(inv)...)
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	m.AddRows(tableItemRows(data.Items, inv.Currency)...)

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalsRow(inv))

	m.AddRows(line.NewRow(3))
	m.AddRows(footerRows(inv)...)

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func headerRow(inv *entity.Invoice, company string, status entity.InvoiceStatus) core.Row {
	return row.New(20).Add(
		col.New(7).Add(
			text.New(nonEmpty(company, "—"), props.Text{
				Style: fontstyle.Bold, Size: 14, Color: colorPrimary, Top: 2,
			}),
		),
		col.New(5).Add(
			text.New("INVOICE", props.Text{
				Style: fontstyle.Bold, Size: 9, Align: align.Right, Color: colorGray, Top: 1,
			}),
			text.New("#"+inv.InvoiceNumber, props.Text{
				Style: fontstyle.Bold, Size: 13, Align: align.Right, Top: 6,
			}),
			text.New(strings.ToUpper(string(status)), props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right, Top: 14, Color: statusColor(status),
			}),
		),
	)
}

func billToRow(inv *entity.Invoice, client *entity.Client) core.Row {
	contact := joinNonEmpty(" | ", client.Email, client.Phone)
	extra := joinNonEmpty(" | ", client.Address, taxLabel(client.TaxID))
	due := "—"
	if inv.DueDate != nil {
		due = formatDate(*inv.DueDate)
	}
	return row.New(24).Add(
		col.New(7).Add(
			text.New("BILL TO", props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1}),
			text.New(client.Name, props.Text{Style: fontstyle.Bold, Size: 10, Top: 6}),
			text.New(client.Company, props.Text{Size: 8, Top: 11, Color: colorGray}),
			text.New(contact, props.Text{Size: 8, Top: 15, Color: colorGray}),
			text.New(extra, props.Text{Size: 8, Top: 19, Color: colorGray}),
		),
		col.New(5).Add(
			text.New("Issue date: "+formatDate(inv.IssueDate), props.Text{Size: 8, Align: align.Right, Top: 6}),
			text.New("Due date: "+due, props.Text{Size: 8, Align: align.Right, Top: 11}),
			text.New("Currency: "+inv.Currency, props.Text{Size: 8, Align: align.Right, Top: 16, Color: colorGray}),
		),
	)
}

// subjectRows título, descripción y campos personalizados de cabecera.
func subjectRows(inv *entity.Invoice) []core.Row {
	var rows []core.Row
	if inv.Title != "" {
		rows = append(rows, row.New(7).Add(col.New(12).Add(
			text.New(inv.Title, props.Text{Style: fontstyle.Bold, Size: 10, Top: 1}),
		)))
	}
	if inv.Description != "" {
		rows = append(rows, row.New(6).Add(col.New(12).Add(
			text.New(inv.Description, props.Text{Size: 8, Color: colorGray}),
		)))
	}
	rows = append(rows, customFieldRows(inv.CustomFields, "header")...)
	return rows
}

func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorWhite, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Description", 6, align.Left),
		h("Qty", 1, align.Center),
		h("Unit price", 2, align.Right),
		h("Amount", 3, align.Right),
	).WithStyle(&props.Cell{BackgroundColor: colorPrimary})
}

func tableItemRows(items []*entity.LineItem, currency string) []core.Row {
	result := make([]core.Row, 0, len(items))
	for _, it := range items {
		result = append(result, row.New(7).Add(
			col.New(6).Add(text.New(it.Description, props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1})),
			col.New(1).Add(text.New(fmt.Sprintf("%d", it.Quantity), props.Text{Size: 8, Align: align.Center, Top: 1})),
			col.New(2).Add(text.New(formatMoney(it.UnitPrice, currency), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
			col.New(3).Add(text.New(formatMoney(it.Total, currency), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
		))
	}
	return result
}

func totalsRow(inv *entity.Invoice) core.Row {
	label := func(s string, top float64) core.Component {
		return text.New(s, props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2, Top: top})
	}
	value := func(s string, top float64) core.Component {
		return text.New(s, props.Text{Size: 9, Align: align.Right, Right: 1, Top: top})
	}
	return row.New(22).Add(
		col.New(6),
		col.New(3).Add(
			label("Subtotal:", 1),
			label(fmt.Sprintf("Tax (%s%%):", inv.TaxRate.String()), 7),
			text.New("TOTAL:", props.Text{
				Style: fontstyle.Bold, Size: 11, Align: align.Right, Color: colorPrimary, Right: 2, Top: 13,
			}),
		),
		col.New(3).Add(
			value(formatMoney(inv.Subtotal, inv.Currency), 1),
			value(formatMoney(inv.TaxAmount, inv.Currency), 7),
			text.New(formatMoney(inv.TotalAmount, inv.Currency), props.Text{
				Style: fontstyle.Bold, Size: 11, Align: align.Right, Color: colorPrimary, Right: 1, Top: 13,
			}),
		),
	)
}

// footerRows enlace de pago (con QR), notas, términos y campos de pie.
func footerRows(inv *entity.Invoice) []core.Row {
	var rows []core.Row
	if inv.PaymentLink != "" {
		rows = append(rows, row.New(36).Add(
			col.New(3).Add(code.NewQr(inv.PaymentLink, props.Rect{Percent: 95, Center: true})),
			col.New(9).Add(
				text.New("PAY ONLINE", props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 4, Left: 3}),
				text.New(inv.PaymentLink, props.Text{Size: 8, Top: 10, Left: 3}),
				text.New("Scan the code or open the link to pay with "+nonEmpty(inv.PaymentGateway, "your preferred method")+".",
					props.Text{Size: 7, Top: 16, Left: 3, Color: colorGray}),
			),
		))
	}
	for _, block := range []struct{ title, body string }{{"NOTES", inv.Notes}, {"TERMS", inv.Terms}} {
		if block.body == "" {
			continue
		}
		rows = append(rows, row.New(12).Add(col.New(12).Add(
			text.New(block.title, props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1}),
			text.New(block.body, props.Text{Size: 8, Top: 6, Color: colorGray}),
		)))
	}
	rows = append(rows, customFieldRows(inv.CustomFields, "footer")...)
	return rows
}

func customFieldRows(fields []entity.CustomField, position string) []core.Row {
	var rows []core.Row
	for _, f := range fields {
		if f.Position != position {
			continue
		}
		rows = append(rows, row.New(5).Add(
			col.New(3).Add(text.New(f.Name+":", props.Text{Style: fontstyle.Bold, Size: 8})),
			col.New(9).Add(text.New(f.Value, props.Text{Size: 8})),
		))
	}
	return rows
}

// ── helpers ───────────────────────────────────────────────────────────────────

func statusColor(s entity.InvoiceStatus) *props.Color {
	switch s {
	case entity.InvoiceStatusPaid:
		return colorGreen
	case entity.InvoiceStatusOverdue, entity.InvoiceStatusCancelled:
		return colorRed
	default:
		return colorGray
	}
}

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

func joinNonEmpty(sep string, parts ...string) string {
	out := parts[:0:0]
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, sep)
}

func taxLabel(taxID string) string {
	if taxID == "" {
		return ""
	}
	return "Tax ID: " + taxID
}

func formatDate(t time.Time) string {
	return t.Format("January 2, 2006")
}

// formatMoney dos decimales con separador de miles. Ej: 2712.5 USD → "2,712.50 USD".
func formatMoney(d decimal.Decimal, currency string) string {
	s := d.StringFixed(2)
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}
	intPart, frac, _ := strings.Cut(s, ".")
	n := len(intPart)
	buf := make([]byte, 0, n+n/3)
	for i, c := range []byte(intPart) {
		if i > 0 && (n-i)%3 == 0 {
			buf = append(buf, ',')
		}
		buf = append(buf, c)
	}
	return strings.TrimSpace(sign + string(buf) + "." + frac + " " + currency)
}
