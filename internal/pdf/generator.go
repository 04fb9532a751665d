// Package pdf renders quote documents using maroto/v2: company header,
// client block, line-item table and the grand total.
package pdf

import (
	"fmt"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	marotocfg "github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	quotesvc "orcamento_backend/internal/quotes/service"
	"orcamento_backend/platform/config"
)

var (
	colorPrimary   = &props.Color{Red: 17, Green: 24, Blue: 39}
	colorSecondary = &props.Color{Red: 107, Green: 114, Blue: 128}
	colorTableHead = &props.Color{Red: 241, Green: 245, Blue: 249}
	colorTableAlt  = &props.Color{Red: 249, Green: 250, Blue: 251}
)

// Generator renders quote PDFs. The issuing identity comes from the document
// when a company is registered, otherwise from the configuration.
type Generator struct {
	cfg config.CompanyConfig
}

// NewGenerator creates a quote PDF generator.
func NewGenerator(cfg config.CompanyConfig) *Generator {
	return &Generator{cfg: cfg}
}

var _ quotesvc.Renderer = (*Generator)(nil)

// identity resolves the company block printed in the header.
func (g *Generator) identity(doc quotesvc.QuoteDocument) (name, address, contact string) {
	if doc.Company.Name != "" {
		contact = doc.Company.Email
		if doc.Company.Phone != "" {
			contact = doc.Company.Phone + "  " + doc.Company.Email
		}
		return doc.Company.Name, doc.Company.Address, contact
	}
	return g.cfg.GetCompanyName(), g.cfg.GetCompanyAddress(), g.cfg.GetCompanyContact()
}

// RenderQuote lays out the quote document and returns the PDF bytes.
func (g *Generator) RenderQuote(doc quotesvc.QuoteDocument) ([]byte, error) {
	m := maroto.New(marotocfg.NewBuilder().
		WithLeftMargin(15).
		WithTopMargin(12).
		WithRightMargin(15).
		Build())

	m.AddRows(g.headerRows(doc)...)
	m.AddRows(g.clientRows(doc)...)
	m.AddRows(g.itemRows(doc)...)
	m.AddRows(g.totalRow(doc))

	result, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("generate quote pdf: %w", err)
	}
	return result.GetBytes(), nil
}

func (g *Generator) headerRows(doc quotesvc.QuoteDocument) []core.Row {
	name, address, contact := g.identity(doc)
	return []core.Row{
		row.New(10).Add(
			col.New(8).Add(
				text.New(name, props.Text{
					Size: 16, Style: fontstyle.Bold, Color: colorPrimary,
				}),
			),
			col.New(4).Add(
				text.New(fmt.Sprintf("Orcamento %s", shortID(doc.Quote.ID.String())), props.Text{
					Size: 11, Style: fontstyle.Bold, Align: align.Right, Color: colorPrimary,
				}),
			),
		),
		row.New(5).Add(
			col.New(8).Add(
				text.New(address, props.Text{Size: 8, Color: colorSecondary}),
			),
			col.New(4).Add(
				text.New(doc.Quote.CreatedAt.Format("02/01/2006"), props.Text{
					Size: 8, Align: align.Right, Color: colorSecondary,
				}),
			),
		),
		row.New(5).Add(
			col.New(8).Add(
				text.New(contact, props.Text{Size: 8, Color: colorSecondary}),
			),
			col.New(4).Add(
				text.New(doc.Quote.Status, props.Text{Size: 8, Align: align.Right, Color: colorSecondary}),
			),
		),
		row.New(6),
	}
}

func (g *Generator) clientRows(doc quotesvc.QuoteDocument) []core.Row {
	rows := []core.Row{
		row.New(6).Add(
			col.New(12).Add(
				text.New("Cliente", props.Text{Size: 9, Style: fontstyle.Bold, Color: colorPrimary}),
			),
		),
		row.New(5).Add(
			col.New(12).Add(
				text.New(doc.Client.Name, props.Text{Size: 9, Color: colorPrimary}),
			),
		),
	}
	contact := doc.Client.Email
	if doc.Client.Phone != "" {
		if contact != "" {
			contact += " | "
		}
		contact += doc.Client.Phone
	}
	if contact != "" {
		rows = append(rows, row.New(5).Add(
			col.New(12).Add(text.New(contact, props.Text{Size: 8, Color: colorSecondary})),
		))
	}
	rows = append(rows, row.New(6))
	return rows
}

func (g *Generator) itemRows(doc quotesvc.QuoteDocument) []core.Row {
	rows := []core.Row{
		row.New(7).WithStyle(&props.Cell{BackgroundColor: colorTableHead}).Add(
			col.New(6).Add(text.New("Servico", props.Text{Size: 8, Style: fontstyle.Bold, Left: 2})),
			col.New(2).Add(text.New("Qtd", props.Text{Size: 8, Style: fontstyle.Bold, Align: align.Center})),
			col.New(2).Add(text.New("Preco unit.", props.Text{Size: 8, Style: fontstyle.Bold, Align: align.Right})),
			col.New(2).Add(text.New("Subtotal", props.Text{Size: 8, Style: fontstyle.Bold, Align: align.Right, Right: 2})),
		),
	}

	for i, item := range doc.Quote.Items {
		itemRow := row.New(6).Add(
			col.New(6).Add(text.New(item.ServiceName, props.Text{Size: 8, Left: 2})),
			col.New(2).Add(text.New(fmt.Sprintf("%d", item.Quantity), props.Text{Size: 8, Align: align.Center})),
			col.New(2).Add(text.New(formatCents(item.UnitPriceCents), props.Text{Size: 8, Align: align.Right})),
			col.New(2).Add(text.New(formatCents(item.SubtotalCents), props.Text{Size: 8, Align: align.Right, Right: 2})),
		)
		if i%2 == 1 {
			itemRow.WithStyle(&props.Cell{BackgroundColor: colorTableAlt})
		}
		rows = append(rows, itemRow)
	}
	return rows
}

func (g *Generator) totalRow(doc quotesvc.QuoteDocument) core.Row {
	return row.New(10).Add(
		col.New(8),
		col.New(2).Add(
			text.New("Total", props.Text{Size: 10, Style: fontstyle.Bold, Align: align.Right, Top: 3}),
		),
		col.New(2).Add(
			text.New(formatCents(doc.Quote.TotalCents), props.Text{
				Size: 10, Style: fontstyle.Bold, Align: align.Right, Right: 2, Top: 3, Color: colorPrimary,
			}),
		),
	)
}

// formatCents renders integer cents as Brazilian currency, e.g. R$ 1.234,56.
func formatCents(cents int64) string {
	negative := cents < 0
	if negative {
		cents = -cents
	}
	reais := cents / 100
	rest := cents % 100

	digits := fmt.Sprintf("%d", reais)
	var grouped []byte
	for i, d := range []byte(digits) {
		if i > 0 && (len(digits)-i)%3 == 0 {
			grouped = append(grouped, '.')
		}
		grouped = append(grouped, d)
	}

	sign := ""
	if negative {
		sign = "-"
	}
	return fmt.Sprintf("%sR$ %s,%02d", sign, grouped, rest)
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
