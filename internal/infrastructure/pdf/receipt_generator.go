// Package pdf genera el comprobante de pedido en PDF.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Tienda              │  N° de guía + Fecha + Estado │
//	│  ─────────────────────────────────────────────────────────  │
//	│  CLIENTE: email                                             │
//	│  ENVÍO: dirección            │  FACTURACIÓN: dirección      │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Cant | Producto / Variante | SKU | P.Unit | Subtotal│
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTALES: Suma de líneas / TOTAL                            │
//	│  FOOTER: QR con el número de guía                           │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strings"

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
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/jhoicas/ecommerce-api/internal/application/order"
	"github.com/jhoicas/ecommerce-api/internal/domain/entity"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorWhite   = &props.Color{Red: 255, Green: 255, Blue: 255}
)

var moneyPrinter = message.NewPrinter(language.Spanish)

// ── Generator ─────────────────────────────────────────────────────────────────

// ReceiptGenerator implementa order.ReceiptGenerator usando Maroto v2.
type ReceiptGenerator struct{}

var _ order.ReceiptGenerator = (*ReceiptGenerator)(nil)

// NewReceiptGenerator construye el generador.
func NewReceiptGenerator() *ReceiptGenerator { return &ReceiptGenerator{} }

// GenerateReceipt genera el PDF del pedido y devuelve sus bytes.
func (g *ReceiptGenerator) GenerateReceipt(ctx context.Context, o *entity.OrderDetail, storeName string) ([]byte, error) {
	if o == nil {
		return nil, fmt.Errorf("pdf: pedido nil")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Comprobante de pedido "+o.TrackingNumber, true).
		WithAuthor(storeName, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(o, storeName))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(customerRow(o))
	m.AddRows(addressesRow(o))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	m.AddRows(itemRows(o.Items)...)

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalsRow(o))

	m.AddRows(line.NewRow(3))
	m.AddRows(footerRow(o.TrackingNumber))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func headerRow(o *entity.OrderDetail, storeName string) core.Row {
	return row.New(18).Add(
		col.New(7).Add(
			text.New(nonEmpty(storeName, "Tienda"), props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("Comprobante de pedido", props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New("N° DE GUÍA", props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right, Color: colorPrimary, Top: 1,
			}),
			text.New(o.TrackingNumber, props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 5,
			}),
			text.New("Fecha: "+o.CreatedAt.Format("02/01/2006 15:04"), props.Text{
				Size: 8, Align: align.Right, Top: 11, Color: colorGray,
			}),
			text.New("Estado: "+statusLabel(o.Status), props.Text{
				Size: 8, Align: align.Right, Top: 15, Color: colorGray,
			}),
		),
	)
}

func customerRow(o *entity.OrderDetail) core.Row {
	return row.New(10).Add(
		col.New(12).Add(
			text.New("CLIENTE", props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1}),
			text.New(nonEmpty(o.UserEmail, "—"), props.Text{Size: 9, Top: 5}),
		),
	)
}

func addressesRow(o *entity.OrderDetail) core.Row {
	block := func(title string, a entity.AddressFields) core.Col {
		return col.New(6).Add(
			text.New(title, props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1}),
			text.New(formatAddress(a), props.Text{Size: 8, Top: 6, Color: colorGray}),
		)
	}
	return row.New(18).Add(
		block("DIRECCIÓN DE ENVÍO", o.ShippingAddress),
		block("DIRECCIÓN DE FACTURACIÓN", o.BillingAddress),
	)
}

func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorWhite, Top: 2, Left: 1, Right: 1,
		})).WithStyle(&props.Cell{BackgroundColor: colorPrimary})
	}
	return row.New(8).Add(
		h("Cant.", 1, align.Center),
		h("Producto / Variante", 5, align.Left),
		h("SKU", 2, align.Left),
		h("Precio Unit.", 2, align.Right),
		h("Subtotal", 2, align.Right),
	)
}

// itemRows una fila por línea; las líneas sin variante muestran su ID.
func itemRows(items []entity.OrderItemDetail) []core.Row {
	rows := make([]core.Row, 0, len(items))
	for _, it := range items {
		rows = append(rows, row.New(7).Add(
			col.New(1).Add(text.New(fmt.Sprintf("%d", it.Quantity), props.Text{Size: 8, Align: align.Center, Top: 1})),
			col.New(5).Add(text.New(itemDescription(it), props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(2).Add(text.New(nonEmpty(it.SKU, "—"), props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(2).Add(text.New(formatMoney(it.UnitPrice), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
			col.New(2).Add(text.New(formatMoney(it.Subtotal()), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
		))
	}
	return rows
}

// totalsRow muestra la suma de líneas y el total declarado; pueden diferir.
func totalsRow(o *entity.OrderDetail) core.Row {
	label := func(s string, top float64, c *props.Color) core.Component {
		return text.New(s, props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right, Color: c, Right: 2, Top: top})
	}
	value := func(s string, top float64, c *props.Color) core.Component {
		return text.New(s, props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right, Color: c, Right: 1, Top: top})
	}
	return row.New(14).Add(
		col.New(6),
		col.New(3).Add(
			label("Suma de líneas:", 1, nil),
			label("TOTAL:", 7, colorPrimary),
		),
		col.New(3).Add(
			value(formatMoney(o.ItemsTotal()), 1, nil),
			value(formatMoney(o.Total), 7, colorPrimary),
		),
	)
}

func footerRow(tracking string) core.Row {
	return row.New(35).Add(
		col.New(3).Add(code.NewQr(tracking, props.Rect{Percent: 90, Center: true})),
		col.New(9).Add(
			text.New("Presente este código o el número de guía para consultar su envío.", props.Text{
				Size: 8, Top: 6, Left: 3, Color: colorGray,
			}),
		),
	)
}

// ── helpers ───────────────────────────────────────────────────────────────────

func nonEmpty(s, fallback string) string {
	if strings.TrimSpace(s) != "" {
		return s
	}
	return fallback
}

func itemDescription(it entity.OrderItemDetail) string {
	if it.ProductName == "" {
		return "Variante " + it.VariantID
	}
	if it.VariantName == "" {
		return it.ProductName
	}
	return it.ProductName + " / " + it.VariantName
}

func formatAddress(a entity.AddressFields) string {
	parts := make([]string, 0, 5)
	for _, p := range []string{a.Street, a.City, a.State, a.PostalCode, a.Country} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	if len(parts) == 0 {
		return "—"
	}
	return strings.Join(parts, ", ")
}

// formatMoney formatea con separadores de miles y dos decimales según la convención en español.
func formatMoney(d decimal.Decimal) string {
	return moneyPrinter.Sprintf("$%.2f", d.Round(2).InexactFloat64())
}

func statusLabel(s entity.OrderStatus) string {
	switch s {
	case entity.OrderStatusPending:
		return "Pendiente"
	case entity.OrderStatusProcessing:
		return "En preparación"
	case entity.OrderStatusShipped:
		return "Enviado"
	case entity.OrderStatusDelivered:
		return "Entregado"
	case entity.OrderStatusCancelled:
		return "Cancelado"
	default:
		return string(s)
	}
}
