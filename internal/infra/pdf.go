package infra

// pdf.go renders thermal-receipt style PDFs with go-pdf/fpdf:
//   - the ticket of a closed order (worker job after close)
//   - the daily cash report (on demand)

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"hygpos/internal/model"

	"github.com/go-pdf/fpdf"
	"github.com/shopspring/decimal"
)

const businessName = "HygPOS"

var paymentLabels = map[string]string{
	model.PaymentCash:        "Efectivo",
	model.PaymentCreditCard:  "Tarjeta de crédito",
	model.PaymentDebitCard:   "Tarjeta de débito",
	model.PaymentTransfer:    "Transferencia",
	model.PaymentMercadoPago: "Mercado Pago",
}

func paymentLabel(method string) string {
	if l, ok := paymentLabels[method]; ok {
		return l
	}
	return method
}

// receipt wraps an 80mm roll page with the column layout shared by both
// documents.
type receipt struct {
	pdf      *fpdf.Fpdf
	tr       func(string) string
	pageW    float64
	contentW float64
}

func newReceipt(height float64) *receipt {
	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "mm",
		Size:           fpdf.SizeType{Wd: 80, Ht: height},
	})
	pdf.SetMargins(4, 4, 4)
	pdf.SetAutoPageBreak(true, 4)
	pdf.AddPage()
	pageW, _ := pdf.GetPageSize()
	return &receipt{
		pdf:      pdf,
		tr:       pdf.UnicodeTranslatorFromDescriptor(""),
		pageW:    pageW,
		contentW: pageW - 8,
	}
}

func (r *receipt) title(text, subtitle string) {
	r.pdf.SetFont("Helvetica", "B", 13)
	r.pdf.CellFormat(r.contentW, 7, r.tr(text), "", 1, "C", false, 0, "")
	r.pdf.SetFont("Helvetica", "", 8)
	r.pdf.CellFormat(r.contentW, 5, r.tr(subtitle), "", 1, "C", false, 0, "")
	r.pdf.Ln(2)
}

func (r *receipt) line(text string) {
	r.pdf.SetFont("Helvetica", "", 7)
	r.pdf.CellFormat(r.contentW, 4, r.tr(text), "", 1, "L", false, 0, "")
}

func (r *receipt) separator() {
	r.pdf.Ln(1)
	r.pdf.Line(4, r.pdf.GetY(), r.pageW-4, r.pdf.GetY())
	r.pdf.Ln(2)
}

// amount prints a label on the left and a money amount on the right.
func (r *receipt) amount(label string, v decimal.Decimal, bold bool) {
	style, size, h := "", 7.0, 4.0
	if bold {
		style, size, h = "B", 9, 6
	}
	r.pdf.SetFont("Helvetica", style, size)
	r.pdf.CellFormat(r.contentW*0.65, h, r.tr(label), "", 0, "L", false, 0, "")
	r.pdf.CellFormat(r.contentW*0.35, h, "$"+v.StringFixed(2), "", 1, "R", false, 0, "")
}

func (r *receipt) bytes() ([]byte, error) {
	var buf bytes.Buffer
	if err := r.pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("pdf: render: %w", err)
	}
	return buf.Bytes(), nil
}

// ── Order ticket ─────────────────────────────────────────────────────────────

// RenderOrderTicket renders the ticket of a closed order. The order must be
// loaded with its details, products, toppings and payments.
func RenderOrderTicket(o *model.Order, loc *time.Location) ([]byte, error) {
	r := newReceipt(160 + float64(len(o.Details))*10)
	r.title(businessName, "Comprobante de consumo")

	if o.Table != nil {
		r.line("Mesa: " + o.Table.Name)
	}
	r.line(fmt.Sprintf("Orden %s", o.ID.String()[:8]))
	closed := o.Date
	if o.ClosedAt != nil {
		closed = *o.ClosedAt
	}
	r.line(closed.In(loc).Format("02/01/2006  15:04"))
	if o.NumberCustomers > 0 {
		r.line(fmt.Sprintf("Comensales: %d", o.NumberCustomers))
	}
	r.separator()

	col1 := r.contentW * 0.52
	col2 := r.contentW * 0.16
	col3 := r.contentW * 0.32
	r.pdf.SetFont("Helvetica", "B", 7)
	r.pdf.CellFormat(col1, 5, "Producto", "B", 0, "L", false, 0, "")
	r.pdf.CellFormat(col2, 5, "Cant", "B", 0, "C", false, 0, "")
	r.pdf.CellFormat(col3, 5, "Subtotal", "B", 1, "R", false, 0, "")

	for _, d := range o.Details {
		name := ""
		if d.Product != nil {
			name = d.Product.Name
		}
		if len([]rune(name)) > 22 {
			name = string([]rune(name)[:21]) + "…"
		}
		r.pdf.SetFont("Helvetica", "", 7)
		r.pdf.CellFormat(col1, 5, r.tr(name), "", 0, "L", false, 0, "")
		r.pdf.CellFormat(col2, 5, fmt.Sprintf("x%d", d.Quantity), "", 0, "C", false, 0, "")
		r.pdf.CellFormat(col3, 5, "$"+d.Subtotal.StringFixed(2), "", 1, "R", false, 0, "")

		r.pdf.SetFont("Helvetica", "I", 6)
		for _, t := range d.Toppings {
			if t.Ingredient == nil {
				continue
			}
			r.pdf.CellFormat(r.contentW, 3.5, r.tr(fmt.Sprintf("   + %s (u%d)", t.Ingredient.Name, t.UnitIndex+1)), "", 1, "L", false, 0, "")
		}
		for _, s := range d.PromotionSelections {
			if s.Product == nil {
				continue
			}
			r.pdf.CellFormat(r.contentW, 3.5, r.tr("   · "+s.Product.Name), "", 1, "L", false, 0, "")
		}
	}
	r.separator()

	r.amount("Consumo:", o.Total, false)
	if o.Tip.IsPositive() {
		r.amount("Propina:", o.Tip, false)
	}
	r.amount("TOTAL:", o.Total.Add(o.Tip), true)

	r.pdf.Ln(2)
	for _, p := range o.Payments {
		r.amount("Pago ("+paymentLabel(p.Method)+"):", p.Amount, false)
	}

	r.pdf.Ln(3)
	r.pdf.SetFont("Helvetica", "I", 7)
	r.pdf.CellFormat(r.contentW, 4, r.tr("¡Gracias por su visita!"), "", 1, "C", false, 0, "")
	return r.bytes()
}

// ── Daily cash report ────────────────────────────────────────────────────────

// RenderDailyCashReport renders the totals and movements of one business day.
func RenderDailyCashReport(d *model.DailyCash, loc *time.Location) ([]byte, error) {
	r := newReceipt(180 + float64(len(d.Movements))*5)
	r.title(businessName, "Reporte de caja diaria")

	r.line("Fecha: " + d.Date)
	state := "Abierta"
	if d.State == model.DailyCashClosed {
		state = "Cerrada"
	}
	r.line("Estado: " + state)
	r.line("Apertura: " + d.OpenedAt.In(loc).Format("15:04"))
	if d.ClosedAt != nil {
		r.line("Cierre: " + d.ClosedAt.In(loc).Format("15:04"))
	}
	r.separator()

	r.amount("Efectivo inicial:", d.InitialCash, false)
	r.amount("Ventas:", d.TotalSales, false)
	r.amount("Propinas:", d.TotalTips, false)
	r.amount("Ingresos:", d.TotalIncomes, false)
	r.amount("Egresos:", d.TotalExpenses, false)
	r.separator()

	r.amount(paymentLabel(model.PaymentCash)+":", d.TotalCash, false)
	r.amount(paymentLabel(model.PaymentCreditCard)+":", d.TotalCreditCard, false)
	r.amount(paymentLabel(model.PaymentDebitCard)+":", d.TotalDebitCard, false)
	r.amount(paymentLabel(model.PaymentTransfer)+":", d.TotalTransfer, false)
	r.amount(paymentLabel(model.PaymentMercadoPago)+":", d.TotalMercadoPago, false)

	if d.State == model.DailyCashClosed {
		r.separator()
		r.amount("Efectivo esperado:", d.TotalCash, false)
		r.amount("Efectivo contado:", d.FinalCash, false)
		r.amount("Diferencia:", d.CashDifference, true)
		if d.DeviationLevel != nil {
			r.line("Desvío: " + *d.DeviationLevel)
		}
	}

	if len(d.Movements) > 0 {
		r.separator()
		r.pdf.SetFont("Helvetica", "B", 7)
		r.pdf.CellFormat(r.contentW, 5, "Movimientos", "", 1, "L", false, 0, "")
		for _, m := range d.Movements {
			sign := "+"
			if m.Type == model.MovementExpense {
				sign = "-"
			}
			r.amount(fmt.Sprintf("%s %s %s", m.CreatedAt.In(loc).Format("15:04"), sign, m.Description), m.Amount, false)
		}
	}
	return r.bytes()
}

// SavePDF writes data into dir/name, creating dir when needed, and returns
// the full path.
func SavePDF(dir, name string, data []byte) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("pdf: create storage dir: %w", err)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("pdf: write file: %w", err)
	}
	return path, nil
}
