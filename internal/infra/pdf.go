package infra

// pdf.go: sale receipt generation using go-pdf/fpdf.
// A7-size receipt with:
//   - Shop name header
//   - Order code, business date and customer
//   - Item table (product name, quantity, subtotal) or the free-text summary
//   - Bold total and payment method

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/nicoxroll/tecno-car-sub000/internal/model"

	"github.com/go-pdf/fpdf"
)

// GenerateVentaPDF renders the receipt for a Venta and returns the PDF bytes.
func GenerateVentaPDF(venta *model.Venta, shopName string) ([]byte, error) {
	// A7 ≈ 74mm × 105mm, close to thermal receipt paper (custom size, "A7" is not in fpdf's named list)
	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "mm",
		Size:           fpdf.SizeType{Wd: 74, Ht: 105},
	})
	pdf.SetMargins(4, 4, 4)
	pdf.SetAutoPageBreak(true, 4)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 8 // total margins = 8mm

	// ── Header ───────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 13)
	pdf.CellFormat(contentW, 7, tr(shopName), "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "", 8)
	pdf.CellFormat(contentW, 5, "Comprobante de pedido", "", 1, "C", false, 0, "")
	pdf.Ln(2)

	// ── Order info ────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 8)
	pdf.CellFormat(contentW, 5, "Pedido "+venta.Codigo, "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 7)
	pdf.CellFormat(contentW, 4, "Fecha: "+venta.Fecha, "", 1, "L", false, 0, "")
	pdf.CellFormat(contentW, 4, tr("Cliente: "+venta.Cliente), "", 1, "L", false, 0, "")
	pdf.CellFormat(contentW, 4, tr("Estado: "+venta.Estado), "", 1, "L", false, 0, "")
	pdf.Ln(2)

	pdf.Line(4, pdf.GetY(), pageW-4, pdf.GetY())
	pdf.Ln(2)

	col1 := contentW * 0.52 // product name
	col2 := contentW * 0.16 // qty
	col3 := contentW * 0.32 // subtotal

	if len(venta.Items) > 0 {
		pdf.SetFont("Helvetica", "B", 7)
		pdf.CellFormat(col1, 5, "Producto", "B", 0, "L", false, 0, "")
		pdf.CellFormat(col2, 5, "Cant", "B", 0, "C", false, 0, "")
		pdf.CellFormat(col3, 5, "Subtotal", "B", 1, "R", false, 0, "")

		pdf.SetFont("Helvetica", "", 7)
		for _, item := range venta.Items {
			pdf.CellFormat(col1, 5, tr(truncar(item.NombreProducto, 22)), "", 0, "L", false, 0, "")
			pdf.CellFormat(col2, 5, fmt.Sprintf("x%d", item.Cantidad), "", 0, "C", false, 0, "")
			pdf.CellFormat(col3, 5, FormatPesos(item.Subtotal()), "", 1, "R", false, 0, "")
		}
	} else {
		pdf.SetFont("Helvetica", "", 7)
		for _, linea := range venta.Resumen {
			pdf.MultiCell(contentW, 4, tr(linea), "", "L", false)
		}
	}

	pdf.Ln(2)
	pdf.Line(4, pdf.GetY(), pageW-4, pdf.GetY())
	pdf.Ln(2)

	// ── Totals ────────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 9)
	pdf.CellFormat(col1+col2, 6, "TOTAL:", "", 0, "L", false, 0, "")
	pdf.CellFormat(col3, 6, FormatPesos(venta.Total), "", 1, "R", false, 0, "")

	if venta.MetodoPago != "" {
		pdf.SetFont("Helvetica", "", 7)
		pdf.CellFormat(contentW, 4, tr("Pago: "+venta.MetodoPago), "", 1, "L", false, 0, "")
	}

	// ── Footer ────────────────────────────────────────────────────────────────
	pdf.Ln(3)
	pdf.SetFont("Helvetica", "I", 7)
	pdf.CellFormat(contentW, 4, tr("¡Gracias por su compra!"), "", 1, "C", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("pdf: render: %w", err)
	}
	return buf.Bytes(), nil
}

// FormatPesos renders whole currency units with dot thousands separators ("$ 1.300").
func FormatPesos(v int64) string {
	signo := ""
	if v < 0 {
		signo = "-"
		v = -v
	}
	s := strconv.FormatInt(v, 10)
	var b strings.Builder
	for i, r := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(r)
	}
	return signo + "$ " + b.String()
}

func truncar(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
