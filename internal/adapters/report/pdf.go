package report

import (
	"fmt"
	"io"
	"route-profit-service/internal/domain"
	"route-profit-service/internal/services"
	"strings"

	"github.com/go-pdf/fpdf"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const (
	pageMargin = 15.0
	lineHeight = 7.0
	fontFamily = "Helvetica"
)

var printer = message.NewPrinter(language.BrazilianPortuguese)

// cp1252 has no arrow glyph.
var arrows = strings.NewReplacer("→", "->")

// Money formats v as Brazilian reais, e.g. "R$ 1.234,56".
func Money(v float64) string {
	return printer.Sprintf("R$ %.2f", v)
}

func number(v float64, decimals int) string {
	return printer.Sprintf(fmt.Sprintf("%%.%df", decimals), v)
}

func percent(v float64) string {
	return printer.Sprintf("%.1f%%", v)
}

// document wraps fpdf with the cp1252 translator so accented city names render.
type document struct {
	pdf *fpdf.Fpdf
	tr  func(string) string
}

func newDocument(orientation, title string) *document {
	pdf := fpdf.New(orientation, "mm", "A4", "")
	pdf.SetMargins(pageMargin, pageMargin, pageMargin)
	pdf.SetAutoPageBreak(true, pageMargin)
	pdf.SetTitle(title, true)
	pdf.SetCreator("route-profit-service", true)

	cp1252 := pdf.UnicodeTranslatorFromDescriptor("")
	d := &document{pdf: pdf, tr: func(s string) string { return cp1252(arrows.Replace(s)) }}
	pdf.SetFooterFunc(func() {
		pdf.SetY(-pageMargin)
		pdf.SetFont(fontFamily, "I", 8)
		pdf.CellFormat(0, 10, d.tr(fmt.Sprintf("Página %d", pdf.PageNo())), "", 0, "C", false, 0, "")
	})
	pdf.AddPage()
	return d
}

func (d *document) title(text, subtitle string) {
	d.pdf.SetFont(fontFamily, "B", 16)
	d.pdf.CellFormat(0, 10, d.tr(text), "", 1, "L", false, 0, "")
	if subtitle != "" {
		d.pdf.SetFont(fontFamily, "", 9)
		d.pdf.SetTextColor(100, 100, 100)
		d.pdf.CellFormat(0, 6, d.tr(subtitle), "", 1, "L", false, 0, "")
		d.pdf.SetTextColor(0, 0, 0)
	}
	d.pdf.Ln(4)
}

func (d *document) section(text string) {
	d.pdf.Ln(2)
	d.pdf.SetFont(fontFamily, "B", 12)
	d.pdf.SetFillColor(230, 236, 245)
	d.pdf.CellFormat(0, 8, d.tr(text), "", 1, "L", true, 0, "")
	d.pdf.Ln(1)
}

// field prints a label/value pair on one line.
func (d *document) field(label, value string) {
	d.pdf.SetFont(fontFamily, "B", 10)
	d.pdf.CellFormat(60, lineHeight, d.tr(label), "", 0, "L", false, 0, "")
	d.pdf.SetFont(fontFamily, "", 10)
	d.pdf.CellFormat(0, lineHeight, d.tr(value), "", 1, "L", false, 0, "")
}

// table prints a header row followed by rows; widths are in mm.
func (d *document) table(widths []float64, header []string, rows [][]string) {
	d.pdf.SetFont(fontFamily, "B", 9)
	d.pdf.SetFillColor(240, 240, 240)
	for i, h := range header {
		d.pdf.CellFormat(widths[i], lineHeight, d.tr(h), "1", 0, "C", true, 0, "")
	}
	d.pdf.Ln(-1)

	d.pdf.SetFont(fontFamily, "", 9)
	for _, row := range rows {
		for i, v := range row {
			align := "L"
			if numeric(v) {
				align = "R"
			}
			d.pdf.CellFormat(widths[i], lineHeight, d.tr(truncate(v, widths[i])), "1", 0, align, false, 0, "")
		}
		d.pdf.Ln(-1)
	}
}

func (d *document) output(w io.Writer) error {
	if err := d.pdf.Error(); err != nil {
		return err
	}
	return d.pdf.Output(w)
}

func numeric(s string) bool {
	if strings.HasPrefix(s, "R$") {
		return true
	}
	return s != "" && (s[0] == '-' || (s[0] >= '0' && s[0] <= '9'))
}

// truncate keeps text inside a cell of width mm at 9pt.
func truncate(s string, width float64) string {
	limit := int(width / 1.9)
	r := []rune(s)
	if limit < 4 || len(r) <= limit {
		return s
	}
	return string(r[:limit-3]) + "..."
}

func fuelName(t domain.FuelType) string {
	if t == domain.FuelGasoline {
		return "Gasolina"
	}
	return "Diesel"
}

func marginName(c services.MarginClass) string {
	switch c {
	case services.MarginExcellent:
		return "Excelente"
	case services.MarginGood:
		return "Boa"
	case services.MarginFair:
		return "Regular"
	default:
		return "Baixa"
	}
}

func cities(r domain.RouteResult) string {
	names := make([]string, 0, len(r.Destinations))
	for _, d := range r.Destinations {
		names = append(names, d.City)
	}
	return strings.Join(names, ", ")
}
