package render

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/jung-kurt/gofpdf"

	"github.com/novasolutions/novainvoice/internal/models"
)

// PDF renders the document as an A4 PDF. Layout variants shift section
// placement and alignment only; every figure comes from the document.
func PDF(doc Document) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetMargins(20, 20, 20)
	pdf.AddPage()

	r, g, b := hexToRGB(doc.PrimaryColor)

	if doc.Watermark {
		pdf.SetFont("Arial", "B", 90)
		pdf.SetTextColor(241, 245, 249)
		pdf.TransformBegin()
		pdf.TransformRotate(45, 105, 148)
		pdf.Text(45, 155, "SAMPLE")
		pdf.TransformEnd()
	}

	centered := doc.Layout == models.LayoutClassic
	compact := doc.Layout == models.LayoutMinimal

	// Company block
	if doc.ShowLogo && !compact {
		pdf.SetFillColor(r, g, b)
		pdf.SetTextColor(255, 255, 255)
		pdf.SetFont("Arial", "B", 18)
		logoX := 20.0
		if centered {
			logoX = 99.0
		}
		pdf.RoundedRect(logoX, 20, 12, 12, 2, "1234", "F")
		pdf.Text(logoX+3.5, 29, tr(doc.LogoInitial))
		pdf.Ln(14)
	}

	align := "L"
	if centered {
		align = "C"
	}
	pdf.SetTextColor(15, 23, 42)
	pdf.SetFont("Arial", "B", 20)
	pdf.CellFormat(0, 10, tr(doc.Company.Name), "", 1, align, false, 0, "")
	pdf.SetFont("Arial", "", 9)
	pdf.SetTextColor(100, 116, 139)
	pdf.CellFormat(0, 5, tr(doc.Company.Address), "", 1, align, false, 0, "")
	contact := doc.Company.Email
	if doc.CompanyWebsite != "" {
		contact += "  |  " + doc.CompanyWebsite
	}
	pdf.CellFormat(0, 5, tr(contact), "", 1, align, false, 0, "")

	// Invoice meta
	if centered {
		pdf.Ln(6)
		pdf.SetDrawColor(226, 232, 240)
		pdf.Line(20, pdf.GetY(), 190, pdf.GetY())
		pdf.Ln(4)
	} else {
		pdf.SetY(22)
	}
	metaAlign := "R"
	if centered {
		metaAlign = "C"
	}
	pdf.SetFont("Arial", "", 26)
	pdf.SetTextColor(r, g, b)
	pdf.CellFormat(0, 12, "INVOICE", "", 1, metaAlign, false, 0, "")
	pdf.SetFont("Arial", "", 9)
	pdf.SetTextColor(100, 116, 139)
	pdf.CellFormat(0, 5, "Number: "+doc.InvoiceNumber, "", 1, metaAlign, false, 0, "")
	pdf.CellFormat(0, 5, "Date: "+doc.IssueDate, "", 1, metaAlign, false, 0, "")
	pdf.CellFormat(0, 5, "Due: "+doc.DueDate, "", 1, metaAlign, false, 0, "")
	pdf.Ln(8)

	// Parties
	y := pdf.GetY()
	pdf.SetFont("Arial", "B", 8)
	pdf.SetTextColor(148, 163, 184)
	pdf.Text(20, y, "BILL TO")
	pdf.Text(130, y, "TOTAL AMOUNT")
	pdf.SetFont("Arial", "B", 12)
	pdf.SetTextColor(15, 23, 42)
	pdf.Text(20, y+6, tr(doc.BillTo.Name))
	pdf.SetFont("Arial", "B", 16)
	pdf.SetTextColor(r, g, b)
	pdf.Text(130, y+7, tr(doc.CurrencySymbol+formatAmount(doc.Total)))
	pdf.SetFont("Arial", "", 9)
	pdf.SetTextColor(100, 116, 139)
	pdf.Text(20, y+11, tr(doc.BillTo.Address))
	pdf.Text(20, y+16, tr(doc.BillTo.Email))
	pdf.Text(130, y+13, string(doc.Status))
	pdf.SetY(y + 22)

	// Line items
	pdf.SetFont("Arial", "B", 8)
	pdf.SetTextColor(148, 163, 184)
	pdf.SetDrawColor(15, 23, 42)
	pdf.CellFormat(90, 8, "DESCRIPTION", "B", 0, "L", false, 0, "")
	pdf.CellFormat(20, 8, "QTY", "B", 0, "R", false, 0, "")
	pdf.CellFormat(30, 8, "UNIT PRICE", "B", 0, "R", false, 0, "")
	pdf.CellFormat(30, 8, "TOTAL", "B", 1, "R", false, 0, "")

	pdf.SetDrawColor(241, 245, 249)
	for _, line := range doc.Lines {
		pdf.SetFont("Arial", "", 10)
		pdf.SetTextColor(30, 41, 59)
		pdf.CellFormat(90, 10, tr(line.Description), "B", 0, "L", false, 0, "")
		pdf.SetTextColor(100, 116, 139)
		pdf.CellFormat(20, 10, trimQuantity(line.Quantity), "B", 0, "R", false, 0, "")
		pdf.CellFormat(30, 10, tr(doc.CurrencySymbol+formatAmount(line.UnitPrice)), "B", 0, "R", false, 0, "")
		pdf.SetFont("Arial", "B", 10)
		pdf.SetTextColor(15, 23, 42)
		pdf.CellFormat(30, 10, tr(doc.CurrencySymbol+formatAmount(line.Total)), "B", 1, "R", false, 0, "")
	}
	pdf.Ln(6)

	// Totals block, right-aligned
	totals := func(label, value string, bold bool) {
		pdf.SetX(110)
		if bold {
			pdf.SetFont("Arial", "B", 11)
			pdf.SetTextColor(15, 23, 42)
		} else {
			pdf.SetFont("Arial", "", 9)
			pdf.SetTextColor(100, 116, 139)
		}
		pdf.CellFormat(50, 6, label, "", 0, "L", false, 0, "")
		pdf.CellFormat(30, 6, tr(value), "", 1, "R", false, 0, "")
	}
	totals("Subtotal", doc.CurrencySymbol+formatAmount(doc.Subtotal), false)
	totals(fmt.Sprintf("Tax (%s%%)", trimQuantity(doc.TaxRate)), doc.CurrencySymbol+formatAmount(doc.TaxAmount), false)
	pdf.SetDrawColor(15, 23, 42)
	pdf.Line(110, pdf.GetY()+1, 190, pdf.GetY()+1)
	pdf.Ln(2)
	totals("Grand Total", doc.CurrencySymbol+formatAmount(doc.Total), true)

	// Footer
	pdf.Ln(16)
	if doc.Notes != "" {
		pdf.SetFont("Arial", "B", 8)
		pdf.SetTextColor(148, 163, 184)
		pdf.CellFormat(0, 5, "NOTES", "", 1, "L", false, 0, "")
		pdf.SetFont("Arial", "", 9)
		pdf.SetTextColor(100, 116, 139)
		pdf.MultiCell(0, 5, tr(doc.Notes), "", "L", false)
		pdf.Ln(4)
	}
	pdf.SetFont("Arial", "", 10)
	pdf.SetTextColor(30, 41, 59)
	pdf.CellFormat(0, 6, "Thank you for your business!", "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "", 8)
	pdf.SetTextColor(148, 163, 184)
	pdf.MultiCell(0, 4, tr(doc.FooterText), "", "C", false)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// trimQuantity renders a number without trailing zeros (2 -> "2",
// 2.5 -> "2.5").
func trimQuantity(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// hexToRGB parses a #rrggbb color, defaulting to indigo on bad input.
func hexToRGB(hex string) (int, int, int) {
	if len(hex) == 7 && hex[0] == '#' {
		r, err1 := strconv.ParseUint(hex[1:3], 16, 8)
		g, err2 := strconv.ParseUint(hex[3:5], 16, 8)
		b, err3 := strconv.ParseUint(hex[5:7], 16, 8)
		if err1 == nil && err2 == nil && err3 == nil {
			return int(r), int(g), int(b)
		}
	}
	return 79, 70, 229
}
