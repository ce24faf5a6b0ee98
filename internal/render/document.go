// Package render turns an invoice, its client, and the company settings into
// a renderable document description, then into printable HTML or PDF. The
// build step is a pure function: same inputs, same document, every time.
package render

import (
	"strconv"
	"strings"

	"github.com/novasolutions/novainvoice/internal/models"
)

// Placeholder party used when an invoice references a client id that no
// longer resolves. A printable document must never hard-error on a dangling
// reference.
const (
	PlaceholderName    = "Customer Name"
	PlaceholderAddress = "Customer Address"
	PlaceholderEmail   = "customer@email.com"
)

// Options controls presentation-only aspects of a build.
type Options struct {
	// Watermark stamps the document with a Sample overlay, used for
	// template previews and drafts. It never changes computed values.
	Watermark bool
}

// Party is a named participant on the document.
type Party struct {
	Name    string
	Address string
	Email   string
}

// Line is one rendered line item with its computed total.
type Line struct {
	Description string
	Quantity    float64
	UnitPrice   float64
	Total       float64
}

// Document is the complete renderable description of a printable invoice.
// Every monetary value is re-derived from the items and tax rate at build
// time; the persisted invoice total is not trusted blindly.
type Document struct {
	Layout       models.TemplateLayout
	PrimaryColor string
	HeaderFont   string
	FooterText   string
	ShowLogo     bool
	LogoInitial  string
	Watermark    bool

	Company        Party
	CompanyWebsite string
	BillTo         Party

	InvoiceNumber string
	IssueDate     string
	DueDate       string
	Status        models.InvoiceStatus

	CurrencySymbol string
	Lines          []Line
	Subtotal       float64
	TaxRate        float64
	TaxAmount      float64
	Total          float64
	Notes          string
}

// BuildDocument assembles the document for an invoice. A nil client yields
// the placeholder party. The function is deterministic and side-effect free,
// so stored invoices and synthetic previews render identically.
func BuildDocument(inv models.Invoice, client *models.Client, settings models.CompanySettings, opts Options) Document {
	billTo := Party{Name: PlaceholderName, Address: PlaceholderAddress, Email: PlaceholderEmail}
	if client != nil {
		billTo = Party{Name: client.Name, Address: client.Address, Email: client.Email}
	}

	tpl := settings.Template
	footer := tpl.FooterText
	if footer == "" {
		footer = "Please make checks payable to " + settings.Name +
			". Total amount is due within 14 days of invoice date."
	}

	logoInitial := ""
	if settings.Name != "" {
		logoInitial = string([]rune(settings.Name)[:1])
	}

	doc := Document{
		Layout:       models.NormalizeLayout(tpl.Layout),
		PrimaryColor: tpl.PrimaryColor,
		HeaderFont:   tpl.HeaderFont,
		FooterText:   footer,
		ShowLogo:     tpl.ShowLogo,
		LogoInitial:  logoInitial,
		Watermark:    opts.Watermark,

		Company: Party{
			Name:    settings.Name,
			Address: settings.Address,
			Email:   settings.Email,
		},
		CompanyWebsite: settings.Website,
		BillTo:         billTo,

		InvoiceNumber: inv.InvoiceNumber,
		IssueDate:     inv.IssueDate,
		DueDate:       inv.DueDate,
		Status:        inv.Status,

		CurrencySymbol: models.CurrencySymbol(settings.Currency),
		Subtotal:       models.Round2(models.Subtotal(inv.Items)),
		TaxRate:        inv.TaxRate,
		TaxAmount:      models.Round2(models.TaxAmount(inv.Items, inv.TaxRate)),
		Total:          models.Total(inv.Items, inv.TaxRate),
		Notes:          inv.Notes,
	}

	doc.Lines = make([]Line, len(inv.Items))
	for i, item := range inv.Items {
		doc.Lines[i] = Line{
			Description: item.Description,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			Total:       models.Round2(item.Total()),
		}
	}
	return doc
}

// formatAmount renders a monetary value with two decimals and thousands
// separators, e.g. 2706.25 -> "2,706.25".
func formatAmount(v float64) string {
	s := strconv.FormatFloat(v, 'f', 2, 64)
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}
	intPart, frac, _ := strings.Cut(s, ".")
	var b strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	return sign + b.String() + "." + frac
}

// SampleInvoice is the fixed synthetic invoice used for template previews.
func SampleInvoice() models.Invoice {
	inv := models.Invoice{
		ID:            "preview",
		InvoiceNumber: "INV-2024-PREVIEW",
		ClientID:      "sample",
		IssueDate:     "2024-06-01",
		DueDate:       "2024-06-15",
		Items: []models.LineItem{
			{ID: "1", Description: "Brand Identity Design Package", Quantity: 1, UnitPrice: 1500},
			{ID: "2", Description: "Consulting (per hour)", Quantity: 12, UnitPrice: 85},
		},
		Status:  models.InvoiceStatusSent,
		TaxRate: 8.25,
		Notes:   "Please include the invoice number in your wire transfer description.",
	}
	inv.Total = inv.GrandTotal()
	return inv
}
