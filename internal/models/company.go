package models

// TemplateLayout selects how the printable document arranges its sections.
type TemplateLayout string

const (
	LayoutModern  TemplateLayout = "modern"
	LayoutClassic TemplateLayout = "classic"
	LayoutMinimal TemplateLayout = "minimal"
)

// NormalizeLayout maps unknown layout values to the modern default.
func NormalizeLayout(l TemplateLayout) TemplateLayout {
	switch l {
	case LayoutModern, LayoutClassic, LayoutMinimal:
		return l
	}
	return LayoutModern
}

// PrintTemplateSettings is pure presentation configuration for the printable
// document. It carries no computational meaning.
type PrintTemplateSettings struct {
	PrimaryColor string         `json:"primaryColor"`
	Layout       TemplateLayout `json:"layout"`
	ShowLogo     bool           `json:"showLogo"`
	HeaderFont   string         `json:"headerFont"`
	FooterText   string         `json:"footerText"`
}

// CompanySettings is the single process-wide company record. TaxRate is the
// default applied to new invoices; each invoice snapshots it at creation, so
// changing it here never alters existing invoices.
type CompanySettings struct {
	Name     string                `json:"name"`
	Address  string                `json:"address"`
	Email    string                `json:"email"`
	Website  string                `json:"website"`
	TaxRate  float64               `json:"taxRate"`
	Currency string                `json:"currency"`
	Template PrintTemplateSettings `json:"template"`
}

// CurrencySymbol maps a currency code to its display symbol.
// Unrecognized codes fall back to the dollar sign.
func CurrencySymbol(code string) string {
	switch code {
	case "EUR":
		return "€"
	case "GBP":
		return "£"
	default:
		return "$"
	}
}
