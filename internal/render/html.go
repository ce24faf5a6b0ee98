package render

import (
	"bytes"
	"embed"
	"html/template"
)

//go:embed templates/*.html
var templateFS embed.FS

var invoiceTpl = template.Must(
	template.New("invoice.html").Funcs(template.FuncMap{
		"money": formatAmount,
	}).ParseFS(templateFS, "templates/invoice.html"),
)

// HTML renders the document as a self-contained printable page, suitable
// for the browser's print-to-PDF pathway.
func HTML(doc Document) ([]byte, error) {
	var buf bytes.Buffer
	if err := invoiceTpl.Execute(&buf, doc); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
