package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/novasolutions/novainvoice/internal/assistant"
	"github.com/novasolutions/novainvoice/internal/models"
	"github.com/novasolutions/novainvoice/internal/services"
	"github.com/novasolutions/novainvoice/internal/store"
)

func testSettings() models.CompanySettings {
	return models.CompanySettings{
		Name:     "Nova Solutions Inc.",
		Address:  "456 Business Park, Austin, TX 78701",
		Email:    "hello@novasolutions.com",
		Website:  "www.novasolutions.com",
		TaxRate:  8.25,
		Currency: "USD",
		Template: models.PrintTemplateSettings{
			PrimaryColor: "#4f46e5",
			Layout:       models.LayoutModern,
			ShowLogo:     true,
			HeaderFont:   "Inter",
		},
	}
}

// newTestServer wires the full route table over a fresh store seeded on
// first load, a deterministic editor, and a disabled assistant gateway.
func newTestServer(t *testing.T) (*httptest.Server, *store.Store) {
	t.Helper()

	log := logrus.New()
	log.SetOutput(io.Discard)

	s := store.Open(store.NewFileKV(t.TempDir()), "nova_invoices", log)
	settings := NewSettings(testSettings())
	gateway := assistant.New("", time.Second, log)
	editor := services.NewEditorWith(&services.SequentialIDSource{}, func() time.Time {
		return time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	})

	ih := NewInvoiceHandler(s, editor, settings, gateway)
	ch := NewClientHandler(s, &services.SequentialIDSource{})
	sh := NewSettingsHandler(settings)
	ah := NewAssistantHandler(s, settings, gateway)
	dh := NewDashboardHandler(s)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /invoices", ih.List)
	mux.HandleFunc("POST /invoices", ih.Create)
	mux.HandleFunc("GET /invoices/{id}", ih.Get)
	mux.HandleFunc("PUT /invoices/{id}", ih.Update)
	mux.HandleFunc("DELETE /invoices/{id}", ih.Delete)
	mux.HandleFunc("POST /invoices/{id}/send", ih.Send)
	mux.HandleFunc("GET /invoices/{id}/print", ih.Print)
	mux.HandleFunc("GET /invoices/{id}/pdf", ih.PDF)
	mux.HandleFunc("GET /clients", ch.List)
	mux.HandleFunc("POST /clients", ch.Create)
	mux.HandleFunc("PUT /clients/{id}", ch.Update)
	mux.HandleFunc("DELETE /clients/{id}", ch.Delete)
	mux.HandleFunc("GET /settings", sh.Get)
	mux.HandleFunc("PUT /settings", sh.Update)
	mux.HandleFunc("GET /settings/template/preview", sh.TemplatePreview)
	mux.HandleFunc("GET /dashboard/stats", dh.Stats)
	mux.HandleFunc("POST /assistant/describe", ah.Describe)
	mux.HandleFunc("POST /assistant/email-draft", ah.EmailDraft)

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv, s
}

func doJSON(t *testing.T, method, url string, body any) *http.Response {
	t.Helper()
	var buf io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		buf = bytes.NewReader(raw)
	}
	req, err := http.NewRequest(method, url, buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	return resp
}

func decode(t *testing.T, resp *http.Response, dst any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(dst))
}

func TestListInvoicesSeedsOnFirstRun(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := doJSON(t, http.MethodGet, srv.URL+"/invoices", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var invoices []map[string]any
	decode(t, resp, &invoices)
	require.Len(t, invoices, 2)

	assert.Equal(t, "INV-2024-001", invoices[0]["invoiceNumber"])
	assert.Equal(t, "Paid", invoices[0]["effectiveStatus"])
	assert.Equal(t, 2706.25, invoices[0]["total"])

	// The second seed is Sent and already past due, so the derived status
	// flips while the stored one stays Sent.
	assert.Equal(t, "Sent", invoices[1]["status"])
	assert.Equal(t, "Overdue", invoices[1]["effectiveStatus"])
	assert.Equal(t, 1623.75, invoices[1]["total"])
}

func TestCreateInvoice(t *testing.T) {
	srv, s := newTestServer(t)

	resp := doJSON(t, http.MethodPost, srv.URL+"/invoices", map[string]any{
		"clientId": "1",
		"items": []map[string]any{
			{"description": "Development", "quantity": 25, "unitPrice": 100},
		},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var created models.Invoice
	decode(t, resp, &created)

	assert.True(t, strings.HasPrefix(created.InvoiceNumber, "INV-2025-"))
	assert.Equal(t, models.InvoiceStatusDraft, created.Status)
	assert.Equal(t, "2025-03-10", created.IssueDate)
	assert.Equal(t, "2025-03-24", created.DueDate)
	assert.Equal(t, 8.25, created.TaxRate)
	require.Len(t, created.Items, 1)
	assert.Equal(t, 2706.25, created.Total)

	stored, ok := s.Invoice(created.ID)
	require.True(t, ok)
	assert.Equal(t, created.Total, stored.Total)
}

func TestCreateInvoiceValidation(t *testing.T) {
	srv, _ := newTestServer(t)

	// No client and an explicitly empty item list: the UX seed item is
	// dropped, so both violations surface together.
	resp := doJSON(t, http.MethodPost, srv.URL+"/invoices", map[string]any{
		"clientId": "",
		"items":    []map[string]any{},
	})
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	var body struct {
		Error   string            `json:"error"`
		Details map[string]string `json:"details"`
	}
	decode(t, resp, &body)
	assert.Equal(t, "validation_failed", body.Error)
	assert.Contains(t, body.Details, "clientId")
}

func TestUpdateInvoiceReplacesItems(t *testing.T) {
	srv, s := newTestServer(t)

	resp := doJSON(t, http.MethodPut, srv.URL+"/invoices/inv-1", map[string]any{
		"clientId": "1",
		"items": []map[string]any{
			{"description": "Consulting", "quantity": 10, "unitPrice": 150},
		},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var updated models.Invoice
	decode(t, resp, &updated)
	require.Len(t, updated.Items, 1)
	assert.Equal(t, "Consulting", updated.Items[0].Description)
	assert.Equal(t, 1623.75, updated.Total)

	stored, ok := s.Invoice("inv-1")
	require.True(t, ok)
	assert.Len(t, stored.Items, 1)
}

func TestUpdateUnknownInvoice(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := doJSON(t, http.MethodPut, srv.URL+"/invoices/nope", map[string]any{"clientId": "1"})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestDeleteInvoiceIsIdempotent(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := doJSON(t, http.MethodDelete, srv.URL+"/invoices/inv-1", nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = doJSON(t, http.MethodGet, srv.URL+"/invoices/inv-1", nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = doJSON(t, http.MethodDelete, srv.URL+"/invoices/inv-1", nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
}

func TestSendInvoice(t *testing.T) {
	srv, s := newTestServer(t)

	resp := doJSON(t, http.MethodPost, srv.URL+"/invoices/inv-1/send", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Delivered bool   `json:"delivered"`
		Recipient string `json:"recipient"`
		Email     struct {
			Subject string `json:"subject"`
			Body    string `json:"body"`
		} `json:"email"`
	}
	decode(t, resp, &body)

	assert.True(t, body.Delivered)
	assert.Equal(t, "billing@acme.com", body.Recipient)
	// The gateway is disabled, so the deterministic fallback draft is used.
	assert.Equal(t, "Invoice INV-2024-001 from Nova Solutions Inc.", body.Email.Subject)
	assert.Contains(t, body.Email.Body, "Acme Corp")

	stored, ok := s.Invoice("inv-1")
	require.True(t, ok)
	assert.Equal(t, models.InvoiceStatusSent, stored.Status)
}

func TestPrintInvoice(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := doJSON(t, http.MethodGet, srv.URL+"/invoices/inv-1/print", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/html")

	page, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	require.NoError(t, err)
	html := string(page)
	assert.Contains(t, html, "INV-2024-001")
	assert.Contains(t, html, "Acme Corp")
	assert.Contains(t, html, "$2,706.25")
	assert.NotContains(t, html, `<div class="watermark">`)

	resp = doJSON(t, http.MethodGet, srv.URL+"/invoices/inv-1/print?watermark=1", nil)
	page, err = io.ReadAll(resp.Body)
	resp.Body.Close()
	require.NoError(t, err)
	assert.Contains(t, string(page), `<div class="watermark">Sample</div>`)
}

func TestPrintDanglingClientShowsPlaceholder(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := doJSON(t, http.MethodDelete, srv.URL+"/clients/1", nil)
	resp.Body.Close()
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = doJSON(t, http.MethodGet, srv.URL+"/invoices/inv-1/print", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	page, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	require.NoError(t, err)
	assert.Contains(t, string(page), "Customer Name")
}

func TestInvoicePDF(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := doJSON(t, http.MethodGet, srv.URL+"/invoices/inv-1/pdf", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "INV-2024-001.pdf")

	out, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}

func TestClientCRUD(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := doJSON(t, http.MethodPost, srv.URL+"/clients", map[string]any{
		"name": "New Ventures", "email": "ap@newventures.com",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var created models.Client
	decode(t, resp, &created)
	assert.NotEmpty(t, created.ID)

	resp = doJSON(t, http.MethodPost, srv.URL+"/clients", map[string]any{"name": "No Email"})
	resp.Body.Close()
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	resp = doJSON(t, http.MethodPut, srv.URL+"/clients/"+created.ID, map[string]any{
		"name": "New Ventures LLC", "email": "ap@newventures.com",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var updated models.Client
	decode(t, resp, &updated)
	assert.Equal(t, "New Ventures LLC", updated.Name)

	resp = doJSON(t, http.MethodPut, srv.URL+"/clients/ghost", map[string]any{"name": "x", "email": "y"})
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = doJSON(t, http.MethodDelete, srv.URL+"/clients/"+created.ID, nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
}

func TestSettingsRoundTrip(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := doJSON(t, http.MethodGet, srv.URL+"/settings", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var current models.CompanySettings
	decode(t, resp, &current)
	assert.Equal(t, "Nova Solutions Inc.", current.Name)

	current.Name = "Nova Studio"
	current.Template.Layout = models.TemplateLayout("holographic")
	resp = doJSON(t, http.MethodPut, srv.URL+"/settings", current)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var saved models.CompanySettings
	decode(t, resp, &saved)
	assert.Equal(t, "Nova Studio", saved.Name)
	// Unknown layouts fall back instead of breaking the print surfaces.
	assert.Equal(t, models.LayoutModern, saved.Template.Layout)
}

func TestTemplatePreview(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := doJSON(t, http.MethodGet, srv.URL+"/settings/template/preview", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	page, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	require.NoError(t, err)

	html := string(page)
	assert.Contains(t, html, "INV-2024-PREVIEW")
	assert.Contains(t, html, `<div class="watermark">Sample</div>`)
}

func TestDashboardStats(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := doJSON(t, http.MethodGet, srv.URL+"/dashboard/stats", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var stats store.Stats
	decode(t, resp, &stats)
	assert.Equal(t, 2706.25, stats.TotalRevenue)
	assert.Equal(t, 1623.75, stats.PendingAmount)
	assert.Equal(t, 1, stats.PaidCount)
	assert.Equal(t, 1, stats.PendingCount)
}

func TestAssistantDescribeFallback(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := doJSON(t, http.MethodPost, srv.URL+"/assistant/describe", map[string]any{
		"target": "item-1", "text": "fixed the site",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Text  string `json:"text"`
		Stale bool   `json:"stale"`
	}
	decode(t, resp, &body)
	assert.Equal(t, assistant.FallbackDescription, body.Text)
	assert.False(t, body.Stale)

	// Whitespace input comes back unchanged.
	resp = doJSON(t, http.MethodPost, srv.URL+"/assistant/describe", map[string]any{
		"target": "item-1", "text": "   ",
	})
	decode(t, resp, &body)
	assert.Equal(t, "   ", body.Text)
}

func TestAssistantEmailDraft(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := doJSON(t, http.MethodPost, srv.URL+"/assistant/email-draft", map[string]any{
		"invoiceId": "inv-2",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Subject string `json:"subject"`
		Body    string `json:"body"`
		Stale   bool   `json:"stale"`
	}
	decode(t, resp, &body)
	assert.Equal(t, "Invoice INV-2024-002 from Nova Solutions Inc.", body.Subject)
	assert.Contains(t, body.Body, "Global Tech")
	assert.False(t, body.Stale)

	resp = doJSON(t, http.MethodPost, srv.URL+"/assistant/email-draft", map[string]any{
		"invoiceId": "ghost",
	})
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
