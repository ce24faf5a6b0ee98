package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/novasolutions/novainvoice/internal/assistant"
	"github.com/novasolutions/novainvoice/internal/httpx"
	"github.com/novasolutions/novainvoice/internal/models"
	"github.com/novasolutions/novainvoice/internal/render"
	"github.com/novasolutions/novainvoice/internal/services"
	"github.com/novasolutions/novainvoice/internal/store"
)

// InvoiceHandler serves invoice CRUD, the print surfaces, and the simulated
// send flow. All writes go through the editing session so the persisted
// total always satisfies the derivation invariant.
type InvoiceHandler struct {
	store    *store.Store
	editor   *services.Editor
	settings *Settings
	gateway  *assistant.Gateway
}

func NewInvoiceHandler(s *store.Store, editor *services.Editor, settings *Settings, gateway *assistant.Gateway) *InvoiceHandler {
	return &InvoiceHandler{store: s, editor: editor, settings: settings, gateway: gateway}
}

// itemPayload is one line item in a create/update request. An empty id means
// a new item.
type itemPayload struct {
	ID          string  `json:"id"`
	Description string  `json:"description"`
	Quantity    float64 `json:"quantity"`
	UnitPrice   float64 `json:"unitPrice"`
}

// invoicePayload is the create/update request body. Zero-valued fields keep
// the draft's defaults.
type invoicePayload struct {
	ClientID      string               `json:"clientId"`
	InvoiceNumber string               `json:"invoiceNumber"`
	IssueDate     string               `json:"issueDate"`
	DueDate       string               `json:"dueDate"`
	Status        models.InvoiceStatus `json:"status"`
	TaxRate       *float64             `json:"taxRate"`
	Notes         string               `json:"notes"`
	Items         []itemPayload        `json:"items"`
}

// invoiceView is an invoice as listed, with the display status derived from
// the due date.
type invoiceView struct {
	models.Invoice
	EffectiveStatus models.InvoiceStatus `json:"effectiveStatus"`
}

func viewOf(inv models.Invoice, today time.Time) invoiceView {
	return invoiceView{Invoice: inv, EffectiveStatus: models.EffectiveStatus(&inv, today)}
}

func (h *InvoiceHandler) List(w http.ResponseWriter, r *http.Request) {
	today := time.Now()
	invoices := h.store.Invoices()
	views := make([]invoiceView, len(invoices))
	for i, inv := range invoices {
		views[i] = viewOf(inv, today)
	}
	httpx.JSON(w, http.StatusOK, views)
}

func (h *InvoiceHandler) Get(w http.ResponseWriter, r *http.Request) {
	inv, ok := h.store.Invoice(r.PathValue("id"))
	if !ok {
		httpx.JSONError(w, http.StatusNotFound, "invoice_not_found", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, viewOf(inv, time.Now()))
}

func (h *InvoiceHandler) Create(w http.ResponseWriter, r *http.Request) {
	var payload invoicePayload
	if !httpx.Decode(w, r, &payload) {
		return
	}

	draft := h.editor.StartNew(h.settings.Get())
	// The UX seed item is only for interactive editing; API payloads
	// define the item list wholesale.
	if len(payload.Items) > 0 {
		for _, item := range draft.Invoice().Items {
			draft.RemoveItem(item.ID)
		}
	}
	applyPayload(draft, payload)

	inv, err := draft.Finalize()
	if err != nil {
		writeInvoiceError(w, err)
		return
	}
	h.store.CreateInvoice(inv)
	httpx.JSON(w, http.StatusCreated, viewOf(inv, time.Now()))
}

func (h *InvoiceHandler) Update(w http.ResponseWriter, r *http.Request) {
	existing, ok := h.store.Invoice(r.PathValue("id"))
	if !ok {
		httpx.JSONError(w, http.StatusNotFound, "invoice_not_found", nil)
		return
	}

	var payload invoicePayload
	if !httpx.Decode(w, r, &payload) {
		return
	}

	draft := h.editor.StartEdit(existing)
	reconcileItems(draft, payload.Items)
	applyPayload(draft, payload)

	inv, err := draft.Finalize()
	if err != nil {
		writeInvoiceError(w, err)
		return
	}
	h.store.UpdateInvoice(inv)
	httpx.JSON(w, http.StatusOK, viewOf(inv, time.Now()))
}

func (h *InvoiceHandler) Delete(w http.ResponseWriter, r *http.Request) {
	h.store.DeleteInvoice(r.PathValue("id"))
	w.WriteHeader(http.StatusNoContent)
}

// Send drafts the email for an invoice, marks it Sent, and reports the
// simulated delivery. Real mail delivery is out of scope.
func (h *InvoiceHandler) Send(w http.ResponseWriter, r *http.Request) {
	inv, ok := h.store.Invoice(r.PathValue("id"))
	if !ok {
		httpx.JSONError(w, http.StatusNotFound, "invoice_not_found", nil)
		return
	}

	settings := h.settings.Get()
	clientName, recipient := render.PlaceholderName, render.PlaceholderEmail
	if c, ok := h.store.Client(inv.ClientID); ok {
		clientName, recipient = c.Name, c.Email
	}

	draft, _ := h.gateway.EmailDraft(r.Context(), inv.ID, assistant.DraftInput{
		InvoiceNumber: inv.InvoiceNumber,
		Total:         inv.Total,
		DueDate:       inv.DueDate,
		Status:        string(models.EffectiveStatus(&inv, time.Now())),
		ClientName:    clientName,
		CompanyName:   settings.Name,
	})

	inv.Status = models.InvoiceStatusSent
	h.store.UpdateInvoice(inv)

	httpx.JSON(w, http.StatusOK, map[string]any{
		"delivered": true,
		"recipient": recipient,
		"email":     draft,
	})
}

// Print renders the printable HTML document. ?watermark=1 stamps the page
// with the sample overlay.
func (h *InvoiceHandler) Print(w http.ResponseWriter, r *http.Request) {
	doc, ok := h.document(w, r)
	if !ok {
		return
	}
	page, err := render.HTML(doc)
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "render_failed", nil)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(page)
}

// PDF renders the invoice as a downloadable PDF.
func (h *InvoiceHandler) PDF(w http.ResponseWriter, r *http.Request) {
	doc, ok := h.document(w, r)
	if !ok {
		return
	}
	out, err := render.PDF(doc)
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "render_failed", nil)
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `inline; filename="`+doc.InvoiceNumber+`.pdf"`)
	w.Header().Set("Content-Length", strconv.Itoa(len(out)))
	w.Write(out)
}

func (h *InvoiceHandler) document(w http.ResponseWriter, r *http.Request) (render.Document, bool) {
	inv, ok := h.store.Invoice(r.PathValue("id"))
	if !ok {
		httpx.JSONError(w, http.StatusNotFound, "invoice_not_found", nil)
		return render.Document{}, false
	}

	// A dangling client reference degrades to the placeholder party.
	var client *models.Client
	if c, ok := h.store.Client(inv.ClientID); ok {
		client = &c
	}

	opts := render.Options{Watermark: r.URL.Query().Get("watermark") == "1"}
	return render.BuildDocument(inv, client, h.settings.Get(), opts), true
}

// applyPayload copies the scalar fields of a request onto the draft.
func applyPayload(draft *services.Draft, payload invoicePayload) {
	if payload.ClientID != "" {
		draft.SetClient(payload.ClientID)
	}
	if payload.InvoiceNumber != "" {
		draft.SetInvoiceNumber(payload.InvoiceNumber)
	}
	if payload.Status != "" {
		draft.SetStatus(payload.Status)
	}
	if payload.TaxRate != nil {
		draft.SetTaxRate(*payload.TaxRate)
	}
	draft.SetDates(payload.IssueDate, payload.DueDate)
	if payload.Notes != "" {
		draft.SetNotes(payload.Notes)
	}
	for _, item := range payload.Items {
		applyItem(draft, item)
	}
}

// reconcileItems removes draft items that are absent from the request, so an
// update payload defines the item list wholesale.
func reconcileItems(draft *services.Draft, items []itemPayload) {
	keep := make(map[string]bool, len(items))
	for _, item := range items {
		if item.ID != "" {
			keep[item.ID] = true
		}
	}
	for _, existing := range draft.Invoice().Items {
		if !keep[existing.ID] {
			draft.RemoveItem(existing.ID)
		}
	}
}

// applyItem updates an existing draft item or appends a new one.
func applyItem(draft *services.Draft, item itemPayload) {
	id := item.ID
	if id == "" || !draftHasItem(draft, id) {
		id = draft.AddItem()
	}
	draft.SetItemDescription(id, item.Description)
	draft.SetItemQuantity(id, item.Quantity)
	draft.SetItemUnitPrice(id, item.UnitPrice)
}

func draftHasItem(draft *services.Draft, id string) bool {
	for _, item := range draft.Invoice().Items {
		if item.ID == id {
			return true
		}
	}
	return false
}

func writeInvoiceError(w http.ResponseWriter, err error) {
	var verr *services.ValidationError
	if errors.As(err, &verr) {
		httpx.JSONError(w, http.StatusUnprocessableEntity, "validation_failed", verr.Violations)
		return
	}
	httpx.JSONError(w, http.StatusInternalServerError, "internal_error", nil)
}
