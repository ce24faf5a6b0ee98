package handlers

import (
	"net/http"
	"time"

	"github.com/novasolutions/novainvoice/internal/assistant"
	"github.com/novasolutions/novainvoice/internal/httpx"
	"github.com/novasolutions/novainvoice/internal/models"
	"github.com/novasolutions/novainvoice/internal/render"
	"github.com/novasolutions/novainvoice/internal/store"
)

// AssistantHandler exposes the two text-generation operations. Responses
// always carry usable text; a service failure degrades to the gateway's
// fallback and is invisible here.
type AssistantHandler struct {
	store    *store.Store
	settings *Settings
	gateway  *assistant.Gateway
}

func NewAssistantHandler(s *store.Store, settings *Settings, gateway *assistant.Gateway) *AssistantHandler {
	return &AssistantHandler{store: s, settings: settings, gateway: gateway}
}

// Describe polishes a line-item description. The target id scopes the
// latest-request-wins policy; stale replies are flagged so the UI can drop
// them instead of overwriting newer edits.
func (h *AssistantHandler) Describe(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Target string `json:"target"`
		Text   string `json:"text"`
	}
	if !httpx.Decode(w, r, &req) {
		return
	}

	text, latest := h.gateway.Describe(r.Context(), req.Target, req.Text)
	httpx.JSON(w, http.StatusOK, map[string]any{
		"text":  text,
		"stale": !latest,
	})
}

// EmailDraft produces a send-email suggestion for a stored invoice.
func (h *AssistantHandler) EmailDraft(w http.ResponseWriter, r *http.Request) {
	var req struct {
		InvoiceID string `json:"invoiceId"`
	}
	if !httpx.Decode(w, r, &req) {
		return
	}

	inv, ok := h.store.Invoice(req.InvoiceID)
	if !ok {
		httpx.JSONError(w, http.StatusNotFound, "invoice_not_found", nil)
		return
	}

	clientName := render.PlaceholderName
	if c, ok := h.store.Client(inv.ClientID); ok {
		clientName = c.Name
	}

	draft, latest := h.gateway.EmailDraft(r.Context(), inv.ID, assistant.DraftInput{
		InvoiceNumber: inv.InvoiceNumber,
		Total:         inv.Total,
		DueDate:       inv.DueDate,
		Status:        string(models.EffectiveStatus(&inv, time.Now())),
		ClientName:    clientName,
		CompanyName:   h.settings.Get().Name,
	})
	httpx.JSON(w, http.StatusOK, map[string]any{
		"subject": draft.Subject,
		"body":    draft.Body,
		"stale":   !latest,
	})
}

// DashboardHandler serves the collection statistics for the dashboard view.
type DashboardHandler struct {
	store *store.Store
}

func NewDashboardHandler(s *store.Store) *DashboardHandler {
	return &DashboardHandler{store: s}
}

func (h *DashboardHandler) Stats(w http.ResponseWriter, r *http.Request) {
	httpx.JSON(w, http.StatusOK, h.store.Stats())
}
