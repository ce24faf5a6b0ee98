package handlers

import (
	"net/http"
	"sync"

	"github.com/novasolutions/novainvoice/internal/httpx"
	"github.com/novasolutions/novainvoice/internal/models"
	"github.com/novasolutions/novainvoice/internal/render"
)

// Settings holds the single process-wide company record. Handlers read a
// copy at call time and thread it through the editing session and render
// model, so those stay pure.
type Settings struct {
	mu      sync.RWMutex
	current models.CompanySettings
}

func NewSettings(initial models.CompanySettings) *Settings {
	initial.Template.Layout = models.NormalizeLayout(initial.Template.Layout)
	return &Settings{current: initial}
}

// Get returns a snapshot of the current settings.
func (s *Settings) Get() models.CompanySettings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Set replaces the settings. Existing invoices keep their snapshotted tax
// rates; only new invoices pick up the change.
func (s *Settings) Set(next models.CompanySettings) {
	next.Template.Layout = models.NormalizeLayout(next.Template.Layout)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = next
}

// SettingsHandler serves the company settings and the template preview.
type SettingsHandler struct {
	settings *Settings
}

func NewSettingsHandler(settings *Settings) *SettingsHandler {
	return &SettingsHandler{settings: settings}
}

func (h *SettingsHandler) Get(w http.ResponseWriter, r *http.Request) {
	httpx.JSON(w, http.StatusOK, h.settings.Get())
}

func (h *SettingsHandler) Update(w http.ResponseWriter, r *http.Request) {
	var next models.CompanySettings
	if !httpx.Decode(w, r, &next) {
		return
	}
	h.settings.Set(next)
	httpx.JSON(w, http.StatusOK, h.settings.Get())
}

// TemplatePreview renders the fixed sample invoice with the current
// template settings and a watermark, for the template editor.
func (h *SettingsHandler) TemplatePreview(w http.ResponseWriter, r *http.Request) {
	doc := render.BuildDocument(render.SampleInvoice(), nil, h.settings.Get(), render.Options{Watermark: true})
	page, err := render.HTML(doc)
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "render_failed", nil)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(page)
}
