package main

import (
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/novasolutions/novainvoice/internal/assistant"
	"github.com/novasolutions/novainvoice/internal/handlers"
	"github.com/novasolutions/novainvoice/internal/services"
	"github.com/novasolutions/novainvoice/internal/store"
)

// App is the main application handler that sets up all routes.
type App struct {
	mux *http.ServeMux
	log *logrus.Logger
}

// NewApp wires the handlers over the store, editing session, settings, and
// assistant gateway.
func NewApp(s *store.Store, settings *handlers.Settings, gateway *assistant.Gateway, log *logrus.Logger) *App {
	app := &App{mux: http.NewServeMux(), log: log}

	ids := services.RandomIDSource{}
	editor := services.NewEditor()

	ih := handlers.NewInvoiceHandler(s, editor, settings, gateway)
	ch := handlers.NewClientHandler(s, ids)
	sh := handlers.NewSettingsHandler(settings)
	ah := handlers.NewAssistantHandler(s, settings, gateway)
	dh := handlers.NewDashboardHandler(s)

	// Invoices
	app.mux.HandleFunc("GET /invoices", ih.List)
	app.mux.HandleFunc("POST /invoices", ih.Create)
	app.mux.HandleFunc("GET /invoices/{id}", ih.Get)
	app.mux.HandleFunc("PUT /invoices/{id}", ih.Update)
	app.mux.HandleFunc("DELETE /invoices/{id}", ih.Delete)
	app.mux.HandleFunc("POST /invoices/{id}/send", ih.Send)
	app.mux.HandleFunc("GET /invoices/{id}/print", ih.Print)
	app.mux.HandleFunc("GET /invoices/{id}/pdf", ih.PDF)

	// Clients
	app.mux.HandleFunc("GET /clients", ch.List)
	app.mux.HandleFunc("POST /clients", ch.Create)
	app.mux.HandleFunc("PUT /clients/{id}", ch.Update)
	app.mux.HandleFunc("DELETE /clients/{id}", ch.Delete)

	// Company settings and template preview
	app.mux.HandleFunc("GET /settings", sh.Get)
	app.mux.HandleFunc("PUT /settings", sh.Update)
	app.mux.HandleFunc("GET /settings/template/preview", sh.TemplatePreview)

	// Dashboard
	app.mux.HandleFunc("GET /dashboard/stats", dh.Stats)

	// Assistant
	app.mux.HandleFunc("POST /assistant/describe", ah.Describe)
	app.mux.HandleFunc("POST /assistant/email-draft", ah.EmailDraft)

	return app
}

// ServeHTTP implements http.Handler.
func (a *App) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	a.withLogging(a.mux).ServeHTTP(w, r)
}

// withLogging adds request logging middleware.
func (a *App) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		a.log.WithFields(logrus.Fields{
			"method":   r.Method,
			"path":     r.URL.Path,
			"duration": time.Since(start).String(),
		}).Info("request")
	})
}
