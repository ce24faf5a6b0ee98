package handlers

import (
	"net/http"

	"github.com/novasolutions/novainvoice/internal/httpx"
	"github.com/novasolutions/novainvoice/internal/models"
	"github.com/novasolutions/novainvoice/internal/services"
	"github.com/novasolutions/novainvoice/internal/store"
	"github.com/novasolutions/novainvoice/internal/validation"
)

// ClientHandler serves client CRUD. Deleting a client never cascades to its
// invoices; their clientId simply stops resolving.
type ClientHandler struct {
	store *store.Store
	ids   services.IDSource
}

func NewClientHandler(s *store.Store, ids services.IDSource) *ClientHandler {
	return &ClientHandler{store: s, ids: ids}
}

func (h *ClientHandler) List(w http.ResponseWriter, r *http.Request) {
	httpx.JSON(w, http.StatusOK, h.store.Clients())
}

func (h *ClientHandler) Create(w http.ResponseWriter, r *http.Request) {
	var client models.Client
	if !httpx.Decode(w, r, &client) {
		return
	}

	v := make(validation.Violations)
	validation.Required("name", client.Name, v)
	validation.Required("email", client.Email, v)
	if !v.Empty() {
		httpx.JSONError(w, http.StatusUnprocessableEntity, "validation_failed", v)
		return
	}

	client.ID = h.ids.NewID()
	h.store.CreateClient(client)
	httpx.JSON(w, http.StatusCreated, client)
}

func (h *ClientHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if _, ok := h.store.Client(id); !ok {
		httpx.JSONError(w, http.StatusNotFound, "client_not_found", nil)
		return
	}

	var client models.Client
	if !httpx.Decode(w, r, &client) {
		return
	}
	client.ID = id
	h.store.UpdateClient(client)
	httpx.JSON(w, http.StatusOK, client)
}

func (h *ClientHandler) Delete(w http.ResponseWriter, r *http.Request) {
	h.store.DeleteClient(r.PathValue("id"))
	w.WriteHeader(http.StatusNoContent)
}
