package store

import (
	"encoding/json"
	"errors"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/novasolutions/novainvoice/internal/models"
)

// Store keeps the invoice and client collections in memory and writes the
// invoice collection through a KV after every mutation. List order is
// insertion order; callers sort explicitly if they want anything else.
//
// Persistence is fire-and-forget: a failed save is logged as a warning and
// the in-memory state remains authoritative for the rest of the session.
type Store struct {
	mu       sync.Mutex
	kv       KV
	key      string
	log      *logrus.Logger
	invoices []models.Invoice
	clients  []models.Client
}

// Open loads the invoice collection from the KV under the given key. On
// first run (no stored document) it seeds the illustrative sample data once
// and persists it.
func Open(kv KV, key string, log *logrus.Logger) *Store {
	s := &Store{kv: kv, key: key, log: log, clients: seedClients()}

	raw, err := kv.Load(key)
	switch {
	case errors.Is(err, ErrNotFound):
		s.invoices = seedInvoices()
		s.persist()
	case err != nil:
		// Start empty rather than risk clobbering data we failed to read.
		s.log.WithError(err).Warn("could not load stored invoices")
	default:
		if err := json.Unmarshal(raw, &s.invoices); err != nil {
			s.log.WithError(err).Warn("stored invoice document is malformed")
		}
	}
	return s
}

// persist writes the full invoice collection. Callers hold s.mu; Open may
// call it before the store is shared.
func (s *Store) persist() {
	raw, err := json.Marshal(s.invoices)
	if err != nil {
		s.log.WithError(err).Warn("could not encode invoices")
		return
	}
	if err := s.kv.Save(s.key, raw); err != nil {
		s.log.WithError(err).Warn("could not save invoices")
	}
}

// Invoices returns the invoice collection in insertion order.
func (s *Store) Invoices() []models.Invoice {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Invoice, len(s.invoices))
	for i := range s.invoices {
		out[i] = s.invoices[i].Clone()
	}
	return out
}

// Invoice looks up one invoice by id.
func (s *Store) Invoice(id string) (models.Invoice, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.invoices {
		if s.invoices[i].ID == id {
			return s.invoices[i].Clone(), true
		}
	}
	return models.Invoice{}, false
}

// CreateInvoice appends an invoice and persists the collection.
func (s *Store) CreateInvoice(inv models.Invoice) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.invoices = append(s.invoices, inv.Clone())
	s.persist()
}

// UpdateInvoice replaces the invoice with the same id. Updating an unknown
// id is a no-op.
func (s *Store) UpdateInvoice(inv models.Invoice) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.invoices {
		if s.invoices[i].ID == inv.ID {
			s.invoices[i] = inv.Clone()
			s.persist()
			return
		}
	}
}

// DeleteInvoice removes the invoice with the given id. Deletes are
// idempotent: an unknown id is a no-op.
func (s *Store) DeleteInvoice(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.invoices {
		if s.invoices[i].ID == id {
			s.invoices = append(s.invoices[:i], s.invoices[i+1:]...)
			s.persist()
			return
		}
	}
}

// Clients returns the client collection in insertion order.
func (s *Store) Clients() []models.Client {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Client, len(s.clients))
	copy(out, s.clients)
	return out
}

// Client looks up one client by id.
func (s *Store) Client(id string) (models.Client, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.clients {
		if c.ID == id {
			return c, true
		}
	}
	return models.Client{}, false
}

// CreateClient appends a client.
func (s *Store) CreateClient(c models.Client) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clients = append(s.clients, c)
}

// UpdateClient replaces the client with the same id; unknown ids are a no-op.
func (s *Store) UpdateClient(c models.Client) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.clients {
		if s.clients[i].ID == c.ID {
			s.clients[i] = c
			return
		}
	}
}

// DeleteClient removes a client. Invoices referencing it keep their clientId;
// rendering degrades to a placeholder party.
func (s *Store) DeleteClient(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.clients {
		if s.clients[i].ID == id {
			s.clients = append(s.clients[:i], s.clients[i+1:]...)
			return
		}
	}
}

// Stats summarizes the collection for the dashboard. Amounts use the stored
// totals; Paid invoices count as revenue, everything else as pending.
type Stats struct {
	TotalRevenue  float64 `json:"totalRevenue"`
	PendingAmount float64 `json:"pendingAmount"`
	PaidCount     int     `json:"paidCount"`
	PendingCount  int     `json:"pendingCount"`
}

// Stats computes dashboard statistics over the invoice collection.
func (s *Store) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	var st Stats
	for i := range s.invoices {
		if s.invoices[i].Status == models.InvoiceStatusPaid {
			st.TotalRevenue += s.invoices[i].Total
			st.PaidCount++
		} else {
			st.PendingAmount += s.invoices[i].Total
			st.PendingCount++
		}
	}
	st.TotalRevenue = models.Round2(st.TotalRevenue)
	st.PendingAmount = models.Round2(st.PendingAmount)
	return st
}
