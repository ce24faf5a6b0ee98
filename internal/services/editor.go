package services

import (
	"fmt"
	"time"

	"github.com/novasolutions/novainvoice/internal/models"
	"github.com/novasolutions/novainvoice/internal/validation"
)

// ValidationError reports user-correctable problems found at finalize time.
// Nothing is committed when it is returned.
type ValidationError struct {
	Violations validation.Violations
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invoice validation failed: %v", map[string]string(e.Violations))
}

// Editor creates editing sessions for invoices. The id source and clock are
// injected so sessions behave deterministically under test.
type Editor struct {
	ids IDSource
	now func() time.Time
}

// NewEditor creates an editor with the production id source and clock.
func NewEditor() *Editor {
	return &Editor{ids: RandomIDSource{}, now: time.Now}
}

// NewEditorWith creates an editor with explicit collaborators.
func NewEditorWith(ids IDSource, now func() time.Time) *Editor {
	return &Editor{ids: ids, now: now}
}

// Draft holds the transient, not-yet-committed state of one invoice being
// created or edited. It is independent of any UI and owns its item list.
type Draft struct {
	invoice models.Invoice
	ids     IDSource
}

// StartNew begins a session for a fresh invoice. The invoice number follows
// INV-<year>-<code>, dates default to today and today+14d, and the company
// tax rate is snapshotted so later settings edits do not touch this invoice.
// A single empty line item seeds the list.
func (e *Editor) StartNew(settings models.CompanySettings) *Draft {
	today := e.now()
	inv := models.Invoice{
		ID:            e.ids.NewID(),
		InvoiceNumber: fmt.Sprintf("INV-%d-%s", today.Year(), e.ids.NumberCode()),
		IssueDate:     today.Format(models.DateLayout),
		DueDate:       today.AddDate(0, 0, 14).Format(models.DateLayout),
		Status:        models.InvoiceStatusDraft,
		TaxRate:       settings.TaxRate,
		Items: []models.LineItem{
			{ID: e.ids.NewID(), Quantity: 1, UnitPrice: 0},
		},
	}
	return &Draft{invoice: inv, ids: e.ids}
}

// StartEdit begins a session over an existing invoice. The draft works on a
// deep copy; the stored invoice is untouched until the draft is finalized
// and persisted by the caller.
func (e *Editor) StartEdit(existing models.Invoice) *Draft {
	return &Draft{invoice: existing.Clone(), ids: e.ids}
}

// Invoice returns a copy of the draft's current state, for previews.
func (d *Draft) Invoice() models.Invoice {
	return d.invoice.Clone()
}

// AddItem appends a new empty line item and returns its id.
func (d *Draft) AddItem() string {
	id := d.ids.NewID()
	d.invoice.Items = append(d.invoice.Items, models.LineItem{ID: id, Quantity: 1, UnitPrice: 0})
	return id
}

// RemoveItem removes the item with the given id. Removing the last item is
// allowed and leaves an empty list; an unknown id is a no-op.
func (d *Draft) RemoveItem(itemID string) {
	items := d.invoice.Items[:0]
	for _, item := range d.invoice.Items {
		if item.ID != itemID {
			items = append(items, item)
		}
	}
	d.invoice.Items = items
}

// SetItemDescription updates one item's description. Unknown ids are a
// no-op to tolerate stale-id races from the UI.
func (d *Draft) SetItemDescription(itemID, description string) {
	d.updateItem(itemID, func(item *models.LineItem) { item.Description = description })
}

// SetItemQuantity updates one item's quantity. Unknown ids are a no-op.
func (d *Draft) SetItemQuantity(itemID string, quantity float64) {
	d.updateItem(itemID, func(item *models.LineItem) { item.Quantity = quantity })
}

// SetItemUnitPrice updates one item's unit price. Unknown ids are a no-op.
func (d *Draft) SetItemUnitPrice(itemID string, unitPrice float64) {
	d.updateItem(itemID, func(item *models.LineItem) { item.UnitPrice = unitPrice })
}

func (d *Draft) updateItem(itemID string, apply func(*models.LineItem)) {
	for i := range d.invoice.Items {
		if d.invoice.Items[i].ID == itemID {
			apply(&d.invoice.Items[i])
			return
		}
	}
}

func (d *Draft) SetClient(clientID string) { d.invoice.ClientID = clientID }

func (d *Draft) SetInvoiceNumber(nr string) { d.invoice.InvoiceNumber = nr }

func (d *Draft) SetStatus(s models.InvoiceStatus) { d.invoice.Status = s }

func (d *Draft) SetNotes(notes string) { d.invoice.Notes = notes }

func (d *Draft) SetTaxRate(rate float64) { d.invoice.TaxRate = rate }

// SetDates replaces the issue and due dates. Empty strings leave the
// existing value in place.
func (d *Draft) SetDates(issueDate, dueDate string) {
	if issueDate != "" {
		d.invoice.IssueDate = issueDate
	}
	if dueDate != "" {
		d.invoice.DueDate = dueDate
	}
}

// Finalize validates the draft and returns the committed invoice with its
// total recomputed from items and tax rate. A missing client, an empty item
// list, or a negative amount yields a *ValidationError and commits nothing.
func (d *Draft) Finalize() (models.Invoice, error) {
	v := make(validation.Violations)
	validation.Required("clientId", d.invoice.ClientID, v)
	validation.NotEmptyList("items", len(d.invoice.Items), v)
	for _, item := range d.invoice.Items {
		validation.NonNegativeFloat("quantity", item.Quantity, v)
		validation.NonNegativeFloat("unitPrice", item.UnitPrice, v)
	}
	if !v.Empty() {
		return models.Invoice{}, &ValidationError{Violations: v}
	}

	inv := d.invoice.Clone()
	inv.Total = inv.GrandTotal()
	return inv, nil
}
