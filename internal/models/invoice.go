package models

import (
	"math"
	"time"
)

// InvoiceStatus represents the status of an invoice.
type InvoiceStatus string

const (
	InvoiceStatusDraft   InvoiceStatus = "Draft"
	InvoiceStatusSent    InvoiceStatus = "Sent"
	InvoiceStatusPaid    InvoiceStatus = "Paid"
	InvoiceStatusOverdue InvoiceStatus = "Overdue"
)

// DateLayout is the calendar date form used on invoices (ISO YYYY-MM-DD).
const DateLayout = "2006-01-02"

// LineItem is one billable entry on an invoice. Items are owned exclusively
// by their invoice; ids are unique within the owning invoice only.
type LineItem struct {
	ID          string  `json:"id"`
	Description string  `json:"description"`
	Quantity    float64 `json:"quantity"`
	UnitPrice   float64 `json:"unitPrice"`
}

// Total calculates the line total (quantity x unit price).
func (item LineItem) Total() float64 {
	return item.Quantity * item.UnitPrice
}

// Invoice represents a billing document for one client.
//
// ClientID is a weak reference: the client may have been deleted, and
// consumers must degrade to a placeholder rather than fail. Total is derived
// from the items and tax rate; it is persisted redundantly for fast listing
// and is overwritten on every edit, never set by hand.
type Invoice struct {
	ID            string        `json:"id"`
	InvoiceNumber string        `json:"invoiceNumber"`
	ClientID      string        `json:"clientId"`
	IssueDate     string        `json:"issueDate"`
	DueDate       string        `json:"dueDate"`
	Items         []LineItem    `json:"items"`
	Status        InvoiceStatus `json:"status"`
	TaxRate       float64       `json:"taxRate"`
	Notes         string        `json:"notes,omitempty"`
	Total         float64       `json:"total"`
}

// Subtotal sums the line totals over all items.
func (inv *Invoice) Subtotal() float64 {
	return Subtotal(inv.Items)
}

// TaxAmount calculates the tax portion from the invoice's own snapshot rate.
func (inv *Invoice) TaxAmount() float64 {
	return TaxAmount(inv.Items, inv.TaxRate)
}

// GrandTotal calculates subtotal plus tax, rounded per the single rounding
// policy. This is the value that must be stored in Total.
func (inv *Invoice) GrandTotal() float64 {
	return Total(inv.Items, inv.TaxRate)
}

// IsDraft returns true if the invoice is in draft status.
func (inv *Invoice) IsDraft() bool {
	return inv.Status == InvoiceStatusDraft
}

// Clone returns a deep copy of the invoice, including its items.
// Line items are never shared between two invoices.
func (inv *Invoice) Clone() Invoice {
	out := *inv
	out.Items = make([]LineItem, len(inv.Items))
	copy(out.Items, inv.Items)
	return out
}

// Subtotal sums line totals over the ordered item sequence. Empty sequence
// yields 0. These functions are total over their domain: negative inputs are
// accepted and simply produce a negative contribution; validation belongs to
// the editing session.
func Subtotal(items []LineItem) float64 {
	var sum float64
	for _, item := range items {
		sum += item.Total()
	}
	return sum
}

// TaxAmount calculates the tax on the subtotal at a percentage rate.
func TaxAmount(items []LineItem, taxRate float64) float64 {
	return Subtotal(items) * (taxRate / 100)
}

// Total calculates the amount due: subtotal plus tax, rounded to cents.
func Total(items []LineItem, taxRate float64) float64 {
	return Round2(Subtotal(items) + TaxAmount(items, taxRate))
}

// Round2 rounds a monetary amount to 2 decimal places. Every place a total is
// computed for persistence or display goes through this one policy so list
// views and print views cannot drift.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// EffectiveStatus derives the status to display for an invoice on a given
// day: a Sent invoice past its due date is Overdue. The stored status is
// never rewritten; callers derive on demand.
func EffectiveStatus(inv *Invoice, today time.Time) InvoiceStatus {
	if inv.Status != InvoiceStatusSent {
		return inv.Status
	}
	due, err := time.Parse(DateLayout, inv.DueDate)
	if err != nil {
		return inv.Status
	}
	day := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)
	if due.Before(day) {
		return InvoiceStatusOverdue
	}
	return inv.Status
}
