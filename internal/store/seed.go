package store

import (
	"time"

	"github.com/novasolutions/novainvoice/internal/models"
)

// seedInvoices builds the two illustrative invoices used to bootstrap a
// first run, so the invoice list is never empty. One is paid, the other is
// already past due. Seeding happens once; a stored document, even an empty
// list, is left alone.
func seedInvoices() []models.Invoice {
	today := time.Now()
	issue := today.Format(models.DateLayout)

	first := models.Invoice{
		ID:            "inv-1",
		InvoiceNumber: "INV-2024-001",
		ClientID:      "1",
		IssueDate:     issue,
		DueDate:       today.AddDate(0, 0, 14).Format(models.DateLayout),
		Items: []models.LineItem{
			{ID: "item-1", Description: "Website Redesign", Quantity: 1, UnitPrice: 2500},
		},
		Status:  models.InvoiceStatusPaid,
		TaxRate: 8.25,
	}
	first.Total = first.GrandTotal()

	second := models.Invoice{
		ID:            "inv-2",
		InvoiceNumber: "INV-2024-002",
		ClientID:      "2",
		IssueDate:     issue,
		DueDate:       today.AddDate(0, 0, -2).Format(models.DateLayout),
		Items: []models.LineItem{
			{ID: "item-2", Description: "Consulting Services", Quantity: 10, UnitPrice: 150},
		},
		Status:  models.InvoiceStatusSent,
		TaxRate: 8.25,
	}
	second.Total = second.GrandTotal()

	return []models.Invoice{first, second}
}

// seedClients builds the starter client list.
func seedClients() []models.Client {
	return []models.Client{
		{ID: "1", Name: "Acme Corp", Email: "billing@acme.com", Address: "123 Enterprise Way, NY"},
		{ID: "2", Name: "Global Tech", Email: "finance@globaltech.io", Address: "500 Innovation Blvd, CA"},
	}
}
