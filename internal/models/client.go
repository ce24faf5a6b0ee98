package models

// Client is a billable party. Identity is the opaque ID; invoices reference
// clients by id only and are never cascade-deleted with them.
type Client struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Address string `json:"address"`
	Phone   string `json:"phone,omitempty"`
}
