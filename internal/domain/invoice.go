package domain

// InvoiceStatus is the payment state of an invoice.
type InvoiceStatus string

const (
	InvoiceStatusPending InvoiceStatus = "pending"
	InvoiceStatusPaid    InvoiceStatus = "paid"
)

// Valid reports whether s is one of the enumerated statuses.
func (s InvoiceStatus) Valid() bool {
	return s == InvoiceStatusPending || s == InvoiceStatusPaid
}

// Invoice represents an invoice aggregate. Amount is stored in minor
// units (cents). Date is the issue date in YYYY-MM-DD form and is
// immutable after creation, as is ID.
type Invoice struct {
	ID           string        `json:"id"`
	CustomerID   string        `json:"customerId"`
	CustomerName string        `json:"customerName,omitempty"`
	Amount       int64         `json:"amount"`
	Status       InvoiceStatus `json:"status"`
	Date         string        `json:"date"`
}

// Customer is the referenced party an invoice is billed to.
type Customer struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	ImageURL string `json:"imageUrl,omitempty"`
}
