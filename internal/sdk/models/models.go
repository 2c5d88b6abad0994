// Package models defines the data records persisted by the service.
package models

import "time"

// Invoice / quotation / ticket statuses. Stored as plain text.
const (
	InvoiceStatusUnpaid        = "Unpaid"
	InvoiceStatusPartiallyPaid = "Partially Paid"
	InvoiceStatusPaid          = "Paid"

	QuotationStatusPending  = "Pending"
	QuotationStatusApproved = "Approved"
	QuotationStatusRejected = "Rejected"

	TicketStatusOpen       = "Open"
	TicketStatusInProgress = "In Progress"
	TicketStatusClosed     = "Closed"
)

// AuthAccount is a login account. A client always has exactly one while it
// exists; staff accounts have IsAdmin set.
type AuthAccount struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Password  []byte    `json:"-"`
	IsAdmin   bool      `json:"is_admin"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type NewAuthAccount struct {
	Email    string `json:"email"`
	Password []byte `json:"-"`
	IsAdmin  bool   `json:"is_admin"`
}

// Profile is the user-facing profile row backing an auth account.
type Profile struct {
	ID        string    `json:"id"`
	AccountID string    `json:"account_id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     *string   `json:"phone,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type NewProfile struct {
	AccountID string  `json:"account_id"`
	Name      string  `json:"name"`
	Email     string  `json:"email"`
	Phone     *string `json:"phone,omitempty"`
}

// Client is a customer entity tied to one auth account and one profile row.
type Client struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	Name        string    `json:"name"`
	CompanyName *string   `json:"company_name,omitempty"`
	Email       string    `json:"email"`
	Phone       *string   `json:"phone,omitempty"`
	Address     *string   `json:"address,omitempty"`
	Balance     float64   `json:"balance"`
	PaidAmount  float64   `json:"paid_amount"`
	FileRefs    []string  `json:"file_refs,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type NewClient struct {
	UserID      string  `json:"user_id"`
	Name        string  `json:"name"`
	CompanyName *string `json:"company_name,omitempty"`
	Email       string  `json:"email"`
	Phone       *string `json:"phone,omitempty"`
	Address     *string `json:"address,omitempty"`
}

// UpdateClient carries the field set applied to both the client row and the
// linked profile row.
type UpdateClient struct {
	Name        *string `json:"name,omitempty"`
	CompanyName *string `json:"company_name,omitempty"`
	Email       *string `json:"email,omitempty"`
	Phone       *string `json:"phone,omitempty"`
	Address     *string `json:"address,omitempty"`
}

// Invoice bills an existing client. BalanceDue is always TotalAmount minus
// AmountPaid; the document generator trusts these stored values.
type Invoice struct {
	ID          string        `json:"id"`
	Number      string        `json:"number"`
	ClientID    string        `json:"client_id"`
	IssueDate   time.Time     `json:"issue_date"`
	DueDate     *time.Time    `json:"due_date,omitempty"`
	Description *string       `json:"description,omitempty"`
	TotalAmount float64       `json:"total_amount"`
	AmountPaid  float64       `json:"amount_paid"`
	BalanceDue  float64       `json:"balance_due"`
	Status      string        `json:"status"`
	Items       []InvoiceItem `json:"items,omitempty"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}

type InvoiceItem struct {
	ID          string  `json:"id"`
	InvoiceID   string  `json:"invoice_id"`
	Description string  `json:"description"`
	Quantity    int     `json:"quantity"`
	UnitPrice   float64 `json:"unit_price"`
	Amount      float64 `json:"amount"`
}

type NewInvoice struct {
	ClientID    string           `json:"client_id"`
	IssueDate   time.Time        `json:"issue_date"`
	DueDate     *time.Time       `json:"due_date,omitempty"`
	Description *string          `json:"description,omitempty"`
	TotalAmount float64          `json:"total_amount"`
	Items       []NewInvoiceItem `json:"items,omitempty"`
}

type NewInvoiceItem struct {
	Description string  `json:"description"`
	Quantity    int     `json:"quantity"`
	UnitPrice   float64 `json:"unit_price"`
}

// Quotation precedes client assignment. ClientName is used to create or
// match a client on approval when ClientID is not set.
type Quotation struct {
	ID          string          `json:"id"`
	Number      string          `json:"number"`
	ClientID    *string         `json:"client_id,omitempty"`
	ClientName  string          `json:"client_name"`
	ClientEmail *string         `json:"client_email,omitempty"`
	IssueDate   time.Time       `json:"issue_date"`
	Description *string         `json:"description,omitempty"`
	TotalAmount float64         `json:"total_amount"`
	Status      string          `json:"status"`
	Items       []QuotationItem `json:"items,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

type QuotationItem struct {
	ID          string  `json:"id"`
	QuotationID string  `json:"quotation_id"`
	Description string  `json:"description"`
	Quantity    int     `json:"quantity"`
	UnitPrice   float64 `json:"unit_price"`
	Amount      float64 `json:"amount"`
}

type NewQuotation struct {
	ClientID    *string          `json:"client_id,omitempty"`
	ClientName  string           `json:"client_name"`
	ClientEmail *string          `json:"client_email,omitempty"`
	IssueDate   time.Time        `json:"issue_date"`
	Description *string          `json:"description,omitempty"`
	TotalAmount float64          `json:"total_amount"`
	Items       []NewInvoiceItem `json:"items,omitempty"`
}

// Receipt records a payment against an invoice. Immutable once created.
type Receipt struct {
	ID            string    `json:"id"`
	Number        string    `json:"number"`
	InvoiceID     string    `json:"invoice_id"`
	ClientID      string    `json:"client_id"`
	Amount        float64   `json:"amount"`
	PaymentMethod *string   `json:"payment_method,omitempty"`
	PaymentDate   time.Time `json:"payment_date"`
	CreatedAt     time.Time `json:"created_at"`
}

type NewReceipt struct {
	Number        string    `json:"number"`
	InvoiceID     string    `json:"invoice_id"`
	ClientID      string    `json:"client_id"`
	Amount        float64   `json:"amount"`
	PaymentMethod *string   `json:"payment_method,omitempty"`
	PaymentDate   time.Time `json:"payment_date"`
}

// Ticket is a support request, optionally tied to a client.
type Ticket struct {
	ID        string    `json:"id"`
	ClientID  *string   `json:"client_id,omitempty"`
	Subject   string    `json:"subject"`
	Body      string    `json:"body"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type NewTicket struct {
	ClientID *string `json:"client_id,omitempty"`
	Subject  string  `json:"subject"`
	Body     string  `json:"body"`
}

// Update is a broadcast or per-client notification record.
type Update struct {
	ID        string    `json:"id"`
	ClientID  *string   `json:"client_id,omitempty"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
}

type NewUpdate struct {
	ClientID *string `json:"client_id,omitempty"`
	Title    string  `json:"title"`
	Body     string  `json:"body"`
}

// PasswordResetToken is single-use with a one hour expiry. A consumed or
// expired token never authorizes a password change.
type PasswordResetToken struct {
	ID        string    `json:"id"`
	AccountID string    `json:"account_id"`
	Token     string    `json:"-"`
	ExpiresAt time.Time `json:"expires_at"`
	Used      bool      `json:"used"`
	CreatedAt time.Time `json:"created_at"`
}

type NewPasswordResetToken struct {
	AccountID string    `json:"account_id"`
	Token     string    `json:"-"`
	ExpiresAt time.Time `json:"expires_at"`
}

// BrandingSettings feed the document generator header.
type BrandingSettings struct {
	ID           string    `json:"id"`
	CompanyName  string    `json:"company_name"`
	AddressLine  *string   `json:"address_line,omitempty"`
	ContactEmail *string   `json:"contact_email,omitempty"`
	ContactPhone *string   `json:"contact_phone,omitempty"`
	LogoObject   *string   `json:"logo_object,omitempty"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type UpdateBrandingSettings struct {
	CompanyName  *string `json:"company_name,omitempty"`
	AddressLine  *string `json:"address_line,omitempty"`
	ContactEmail *string `json:"contact_email,omitempty"`
	ContactPhone *string `json:"contact_phone,omitempty"`
	LogoObject   *string `json:"logo_object,omitempty"`
}

// DeletionSummary is the read-only pre-flight for client deletion.
type DeletionSummary struct {
	ClientID   string   `json:"client_id"`
	Tickets    int      `json:"tickets"`
	Receipts   int      `json:"receipts"`
	Invoices   int      `json:"invoices"`
	Quotations int      `json:"quotations"`
	Updates    int      `json:"updates"`
	FileRefs   []string `json:"file_refs,omitempty"`
}
