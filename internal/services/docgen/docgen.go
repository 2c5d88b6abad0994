// Package docgen renders billing documents into HTML for the PDF render
// pass and for email bodies. No business logic runs at render time: the
// stored total, paid and balance fields are trusted as-is.
package docgen

import (
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/ledgerdesk/ledgerdesk-service/internal/sdk/models"
)

// currencySymbol prefixes every monetary value.
const currencySymbol = "$"

// FormatCurrency renders a monetary value with the currency symbol and
// exactly two decimal places.
func FormatCurrency(v float64) string {
	return fmt.Sprintf("%s%.2f", currencySymbol, v)
}

// FormatDate renders a date long-form, e.g. "January 2, 2025".
func FormatDate(t time.Time) string {
	return t.Format("January 2, 2006")
}

// Branding is the document header block.
type Branding struct {
	CompanyName string
	AddressLine string
	Email       string
	Phone       string
	LogoURL     string
}

// BrandingFrom maps stored branding settings, tolerating an absent row.
func BrandingFrom(b models.BrandingSettings, logoURL string) Branding {
	out := Branding{
		CompanyName: b.CompanyName,
		LogoURL:     logoURL,
	}
	if out.CompanyName == "" {
		out.CompanyName = "Ledgerdesk"
	}
	if b.AddressLine != nil {
		out.AddressLine = *b.AddressLine
	}
	if b.ContactEmail != nil {
		out.Email = *b.ContactEmail
	}
	if b.ContactPhone != nil {
		out.Phone = *b.ContactPhone
	}
	return out
}

type line struct {
	Description string
	Quantity    int
	UnitPrice   string
	Amount      string
}

type payment struct {
	Number string
	Date   string
	Method string
	Amount string
}

type documentData struct {
	Branding    Branding
	Title       string
	Number      string
	IssueDate   string
	DueDate     string
	ClientName  string
	ClientEmail string
	Description string
	Lines       []line
	Payments    []payment
	Total       string
	Paid        string
	Balance     string
	Status      string
}

var documentTmpl = template.Must(template.New("document").Parse(documentHTML))

// Invoice renders an invoice with its line items and payment history.
func Invoice(inv models.Invoice, client models.Client, history []models.Receipt, branding Branding) (string, error) {
	data := documentData{
		Branding:   branding,
		Title:      "Invoice",
		Number:     inv.Number,
		IssueDate:  FormatDate(inv.IssueDate),
		ClientName: clientDisplayName(client),
		Total:      FormatCurrency(inv.TotalAmount),
		Paid:       FormatCurrency(inv.AmountPaid),
		Balance:    FormatCurrency(inv.BalanceDue),
		Status:     inv.Status,
	}
	data.ClientEmail = client.Email
	if inv.DueDate != nil {
		data.DueDate = FormatDate(*inv.DueDate)
	}
	if inv.Description != nil {
		data.Description = *inv.Description
	}
	for _, item := range inv.Items {
		data.Lines = append(data.Lines, line{
			Description: item.Description,
			Quantity:    item.Quantity,
			UnitPrice:   FormatCurrency(item.UnitPrice),
			Amount:      FormatCurrency(item.Amount),
		})
	}
	for _, r := range history {
		p := payment{
			Number: r.Number,
			Date:   FormatDate(r.PaymentDate),
			Amount: FormatCurrency(r.Amount),
		}
		if r.PaymentMethod != nil {
			p.Method = *r.PaymentMethod
		}
		data.Payments = append(data.Payments, p)
	}

	return render(data)
}

// Quotation renders a quotation; pre-client-assignment documents carry only
// the prospect name.
func Quotation(q models.Quotation, branding Branding) (string, error) {
	data := documentData{
		Branding:   branding,
		Title:      "Quotation",
		Number:     q.Number,
		IssueDate:  FormatDate(q.IssueDate),
		ClientName: q.ClientName,
		Total:      FormatCurrency(q.TotalAmount),
		Status:     q.Status,
	}
	if q.ClientEmail != nil {
		data.ClientEmail = *q.ClientEmail
	}
	if q.Description != nil {
		data.Description = *q.Description
	}
	for _, item := range q.Items {
		data.Lines = append(data.Lines, line{
			Description: item.Description,
			Quantity:    item.Quantity,
			UnitPrice:   FormatCurrency(item.UnitPrice),
			Amount:      FormatCurrency(item.Amount),
		})
	}

	return render(data)
}

// Receipt renders a payment receipt.
func Receipt(r models.Receipt, inv models.Invoice, client models.Client, branding Branding) (string, error) {
	data := documentData{
		Branding:    branding,
		Title:       "Receipt",
		Number:      r.Number,
		IssueDate:   FormatDate(r.PaymentDate),
		ClientName:  clientDisplayName(client),
		ClientEmail: client.Email,
		Description: fmt.Sprintf("Payment against invoice %s", inv.Number),
		Total:       FormatCurrency(r.Amount),
		Paid:        FormatCurrency(inv.AmountPaid),
		Balance:     FormatCurrency(inv.BalanceDue),
		Status:      inv.Status,
	}

	return render(data)
}

func clientDisplayName(c models.Client) string {
	if c.CompanyName != nil && *c.CompanyName != "" {
		return *c.CompanyName
	}
	return c.Name
}

func render(data documentData) (string, error) {
	var sb strings.Builder
	if err := documentTmpl.Execute(&sb, data); err != nil {
		return "", fmt.Errorf("rendering document: %w", err)
	}
	return sb.String(), nil
}
