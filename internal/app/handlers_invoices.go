package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ledgerdesk/ledgerdesk-service/internal/numbering"
	"github.com/ledgerdesk/ledgerdesk-service/internal/observability/metrics"
	"github.com/ledgerdesk/ledgerdesk-service/internal/sdk/models"
	"github.com/ledgerdesk/ledgerdesk-service/internal/sdk/sqldb"
	"github.com/ledgerdesk/ledgerdesk-service/internal/services/docgen"
	"github.com/ledgerdesk/ledgerdesk-service/internal/services/sentry"
)

func (a *App) HandleCreateInvoice(c *gin.Context) {
	var req CreateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, ErrUnmarshal, nil)
		return
	}

	if req.ClientID == "" {
		writeError(c, ErrMissingFields, map[string]string{"client_id": "client_id_required"})
		return
	}
	if errCode, validationErrors := validateItems(req.Items); errCode != "" {
		writeError(c, errCode, validationErrors)
		return
	}

	if _, err := a.db.GetClientByID(c.Request.Context(), req.ClientID); err != nil {
		if errors.Is(err, sqldb.ErrDBNotFound) {
			writeError(c, ErrClientNotFound, nil)
			return
		}
		a.toSentry(c, "create_invoice", "db_client", sentry.LevelError, err)
		writeError(c, ErrCreateInvoice, nil)
		return
	}

	latest, err := a.db.LatestInvoiceNumber(c.Request.Context())
	if err != nil {
		a.toSentry(c, "create_invoice", "db_number", sentry.LevelError, err)
		writeError(c, ErrCreateInvoice, nil)
		return
	}
	number := numbering.Next(latest, numbering.PrefixInvoice)

	issueDate := time.Now()
	if req.IssueDate != nil {
		issueDate = *req.IssueDate
	}

	invoice, err := a.db.CreateInvoice(c.Request.Context(), models.NewInvoice{
		ClientID:    req.ClientID,
		IssueDate:   issueDate,
		DueDate:     req.DueDate,
		Description: req.Description,
		TotalAmount: itemsTotal(req.Items),
		Items:       req.Items,
	}, number, models.InvoiceStatusUnpaid)
	if err != nil {
		a.toSentry(c, "create_invoice", "db", sentry.LevelError, err)
		writeError(c, ErrCreateInvoice, nil)
		return
	}

	c.JSON(http.StatusCreated, okData(invoice))
}

func (a *App) HandleListInvoices(c *gin.Context) {
	ctx := c.Request.Context()

	var (
		invoices []models.Invoice
		err      error
	)
	if clientID := c.Query("client_id"); clientID != "" {
		invoices, err = a.db.ListInvoicesByClient(ctx, clientID)
	} else {
		invoices, err = a.db.ListInvoices(ctx)
	}
	if err != nil {
		a.toSentry(c, "list_invoices", "db", sentry.LevelError, err)
		writeError(c, ErrRetrieveInvoices, nil)
		return
	}

	c.JSON(http.StatusOK, okData(invoices))
}

func (a *App) HandleGetInvoice(c *gin.Context) {
	invoice, err := a.db.GetInvoiceByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, sqldb.ErrDBNotFound) {
			writeError(c, ErrInvoiceNotFound, nil)
			return
		}
		a.toSentry(c, "get_invoice", "db", sentry.LevelError, err)
		writeError(c, ErrRetrieveInvoices, nil)
		return
	}

	c.JSON(http.StatusOK, okData(invoice))
}

// HandleUpdateInvoice changes due date and description only. Amounts move
// exclusively through payment recording.
func (a *App) HandleUpdateInvoice(c *gin.Context) {
	invoiceID := c.Param("id")

	var req UpdateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, ErrUnmarshal, nil)
		return
	}

	if _, err := a.db.GetInvoiceByID(c.Request.Context(), invoiceID); err != nil {
		if errors.Is(err, sqldb.ErrDBNotFound) {
			writeError(c, ErrInvoiceNotFound, nil)
			return
		}
		a.toSentry(c, "update_invoice", "db", sentry.LevelError, err)
		writeError(c, ErrUpdateInvoice, nil)
		return
	}

	if err := a.db.UpdateInvoiceDetails(c.Request.Context(), invoiceID, req.DueDate, req.Description); err != nil {
		a.toSentry(c, "update_invoice", "db", sentry.LevelError, err)
		writeError(c, ErrUpdateInvoice, nil)
		return
	}

	invoice, err := a.db.GetInvoiceByID(c.Request.Context(), invoiceID)
	if err != nil {
		a.toSentry(c, "update_invoice", "db_reload", sentry.LevelError, err)
		writeError(c, ErrUpdateInvoice, nil)
		return
	}

	c.JSON(http.StatusOK, okData(invoice))
}

func (a *App) HandleDeleteInvoice(c *gin.Context) {
	invoiceID := c.Param("id")

	if _, err := a.db.GetInvoiceByID(c.Request.Context(), invoiceID); err != nil {
		if errors.Is(err, sqldb.ErrDBNotFound) {
			writeError(c, ErrInvoiceNotFound, nil)
			return
		}
		a.toSentry(c, "delete_invoice", "db", sentry.LevelError, err)
		writeError(c, ErrUpdateInvoice, nil)
		return
	}

	if err := a.db.DeleteInvoice(c.Request.Context(), invoiceID); err != nil {
		a.toSentry(c, "delete_invoice", "db", sentry.LevelError, err)
		writeError(c, ErrUpdateInvoice, nil)
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Success: true, Message: "Invoice deleted"})
}

// HandleRecordPayment creates a receipt against an invoice and rolls the
// invoice amounts forward. balance_due is derived from total and paid in
// the same statement, so it can never drift.
func (a *App) HandleRecordPayment(c *gin.Context) {
	invoiceID := c.Param("id")
	ctx := c.Request.Context()

	var req RecordPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, ErrUnmarshal, nil)
		return
	}

	if req.Amount <= 0 {
		writeError(c, ErrInvalidAmount, map[string]string{"amount": "amount_positive"})
		return
	}

	invoice, err := a.db.GetInvoiceByID(ctx, invoiceID)
	if err != nil {
		if errors.Is(err, sqldb.ErrDBNotFound) {
			writeError(c, ErrInvoiceNotFound, nil)
			return
		}
		a.toSentry(c, "record_payment", "db", sentry.LevelError, err)
		writeError(c, ErrRecordPayment, nil)
		return
	}

	if req.Amount > invoice.BalanceDue {
		writeError(c, ErrOverpayment, nil)
		return
	}

	latest, err := a.db.LatestReceiptNumber(ctx)
	if err != nil {
		a.toSentry(c, "record_payment", "db_number", sentry.LevelError, err)
		writeError(c, ErrRecordPayment, nil)
		return
	}

	paymentDate := time.Now()
	if req.PaymentDate != nil {
		paymentDate = *req.PaymentDate
	}

	receipt, err := a.db.CreateReceipt(ctx, models.NewReceipt{
		Number:        numbering.Next(latest, numbering.PrefixReceipt),
		InvoiceID:     invoice.ID,
		ClientID:      invoice.ClientID,
		Amount:        req.Amount,
		PaymentMethod: req.PaymentMethod,
		PaymentDate:   paymentDate,
	})
	if err != nil {
		a.toSentry(c, "record_payment", "db_receipt", sentry.LevelError, err)
		writeError(c, ErrRecordPayment, nil)
		return
	}

	newPaid := invoice.AmountPaid + req.Amount
	status := invoiceStatusFor(invoice.TotalAmount, newPaid)

	if err := a.db.UpdateInvoiceAmounts(ctx, invoice.ID, invoice.TotalAmount, newPaid, status); err != nil {
		a.toSentry(c, "record_payment", "db_invoice", sentry.LevelError, err)
		writeError(c, ErrRecordPayment, nil)
		return
	}

	if client, err := a.db.GetClientByID(ctx, invoice.ClientID); err == nil {
		if err := a.db.UpdateClientBalances(ctx, client.ID, client.Balance-req.Amount, client.PaidAmount+req.Amount); err != nil {
			a.toSentry(c, "record_payment", "db_balances", sentry.LevelWarning, err)
		}
	}

	updated, err := a.db.GetInvoiceByID(ctx, invoice.ID)
	if err != nil {
		a.toSentry(c, "record_payment", "db_reload", sentry.LevelError, err)
		writeError(c, ErrRecordPayment, nil)
		return
	}

	c.JSON(http.StatusCreated, RecordPaymentResponse{
		Success: true,
		Receipt: receipt,
		Invoice: updated,
	})
}

// HandleInvoicePDF streams the rendered invoice.
func (a *App) HandleInvoicePDF(c *gin.Context) {
	pdfBytes, invoice, err := a.invoicePDF(c)
	if err != nil {
		return // response already written
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s.pdf", invoice.Number))
	c.Data(http.StatusOK, "application/pdf", pdfBytes)
}

// HandleSendInvoice emails the invoice PDF to the client.
func (a *App) HandleSendInvoice(c *gin.Context) {
	ctx := c.Request.Context()

	var req SendDocumentRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			writeError(c, ErrUnmarshal, nil)
			return
		}
	}

	pdfBytes, invoice, err := a.invoicePDF(c)
	if err != nil {
		return
	}

	client, err := a.db.GetClientByID(ctx, invoice.ClientID)
	if err != nil {
		a.toSentry(c, "send_invoice", "db_client", sentry.LevelError, err)
		writeError(c, ErrRetrieveClients, nil)
		return
	}

	toEmail := client.Email
	if req.Email != nil && *req.Email != "" {
		toEmail = *req.Email
	}

	subject := fmt.Sprintf("Invoice %s", invoice.Number)
	body := fmt.Sprintf("<p>Dear %s,</p><p>Please find invoice %s attached. The outstanding balance is %s.</p>",
		client.Name, invoice.Number, docgen.FormatCurrency(invoice.BalanceDue))

	if err := a.email.SendDocument(toEmail, client.Name, subject, body, invoice.Number+".pdf", pdfBytes); err != nil {
		metrics.ObserveEmail("invoice", "error")
		a.toSentry(c, "send_invoice", "email", sentry.LevelError, err)
		writeError(c, ErrSendEmail, nil)
		return
	}
	metrics.ObserveEmail("invoice", "ok")

	c.JSON(http.StatusOK, MessageResponse{Success: true, Message: fmt.Sprintf("Invoice %s sent to %s", invoice.Number, toEmail)})
}

// invoicePDF loads the invoice and renders it. On failure the handler
// response has already been written.
func (a *App) invoicePDF(c *gin.Context) ([]byte, models.Invoice, error) {
	ctx := c.Request.Context()

	invoice, err := a.db.GetInvoiceByID(ctx, c.Param("id"))
	if err != nil {
		if errors.Is(err, sqldb.ErrDBNotFound) {
			writeError(c, ErrInvoiceNotFound, nil)
			return nil, models.Invoice{}, err
		}
		a.toSentry(c, "invoice_pdf", "db", sentry.LevelError, err)
		writeError(c, ErrRetrieveInvoices, nil)
		return nil, models.Invoice{}, err
	}

	client, err := a.db.GetClientByID(ctx, invoice.ClientID)
	if err != nil {
		a.toSentry(c, "invoice_pdf", "db_client", sentry.LevelError, err)
		writeError(c, ErrRetrieveInvoices, nil)
		return nil, models.Invoice{}, err
	}

	history, err := a.db.ListReceiptsByInvoice(ctx, invoice.ID)
	if err != nil {
		a.toSentry(c, "invoice_pdf", "db_receipts", sentry.LevelWarning, err)
		history = nil
	}

	html, err := docgen.Invoice(invoice, client, history, a.branding(ctx))
	if err != nil {
		a.toSentry(c, "invoice_pdf", "docgen", sentry.LevelError, err)
		writeError(c, ErrRenderDocument, nil)
		return nil, models.Invoice{}, err
	}

	start := time.Now()
	pdfBytes, err := a.pdf.Render(ctx, html)
	if err != nil {
		metrics.ObserveDocument("invoice", "error", time.Since(start))
		a.toSentry(c, "invoice_pdf", "render", sentry.LevelError, err)
		writeError(c, ErrRenderDocument, nil)
		return nil, models.Invoice{}, err
	}
	metrics.ObserveDocument("invoice", "ok", time.Since(start))

	return pdfBytes, invoice, nil
}

// branding loads the document header settings, falling back to defaults
// when none are stored.
func (a *App) branding(ctx context.Context) docgen.Branding {
	settings, err := a.db.GetBrandingSettings(ctx)
	if err != nil {
		return docgen.BrandingFrom(models.BrandingSettings{}, "")
	}
	logoURL := ""
	if settings.LogoObject != nil {
		logoURL = a.storage.GetPublicURL(*settings.LogoObject)
	}
	return docgen.BrandingFrom(settings, logoURL)
}

func invoiceStatusFor(total, paid float64) string {
	switch {
	case paid >= total:
		return models.InvoiceStatusPaid
	case paid > 0:
		return models.InvoiceStatusPartiallyPaid
	default:
		return models.InvoiceStatusUnpaid
	}
}
