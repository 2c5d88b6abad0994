package app

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ledgerdesk/ledgerdesk-service/internal/observability/metrics"
	"github.com/ledgerdesk/ledgerdesk-service/internal/sdk/sqldb"
	"github.com/ledgerdesk/ledgerdesk-service/internal/services/docgen"
	"github.com/ledgerdesk/ledgerdesk-service/internal/services/sentry"
)

func (a *App) HandleListReceipts(c *gin.Context) {
	ctx := c.Request.Context()

	if invoiceID := c.Query("invoice_id"); invoiceID != "" {
		receipts, err := a.db.ListReceiptsByInvoice(ctx, invoiceID)
		if err != nil {
			a.toSentry(c, "list_receipts", "db", sentry.LevelError, err)
			writeError(c, ErrRetrieveReceipts, nil)
			return
		}
		c.JSON(http.StatusOK, okData(receipts))
		return
	}

	receipts, err := a.db.ListReceipts(ctx)
	if err != nil {
		a.toSentry(c, "list_receipts", "db", sentry.LevelError, err)
		writeError(c, ErrRetrieveReceipts, nil)
		return
	}

	c.JSON(http.StatusOK, okData(receipts))
}

func (a *App) HandleGetReceipt(c *gin.Context) {
	receipt, err := a.db.GetReceiptByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, sqldb.ErrDBNotFound) {
			writeError(c, ErrReceiptNotFound, nil)
			return
		}
		a.toSentry(c, "get_receipt", "db", sentry.LevelError, err)
		writeError(c, ErrRetrieveReceipts, nil)
		return
	}

	c.JSON(http.StatusOK, okData(receipt))
}

// HandleSendReceipt emails the receipt PDF to the client.
func (a *App) HandleSendReceipt(c *gin.Context) {
	ctx := c.Request.Context()

	var req SendDocumentRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			writeError(c, ErrUnmarshal, nil)
			return
		}
	}

	receipt, err := a.db.GetReceiptByID(ctx, c.Param("id"))
	if err != nil {
		if errors.Is(err, sqldb.ErrDBNotFound) {
			writeError(c, ErrReceiptNotFound, nil)
			return
		}
		a.toSentry(c, "send_receipt", "db", sentry.LevelError, err)
		writeError(c, ErrRetrieveReceipts, nil)
		return
	}

	invoice, err := a.db.GetInvoiceByID(ctx, receipt.InvoiceID)
	if err != nil {
		a.toSentry(c, "send_receipt", "db_invoice", sentry.LevelError, err)
		writeError(c, ErrRetrieveReceipts, nil)
		return
	}

	client, err := a.db.GetClientByID(ctx, receipt.ClientID)
	if err != nil {
		a.toSentry(c, "send_receipt", "db_client", sentry.LevelError, err)
		writeError(c, ErrRetrieveReceipts, nil)
		return
	}

	html, err := docgen.Receipt(receipt, invoice, client, a.branding(ctx))
	if err != nil {
		a.toSentry(c, "send_receipt", "docgen", sentry.LevelError, err)
		writeError(c, ErrRenderDocument, nil)
		return
	}

	start := time.Now()
	pdfBytes, err := a.pdf.Render(ctx, html)
	if err != nil {
		metrics.ObserveDocument("receipt", "error", time.Since(start))
		a.toSentry(c, "send_receipt", "render", sentry.LevelError, err)
		writeError(c, ErrRenderDocument, nil)
		return
	}
	metrics.ObserveDocument("receipt", "ok", time.Since(start))

	toEmail := client.Email
	if req.Email != nil && *req.Email != "" {
		toEmail = *req.Email
	}

	subject := fmt.Sprintf("Receipt %s", receipt.Number)
	body := fmt.Sprintf("<p>Dear %s,</p><p>Thank you for your payment of %s against invoice %s. Your receipt is attached.</p>",
		client.Name, docgen.FormatCurrency(receipt.Amount), invoice.Number)

	if err := a.email.SendDocument(toEmail, client.Name, subject, body, receipt.Number+".pdf", pdfBytes); err != nil {
		metrics.ObserveEmail("receipt", "error")
		a.toSentry(c, "send_receipt", "email", sentry.LevelError, err)
		writeError(c, ErrSendEmail, nil)
		return
	}
	metrics.ObserveEmail("receipt", "ok")

	c.JSON(http.StatusOK, MessageResponse{Success: true, Message: fmt.Sprintf("Receipt %s sent to %s", receipt.Number, toEmail)})
}
