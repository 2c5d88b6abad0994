package app

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ledgerdesk/ledgerdesk-service/internal/numbering"
	"github.com/ledgerdesk/ledgerdesk-service/internal/observability/metrics"
	"github.com/ledgerdesk/ledgerdesk-service/internal/sdk/models"
	"github.com/ledgerdesk/ledgerdesk-service/internal/sdk/sqldb"
	"github.com/ledgerdesk/ledgerdesk-service/internal/services/docgen"
	"github.com/ledgerdesk/ledgerdesk-service/internal/services/sentry"
)

func (a *App) HandleCreateQuotation(c *gin.Context) {
	var req CreateQuotationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, ErrUnmarshal, nil)
		return
	}

	req.ClientName = strings.TrimSpace(req.ClientName)

	if req.ClientID == nil && req.ClientName == "" {
		writeError(c, ErrMissingFields, map[string]string{"client_name": "client_name_required"})
		return
	}
	if errCode, validationErrors := validateItems(req.Items); errCode != "" {
		writeError(c, errCode, validationErrors)
		return
	}

	if req.ClientID != nil {
		client, err := a.db.GetClientByID(c.Request.Context(), *req.ClientID)
		if err != nil {
			if errors.Is(err, sqldb.ErrDBNotFound) {
				writeError(c, ErrClientNotFound, nil)
				return
			}
			a.toSentry(c, "create_quotation", "db_client", sentry.LevelError, err)
			writeError(c, ErrCreateQuotation, nil)
			return
		}
		if req.ClientName == "" {
			req.ClientName = client.Name
		}
	}

	latest, err := a.db.LatestQuotationNumber(c.Request.Context())
	if err != nil {
		a.toSentry(c, "create_quotation", "db_number", sentry.LevelError, err)
		writeError(c, ErrCreateQuotation, nil)
		return
	}

	issueDate := time.Now()
	if req.IssueDate != nil {
		issueDate = *req.IssueDate
	}

	quotation, err := a.db.CreateQuotation(c.Request.Context(), models.NewQuotation{
		ClientID:    req.ClientID,
		ClientName:  req.ClientName,
		ClientEmail: req.ClientEmail,
		IssueDate:   issueDate,
		Description: req.Description,
		TotalAmount: itemsTotal(req.Items),
		Items:       req.Items,
	}, numbering.Next(latest, numbering.PrefixQuotation))
	if err != nil {
		a.toSentry(c, "create_quotation", "db", sentry.LevelError, err)
		writeError(c, ErrCreateQuotation, nil)
		return
	}

	c.JSON(http.StatusCreated, okData(quotation))
}

func (a *App) HandleListQuotations(c *gin.Context) {
	quotations, err := a.db.ListQuotations(c.Request.Context())
	if err != nil {
		a.toSentry(c, "list_quotations", "db", sentry.LevelError, err)
		writeError(c, ErrRetrieveQuotations, nil)
		return
	}

	c.JSON(http.StatusOK, okData(quotations))
}

func (a *App) HandleGetQuotation(c *gin.Context) {
	quotation, err := a.db.GetQuotationByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, sqldb.ErrDBNotFound) {
			writeError(c, ErrQuotationNotFound, nil)
			return
		}
		a.toSentry(c, "get_quotation", "db", sentry.LevelError, err)
		writeError(c, ErrRetrieveQuotations, nil)
		return
	}

	c.JSON(http.StatusOK, okData(quotation))
}

// HandleApproveQuotation marks a quotation approved and ensures a client
// exists for it. An existing client with the quotation's name is reused;
// otherwise the full account-profile-client creation runs, so an approved
// quotation always points at a client with a working login.
func (a *App) HandleApproveQuotation(c *gin.Context) {
	quotationID := c.Param("id")
	ctx := c.Request.Context()

	quotation, err := a.db.GetQuotationByID(ctx, quotationID)
	if err != nil {
		if errors.Is(err, sqldb.ErrDBNotFound) {
			writeError(c, ErrQuotationNotFound, nil)
			return
		}
		a.toSentry(c, "approve_quotation", "db", sentry.LevelError, err)
		writeError(c, ErrUpdateQuotation, nil)
		return
	}

	// Re-approval is a no-op that reports the current state.
	if quotation.Status == models.QuotationStatusApproved && quotation.ClientID != nil {
		client, err := a.db.GetClientByID(ctx, *quotation.ClientID)
		if err != nil {
			a.toSentry(c, "approve_quotation", "db_client", sentry.LevelError, err)
			writeError(c, ErrUpdateQuotation, nil)
			return
		}
		c.JSON(http.StatusOK, ApproveQuotationResponse{Success: true, Quotation: quotation, Client: client})
		return
	}
	if quotation.Status == models.QuotationStatusRejected {
		writeError(c, ErrQuotationNotPending, nil)
		return
	}

	var (
		client   models.Client
		password string
	)

	switch {
	case quotation.ClientID != nil:
		client, err = a.db.GetClientByID(ctx, *quotation.ClientID)
		if err != nil {
			a.toSentry(c, "approve_quotation", "db_client", sentry.LevelError, err)
			writeError(c, ErrUpdateQuotation, nil)
			return
		}

	default:
		client, err = a.db.GetClientByName(ctx, quotation.ClientName)
		switch {
		case err == nil:
			// Existing client by name; reuse it.
		case errors.Is(err, sqldb.ErrDBNotFound):
			email := fmt.Sprintf("%s@clients.ledgerdesk.local", quotationEmailSlug(quotation.ClientName))
			if quotation.ClientEmail != nil && *quotation.ClientEmail != "" {
				email = *quotation.ClientEmail
			}
			client, password, err = a.createClientWithAccount(ctx, CreateClientRequest{
				Name:  quotation.ClientName,
				Email: email,
			})
			if err != nil {
				a.toSentry(c, "approve_quotation", "saga", sentry.LevelError, err)
				writeError(c, ErrCreateClient, nil)
				return
			}
		default:
			a.toSentry(c, "approve_quotation", "db_client_name", sentry.LevelError, err)
			writeError(c, ErrUpdateQuotation, nil)
			return
		}
	}

	if err := a.db.UpdateQuotationStatus(ctx, quotationID, models.QuotationStatusApproved, &client.ID); err != nil {
		a.toSentry(c, "approve_quotation", "db_status", sentry.LevelError, err)
		writeError(c, ErrUpdateQuotation, nil)
		return
	}

	quotation, err = a.db.GetQuotationByID(ctx, quotationID)
	if err != nil {
		a.toSentry(c, "approve_quotation", "db_reload", sentry.LevelError, err)
		writeError(c, ErrUpdateQuotation, nil)
		return
	}

	c.JSON(http.StatusOK, ApproveQuotationResponse{
		Success:   true,
		Quotation: quotation,
		Client:    client,
		Password:  password,
	})
}

func (a *App) HandleRejectQuotation(c *gin.Context) {
	quotationID := c.Param("id")
	ctx := c.Request.Context()

	quotation, err := a.db.GetQuotationByID(ctx, quotationID)
	if err != nil {
		if errors.Is(err, sqldb.ErrDBNotFound) {
			writeError(c, ErrQuotationNotFound, nil)
			return
		}
		a.toSentry(c, "reject_quotation", "db", sentry.LevelError, err)
		writeError(c, ErrUpdateQuotation, nil)
		return
	}

	if quotation.Status != models.QuotationStatusPending {
		writeError(c, ErrQuotationNotPending, nil)
		return
	}

	if err := a.db.UpdateQuotationStatus(ctx, quotationID, models.QuotationStatusRejected, quotation.ClientID); err != nil {
		a.toSentry(c, "reject_quotation", "db_status", sentry.LevelError, err)
		writeError(c, ErrUpdateQuotation, nil)
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Success: true, Message: "Quotation rejected"})
}

// HandleQuotationPDF streams the rendered quotation.
func (a *App) HandleQuotationPDF(c *gin.Context) {
	pdfBytes, quotation, err := a.quotationPDF(c)
	if err != nil {
		return // response already written
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s.pdf", quotation.Number))
	c.Data(http.StatusOK, "application/pdf", pdfBytes)
}

// HandleSendQuotation emails the quotation PDF. Quotations can predate the
// client record, so the recipient comes from the request body, the
// quotation's stored email or the linked client, in that order.
func (a *App) HandleSendQuotation(c *gin.Context) {
	ctx := c.Request.Context()

	var req SendDocumentRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			writeError(c, ErrUnmarshal, nil)
			return
		}
	}

	pdfBytes, quotation, err := a.quotationPDF(c)
	if err != nil {
		return
	}

	toEmail := ""
	switch {
	case req.Email != nil && *req.Email != "":
		toEmail = *req.Email
	case quotation.ClientEmail != nil && *quotation.ClientEmail != "":
		toEmail = *quotation.ClientEmail
	case quotation.ClientID != nil:
		client, err := a.db.GetClientByID(ctx, *quotation.ClientID)
		if err != nil {
			a.toSentry(c, "send_quotation", "db_client", sentry.LevelError, err)
			writeError(c, ErrRetrieveClients, nil)
			return
		}
		toEmail = client.Email
	}
	if toEmail == "" {
		writeError(c, ErrMissingFields, map[string]string{"email": "recipient_email_required"})
		return
	}

	subject := fmt.Sprintf("Quotation %s", quotation.Number)
	body := fmt.Sprintf("<p>Dear %s,</p><p>Please find quotation %s attached. The quoted total is %s.</p>",
		quotation.ClientName, quotation.Number, docgen.FormatCurrency(quotation.TotalAmount))

	if err := a.email.SendDocument(toEmail, quotation.ClientName, subject, body, quotation.Number+".pdf", pdfBytes); err != nil {
		metrics.ObserveEmail("quotation", "error")
		a.toSentry(c, "send_quotation", "email", sentry.LevelError, err)
		writeError(c, ErrSendEmail, nil)
		return
	}
	metrics.ObserveEmail("quotation", "ok")

	c.JSON(http.StatusOK, MessageResponse{Success: true, Message: fmt.Sprintf("Quotation %s sent to %s", quotation.Number, toEmail)})
}

// quotationPDF loads the quotation and renders it. On failure the handler
// response has already been written.
func (a *App) quotationPDF(c *gin.Context) ([]byte, models.Quotation, error) {
	ctx := c.Request.Context()

	quotation, err := a.db.GetQuotationByID(ctx, c.Param("id"))
	if err != nil {
		if errors.Is(err, sqldb.ErrDBNotFound) {
			writeError(c, ErrQuotationNotFound, nil)
			return nil, models.Quotation{}, err
		}
		a.toSentry(c, "quotation_pdf", "db", sentry.LevelError, err)
		writeError(c, ErrRetrieveQuotations, nil)
		return nil, models.Quotation{}, err
	}

	html, err := docgen.Quotation(quotation, a.branding(ctx))
	if err != nil {
		a.toSentry(c, "quotation_pdf", "docgen", sentry.LevelError, err)
		writeError(c, ErrRenderDocument, nil)
		return nil, models.Quotation{}, err
	}

	start := time.Now()
	pdfBytes, err := a.pdf.Render(ctx, html)
	if err != nil {
		metrics.ObserveDocument("quotation", "error", time.Since(start))
		a.toSentry(c, "quotation_pdf", "render", sentry.LevelError, err)
		writeError(c, ErrRenderDocument, nil)
		return nil, models.Quotation{}, err
	}
	metrics.ObserveDocument("quotation", "ok", time.Since(start))

	return pdfBytes, quotation, nil
}

func (a *App) HandleDeleteQuotation(c *gin.Context) {
	quotationID := c.Param("id")

	if _, err := a.db.GetQuotationByID(c.Request.Context(), quotationID); err != nil {
		if errors.Is(err, sqldb.ErrDBNotFound) {
			writeError(c, ErrQuotationNotFound, nil)
			return
		}
		a.toSentry(c, "delete_quotation", "db", sentry.LevelError, err)
		writeError(c, ErrUpdateQuotation, nil)
		return
	}

	if err := a.db.DeleteQuotation(c.Request.Context(), quotationID); err != nil {
		a.toSentry(c, "delete_quotation", "db", sentry.LevelError, err)
		writeError(c, ErrUpdateQuotation, nil)
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Success: true, Message: "Quotation deleted"})
}

// quotationEmailSlug builds a deterministic placeholder address local part
// from a client name.
func quotationEmailSlug(name string) string {
	slug := strings.ToLower(strings.TrimSpace(name))
	slug = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			return r
		default:
			return '.'
		}
	}, slug)
	return strings.Trim(slug, ".")
}
