package app

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const (
	ErrUnmarshal             = "invalid_request_body"
	ErrMissingFields         = "missing_required_fields"
	ErrInvalidEmail          = "invalid_email"
	ErrInvalidAmount         = "invalid_amount"
	ErrInvalidStatus         = "invalid_status"
	ErrPasswordTooShort      = "password_too_short"
	ErrPasswordMismatch      = "password_mismatch"
	ErrInvalidCredentials    = "invalid_credentials"
	ErrUnauthorized          = "unauthorized"
	ErrForbidden             = "forbidden"
	ErrExpiredToken          = "expired_token"
	ErrInvalidToken          = "invalid_token"
	ErrInvalidResetToken     = "invalid_or_expired_token"
	ErrClientExists          = "client_already_exists"
	ErrClientNotFound        = "client_not_found"
	ErrInvoiceNotFound       = "invoice_not_found"
	ErrQuotationNotFound     = "quotation_not_found"
	ErrReceiptNotFound       = "receipt_not_found"
	ErrTicketNotFound        = "ticket_not_found"
	ErrUpdateNotFound        = "update_not_found"
	ErrPasswordNotCached     = "password_not_available"
	ErrOverpayment           = "payment_exceeds_balance"
	ErrQuotationNotPending   = "quotation_not_pending"
	ErrHashPassword          = "internal_hash_error"
	ErrGenerateTokens        = "internal_generate_tokens_error"
	ErrCreateClient          = "internal_create_client_error"
	ErrUpdateClient          = "internal_update_client_error"
	ErrDeleteClient          = "internal_delete_client_error"
	ErrRetrieveClients       = "internal_retrieve_clients_error"
	ErrCreateInvoice         = "internal_create_invoice_error"
	ErrUpdateInvoice         = "internal_update_invoice_error"
	ErrRetrieveInvoices      = "internal_retrieve_invoices_error"
	ErrCreateQuotation       = "internal_create_quotation_error"
	ErrUpdateQuotation       = "internal_update_quotation_error"
	ErrRetrieveQuotations    = "internal_retrieve_quotations_error"
	ErrRecordPayment         = "internal_record_payment_error"
	ErrRetrieveReceipts      = "internal_retrieve_receipts_error"
	ErrCreateTicket          = "internal_create_ticket_error"
	ErrRetrieveTickets       = "internal_retrieve_tickets_error"
	ErrCreateUpdate          = "internal_create_update_error"
	ErrRetrieveUpdates       = "internal_retrieve_updates_error"
	ErrRenderDocument        = "internal_render_document_error"
	ErrSendEmail             = "internal_send_email_error"
	ErrCreateResetToken      = "internal_create_reset_token_error"
	ErrResetPassword         = "internal_reset_password_error"
	ErrUpdatePassword        = "internal_update_password_error"
	ErrUploadFile            = "internal_upload_file_error"
	ErrRetrieveBranding      = "internal_retrieve_branding_error"
	ErrUpdateBranding        = "internal_update_branding_error"
	ErrMaintenance           = "internal_maintenance_error"
	ErrProcessLogin          = "internal_login_error"
	ErrAccountNotFound       = "account_not_found"
)

var errorStatusMap = map[string]int{
	ErrUnmarshal:           http.StatusBadRequest,
	ErrMissingFields:       http.StatusBadRequest,
	ErrInvalidEmail:        http.StatusBadRequest,
	ErrInvalidAmount:       http.StatusBadRequest,
	ErrInvalidStatus:       http.StatusBadRequest,
	ErrPasswordTooShort:    http.StatusBadRequest,
	ErrPasswordMismatch:    http.StatusBadRequest,
	ErrInvalidCredentials:  http.StatusUnauthorized,
	ErrUnauthorized:        http.StatusUnauthorized,
	ErrForbidden:           http.StatusForbidden,
	ErrExpiredToken:        http.StatusUnauthorized,
	ErrInvalidToken:        http.StatusUnauthorized,
	ErrInvalidResetToken:   http.StatusBadRequest,
	ErrClientExists:        http.StatusConflict,
	ErrClientNotFound:      http.StatusNotFound,
	ErrInvoiceNotFound:     http.StatusNotFound,
	ErrQuotationNotFound:   http.StatusNotFound,
	ErrReceiptNotFound:     http.StatusNotFound,
	ErrTicketNotFound:      http.StatusNotFound,
	ErrUpdateNotFound:      http.StatusNotFound,
	ErrPasswordNotCached:   http.StatusNotFound,
	ErrOverpayment:         http.StatusBadRequest,
	ErrQuotationNotPending: http.StatusConflict,
	ErrAccountNotFound:     http.StatusNotFound,
}

func statusForError(code string) int {
	if status, ok := errorStatusMap[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// writeError emits the uniform failure envelope.
func writeError(c *gin.Context, code string, details map[string]string) {
	c.JSON(statusForError(code), ErrorResponse{Success: false, Error: code, Details: details})
}
