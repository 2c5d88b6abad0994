package app

import (
	"time"

	"github.com/ledgerdesk/ledgerdesk-service/internal/sdk/models"
)

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type TokenResponse struct {
	Success      bool   `json:"success"`
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email"`
}

type ResetPasswordRequest struct {
	Token           string `json:"token"`
	Password        string `json:"password"`
	PasswordConfirm string `json:"password_confirm"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
	PasswordConfirm string `json:"password_confirm"`
}

type CreateClientRequest struct {
	Name        string  `json:"name"`
	CompanyName *string `json:"company_name,omitempty"`
	Email       string  `json:"email"`
	Phone       *string `json:"phone,omitempty"`
	Address     *string `json:"address,omitempty"`
}

type CreateClientResponse struct {
	Success  bool          `json:"success"`
	Client   models.Client `json:"client"`
	Password string        `json:"password"`
}

type UpdateClientResponse struct {
	Success bool              `json:"success"`
	Applied []string          `json:"applied"`
	Failed  map[string]string `json:"failed,omitempty"`
}

type DeleteClientResponse struct {
	Success  bool     `json:"success"`
	Warnings []string `json:"warnings,omitempty"`
}

type ClientPasswordResponse struct {
	Success  bool      `json:"success"`
	Password string    `json:"password"`
	StoredAt time.Time `json:"stored_at"`
}

type CreateInvoiceRequest struct {
	ClientID    string                  `json:"client_id"`
	IssueDate   *time.Time              `json:"issue_date,omitempty"`
	DueDate     *time.Time              `json:"due_date,omitempty"`
	Description *string                 `json:"description,omitempty"`
	Items       []models.NewInvoiceItem `json:"items"`
}

type UpdateInvoiceRequest struct {
	DueDate     *time.Time `json:"due_date,omitempty"`
	Description *string    `json:"description,omitempty"`
}

type RecordPaymentRequest struct {
	Amount        float64    `json:"amount"`
	PaymentMethod *string    `json:"payment_method,omitempty"`
	PaymentDate   *time.Time `json:"payment_date,omitempty"`
}

type RecordPaymentResponse struct {
	Success bool           `json:"success"`
	Receipt models.Receipt `json:"receipt"`
	Invoice models.Invoice `json:"invoice"`
}

type CreateQuotationRequest struct {
	ClientID    *string                 `json:"client_id,omitempty"`
	ClientName  string                  `json:"client_name"`
	ClientEmail *string                 `json:"client_email,omitempty"`
	IssueDate   *time.Time              `json:"issue_date,omitempty"`
	Description *string                 `json:"description,omitempty"`
	Items       []models.NewInvoiceItem `json:"items"`
}

type ApproveQuotationResponse struct {
	Success   bool             `json:"success"`
	Quotation models.Quotation `json:"quotation"`
	Client    models.Client    `json:"client"`
	// Password is set only when approval created a new client.
	Password string `json:"password,omitempty"`
}

type CreateTicketRequest struct {
	ClientID *string `json:"client_id,omitempty"`
	Subject  string  `json:"subject"`
	Body     string  `json:"body"`
}

type UpdateTicketRequest struct {
	Status string `json:"status"`
}

type CreateUpdateRequest struct {
	ClientID *string `json:"client_id,omitempty"`
	Title    string  `json:"title"`
	Body     string  `json:"body"`
}

type SendDocumentRequest struct {
	// Email overrides the client email when set.
	Email *string `json:"email,omitempty"`
}

type ErrorResponse struct {
	Success bool              `json:"success"`
	Error   string            `json:"error"`
	Details map[string]string `json:"details,omitempty"`
}

type MessageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type LivenessResponse struct {
	Status     string `json:"status"`
	Host       string `json:"host"`
	GOMAXPROCS int    `json:"gomaxprocs"`
}

type PurgeExpiredResponse struct {
	Success       bool  `json:"success"`
	TokensPurged  int64 `json:"tokens_purged"`
	EntriesPurged int   `json:"cache_entries_purged"`
}

// dataResponse wraps list and entity payloads in the success envelope.
type dataResponse struct {
	Success bool `json:"success"`
	Data    any  `json:"data"`
}

func okData(data any) dataResponse {
	return dataResponse{Success: true, Data: data}
}
