// Package sqldb provides database operations for the ledgerdesk service.
package sqldb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/joho/godotenv/autoload"
	"github.com/ledgerdesk/ledgerdesk-service/internal/sdk/models"
)

// lib/pq errorCodeNames
// https://github.com/lib/pq/blob/master/error.go#L178
const (
	uniqueViolation     = "23505"
	undefinedTable      = "42P01"
	foreignKeyViolation = "23503"
	checkViolation      = "23514"
	notNullViolation    = "23502"
)

var (
	ErrDBNotFound          = sql.ErrNoRows
	ErrDBDuplicatedEntry   = errors.New("duplicated entry")
	ErrUndefinedTable      = errors.New("undefined table")
	ErrForeignKeyViolation = errors.New("foreign key violation")
	ErrCheckViolation      = errors.New("check constraint violation")
	ErrNotNullViolation    = errors.New("not null violation")
)

// Service represents a service that interacts with a database.
type Service interface {
	// Health returns a map of health status information.
	// The keys and values in the map are service-specific.
	Health() map[string]string

	// Close terminates the database connection.
	// It returns an error if the connection cannot be closed.
	Close() error

	// Auth account operations (the administrative auth API)
	CreateAuthAccount(ctx context.Context, na models.NewAuthAccount) (models.AuthAccount, error)
	GetAuthAccountByID(ctx context.Context, accountID string) (models.AuthAccount, error)
	GetAuthAccountByEmail(ctx context.Context, email string) (models.AuthAccount, error)
	UpdateAuthPassword(ctx context.Context, accountID string, password []byte) error
	DeleteAuthAccount(ctx context.Context, accountID string) error
	ListAuthAccounts(ctx context.Context) ([]models.AuthAccount, error)

	// Profile operations
	CreateProfile(ctx context.Context, np models.NewProfile) (models.Profile, error)
	GetProfileByAccountID(ctx context.Context, accountID string) (models.Profile, error)
	UpdateProfile(ctx context.Context, accountID string, uc models.UpdateClient) error
	DeleteProfileByAccountID(ctx context.Context, accountID string) error

	// Client operations
	CreateClient(ctx context.Context, nc models.NewClient) (models.Client, error)
	GetClientByID(ctx context.Context, clientID string) (models.Client, error)
	GetClientByName(ctx context.Context, name string) (models.Client, error)
	ListClients(ctx context.Context) ([]models.Client, error)
	UpdateClient(ctx context.Context, clientID string, uc models.UpdateClient) error
	UpdateClientBalances(ctx context.Context, clientID string, balance, paidAmount float64) error
	DeleteClient(ctx context.Context, clientID string) error
	AddClientFile(ctx context.Context, clientID, objectName string) error
	ListClientFiles(ctx context.Context, clientID string) ([]string, error)
	DeleteClientFiles(ctx context.Context, clientID string) error

	// Invoice operations
	LatestInvoiceNumber(ctx context.Context) (string, error)
	CreateInvoice(ctx context.Context, ni models.NewInvoice, number, status string) (models.Invoice, error)
	GetInvoiceByID(ctx context.Context, invoiceID string) (models.Invoice, error)
	ListInvoices(ctx context.Context) ([]models.Invoice, error)
	ListInvoicesByClient(ctx context.Context, clientID string) ([]models.Invoice, error)
	UpdateInvoiceDetails(ctx context.Context, invoiceID string, dueDate *time.Time, description *string) error
	UpdateInvoiceAmounts(ctx context.Context, invoiceID string, totalAmount, amountPaid float64, status string) error
	DeleteInvoice(ctx context.Context, invoiceID string) error
	DeleteInvoicesByClient(ctx context.Context, clientID string) error
	CountInvoicesByClient(ctx context.Context, clientID string) (int, error)

	// Quotation operations
	LatestQuotationNumber(ctx context.Context) (string, error)
	CreateQuotation(ctx context.Context, nq models.NewQuotation, number string) (models.Quotation, error)
	GetQuotationByID(ctx context.Context, quotationID string) (models.Quotation, error)
	ListQuotations(ctx context.Context) ([]models.Quotation, error)
	UpdateQuotationStatus(ctx context.Context, quotationID, status string, clientID *string) error
	DeleteQuotation(ctx context.Context, quotationID string) error
	DeleteQuotationsByClient(ctx context.Context, clientID string) error
	CountQuotationsByClient(ctx context.Context, clientID string) (int, error)

	// Receipt operations
	LatestReceiptNumber(ctx context.Context) (string, error)
	CreateReceipt(ctx context.Context, nr models.NewReceipt) (models.Receipt, error)
	GetReceiptByID(ctx context.Context, receiptID string) (models.Receipt, error)
	ListReceipts(ctx context.Context) ([]models.Receipt, error)
	ListReceiptsByInvoice(ctx context.Context, invoiceID string) ([]models.Receipt, error)
	DeleteReceiptsByClient(ctx context.Context, clientID string) error
	CountReceiptsByClient(ctx context.Context, clientID string) (int, error)

	// Ticket operations
	CreateTicket(ctx context.Context, nt models.NewTicket) (models.Ticket, error)
	GetTicketByID(ctx context.Context, ticketID string) (models.Ticket, error)
	ListTickets(ctx context.Context) ([]models.Ticket, error)
	UpdateTicketStatus(ctx context.Context, ticketID, status string) error
	DeleteTicket(ctx context.Context, ticketID string) error
	DeleteTicketsByClient(ctx context.Context, clientID string) error
	CountTicketsByClient(ctx context.Context, clientID string) (int, error)

	// Update operations
	CreateUpdate(ctx context.Context, nu models.NewUpdate) (models.Update, error)
	ListUpdates(ctx context.Context) ([]models.Update, error)
	DeleteUpdate(ctx context.Context, updateID string) error
	DeleteUpdatesByClient(ctx context.Context, clientID string) error
	CountUpdatesByClient(ctx context.Context, clientID string) (int, error)

	// Password reset token operations
	CreatePasswordResetToken(ctx context.Context, nt models.NewPasswordResetToken) (models.PasswordResetToken, error)
	GetPasswordResetToken(ctx context.Context, token string) (models.PasswordResetToken, error)
	MarkPasswordResetTokenUsed(ctx context.Context, tokenID string) error
	DeleteExpiredPasswordResetTokens(ctx context.Context) (int64, error)

	// Branding operations
	GetBrandingSettings(ctx context.Context) (models.BrandingSettings, error)
	UpdateBrandingSettings(ctx context.Context, ub models.UpdateBrandingSettings) (models.BrandingSettings, error)
}

type service struct {
	db *sql.DB
}

var (
	database   = os.Getenv("LEDGERDESK_DB_DATABASE")
	password   = os.Getenv("LEDGERDESK_DB_PASSWORD")
	username   = os.Getenv("LEDGERDESK_DB_USERNAME")
	port       = os.Getenv("LEDGERDESK_DB_PORT")
	host       = os.Getenv("LEDGERDESK_DB_HOST")
	schema     = os.Getenv("LEDGERDESK_DB_SCHEMA")
	dbInstance *service
)

func New() Service {
	// Reuse Connection
	if dbInstance != nil {
		return dbInstance
	}
	connStr := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable&search_path=%s", username, password, host, port, database, schema)
	db, err := sql.Open("pgx", connStr)
	if err != nil {
		log.Fatal(err)
	}
	dbInstance = &service{
		db: db,
	}
	return dbInstance
}

// Health checks the health of the database connection by pinging the database.
// It returns a map with keys indicating various health statistics.
func (s *service) Health() map[string]string {
	ctx, cancel := context.WithTimeout(context.Background(), 1*time.Second)
	defer cancel()

	stats := make(map[string]string)

	err := s.db.PingContext(ctx)
	if err != nil {
		stats["status"] = "down"
		stats["error"] = fmt.Sprintf("db down: %v", err)
		return stats
	}

	stats["status"] = "up"
	stats["message"] = "It's healthy"

	dbStats := s.db.Stats()
	stats["open_connections"] = strconv.Itoa(dbStats.OpenConnections)
	stats["in_use"] = strconv.Itoa(dbStats.InUse)
	stats["idle"] = strconv.Itoa(dbStats.Idle)
	stats["wait_count"] = strconv.FormatInt(dbStats.WaitCount, 10)
	stats["wait_duration"] = dbStats.WaitDuration.String()
	stats["max_idle_closed"] = strconv.FormatInt(dbStats.MaxIdleClosed, 10)
	stats["max_lifetime_closed"] = strconv.FormatInt(dbStats.MaxLifetimeClosed, 10)

	if dbStats.OpenConnections > 40 {
		stats["message"] = "The database is experiencing heavy load."
	}

	if dbStats.WaitCount > 1000 {
		stats["message"] = "The database has a high number of wait events, indicating potential bottlenecks."
	}

	return stats
}

// Close closes the database connection.
func (s *service) Close() error {
	log.Printf("Disconnected from database: %s", database)
	return s.db.Close()
}

// ---------------------------------------------
// Helpers
// ---------------------------------------------

// isPgError checks if the error is a PostgreSQL error with the given code
func isPgError(err error, code string) bool {
	var pgErr interface{ SQLState() string }
	if errors.As(err, &pgErr) {
		return pgErr.SQLState() == code
	}
	return false
}

// NullString creates a sql.NullString from a string pointer.
func NullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

// NullTime creates a sql.NullTime from a time.Time pointer.
func NullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

// StringPtr returns a pointer to a string from sql.NullString.
func StringPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	return &ns.String
}

// TimePtr returns a pointer to a time.Time from sql.NullTime.
func TimePtr(nt sql.NullTime) *time.Time {
	if !nt.Valid {
		return nil
	}
	return &nt.Time
}

// IsNotFound checks if the error is a not found error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrDBNotFound)
}

// IsDuplicateEntry checks if the error is a duplicate entry error.
func IsDuplicateEntry(err error) bool {
	return errors.Is(err, ErrDBDuplicatedEntry) || isPgError(err, uniqueViolation)
}

// IsForeignKeyViolation checks if the error is a foreign key violation error.
func IsForeignKeyViolation(err error) bool {
	return errors.Is(err, ErrForeignKeyViolation) || isPgError(err, foreignKeyViolation)
}
