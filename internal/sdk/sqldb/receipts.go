package sqldb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/ledgerdesk/ledgerdesk-service/internal/sdk/models"
)

// ---------------------------------------------
// Receipt Operations
// ---------------------------------------------

// LatestReceiptNumber returns the highest assigned receipt number, or ""
// when no receipts exist.
func (s *service) LatestReceiptNumber(ctx context.Context) (string, error) {
	const query = `
		SELECT number
		FROM receipts
		ORDER BY number DESC
		LIMIT 1
	`

	var number string
	err := s.db.QueryRowContext(ctx, query).Scan(&number)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", nil
		}
		return "", fmt.Errorf("selecting latest receipt number: %w", err)
	}

	return number, nil
}

// CreateReceipt inserts a payment record. Receipts have no update path.
func (s *service) CreateReceipt(ctx context.Context, nr models.NewReceipt) (models.Receipt, error) {
	const query = `
		INSERT INTO receipts (number, invoice_id, client_id, amount, payment_method, payment_date)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, number, invoice_id, client_id, amount, payment_method, payment_date, created_at
	`

	r, err := scanReceipt(s.db.QueryRowContext(ctx, query,
		nr.Number,
		nr.InvoiceID,
		nr.ClientID,
		nr.Amount,
		NullString(nr.PaymentMethod),
		nr.PaymentDate,
	))
	if err != nil {
		if isPgError(err, uniqueViolation) {
			return models.Receipt{}, ErrDBDuplicatedEntry
		}
		if isPgError(err, foreignKeyViolation) {
			return models.Receipt{}, ErrForeignKeyViolation
		}
		return models.Receipt{}, fmt.Errorf("creating receipt: %w", err)
	}

	return r, nil
}

// GetReceiptByID retrieves a receipt.
func (s *service) GetReceiptByID(ctx context.Context, receiptID string) (models.Receipt, error) {
	const query = `
		SELECT id, number, invoice_id, client_id, amount, payment_method, payment_date, created_at
		FROM receipts
		WHERE id = $1
	`

	r, err := scanReceipt(s.db.QueryRowContext(ctx, query, receiptID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Receipt{}, ErrDBNotFound
		}
		return models.Receipt{}, fmt.Errorf("selecting receipt: %w", err)
	}

	return r, nil
}

// ListReceipts retrieves all receipts, newest first.
func (s *service) ListReceipts(ctx context.Context) ([]models.Receipt, error) {
	const query = `
		SELECT id, number, invoice_id, client_id, amount, payment_method, payment_date, created_at
		FROM receipts
		ORDER BY created_at DESC
	`

	return s.queryReceipts(ctx, query)
}

// ListReceiptsByInvoice retrieves the payment history of an invoice in
// payment order.
func (s *service) ListReceiptsByInvoice(ctx context.Context, invoiceID string) ([]models.Receipt, error) {
	const query = `
		SELECT id, number, invoice_id, client_id, amount, payment_method, payment_date, created_at
		FROM receipts
		WHERE invoice_id = $1
		ORDER BY payment_date
	`

	return s.queryReceipts(ctx, query, invoiceID)
}

// DeleteReceiptsByClient removes all of a client's receipts.
func (s *service) DeleteReceiptsByClient(ctx context.Context, clientID string) error {
	const query = `
		DELETE FROM receipts
		WHERE client_id = $1
	`

	if _, err := s.db.ExecContext(ctx, query, clientID); err != nil {
		return fmt.Errorf("deleting receipts for client: %w", err)
	}

	return nil
}

// CountReceiptsByClient counts a client's receipts.
func (s *service) CountReceiptsByClient(ctx context.Context, clientID string) (int, error) {
	return s.countByClient(ctx, "receipts", clientID)
}

func (s *service) queryReceipts(ctx context.Context, query string, args ...any) ([]models.Receipt, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing receipts: %w", err)
	}
	defer rows.Close()

	var receipts []models.Receipt
	for rows.Next() {
		r, err := scanReceipt(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning receipt: %w", err)
		}
		receipts = append(receipts, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating receipts: %w", err)
	}

	return receipts, nil
}

func scanReceipt(row interface{ Scan(dest ...any) error }) (models.Receipt, error) {
	var r models.Receipt
	var method sql.NullString

	err := row.Scan(
		&r.ID,
		&r.Number,
		&r.InvoiceID,
		&r.ClientID,
		&r.Amount,
		&method,
		&r.PaymentDate,
		&r.CreatedAt,
	)
	if err != nil {
		return models.Receipt{}, err
	}

	r.PaymentMethod = StringPtr(method)
	return r, nil
}
