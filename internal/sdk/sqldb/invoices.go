package sqldb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/ledgerdesk/ledgerdesk-service/internal/sdk/models"
)

// ---------------------------------------------
// Invoice Operations
// ---------------------------------------------

// LatestInvoiceNumber returns the highest assigned invoice number, or ""
// when no invoices exist.
func (s *service) LatestInvoiceNumber(ctx context.Context) (string, error) {
	const query = `
		SELECT number
		FROM invoices
		ORDER BY number DESC
		LIMIT 1
	`

	var number string
	err := s.db.QueryRowContext(ctx, query).Scan(&number)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", nil
		}
		return "", fmt.Errorf("selecting latest invoice number: %w", err)
	}

	return number, nil
}

// CreateInvoice inserts the invoice row followed by its line items. The
// balance is stored as total minus paid (zero paid at creation).
func (s *service) CreateInvoice(ctx context.Context, ni models.NewInvoice, number, status string) (models.Invoice, error) {
	const query = `
		INSERT INTO invoices (number, client_id, issue_date, due_date, description, total_amount, amount_paid, balance_due, status)
		VALUES ($1, $2, $3, $4, $5, $6, 0, $6, $7)
		RETURNING id, number, client_id, issue_date, due_date, description, total_amount, amount_paid, balance_due, status, created_at, updated_at
	`

	inv, err := scanInvoice(s.db.QueryRowContext(ctx, query,
		number,
		ni.ClientID,
		ni.IssueDate,
		NullTime(ni.DueDate),
		NullString(ni.Description),
		ni.TotalAmount,
		status,
	))
	if err != nil {
		if isPgError(err, uniqueViolation) {
			return models.Invoice{}, ErrDBDuplicatedEntry
		}
		if isPgError(err, foreignKeyViolation) {
			return models.Invoice{}, ErrForeignKeyViolation
		}
		return models.Invoice{}, fmt.Errorf("creating invoice: %w", err)
	}

	const itemQuery = `
		INSERT INTO invoice_items (invoice_id, description, quantity, unit_price, amount)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, invoice_id, description, quantity, unit_price, amount
	`

	for _, item := range ni.Items {
		var stored models.InvoiceItem
		err := s.db.QueryRowContext(ctx, itemQuery,
			inv.ID,
			item.Description,
			item.Quantity,
			item.UnitPrice,
			float64(item.Quantity)*item.UnitPrice,
		).Scan(
			&stored.ID,
			&stored.InvoiceID,
			&stored.Description,
			&stored.Quantity,
			&stored.UnitPrice,
			&stored.Amount,
		)
		if err != nil {
			return models.Invoice{}, fmt.Errorf("creating invoice item: %w", err)
		}
		inv.Items = append(inv.Items, stored)
	}

	return inv, nil
}

// GetInvoiceByID retrieves an invoice with its line items.
func (s *service) GetInvoiceByID(ctx context.Context, invoiceID string) (models.Invoice, error) {
	const query = `
		SELECT id, number, client_id, issue_date, due_date, description, total_amount, amount_paid, balance_due, status, created_at, updated_at
		FROM invoices
		WHERE id = $1
	`

	inv, err := scanInvoice(s.db.QueryRowContext(ctx, query, invoiceID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Invoice{}, ErrDBNotFound
		}
		return models.Invoice{}, fmt.Errorf("selecting invoice: %w", err)
	}

	items, err := s.listInvoiceItems(ctx, invoiceID)
	if err != nil {
		return models.Invoice{}, err
	}
	inv.Items = items

	return inv, nil
}

// ListInvoices retrieves all invoices, newest first, without line items.
func (s *service) ListInvoices(ctx context.Context) ([]models.Invoice, error) {
	const query = `
		SELECT id, number, client_id, issue_date, due_date, description, total_amount, amount_paid, balance_due, status, created_at, updated_at
		FROM invoices
		ORDER BY created_at DESC
	`

	return s.queryInvoices(ctx, query)
}

// ListInvoicesByClient retrieves a client's invoices, newest first.
func (s *service) ListInvoicesByClient(ctx context.Context, clientID string) ([]models.Invoice, error) {
	const query = `
		SELECT id, number, client_id, issue_date, due_date, description, total_amount, amount_paid, balance_due, status, created_at, updated_at
		FROM invoices
		WHERE client_id = $1
		ORDER BY created_at DESC
	`

	return s.queryInvoices(ctx, query, clientID)
}

// UpdateInvoiceDetails updates the editable non-monetary fields.
func (s *service) UpdateInvoiceDetails(ctx context.Context, invoiceID string, dueDate *time.Time, description *string) error {
	const query = `
		UPDATE invoices
		SET due_date = COALESCE($2, due_date),
		    description = COALESCE($3, description),
		    updated_at = CURRENT_TIMESTAMP
		WHERE id = $1
	`

	result, err := s.db.ExecContext(ctx, query, invoiceID, NullTime(dueDate), NullString(description))
	if err != nil {
		return fmt.Errorf("updating invoice details: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrDBNotFound
	}

	return nil
}

// UpdateInvoiceAmounts writes the monetary fields. The balance is always
// derived here as total minus paid so every update path preserves the
// invariant.
func (s *service) UpdateInvoiceAmounts(ctx context.Context, invoiceID string, totalAmount, amountPaid float64, status string) error {
	const query = `
		UPDATE invoices
		SET total_amount = $2,
		    amount_paid = $3,
		    balance_due = $2 - $3,
		    status = $4,
		    updated_at = CURRENT_TIMESTAMP
		WHERE id = $1
	`

	result, err := s.db.ExecContext(ctx, query, invoiceID, totalAmount, amountPaid, status)
	if err != nil {
		return fmt.Errorf("updating invoice amounts: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrDBNotFound
	}

	return nil
}

// DeleteInvoice removes an invoice and its line items.
func (s *service) DeleteInvoice(ctx context.Context, invoiceID string) error {
	const itemQuery = `
		DELETE FROM invoice_items
		WHERE invoice_id = $1
	`
	if _, err := s.db.ExecContext(ctx, itemQuery, invoiceID); err != nil {
		return fmt.Errorf("deleting invoice items: %w", err)
	}

	const query = `
		DELETE FROM invoices
		WHERE id = $1
	`

	result, err := s.db.ExecContext(ctx, query, invoiceID)
	if err != nil {
		if isPgError(err, foreignKeyViolation) {
			return ErrForeignKeyViolation
		}
		return fmt.Errorf("deleting invoice: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrDBNotFound
	}

	return nil
}

// DeleteInvoicesByClient removes all of a client's invoices, items first.
func (s *service) DeleteInvoicesByClient(ctx context.Context, clientID string) error {
	const itemQuery = `
		DELETE FROM invoice_items
		WHERE invoice_id IN (SELECT id FROM invoices WHERE client_id = $1)
	`
	if _, err := s.db.ExecContext(ctx, itemQuery, clientID); err != nil {
		return fmt.Errorf("deleting invoice items for client: %w", err)
	}

	const query = `
		DELETE FROM invoices
		WHERE client_id = $1
	`
	if _, err := s.db.ExecContext(ctx, query, clientID); err != nil {
		return fmt.Errorf("deleting invoices for client: %w", err)
	}

	return nil
}

// CountInvoicesByClient counts a client's invoices.
func (s *service) CountInvoicesByClient(ctx context.Context, clientID string) (int, error) {
	return s.countByClient(ctx, "invoices", clientID)
}

// ---------------------------------------------
// Helpers
// ---------------------------------------------

func (s *service) queryInvoices(ctx context.Context, query string, args ...any) ([]models.Invoice, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing invoices: %w", err)
	}
	defer rows.Close()

	var invoices []models.Invoice
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning invoice: %w", err)
		}
		invoices = append(invoices, inv)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating invoices: %w", err)
	}

	return invoices, nil
}

func (s *service) listInvoiceItems(ctx context.Context, invoiceID string) ([]models.InvoiceItem, error) {
	const query = `
		SELECT id, invoice_id, description, quantity, unit_price, amount
		FROM invoice_items
		WHERE invoice_id = $1
		ORDER BY id
	`

	rows, err := s.db.QueryContext(ctx, query, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("listing invoice items: %w", err)
	}
	defer rows.Close()

	var items []models.InvoiceItem
	for rows.Next() {
		var item models.InvoiceItem
		err := rows.Scan(
			&item.ID,
			&item.InvoiceID,
			&item.Description,
			&item.Quantity,
			&item.UnitPrice,
			&item.Amount,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning invoice item: %w", err)
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating invoice items: %w", err)
	}

	return items, nil
}

// countByClient counts rows referencing a client in the given table.
func (s *service) countByClient(ctx context.Context, table, clientID string) (int, error) {
	query := fmt.Sprintf(`SELECT COUNT(*) FROM %s WHERE client_id = $1`, table)

	var count int
	if err := s.db.QueryRowContext(ctx, query, clientID).Scan(&count); err != nil {
		return 0, fmt.Errorf("counting %s for client: %w", table, err)
	}

	return count, nil
}

func scanInvoice(row interface{ Scan(dest ...any) error }) (models.Invoice, error) {
	var inv models.Invoice
	var dueDate sql.NullTime
	var description sql.NullString

	err := row.Scan(
		&inv.ID,
		&inv.Number,
		&inv.ClientID,
		&inv.IssueDate,
		&dueDate,
		&description,
		&inv.TotalAmount,
		&inv.AmountPaid,
		&inv.BalanceDue,
		&inv.Status,
		&inv.CreatedAt,
		&inv.UpdatedAt,
	)
	if err != nil {
		return models.Invoice{}, err
	}

	inv.DueDate = TimePtr(dueDate)
	inv.Description = StringPtr(description)
	return inv, nil
}
