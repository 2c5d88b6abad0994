package sqldb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/ledgerdesk/ledgerdesk-service/internal/sdk/models"
)

// ---------------------------------------------
// Quotation Operations
// ---------------------------------------------

// LatestQuotationNumber returns the highest assigned quotation number, or ""
// when no quotations exist.
func (s *service) LatestQuotationNumber(ctx context.Context) (string, error) {
	const query = `
		SELECT number
		FROM quotations
		ORDER BY number DESC
		LIMIT 1
	`

	var number string
	err := s.db.QueryRowContext(ctx, query).Scan(&number)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", nil
		}
		return "", fmt.Errorf("selecting latest quotation number: %w", err)
	}

	return number, nil
}

// CreateQuotation inserts the quotation row followed by its line items.
func (s *service) CreateQuotation(ctx context.Context, nq models.NewQuotation, number string) (models.Quotation, error) {
	const query = `
		INSERT INTO quotations (number, client_id, client_name, client_email, issue_date, description, total_amount, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, number, client_id, client_name, client_email, issue_date, description, total_amount, status, created_at, updated_at
	`

	q, err := scanQuotation(s.db.QueryRowContext(ctx, query,
		number,
		NullString(nq.ClientID),
		nq.ClientName,
		NullString(nq.ClientEmail),
		nq.IssueDate,
		NullString(nq.Description),
		nq.TotalAmount,
		models.QuotationStatusPending,
	))
	if err != nil {
		if isPgError(err, uniqueViolation) {
			return models.Quotation{}, ErrDBDuplicatedEntry
		}
		if isPgError(err, foreignKeyViolation) {
			return models.Quotation{}, ErrForeignKeyViolation
		}
		return models.Quotation{}, fmt.Errorf("creating quotation: %w", err)
	}

	const itemQuery = `
		INSERT INTO quotation_items (quotation_id, description, quantity, unit_price, amount)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, quotation_id, description, quantity, unit_price, amount
	`

	for _, item := range nq.Items {
		var stored models.QuotationItem
		err := s.db.QueryRowContext(ctx, itemQuery,
			q.ID,
			item.Description,
			item.Quantity,
			item.UnitPrice,
			float64(item.Quantity)*item.UnitPrice,
		).Scan(
			&stored.ID,
			&stored.QuotationID,
			&stored.Description,
			&stored.Quantity,
			&stored.UnitPrice,
			&stored.Amount,
		)
		if err != nil {
			return models.Quotation{}, fmt.Errorf("creating quotation item: %w", err)
		}
		q.Items = append(q.Items, stored)
	}

	return q, nil
}

// GetQuotationByID retrieves a quotation with its line items.
func (s *service) GetQuotationByID(ctx context.Context, quotationID string) (models.Quotation, error) {
	const query = `
		SELECT id, number, client_id, client_name, client_email, issue_date, description, total_amount, status, created_at, updated_at
		FROM quotations
		WHERE id = $1
	`

	q, err := scanQuotation(s.db.QueryRowContext(ctx, query, quotationID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Quotation{}, ErrDBNotFound
		}
		return models.Quotation{}, fmt.Errorf("selecting quotation: %w", err)
	}

	const itemsQuery = `
		SELECT id, quotation_id, description, quantity, unit_price, amount
		FROM quotation_items
		WHERE quotation_id = $1
		ORDER BY id
	`

	rows, err := s.db.QueryContext(ctx, itemsQuery, quotationID)
	if err != nil {
		return models.Quotation{}, fmt.Errorf("listing quotation items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var item models.QuotationItem
		err := rows.Scan(
			&item.ID,
			&item.QuotationID,
			&item.Description,
			&item.Quantity,
			&item.UnitPrice,
			&item.Amount,
		)
		if err != nil {
			return models.Quotation{}, fmt.Errorf("scanning quotation item: %w", err)
		}
		q.Items = append(q.Items, item)
	}

	if err := rows.Err(); err != nil {
		return models.Quotation{}, fmt.Errorf("iterating quotation items: %w", err)
	}

	return q, nil
}

// ListQuotations retrieves all quotations, newest first, without items.
func (s *service) ListQuotations(ctx context.Context) ([]models.Quotation, error) {
	const query = `
		SELECT id, number, client_id, client_name, client_email, issue_date, description, total_amount, status, created_at, updated_at
		FROM quotations
		ORDER BY created_at DESC
	`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing quotations: %w", err)
	}
	defer rows.Close()

	var quotations []models.Quotation
	for rows.Next() {
		q, err := scanQuotation(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning quotation: %w", err)
		}
		quotations = append(quotations, q)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating quotations: %w", err)
	}

	return quotations, nil
}

// UpdateQuotationStatus sets the status and, when provided, attaches the
// quotation to a client.
func (s *service) UpdateQuotationStatus(ctx context.Context, quotationID, status string, clientID *string) error {
	const query = `
		UPDATE quotations
		SET status = $2,
		    client_id = COALESCE($3, client_id),
		    updated_at = CURRENT_TIMESTAMP
		WHERE id = $1
	`

	result, err := s.db.ExecContext(ctx, query, quotationID, status, NullString(clientID))
	if err != nil {
		return fmt.Errorf("updating quotation status: %w", err)
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

// DeleteQuotation removes a quotation and its line items.
func (s *service) DeleteQuotation(ctx context.Context, quotationID string) error {
	const itemQuery = `
		DELETE FROM quotation_items
		WHERE quotation_id = $1
	`
	if _, err := s.db.ExecContext(ctx, itemQuery, quotationID); err != nil {
		return fmt.Errorf("deleting quotation items: %w", err)
	}

	const query = `
		DELETE FROM quotations
		WHERE id = $1
	`

	result, err := s.db.ExecContext(ctx, query, quotationID)
	if err != nil {
		return fmt.Errorf("deleting quotation: %w", err)
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

// DeleteQuotationsByClient removes all of a client's quotations, items first.
func (s *service) DeleteQuotationsByClient(ctx context.Context, clientID string) error {
	const itemQuery = `
		DELETE FROM quotation_items
		WHERE quotation_id IN (SELECT id FROM quotations WHERE client_id = $1)
	`
	if _, err := s.db.ExecContext(ctx, itemQuery, clientID); err != nil {
		return fmt.Errorf("deleting quotation items for client: %w", err)
	}

	const query = `
		DELETE FROM quotations
		WHERE client_id = $1
	`
	if _, err := s.db.ExecContext(ctx, query, clientID); err != nil {
		return fmt.Errorf("deleting quotations for client: %w", err)
	}

	return nil
}

// CountQuotationsByClient counts a client's quotations.
func (s *service) CountQuotationsByClient(ctx context.Context, clientID string) (int, error) {
	return s.countByClient(ctx, "quotations", clientID)
}

func scanQuotation(row interface{ Scan(dest ...any) error }) (models.Quotation, error) {
	var q models.Quotation
	var clientID, clientEmail, description sql.NullString

	err := row.Scan(
		&q.ID,
		&q.Number,
		&clientID,
		&q.ClientName,
		&clientEmail,
		&q.IssueDate,
		&description,
		&q.TotalAmount,
		&q.Status,
		&q.CreatedAt,
		&q.UpdatedAt,
	)
	if err != nil {
		return models.Quotation{}, err
	}

	q.ClientID = StringPtr(clientID)
	q.ClientEmail = StringPtr(clientEmail)
	q.Description = StringPtr(description)
	return q, nil
}
