package sqldb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/ledgerdesk/ledgerdesk-service/internal/sdk/models"
)

// ---------------------------------------------
// Ticket Operations
// ---------------------------------------------

// CreateTicket inserts a support ticket in the Open state.
func (s *service) CreateTicket(ctx context.Context, nt models.NewTicket) (models.Ticket, error) {
	const query = `
		INSERT INTO tickets (client_id, subject, body, status)
		VALUES ($1, $2, $3, $4)
		RETURNING id, client_id, subject, body, status, created_at, updated_at
	`

	t, err := scanTicket(s.db.QueryRowContext(ctx, query,
		NullString(nt.ClientID),
		nt.Subject,
		nt.Body,
		models.TicketStatusOpen,
	))
	if err != nil {
		if isPgError(err, foreignKeyViolation) {
			return models.Ticket{}, ErrForeignKeyViolation
		}
		return models.Ticket{}, fmt.Errorf("creating ticket: %w", err)
	}

	return t, nil
}

// GetTicketByID retrieves a ticket.
func (s *service) GetTicketByID(ctx context.Context, ticketID string) (models.Ticket, error) {
	const query = `
		SELECT id, client_id, subject, body, status, created_at, updated_at
		FROM tickets
		WHERE id = $1
	`

	t, err := scanTicket(s.db.QueryRowContext(ctx, query, ticketID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Ticket{}, ErrDBNotFound
		}
		return models.Ticket{}, fmt.Errorf("selecting ticket: %w", err)
	}

	return t, nil
}

// ListTickets retrieves all tickets, newest first.
func (s *service) ListTickets(ctx context.Context) ([]models.Ticket, error) {
	const query = `
		SELECT id, client_id, subject, body, status, created_at, updated_at
		FROM tickets
		ORDER BY created_at DESC
	`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing tickets: %w", err)
	}
	defer rows.Close()

	var tickets []models.Ticket
	for rows.Next() {
		t, err := scanTicket(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning ticket: %w", err)
		}
		tickets = append(tickets, t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating tickets: %w", err)
	}

	return tickets, nil
}

// UpdateTicketStatus moves a ticket through its workflow.
func (s *service) UpdateTicketStatus(ctx context.Context, ticketID, status string) error {
	const query = `
		UPDATE tickets
		SET status = $2,
		    updated_at = CURRENT_TIMESTAMP
		WHERE id = $1
	`

	result, err := s.db.ExecContext(ctx, query, ticketID, status)
	if err != nil {
		return fmt.Errorf("updating ticket status: %w", err)
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

// DeleteTicket removes a ticket.
func (s *service) DeleteTicket(ctx context.Context, ticketID string) error {
	const query = `
		DELETE FROM tickets
		WHERE id = $1
	`

	result, err := s.db.ExecContext(ctx, query, ticketID)
	if err != nil {
		return fmt.Errorf("deleting ticket: %w", err)
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

// DeleteTicketsByClient removes all of a client's tickets.
func (s *service) DeleteTicketsByClient(ctx context.Context, clientID string) error {
	const query = `
		DELETE FROM tickets
		WHERE client_id = $1
	`

	if _, err := s.db.ExecContext(ctx, query, clientID); err != nil {
		return fmt.Errorf("deleting tickets for client: %w", err)
	}

	return nil
}

// CountTicketsByClient counts a client's tickets.
func (s *service) CountTicketsByClient(ctx context.Context, clientID string) (int, error) {
	return s.countByClient(ctx, "tickets", clientID)
}

func scanTicket(row interface{ Scan(dest ...any) error }) (models.Ticket, error) {
	var t models.Ticket
	var clientID sql.NullString

	err := row.Scan(
		&t.ID,
		&clientID,
		&t.Subject,
		&t.Body,
		&t.Status,
		&t.CreatedAt,
		&t.UpdatedAt,
	)
	if err != nil {
		return models.Ticket{}, err
	}

	t.ClientID = StringPtr(clientID)
	return t, nil
}
