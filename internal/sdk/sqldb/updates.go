package sqldb

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/ledgerdesk/ledgerdesk-service/internal/sdk/models"
)

// ---------------------------------------------
// Update Operations
// ---------------------------------------------

// CreateUpdate inserts a notification record, broadcast when ClientID is nil.
func (s *service) CreateUpdate(ctx context.Context, nu models.NewUpdate) (models.Update, error) {
	const query = `
		INSERT INTO updates (client_id, title, body)
		VALUES ($1, $2, $3)
		RETURNING id, client_id, title, body, created_at
	`

	var u models.Update
	var clientID sql.NullString
	err := s.db.QueryRowContext(ctx, query,
		NullString(nu.ClientID),
		nu.Title,
		nu.Body,
	).Scan(
		&u.ID,
		&clientID,
		&u.Title,
		&u.Body,
		&u.CreatedAt,
	)

	if err != nil {
		if isPgError(err, foreignKeyViolation) {
			return models.Update{}, ErrForeignKeyViolation
		}
		return models.Update{}, fmt.Errorf("creating update: %w", err)
	}

	u.ClientID = StringPtr(clientID)
	return u, nil
}

// ListUpdates retrieves all updates, newest first.
func (s *service) ListUpdates(ctx context.Context) ([]models.Update, error) {
	const query = `
		SELECT id, client_id, title, body, created_at
		FROM updates
		ORDER BY created_at DESC
	`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing updates: %w", err)
	}
	defer rows.Close()

	var updates []models.Update
	for rows.Next() {
		var u models.Update
		var clientID sql.NullString
		err := rows.Scan(
			&u.ID,
			&clientID,
			&u.Title,
			&u.Body,
			&u.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning update: %w", err)
		}
		u.ClientID = StringPtr(clientID)
		updates = append(updates, u)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating updates: %w", err)
	}

	return updates, nil
}

// DeleteUpdate removes an update record.
func (s *service) DeleteUpdate(ctx context.Context, updateID string) error {
	const query = `
		DELETE FROM updates
		WHERE id = $1
	`

	result, err := s.db.ExecContext(ctx, query, updateID)
	if err != nil {
		return fmt.Errorf("deleting update: %w", err)
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

// DeleteUpdatesByClient removes all of a client's update records.
func (s *service) DeleteUpdatesByClient(ctx context.Context, clientID string) error {
	const query = `
		DELETE FROM updates
		WHERE client_id = $1
	`

	if _, err := s.db.ExecContext(ctx, query, clientID); err != nil {
		return fmt.Errorf("deleting updates for client: %w", err)
	}

	return nil
}

// CountUpdatesByClient counts a client's update records.
func (s *service) CountUpdatesByClient(ctx context.Context, clientID string) (int, error) {
	return s.countByClient(ctx, "updates", clientID)
}
