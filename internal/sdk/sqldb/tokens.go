package sqldb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/ledgerdesk/ledgerdesk-service/internal/sdk/models"
)

// ---------------------------------------------
// Password Reset Token Operations
// ---------------------------------------------

// CreatePasswordResetToken inserts a new reset token.
func (s *service) CreatePasswordResetToken(ctx context.Context, nt models.NewPasswordResetToken) (models.PasswordResetToken, error) {
	const query = `
		INSERT INTO password_reset_tokens (account_id, token, expires_at, used)
		VALUES ($1, $2, $3, false)
		RETURNING id, account_id, token, expires_at, used, created_at
	`

	var t models.PasswordResetToken
	err := s.db.QueryRowContext(ctx, query,
		nt.AccountID,
		nt.Token,
		nt.ExpiresAt,
	).Scan(
		&t.ID,
		&t.AccountID,
		&t.Token,
		&t.ExpiresAt,
		&t.Used,
		&t.CreatedAt,
	)

	if err != nil {
		if isPgError(err, foreignKeyViolation) {
			return models.PasswordResetToken{}, ErrForeignKeyViolation
		}
		return models.PasswordResetToken{}, fmt.Errorf("creating password reset token: %w", err)
	}

	return t, nil
}

// GetPasswordResetToken retrieves a reset token by its opaque value.
func (s *service) GetPasswordResetToken(ctx context.Context, token string) (models.PasswordResetToken, error) {
	const query = `
		SELECT id, account_id, token, expires_at, used, created_at
		FROM password_reset_tokens
		WHERE token = $1
	`

	var t models.PasswordResetToken
	err := s.db.QueryRowContext(ctx, query, token).Scan(
		&t.ID,
		&t.AccountID,
		&t.Token,
		&t.ExpiresAt,
		&t.Used,
		&t.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.PasswordResetToken{}, ErrDBNotFound
		}
		return models.PasswordResetToken{}, fmt.Errorf("getting password reset token: %w", err)
	}

	return t, nil
}

// MarkPasswordResetTokenUsed consumes a token. Subsequent verification
// attempts for the same token fail.
func (s *service) MarkPasswordResetTokenUsed(ctx context.Context, tokenID string) error {
	const query = `
		UPDATE password_reset_tokens
		SET used = true
		WHERE id = $1
	`

	result, err := s.db.ExecContext(ctx, query, tokenID)
	if err != nil {
		return fmt.Errorf("marking password reset token used: %w", err)
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

// DeleteExpiredPasswordResetTokens purges tokens past their expiry and
// returns how many were removed.
func (s *service) DeleteExpiredPasswordResetTokens(ctx context.Context) (int64, error) {
	const query = `
		DELETE FROM password_reset_tokens
		WHERE expires_at < CURRENT_TIMESTAMP
	`

	result, err := s.db.ExecContext(ctx, query)
	if err != nil {
		return 0, fmt.Errorf("deleting expired password reset tokens: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("checking rows affected: %w", err)
	}

	return rowsAffected, nil
}
