package sqldb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/ledgerdesk/ledgerdesk-service/internal/sdk/models"
)

// ---------------------------------------------
// Auth Account Operations
// ---------------------------------------------

// CreateAuthAccount inserts a new login account.
func (s *service) CreateAuthAccount(ctx context.Context, na models.NewAuthAccount) (models.AuthAccount, error) {
	const query = `
		INSERT INTO auth_users (email, password, is_admin)
		VALUES ($1, $2, $3)
		RETURNING id, email, password, is_admin, created_at, updated_at
	`

	var acc models.AuthAccount
	err := s.db.QueryRowContext(ctx, query,
		na.Email,
		na.Password,
		na.IsAdmin,
	).Scan(
		&acc.ID,
		&acc.Email,
		&acc.Password,
		&acc.IsAdmin,
		&acc.CreatedAt,
		&acc.UpdatedAt,
	)

	if err != nil {
		if isPgError(err, uniqueViolation) {
			return models.AuthAccount{}, ErrDBDuplicatedEntry
		}
		return models.AuthAccount{}, fmt.Errorf("creating auth account: %w", err)
	}

	return acc, nil
}

// GetAuthAccountByID retrieves a login account by its id.
func (s *service) GetAuthAccountByID(ctx context.Context, accountID string) (models.AuthAccount, error) {
	const query = `
		SELECT id, email, password, is_admin, created_at, updated_at
		FROM auth_users
		WHERE id = $1
	`

	var acc models.AuthAccount
	err := s.db.QueryRowContext(ctx, query, accountID).Scan(
		&acc.ID,
		&acc.Email,
		&acc.Password,
		&acc.IsAdmin,
		&acc.CreatedAt,
		&acc.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.AuthAccount{}, ErrDBNotFound
		}
		return models.AuthAccount{}, fmt.Errorf("selecting auth account: %w", err)
	}

	return acc, nil
}

// GetAuthAccountByEmail retrieves a login account by email address.
func (s *service) GetAuthAccountByEmail(ctx context.Context, email string) (models.AuthAccount, error) {
	const query = `
		SELECT id, email, password, is_admin, created_at, updated_at
		FROM auth_users
		WHERE email = $1
	`

	var acc models.AuthAccount
	err := s.db.QueryRowContext(ctx, query, email).Scan(
		&acc.ID,
		&acc.Email,
		&acc.Password,
		&acc.IsAdmin,
		&acc.CreatedAt,
		&acc.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.AuthAccount{}, ErrDBNotFound
		}
		return models.AuthAccount{}, fmt.Errorf("selecting auth account by email: %w", err)
	}

	return acc, nil
}

// UpdateAuthPassword replaces the stored password hash for an account.
func (s *service) UpdateAuthPassword(ctx context.Context, accountID string, password []byte) error {
	const query = `
		UPDATE auth_users
		SET password = $2,
		    updated_at = CURRENT_TIMESTAMP
		WHERE id = $1
	`

	result, err := s.db.ExecContext(ctx, query, accountID, password)
	if err != nil {
		return fmt.Errorf("updating auth password: %w", err)
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

// DeleteAuthAccount removes a login account.
func (s *service) DeleteAuthAccount(ctx context.Context, accountID string) error {
	const query = `
		DELETE FROM auth_users
		WHERE id = $1
	`

	result, err := s.db.ExecContext(ctx, query, accountID)
	if err != nil {
		if isPgError(err, foreignKeyViolation) {
			return ErrForeignKeyViolation
		}
		return fmt.Errorf("deleting auth account: %w", err)
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

// ListAuthAccounts retrieves all login accounts.
func (s *service) ListAuthAccounts(ctx context.Context) ([]models.AuthAccount, error) {
	const query = `
		SELECT id, email, password, is_admin, created_at, updated_at
		FROM auth_users
		ORDER BY created_at DESC
	`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing auth accounts: %w", err)
	}
	defer rows.Close()

	var accounts []models.AuthAccount
	for rows.Next() {
		var acc models.AuthAccount
		err := rows.Scan(
			&acc.ID,
			&acc.Email,
			&acc.Password,
			&acc.IsAdmin,
			&acc.CreatedAt,
			&acc.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning auth account: %w", err)
		}
		accounts = append(accounts, acc)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating auth accounts: %w", err)
	}

	return accounts, nil
}

// ---------------------------------------------
// Profile Operations
// ---------------------------------------------

// CreateProfile inserts a profile row referencing an auth account.
func (s *service) CreateProfile(ctx context.Context, np models.NewProfile) (models.Profile, error) {
	const query = `
		INSERT INTO users (account_id, name, email, phone)
		VALUES ($1, $2, $3, $4)
		RETURNING id, account_id, name, email, phone, created_at, updated_at
	`

	var p models.Profile
	var phone sql.NullString
	err := s.db.QueryRowContext(ctx, query,
		np.AccountID,
		np.Name,
		np.Email,
		NullString(np.Phone),
	).Scan(
		&p.ID,
		&p.AccountID,
		&p.Name,
		&p.Email,
		&phone,
		&p.CreatedAt,
		&p.UpdatedAt,
	)

	if err != nil {
		if isPgError(err, uniqueViolation) {
			return models.Profile{}, ErrDBDuplicatedEntry
		}
		if isPgError(err, foreignKeyViolation) {
			return models.Profile{}, ErrForeignKeyViolation
		}
		return models.Profile{}, fmt.Errorf("creating profile: %w", err)
	}

	p.Phone = StringPtr(phone)
	return p, nil
}

// GetProfileByAccountID retrieves the profile row for an auth account.
func (s *service) GetProfileByAccountID(ctx context.Context, accountID string) (models.Profile, error) {
	const query = `
		SELECT id, account_id, name, email, phone, created_at, updated_at
		FROM users
		WHERE account_id = $1
	`

	var p models.Profile
	var phone sql.NullString
	err := s.db.QueryRowContext(ctx, query, accountID).Scan(
		&p.ID,
		&p.AccountID,
		&p.Name,
		&p.Email,
		&phone,
		&p.CreatedAt,
		&p.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Profile{}, ErrDBNotFound
		}
		return models.Profile{}, fmt.Errorf("selecting profile: %w", err)
	}

	p.Phone = StringPtr(phone)
	return p, nil
}

// UpdateProfile applies the client field set to the profile row. Only the
// fields present on the profile are touched.
func (s *service) UpdateProfile(ctx context.Context, accountID string, uc models.UpdateClient) error {
	const query = `
		UPDATE users
		SET name = COALESCE($2, name),
		    email = COALESCE($3, email),
		    phone = COALESCE($4, phone),
		    updated_at = CURRENT_TIMESTAMP
		WHERE account_id = $1
	`

	result, err := s.db.ExecContext(ctx, query,
		accountID,
		NullString(uc.Name),
		NullString(uc.Email),
		NullString(uc.Phone),
	)
	if err != nil {
		return fmt.Errorf("updating profile: %w", err)
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

// DeleteProfileByAccountID removes the profile row for an auth account.
func (s *service) DeleteProfileByAccountID(ctx context.Context, accountID string) error {
	const query = `
		DELETE FROM users
		WHERE account_id = $1
	`

	_, err := s.db.ExecContext(ctx, query, accountID)
	if err != nil {
		return fmt.Errorf("deleting profile: %w", err)
	}

	return nil
}
