package sqldb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/ledgerdesk/ledgerdesk-service/internal/sdk/models"
)

// ---------------------------------------------
// Client Operations
// ---------------------------------------------

// CreateClient inserts a client row referencing an existing profile.
func (s *service) CreateClient(ctx context.Context, nc models.NewClient) (models.Client, error) {
	const query = `
		INSERT INTO clients (user_id, name, company_name, email, phone, address, balance, paid_amount)
		VALUES ($1, $2, $3, $4, $5, $6, 0, 0)
		RETURNING id, user_id, name, company_name, email, phone, address, balance, paid_amount, created_at, updated_at
	`

	row := s.db.QueryRowContext(ctx, query,
		nc.UserID,
		nc.Name,
		NullString(nc.CompanyName),
		nc.Email,
		NullString(nc.Phone),
		NullString(nc.Address),
	)

	client, err := scanClient(row)
	if err != nil {
		if isPgError(err, uniqueViolation) {
			return models.Client{}, ErrDBDuplicatedEntry
		}
		if isPgError(err, foreignKeyViolation) {
			return models.Client{}, ErrForeignKeyViolation
		}
		return models.Client{}, fmt.Errorf("creating client: %w", err)
	}

	return client, nil
}

// GetClientByID retrieves a client with its uploaded file references.
func (s *service) GetClientByID(ctx context.Context, clientID string) (models.Client, error) {
	const query = `
		SELECT id, user_id, name, company_name, email, phone, address, balance, paid_amount, created_at, updated_at
		FROM clients
		WHERE id = $1
	`

	client, err := scanClient(s.db.QueryRowContext(ctx, query, clientID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Client{}, ErrDBNotFound
		}
		return models.Client{}, fmt.Errorf("selecting client: %w", err)
	}

	files, err := s.ListClientFiles(ctx, clientID)
	if err != nil {
		return models.Client{}, err
	}
	client.FileRefs = files

	return client, nil
}

// GetClientByName retrieves a client by exact name match. Used by quotation
// approval to keep client creation idempotent by name.
func (s *service) GetClientByName(ctx context.Context, name string) (models.Client, error) {
	const query = `
		SELECT id, user_id, name, company_name, email, phone, address, balance, paid_amount, created_at, updated_at
		FROM clients
		WHERE name = $1
		LIMIT 1
	`

	client, err := scanClient(s.db.QueryRowContext(ctx, query, name))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Client{}, ErrDBNotFound
		}
		return models.Client{}, fmt.Errorf("selecting client by name: %w", err)
	}

	return client, nil
}

// ListClients retrieves all clients.
func (s *service) ListClients(ctx context.Context) ([]models.Client, error) {
	const query = `
		SELECT id, user_id, name, company_name, email, phone, address, balance, paid_amount, created_at, updated_at
		FROM clients
		ORDER BY created_at DESC
	`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing clients: %w", err)
	}
	defer rows.Close()

	var clients []models.Client
	for rows.Next() {
		client, err := scanClient(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning client: %w", err)
		}
		clients = append(clients, client)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating clients: %w", err)
	}

	return clients, nil
}

// UpdateClient applies the field set to the client row.
func (s *service) UpdateClient(ctx context.Context, clientID string, uc models.UpdateClient) error {
	const query = `
		UPDATE clients
		SET name = COALESCE($2, name),
		    company_name = COALESCE($3, company_name),
		    email = COALESCE($4, email),
		    phone = COALESCE($5, phone),
		    address = COALESCE($6, address),
		    updated_at = CURRENT_TIMESTAMP
		WHERE id = $1
	`

	result, err := s.db.ExecContext(ctx, query,
		clientID,
		NullString(uc.Name),
		NullString(uc.CompanyName),
		NullString(uc.Email),
		NullString(uc.Phone),
		NullString(uc.Address),
	)
	if err != nil {
		return fmt.Errorf("updating client: %w", err)
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

// UpdateClientBalances overwrites the stored balance and paid amount.
func (s *service) UpdateClientBalances(ctx context.Context, clientID string, balance, paidAmount float64) error {
	const query = `
		UPDATE clients
		SET balance = $2,
		    paid_amount = $3,
		    updated_at = CURRENT_TIMESTAMP
		WHERE id = $1
	`

	result, err := s.db.ExecContext(ctx, query, clientID, balance, paidAmount)
	if err != nil {
		return fmt.Errorf("updating client balances: %w", err)
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

// DeleteClient removes the client row. Dependent records must be removed
// first; a remaining reference surfaces as a foreign key violation.
func (s *service) DeleteClient(ctx context.Context, clientID string) error {
	const query = `
		DELETE FROM clients
		WHERE id = $1
	`

	result, err := s.db.ExecContext(ctx, query, clientID)
	if err != nil {
		if isPgError(err, foreignKeyViolation) {
			return ErrForeignKeyViolation
		}
		return fmt.Errorf("deleting client: %w", err)
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

// AddClientFile records an uploaded storage object for a client.
func (s *service) AddClientFile(ctx context.Context, clientID, objectName string) error {
	const query = `
		INSERT INTO client_files (client_id, object_name)
		VALUES ($1, $2)
	`

	_, err := s.db.ExecContext(ctx, query, clientID, objectName)
	if err != nil {
		if isPgError(err, foreignKeyViolation) {
			return ErrForeignKeyViolation
		}
		return fmt.Errorf("adding client file: %w", err)
	}

	return nil
}

// ListClientFiles returns the storage object names uploaded for a client.
func (s *service) ListClientFiles(ctx context.Context, clientID string) ([]string, error) {
	const query = `
		SELECT object_name
		FROM client_files
		WHERE client_id = $1
		ORDER BY created_at
	`

	rows, err := s.db.QueryContext(ctx, query, clientID)
	if err != nil {
		return nil, fmt.Errorf("listing client files: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scanning client file: %w", err)
		}
		names = append(names, name)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating client files: %w", err)
	}

	return names, nil
}

// DeleteClientFiles removes the file reference rows for a client.
func (s *service) DeleteClientFiles(ctx context.Context, clientID string) error {
	const query = `
		DELETE FROM client_files
		WHERE client_id = $1
	`

	_, err := s.db.ExecContext(ctx, query, clientID)
	if err != nil {
		return fmt.Errorf("deleting client files: %w", err)
	}

	return nil
}

// scanClient maps one clients row onto the typed record.
func scanClient(row interface{ Scan(dest ...any) error }) (models.Client, error) {
	var client models.Client
	var companyName, phone, address sql.NullString

	err := row.Scan(
		&client.ID,
		&client.UserID,
		&client.Name,
		&companyName,
		&client.Email,
		&phone,
		&address,
		&client.Balance,
		&client.PaidAmount,
		&client.CreatedAt,
		&client.UpdatedAt,
	)
	if err != nil {
		return models.Client{}, err
	}

	client.CompanyName = StringPtr(companyName)
	client.Phone = StringPtr(phone)
	client.Address = StringPtr(address)
	return client, nil
}
