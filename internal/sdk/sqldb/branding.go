package sqldb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/ledgerdesk/ledgerdesk-service/internal/sdk/models"
)

// ---------------------------------------------
// Branding Operations
// ---------------------------------------------

// GetBrandingSettings retrieves the single branding row.
func (s *service) GetBrandingSettings(ctx context.Context) (models.BrandingSettings, error) {
	const query = `
		SELECT id, company_name, address_line, contact_email, contact_phone, logo_object, updated_at
		FROM branding_settings
		ORDER BY updated_at DESC
		LIMIT 1
	`

	b, err := scanBranding(s.db.QueryRowContext(ctx, query))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.BrandingSettings{}, ErrDBNotFound
		}
		return models.BrandingSettings{}, fmt.Errorf("selecting branding settings: %w", err)
	}

	return b, nil
}

// UpdateBrandingSettings upserts the branding row and returns the stored
// values.
func (s *service) UpdateBrandingSettings(ctx context.Context, ub models.UpdateBrandingSettings) (models.BrandingSettings, error) {
	existing, err := s.GetBrandingSettings(ctx)
	if err != nil {
		if !errors.Is(err, ErrDBNotFound) {
			return models.BrandingSettings{}, err
		}

		const insert = `
			INSERT INTO branding_settings (company_name, address_line, contact_email, contact_phone, logo_object)
			VALUES (COALESCE($1, ''), $2, $3, $4, $5)
			RETURNING id, company_name, address_line, contact_email, contact_phone, logo_object, updated_at
		`

		b, err := scanBranding(s.db.QueryRowContext(ctx, insert,
			NullString(ub.CompanyName),
			NullString(ub.AddressLine),
			NullString(ub.ContactEmail),
			NullString(ub.ContactPhone),
			NullString(ub.LogoObject),
		))
		if err != nil {
			return models.BrandingSettings{}, fmt.Errorf("inserting branding settings: %w", err)
		}
		return b, nil
	}

	const update = `
		UPDATE branding_settings
		SET company_name = COALESCE($2, company_name),
		    address_line = COALESCE($3, address_line),
		    contact_email = COALESCE($4, contact_email),
		    contact_phone = COALESCE($5, contact_phone),
		    logo_object = COALESCE($6, logo_object),
		    updated_at = CURRENT_TIMESTAMP
		WHERE id = $1
		RETURNING id, company_name, address_line, contact_email, contact_phone, logo_object, updated_at
	`

	b, err := scanBranding(s.db.QueryRowContext(ctx, update,
		existing.ID,
		NullString(ub.CompanyName),
		NullString(ub.AddressLine),
		NullString(ub.ContactEmail),
		NullString(ub.ContactPhone),
		NullString(ub.LogoObject),
	))
	if err != nil {
		return models.BrandingSettings{}, fmt.Errorf("updating branding settings: %w", err)
	}

	return b, nil
}

func scanBranding(row interface{ Scan(dest ...any) error }) (models.BrandingSettings, error) {
	var b models.BrandingSettings
	var addressLine, contactEmail, contactPhone, logoObject sql.NullString

	err := row.Scan(
		&b.ID,
		&b.CompanyName,
		&addressLine,
		&contactEmail,
		&contactPhone,
		&logoObject,
		&b.UpdatedAt,
	)
	if err != nil {
		return models.BrandingSettings{}, err
	}

	b.AddressLine = StringPtr(addressLine)
	b.ContactEmail = StringPtr(contactEmail)
	b.ContactPhone = StringPtr(contactPhone)
	b.LogoObject = StringPtr(logoObject)
	return b, nil
}
