package app

import (
	"errors"
	"net/mail"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/ledgerdesk/ledgerdesk-service/internal/sdk/models"
)

const (
	minPasswordLength = 8
	bcryptCost        = bcrypt.DefaultCost
)

func validateCreateClientInput(req CreateClientRequest) (string, map[string]string) {
	validationErrors := make(map[string]string)

	if strings.TrimSpace(req.Name) == "" {
		validationErrors["name"] = "name_required"
	}
	if strings.TrimSpace(req.Email) == "" {
		validationErrors["email"] = "email_required"
	}

	if len(validationErrors) > 0 {
		return ErrMissingFields, validationErrors
	}

	if _, err := mail.ParseAddress(req.Email); err != nil {
		validationErrors["email"] = "invalid_email_format"
		return ErrInvalidEmail, validationErrors
	}

	return "", nil
}

func validateLoginInput(req LoginRequest) map[string]string {
	validationErrors := make(map[string]string)

	if strings.TrimSpace(req.Email) == "" {
		validationErrors["email"] = "email_required"
	}
	if req.Password == "" {
		validationErrors["password"] = "password_required"
	}

	if len(validationErrors) == 0 {
		return nil
	}

	return validationErrors
}

func validateItems(items []models.NewInvoiceItem) (string, map[string]string) {
	if len(items) == 0 {
		return ErrMissingFields, map[string]string{"items": "items_required"}
	}
	for _, item := range items {
		if strings.TrimSpace(item.Description) == "" {
			return ErrMissingFields, map[string]string{"items": "item_description_required"}
		}
		if item.Quantity <= 0 {
			return ErrInvalidAmount, map[string]string{"items": "item_quantity_positive"}
		}
		if item.UnitPrice < 0 {
			return ErrInvalidAmount, map[string]string{"items": "item_unit_price_negative"}
		}
	}
	return "", nil
}

func validEmail(email string) bool {
	_, err := mail.ParseAddress(email)
	return err == nil
}

// validatePassword enforces the minimum length rule.
func validatePassword(password string) error {
	if len(password) < minPasswordLength {
		return errors.New(ErrPasswordTooShort)
	}
	return nil
}

// itemsTotal sums quantity times unit price across the line items.
func itemsTotal(items []models.NewInvoiceItem) float64 {
	var total float64
	for _, item := range items {
		total += float64(item.Quantity) * item.UnitPrice
	}
	return total
}
