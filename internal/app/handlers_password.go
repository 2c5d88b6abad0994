package app

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"github.com/ledgerdesk/ledgerdesk-service/internal/sdk/models"
	"github.com/ledgerdesk/ledgerdesk-service/internal/sdk/sqldb"
	"github.com/ledgerdesk/ledgerdesk-service/internal/services/sentry"
)

const (
	resetTokenLength = 32 // 32 bytes = 64 hex characters
	resetTokenTTL    = 1 * time.Hour
)

const forgotPasswordMessage = "If the email exists, a password reset link has been sent"

// HandleForgotPassword issues a reset token. The response never reveals
// whether the email has an account.
func (a *App) HandleForgotPassword(c *gin.Context) {
	var req ForgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, ErrUnmarshal, nil)
		return
	}

	account, err := a.db.GetAuthAccountByEmail(c.Request.Context(), req.Email)
	if err != nil {
		if errors.Is(err, sqldb.ErrDBNotFound) {
			c.JSON(http.StatusOK, MessageResponse{Success: true, Message: forgotPasswordMessage})
			return
		}
		a.toSentry(c, "forgot_password", "db", sentry.LevelError, err)
		writeError(c, ErrCreateResetToken, nil)
		return
	}

	token, err := generateSecureToken(resetTokenLength)
	if err != nil {
		a.toSentry(c, "forgot_password", "token_generation", sentry.LevelError, err)
		writeError(c, ErrCreateResetToken, nil)
		return
	}

	_, err = a.db.CreatePasswordResetToken(c.Request.Context(), models.NewPasswordResetToken{
		AccountID: account.ID,
		Token:     token,
		ExpiresAt: time.Now().Add(resetTokenTTL),
	})
	if err != nil {
		a.toSentry(c, "forgot_password", "db", sentry.LevelError, err)
		writeError(c, ErrCreateResetToken, nil)
		return
	}

	name := account.Email
	if profile, err := a.db.GetProfileByAccountID(c.Request.Context(), account.ID); err == nil {
		name = profile.Name
	}

	if err := a.email.SendPasswordReset(account.Email, name, token, resetURL()); err != nil {
		a.toSentry(c, "forgot_password", "email", sentry.LevelError, err)
		writeError(c, ErrSendEmail, nil)
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Success: true, Message: forgotPasswordMessage})
}

// HandleResetPassword consumes a reset token. Missing, used and expired
// tokens are indistinguishable to the caller.
func (a *App) HandleResetPassword(c *gin.Context) {
	var req ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, ErrUnmarshal, nil)
		return
	}

	if req.Password != req.PasswordConfirm {
		writeError(c, ErrPasswordMismatch, map[string]string{"field": "password_confirm"})
		return
	}

	if err := validatePassword(req.Password); err != nil {
		writeError(c, err.Error(), nil)
		return
	}

	resetToken, err := a.db.GetPasswordResetToken(c.Request.Context(), req.Token)
	if err != nil {
		if errors.Is(err, sqldb.ErrDBNotFound) {
			writeError(c, ErrInvalidResetToken, nil)
			return
		}
		a.toSentry(c, "reset_password", "db", sentry.LevelError, err)
		writeError(c, ErrResetPassword, nil)
		return
	}

	if resetToken.Used || time.Now().After(resetToken.ExpiresAt) {
		writeError(c, ErrInvalidResetToken, nil)
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcryptCost)
	if err != nil {
		a.toSentry(c, "reset_password", "bcrypt", sentry.LevelError, err)
		writeError(c, ErrHashPassword, nil)
		return
	}

	if err := a.db.UpdateAuthPassword(c.Request.Context(), resetToken.AccountID, hashed); err != nil {
		a.toSentry(c, "reset_password", "db", sentry.LevelError, err)
		writeError(c, ErrResetPassword, nil)
		return
	}

	// The password is already updated; a mark-used failure is logged only.
	if err := a.db.MarkPasswordResetTokenUsed(c.Request.Context(), resetToken.ID); err != nil {
		a.toSentry(c, "reset_password", "db_mark_used", sentry.LevelWarning, err)
	}

	c.JSON(http.StatusOK, MessageResponse{Success: true, Message: "Password has been reset successfully"})
}

func generateSecureToken(length int) (string, error) {
	bytes := make([]byte, length)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}

func resetURL() string {
	if url := os.Getenv("PASSWORD_RESET_URL"); url != "" {
		return url
	}
	return "https://app.ledgerdesk.local/reset-password"
}
