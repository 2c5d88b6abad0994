package app

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"github.com/ledgerdesk/ledgerdesk-service/internal/sdk/middleware"
	"github.com/ledgerdesk/ledgerdesk-service/internal/sdk/sqldb"
	"github.com/ledgerdesk/ledgerdesk-service/internal/services/jwt"
	"github.com/ledgerdesk/ledgerdesk-service/internal/services/sentry"
)

func (a *App) HandleLogin(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, ErrUnmarshal, nil)
		return
	}

	req.Email = strings.TrimSpace(req.Email)

	if validationErrors := validateLoginInput(req); len(validationErrors) > 0 {
		writeError(c, ErrMissingFields, validationErrors)
		return
	}

	account, err := a.db.GetAuthAccountByEmail(c.Request.Context(), req.Email)
	if err != nil {
		if errors.Is(err, sqldb.ErrDBNotFound) {
			writeError(c, ErrInvalidCredentials, nil)
			return
		}
		a.toSentry(c, "login", "db", sentry.LevelError, err)
		writeError(c, ErrProcessLogin, nil)
		return
	}

	// Same error for unknown email and wrong password.
	if err := bcrypt.CompareHashAndPassword(account.Password, []byte(req.Password)); err != nil {
		writeError(c, ErrInvalidCredentials, nil)
		return
	}

	pair, err := a.jwt.GenerateToken(account.ID, account.Email, account.IsAdmin)
	if err != nil {
		a.toSentry(c, "login", "jwt", sentry.LevelError, err)
		writeError(c, ErrGenerateTokens, nil)
		return
	}

	c.JSON(http.StatusOK, TokenResponse{
		Success:      true,
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	})
}

func (a *App) HandleRefresh(c *gin.Context) {
	var req RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, ErrUnmarshal, nil)
		return
	}

	if strings.TrimSpace(req.RefreshToken) == "" {
		writeError(c, ErrMissingFields, map[string]string{"refresh_token": "refresh_token_required"})
		return
	}

	pair, err := a.jwt.RefreshToken(req.RefreshToken)
	if err != nil {
		var errCode string
		switch {
		case errors.Is(err, jwt.ErrExpiredToken):
			errCode = ErrExpiredToken
		case errors.Is(err, jwt.ErrInvalidToken), errors.Is(err, jwt.ErrInvalidTokenType):
			errCode = ErrInvalidToken
		default:
			errCode = ErrUnauthorized
		}
		writeError(c, errCode, nil)
		return
	}

	c.JSON(http.StatusOK, TokenResponse{
		Success:      true,
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	})
}

func (a *App) HandleChangePassword(c *gin.Context) {
	accountID, ok := middleware.GetUserID(c)
	if !ok {
		writeError(c, ErrUnauthorized, nil)
		return
	}

	var req ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, ErrUnmarshal, nil)
		return
	}

	if req.NewPassword != req.PasswordConfirm {
		writeError(c, ErrPasswordMismatch, map[string]string{"field": "password_confirm"})
		return
	}

	if err := validatePassword(req.NewPassword); err != nil {
		writeError(c, err.Error(), nil)
		return
	}

	account, err := a.db.GetAuthAccountByID(c.Request.Context(), accountID)
	if err != nil {
		if errors.Is(err, sqldb.ErrDBNotFound) {
			writeError(c, ErrAccountNotFound, nil)
			return
		}
		a.toSentry(c, "change_password", "db", sentry.LevelError, err)
		writeError(c, ErrUpdatePassword, nil)
		return
	}

	if err := bcrypt.CompareHashAndPassword(account.Password, []byte(req.CurrentPassword)); err != nil {
		writeError(c, ErrPasswordMismatch, map[string]string{"field": "current_password"})
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcryptCost)
	if err != nil {
		a.toSentry(c, "change_password", "bcrypt", sentry.LevelError, err)
		writeError(c, ErrHashPassword, nil)
		return
	}

	if err := a.db.UpdateAuthPassword(c.Request.Context(), accountID, hashed); err != nil {
		a.toSentry(c, "change_password", "db", sentry.LevelError, err)
		writeError(c, ErrUpdatePassword, nil)
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Success: true, Message: "Password has been changed successfully"})
}
