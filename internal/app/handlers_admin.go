package app

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ledgerdesk/ledgerdesk-service/internal/services/sentry"
)

// HandlePurgeExpired drops expired password reset tokens and expired
// credential cache entries. Admin only.
func (a *App) HandlePurgeExpired(c *gin.Context) {
	tokens, err := a.db.DeleteExpiredPasswordResetTokens(c.Request.Context())
	if err != nil {
		a.toSentry(c, "purge_expired", "db", sentry.LevelError, err)
		writeError(c, ErrMaintenance, nil)
		return
	}

	entries := a.passwords.PurgeExpired()

	c.JSON(http.StatusOK, PurgeExpiredResponse{
		Success:       true,
		TokensPurged:  tokens,
		EntriesPurged: entries,
	})
}
