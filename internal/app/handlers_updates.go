package app

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/ledgerdesk/ledgerdesk-service/internal/sdk/models"
	"github.com/ledgerdesk/ledgerdesk-service/internal/sdk/sqldb"
	"github.com/ledgerdesk/ledgerdesk-service/internal/services/sentry"
)

func (a *App) HandleCreateUpdate(c *gin.Context) {
	var req CreateUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, ErrUnmarshal, nil)
		return
	}

	if strings.TrimSpace(req.Title) == "" || strings.TrimSpace(req.Body) == "" {
		writeError(c, ErrMissingFields, map[string]string{"title": "title_and_body_required"})
		return
	}

	if req.ClientID != nil {
		if _, err := a.db.GetClientByID(c.Request.Context(), *req.ClientID); err != nil {
			if errors.Is(err, sqldb.ErrDBNotFound) {
				writeError(c, ErrClientNotFound, nil)
				return
			}
			a.toSentry(c, "create_update", "db_client", sentry.LevelError, err)
			writeError(c, ErrCreateUpdate, nil)
			return
		}
	}

	update, err := a.db.CreateUpdate(c.Request.Context(), models.NewUpdate{
		ClientID: req.ClientID,
		Title:    req.Title,
		Body:     req.Body,
	})
	if err != nil {
		a.toSentry(c, "create_update", "db", sentry.LevelError, err)
		writeError(c, ErrCreateUpdate, nil)
		return
	}

	c.JSON(http.StatusCreated, okData(update))
}

func (a *App) HandleListUpdates(c *gin.Context) {
	updates, err := a.db.ListUpdates(c.Request.Context())
	if err != nil {
		a.toSentry(c, "list_updates", "db", sentry.LevelError, err)
		writeError(c, ErrRetrieveUpdates, nil)
		return
	}

	c.JSON(http.StatusOK, okData(updates))
}

func (a *App) HandleDeleteUpdate(c *gin.Context) {
	if err := a.db.DeleteUpdate(c.Request.Context(), c.Param("id")); err != nil {
		if errors.Is(err, sqldb.ErrDBNotFound) {
			writeError(c, ErrUpdateNotFound, nil)
			return
		}
		a.toSentry(c, "delete_update", "db", sentry.LevelError, err)
		writeError(c, ErrRetrieveUpdates, nil)
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Success: true, Message: "Update deleted"})
}
