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

var ticketStatuses = map[string]bool{
	models.TicketStatusOpen:       true,
	models.TicketStatusInProgress: true,
	models.TicketStatusClosed:     true,
}

func (a *App) HandleCreateTicket(c *gin.Context) {
	var req CreateTicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, ErrUnmarshal, nil)
		return
	}

	if strings.TrimSpace(req.Subject) == "" || strings.TrimSpace(req.Body) == "" {
		writeError(c, ErrMissingFields, map[string]string{"subject": "subject_and_body_required"})
		return
	}

	if req.ClientID != nil {
		if _, err := a.db.GetClientByID(c.Request.Context(), *req.ClientID); err != nil {
			if errors.Is(err, sqldb.ErrDBNotFound) {
				writeError(c, ErrClientNotFound, nil)
				return
			}
			a.toSentry(c, "create_ticket", "db_client", sentry.LevelError, err)
			writeError(c, ErrCreateTicket, nil)
			return
		}
	}

	ticket, err := a.db.CreateTicket(c.Request.Context(), models.NewTicket{
		ClientID: req.ClientID,
		Subject:  req.Subject,
		Body:     req.Body,
	})
	if err != nil {
		a.toSentry(c, "create_ticket", "db", sentry.LevelError, err)
		writeError(c, ErrCreateTicket, nil)
		return
	}

	c.JSON(http.StatusCreated, okData(ticket))
}

func (a *App) HandleListTickets(c *gin.Context) {
	tickets, err := a.db.ListTickets(c.Request.Context())
	if err != nil {
		a.toSentry(c, "list_tickets", "db", sentry.LevelError, err)
		writeError(c, ErrRetrieveTickets, nil)
		return
	}

	c.JSON(http.StatusOK, okData(tickets))
}

func (a *App) HandleGetTicket(c *gin.Context) {
	ticket, err := a.db.GetTicketByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, sqldb.ErrDBNotFound) {
			writeError(c, ErrTicketNotFound, nil)
			return
		}
		a.toSentry(c, "get_ticket", "db", sentry.LevelError, err)
		writeError(c, ErrRetrieveTickets, nil)
		return
	}

	c.JSON(http.StatusOK, okData(ticket))
}

func (a *App) HandleUpdateTicket(c *gin.Context) {
	ticketID := c.Param("id")

	var req UpdateTicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, ErrUnmarshal, nil)
		return
	}

	if !ticketStatuses[req.Status] {
		writeError(c, ErrInvalidStatus, map[string]string{"status": "unknown_ticket_status"})
		return
	}

	if _, err := a.db.GetTicketByID(c.Request.Context(), ticketID); err != nil {
		if errors.Is(err, sqldb.ErrDBNotFound) {
			writeError(c, ErrTicketNotFound, nil)
			return
		}
		a.toSentry(c, "update_ticket", "db", sentry.LevelError, err)
		writeError(c, ErrRetrieveTickets, nil)
		return
	}

	if err := a.db.UpdateTicketStatus(c.Request.Context(), ticketID, req.Status); err != nil {
		a.toSentry(c, "update_ticket", "db", sentry.LevelError, err)
		writeError(c, ErrRetrieveTickets, nil)
		return
	}

	ticket, err := a.db.GetTicketByID(c.Request.Context(), ticketID)
	if err != nil {
		a.toSentry(c, "update_ticket", "db_reload", sentry.LevelError, err)
		writeError(c, ErrRetrieveTickets, nil)
		return
	}

	c.JSON(http.StatusOK, okData(ticket))
}

func (a *App) HandleDeleteTicket(c *gin.Context) {
	ticketID := c.Param("id")

	if _, err := a.db.GetTicketByID(c.Request.Context(), ticketID); err != nil {
		if errors.Is(err, sqldb.ErrDBNotFound) {
			writeError(c, ErrTicketNotFound, nil)
			return
		}
		a.toSentry(c, "delete_ticket", "db", sentry.LevelError, err)
		writeError(c, ErrRetrieveTickets, nil)
		return
	}

	if err := a.db.DeleteTicket(c.Request.Context(), ticketID); err != nil {
		a.toSentry(c, "delete_ticket", "db", sentry.LevelError, err)
		writeError(c, ErrRetrieveTickets, nil)
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Success: true, Message: "Ticket deleted"})
}
