package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"path"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/ledgerdesk/ledgerdesk-service/internal/observability/metrics"
	"github.com/ledgerdesk/ledgerdesk-service/internal/saga"
	"github.com/ledgerdesk/ledgerdesk-service/internal/sdk/models"
	"github.com/ledgerdesk/ledgerdesk-service/internal/sdk/sqldb"
	"github.com/ledgerdesk/ledgerdesk-service/internal/services/sentry"
)

const maxUploadSize = 10 << 20 // 10 MB

// createClientWithAccount runs the three-step creation saga: auth account,
// profile, client row. On a step failure the completed steps are undone in
// reverse and the error is returned. The generated plain-text credential is
// returned alongside the client.
func (a *App) createClientWithAccount(ctx context.Context, req CreateClientRequest) (models.Client, string, error) {
	password, err := a.hash.GeneratePassword()
	if err != nil {
		return models.Client{}, "", fmt.Errorf("generating credential: %w", err)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return models.Client{}, "", fmt.Errorf("hashing credential: %w", err)
	}

	var (
		account models.AuthAccount
		client  models.Client
	)

	steps := []saga.Step{
		{
			Name: "create_auth_account",
			Run: func(ctx context.Context) error {
				account, err = a.db.CreateAuthAccount(ctx, models.NewAuthAccount{
					Email:    req.Email,
					Password: hashed,
				})
				return err
			},
			Compensate: func(ctx context.Context) error {
				return a.db.DeleteAuthAccount(ctx, account.ID)
			},
		},
		{
			Name: "create_profile",
			Run: func(ctx context.Context) error {
				_, err := a.db.CreateProfile(ctx, models.NewProfile{
					AccountID: account.ID,
					Name:      req.Name,
					Email:     req.Email,
					Phone:     req.Phone,
				})
				return err
			},
			Compensate: func(ctx context.Context) error {
				return a.db.DeleteProfileByAccountID(ctx, account.ID)
			},
		},
		{
			Name: "create_client",
			Run: func(ctx context.Context) error {
				client, err = a.db.CreateClient(ctx, models.NewClient{
					UserID:      account.ID,
					Name:        req.Name,
					CompanyName: req.CompanyName,
					Email:       req.Email,
					Phone:       req.Phone,
					Address:     req.Address,
				})
				return err
			},
		},
	}

	res, err := saga.Execute(ctx, steps)
	for _, warn := range res.Warnings {
		a.sentry.CaptureWithScope("create_client", "compensation", "", sentry.LevelWarning, warn)
	}
	if err != nil {
		metrics.ObserveSagaCompensation("create_client")
		return models.Client{}, "", err
	}

	a.passwords.Put(client.ID, password, client.Email)

	return client, password, nil
}

func (a *App) HandleCreateClient(c *gin.Context) {
	var req CreateClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, ErrUnmarshal, nil)
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)

	if errCode, validationErrors := validateCreateClientInput(req); errCode != "" {
		writeError(c, errCode, validationErrors)
		return
	}

	client, password, err := a.createClientWithAccount(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, sqldb.ErrDBDuplicatedEntry) {
			writeError(c, ErrClientExists, nil)
			return
		}
		a.toSentry(c, "create_client", "saga", sentry.LevelError, err)
		writeError(c, ErrCreateClient, nil)
		return
	}

	// The plain-text credential appears in this response only.
	c.JSON(http.StatusCreated, CreateClientResponse{
		Success:  true,
		Client:   client,
		Password: password,
	})
}

func (a *App) HandleListClients(c *gin.Context) {
	clients, err := a.db.ListClients(c.Request.Context())
	if err != nil {
		a.toSentry(c, "list_clients", "db", sentry.LevelError, err)
		writeError(c, ErrRetrieveClients, nil)
		return
	}

	c.JSON(http.StatusOK, okData(clients))
}

func (a *App) HandleGetClient(c *gin.Context) {
	clientID := c.Param("id")

	client, err := a.db.GetClientByID(c.Request.Context(), clientID)
	if err != nil {
		if errors.Is(err, sqldb.ErrDBNotFound) {
			writeError(c, ErrClientNotFound, nil)
			return
		}
		a.toSentry(c, "get_client", "db", sentry.LevelError, err)
		writeError(c, ErrRetrieveClients, nil)
		return
	}

	if files, err := a.db.ListClientFiles(c.Request.Context(), clientID); err == nil {
		client.FileRefs = files
	}

	c.JSON(http.StatusOK, okData(client))
}

// HandleUpdateClient applies the same field set to the client row and the
// linked profile row as two independent updates. A failure of one does not
// roll back the other; the response reports what was applied.
func (a *App) HandleUpdateClient(c *gin.Context) {
	clientID := c.Param("id")

	var req models.UpdateClient
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, ErrUnmarshal, nil)
		return
	}

	if req.Email != nil && !validEmail(*req.Email) {
		writeError(c, ErrInvalidEmail, map[string]string{"email": "invalid_email_format"})
		return
	}

	client, err := a.db.GetClientByID(c.Request.Context(), clientID)
	if err != nil {
		if errors.Is(err, sqldb.ErrDBNotFound) {
			writeError(c, ErrClientNotFound, nil)
			return
		}
		a.toSentry(c, "update_client", "db", sentry.LevelError, err)
		writeError(c, ErrUpdateClient, nil)
		return
	}

	applied := make([]string, 0, 2)
	failed := make(map[string]string)

	if err := a.db.UpdateClient(c.Request.Context(), clientID, req); err != nil {
		a.toSentry(c, "update_client", "db_client", sentry.LevelError, err)
		failed["client"] = ErrUpdateClient
	} else {
		applied = append(applied, "client")
	}

	if err := a.db.UpdateProfile(c.Request.Context(), client.UserID, req); err != nil {
		a.toSentry(c, "update_client", "db_profile", sentry.LevelError, err)
		failed["profile"] = ErrUpdateClient
	} else {
		applied = append(applied, "profile")
	}

	if len(applied) == 0 {
		writeError(c, ErrUpdateClient, failed)
		return
	}

	resp := UpdateClientResponse{Success: true, Applied: applied}
	if len(failed) > 0 {
		resp.Failed = failed
	}
	c.JSON(http.StatusOK, resp)
}

// HandleDeleteClient removes a client and everything hanging off it. The
// dependent tables go first, in a fixed order, aborting on the first error.
// Once the client row is gone the remaining cleanup is best-effort only.
func (a *App) HandleDeleteClient(c *gin.Context) {
	clientID := c.Param("id")
	ctx := c.Request.Context()

	client, err := a.db.GetClientByID(ctx, clientID)
	if err != nil {
		if errors.Is(err, sqldb.ErrDBNotFound) {
			writeError(c, ErrClientNotFound, nil)
			return
		}
		a.toSentry(c, "delete_client", "db", sentry.LevelError, err)
		writeError(c, ErrDeleteClient, nil)
		return
	}

	fileRefs, err := a.db.ListClientFiles(ctx, clientID)
	if err != nil {
		a.toSentry(c, "delete_client", "db_files", sentry.LevelWarning, err)
	}

	ordered := []struct {
		name string
		fn   func(context.Context, string) error
	}{
		{"tickets", a.db.DeleteTicketsByClient},
		{"receipts", a.db.DeleteReceiptsByClient},
		{"invoices", a.db.DeleteInvoicesByClient},
		{"quotations", a.db.DeleteQuotationsByClient},
		{"updates", a.db.DeleteUpdatesByClient},
		{"files", a.db.DeleteClientFiles},
	}
	for _, step := range ordered {
		if err := step.fn(ctx, clientID); err != nil {
			a.toSentry(c, "delete_client", "db_"+step.name, sentry.LevelError, err)
			writeError(c, ErrDeleteClient, map[string]string{"step": step.name})
			return
		}
	}

	if err := a.db.DeleteProfileByAccountID(ctx, client.UserID); err != nil && !errors.Is(err, sqldb.ErrDBNotFound) {
		a.toSentry(c, "delete_client", "db_profile", sentry.LevelError, err)
		writeError(c, ErrDeleteClient, map[string]string{"step": "profile"})
		return
	}

	if err := a.db.DeleteClient(ctx, clientID); err != nil {
		a.toSentry(c, "delete_client", "db_client", sentry.LevelError, err)
		writeError(c, ErrDeleteClient, map[string]string{"step": "client"})
		return
	}

	// Best-effort tail. The client row is gone; failures here are reported
	// as warnings, never as a failed delete.
	var warnings []string
	if err := a.db.DeleteAuthAccount(ctx, client.UserID); err != nil && !errors.Is(err, sqldb.ErrDBNotFound) {
		a.toSentry(c, "delete_client", "auth_account", sentry.LevelWarning, err)
		warnings = append(warnings, "auth_account")
	}
	a.passwords.Delete(clientID)
	for _, ref := range fileRefs {
		if err := a.storage.Delete(ctx, ref); err != nil {
			a.toSentry(c, "delete_client", "storage", sentry.LevelWarning, err)
			warnings = append(warnings, "file:"+ref)
		}
	}

	c.JSON(http.StatusOK, DeleteClientResponse{Success: true, Warnings: warnings})
}

// HandleClientDeletionSummary reports what a delete would remove, without
// removing anything.
func (a *App) HandleClientDeletionSummary(c *gin.Context) {
	clientID := c.Param("id")
	ctx := c.Request.Context()

	if _, err := a.db.GetClientByID(ctx, clientID); err != nil {
		if errors.Is(err, sqldb.ErrDBNotFound) {
			writeError(c, ErrClientNotFound, nil)
			return
		}
		a.toSentry(c, "deletion_summary", "db", sentry.LevelError, err)
		writeError(c, ErrRetrieveClients, nil)
		return
	}

	summary := models.DeletionSummary{ClientID: clientID}

	counts := []struct {
		dst *int
		fn  func(context.Context, string) (int, error)
	}{
		{&summary.Tickets, a.db.CountTicketsByClient},
		{&summary.Receipts, a.db.CountReceiptsByClient},
		{&summary.Invoices, a.db.CountInvoicesByClient},
		{&summary.Quotations, a.db.CountQuotationsByClient},
		{&summary.Updates, a.db.CountUpdatesByClient},
	}
	for _, count := range counts {
		n, err := count.fn(ctx, clientID)
		if err != nil {
			a.toSentry(c, "deletion_summary", "db_count", sentry.LevelError, err)
			writeError(c, ErrRetrieveClients, nil)
			return
		}
		*count.dst = n
	}

	files, err := a.db.ListClientFiles(ctx, clientID)
	if err != nil {
		a.toSentry(c, "deletion_summary", "db_files", sentry.LevelError, err)
		writeError(c, ErrRetrieveClients, nil)
		return
	}
	summary.FileRefs = files

	c.JSON(http.StatusOK, okData(summary))
}

// HandleGetClientPassword returns the cached plain-text credential while it
// is still within its retention window. Admin only.
func (a *App) HandleGetClientPassword(c *gin.Context) {
	clientID := c.Param("id")

	if _, err := a.db.GetClientByID(c.Request.Context(), clientID); err != nil {
		if errors.Is(err, sqldb.ErrDBNotFound) {
			writeError(c, ErrClientNotFound, nil)
			return
		}
		a.toSentry(c, "get_client_password", "db", sentry.LevelError, err)
		writeError(c, ErrRetrieveClients, nil)
		return
	}

	entry, ok := a.passwords.Get(clientID)
	if !ok {
		writeError(c, ErrPasswordNotCached, nil)
		return
	}

	c.JSON(http.StatusOK, ClientPasswordResponse{
		Success:  true,
		Password: entry.Password,
		StoredAt: entry.StoredAt,
	})
}

func (a *App) HandleUploadClientFile(c *gin.Context) {
	clientID := c.Param("id")
	ctx := c.Request.Context()

	if _, err := a.db.GetClientByID(ctx, clientID); err != nil {
		if errors.Is(err, sqldb.ErrDBNotFound) {
			writeError(c, ErrClientNotFound, nil)
			return
		}
		a.toSentry(c, "upload_client_file", "db", sentry.LevelError, err)
		writeError(c, ErrUploadFile, nil)
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		writeError(c, ErrMissingFields, map[string]string{"file": "file_required"})
		return
	}
	if fileHeader.Size > maxUploadSize {
		writeError(c, ErrUnmarshal, map[string]string{"file": "file_too_large"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		a.toSentry(c, "upload_client_file", "open", sentry.LevelError, err)
		writeError(c, ErrUploadFile, nil)
		return
	}
	defer file.Close()

	objectName := fmt.Sprintf("clients/%s/%s%s", clientID, uuid.NewString(), path.Ext(fileHeader.Filename))
	contentType := fileHeader.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	if err := a.storage.Upload(ctx, objectName, file, fileHeader.Size, contentType); err != nil {
		a.toSentry(c, "upload_client_file", "storage", sentry.LevelError, err)
		writeError(c, ErrUploadFile, nil)
		return
	}

	if err := a.db.AddClientFile(ctx, clientID, objectName); err != nil {
		a.toSentry(c, "upload_client_file", "db", sentry.LevelError, err)
		// Keep storage consistent with the tracked refs.
		if delErr := a.storage.Delete(ctx, objectName); delErr != nil {
			a.toSentry(c, "upload_client_file", "storage_cleanup", sentry.LevelWarning, delErr)
		}
		writeError(c, ErrUploadFile, nil)
		return
	}

	c.JSON(http.StatusCreated, okData(gin.H{"object": objectName, "url": a.storage.GetPublicURL(objectName)}))
}
