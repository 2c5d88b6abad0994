package app

import (
	"errors"
	"fmt"
	"net/http"
	"path"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ledgerdesk/ledgerdesk-service/internal/sdk/models"
	"github.com/ledgerdesk/ledgerdesk-service/internal/sdk/sqldb"
	"github.com/ledgerdesk/ledgerdesk-service/internal/services/sentry"
)

func (a *App) HandleGetBranding(c *gin.Context) {
	settings, err := a.db.GetBrandingSettings(c.Request.Context())
	if err != nil {
		if errors.Is(err, sqldb.ErrDBNotFound) {
			c.JSON(http.StatusOK, okData(models.BrandingSettings{CompanyName: "Ledgerdesk"}))
			return
		}
		a.toSentry(c, "get_branding", "db", sentry.LevelError, err)
		writeError(c, ErrRetrieveBranding, nil)
		return
	}

	c.JSON(http.StatusOK, okData(settings))
}

func (a *App) HandleUpdateBranding(c *gin.Context) {
	var req models.UpdateBrandingSettings
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, ErrUnmarshal, nil)
		return
	}

	settings, err := a.db.UpdateBrandingSettings(c.Request.Context(), req)
	if err != nil {
		a.toSentry(c, "update_branding", "db", sentry.LevelError, err)
		writeError(c, ErrUpdateBranding, nil)
		return
	}

	c.JSON(http.StatusOK, okData(settings))
}

// HandleUploadLogo stores the logo with resized variants and records the
// object name in the branding settings.
func (a *App) HandleUploadLogo(c *gin.Context) {
	ctx := c.Request.Context()

	fileHeader, err := c.FormFile("logo")
	if err != nil {
		writeError(c, ErrMissingFields, map[string]string{"logo": "logo_file_required"})
		return
	}
	if fileHeader.Size > maxUploadSize {
		writeError(c, ErrUnmarshal, map[string]string{"logo": "file_too_large"})
		return
	}

	contentType := fileHeader.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		writeError(c, ErrUnmarshal, map[string]string{"logo": "image_required"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		a.toSentry(c, "upload_logo", "open", sentry.LevelError, err)
		writeError(c, ErrUploadFile, nil)
		return
	}
	defer file.Close()

	objectName := fmt.Sprintf("branding/logo-%s%s", uuid.NewString(), path.Ext(fileHeader.Filename))

	if err := a.storage.UploadLogoWithVariants(ctx, objectName, file, contentType); err != nil {
		a.toSentry(c, "upload_logo", "storage", sentry.LevelError, err)
		writeError(c, ErrUploadFile, nil)
		return
	}

	// Previous logo objects are replaced, not accumulated.
	if previous, err := a.db.GetBrandingSettings(ctx); err == nil && previous.LogoObject != nil {
		if err := a.storage.DeleteWithVariants(ctx, *previous.LogoObject); err != nil {
			a.toSentry(c, "upload_logo", "storage_cleanup", sentry.LevelWarning, err)
		}
	}

	settings, err := a.db.UpdateBrandingSettings(ctx, models.UpdateBrandingSettings{LogoObject: &objectName})
	if err != nil {
		a.toSentry(c, "upload_logo", "db", sentry.LevelError, err)
		writeError(c, ErrUpdateBranding, nil)
		return
	}

	c.JSON(http.StatusOK, okData(gin.H{
		"settings": settings,
		"logo_url": a.storage.GetPublicURL(objectName),
	}))
}
