// Package app provides the HTTP handlers for the ledgerdesk service.
package app

import (
	"github.com/gin-gonic/gin"

	"github.com/ledgerdesk/ledgerdesk-service/internal/passcache"
	"github.com/ledgerdesk/ledgerdesk-service/internal/sdk/sqldb"
	"github.com/ledgerdesk/ledgerdesk-service/internal/services/hash"
	"github.com/ledgerdesk/ledgerdesk-service/internal/services/jwt"
	"github.com/ledgerdesk/ledgerdesk-service/internal/services/mailer"
	"github.com/ledgerdesk/ledgerdesk-service/internal/services/pdf"
	"github.com/ledgerdesk/ledgerdesk-service/internal/services/sentry"
	"github.com/ledgerdesk/ledgerdesk-service/internal/services/storage"
)

type App struct {
	db        sqldb.Service
	sentry    *sentry.SentryService
	jwt       *jwt.TokenService
	hash      *hash.HashService
	email     mailer.Service
	pdf       pdf.Renderer
	storage   *storage.StorageService
	passwords *passcache.Cache
}

func NewApp(
	db sqldb.Service,
	sentrySvc *sentry.SentryService,
	jwtSvc *jwt.TokenService,
	hashSvc *hash.HashService,
	email mailer.Service,
	renderer pdf.Renderer,
	storageSvc *storage.StorageService,
	passwords *passcache.Cache,
) *App {
	return &App{
		db:        db,
		sentry:    sentrySvc,
		jwt:       jwtSvc,
		hash:      hashSvc,
		email:     email,
		pdf:       renderer,
		storage:   storageSvc,
		passwords: passwords,
	}
}

func (a *App) toSentry(c *gin.Context, handler, errType string, level sentry.Level, err error) {
	a.sentry.CaptureWithScope(handler, errType, c.GetHeader("X-Request-ID"), level, err)
}
