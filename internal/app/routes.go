package app

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ledgerdesk/ledgerdesk-service/internal/sdk/middleware"
)

// ----------------------------------------------------------------------------
// Route Registration
// ----------------------------------------------------------------------------

func (a *App) RegisterRoutes() *gin.Engine {
	router := gin.New()

	// Global middleware chain
	router.Use(gin.Recovery())
	router.Use(middleware.Logger())
	router.Use(middleware.CORS())
	router.Use(middleware.Metrics())

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// API v1 route group
	v1 := router.Group("/api/v1")
	{
		// Health check routes (public)
		health := v1.Group("/health")
		{
			health.GET("/readiness", a.HandleReadiness)
			health.GET("/liveness", a.HandleLiveness)
		}

		// Auth routes (public)
		auth := v1.Group("/auth")
		{
			auth.POST("/login", a.HandleLogin)
			auth.POST("/refresh", a.HandleRefresh)
			auth.POST("/forgot-password", a.HandleForgotPassword)
			auth.POST("/reset-password", a.HandleResetPassword)
		}

		// Authenticated routes
		authed := v1.Group("")
		authed.Use(middleware.Authenticate(a.jwt))
		{
			authed.POST("/auth/change-password", a.HandleChangePassword)

			clients := authed.Group("/clients")
			{
				clients.POST("", a.HandleCreateClient)
				clients.GET("", a.HandleListClients)
				clients.GET("/:id", a.HandleGetClient)
				clients.PUT("/:id", a.HandleUpdateClient)
				clients.DELETE("/:id", a.HandleDeleteClient)
				clients.GET("/:id/deletion-summary", a.HandleClientDeletionSummary)
				clients.POST("/:id/files", a.HandleUploadClientFile)
				clients.GET("/:id/password", middleware.Admin(), a.HandleGetClientPassword)
			}

			invoices := authed.Group("/invoices")
			{
				invoices.POST("", a.HandleCreateInvoice)
				invoices.GET("", a.HandleListInvoices)
				invoices.GET("/:id", a.HandleGetInvoice)
				invoices.PUT("/:id", a.HandleUpdateInvoice)
				invoices.DELETE("/:id", a.HandleDeleteInvoice)
				invoices.POST("/:id/payments", a.HandleRecordPayment)
				invoices.POST("/:id/send", a.HandleSendInvoice)
				invoices.GET("/:id/pdf", a.HandleInvoicePDF)
			}

			quotations := authed.Group("/quotations")
			{
				quotations.POST("", a.HandleCreateQuotation)
				quotations.GET("", a.HandleListQuotations)
				quotations.GET("/:id", a.HandleGetQuotation)
				quotations.POST("/:id/approve", a.HandleApproveQuotation)
				quotations.POST("/:id/reject", a.HandleRejectQuotation)
				quotations.POST("/:id/send", a.HandleSendQuotation)
				quotations.GET("/:id/pdf", a.HandleQuotationPDF)
				quotations.DELETE("/:id", a.HandleDeleteQuotation)
			}

			receipts := authed.Group("/receipts")
			{
				receipts.GET("", a.HandleListReceipts)
				receipts.GET("/:id", a.HandleGetReceipt)
				receipts.POST("/:id/send", a.HandleSendReceipt)
			}

			tickets := authed.Group("/tickets")
			{
				tickets.POST("", a.HandleCreateTicket)
				tickets.GET("", a.HandleListTickets)
				tickets.GET("/:id", a.HandleGetTicket)
				tickets.PUT("/:id", a.HandleUpdateTicket)
				tickets.DELETE("/:id", a.HandleDeleteTicket)
			}

			updates := authed.Group("/updates")
			{
				updates.POST("", a.HandleCreateUpdate)
				updates.GET("", a.HandleListUpdates)
				updates.DELETE("/:id", a.HandleDeleteUpdate)
			}

			branding := authed.Group("/branding")
			{
				branding.GET("", a.HandleGetBranding)
				branding.PUT("", a.HandleUpdateBranding)
				branding.POST("/logo", a.HandleUploadLogo)
			}

			admin := authed.Group("/admin", middleware.Admin())
			{
				admin.POST("/maintenance/purge-expired", a.HandlePurgeExpired)
			}
		}
	}

	return router
}
