package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/raylene/casework/docs"
	"github.com/raylene/casework/internal/api/handler"
	"github.com/raylene/casework/internal/api/middleware"
	"github.com/raylene/casework/internal/core/domain"
	"github.com/raylene/casework/internal/core/ports"
	"github.com/raylene/casework/internal/pkg/security"
)

// Deps carries everything the HTTP layer needs.
type Deps struct {
	Logger zerolog.Logger
	Tokens *security.TokenManager

	Identity       ports.IdentityService
	Auth           ports.AuthService
	Applications   ports.ApplicationService
	Tasks          ports.TaskService
	Documents      ports.DocumentService
	Bookings       ports.BookingService
	Billing        ports.BillingService
	Communications ports.CommunicationService
	Content        ports.ContentService
	Audit          ports.AuditService

	Readiness *handler.HealthDependenciesHandler
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Logger)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(d.Logger))
	e.Use(middleware.Metrics())

	// --- Ops (no auth required) ---
	e.GET("/health", handler.NewHealthHandler().Liveness)
	if d.Readiness != nil {
		e.GET("/health/ready", d.Readiness.Readiness)
	}
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	authed := []echo.MiddlewareFunc{middleware.Auth(d.Tokens), middleware.LoadPrincipal(d.Identity)}
	admin := append(authed[:len(authed):len(authed)], middleware.RequireRole(domain.Administrators))
	staff := append(authed[:len(authed):len(authed)], middleware.RBAC(domain.StaffRoles))

	api := e.Group("/api")

	// --- Auth & me ---
	authH := handler.NewAuthHandler(d.Auth)
	api.POST("/auth/register", authH.Register)
	api.POST("/auth/login", authH.Login)
	api.POST("/auth/refresh", authH.Refresh)
	api.POST("/auth/logout", authH.Logout)
	api.GET("/auth/2fa/setup", authH.Setup2FA, authed...)
	api.POST("/auth/2fa/verify", authH.Verify2FA)
	api.GET("/me", authH.Me, authed...)
	api.PATCH("/me", authH.UpdateMe, authed...)
	api.POST("/me/change-password", authH.ChangePassword, authed...)

	adminH := handler.NewAdminHandler(d.Identity)
	api.POST("/admin/users/:id/roles/:role", adminH.AssignRole, admin...)
	api.DELETE("/admin/users/:id/roles/:role", adminH.RevokeRole, admin...)

	// --- Applications ---
	appH := handler.NewApplicationHandler(d.Applications, d.Tasks)
	api.GET("/applications/types", appH.ListTypes)
	api.GET("/applications/types/:slug", appH.GetType)
	api.POST("/applications/types", appH.CreateType, authed...)
	api.DELETE("/applications/types/:id", appH.DeleteType, authed...)
	api.GET("/applications", appH.List, authed...)
	api.POST("/applications", appH.Create, authed...)
	api.GET("/applications/:id", appH.Get, authed...)
	api.PATCH("/applications/:id", appH.Update, authed...)
	api.DELETE("/applications/:id", appH.Delete, authed...)
	api.PATCH("/applications/:id/status", appH.UpdateStatus, authed...)
	api.GET("/applications/:id/history", appH.History, authed...)
	api.POST("/applications/:id/tasks", appH.AddTask, authed...)

	taskH := handler.NewTaskHandler(d.Tasks)
	api.GET("/tasks", taskH.List, authed...)
	api.PATCH("/tasks/:id", taskH.Update, authed...)
	api.PATCH("/tasks/:id/complete", taskH.Complete, authed...)

	// --- Documents ---
	docH := handler.NewDocumentHandler(d.Documents)
	api.GET("/documents/types", docH.ListTypes, authed...)
	api.POST("/documents/types", docH.CreateType, authed...)
	api.POST("/documents/uploads/presign", docH.Presign, authed...)
	api.GET("/documents", docH.List, authed...)
	api.POST("/documents", docH.Upload, authed...)
	api.GET("/documents/:id", docH.Get, authed...)
	api.PATCH("/documents/:id/review", docH.Review, authed...)

	// --- Bookings ---
	bookH := handler.NewBookingHandler(d.Bookings)
	api.GET("/bookings/availability", bookH.ListSlots, authed...)
	api.POST("/bookings/availability", bookH.PublishSlot, authed...)
	api.GET("/bookings", bookH.List, authed...)
	api.POST("/bookings", bookH.Create, authed...)
	api.PATCH("/bookings/:id/status", bookH.UpdateStatus, authed...)

	// --- Billing ---
	billH := handler.NewBillingHandler(d.Billing)
	api.GET("/billing/invoices", billH.ListInvoices, authed...)
	api.POST("/billing/invoices", billH.CreateInvoice, authed...)
	api.GET("/billing/invoices/:id", billH.GetInvoice, authed...)
	api.POST("/billing/invoices/:id/payments", billH.RecordPayment, authed...)
	api.POST("/billing/invoices/:id/void", billH.VoidInvoice, authed...)
	api.GET("/billing/payments", billH.ListPayments, authed...)

	// --- Communications ---
	commH := handler.NewCommunicationHandler(d.Communications)
	api.GET("/communications/messages", commH.ListMessages, authed...)
	api.POST("/communications/messages", commH.SendMessage, authed...)
	api.GET("/communications/notifications", commH.ListNotifications, authed...)
	api.PATCH("/communications/notifications/:id/read", commH.MarkRead, authed...)
	api.GET("/communications/templates", commH.ListTemplates, authed...)
	api.GET("/communications/templates/:code", commH.GetTemplate, authed...)

	// --- Content (public reads) ---
	contentH := handler.NewContentHandler(d.Content)
	api.GET("/content/blog", contentH.ListPosts)
	api.GET("/content/blog/:slug", contentH.GetPost)
	api.GET("/content/pages/:slug", contentH.GetPage)
	api.POST("/content/blog", contentH.CreatePost, admin...)
	api.POST("/content/blog/:slug/publish", contentH.PublishPost, admin...)
	api.PUT("/content/pages/:slug/:locale", contentH.UpsertPage, admin...)

	// --- Audit ---
	auditH := handler.NewAuditHandler(d.Audit)
	api.GET("/audit-logs", auditH.List, staff...)

	return e
}

// requestLogger writes one zerolog line per request.
func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRemoteIP:  true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			evt := log.Info()
			if v.Error != nil || v.Status >= 500 {
				evt = log.Error().Err(v.Error)
			}
			evt.
				Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("remote_ip", v.RemoteIP).
				Str("request_id", v.RequestID).
				Msg("request")
			return nil
		},
	})
}
