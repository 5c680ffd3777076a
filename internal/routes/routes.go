package routes

import (
	"net/http"

	"github.com/casetrack/casetrack/internal/app"
	"github.com/casetrack/casetrack/internal/handler"
	"github.com/casetrack/casetrack/internal/metrics"
	"github.com/casetrack/casetrack/internal/middleware"
	"github.com/casetrack/casetrack/internal/storage"
)

func SetupRoutes(app *app.App) http.Handler {
	// Handlers
	health := handler.NewHealthHandler(app.DB)
	auth := handler.NewAuthHandler(app.AuthService)
	password := handler.NewPasswordHandler(app.PasswordResetService)
	cases := handler.NewCaseHandler(app.CaseService, app.Cfg.MaxUploadSize)
	export := handler.NewExportHandler(app.ExportService)
	reports := handler.NewReportHandler(app.ReportService)
	users := handler.NewUserHandler(app.UserService, app.CatalogService)

	mux := http.NewServeMux()

	// ============================================================================
	// OPERATIONS
	// ============================================================================

	mux.HandleFunc("GET /healthz", health.Healthz)
	mux.Handle("GET /metrics", metrics.Handler(app.Metrics))

	// Case images, only when kept on local disk
	if local, ok := app.Storage.(*storage.LocalStorage); ok {
		mux.Handle("GET "+local.URLPrefix, http.StripPrefix(local.URLPrefix, http.FileServer(http.Dir(local.Root))))
	}

	// ============================================================================
	// AUTH (rate limited per IP)
	// ============================================================================

	loginLimiter := middleware.RateLimitAuth()
	resetLimiter := middleware.RateLimitAuth()

	mux.HandleFunc("POST /api/auth/login", loginLimiter(auth.Login))
	mux.HandleFunc("POST /api/auth/logout", auth.Logout)
	mux.HandleFunc("POST /api/auth/forgot-password", resetLimiter(password.ForgotPassword))
	mux.HandleFunc("POST /api/auth/reset-password", resetLimiter(password.ResetPassword))

	// ============================================================================
	// CASES
	// ============================================================================

	// Reporting a case is open to anonymous submitters
	mux.HandleFunc("POST /api/cases", middleware.RateLimitCaseCreation(app.CaseLimiter)(cases.Create))
	mux.HandleFunc("GET /api/cases/{id}", middleware.RequireAuth(cases.Get))

	// Export (staff)
	mux.HandleFunc("GET /api/cases/list", middleware.RequireStaff(export.ListTitles))
	mux.HandleFunc("GET /api/cases/columns", middleware.RequireStaff(export.Columns))
	mux.HandleFunc("POST /api/cases/export", middleware.RequireStaff(export.Export))

	// ============================================================================
	// REPORTS (staff)
	// ============================================================================

	mux.HandleFunc("GET /api/reports/users-by-role", middleware.RequireStaff(reports.UsersByRole))
	mux.HandleFunc("GET /api/reports/today-cases-by-status", middleware.RequireStaff(reports.TodayCasesByStatus))
	mux.HandleFunc("GET /api/reports/today-cases-by-type", middleware.RequireStaff(reports.TodayCasesByType))

	// ============================================================================
	// USERS & LOOKUPS
	// ============================================================================

	mux.HandleFunc("GET /api/users/me", middleware.RequireAuth(users.Me))
	mux.HandleFunc("GET /api/users", middleware.RequireStaff(users.List))
	mux.HandleFunc("POST /api/users", middleware.RequireStaff(users.Create))
	mux.HandleFunc("GET /api/roles", middleware.RequireAuth(users.Roles))
	mux.HandleFunc("GET /api/case-types", middleware.RequireAuth(users.CaseTypes))
	mux.HandleFunc("GET /api/case-statuses", middleware.RequireAuth(users.CaseStatuses))

	// 404
	mux.HandleFunc("/{path...}", handler.NotFound)

	// Global middleware - executed in order (top to bottom)
	return middleware.Chain(
		mux,
		middleware.Config(app.Cfg),            // Config first, CSRF reads it for cookie flags
		middleware.RequestLogging(app.Metrics), // Outside Recover so panics are logged as 500
		middleware.Recover,
		middleware.Timeout(app.Cfg.RequestTimeout),
		middleware.CSRFProtection,
		middleware.AuthMiddleware(app.AuthService),
	)
}
