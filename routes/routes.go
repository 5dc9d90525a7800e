package routes

import (
	"github.com/labstack/echo/v4"

	"github.com/ristinalapbulan-create/sipandusd/cache"
	"github.com/ristinalapbulan-create/sipandusd/config"
	"github.com/ristinalapbulan-create/sipandusd/handlers"
	"github.com/ristinalapbulan-create/sipandusd/identity"
	"github.com/ristinalapbulan-create/sipandusd/middlewares"
	"github.com/ristinalapbulan-create/sipandusd/models"
	"github.com/ristinalapbulan-create/sipandusd/reports"
	"github.com/ristinalapbulan-create/sipandusd/storage"
)

// Register wires all HTTP routes.
func Register(e *echo.Echo, cfg config.Config, store storage.Store, cc *cache.Cache) {
	// ===== Services =====
	reconciler := identity.NewReconciler(store, cfg.LookupTimeout)
	accounts := identity.NewAccounts(store, cfg.HandleDomain)
	reportSvc := reports.NewService(store)

	// ===== Handlers (shared singletons) =====
	auth := handlers.NewAuthHandler(store, reconciler, cfg)
	report := handlers.NewReportHandler(store, reportSvc, cc)
	school := handlers.NewSchoolHandler(store, accounts, cc, cfg)
	monitoring := handlers.NewMonitoringHandler(store, cc)
	maintenance := handlers.NewMaintenanceHandler(store, reportSvc, cc)
	profile := handlers.NewProfileHandler(store)

	// ===== Public =====
	e.POST("/auth/login", auth.Login)
	e.GET("/stats", monitoring.Stats)

	authed := e.Group("", middlewares.RequireAuth(cfg.JWTSecret))
	authed.GET("/auth/me", auth.Me)
	authed.PUT("/profile/password", auth.ChangePassword)

	// ===== Sekolah =====
	sch := e.Group("/school", middlewares.RequireAuth(cfg.JWTSecret), middlewares.RequireRole(models.RoleSchool))
	sch.GET("/reports", report.ListOwn)
	sch.POST("/reports", report.Submit)
	sch.PUT("/reports/:id/resubmit", report.Resubmit)
	sch.GET("/profile", profile.Get)
	sch.PUT("/profile", profile.Update)

	// ===== Admin =====
	adm := e.Group("/admin", middlewares.RequireAuth(cfg.JWTSecret), middlewares.RequireRole(models.RoleAdmin))
	adm.GET("/monitoring", monitoring.Monitoring)
	adm.GET("/reports", report.ListAll)
	adm.POST("/reports/:id/approve", report.Approve)
	adm.POST("/reports/:id/reject", report.Reject)
	adm.POST("/reports/:id/reevaluate", report.Reevaluate)
	adm.DELETE("/reports/:id", report.Delete)

	adm.GET("/schools", school.List)
	adm.POST("/schools", school.Create)
	adm.PUT("/schools/:id", school.Update)
	adm.DELETE("/schools/:id", school.Delete)
	adm.POST("/schools/:id/reset-password", school.ResetPassword)
	adm.POST("/schools/reset-passwords", school.BulkResetPasswords)

	adm.POST("/maintenance/cleanup-duplicates", maintenance.CleanupDuplicates)
	adm.GET("/backup", maintenance.Backup)
	adm.POST("/restore", maintenance.Restore)
	adm.PUT("/profile", profile.UpdateAdmin)
}
