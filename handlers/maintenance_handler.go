package handlers

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/ristinalapbulan-create/sipandusd/cache"
	"github.com/ristinalapbulan-create/sipandusd/models"
	"github.com/ristinalapbulan-create/sipandusd/reports"
	"github.com/ristinalapbulan-create/sipandusd/storage"
)

type MaintenanceHandler struct {
	store storage.Store
	svc   *reports.Service
	cache *cache.Cache
}

func NewMaintenanceHandler(store storage.Store, svc *reports.Service, cc *cache.Cache) *MaintenanceHandler {
	return &MaintenanceHandler{store: store, svc: svc, cache: cc}
}

// POST /admin/maintenance/cleanup-duplicates
func (h *MaintenanceHandler) CleanupDuplicates(c echo.Context) error {
	res, err := h.svc.CleanupDuplicates(c.Request().Context())
	if err != nil {
		return jsonErr(c, err)
	}
	h.cache.FlushPrefix(c.Request().Context(), monitoringCachePrefix, statsCachePrefix)
	return c.JSON(http.StatusOK, res)
}

type snapshot struct {
	ExportedAt time.Time       `json:"exported_at"`
	Schools    []models.School `json:"schools"`
	Reports    []models.Report `json:"reports"`
}

// GET /admin/backup
func (h *MaintenanceHandler) Backup(c echo.Context) error {
	ctx := c.Request().Context()
	schools, err := h.store.ListSchools(ctx)
	if err != nil {
		return jsonErr(c, err)
	}
	rs, err := h.store.ListReports(ctx, storage.ReportFilter{})
	if err != nil {
		return jsonErr(c, err)
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="sipandu-backup.json"`)
	return c.JSON(http.StatusOK, snapshot{
		ExportedAt: time.Now(),
		Schools:    schools,
		Reports:    rs,
	})
}

// POST /admin/restore
// Merge restore: records are upserted by id, nothing is deleted first.
func (h *MaintenanceHandler) Restore(c echo.Context) error {
	var snap snapshot
	if err := c.Bind(&snap); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "INVALID_PAYLOAD"})
	}

	ctx := c.Request().Context()
	restored := map[string]int{"schools": 0, "reports": 0}
	var failures []string
	for _, sc := range snap.Schools {
		if _, err := h.store.UpsertSchool(ctx, sc); err != nil {
			failures = append(failures, "school "+sc.NPSN+": "+err.Error())
			continue
		}
		restored["schools"]++
	}
	for _, r := range snap.Reports {
		if err := h.store.RestoreReport(ctx, r); err != nil {
			failures = append(failures, "report "+r.ID+": "+err.Error())
			continue
		}
		restored["reports"]++
	}

	h.cache.FlushPrefix(ctx, monitoringCachePrefix, statsCachePrefix)
	return c.JSON(http.StatusOK, map[string]any{
		"restored": restored,
		"failures": failures,
	})
}
