package handlers

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/ristinalapbulan-create/sipandusd/cache"
	"github.com/ristinalapbulan-create/sipandusd/models"
	"github.com/ristinalapbulan-create/sipandusd/reports"
	"github.com/ristinalapbulan-create/sipandusd/storage"
)

type ReportHandler struct {
	store storage.Store
	svc   *reports.Service
	cache *cache.Cache
}

func NewReportHandler(store storage.Store, svc *reports.Service, cc *cache.Cache) *ReportHandler {
	return &ReportHandler{store: store, svc: svc, cache: cc}
}

func (h *ReportHandler) flushMonitoring(c echo.Context) {
	h.cache.FlushPrefix(c.Request().Context(), monitoringCachePrefix, statsCachePrefix)
}

/* ====================== sisi sekolah ====================== */

type submitReq struct {
	Month string `json:"month"`
	Year  string `json:"year"`
	Link  string `json:"link"`
}

// POST /school/reports
func (h *ReportHandler) Submit(c echo.Context) error {
	npsn := sessionNPSN(c)
	if npsn == "" {
		return c.JSON(http.StatusForbidden, map[string]any{"error": "FORBIDDEN"})
	}
	var req submitReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "INVALID_PAYLOAD"})
	}

	name, _ := c.Get("name").(string)
	if sc, err := h.store.GetSchoolByNPSN(c.Request().Context(), npsn); err == nil {
		name = sc.Name
	}
	r, err := h.svc.Submit(c.Request().Context(), reports.SubmitInput{
		NPSN:       npsn,
		SchoolName: name,
		Month:      req.Month,
		Year:       req.Year,
		Link:       req.Link,
	})
	if err != nil {
		return jsonErr(c, err)
	}
	h.flushMonitoring(c)
	return c.JSON(http.StatusCreated, r)
}

// GET /school/reports
func (h *ReportHandler) ListOwn(c echo.Context) error {
	npsn := sessionNPSN(c)
	if npsn == "" {
		return c.JSON(http.StatusForbidden, map[string]any{"error": "FORBIDDEN"})
	}
	ctx := c.Request().Context()
	rs, err := h.store.ListReports(ctx, storage.ReportFilter{NPSN: npsn})
	if err != nil {
		return jsonErr(c, err)
	}
	// nama di laporan hanya cache saat kirim; tampilkan nama terkini
	if sc, err := h.store.GetSchoolByNPSN(ctx, npsn); err == nil && sc.Name != "" {
		for i := range rs {
			rs[i].SchoolName = sc.Name
		}
	}
	return c.JSON(http.StatusOK, rs)
}

type resubmitReq struct {
	Link string `json:"link"`
}

// PUT /school/reports/:id/resubmit
func (h *ReportHandler) Resubmit(c echo.Context) error {
	var req resubmitReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "INVALID_PAYLOAD"})
	}
	if err := h.svc.Resubmit(c.Request().Context(), c.Param("id"), sessionNPSN(c), req.Link); err != nil {
		return jsonErr(c, err)
	}
	h.flushMonitoring(c)
	return c.JSON(http.StatusOK, map[string]any{"status": "ok"})
}

/* ====================== sisi admin ====================== */

// GET /admin/reports?month=&year=&kecamatan=&status=&q=
func (h *ReportHandler) ListAll(c echo.Context) error {
	ctx := c.Request().Context()
	rs, err := h.store.ListReports(ctx, storage.ReportFilter{})
	if err != nil {
		return jsonErr(c, err)
	}

	month := c.QueryParam("month")
	year := c.QueryParam("year")
	status := c.QueryParam("status")
	kecamatan := c.QueryParam("kecamatan")
	q := strings.ToLower(strings.TrimSpace(c.QueryParam("q")))

	// selalu muat data sekolah: nama di laporan hanya cache saat kirim
	schools, err := h.store.ListSchools(ctx)
	if err != nil {
		return jsonErr(c, err)
	}
	byNPSN := make(map[string]models.School, len(schools))
	for _, sc := range schools {
		byNPSN[sc.NPSN] = sc
	}

	out := make([]models.Report, 0, len(rs))
	for _, r := range rs {
		if month != "" && r.Month != month {
			continue
		}
		if year != "" && r.Year != year {
			continue
		}
		if status != "" && r.Status != status {
			continue
		}
		sc := byNPSN[r.NPSN]
		if kecamatan != "" && sc.Kecamatan != kecamatan {
			continue
		}
		if q != "" {
			// tampilkan nama sekolah terkini, bukan cache lama di laporan
			name := sc.Name
			if name == "" {
				name = r.SchoolName
			}
			if !strings.Contains(strings.ToLower(name), q) && !strings.Contains(r.NPSN, q) {
				continue
			}
		}
		if sc.Name != "" {
			r.SchoolName = sc.Name
		}
		out = append(out, r)
	}
	return c.JSON(http.StatusOK, out)
}

// POST /admin/reports/:id/approve
func (h *ReportHandler) Approve(c echo.Context) error {
	if err := h.svc.Approve(c.Request().Context(), c.Param("id")); err != nil {
		return jsonErr(c, err)
	}
	h.flushMonitoring(c)
	return c.JSON(http.StatusOK, map[string]any{"status": "ok"})
}

type reviewReq struct {
	Note string `json:"note"`
}

// POST /admin/reports/:id/reject
func (h *ReportHandler) Reject(c echo.Context) error {
	var req reviewReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "INVALID_PAYLOAD"})
	}
	if err := h.svc.Reject(c.Request().Context(), c.Param("id"), req.Note); err != nil {
		return jsonErr(c, err)
	}
	h.flushMonitoring(c)
	return c.JSON(http.StatusOK, map[string]any{"status": "ok"})
}

// POST /admin/reports/:id/reevaluate
func (h *ReportHandler) Reevaluate(c echo.Context) error {
	var req reviewReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "INVALID_PAYLOAD"})
	}
	if err := h.svc.Reevaluate(c.Request().Context(), c.Param("id"), req.Note); err != nil {
		return jsonErr(c, err)
	}
	h.flushMonitoring(c)
	return c.JSON(http.StatusOK, map[string]any{"status": "ok"})
}

// DELETE /admin/reports/:id
func (h *ReportHandler) Delete(c echo.Context) error {
	if err := h.svc.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return jsonErr(c, err)
	}
	h.flushMonitoring(c)
	return c.JSON(http.StatusOK, map[string]any{"status": "deleted"})
}
