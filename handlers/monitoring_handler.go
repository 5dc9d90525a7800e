package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/ristinalapbulan-create/sipandusd/cache"
	"github.com/ristinalapbulan-create/sipandusd/compliance"
	"github.com/ristinalapbulan-create/sipandusd/models"
	"github.com/ristinalapbulan-create/sipandusd/storage"
)

const (
	monitoringCachePrefix = "monitoring"
	statsCachePrefix      = "stats"
)

type MonitoringHandler struct {
	store storage.Store
	cache *cache.Cache
}

func NewMonitoringHandler(store storage.Store, cc *cache.Cache) *MonitoringHandler {
	return &MonitoringHandler{store: store, cache: cc}
}

// periodFromQuery defaults to the current month when nothing is asked.
func periodFromQuery(c echo.Context) compliance.Period {
	now := time.Now()
	p := compliance.Period{
		Year:  c.QueryParam("year"),
		Month: c.QueryParam("month"),
	}
	if p.Year == "" && p.Month == "" {
		p.Year = strconv.Itoa(now.Year())
		p.Month = models.Months[now.Month()-1]
	}
	return p
}

type monitoringView struct {
	Period     compliance.Period         `json:"period"`
	Overview   compliance.Overview       `json:"overview"`
	Districts  []compliance.DistrictStat `json:"districts"`
	Fastest    []compliance.FastestEntry `json:"fastest"`
	Unreported []models.School           `json:"unreported"`
}

// GET /admin/monitoring?year=&month=
// Month left empty (with year set) switches to the yearly view.
func (h *MonitoringHandler) Monitoring(c echo.Context) error {
	p := periodFromQuery(c)
	if err := p.Validate(); err != nil {
		return jsonErr(c, err)
	}
	ctx := c.Request().Context()

	key := fmt.Sprintf("%s:%s:%s", monitoringCachePrefix, p.Year, p.Month)
	var view monitoringView
	if h.cache.Get(ctx, key, &view) {
		return c.JSON(http.StatusOK, view)
	}

	schools, err := h.store.ListSchools(ctx)
	if err != nil {
		return jsonErr(c, err)
	}
	reports, err := h.store.ListReports(ctx, storage.ReportFilter{})
	if err != nil {
		return jsonErr(c, err)
	}

	view = monitoringView{
		Period:     p,
		Overview:   compliance.StatusBreakdown(reports, p),
		Districts:  compliance.RankDistricts(compliance.DistrictStats(schools, reports, p)),
		Fastest:    compliance.FastestReports(schools, reports, p, 10),
		Unreported: compliance.UnreportedSchools(schools, reports, p),
	}
	h.cache.Set(ctx, key, view)
	return c.JSON(http.StatusOK, view)
}

type landingStats struct {
	Schools   int                       `json:"schools"`
	Approved  int                       `json:"approved"`
	Rate      float64                   `json:"rate"`
	Districts []compliance.DistrictStat `json:"districts"`
}

// GET /stats?year=&month=
// Halaman depan hanya menghitung laporan yang sudah disetujui.
func (h *MonitoringHandler) Stats(c echo.Context) error {
	p := periodFromQuery(c)
	if err := p.Validate(); err != nil {
		return jsonErr(c, err)
	}
	ctx := c.Request().Context()

	key := fmt.Sprintf("%s:%s:%s", statsCachePrefix, p.Year, p.Month)
	var out landingStats
	if h.cache.Get(ctx, key, &out) {
		return c.JSON(http.StatusOK, out)
	}

	schools, err := h.store.ListSchools(ctx)
	if err != nil {
		return jsonErr(c, err)
	}
	all, err := h.store.ListReports(ctx, storage.ReportFilter{})
	if err != nil {
		return jsonErr(c, err)
	}
	approved := make([]models.Report, 0, len(all))
	for _, r := range all {
		if r.Status == models.StatusApproved {
			approved = append(approved, r)
		}
	}

	stats := compliance.RankDistricts(compliance.DistrictStats(schools, approved, p))
	reported := 0
	target := 0
	for _, st := range stats {
		reported += st.Reported
		target += st.Target
	}
	out = landingStats{
		Schools:   len(schools),
		Approved:  len(compliance.FilterReports(approved, p)),
		Rate:      compliance.Rate(reported, target),
		Districts: stats,
	}
	h.cache.Set(ctx, key, out)
	return c.JSON(http.StatusOK, out)
}
