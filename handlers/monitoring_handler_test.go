package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ristinalapbulan-create/sipandusd/cache"
	"github.com/ristinalapbulan-create/sipandusd/models"
	"github.com/ristinalapbulan-create/sipandusd/storage/memory"
)

func seedMonitoring(t *testing.T, st *memory.Store) {
	t.Helper()
	ctx := context.Background()
	for _, sc := range []models.School{
		{NPSN: "101", Name: "SDN Mahe", Kecamatan: "Kec. Haruai"},
		{NPSN: "102", Name: "SDN Nalui", Kecamatan: "Kec. Haruai"},
	} {
		_, err := st.UpsertSchool(ctx, sc)
		require.NoError(t, err)
	}
	for _, r := range []models.Report{
		{NPSN: "101", Month: "Maret", Year: "2026", Status: models.StatusApproved},
		{NPSN: "102", Month: "Maret", Year: "2026", Status: models.StatusPending},
	} {
		_, err := st.CreateReport(ctx, r)
		require.NoError(t, err)
	}
}

func TestMonitoringHandler(t *testing.T) {
	st := memory.New()
	seedMonitoring(t, st)
	h := NewMonitoringHandler(st, cache.New("", "", 0, 0))
	e := echo.New()

	req, rec := request(http.MethodGet, "/admin/monitoring?year=2026&month=Maret", "")
	c := e.NewContext(req, rec)
	require.NoError(t, h.Monitoring(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var view monitoringView
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &view))
	// semua status dihitung di monitoring admin
	assert.Equal(t, 2, view.Overview.Total)
	assert.Equal(t, "Kec. Haruai", view.Districts[0].District)
	assert.Equal(t, float64(100), view.Districts[0].Rate)
	assert.Empty(t, view.Unreported)

	req, rec = request(http.MethodGet, "/admin/monitoring?year=2026&month=NotAMonth", "")
	c = e.NewContext(req, rec)
	require.NoError(t, h.Monitoring(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestStatsApprovedOnly(t *testing.T) {
	st := memory.New()
	seedMonitoring(t, st)
	h := NewMonitoringHandler(st, cache.New("", "", 0, 0))
	e := echo.New()

	req, rec := request(http.MethodGet, "/stats?year=2026&month=Maret", "")
	c := e.NewContext(req, rec)
	require.NoError(t, h.Stats(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var out landingStats
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	// laporan pending tidak dihitung di halaman depan
	assert.Equal(t, 1, out.Approved)
	assert.Equal(t, 2, out.Schools)
	assert.Equal(t, float64(50), out.Rate)
}
