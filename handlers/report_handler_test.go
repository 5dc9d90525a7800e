package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ristinalapbulan-create/sipandusd/cache"
	"github.com/ristinalapbulan-create/sipandusd/models"
	"github.com/ristinalapbulan-create/sipandusd/reports"
	"github.com/ristinalapbulan-create/sipandusd/storage/memory"
)

func newTestHandler(t *testing.T) (*ReportHandler, *memory.Store) {
	t.Helper()
	st := memory.New()
	return NewReportHandler(st, reports.NewService(st), cache.New("", "", 0, 0)), st
}

func request(method, path, body string) (*http.Request, *httptest.ResponseRecorder) {
	var rd *strings.Reader
	if body == "" {
		rd = strings.NewReader("")
	} else {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, rd)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	return req, httptest.NewRecorder()
}

func TestSubmitHandler(t *testing.T) {
	h, st := newTestHandler(t)
	e := echo.New()
	_, err := st.UpsertSchool(context.Background(), models.School{
		NPSN: "30303194", Name: "SDN 1 Tanjung", Kecamatan: "Kec. Tanjung",
	})
	require.NoError(t, err)

	req, rec := request(http.MethodPost, "/school/reports",
		`{"month":"Januari","year":"2026","link":"https://drive.example/x"}`)
	c := e.NewContext(req, rec)
	c.Set("npsn", "30303194")
	c.Set("name", "stale name")

	require.NoError(t, h.Submit(c))
	assert.Equal(t, http.StatusCreated, rec.Code)

	var r models.Report
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &r))
	assert.Equal(t, models.StatusPending, r.Status)
	// nama diambil dari data sekolah, bukan dari token
	assert.Equal(t, "SDN 1 Tanjung", r.SchoolName)

	// kiriman kedua di bulan yang sama ditolak
	req, rec = request(http.MethodPost, "/school/reports",
		`{"month":"Januari","year":"2026","link":"https://drive.example/y"}`)
	c = e.NewContext(req, rec)
	c.Set("npsn", "30303194")
	require.NoError(t, h.Submit(c))
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestSubmitHandlerWithoutSession(t *testing.T) {
	h, _ := newTestHandler(t)
	e := echo.New()
	req, rec := request(http.MethodPost, "/school/reports", `{"month":"Januari","year":"2026","link":"x"}`)
	c := e.NewContext(req, rec)

	require.NoError(t, h.Submit(c))
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestApproveHandler(t *testing.T) {
	h, st := newTestHandler(t)
	e := echo.New()
	ctx := context.Background()
	id, err := st.CreateReport(ctx, models.Report{
		NPSN: "30303194", Month: "Januari", Year: "2026", Status: models.StatusPending,
	})
	require.NoError(t, err)

	req, rec := request(http.MethodPost, "/admin/reports/"+id+"/approve", "")
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(id)
	require.NoError(t, h.Approve(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	got, err := st.GetReport(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, models.StatusApproved, got.Status)

	// kedua kalinya konflik
	req, rec = request(http.MethodPost, "/admin/reports/"+id+"/approve", "")
	c = e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(id)
	require.NoError(t, h.Approve(c))
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestRejectHandlerEmptyNote(t *testing.T) {
	h, st := newTestHandler(t)
	e := echo.New()
	id, err := st.CreateReport(context.Background(), models.Report{
		NPSN: "1", Month: "Januari", Year: "2026", Status: models.StatusPending,
	})
	require.NoError(t, err)

	req, rec := request(http.MethodPost, "/admin/reports/"+id+"/reject", `{"note":""}`)
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(id)
	require.NoError(t, h.Reject(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListAllFilters(t *testing.T) {
	h, st := newTestHandler(t)
	e := echo.New()
	ctx := context.Background()

	_, err := st.UpsertSchool(ctx, models.School{NPSN: "101", Name: "SDN Mahe", Kecamatan: "Kec. Haruai"})
	require.NoError(t, err)
	_, err = st.UpsertSchool(ctx, models.School{NPSN: "102", Name: "SDN Nalui", Kecamatan: "Kec. Jaro"})
	require.NoError(t, err)
	for _, r := range []models.Report{
		{NPSN: "101", Month: "Januari", Year: "2026", Status: models.StatusPending},
		{NPSN: "102", Month: "Januari", Year: "2026", Status: models.StatusApproved},
		{NPSN: "102", Month: "Februari", Year: "2026", Status: models.StatusPending},
	} {
		_, err := st.CreateReport(ctx, r)
		require.NoError(t, err)
	}

	req, rec := request(http.MethodGet, "/admin/reports?month=Januari&year=2026&kecamatan=Kec.+Jaro", "")
	c := e.NewContext(req, rec)
	require.NoError(t, h.ListAll(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var out []models.Report
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	require.Len(t, out, 1)
	assert.Equal(t, "102", out[0].NPSN)
	// nama sekolah di-resolve ulang dari data sekolah terkini
	assert.Equal(t, "SDN Nalui", out[0].SchoolName)

	req, rec = request(http.MethodGet, "/admin/reports?q=mahe", "")
	c = e.NewContext(req, rec)
	require.NoError(t, h.ListAll(c))
	out = nil
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	require.Len(t, out, 1)
	assert.Equal(t, "101", out[0].NPSN)
}

func TestListResolvesRenamedSchool(t *testing.T) {
	h, st := newTestHandler(t)
	e := echo.New()
	ctx := context.Background()

	_, err := st.UpsertSchool(ctx, models.School{
		NPSN: "101", Name: "SDN Mahe Lama", Kecamatan: "Kec. Haruai",
	})
	require.NoError(t, err)
	// laporan menyimpan nama saat kirim
	_, err = st.CreateReport(ctx, models.Report{
		NPSN: "101", SchoolName: "SDN Mahe Lama",
		Month: "Januari", Year: "2026", Status: models.StatusPending,
	})
	require.NoError(t, err)
	// sekolah berganti nama setelah laporan masuk
	_, err = st.UpsertSchool(ctx, models.School{
		NPSN: "101", Name: "SDN Mahe Baru", Kecamatan: "Kec. Haruai",
	})
	require.NoError(t, err)

	// arsip admin tanpa filter apa pun
	req, rec := request(http.MethodGet, "/admin/reports", "")
	c := e.NewContext(req, rec)
	require.NoError(t, h.ListAll(c))
	var out []models.Report
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	require.Len(t, out, 1)
	assert.Equal(t, "SDN Mahe Baru", out[0].SchoolName)

	// daftar milik sekolah sendiri
	req, rec = request(http.MethodGet, "/school/reports", "")
	c = e.NewContext(req, rec)
	c.Set("npsn", "101")
	require.NoError(t, h.ListOwn(c))
	out = nil
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	require.Len(t, out, 1)
	assert.Equal(t, "SDN Mahe Baru", out[0].SchoolName)
}
