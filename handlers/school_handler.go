package handlers

import (
	"errors"
	"net/http"
	"regexp"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/ristinalapbulan-create/sipandusd/apperr"
	"github.com/ristinalapbulan-create/sipandusd/cache"
	"github.com/ristinalapbulan-create/sipandusd/config"
	"github.com/ristinalapbulan-create/sipandusd/identity"
	"github.com/ristinalapbulan-create/sipandusd/models"
	"github.com/ristinalapbulan-create/sipandusd/storage"
)

type SchoolHandler struct {
	store    storage.Store
	accounts *identity.Accounts
	cache    *cache.Cache
	cfg      config.Config
}

func NewSchoolHandler(store storage.Store, accounts *identity.Accounts, cc *cache.Cache, cfg config.Config) *SchoolHandler {
	return &SchoolHandler{store: store, accounts: accounts, cache: cc, cfg: cfg}
}

type schoolPayload struct {
	NPSN        string `json:"npsn"`
	Name        string `json:"name"`
	Address     string `json:"address"`
	Kecamatan   string `json:"kecamatan"`
	PhoneNumber string `json:"phone_number"`
	PhotoURL    string `json:"photo_url"`
}

var (
	reNPSN  = regexp.MustCompile(`^[0-9]{8}$`)
	reName  = regexp.MustCompile(`^[A-Za-z0-9\s.,'()/-]{1,100}$`)
	rePhone = regexp.MustCompile(`^[0-9+\- ]{0,20}$`)
)

func validateSchool(p schoolPayload) map[string]string {
	errs := map[string]string{}
	if !reNPSN.MatchString(strings.TrimSpace(p.NPSN)) {
		errs["npsn"] = "NPSN harus 8 digit angka"
	}
	if !reName.MatchString(strings.TrimSpace(p.Name)) {
		errs["name"] = "format nama sekolah tidak valid"
	}
	if !models.IsDistrict(strings.TrimSpace(p.Kecamatan)) {
		errs["kecamatan"] = "kecamatan tidak dikenal"
	}
	if !rePhone.MatchString(strings.TrimSpace(p.PhoneNumber)) {
		errs["phone_number"] = "format nomor telepon tidak valid"
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}

// GET /admin/schools
func (h *SchoolHandler) List(c echo.Context) error {
	schools, err := h.store.ListSchools(c.Request().Context())
	if err != nil {
		return jsonErr(c, err)
	}
	return c.JSON(http.StatusOK, schools)
}

// POST /admin/schools
func (h *SchoolHandler) Create(c echo.Context) error {
	var p schoolPayload
	if err := c.Bind(&p); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "INVALID_PAYLOAD"})
	}
	if errs := validateSchool(p); errs != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "VALIDATION_ERROR", "fields": errs})
	}

	ctx := c.Request().Context()
	npsn := strings.TrimSpace(p.NPSN)
	if _, err := h.store.GetSchoolByNPSN(ctx, npsn); err == nil {
		return c.JSON(http.StatusConflict, map[string]any{"error": "NPSN_EXISTS"})
	} else if !errors.Is(err, apperr.ErrNotFound) {
		return jsonErr(c, err)
	}

	s := models.School{
		NPSN:        npsn,
		Name:        strings.TrimSpace(p.Name),
		Address:     strings.TrimSpace(p.Address),
		Kecamatan:   strings.TrimSpace(p.Kecamatan),
		PhoneNumber: strings.TrimSpace(p.PhoneNumber),
		PhotoURL:    strings.TrimSpace(p.PhotoURL),
	}
	id, err := h.store.UpsertSchool(ctx, s)
	if err != nil {
		return jsonErr(c, err)
	}
	s.ID = id

	// akun baru masuk dengan password = NPSN
	if err := h.accounts.EnsureSchoolAccount(ctx, s.NPSN, s.Name, s.NPSN); err != nil {
		return jsonErr(c, err)
	}
	h.cache.FlushPrefix(ctx, monitoringCachePrefix, statsCachePrefix)
	return c.JSON(http.StatusCreated, s)
}

// PUT /admin/schools/:id
func (h *SchoolHandler) Update(c echo.Context) error {
	var p schoolPayload
	if err := c.Bind(&p); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "INVALID_PAYLOAD"})
	}
	if errs := validateSchool(p); errs != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "VALIDATION_ERROR", "fields": errs})
	}

	ctx := c.Request().Context()
	s, err := h.store.GetSchool(ctx, c.Param("id"))
	if err != nil {
		return jsonErr(c, err)
	}
	if strings.TrimSpace(p.NPSN) != s.NPSN {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "NPSN_IMMUTABLE"})
	}

	s.Name = strings.TrimSpace(p.Name)
	s.Address = strings.TrimSpace(p.Address)
	s.Kecamatan = strings.TrimSpace(p.Kecamatan)
	s.PhoneNumber = strings.TrimSpace(p.PhoneNumber)
	s.PhotoURL = strings.TrimSpace(p.PhotoURL)
	if _, err := h.store.UpsertSchool(ctx, s); err != nil {
		return jsonErr(c, err)
	}

	// nama akun ikut berubah, password tetap
	if err := h.accounts.EnsureSchoolAccount(ctx, s.NPSN, s.Name, ""); err != nil {
		return jsonErr(c, err)
	}
	h.cache.FlushPrefix(ctx, monitoringCachePrefix, statsCachePrefix)
	return c.JSON(http.StatusOK, s)
}

// DELETE /admin/schools/:id
func (h *SchoolHandler) Delete(c echo.Context) error {
	ctx := c.Request().Context()
	s, err := h.store.GetSchool(ctx, c.Param("id"))
	if err != nil {
		return jsonErr(c, err)
	}
	if err := h.store.DeleteSchool(ctx, s.ID); err != nil {
		return jsonErr(c, err)
	}
	if err := h.accounts.DeleteSchoolAccount(ctx, s.NPSN); err != nil && !errors.Is(err, apperr.ErrNotFound) {
		return jsonErr(c, err)
	}
	h.cache.FlushPrefix(ctx, monitoringCachePrefix, statsCachePrefix)
	return c.JSON(http.StatusOK, map[string]any{"status": "deleted"})
}

// POST /admin/schools/:id/reset-password
func (h *SchoolHandler) ResetPassword(c echo.Context) error {
	ctx := c.Request().Context()
	s, err := h.store.GetSchool(ctx, c.Param("id"))
	if err != nil {
		return jsonErr(c, err)
	}
	if err := h.accounts.ResetPassword(ctx, s.NPSN, s.Name); err != nil {
		return jsonErr(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"status": "ok", "npsn": s.NPSN})
}

// POST /admin/schools/reset-passwords
func (h *SchoolHandler) BulkResetPasswords(c echo.Context) error {
	log, err := h.accounts.BulkResetPasswords(c.Request().Context(), h.cfg.BulkResetDelay, nil)
	if err != nil {
		return jsonErr(c, err)
	}
	summary := identity.ResetProgress{}
	if len(log) > 0 {
		summary = log[len(log)-1]
	}
	return c.JSON(http.StatusOK, map[string]any{
		"total":    summary.Total,
		"success":  summary.Success,
		"fail":     summary.Fail,
		"progress": log,
	})
}
