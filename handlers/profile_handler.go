package handlers

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/ristinalapbulan-create/sipandusd/models"
	"github.com/ristinalapbulan-create/sipandusd/storage"
)

type ProfileHandler struct {
	store storage.Store
}

func NewProfileHandler(store storage.Store) *ProfileHandler {
	return &ProfileHandler{store: store}
}

// GET /school/profile
func (h *ProfileHandler) Get(c echo.Context) error {
	npsn := sessionNPSN(c)
	if npsn == "" {
		return c.JSON(http.StatusForbidden, map[string]any{"error": "FORBIDDEN"})
	}
	s, err := h.store.GetSchoolByNPSN(c.Request().Context(), npsn)
	if err != nil {
		return jsonErr(c, err)
	}
	return c.JSON(http.StatusOK, s)
}

type profileUpdateReq struct {
	Address     string `json:"address"`
	PhoneNumber string `json:"phone_number"`
	PhotoURL    string `json:"photo_url"`
}

// PUT /school/profile
// Sekolah hanya boleh mengubah kontak dan foto, bukan identitasnya.
func (h *ProfileHandler) Update(c echo.Context) error {
	npsn := sessionNPSN(c)
	if npsn == "" {
		return c.JSON(http.StatusForbidden, map[string]any{"error": "FORBIDDEN"})
	}
	var req profileUpdateReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "INVALID_PAYLOAD"})
	}

	ctx := c.Request().Context()
	s, err := h.store.GetSchoolByNPSN(ctx, npsn)
	if err != nil {
		return jsonErr(c, err)
	}
	if v := strings.TrimSpace(req.Address); v != "" {
		s.Address = v
	}
	if v := strings.TrimSpace(req.PhoneNumber); v != "" {
		s.PhoneNumber = v
	}
	if v := strings.TrimSpace(req.PhotoURL); v != "" {
		s.PhotoURL = v
	}
	if _, err := h.store.UpsertSchool(ctx, s); err != nil {
		return jsonErr(c, err)
	}
	return c.JSON(http.StatusOK, s)
}

type adminProfileReq struct {
	Name     string `json:"name"`
	PhotoURL string `json:"photo_url"`
}

// PUT /admin/profile
func (h *ProfileHandler) UpdateAdmin(c echo.Context) error {
	var req adminProfileReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "INVALID_PAYLOAD"})
	}

	ctx := c.Request().Context()
	u, err := h.store.GetUser(ctx, sessionUserID(c))
	if err != nil {
		return jsonErr(c, err)
	}
	if u.Role != models.RoleAdmin {
		return c.JSON(http.StatusForbidden, map[string]any{"error": "FORBIDDEN"})
	}
	if v := strings.TrimSpace(req.Name); v != "" {
		u.Name = v
	}
	if v := strings.TrimSpace(req.PhotoURL); v != "" {
		u.PhotoURL = v
	}
	if err := h.store.UpsertUser(ctx, u); err != nil {
		return jsonErr(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{
		"id":    u.ID,
		"name":  u.Name,
		"photo": u.PhotoURL,
	})
}
