package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"

	"github.com/ristinalapbulan-create/sipandusd/apperr"
	"github.com/ristinalapbulan-create/sipandusd/config"
	"github.com/ristinalapbulan-create/sipandusd/identity"
	"github.com/ristinalapbulan-create/sipandusd/models"
	"github.com/ristinalapbulan-create/sipandusd/storage"
)

type AuthHandler struct {
	store      storage.Store
	reconciler *identity.Reconciler
	cfg        config.Config
}

func NewAuthHandler(store storage.Store, rc *identity.Reconciler, cfg config.Config) *AuthHandler {
	return &AuthHandler{store: store, reconciler: rc, cfg: cfg}
}

func (h *AuthHandler) signJWT(u models.User, handle string, ttl time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"sub":    u.ID,
		"role":   u.Role,
		"name":   u.Name,
		"npsn":   u.NPSN,
		"handle": handle,
		"exp":    time.Now().Add(ttl).Unix(),
		"iat":    time.Now().Unix(),
	}
	tk := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return tk.SignedString([]byte(h.cfg.JWTSecret))
}

type loginReq struct {
	Username string `json:"username"` // NPSN, handle lengkap, atau "admin"
	Password string `json:"password"`
}

// lookupCredential finds the identity record for whatever form of
// username the user typed: record id (NPSN), full handle, or the bare
// local part which gets the configured domain appended.
func (h *AuthHandler) lookupCredential(c echo.Context, username string) (models.User, error) {
	ctx := c.Request().Context()
	if u, err := h.store.GetUser(ctx, username); err == nil {
		return u, nil
	}
	if u, err := h.store.GetUserByUsername(ctx, username); err == nil {
		return u, nil
	}
	if !strings.Contains(username, "@") {
		return h.store.GetUserByUsername(ctx, username+"@"+h.cfg.HandleDomain)
	}
	return models.User{}, apperr.NotFound("user %s", username)
}

// POST /auth/login
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "INVALID_PAYLOAD"})
	}
	username := strings.TrimSpace(strings.ToLower(req.Username))
	pass := strings.TrimSpace(req.Password)
	if username == "" || pass == "" {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "MISSING_FIELDS"})
	}

	u, err := h.lookupCredential(c, username)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]any{"error": "INVALID_CREDENTIALS"})
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(pass)) != nil {
		return c.JSON(http.StatusUnauthorized, map[string]any{"error": "INVALID_CREDENTIALS"})
	}

	handle := u.Username
	if !strings.Contains(handle, "@") {
		handle = handle + "@" + h.cfg.HandleDomain
	}
	res := h.reconciler.Resolve(c.Request().Context(), identity.Principal{
		AccountID: u.ID,
		Handle:    handle,
		Name:      u.Name,
	})

	token, err := h.signJWT(res.User, handle, 24*time.Hour)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]any{"error": "TOKEN_SIGN_FAILED"})
	}
	return c.JSON(http.StatusOK, map[string]any{
		"token": token,
		"user": map[string]any{
			"id":     res.User.ID,
			"name":   res.User.Name,
			"role":   res.User.Role,
			"npsn":   res.User.NPSN,
			"handle": handle,
			"via":    res.Via,
		},
	})
}

// GET /auth/me
func (h *AuthHandler) Me(c echo.Context) error {
	role, _ := c.Get("role").(string)
	name, _ := c.Get("name").(string)
	handle, _ := c.Get("handle").(string)
	return c.JSON(http.StatusOK, map[string]any{
		"id":     sessionUserID(c),
		"role":   role,
		"name":   name,
		"npsn":   sessionNPSN(c),
		"handle": handle,
	})
}

type changePasswordReq struct {
	OldPassword string `json:"old_password"`
	NewPassword string `json:"new_password"`
}

// PUT /profile/password
func (h *AuthHandler) ChangePassword(c echo.Context) error {
	var req changePasswordReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "INVALID_PAYLOAD"})
	}
	if len(strings.TrimSpace(req.NewPassword)) < 6 {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "WEAK_PASSWORD"})
	}

	ctx := c.Request().Context()
	id := sessionUserID(c)
	if npsn := sessionNPSN(c); npsn != "" {
		// school records live under their NPSN, not the session id
		id = npsn
	}
	u, err := h.store.GetUser(ctx, id)
	if err != nil {
		return jsonErr(c, err)
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.OldPassword)) != nil {
		return c.JSON(http.StatusUnauthorized, map[string]any{"error": "INVALID_CREDENTIALS"})
	}
	hash, err := identity.HashPassword(req.NewPassword)
	if err != nil {
		return jsonErr(c, err)
	}
	u.PasswordHash = hash
	if err := h.store.UpsertUser(ctx, u); err != nil {
		return jsonErr(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"status": "ok"})
}
