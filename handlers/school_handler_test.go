package handlers

import (
	"context"
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/ristinalapbulan-create/sipandusd/apperr"
	"github.com/ristinalapbulan-create/sipandusd/cache"
	"github.com/ristinalapbulan-create/sipandusd/config"
	"github.com/ristinalapbulan-create/sipandusd/identity"
	"github.com/ristinalapbulan-create/sipandusd/storage/memory"
)

func newSchoolHandler(t *testing.T) (*SchoolHandler, *memory.Store) {
	t.Helper()
	st := memory.New()
	cfg := config.Config{HandleDomain: "sipandu.sch.id"}
	accounts := identity.NewAccounts(st, cfg.HandleDomain)
	return NewSchoolHandler(st, accounts, cache.New("", "", 0, 0), cfg), st
}

const createBody = `{"npsn":"30303194","name":"SDN 1 Tanjung","address":"Jl. Ahmad Yani","kecamatan":"Kec. Tanjung","phone_number":"0526-1234"}`

func TestCreateSchool(t *testing.T) {
	h, st := newSchoolHandler(t)
	e := echo.New()

	req, rec := request(http.MethodPost, "/admin/schools", createBody)
	c := e.NewContext(req, rec)
	require.NoError(t, h.Create(c))
	assert.Equal(t, http.StatusCreated, rec.Code)

	// akun sekolah ikut dibuat dengan password = NPSN
	u, err := st.GetUser(context.Background(), "30303194")
	require.NoError(t, err)
	assert.Equal(t, "30303194@sipandu.sch.id", u.Username)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("30303194")))

	// NPSN yang sama ditolak
	req, rec = request(http.MethodPost, "/admin/schools", createBody)
	c = e.NewContext(req, rec)
	require.NoError(t, h.Create(c))
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestCreateSchoolValidation(t *testing.T) {
	h, _ := newSchoolHandler(t)
	e := echo.New()

	req, rec := request(http.MethodPost, "/admin/schools",
		`{"npsn":"123","name":"SDN 1","kecamatan":"Kec. Antah"}`)
	c := e.NewContext(req, rec)
	require.NoError(t, h.Create(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateSchoolStoreFailure(t *testing.T) {
	h, st := newSchoolHandler(t)
	e := echo.New()

	// kegagalan store bukan berarti NPSN bebas dipakai
	st.FailOps["GetSchoolByNPSN"] = apperr.Upstream(assert.AnError)

	req, rec := request(http.MethodPost, "/admin/schools", createBody)
	c := e.NewContext(req, rec)
	require.NoError(t, h.Create(c))
	assert.Equal(t, http.StatusBadGateway, rec.Code)

	schools, err := st.ListSchools(context.Background())
	require.NoError(t, err)
	assert.Empty(t, schools)
}

func TestDeleteSchoolRemovesAccount(t *testing.T) {
	h, st := newSchoolHandler(t)
	e := echo.New()
	ctx := context.Background()

	req, rec := request(http.MethodPost, "/admin/schools", createBody)
	c := e.NewContext(req, rec)
	require.NoError(t, h.Create(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	req, rec = request(http.MethodDelete, "/admin/schools/30303194", "")
	c = e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("30303194")
	require.NoError(t, h.Delete(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	_, err := st.GetSchool(ctx, "30303194")
	assert.ErrorIs(t, err, apperr.ErrNotFound)
	_, err = st.GetUser(ctx, "30303194")
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}
