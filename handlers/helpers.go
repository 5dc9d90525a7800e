package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/ristinalapbulan-create/sipandusd/apperr"
)

func httpStatus(err error) int {
	switch apperr.Code(err) {
	case "NOT_FOUND":
		return http.StatusNotFound
	case "INVALID_ARGUMENT":
		return http.StatusBadRequest
	case "CONFLICT":
		return http.StatusConflict
	case "TIMEOUT":
		return http.StatusGatewayTimeout
	default:
		return http.StatusBadGateway
	}
}

// jsonErr renders a service error the same way everywhere:
// {"error": CODE, "message": detail}.
func jsonErr(c echo.Context, err error) error {
	return c.JSON(httpStatus(err), map[string]any{
		"error":   apperr.Code(err),
		"message": err.Error(),
	})
}

// sessionNPSN reads the npsn the auth middleware attached.
func sessionNPSN(c echo.Context) string {
	npsn, _ := c.Get("npsn").(string)
	return npsn
}

func sessionUserID(c echo.Context) string {
	id, _ := c.Get("user_id").(string)
	return id
}
