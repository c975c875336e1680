package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// ownerID extracts the owner id injected by the Auth middleware and fails fast
// with 401 when the middleware did not run.
func ownerID(c echo.Context) (string, error) {
	id, _ := c.Get("owner_id").(string)
	if id == "" {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return id, nil
}

// bindAndValidate decodes the request body into req and runs the struct validator.
func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}
	return nil
}
