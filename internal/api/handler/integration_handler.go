package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/autochef0332/autochef/internal/core/ports"
)

// IntegrationHandler serves third parties that authenticate with a restaurant's secret key.
type IntegrationHandler struct {
	menus ports.MenuService
}

func NewIntegrationHandler(menus ports.MenuService) *IntegrationHandler {
	return &IntegrationHandler{menus: menus}
}

// Menu handles GET /integrations/v1/menu.
//
// @Summary      Ordered menu of the restaurant owning the key
// @Tags         integrations
// @Produce      json
// @Param        X-Restaurant-Key  header    string  true  "Restaurant secret key"
// @Success      200               {object}  ports.MenuSnapshot
// @Failure      401               {object}  errorResponse
// @Router       /integrations/v1/menu [get]
func (h *IntegrationHandler) Menu(c echo.Context) error {
	key, _ := c.Get("restaurant_key").(string)
	snapshot, err := h.menus.Snapshot(c.Request().Context(), key)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, snapshot)
}
