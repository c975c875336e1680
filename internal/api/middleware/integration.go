package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/autochef0332/autochef/internal/core/domain"
)

// HeaderRestaurantKey carries a restaurant's secret key on integration calls.
const HeaderRestaurantKey = "X-Restaurant-Key"

// RestaurantKey rejects integration requests without a well-formed secret key and
// stores the key under "restaurant_key". Whether the key is current is checked by the service.
func RestaurantKey() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			key := strings.TrimSpace(c.Request().Header.Get(HeaderRestaurantKey))
			if len(key) != domain.SecretKeyLength {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing or malformed restaurant key")
			}
			c.Set("restaurant_key", key)
			return next(c)
		}
	}
}
