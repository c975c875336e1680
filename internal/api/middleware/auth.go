package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

var errNoCredentials = errors.New("missing authorization header")

// Auth validates the JWT and injects the owner identity into context.
func Auth(jwtSecret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims, err := parseBearer(c.Request().Header.Get("Authorization"), jwtSecret)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
			}
			setIdentity(c, claims)
			return next(c)
		}
	}
}

// OptionalAuth injects the owner identity when a valid token is present. Requests
// without one, or with an expired or malformed one, continue as anonymous.
func OptionalAuth(jwtSecret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if claims, err := parseBearer(c.Request().Header.Get("Authorization"), jwtSecret); err == nil {
				setIdentity(c, claims)
			}
			return next(c)
		}
	}
}

func parseBearer(authHeader, jwtSecret string) (jwt.MapClaims, error) {
	if authHeader == "" {
		return nil, errNoCredentials
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return nil, errors.New("invalid authorization header")
	}

	claims := jwt.MapClaims{}
	tkn, err := jwt.ParseWithClaims(parts[1], claims, func(token *jwt.Token) (interface{}, error) {
		if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return []byte(jwtSecret), nil
	})
	if err != nil || !tkn.Valid {
		return nil, errors.New("invalid token")
	}

	if sub, _ := claims["sub"].(string); sub == "" {
		return nil, errors.New("token missing subject")
	}
	return claims, nil
}

func setIdentity(c echo.Context, claims jwt.MapClaims) {
	c.Set("owner_id", claims["sub"])
	c.Set("email", claims["email"])
}
