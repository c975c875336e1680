package middleware

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/autochef0332/autochef/internal/core/domain"
)

// StateResolver resolves the session state of an owner. An empty owner id is anonymous.
type StateResolver interface {
	State(ctx context.Context, ownerID string) (domain.SessionState, error)
}

type guardResponse struct {
	Error    string              `json:"error"`
	State    domain.SessionState `json:"state"`
	Redirect domain.Surface      `json:"redirect"`
}

// RequireSurface lets a request through only when the caller's session state may
// see surface. Rejections carry the surface the client should redirect to:
//   - anonymous → 401, redirect sign_in
//   - onboarding asking for anything but setup → 403, redirect setup
//   - active asking for setup → 409, redirect operational
//
// Resolution failures are returned to the error handler; the guard never guesses a state.
func RequireSurface(resolver StateResolver, surface domain.Surface) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ownerID, _ := c.Get("owner_id").(string)

			state, err := resolver.State(c.Request().Context(), ownerID)
			if err != nil {
				return err
			}

			allowed, redirect := state.Route(surface)
			if allowed {
				return next(c)
			}

			code, msg := http.StatusForbidden, "complete restaurant setup first"
			switch {
			case redirect == domain.SurfaceSignIn:
				code, msg = http.StatusUnauthorized, "sign in required"
			case state == domain.StateActive:
				code, msg = http.StatusConflict, "restaurant already set up"
			}
			return c.JSON(code, guardResponse{Error: msg, State: state, Redirect: redirect})
		}
	}
}
