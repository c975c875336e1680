package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/autochef0332/autochef/internal/core/domain"
	"github.com/autochef0332/autochef/internal/core/ports"
)

type SessionHandler struct {
	sessions ports.SessionService
}

func NewSessionHandler(sessions ports.SessionService) *SessionHandler {
	return &SessionHandler{sessions: sessions}
}

type sessionResponse struct {
	State    domain.SessionState `json:"state"`
	Surface  domain.Surface      `json:"surface"`
	Allowed  bool                `json:"allowed"`
	Redirect domain.Surface      `json:"redirect,omitempty"`
}

// Get handles GET /v1/session: the route guard decision for the caller.
//
// @Summary      Resolve the route guard state
// @Description  Without a surface the caller's home surface is reported.
// @Tags         session
// @Produce      json
// @Security     BearerAuth
// @Param        surface  query     string  false  "sign_in, setup or operational"
// @Success      200      {object}  sessionResponse
// @Failure      422      {object}  errorResponse
// @Failure      503      {object}  errorResponse
// @Router       /v1/session [get]
func (h *SessionHandler) Get(c echo.Context) error {
	requested := c.QueryParam("surface")
	var surface domain.Surface
	if requested != "" {
		var ok bool
		if surface, ok = domain.ParseSurface(requested); !ok {
			return domain.Invalid("surface", "must be one of sign_in, setup, operational")
		}
	}

	ownerID, _ := c.Get("owner_id").(string)
	state, err := h.sessions.State(c.Request().Context(), ownerID)
	if err != nil {
		return err
	}

	if surface == "" {
		surface = state.Home()
	}
	allowed, redirect := state.Route(surface)
	return c.JSON(http.StatusOK, sessionResponse{
		State:    state,
		Surface:  surface,
		Allowed:  allowed,
		Redirect: redirect,
	})
}
