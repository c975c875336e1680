package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/autochef0332/autochef/internal/core/domain"
	"github.com/autochef0332/autochef/internal/core/ports"
)

// RestaurantHandler serves the owner's restaurant profile and its secret key.
type RestaurantHandler struct {
	service ports.RestaurantService
}

func NewRestaurantHandler(service ports.RestaurantService) *RestaurantHandler {
	return &RestaurantHandler{service: service}
}

// --- Request / Response types ---

type createRestaurantRequest struct {
	Name      string   `json:"name" validate:"required,max=200"`
	Phone     *string  `json:"phone"`
	Address   *string  `json:"address"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

// updateRestaurantRequest is a partial update. Empty phone or address clear the value.
type updateRestaurantRequest struct {
	Name             *string  `json:"name" validate:"omitempty,max=200"`
	Phone            *string  `json:"phone"`
	Address          *string  `json:"address"`
	Latitude         *float64 `json:"latitude"`
	Longitude        *float64 `json:"longitude"`
	ClearCoordinates bool     `json:"clear_coordinates"`
}

// restaurantResponse exposes the secret key to its owner only.
type restaurantResponse struct {
	domain.Restaurant
	SecretKey string `json:"secret_key"`
}

func toRestaurantResponse(r *domain.Restaurant) restaurantResponse {
	return restaurantResponse{Restaurant: *r, SecretKey: r.SecretKey}
}

// Create handles POST /v1/restaurant (onboarding).
//
// @Summary      Create the owner's restaurant
// @Tags         restaurant
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createRestaurantRequest  true  "Restaurant profile"
// @Success      201   {object}  restaurantResponse
// @Failure      401   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /v1/restaurant [post]
func (h *RestaurantHandler) Create(c echo.Context) error {
	owner, err := ownerID(c)
	if err != nil {
		return err
	}
	var req createRestaurantRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	rest, err := h.service.Create(c.Request().Context(), owner, domain.RestaurantFields{
		Name:      req.Name,
		Phone:     req.Phone,
		Address:   req.Address,
		Latitude:  req.Latitude,
		Longitude: req.Longitude,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toRestaurantResponse(rest))
}

// Get handles GET /v1/restaurant.
//
// @Summary      Get the owner's restaurant
// @Tags         restaurant
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  restaurantResponse
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Router       /v1/restaurant [get]
func (h *RestaurantHandler) Get(c echo.Context) error {
	owner, err := ownerID(c)
	if err != nil {
		return err
	}
	rest, err := h.service.Get(c.Request().Context(), owner)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toRestaurantResponse(rest))
}

// Update handles PATCH /v1/restaurant.
//
// @Summary      Update the restaurant profile
// @Tags         restaurant
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      updateRestaurantRequest  true  "Fields to change"
// @Success      200   {object}  restaurantResponse
// @Failure      422   {object}  errorResponse
// @Router       /v1/restaurant [patch]
func (h *RestaurantHandler) Update(c echo.Context) error {
	owner, err := ownerID(c)
	if err != nil {
		return err
	}
	var req updateRestaurantRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	rest, err := h.service.Update(c.Request().Context(), owner, domain.RestaurantPatch{
		Name:        req.Name,
		Phone:       req.Phone,
		Address:     req.Address,
		Latitude:    req.Latitude,
		Longitude:   req.Longitude,
		ClearCoords: req.ClearCoordinates,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toRestaurantResponse(rest))
}

// ResetSecretKey handles POST /v1/restaurant/secret-key/reset.
//
// @Summary      Rotate the restaurant secret key
// @Description  The previous key stops working as soon as the new one is stored.
// @Tags         restaurant
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  restaurantResponse
// @Failure      503  {object}  errorResponse
// @Router       /v1/restaurant/secret-key/reset [post]
func (h *RestaurantHandler) ResetSecretKey(c echo.Context) error {
	owner, err := ownerID(c)
	if err != nil {
		return err
	}
	rest, err := h.service.ResetSecretKey(c.Request().Context(), owner)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toRestaurantResponse(rest))
}

// SecretKeyQR handles GET /v1/restaurant/secret-key/qr.
//
// @Summary      Secret key as a QR code
// @Tags         restaurant
// @Produce      png
// @Security     BearerAuth
// @Success      200  {file}    binary
// @Failure      404  {object}  errorResponse
// @Router       /v1/restaurant/secret-key/qr [get]
func (h *RestaurantHandler) SecretKeyQR(c echo.Context) error {
	owner, err := ownerID(c)
	if err != nil {
		return err
	}
	png, err := h.service.SecretKeyQR(c.Request().Context(), owner)
	if err != nil {
		return err
	}
	c.Response().Header().Set("Cache-Control", "no-store")
	return c.Blob(http.StatusOK, "image/png", png)
}
