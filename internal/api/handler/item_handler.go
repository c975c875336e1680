package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/autochef0332/autochef/internal/core/domain"
	"github.com/autochef0332/autochef/internal/core/ports"
)

type ItemHandler struct {
	service ports.ItemService
}

func NewItemHandler(service ports.ItemService) *ItemHandler {
	return &ItemHandler{service: service}
}

type createItemRequest struct {
	Name        string      `json:"name" validate:"required,max=200"`
	Description *string     `json:"description"`
	Price       *priceInput `json:"price" swaggertype:"string" example:"12.50"`
	ImageURL    *string     `json:"image_url"`
	IsAvailable *bool       `json:"is_available"`
}

// updateItemRequest is a partial update. An empty image_url removes the image.
type updateItemRequest struct {
	Name        *string     `json:"name" validate:"omitempty,max=200"`
	Description *string     `json:"description"`
	Price       *priceInput `json:"price" swaggertype:"string" example:"12.50"`
	ImageURL    *string     `json:"image_url"`
	IsAvailable *bool       `json:"is_available"`
}

type availabilityRequest struct {
	IsAvailable *bool `json:"is_available" validate:"required"`
}

// ListAll handles GET /v1/items.
//
// @Summary      List every item of the owner
// @Tags         items
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   domain.MenuItem
// @Router       /v1/items [get]
func (h *ItemHandler) ListAll(c echo.Context) error {
	owner, err := ownerID(c)
	if err != nil {
		return err
	}
	list, err := h.service.ListAll(c.Request().Context(), owner)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, list)
}

// List handles GET /v1/sections/:sectionID/items.
//
// @Summary      List a section's items in order
// @Tags         items
// @Produce      json
// @Security     BearerAuth
// @Param        sectionID  path      string  true  "Section id"
// @Success      200        {array}   domain.MenuItem
// @Failure      404        {object}  errorResponse
// @Router       /v1/sections/{sectionID}/items [get]
func (h *ItemHandler) List(c echo.Context) error {
	owner, err := ownerID(c)
	if err != nil {
		return err
	}
	list, err := h.service.List(c.Request().Context(), owner, c.Param("sectionID"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, list)
}

// Create handles POST /v1/sections/:sectionID/items. The item is appended at the end.
//
// @Summary      Create a menu item
// @Tags         items
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        sectionID  path      string             true  "Section id"
// @Param        body       body      createItemRequest  true  "Item"
// @Success      201        {object}  domain.MenuItem
// @Failure      404        {object}  errorResponse
// @Failure      422        {object}  errorResponse
// @Router       /v1/sections/{sectionID}/items [post]
func (h *ItemHandler) Create(c echo.Context) error {
	owner, err := ownerID(c)
	if err != nil {
		return err
	}
	var req createItemRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	price, err := req.Price.decimal()
	if err != nil {
		return err
	}

	item, err := h.service.Create(c.Request().Context(), owner, c.Param("sectionID"), domain.ItemFields{
		Name:        req.Name,
		Description: req.Description,
		Price:       price,
		ImageURL:    req.ImageURL,
		IsAvailable: req.IsAvailable,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, item)
}

// Update handles PATCH /v1/sections/:sectionID/items/:itemID.
//
// @Summary      Update a menu item
// @Tags         items
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        sectionID  path      string             true  "Section id"
// @Param        itemID     path      string             true  "Item id"
// @Param        body       body      updateItemRequest  true  "Fields to change"
// @Success      200        {object}  domain.MenuItem
// @Failure      404        {object}  errorResponse
// @Failure      422        {object}  errorResponse
// @Router       /v1/sections/{sectionID}/items/{itemID} [patch]
func (h *ItemHandler) Update(c echo.Context) error {
	owner, err := ownerID(c)
	if err != nil {
		return err
	}
	var req updateItemRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	patch := domain.ItemPatch{
		Name:        req.Name,
		Description: req.Description,
		ImageURL:    req.ImageURL,
		IsAvailable: req.IsAvailable,
	}
	if req.Price != nil {
		price, err := req.Price.decimal()
		if err != nil {
			return err
		}
		patch.Price = &price
	}

	item, err := h.service.Update(c.Request().Context(), owner, c.Param("sectionID"), c.Param("itemID"), patch)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, item)
}

// SetAvailability handles PATCH /v1/sections/:sectionID/items/:itemID/availability.
//
// @Summary      Toggle item availability
// @Tags         items
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        sectionID  path      string               true  "Section id"
// @Param        itemID     path      string               true  "Item id"
// @Param        body       body      availabilityRequest  true  "Availability"
// @Success      200        {object}  domain.MenuItem
// @Failure      404        {object}  errorResponse
// @Router       /v1/sections/{sectionID}/items/{itemID}/availability [patch]
func (h *ItemHandler) SetAvailability(c echo.Context) error {
	owner, err := ownerID(c)
	if err != nil {
		return err
	}
	var req availabilityRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	item, err := h.service.SetAvailability(c.Request().Context(), owner, c.Param("sectionID"), c.Param("itemID"), *req.IsAvailable)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, item)
}

// Delete handles DELETE /v1/sections/:sectionID/items/:itemID.
//
// @Summary      Delete a menu item
// @Tags         items
// @Security     BearerAuth
// @Param        sectionID  path  string  true  "Section id"
// @Param        itemID     path  string  true  "Item id"
// @Success      204
// @Failure      404  {object}  errorResponse
// @Router       /v1/sections/{sectionID}/items/{itemID} [delete]
func (h *ItemHandler) Delete(c echo.Context) error {
	owner, err := ownerID(c)
	if err != nil {
		return err
	}
	if err := h.service.Delete(c.Request().Context(), owner, c.Param("sectionID"), c.Param("itemID")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// Reorder handles PUT /v1/sections/:sectionID/items/order.
//
// @Summary      Persist a new item order within a section
// @Tags         items
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        sectionID  path      string          true  "Section id"
// @Param        body       body      reorderRequest  true  "Item ids in their new order"
// @Success      200        {array}   domain.MenuItem
// @Failure      422        {object}  errorResponse
// @Failure      503        {object}  errorResponse
// @Router       /v1/sections/{sectionID}/items/order [put]
func (h *ItemHandler) Reorder(c echo.Context) error {
	owner, err := ownerID(c)
	if err != nil {
		return err
	}
	var req reorderRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	list, err := h.service.Reorder(c.Request().Context(), owner, c.Param("sectionID"), req.IDs)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, list)
}

// Move handles POST /v1/sections/:sectionID/items/:itemID/move.
//
// @Summary      Move one item to a new index within its section
// @Tags         items
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        sectionID  path      string       true  "Section id"
// @Param        itemID     path      string       true  "Item id"
// @Param        body       body      moveRequest  true  "Target index, clamped to the list"
// @Success      200        {array}   domain.MenuItem
// @Failure      404        {object}  errorResponse
// @Failure      503        {object}  errorResponse
// @Router       /v1/sections/{sectionID}/items/{itemID}/move [post]
func (h *ItemHandler) Move(c echo.Context) error {
	owner, err := ownerID(c)
	if err != nil {
		return err
	}
	var req moveRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	list, err := h.service.Move(c.Request().Context(), owner, c.Param("sectionID"), c.Param("itemID"), *req.Index)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, list)
}
