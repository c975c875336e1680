package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/autochef0332/autochef/internal/core/domain"
	"github.com/autochef0332/autochef/internal/core/ports"
)

type SectionHandler struct {
	service ports.SectionService
}

func NewSectionHandler(service ports.SectionService) *SectionHandler {
	return &SectionHandler{service: service}
}

type createSectionRequest struct {
	Name        string  `json:"name" validate:"required,max=120"`
	Description *string `json:"description"`
}

type updateSectionRequest struct {
	Name        *string `json:"name" validate:"omitempty,max=120"`
	Description *string `json:"description"`
}

// List handles GET /v1/sections.
//
// @Summary      List menu sections in order
// @Tags         sections
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   domain.MenuSection
// @Failure      403  {object}  errorResponse
// @Router       /v1/sections [get]
func (h *SectionHandler) List(c echo.Context) error {
	owner, err := ownerID(c)
	if err != nil {
		return err
	}
	list, err := h.service.List(c.Request().Context(), owner)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, list)
}

// Create handles POST /v1/sections. The section is appended at the end.
//
// @Summary      Create a menu section
// @Tags         sections
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createSectionRequest  true  "Section"
// @Success      201   {object}  domain.MenuSection
// @Failure      422   {object}  errorResponse
// @Router       /v1/sections [post]
func (h *SectionHandler) Create(c echo.Context) error {
	owner, err := ownerID(c)
	if err != nil {
		return err
	}
	var req createSectionRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	section, err := h.service.Create(c.Request().Context(), owner, domain.SectionFields{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, section)
}

// Update handles PATCH /v1/sections/:sectionID.
//
// @Summary      Update a menu section
// @Tags         sections
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        sectionID  path      string                true  "Section id"
// @Param        body       body      updateSectionRequest  true  "Fields to change"
// @Success      200        {object}  domain.MenuSection
// @Failure      404        {object}  errorResponse
// @Failure      422        {object}  errorResponse
// @Router       /v1/sections/{sectionID} [patch]
func (h *SectionHandler) Update(c echo.Context) error {
	owner, err := ownerID(c)
	if err != nil {
		return err
	}
	var req updateSectionRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	section, err := h.service.Update(c.Request().Context(), owner, c.Param("sectionID"), domain.SectionPatch{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, section)
}

// Delete handles DELETE /v1/sections/:sectionID. The section's items are deleted with it.
//
// @Summary      Delete a menu section and its items
// @Tags         sections
// @Security     BearerAuth
// @Param        sectionID  path  string  true  "Section id"
// @Success      204
// @Failure      404  {object}  errorResponse
// @Router       /v1/sections/{sectionID} [delete]
func (h *SectionHandler) Delete(c echo.Context) error {
	owner, err := ownerID(c)
	if err != nil {
		return err
	}
	if err := h.service.Delete(c.Request().Context(), owner, c.Param("sectionID")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// Reorder handles PUT /v1/sections/order.
//
// @Summary      Persist a new section order
// @Description  ids must list every section exactly once. A 503 lists the ids whose position was not saved.
// @Tags         sections
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      reorderRequest  true  "Section ids in their new order"
// @Success      200   {array}   domain.MenuSection
// @Failure      422   {object}  errorResponse
// @Failure      503   {object}  errorResponse
// @Router       /v1/sections/order [put]
func (h *SectionHandler) Reorder(c echo.Context) error {
	owner, err := ownerID(c)
	if err != nil {
		return err
	}
	var req reorderRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	list, err := h.service.Reorder(c.Request().Context(), owner, req.IDs)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, list)
}

// Move handles POST /v1/sections/:sectionID/move: a single drag.
//
// @Summary      Move one section to a new index
// @Tags         sections
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        sectionID  path      string       true  "Section id"
// @Param        body       body      moveRequest  true  "Target index, clamped to the list"
// @Success      200        {array}   domain.MenuSection
// @Failure      404        {object}  errorResponse
// @Failure      503        {object}  errorResponse
// @Router       /v1/sections/{sectionID}/move [post]
func (h *SectionHandler) Move(c echo.Context) error {
	owner, err := ownerID(c)
	if err != nil {
		return err
	}
	var req moveRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	list, err := h.service.Move(c.Request().Context(), owner, c.Param("sectionID"), *req.Index)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, list)
}
