package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/autochef0332/autochef/internal/core/ports"
)

type MediaHandler struct {
	service ports.MediaService
}

func NewMediaHandler(service ports.MediaService) *MediaHandler {
	return &MediaHandler{service: service}
}

type uploadResponse struct {
	URL string `json:"url"`
}

// Upload handles POST /v1/media/images (multipart field "file").
//
// @Summary      Upload a menu image
// @Tags         media
// @Accept       mpfd
// @Produce      json
// @Security     BearerAuth
// @Param        file  formData  file  true  "Image, at most 5 MiB"
// @Success      201   {object}  uploadResponse
// @Failure      400   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Failure      503   {object}  errorResponse
// @Router       /v1/media/images [post]
func (h *MediaHandler) Upload(c echo.Context) error {
	owner, err := ownerID(c)
	if err != nil {
		return err
	}
	fh, err := c.FormFile("file")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "file is required")
	}
	f, err := fh.Open()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "unreadable file")
	}
	defer f.Close()

	url, err := h.service.UploadImage(c.Request().Context(), owner, ports.ImageUpload{
		Filename:    fh.Filename,
		ContentType: fh.Header.Get(echo.HeaderContentType),
		Size:        fh.Size,
		Body:        f,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, uploadResponse{URL: url})
}

// Delete handles DELETE /v1/media/images?url=…. Removal is best effort and always answers 204.
//
// @Summary      Delete a menu image
// @Tags         media
// @Security     BearerAuth
// @Param        url  query  string  true  "Public URL returned by the upload"
// @Success      204
// @Failure      422  {object}  errorResponse
// @Router       /v1/media/images [delete]
func (h *MediaHandler) Delete(c echo.Context) error {
	owner, err := ownerID(c)
	if err != nil {
		return err
	}
	url := c.QueryParam("url")
	if url == "" {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, "url is required")
	}
	h.service.DeleteImage(c.Request().Context(), owner, url)
	return c.NoContent(http.StatusNoContent)
}
