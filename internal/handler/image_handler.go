package handler

import (
	"io"
	"net/http"

	"github.com/labstack/echo/v4"

	apperrors "marketplace/internal/errors"
	"marketplace/internal/service"
)

// ImageHandler handles image uploads.
type ImageHandler struct {
	imageService service.ImageService
}

// NewImageHandler creates a new image handler.
func NewImageHandler(imageService service.ImageService) *ImageHandler {
	return &ImageHandler{imageService: imageService}
}

// ImageResponse carries the public URL of an uploaded image.
type ImageResponse struct {
	URL string `json:"url"`
}

// Upload godoc
// @Summary Upload an image
// @Description Accepts one image up to 5 MiB in the multipart field "image".
// @Tags images
// @Accept multipart/form-data
// @Produce json
// @Param image formData file true "Image file"
// @Success 200 {object} ImageResponse
// @Failure 422 {object} errors.ErrorResponse
// @Failure 502 {object} errors.ErrorResponse
// @Router /upload-image [post]
func (h *ImageHandler) Upload(c echo.Context) error {
	file, err := c.FormFile("image")
	if err != nil {
		return apperrors.NewValidationError("image", "The image field is required.")
	}
	if file.Size > service.MaxImageSize {
		return apperrors.NewValidationError("image", "The image field must not be greater than 5120 kilobytes.")
	}

	src, err := file.Open()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "unreadable upload").SetInternal(err)
	}
	defer src.Close()

	data, err := io.ReadAll(io.LimitReader(src, service.MaxImageSize+1))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "unreadable upload").SetInternal(err)
	}

	url, err := h.imageService.Upload(c.Request().Context(), data)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, ImageResponse{URL: url})
}
