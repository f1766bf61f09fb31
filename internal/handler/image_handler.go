package handler

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"pixadmin/internal/errors"
	"pixadmin/internal/model"
	"pixadmin/internal/pagination"
	"pixadmin/internal/repository"
	"pixadmin/internal/service"
)

// MessageResponse is the plain success payload used by mutation endpoints.
type MessageResponse struct {
	Message string `json:"message"`
}

// ImageHandler handles image listing and gallery curation endpoints.
type ImageHandler struct {
	imageService service.ImageService
}

// NewImageHandler creates a new image handler.
func NewImageHandler(imageService service.ImageService) *ImageHandler {
	return &ImageHandler{imageService: imageService}
}

// ListImagesRequest filters the image listing.
type ListImagesRequest struct {
	Page         int    `json:"page"`
	PromptSearch string `json:"promptSearch"`
	InGallery    *bool  `json:"inGallery"`
}

// ListImagesResponse is one page of images plus pager data.
type ListImagesResponse struct {
	Images      []model.Image `json:"images"`
	TotalImages int64         `json:"totalImages"`
	TotalPages  int           `json:"totalPages"`
	PageWindow  []int         `json:"pageWindow"`
}

// ListImages godoc
// @Summary List text-to-image generations
// @Tags images
// @Accept json
// @Produce json
// @Param request body ListImagesRequest true "Filters and page"
// @Success 200 {object} ListImagesResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /images/list [post]
func (h *ImageHandler) ListImages(c echo.Context) error {
	var req ListImagesRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "invalid request body",
			Code:  "INVALID_REQUEST",
		})
	}
	if req.Page < 1 {
		req.Page = 1
	}

	images, total, err := h.imageService.ListImages(c.Request().Context(), req.Page, req.PromptSearch, req.InGallery)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	totalPages := pagination.TotalPages(total, repository.PageSize)
	return c.JSON(http.StatusOK, ListImagesResponse{
		Images:      images,
		TotalImages: total,
		TotalPages:  totalPages,
		PageWindow:  pagination.Window(req.Page, totalPages),
	})
}

// GalleryAddRequest identifies the image to share and its category.
type GalleryAddRequest struct {
	ImageID  string `json:"imageId" validate:"required,uuid"`
	Category string `json:"category"`
}

// GalleryAdd godoc
// @Summary Add an image to the shared gallery
// @Tags images
// @Accept json
// @Produce json
// @Param request body GalleryAddRequest true "Image id and optional category"
// @Success 200 {object} MessageResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /images/gallery/add [post]
func (h *ImageHandler) GalleryAdd(c echo.Context) error {
	var req GalleryAddRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "invalid request body",
			Code:  "INVALID_REQUEST",
		})
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: err.Error(),
			Code:  "VALIDATION_ERROR",
		})
	}

	imageID, err := uuid.Parse(req.ImageID)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "invalid imageId",
			Code:  "INVALID_UUID",
		})
	}

	if err := h.imageService.AddToGallery(c.Request().Context(), imageID, req.Category); err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, MessageResponse{Message: "image added to shared gallery"})
}

// GalleryRemoveRequest identifies the image to unshare.
type GalleryRemoveRequest struct {
	ImageID string `json:"imageId" validate:"required,uuid"`
}

// GalleryRemove godoc
// @Summary Remove an image from the shared gallery
// @Tags images
// @Accept json
// @Produce json
// @Param request body GalleryRemoveRequest true "Image id"
// @Success 200 {object} MessageResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /images/gallery/remove [post]
func (h *ImageHandler) GalleryRemove(c echo.Context) error {
	var req GalleryRemoveRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "invalid request body",
			Code:  "INVALID_REQUEST",
		})
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: err.Error(),
			Code:  "VALIDATION_ERROR",
		})
	}

	imageID, err := uuid.Parse(req.ImageID)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "invalid imageId",
			Code:  "INVALID_UUID",
		})
	}

	if err := h.imageService.RemoveFromGallery(c.Request().Context(), imageID); err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, MessageResponse{Message: "image removed from shared gallery"})
}

// GalleryUpdateRequest patches gallery metadata on one image.
type GalleryUpdateRequest struct {
	ImageID  string `json:"imageId" validate:"required,uuid"`
	Likes    int    `json:"likes"`
	Category string `json:"category"`
}

// GalleryUpdate godoc
// @Summary Update gallery likes and category of an image
// @Tags images
// @Accept json
// @Produce json
// @Param request body GalleryUpdateRequest true "Image id, likes, category"
// @Success 200 {object} MessageResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /images/gallery/update [post]
func (h *ImageHandler) GalleryUpdate(c echo.Context) error {
	var req GalleryUpdateRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "invalid request body",
			Code:  "INVALID_REQUEST",
		})
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: err.Error(),
			Code:  "VALIDATION_ERROR",
		})
	}

	imageID, err := uuid.Parse(req.ImageID)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "invalid imageId",
			Code:  "INVALID_UUID",
		})
	}

	if err := h.imageService.UpdateGalleryData(c.Request().Context(), imageID, req.Likes, req.Category); err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, MessageResponse{Message: "image updated successfully"})
}
