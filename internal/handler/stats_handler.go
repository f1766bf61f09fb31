package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"pixadmin/internal/errors"
	"pixadmin/internal/service"
)

// StatsHandler handles the dashboard statistics endpoints.
type StatsHandler struct {
	statsService service.StatsService
}

// NewStatsHandler creates a new stats handler.
func NewStatsHandler(statsService service.StatsService) *StatsHandler {
	return &StatsHandler{statsService: statsService}
}

// Summary godoc
// @Summary Dashboard statistics: 31-day daily series plus totals
// @Tags stats
// @Produce json
// @Success 200 {object} map[string]service.SummaryStats
// @Failure 500 {object} errors.ErrorResponse
// @Router /stats/summary [get]
func (h *StatsHandler) Summary(c echo.Context) error {
	stats, err := h.statsService.Summary(c.Request().Context())
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, echo.Map{"stats": stats})
}

// ImageGeneration godoc
// @Summary Per-day image generation timing statistics
// @Tags stats
// @Produce json
// @Success 200 {object} service.ImageGenerationStats
// @Failure 500 {object} errors.ErrorResponse
// @Router /stats/image-generation [get]
func (h *StatsHandler) ImageGeneration(c echo.Context) error {
	stats, err := h.statsService.ImageGeneration(c.Request().Context())
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, stats)
}

// PromptWords godoc
// @Summary Top 100 most frequent prompt words
// @Tags stats
// @Produce json
// @Success 200 {object} map[string][]service.WordCount
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /stats/prompt-words [get]
func (h *StatsHandler) PromptWords(c echo.Context) error {
	words, err := h.statsService.PromptWords(c.Request().Context())
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, echo.Map{"topWords": words})
}
