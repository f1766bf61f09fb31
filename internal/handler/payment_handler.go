package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"pixadmin/internal/errors"
	"pixadmin/internal/model"
	"pixadmin/internal/service"
)

// PaymentHandler handles payment reporting endpoints.
type PaymentHandler struct {
	paymentService service.PaymentService
}

// NewPaymentHandler creates a new payment handler.
func NewPaymentHandler(paymentService service.PaymentService) *PaymentHandler {
	return &PaymentHandler{paymentService: paymentService}
}

// PaymentsByDateRequest narrows the payment listing. Dates accept RFC 3339
// or plain YYYY-MM-DD; both bounds are inclusive.
type PaymentsByDateRequest struct {
	StartDate    string `json:"startDate"`
	EndDate      string `json:"endDate"`
	FilterOption string `json:"filterOption"`
}

// PaymentsByDateResponse wraps the matching payments.
type PaymentsByDateResponse struct {
	Payments []model.Payment `json:"payments"`
}

// ByDate godoc
// @Summary List payments by date range
// @Tags payments
// @Accept json
// @Produce json
// @Param request body PaymentsByDateRequest true "Range and filter"
// @Success 200 {object} PaymentsByDateResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /payments/by-date [post]
func (h *PaymentHandler) ByDate(c echo.Context) error {
	var req PaymentsByDateRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "invalid request body",
			Code:  "INVALID_REQUEST",
		})
	}

	from, err := parseDate(req.StartDate)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "invalid startDate",
			Code:  "INVALID_DATE",
		})
	}
	to, err := parseDate(req.EndDate)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "invalid endDate",
			Code:  "INVALID_DATE",
		})
	}

	payments, err := h.paymentService.ListByDate(c.Request().Context(), from, to, req.FilterOption)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, PaymentsByDateResponse{Payments: payments})
}

// Stats godoc
// @Summary Aggregate payment statistics
// @Tags payments
// @Produce json
// @Success 200 {object} service.PaymentStats
// @Failure 500 {object} errors.ErrorResponse
// @Router /payments/stats [get]
func (h *PaymentHandler) Stats(c echo.Context) error {
	stats, err := h.paymentService.Stats(c.Request().Context())
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, stats)
}

// parseDate accepts RFC 3339 timestamps or plain dates; "" means no bound.
func parseDate(raw string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return &t, nil
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
