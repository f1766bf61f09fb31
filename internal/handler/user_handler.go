package handler

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"pixadmin/internal/errors"
	"pixadmin/internal/model"
	"pixadmin/internal/pagination"
	"pixadmin/internal/repository"
	"pixadmin/internal/service"
)

// UserHandler handles user listing, lookup and patch endpoints.
type UserHandler struct {
	userService  service.UserService
	imageService service.ImageService
}

// NewUserHandler creates a new user handler.
func NewUserHandler(userService service.UserService, imageService service.ImageService) *UserHandler {
	return &UserHandler{userService: userService, imageService: imageService}
}

// SearchUsersRequest carries the composable user search filters.
type SearchUsersRequest struct {
	SearchEmail        string `json:"searchEmail"`
	SearchID           string `json:"searchId"`
	SearchName         string `json:"searchName"`
	SubscriptionFilter string `json:"subscriptionFilter"`
	ActiveFilter       string `json:"activeFilter"`
	SortOption         string `json:"sortOption"`
	Page               int    `json:"page"`
}

// SearchUsersResponse is one page of users plus pager data.
type SearchUsersResponse struct {
	Users      []model.User `json:"users"`
	TotalUsers int64        `json:"totalUsers"`
	TotalPages int          `json:"totalPages"`
	PageWindow []int        `json:"pageWindow"`
}

func (h *UserHandler) search(c echo.Context, req SearchUsersRequest) error {
	if req.Page < 1 {
		req.Page = 1
	}

	users, total, err := h.userService.Search(c.Request().Context(), service.UserSearchParams{
		Email:        req.SearchEmail,
		ID:           req.SearchID,
		Name:         req.SearchName,
		Subscription: req.SubscriptionFilter,
		ActiveFilter: req.ActiveFilter,
		Sort:         req.SortOption,
		Page:         req.Page,
	})
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	totalPages := pagination.TotalPages(total, repository.PageSize)
	return c.JSON(http.StatusOK, SearchUsersResponse{
		Users:      users,
		TotalUsers: total,
		TotalPages: totalPages,
		PageWindow: pagination.Window(req.Page, totalPages),
	})
}

// SearchUsers godoc
// @Summary Search users with filters, sorting and pagination
// @Tags users
// @Accept json
// @Produce json
// @Param request body SearchUsersRequest true "Filters"
// @Success 200 {object} SearchUsersResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /users/search [post]
func (h *UserHandler) SearchUsers(c echo.Context) error {
	var req SearchUsersRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "invalid request body",
			Code:  "INVALID_REQUEST",
		})
	}
	return h.search(c, req)
}

// ListUsers godoc
// @Summary List the first page of users
// @Tags users
// @Produce json
// @Success 200 {object} SearchUsersResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /users [get]
func (h *UserHandler) ListUsers(c echo.Context) error {
	return h.search(c, SearchUsersRequest{Page: 1})
}

// GetUser godoc
// @Summary Get a user by id
// @Tags users
// @Produce json
// @Param id path string true "User ID"
// @Success 200 {object} map[string]model.User
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /users/{id} [get]
func (h *UserHandler) GetUser(c echo.Context) error {
	userID, httpErr := parseUserID(c)
	if httpErr != nil {
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	user, err := h.userService.Get(c.Request().Context(), userID)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, echo.Map{"user": user})
}

// DeleteUser godoc
// @Summary Delete a user by id
// @Tags users
// @Produce json
// @Param id path string true "User ID"
// @Success 200 {object} MessageResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /users/{id} [delete]
func (h *UserHandler) DeleteUser(c echo.Context) error {
	userID, httpErr := parseUserID(c)
	if httpErr != nil {
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	if err := h.userService.Delete(c.Request().Context(), userID); err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, MessageResponse{Message: "user deleted successfully"})
}

// UpdateUserRequest is a partial patch; nil fields stay untouched.
type UpdateUserRequest struct {
	Subscription *string `json:"subscription"`
	Credits      *int64  `json:"credits"`
}

// UpdateUser godoc
// @Summary Patch subscription tier and credits of a user
// @Tags users
// @Accept json
// @Produce json
// @Param id path string true "User ID"
// @Param request body UpdateUserRequest true "Fields to patch"
// @Success 200 {object} map[string]model.User
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /users/{id} [put]
func (h *UserHandler) UpdateUser(c echo.Context) error {
	userID, httpErr := parseUserID(c)
	if httpErr != nil {
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	var req UpdateUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "invalid request body",
			Code:  "INVALID_REQUEST",
		})
	}

	user, err := h.userService.UpdateSubscription(c.Request().Context(), userID, req.Subscription, req.Credits)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, echo.Map{"user": user})
}

// UserImages godoc
// @Summary List images owned by a user
// @Tags users
// @Produce json
// @Param id path string true "User ID"
// @Success 200 {object} map[string][]model.Image
// @Failure 400 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /users/{id}/images [post]
func (h *UserHandler) UserImages(c echo.Context) error {
	userID, httpErr := parseUserID(c)
	if httpErr != nil {
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	images, err := h.imageService.ListUserImages(c.Request().Context(), userID)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, echo.Map{"images": images})
}

// SubscriberSummary is the slim projection served to the subscriptions page.
type SubscriberSummary struct {
	ID                  uuid.UUID  `json:"id"`
	Email               string     `json:"email"`
	Name                string     `json:"name"`
	Subscription        string     `json:"subscription"`
	SubscriptionEndDate *time.Time `json:"subscription_end_date"`
}

// ActiveSubscribers godoc
// @Summary List users with an active subscription
// @Tags users
// @Produce json
// @Success 200 {object} map[string][]SubscriberSummary
// @Failure 500 {object} errors.ErrorResponse
// @Router /users/subscriptions [get]
func (h *UserHandler) ActiveSubscribers(c echo.Context) error {
	users, err := h.userService.ActiveSubscribers(c.Request().Context())
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	summaries := make([]SubscriberSummary, 0, len(users))
	for _, u := range users {
		summaries = append(summaries, SubscriberSummary{
			ID:                  u.ID,
			Email:               u.Email,
			Name:                u.Name,
			Subscription:        u.Subscription,
			SubscriptionEndDate: u.SubscriptionEndDate,
		})
	}
	return c.JSON(http.StatusOK, echo.Map{"activeUsers": summaries})
}

// parseUserID reads and validates the :id path parameter.
func parseUserID(c echo.Context) (uuid.UUID, *errors.HTTPError) {
	raw := c.Param("id")
	if raw == "" {
		return uuid.Nil, errors.MapErrorToHTTP(errors.ErrMissingUserID)
	}
	userID, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, errors.NewHTTPError(http.StatusBadRequest, "invalid user id", "INVALID_UUID")
	}
	return userID, nil
}
