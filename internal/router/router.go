package router

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"

	"pixadmin/internal/config"
	"pixadmin/internal/handler"
)

// Register wires routes and middleware.
func Register(
	e *echo.Echo,
	cfg *config.Config,
	imageHandler *handler.ImageHandler,
	userHandler *handler.UserHandler,
	statsHandler *handler.StatsHandler,
	paymentHandler *handler.PaymentHandler,
) {
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	// A stats request that outlives the timeout fails that request only.
	e.Use(middleware.ContextTimeout(cfg.RequestTimeout))

	e.Validator = &CustomValidator{validator: validator.New()}

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group("/api")

	// Image listing and gallery curation
	api.POST("/images/list", imageHandler.ListImages)
	api.POST("/images/gallery/add", imageHandler.GalleryAdd)
	api.POST("/images/gallery/remove", imageHandler.GalleryRemove)
	api.POST("/images/gallery/update", imageHandler.GalleryUpdate)

	// Users. The static subscriptions route is registered before :id.
	api.GET("/users", userHandler.ListUsers)
	api.POST("/users/search", userHandler.SearchUsers)
	api.GET("/users/subscriptions", userHandler.ActiveSubscribers)
	api.GET("/users/:id", userHandler.GetUser)
	api.DELETE("/users/:id", userHandler.DeleteUser)
	api.PUT("/users/:id", userHandler.UpdateUser)
	api.POST("/users/:id/images", userHandler.UserImages)

	// Dashboard statistics
	api.GET("/stats/summary", statsHandler.Summary)
	api.GET("/stats/image-generation", statsHandler.ImageGeneration)
	api.GET("/stats/prompt-words", statsHandler.PromptWords)

	// Payment reporting
	api.POST("/payments/by-date", paymentHandler.ByDate)
	api.GET("/payments/stats", paymentHandler.Stats)
	api.POST("/payments/stats", paymentHandler.Stats)
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}
