package main

import (
	"net/http"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"pixadmin/docs"
	"pixadmin/internal/cache"
	"pixadmin/internal/config"
	"pixadmin/internal/db"
	"pixadmin/internal/handler"
	"pixadmin/internal/model"
	"pixadmin/internal/repository"
	"pixadmin/internal/router"
	"pixadmin/internal/service"
)

// @title Pixadmin API
// @version 1.0
// @description Internal admin dashboard API for the image generation product.
// @host localhost:8080
// @BasePath /api
// @schemes http
func main() {
	_ = godotenv.Load()
	zap.ReplaceGlobals(zap.Must(zap.NewProduction()))
	defer func() { _ = zap.L().Sync() }()

	cfg := config.Load()
	if cfg.SwaggerHost != "" {
		docs.SwaggerInfo.Host = cfg.SwaggerHost
	}

	e := echo.New()
	e.Use(middleware.RequestID())

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		zap.L().Fatal("database init", zap.Error(err))
	}

	if err := gormDB.AutoMigrate(&model.User{}, &model.Image{}, &model.Payment{}); err != nil {
		zap.L().Fatal("auto-migrate", zap.Error(err))
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)

	userRepo := repository.NewUserRepository(gormDB)
	imageRepo := repository.NewImageRepository(gormDB)
	paymentRepo := repository.NewPaymentRepository(gormDB)

	imageService := service.NewImageService(imageRepo)
	userService := service.NewUserService(userRepo)
	paymentService := service.NewPaymentService(paymentRepo, userRepo)
	statsService := service.NewStatsService(userRepo, imageRepo, paymentRepo, cacheClient, cfg.StatsCacheTTL)

	imageHandler := handler.NewImageHandler(imageService)
	userHandler := handler.NewUserHandler(userService, imageService)
	statsHandler := handler.NewStatsHandler(statsService)
	paymentHandler := handler.NewPaymentHandler(paymentService)

	router.Register(e, cfg, imageHandler, userHandler, statsHandler, paymentHandler)

	addr := ":" + cfg.ServerPort
	zap.L().Info("starting server", zap.String("addr", addr))
	if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
		zap.L().Fatal("server start", zap.Error(err))
	}
}
