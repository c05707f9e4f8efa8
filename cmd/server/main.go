package main

import (
	"flowmart-be/internal/cart"
	"flowmart-be/internal/config"
	"flowmart-be/internal/db"
	"flowmart-be/internal/handler"
	"flowmart-be/internal/logger"
	"flowmart-be/internal/metrics"
	"flowmart-be/internal/middleware"
	"flowmart-be/internal/product"
	"flowmart-be/internal/user"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

func main() {
	cfg := config.LoadConfig()

	logger.Init(cfg.AppEnv)
	defer logger.Sync()

	database, err := db.NewDatabase(cfg)
	if err != nil {
		logger.L().Fatal("failed to connect to database", zap.Error(err))
	}
	defer database.Close()

	productRepo := product.NewRepository(database)
	productSvc := product.NewService(productRepo)

	userRepo := user.NewRepository(database)
	userSvc := user.NewService(userRepo)

	cartRepo := cart.NewRepository(database)
	cartSvc := cart.NewService(cartRepo, productRepo, metrics.NewCartMetrics())

	e := echo.New()
	e.HideBanner = true

	e.Use(logger.RequestIDMiddleware)
	e.Use(logger.LoggingMiddleware)
	e.Use(middleware.AuthMiddleware)
	e.Use(middleware.RateLimitMiddleware)

	handler.Register(e, handler.Deps{
		Products: productSvc,
		Users:    userSvc,
		Carts:    cartSvc,
	})

	logger.L().Info("server starting", zap.String("port", cfg.AppPort))
	if err := e.Start(":" + cfg.AppPort); err != nil {
		logger.L().Fatal("server stopped", zap.Error(err))
	}
}
