package main

import (
	"github.com/LoayAhmed23/recipe-app-api/internal/handler"
	"github.com/LoayAhmed23/recipe-app-api/internal/router"
	"github.com/LoayAhmed23/recipe-app-api/pkg/cache"
	"github.com/LoayAhmed23/recipe-app-api/pkg/config"
	"github.com/LoayAhmed23/recipe-app-api/pkg/database"
	"github.com/LoayAhmed23/recipe-app-api/pkg/logger"
	"github.com/LoayAhmed23/recipe-app-api/prometheus"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

func main() {
	appConfig, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	logger.InitLogger(appConfig)
	log := logger.GetLogger()
	defer log.Sync()

	log.Info("Starting recipe-app-api",
		zap.String("environment", appConfig.Server.Env),
		zap.String("port", appConfig.Server.Port))

	prometheus.InitMetrics(appConfig)
	log.Info("Prometheus metrics initialized",
		zap.String("metrics_prefix", appConfig.Metrics.Prefix))

	if err := database.InitDB(appConfig); err != nil {
		log.Fatal("Failed to initialize database", zap.Error(err))
	}
	log.Info("Database connection established")

	if err := cache.Init(appConfig); err != nil {
		log.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	if cache.Enabled() {
		log.Info("Token cache enabled", zap.String("redis_addr", appConfig.Redis.Addr))
	}

	handler.Init(appConfig)

	e := echo.New()
	e.HideBanner = true
	router.Setup(e)

	log.Info("Starting server", zap.String("port", appConfig.Server.Port))
	if err := e.Start(":" + appConfig.Server.Port); err != nil {
		log.Fatal("Server error", zap.Error(err))
	}
}
