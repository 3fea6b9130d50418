package middleware

import (
	"time"

	"github.com/LoayAhmed23/recipe-app-api/pkg/logger"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// RequestIDMiddleware tags each request with a unique ID, stores a
// request-scoped logger in the context and logs request completion.
func RequestIDMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		requestID := uuid.New().String()
		c.Request().Header.Set(echo.HeaderXRequestID, requestID)
		c.Response().Header().Set(echo.HeaderXRequestID, requestID)
		c.Set("request_id", requestID)

		log := logger.GetLogger().With(zap.String("request_id", requestID))
		c.Set("logger", log)

		start := time.Now()
		err := next(c)

		fields := []zap.Field{
			zap.String("method", c.Request().Method),
			zap.String("path", c.Request().URL.Path),
			zap.Int("status", c.Response().Status),
			zap.Duration("latency", time.Since(start)),
			zap.String("ip", c.RealIP()),
		}
		if err != nil {
			log.Error("HTTP request failed", append(fields, zap.Error(err))...)
		} else {
			log.Info("HTTP request completed", fields...)
		}

		return err
	}
}
