package logger

import (
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// RequestIDMiddleware tags every request context with an X-Request-ID,
// generating one when the client did not send it.
func RequestIDMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		r := c.Request()

		reqID := r.Header.Get("X-Request-ID")
		if reqID == "" {
			reqID = uuid.New().String()
		}

		ctx := WithRequestID(r.Context(), reqID)
		c.SetRequest(r.WithContext(ctx))
		c.Response().Header().Set("X-Request-ID", reqID)

		return next(c)
	}
}

// LoggingMiddleware logs every HTTP request with method, path, status and duration.
func LoggingMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		start := time.Now()
		log := FromCtx(c.Request().Context())

		err := next(c)

		log.Info("incoming request",
			zap.String("method", c.Request().Method),
			zap.String("path", c.Request().URL.Path),
			zap.Int("status", c.Response().Status),
			zap.String("ip", c.RealIP()),
			zap.Duration("duration_ms", time.Since(start)),
		)

		return err
	}
}
