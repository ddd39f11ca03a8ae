package middleware

import (
	"time"

	"github.com/labstack/echo/v4"

	applogger "FxPulse/pkg/logger"
)

// RequestLogging emits one structured log line per request. The /metrics
// scrape is skipped to keep the log readable.
func RequestLogging(l *applogger.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			if req.URL.Path == "/metrics" {
				return next(c)
			}
			start := time.Now()

			err := next(c)

			l.Info("request",
				applogger.String("method", req.Method),
				applogger.String("path", req.RequestURI),
				applogger.String("remote", req.RemoteAddr),
				applogger.Int("status", c.Response().Status),
				applogger.Duration("latency_ms", time.Since(start)),
			)
			return err
		}
	}
}
