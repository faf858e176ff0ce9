package httpapi

import (
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"review-sentiment/utils"
)

const requestIDHeader = "X-Request-ID"

// RequestID reuses the caller's X-Request-ID or assigns a new one, and puts it on the request context
func RequestID() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()

			id := req.Header.Get(requestIDHeader)
			if id == "" {
				id = uuid.NewString()
			}

			c.SetRequest(req.WithContext(utils.WithRequestID(req.Context(), id)))
			c.Response().Header().Set(requestIDHeader, id)
			return next(c)
		}
	}
}

// AccessLog writes one log line per request. Handler errors are rendered here
// so the logged status is the one the client received.
func AccessLog(logger *slog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			if err := next(c); err != nil {
				c.Error(err)
			}

			req := c.Request()
			res := c.Response()
			logger.InfoContext(req.Context(), "request completed",
				"method", req.Method,
				"path", req.URL.Path,
				"route", c.Path(),
				"status_code", res.Status,
				"response_size", res.Size,
				"ip_address", c.RealIP(),
				"duration_ms", time.Since(start).Milliseconds(),
			)
			return nil
		}
	}
}
