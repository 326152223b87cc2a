package middleware

import (
	"time"

	"invoptimizer/pkg/logger"

	"github.com/labstack/echo/v4"
)

// RequestLogger attaches a request-scoped logger to the context and writes one
// access log entry per request. Run it after echo's RequestID middleware.
func RequestLogger(base *logger.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			req := c.Request()
			res := c.Response()

			requestID := res.Header().Get(echo.HeaderXRequestID)
			if requestID == "" {
				requestID = req.Header.Get(echo.HeaderXRequestID)
			}
			log := base.With("request_id", requestID)
			c.SetRequest(req.WithContext(logger.WithLogger(req.Context(), log)))

			err := next(c)
			if err != nil {
				// Let the error handler write the response so the status is known.
				c.Error(err)
			}

			fields := []any{
				"method", req.Method,
				"path", c.Path(),
				"uri", req.RequestURI,
				"status", res.Status,
				"bytes_out", res.Size,
				"latency", time.Since(start),
				"remote_ip", c.RealIP(),
			}
			switch {
			case res.Status >= 500:
				log.Errorw("request", fields...)
			case res.Status >= 400:
				log.Warnw("request", fields...)
			default:
				log.Infow("request", fields...)
			}
			return nil
		}
	}
}
