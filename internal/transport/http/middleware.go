package http

import (
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/light-bringer/pav-service/internal/pkg/actor"
	"github.com/light-bringer/pav-service/internal/pkg/i18n"
	"github.com/light-bringer/pav-service/internal/pkg/metrics"
)

// HeaderUserID carries the acting user.
const HeaderUserID = "X-User-ID"

// Actor copies the acting user from the request header into the request
// context.
func Actor() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if id := c.Request().Header.Get(HeaderUserID); id != "" {
				req := c.Request()
				c.SetRequest(req.WithContext(actor.With(req.Context(), id)))
			}
			return next(c)
		}
	}
}

// Metrics records the count and latency of every request by route. It must
// wrap RequestLogger so that handled errors have set the response status.
func Metrics() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			status := c.Response().Status
			if err != nil {
				if he, ok := err.(*echo.HTTPError); ok {
					status = he.Code
				}
			}
			metrics.RecordRequest(c.Request().Method, c.Path(), status, time.Since(start))
			return err
		}
	}
}

// RequestLogger logs every request through logger.
func RequestLogger(logger *zap.Logger) echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		Skipper: func(c echo.Context) bool {
			return c.Request().URL.Path == "/health" || c.Request().URL.Path == "/metrics"
		},
		HandleError:  true,
		LogLatency:   true,
		LogMethod:    true,
		LogURI:       true,
		LogRoutePath: true,
		LogStatus:    true,
		LogError:     true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			fields := []zap.Field{
				zap.String("request.method", v.Method),
				zap.String("request.uri", v.URI),
				zap.String("request.route", v.RoutePath),
				zap.Int("response.status", v.Status),
				zap.Duration("latency", v.Latency),
				zap.String("actor", actor.From(c.Request().Context())),
			}
			if v.Error != nil {
				logger.Warn("request", append(fields, zap.Error(v.Error))...)
				return nil
			}
			logger.Info("request", fields...)
			return nil
		},
	})
}

// localeOf returns the locale of the request: the locale query parameter,
// then the first Accept-Language tag, then the default.
func localeOf(c echo.Context) string {
	if l := c.QueryParam("locale"); l != "" {
		return l
	}
	if h := c.Request().Header.Get("Accept-Language"); h != "" {
		tag := strings.TrimSpace(strings.SplitN(strings.SplitN(h, ",", 2)[0], ";", 2)[0])
		if tag != "" && tag != "*" {
			return strings.ReplaceAll(tag, "-", "_")
		}
	}
	return i18n.DefaultLocale
}
