package http

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/light-bringer/pav-service/internal/pkg/i18n"
	"github.com/light-bringer/pav-service/internal/pkg/metrics"
)

// NewServer creates the echo instance serving h with health and metrics
// endpoints.
func NewServer(h *Handler, catalog *i18n.Catalog, logger *zap.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = ErrorHandler(catalog, logger)

	e.Use(middleware.Recover())
	e.Use(Metrics())
	e.Use(RequestLogger(logger))
	e.Use(Actor())

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})
	e.GET("/metrics", echo.WrapHandler(metrics.Handler()))

	h.RegisterRoutes(e)
	return e
}
