package route360

import (
	"errors"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

func (a *App) setupMiddleware(e *echo.Echo) {
	e.HTTPErrorHandler = a.httpErrorHandler

	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus:  true,
		LogURI:     true,
		LogMethod:  true,
		LogLatency: true,
		LogError:   true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			level := slog.LevelInfo
			if v.Status >= http.StatusInternalServerError {
				level = slog.LevelError
			}
			a.logger.LogAttrs(c.Request().Context(), level, "request",
				slog.String("method", v.Method),
				slog.String("uri", v.URI),
				slog.Int("status", v.Status),
				slog.Duration("latency", v.Latency),
			)
			return nil
		},
	}))

	e.Use(middleware.Recover())

	e.Use(middleware.GzipWithConfig(middleware.GzipConfig{
		Level: 5,
	}))

	e.Use(noCacheMiddleware)

	e.Use(middleware.StaticWithConfig(middleware.StaticConfig{
		Root:  a.Config.OutputDir,
		Index: "index.html",
	}))
}

// noCacheMiddleware keeps browsers from holding on to pages a rebuild is
// about to replace.
func noCacheMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		c.Response().Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
		return next(c)
	}
}

// httpErrorHandler answers 404s with the built 404 page and everything else
// with echo's default handler.
func (a *App) httpErrorHandler(err error, c echo.Context) {
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusNotFound || c.Response().Committed {
		c.Echo().DefaultHTTPErrorHandler(err, c)
		return
	}
	page, readErr := os.ReadFile(filepath.Join(a.Config.OutputDir, notFoundFile))
	if readErr != nil {
		c.Echo().DefaultHTTPErrorHandler(err, c)
		return
	}
	if err := c.HTMLBlob(http.StatusNotFound, page); err != nil {
		a.logger.Error("write 404 page", "err", err)
	}
}
