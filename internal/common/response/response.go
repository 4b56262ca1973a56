package response

import (
	"errors"
	"net/http"

	"github.com/c14220110/hospital-backend/internal/common/models"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

func Error(c echo.Context, status int, msg string) error {
	return c.JSON(status, echo.Map{"error": msg})
}

// Fail renders err. An *models.AppError keeps its status and message; anything else becomes
// 500 {error, details} with an error-level log line.
func Fail(c echo.Context, err error, msg string) error {
	var appErr *models.AppError
	if errors.As(err, &appErr) {
		if appErr.Err != nil {
			zerolog.Ctx(c.Request().Context()).Warn().Err(appErr.Err).Int("status", appErr.Status).Msg(appErr.Message)
		}
		return Error(c, appErr.Status, appErr.Message)
	}

	zerolog.Ctx(c.Request().Context()).Error().Err(err).Str("path", c.Path()).Msg(msg)
	return c.JSON(http.StatusInternalServerError, echo.Map{
		"error":   msg,
		"details": err.Error(),
	})
}

// HTTPErrorHandler renders echo's own errors (404 routes, bind failures, recovered panics) as {error}.
// In debug mode (APP_ENV=development) unexpected errors also carry details.
func HTTPErrorHandler(logger zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		status := http.StatusInternalServerError
		msg := "Error interno del servidor"
		var he *echo.HTTPError
		if errors.As(err, &he) {
			status = he.Code
			if m, ok := he.Message.(string); ok {
				msg = m
			} else {
				msg = http.StatusText(status)
			}
		} else {
			logger.Error().Err(err).Str("path", c.Request().URL.Path).Msg("unhandled error")
		}

		body := echo.Map{"error": msg}
		if he == nil && c.Echo().Debug {
			body["details"] = err.Error()
		}
		if c.Request().Method == http.MethodHead {
			err = c.NoContent(status)
		} else {
			err = c.JSON(status, body)
		}
		if err != nil {
			logger.Error().Err(err).Msg("write error response")
		}
	}
}
