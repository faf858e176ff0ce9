package httpapi

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"review-sentiment/models"
)

var providerNames = map[models.Provider]string{
	models.ProviderAppStore:  "AppStore",
	models.ProviderPlayStore: "PlayStore",
}

// fetchFailureMessage is the client-facing message of a failed storefront fetch
func fetchFailureMessage(p models.Provider) string {
	name, ok := providerNames[p]
	if !ok {
		name = string(p)
	}
	return "Something went wrong while trying to fetch data from the " + name
}

// ErrorHandler maps domain errors onto status codes and an ErrorResponse body.
// Internal details of 5xx failures are logged, never returned.
func ErrorHandler(logger *slog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}
		ctx := c.Request().Context()

		var (
			verr   *models.ValidationError
			ferr   *models.FetchError
			herr   *echo.HTTPError
			status int
			msg    string
		)
		switch {
		case errors.As(err, &verr):
			status, msg = http.StatusBadRequest, verr.Message
			logger.InfoContext(ctx, "invalid request", "kind", verr.Kind, "param", verr.Param, "message", verr.Message)
		case errors.As(err, &ferr):
			status, msg = http.StatusInternalServerError, fetchFailureMessage(ferr.Provider)
			logger.ErrorContext(ctx, "fetch failed", "provider", ferr.Provider, "page", ferr.Page, "error", ferr.Err)
		case errors.As(err, &herr):
			status = herr.Code
			msg = http.StatusText(status)
			if m, ok := herr.Message.(string); ok && status < http.StatusInternalServerError {
				msg = m
			}
			logger.WarnContext(ctx, "http error", "status", status, "error", err)
		default:
			status, msg = http.StatusInternalServerError, "An unexpected error occurred"
			logger.ErrorContext(ctx, "unhandled error", "error", err)
		}

		if c.Request().Method == http.MethodHead {
			err = c.NoContent(status)
		} else {
			err = c.JSON(status, ErrorResponse{Message: msg})
		}
		if err != nil {
			logger.ErrorContext(ctx, "failed to send error response", "error", err)
		}
	}
}
