package router

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	apperrors "marketplace/internal/errors"
)

// ErrorHandler renders every error returned by a handler or middleware as
// an errors.ErrorResponse.
func ErrorHandler(log *zap.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		httpErr := toHTTPError(err)
		if httpErr.StatusCode >= http.StatusInternalServerError {
			log.Error("request failed",
				zap.String("method", c.Request().Method),
				zap.String("uri", c.Request().RequestURI),
				zap.Error(err),
			)
		}

		if c.Request().Method == http.MethodHead {
			err = c.NoContent(httpErr.StatusCode)
		} else {
			err = c.JSON(httpErr.StatusCode, httpErr.ToErrorResponse())
		}
		if err != nil {
			log.Warn("write error response", zap.Error(err))
		}
	}
}

func toHTTPError(err error) *apperrors.HTTPError {
	var bindErr *echo.BindingError
	if errors.As(err, &bindErr) {
		return apperrors.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("invalid value for %s", bindErr.Field), "BAD_REQUEST")
	}

	var echoErr *echo.HTTPError
	if errors.As(err, &echoErr) {
		if echoErr.Internal != nil {
			var inner *echo.HTTPError
			if !errors.As(echoErr.Internal, &inner) {
				if mapped := apperrors.MapErrorToHTTP(echoErr.Internal); mapped.StatusCode != http.StatusInternalServerError {
					return mapped
				}
			}
		}
		return apperrors.NewHTTPError(echoErr.Code, echoMessage(echoErr), statusCode(echoErr.Code))
	}
	return apperrors.MapErrorToHTTP(err)
}

func echoMessage(he *echo.HTTPError) string {
	switch m := he.Message.(type) {
	case string:
		return m
	case error:
		return m.Error()
	case nil:
		return http.StatusText(he.Code)
	default:
		return fmt.Sprint(m)
	}
}

// statusCode turns 404 into NOT_FOUND, 413 into REQUEST_ENTITY_TOO_LARGE, and so on.
func statusCode(status int) string {
	text := http.StatusText(status)
	if text == "" {
		return "HTTP_ERROR"
	}
	return strings.ToUpper(strings.NewReplacer(" ", "_", "-", "_", "'", "").Replace(text))
}
