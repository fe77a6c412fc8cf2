package http

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/light-bringer/pav-service/internal/app/pav/contracts"
	"github.com/light-bringer/pav-service/internal/app/pav/domain"
	"github.com/light-bringer/pav-service/internal/pkg/i18n"
)

// Error codes of the response body.
const (
	CodeInvalidArgument = "INVALID_ARGUMENT"
	CodeNotFound        = "NOT_FOUND"
	CodeConflict        = "CONFLICT"
	CodeInternal        = "INTERNAL"
)

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Code    string `json:"code"`
	Key     string `json:"key,omitempty"`
	Message string `json:"message"`
}

// mapError converts domain errors to an HTTP status and body. Messages of
// validation and duplicate errors are rendered in locale.
func mapError(err error, catalog *i18n.Catalog, locale string) (int, ErrorResponse) {
	var validation *domain.ValidationError
	var duplicate *domain.DuplicateValueError
	var httpErr *echo.HTTPError

	switch {
	case errors.As(err, &validation):
		return http.StatusBadRequest, ErrorResponse{
			Code:    CodeInvalidArgument,
			Key:     validation.Key,
			Message: catalog.Exception(locale, validation.Key, validation.Params),
		}

	case errors.As(err, &duplicate):
		return http.StatusConflict, ErrorResponse{
			Code:    CodeConflict,
			Key:     duplicate.Key,
			Message: catalog.Exception(locale, duplicate.Key, duplicate.Params()),
		}

	case errors.Is(err, contracts.ErrUniqueViolation):
		return http.StatusConflict, ErrorResponse{
			Code:    CodeConflict,
			Key:     domain.KeyAttributeRecordAlreadyExists,
			Message: catalog.Exception(locale, domain.KeyAttributeRecordAlreadyExists, nil),
		}

	case errors.Is(err, domain.ErrValueNotFound),
		errors.Is(err, domain.ErrAttributeNotFound),
		errors.Is(err, domain.ErrProductNotFound),
		errors.Is(err, domain.ErrChannelNotFound),
		errors.Is(err, domain.ErrEdgeNotFound),
		errors.Is(err, domain.ErrJobNotFound),
		errors.Is(err, domain.ErrFileNotFound):
		return http.StatusNotFound, ErrorResponse{Code: CodeNotFound, Message: notFoundMessage(err)}

	case errors.As(err, &httpErr):
		msg, _ := httpErr.Message.(string)
		if msg == "" {
			msg = http.StatusText(httpErr.Code)
		}
		return httpErr.Code, ErrorResponse{Code: codeForStatus(httpErr.Code), Message: msg}
	}

	return http.StatusInternalServerError, ErrorResponse{Code: CodeInternal, Message: "internal server error"}
}

func notFoundMessage(err error) string {
	for _, sentinel := range []error{
		domain.ErrValueNotFound,
		domain.ErrAttributeNotFound,
		domain.ErrProductNotFound,
		domain.ErrChannelNotFound,
		domain.ErrEdgeNotFound,
		domain.ErrJobNotFound,
		domain.ErrFileNotFound,
	} {
		if errors.Is(err, sentinel) {
			return sentinel.Error()
		}
	}
	return "not found"
}

func codeForStatus(status int) string {
	switch status {
	case http.StatusBadRequest:
		return CodeInvalidArgument
	case http.StatusNotFound:
		return CodeNotFound
	case http.StatusConflict:
		return CodeConflict
	}
	if status >= 500 {
		return CodeInternal
	}
	return http.StatusText(status)
}

// ErrorHandler returns the echo error handler of the API.
func ErrorHandler(catalog *i18n.Catalog, logger *zap.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}
		status, body := mapError(err, catalog, localeOf(c))
		if status >= http.StatusInternalServerError {
			logger.Error("request failed",
				zap.String("method", c.Request().Method),
				zap.String("path", c.Path()),
				zap.Error(err),
			)
		}
		if c.Request().Method == http.MethodHead {
			err = c.NoContent(status)
		} else {
			err = c.JSON(status, body)
		}
		if err != nil {
			logger.Error("failed to write error response", zap.Error(err))
		}
	}
}
