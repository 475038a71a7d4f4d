package httpapi

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	log "github.com/sirupsen/logrus"

	"github.com/ericleon/storefront/internal/domain"
)

type errorResponse struct {
	Error string `json:"error"`
}

// newHTTPErrorHandler транслирует доменные ошибки в HTTP-статусы.
// Клиент видит текст типизированных ошибок как есть; внутренние ошибки
// хранилища наружу не утекают — только в журнал.
func newHTTPErrorHandler(logger *log.Entry) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		status, message := mapError(err)
		if status >= http.StatusInternalServerError {
			logger.WithError(err).WithFields(log.Fields{
				"method": c.Request().Method,
				"path":   c.Request().URL.Path,
			}).Error("запрос завершился внутренней ошибкой")
		}

		if writeErr := c.JSON(status, errorResponse{Error: message}); writeErr != nil {
			logger.WithError(writeErr).Error("не удалось записать HTTP-ответ с ошибкой")
		}
	}
}

func mapError(err error) (int, string) {
	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.Code, httpErrorMessage(httpErr)
	}

	switch {
	case domain.IsValidation(err):
		return http.StatusBadRequest, err.Error()
	case domain.IsNotFound(err):
		return http.StatusNotFound, err.Error()
	case domain.IsInsufficientStock(err), domain.IsAlreadyExists(err), domain.IsConflict(err):
		return http.StatusConflict, err.Error()
	default:
		return http.StatusInternalServerError, "internal server error"
	}
}

func httpErrorMessage(httpErr *echo.HTTPError) string {
	if msg, ok := httpErr.Message.(string); ok {
		return msg
	}
	return http.StatusText(httpErr.Code)
}
