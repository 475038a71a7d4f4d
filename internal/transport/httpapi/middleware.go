package httpapi

import (
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	log "github.com/sirupsen/logrus"
)

const requestIDHeader = "X-Request-ID"

// requestLogging присваивает запросу идентификатор (если клиент не прислал
// свой) и пишет одну строку журнала на запрос.
func requestLogging(logger *log.Entry) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			requestID := c.Request().Header.Get(requestIDHeader)
			if requestID == "" {
				requestID = uuid.NewString()
			}
			c.Response().Header().Set(requestIDHeader, requestID)

			started := time.Now()
			err := next(c)
			if err != nil {
				c.Error(err)
			}

			logger.WithFields(log.Fields{
				"request_id": requestID,
				"method":     c.Request().Method,
				"path":       c.Request().URL.Path,
				"status":     c.Response().Status,
				"duration":   time.Since(started).String(),
			}).Info("HTTP-запрос обработан")

			return nil
		}
	}
}
