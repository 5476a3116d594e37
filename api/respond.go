package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"repairshop.GO/core/apperror"
	"repairshop.GO/model/repository"
)

// Error writes err as {"error", "details"} with the status its kind maps to.
// Internal errors are logged in full and answered with a generic message.
func Error(c echo.Context, log logrus.FieldLogger, err error) error {
	status := apperror.Status(err)
	if status >= http.StatusInternalServerError && status != http.StatusServiceUnavailable {
		log.WithFields(logrus.Fields{
			"method": c.Request().Method,
			"uri":    c.Request().RequestURI,
		}).WithError(err).Error("request failed")
		return c.JSON(status, echo.Map{"error": "Internal server error"})
	}
	msg := err.Error()
	var ae *apperror.Error
	if status == http.StatusServiceUnavailable && errors.As(err, &ae) && ae.Message != "" {
		log.WithError(err).Warn("dependency unavailable")
		msg = ae.Message
	}
	body := echo.Map{"error": msg}
	if d := apperror.Details(err); d != nil {
		body["details"] = d
	}
	return c.JSON(status, body)
}

// Bind decodes the request body into dst; malformed JSON is a validation error.
func Bind(c echo.Context, dst interface{}) error {
	if err := c.Bind(dst); err != nil {
		return apperror.Validation("Invalid request body", nil)
	}
	return nil
}

// PageParam reads ?page=&limit=.
func PageParam(c echo.Context) repository.Page {
	return repository.ParsePage(c.QueryParam("page"), c.QueryParam("limit"))
}

// Duration stamps X-Request-Duration-ms on every response.
func Duration() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			c.Response().Before(func() {
				c.Response().Header().Set("X-Request-Duration-ms", strconv.FormatInt(time.Since(start).Milliseconds(), 10))
			})
			return next(c)
		}
	}
}
