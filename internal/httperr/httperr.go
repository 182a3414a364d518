package httperr

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/barber-booking/internal/i18n"
)

type HTTPError struct {
	Code    string            `json:"error_code"`
	Message string            `json:"message"`
	Errors  []ValidationError `json:"errors,omitempty"`
}

func Write(c *gin.Context, status int, code, message string) {
	c.JSON(status, HTTPError{
		Code:    code,
		Message: message,
	})
}

func BadRequest(c *gin.Context, code, message string) {
	Write(c, http.StatusBadRequest, code, message)
}

func NotFound(c *gin.Context, code, message string) {
	Write(c, http.StatusNotFound, code, message)
}

func Internal(c *gin.Context, code, message string) {
	Write(c, http.StatusInternalServerError, code, message)
}

func Unauthorized(c *gin.Context, code, message string) {
	Write(c, http.StatusUnauthorized, code, message)
}

func Forbidden(c *gin.Context, code, message string) {
	Write(c, http.StatusForbidden, code, message)
}

// Respond maps err onto the HTTP error taxonomy. Anything that is not a
// business or validation error is logged and reported as a 500.
func Respond(c *gin.Context, log *zap.Logger, err error, locale string) {
	var vf *ValidationFailed
	if errors.As(err, &vf) {
		msg := i18n.T(locale, "invalid_request")
		if len(vf.Errors) > 0 {
			msg = vf.Errors[0].Message
		}
		c.JSON(http.StatusBadRequest, HTTPError{
			Code:    "validation_failed",
			Message: msg,
			Errors:  vf.Errors,
		})
		return
	}

	var be BusinessError
	if errors.As(err, &be) {
		Write(c, be.Kind.Status(), be.Code, i18n.T(locale, be.Code))
		return
	}

	if log != nil {
		log.Error("request failed",
			zap.String("path", c.FullPath()),
			zap.Error(err),
		)
	}
	Internal(c, "internal_error", i18n.T(locale, "internal_error"))
}
