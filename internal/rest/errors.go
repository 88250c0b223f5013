package rest

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/Guyuepp/shop-comments/domain"
)

// ResponseError represent the response error struct
type ResponseError struct {
	Error string `json:"error"`
}

// getStatusCode maps domain errors onto HTTP status codes
func getStatusCode(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, domain.ErrBadParamInput):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, domain.ErrConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// writeError logs server-side failures and hides their details from the client.
func writeError(c *gin.Context, log logrus.FieldLogger, err error) {
	status := getStatusCode(err)
	if status >= http.StatusInternalServerError {
		log.WithError(err).WithFields(logrus.Fields{
			"method": c.Request.Method,
			"path":   c.FullPath(),
		}).Error("request failed")
		c.JSON(status, ResponseError{Error: domain.ErrInternalServerError.Error()})
		return
	}
	c.JSON(status, ResponseError{Error: err.Error()})
}
