package delivery

import (
	"errors"
	"net/http"

	"legerity_service/internal/domain"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type ErrorResponse struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

func mapErrorToStatus(err error) int {
	switch {
	case errors.Is(err, domain.ErrValidation), errors.Is(err, domain.ErrConflict):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes err with the status of its kind. Unclassified errors are
// logged and replaced by a generic message.
func respondError(c *gin.Context, log *logrus.Logger, err error) {
	statusCode := mapErrorToStatus(err)
	if statusCode == http.StatusInternalServerError {
		log.Errorf("Handler Error: %s %s failed: %v", c.Request.Method, c.FullPath(), err)
		_ = c.Error(err)
		c.JSON(statusCode, ErrorResponse{Error: "Internal server error"})
		return
	}

	log.Warnf("Handler Error: %s %s rejected with %d: %v", c.Request.Method, c.FullPath(), statusCode, err)
	var vErr *domain.ValidationError
	if errors.As(err, &vErr) {
		c.JSON(statusCode, ErrorResponse{Error: vErr.Message, Field: vErr.Field})
		return
	}
	c.JSON(statusCode, ErrorResponse{Error: err.Error()})
}

func badRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, ErrorResponse{Error: message})
}
