package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	activationdomain "github.com/smallbiznis/licentia/internal/activation/domain"
	fulfillmentdomain "github.com/smallbiznis/licentia/internal/fulfillment/domain"
	licensedomain "github.com/smallbiznis/licentia/internal/license/domain"
)

type errorPayload struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

type errorResponse struct {
	Error errorPayload `json:"error"`
}

// AbortWithError maps domain errors onto HTTP status codes.
func AbortWithError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, licensedomain.ErrNotFound),
		errors.Is(err, fulfillmentdomain.ErrOrderNotFound),
		errors.Is(err, activationdomain.ErrLicenseNotFound),
		errors.Is(err, activationdomain.ErrNotFound):
		c.AbortWithStatusJSON(http.StatusNotFound, errorResponse{
			Error: errorPayload{Type: "not_found", Message: err.Error()},
		})
	case errors.Is(err, licensedomain.ErrInvalidKey),
		errors.Is(err, activationdomain.ErrInvalidInstance):
		c.AbortWithStatusJSON(http.StatusBadRequest, errorResponse{
			Error: errorPayload{Type: "validation", Message: err.Error()},
		})
	case errors.Is(err, activationdomain.ErrLicenseExpired),
		errors.Is(err, activationdomain.ErrEmailMismatch),
		errors.Is(err, activationdomain.ErrLimitReached):
		c.AbortWithStatusJSON(http.StatusConflict, errorResponse{
			Error: errorPayload{Type: "conflict", Message: err.Error()},
		})
	default:
		c.AbortWithStatusJSON(http.StatusInternalServerError, errorResponse{
			Error: errorPayload{Type: "internal", Message: "internal error"},
		})
	}
}

func invalidRequest(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, errorResponse{
		Error: errorPayload{Type: "validation", Message: message},
	})
}
