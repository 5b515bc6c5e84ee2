package handler

import (
	"github.com/gin-gonic/gin"

	apperrors "newsfeed-service/pkg/errors"
)

// ErrorResponse represents an error response body.
type ErrorResponse struct {
	Error string `json:"error"`
}

// writeError maps an application error to its HTTP status and a JSON
// {error} body. Errors without a status answer 500.
func writeError(c *gin.Context, err error) {
	c.JSON(apperrors.Status(err), ErrorResponse{Error: err.Error()})
}
