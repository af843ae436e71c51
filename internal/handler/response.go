package handler

import (
	"github.com/gin-gonic/gin"

	apperrors "github.com/medremind/medremind-api/pkg/errors"
)

// Error records err on the context and stops the chain; the error middleware
// maps it to a response.
func Error(c *gin.Context, err error) {
	_ = c.Error(err)
	c.Abort()
}

// BindError reports a request-parsing failure as a client error.
func BindError(c *gin.Context, err error) {
	Error(c, apperrors.BadRequest(err.Error(), err))
}
