package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"landivo/internal/apperr"
	"landivo/internal/model"
)

// renderError writes err as {message, error?}. Conflicts carrying the
// existing record include it.
func renderError(c *gin.Context, err error) {
	status := apperr.Status(err)
	body := gin.H{}

	e, ok := apperr.As(err)
	if !ok {
		body["message"] = "Internal server error"
		body["error"] = err.Error()
		c.JSON(status, body)
		return
	}
	body["message"] = e.Message
	if e.Err != nil {
		body["error"] = e.Err.Error()
	}
	if e.Existing != nil {
		if b, ok := e.Existing.(*model.Buyer); ok {
			body["existingBuyer"] = b
		} else {
			body["existing"] = e.Existing
		}
	}
	c.JSON(status, body)
}

// bindJSON decodes the request body into v and renders a 400 on failure.
func bindJSON(c *gin.Context, v any) bool {
	if err := c.ShouldBindJSON(v); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request body", "error": err.Error()})
		return false
	}
	return true
}
