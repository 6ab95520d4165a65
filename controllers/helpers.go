package controllers

import (
	"github.com/gin-gonic/gin"

	"github.com/siravitrin-eng/the-pos-67079349/services"
)

// respondError renders a ServiceError as its HTTP status and message.
func respondError(c *gin.Context, svcErr *services.ServiceError) {
	c.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
}
