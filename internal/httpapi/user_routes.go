package httpapi

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"landivo/internal/repository"
	"landivo/internal/service"
)

func registerUserRoutes(g *gin.RouterGroup, us *service.UserService) {
	g.GET("/all", func(c *gin.Context) {
		var f repository.UserFilter
		if role := c.Query("role"); role != "" {
			f.Role = &role
		}
		if s := c.Query("isActive"); s != "" && s != "all" {
			active, err := strconv.ParseBool(s)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"message": "isActive must be true or false"})
				return
			}
			f.IsActive = &active
		}
		users, err := us.List(c.Request.Context(), f)
		if err != nil {
			renderError(c, err)
			return
		}
		c.JSON(http.StatusOK, users)
	})

	g.GET("/:id", func(c *gin.Context) {
		u, err := us.Get(c.Request.Context(), c.Param("id"))
		if err != nil {
			renderError(c, err)
			return
		}
		c.JSON(http.StatusOK, u)
	})

	g.GET("/:id/properties-count", func(c *gin.Context) {
		n, err := us.PropertiesCount(c.Request.Context(), c.Param("id"))
		if err != nil {
			renderError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"count": n})
	})

	g.PUT("/:id/status", func(c *gin.Context) {
		var body struct {
			IsActive *bool `json:"isActive"`
		}
		if !bindJSON(c, &body) {
			return
		}
		if body.IsActive == nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "isActive is required"})
			return
		}
		u, err := us.SetStatus(c.Request.Context(), c.Param("id"), *body.IsActive)
		if err != nil {
			renderError(c, err)
			return
		}
		c.JSON(http.StatusOK, u)
	})

	g.POST("/:id/reassign-properties", func(c *gin.Context) {
		var body struct {
			TargetUserID string `json:"targetUserId"`
		}
		if !bindJSON(c, &body) {
			return
		}
		n, err := us.ReassignProperties(c.Request.Context(), c.Param("id"), body.TargetUserID)
		if err != nil {
			renderError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Properties reassigned successfully", "count": n})
	})
}
