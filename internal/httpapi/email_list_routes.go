package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"landivo/internal/service"
)

type membersRequest struct {
	BuyerIDs []string `json:"buyerIds"`
}

func registerEmailListRoutes(g *gin.RouterGroup, ls *service.EmailListService) {
	g.POST("", func(c *gin.Context) {
		var in service.EmailListInput
		if !bindJSON(c, &in) {
			return
		}
		l, err := ls.Create(c.Request.Context(), in)
		if err != nil {
			renderError(c, err)
			return
		}
		c.JSON(http.StatusCreated, l)
	})

	g.GET("", func(c *gin.Context) {
		lists, err := ls.List(c.Request.Context())
		if err != nil {
			renderError(c, err)
			return
		}
		c.JSON(http.StatusOK, lists)
	})

	g.GET("/:id", func(c *gin.Context) {
		l, err := ls.Get(c.Request.Context(), c.Param("id"))
		if err != nil {
			renderError(c, err)
			return
		}
		c.JSON(http.StatusOK, l)
	})

	g.PUT("/:id", func(c *gin.Context) {
		var in service.EmailListInput
		if !bindJSON(c, &in) {
			return
		}
		l, err := ls.Update(c.Request.Context(), c.Param("id"), in)
		if err != nil {
			renderError(c, err)
			return
		}
		c.JSON(http.StatusOK, l)
	})

	g.DELETE("/:id", func(c *gin.Context) {
		if err := ls.Delete(c.Request.Context(), c.Param("id")); err != nil {
			renderError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Email list deleted successfully"})
	})

	g.POST("/:id/members", func(c *gin.Context) {
		var in membersRequest
		if !bindJSON(c, &in) {
			return
		}
		res, err := ls.AddMembers(c.Request.Context(), c.Param("id"), in.BuyerIDs)
		if err != nil {
			renderError(c, err)
			return
		}
		c.JSON(http.StatusOK, res)
	})

	g.DELETE("/:id/members", func(c *gin.Context) {
		var in membersRequest
		if !bindJSON(c, &in) {
			return
		}
		res, err := ls.RemoveMembers(c.Request.Context(), c.Param("id"), in.BuyerIDs)
		if err != nil {
			renderError(c, err)
			return
		}
		c.JSON(http.StatusOK, res)
	})
}
