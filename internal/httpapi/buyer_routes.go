package httpapi

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"landivo/internal/service"
)

func registerBuyerRoutes(g *gin.RouterGroup, bs *service.BuyerService) {
	g.POST("/create", func(c *gin.Context) {
		var in service.BuyerInput
		if !bindJSON(c, &in) {
			return
		}
		b, err := bs.Create(c.Request.Context(), in)
		if err != nil {
			renderError(c, err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{"message": "Buyer created successfully.", "buyer": b})
	})

	g.POST("/createVipBuyer", func(c *gin.Context) {
		var in service.VipInput
		if !bindJSON(c, &in) {
			return
		}
		b, err := bs.CreateVip(c.Request.Context(), in)
		if err != nil {
			renderError(c, err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{"message": "VIP Buyer created successfully.", "buyer": b})
	})

	g.GET("/all", func(c *gin.Context) {
		buyers, err := bs.List(c.Request.Context())
		if err != nil {
			renderError(c, err)
			return
		}
		c.JSON(http.StatusOK, buyers)
	})

	g.GET("/stats", func(c *gin.Context) {
		st, err := bs.Stats(c.Request.Context())
		if err != nil {
			renderError(c, err)
			return
		}
		c.JSON(http.StatusOK, st)
	})

	g.GET("/byAuth0Id", func(c *gin.Context) {
		b, err := bs.GetByAuth0ID(c.Request.Context(), c.Query("auth0Id"))
		if err != nil {
			renderError(c, err)
			return
		}
		c.JSON(http.StatusOK, b)
	})

	g.GET("/byArea/:areaId", func(c *gin.Context) {
		res, err := bs.ByArea(c.Request.Context(), c.Param("areaId"))
		if err != nil {
			renderError(c, err)
			return
		}
		c.JSON(http.StatusOK, res)
	})

	g.GET("/:id", func(c *gin.Context) {
		b, err := bs.Get(c.Request.Context(), c.Param("id"))
		if err != nil {
			renderError(c, err)
			return
		}
		c.JSON(http.StatusOK, b)
	})

	g.PUT("/update/:id", func(c *gin.Context) {
		var in service.BuyerInput
		if !bindJSON(c, &in) {
			return
		}
		b, err := bs.Update(c.Request.Context(), c.Param("id"), in)
		if err != nil {
			renderError(c, err)
			return
		}
		c.JSON(http.StatusOK, b)
	})

	g.DELETE("/delete/:id", func(c *gin.Context) {
		b, err := bs.Delete(c.Request.Context(), c.Param("id"))
		if err != nil {
			renderError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Buyer and associated offers deleted successfully", "buyer": b})
	})

	g.POST("/sendEmail", func(c *gin.Context) {
		var in service.SendEmailInput
		if !bindJSON(c, &in) {
			return
		}
		res, err := bs.SendEmail(c.Request.Context(), in)
		if err != nil {
			renderError(c, err)
			return
		}
		c.JSON(http.StatusOK, res)
	})

	g.POST("/import", func(c *gin.Context) {
		var in service.ImportInput
		if !bindJSON(c, &in) {
			return
		}
		res, err := bs.Import(c.Request.Context(), in)
		if err != nil {
			renderError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"message": fmt.Sprintf("Processed %d buyers: %d created, %d updated, %d failed", len(in.Buyers), res.Created, res.Updated, res.Failed),
			"results": res,
		})
	})
}
