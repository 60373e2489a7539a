package httpapi

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"landivo/internal/service"
)

func registerActivityRoutes(g *gin.RouterGroup, as *service.ActivityService) {
	g.POST("/:id/activity", func(c *gin.Context) {
		var body struct {
			Events []service.EventInput `json:"events"`
		}
		if !bindJSON(c, &body) {
			return
		}
		n, err := as.Record(c.Request.Context(), c.Param("id"), body.Events)
		if err != nil {
			renderError(c, err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{"message": "Activity recorded", "count": n})
	})

	g.GET("/:id/activity/summary", func(c *gin.Context) {
		sum, err := as.Summary(c.Request.Context(), c.Param("id"))
		if err != nil {
			renderError(c, err)
			return
		}
		c.JSON(http.StatusOK, sum)
	})

	g.GET("/:id/activity/:type", func(c *gin.Context) {
		limit, ok := queryInt(c, "limit", service.DefaultActivityLimit)
		if !ok {
			return
		}
		page, ok := queryInt(c, "page", 1)
		if !ok {
			return
		}
		res, err := as.Detail(c.Request.Context(), c.Param("id"), c.Param("type"), limit, page)
		if err != nil {
			renderError(c, err)
			return
		}
		c.JSON(http.StatusOK, res)
	})

	g.GET("/:id/offers/history", func(c *gin.Context) {
		offers, err := as.OfferHistory(c.Request.Context(), c.Param("id"))
		if err != nil {
			renderError(c, err)
			return
		}
		c.JSON(http.StatusOK, offers)
	})
}

// queryInt reads a positive integer query parameter, falling back to def
// when absent. It renders a 400 and reports false when the value is invalid.
func queryInt(c *gin.Context, key string, def int) (int, bool) {
	s := c.Query(key)
	if s == "" {
		return def, true
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"message": key + " must be a positive integer"})
		return 0, false
	}
	return n, true
}
