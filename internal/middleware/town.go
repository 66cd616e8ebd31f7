package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"posttown/internal/town"
)

const TownIDKey = "townID"

// TownRequired rejects requests against unknown towns before any handler
// runs, and stashes the town id for them.
func TownRequired(registry *town.Registry) gin.HandlerFunc {
	return func(c *gin.Context) {
		townID := c.Param("townID")
		if !registry.Exists(townID) {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{
				"isOK":    false,
				"message": "town not found",
			})
			return
		}
		c.Set(TownIDKey, townID)
		c.Next()
	}
}
