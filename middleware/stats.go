package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/Hinneman/opalseotool/stats"
)

// TrackVisitors records each client IP against the usage storage so the
// statistics endpoint can report unique visitors.
func TrackVisitors(storage *stats.Storage) gin.HandlerFunc {
	return func(c *gin.Context) {
		storage.TrackVisitor(c.ClientIP())
		c.Next()
	}
}
