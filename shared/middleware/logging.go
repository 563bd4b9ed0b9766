package middleware

import (
	"log"
	"time"

	"github.com/gin-gonic/gin"
)

// LoggingMiddleware logs one line per request once the handler has finished.
func LoggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		actor := "-"
		if a, ok := GetActor(c); ok {
			actor = a.ID
		}
		log.Printf("%s %s %d %s actor=%s", c.Request.Method, c.Request.URL.Path, c.Writer.Status(), time.Since(start), actor)
	}
}
