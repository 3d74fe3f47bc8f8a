package middleware

import (
	"softskill_backend/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// requestIDMaxLen caps client supplied ids so they cannot flood the logs.
const requestIDMaxLen = 64

// RequestID reuses X-Request-ID when present and sane, otherwise generates one.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		rid := c.GetHeader("X-Request-ID")
		if rid == "" || len(rid) > requestIDMaxLen {
			rid = uuid.New().String()
		}

		c.Set(util.RequestIDKey, rid)
		c.Header("X-Request-ID", rid)

		c.Next()
	}
}
