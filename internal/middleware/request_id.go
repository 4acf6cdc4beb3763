package middleware

import (
	"go-gaji/internal/shared/contextutil"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const requestIDHeader = "X-Request-ID"

// RequestID memakai request id dari caller bila ada, atau membuat yang baru,
// lalu menempelkannya ke gin context, request context, dan response header.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		rid := c.GetHeader(requestIDHeader)
		if rid == "" {
			rid = uuid.NewString()
		}

		c.Set("request_id", rid)

		ctx := contextutil.WithRequestID(c.Request.Context(), rid)
		c.Request = c.Request.WithContext(ctx)

		c.Header(requestIDHeader, rid)
		c.Next()
	}
}
