package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/Cepha0Z/Explosion-Threat-Zone-Simulator/common/id"
	"github.com/Cepha0Z/Explosion-Threat-Zone-Simulator/common/logger"
)

const RequestIDHeader = "X-Request-ID"

// RequestID reuses the caller's X-Request-ID or mints one, echoes it back and attaches it to
// the request context so every log line carries it.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		reqID := c.GetHeader(RequestIDHeader)
		if reqID == "" {
			reqID = id.NewString("req")
		}
		c.Header(RequestIDHeader, reqID)

		ctx := logger.WithLogFields(c.Request.Context(), logger.LogFields{RequestID: logger.Ptr(reqID)})
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}
