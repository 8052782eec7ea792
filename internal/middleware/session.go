package middleware

import (
	"regexp"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	SessionHeader     = "X-Session-ID"
	sessionContextKey = "sessionID"
)

var sessionIDPattern = regexp.MustCompile(`^[A-Za-z0-9-]{8,64}$`)

// SessionMiddleware 读取或分配会话 ID，并通过响应头回传给前端
func SessionMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(SessionHeader)
		if id == "" {
			// WebSocket 握手无法自定义请求头
			id = c.Query("session")
		}
		if !sessionIDPattern.MatchString(id) {
			id = uuid.NewString()
		}
		c.Set(sessionContextKey, id)
		c.Header(SessionHeader, id)
		c.Next()
	}
}

func SessionID(c *gin.Context) string {
	return c.GetString(sessionContextKey)
}
