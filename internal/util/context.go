package util

import (
	"context"

	"github.com/gin-gonic/gin"
)

type ipContextKey struct{}

// IPMiddleware copies the client IP into the request context so services
// that only receive a context.Context can log it.
func IPMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request = c.Request.WithContext(SetIPContext(c.Request.Context(), c.ClientIP()))
		c.Next()
	}
}

// SetIPContext returns ctx carrying ip. An empty ip leaves ctx unchanged.
func SetIPContext(ctx context.Context, ip string) context.Context {
	if ip == "" {
		return ctx
	}
	return context.WithValue(ctx, ipContextKey{}, ip)
}

// GetIPFromContext returns the client IP stored by IPMiddleware, or "".
func GetIPFromContext(ctx context.Context) string {
	if ginCtx, ok := ctx.(*gin.Context); ok {
		return ginCtx.ClientIP()
	}
	ip, _ := ctx.Value(ipContextKey{}).(string)
	return ip
}
