package middleware

import (
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

var (
	corsMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH", "HEAD"}
	corsHeaders = []string{"Origin", "Content-Type", "Content-Length", "Accept", "Accept-Encoding", "Authorization", "X-Requested-With", RequestIDHeader}
)

// CORSMiddleware echoes any requesting origin back with credentials allowed,
// and allows whatever headers a preflight asks for.
// A non-empty origin list other than "*" restricts it to those origins and a fixed header list.
func CORSMiddleware(allowedOrigins []string) gin.HandlerFunc {
	config := cors.Config{
		AllowMethods:     corsMethods,
		ExposeHeaders:    []string{"Content-Length", RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}

	if len(allowedOrigins) > 0 && !slices.Contains(allowedOrigins, "*") {
		config.AllowOrigins = allowedOrigins
		config.AllowHeaders = corsHeaders
		return cors.New(config)
	}

	// AllowHeaders stays empty so cors.New leaves the echoed header alone.
	config.AllowOriginFunc = func(string) bool { return true }
	handler := cors.New(config)

	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions {
			requested := c.GetHeader("Access-Control-Request-Headers")
			if requested == "" {
				requested = strings.Join(corsHeaders, ",")
			}
			c.Header("Access-Control-Allow-Headers", requested)
		}
		handler(c)
	}
}
