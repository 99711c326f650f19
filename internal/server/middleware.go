package server

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/aspect-build/dstack-gateway/internal/logx"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const requestIDHeader = "X-Request-ID"

// RequestObserver receives one call per served request.
type RequestObserver interface {
	ObserveRequest(route string, code int, took time.Duration)
}

// CORS returns a Gin middleware that handles Cross-Origin Resource Sharing.
// The gateway is read-only, so only GET is advertised.
func CORS(origins []string) gin.HandlerFunc {
	allowed := make(map[string]bool, len(origins))
	for _, o := range origins {
		allowed[strings.TrimRight(o, "/")] = true
	}

	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if origin != "" && allowed[strings.TrimRight(origin, "/")] {
			c.Header("Access-Control-Allow-Origin", origin)
			c.Header("Vary", "Origin")
			c.Header("Access-Control-Allow-Methods", "GET, OPTIONS")
			c.Header("Access-Control-Allow-Headers", "Content-Type")
			c.Header("Access-Control-Max-Age", "86400")

			if c.Request.Method == http.MethodOptions && c.GetHeader("Access-Control-Request-Method") != "" {
				c.AbortWithStatus(http.StatusNoContent)
				return
			}
		}

		c.Next()
	}
}

// RequestLog tags every request with an ID, logs it once it completes and
// reports it to obs when obs is non-nil.
func RequestLog(obs RequestObserver) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Header(requestIDHeader, id)

		c.Next()

		took := time.Since(start)
		status := c.Writer.Status()
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}

		logx.Infof("http.request id=%s method=%s path=%s status=%d took=%s", id, c.Request.Method, c.Request.URL.Path, status, took)
		if obs != nil {
			obs.ObserveRequest(route, status, took)
		}
	}
}

// Recovery converts a panic in a handler into a 500 with a detail body.
func Recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, rec any) {
		logx.Errorf("http.panic path=%s recovered=%v", c.Request.URL.Path, rec)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"detail": fmt.Sprint(rec)})
	})
}
