package server

import (
	"github.com/aspect-build/dstack-gateway/internal/server/handler"
	"github.com/gin-gonic/gin"
)

// Fetcher is the attestation client as consumed by the routes.
type Fetcher interface {
	handler.QuoteFetcher
	handler.AppComposeFetcher
}

// NewRouter creates the Gin router with the gateway's two read-only routes.
// obs may be nil.
func NewRouter(fetcher Fetcher, cfg *Config, obs RequestObserver) *gin.Engine {
	r := gin.New()
	r.Use(RequestLog(obs), Recovery())

	if len(cfg.CORSOrigins) > 0 {
		r.Use(CORS(cfg.CORSOrigins))
	}

	r.GET("/quote", handler.HandleQuote(fetcher))
	r.GET("/info", handler.HandleInfo(fetcher))

	return r
}
