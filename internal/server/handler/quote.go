package handler

import (
	"context"
	"net/http"

	"github.com/aspect-build/dstack-gateway/internal/attestation"
	"github.com/gin-gonic/gin"
)

type QuoteFetcher interface {
	FetchQuote(ctx context.Context) (attestation.QuoteResult, error)
}

type quoteResponse struct {
	Quote    string `json:"quote"`
	EventLog string `json:"event_log"`
}

// HandleQuote handles GET /quote.
func HandleQuote(f QuoteFetcher) gin.HandlerFunc {
	return func(c *gin.Context) {
		q, err := f.FetchQuote(c.Request.Context())
		if err != nil {
			writeDetail(c, http.StatusInternalServerError, err.Error())
			return
		}
		c.JSON(http.StatusOK, quoteResponse{Quote: q.Quote, EventLog: q.EventLog})
	}
}
