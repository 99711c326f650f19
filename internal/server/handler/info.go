package handler

import (
	"context"
	"net/http"

	"github.com/aspect-build/dstack-gateway/internal/attestation"
	"github.com/gin-gonic/gin"
)

// AppComposeNotFoundDetail is the fixed 404 detail for GET /info.
const AppComposeNotFoundDetail = "app_compose not found in tcb_info"

type AppComposeFetcher interface {
	FetchAppCompose(ctx context.Context) (attestation.AppComposeResult, error)
}

// HandleInfo handles GET /info. The manifest is written back byte for byte.
func HandleInfo(f AppComposeFetcher) gin.HandlerFunc {
	return func(c *gin.Context) {
		res, err := f.FetchAppCompose(c.Request.Context())
		switch {
		case err != nil:
			writeDetail(c, http.StatusInternalServerError, err.Error())
		case !res.Found:
			writeDetail(c, http.StatusNotFound, AppComposeNotFoundDetail)
		default:
			c.Data(http.StatusOK, "application/json; charset=utf-8", res.Value)
		}
	}
}
