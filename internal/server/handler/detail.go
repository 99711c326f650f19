package handler

import "github.com/gin-gonic/gin"

type detailResponse struct {
	Detail string `json:"detail"`
}

func writeDetail(c *gin.Context, status int, detail string) {
	c.JSON(status, detailResponse{Detail: detail})
}
