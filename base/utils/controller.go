package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func LogAndRespBadRequest(c *gin.Context, err error, respMsg string) {
	LogWarn("err", err.Error(), respMsg)
	c.AbortWithStatusJSON(http.StatusBadRequest, ErrorResponse{Error: respMsg})
}

func LogAndRespNotFound(c *gin.Context, err error, respMsg string) {
	LogWarn("err", err.Error(), respMsg)
	c.AbortWithStatusJSON(http.StatusNotFound, ErrorResponse{Error: respMsg})
}
