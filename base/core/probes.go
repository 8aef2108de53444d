package core

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func Liveness(c *gin.Context) {
	c.JSON(http.StatusOK, "ok")
}

func InitProbes(app *gin.Engine) {
	app.GET("/healthz", Liveness)
	app.GET("/livez", Liveness)
}
