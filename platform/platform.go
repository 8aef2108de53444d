package platform

import (
	"app/base"
	"app/base/core"
	"app/base/utils"
	"time"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"go.uber.org/ratelimit"
)

func platformMock() {
	utils.LogInfo("Freshservice platform mock starting")
	app := gin.New()
	app.Use(requestResponseLogger())
	app.Use(rateLimitHeaders(500))
	app.Use(gzip.Gzip(gzip.DefaultCompression))
	core.InitProbes(app)
	initRequesters(app)

	err := utils.RunServer(base.Context, app, utils.CoreCfg.PublicPort)
	if err != nil {
		panic(err)
	}
}

func requestResponseLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		utils.LogInfo("method", c.Request.Method, "url", c.Request.URL.Path,
			"status", c.Writer.Status(), "duration", utils.SinceStr(start, time.Microsecond),
			"platform mock call")
	}
}

// rateLimitHeaders paces handled requests and reports the quota headers the
// real Freshservice API sends, so client rate limiting can be exercised
// against the mock.
func rateLimitHeaders(perMinute int) gin.HandlerFunc {
	rl := ratelimit.New(perMinute, ratelimit.Per(time.Minute))
	return func(c *gin.Context) {
		rl.Take()
		c.Header("X-Ratelimit-Total", "500")
		c.Header("X-Ratelimit-Remaining", "499")
		c.Next()
	}
}

func RunPlatformMock() {
	core.ConfigureApp()
	platformMock()
}
