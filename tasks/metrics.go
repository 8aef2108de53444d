package tasks

import (
	"app/base"
	"app/base/core"
	"app/base/utils"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	ginprometheus "github.com/zsais/go-gin-prometheus"
)

var (
	RequestersProcessedCnt = prometheus.NewCounterVec(prometheus.CounterOpts{
		Help:      "How many requesters were processed partitioned by operation and result",
		Namespace: "requester_admin",
		Subsystem: "tasks",
		Name:      "requesters_processed",
	}, []string{"operation", "result"})

	RequestersScannedCnt = prometheus.NewCounter(prometheus.CounterOpts{
		Help:      "How many requesters were downloaded and classified by the sweep",
		Namespace: "requester_admin",
		Subsystem: "tasks",
		Name:      "requesters_scanned",
	})

	runMetricsOnce sync.Once
)

const (
	ResultSuccess            = "success"
	ResultFailure            = "failure"
	ResultSkipped            = "skipped"
	ResultDryRun             = "dry_run"
	ResultNotFound           = "not_found"
	ResultAlreadyDeactivated = "already_deactivated"
)

// RunMetrics exposes task counters on the metrics port for the duration of
// the run.
func RunMetrics() {
	runMetricsOnce.Do(func() {
		prometheus.MustRegister(RequestersProcessedCnt, RequestersScannedCnt)

		app := gin.New()
		core.InitProbes(app)
		p := ginprometheus.NewPrometheus("requester_admin")
		p.MetricsPath = utils.CoreCfg.MetricsPath
		p.Use(app)

		go func() {
			err := utils.RunServer(base.Context, app, utils.CoreCfg.MetricsPort)
			if err != nil {
				utils.LogError("err", err.Error(), "metrics server failed")
			}
		}()
	})
}
