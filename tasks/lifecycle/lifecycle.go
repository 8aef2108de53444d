package lifecycle

import (
	"app/base"
	"app/base/core"
	"app/base/fresh"
	"app/base/utils"
	"app/tasks"
	"context"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
)

var freshClient *fresh.Client

func configure() {
	core.ConfigureApp()
	freshClient = fresh.CreateClient(tasks.UseTraceLevel)
	tasks.RunMetrics()
	tasks.HandleContextCancel(tasks.WaitAndExit)
}

func RunDeactivate() {
	run("deactivate", deactivateOne)
}

func RunReactivate() {
	run("reactivate", reactivateOne)
}

func run(operation string, actOne func(context.Context, *fresh.Client, int64, *tasks.Report)) {
	defer utils.LogPanicsAndExit()
	configure()

	ids, err := tasks.LoadRequesterIDs(tasks.IDsFile)
	if err != nil {
		utils.LogFatal("err", err.Error(), "file", tasks.IDsFile, "loading requester IDs failed")
	}
	if len(ids) == 0 {
		utils.LogFatal("file", tasks.IDsFile, "no valid requester IDs found")
	}

	utils.LogInfo("run_id", tasks.RunID, "operation", operation, "count", len(ids),
		"Requester "+operation+" starting")

	report := tasks.NewReport(operation,
		filepath.Join(tasks.ReportDir, operation+"_successfully_updated.csv"),
		filepath.Join(tasks.ReportDir, operation+"_api_errors.csv"))
	for _, id := range ids {
		actOne(base.Context, freshClient, id, report)
	}

	if err := report.Finish(); err != nil {
		os.Exit(1)
	}
	tasks.WaitAndExit()
}

func deactivateOne(ctx context.Context, client *fresh.Client, requesterID int64, report *tasks.Report) {
	utils.LogInfo("requester_id", requesterID, "deactivating requester")
	outcome, err := client.DeactivateRequester(ctx, requesterID)
	if err != nil {
		report.Failure(strconv.FormatInt(requesterID, 10), fresh.StatusStr(err), err.Error())
		return
	}
	switch outcome {
	case fresh.Deactivated:
		report.Success(requesterID, "deactivated")
	case fresh.AlreadyDeactivated:
		utils.LogInfo("requester_id", requesterID, "requester is already deactivated")
		report.Success(requesterID, "already deactivated")
	case fresh.NotFound:
		utils.LogWarn("requester_id", requesterID, "requester not found")
		tasks.RequestersProcessedCnt.WithLabelValues("deactivate", tasks.ResultNotFound).Inc()
	}
}

// reactivateOne reactivates a requester. The reactivate endpoint answers
// 404 both for missing and for already active requesters, a GET
// disambiguates the two.
func reactivateOne(ctx context.Context, client *fresh.Client, requesterID int64, report *tasks.Report) {
	utils.LogInfo("requester_id", requesterID, "reactivating requester")
	err := client.ReactivateRequester(ctx, requesterID)
	if err == nil {
		report.Success(requesterID, "reactivated")
		return
	}
	if !fresh.IsStatus(err, http.StatusNotFound) {
		report.Failure(strconv.FormatInt(requesterID, 10), fresh.StatusStr(err), err.Error())
		return
	}

	requester, getErr := client.GetRequester(ctx, requesterID)
	switch {
	case getErr == nil && requester.GetActive():
		utils.LogInfo("requester_id", requesterID, "requester is already active, nothing to do")
		report.Success(requesterID, "already active")
	case getErr == nil:
		report.Failure(strconv.FormatInt(requesterID, 10), strconv.Itoa(http.StatusNotFound),
			"requester exists but is not active, verify its status manually")
	case fresh.IsStatus(getErr, http.StatusNotFound):
		utils.LogWarn("requester_id", requesterID, "requester does not exist")
		tasks.RequestersProcessedCnt.WithLabelValues("reactivate", tasks.ResultNotFound).Inc()
	default:
		report.Failure(strconv.FormatInt(requesterID, 10), fresh.StatusStr(getErr), getErr.Error())
	}
}
