package merge

import (
	"app/base"
	"app/base/core"
	"app/base/fresh"
	"app/base/utils"
	"app/tasks"
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strconv"

	"github.com/gocarina/gocsv"
	"github.com/pkg/errors"
)

const inactivePrimaryCode = "primary_requester_should_be_active"

var freshClient *fresh.Client

// one merge per row, exactly one secondary requester
type mergeRow struct {
	PrimaryID   int64 `csv:"primary_requester_id"`
	SecondaryID int64 `csv:"secondary_requester_id"`
}

func configure() {
	core.ConfigureApp()
	freshClient = fresh.CreateClient(tasks.UseTraceLevel)
	tasks.RunMetrics()
	tasks.HandleContextCancel(tasks.WaitAndExit)
}

func RunMerge() {
	defer utils.LogPanicsAndExit()
	configure()

	inputPath := tasks.CSVFile
	if inputPath == "" {
		inputPath = "merge.csv"
	}
	rows, err := loadMergeRows(inputPath)
	if err != nil {
		utils.LogFatal("err", err.Error(), "file", inputPath, "loading merge CSV failed")
	}

	utils.LogInfo("run_id", tasks.RunID, "count", len(rows), "file", inputPath,
		"Requester merge starting")

	report := tasks.NewReport("merge",
		filepath.Join(tasks.ReportDir, "merge_successfully_updated.csv"),
		filepath.Join(tasks.ReportDir, "merge_api_errors.csv"))
	for _, row := range rows {
		mergeOne(base.Context, freshClient, row, report)
	}

	if err := report.Finish(); err != nil {
		os.Exit(1)
	}
	tasks.WaitAndExit()
}

func loadMergeRows(path string) ([]mergeRow, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "opening merge CSV")
	}
	defer file.Close()

	var rows []mergeRow
	if err := gocsv.UnmarshalFile(file, &rows); err != nil {
		return nil, errors.Wrap(err, "parsing merge CSV")
	}
	return rows, nil
}

// mergeOne merges the secondary requester into the primary one. When the
// primary is deactivated, Freshservice refuses the merge, so it gets
// reactivated, merged into and deactivated again.
func mergeOne(ctx context.Context, client *fresh.Client, row mergeRow, report *tasks.Report) {
	utils.LogInfo("primary_id", row.PrimaryID, "secondary_id", row.SecondaryID, "merging requesters")

	err := client.MergeRequesters(ctx, row.PrimaryID, row.SecondaryID)
	if err == nil {
		report.Success(row.PrimaryID, fmt.Sprintf("merged secondary %d", row.SecondaryID))
		return
	}

	switch {
	case fresh.HasCode(err, inactivePrimaryCode):
		mergeWithInactivePrimary(ctx, client, row, report)
	case fresh.IsStatus(err, http.StatusNotFound):
		report.Failure(strconv.FormatInt(row.PrimaryID, 10), strconv.Itoa(http.StatusNotFound),
			fmt.Sprintf("primary %d or secondary %d not found or deactivated", row.PrimaryID, row.SecondaryID))
	default:
		report.Failure(strconv.FormatInt(row.PrimaryID, 10), fresh.StatusStr(err), err.Error())
	}
}

func mergeWithInactivePrimary(ctx context.Context, client *fresh.Client, row mergeRow,
	report *tasks.Report) {
	utils.LogInfo("primary_id", row.PrimaryID, "primary is inactive, reactivating for merge")

	if err := client.ReactivateRequester(ctx, row.PrimaryID); err != nil {
		report.Failure(strconv.FormatInt(row.PrimaryID, 10), fresh.StatusStr(err),
			"reactivating primary for merge failed: "+err.Error())
		return
	}

	if err := client.MergeRequesters(ctx, row.PrimaryID, row.SecondaryID); err != nil {
		report.Failure(strconv.FormatInt(row.PrimaryID, 10), fresh.StatusStr(err),
			"merge retry after reactivating failed: "+err.Error())
		return
	}
	report.Success(row.PrimaryID, fmt.Sprintf("merged secondary %d after reactivating", row.SecondaryID))

	// restore the primary to its previous state
	utils.LogInfo("primary_id", row.PrimaryID, "deactivating primary again after merge")
	if _, err := client.DeactivateRequester(ctx, row.PrimaryID); err != nil {
		utils.LogError("primary_id", row.PrimaryID, "err", err.Error(),
			"deactivating primary after merge failed")
	}
}
