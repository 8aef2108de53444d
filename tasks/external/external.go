package external

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

	"github.com/gocarina/gocsv"
	"github.com/pkg/errors"
)

var freshClient *fresh.Client

type externalIDRow struct {
	RequesterID int64  `csv:"requester_id"`
	ExternalID  string `csv:"external_id"`
}

func configure() {
	core.ConfigureApp()
	freshClient = fresh.CreateClient(tasks.UseTraceLevel)
	tasks.RunMetrics()
	tasks.HandleContextCancel(tasks.WaitAndExit)
}

func RunUpdateExternalID() {
	defer utils.LogPanicsAndExit()
	configure()

	inputPath := tasks.CSVFile
	if inputPath == "" {
		inputPath = "update_requester_external_ids.csv"
	}
	rows, err := loadExternalIDRows(inputPath)
	if err != nil {
		utils.LogFatal("err", err.Error(), "file", inputPath, "loading external ID CSV failed")
	}

	utils.LogInfo("run_id", tasks.RunID, "count", len(rows), "file", inputPath,
		"Requester external ID update starting")

	report := tasks.NewReport("update_external_id",
		filepath.Join(tasks.ReportDir, "update_external_id_successfully_updated.csv"),
		filepath.Join(tasks.ReportDir, "update_external_id_api_errors.csv"))
	for _, row := range rows {
		updateOne(base.Context, freshClient, row, report)
	}

	if err := report.Finish(); err != nil {
		os.Exit(1)
	}
	tasks.WaitAndExit()
}

func loadExternalIDRows(path string) ([]externalIDRow, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "opening external ID CSV")
	}
	defer file.Close()

	var rows []externalIDRow
	if err := gocsv.UnmarshalFile(file, &rows); err != nil {
		return nil, errors.Wrap(err, "parsing external ID CSV")
	}
	return rows, nil
}

func updateOne(ctx context.Context, client *fresh.Client, row externalIDRow, report *tasks.Report) {
	utils.LogInfo("requester_id", row.RequesterID, "external_id", row.ExternalID,
		"updating requester external ID")

	update := fresh.RequesterUpdate{}
	update.SetExternalID(row.ExternalID)
	err := client.UpdateRequester(ctx, row.RequesterID, &update)
	switch {
	case err == nil:
		report.Success(row.RequesterID, "external_id "+row.ExternalID)
	case fresh.IsStatus(err, http.StatusNotFound):
		utils.LogWarn("requester_id", row.RequesterID, "requester not found, skipping")
		tasks.RequestersProcessedCnt.WithLabelValues("update_external_id", tasks.ResultNotFound).Inc()
	default:
		report.Failure(strconv.FormatInt(row.RequesterID, 10), fresh.StatusStr(err), err.Error())
	}
}
