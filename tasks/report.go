package tasks

import (
	"app/base/utils"
	"os"

	"github.com/gocarina/gocsv"
	"github.com/pkg/errors"
)

type SuccessRow struct {
	RunID       string `csv:"run_id"`
	RequesterID int64  `csv:"requester_id"`
	Operation   string `csv:"operation"`
	Detail      string `csv:"detail"`
}

type ErrorRow struct {
	RunID       string `csv:"run_id"`
	RequesterID string `csv:"requester_id"`
	Operation   string `csv:"operation"`
	StatusCode  string `csv:"status_code"`
	Detail      string `csv:"response_text"`
}

// Report collects per-record outcomes of one run. Rows are appended to the
// success/error CSV files as they happen, so a crashed run still leaves a
// usable trail.
type Report struct {
	Operation string
	Succeeded int
	Failed    int

	successPath string
	errorPath   string
}

func NewReport(operation, successPath, errorPath string) *Report {
	return &Report{Operation: operation, successPath: successPath, errorPath: errorPath}
}

func (r *Report) Success(requesterID int64, detail string) {
	r.Succeeded++
	RequestersProcessedCnt.WithLabelValues(r.Operation, ResultSuccess).Inc()
	if r.successPath == "" {
		return
	}
	row := SuccessRow{RunID: RunID, RequesterID: requesterID, Operation: r.Operation, Detail: detail}
	if err := appendRow(r.successPath, []SuccessRow{row}); err != nil {
		utils.LogError("err", err.Error(), "file", r.successPath, "writing success report failed")
	}
}

func (r *Report) Failure(requesterID, statusCode, detail string) {
	r.Failed++
	RequestersProcessedCnt.WithLabelValues(r.Operation, ResultFailure).Inc()
	utils.LogError("requester_id", requesterID, "status_code", statusCode, "detail", detail,
		r.Operation+" failed")
	if r.errorPath == "" {
		return
	}
	row := ErrorRow{
		RunID:       RunID,
		RequesterID: requesterID,
		Operation:   r.Operation,
		StatusCode:  statusCode,
		Detail:      detail,
	}
	if err := appendRow(r.errorPath, []ErrorRow{row}); err != nil {
		utils.LogError("err", err.Error(), "file", r.errorPath, "writing error report failed")
	}
}

// Finish logs run totals and reports whether any record failed.
func (r *Report) Finish() error {
	utils.LogInfo("run_id", RunID, "operation", r.Operation,
		"succeeded", r.Succeeded, "failed", r.Failed, "run finished")
	if r.Failed > 0 {
		return errors.Errorf("%d records failed", r.Failed)
	}
	return nil
}

// appendRow appends CSV rows to the file, writing the header only when the
// file is new or empty.
func appendRow(path string, rows interface{}) error {
	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return errors.Wrap(err, "opening report file")
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return errors.Wrap(err, "stating report file")
	}

	if info.Size() == 0 {
		err = gocsv.Marshal(rows, file)
	} else {
		err = gocsv.MarshalWithoutHeaders(rows, file)
	}
	return errors.Wrap(err, "writing report rows")
}
