package emails

import (
	"app/base"
	"app/base/core"
	"app/base/fresh"
	"app/base/utils"
	"app/tasks"
	"context"
	"encoding/csv"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

var freshClient *fresh.Client

// emailRow is one input CSV row: a requester ID and a variable number of
// email columns.
type emailRow struct {
	RequesterID int64
	Emails      []string
}

func configure() {
	core.ConfigureApp()
	freshClient = fresh.CreateClient(tasks.UseTraceLevel)
	tasks.RunMetrics()
	tasks.HandleContextCancel(tasks.WaitAndExit)
}

func RunUpdateEmails() {
	run("update_emails", "update_requester_emails.csv", updateOne)
}

func RunAddSecondaryEmails() {
	run("add_secondary_emails", "add_secondary_emails.csv", addOne)
}

func RunReplaceSecondaryEmails() {
	run("replace_secondary_emails", "replace_secondary_emails.csv", replaceOne)
}

func run(operation, defaultInput string,
	actOne func(context.Context, *fresh.Client, emailRow, *tasks.Report)) {
	defer utils.LogPanicsAndExit()
	configure()

	inputPath := tasks.CSVFile
	if inputPath == "" {
		inputPath = defaultInput
	}

	report := tasks.NewReport(operation,
		reportPath(inputPath, "successfully_updated"),
		reportPath(inputPath, "api_errors"))

	rows, err := loadEmailRows(inputPath, report)
	if err != nil {
		utils.LogFatal("err", err.Error(), "file", inputPath, "loading input CSV failed")
	}

	utils.LogInfo("run_id", tasks.RunID, "operation", operation, "count", len(rows),
		"file", inputPath, "Requester email update starting")

	for _, row := range rows {
		actOne(base.Context, freshClient, row, report)
	}

	if err := report.Finish(); err != nil {
		os.Exit(1)
	}
	tasks.WaitAndExit()
}

// reportPath derives report file names from the input file, e.g.
// replace_secondary_emails.csv -> replace_secondary_emails_api_errors.csv
func reportPath(inputPath, suffix string) string {
	stem := strings.TrimSuffix(filepath.Base(inputPath), filepath.Ext(inputPath))
	return filepath.Join(tasks.ReportDir, stem+"_"+suffix+".csv")
}

// loadEmailRows parses the input CSV. The header must start with a
// requester_id column, the remaining columns hold emails. Malformed rows
// land in the error report instead of aborting the run.
func loadEmailRows(path string, report *tasks.Report) ([]emailRow, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "opening input CSV")
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err == io.EOF {
		return nil, errors.New("input CSV is empty or has no header")
	}
	if err != nil {
		return nil, errors.Wrap(err, "reading input CSV header")
	}
	if len(header) < 1 || strings.ToLower(strings.TrimSpace(header[0])) != "requester_id" {
		return nil, errors.New("invalid input CSV format, 'requester_id' must be the first column")
	}

	var rows []emailRow
	for rowNumber := 2; ; rowNumber++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrapf(err, "reading input CSV row %d", rowNumber)
		}

		if len(record) == 0 || strings.TrimSpace(record[0]) == "" {
			report.Failure("row "+strconv.Itoa(rowNumber), "N/A", "requester_id is missing or empty")
			continue
		}
		requesterID, err := strconv.ParseInt(strings.TrimSpace(record[0]), 10, 64)
		if err != nil {
			report.Failure(strings.TrimSpace(record[0]), "N/A",
				"invalid requester ID format in row "+strconv.Itoa(rowNumber))
			continue
		}

		var emails []string
		for _, email := range record[1:] {
			if email = strings.TrimSpace(email); email != "" {
				emails = append(emails, email)
			}
		}
		rows = append(rows, emailRow{RequesterID: requesterID, Emails: emails})
	}
	return rows, nil
}

// updateOne sets the primary email and replaces all secondary emails with
// the single one from the row, in two PUT calls. The first call also clears
// stale secondaries so the new primary can never collide with them.
func updateOne(ctx context.Context, client *fresh.Client, row emailRow, report *tasks.Report) {
	if len(row.Emails) < 2 {
		report.Failure(strconv.FormatInt(row.RequesterID, 10), "N/A",
			"row must contain a primary and a secondary email")
		return
	}
	primary, secondary := row.Emails[0], row.Emails[1]

	utils.LogInfo("requester_id", row.RequesterID, "updating primary email and clearing secondaries")
	update := fresh.RequesterUpdate{}
	update.SetPrimaryEmail(primary)
	update.SetSecondaryEmails([]string{})
	if err := client.UpdateRequester(ctx, row.RequesterID, &update); err != nil {
		report.Failure(strconv.FormatInt(row.RequesterID, 10), fresh.StatusStr(err), err.Error())
		return
	}

	utils.LogInfo("requester_id", row.RequesterID, "updating secondary email")
	update = fresh.RequesterUpdate{}
	update.SetSecondaryEmails([]string{secondary})
	if err := client.UpdateRequester(ctx, row.RequesterID, &update); err != nil {
		report.Failure(strconv.FormatInt(row.RequesterID, 10), fresh.StatusStr(err), err.Error())
		return
	}
	report.Success(row.RequesterID, "updated primary and secondary email")
}

// addOne adds the row's emails to the requester's existing secondary
// emails, de-duplicated, keeping the existing order.
func addOne(ctx context.Context, client *fresh.Client, row emailRow, report *tasks.Report) {
	if len(row.Emails) == 0 {
		utils.LogInfo("requester_id", row.RequesterID, "no secondary emails to add, skipping")
		tasks.RequestersProcessedCnt.WithLabelValues("add_secondary_emails", tasks.ResultSkipped).Inc()
		return
	}

	requester, err := client.GetRequester(ctx, row.RequesterID)
	if err != nil {
		if fresh.IsStatus(err, http.StatusNotFound) {
			utils.LogWarn("requester_id", row.RequesterID, "requester not found, skipping")
			tasks.RequestersProcessedCnt.WithLabelValues("add_secondary_emails", tasks.ResultNotFound).Inc()
			return
		}
		report.Failure(strconv.FormatInt(row.RequesterID, 10), fresh.StatusStr(err), err.Error())
		return
	}

	merged := mergeEmails(requester.GetSecondaryEmails(), row.Emails)
	utils.LogInfo("requester_id", row.RequesterID, "emails", strings.Join(merged, ","),
		"setting merged secondary emails")

	update := fresh.RequesterUpdate{}
	update.SetSecondaryEmails(merged)
	if err := client.UpdateRequester(ctx, row.RequesterID, &update); err != nil {
		report.Failure(strconv.FormatInt(row.RequesterID, 10), fresh.StatusStr(err), err.Error())
		return
	}
	report.Success(row.RequesterID, strings.Join(merged, " "))
}

// replaceOne clears existing secondary emails and sets the row's emails.
func replaceOne(ctx context.Context, client *fresh.Client, row emailRow, report *tasks.Report) {
	utils.LogInfo("requester_id", row.RequesterID, "clearing existing secondary emails")
	update := fresh.RequesterUpdate{}
	update.SetSecondaryEmails([]string{})
	if err := client.UpdateRequester(ctx, row.RequesterID, &update); err != nil {
		report.Failure(strconv.FormatInt(row.RequesterID, 10), fresh.StatusStr(err),
			"clearing secondary emails failed: "+err.Error())
		return
	}

	emailsToSet := row.Emails
	if emailsToSet == nil {
		emailsToSet = []string{}
	}
	utils.LogInfo("requester_id", row.RequesterID, "emails", strings.Join(emailsToSet, ","),
		"setting secondary emails")
	update = fresh.RequesterUpdate{}
	update.SetSecondaryEmails(emailsToSet)
	if err := client.UpdateRequester(ctx, row.RequesterID, &update); err != nil {
		report.Failure(strconv.FormatInt(row.RequesterID, 10), fresh.StatusStr(err),
			"setting secondary emails failed: "+err.Error())
		return
	}
	report.Success(row.RequesterID, strings.Join(emailsToSet, " "))
}

func mergeEmails(existing, toAdd []string) []string {
	seen := make(map[string]bool, len(existing)+len(toAdd))
	merged := make([]string, 0, len(existing)+len(toAdd))
	for _, email := range append(existing, toAdd...) {
		if email == "" || seen[email] {
			continue
		}
		seen[email] = true
		merged = append(merged, email)
	}
	return merged
}
