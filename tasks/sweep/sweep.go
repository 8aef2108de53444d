package sweep

import (
	"app/base"
	"app/base/core"
	"app/base/fresh"
	"app/base/utils"
	"app/tasks"
	"context"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

var freshClient *fresh.Client

func configure() {
	core.ConfigureApp()
	freshClient = fresh.CreateClient(tasks.UseTraceLevel)
	tasks.RunMetrics()
	tasks.HandleContextCancel(tasks.WaitAndExit)
}

func RunSweep() {
	defer utils.LogPanicsAndExit()
	configure()

	utils.LogInfo("run_id", tasks.RunID, "dry_run", tasks.SweepDryRun,
		"stale_days", tasks.SweepStaleDays, "Requester sweep starting")

	report, err := runSweep(base.Context, freshClient)
	if err != nil {
		utils.LogFatal("err", err.Error(), "Requester sweep failed")
	}
	if err := report.Finish(); err != nil {
		os.Exit(1)
	}
	tasks.WaitAndExit()
}

func runSweep(ctx context.Context, client *fresh.Client) (*tasks.Report, error) {
	sweepStart := time.Now()
	report := tasks.NewReport("sweep",
		filepath.Join(tasks.ReportDir, "sweep_deactivated.csv"),
		filepath.Join(tasks.ReportDir, "sweep_api_errors.csv"))

	requesters, err := client.ListRequesters(ctx)
	if err != nil {
		return nil, err
	}
	tasks.RequestersScannedCnt.Add(float64(len(requesters)))

	now := time.Now()
	nMatched := 0
	for i := range requesters {
		requester := &requesters[i]
		if !shouldSweep(requester, now, tasks.SweepStaleDays, tasks.SweepKeepDomains) {
			continue
		}
		nMatched++
		if nMatched > tasks.SweepDeactivateLimit {
			utils.LogWarn("limit", tasks.SweepDeactivateLimit, "sweep limit reached, stopping")
			break
		}

		if tasks.SweepDryRun {
			utils.LogInfo("requester_id", requester.ID, "email", requester.GetPrimaryEmail(),
				"would deactivate requester (dry run)")
			tasks.RequestersProcessedCnt.WithLabelValues("sweep", tasks.ResultDryRun).Inc()
			continue
		}

		deactivateMatched(ctx, client, requester, report)
	}

	utils.LogInfo("scanned", len(requesters), "matched", nMatched,
		"sweep_duration", utils.SinceStr(sweepStart, time.Second), "Requester sweep done")
	return report, nil
}

func deactivateMatched(ctx context.Context, client *fresh.Client, requester *fresh.Requester,
	report *tasks.Report) {
	outcome, err := client.DeactivateRequester(ctx, requester.ID)
	if err != nil {
		report.Failure(strconv.FormatInt(requester.ID, 10), fresh.StatusStr(err), err.Error())
		return
	}
	switch outcome {
	case fresh.Deactivated:
		report.Success(requester.ID, "deactivated "+requester.GetPrimaryEmail())
	case fresh.AlreadyDeactivated:
		// the listing said active, somebody deactivated it meanwhile
		utils.LogInfo("requester_id", requester.ID, "requester already deactivated")
		tasks.RequestersProcessedCnt.WithLabelValues("sweep", tasks.ResultAlreadyDeactivated).Inc()
	case fresh.NotFound:
		utils.LogWarn("requester_id", requester.ID, "requester not found")
		tasks.RequestersProcessedCnt.WithLabelValues("sweep", tasks.ResultNotFound).Inc()
	}
}

// shouldSweep is the cleanup predicate: only active requesters whose last
// activity is older than staleDays and whose primary email is outside the
// keep domains are deactivated. Never-seen requesters without usable
// timestamps count as stale.
func shouldSweep(requester *fresh.Requester, now time.Time, staleDays int, keepDomains []string) bool {
	if !requester.GetActive() {
		return false
	}
	if emailDomainKept(requester.GetPrimaryEmail(), keepDomains) {
		return false
	}
	lastActivity := requester.GetLastActivity()
	if lastActivity == nil {
		return true
	}
	return now.Sub(*lastActivity) > time.Duration(staleDays)*24*time.Hour
}

func emailDomainKept(email string, keepDomains []string) bool {
	at := strings.LastIndex(email, "@")
	if at < 0 {
		return false
	}
	domain := strings.ToLower(email[at+1:])
	for _, keep := range keepDomains {
		if domain == keep {
			return true
		}
	}
	return false
}
