package tasks

import (
	"app/base/utils"
	"strings"

	log "github.com/sirupsen/logrus"
)

var (
	// Sweep only LIMIT requesters in a run, useful to avoid a complete wipe in case of error
	SweepDeactivateLimit = utils.PodConfig.GetInt("sweep_deactivate_limit", 1000)
	// Days without a login before an active requester is considered stale
	SweepStaleDays = utils.PodConfig.GetInt("sweep_stale_days", 365)
	// Requesters with a primary email in these domains are never swept
	SweepKeepDomains = splitDomains(utils.PodConfig.GetString("sweep_keep_domains", ""))
	// Report matches without deactivating them
	SweepDryRun = utils.GetBoolEnvOrDefault("SWEEP_DRY_RUN", false)

	// Input file for deactivate/reactivate ID lists
	IDsFile = utils.Getenv("IDS_FILE", "requester_ids.txt")
	// Input file for CSV driven tasks
	CSVFile = utils.Getenv("CSV_FILE", "")
	// Directory for success/error report files
	ReportDir = utils.Getenv("REPORT_DIR", ".")

	UseTraceLevel = log.IsLevelEnabled(log.TraceLevel)
)

func splitDomains(value string) []string {
	if value == "" {
		return nil
	}
	domains := strings.Split(value, ",")
	for i, d := range domains {
		domains[i] = strings.ToLower(strings.TrimSpace(d))
	}
	return domains
}
