package main

import (
	"app/base"
	"app/base/utils"
	"app/platform"
	"app/tasks/emails"
	"app/tasks/external"
	"app/tasks/lifecycle"
	"app/tasks/merge"
	"app/tasks/sweep"
	"log"
	"os"

	_ "go.uber.org/automaxprocs"
)

func main() {
	base.HandleSignals()

	defer utils.LogPanicsAndExit()
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "sweep":
			sweep.RunSweep()
			return
		case "deactivate":
			lifecycle.RunDeactivate()
			return
		case "reactivate":
			lifecycle.RunReactivate()
			return
		case "merge":
			merge.RunMerge()
			return
		case "update_emails":
			emails.RunUpdateEmails()
			return
		case "add_secondary_emails":
			emails.RunAddSecondaryEmails()
			return
		case "replace_secondary_emails":
			emails.RunReplaceSecondaryEmails()
			return
		case "update_external_id":
			external.RunUpdateExternalID()
			return
		case "platform":
			platform.RunPlatformMock()
			return
		}
	}
	log.Fatal("You need to provide a command: sweep, deactivate, reactivate, merge, update_emails, " +
		"add_secondary_emails, replace_secondary_emails, update_external_id or platform")
}
