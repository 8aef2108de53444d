package tasks

import (
	"app/base"
	"app/base/utils"
	"os"
	"time"

	"github.com/google/uuid"
)

// RunID tags all log lines and report rows of one invocation.
var RunID = uuid.NewString()

func HandleContextCancel(fn func()) {
	go func() {
		<-base.Context.Done()
		utils.LogInfo("stopping requester task")
		fn()
	}()
}

func WaitAndExit() {
	time.Sleep(time.Second) // give some time to flush logs and close connections
	os.Exit(0)
}
