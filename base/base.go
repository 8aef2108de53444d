package base

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"
)

const FreshAPIPrefix = "/api/v2"

// Freshservice returns UTC RFC 3339 timestamps with a trailing Z
const Rfc3339Z = "2006-01-02T15:04:05Z"

var Context context.Context
var CancelContext context.CancelFunc

func init() {
	Context, CancelContext = context.WithCancel(context.Background())
}

// HandleSignals cancels base context on SIGTERM or SIGINT, so running
// requester operations can finish the record in flight and exit cleanly.
func HandleSignals() {
	c := make(chan os.Signal, 2)
	signal.Notify(c, syscall.SIGTERM, syscall.SIGINT)
	go func() {
		<-c
		CancelContext()
	}()
}

var timeFormats = []string{Rfc3339Z, time.RFC3339, "2006-01-02T15:04:05"}

func ParseTime(s string) (time.Time, error) {
	var t time.Time
	var err error
	for _, format := range timeFormats {
		t, err = time.Parse(format, s)
		if err == nil {
			return t, nil
		}
	}
	return t, err
}
