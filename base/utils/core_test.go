package utils

import (
	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"testing"
	"time"
)

func TestRecoverAndLogPanics(t *testing.T) {
	ConfigureLogging()

	logHook := NewTestLogHook()
	log.AddHook(logHook)

	func() {
		defer LogPanics(false)
		panic("We crashed")
	}()

	assert.Equal(t, 1, len(logHook.LogEntries))
}

func TestFailIfEmpty(t *testing.T) {
	assert.Equal(t, "some-api-key", FailIfEmpty("some-api-key", "FRESH_API_KEY"))
	assert.PanicsWithValue(t, "Set FRESH_API_KEY env variable!", func() {
		FailIfEmpty("", "FRESH_API_KEY")
	})
}

func TestSinceStr(t *testing.T) {
	start := time.Now().Add(-2 * time.Second)
	assert.Equal(t, "2s", SinceStr(start, time.Second))
}
