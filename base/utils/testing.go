package utils

import (
	"os"
	"testing"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func SkipWithoutPlatform(t *testing.T) {
	if os.Getenv("FRESH_ADDRESS") == "" {
		t.Skip("testing platform instance not used - skipping")
	}
}

type TestLogHook struct {
	LogEntries    []log.Entry
	LevelsToStore []log.Level
}

func (t *TestLogHook) Levels() []log.Level {
	return t.LevelsToStore
}

func (t *TestLogHook) Fire(entry *log.Entry) error {
	t.LogEntries = append(t.LogEntries, *entry)
	return nil
}

func NewTestLogHook(levelsToStore ...log.Level) *TestLogHook {
	if len(levelsToStore) == 0 {
		levelsToStore = []log.Level{log.PanicLevel, log.FatalLevel, log.ErrorLevel, log.WarnLevel, log.InfoLevel,
			log.DebugLevel, log.TraceLevel}
	}
	return &TestLogHook{LevelsToStore: levelsToStore}
}

func AssertWait(t *testing.T, timeoutSeconds int, funToAssert func() bool) {
	for i := 0; i < timeoutSeconds*10; i++ {
		time.Sleep(time.Millisecond * 100)
		if funToAssert() {
			break
		}
	}
	assert.True(t, funToAssert())
}
