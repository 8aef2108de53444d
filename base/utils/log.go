package utils

import (
	"fmt"
	"os"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
)

// configure logging using env variables LOG_LEVEL and LOG_STYLE
func ConfigureLogging() {
	initLogging()
}

func initLogging() {
	level := parseLogLevel(Getenv("LOG_LEVEL", "info"))
	log.SetLevel(level)
	log.SetOutput(os.Stdout)

	switch strings.ToLower(Getenv("LOG_STYLE", "plain")) {
	case "json":
		log.SetFormatter(&log.JSONFormatter{
			TimestampFormat: time.RFC3339Nano,
			FieldMap: log.FieldMap{
				log.FieldKeyTime: "timestamp",
			},
		})
	default:
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	}
}

func parseLogLevel(name string) log.Level {
	level, err := log.ParseLevel(name)
	if err != nil {
		log.Warningf("Unable to parse log level '%s', using 'info'", name)
		return log.InfoLevel
	}
	return level
}

// Log accepts key-value pairs, e.g. Log("key1", 1, "key2", "value"),
// and returns an entry with those fields attached.
func Log(args ...interface{}) *log.Entry {
	nArgs := len(args)
	fields := log.Fields{}
	if nArgs%2 != 0 {
		Log("args", fmt.Sprintf("%v", args)).Warning("Unable to accept odd (key-value) arguments count")
	} else {
		for i := 0; i < nArgs; i += 2 {
			fields[fmt.Sprintf("%v", args[i])] = args[i+1]
		}
	}
	return log.WithFields(fields)
}

// logWithKeyVals logs key-value pairs with an optional trailing message,
// e.g. LogInfo("key1", 1, "key2", "value", "message")
func logWithKeyVals(level log.Level, args ...interface{}) {
	if !log.IsLevelEnabled(level) {
		return
	}
	nArgs := len(args)
	msg := ""
	if nArgs%2 != 0 {
		msg = fmt.Sprintf("%v", args[nArgs-1])
		args = args[:nArgs-1]
	}
	Log(args...).Log(level, msg)
}

func LogDebug(args ...interface{}) {
	logWithKeyVals(log.DebugLevel, args...)
}

func LogInfo(args ...interface{}) {
	logWithKeyVals(log.InfoLevel, args...)
}

func LogWarn(args ...interface{}) {
	logWithKeyVals(log.WarnLevel, args...)
}

func LogError(args ...interface{}) {
	logWithKeyVals(log.ErrorLevel, args...)
}

func LogFatal(args ...interface{}) {
	logWithKeyVals(log.FatalLevel, args...)
	FlushLogs()
	os.Exit(1)
}

// FlushLogs is a no-op for stdout logging, kept as the single place to add
// buffered log hooks teardown.
func FlushLogs() {}
