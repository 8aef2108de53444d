package utils

import (
	"fmt"
	"os"
	"runtime/debug"
	"strconv"
	"strings"
	"time"
)

// load environment variable or return default value
func Getenv(key, defaultt string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return defaultt
}

// parse bool value from env variable
func GetBoolEnvOrDefault(envname string, defval bool) bool {
	value := os.Getenv(envname)
	if value == "" {
		return defval
	}

	parsedBool, err := strconv.ParseBool(value)
	if err != nil {
		panic(err)
	}

	return parsedBool
}

// load int environment variable or load default
func GetIntEnvOrDefault(envname string, defval int) int {
	valueStr := os.Getenv(envname)
	if valueStr == "" {
		return defval
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		panic(fmt.Sprintf("Unable convert '%s' env var '%s' to int!", envname, valueStr))
	}

	return value
}

// set environment variable or fail
func SetenvOrFail(envname, value string) string {
	err := os.Setenv(envname, value)
	if err != nil {
		panic(err)
	}

	return value
}

// fail when the value is empty, reporting which env variable to set
func FailIfEmpty(value string, envname string) string {
	if value == "" {
		panic(fmt.Sprintf("Set %s env variable!", envname))
	}
	return value
}

// format duration since the given start, truncated to the given precision
func SinceStr(start time.Time, precision time.Duration) string {
	return time.Since(start).Truncate(precision).String()
}

// Catches panics, and logs them to stderr, then exit conditionally
func LogPanics(exitAfterLogging bool) {
	if obj := recover(); obj != nil {
		stack := string(debug.Stack())
		stackLine := strings.Replace(stack, "\n", "|", -1)
		Log("err", obj, "stack", stackLine).Error("Panicked")
		FlushLogs()
		if exitAfterLogging {
			os.Exit(1)
		}
	}
}

func LogPanicsAndExit() {
	LogPanics(true)
}
