package api

import (
	"app/base/utils"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func TestLowRemainingWait(t *testing.T) {
	utils.ConfigureLogging()
	hook := utils.NewTestLogHook(log.WarnLevel)
	log.AddHook(hook)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("X-Ratelimit-Remaining", "3")
	}))
	defer server.Close()

	client := Client{
		HTTPClient:            server.Client(),
		LowRemainingThreshold: 10,
		LowRemainingWait:      20 * time.Millisecond,
	}
	ctx := context.Background()
	start := time.Now()
	resp, err := client.Request(&ctx, http.MethodGet, server.URL, nil, nil) //nolint:bodyclose
	assert.Nil(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.GreaterOrEqual(t, time.Since(start), 20*time.Millisecond)

	assert.Equal(t, 1, len(hook.LogEntries))
	entry := hook.LogEntries[0]
	assert.Equal(t, "remaining requests low, waiting", entry.Message)
	assert.Equal(t, 3, entry.Data["remaining"])
}

func TestRetryAfterWait(t *testing.T) {
	utils.ConfigureLogging()
	hook := utils.NewTestLogHook(log.WarnLevel)
	log.AddHook(hook)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Retry-After", "0")
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := Client{HTTPClient: server.Client(), LowRemainingThreshold: 10}
	ctx := context.Background()
	resp, err := client.Request(&ctx, http.MethodGet, server.URL, nil, nil) //nolint:bodyclose
	assert.Nil(t, err)
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)

	entry := hook.LogEntries[len(hook.LogEntries)-1]
	assert.Equal(t, "rate limit exceeded, waiting", entry.Message)
	assert.Equal(t, 0, entry.Data["retry_after"])
}
