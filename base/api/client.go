package api

import (
	"app/base/utils"
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/ratelimit"
)

// Client is a generic JSON API client. The limiter paces outgoing requests
// below the Freshservice per-minute cap, the header checks slow down when
// the remaining quota reported by the server gets low.
type Client struct {
	HTTPClient     *http.Client
	Debug          bool
	DefaultHeaders map[string]string

	// HTTP basic auth, Freshservice expects the API key as username
	Username string
	Password string

	Limiter ratelimit.Limiter

	// pause when X-Ratelimit-Remaining drops below the threshold
	LowRemainingThreshold int
	LowRemainingWait      time.Duration
	// fallback wait on 429 without a Retry-After header
	DefaultRetryAfter time.Duration
}

func (o *Client) Request(ctx *context.Context, method, url string,
	requestPtr interface{}, responseOutPtr interface{}) (*http.Response, error) {
	body := &bytes.Buffer{}
	if requestPtr != nil {
		err := json.NewEncoder(body).Encode(requestPtr)
		if err != nil {
			return nil, errors.Wrap(err, "Request json encoding failed")
		}
	}

	httpReq, err := http.NewRequestWithContext(*ctx, method, url, body)
	if err != nil {
		return nil, errors.Wrap(err, "Request making failed")
	}
	httpReq.Header.Add("Content-Type", "application/json")
	addHeaders(httpReq, o.DefaultHeaders)
	if o.Username != "" {
		httpReq.SetBasicAuth(o.Username, o.Password)
	}

	if o.Limiter != nil {
		o.Limiter.Take()
	}

	httpResp, err := utils.CallAPI(o.HTTPClient, httpReq, o.Debug)
	if err != nil {
		return nil, errors.Wrap(err, "Request making failed")
	}

	o.handleRateLimiting(httpResp)

	bodyBytes, err := io.ReadAll(httpResp.Body)
	httpResp.Body.Close()
	if err != nil {
		return httpResp, errors.Wrap(err, "Response body reading failed")
	}

	if responseOutPtr != nil && len(bodyBytes) > 0 {
		err = json.Unmarshal(bodyBytes, responseOutPtr)
		if err != nil {
			return httpResp, errors.Wrap(err, "Response json parsing failed")
		}
	}
	return httpResp, nil
}

// handleRateLimiting inspects Freshservice rate-limit response headers and
// sleeps when the quota is (nearly) exhausted. The 429 wait happens here,
// the retry itself is driven by utils.HTTPCallRetry in the caller.
func (o *Client) handleRateLimiting(response *http.Response) {
	if o.LowRemainingThreshold <= 0 {
		return
	}

	remaining := utils.TryGetHeaderInt(response, "X-Ratelimit-Remaining", 100)
	if remaining < o.LowRemainingThreshold {
		utils.LogWarn("remaining", remaining, "wait", o.LowRemainingWait.String(),
			"remaining requests low, waiting")
		time.Sleep(o.LowRemainingWait)
	} else {
		utils.LogDebug("remaining", remaining, "rate limit")
	}

	if response.StatusCode == http.StatusTooManyRequests {
		retryAfter := utils.TryGetHeaderInt(response, "Retry-After", int(o.DefaultRetryAfter.Seconds()))
		utils.LogWarn("retry_after", retryAfter, "rate limit exceeded, waiting")
		time.Sleep(time.Duration(retryAfter) * time.Second)
	}
}

func addHeaders(request *http.Request, headersMap map[string]string) {
	if headersMap == nil {
		return
	}
	for k, v := range headersMap {
		request.Header.Add(k, v)
	}
}
