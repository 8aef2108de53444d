package utils

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httputil"
	"time"

	"github.com/lestrrat-go/backoff/v2"
	"github.com/pkg/errors"
)

func HTTPCallRetry(httpCallFun func() (outputDataPtr interface{}, resp *http.Response, err error),
	exponentialRetry bool, maxRetries int, codesToRetry ...int) (outputDataPtr interface{}, err error) {
	backoffState, cancel := startBackoff(exponentialRetry, maxRetries)
	defer cancel()
	attempt := 0
	for backoff.Continue(backoffState) {
		attempt++
		outDataPtr, resp, callErr := httpCallFun()
		if statusCodeFound(resp, codesToRetry) {
			Log("attempt", attempt, "status_code", TryGetStatusCode(resp)).
				Warn("HTTP call ended with wrong status code")
			continue
		}

		if callErr == nil {
			return outDataPtr, nil
		}

		if len(codesToRetry) == 0 { // no "retry" codes specified, continue always
			Log("attempt", attempt, "err", callErr.Error()).Warn("HTTP call failed, trying again")
			continue
		}

		responseDetails := tryGetResponseDetails(resp)
		return nil, errors.Wrap(callErr, "HTTP call failed"+responseDetails)
	}
	return nil, errors.Errorf("HTTP retry call failed, attempts: %d", attempt)
}

func CallAPI(client *http.Client, request *http.Request, debugEnabled bool) (*http.Response, error) {
	if debugEnabled {
		dump, err := httputil.DumpRequestOut(request, true)
		if err != nil {
			return nil, err
		}
		Log("dump", fmt.Sprintf("\n%s\n", string(dump))).Debug("http call")
	}

	resp, err := client.Do(request)
	if err != nil {
		return resp, err
	}

	if debugEnabled {
		dump, err := httputil.DumpResponse(resp, true)
		if err != nil {
			return resp, err
		}
		Log("dump", fmt.Sprintf("\n%s\n", string(dump))).Debug("http response")
	}
	return resp, err
}

func tryGetResponseDetails(response *http.Response) string {
	details := ""
	if response != nil {
		details = fmt.Sprintf(", status code: %d", response.StatusCode)
	}
	return details
}

func TryGetStatusCode(response *http.Response) int {
	if response == nil {
		return 0
	}
	return response.StatusCode
}

// TryGetHeaderInt parses an integer response header, returning the default
// when the response or header is missing or malformed.
func TryGetHeaderInt(response *http.Response, header string, defval int) int {
	if response == nil {
		return defval
	}
	value := response.Header.Get(header)
	if value == "" {
		return defval
	}
	parsed := defval
	if _, err := fmt.Sscanf(value, "%d", &parsed); err != nil {
		return defval
	}
	return parsed
}

// maxRetries=0 retries forever
func startBackoff(exponential bool, maxRetries int) (backoff.Controller, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())
	var policy backoff.Policy
	if exponential {
		policy = backoff.Exponential(
			backoff.WithMinInterval(time.Second),
			backoff.WithMaxRetries(maxRetries))
	} else {
		policy = backoff.Constant(
			backoff.WithInterval(time.Second),
			backoff.WithMaxRetries(maxRetries))
	}
	return policy.Start(ctx), cancel
}

func statusCodeFound(response *http.Response, statusCodes []int) bool {
	if response == nil {
		return false
	}

	for _, code := range statusCodes {
		if code == response.StatusCode {
			return true
		}
	}
	return false
}
