package fresh

import (
	"app/base"
	"app/base/api"
	"app/base/utils"
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/pkg/errors"
	"go.uber.org/ratelimit"
)

var (
	// client-side pacing, Freshservice caps API usage per minute
	MaxRequestsPerMinute = utils.PodConfig.GetInt("fresh_max_requests_per_minute", 500)
	// number of retries on retryable statuses, 0 - retry forever
	CallMaxRetries = utils.PodConfig.GetInt("fresh_call_max_retries", 8)
	// use exponential retry timeouts, false - retry periodically
	CallExpRetry = utils.PodConfig.GetBool("fresh_call_exp_retry", true)
	// page size for GET /requesters
	PageSize = utils.PodConfig.GetInt("fresh_page_size", 100)
	// slow down when X-Ratelimit-Remaining drops below
	LowRemainingThreshold = utils.PodConfig.GetInt("fresh_low_remaining_threshold", 10)
	LowRemainingWaitSecs  = utils.PodConfig.GetInt("fresh_low_remaining_wait_secs", 30)
	// requester GET cache entries
	RequesterCacheSize = utils.PodConfig.GetInt("requester_cache_size", 1000)
)

const deleteNotAllowedMsg = "DELETE method is not allowed. It should be one of these method(s): GET"

// StatusError is an unexpected Freshservice response, carrying the parsed
// error body so callers can branch on the API error code.
type StatusError struct {
	Status  int
	Code    string
	Message string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("freshservice status %d, code: '%s', message: '%s'", e.Status, e.Code, e.Message)
}

// IsStatus matches err against a StatusError (possibly wrapped) with the given status.
func IsStatus(err error, status int) bool {
	serr := &StatusError{}
	return errors.As(err, &serr) && serr.Status == status
}

// HasCode matches err against a StatusError (possibly wrapped) with the given API error code.
func HasCode(err error, code string) bool {
	serr := &StatusError{}
	return errors.As(err, &serr) && serr.Code == code
}

// StatusStr renders the HTTP status of a StatusError for report rows,
// "N/A" for transport level errors.
func StatusStr(err error) string {
	serr := &StatusError{}
	if errors.As(err, &serr) {
		return strconv.Itoa(serr.Status)
	}
	return "N/A"
}

type DeactivateOutcome int

const (
	Deactivated DeactivateOutcome = iota
	AlreadyDeactivated
	NotFound
)

// Client is a typed Freshservice requester API client.
type Client struct {
	client  *api.Client
	address string
	cache   *lru.Cache[int64, Requester]
}

func CreateClient(debug bool) *Client {
	address := utils.FailIfEmpty(utils.CoreCfg.FreshAddress, "FRESH_ADDRESS")
	apiKey := utils.FailIfEmpty(utils.CoreCfg.FreshAPIKey, "FRESH_API_KEY")

	cache, err := lru.New[int64, Requester](RequesterCacheSize)
	if err != nil {
		panic(err)
	}

	return &Client{
		client: &api.Client{
			HTTPClient: &http.Client{},
			Debug:      debug,
			Username:   apiKey,
			// Freshservice basic auth ignores the password, any value works
			Password:              "X",
			Limiter:               ratelimit.New(MaxRequestsPerMinute, ratelimit.Per(time.Minute)),
			LowRemainingThreshold: LowRemainingThreshold,
			LowRemainingWait:      time.Duration(LowRemainingWaitSecs) * time.Second,
			DefaultRetryAfter:     30 * time.Second,
		},
		address: address + base.FreshAPIPrefix,
		cache:   cache,
	}
}

// call makes one rate-limited request, retrying 429 and 503, and turns any
// other unexpected status into a StatusError with the parsed error body.
func (c *Client) call(ctx context.Context, method, url string, requestPtr interface{},
	okStatuses ...int) (*RequesterResponse, error) {
	callFun := func() (interface{}, *http.Response, error) {
		response := RequesterResponse{}
		resp, err := c.client.Request(&ctx, method, url, requestPtr, &response) //nolint:bodyclose
		if err != nil {
			return nil, resp, err
		}
		for _, status := range okStatuses {
			if resp.StatusCode == status {
				return &response, resp, nil
			}
		}
		return nil, resp, &StatusError{
			Status:  resp.StatusCode,
			Code:    response.Code,
			Message: response.Message,
		}
	}

	out, err := utils.HTTPCallRetry(callFun, CallExpRetry, CallMaxRetries,
		http.StatusTooManyRequests, http.StatusServiceUnavailable)
	if err != nil {
		return nil, err
	}
	return out.(*RequesterResponse), nil
}

func (c *Client) requesterURL(requesterID int64, suffix string) string {
	return fmt.Sprintf("%s/requesters/%d%s", c.address, requesterID, suffix)
}

// ListRequesters downloads all requester pages and aggregates them into one
// complete list.
func (c *Client) ListRequesters(ctx context.Context) ([]Requester, error) {
	requesters := []Requester{}
	listStart := time.Now()
	for page := 1; ; page++ {
		url := fmt.Sprintf("%s/requesters?page=%d&per_page=%d", c.address, page, PageSize)
		callFun := func() (interface{}, *http.Response, error) {
			response := RequestersResponse{}
			resp, err := c.client.Request(&ctx, http.MethodGet, url, nil, &response) //nolint:bodyclose
			if err != nil {
				return nil, resp, err
			}
			if resp.StatusCode != http.StatusOK {
				return nil, resp, &StatusError{Status: resp.StatusCode}
			}
			return &response, resp, nil
		}

		out, err := utils.HTTPCallRetry(callFun, CallExpRetry, CallMaxRetries,
			http.StatusTooManyRequests, http.StatusServiceUnavailable)
		if err != nil {
			return nil, errors.Wrapf(err, "requesters page %d download failed", page)
		}

		pageItems := out.(*RequestersResponse).Requesters
		requesters = append(requesters, pageItems...)
		utils.LogInfo("page", page, "count", len(pageItems),
			"list_duration", utils.SinceStr(listStart, time.Second), "Downloaded requesters")
		if len(pageItems) < PageSize {
			break
		}
	}
	return requesters, nil
}

func (c *Client) GetRequester(ctx context.Context, requesterID int64) (*Requester, error) {
	if requester, ok := c.cache.Get(requesterID); ok {
		return &requester, nil
	}

	response, err := c.call(ctx, http.MethodGet, c.requesterURL(requesterID, ""), nil, http.StatusOK)
	if err != nil {
		return nil, err
	}
	c.cache.Add(requesterID, response.Requester)
	return &response.Requester, nil
}

func (c *Client) UpdateRequester(ctx context.Context, requesterID int64, update *RequesterUpdate) error {
	c.cache.Remove(requesterID)
	_, err := c.call(ctx, http.MethodPut, c.requesterURL(requesterID, ""), update, http.StatusOK)
	return err
}

// DeactivateRequester forgets a requester. Freshservice answers an already
// deactivated requester with 405 and a "DELETE not allowed" message.
func (c *Client) DeactivateRequester(ctx context.Context, requesterID int64) (DeactivateOutcome, error) {
	c.cache.Remove(requesterID)
	_, err := c.call(ctx, http.MethodDelete, c.requesterURL(requesterID, ""), nil, http.StatusNoContent)
	switch {
	case err == nil:
		return Deactivated, nil
	case IsStatus(err, http.StatusNotFound):
		return NotFound, nil
	case IsStatus(err, http.StatusMethodNotAllowed):
		serr := &StatusError{}
		if errors.As(err, &serr) && strings.HasPrefix(serr.Message, deleteNotAllowedMsg) {
			return AlreadyDeactivated, nil
		}
		return 0, err
	}
	return 0, err
}

func (c *Client) ReactivateRequester(ctx context.Context, requesterID int64) error {
	c.cache.Remove(requesterID)
	_, err := c.call(ctx, http.MethodPut, c.requesterURL(requesterID, "/reactivate"), nil, http.StatusOK)
	return err
}

// MergeRequesters merges one secondary requester into the primary one.
func (c *Client) MergeRequesters(ctx context.Context, primaryID, secondaryID int64) error {
	c.cache.Remove(primaryID)
	c.cache.Remove(secondaryID)
	url := c.requesterURL(primaryID, fmt.Sprintf("/merge?secondary_requesters=%d", secondaryID))
	_, err := c.call(ctx, http.MethodPut, url, nil, http.StatusOK, http.StatusNoContent)
	return err
}
