// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package bgg is the client for the BoardGameGeek XML API v2.

It issues search and thing requests, retries transient failures with jittered
exponential backoff, and streams the XML responses into [thing.Thing] values.

Retry policy (thing requests only):

  - 2xx: success.
  - 429 or 5xx: sleep the current backoff (initially 500ms), then grow it by a
    random factor in [1.5, 2.5). Once the backoff exceeds 30s the client gives
    up with a [*RetryExhaustedError] carrying the last status.
  - Any other status: [*StatusError], never retried.
  - Transport failures: [*TransportError], never retried.

Search requests are issued once and never retried.
*/
package bgg

import (
	"context"
	"io"
	"log/slog"
	"math/rand/v2"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/taibuivan/meeple/internal/core/thing"
	"github.com/taibuivan/meeple/internal/platform/constants"
)

// maxLoggedBody bounds how much of a failed response body is logged.
const maxLoggedBody = 512

// # Client Definition

// Client talks to the upstream metadata API.
//
// It is safe for concurrent use; one instance is shared by every request.
type Client struct {
	httpClient *http.Client
	baseURL    string
	token      string
	logger     *slog.Logger

	initialBackoff time.Duration
	maxBackoff     time.Duration
	jitter         func() float64
	sleep          func(ctx context.Context, wait time.Duration) error
}

// Option customises a [Client].
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(client *Client) { client.httpClient = httpClient }
}

// WithToken sends token as a bearer credential on every request.
func WithToken(token string) Option {
	return func(client *Client) { client.token = token }
}

// WithBackoff overrides the initial backoff and the ceiling past which the client gives up.
func WithBackoff(initial, ceiling time.Duration) Option {
	return func(client *Client) {
		client.initialBackoff = initial
		client.maxBackoff = ceiling
	}
}

// WithJitter replaces the source of the backoff growth factor.
func WithJitter(jitter func() float64) Option {
	return func(client *Client) { client.jitter = jitter }
}

// WithSleep replaces the function used to wait between retries.
func WithSleep(sleep func(ctx context.Context, wait time.Duration) error) Option {
	return func(client *Client) { client.sleep = sleep }
}

// NewClient builds a client rooted at baseURL (e.g. https://boardgamegeek.com/xmlapi2).
func NewClient(baseURL string, logger *slog.Logger, options ...Option) *Client {
	client := &Client{
		httpClient:     &http.Client{Timeout: constants.GlobalRequestTimeout},
		baseURL:        strings.TrimRight(baseURL, "/"),
		logger:         logger,
		initialBackoff: constants.InitialBackoff,
		maxBackoff:     constants.MaxBackoff,
		jitter:         defaultJitter,
		sleep:          sleepContext,
	}
	for _, option := range options {
		option(client)
	}
	return client
}

// # Operations

// Search runs a free-text search and returns the candidate list in upstream order.
func (client *Client) Search(ctx context.Context, query string) ([]thing.SearchItem, error) {
	endpoint := client.endpoint("search", url.Values{"query": {query}})

	response, err := client.get(ctx, endpoint)
	if err != nil {
		return nil, err
	}
	defer response.Body.Close()

	if !successful(response.StatusCode) {
		client.logFailedBody(response, endpoint)
		return nil, &StatusError{URL: endpoint, Status: response.StatusCode}
	}

	return ParseSearch(response.Body, client.logger)
}

// FetchThings requests one batch of ids and parses the returned Things.
// Transient failures are retried according to the package retry policy.
func (client *Client) FetchThings(ctx context.Context, ids []string) ([]thing.Thing, error) {
	endpoint := client.endpoint("thing", url.Values{"id": {strings.Join(ids, ",")}})

	response, err := client.getWithRetry(ctx, endpoint)
	if err != nil {
		return nil, err
	}
	defer response.Body.Close()

	things, err := ParseThings(response.Body, client.logger)
	if err != nil {
		return nil, err
	}

	client.logger.Debug("bgg_things_fetched",
		slog.Int("requested", len(ids)),
		slog.Int("received", len(things)),
	)
	return things, nil
}

// # Request Plumbing

// getWithRetry runs the Requesting → (Success | RetryableFailure → sleep →
// Requesting | PermanentFailure | BackoffExhausted) loop for one endpoint.
func (client *Client) getWithRetry(ctx context.Context, endpoint string) (*http.Response, error) {
	pause := client.initialBackoff

	for attempt := 1; ; attempt++ {
		response, err := client.get(ctx, endpoint)
		if err != nil {
			return nil, err
		}

		status := response.StatusCode
		if successful(status) {
			return response, nil
		}

		client.logFailedBody(response, endpoint)
		response.Body.Close()

		if !retryable(status) {
			return nil, &StatusError{URL: endpoint, Status: status}
		}

		if pause > client.maxBackoff {
			client.logger.Warn("bgg_retry_exhausted",
				slog.String("url", endpoint),
				slog.Int("status", status),
				slog.Int("attempts", attempt),
				slog.Duration("next_wait", pause),
			)
			return nil, &RetryExhaustedError{LastStatus: status, Attempts: attempt}
		}

		client.logger.Debug("bgg_retry_scheduled",
			slog.String("url", endpoint),
			slog.Int("status", status),
			slog.Int("attempt", attempt),
			slog.Duration("wait", pause),
		)

		if err := client.sleep(ctx, pause); err != nil {
			return nil, &TransportError{URL: endpoint, Err: err}
		}
		pause = time.Duration(float64(pause) * client.jitter())
	}
}

// get issues a single GET with the client's credentials.
func (client *Client) get(ctx context.Context, endpoint string) (*http.Response, error) {
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, &TransportError{URL: endpoint, Err: err}
	}

	request.Header.Set("Accept", "application/xml")
	request.Header.Set("User-Agent", constants.AppName+"/"+constants.AppVersion)
	if client.token != "" {
		request.Header.Set("Authorization", "Bearer "+client.token)
	}

	response, err := client.httpClient.Do(request)
	if err != nil {
		return nil, &TransportError{URL: endpoint, Err: err}
	}
	return response, nil
}

func (client *Client) endpoint(path string, query url.Values) string {
	return client.baseURL + "/" + path + "?" + query.Encode()
}

// logFailedBody records the head of a non-success body at debug level.
func (client *Client) logFailedBody(response *http.Response, endpoint string) {
	if !client.logger.Enabled(context.Background(), slog.LevelDebug) {
		return
	}
	body, _ := io.ReadAll(io.LimitReader(response.Body, maxLoggedBody))
	client.logger.Debug("bgg_response_failed",
		slog.String("url", endpoint),
		slog.Int("status", response.StatusCode),
		slog.String("body", string(body)),
	)
}

// # Defaults

// defaultJitter returns a growth factor uniformly drawn from [1.5, 2.5).
func defaultJitter() float64 {
	return 1.5 + rand.Float64()
}

// sleepContext waits for the given duration or until ctx is done.
func sleepContext(ctx context.Context, wait time.Duration) error {
	timer := time.NewTimer(wait)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
