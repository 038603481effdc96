// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package bgg

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrMalformedResponse reports an upstream payload whose structure the parser
// does not recognise (missing container, unbalanced tags, broken XML).
var ErrMalformedResponse = errors.New("bgg: malformed upstream response")

// TransportError reports that the upstream API could not be reached at all.
// Transport failures are never retried.
type TransportError struct {
	URL string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("bgg: request to %s failed: %v", e.URL, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// StatusError reports a non-retryable upstream status (4xx other than 429,
// or any non-2xx on the search endpoint).
type StatusError struct {
	URL    string
	Status int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("bgg: upstream answered %d %s", e.Status, http.StatusText(e.Status))
}

// RetryExhaustedError reports that transient failures persisted until the
// next backoff would have exceeded the configured ceiling.
type RetryExhaustedError struct {
	LastStatus int
	Attempts   int
}

func (e *RetryExhaustedError) Error() string {
	return fmt.Sprintf("bgg: giving up after %d attempts, last status %d", e.Attempts, e.LastStatus)
}

// FieldParseError reports a numeric field whose value could not be parsed.
// It aborts the whole batch the field belongs to.
type FieldParseError struct {
	ThingID string
	Field   string
	Value   string
	Err     error
}

func (e *FieldParseError) Error() string {
	return fmt.Sprintf("bgg: thing %s: field %s: cannot parse %q: %v", e.ThingID, e.Field, e.Value, e.Err)
}

func (e *FieldParseError) Unwrap() error { return e.Err }

// malformed wraps a decoder failure so callers can match [ErrMalformedResponse].
func malformed(reason string, err error) error {
	if err == nil {
		return fmt.Errorf("%w: %s", ErrMalformedResponse, reason)
	}
	return fmt.Errorf("%w: %s: %v", ErrMalformedResponse, reason, err)
}

// retryable classifies the statuses the fetcher backs off on.
func retryable(status int) bool {
	return status == http.StatusTooManyRequests || status >= http.StatusInternalServerError
}

func successful(status int) bool {
	return status >= 200 && status < 300
}
