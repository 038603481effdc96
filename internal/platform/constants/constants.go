// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package constants provides centralized, immutable values for the entire platform.

It defines default timeouts, rate limits, pipeline sizing and cross-cutting keys
that are shared between different layers of the system.

Categories:

  - Server Timing: Read/Write/Idle timeouts for the HTTP server.
  - Rate Limiting: Burst capacities and IP tracking TTLs.
  - Ingestion: Upstream batch sizing, backoff bounds and store query caps.
*/
package constants

import "time"

// # Metadata

const (
	AppName    = "meeple-api"
	AppVersion = "0.1.0-dev"
)

// # Server Timing

const (
	// DefaultReadTimeout is the maximum duration for reading the entire request.
	DefaultReadTimeout = 5 * time.Second

	// DefaultWriteTimeout is the maximum duration before timing out writes of the response.
	// A search may wait out a full upstream backoff cycle, so this is generous.
	DefaultWriteTimeout = 90 * time.Second

	// DefaultIdleTimeout is the maximum amount of time to wait for the next request.
	DefaultIdleTimeout = 120 * time.Second

	// DefaultReadHeaderTimeout is the amount of time allowed to read request headers.
	DefaultReadHeaderTimeout = 2 * time.Second

	// GlobalRequestTimeout is the deadline for the entire request lifecycle.
	GlobalRequestTimeout = 75 * time.Second

	// StatementTimeout caps any single SQL statement.
	StatementTimeout = 30 * time.Second

	// ShutdownTimeout is how long we wait for in-flight requests to complete during shutdown.
	ShutdownTimeout = 30 * time.Second
)

// # Rate Limiting

const (
	// DefaultRateLimitRPS is the requests per second allowed per IP.
	DefaultRateLimitRPS = 50.0

	// DefaultRateLimitBurst is the maximum burst allowed for the rate limiter.
	DefaultRateLimitBurst = 60

	// RateLimitCleanupInterval is how often old IP entries are removed from memory.
	RateLimitCleanupInterval = 1 * time.Minute

	// RateLimitClientTTL is how long a client must be idle before its entry is deleted.
	RateLimitClientTTL = 3 * time.Minute
)

// # Ingestion Pipeline

const (
	// ThingBatchSize is the number of ids sent in one upstream thing request.
	ThingBatchSize = 20

	// MaxLookupIDs is the store-side cap on ids per point-lookup query.
	MaxLookupIDs = 1000

	// InitialBackoff is the first wait after a transient upstream failure.
	InitialBackoff = 500 * time.Millisecond

	// MaxBackoff is the largest wait the fetcher is willing to sleep before giving up.
	MaxBackoff = 30 * time.Second

	// PersistTimeout bounds the transaction storing one Thing.
	PersistTimeout = 10 * time.Second

	// MaxQueryLength bounds the free-text search query.
	MaxQueryLength = 200

	// MaxDetailIDs bounds the ids accepted by a single multi-id detail request.
	MaxDetailIDs = 100
)

// # HTTP Headers

const (
	HeaderXRequestID    = "X-Request-ID"
	HeaderXRealIP       = "X-Real-IP"
	HeaderXForwardedFor = "X-Forwarded-For"
)

// # JSON Field Identifiers

const (
	FieldStatus = "status"
	FieldChecks = "checks"
)

// # Redis Prefixes (Cache Taxonomy)

const (
	RedisPrefixSearch = "meeple:search:"
)
