// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package api_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/meeple/internal/api"
)

var discardLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

type readinessBody struct {
	Data struct {
		Status string `json:"status"`
		Checks []struct {
			Name string `json:"name"`
			OK   bool   `json:"ok"`
		} `json:"checks"`
	} `json:"data"`
}

func healthy(context.Context) error { return nil }

/*
TestReadiness reports ready, degraded, and skips unconfigured dependencies.
*/
func TestReadiness(t *testing.T) {
	tests := []struct {
		name       string
		deps       api.HealthDependencies
		wantCode   int
		wantStatus string
		wantChecks int
	}{
		{"all_healthy", api.HealthDependencies{CheckDatabase: healthy, CheckCache: healthy}, http.StatusOK, "ready", 2},
		{"cache_disabled", api.HealthDependencies{CheckDatabase: healthy}, http.StatusOK, "ready", 1},
		{"database_down", api.HealthDependencies{
			CheckDatabase: func(context.Context) error { return errors.New("connection refused") },
			CheckCache:    healthy,
		}, http.StatusServiceUnavailable, "degraded", 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, readiness := api.NewHealthHandlers(tt.deps, discardLogger)

			recorder := httptest.NewRecorder()
			readiness(recorder, httptest.NewRequest(http.MethodGet, "/ready", nil))
			require.Equal(t, tt.wantCode, recorder.Code)

			var body readinessBody
			require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
			assert.Equal(t, tt.wantStatus, body.Data.Status)
			assert.Len(t, body.Data.Checks, tt.wantChecks)
		})
	}
}

/*
TestLiveness always answers 200.
*/
func TestLiveness(t *testing.T) {
	liveness, _ := api.NewHealthHandlers(api.HealthDependencies{}, discardLogger)

	recorder := httptest.NewRecorder()
	liveness(recorder, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, recorder.Code)
}
