package thing_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/meeple/internal/core/thing"
)

func newTestRouter(upstream *fakeUpstream, repository *memoryRepository) http.Handler {
	service := thing.NewService(upstream, repository, nil, 4, discardLogger)
	return thing.NewHandler(service).Routes()
}

func serve(t *testing.T, handler http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, target, nil))
	return recorder
}

/*
TestHandler_Search returns candidates and Things in the data envelope.
*/
func TestHandler_Search(t *testing.T) {
	upstream := &fakeUpstream{searchItems: []thing.SearchItem{{ID: "13", Kind: "boardgame"}}}
	router := newTestRouter(upstream, newMemoryRepository())

	recorder := serve(t, router, "/search?query=catan")
	require.Equal(t, http.StatusOK, recorder.Code)

	var body struct {
		Data thing.SearchResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	assert.Equal(t, upstream.searchItems, body.Data.Items)
	require.Len(t, body.Data.Things, 1)
	assert.Equal(t, "Game 13", *body.Data.Things[0].Name)
}

/*
TestHandler_Search_MissingQuery answers 400 with field details.
*/
func TestHandler_Search_MissingQuery(t *testing.T) {
	router := newTestRouter(&fakeUpstream{}, newMemoryRepository())

	recorder := serve(t, router, "/search")
	require.Equal(t, http.StatusBadRequest, recorder.Code)

	var body struct {
		Code    string `json:"code"`
		Details []struct {
			Field string `json:"field"`
		} `json:"details"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	assert.Equal(t, "VALIDATION_ERROR", body.Code)
	require.NotEmpty(t, body.Details)
	assert.Equal(t, "query", body.Details[0].Field)
}

/*
TestHandler_GetThing covers the found and not-found paths.
*/
func TestHandler_GetThing(t *testing.T) {
	upstream := &fakeUpstream{failing: map[string]bool{"404": true}}
	router := newTestRouter(upstream, newMemoryRepository(gameFixture("13")))

	found := serve(t, router, "/things/13")
	require.Equal(t, http.StatusOK, found.Code)

	var body struct {
		Data thing.Thing `json:"data"`
	}
	require.NoError(t, json.Unmarshal(found.Body.Bytes(), &body))
	assert.Equal(t, "13", body.Data.BggID)
	assert.Equal(t, []thing.Link{{BggID: "1021", Name: "Economic"}}, body.Data.Categories)

	missing := serve(t, router, "/things/404")
	assert.Equal(t, http.StatusNotFound, missing.Code)
	assert.Contains(t, missing.Body.String(), `"NOT_FOUND"`)
}

/*
TestHandler_ListThings accepts comma-separated and repeated id parameters.
*/
func TestHandler_ListThings(t *testing.T) {
	router := newTestRouter(&fakeUpstream{}, newMemoryRepository(gameFixture("1")))

	recorder := serve(t, router, "/things?id=1,2&id=3")
	require.Equal(t, http.StatusOK, recorder.Code)

	var body struct {
		Data []thing.Thing `json:"data"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	assert.Equal(t, []string{"1", "2", "3"}, bggIDs(body.Data))
}
