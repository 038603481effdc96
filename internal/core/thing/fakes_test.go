package thing_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/taibuivan/meeple/internal/core/thing"
	"github.com/taibuivan/meeple/pkg/pointer"
)

var discardLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

var errUpstreamDown = errors.New("upstream down")

// # Repository Fake

type memoryRepository struct {
	mu       sync.Mutex
	things   map[string]thing.Thing
	lookups  [][]string
	storeErr error
	nextID   int64
}

func newMemoryRepository(stored ...thing.Thing) *memoryRepository {
	repository := &memoryRepository{things: make(map[string]thing.Thing)}
	for _, t := range stored {
		repository.things[t.BggID] = t
	}
	return repository
}

func (repository *memoryRepository) FindByBggIDs(_ context.Context, ids []string) ([]thing.Thing, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	repository.lookups = append(repository.lookups, slices.Clone(ids))

	found := make([]thing.Thing, 0)
	for _, id := range ids {
		if t, ok := repository.things[id]; ok {
			found = append(found, t)
		}
	}
	return found, nil
}

func (repository *memoryRepository) Store(_ context.Context, parsed *thing.Thing) (int64, bool, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	if repository.storeErr != nil {
		return 0, false, repository.storeErr
	}
	if _, exists := repository.things[parsed.BggID]; exists {
		return 0, false, nil
	}
	repository.nextID++
	repository.things[parsed.BggID] = *parsed
	return repository.nextID, true, nil
}

func (repository *memoryRepository) has(id string) bool {
	repository.mu.Lock()
	defer repository.mu.Unlock()
	_, ok := repository.things[id]
	return ok
}

// # Upstream Fake

type fakeUpstream struct {
	mu sync.Mutex

	searchItems []thing.SearchItem
	searchErr   error
	searchCalls int

	fetchCalls [][]string
	failing    map[string]bool
	delay      time.Duration

	inFlight    int
	maxInFlight int
}

func (upstream *fakeUpstream) Search(_ context.Context, _ string) ([]thing.SearchItem, error) {
	upstream.mu.Lock()
	defer upstream.mu.Unlock()

	upstream.searchCalls++
	if upstream.searchErr != nil {
		return nil, upstream.searchErr
	}
	return slices.Clone(upstream.searchItems), nil
}

func (upstream *fakeUpstream) FetchThings(ctx context.Context, ids []string) ([]thing.Thing, error) {
	upstream.mu.Lock()
	upstream.fetchCalls = append(upstream.fetchCalls, slices.Clone(ids))
	upstream.inFlight++
	upstream.maxInFlight = max(upstream.maxInFlight, upstream.inFlight)
	upstream.mu.Unlock()

	defer func() {
		upstream.mu.Lock()
		upstream.inFlight--
		upstream.mu.Unlock()
	}()

	if upstream.delay > 0 {
		select {
		case <-time.After(upstream.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	things := make([]thing.Thing, 0, len(ids))
	for _, id := range ids {
		if upstream.failing[id] {
			return nil, errUpstreamDown
		}
		things = append(things, gameFixture(id))
	}
	return things, nil
}

func (upstream *fakeUpstream) calls() [][]string {
	upstream.mu.Lock()
	defer upstream.mu.Unlock()
	return slices.Clone(upstream.fetchCalls)
}

// # Fixtures

func gameFixture(id string) thing.Thing {
	return thing.Thing{
		BggID: id,
		Kind:  "boardgame",
		Name:  pointer.To("Game " + id),
		Categories: []thing.Link{
			{BggID: "1021", Name: "Economic"},
		},
	}
}

func bggIDs(things []thing.Thing) []string {
	ids := make([]string, len(things))
	for i, t := range things {
		ids[i] = t.BggID
	}
	slices.Sort(ids)
	return ids
}
