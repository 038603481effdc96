package thing_test

import (
	"context"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/meeple/internal/core/thing"
)

/*
TestResolver_AllStored returns every Thing from the store and nothing to fetch.
*/
func TestResolver_AllStored(t *testing.T) {
	repository := newMemoryRepository(gameFixture("1"), gameFixture("2"))
	resolver := thing.NewResolver(repository, discardLogger)

	known, needed, err := resolver.Resolve(context.Background(), []string{"1", "2"})
	require.NoError(t, err)

	assert.Equal(t, []string{"1", "2"}, bggIDs(known))
	assert.Empty(t, needed)
}

/*
TestResolver_NeededKeepsOrderAndDuplicates checks the unresolved ids come back
as requested, duplicates included.
*/
func TestResolver_NeededKeepsOrderAndDuplicates(t *testing.T) {
	repository := newMemoryRepository(gameFixture("2"))
	resolver := thing.NewResolver(repository, discardLogger)

	known, needed, err := resolver.Resolve(context.Background(), []string{"3", "2", "1", "3", "2"})
	require.NoError(t, err)

	assert.Equal(t, []string{"2"}, bggIDs(known))
	assert.Equal(t, []string{"3", "1", "3"}, needed)
}

/*
TestResolver_ChunksLookups keeps every store query at or below the lookup cap.
*/
func TestResolver_ChunksLookups(t *testing.T) {
	ids := make([]string, 2500)
	for i := range ids {
		ids[i] = strconv.Itoa(i + 1)
	}

	repository := newMemoryRepository(gameFixture("1"), gameFixture("2500"))
	resolver := thing.NewResolver(repository, discardLogger)

	known, needed, err := resolver.Resolve(context.Background(), ids)
	require.NoError(t, err)

	require.Len(t, repository.lookups, 3)
	assert.Len(t, repository.lookups[0], 1000)
	assert.Len(t, repository.lookups[1], 1000)
	assert.Len(t, repository.lookups[2], 500)

	assert.Equal(t, []string{"1", "2500"}, bggIDs(known))
	assert.Len(t, needed, 2498)
}

/*
TestResolver_Empty performs no lookups for an empty request.
*/
func TestResolver_Empty(t *testing.T) {
	repository := newMemoryRepository()
	resolver := thing.NewResolver(repository, discardLogger)

	known, needed, err := resolver.Resolve(context.Background(), nil)
	require.NoError(t, err)

	assert.Empty(t, known)
	assert.Empty(t, needed)
	assert.Empty(t, repository.lookups)
}
