// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package thing_test

import (
	"context"
	"fmt"
	"os"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/meeple/internal/core/thing"
	"github.com/taibuivan/meeple/internal/platform/database/schema"
	"github.com/taibuivan/meeple/internal/platform/migration"
	"github.com/taibuivan/meeple/internal/platform/postgres"
	"github.com/taibuivan/meeple/pkg/pointer"
)

// newTestPool connects to MEEPLE_TEST_DATABASE_URL and applies migrations,
// or skips the test when no database is configured.
func newTestPool(t *testing.T) *pgxpool.Pool {
	t.Helper()

	dsn := os.Getenv("MEEPLE_TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("MEEPLE_TEST_DATABASE_URL not set")
	}

	require.NoError(t, migration.RunUp(dsn, "../../../data/migrations", discardLogger))

	pool, err := postgres.NewPool(context.Background(), dsn, 4, discardLogger)
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	return pool
}

// uniqueID returns an upstream id that no other test run can collide with.
func uniqueID(label string) string {
	return label + "-" + uuid.NewString()
}

func countRows(t *testing.T, pool *pgxpool.Pool, table, column string, value any) int {
	t.Helper()
	var count int
	query := fmt.Sprintf(`SELECT COUNT(*) FROM %s WHERE %s = $1`, table, column)
	require.NoError(t, pool.QueryRow(context.Background(), query, value).Scan(&count))
	return count
}

/*
TestPostgresRepository_StoreAndFind stores a full Thing and reads it back.
*/
func TestPostgresRepository_StoreAndFind(t *testing.T) {
	pool := newTestPool(t)
	repository := thing.NewPostgresRepository(pool)
	ctx := context.Background()

	designer := thing.Link{BggID: uniqueID("designer"), Name: "Klaus Teuber"}
	parsed := thing.Thing{
		BggID:         uniqueID("thing"),
		Kind:          "boardgame",
		Name:          pointer.To("CATAN"),
		AltNames:      []string{"Die Siedler von Catan", "Settlers of Catan"},
		Description:   pointer.To("Trade, build and settle."),
		YearPublished: pointer.To(1995),
		MinPlayers:    pointer.To(3),
		MaxPlayers:    pointer.To(4),
		Designers:     []thing.Link{designer},
		Categories:    []thing.Link{{BggID: uniqueID("category"), Name: "Economic"}},
	}

	id, stored, err := repository.Store(ctx, &parsed)
	require.NoError(t, err)
	assert.True(t, stored)
	assert.Positive(t, id)

	found, err := repository.FindByBggIDs(ctx, []string{parsed.BggID, uniqueID("absent")})
	require.NoError(t, err)
	require.Len(t, found, 1)

	got := found[0]
	assert.Equal(t, parsed.BggID, got.BggID)
	assert.Equal(t, "CATAN", pointer.Val(got.Name))
	assert.Equal(t, parsed.AltNames, got.AltNames)
	assert.Equal(t, 1995, pointer.Val(got.YearPublished))
	assert.Nil(t, got.Duration)
	assert.Equal(t, []thing.Link{designer}, got.Designers)
	assert.Equal(t, parsed.Categories, got.Categories)
	assert.Empty(t, got.Families)
}

/*
TestPostgresRepository_StoreIdempotent stores the same Thing twice and keeps
exactly one row and one association per link.
*/
func TestPostgresRepository_StoreIdempotent(t *testing.T) {
	pool := newTestPool(t)
	repository := thing.NewPostgresRepository(pool)
	ctx := context.Background()

	parsed := thing.Thing{
		BggID:      uniqueID("thing"),
		Kind:       "boardgame",
		Categories: []thing.Link{{BggID: uniqueID("category"), Name: "Economic"}},
	}

	firstID, stored, err := repository.Store(ctx, &parsed)
	require.NoError(t, err)
	require.True(t, stored)

	_, stored, err = repository.Store(ctx, &parsed)
	require.NoError(t, err)
	assert.False(t, stored)

	assert.Equal(t, 1, countRows(t, pool, schema.Thing.Table, schema.Thing.BggID, parsed.BggID))
	assert.Equal(t, 1, countRows(t, pool, schema.ThingLink.Table, schema.ThingLink.ThingID, firstID))
}

/*
TestPostgresRepository_ExistingThingShortCircuits writes nothing for a Thing
whose upstream id is already stored, even if the new copy carries more links.
*/
func TestPostgresRepository_ExistingThingShortCircuits(t *testing.T) {
	pool := newTestPool(t)
	repository := thing.NewPostgresRepository(pool)
	ctx := context.Background()

	bggID := uniqueID("thing")
	firstID, _, err := repository.Store(ctx, &thing.Thing{BggID: bggID, Kind: "boardgame"})
	require.NoError(t, err)

	extra := thing.Link{BggID: uniqueID("publisher"), Name: "KOSMOS"}
	_, stored, err := repository.Store(ctx, &thing.Thing{
		BggID:      bggID,
		Kind:       "boardgame",
		AltNames:   []string{"Other"},
		Publishers: []thing.Link{extra},
	})
	require.NoError(t, err)
	assert.False(t, stored)

	assert.Zero(t, countRows(t, pool, schema.ThingLink.Table, schema.ThingLink.ThingID, firstID))
	assert.Zero(t, countRows(t, pool, schema.AltName.Table, schema.AltName.ThingID, firstID))
	assert.Zero(t, countRows(t, pool, schema.Link.Table, schema.Link.BggID, extra.BggID))
}

/*
TestPostgresRepository_AssociatesExistingLinks links a new Thing to a link row
created earlier by another Thing.
*/
func TestPostgresRepository_AssociatesExistingLinks(t *testing.T) {
	pool := newTestPool(t)
	repository := thing.NewPostgresRepository(pool)
	ctx := context.Background()

	shared := thing.Link{BggID: uniqueID("family"), Name: "Catan"}

	_, _, err := repository.Store(ctx, &thing.Thing{BggID: uniqueID("base"), Kind: "boardgame", Families: []thing.Link{shared}})
	require.NoError(t, err)

	secondBggID := uniqueID("expansion")
	secondID, stored, err := repository.Store(ctx, &thing.Thing{BggID: secondBggID, Kind: "boardgameexpansion", Families: []thing.Link{shared}})
	require.NoError(t, err)
	require.True(t, stored)

	assert.Equal(t, 1, countRows(t, pool, schema.Link.Table, schema.Link.BggID, shared.BggID))
	assert.Equal(t, 1, countRows(t, pool, schema.ThingLink.Table, schema.ThingLink.ThingID, secondID))

	found, err := repository.FindByBggIDs(ctx, []string{secondBggID})
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, []thing.Link{shared}, found[0].Families)
}

/*
TestLinkRows_SortedByNaturalKey orders link rows by kind, then upstream id,
whatever order the document listed them in.
*/
func TestLinkRows_SortedByNaturalKey(t *testing.T) {
	parsed := &thing.Thing{
		Publishers: []thing.Link{{BggID: "9", Name: "KOSMOS"}, {BggID: "10", Name: "Mayfair"}},
		Categories: []thing.Link{{BggID: "1021", Name: "Economic"}, {BggID: "1008", Name: "Negotiation"}},
		Designers:  []thing.Link{{BggID: "11", Name: "Klaus Teuber"}},
	}

	kinds, bggIDs, names := thing.LinkRows(parsed)

	assert.Equal(t, []string{
		"boardgamecategory", "boardgamecategory", "boardgamedesigner", "boardgamepublisher", "boardgamepublisher",
	}, kinds)
	assert.Equal(t, []string{"1008", "1021", "11", "10", "9"}, bggIDs)
	assert.Equal(t, []string{"Negotiation", "Economic", "Klaus Teuber", "Mayfair", "KOSMOS"}, names)
}

/*
TestPostgresRepository_ConcurrentSharedLinks stores Things that list the same
links in opposite orders at the same time; every Thing must be stored.
*/
func TestPostgresRepository_ConcurrentSharedLinks(t *testing.T) {
	pool := newTestPool(t)
	repository := thing.NewPostgresRepository(pool)
	ctx := context.Background()

	shared := make([]thing.Link, 10)
	for i := range shared {
		shared[i] = thing.Link{BggID: uniqueID("family"), Name: fmt.Sprintf("Family %d", i)}
	}
	reversed := make([]thing.Link, len(shared))
	for i, link := range shared {
		reversed[len(shared)-1-i] = link
	}

	const workers = 8
	var (
		wg   sync.WaitGroup
		errs = make([]error, workers)
	)
	for i := range workers {
		families := shared
		if i%2 == 1 {
			families = reversed
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _, errs[i] = repository.Store(ctx, &thing.Thing{BggID: uniqueID("thing"), Kind: "boardgame", Families: families})
		}()
	}
	wg.Wait()

	for _, err := range errs {
		require.NoError(t, err)
	}
	for _, link := range shared {
		assert.Equal(t, 1, countRows(t, pool, schema.Link.Table, schema.Link.BggID, link.BggID))
	}
}
