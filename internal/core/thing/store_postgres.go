// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package thing

import (
	"cmp"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/meeple/internal/platform/database/schema"
	"github.com/taibuivan/meeple/internal/platform/dberr"
)

// # PostgreSQL Repository

// PostgresRepository implements [Repository] on top of pgx.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository constructs a PostgreSQL backed thing store.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// storedLink is one element of the aggregated links column.
type storedLink struct {
	Kind  LinkKind `json:"kind"`
	BggID string   `json:"bgg_id"`
	Name  string   `json:"name"`
}

/*
FindByBggIDs hydrates every stored Thing whose upstream id is in ids.

Alternate names and links are aggregated in sub-queries so each Thing costs a
single row. Ids with no stored Thing are simply absent from the result.
*/
func (repository *PostgresRepository) FindByBggIDs(context context.Context, ids []string) ([]Thing, error) {
	if len(ids) == 0 {
		return []Thing{}, nil
	}

	query := fmt.Sprintf(`
		SELECT
			t.%s, t.%s, t.%s, t.%s, t.%s, t.%s,
			t.%s, t.%s, t.%s, t.%s, t.%s, t.%s,
			COALESCE((
				SELECT array_agg(a.%s ORDER BY a.%s)
				FROM %s a
				WHERE a.%s = t.%s
			), '{}'::text[]) AS altnames,
			COALESCE((
				SELECT json_agg(json_build_object('kind', l.%s, 'bgg_id', l.%s, 'name', l.%s) ORDER BY l.%s)
				FROM %s tl
				JOIN %s l ON l.%s = tl.%s
				WHERE tl.%s = t.%s
			), '[]') AS links
		FROM %s t
		WHERE t.%s = ANY($1)
	`,
		schema.Thing.BggID, schema.Thing.Kind, schema.Thing.Name, schema.Thing.Description, schema.Thing.Thumbnail, schema.Thing.Image,
		schema.Thing.YearPublished, schema.Thing.MinPlayers, schema.Thing.MaxPlayers, schema.Thing.MinDuration, schema.Thing.MaxDuration, schema.Thing.Duration,
		schema.AltName.Name, schema.AltName.Ordinal,
		schema.AltName.Table,
		schema.AltName.ThingID, schema.Thing.ID,
		schema.Link.Kind, schema.Link.BggID, schema.Link.Name, schema.Link.ID,
		schema.ThingLink.Table,
		schema.Link.Table, schema.Link.ID, schema.ThingLink.LinkID,
		schema.ThingLink.ThingID, schema.Thing.ID,
		schema.Thing.Table,
		schema.Thing.BggID,
	)

	rows, err := repository.pool.Query(context, query, ids)
	if err != nil {
		return nil, dberr.Wrap(err, "find_things_by_bggid")
	}
	defer rows.Close()

	things := make([]Thing, 0, len(ids))
	for rows.Next() {
		var (
			found     Thing
			linksJSON []byte
		)

		if err := rows.Scan(
			&found.BggID, &found.Kind, &found.Name, &found.Description, &found.Thumbnail, &found.Image,
			&found.YearPublished, &found.MinPlayers, &found.MaxPlayers, &found.MinDuration, &found.MaxDuration, &found.Duration,
			&found.AltNames,
			&linksJSON,
		); err != nil {
			return nil, dberr.Wrap(err, "scan_thing")
		}

		var links []storedLink
		if err := json.Unmarshal(linksJSON, &links); err != nil {
			return nil, fmt.Errorf("postgres: failed to unmarshal links of thing %s: %w", found.BggID, err)
		}
		for _, link := range links {
			found.AddLink(link.Kind, Link{BggID: link.BggID, Name: link.Name})
		}

		things = append(things, found)
	}

	if err := rows.Err(); err != nil {
		return nil, dberr.Wrap(err, "iterate_things")
	}
	return things, nil
}

/*
Store persists a freshly parsed Thing in a single transaction.

Steps:
 1. Insert the Thing row unless its upstream id is already present. If it is,
    stored is false and nothing else is written.
 2. Insert alternate names, keeping document order, ignoring duplicates.
 3. Insert links that do not exist yet, keyed by (kind, upstream id).
 4. Associate the Thing with every one of its links, whether the link row was
    created just now or by an earlier Thing.

Either every row commits or none does.
*/
func (repository *PostgresRepository) Store(context context.Context, thing *Thing) (int64, bool, error) {
	transaction, err := repository.pool.Begin(context)
	if err != nil {
		return 0, false, &PersistenceError{BggID: thing.BggID, Stage: "begin", Err: err}
	}
	defer transaction.Rollback(context)

	id, err := repository.insertThing(context, transaction, thing)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, &PersistenceError{BggID: thing.BggID, Stage: "insert_thing", Err: dberr.Wrap(err, "insert_thing")}
	}

	if err := repository.insertAltNames(context, transaction, id, thing.AltNames); err != nil {
		return 0, false, &PersistenceError{BggID: thing.BggID, Stage: "insert_altnames", Err: dberr.Wrap(err, "insert_altnames")}
	}

	if err := repository.insertLinks(context, transaction, id, thing); err != nil {
		return 0, false, &PersistenceError{BggID: thing.BggID, Stage: "insert_links", Err: dberr.Wrap(err, "insert_links")}
	}

	if err := transaction.Commit(context); err != nil {
		return 0, false, &PersistenceError{BggID: thing.BggID, Stage: "commit", Err: err}
	}
	return id, true, nil
}

// insertThing returns [pgx.ErrNoRows] when the upstream id is already stored.
func (repository *PostgresRepository) insertThing(context context.Context, transaction pgx.Tx, thing *Thing) (int64, error) {
	columns := schema.Thing.DataColumns()
	placeholders := make([]string, len(columns))
	for i := range columns {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (%s)
		VALUES (%s)
		ON CONFLICT (%s) DO NOTHING
		RETURNING %s
	`,
		schema.Thing.Table, strings.Join(columns, ", "),
		strings.Join(placeholders, ", "),
		schema.Thing.BggID,
		schema.Thing.ID,
	)

	var id int64
	err := transaction.QueryRow(context, query,
		thing.BggID, thing.Kind, thing.Name, thing.Description, thing.Thumbnail, thing.Image,
		thing.YearPublished, thing.MinPlayers, thing.MaxPlayers, thing.MinDuration, thing.MaxDuration, thing.Duration,
	).Scan(&id)
	return id, err
}

func (repository *PostgresRepository) insertAltNames(context context.Context, transaction pgx.Tx, thingID int64, names []string) error {
	if len(names) == 0 {
		return nil
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s)
		SELECT $1, a.name, a.ordinal
		FROM unnest($2::text[]) WITH ORDINALITY AS a(name, ordinal)
		ON CONFLICT (%s, %s) DO NOTHING
	`,
		schema.AltName.Table, schema.AltName.ThingID, schema.AltName.Name, schema.AltName.Ordinal,
		schema.AltName.ThingID, schema.AltName.Name,
	)

	_, err := transaction.Exec(context, query, thingID, names)
	return err
}

// insertLinks writes missing link rows, then associates the Thing with every
// link it references by joining back on the natural key.
func (repository *PostgresRepository) insertLinks(context context.Context, transaction pgx.Tx, thingID int64, thing *Thing) error {
	kinds, bggIDs, names := linkRows(thing)
	if len(kinds) == 0 {
		return nil
	}

	linkQuery := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s)
		SELECT * FROM unnest($1::text[], $2::text[], $3::text[])
		ON CONFLICT (%s, %s) DO NOTHING
	`,
		schema.Link.Table, schema.Link.Kind, schema.Link.BggID, schema.Link.Name,
		schema.Link.Kind, schema.Link.BggID,
	)
	if _, err := transaction.Exec(context, linkQuery, kinds, bggIDs, names); err != nil {
		return err
	}

	associationQuery := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s)
		SELECT $1, l.%s, l.%s
		FROM %s l
		JOIN unnest($2::text[], $3::text[]) AS wanted(kind, bggid)
		  ON l.%s = wanted.kind AND l.%s = wanted.bggid
		ON CONFLICT DO NOTHING
	`,
		schema.ThingLink.Table, schema.ThingLink.ThingID, schema.ThingLink.Kind, schema.ThingLink.LinkID,
		schema.Link.Kind, schema.Link.ID,
		schema.Link.Table,
		schema.Link.Kind, schema.Link.BggID,
	)
	_, err := transaction.Exec(context, associationQuery, thingID, kinds, bggIDs)
	return err
}

// linkRows flattens the links of t into parallel columns sorted by
// (kind, bggid). Concurrent transactions then take row locks on shared links
// in the same order.
func linkRows(t *Thing) (kinds, bggIDs, names []string) {
	type row struct{ kind, bggID, name string }

	var rows []row
	for _, kind := range LinkKinds {
		for _, link := range t.Links(kind) {
			rows = append(rows, row{string(kind), link.BggID, link.Name})
		}
	}

	slices.SortStableFunc(rows, func(a, b row) int {
		return cmp.Or(cmp.Compare(a.kind, b.kind), cmp.Compare(a.bggID, b.bggID))
	})

	for _, r := range rows {
		kinds = append(kinds, r.kind)
		bggIDs = append(bggIDs, r.bggID)
		names = append(names, r.name)
	}
	return kinds, bggIDs, names
}
