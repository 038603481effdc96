// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package thing implements the read-through cache in front of the upstream
board-game metadata API.

It answers free-text searches and id lookups from the local store whenever it
can, and otherwise fetches, parses and persists the missing records before
answering.

Pipeline:

  - Resolver: partitions requested ids into stored Things and ids still needed.
  - Scheduler: fetches needed ids upstream in fixed-size chunks under a per-call gate.
  - Repository: stores each freshly parsed Thing with its links in one transaction.
  - Service: orchestrates search and detail lookups over the stages above.
*/
package thing

// # Link Kinds

// LinkKind identifies one of the related-entity families a Thing links to.
// Values match the upstream `link` element `type` attribute.
type LinkKind string

const (
	KindCategory  LinkKind = "boardgamecategory"
	KindFamily    LinkKind = "boardgamefamily"
	KindDesigner  LinkKind = "boardgamedesigner"
	KindPublisher LinkKind = "boardgamepublisher"
)

// LinkKinds lists every recognised kind in storage order.
var LinkKinds = []LinkKind{KindCategory, KindFamily, KindDesigner, KindPublisher}

// ParseLinkKind maps an upstream link type onto a recognised [LinkKind].
// The second result is false for the many link types this store does not model.
func ParseLinkKind(value string) (LinkKind, bool) {
	switch kind := LinkKind(value); kind {
	case KindCategory, KindFamily, KindDesigner, KindPublisher:
		return kind, true
	}
	return "", false
}

// # Entities

// Link is a lightweight named entity (category, family, designer, publisher).
type Link struct {
	BggID string `json:"bgg_id"`
	Name  string `json:"name"`
}

// Thing is a board-game-like entity sourced from the upstream API.
//
// A Thing is never updated once stored; the first successful fetch is authoritative.
type Thing struct {
	BggID         string   `json:"bgg_id"`
	Kind          string   `json:"kind"`
	Name          *string  `json:"name"`
	AltNames      []string `json:"altnames"`
	Description   *string  `json:"description"`
	Thumbnail     *string  `json:"thumbnail"`
	Image         *string  `json:"image"`
	YearPublished *int     `json:"year_published"`
	MinPlayers    *int     `json:"min_players"`
	MaxPlayers    *int     `json:"max_players"`
	MinDuration   *int     `json:"min_duration"`
	MaxDuration   *int     `json:"max_duration"`
	Duration      *int     `json:"duration"`

	Categories []Link `json:"categories"`
	Families   []Link `json:"families"`
	Designers  []Link `json:"designers"`
	Publishers []Link `json:"publishers"`
}

// AddLink appends link to the list for kind.
func (t *Thing) AddLink(kind LinkKind, link Link) {
	switch kind {
	case KindCategory:
		t.Categories = append(t.Categories, link)
	case KindFamily:
		t.Families = append(t.Families, link)
	case KindDesigner:
		t.Designers = append(t.Designers, link)
	case KindPublisher:
		t.Publishers = append(t.Publishers, link)
	}
}

// Links returns the list for kind.
func (t *Thing) Links(kind LinkKind) []Link {
	switch kind {
	case KindCategory:
		return t.Categories
	case KindFamily:
		return t.Families
	case KindDesigner:
		return t.Designers
	case KindPublisher:
		return t.Publishers
	}
	return nil
}

// SearchItem is one candidate returned by the upstream search endpoint.
type SearchItem struct {
	ID   string `json:"id"`
	Kind string `json:"kind"`
}

// SearchResult is the answer to a free-text search: the upstream candidates,
// unchanged, and every Thing that could be resolved for them.
type SearchResult struct {
	Items  []SearchItem `json:"items"`
	Things []Thing      `json:"things"`
}
