package thing

import (
	"context"
	"log/slog"

	"github.com/taibuivan/meeple/internal/platform/constants"
	"github.com/taibuivan/meeple/pkg/slice"
)

// Resolver splits requested ids into Things already stored and ids that
// still have to be fetched upstream.
type Resolver struct {
	repository Repository
	logger     *slog.Logger
}

func NewResolver(repository Repository, logger *slog.Logger) *Resolver {
	return &Resolver{repository: repository, logger: logger}
}

// Resolve looks ids up in chunks no larger than the store's lookup cap.
//
// needed holds every input id with no stored Thing, in input order and with
// duplicates preserved. known holds each stored Thing once.
func (resolver *Resolver) Resolve(ctx context.Context, ids []string) (known []Thing, needed []string, err error) {
	known = make([]Thing, 0, len(ids))
	stored := make(map[string]struct{}, len(ids))

	for _, chunk := range slice.Chunk(ids, constants.MaxLookupIDs) {
		things, err := resolver.repository.FindByBggIDs(ctx, chunk)
		if err != nil {
			return nil, nil, err
		}
		for _, found := range things {
			if _, seen := stored[found.BggID]; seen {
				continue
			}
			stored[found.BggID] = struct{}{}
			known = append(known, found)
		}
	}

	needed = make([]string, 0)
	for _, id := range ids {
		if _, ok := stored[id]; !ok {
			needed = append(needed, id)
		}
	}

	resolver.logger.Debug("things_resolved",
		slog.Int("requested", len(ids)),
		slog.Int("known", len(known)),
		slog.Int("needed", len(needed)),
	)
	return known, needed, nil
}
