package thing

import (
	"context"
	"log/slog"

	"github.com/taibuivan/meeple/internal/platform/apperr"
	"github.com/taibuivan/meeple/internal/platform/constants"
	"github.com/taibuivan/meeple/internal/platform/validate"
	"github.com/taibuivan/meeple/pkg/slice"
)

// Service answers searches and detail lookups, reading through to the
// upstream API for anything not stored yet.
type Service struct {
	upstream  Upstream
	resolver  *Resolver
	scheduler *Scheduler
	cache     SearchCache
	logger    *slog.Logger
}

// NewService wires the pipeline. cache may be nil to disable search caching.
func NewService(upstream Upstream, repository Repository, cache SearchCache, concurrency int, logger *slog.Logger) *Service {
	return &Service{
		upstream:  upstream,
		resolver:  NewResolver(repository, logger),
		scheduler: NewScheduler(upstream, repository, concurrency, logger),
		cache:     cache,
		logger:    logger,
	}
}

// # Search

/*
Search runs a free-text query upstream and returns its candidates together
with every Thing that could be resolved for them.

The candidate list is returned unchanged. Things come from the store when
present and are fetched and stored otherwise; their order is unspecified.
A failed search request fails the whole operation with a 502.

When a search cache is configured, the candidate list may be served from it
and can be up to SEARCH_CACHE_TTL old.
*/
func (service *Service) Search(ctx context.Context, query string) (*SearchResult, error) {
	validator := &validate.Validator{}
	validator.Required("query", query).MaxLen("query", query, constants.MaxQueryLength)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	items, err := service.candidates(ctx, query)
	if err != nil {
		return nil, err
	}

	ids := slice.Map(items, func(item SearchItem) string { return item.ID })
	things, err := service.lookup(ctx, ids)
	if err != nil {
		return nil, err
	}

	return &SearchResult{Items: items, Things: things}, nil
}

// candidates returns the upstream search result, from the cache when possible.
// Cache failures degrade to a direct upstream call.
func (service *Service) candidates(ctx context.Context, query string) ([]SearchItem, error) {
	if service.cache != nil {
		items, found, err := service.cache.Get(ctx, query)
		if err != nil {
			service.logger.Warn("search_cache_read_failed", slog.Any("error", err))
		}
		if found {
			return items, nil
		}
	}

	items, err := service.upstream.Search(ctx, query)
	if err != nil {
		return nil, apperr.BadGateway("Upstream search failed", err)
	}

	if service.cache != nil {
		if err := service.cache.Set(ctx, query, items); err != nil {
			service.logger.Warn("search_cache_write_failed", slog.Any("error", err))
		}
	}
	return items, nil
}

// # Details

// Detail returns the Thing with the given upstream id, fetching and storing
// it first when necessary. It fails with NOT_FOUND when the id could not be
// resolved, including when the upstream fetch failed.
func (service *Service) Detail(ctx context.Context, id string) (*Thing, error) {
	validator := &validate.Validator{}
	if err := validator.Numeric("id", id).Err(); err != nil {
		return nil, err
	}

	things, err := service.lookup(ctx, []string{id})
	if err != nil {
		return nil, err
	}

	for i := range things {
		if things[i].BggID == id {
			return &things[i], nil
		}
	}
	return nil, apperr.NotFound("Thing")
}

// DetailMany resolves several ids at once. Ids that cannot be resolved are
// absent from the result.
func (service *Service) DetailMany(ctx context.Context, ids []string) ([]Thing, error) {
	validator := &validate.Validator{}
	validator.Count("id", len(ids), 1, constants.MaxDetailIDs)
	for _, id := range ids {
		validator.Numeric("id", id)
	}
	if err := validator.Err(); err != nil {
		return nil, err
	}

	return service.lookup(ctx, slice.Unique(ids))
}

// lookup merges stored Things with freshly fetched ones for ids.
func (service *Service) lookup(ctx context.Context, ids []string) ([]Thing, error) {
	known, needed, err := service.resolver.Resolve(ctx, ids)
	if err != nil {
		return nil, err
	}
	if len(needed) == 0 {
		return known, nil
	}

	fetched := service.scheduler.Run(ctx, needed)
	service.logger.Info("things_read_through",
		slog.Int("known", len(known)),
		slog.Int("needed", len(needed)),
		slog.Int("fetched", len(fetched)),
	)
	return append(known, fetched...), nil
}
