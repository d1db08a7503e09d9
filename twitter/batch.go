package twitter

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"
)

// maxLookupIDs is the most ids a single lookup endpoint accepts.
const maxLookupIDs = 100

// batchLookup fetches ids in chunks of maxLookupIDs, running up to the
// client's batch concurrency at once. Duplicates are removed, results follow
// the input order and ids that were not returned are dropped. The first
// error cancels the remaining chunks.
func batchLookup[T any](
	ctx context.Context,
	c *Client,
	ids []string,
	normalize func(string) string,
	key func(T) string,
	fetch func(ctx context.Context, chunk []string) ([]T, error),
) ([]T, error) {
	unique := dedupe(ids, normalize)
	if len(unique) == 0 {
		return nil, nil
	}

	chunks := chunk(unique, maxLookupIDs)
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(c.batchConcurrency)

	var mu sync.Mutex
	found := make(map[string]T, len(unique))

	for i, ch := range chunks {
		g.Go(func() error {
			items, err := fetch(ctx, ch)
			if err != nil {
				return err
			}

			mu.Lock()
			for _, item := range items {
				found[normalize(key(item))] = item
			}
			mu.Unlock()

			c.logger.Debug().
				Int("chunk", i+1).
				Int("chunks", len(chunks)).
				Int("requested", len(ch)).
				Int("returned", len(items)).
				Msg("Fetched lookup chunk")
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make([]T, 0, len(found))
	for _, id := range unique {
		if item, ok := found[id]; ok {
			out = append(out, item)
		}
	}
	return out, nil
}

func dedupe(ids []string, normalize func(string) string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		id = normalize(id)
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func chunk(ids []string, size int) [][]string {
	var out [][]string
	for len(ids) > size {
		out = append(out, ids[:size:size])
		ids = ids[size:]
	}
	if len(ids) > 0 {
		out = append(out, ids)
	}
	return out
}
