package srcom

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"
)

// enrichConcurrency bounds parallel user lookups during enrichment.
const enrichConcurrency = 10

// ResolvePlayerNames fetches display names for every distinct user-rel
// player referenced by runs. Lookups run concurrently with a bounded
// group; individual failures are logged and skipped so one missing
// account does not sink a whole listing.
func (c *Client) ResolvePlayerNames(ctx context.Context, runs []Run) (map[string]string, error) {
	ids := make(map[string]struct{})
	for _, run := range runs {
		for _, player := range run.Players {
			if player.Rel == "user" && player.ID != "" {
				ids[player.ID] = struct{}{}
			}
		}
	}
	if len(ids) == 0 {
		return map[string]string{}, nil
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(enrichConcurrency)

	var mu sync.Mutex
	names := make(map[string]string, len(ids))

	for id := range ids {
		g.Go(func() error {
			user, err := c.GetUser(ctx, id)
			if err != nil {
				c.logger.Warn().Err(err).Str("user_id", id).
					Msg("failed to resolve player name")
				return nil
			}

			mu.Lock()
			names[id] = user.Names.International
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return names, nil
}
