package srcom

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
)

// getPaginated performs the initial GET and walks pagination links until
// the collection is complete. Follow-ups are strictly sequential; there is
// no page cap beyond what the API itself enforces.
func (c *Client) getPaginated(ctx context.Context, endpoint string, query url.Values) (*Envelope, error) {
	env, err := c.request(ctx, http.MethodGet, endpoint, query, nil)
	if err != nil {
		return nil, err
	}

	// Single objects and non-paginable endpoints come back without a
	// pagination block and pass through untouched.
	if env.Pagination == nil {
		return env, nil
	}

	items, err := decodeList(env.Data)
	if err != nil {
		return nil, fmt.Errorf("paginated endpoint %s did not return a collection: %w", endpoint, err)
	}

	page := env
	// size == max means the page is full and more may follow. The next
	// page is the URI of the last link entry; the API does not guarantee
	// a usable rel label, so the label is deliberately not consulted.
	for page.Pagination != nil && page.Pagination.Size == page.Pagination.Max {
		links := page.Pagination.Links
		if len(links) == 0 {
			break
		}
		next := links[len(links)-1].URI

		page, err = c.do(ctx, http.MethodGet, next, endpoint, nil)
		if err != nil {
			return nil, err
		}

		more, err := decodeList(page.Data)
		if err != nil {
			return nil, fmt.Errorf("paginated endpoint %s did not return a collection: %w", endpoint, err)
		}
		items = append(items, more...)

		c.logger.Debug().
			Str("endpoint", endpoint).
			Int("page_size", len(more)).
			Int("total", len(items)).
			Msg("fetched next page")
	}

	merged, err := json.Marshal(items)
	if err != nil {
		return nil, fmt.Errorf("failed to merge pages for %s: %w", endpoint, err)
	}
	return &Envelope{Data: merged, Pagination: page.Pagination}, nil
}
