package srcom

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
)

// Search queries a resource collection with the given query parameters and
// returns the raw entries across all pages.
func (c *Client) Search(ctx context.Context, kind Kind, query url.Values) ([]json.RawMessage, error) {
	return c.GetList(ctx, string(kind), query)
}

// SearchRuns queries the runs collection into typed entities. Useful
// query parameters include game, category, status, order-by and max.
func (c *Client) SearchRuns(ctx context.Context, query url.Values) ([]Run, error) {
	items, err := c.Search(ctx, KindRun, query)
	if err != nil {
		return nil, err
	}
	runs := make([]Run, len(items))
	for i, item := range items {
		if err := json.Unmarshal(item, &runs[i]); err != nil {
			return nil, fmt.Errorf("failed to decode run entry: %w", err)
		}
	}
	return runs, nil
}

// GetGame fetches a game by ID or abbreviation.
func (c *Client) GetGame(ctx context.Context, id string) (*Game, error) {
	return fetchOne[Game](ctx, c, KindGame, id)
}

// GetUser fetches a user by ID or name.
func (c *Client) GetUser(ctx context.Context, id string) (*User, error) {
	return fetchOne[User](ctx, c, KindUser, id)
}

// GetSeries fetches a series by ID or abbreviation.
func (c *Client) GetSeries(ctx context.Context, id string) (*Series, error) {
	return fetchOne[Series](ctx, c, KindSeries, id)
}

// GetRun fetches a run by ID.
func (c *Client) GetRun(ctx context.Context, id string) (*Run, error) {
	return fetchOne[Run](ctx, c, KindRun, id)
}

// GetCategory fetches a category by ID.
func (c *Client) GetCategory(ctx context.Context, id string) (*Category, error) {
	return fetchOne[Category](ctx, c, KindCategory, id)
}

func fetchOne[T any](ctx context.Context, c *Client, kind Kind, id string) (*T, error) {
	data, err := c.Get(ctx, string(kind)+"/"+id, nil)
	if err != nil {
		return nil, err
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("failed to decode %s %s: %w", kind, id, err)
	}
	return &v, nil
}
