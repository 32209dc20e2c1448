package srcom

import (
	"compress/gzip"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
)

// mockStore serves GETs from gzip-compressed fixture files, populating
// them from live (fully paginated) fetches on first miss.
type mockStore struct {
	dir    string
	logger zerolog.Logger
}

// cacheKey normalizes an endpoint to its resource-kind shape: path
// segments at even indexes joined with dots, ID segments dropped.
// "users/abc" and "users/def" therefore share the key "users" — one
// representative fixture per endpoint shape. That collision is inherited
// behavior and callers relying on per-ID fixtures must use separate
// fixture directories. See the package documentation.
func cacheKey(endpoint string) string {
	segments := strings.Split(strings.Trim(endpoint, "/"), "/")
	kinds := make([]string, 0, (len(segments)+1)/2)
	for i := 0; i < len(segments); i += 2 {
		kinds = append(kinds, segments[i])
	}
	return strings.Join(kinds, ".")
}

func (m *mockStore) path(key string) string {
	return filepath.Join(m.dir, key+".json.gz")
}

// fetch returns the fixture for endpoint, recording one first if needed.
// Remote errors (404 included) propagate unchanged and are never cached.
func (m *mockStore) fetch(ctx context.Context, c *Client, endpoint string, query url.Values) (*Envelope, error) {
	key := cacheKey(endpoint)

	env, err := m.read(key)
	if err == nil {
		m.logger.Debug().Str("key", key).Str("endpoint", endpoint).Msg("mock fixture hit")
		return env, nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}

	env, err = c.getPaginated(ctx, endpoint, query)
	if err != nil {
		return nil, err
	}

	if err := m.write(key, env); err != nil {
		return nil, fmt.Errorf("failed to record mock fixture %s: %w", key, err)
	}
	m.logger.Debug().Str("key", key).Str("endpoint", endpoint).Msg("mock fixture recorded")
	return env, nil
}

func (m *mockStore) read(key string) (*Envelope, error) {
	f, err := os.Open(m.path(key))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	zr, err := gzip.NewReader(f)
	if err != nil {
		return nil, fmt.Errorf("corrupt mock fixture %s: %w", key, err)
	}
	defer zr.Close()

	var env Envelope
	if err := json.NewDecoder(zr).Decode(&env); err != nil {
		return nil, fmt.Errorf("corrupt mock fixture %s: %w", key, err)
	}
	return &env, nil
}

// write persists a fully paginated envelope. Concurrent writers to the
// same key race with last-writer-wins; fixtures are test data, so that is
// accepted rather than locked around.
func (m *mockStore) write(key string, env *Envelope) error {
	if err := os.MkdirAll(m.dir, 0o755); err != nil {
		return err
	}

	f, err := os.Create(m.path(key))
	if err != nil {
		return err
	}

	zw := gzip.NewWriter(f)
	if err := json.NewEncoder(zw).Encode(env); err != nil {
		zw.Close()
		f.Close()
		return err
	}
	if err := zw.Close(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
