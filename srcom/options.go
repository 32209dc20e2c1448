package srcom

import (
	"net/http"
	"time"
)

// Option configures a Client.
type Option func(*Client)

// WithAPIKey sets the API key sent as X-API-Key. Without one the client
// is restricted to GET operations.
func WithAPIKey(key string) Option {
	return func(c *Client) {
		c.apiKey = key
	}
}

// WithBaseURL overrides the API base URL. Mainly useful for tests.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		if baseURL != "" {
			c.baseURL = baseURL
		}
	}
}

// WithTimeout sets the HTTP client timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		if httpClient != nil {
			c.httpClient = httpClient
		}
	}
}

// WithMock enables mock mode: GETs are served from (and recorded to)
// compressed fixtures under dir instead of hitting the live API on every
// call, and write operations become success no-ops.
func WithMock(dir string) Option {
	return func(c *Client) {
		c.mock = &mockStore{dir: dir}
	}
}

// WithUserResolver replaces the collaborator used to check player IDs
// during submission validation. The default resolver looks users up
// through the client itself.
func WithUserResolver(r UserResolver) Option {
	return func(c *Client) {
		if r != nil {
			c.resolver = r
		}
	}
}
