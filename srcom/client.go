package srcom

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// DefaultBaseURL is the production speedrun.com API endpoint.
const DefaultBaseURL = "https://www.speedrun.com/api/v1"

// Client talks to the speedrun.com REST API. It is safe to share across
// goroutines as long as the caller does not rely on cross-call ordering;
// the client itself holds no mutable state after construction.
type Client struct {
	baseURL    string
	apiKey     string
	userAgent  string
	httpClient *http.Client
	logger     zerolog.Logger
	mock       *mockStore
	resolver   UserResolver
}

// New creates a speedrun.com API client. The user agent is mandatory (the
// API rejects anonymous agents); an API key is only needed for writes.
func New(userAgent string, logger zerolog.Logger, opts ...Option) (*Client, error) {
	if userAgent == "" {
		return nil, fmt.Errorf("%w: user agent is required", ErrInvalidConfig)
	}

	client := &Client{
		baseURL:   DefaultBaseURL,
		userAgent: userAgent,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: logger,
	}

	for _, opt := range opts {
		opt(client)
	}

	client.baseURL = strings.TrimRight(client.baseURL, "/")
	if client.mock != nil {
		client.mock.logger = logger
	}
	if client.resolver == nil {
		client.resolver = client
	}

	return client, nil
}

// Get performs a GET against endpoint and returns its data, transparently
// aggregating paginated collections. Under mock mode the response is
// served from (or recorded to) the fixture cache.
func (c *Client) Get(ctx context.Context, endpoint string, query url.Values) (json.RawMessage, error) {
	env, err := c.getEnvelope(ctx, endpoint, query)
	if err != nil {
		return nil, err
	}
	return env.Data, nil
}

// GetList performs a GET against a collection endpoint and returns its
// entries one by one.
func (c *Client) GetList(ctx context.Context, endpoint string, query url.Values) ([]json.RawMessage, error) {
	data, err := c.Get(ctx, endpoint, query)
	if err != nil {
		return nil, err
	}
	items, err := decodeList(data)
	if err != nil {
		return nil, fmt.Errorf("endpoint %s did not return a collection: %w", endpoint, err)
	}
	return items, nil
}

// Post creates a resource. Requires an API key.
func (c *Client) Post(ctx context.Context, endpoint string, body any) (json.RawMessage, error) {
	return c.writeRequest(ctx, http.MethodPost, endpoint, body)
}

// Put updates a resource. Requires an API key.
func (c *Client) Put(ctx context.Context, endpoint string, body any) (json.RawMessage, error) {
	return c.writeRequest(ctx, http.MethodPut, endpoint, body)
}

// Delete removes a resource. Requires an API key.
func (c *Client) Delete(ctx context.Context, endpoint string) (json.RawMessage, error) {
	return c.writeRequest(ctx, http.MethodDelete, endpoint, nil)
}

func (c *Client) getEnvelope(ctx context.Context, endpoint string, query url.Values) (*Envelope, error) {
	if c.mock != nil {
		return c.mock.fetch(ctx, c, endpoint, query)
	}
	return c.getPaginated(ctx, endpoint, query)
}

// writeRequest is the shared non-GET path. Mock mode has no write
// implementation: writes report success without touching the network or
// validating anything. See the package documentation.
func (c *Client) writeRequest(ctx context.Context, method, endpoint string, body any) (json.RawMessage, error) {
	if c.mock != nil {
		c.logger.Debug().Str("method", method).Str("endpoint", endpoint).
			Msg("mock mode: write skipped")
		return nil, nil
	}
	env, err := c.request(ctx, method, endpoint, nil, body)
	if err != nil {
		return nil, err
	}
	return env.Data, nil
}

// request issues a single call against an endpoint relative to the base
// URL. Write methods are gated on a configured API key before any network
// I/O happens.
func (c *Client) request(ctx context.Context, method, endpoint string, query url.Values, body any) (*Envelope, error) {
	if method != http.MethodGet && c.apiKey == "" {
		return nil, ErrAuthenticationRequired
	}

	rawURL := c.baseURL + "/" + strings.TrimLeft(endpoint, "/")
	if len(query) > 0 {
		rawURL += "?" + query.Encode()
	}

	return c.do(ctx, method, rawURL, endpoint, body)
}

// do issues a request against an absolute URL. Pagination follow-ups reuse
// it directly with the link URIs the API hands back.
func (c *Client) do(ctx context.Context, method, rawURL, endpoint string, body any) (*Envelope, error) {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, rawURL, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", c.userAgent)
	if c.apiKey != "" {
		req.Header.Set("X-API-Key", c.apiKey)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	c.logger.Debug().Str("method", method).Str("url", rawURL).Msg("srcom API request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode >= 400 {
		return nil, c.apiError(method, endpoint, resp.StatusCode, respBody)
	}

	if len(respBody) == 0 || resp.StatusCode == http.StatusNoContent {
		return &Envelope{}, nil
	}

	var env Envelope
	if err := json.Unmarshal(respBody, &env); err != nil {
		return nil, fmt.Errorf("failed to parse response from %s: %w", endpoint, err)
	}
	return &env, nil
}

// apiError builds the typed error for a >=400 response. On 400 write
// responses the API's message and field errors are logged before the
// error propagates, so moderators see what the server objected to.
func (c *Client) apiError(method, endpoint string, statusCode int, respBody []byte) error {
	reqErr := &RequestError{
		StatusCode: statusCode,
		Status:     http.StatusText(statusCode),
		Endpoint:   endpoint,
	}

	var body apiErrorBody
	if err := json.Unmarshal(respBody, &body); err == nil {
		reqErr.Message = body.Message
		reqErr.FieldErrors = body.Errors
	}

	if statusCode == http.StatusBadRequest && method != http.MethodGet {
		c.logger.Error().
			Str("endpoint", endpoint).
			Str("message", reqErr.Message).
			Strs("field_errors", reqErr.FieldErrors).
			Msg("speedrun.com rejected the request")
	}

	return reqErr
}

// ResolveUser reports whether a user ID exists on the API. It backs the
// default player lookup during submission validation.
func (c *Client) ResolveUser(ctx context.Context, id string) (bool, error) {
	_, err := c.Get(ctx, "users/"+id, nil)
	if err != nil {
		var reqErr *RequestError
		if errors.As(err, &reqErr) && reqErr.IsNotFound() {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func decodeList(data json.RawMessage) ([]json.RawMessage, error) {
	var items []json.RawMessage
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, err
	}
	return items, nil
}
