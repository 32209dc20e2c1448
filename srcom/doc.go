// Package srcom provides a client for the speedrun.com REST API.
//
// The client covers read access (games, users, runs, series, categories)
// and the moderation/write surface (run submission, status updates,
// player edits, deletion) over JSON/HTTP.
//
// # Architecture
//
//   - Client: transport with auth-header injection and typed API errors
//   - Pagination: collection GETs transparently walk every page
//   - Mock store: recorded-response playback for offline use and tests
//   - Submission validation: write payloads are checked before any
//     network call
//
// # Usage
//
// Create a client with a user agent (mandatory) and, for writes, an API
// key:
//
//	logger := zerolog.New(os.Stderr)
//	client, err := srcom.New("myapp/1.0", logger,
//		srcom.WithAPIKey("your-api-key"),
//		srcom.WithTimeout(30*time.Second),
//	)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	game, err := client.GetGame(ctx, "sms")
//	runs, err := client.SearchRuns(ctx, url.Values{"game": {game.ID}})
//
// Without an API key the client is restricted to GETs; write methods
// return ErrAuthenticationRequired before any network I/O.
//
// # Pagination
//
// Collection responses carry a pagination block. When a page is full
// (size == max) the client follows the last pagination link until the
// collection is exhausted, so Get, GetList and Search always return the
// complete result set. Follow-up requests are sequential; pass a context
// with a deadline to bound the walk.
//
// # Mock mode
//
// WithMock(dir) serves GETs from gzip-compressed fixture files under dir,
// recording the fully paginated envelope on first miss. Two sharp edges
// are inherited from the recorded-fixture design and kept deliberately:
//
//   - Fixture keys are derived from the endpoint's resource kinds only
//     ("users/abc" and "users/def" both map to "users"), so one fixture
//     stands in for every ID of that shape.
//   - Write operations under mock mode are no-ops that report success
//     without validating anything.
//
// # Error handling
//
// Remote failures surface as *RequestError with the status code, reason
// phrase and endpoint; IsNotFound and IsUnauthorized classify the common
// cases. Submission rule violations surface as *ValidationError with a
// discriminating Kind. Neither is ever swallowed internally.
package srcom
