package notion

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/hmoraleda/relink/pkg/constants"
	"github.com/hmoraleda/relink/pkg/errors"
	"github.com/hmoraleda/relink/pkg/logging"
	"github.com/hmoraleda/relink/pkg/properties"
)

// Client is the resilient remote client. Every operation acquires a pacing
// slot from the limiter before each attempt and retries classified failures
// according to the policy; exhausting the policy re-raises the last error.
type Client struct {
	http    *http.Client
	baseURL string
	token   string
	version string
	limiter *Limiter
	policy  Policy
	logger  *zerolog.Logger
	sleep   func(time.Duration)
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithBaseURL overrides the API base URL (used by tests).
func WithBaseURL(url string) ClientOption {
	return func(c *Client) {
		c.baseURL = url
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(h *http.Client) ClientOption {
	return func(c *Client) {
		c.http = h
	}
}

// WithLimiter replaces the rate limiter.
func WithLimiter(l *Limiter) ClientOption {
	return func(c *Client) {
		c.limiter = l
	}
}

// WithRetryPolicy replaces the retry policy.
func WithRetryPolicy(p Policy) ClientOption {
	return func(c *Client) {
		c.policy = p
	}
}

// WithLogger sets the client logger.
func WithLogger(logger *zerolog.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithSleep replaces the backoff sleeper, for deterministic tests.
func WithSleep(sleep func(time.Duration)) ClientOption {
	return func(c *Client) {
		c.sleep = sleep
	}
}

// NewClient creates a client authenticated with the given integration token.
func NewClient(token string, opts ...ClientOption) *Client {
	c := &Client{
		http:    &http.Client{Timeout: constants.DefaultHTTPTimeout},
		baseURL: constants.DefaultBaseURL,
		token:   token,
		version: constants.DefaultAPIVersion,
		limiter: NewLimiter(constants.DefaultRequestsPerSecond),
		policy: Policy{
			MaxAttempts: constants.DefaultMaxAttempts,
			BaseDelay:   constants.DefaultBaseDelay,
		},
		logger: logging.Default(),
		sleep:  time.Sleep,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// QueryDatabase issues one filtered, paginated query against a collection.
func (c *Client) QueryDatabase(ctx context.Context, databaseID string, query *Query) (*PageList, error) {
	var list PageList
	path := fmt.Sprintf("/databases/%s/query", databaseID)
	if err := c.do(ctx, http.MethodPost, path, query, &list); err != nil {
		return nil, err
	}
	return &list, nil
}

// ListAllPages follows continuation cursors until the collection is
// exhausted. The per-batch reconciliation flow does not use this; it exists
// for full-collection audits.
func (c *Client) ListAllPages(ctx context.Context, databaseID string) ([]Page, error) {
	var pages []Page
	query := &Query{}
	for {
		list, err := c.QueryDatabase(ctx, databaseID, query)
		if err != nil {
			return nil, err
		}
		pages = append(pages, list.Results...)
		if !list.HasMore || list.NextCursor == "" {
			return pages, nil
		}
		query.StartCursor = list.NextCursor
	}
}

// ListUnlinkedContracts returns up to limit contracts whose relation
// property is empty. This is a single page request: the limit is a hard
// ceiling per invocation, not an auto-paginated total.
func (c *Client) ListUnlinkedContracts(ctx context.Context, databaseID, relationProp string, limit int) ([]Page, error) {
	if limit <= 0 {
		limit = constants.DefaultBatchSize
	}
	if limit > constants.MaxBatchSize {
		limit = constants.MaxBatchSize
	}
	query := &Query{
		Filter: &Filter{
			Property: relationProp,
			Relation: &RelationCondition{IsEmpty: true},
		},
		PageSize: limit,
	}
	list, err := c.QueryDatabase(ctx, databaseID, query)
	if err != nil {
		return nil, err
	}
	return list.Results, nil
}

// FindPersonByName issues an exact-match query on the title property and
// returns the first match, or nil when no person has that name. Duplicate
// titles are not deduplicated at this layer: first match wins, and the
// collision is logged rather than hidden.
func (c *Client) FindPersonByName(ctx context.Context, databaseID, titleProp, name string) (*Page, error) {
	query := &Query{
		Filter: &Filter{
			Property: titleProp,
			Title:    &TextCondition{Equals: name},
		},
	}
	list, err := c.QueryDatabase(ctx, databaseID, query)
	if err != nil {
		return nil, err
	}
	if len(list.Results) == 0 {
		return nil, nil
	}
	if len(list.Results) > 1 {
		c.logger.Warn().
			Str("name", name).
			Int("matches", len(list.Results)).
			Msg("Multiple persons share a title, taking the first match")
	}
	return &list.Results[0], nil
}

// CreatePerson creates exactly one person record with the title set and any
// supplied optional properties set at creation time.
func (c *Client) CreatePerson(ctx context.Context, databaseID, titleProp, name string, extra map[string]properties.Property) (*Page, error) {
	props := map[string]properties.Property{
		titleProp: properties.NewTitle(name),
	}
	for key, value := range extra {
		props[key] = value
	}
	body := &createPageRequest{
		Parent:     pageParent{DatabaseID: databaseID},
		Properties: props,
	}
	var page Page
	if err := c.do(ctx, http.MethodPost, "/pages", body, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// UpdatePersonProperties applies a partial update to a person record.
// An empty property map is a no-op and trivially succeeds without spending
// a rate slot.
func (c *Client) UpdatePersonProperties(ctx context.Context, pageID string, props map[string]properties.Property) error {
	if len(props) == 0 {
		return nil
	}
	body := &updatePageRequest{Properties: props}
	var page Page
	return c.do(ctx, http.MethodPatch, "/pages/"+pageID, body, &page)
}

// LinkContractToPerson sets the contract's relation property to the
// single-element set {personID}. The driver only calls this on contracts
// already verified unlinked, so no prior value is lost.
func (c *Client) LinkContractToPerson(ctx context.Context, contractID, relationProp, personID string) error {
	body := &updatePageRequest{
		Properties: map[string]properties.Property{
			relationProp: properties.NewRelation(personID),
		},
	}
	var page Page
	return c.do(ctx, http.MethodPatch, "/pages/"+contractID, body, &page)
}

// RetrievePage fetches a single record by identifier.
func (c *Client) RetrievePage(ctx context.Context, pageID string) (*Page, error) {
	var page Page
	if err := c.do(ctx, http.MethodGet, "/pages/"+pageID, nil, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// do runs one remote call under the pacing and retry regime. Each attempt
// acquires its own limiter slot, so N retries cost N slots. Fatal and local
// errors propagate on the spot; retryable ones sleep per the policy's delay
// schedule until the attempt ceiling is hit.
func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	attempts := c.policy.attempts()
	var lastErr error

	for attempt := 0; attempt < attempts; attempt++ {
		c.limiter.Wait()

		err := c.call(ctx, method, path, body, out)
		if err == nil {
			return nil
		}

		class := Classify(err)
		if class == ClassFatal {
			return err
		}
		lastErr = err

		if attempt == attempts-1 {
			break
		}

		delay := c.policy.Delay(class, attempt)
		c.logger.Warn().
			Err(err).
			Str("class", class.String()).
			Int("attempt", attempt+1).
			Dur("backoff", delay).
			Str("path", path).
			Msg("Remote call failed, backing off")
		c.sleep(delay)
	}

	return fmt.Errorf("%w after %d attempts: %w", errors.ErrRetriesExhausted, attempts, lastErr)
}

// call performs a single HTTP attempt.
func (c *Client) call(ctx context.Context, method, path string, body, out interface{}) error {
	endpoint := c.baseURL + path

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return errors.WrapParse("json", "request body", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("create request %s %s: %w", method, path, err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Notion-Version", c.version)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return &errors.APIError{
			Endpoint: path,
			Message:  "request failed",
			Err:      err,
		}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return c.decodeError(resp, path)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errors.WrapParse("json", "response from "+path, err)
	}
	return nil
}

// decodeError turns a non-2xx response into an APIError carrying the remote
// error code and message when the body is parseable.
func (c *Client) decodeError(resp *http.Response, path string) error {
	apiErr := &errors.APIError{
		StatusCode: resp.StatusCode,
		Endpoint:   path,
		Message:    http.StatusText(resp.StatusCode),
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
	if err != nil {
		return apiErr
	}
	var body apiErrorBody
	if err := json.Unmarshal(raw, &body); err == nil && body.Message != "" {
		apiErr.Code = body.Code
		apiErr.Message = body.Message
	}
	return apiErr
}
