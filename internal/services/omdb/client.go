package omdb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// MediaType selects the OMDb title class for a lookup.
type MediaType string

const (
	TypeMovie  MediaType = "movie"
	TypeSeries MediaType = "series"
)

// Result represents a single OMDb title match. Year is kept as the raw API
// string because series report ranges such as "2015-2019".
type Result struct {
	Title  string `json:"Title"`
	Year   string `json:"Year"`
	Poster string `json:"Poster"`
	Type   string `json:"Type"`
	IMDBID string `json:"imdbID"`
}

// HasPoster reports whether the result carries a usable poster URL. OMDb
// sends the literal string "N/A" when no artwork exists.
func (r *Result) HasPoster() bool {
	return r != nil && r.Poster != "" && r.Poster != "N/A"
}

// envelope models the OMDb response wrapper. Response is the string "True"
// or "False"; Error carries the reason on a miss.
type envelope struct {
	Result
	Search   []Result `json:"Search"`
	Response string   `json:"Response"`
	Error    string   `json:"Error"`
}

func (e *envelope) ok() bool {
	return strings.EqualFold(e.Response, "True")
}

// LookupOptions contains optional parameters for a title lookup.
type LookupOptions struct {
	Year   int
	Season int
	Type   MediaType
}

// Querier defines the OMDb operations used by metadata enrichment.
type Querier interface {
	Lookup(ctx context.Context, title string, opts LookupOptions) (*Result, error)
	Search(ctx context.Context, query string, opts LookupOptions) ([]Result, error)
}

// Client provides access to the OMDb API.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

var _ Querier = (*Client)(nil)

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithTimeout sets the request timeout on the default HTTP client.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.httpClient.Timeout = timeout
		}
	}
}

// New creates an OMDb client.
func New(apiKey, baseURL string, opts ...Option) (*Client, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, errors.New("omdb api key required")
	}
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return nil, errors.New("omdb base url required")
	}
	client := &Client{
		apiKey:     apiKey,
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// Lookup fetches the single best OMDb match for a title. A miss (OMDb
// "Movie not found!") returns (nil, nil) so callers can fall through to the
// next query variant without treating it as a fault.
func (c *Client) Lookup(ctx context.Context, title string, opts LookupOptions) (*Result, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, errors.New("title must not be empty")
	}
	params := url.Values{}
	params.Set("t", title)
	c.applyOptions(params, opts)

	payload, err := c.get(ctx, params)
	if err != nil {
		return nil, err
	}
	if !payload.ok() {
		return nil, nil
	}
	result := payload.Result
	return &result, nil
}

// Search performs a free-text OMDb search and returns the first page of
// matches. A miss returns an empty slice.
func (c *Client) Search(ctx context.Context, query string, opts LookupOptions) ([]Result, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, errors.New("query must not be empty")
	}
	params := url.Values{}
	params.Set("s", query)
	c.applyOptions(params, opts)

	payload, err := c.get(ctx, params)
	if err != nil {
		return nil, err
	}
	if !payload.ok() {
		return nil, nil
	}
	return payload.Search, nil
}

func (c *Client) applyOptions(params url.Values, opts LookupOptions) {
	params.Set("apikey", c.apiKey)
	if opts.Year > 0 {
		params.Set("y", strconv.Itoa(opts.Year))
	}
	if opts.Season > 0 {
		params.Set("Season", strconv.Itoa(opts.Season))
	}
	if opts.Type != "" {
		params.Set("type", string(opts.Type))
	}
}

func (c *Client) get(ctx context.Context, params url.Values) (*envelope, error) {
	endpoint, err := url.Parse(c.baseURL + "/")
	if err != nil {
		return nil, fmt.Errorf("parse omdb url: %w", err)
	}
	endpoint.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	requestStart := time.Now()
	resp, err := c.httpClient.Do(req)
	latency := time.Since(requestStart)
	if err != nil {
		return nil, fmt.Errorf("execute request (latency=%v): %w", latency, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("omdb returned %d (latency=%v)", resp.StatusCode, latency)
	}

	var payload envelope
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode omdb response: %w", err)
	}
	return &payload, nil
}
