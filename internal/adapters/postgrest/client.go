// Package postgrest implements the query client port against a PostgREST
// endpoint such as Supabase's /rest/v1.
package postgrest

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"golang.org/x/oauth2"

	"github.com/ewilliams-labs/soundcheck/internal/core/ports"
	"github.com/ewilliams-labs/soundcheck/internal/core/query"
	"github.com/ewilliams-labs/soundcheck/internal/metrics"
)

const (
	backendName = "postgrest"
	restPath    = "/rest/v1"
)

// Config configures a Client.
type Config struct {
	// URL is the project URL, with or without the /rest/v1 suffix.
	URL    string
	APIKey string
	// Timeout bounds each request; zero means no client-side limit.
	Timeout time.Duration
	// Transport defaults to http.DefaultTransport.
	Transport http.RoundTripper
}

// Client is an HTTP client for a PostgREST API.
type Client struct {
	httpClient *http.Client
	baseURL    string
}

var _ ports.QueryClient = (*Client)(nil)

// NewClient builds a client that authenticates every request with the API
// key, both as the apikey header and as a bearer token.
func NewClient(cfg Config) (*Client, error) {
	base := strings.TrimSuffix(strings.TrimRight(cfg.URL, "/"), restPath)
	u, err := url.Parse(base)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("postgrest: invalid url %q", cfg.URL)
	}

	transport := cfg.Transport
	if transport == nil {
		transport = http.DefaultTransport
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
			Transport: &oauth2.Transport{
				Source: oauth2.StaticTokenSource(&oauth2.Token{AccessToken: cfg.APIKey, TokenType: "Bearer"}),
				Base:   &apiKeyTransport{key: cfg.APIKey, base: transport},
			},
		},
		baseURL: base + restPath,
	}, nil
}

// apiKeyTransport adds the apikey header PostgREST gateways expect.
type apiKeyTransport struct {
	key  string
	base http.RoundTripper
}

func (t *apiKeyTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	r := req.Clone(req.Context())
	r.Header.Set("apikey", t.key)
	return t.base.RoundTrip(r)
}

// errorBody is PostgREST's error payload.
type errorBody struct {
	Message string `json:"message"`
	Code    string `json:"code"`
	Details string `json:"details"`
	Hint    string `json:"hint"`
}

// Execute issues q as a GET and decodes the JSON array response into dst.
func (c *Client) Execute(ctx context.Context, q query.Query, dst any) (err error) {
	start := time.Now()
	defer func() {
		metrics.RecordStoreQuery(backendName, q.Table, time.Since(start), err)
	}()

	endpoint, err := c.endpoint(q)
	if err != nil {
		return fmt.Errorf("postgrest: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("postgrest: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return fmt.Errorf("postgrest: %w", ctxErr)
		}
		return fmt.Errorf("postgrest: %w", &ports.StoreError{Message: err.Error(), Err: err})
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("postgrest: %w", statusError(resp))
	}

	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		return fmt.Errorf("postgrest: decode %s: %w", q.Table, err)
	}
	return nil
}

func statusError(resp *http.Response) *ports.StoreError {
	cause := fmt.Errorf("status %d", resp.StatusCode)
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))

	var body errorBody
	if err := json.Unmarshal(raw, &body); err == nil && body.Message != "" {
		if body.Code != "" {
			cause = fmt.Errorf("status %d code %s", resp.StatusCode, body.Code)
		}
		return &ports.StoreError{Message: body.Message, Err: cause}
	}
	return &ports.StoreError{Message: http.StatusText(resp.StatusCode), Err: cause}
}

// endpoint renders q in PostgREST's URL grammar.
func (c *Client) endpoint(q query.Query) (string, error) {
	if q.Table == "" {
		return "", fmt.Errorf("query without table")
	}

	params := url.Values{}
	if len(q.Fields) > 0 {
		params.Set("select", query.FormatSelect(q.Fields))
	}
	for _, f := range q.Filters {
		params.Add(f.Column, string(f.Op)+"."+formatValue(f.Value))
	}
	if len(q.Orders) > 0 {
		terms := make([]string, 0, len(q.Orders))
		for _, o := range q.Orders {
			col := o.Column
			if o.ReferencedTable != "" {
				col = o.ReferencedTable + "(" + o.Column + ")"
			}
			dir := "asc"
			if o.Direction == query.Desc {
				dir = "desc"
			}
			terms = append(terms, col+"."+dir+".nullslast")
		}
		params.Set("order", strings.Join(terms, ","))
	}
	if q.Limit > 0 {
		params.Set("limit", strconv.Itoa(q.Limit))
	}

	return c.baseURL + "/" + url.PathEscape(q.Table) + "?" + params.Encode(), nil
}

func formatValue(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case int:
		return strconv.Itoa(x)
	default:
		return fmt.Sprint(x)
	}
}
