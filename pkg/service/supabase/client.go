package supabase

import (
	"context"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/m-mizutani/goerr/v2"
	"github.com/merlin-energy/merlinctl/pkg/domain/interfaces"
	"github.com/merlin-energy/merlinctl/pkg/domain/model"
	"github.com/valyala/fasthttp"
)

const (
	// ExecFunction is the RPC function that executes raw SQL on the project
	ExecFunction = "exec_sql"

	defaultTimeout = 30 * time.Second
)

// client implements interfaces.SQLBackend on the Supabase PostgREST API
type client struct {
	http    *fasthttp.Client
	baseURL string
	apiKey  string
	timeout time.Duration
}

// Option configures the Supabase client
type Option func(*client)

// WithTimeout sets the per-request timeout used when ctx has no deadline
func WithTimeout(d time.Duration) Option {
	return func(c *client) {
		c.timeout = d
	}
}

// New creates a Supabase SQL backend for the project at projectURL
func New(projectURL, apiKey string, opts ...Option) (interfaces.SQLBackend, error) {
	if projectURL == "" {
		return nil, goerr.Wrap(ErrMissingConfig, "Supabase URL is required")
	}
	if apiKey == "" {
		return nil, goerr.Wrap(ErrMissingConfig, "Supabase API key is required")
	}
	if _, err := url.ParseRequestURI(projectURL); err != nil {
		return nil, goerr.Wrap(err, "invalid Supabase URL", goerr.V("url", projectURL))
	}

	c := &client{
		http: &fasthttp.Client{
			Name: "merlinctl",
		},
		baseURL: strings.TrimRight(projectURL, "/") + "/rest/v1",
		apiKey:  apiKey,
		timeout: defaultTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details"`
	Hint    string `json:"hint"`
}

// Exec runs statement through the exec_sql RPC function
func (c *client) Exec(ctx context.Context, statement string) ([]model.Row, error) {
	body, err := json.Marshal(map[string]string{"sql": statement})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to encode RPC body")
	}

	raw, err := c.request(ctx, fasthttp.MethodPost, "/rpc/"+ExecFunction, body)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to execute statement", goerr.V("function", ExecFunction))
	}

	return decodeRows(raw)
}

// Select reads rows through the table endpoint using PostgREST filters
func (c *client) Select(ctx context.Context, query model.VerifyQuery) ([]model.Row, error) {
	params := url.Values{}
	params.Set("select", strings.Join(query.Columns, ","))
	if query.Filter.Column != "" {
		params.Set(query.Filter.Column, "eq."+query.Filter.Value)
	}
	if query.Limit > 0 {
		params.Set("limit", strconv.Itoa(query.Limit))
	}

	raw, err := c.request(ctx, fasthttp.MethodGet, "/"+url.PathEscape(query.Table)+"?"+params.Encode(), nil)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to select rows", goerr.V("table", query.Table))
	}

	return decodeRows(raw)
}

// Close is a no-op; the HTTP client keeps no session
func (c *client) Close() error {
	return nil
}

func (c *client) request(ctx context.Context, method, path string, body []byte) ([]byte, error) {
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(c.baseURL + path)
	req.Header.SetMethod(method)
	req.Header.Set("apikey", c.apiKey)
	req.Header.Set(fasthttp.HeaderAuthorization, "Bearer "+c.apiKey)
	req.Header.Set(fasthttp.HeaderAccept, "application/json")
	if body != nil {
		req.Header.SetContentType("application/json")
		req.SetBody(body)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var err error
	if deadline, ok := ctx.Deadline(); ok {
		err = c.http.DoDeadline(req, resp, deadline)
	} else {
		err = c.http.DoTimeout(req, resp, c.timeout)
	}
	if err != nil {
		return nil, goerr.Wrap(err, "request to Supabase failed", goerr.V("path", path))
	}

	status := resp.StatusCode()
	if status >= fasthttp.StatusMultipleChoices {
		var e apiError
		if err := json.Unmarshal(resp.Body(), &e); err != nil || e.Message == "" {
			return nil, goerr.Wrap(ErrAPI, "unexpected response",
				goerr.V(StatusKey, status), goerr.V("body", string(resp.Body())))
		}
		return nil, goerr.Wrap(ErrAPI, e.Message,
			goerr.V(StatusKey, status),
			goerr.V("code", e.Code),
			goerr.V("details", e.Details),
			goerr.V("hint", e.Hint))
	}

	return append([]byte(nil), resp.Body()...), nil
}

// decodeRows accepts an array of objects or a single object. Any other body,
// such as a command tag or a row count returned by exec_sql, yields no rows.
func decodeRows(raw []byte) ([]model.Row, error) {
	trimmed := strings.TrimSpace(string(raw))
	if !strings.HasPrefix(trimmed, "{") && !strings.HasPrefix(trimmed, "[") {
		return nil, nil
	}

	if strings.HasPrefix(trimmed, "{") {
		var row model.Row
		if err := json.Unmarshal(raw, &row); err != nil {
			return nil, goerr.Wrap(err, "failed to decode row")
		}
		return []model.Row{row}, nil
	}

	var rows []model.Row
	if err := json.Unmarshal(raw, &rows); err != nil {
		return nil, goerr.Wrap(err, "failed to decode rows")
	}
	return rows, nil
}
