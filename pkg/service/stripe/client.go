package stripe

import (
	"context"
	"encoding/base64"
	"maps"
	"slices"
	"strconv"
	"time"

	"github.com/goccy/go-json"
	"github.com/m-mizutani/goerr/v2"
	"github.com/merlin-energy/merlinctl/pkg/domain/interfaces"
	"github.com/merlin-energy/merlinctl/pkg/domain/model"
	"github.com/valyala/fasthttp"
)

const (
	// DefaultBaseURL is the Stripe REST endpoint
	DefaultBaseURL = "https://api.stripe.com/v1"

	defaultTimeout = 30 * time.Second
)

// client implements interfaces.BillingService on the Stripe REST API
type client struct {
	http    *fasthttp.Client
	baseURL string
	auth    string
	timeout time.Duration
}

// Option configures the Stripe client
type Option func(*client)

// WithBaseURL overrides the API endpoint
func WithBaseURL(url string) Option {
	return func(c *client) {
		c.baseURL = url
	}
}

// WithTimeout sets the per-request timeout used when ctx has no deadline
func WithTimeout(d time.Duration) Option {
	return func(c *client) {
		c.timeout = d
	}
}

// New creates a Stripe billing service authenticated by secretKey
func New(secretKey string, opts ...Option) (interfaces.BillingService, error) {
	if secretKey == "" {
		return nil, goerr.Wrap(ErrMissingSecretKey, "Stripe secret key is required")
	}

	c := &client{
		http: &fasthttp.Client{
			Name: "merlinctl",
		},
		baseURL: DefaultBaseURL,
		auth:    "Basic " + base64.StdEncoding.EncodeToString([]byte(secretKey+":")),
		timeout: defaultTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

type productResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type priceResponse struct {
	ID         string `json:"id"`
	Product    string `json:"product"`
	UnitAmount int64  `json:"unit_amount"`
	Recurring  struct {
		Interval string `json:"interval"`
	} `json:"recurring"`
}

type errorResponse struct {
	Error struct {
		Type    string `json:"type"`
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// CreateProduct creates a product
func (c *client) CreateProduct(ctx context.Context, req model.ProductRequest) (*model.Product, error) {
	args := fasthttp.AcquireArgs()
	defer fasthttp.ReleaseArgs(args)

	args.Add("name", req.Name)
	if req.Description != "" {
		args.Add("description", req.Description)
	}
	addMetadata(args, req.Metadata)

	var resp productResponse
	if err := c.post(ctx, "/products", args, req.IdempotencyKey, &resp); err != nil {
		return nil, goerr.Wrap(err, "failed to create product", goerr.V("name", req.Name))
	}

	return &model.Product{ID: resp.ID, Name: resp.Name}, nil
}

// CreatePrice creates a recurring price for an existing product
func (c *client) CreatePrice(ctx context.Context, req model.PriceRequest) (*model.Price, error) {
	args := fasthttp.AcquireArgs()
	defer fasthttp.ReleaseArgs(args)

	args.Add("product", req.ProductID)
	args.Add("unit_amount", strconv.FormatInt(req.UnitAmount, 10))
	args.Add("currency", req.Currency)
	args.Add("recurring[interval]", req.Interval)
	addMetadata(args, req.Metadata)

	var resp priceResponse
	if err := c.post(ctx, "/prices", args, req.IdempotencyKey, &resp); err != nil {
		return nil, goerr.Wrap(err, "failed to create price",
			goerr.V("product", req.ProductID), goerr.V("interval", req.Interval))
	}

	return &model.Price{
		ID:         resp.ID,
		ProductID:  resp.Product,
		UnitAmount: resp.UnitAmount,
		Interval:   resp.Recurring.Interval,
	}, nil
}

func addMetadata(args *fasthttp.Args, metadata map[string]string) {
	for _, k := range slices.Sorted(maps.Keys(metadata)) {
		args.Add("metadata["+k+"]", metadata[k])
	}
}

func (c *client) post(ctx context.Context, path string, form *fasthttp.Args, idempotencyKey string, out any) error {
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(c.baseURL + path)
	req.Header.SetMethod(fasthttp.MethodPost)
	req.Header.SetContentType("application/x-www-form-urlencoded")
	req.Header.Set(fasthttp.HeaderAuthorization, c.auth)
	if idempotencyKey != "" {
		req.Header.Set("Idempotency-Key", idempotencyKey)
	}
	req.SetBody(form.QueryString())

	if err := c.do(ctx, req, resp); err != nil {
		return goerr.Wrap(err, "request to Stripe failed", goerr.V("path", path))
	}

	status := resp.StatusCode()
	if status >= fasthttp.StatusMultipleChoices {
		var apiErr errorResponse
		if err := json.Unmarshal(resp.Body(), &apiErr); err != nil || apiErr.Error.Message == "" {
			return goerr.Wrap(ErrAPI, "unexpected response",
				goerr.V("path", path), goerr.V(StatusKey, status), goerr.V("body", string(resp.Body())))
		}
		return goerr.Wrap(ErrAPI, apiErr.Error.Message,
			goerr.V("path", path),
			goerr.V(StatusKey, status),
			goerr.V("type", apiErr.Error.Type),
			goerr.V("code", apiErr.Error.Code))
	}

	if err := json.Unmarshal(resp.Body(), out); err != nil {
		return goerr.Wrap(err, "failed to decode Stripe response", goerr.V("path", path))
	}
	return nil
}

func (c *client) do(ctx context.Context, req *fasthttp.Request, resp *fasthttp.Response) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if deadline, ok := ctx.Deadline(); ok {
		return c.http.DoDeadline(req, resp, deadline)
	}
	return c.http.DoTimeout(req, resp, c.timeout)
}
