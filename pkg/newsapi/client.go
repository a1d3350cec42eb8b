package newsapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/samvad-hq/samvad-newsapi/pkg/httpclient"
)

const (
	// DefaultBaseURL is the NewsAPI v2 service root.
	DefaultBaseURL = "https://newsapi.org/v2"
	// DefaultCountry is the country filter used until WithCountry is called.
	DefaultCountry = "us"

	defaultTimeout = 30 * time.Second
	maxBodyBytes   = 8 << 20 // 8 MiB
)

// Option configures a Client at construction time.
type Option func(*Client)

// WithBaseURL overrides the service root, e.g. for a local stub.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		c.baseURL = baseURL
	}
}

// WithHTTPClient replaces the default resty transport.
func WithHTTPClient(client httpclient.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.http = client
		}
	}
}

// WithTimeout sets the timeout of the default transport. It has no effect
// when WithHTTPClient supplies the transport.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.timeout = timeout
	}
}

// Client issues NewsAPI requests. Configure it with WithEndpoint and
// WithCountry before fetching; every fetch reads the configuration current at
// the time of the call. Configuration changes must not run concurrently with
// Fetch on the same Client.
type Client struct {
	apiKey   string
	endpoint Endpoint
	country  string
	baseURL  string
	timeout  time.Duration
	http     httpclient.Client
}

// New returns a client for the given API key targeting top headlines in the
// US. The key is not validated locally; the service rejects bad keys.
func New(apiKey string, opts ...Option) *Client {
	c := &Client{
		apiKey:   apiKey,
		endpoint: TopHeadlines,
		country:  DefaultCountry,
		baseURL:  DefaultBaseURL,
		timeout:  defaultTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.http == nil {
		c.http = httpclient.NewRestyClient(c.timeout)
	}
	return c
}

// WithEndpoint selects the endpoint used by subsequent fetches.
func (c *Client) WithEndpoint(endpoint Endpoint) *Client {
	c.endpoint = endpoint
	return c
}

// WithCountry sets the country query parameter used by subsequent fetches.
func (c *Client) WithCountry(code string) *Client {
	c.country = code
	return c
}

// Endpoint returns the currently selected endpoint.
func (c *Client) Endpoint() Endpoint { return c.endpoint }

// Country returns the currently configured country code.
func (c *Client) Country() string { return c.country }

// Result carries the outcome of FetchAsync.
type Result struct {
	Response *Response
	Err      error
}

// Fetch performs one request and blocks until the response has been
// validated.
func (c *Client) Fetch(ctx context.Context) (*Response, error) {
	req, err := c.prepare()
	if err != nil {
		return nil, err
	}
	return c.execute(ctx, req)
}

// FetchAsync starts one request and returns immediately. The request URL and
// headers are fixed before FetchAsync returns, so later configuration changes
// do not affect it. The channel delivers exactly one Result and is then closed.
func (c *Client) FetchAsync(ctx context.Context) <-chan Result {
	out := make(chan Result, 1)

	req, err := c.prepare()
	if err != nil {
		out <- Result{Err: err}
		close(out)
		return out
	}

	go func() {
		defer close(out)
		resp, err := c.execute(ctx, req)
		out <- Result{Response: resp, Err: err}
	}()
	return out
}

type request struct {
	url     string
	headers map[string]string
}

// prepare snapshots the configuration into an outbound request.
func (c *Client) prepare() (request, error) {
	u, err := c.buildRequestURL()
	if err != nil {
		return request{}, err
	}
	return request{
		url:     u,
		headers: map[string]string{"Authorization": c.apiKey},
	}, nil
}

func (c *Client) buildRequestURL() (string, error) {
	base, err := url.Parse(c.baseURL)
	if err != nil {
		return "", wrapErr(KindURLConstruction, err)
	}
	if base.Scheme == "" || base.Host == "" {
		return "", wrapErr(KindURLConstruction, fmt.Errorf("base url %q has no scheme or host", c.baseURL))
	}

	segment := c.endpoint.Path()
	if segment == "" {
		return "", wrapErr(KindURLConstruction, fmt.Errorf("no path for endpoint %s", c.endpoint))
	}

	u := base.JoinPath(segment)
	u.RawQuery = url.Values{"country": {c.country}}.Encode()
	return u.String(), nil
}

// execute is the single transport-and-validation path behind Fetch and
// FetchAsync.
func (c *Client) execute(ctx context.Context, req request) (*Response, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	resp, err := c.http.Get(ctx, req.url, req.headers)
	if err != nil {
		return nil, wrapErr(KindTransport, err)
	}

	body, err := httpclient.ReadAll(resp, maxBodyBytes)
	if err != nil {
		return nil, &Error{Kind: KindBodyRead, StatusCode: resp.StatusCode(), Err: err}
	}

	return decodeResponse(resp.StatusCode(), body)
}

// decodeResponse turns a raw payload into a validated Response. A non-2xx
// status whose body is not a NewsAPI envelope is a transport failure; a 2xx
// body without a status or with incomplete articles fails to deserialize.
func decodeResponse(status int, body []byte) (*Response, error) {
	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		if !isSuccess(status) {
			return nil, &Error{Kind: KindTransport, StatusCode: status, Err: fmt.Errorf("unexpected status %d", status)}
		}
		return nil, &Error{Kind: KindDeserialization, StatusCode: status, Err: err}
	}
	if env.Status == nil {
		if !isSuccess(status) {
			return nil, &Error{Kind: KindTransport, StatusCode: status, Err: fmt.Errorf("unexpected status %d", status)}
		}
		return nil, &Error{Kind: KindDeserialization, StatusCode: status, Err: errors.New("missing status field")}
	}

	out := env.Response
	out.Status = *env.Status
	if !out.OK() {
		rejected := MapApplicationError(out.Code)
		rejected.Message = out.Message
		rejected.StatusCode = status
		return nil, rejected
	}
	if err := out.validate(); err != nil {
		return nil, &Error{Kind: KindDeserialization, StatusCode: status, Err: err}
	}
	return &out, nil
}

func isSuccess(status int) bool {
	return status >= http.StatusOK && status < http.StatusMultipleChoices
}

// AsError extracts the *Error from err, if any.
func AsError(err error) (*Error, bool) {
	var target *Error
	if errors.As(err, &target) {
		return target, true
	}
	return nil, false
}
