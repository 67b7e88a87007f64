// Package client is a thin wrapper over the MyInvois REST API.
//
// Every call obtains an access token through the OAuth2 client-credentials
// flow (cached in a TokenStore), sends one request and decodes the JSON
// response. Non-2xx responses are returned as *model.APIError. The client
// does not retry.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/oauth2/clientcredentials"

	"github.com/rezonia/myinvois/internal/model"
)

// Environment selects the MyInvois deployment
type Environment string

const (
	Sandbox    Environment = "sandbox"
	Production Environment = "production"
)

const (
	sandboxBaseURL    = "https://preprod-api.myinvois.hasil.gov.my"
	productionBaseURL = "https://api.myinvois.hasil.gov.my"

	// DefaultTimeout bounds a single HTTP request
	DefaultTimeout = 30 * time.Second
)

// BaseURL returns the API and identity service root of the environment
func (e Environment) BaseURL() string {
	if e == Production {
		return productionBaseURL
	}
	return sandboxBaseURL
}

// ParseEnvironment parses "sandbox" or "production"
func ParseEnvironment(s string) (Environment, error) {
	switch Environment(strings.ToLower(strings.TrimSpace(s))) {
	case Sandbox, "":
		return Sandbox, nil
	case Production:
		return Production, nil
	default:
		return "", fmt.Errorf("unknown environment %q: want sandbox or production", s)
	}
}

// Client calls the MyInvois API for one taxpayer or intermediary
type Client struct {
	clientID     string
	clientSecret string
	onBehalfOf   string

	baseURL     string
	identityURL string
	timeout     time.Duration

	httpClient *http.Client
	logger     *zap.Logger
	tokens     TokenStore

	// serializes token fetches so concurrent calls share one login
	tokenMu sync.Mutex
}

// Option configures a Client
type Option func(*Client)

// WithEnvironment sets base and identity URLs for env
func WithEnvironment(env Environment) Option {
	return func(c *Client) {
		c.baseURL = env.BaseURL()
		c.identityURL = env.BaseURL()
	}
}

// WithBaseURL overrides the API root
func WithBaseURL(u string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(u, "/")
	}
}

// WithIdentityURL overrides the identity service root serving /connect/token
func WithIdentityURL(u string) Option {
	return func(c *Client) {
		c.identityURL = strings.TrimRight(u, "/")
	}
}

// WithHTTPClient sets the HTTP client used for API and token requests
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithLogger sets the logger
func WithLogger(l *zap.Logger) Option {
	return func(c *Client) {
		c.logger = l
	}
}

// WithTokenStore shares access tokens across clients or processes
func WithTokenStore(s TokenStore) Option {
	return func(c *Client) {
		c.tokens = s
	}
}

// WithOnBehalfOf switches to intermediary mode for the taxpayer with this TIN
func WithOnBehalfOf(tin string) Option {
	return func(c *Client) {
		c.onBehalfOf = tin
	}
}

// WithTimeout bounds each request
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.timeout = d
	}
}

// New creates a client for the sandbox unless an option says otherwise
func New(clientID, clientSecret string, opts ...Option) *Client {
	c := &Client{
		clientID:     clientID,
		clientSecret: clientSecret,
		baseURL:      sandboxBaseURL,
		identityURL:  sandboxBaseURL,
		timeout:      DefaultTimeout,
		logger:       zap.NewNop(),
		tokens:       NewMemoryTokenStore(),
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.httpClient == nil {
		c.httpClient = &http.Client{Timeout: c.timeout}
	}

	return c
}

// OnBehalfOf returns the represented taxpayer TIN, empty in taxpayer mode
func (c *Client) OnBehalfOf() string {
	return c.onBehalfOf
}

func (c *Client) oauthConfig() *clientcredentials.Config {
	return &clientcredentials.Config{
		ClientID:     c.clientID,
		ClientSecret: c.clientSecret,
		TokenURL:     c.identityURL + "/connect/token",
		Scopes:       []string{"InvoicingAPI"},
		AuthStyle:    authStyle,
	}
}

// request describes one API call
type request struct {
	method string
	path   string
	query  url.Values
	body   interface{}
}

// do sends req and decodes a 2xx JSON body into out (when non-nil)
func (c *Client) do(ctx context.Context, req request, out interface{}) error {
	resp, err := c.send(ctx, req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := c.checkResponse(req, resp); err != nil {
		return err
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil && err != io.EOF {
		return fmt.Errorf("decode %s response: %w", req.path, err)
	}
	return nil
}

func (c *Client) send(ctx context.Context, req request) (*http.Response, error) {
	tok, err := c.Token(ctx)
	if err != nil {
		return nil, err
	}

	u := c.baseURL + req.path
	if len(req.query) > 0 {
		u += "?" + req.query.Encode()
	}

	var body io.Reader
	if req.body != nil {
		data, err := json.Marshal(req.body)
		if err != nil {
			return nil, fmt.Errorf("encode %s request: %w", req.path, err)
		}
		body = bytes.NewReader(data)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	httpReq, err := http.NewRequestWithContext(ctx, req.method, u, body)
	if err != nil {
		cancel()
		return nil, err
	}
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("Accept-Language", "en")
	if body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	tok.SetAuthHeader(httpReq)

	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		cancel()
		c.logger.Warn("myinvois request failed",
			zap.String("method", req.method),
			zap.String("path", req.path),
			zap.Error(err),
		)
		return nil, fmt.Errorf("%s %s: %w", req.method, req.path, err)
	}

	c.logger.Debug("myinvois request",
		zap.String("method", req.method),
		zap.String("path", req.path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("latency", time.Since(start)),
	)

	resp.Body = &cancelOnClose{ReadCloser: resp.Body, cancel: cancel}
	return resp, nil
}

func (c *Client) checkResponse(req request, resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	apiErr := parseAPIError(resp.StatusCode, body)

	c.logger.Warn("myinvois api error",
		zap.String("method", req.method),
		zap.String("path", req.path),
		zap.Int("status", resp.StatusCode),
		zap.String("code", apiErr.Code),
		zap.String("message", apiErr.Message),
	)
	return apiErr
}

// cancelOnClose releases the request context once the body is consumed
type cancelOnClose struct {
	io.ReadCloser
	cancel context.CancelFunc
}

func (c *cancelOnClose) Close() error {
	err := c.ReadCloser.Close()
	c.cancel()
	return err
}

// errorBody covers the two error shapes the platform returns: the standard
// {code, message, details} object and the {errorCode, error, innerError}
// validation object.
type errorBody struct {
	Code       string                 `json:"code"`
	Message    string                 `json:"message"`
	Target     string                 `json:"target"`
	Details    []model.APIErrorDetail `json:"details"`
	ErrorCode  string                 `json:"errorCode"`
	Error      string                 `json:"error"`
	InnerError []struct {
		ErrorCode    string `json:"errorCode"`
		Error        string `json:"error"`
		PropertyPath string `json:"propertyPath"`
	} `json:"innerError"`
}

func parseAPIError(status int, body []byte) *model.APIError {
	apiErr := model.NewAPIError(status, "", http.StatusText(status))
	if len(bytes.TrimSpace(body)) == 0 {
		return apiErr
	}

	var envelope struct {
		Error json.RawMessage `json:"error"`
		// token endpoint style
		ErrorDescription string `json:"error_description"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		apiErr.Message = strings.TrimSpace(string(body))
		return apiErr
	}

	var code string
	if err := json.Unmarshal(envelope.Error, &code); err == nil {
		apiErr.Code = code
		if envelope.ErrorDescription != "" {
			apiErr.Message = envelope.ErrorDescription
		}
		return apiErr
	}

	// some endpoints return the error object unwrapped
	raw := []byte(envelope.Error)
	if len(raw) == 0 {
		raw = body
	}

	var eb errorBody
	if err := json.Unmarshal(raw, &eb); err != nil {
		return apiErr
	}

	apiErr.Code = firstNonEmpty(eb.Code, eb.ErrorCode)
	if msg := firstNonEmpty(eb.Message, eb.Error); msg != "" {
		apiErr.Message = msg
	}
	apiErr.Target = eb.Target
	apiErr.Details = eb.Details
	for _, inner := range eb.InnerError {
		apiErr.Details = append(apiErr.Details, model.APIErrorDetail{
			Code:    inner.ErrorCode,
			Message: inner.Error,
			Target:  inner.PropertyPath,
		})
	}
	return apiErr
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
