package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/oauth2"
)

// The identity service expects client_id and client_secret as form fields
const authStyle = oauth2.AuthStyleInParams

// headerOnBehalfOf names the taxpayer an intermediary acts for
const headerOnBehalfOf = "onbehalfof"

// TokenStore caches access tokens. Get returns nil without error on a miss.
type TokenStore interface {
	Get(ctx context.Context, key string) (*oauth2.Token, error)
	Set(ctx context.Context, key string, tok *oauth2.Token) error
}

// Token returns a valid access token, logging in when the store has none
func (c *Client) Token(ctx context.Context) (*oauth2.Token, error) {
	key := c.tokenKey()
	if tok := c.cachedToken(ctx, key); tok != nil {
		return tok, nil
	}

	c.tokenMu.Lock()
	defer c.tokenMu.Unlock()

	// another caller may have logged in while we waited
	if tok := c.cachedToken(ctx, key); tok != nil {
		return tok, nil
	}

	tok, err := c.oauthConfig().Token(c.tokenContext(ctx))
	if err != nil {
		return nil, tokenError(err)
	}

	if err := c.tokens.Set(ctx, key, tok); err != nil {
		c.logger.Warn("token store write failed", zap.String("key", key), zap.Error(err))
	}

	c.logger.Info("obtained access token",
		zap.String("client_id", c.clientID),
		zap.String("on_behalf_of", c.onBehalfOf),
		zap.Time("expiry", tok.Expiry),
	)
	return tok, nil
}

func (c *Client) tokenKey() string {
	subject := c.onBehalfOf
	if subject == "" {
		subject = "self"
	}
	return c.clientID + ":" + subject
}

func (c *Client) cachedToken(ctx context.Context, key string) *oauth2.Token {
	tok, err := c.tokens.Get(ctx, key)
	if err != nil {
		c.logger.Warn("token store read failed", zap.String("key", key), zap.Error(err))
		return nil
	}
	if tok == nil || !tok.Valid() {
		return nil
	}
	return tok
}

// tokenContext hands the oauth2 package our HTTP client, adding the
// onbehalfof header in intermediary mode.
func (c *Client) tokenContext(ctx context.Context) context.Context {
	hc := c.httpClient
	if c.onBehalfOf != "" {
		base := hc.Transport
		if base == nil {
			base = http.DefaultTransport
		}
		hc = &http.Client{
			Timeout:   hc.Timeout,
			Transport: &headerTransport{base: base, key: headerOnBehalfOf, value: c.onBehalfOf},
		}
	}
	return context.WithValue(ctx, oauth2.HTTPClient, hc)
}

func tokenError(err error) error {
	var re *oauth2.RetrieveError
	if !errors.As(err, &re) {
		return fmt.Errorf("obtain access token: %w", err)
	}

	status := 0
	if re.Response != nil {
		status = re.Response.StatusCode
	}
	apiErr := parseAPIError(status, re.Body)
	if apiErr.Code == "" {
		apiErr.Code = re.ErrorCode
	}
	return fmt.Errorf("obtain access token: %w", apiErr)
}

type headerTransport struct {
	base  http.RoundTripper
	key   string
	value string
}

func (t *headerTransport) RoundTrip(r *http.Request) (*http.Response, error) {
	r = r.Clone(r.Context())
	r.Header.Set(t.key, t.value)
	return t.base.RoundTrip(r)
}

// MemoryTokenStore keeps tokens in process memory
type MemoryTokenStore struct {
	mu     sync.RWMutex
	tokens map[string]*oauth2.Token
}

// NewMemoryTokenStore creates an empty in-memory store
func NewMemoryTokenStore() *MemoryTokenStore {
	return &MemoryTokenStore{tokens: make(map[string]*oauth2.Token)}
}

// Get returns the token for key while it is still valid
func (s *MemoryTokenStore) Get(_ context.Context, key string) (*oauth2.Token, error) {
	s.mu.RLock()
	tok, ok := s.tokens[key]
	s.mu.RUnlock()

	if !ok {
		return nil, nil
	}
	if !tok.Valid() {
		s.mu.Lock()
		delete(s.tokens, key)
		s.mu.Unlock()
		return nil, nil
	}
	return tok, nil
}

// Set stores tok under key
func (s *MemoryTokenStore) Set(_ context.Context, key string, tok *oauth2.Token) error {
	s.mu.Lock()
	s.tokens[key] = tok
	s.mu.Unlock()
	return nil
}
