package myinvois

import (
	"github.com/redis/go-redis/v9"

	"github.com/rezonia/myinvois/internal/client"
)

// Re-export client types
type (
	Client             = client.Client
	ClientOption       = client.Option
	Environment        = client.Environment
	TokenStore         = client.TokenStore
	DocumentSubmission = client.DocumentSubmission
	SubmissionResponse = client.SubmissionResponse
	SearchParams       = client.SearchParams
	RecentParams       = client.RecentParams
	NotificationParams = client.NotificationParams
)

const (
	Sandbox    = client.Sandbox
	Production = client.Production
)

// Re-export client options
var (
	WithEnvironment = client.WithEnvironment
	WithBaseURL     = client.WithBaseURL
	WithIdentityURL = client.WithIdentityURL
	WithHTTPClient  = client.WithHTTPClient
	WithLogger      = client.WithLogger
	WithTokenStore  = client.WithTokenStore
	WithOnBehalfOf  = client.WithOnBehalfOf
	WithTimeout     = client.WithTimeout
)

// NewClient creates a platform client for a taxpayer or intermediary system
func NewClient(clientID, clientSecret string, opts ...ClientOption) *Client {
	return client.New(clientID, clientSecret, opts...)
}

// NewMemoryTokenStore caches tokens in process
func NewMemoryTokenStore() TokenStore { return client.NewMemoryTokenStore() }

// NewRedisTokenStore shares tokens between processes. An empty prefix uses
// the default key prefix.
func NewRedisTokenStore(rdb redis.UniversalClient, prefix string) TokenStore {
	return client.NewRedisTokenStore(rdb, prefix)
}
