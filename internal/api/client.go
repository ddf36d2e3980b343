package api

import (
	"context"
	"fmt"
	"time"

	tls_client "github.com/bogdanfinn/tls-client"
	"github.com/bogdanfinn/tls-client/profiles"

	"github.com/diogo/askweb/internal/config"
	"github.com/diogo/askweb/internal/models"
)

// Predictor is the single operation the form controller needs from the backend
type Predictor interface {
	Predict(ctx context.Context, question string) (*models.Answer, error)
}

// ClientInterface is the full client surface used by the commands
type ClientInterface interface {
	Predictor
	Health(ctx context.Context) (string, error)
	BaseURL() string
}

// Ensure PredictClient implements ClientInterface
var _ ClientInterface = (*PredictClient)(nil)

// PredictClient talks to a prediction service over HTTP
type PredictClient struct {
	httpClient tls_client.HttpClient
	baseURL    string
	timeout    time.Duration
}

// ClientOption is a function that configures the client
type ClientOption func(*PredictClient)

// WithBaseURL sets the service root the endpoints are resolved against
func WithBaseURL(baseURL string) ClientOption {
	return func(c *PredictClient) {
		c.baseURL = baseURL
	}
}

// WithTimeout bounds each request. Zero disables the timeout.
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *PredictClient) {
		c.timeout = timeout
	}
}

// WithHTTPClient replaces the underlying transport
func WithHTTPClient(httpClient tls_client.HttpClient) ClientOption {
	return func(c *PredictClient) {
		c.httpClient = httpClient
	}
}

// NewHTTPClient builds the tls-client transport shared by the client and the
// inference backend. A zero timeout means requests may wait indefinitely.
func NewHTTPClient(timeout time.Duration) (tls_client.HttpClient, error) {
	options := []tls_client.HttpClientOption{
		tls_client.WithTimeoutSeconds(int(timeout / time.Second)),
		tls_client.WithClientProfile(profiles.Chrome_120),
	}

	httpClient, err := tls_client.NewHttpClient(tls_client.NewNoopLogger(), options...)
	if err != nil {
		return nil, fmt.Errorf("failed to create HTTP client: %w", err)
	}
	return httpClient, nil
}

// NewClient creates a new PredictClient
func NewClient(opts ...ClientOption) (*PredictClient, error) {
	client := &PredictClient{
		baseURL: models.DefaultBaseURL,
	}

	for _, opt := range opts {
		opt(client)
	}

	if err := config.ValidateBaseURL(client.baseURL); err != nil {
		return nil, err
	}

	if client.httpClient == nil {
		httpClient, err := NewHTTPClient(client.timeout)
		if err != nil {
			return nil, err
		}
		client.httpClient = httpClient
	}

	return client, nil
}

// NewClientFromConfig creates a client for the configured service
func NewClientFromConfig(cfg config.Config, opts ...ClientOption) (*PredictClient, error) {
	base := []ClientOption{
		WithBaseURL(cfg.BaseURL),
		WithTimeout(cfg.Timeout()),
	}
	return NewClient(append(base, opts...)...)
}

// BaseURL returns the service root
func (c *PredictClient) BaseURL() string {
	return c.baseURL
}

// Timeout returns the per-request timeout (0 = none)
func (c *PredictClient) Timeout() time.Duration {
	return c.timeout
}

// GetHTTPClient returns the underlying HTTP client
func (c *PredictClient) GetHTTPClient() tls_client.HttpClient {
	return c.httpClient
}

// endpoint resolves path against the base URL
func (c *PredictClient) endpoint(path string) string {
	return config.JoinURL(c.baseURL, path)
}

// requestContext applies the client timeout, if any, on top of ctx
func (c *PredictClient) requestContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if ctx == nil {
		ctx = context.Background()
	}
	if c.timeout > 0 {
		return context.WithTimeout(ctx, c.timeout)
	}
	return context.WithCancel(ctx)
}
