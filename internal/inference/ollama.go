package inference

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	http "github.com/bogdanfinn/fhttp"
	tls_client "github.com/bogdanfinn/tls-client"
	"github.com/tidwall/gjson"

	"github.com/diogo/askweb/internal/api"
	"github.com/diogo/askweb/internal/config"
	apierrors "github.com/diogo/askweb/internal/errors"
	"github.com/diogo/askweb/internal/models"
)

// Ollama API paths
const (
	pathGenerate = "/api/generate"
	pathTags     = "/api/tags"
)

// Defaults for the Ollama backend
const (
	DefaultOllamaURL = "http://localhost:11434"
	DefaultModel     = "qwen3:8b"
	DefaultMaxTokens = 600
)

type generateOptions struct {
	NumPredict int `json:"num_predict"`
}

type generateRequest struct {
	Model   string          `json:"model"`
	Prompt  string          `json:"prompt"`
	Stream  bool            `json:"stream"`
	Raw     bool            `json:"raw"`
	Options generateOptions `json:"options"`
}

// OllamaGenerator runs prompts against an Ollama server
type OllamaGenerator struct {
	httpClient tls_client.HttpClient
	baseURL    string
	model      string
	maxTokens  int
	timeout    time.Duration
}

var _ Generator = (*OllamaGenerator)(nil)

// OllamaOption configures an OllamaGenerator
type OllamaOption func(*OllamaGenerator)

// WithHTTPClient replaces the underlying transport
func WithHTTPClient(httpClient tls_client.HttpClient) OllamaOption {
	return func(g *OllamaGenerator) {
		g.httpClient = httpClient
	}
}

// WithMaxTokens caps the number of generated tokens
func WithMaxTokens(n int) OllamaOption {
	return func(g *OllamaGenerator) {
		if n > 0 {
			g.maxTokens = n
		}
	}
}

// WithTimeout bounds a single generation. Zero disables the timeout.
func WithTimeout(timeout time.Duration) OllamaOption {
	return func(g *OllamaGenerator) {
		g.timeout = timeout
	}
}

// NewOllamaGenerator creates a generator for model served at baseURL
func NewOllamaGenerator(baseURL, model string, opts ...OllamaOption) (*OllamaGenerator, error) {
	if baseURL == "" {
		baseURL = DefaultOllamaURL
	}
	if model == "" {
		model = DefaultModel
	}
	if err := config.ValidateBaseURL(baseURL); err != nil {
		return nil, err
	}

	g := &OllamaGenerator{
		baseURL:   baseURL,
		model:     model,
		maxTokens: DefaultMaxTokens,
	}
	for _, opt := range opts {
		opt(g)
	}

	if g.httpClient == nil {
		httpClient, err := api.NewHTTPClient(g.timeout)
		if err != nil {
			return nil, err
		}
		g.httpClient = httpClient
	}

	return g, nil
}

// Model returns the model name sent with every request
func (g *OllamaGenerator) Model() string {
	return g.model
}

// Generate runs prompt through the model and returns the raw completion.
// The prompt is sent raw so the instruction template is not wrapped again.
func (g *OllamaGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	endpoint := config.JoinURL(g.baseURL, pathGenerate)

	payload, err := json.Marshal(generateRequest{
		Model:   g.model,
		Prompt:  prompt,
		Stream:  false,
		Raw:     true,
		Options: generateOptions{NumPredict: g.maxTokens},
	})
	if err != nil {
		return "", fmt.Errorf("failed to build payload: %w", err)
	}

	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	for key, value := range models.JSONHeaders() {
		req.Header.Set(key, value)
	}

	body, err := g.do(req, "generate")
	if err != nil {
		return "", err
	}

	result := gjson.GetBytes(body, "response")
	if !result.Exists() {
		return "", apierrors.NewParseError("missing response field", "response")
	}
	return result.String(), nil
}

// Ready checks that the server is up and has the model pulled
func (g *OllamaGenerator) Ready(ctx context.Context) error {
	endpoint := config.JoinURL(g.baseURL, pathTags)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	body, err := g.do(req, "list models")
	if err != nil {
		return err
	}

	for _, name := range gjson.GetBytes(body, "models.#.name").Array() {
		if matchesModel(name.String(), g.model) {
			return nil
		}
	}
	return fmt.Errorf("model %q is not available on %s", g.model, g.baseURL)
}

// do sends req and returns the body of a 2xx JSON response
func (g *OllamaGenerator) do(req *http.Request, operation string) ([]byte, error) {
	endpoint := req.URL.String()

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, apierrors.NewNetworkErrorWithEndpoint(operation, endpoint, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, apierrors.NewNetworkErrorWithEndpoint(operation, endpoint, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		message := fmt.Sprintf("HTTP error: %d", resp.StatusCode)
		if msg := gjson.GetBytes(body, "error").String(); msg != "" {
			message = msg
		}
		return nil, apierrors.NewAPIErrorWithBody(resp.StatusCode, endpoint, message, strings.TrimSpace(string(body)))
	}

	if !gjson.ValidBytes(body) {
		return nil, apierrors.NewParseError("response body is not valid JSON", "")
	}
	return body, nil
}

// matchesModel compares Ollama model names, where an omitted tag means "latest"
func matchesModel(available, wanted string) bool {
	if available == wanted {
		return true
	}
	if !strings.Contains(wanted, ":") {
		return available == wanted+":latest"
	}
	return false
}
