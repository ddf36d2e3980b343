package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/diogo/askweb/internal/inference"
	"github.com/diogo/askweb/internal/models"
)

type fakeGenerator struct {
	mu       sync.Mutex
	output   string
	err      error
	readyErr error
	prompts  []string
	panics   bool
}

func (f *fakeGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	if f.panics {
		panic("generator exploded")
	}
	f.mu.Lock()
	f.prompts = append(f.prompts, prompt)
	f.mu.Unlock()
	return f.output, f.err
}

func (f *fakeGenerator) Ready(ctx context.Context) error {
	return f.readyErr
}

func newTestServer(gen *fakeGenerator) *Server {
	return New(gen, Config{Port: DefaultPort}, WithLogOutput(io.Discard))
}

func do(t *testing.T, s *Server, req *http.Request) (int, map[string]string) {
	t.Helper()
	resp, err := s.App().Test(req, -1)
	if err != nil {
		t.Fatalf("app.Test() error = %v", err)
	}
	defer resp.Body.Close()

	body := map[string]string{}
	data, _ := io.ReadAll(resp.Body)
	if len(data) > 0 {
		if err := json.Unmarshal(data, &body); err != nil {
			t.Fatalf("response is not a JSON object: %s", data)
		}
	}
	return resp.StatusCode, body
}

func predictRequest(body string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, models.PathPredict, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestRoot(t *testing.T) {
	status, body := do(t, newTestServer(&fakeGenerator{}), httptest.NewRequest(http.MethodGet, "/", nil))
	if status != http.StatusOK {
		t.Errorf("status = %d", status)
	}
	if body["message"] != MessageRunning {
		t.Errorf("message = %q", body["message"])
	}
}

func TestPredict(t *testing.T) {
	tests := []struct {
		name       string
		gen        *fakeGenerator
		body       string
		wantStatus int
		wantAnswer string
		wantError  string
	}{
		{
			name:       "answer",
			gen:        &fakeGenerator{output: inference.FormatPrompt("q") + " Paris "},
			body:       `{"question":"  q  "}`,
			wantStatus: http.StatusOK,
			wantAnswer: "Paris",
		},
		{
			name:       "empty question",
			gen:        &fakeGenerator{},
			body:       `{"question":"   "}`,
			wantStatus: http.StatusBadRequest,
			wantError:  "question cannot be empty",
		},
		{
			name:       "malformed body",
			gen:        &fakeGenerator{},
			body:       `{"question":`,
			wantStatus: http.StatusBadRequest,
			wantError:  MessageInvalidBody,
		},
		{
			name:       "model not loaded",
			gen:        &fakeGenerator{readyErr: errors.New("connection refused")},
			body:       `{"question":"q"}`,
			wantStatus: http.StatusOK,
			wantError:  MessageModelNotLoaded,
		},
		{
			name:       "inference failure",
			gen:        &fakeGenerator{err: errors.New("out of memory")},
			body:       `{"question":"q"}`,
			wantStatus: http.StatusOK,
			wantError:  MessageInferenceError + "out of memory",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := do(t, newTestServer(tt.gen), predictRequest(tt.body))
			if status != tt.wantStatus {
				t.Errorf("status = %d, want %d", status, tt.wantStatus)
			}
			if body["answer"] != tt.wantAnswer {
				t.Errorf("answer = %q, want %q", body["answer"], tt.wantAnswer)
			}
			if body["error"] != tt.wantError {
				t.Errorf("error = %q, want %q", body["error"], tt.wantError)
			}
		})
	}
}

func TestPredict_EchoesTrimmedQuestionAndPrompt(t *testing.T) {
	gen := &fakeGenerator{output: "answer"}
	_, body := do(t, newTestServer(gen), predictRequest(`{"question":"  ما هو القانون؟ "}`))

	if body["question"] != "ما هو القانون؟" {
		t.Errorf("question = %q", body["question"])
	}
	if len(gen.prompts) != 1 || gen.prompts[0] != inference.FormatPrompt("ما هو القانون؟") {
		t.Errorf("prompts = %q", gen.prompts)
	}
}

func TestPredict_RecoversFromPanic(t *testing.T) {
	s := newTestServer(&fakeGenerator{panics: true})
	resp, err := s.App().Test(predictRequest(`{"question":"q"}`), -1)
	if err != nil {
		t.Fatalf("app.Test() error = %v", err)
	}
	if resp.StatusCode != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", resp.StatusCode)
	}
}

func TestReady(t *testing.T) {
	status, body := do(t, newTestServer(&fakeGenerator{}), httptest.NewRequest(http.MethodGet, "/ready", nil))
	if status != http.StatusOK || body["status"] != "ready" {
		t.Errorf("ready: %d %v", status, body)
	}

	gen := &fakeGenerator{readyErr: errors.New("model missing")}
	status, body = do(t, newTestServer(gen), httptest.NewRequest(http.MethodGet, "/ready", nil))
	if status != http.StatusServiceUnavailable || body["details"] != "model missing" {
		t.Errorf("not ready: %d %v", status, body)
	}
}

func TestCORSAndRequestID(t *testing.T) {
	s := newTestServer(&fakeGenerator{})

	req := httptest.NewRequest(http.MethodOptions, models.PathPredict, nil)
	req.Header.Set("Origin", "http://127.0.0.1:5500")
	req.Header.Set("Access-Control-Request-Method", "POST")
	resp, err := s.App().Test(req, -1)
	if err != nil {
		t.Fatal(err)
	}
	if got := resp.Header.Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("Access-Control-Allow-Origin = %q, want *", got)
	}

	resp, err = s.App().Test(httptest.NewRequest(http.MethodGet, "/", nil), -1)
	if err != nil {
		t.Fatal(err)
	}
	if len(resp.Header.Get("X-Request-ID")) != 36 {
		t.Errorf("X-Request-ID = %q, want a UUID", resp.Header.Get("X-Request-ID"))
	}
}

func TestLoadConfig(t *testing.T) {
	t.Setenv(EnvPort, "9000")
	t.Setenv(EnvOllamaURL, "http://gpu:11434")
	t.Setenv(EnvOllamaModel, "law:latest")
	t.Setenv(EnvMaxNewTokens, "nope")

	cfg := LoadConfig()
	if cfg.Addr() != ":9000" || cfg.OllamaURL != "http://gpu:11434" || cfg.OllamaModel != "law:latest" {
		t.Errorf("unexpected config: %+v", cfg)
	}
	if cfg.MaxNewTokens != inference.DefaultMaxTokens {
		t.Errorf("invalid MAX_NEW_TOKENS should fall back, got %d", cfg.MaxNewTokens)
	}
}
