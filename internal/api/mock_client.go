package api

import (
	"context"
	"sync"

	"github.com/diogo/askweb/internal/models"
)

// MockClient is a mock implementation of ClientInterface for testing
type MockClient struct {
	// Mock return values
	PredictVal *models.Answer
	PredictErr error
	HealthVal  string
	HealthErr  error
	BaseURLVal string

	// PredictFunc, when set, replaces PredictVal/PredictErr
	PredictFunc func(ctx context.Context, question string) (*models.Answer, error)

	mu        sync.Mutex
	questions []string
}

// Ensure MockClient implements ClientInterface
var _ ClientInterface = (*MockClient)(nil)

// Predict records the question and returns the canned result
func (m *MockClient) Predict(ctx context.Context, question string) (*models.Answer, error) {
	m.mu.Lock()
	m.questions = append(m.questions, question)
	m.mu.Unlock()

	if m.PredictFunc != nil {
		return m.PredictFunc(ctx, question)
	}
	return m.PredictVal, m.PredictErr
}

// Health returns the canned health result
func (m *MockClient) Health(ctx context.Context) (string, error) {
	return m.HealthVal, m.HealthErr
}

// BaseURL returns BaseURLVal or the default
func (m *MockClient) BaseURL() string {
	if m.BaseURLVal == "" {
		return models.DefaultBaseURL
	}
	return m.BaseURLVal
}

// Questions returns every question passed to Predict, in order
func (m *MockClient) Questions() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.questions))
	copy(out, m.questions)
	return out
}

// PredictCalls returns how many times Predict was called
func (m *MockClient) PredictCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.questions)
}
