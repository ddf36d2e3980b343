package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	http "github.com/bogdanfinn/fhttp"
	"github.com/tidwall/gjson"

	apierrors "github.com/diogo/askweb/internal/errors"
	"github.com/diogo/askweb/internal/models"
)

// Predict sends one question to the predict endpoint and returns its answer.
// The question is sent as given; trimming and emptiness checks belong to the
// caller. Nothing is retried.
func (c *PredictClient) Predict(ctx context.Context, question string) (*models.Answer, error) {
	endpoint := c.endpoint(models.PathPredict)

	payload, err := json.Marshal(models.PredictRequest{Question: question})
	if err != nil {
		return nil, fmt.Errorf("failed to build payload: %w", err)
	}

	ctx, cancel := c.requestContext(ctx)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	for key, value := range models.JSONHeaders() {
		req.Header.Set(key, value)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, apierrors.NewNetworkErrorWithEndpoint("predict", endpoint, err)
	}
	defer func() {
		if resp != nil && resp.Body != nil {
			_ = resp.Body.Close()
		}
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, statusError(resp.StatusCode, endpoint, body)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, apierrors.NewNetworkErrorWithEndpoint("read predict response", endpoint, err)
	}

	return parseAnswer(question, body)
}

// statusError builds the error for a non-2xx response. The body's "error"
// field is preferred; anything else falls back to the status code.
func statusError(status int, endpoint string, body []byte) error {
	message := fmt.Sprintf("HTTP error: %d", status)
	if gjson.ValidBytes(body) {
		if msg := gjson.GetBytes(body, PathError).String(); msg != "" {
			message = msg
		}
	}
	return apierrors.NewAPIErrorWithBody(status, endpoint, message, strings.TrimSpace(string(body)))
}

// parseAnswer parses a 2xx predict body
func parseAnswer(question string, body []byte) (*models.Answer, error) {
	if !gjson.ValidBytes(body) {
		return nil, apierrors.NewParseError("response body is not valid JSON", "")
	}

	parsed := gjson.ParseBytes(body)

	answer := &models.Answer{
		Question: question,
		Text:     parsed.Get(PathAnswer).String(),
	}

	// Some backends report failures with a 2xx status and an "error" field.
	// That still renders as "no answer"; the message is only kept for logging.
	if !answer.HasAnswer() {
		answer.ServerError = parsed.Get(PathError).String()
	}

	if echoed := parsed.Get(PathQuestion).String(); echoed != "" {
		answer.Question = echoed
	}

	return answer, nil
}
