package api

import (
	"context"
	"fmt"
	"io"

	http "github.com/bogdanfinn/fhttp"
	"github.com/tidwall/gjson"

	apierrors "github.com/diogo/askweb/internal/errors"
	"github.com/diogo/askweb/internal/models"
)

// Health calls the service root and returns its status message
func (c *PredictClient) Health(ctx context.Context) (string, error) {
	endpoint := c.endpoint(models.PathHealth)

	ctx, cancel := c.requestContext(ctx)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", apierrors.NewNetworkErrorWithEndpoint("health check", endpoint, err)
	}
	defer func() {
		if resp != nil && resp.Body != nil {
			_ = resp.Body.Close()
		}
	}()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if err != nil {
		return "", apierrors.NewNetworkErrorWithEndpoint("read health response", endpoint, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", statusError(resp.StatusCode, endpoint, body)
	}

	if !gjson.ValidBytes(body) {
		return "", apierrors.NewParseError("health response is not valid JSON", "")
	}

	return gjson.GetBytes(body, PathMessage).String(), nil
}
