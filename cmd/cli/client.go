package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/iho/finledger/internal/adapter/http/dto"
	"github.com/iho/finledger/internal/adapter/http/middleware"
)

// apiError is a non-2xx API response.
type apiError struct {
	Status int
	Body   dto.ErrorResponse
	Raw    string
}

func (e *apiError) Error() string {
	if e.Body.Error == "" {
		return fmt.Sprintf("request failed (status %d): %s", e.Status, strings.TrimSpace(e.Raw))
	}
	if e.Body.Message == "" {
		return fmt.Sprintf("%s (status %d)", e.Body.Error, e.Status)
	}
	return fmt.Sprintf("%s: %s (status %d)", e.Body.Error, e.Body.Message, e.Status)
}

type apiClient struct {
	opts *options
	http *http.Client
}

func newAPIClient(opts *options) *apiClient {
	return &apiClient{
		opts: opts,
		http: &http.Client{Timeout: opts.timeout},
	}
}

// do sends body as JSON and decodes a 2xx response into out.
func (c *apiClient) do(ctx context.Context, method, path string, body any, headers map[string]string, out any) (int, error) {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return 0, err
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, strings.TrimRight(c.opts.baseURL, "/")+path, reader)
	if err != nil {
		return 0, err
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.opts.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.opts.token)
	} else if c.opts.accountID != "" {
		req.Header.Set(middleware.AccountIDHeader, c.opts.accountID)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, fmt.Errorf("error making request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, err
	}

	if resp.StatusCode >= 300 {
		apiErr := &apiError{Status: resp.StatusCode, Raw: string(raw)}
		_ = json.Unmarshal(raw, &apiErr.Body)
		return resp.StatusCode, apiErr
	}

	if out != nil {
		if err := json.Unmarshal(raw, out); err != nil {
			return resp.StatusCode, fmt.Errorf("failed to parse response: %w", err)
		}
	}

	return resp.StatusCode, nil
}
