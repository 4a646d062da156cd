package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/alfredjeanlab/audit/internal/model"
)

const tenantPath = "/_/tenant"

// HTTPClient implements TenantClient against the audit module's HTTP API.
type HTTPClient struct {
	baseURL    string
	token      string
	caller     Caller
	httpClient *http.Client
}

// NewHTTPClient creates a new HTTP client targeting the given base URL
// (e.g. "http://localhost:8081") on behalf of caller. When token is
// non-empty, an Authorization header is set on every request.
func NewHTTPClient(baseURL, token string, caller Caller) *HTTPClient {
	return &HTTPClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      token,
		caller:     caller,
		httpClient: &http.Client{},
	}
}

// Close is a no-op for the HTTP client.
func (c *HTTPClient) Close() error { return nil }

func (c *HTTPClient) InitTenant(ctx context.Context, attrs *model.TenantAttributes) (*model.Result, error) {
	if attrs == nil {
		attrs = &model.TenantAttributes{}
	}
	return c.do(ctx, http.MethodPost, tenantPath, attrs)
}

func (c *HTTPClient) DeleteTenant(ctx context.Context) (*model.Result, error) {
	return c.do(ctx, http.MethodDelete, tenantPath, nil)
}

func (c *HTTPClient) TenantExists(ctx context.Context) (bool, error) {
	res, err := c.do(ctx, http.MethodGet, tenantPath, nil)
	if err != nil {
		return false, err
	}
	var exists bool
	if err := json.Unmarshal(res.Body, &exists); err != nil {
		return false, fmt.Errorf("decoding response: %w", err)
	}
	return exists, nil
}

func (c *HTTPClient) Health(ctx context.Context) (string, error) {
	res, err := c.do(ctx, http.MethodGet, "/admin/health", nil)
	if err != nil {
		return "", err
	}
	var resp struct {
		Status string `json:"status"`
	}
	if err := json.Unmarshal(res.Body, &resp); err != nil {
		return "", fmt.Errorf("decoding response: %w", err)
	}
	return resp.Status, nil
}

// APIError is returned when the server answers with a 4xx or 5xx status.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Message)
}

// do performs an HTTP request with an optional JSON body and returns the
// response as a Result. Statuses of 400 and above become an *APIError.
func (c *HTTPClient) do(ctx context.Context, method, path string, body any) (*model.Result, error) {
	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshaling request body: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	for name, v := range c.caller.headers() {
		req.Header.Set(name, v)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("performing request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode >= 400 {
		return nil, &APIError{StatusCode: resp.StatusCode, Message: errorMessage(respBody)}
	}

	return &model.Result{
		Status:      resp.StatusCode,
		ContentType: resp.Header.Get("Content-Type"),
		Body:        respBody,
	}, nil
}

// errorMessage extracts a message from either error shape the server
// produces, falling back to the raw body.
func errorMessage(body []byte) string {
	var errResp struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if json.Unmarshal(body, &errResp) == nil {
		if errResp.Error != "" {
			return errResp.Error
		}
		if errResp.Message != "" {
			return errResp.Message
		}
	}
	return strings.TrimSpace(string(body))
}
