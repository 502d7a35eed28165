// Package service talks to the remote task service over HTTP and wires
// compiled TQL filters into its list endpoint.
package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/taskql/taskql"
	"github.com/taskql/taskql/pkg/apierr"
	"github.com/taskql/taskql/pkg/logger"
)

const (
	defaultTimeout = 15 * time.Second
	maxRetries     = 3
	retryBaseDelay = 250 * time.Millisecond
)

// Client wraps the remote task service API.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// NewClient builds a client for the task service at baseURL,
// authenticating every request with the bearer token.
func NewClient(baseURL, token string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		http:    &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// do sends one request with auth headers, retrying on 429 and 5xx with
// linear backoff. The response body is fully read and returned.
func (c *Client) do(ctx context.Context, method, path string, body any) ([]byte, error) {
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request: %w", err)
		}
	}

	var lastErr error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			delay := retryBaseDelay * time.Duration(attempt)
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
			logger.Debug("retrying request", "method", method, "path", path, "attempt", attempt)
		}

		var reader io.Reader
		if payload != nil {
			reader = bytes.NewReader(payload)
		}
		req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Authorization", "Bearer "+c.token)
		if payload != nil {
			req.Header.Set("Content-Type", "application/json")
		}

		resp, err := c.http.Do(req)
		if err != nil {
			lastErr = err
			continue
		}
		data, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			lastErr = err
			continue
		}

		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
			lastErr = apierr.FromStatus(resp.StatusCode, strings.TrimSpace(string(data)))
			continue
		}
		if resp.StatusCode >= 400 {
			return nil, apierr.FromStatus(resp.StatusCode, errorMessage(data))
		}
		return data, nil
	}
	return nil, fmt.Errorf("request failed after %d attempts: %w", maxRetries+1, lastErr)
}

// errorMessage pulls the service's error text out of a JSON error body,
// falling back to the raw body.
func errorMessage(body []byte) string {
	var parsed struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(body, &parsed); err == nil {
		if parsed.Message != "" {
			return parsed.Message
		}
		if parsed.Error != "" {
			return parsed.Error
		}
	}
	return strings.TrimSpace(string(body))
}

// ListTasks fetches tasks matching the flat server filter. A nil or
// empty filter lists everything.
func (c *Client) ListTasks(ctx context.Context, filter map[string]any) ([]Task, error) {
	path := "/v1/tasks"
	if len(filter) > 0 {
		params := url.Values{}
		for key, val := range filter {
			params.Set(key, fmt.Sprintf("%v", val))
		}
		path += "?" + params.Encode()
	}

	data, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}
	var tasks []Task
	if err := json.Unmarshal(data, &tasks); err != nil {
		return nil, fmt.Errorf("decode task list: %w", err)
	}
	return tasks, nil
}

// GetTask fetches a single task by ID.
func (c *Client) GetTask(ctx context.Context, id string) (*Task, error) {
	data, err := c.do(ctx, http.MethodGet, "/v1/tasks/"+url.PathEscape(id), nil)
	if err != nil {
		return nil, err
	}
	var task Task
	if err := json.Unmarshal(data, &task); err != nil {
		return nil, fmt.Errorf("decode task: %w", err)
	}
	return &task, nil
}

// CreateTask creates a task and returns the stored version.
func (c *Client) CreateTask(ctx context.Context, task *Task) (*Task, error) {
	data, err := c.do(ctx, http.MethodPost, "/v1/tasks", task)
	if err != nil {
		return nil, err
	}
	var created Task
	if err := json.Unmarshal(data, &created); err != nil {
		return nil, fmt.Errorf("decode task: %w", err)
	}
	return &created, nil
}

// UpdateTask applies a partial update to a task.
func (c *Client) UpdateTask(ctx context.Context, id string, fields map[string]any) (*Task, error) {
	data, err := c.do(ctx, http.MethodPatch, "/v1/tasks/"+url.PathEscape(id), fields)
	if err != nil {
		return nil, err
	}
	var updated Task
	if err := json.Unmarshal(data, &updated); err != nil {
		return nil, fmt.Errorf("decode task: %w", err)
	}
	return &updated, nil
}

// DeleteTask deletes a task by ID.
func (c *Client) DeleteTask(ctx context.Context, id string) error {
	_, err := c.do(ctx, http.MethodDelete, "/v1/tasks/"+url.PathEscape(id), nil)
	return err
}

// GetWorkspaceConfig fetches the workspace vocabulary.
func (c *Client) GetWorkspaceConfig(ctx context.Context) (*WorkspaceConfig, error) {
	data, err := c.do(ctx, http.MethodGet, "/v1/workspace/config", nil)
	if err != nil {
		return nil, err
	}
	var cfg WorkspaceConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("decode workspace config: %w", err)
	}
	return &cfg, nil
}

// QueryTasks runs a TQL query end to end: compile, push the server
// filter to the list endpoint, and when the query needs client-side
// evaluation, filter the candidates in-process. The returned warnings
// are the compiler's diagnostics. An empty query lists everything.
func (c *Client) QueryTasks(ctx context.Context, query string) ([]Task, []string, error) {
	if strings.TrimSpace(query) == "" {
		tasks, err := c.ListTasks(ctx, nil)
		return tasks, nil, err
	}

	pr, res := taskql.CompileQuery(query)
	if len(pr.Errors) > 0 {
		return nil, nil, apierr.BadRequest(strings.Join(pr.Errors, "; "))
	}
	if len(res.Errors) > 0 {
		return nil, res.Warnings, apierr.BadRequest(strings.Join(res.Errors, "; "))
	}

	tasks, err := c.ListTasks(ctx, res.ServerFilter)
	if err != nil {
		return nil, res.Warnings, err
	}

	if !res.RequiresClientSide {
		return tasks, res.Warnings, nil
	}

	logger.Debug("filtering client-side", "candidates", len(tasks), "query", query)
	matched := tasks[:0:0]
	for i := range tasks {
		if res.ClientPredicate(tasks[i].Record()) {
			matched = append(matched, tasks[i])
		}
	}
	return matched, res.Warnings, nil
}
