package orchestrator

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/hiveml/hivehost/domain/entities"
	"github.com/hiveml/hivehost/domain/ports"
)

// maxResponseBody bounds how much of a service response is read (1MB).
const maxResponseBody = 1 * 1024 * 1024

// StatusError reports a non-2xx response from the hive service.
type StatusError struct {
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("hive service returned %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("hive service returned %d", e.StatusCode)
}

// NotFound reports whether the service did not know the run.
func (e *StatusError) NotFound() bool { return e.StatusCode == http.StatusNotFound }

// Client implements ports.Trainer against the hive service's HTTP API.
type Client struct {
	baseURL  string
	httpc    *http.Client
	validate *validator.Validate
	logger   *slog.Logger
}

// ClientOption configures the Client.
type ClientOption func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(c *http.Client) ClientOption {
	return func(cl *Client) {
		cl.httpc = c
	}
}

// WithTimeout sets the per-request timeout (default 30s).
func WithTimeout(d time.Duration) ClientOption {
	return func(cl *Client) {
		if d > 0 {
			cl.httpc.Timeout = d
		}
	}
}

// WithLogger sets the client's logger (default slog.Default()).
func WithLogger(logger *slog.Logger) ClientOption {
	return func(cl *Client) {
		cl.logger = logger
	}
}

var _ ports.Trainer = (*Client)(nil)

// NewClient creates a hive service client for the given base URL.
func NewClient(baseURL string, opts ...ClientOption) (*Client, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("orchestrator base URL cannot be empty")
	}
	c := &Client{
		baseURL:  strings.TrimRight(baseURL, "/"),
		httpc:    &http.Client{Timeout: 30 * time.Second},
		validate: validator.New(),
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// StartTraining validates the request against the service's contract and
// submits it. This is where business validation lives; the boundary core
// upstream only guarantees well-formed strings and in-bounds structs.
func (c *Client) StartTraining(ctx context.Context, req entities.TrainingRequest) (string, error) {
	if err := c.validate.Struct(req); err != nil {
		return "", fmt.Errorf("invalid training request: %w", err)
	}

	body := StartRunRequestWire{
		HiveURL:         req.HiveURL,
		HivePort:        req.HivePort,
		Game:            req.Game,
		Experiment:      req.Experiment,
		NumWorkers:      req.NumWorkers,
		Config:          req.Config,
		Checkpoint:      req.Checkpoint,
		DurationSeconds: req.DurationSeconds,
		Protocol:        req.Protocol,
	}

	var resp StartRunResponseWire
	if err := c.do(ctx, http.MethodPost, "/v1/runs", body, &resp); err != nil {
		return "", err
	}
	if resp.RunID == "" {
		return "", fmt.Errorf("hive service accepted the run but returned no run_id")
	}
	return resp.RunID, nil
}

// TrainingStatus fetches the current status of a submitted run.
func (c *Client) TrainingStatus(ctx context.Context, runID string) (entities.TrainingStatus, error) {
	var wire RunStatusWire
	if err := c.do(ctx, http.MethodGet, "/v1/runs/"+runID, nil, &wire); err != nil {
		return entities.TrainingStatus{}, err
	}
	return entities.TrainingStatus{
		State:     runState(wire.State),
		Workers:   wire.Workers,
		StepsDone: wire.StepsDone,
	}, nil
}

// StopTraining requests cancellation of a submitted run.
func (c *Client) StopTraining(ctx context.Context, runID string) error {
	return c.do(ctx, http.MethodDelete, "/v1/runs/"+runID, nil, nil)
}

// do executes one request against the service, tagging it with a fresh
// request ID and decoding the JSON response into out (when non-nil).
func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	requestID := uuid.NewString()
	req.Header.Set("X-Request-Id", requestID)
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		se := &StatusError{StatusCode: resp.StatusCode}
		var ew ErrorWire
		if json.Unmarshal(data, &ew) == nil {
			se.Message = ew.Message
		}
		c.logger.Debug("hive service request failed",
			slog.String("method", method),
			slog.String("path", path),
			slog.String("request_id", requestID),
			slog.Int("status", resp.StatusCode))
		return se
	}

	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}
