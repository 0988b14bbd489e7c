package transport

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/formdrop/formdrop/internal/logging"
	"github.com/formdrop/formdrop/internal/widget"
	"go.uber.org/zap"
)

const (
	// CorrelationHeader carries the submission's correlation identifier
	CorrelationHeader = "X-Formdrop-Correlation"

	// CorrelationField is the form field mirroring the correlation header,
	// for servers that only look at the form body
	CorrelationField = "correlation_id"

	// DefaultTimeout is the default HTTP request timeout
	DefaultTimeout = 30 * time.Second

	// DefaultMaxRetries is the default number of retry attempts for failed requests
	DefaultMaxRetries = 3

	// DefaultRetryDelay is the default delay between retry attempts
	DefaultRetryDelay = 1 * time.Second

	// DefaultMaxRetryDelay is the maximum delay for exponential backoff
	DefaultMaxRetryDelay = 30 * time.Second

	// maxResponseBytes bounds how much of a response body is read back
	maxResponseBytes = 1 << 20
)

// Client submits forms as HTTP multipart/form-data requests. It
// implements widget.Transport: Submit returns immediately and the
// terminal outcome is delivered through exactly one of the OnComplete /
// OnFailure callbacks.
type Client struct {
	// Endpoint is the upload URL used when a request carries no FormAction
	Endpoint string

	// Username and Password enable HTTP Basic Auth when both are set
	Username string
	Password string

	// HTTPClient is the underlying HTTP client
	HTTPClient *http.Client

	// MaxRetries is the maximum number of retry attempts for failed requests
	MaxRetries int

	// RetryDelay is the initial delay between retry attempts
	RetryDelay time.Duration

	// MaxRetryDelay is the maximum delay for exponential backoff
	MaxRetryDelay time.Duration

	// UseExponentialBackoff enables exponential backoff for retries
	UseExponentialBackoff bool

	// OnComplete is invoked with the raw response payload of a
	// successful submission
	OnComplete func(correlationID string, payload []byte)

	// OnFailure is invoked when a submission fails after retries
	OnFailure func(correlationID string, err error)
}

// NewClient creates a transport client for the given upload endpoint
func NewClient(endpoint string) *Client {
	return &Client{
		Endpoint:              endpoint,
		HTTPClient:            &http.Client{Timeout: DefaultTimeout},
		MaxRetries:            DefaultMaxRetries,
		RetryDelay:            DefaultRetryDelay,
		MaxRetryDelay:         DefaultMaxRetryDelay,
		UseExponentialBackoff: true,
	}
}

// SetTimeout sets the HTTP request timeout
func (c *Client) SetTimeout(timeout time.Duration) {
	c.HTTPClient.Timeout = timeout
}

// SetAuth sets HTTP Basic Auth credentials
func (c *Client) SetAuth(username, password string) {
	c.Username = username
	c.Password = password
}

// SetRetry configures retry behavior
func (c *Client) SetRetry(maxRetries int, retryDelay time.Duration) {
	c.MaxRetries = maxRetries
	c.RetryDelay = retryDelay
}

// endpointFor resolves the URL a request should be posted to
func (c *Client) endpointFor(req widget.SubmissionRequest) string {
	if req.FormAction != "" {
		return req.FormAction
	}
	return c.Endpoint
}

// validate checks that a request is structurally submittable: an
// endpoint is known, at least one file is selected, and every selected
// value names a readable regular file.
func (c *Client) validate(req widget.SubmissionRequest) error {
	if c.endpointFor(req) == "" {
		return widget.NewTransportUnavailableError("no upload endpoint configured", nil)
	}

	selected := 0
	for _, value := range req.Values {
		if value == "" {
			continue
		}
		selected++
		info, err := os.Stat(value)
		if err != nil {
			return widget.NewTransportUnavailableError(fmt.Sprintf("cannot read %s", value), err)
		}
		if info.IsDir() {
			return widget.NewTransportUnavailableError(fmt.Sprintf("%s is a directory", value), nil)
		}
	}
	if selected == 0 {
		return widget.NewTransportUnavailableError("no files selected", nil)
	}
	return nil
}

// Submit implements widget.Transport. The request is validated
// synchronously; the upload itself runs in a goroutine and reports its
// terminal outcome through OnComplete or OnFailure.
func (c *Client) Submit(req widget.SubmissionRequest) error {
	if c.OnComplete == nil || c.OnFailure == nil {
		return widget.NewTransportUnavailableError("completion callbacks not configured", nil)
	}
	if err := c.validate(req); err != nil {
		return err
	}

	go func() {
		payload, err := c.Do(req)
		if err != nil {
			c.OnFailure(req.CorrelationID, err)
			return
		}
		c.OnComplete(req.CorrelationID, payload)
	}()

	return nil
}

// Do performs the submission synchronously and returns the raw response
// payload. This is the blocking path used by the CLI; the asynchronous
// Submit path funnels through it as well.
func (c *Client) Do(req widget.SubmissionRequest) ([]byte, error) {
	if err := c.validate(req); err != nil {
		return nil, err
	}

	// The body is assembled once and replayed byte-for-byte on retry
	body, contentType, err := buildBody(req)
	if err != nil {
		return nil, err
	}

	endpoint := c.endpointFor(req)

	var lastErr error
	currentDelay := c.RetryDelay

	for attempt := 0; attempt <= c.MaxRetries; attempt++ {
		if attempt > 0 {
			logging.Debug("Retrying submission",
				zap.String("correlation_id", req.CorrelationID),
				zap.Int("attempt", attempt),
				zap.Duration("delay", currentDelay),
			)
			time.Sleep(currentDelay)

			// Exponential backoff
			if c.UseExponentialBackoff {
				currentDelay *= 2
				if currentDelay > c.MaxRetryDelay {
					currentDelay = c.MaxRetryDelay
				}
			}
		}

		payload, err := c.attempt(endpoint, contentType, body, req.CorrelationID)
		if err == nil {
			return payload, nil
		}
		lastErr = err

		if !retryable(err) {
			break
		}
	}

	return nil, lastErr
}

// attempt performs a single POST of the prepared body
func (c *Client) attempt(endpoint, contentType string, body []byte, correlationID string) ([]byte, error) {
	httpReq, err := http.NewRequest(http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create upload request: %w", err)
	}
	httpReq.Header.Set("Content-Type", contentType)
	httpReq.Header.Set(CorrelationHeader, correlationID)
	if c.Username != "" && c.Password != "" {
		httpReq.SetBasicAuth(c.Username, c.Password)
	}

	resp, err := c.HTTPClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("upload request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	payload, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: string(payload)}
	}

	return payload, nil
}

// buildBody assembles the multipart form: correlation id, auxiliary
// fields in order, then one file part per filled slot under the
// configured input name.
func buildBody(req widget.SubmissionRequest) ([]byte, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	if err := w.WriteField(CorrelationField, req.CorrelationID); err != nil {
		return nil, "", fmt.Errorf("failed to write correlation field: %w", err)
	}
	for _, field := range req.Fields {
		if err := w.WriteField(field.Key, field.Value); err != nil {
			return nil, "", fmt.Errorf("failed to write field %q: %w", field.Key, err)
		}
	}

	inputName := req.InputName
	if inputName == "" {
		inputName = widget.DefaultInputName
	}

	for _, value := range req.Values {
		if value == "" {
			continue
		}
		part, err := w.CreateFormFile(inputName, filepath.Base(value))
		if err != nil {
			return nil, "", fmt.Errorf("failed to create file part: %w", err)
		}
		f, err := os.Open(value)
		if err != nil {
			return nil, "", fmt.Errorf("failed to open %s: %w", value, err)
		}
		_, err = io.Copy(part, f)
		_ = f.Close()
		if err != nil {
			return nil, "", fmt.Errorf("failed to read %s: %w", value, err)
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("failed to finalize form body: %w", err)
	}

	return buf.Bytes(), w.FormDataContentType(), nil
}
