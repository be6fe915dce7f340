// Package capabilities implements the HTTP/LLSD "capabilities" channel:
// fetching capability URLs from a region's seed capability and issuing
// LLSD-bodied requests against them.
package capabilities

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"time"

	"github.com/pkg/errors"

	"metaverse-session/source/llsd"
)

const contentTypeLLSD = "application/llsd+xml"

// DefaultTimeout is the §5 default for capability HTTP calls; a shorter
// context deadline on a call takes effect first.
const DefaultTimeout = 30 * time.Second

// ErrorKind classifies a capability call failure per §4.4.
type ErrorKind int

const (
	ErrorNetwork ErrorKind = iota
	ErrorHTTP
	ErrorDecode
	ErrorCancelled
)

// CallError wraps a classified capability failure.
type CallError struct {
	Kind   ErrorKind
	Status int
	Err    error
}

func (e *CallError) Error() string {
	switch e.Kind {
	case ErrorHTTP:
		return errors.Errorf("capabilities: http status %d: %v", e.Status, e.Err).Error()
	case ErrorCancelled:
		return "capabilities: cancelled"
	case ErrorDecode:
		return errors.Wrap(e.Err, "capabilities: decode").Error()
	default:
		return errors.Wrap(e.Err, "capabilities: network").Error()
	}
}

func (e *CallError) Unwrap() error { return e.Err }

// Client issues HTTP requests against a region's seed and per-capability
// URLs.
type Client struct {
	http *http.Client
}

// NewClient returns a Client with DefaultTimeout applied to every
// request; a context deadline can shorten a request's time limit but not
// extend it past DefaultTimeout.
func NewClient() *Client {
	return &Client{http: &http.Client{Timeout: DefaultTimeout}}
}

// RequestCapabilities posts an LLSD array of wanted capability names to
// seedURL and returns the name→URL map the simulator grants.
func (c *Client) RequestCapabilities(ctx context.Context, seedURL string, wanted []string) (map[string]string, error) {
	body := llsd.EncodeCapabilityRequest(wanted)
	respBody, err := c.call(ctx, http.MethodPost, seedURL, contentTypeLLSD, body)
	if err != nil {
		return nil, err
	}
	m, err := llsd.DecodeCapabilityMap(respBody)
	if err != nil {
		return nil, &CallError{Kind: ErrorDecode, Err: err}
	}
	return m, nil
}

// Call performs a single HTTP request with a caller-chosen method and
// content type (defaulting to application/llsd+xml when contentType is
// empty), returning the raw response body.
func (c *Client) Call(ctx context.Context, method, url, contentType string, body []byte) ([]byte, error) {
	if contentType == "" {
		contentType = contentTypeLLSD
	}
	return c.call(ctx, method, url, contentType, body)
}

func (c *Client) call(ctx context.Context, method, url, contentType string, body []byte) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, bytes.NewReader(body))
	if err != nil {
		return nil, &CallError{Kind: ErrorNetwork, Err: err}
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := c.http.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, &CallError{Kind: ErrorCancelled, Err: ctx.Err()}
		}
		return nil, &CallError{Kind: ErrorNetwork, Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &CallError{Kind: ErrorDecode, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &CallError{Kind: ErrorHTTP, Status: resp.StatusCode, Err: errors.Errorf("unexpected status")}
	}

	return respBody, nil
}
