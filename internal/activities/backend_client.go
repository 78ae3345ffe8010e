package activities

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// BackendClient issues one request/response call to a single named backend
// service. Call failures are classified into the returned Outcome, never
// raised, so the router can keep aggregating other sources.
type BackendClient interface {
	Invoke(ctx context.Context, backend string, params map[string]string) Outcome
}

type httpBackendClient struct {
	client *http.Client
}

// NewHTTPBackendClient returns the JSON-over-HTTP BackendClient. Per-call
// deadlines come from the endpoint registry; the shared client carries no
// timeout of its own.
func NewHTTPBackendClient() BackendClient {
	return &httpBackendClient{client: &http.Client{}}
}

type backendEnvelope struct {
	Backend    string            `json:"backend"`
	Parameters map[string]string `json:"parameters"`
}

func (c *httpBackendClient) Invoke(ctx context.Context, backend string, params map[string]string) Outcome {
	ep, ok := getBackendEndpoint(backend)
	if !ok {
		return Outcome{Transport: fmt.Sprintf("unknown backend %q", backend)}
	}

	body, err := json.Marshal(backendEnvelope{Backend: backend, Parameters: params})
	if err != nil {
		return Outcome{Transport: fmt.Sprintf("encode request for %s: %v", backend, err)}
	}

	callCtx, cancel := context.WithTimeout(ctx, ep.Timeout)
	defer cancel()

	httpReq, err := http.NewRequestWithContext(callCtx, http.MethodPost, ep.URL, bytes.NewReader(body))
	if err != nil {
		return Outcome{Transport: fmt.Sprintf("build request for %s: %v", backend, err)}
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(httpReq)
	if err != nil {
		if callCtx.Err() != nil {
			return Outcome{Transport: timeoutMessage(backend, ep.Timeout, callCtx.Err())}
		}
		return Outcome{Transport: fmt.Sprintf("%s call failed: %v", backend, err)}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		if callCtx.Err() != nil {
			return Outcome{Transport: timeoutMessage(backend, ep.Timeout, callCtx.Err())}
		}
		return Outcome{Transport: fmt.Sprintf("read response from %s: %v", backend, err)}
	}
	if resp.StatusCode != http.StatusOK {
		return Outcome{Transport: fmt.Sprintf("%s status %d: %s", backend, resp.StatusCode, truncateForLog(data))}
	}

	var probe struct {
		ErrorMessage string `json:"errorMessage"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return Outcome{Transport: fmt.Sprintf("malformed response from %s: %v", backend, err)}
	}
	if probe.ErrorMessage != "" {
		return Outcome{Backend: &BackendErrorInfo{Message: probe.ErrorMessage, Details: json.RawMessage(data)}}
	}
	return Outcome{Payload: json.RawMessage(data)}
}

func timeoutMessage(backend string, timeout time.Duration, ctxErr error) string {
	if ctxErr == context.Canceled {
		return fmt.Sprintf("%s call abandoned: workflow context cancelled", backend)
	}
	return fmt.Sprintf("%s call timed out after %s", backend, timeout)
}

func truncateForLog(b []byte) string {
	const max = 256
	if len(b) > max {
		return string(b[:max]) + "..."
	}
	return string(b)
}
