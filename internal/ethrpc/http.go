package ethrpc

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"infuranode/internal/jsonrpc"
)

// httpTransport POSTs one envelope per call to the endpoint.
type httpTransport struct {
	endpoint   string
	authHeader string
	client     *http.Client
}

func newHTTPTransport(endpoint, authHeader string, timeout time.Duration) *httpTransport {
	transport := &http.Transport{
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 100,
		IdleConnTimeout:     90 * time.Second,
	}

	return &httpTransport{
		endpoint:   endpoint,
		authHeader: authHeader,
		client: &http.Client{
			Transport: transport,
			Timeout:   timeout,
		},
	}
}

func (t *httpTransport) roundTrip(ctx context.Context, req *jsonrpc.Request) (*jsonrpc.Response, error) {
	body, err := req.Bytes()
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, t.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if t.authHeader != "" {
		httpReq.Header.Set("Authorization", t.authHeader)
	}

	httpResp, err := t.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if httpResp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d: %s", httpResp.StatusCode, truncate(respBody, 256))
	}

	resp, err := jsonrpc.ParseResponse(respBody)
	if err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	return resp, nil
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
