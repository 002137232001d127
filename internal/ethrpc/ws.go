package ethrpc

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"infuranode/internal/jsonrpc"
)

// wsTransport exchanges one envelope per call over a fresh WebSocket
// connection. The node never subscribes, so there is nothing to keep a
// long-lived multiplexed connection for.
type wsTransport struct {
	endpoint   string
	authHeader string
	timeout    time.Duration
	dialer     *websocket.Dialer
}

func newWSTransport(endpoint, authHeader string, timeout time.Duration) *wsTransport {
	return &wsTransport{
		endpoint:   endpoint,
		authHeader: authHeader,
		timeout:    timeout,
		dialer: &websocket.Dialer{
			HandshakeTimeout: timeout,
		},
	}
}

func (t *wsTransport) roundTrip(ctx context.Context, req *jsonrpc.Request) (*jsonrpc.Response, error) {
	header := http.Header{}
	if t.authHeader != "" {
		header.Set("Authorization", t.authHeader)
	}

	conn, _, err := t.dialer.DialContext(ctx, t.endpoint, header)
	if err != nil {
		return nil, fmt.Errorf("failed to dial %s: %w", t.endpoint, err)
	}
	defer conn.Close()

	deadline := time.Now().Add(t.timeout)
	if ctxDeadline, ok := ctx.Deadline(); ok && ctxDeadline.Before(deadline) {
		deadline = ctxDeadline
	}

	body, err := req.Bytes()
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}
	if err := conn.SetWriteDeadline(deadline); err != nil {
		return nil, err
	}
	if err := conn.WriteMessage(websocket.TextMessage, body); err != nil {
		return nil, fmt.Errorf("failed to write request: %w", err)
	}

	if err := conn.SetReadDeadline(deadline); err != nil {
		return nil, err
	}
	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			return nil, fmt.Errorf("failed to read response: %w", err)
		}
		resp, err := jsonrpc.ParseResponse(msg)
		if err != nil {
			// not a response frame; keep waiting for ours
			continue
		}
		if resp.ID.Equal(req.ID) {
			return resp, nil
		}
	}
}
