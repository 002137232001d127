// Package ethrpc is the direct JSON-RPC implementation of chain.Client:
// it assembles the request envelope itself and POSTs it to the Infura
// endpoint over HTTPS, or exchanges it over a WebSocket connection when
// configured. No retries, no backoff; errors are wrapped and propagated.
package ethrpc

import (
	"context"
	"encoding/json"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/rs/zerolog"

	"infuranode/internal/chain"
	"infuranode/internal/jsonrpc"
)

const defaultTimeout = 30 * time.Second

// transport exchanges a single request envelope for its response.
type transport interface {
	roundTrip(ctx context.Context, req *jsonrpc.Request) (*jsonrpc.Response, error)
}

// Client talks JSON-RPC 2.0 to one Infura network endpoint.
type Client struct {
	transport transport
	logger    zerolog.Logger
}

// Options configure a Client.
type Options struct {
	Network      chain.Network
	Credentials  chain.Credentials
	UseWebSocket bool
	Timeout      time.Duration
	Logger       zerolog.Logger
}

// New validates the credentials and builds a client for the network.
// Credential validation happens here so that no transport is ever
// constructed, let alone used, without a project ID.
func New(opts Options) (*Client, error) {
	if err := opts.Credentials.Validate(); err != nil {
		return nil, err
	}
	if opts.Timeout == 0 {
		opts.Timeout = defaultTimeout
	}

	logger := opts.Logger.With().
		Str("component", "ethrpc").
		Str("network", string(opts.Network)).
		Logger()

	var tr transport
	if opts.UseWebSocket {
		tr = newWSTransport(
			opts.Network.WSEndpoint(opts.Credentials.ProjectID),
			opts.Credentials.BasicAuthHeader(),
			opts.Timeout,
		)
	} else {
		tr = newHTTPTransport(
			opts.Network.RPCEndpoint(opts.Credentials.ProjectID),
			opts.Credentials.BasicAuthHeader(),
			opts.Timeout,
		)
	}

	return &Client{transport: tr, logger: logger}, nil
}

// call performs one RPC and returns the response envelope.
func (c *Client) call(ctx context.Context, method string, params interface{}) (*jsonrpc.Response, error) {
	req, err := jsonrpc.NewRequest(method, params, jsonrpc.NewIDInt(1))
	if err != nil {
		return nil, chain.WrapRPC(method, err)
	}

	resp, err := c.transport.roundTrip(ctx, req)
	if err != nil {
		return nil, chain.WrapRPC(method, err)
	}
	if resp.HasError() {
		return nil, chain.WrapRPC(method, resp.Error)
	}

	c.logger.Debug().Str("method", method).Msg("rpc call completed")
	return resp, nil
}

// BlockNumber implements chain.Client.
func (c *Client) BlockNumber(ctx context.Context) (uint64, error) {
	resp, err := c.call(ctx, "eth_blockNumber", []interface{}{})
	if err != nil {
		return 0, err
	}
	n, err := jsonrpc.HexToUint64(resp.Result)
	if err != nil {
		return 0, chain.WrapRPC("eth_blockNumber", err)
	}
	return n, nil
}

// BlockByNumber implements chain.Client.
func (c *Client) BlockByNumber(ctx context.Context, tag chain.BlockTag, fullTx bool) (json.RawMessage, error) {
	resp, err := c.call(ctx, "eth_getBlockByNumber", []interface{}{tag.String(), fullTx})
	if err != nil {
		return nil, err
	}
	return resp.Result, nil
}

// GasPrice implements chain.Client.
func (c *Client) GasPrice(ctx context.Context) (*big.Int, error) {
	resp, err := c.call(ctx, "eth_gasPrice", []interface{}{})
	if err != nil {
		return nil, err
	}
	price, err := jsonrpc.HexToBig(resp.Result)
	if err != nil {
		return nil, chain.WrapRPC("eth_gasPrice", err)
	}
	return price, nil
}

// ChainID implements chain.Client.
func (c *Client) ChainID(ctx context.Context) (*big.Int, error) {
	resp, err := c.call(ctx, "eth_chainId", []interface{}{})
	if err != nil {
		return nil, err
	}
	id, err := jsonrpc.HexToBig(resp.Result)
	if err != nil {
		return nil, chain.WrapRPC("eth_chainId", err)
	}
	return id, nil
}

// TransactionCount implements chain.Client.
func (c *Client) TransactionCount(ctx context.Context, addr common.Address, tag chain.BlockTag) (uint64, error) {
	resp, err := c.call(ctx, "eth_getTransactionCount", []interface{}{addr.Hex(), tag.String()})
	if err != nil {
		return 0, err
	}
	n, err := jsonrpc.HexToUint64(resp.Result)
	if err != nil {
		return 0, chain.WrapRPC("eth_getTransactionCount", err)
	}
	return n, nil
}

// CallContract implements chain.Client.
func (c *Client) CallContract(ctx context.Context, to common.Address, data []byte) ([]byte, error) {
	msg := map[string]string{
		"to":   to.Hex(),
		"data": hexutil.Encode(data),
	}
	resp, err := c.call(ctx, "eth_call", []interface{}{msg, "latest"})
	if err != nil {
		return nil, err
	}

	var out string
	if err := resp.GetResultAs(&out); err != nil {
		return nil, chain.WrapRPC("eth_call", err)
	}
	decoded, err := hexutil.Decode(out)
	if err != nil {
		return nil, chain.WrapRPC("eth_call", err)
	}
	return decoded, nil
}

// SendRawTransaction implements chain.Client.
func (c *Client) SendRawTransaction(ctx context.Context, raw []byte) (common.Hash, error) {
	resp, err := c.call(ctx, "eth_sendRawTransaction", []interface{}{hexutil.Encode(raw)})
	if err != nil {
		return common.Hash{}, err
	}

	var hash string
	if err := resp.GetResultAs(&hash); err != nil {
		return common.Hash{}, chain.WrapRPC("eth_sendRawTransaction", err)
	}
	return common.HexToHash(hash), nil
}

// TransactionReceipt implements chain.Client. A null result means the
// transaction is still pending and is reported as (nil, nil).
func (c *Client) TransactionReceipt(ctx context.Context, hash common.Hash) (json.RawMessage, error) {
	resp, err := c.call(ctx, "eth_getTransactionReceipt", []interface{}{hash.Hex()})
	if err != nil {
		return nil, err
	}
	if resp.ResultIsNull() {
		return nil, nil
	}
	return resp.Result, nil
}
