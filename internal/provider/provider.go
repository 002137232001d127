// Package provider is the library-mediated implementation of
// chain.Client: it hands the wire work to go-ethereum's rpc and ethclient
// packages instead of assembling envelopes locally. Handles are cached per
// endpoint so repeated invocations against the same project reuse one
// connection.
package provider

import (
	"context"
	"encoding/json"
	"errors"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/ethereum/go-ethereum/rpc"
	"github.com/rs/zerolog"

	"infuranode/internal/chain"
)

// Provider implements chain.Client over a go-ethereum connection.
type Provider struct {
	rpc    *rpc.Client
	eth    *ethclient.Client
	logger zerolog.Logger
}

// Dial validates the credentials and connects to the network endpoint,
// attaching the project-secret basic-auth header when configured.
func Dial(ctx context.Context, network chain.Network, creds chain.Credentials, logger zerolog.Logger) (*Provider, error) {
	if err := creds.Validate(); err != nil {
		return nil, err
	}

	endpoint := network.RPCEndpoint(creds.ProjectID)
	logger = logger.With().Str("network", string(network)).Logger()

	return dialEndpoint(ctx, endpoint, logger, dialOptions(creds)...)
}

func dialOptions(creds chain.Credentials) []rpc.ClientOption {
	opts := []rpc.ClientOption{}
	if auth := creds.BasicAuthHeader(); auth != "" {
		opts = append(opts, rpc.WithHeader("Authorization", auth))
	}
	return opts
}

func dialEndpoint(ctx context.Context, endpoint string, logger zerolog.Logger, opts ...rpc.ClientOption) (*Provider, error) {
	rpcClient, err := rpc.DialOptions(ctx, endpoint, opts...)
	if err != nil {
		return nil, chain.WrapRPC("dial", err)
	}

	return &Provider{
		rpc:    rpcClient,
		eth:    ethclient.NewClient(rpcClient),
		logger: logger.With().Str("component", "provider").Logger(),
	}, nil
}

// Close releases the underlying connection.
func (p *Provider) Close() {
	p.rpc.Close()
}

// BlockNumber implements chain.Client.
func (p *Provider) BlockNumber(ctx context.Context) (uint64, error) {
	n, err := p.eth.BlockNumber(ctx)
	if err != nil {
		return 0, chain.WrapRPC("eth_blockNumber", err)
	}
	return n, nil
}

// BlockByNumber implements chain.Client. The raw call preserves the named
// tags (earliest, pending) the typed ethclient accessor cannot express.
func (p *Provider) BlockByNumber(ctx context.Context, tag chain.BlockTag, fullTx bool) (json.RawMessage, error) {
	var raw json.RawMessage
	if err := p.rpc.CallContext(ctx, &raw, "eth_getBlockByNumber", tag.String(), fullTx); err != nil {
		return nil, chain.WrapRPC("eth_getBlockByNumber", err)
	}
	return raw, nil
}

// GasPrice implements chain.Client.
func (p *Provider) GasPrice(ctx context.Context) (*big.Int, error) {
	price, err := p.eth.SuggestGasPrice(ctx)
	if err != nil {
		return nil, chain.WrapRPC("eth_gasPrice", err)
	}
	return price, nil
}

// ChainID implements chain.Client.
func (p *Provider) ChainID(ctx context.Context) (*big.Int, error) {
	id, err := p.eth.ChainID(ctx)
	if err != nil {
		return nil, chain.WrapRPC("eth_chainId", err)
	}
	return id, nil
}

// TransactionCount implements chain.Client.
func (p *Provider) TransactionCount(ctx context.Context, addr common.Address, tag chain.BlockTag) (uint64, error) {
	var (
		n   uint64
		err error
	)
	switch {
	case tag.String() == "pending":
		n, err = p.eth.PendingNonceAt(ctx, addr)
	case tag.IsNumber():
		n, err = p.eth.NonceAt(ctx, addr, tag.Number())
	case tag.String() == "earliest":
		n, err = p.eth.NonceAt(ctx, addr, big.NewInt(0))
	default:
		n, err = p.eth.NonceAt(ctx, addr, nil)
	}
	if err != nil {
		return 0, chain.WrapRPC("eth_getTransactionCount", err)
	}
	return n, nil
}

// CallContract implements chain.Client.
func (p *Provider) CallContract(ctx context.Context, to common.Address, data []byte) ([]byte, error) {
	out, err := p.eth.CallContract(ctx, ethereum.CallMsg{To: &to, Data: data}, nil)
	if err != nil {
		return nil, chain.WrapRPC("eth_call", err)
	}
	return out, nil
}

// SendRawTransaction implements chain.Client.
func (p *Provider) SendRawTransaction(ctx context.Context, raw []byte) (common.Hash, error) {
	var hash common.Hash
	if err := p.rpc.CallContext(ctx, &hash, "eth_sendRawTransaction", hexutil.Encode(raw)); err != nil {
		return common.Hash{}, chain.WrapRPC("eth_sendRawTransaction", err)
	}
	return hash, nil
}

// TransactionReceipt implements chain.Client.
func (p *Provider) TransactionReceipt(ctx context.Context, hash common.Hash) (json.RawMessage, error) {
	receipt, err := p.eth.TransactionReceipt(ctx, hash)
	if errors.Is(err, ethereum.NotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, chain.WrapRPC("eth_getTransactionReceipt", err)
	}

	raw, err := json.Marshal(receipt)
	if err != nil {
		return nil, chain.WrapRPC("eth_getTransactionReceipt", err)
	}
	return raw, nil
}
