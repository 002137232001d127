package chain

import (
	"context"
	"encoding/json"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// Client is the Ethereum RPC capability the dispatcher programs against.
// Two interchangeable implementations exist: a direct JSON-RPC client
// (internal/ethrpc) and a go-ethereum provider (internal/provider); the
// deployment picks one. Every call is independent and stateless, and no
// implementation retries.
type Client interface {
	// BlockNumber returns the latest block index.
	BlockNumber(ctx context.Context) (uint64, error)

	// BlockByNumber returns the block at the given tag as raw JSON,
	// with full transaction bodies when fullTx is true.
	BlockByNumber(ctx context.Context, tag BlockTag, fullTx bool) (json.RawMessage, error)

	// GasPrice returns the current network gas price in wei.
	GasPrice(ctx context.Context) (*big.Int, error)

	// ChainID returns the chain identifier used for transaction signing.
	ChainID(ctx context.Context) (*big.Int, error)

	// TransactionCount returns the account's transaction count at the tag.
	TransactionCount(ctx context.Context, addr common.Address, tag BlockTag) (uint64, error)

	// CallContract executes a read-only contract call against latest.
	CallContract(ctx context.Context, to common.Address, data []byte) ([]byte, error)

	// SendRawTransaction submits a signed transaction and returns its hash.
	SendRawTransaction(ctx context.Context, raw []byte) (common.Hash, error)

	// TransactionReceipt returns the receipt as raw JSON, or nil while
	// the transaction is still pending.
	TransactionReceipt(ctx context.Context, hash common.Hash) (json.RawMessage, error)
}

// RPCError wraps a transport or RPC-level failure. It is never retried;
// callers map it to an upstream-failure response.
type RPCError struct {
	Method string
	Err    error
}

// WrapRPC attaches the RPC method to a transport or RPC-level error.
func WrapRPC(method string, err error) *RPCError {
	return &RPCError{Method: method, Err: err}
}

func (e *RPCError) Error() string {
	return fmt.Sprintf("%s: %v", e.Method, e.Err)
}

func (e *RPCError) Unwrap() error {
	return e.Err
}
