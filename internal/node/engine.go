package node

import (
	"context"
	"encoding/json"
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/rs/zerolog"

	"infuranode/internal/chain"
	"infuranode/internal/contractabi"
	"infuranode/internal/jsonutil"
	"infuranode/internal/wallet"
)

// Item is one flat record of the host's item collection.
type Item map[string]interface{}

// ClientFactory builds the chain client for an invocation. The deployment
// decides which implementation backs it (direct JSON-RPC or provider).
type ClientFactory func(ctx context.Context, network chain.Network, creds chain.Credentials) (chain.Client, error)

// Config configures an Engine.
type Config struct {
	NewClient           ClientFactory
	ReceiptPollInterval time.Duration
	ReceiptPollAttempts int
	Logger              zerolog.Logger
}

const (
	defaultReceiptPollInterval = 2 * time.Second
	defaultReceiptPollAttempts = 30
)

// Engine dispatches node invocations. One operation is selected per
// invocation and applied to every input item in order; items share only
// the resolved credentials and the client handle.
type Engine struct {
	newClient           ClientFactory
	receiptPollInterval time.Duration
	receiptPollAttempts int
	logger              zerolog.Logger
}

// NewEngine creates an Engine.
func NewEngine(cfg Config) *Engine {
	if cfg.ReceiptPollInterval == 0 {
		cfg.ReceiptPollInterval = defaultReceiptPollInterval
	}
	if cfg.ReceiptPollAttempts == 0 {
		cfg.ReceiptPollAttempts = defaultReceiptPollAttempts
	}
	return &Engine{
		newClient:           cfg.NewClient,
		receiptPollInterval: cfg.ReceiptPollInterval,
		receiptPollAttempts: cfg.ReceiptPollAttempts,
		logger:              cfg.Logger.With().Str("component", "node").Logger(),
	}
}

// Execute resolves the parameters once, validates everything that can be
// validated without I/O (ABI text, input JSON, addresses, wallet
// material, credentials), then runs the selected operation for every
// input item. The first failing item aborts the whole invocation.
func (e *Engine) Execute(ctx context.Context, creds chain.Credentials, rawParams map[string]interface{}, items []Item) ([]Item, error) {
	params, err := ResolveParameters(rawParams)
	if err != nil {
		return nil, err
	}

	p, err := buildPlan(params)
	if err != nil {
		return nil, fmt.Errorf("operation %s: %w", params.Operation, err)
	}

	if err := creds.Validate(); err != nil {
		return nil, err
	}
	client, err := e.newClient(ctx, params.Network, creds)
	if err != nil {
		return nil, err
	}

	e.logger.Info().
		Str("operation", params.Operation).
		Str("network", string(params.Network)).
		Int("items", len(items)).
		Msg("executing node")

	out := []Item{}
	for i := range items {
		records, err := e.run(ctx, client, p)
		if err != nil {
			return nil, fmt.Errorf("operation %s, item %d: %w", params.Operation, i, err)
		}
		out = append(out, records...)
	}
	return out, nil
}

// plan is the per-invocation state resolved before any network call.
type plan struct {
	params Parameters

	// call
	abi   contractabi.Definition
	args  []interface{}
	entry contractabi.Entry
	to    common.Address
	write bool

	// state-changing operations
	signer *wallet.Signer
}

func buildPlan(params Parameters) (*plan, error) {
	p := &plan{params: params}

	switch params.Operation {
	case OpCall:
		def, err := contractabi.Parse(params.ContractABI)
		if err != nil {
			return nil, err
		}
		p.abi = def

		args, err := jsonutil.ParseArray(params.ContractInputs)
		if err != nil {
			return nil, err
		}
		p.args = args

		entry, ok := def.Method(params.Method)
		if !ok {
			return nil, fmt.Errorf("method %q not found in ABI", params.Method)
		}
		p.entry = entry

		if !common.IsHexAddress(params.ContractAddress) {
			return nil, fmt.Errorf("invalid contract address %q", params.ContractAddress)
		}
		p.to = common.HexToAddress(params.ContractAddress)

		p.write = !isReadCall(params.Mutability, entry)
		if p.write {
			p.signer, err = wallet.FromSecrets(params.PrivateKey, params.Mnemonic)
			if err != nil {
				return nil, err
			}
		}

	case OpSendTransaction, OpSendRawTransaction:
		if !common.IsHexAddress(params.Recipient) {
			return nil, fmt.Errorf("invalid recipient address %q", params.Recipient)
		}
		p.to = common.HexToAddress(params.Recipient)

		signer, err := wallet.FromSecrets(params.PrivateKey, params.Mnemonic)
		if err != nil {
			return nil, err
		}
		p.signer = signer

	case OpGetTransactionCount:
		if !common.IsHexAddress(params.Address) {
			return nil, fmt.Errorf("invalid address %q", params.Address)
		}
	}

	return p, nil
}

// isReadCall decides whether a contract call executes as eth_call or as a
// signed transaction. An explicit mutability choice wins; otherwise the
// ABI entry's own mutability decides.
func isReadCall(m contractabi.Mutability, entry contractabi.Entry) bool {
	switch m {
	case contractabi.MutabilityView:
		return true
	case contractabi.MutabilityNonpayable, contractabi.MutabilityPayable:
		return false
	default:
		return entry.IsReadOnly()
	}
}

// run applies the selected operation for one input item.
func (e *Engine) run(ctx context.Context, client chain.Client, p *plan) ([]Item, error) {
	switch p.params.Operation {
	case OpGetBlockNumber:
		n, err := client.BlockNumber(ctx)
		if err != nil {
			return nil, err
		}
		return []Item{{"blockNumber": n}}, nil

	case OpGetBlockByNumber:
		raw, err := client.BlockByNumber(ctx, p.params.BlockTag, p.params.ShowTransactionDetails)
		if err != nil {
			return nil, err
		}
		block := Item{}
		if err := json.Unmarshal(raw, &block); err != nil || len(block) == 0 {
			return nil, fmt.Errorf("block %s not found", p.params.BlockTag)
		}
		return []Item{block}, nil

	case OpGetTransactionCount:
		n, err := client.TransactionCount(ctx, common.HexToAddress(p.params.Address), p.params.BlockTag)
		if err != nil {
			return nil, err
		}
		return []Item{{"transactionCount": n}}, nil

	case OpEstimateGas:
		price, err := client.GasPrice(ctx)
		if err != nil {
			return nil, err
		}
		return []Item{{"gasPrice": price.String()}}, nil

	case OpCall:
		return e.runCall(ctx, client, p)

	case OpSendRawTransaction:
		hash, err := e.submitTx(ctx, client, p, p.params.Value, nil)
		if err != nil {
			return nil, err
		}
		return []Item{{"transactionHash": hash.Hex()}}, nil

	case OpSendTransaction:
		hash, err := e.submitTx(ctx, client, p, p.params.Value, nil)
		if err != nil {
			return nil, err
		}
		receipt, err := e.waitReceipt(ctx, client, hash)
		if err != nil {
			return nil, err
		}
		return []Item{receipt}, nil

	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownOperation, p.params.Operation)
	}
}

// runCall encodes and executes a contract call, read or write.
func (e *Engine) runCall(ctx context.Context, client chain.Client, p *plan) ([]Item, error) {
	data, err := p.abi.EncodeCall(p.params.Method, p.args)
	if err != nil {
		return nil, err
	}

	if !p.write {
		out, err := client.CallContract(ctx, p.to, data)
		if err != nil {
			return nil, err
		}
		record, err := p.abi.DecodeResult(p.params.Method, out)
		if err != nil {
			return nil, err
		}
		return []Item{Item(record)}, nil
	}

	value := big.NewInt(0)
	if p.entry.StateMutability == "payable" {
		value = p.params.Value
	}
	hash, err := e.submitTx(ctx, client, p, value, data)
	if err != nil {
		return nil, err
	}
	return []Item{{"transactionHash": hash.Hex()}}, nil
}

// submitTx builds, signs and submits a legacy transaction. The nonce is
// fetched per transaction from the pending state; nothing coordinates
// concurrent submissions from the same account.
func (e *Engine) submitTx(ctx context.Context, client chain.Client, p *plan, value *big.Int, data []byte) (common.Hash, error) {
	chainID, err := client.ChainID(ctx)
	if err != nil {
		return common.Hash{}, err
	}
	nonce, err := client.TransactionCount(ctx, p.signer.Address(), chain.Pending())
	if err != nil {
		return common.Hash{}, err
	}

	tx := types.NewTransaction(nonce, p.to, value, p.params.GasLimit, p.params.GasPrice, data)
	signed, err := p.signer.SignTx(tx, chainID)
	if err != nil {
		return common.Hash{}, err
	}
	raw, err := signed.MarshalBinary()
	if err != nil {
		return common.Hash{}, fmt.Errorf("encode transaction: %w", err)
	}

	return client.SendRawTransaction(ctx, raw)
}

// waitReceipt polls for the transaction receipt until it lands or the
// attempt budget runs out.
func (e *Engine) waitReceipt(ctx context.Context, client chain.Client, hash common.Hash) (Item, error) {
	for attempt := 0; attempt < e.receiptPollAttempts; attempt++ {
		raw, err := client.TransactionReceipt(ctx, hash)
		if err != nil {
			return nil, err
		}
		if raw != nil {
			receipt := Item{}
			if err := json.Unmarshal(raw, &receipt); err != nil {
				return nil, fmt.Errorf("decode receipt: %w", err)
			}
			return receipt, nil
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(e.receiptPollInterval):
		}
	}
	return nil, fmt.Errorf("transaction %s not confirmed after %d attempts", hash.Hex(), e.receiptPollAttempts)
}
