// Package node implements the Ethereum workflow node: its descriptor
// metadata, the host-resolved parameter set, the dropdown option queries
// and the operation dispatcher.
package node

import (
	"errors"
	"fmt"
	"math/big"

	"infuranode/internal/chain"
	"infuranode/internal/contractabi"
)

// Operations the node exposes to the host platform.
const (
	OpGetBlockNumber      = "getBlockNumber"
	OpGetBlockByNumber    = "getBlockByNumber"
	OpCall                = "call"
	OpSendTransaction     = "sendTransaction"
	OpSendRawTransaction  = "sendRawTransaction"
	OpGetTransactionCount = "getTransactionCount"
	// OpEstimateGas keeps its historical name; it returns the current
	// network gas price.
	OpEstimateGas = "estimateGas"
)

// ErrUnknownOperation is returned when the host selects an operation the
// node does not implement.
var ErrUnknownOperation = errors.New("unknown operation")

var knownOperations = map[string]bool{
	OpGetBlockNumber:      true,
	OpGetBlockByNumber:    true,
	OpCall:                true,
	OpSendTransaction:     true,
	OpSendRawTransaction:  true,
	OpGetTransactionCount: true,
	OpEstimateGas:         true,
}

// Gas defaults applied when the user does not opt into manual gas.
const (
	DefaultGasLimit     = uint64(210000)
	DefaultGasPriceGwei = int64(20)
)

var gwei = big.NewInt(1_000_000_000)

// Parameters enumerates every option the host can set on the node,
// resolved once at invocation entry. Field names mirror the descriptor
// property names.
type Parameters struct {
	Operation string
	Network   chain.Network

	// getBlockByNumber
	BlockTag               chain.BlockTag
	ShowTransactionDetails bool

	// call
	ContractAddress string
	Method          string
	ContractInputs  string
	ContractABI     string
	Mutability      contractabi.Mutability

	// gas configuration for state-changing calls
	ManualGas bool
	GasLimit  uint64
	GasPrice  *big.Int // wei

	// value transfers
	Recipient string
	Value     *big.Int // wei

	// getTransactionCount
	Address string

	// wallet material, transient per invocation
	PrivateKey string
	Mnemonic   string
}

// ResolveParameters maps the host-supplied parameter record onto the
// explicit Parameters struct, applying defaults and validating the
// enumerations. It performs no I/O.
func ResolveParameters(raw map[string]interface{}) (Parameters, error) {
	p := Parameters{
		GasLimit: DefaultGasLimit,
		GasPrice: new(big.Int).Mul(big.NewInt(DefaultGasPriceGwei), gwei),
		Value:    big.NewInt(0),
	}

	p.Operation = stringOpt(raw, "operation", "")
	if !knownOperations[p.Operation] {
		return Parameters{}, fmt.Errorf("%w: %q", ErrUnknownOperation, p.Operation)
	}

	network, err := chain.ParseNetwork(stringOpt(raw, "network", string(chain.NetworkMainnet)))
	if err != nil {
		return Parameters{}, err
	}
	p.Network = network

	p.BlockTag, err = chain.ParseBlockTag(stringOrNumberOpt(raw, "blockNumber"))
	if err != nil {
		return Parameters{}, err
	}
	p.ShowTransactionDetails = boolOpt(raw, "showTransactionDetails", false)

	p.ContractAddress = stringOpt(raw, "contractAddress", "")
	p.Method = stringOpt(raw, "method", "")
	p.ContractInputs = stringOpt(raw, "contractInputs", "")
	p.ContractABI = stringOpt(raw, "contractABI", "")
	p.Mutability, err = ParseMutability(stringOpt(raw, "mutability", ""))
	if err != nil {
		return Parameters{}, err
	}

	p.ManualGas = boolOpt(raw, "manualGas", false)
	if p.ManualGas {
		if limit, ok := uintOpt(raw, "gasLimit"); ok {
			p.GasLimit = limit
		}
		if priceGwei, ok := uintOpt(raw, "gasPrice"); ok {
			p.GasPrice = new(big.Int).Mul(new(big.Int).SetUint64(priceGwei), gwei)
		}
	}

	if value := stringOrNumberOpt(raw, "value"); value != "" {
		v, ok := new(big.Int).SetString(value, 10)
		if !ok || v.Sign() < 0 {
			return Parameters{}, fmt.Errorf("invalid value %q", value)
		}
		p.Value = v
	}

	p.Recipient = stringOpt(raw, "recipient", "")
	p.Address = stringOpt(raw, "address", "")

	// getTransactionCount takes its block position from "tag"
	if p.Operation == OpGetTransactionCount {
		p.BlockTag, err = chain.ParseBlockTag(stringOrNumberOpt(raw, "tag"))
		if err != nil {
			return Parameters{}, err
		}
	}

	p.PrivateKey = stringOpt(raw, "privateKey", "")
	p.Mnemonic = stringOpt(raw, "mnemonic", "")

	return p, nil
}

// ParseMutability maps the descriptor's mutability option onto the ABI
// filter. "pure" folds into the view filter; both execute as eth_call.
func ParseMutability(s string) (contractabi.Mutability, error) {
	switch s {
	case "":
		return contractabi.MutabilityAny, nil
	case "view", "pure":
		return contractabi.MutabilityView, nil
	case "nonpayable":
		return contractabi.MutabilityNonpayable, nil
	case "payable":
		return contractabi.MutabilityPayable, nil
	default:
		return contractabi.MutabilityAny, fmt.Errorf("invalid mutability %q", s)
	}
}

func stringOpt(raw map[string]interface{}, key, def string) string {
	if v, ok := raw[key].(string); ok && v != "" {
		return v
	}
	return def
}

// stringOrNumberOpt renders numeric parameters the host may send as JSON
// numbers (block numbers, wei values) as decimal strings.
func stringOrNumberOpt(raw map[string]interface{}, key string) string {
	switch v := raw[key].(type) {
	case string:
		return v
	case float64:
		return new(big.Int).SetInt64(int64(v)).String()
	default:
		return ""
	}
}

func boolOpt(raw map[string]interface{}, key string, def bool) bool {
	if v, ok := raw[key].(bool); ok {
		return v
	}
	return def
}

func uintOpt(raw map[string]interface{}, key string) (uint64, bool) {
	switch v := raw[key].(type) {
	case float64:
		if v < 0 {
			return 0, false
		}
		return uint64(v), true
	case string:
		n, ok := new(big.Int).SetString(v, 10)
		if !ok || n.Sign() < 0 || !n.IsUint64() {
			return 0, false
		}
		return n.Uint64(), true
	default:
		return 0, false
	}
}
