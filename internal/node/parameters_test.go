package node

import (
	"errors"
	"math/big"
	"testing"

	"infuranode/internal/chain"
	"infuranode/internal/contractabi"
)

func TestResolveParameters_Defaults(t *testing.T) {
	p, err := ResolveParameters(map[string]interface{}{
		"operation": OpGetBlockNumber,
	})
	if err != nil {
		t.Fatalf("ResolveParameters: %v", err)
	}
	if p.Network != chain.NetworkMainnet {
		t.Errorf("network = %s, want mainnet", p.Network)
	}
	if p.GasLimit != DefaultGasLimit {
		t.Errorf("gasLimit = %d, want %d", p.GasLimit, DefaultGasLimit)
	}
	if p.GasPrice.Cmp(big.NewInt(20_000_000_000)) != 0 {
		t.Errorf("gasPrice = %s, want 20 gwei", p.GasPrice)
	}
	if p.Value.Sign() != 0 {
		t.Errorf("value = %s, want 0", p.Value)
	}
}

func TestResolveParameters_UnknownOperation(t *testing.T) {
	_, err := ResolveParameters(map[string]interface{}{"operation": "selfDestruct"})
	if !errors.Is(err, ErrUnknownOperation) {
		t.Errorf("err = %v, want ErrUnknownOperation", err)
	}
}

func TestResolveParameters_Network(t *testing.T) {
	p, err := ResolveParameters(map[string]interface{}{
		"operation": OpGetBlockNumber,
		"network":   "goerli",
	})
	if err != nil {
		t.Fatalf("ResolveParameters: %v", err)
	}
	if p.Network != chain.NetworkGoerli {
		t.Errorf("network = %s, want goerli", p.Network)
	}

	if _, err := ResolveParameters(map[string]interface{}{
		"operation": OpGetBlockNumber,
		"network":   "dogechain",
	}); err == nil {
		t.Error("expected error for unknown network")
	}
}

func TestResolveParameters_BlockNumber(t *testing.T) {
	p, err := ResolveParameters(map[string]interface{}{
		"operation":   OpGetBlockByNumber,
		"blockNumber": float64(128),
	})
	if err != nil {
		t.Fatalf("ResolveParameters: %v", err)
	}
	if !p.BlockTag.IsNumber() || p.BlockTag.Number().Int64() != 128 {
		t.Errorf("blockTag = %s, want 128", p.BlockTag)
	}

	p, err = ResolveParameters(map[string]interface{}{
		"operation":   OpGetBlockByNumber,
		"blockNumber": "pending",
	})
	if err != nil {
		t.Fatalf("ResolveParameters: %v", err)
	}
	if p.BlockTag.String() != "pending" {
		t.Errorf("blockTag = %s, want pending", p.BlockTag)
	}
}

func TestResolveParameters_ManualGas(t *testing.T) {
	p, err := ResolveParameters(map[string]interface{}{
		"operation": OpSendTransaction,
		"manualGas": true,
		"gasLimit":  float64(30000),
		"gasPrice":  float64(5),
	})
	if err != nil {
		t.Fatalf("ResolveParameters: %v", err)
	}
	if p.GasLimit != 30000 {
		t.Errorf("gasLimit = %d, want 30000", p.GasLimit)
	}
	if p.GasPrice.Cmp(big.NewInt(5_000_000_000)) != 0 {
		t.Errorf("gasPrice = %s, want 5 gwei", p.GasPrice)
	}
}

func TestResolveParameters_ManualGasOff(t *testing.T) {
	// gas fields are ignored unless manualGas is set
	p, err := ResolveParameters(map[string]interface{}{
		"operation": OpSendTransaction,
		"gasLimit":  float64(1),
		"gasPrice":  float64(1),
	})
	if err != nil {
		t.Fatalf("ResolveParameters: %v", err)
	}
	if p.GasLimit != DefaultGasLimit {
		t.Errorf("gasLimit = %d, want default", p.GasLimit)
	}
}

func TestResolveParameters_Value(t *testing.T) {
	p, err := ResolveParameters(map[string]interface{}{
		"operation": OpSendTransaction,
		"value":     "1000000000000000000",
	})
	if err != nil {
		t.Fatalf("ResolveParameters: %v", err)
	}
	want, _ := new(big.Int).SetString("1000000000000000000", 10)
	if p.Value.Cmp(want) != 0 {
		t.Errorf("value = %s", p.Value)
	}

	if _, err := ResolveParameters(map[string]interface{}{
		"operation": OpSendTransaction,
		"value":     "-5",
	}); err == nil {
		t.Error("expected error for negative value")
	}
}

func TestResolveParameters_Mutability(t *testing.T) {
	cases := map[string]contractabi.Mutability{
		"":           contractabi.MutabilityAny,
		"view":       contractabi.MutabilityView,
		"pure":       contractabi.MutabilityView,
		"nonpayable": contractabi.MutabilityNonpayable,
		"payable":    contractabi.MutabilityPayable,
	}
	for in, want := range cases {
		p, err := ResolveParameters(map[string]interface{}{
			"operation":  OpCall,
			"mutability": in,
		})
		if err != nil {
			t.Fatalf("ResolveParameters(%q): %v", in, err)
		}
		if p.Mutability != want {
			t.Errorf("mutability(%q) = %q, want %q", in, p.Mutability, want)
		}
	}

	if _, err := ResolveParameters(map[string]interface{}{
		"operation":  OpCall,
		"mutability": "constant",
	}); err == nil {
		t.Error("expected error for unknown mutability")
	}
}

func TestResolveParameters_TransactionCountTag(t *testing.T) {
	p, err := ResolveParameters(map[string]interface{}{
		"operation": OpGetTransactionCount,
		"address":   "0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266",
		"tag":       "pending",
	})
	if err != nil {
		t.Fatalf("ResolveParameters: %v", err)
	}
	if p.BlockTag.String() != "pending" {
		t.Errorf("blockTag = %s, want pending", p.BlockTag)
	}
}
