package jsonrpc

import (
	"encoding/json"
	"fmt"
	"math/big"
	"strconv"
	"strings"
)

// HexToUint64 decodes a JSON-encoded hex quantity ("0x2a") into a uint64.
func HexToUint64(raw json.RawMessage) (uint64, error) {
	s, err := hexQuantity(raw)
	if err != nil {
		return 0, err
	}
	n, err := strconv.ParseUint(s, 16, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid hex quantity %q: %w", s, err)
	}
	return n, nil
}

// HexToBig decodes a JSON-encoded hex quantity into a big.Int.
func HexToBig(raw json.RawMessage) (*big.Int, error) {
	s, err := hexQuantity(raw)
	if err != nil {
		return nil, err
	}
	n, ok := new(big.Int).SetString(s, 16)
	if !ok {
		return nil, fmt.Errorf("invalid hex quantity %q", s)
	}
	return n, nil
}

// hexQuantity unwraps a JSON string and strips the 0x prefix.
func hexQuantity(raw json.RawMessage) (string, error) {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", fmt.Errorf("result is not a string: %w", err)
	}
	trimmed := strings.TrimPrefix(s, "0x")
	if trimmed == s || trimmed == "" {
		return "", fmt.Errorf("invalid hex quantity %q", s)
	}
	return trimmed, nil
}
