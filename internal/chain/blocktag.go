package chain

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common/hexutil"
)

// Block tags understood by the JSON-RPC block parameter.
var namedBlockTags = map[string]bool{
	"latest":   true,
	"earliest": true,
	"pending":  true,
}

// BlockTag is a JSON-RPC block parameter: a named tag (latest, earliest,
// pending) or a literal block number.
type BlockTag struct {
	tag    string
	number *big.Int
}

// Latest returns the "latest" block tag.
func Latest() BlockTag {
	return BlockTag{tag: "latest"}
}

// Earliest returns the "earliest" block tag.
func Earliest() BlockTag {
	return BlockTag{tag: "earliest"}
}

// Pending returns the "pending" block tag.
func Pending() BlockTag {
	return BlockTag{tag: "pending"}
}

// BlockNumber returns a literal block-number tag.
func BlockNumber(n *big.Int) BlockTag {
	return BlockTag{number: new(big.Int).Set(n)}
}

// ParseBlockTag accepts a named tag, a decimal number, or a 0x-hex
// quantity. Empty input defaults to latest.
func ParseBlockTag(s string) (BlockTag, error) {
	if s == "" {
		return Latest(), nil
	}
	lower := strings.ToLower(s)
	if namedBlockTags[lower] {
		return BlockTag{tag: lower}, nil
	}

	base := 10
	digits := lower
	if strings.HasPrefix(lower, "0x") {
		base = 16
		digits = lower[2:]
	}
	n, ok := new(big.Int).SetString(digits, base)
	if !ok || n.Sign() < 0 {
		return BlockTag{}, fmt.Errorf("invalid block tag %q", s)
	}
	return BlockTag{number: n}, nil
}

// IsNumber reports whether the tag is a literal block number.
func (t BlockTag) IsNumber() bool {
	return t.number != nil
}

// Number returns the literal block number, nil for named tags.
func (t BlockTag) Number() *big.Int {
	if t.number == nil {
		return nil
	}
	return new(big.Int).Set(t.number)
}

// String renders the tag as the JSON-RPC block parameter.
func (t BlockTag) String() string {
	if t.number != nil {
		return hexutil.EncodeBig(t.number)
	}
	if t.tag == "" {
		return "latest"
	}
	return t.tag
}
