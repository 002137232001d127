package contractabi

import (
	"fmt"
	"math/big"
	"reflect"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// EncodeCall ABI-encodes a call to the named method. Arguments come from
// JSON-decoded input text, so they arrive as strings, float64 numbers,
// bools and nested slices; each is coerced to the Go type the encoder
// expects for the corresponding Solidity type.
func (d Definition) EncodeCall(method string, args []interface{}) ([]byte, error) {
	parsed, err := abi.JSON(strings.NewReader(d.raw))
	if err != nil {
		return nil, fmt.Errorf("parse ABI: %w", err)
	}

	m, ok := parsed.Methods[method]
	if !ok {
		return nil, fmt.Errorf("method %q not found in ABI", method)
	}
	if len(args) != len(m.Inputs) {
		return nil, fmt.Errorf("method %q expects %d inputs, got %d", method, len(m.Inputs), len(args))
	}

	coerced := make([]interface{}, len(args))
	for i, arg := range args {
		v, err := coerce(m.Inputs[i].Type, arg)
		if err != nil {
			return nil, fmt.Errorf("input %q: %w", m.Inputs[i].Name, err)
		}
		coerced[i] = v
	}

	data, err := parsed.Pack(method, coerced...)
	if err != nil {
		return nil, fmt.Errorf("encode call to %q: %w", method, err)
	}
	return data, nil
}

// DecodeResult decodes ABI-encoded return data of the named method into a
// flat record keyed by output name (outputN when unnamed). Values are
// normalized to JSON-friendly types.
func (d Definition) DecodeResult(method string, data []byte) (map[string]interface{}, error) {
	parsed, err := abi.JSON(strings.NewReader(d.raw))
	if err != nil {
		return nil, fmt.Errorf("parse ABI: %w", err)
	}

	m, ok := parsed.Methods[method]
	if !ok {
		return nil, fmt.Errorf("method %q not found in ABI", method)
	}

	record := map[string]interface{}{}
	if len(m.Outputs) == 0 || len(data) == 0 {
		return record, nil
	}

	values, err := parsed.Unpack(method, data)
	if err != nil {
		return nil, fmt.Errorf("decode result of %q: %w", method, err)
	}

	for i, out := range m.Outputs {
		name := out.Name
		if name == "" {
			name = fmt.Sprintf("output%d", i)
		}
		record[name] = normalize(values[i])
	}
	return record, nil
}

// coerce converts a JSON-decoded value into the Go representation
// accounts/abi requires for t.
func coerce(t abi.Type, v interface{}) (interface{}, error) {
	switch t.T {
	case abi.AddressTy:
		s, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("expected address string, got %T", v)
		}
		if !common.IsHexAddress(s) {
			return nil, fmt.Errorf("invalid address %q", s)
		}
		return common.HexToAddress(s), nil

	case abi.UintTy, abi.IntTy:
		n, err := toBig(v)
		if err != nil {
			return nil, err
		}
		return sizeInteger(t, n)

	case abi.BoolTy:
		switch b := v.(type) {
		case bool:
			return b, nil
		case string:
			return b == "true", nil
		default:
			return nil, fmt.Errorf("expected bool, got %T", v)
		}

	case abi.StringTy:
		s, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("expected string, got %T", v)
		}
		return s, nil

	case abi.BytesTy:
		s, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("expected hex string for bytes, got %T", v)
		}
		return common.FromHex(s), nil

	case abi.FixedBytesTy, abi.HashTy:
		s, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("expected hex string for bytes%d, got %T", t.Size, v)
		}
		raw := common.FromHex(s)
		if len(raw) != t.Size {
			return nil, fmt.Errorf("bytes%d value has %d bytes", t.Size, len(raw))
		}
		arr := reflect.New(t.GetType()).Elem()
		reflect.Copy(arr, reflect.ValueOf(raw))
		return arr.Interface(), nil

	case abi.SliceTy, abi.ArrayTy:
		items, ok := v.([]interface{})
		if !ok {
			return nil, fmt.Errorf("expected array, got %T", v)
		}
		slice := reflect.MakeSlice(reflect.SliceOf(t.Elem.GetType()), 0, len(items))
		for i, item := range items {
			ev, err := coerce(*t.Elem, item)
			if err != nil {
				return nil, fmt.Errorf("element %d: %w", i, err)
			}
			slice = reflect.Append(slice, reflect.ValueOf(ev))
		}
		if t.T == abi.ArrayTy {
			arr := reflect.New(t.GetType()).Elem()
			reflect.Copy(arr, slice)
			return arr.Interface(), nil
		}
		return slice.Interface(), nil

	default:
		// tuples and exotic types pass through; the encoder rejects
		// mismatches with its own error
		return v, nil
	}
}

// sizeInteger maps a big.Int onto the exact integer type the encoder
// expects for the declared bit size. Values outside the type's range are
// rejected; truncating here would sign and submit a wrong argument.
func sizeInteger(t abi.Type, n *big.Int) (interface{}, error) {
	if t.T == abi.UintTy {
		if n.Sign() < 0 {
			return nil, fmt.Errorf("negative value %s for uint%d", n, t.Size)
		}
		if n.BitLen() > t.Size {
			return nil, fmt.Errorf("value %s overflows uint%d", n, t.Size)
		}
		switch t.Size {
		case 8:
			return uint8(n.Uint64()), nil
		case 16:
			return uint16(n.Uint64()), nil
		case 32:
			return uint32(n.Uint64()), nil
		case 64:
			return n.Uint64(), nil
		default:
			return n, nil
		}
	}

	// intN range is [-2^(size-1), 2^(size-1)-1]
	bound := new(big.Int).Lsh(big.NewInt(1), uint(t.Size-1))
	max := new(big.Int).Sub(bound, big.NewInt(1))
	min := new(big.Int).Neg(bound)
	if n.Cmp(min) < 0 || n.Cmp(max) > 0 {
		return nil, fmt.Errorf("value %s overflows int%d", n, t.Size)
	}
	switch t.Size {
	case 8:
		return int8(n.Int64()), nil
	case 16:
		return int16(n.Int64()), nil
	case 32:
		return int32(n.Int64()), nil
	case 64:
		return n.Int64(), nil
	default:
		return n, nil
	}
}

// toBig accepts the number shapes JSON decoding produces.
func toBig(v interface{}) (*big.Int, error) {
	switch n := v.(type) {
	case float64:
		if n != float64(int64(n)) {
			return nil, fmt.Errorf("non-integer number %v", n)
		}
		return big.NewInt(int64(n)), nil
	case string:
		s := n
		base := 10
		if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
			s = s[2:]
			base = 16
		}
		b, ok := new(big.Int).SetString(s, base)
		if !ok {
			return nil, fmt.Errorf("invalid integer %q", n)
		}
		return b, nil
	default:
		return nil, fmt.Errorf("expected number, got %T", v)
	}
}

// normalize converts decoded ABI values into JSON-friendly types.
func normalize(v interface{}) interface{} {
	switch val := v.(type) {
	case common.Address:
		return val.Hex()
	case common.Hash:
		return val.Hex()
	case *big.Int:
		return val.String()
	case []byte:
		return hexutil.Encode(val)
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Array:
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			raw := make([]byte, rv.Len())
			reflect.Copy(reflect.ValueOf(raw), rv)
			return hexutil.Encode(raw)
		}
	case reflect.Slice:
		out := make([]interface{}, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			out[i] = normalize(rv.Index(i).Interface())
		}
		return out
	}
	return v
}
