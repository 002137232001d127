package jsonutil

import (
	"encoding/json"
	"errors"
)

// ErrInvalidJSON is returned by callers that require valid JSON in a
// position where Parse reported failure.
var ErrInvalidJSON = errors.New("invalid JSON")

// Parse decodes s as JSON. It returns the decoded value and true on
// success, or (nil, false) for empty input or any decode failure.
// It never returns an error; the caller decides whether an invalid
// value is fatal for its operation.
func Parse(s string) (interface{}, bool) {
	if s == "" {
		return nil, false
	}
	var v interface{}
	if err := json.Unmarshal([]byte(s), &v); err != nil {
		return nil, false
	}
	return v, true
}

// ParseArray decodes s as a JSON array. A missing value yields an empty
// slice; anything that is valid JSON but not an array, or invalid JSON,
// yields ErrInvalidJSON.
func ParseArray(s string) ([]interface{}, error) {
	if s == "" {
		return []interface{}{}, nil
	}
	v, ok := Parse(s)
	if !ok {
		return nil, ErrInvalidJSON
	}
	arr, ok := v.([]interface{})
	if !ok {
		return nil, ErrInvalidJSON
	}
	return arr, nil
}
