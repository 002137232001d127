// Package contractabi parses contract ABI definitions and answers the
// introspection queries the node UI needs: which functions are callable
// under a given mutability, and what a chosen function's inputs are named.
// Call-data encoding and return-data decoding delegate to
// go-ethereum's accounts/abi.
package contractabi

import (
	"encoding/json"

	"infuranode/internal/jsonutil"
)

// Entry kinds found in a standard JSON ABI array.
const (
	TypeFunction    = "function"
	TypeEvent       = "event"
	TypeConstructor = "constructor"
	TypeFallback    = "fallback"
	TypeReceive     = "receive"
	TypeError       = "error"
)

// Mutability filters the function listing.
type Mutability string

const (
	// MutabilityAny matches every function entry.
	MutabilityAny Mutability = ""
	// MutabilityView matches both view and pure functions.
	MutabilityView Mutability = "view"
	// MutabilityNonpayable matches nonpayable functions.
	MutabilityNonpayable Mutability = "nonpayable"
	// MutabilityPayable matches payable functions.
	MutabilityPayable Mutability = "payable"
)

// Parameter is a named, typed input or output of an ABI entry.
type Parameter struct {
	Name       string      `json:"name"`
	Type       string      `json:"type"`
	Components []Parameter `json:"components,omitempty"`
}

// Entry is one element of the ABI array, tagged by Type.
type Entry struct {
	Type            string      `json:"type"`
	Name            string      `json:"name"`
	StateMutability string      `json:"stateMutability"`
	Inputs          []Parameter `json:"inputs"`
	Outputs         []Parameter `json:"outputs"`
	Anonymous       bool        `json:"anonymous,omitempty"`
}

// IsReadOnly reports whether calling the entry cannot change state.
func (e Entry) IsReadOnly() bool {
	return e.StateMutability == "view" || e.StateMutability == "pure"
}

// Definition is a parsed contract ABI. The raw text is retained because
// the accounts/abi encoder consumes the original JSON.
type Definition struct {
	raw     string
	entries []Entry
}

// Parse decodes text as a JSON ABI array. Empty or malformed text yields
// jsonutil.ErrInvalidJSON.
func Parse(text string) (Definition, error) {
	if _, ok := jsonutil.Parse(text); !ok {
		return Definition{}, jsonutil.ErrInvalidJSON
	}
	var entries []Entry
	if err := json.Unmarshal([]byte(text), &entries); err != nil {
		return Definition{}, jsonutil.ErrInvalidJSON
	}
	return Definition{raw: text, entries: entries}, nil
}

// Entries returns the parsed ABI entries in their original order.
func (d Definition) Entries() []Entry {
	return d.entries
}

// Methods returns the ordered distinct names of function entries matching
// the mutability filter. MutabilityAny matches all functions;
// MutabilityView matches view and pure.
func (d Definition) Methods(filter Mutability) []string {
	names := []string{}
	seen := map[string]bool{}
	for _, e := range d.entries {
		if e.Type != TypeFunction {
			continue
		}
		if !matchesMutability(e, filter) {
			continue
		}
		if seen[e.Name] {
			continue
		}
		seen[e.Name] = true
		names = append(names, e.Name)
	}
	return names
}

// MethodInputs returns the ordered input parameter names of the first
// function entry with the given name. Unknown names yield an empty slice.
func (d Definition) MethodInputs(name string) []string {
	entry, ok := d.Method(name)
	if !ok {
		return []string{}
	}
	inputs := make([]string, 0, len(entry.Inputs))
	for _, in := range entry.Inputs {
		inputs = append(inputs, in.Name)
	}
	return inputs
}

// Method returns the first function entry with the given name.
func (d Definition) Method(name string) (Entry, bool) {
	for _, e := range d.entries {
		if e.Type == TypeFunction && e.Name == name {
			return e, true
		}
	}
	return Entry{}, false
}

func matchesMutability(e Entry, filter Mutability) bool {
	switch filter {
	case MutabilityAny:
		return true
	case MutabilityView:
		return e.StateMutability == "view" || e.StateMutability == "pure"
	default:
		return e.StateMutability == string(filter)
	}
}
