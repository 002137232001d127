package chain

import (
	"encoding/base64"
	"errors"
	"math/big"
	"testing"
)

func TestParseNetwork(t *testing.T) {
	for _, name := range []string{"mainnet", "ropsten", "rinkeby", "kovan", "goerli"} {
		n, err := ParseNetwork(name)
		if err != nil {
			t.Errorf("ParseNetwork(%q): %v", name, err)
		}
		if string(n) != name {
			t.Errorf("ParseNetwork(%q) = %q", name, n)
		}
	}

	if _, err := ParseNetwork("hardhat"); err == nil {
		t.Error("ParseNetwork accepted unknown network")
	}
	if _, err := ParseNetwork(""); err == nil {
		t.Error("ParseNetwork accepted empty network")
	}
}

func TestNetwork_Endpoints(t *testing.T) {
	n := NetworkMainnet
	if got := n.RPCEndpoint("abc123"); got != "https://mainnet.infura.io/v3/abc123" {
		t.Errorf("RPCEndpoint = %s", got)
	}
	if got := n.WSEndpoint("abc123"); got != "wss://mainnet.infura.io/ws/v3/abc123" {
		t.Errorf("WSEndpoint = %s", got)
	}
}

func TestCredentials_Validate(t *testing.T) {
	if err := (Credentials{}).Validate(); !errors.Is(err, ErrMissingCredentials) {
		t.Errorf("err = %v, want ErrMissingCredentials", err)
	}
	if err := (Credentials{ProjectID: "p"}).Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestCredentials_BasicAuthHeader(t *testing.T) {
	c := Credentials{ProjectID: "p", ProjectSecret: "s3cret"}
	want := "Basic " + base64.StdEncoding.EncodeToString([]byte(":s3cret"))
	if got := c.BasicAuthHeader(); got != want {
		t.Errorf("BasicAuthHeader = %s, want %s", got, want)
	}

	if got := (Credentials{ProjectID: "p"}).BasicAuthHeader(); got != "" {
		t.Errorf("BasicAuthHeader = %q, want empty without secret", got)
	}
}

func TestParseBlockTag(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"", "latest"},
		{"latest", "latest"},
		{"Pending", "pending"},
		{"earliest", "earliest"},
		{"42", "0x2a"},
		{"0x10", "0x10"},
		{"0", "0x0"},
	}
	for _, tt := range tests {
		tag, err := ParseBlockTag(tt.input)
		if err != nil {
			t.Errorf("ParseBlockTag(%q): %v", tt.input, err)
			continue
		}
		if tag.String() != tt.want {
			t.Errorf("ParseBlockTag(%q) = %s, want %s", tt.input, tag.String(), tt.want)
		}
	}

	for _, input := range []string{"notatag", "-1", "0x"} {
		if _, err := ParseBlockTag(input); err == nil {
			t.Errorf("ParseBlockTag(%q): expected error", input)
		}
	}
}

func TestBlockTag_Number(t *testing.T) {
	tag := BlockNumber(big.NewInt(16))
	if !tag.IsNumber() {
		t.Fatal("IsNumber = false")
	}
	if tag.Number().Int64() != 16 {
		t.Errorf("Number = %v", tag.Number())
	}
	if tag.String() != "0x10" {
		t.Errorf("String = %s, want 0x10", tag.String())
	}

	if Latest().IsNumber() {
		t.Error("latest reported as number")
	}
	if Latest().Number() != nil {
		t.Error("latest Number != nil")
	}
}

func TestRPCError(t *testing.T) {
	inner := errors.New("connection refused")
	err := WrapRPC("eth_blockNumber", inner)
	if !errors.Is(err, inner) {
		t.Error("Unwrap lost inner error")
	}
	var rpcErr *RPCError
	if !errors.As(error(err), &rpcErr) {
		t.Error("errors.As failed")
	}
	if rpcErr.Method != "eth_blockNumber" {
		t.Errorf("Method = %s", rpcErr.Method)
	}
}
