package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"math/big"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/rs/zerolog"

	"infuranode/internal/chain"
	"infuranode/internal/config"
)

// stubClient implements chain.Client for handler tests.
type stubClient struct {
	blockNumber uint64
	err         error
}

func (c *stubClient) BlockNumber(ctx context.Context) (uint64, error) {
	return c.blockNumber, c.err
}

func (c *stubClient) BlockByNumber(ctx context.Context, tag chain.BlockTag, fullTx bool) (json.RawMessage, error) {
	return nil, c.err
}

func (c *stubClient) GasPrice(ctx context.Context) (*big.Int, error) {
	return big.NewInt(0), c.err
}

func (c *stubClient) ChainID(ctx context.Context) (*big.Int, error) {
	return big.NewInt(1), c.err
}

func (c *stubClient) TransactionCount(ctx context.Context, addr common.Address, tag chain.BlockTag) (uint64, error) {
	return 0, c.err
}

func (c *stubClient) CallContract(ctx context.Context, to common.Address, data []byte) ([]byte, error) {
	return nil, c.err
}

func (c *stubClient) SendRawTransaction(ctx context.Context, raw []byte) (common.Hash, error) {
	return common.Hash{}, c.err
}

func (c *stubClient) TransactionReceipt(ctx context.Context, hash common.Hash) (json.RawMessage, error) {
	return nil, c.err
}

func newTestServer(t *testing.T, client chain.Client) *httptest.Server {
	t.Helper()

	cfg := &config.Config{
		Host:                "localhost",
		Port:                config.DefaultPort,
		LogLevel:            "info",
		MaxBodySize:         config.DefaultMaxBodySize,
		RequestTimeout:      config.DefaultRequestTimeout,
		ClientMode:          config.ClientModeRPC,
		ProviderCacheSize:   config.DefaultProviderCacheSize,
		ReceiptPollInterval: 1,
		ReceiptPollAttempts: 1,
	}

	srv, err := New(cfg, zerolog.Nop())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if client != nil {
		srv.newClient = func(ctx context.Context, network chain.Network, creds chain.Credentials) (chain.Client, error) {
			return client, nil
		}
	}

	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func postJSON(t *testing.T, url, body string) (*http.Response, map[string]interface{}) {
	t.Helper()
	resp, err := http.Post(url, "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("POST %s: %v", url, err)
	}
	defer resp.Body.Close()

	decoded := map[string]interface{}{}
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return resp, decoded
}

func TestDescriptor(t *testing.T) {
	ts := newTestServer(t, nil)

	resp, err := http.Get(ts.URL + "/v1/descriptor")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	var d struct {
		Name       string `json:"name"`
		Properties []struct {
			Name string `json:"name"`
		} `json:"properties"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&d); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if d.Name != "ethereum" {
		t.Errorf("name = %q", d.Name)
	}
	if len(d.Properties) == 0 {
		t.Error("no properties")
	}
}

func TestMethodOptions(t *testing.T) {
	ts := newTestServer(t, nil)

	abi := `[{"type":"function","name":"foo","stateMutability":"view","inputs":[],"outputs":[]}]`
	body, _ := json.Marshal(map[string]string{"contractABI": abi})

	resp, decoded := postJSON(t, ts.URL+"/v1/options/methods", string(body))
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	options, _ := decoded["options"].([]interface{})
	if len(options) != 1 || options[0] != "foo" {
		t.Errorf("options = %v", options)
	}
}

func TestMethodOptions_MalformedABI(t *testing.T) {
	ts := newTestServer(t, nil)

	body, _ := json.Marshal(map[string]string{"contractABI": "{oops"})
	resp, decoded := postJSON(t, ts.URL+"/v1/options/methods", string(body))
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
	detail, _ := decoded["error"].(map[string]interface{})
	if detail["message"] == "" || detail["message"] == nil {
		t.Errorf("error = %v, want message", decoded["error"])
	}
}

func TestInputOptions(t *testing.T) {
	ts := newTestServer(t, nil)

	abi := `[{"type":"function","name":"transfer","stateMutability":"nonpayable",
		"inputs":[{"name":"to","type":"address"},{"name":"amount","type":"uint256"}],"outputs":[]}]`
	body, _ := json.Marshal(map[string]string{"contractABI": abi, "method": "transfer"})

	resp, decoded := postJSON(t, ts.URL+"/v1/options/inputs", string(body))
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	options, _ := decoded["options"].([]interface{})
	if len(options) != 2 || options[0] != "to" || options[1] != "amount" {
		t.Errorf("options = %v", options)
	}
}

func TestExecute(t *testing.T) {
	ts := newTestServer(t, &stubClient{blockNumber: 42})

	resp, decoded := postJSON(t, ts.URL+"/v1/execute", `{
		"credentials": {"projectId": "project"},
		"parameters": {"operation": "getBlockNumber"},
		"items": [{}]
	}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d: %v", resp.StatusCode, decoded)
	}
	items, _ := decoded["items"].([]interface{})
	if len(items) != 1 {
		t.Fatalf("items = %v", items)
	}
	item, _ := items[0].(map[string]interface{})
	if item["blockNumber"] != float64(42) {
		t.Errorf("blockNumber = %v", item["blockNumber"])
	}
}

func TestExecute_MissingCredentials(t *testing.T) {
	ts := newTestServer(t, &stubClient{})

	resp, _ := postJSON(t, ts.URL+"/v1/execute", `{
		"parameters": {"operation": "getBlockNumber"},
		"items": [{}]
	}`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
}

func TestExecute_UnknownOperation(t *testing.T) {
	ts := newTestServer(t, &stubClient{})

	resp, _ := postJSON(t, ts.URL+"/v1/execute", `{
		"credentials": {"projectId": "project"},
		"parameters": {"operation": "mineBlock"},
		"items": [{}]
	}`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
}

func TestExecute_MalformedBody(t *testing.T) {
	ts := newTestServer(t, &stubClient{})

	resp, _ := postJSON(t, ts.URL+"/v1/execute", `{not json`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
}

func TestExecute_UpstreamFailure(t *testing.T) {
	ts := newTestServer(t, &stubClient{err: chain.WrapRPC("eth_blockNumber", errors.New("connection refused"))})

	resp, decoded := postJSON(t, ts.URL+"/v1/execute", `{
		"credentials": {"projectId": "project"},
		"parameters": {"operation": "getBlockNumber"},
		"items": [{}]
	}`)
	if resp.StatusCode != http.StatusBadGateway {
		t.Errorf("status = %d, want 502", resp.StatusCode)
	}

	detail, _ := decoded["error"].(map[string]interface{})
	if detail["operation"] != "getBlockNumber" {
		t.Errorf("error.operation = %v, want getBlockNumber", detail["operation"])
	}
	msg, _ := detail["message"].(string)
	if !strings.Contains(msg, "connection refused") {
		t.Errorf("error.message = %q", msg)
	}
}

func TestExecute_BodyTooLarge(t *testing.T) {
	ts := newTestServer(t, &stubClient{})

	filler := bytes.Repeat([]byte("x"), int(config.DefaultMaxBodySize)+1)
	body := `{"credentials": {"projectId": "` + string(filler) + `"}}`

	resp, _ := postJSON(t, ts.URL+"/v1/execute", body)
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
}

func TestMethodNotAllowed(t *testing.T) {
	ts := newTestServer(t, nil)

	resp, err := http.Get(ts.URL + "/v1/execute")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want 405", resp.StatusCode)
	}
}
