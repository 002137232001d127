package config

import "time"

// ClientMode selects how invocations reach the chain.
type ClientMode string

const (
	// ClientModeRPC calls the JSON-RPC endpoint over HTTPS.
	ClientModeRPC ClientMode = "rpc"
	// ClientModeRPCWS calls the JSON-RPC endpoint over WebSocket.
	ClientModeRPCWS ClientMode = "rpc-ws"
	// ClientModeProvider uses the go-ethereum client with a cached handle
	// per credential/network pair.
	ClientModeProvider ClientMode = "provider"
)

// Config represents the main configuration structure
type Config struct {
	Host                string     `json:"host"`
	Port                int        `json:"port"`
	LogLevel            string     `json:"logLevel"`
	MaxBodySize         int64      `json:"maxBodySize"`
	RequestTimeout      int        `json:"requestTimeout"` // ms - timeout for upstream JSON-RPC calls
	ClientMode          ClientMode `json:"clientMode"`
	ProviderCacheSize   int        `json:"providerCacheSize"`
	ReceiptPollInterval int        `json:"receiptPollInterval"` // ms - delay between receipt polls
	ReceiptPollAttempts int        `json:"receiptPollAttempts"`
}

// Default values
const (
	DefaultHost                = "localhost"
	DefaultPort                = 8190
	DefaultLogLevel            = "info"
	DefaultMaxBodySize         = int64(1 << 20) // 1 MiB
	DefaultRequestTimeout      = 15000          // ms
	DefaultClientMode          = ClientModeRPC
	DefaultProviderCacheSize   = 32
	DefaultReceiptPollInterval = 2000 // ms
	DefaultReceiptPollAttempts = 30
)

// GetRequestTimeoutDuration returns request timeout as time.Duration
func (c *Config) GetRequestTimeoutDuration() time.Duration {
	return time.Duration(c.RequestTimeout) * time.Millisecond
}

// GetReceiptPollIntervalDuration returns receipt poll interval as time.Duration
func (c *Config) GetReceiptPollIntervalDuration() time.Duration {
	return time.Duration(c.ReceiptPollInterval) * time.Millisecond
}
