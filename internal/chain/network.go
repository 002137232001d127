// Package chain defines the Ethereum client capability the node
// dispatcher programs against, plus the network, credential and block-tag
// types shared by its implementations.
package chain

import "fmt"

// Network is an Infura-hosted Ethereum network.
type Network string

const (
	NetworkMainnet Network = "mainnet"
	NetworkRopsten Network = "ropsten"
	NetworkRinkeby Network = "rinkeby"
	NetworkKovan   Network = "kovan"
	NetworkGoerli  Network = "goerli"
)

var knownNetworks = map[Network]bool{
	NetworkMainnet: true,
	NetworkRopsten: true,
	NetworkRinkeby: true,
	NetworkKovan:   true,
	NetworkGoerli:  true,
}

// ParseNetwork validates a host-supplied network name.
func ParseNetwork(s string) (Network, error) {
	n := Network(s)
	if !knownNetworks[n] {
		return "", fmt.Errorf("unknown network %q", s)
	}
	return n, nil
}

// RPCEndpoint returns the HTTPS JSON-RPC endpoint for the network.
func (n Network) RPCEndpoint(projectID string) string {
	return fmt.Sprintf("https://%s.infura.io/v3/%s", n, projectID)
}

// WSEndpoint returns the WebSocket JSON-RPC endpoint for the network.
func (n Network) WSEndpoint(projectID string) string {
	return fmt.Sprintf("wss://%s.infura.io/ws/v3/%s", n, projectID)
}
