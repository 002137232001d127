package node

// Descriptor is the static node metadata the host platform renders.
// It is consumed by the UI only; execution never reads it.
type Descriptor struct {
	Name        string       `json:"name"`
	DisplayName string       `json:"displayName"`
	Description string       `json:"description"`
	Version     int          `json:"version"`
	Credentials []Credential `json:"credentials"`
	Properties  []Property   `json:"properties"`
}

// Credential names a credential type the node consumes.
type Credential struct {
	Name     string `json:"name"`
	Required bool   `json:"required"`
}

// Property describes one displayed field.
type Property struct {
	Name           string          `json:"name"`
	DisplayName    string          `json:"displayName"`
	Type           string          `json:"type"`
	Default        interface{}     `json:"default"`
	Required       bool            `json:"required,omitempty"`
	Description    string          `json:"description,omitempty"`
	Placeholder    string          `json:"placeholder,omitempty"`
	Options        []Option        `json:"options,omitempty"`
	DisplayOptions *DisplayOptions `json:"displayOptions,omitempty"`
}

// Option is one entry of a fixed dropdown.
type Option struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// DisplayOptions gate a property's visibility on other property values.
type DisplayOptions struct {
	Show map[string][]interface{} `json:"show,omitempty"`
}

func show(key string, values ...interface{}) *DisplayOptions {
	return &DisplayOptions{Show: map[string][]interface{}{key: values}}
}

// Describe returns the node descriptor.
func Describe() Descriptor {
	return Descriptor{
		Name:        "ethereum",
		DisplayName: "Ethereum (Infura)",
		Description: "Invoke Ethereum JSON-RPC operations through the Infura hosted node service",
		Version:     1,
		Credentials: []Credential{
			{Name: "infuraApi", Required: true},
		},
		Properties: []Property{
			{
				Name:        "operation",
				DisplayName: "Operation",
				Type:        "options",
				Default:     OpGetBlockNumber,
				Required:    true,
				Options: []Option{
					{Name: "Get Block Number", Value: OpGetBlockNumber},
					{Name: "Get Block By Number", Value: OpGetBlockByNumber},
					{Name: "Call Contract Method", Value: OpCall},
					{Name: "Send Transaction", Value: OpSendTransaction},
					{Name: "Send Raw Transaction", Value: OpSendRawTransaction},
					{Name: "Get Transaction Count", Value: OpGetTransactionCount},
					{Name: "Estimate Gas", Value: OpEstimateGas},
				},
			},
			{
				Name:        "network",
				DisplayName: "Network",
				Type:        "options",
				Default:     "mainnet",
				Options: []Option{
					{Name: "Mainnet", Value: "mainnet"},
					{Name: "Ropsten", Value: "ropsten"},
					{Name: "Rinkeby", Value: "rinkeby"},
					{Name: "Kovan", Value: "kovan"},
					{Name: "Goerli", Value: "goerli"},
				},
			},
			{
				Name:           "blockNumber",
				DisplayName:    "Block Number",
				Type:           "string",
				Default:        "latest",
				Description:    "Block number, or one of latest, earliest, pending",
				DisplayOptions: show("operation", OpGetBlockByNumber),
			},
			{
				Name:           "showTransactionDetails",
				DisplayName:    "Show Transaction Details",
				Type:           "boolean",
				Default:        false,
				DisplayOptions: show("operation", OpGetBlockByNumber),
			},
			{
				Name:           "contractAddress",
				DisplayName:    "Contract Address",
				Type:           "string",
				Default:        "",
				Required:       true,
				Placeholder:    "0x...",
				DisplayOptions: show("operation", OpCall),
			},
			{
				Name:           "contractABI",
				DisplayName:    "Contract ABI",
				Type:           "json",
				Default:        "",
				Required:       true,
				DisplayOptions: show("operation", OpCall),
			},
			{
				Name:           "mutability",
				DisplayName:    "Mutability",
				Type:           "options",
				Default:        "",
				DisplayOptions: show("operation", OpCall),
				Options: []Option{
					{Name: "Any", Value: ""},
					{Name: "View / Pure", Value: "view"},
					{Name: "Non-Payable", Value: "nonpayable"},
					{Name: "Payable", Value: "payable"},
				},
			},
			{
				Name:           "method",
				DisplayName:    "Method",
				Type:           "loadOptions:methods",
				Default:        "",
				Required:       true,
				DisplayOptions: show("operation", OpCall),
			},
			{
				Name:           "contractInputs",
				DisplayName:    "Method Inputs",
				Type:           "json",
				Default:        "",
				Description:    "JSON array of input values, in ABI order",
				DisplayOptions: show("operation", OpCall),
			},
			{
				Name:           "value",
				DisplayName:    "Value (wei)",
				Type:           "string",
				Default:        "0",
				DisplayOptions: show("operation", OpCall, OpSendTransaction, OpSendRawTransaction),
			},
			{
				Name:           "manualGas",
				DisplayName:    "Configure Gas Manually",
				Type:           "boolean",
				Default:        false,
				DisplayOptions: show("operation", OpCall, OpSendTransaction, OpSendRawTransaction),
			},
			{
				Name:           "gasLimit",
				DisplayName:    "Gas Limit",
				Type:           "number",
				Default:        DefaultGasLimit,
				DisplayOptions: show("manualGas", true),
			},
			{
				Name:           "gasPrice",
				DisplayName:    "Gas Price (gwei)",
				Type:           "number",
				Default:        DefaultGasPriceGwei,
				DisplayOptions: show("manualGas", true),
			},
			{
				Name:           "recipient",
				DisplayName:    "Recipient Address",
				Type:           "string",
				Default:        "",
				Required:       true,
				Placeholder:    "0x...",
				DisplayOptions: show("operation", OpSendTransaction, OpSendRawTransaction),
			},
			{
				Name:           "privateKey",
				DisplayName:    "Private Key",
				Type:           "string",
				Default:        "",
				Description:    "Hex private key used to sign; leave empty to use a mnemonic",
				DisplayOptions: show("operation", OpCall, OpSendTransaction, OpSendRawTransaction),
			},
			{
				Name:           "mnemonic",
				DisplayName:    "Mnemonic",
				Type:           "string",
				Default:        "",
				Description:    "BIP-39 phrase used to derive the signing key",
				DisplayOptions: show("operation", OpCall, OpSendTransaction, OpSendRawTransaction),
			},
			{
				Name:           "address",
				DisplayName:    "Address",
				Type:           "string",
				Default:        "",
				Required:       true,
				Placeholder:    "0x...",
				DisplayOptions: show("operation", OpGetTransactionCount),
			},
			{
				Name:           "tag",
				DisplayName:    "Block Tag",
				Type:           "options",
				Default:        "latest",
				DisplayOptions: show("operation", OpGetTransactionCount),
				Options: []Option{
					{Name: "Latest", Value: "latest"},
					{Name: "Earliest", Value: "earliest"},
					{Name: "Pending", Value: "pending"},
				},
			},
		},
	}
}
