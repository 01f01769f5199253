package entity

// Currency defines the native currency details of a chain.
type Currency struct {
	Name     string `json:"name"`
	Symbol   string `json:"symbol"`
	Decimals int    `json:"decimals"`
}

// Chain represents one blockchain network's configuration as kept in the
// catalog: descriptive metadata plus the current candidate RPC endpoints.
type Chain struct {
	ChainID   int64    `json:"chainId"`
	Name      string   `json:"name"`
	ShortName string   `json:"shortName"`
	Currency  Currency `json:"nativeCurrency"`
	RPC       []string `json:"rpc"`
	// Validated is set once a session has pruned RPC down to endpoints that
	// answered a liveness probe. Reset to false on every full catalog refresh.
	Validated bool `json:"validated"`
}
