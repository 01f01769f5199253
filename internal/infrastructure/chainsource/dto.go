package chainsource

// chainRaw mirrors the subset of https://chainid.network/chains.json we keep.
type chainRaw struct {
	Name      string      `json:"name"`
	Chain     string      `json:"chain"`
	ShortName string      `json:"shortName"`
	ChainID   int64       `json:"chainId"`
	NetworkID int64       `json:"networkId"`
	Currency  currencyRaw `json:"nativeCurrency"`
	RPC       []string    `json:"rpc"`
}

type currencyRaw struct {
	Name     string `json:"name"`
	Symbol   string `json:"symbol"`
	Decimals int    `json:"decimals"`
}
