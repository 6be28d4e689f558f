package kiln

// stakesResponse is the envelope of the GET /v1/eth/stakes endpoint. Only the
// fields the price feed reads are decoded; balances arrive as decimal wei
// strings too large for int64.
type stakesResponse struct {
	Data []Stake `json:"data"`
}

// Stake is one staked validator position as reported by the API.
type Stake struct {
	ValidatorAddress string `json:"validator_address"`
	State            string `json:"state"`
	Balance          string `json:"balance"`
	Rewards          string `json:"rewards"`
}
