package dto

// IndexTokenResult reports what indexing one token did
type IndexTokenResult struct {
	Chain           string         `json:"chain"`
	ContractAddress string         `json:"contract_address"`
	Created         bool           `json:"created"`
	Outcome         string         `json:"outcome"`
	Error           string         `json:"error,omitempty"`
	Token           *TokenResponse `json:"token,omitempty"`
}

// TriggerIndexingResponse represents the response for POST /tokens/index
type TriggerIndexingResponse struct {
	Results []IndexTokenResult `json:"results"`
}

// HealthResponse is the body of GET /health
type HealthResponse struct {
	Status  string `json:"status"`
	Service string `json:"service"`
}
