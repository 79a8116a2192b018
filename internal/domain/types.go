package domain

import (
	"fmt"
	"strings"
)

// Chain represents the short chain code carried by mentions (e.g. "SOL", "ETH")
type Chain string

const (
	ChainSolana    Chain = "SOL"
	ChainEthereum  Chain = "ETH"
	ChainBSC       Chain = "BSC"
	ChainPolygon   Chain = "MATIC"
	ChainAvalanche Chain = "AVAX"
	ChainArbitrum  Chain = "ARB"
	ChainOptimism  Chain = "OP"
	ChainFantom    Chain = "FTM"
	ChainBase      Chain = "BASE"
	ChainZkSync    Chain = "ZK"
	ChainCelo      Chain = "CELO"
	ChainTron      Chain = "TRX"
	ChainTon       Chain = "TON"
)

// dexScreenerChainIDs maps chain codes to the chain identifiers used by DexScreener URLs
var dexScreenerChainIDs = map[Chain]string{
	ChainSolana:    "solana",
	ChainEthereum:  "ethereum",
	ChainBSC:       "bsc",
	ChainPolygon:   "polygon",
	ChainAvalanche: "avalanche",
	ChainArbitrum:  "arbitrum",
	ChainOptimism:  "optimism",
	ChainFantom:    "fantom",
	ChainBase:      "base",
	ChainZkSync:    "zksync",
	ChainCelo:      "celo",
	ChainTron:      "tron",
	ChainTon:       "ton",
}

var evmChains = map[Chain]bool{
	ChainEthereum:  true,
	ChainBSC:       true,
	ChainPolygon:   true,
	ChainAvalanche: true,
	ChainArbitrum:  true,
	ChainOptimism:  true,
	ChainFantom:    true,
	ChainBase:      true,
	ChainZkSync:    true,
	ChainCelo:      true,
}

// IsValidChain checks if a chain is supported
func IsValidChain(chain Chain) bool {
	_, ok := dexScreenerChainIDs[chain]
	return ok
}

// ParseChain parses a chain code case-insensitively.
// DexScreener chain identifiers ("solana", "bsc") are accepted as aliases.
func ParseChain(s string) (Chain, error) {
	s = strings.TrimSpace(s)
	chain := Chain(strings.ToUpper(s))
	if IsValidChain(chain) {
		return chain, nil
	}

	lower := strings.ToLower(s)
	for c, id := range dexScreenerChainIDs {
		if id == lower {
			return c, nil
		}
	}

	return "", fmt.Errorf("%w: %q", ErrUnsupportedChain, s)
}

// DexScreenerID returns the DexScreener chain identifier, or an empty string for unknown chains
func (c Chain) DexScreenerID() string {
	return dexScreenerChainIDs[c]
}

// IsEVM reports whether contracts on the chain use 20-byte hex addresses
func (c Chain) IsEVM() bool {
	return evmChains[c]
}

// UpsertResult tells a caller whether a get-or-create found an existing row or inserted a new one
type UpsertResult int

const (
	UpsertExisting UpsertResult = iota
	UpsertCreated
)

func (r UpsertResult) String() string {
	switch r {
	case UpsertCreated:
		return "created"
	case UpsertExisting:
		return "existing"
	default:
		return fmt.Sprintf("UpsertResult(%d)", int(r))
	}
}
