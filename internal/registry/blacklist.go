package registry

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/feral-file/tg-mention-indexer/internal/domain"
)

// BlacklistRegistry defines the interface for blacklist operations
//
//go:generate mockgen -source=blacklist.go -destination=../mocks/blacklist_registry.go -package=mocks -mock_names=BlacklistRegistry=MockBlacklistRegistry
type BlacklistRegistry interface {
	// IsBlacklisted checks if a contract address is blacklisted for a given chain
	IsBlacklisted(chain domain.Chain, contractAddress string) bool
	// Size returns the number of blacklisted contracts
	Size() int
}

// BlacklistData represents the structure of the blacklist.json file.
// Keys are chain codes or DexScreener chain ids ("SOL", "solana"), values are contract addresses.
type BlacklistData map[string][]string

type blacklistRegistry struct {
	// chain:lowercased contract -> true
	contracts map[string]bool
}

// NewBlacklist builds a registry from parsed data. Unknown chains are rejected.
func NewBlacklist(data BlacklistData) (BlacklistRegistry, error) {
	bl := &blacklistRegistry{contracts: make(map[string]bool)}

	for rawChain, addresses := range data {
		chain, err := domain.ParseChain(rawChain)
		if err != nil {
			return nil, fmt.Errorf("invalid blacklist chain: %w", err)
		}
		for _, addr := range addresses {
			addr = strings.TrimSpace(addr)
			if addr == "" {
				continue
			}
			bl.contracts[blacklistKey(chain, addr)] = true
		}
	}

	return bl, nil
}

// LoadBlacklist loads the blacklist registry from a JSON file
func LoadBlacklist(filePath string) (BlacklistRegistry, error) {
	raw, err := os.ReadFile(filePath) //nolint:gosec,G304 // This should be a trusted file
	if err != nil {
		return nil, fmt.Errorf("failed to read blacklist file: %w", err)
	}

	var data BlacklistData
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("failed to parse blacklist JSON: %w", err)
	}

	return NewBlacklist(data)
}

// IsBlacklisted matches case-insensitively so EVM checksums do not matter
func (b *blacklistRegistry) IsBlacklisted(chain domain.Chain, contractAddress string) bool {
	if b == nil {
		return false
	}
	return b.contracts[blacklistKey(chain, strings.TrimSpace(contractAddress))]
}

func (b *blacklistRegistry) Size() int {
	if b == nil {
		return 0
	}
	return len(b.contracts)
}

func blacklistKey(chain domain.Chain, contractAddress string) string {
	return fmt.Sprintf("%s:%s", chain, strings.ToLower(contractAddress))
}
