package domain

import (
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/mr-tron/base58"
)

const (
	solanaPubkeyLength = 32
	// tronAddressLength is version byte + 20-byte payload + 4-byte checksum
	tronAddressLength = 25
)

// NormalizeContract validates a contract address for the given chain and returns its canonical form.
// EVM addresses are returned EIP-55 checksummed so the (chain, contract) natural key is stable.
// Base58 chains are case-sensitive and returned as-is after trimming.
func NormalizeContract(chain Chain, address string) (string, error) {
	address = strings.TrimSpace(address)
	if address == "" {
		return "", fmt.Errorf("%w: empty address", ErrInvalidContract)
	}

	switch {
	case chain.IsEVM():
		if !common.IsHexAddress(address) {
			return "", fmt.Errorf("%w: %s is not a hex address", ErrInvalidContract, address)
		}
		return common.HexToAddress(address).Hex(), nil

	case chain == ChainSolana:
		decoded, err := base58.Decode(address)
		if err != nil {
			return "", fmt.Errorf("%w: %s: %v", ErrInvalidContract, address, err)
		}
		if len(decoded) != solanaPubkeyLength {
			return "", fmt.Errorf("%w: %s decodes to %d bytes", ErrInvalidContract, address, len(decoded))
		}
		return address, nil

	case chain == ChainTron:
		decoded, err := base58.Decode(address)
		if err != nil || len(decoded) != tronAddressLength {
			return "", fmt.Errorf("%w: %s is not a tron address", ErrInvalidContract, address)
		}
		return address, nil

	case chain == ChainTon:
		return address, nil

	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedChain, chain)
	}
}
