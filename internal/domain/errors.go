package domain

import "errors"

var (
	// ErrTokenNotFound is returned when a token is not found
	ErrTokenNotFound = errors.New("token not found")

	// ErrChannelNotFound is returned when a channel is not registered in the directory
	ErrChannelNotFound = errors.New("channel not found")

	// ErrNoPairs is returned when the market source affirmatively reports no trading pairs for a contract.
	// It is a signal for the stale token reaper, not a transport failure.
	ErrNoPairs = errors.New("no pairs found")

	// ErrUnsupportedChain is returned for chain codes outside the supported set
	ErrUnsupportedChain = errors.New("unsupported chain")

	// ErrInvalidContract is returned when a contract address is malformed for its chain
	ErrInvalidContract = errors.New("invalid contract address")

	// ErrInvalidMention is returned when an ingested mention event is missing required fields
	ErrInvalidMention = errors.New("invalid mention event")

	// ErrInvalidChannelUpdate is returned when a channel snapshot carries impossible values
	ErrInvalidChannelUpdate = errors.New("invalid channel update")

	// ErrInvalidChannelRef is returned when a channel reference can be resolved to neither a username nor an id
	ErrInvalidChannelRef = errors.New("invalid channel reference")
)
