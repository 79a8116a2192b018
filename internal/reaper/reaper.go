package reaper

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/feral-file/tg-mention-indexer/internal/adapter"
	"github.com/feral-file/tg-mention-indexer/internal/domain"
	"github.com/feral-file/tg-mention-indexer/internal/logger"
	"github.com/feral-file/tg-mention-indexer/internal/metrics"
	"github.com/feral-file/tg-mention-indexer/internal/providers/dexscreener"
	"github.com/feral-file/tg-mention-indexer/internal/store"
	"github.com/feral-file/tg-mention-indexer/internal/store/schema"
)

// State is the staleness state of a token
type State string

const (
	StateActive  State = "ACTIVE"
	StateSuspect State = "SUSPECT"
	StateDeleted State = "DELETED"
)

// LookupResult classifies one market lookup
type LookupResult int

const (
	// Found means the market source returned data
	Found LookupResult = iota
	// Empty means the market source explicitly reported no pairs
	Empty
	// Transient means the lookup failed and says nothing about the token
	Transient
)

func (r LookupResult) String() string {
	switch r {
	case Found:
		return "found"
	case Empty:
		return "empty"
	case Transient:
		return "transient"
	}
	return fmt.Sprintf("LookupResult(%d)", int(r))
}

// Classify maps a market lookup error to a LookupResult
func Classify(err error) LookupResult {
	switch {
	case err == nil:
		return Found
	case errors.Is(err, domain.ErrNoPairs):
		return Empty
	default:
		return Transient
	}
}

// Next is the staleness transition function. DELETED is terminal.
func Next(s State, r LookupResult) State {
	switch s {
	case StateActive:
		if r == Empty {
			return StateSuspect
		}
		return StateActive
	case StateSuspect:
		switch r {
		case Found:
			return StateActive
		case Empty:
			return StateDeleted
		}
		return StateSuspect
	}
	return s
}

// StateOf derives the persisted state from suspect_since
func StateOf(token *schema.Token) State {
	if token == nil {
		return StateDeleted
	}
	if token.SuspectSince != nil {
		return StateSuspect
	}
	return StateActive
}

// Outcome is the result of a confirmation
type Outcome struct {
	State State
	// Profile is the market data returned by the second lookup when the token is still listed
	Profile *dexscreener.MarketProfile
}

// Reaper confirms tokens reported empty by the market source and deletes the ones that stay empty
//
//go:generate mockgen -source=reaper.go -destination=../mocks/reaper.go -package=mocks -mock_names=Reaper=MockReaper
type Reaper interface {
	// Confirm runs after a first lookup returned no pairs. It marks the token SUSPECT,
	// runs a second lookup and deletes the token when that one is empty too.
	Confirm(ctx context.Context, token *schema.Token) (*Outcome, error)
}

type reaper struct {
	store      store.Store
	market     dexscreener.Client
	clock      adapter.Clock
	newBackOff store.BackOffFactory
}

// NewReaper creates a stale token reaper. newBackOff may be nil for the default write retry.
func NewReaper(st store.Store, market dexscreener.Client, clock adapter.Clock, newBackOff store.BackOffFactory) Reaper {
	return &reaper{
		store:      st,
		market:     market,
		clock:      clock,
		newBackOff: newBackOff,
	}
}

func (r *reaper) Confirm(ctx context.Context, token *schema.Token) (*Outcome, error) {
	// A token left SUSPECT by an earlier cycle starts over: only this cycle's
	// first lookup counts as the first empty result.
	state := StateSuspect
	if from := StateOf(token); from == StateActive {
		if err := store.RetryWrite(ctx, r.newBackOff, "mark token suspect", func() error {
			return r.store.MarkTokenSuspect(ctx, token.ID, r.clock.Now())
		}); err != nil {
			return &Outcome{State: from}, fmt.Errorf("failed to mark token suspect: %w", err)
		}
		transition(token, from, state)
	}

	profile, err := r.market.GetTokenProfile(ctx, token.Chain, token.ContractAddress)
	result := Classify(err)
	next := Next(state, result)

	switch next {
	case StateActive:
		transition(token, state, next)
		return &Outcome{State: StateActive, Profile: profile}, nil

	case StateSuspect:
		logger.WarnCtx(ctx, "Second lookup failed, token stays suspect",
			zap.Int64("tokenID", token.ID),
			zap.String("contract", token.ContractAddress),
			zap.Error(err))
		return &Outcome{State: StateSuspect}, nil

	case StateDeleted:
		if err := store.RetryWrite(ctx, r.newBackOff, "delete token", func() error {
			return r.store.DeleteToken(ctx, token.ID)
		}); err != nil {
			if errors.Is(err, domain.ErrTokenNotFound) {
				return &Outcome{State: StateDeleted}, nil
			}
			return &Outcome{State: StateSuspect}, fmt.Errorf("failed to delete stale token: %w", err)
		}
		transition(token, state, next)
		logger.InfoCtx(ctx, "Deleted stale token",
			zap.Int64("tokenID", token.ID),
			zap.String("chain", string(token.Chain)),
			zap.String("contract", token.ContractAddress))
		return &Outcome{State: StateDeleted}, nil
	}

	return &Outcome{State: next}, nil
}

func transition(token *schema.Token, from, to State) {
	if from == to {
		return
	}
	metrics.ReaperTransitionsTotal.WithLabelValues(string(from), string(to)).Inc()
	logger.Debug("Token state transition",
		zap.Int64("tokenID", token.ID),
		zap.String("from", string(from)),
		zap.String("to", string(to)))
}
