package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/time/rate"

	"github.com/feral-file/tg-mention-indexer/internal/domain"
	"github.com/feral-file/tg-mention-indexer/internal/messaging"
)

const (
	kindMention       = "mention"
	kindChannelUpdate = "channel_update"

	maxLineSize = 1 << 20
)

// Envelope is one line of a replay file
type Envelope struct {
	Kind    string                     `json:"kind"`
	Mention *domain.MentionEvent       `json:"mention,omitempty"`
	Channel *domain.ChannelUpdateEvent `json:"channel,omitempty"`
}

// Stats counts what a replay published
type Stats struct {
	Mentions       int
	ChannelUpdates int
	Skipped        int
}

// parseLine decodes one envelope. Blank lines and # comments return nil.
func parseLine(line string) (*Envelope, error) {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return nil, nil
	}

	var env Envelope
	if err := json.Unmarshal([]byte(line), &env); err != nil {
		return nil, fmt.Errorf("invalid envelope: %w", err)
	}

	switch env.Kind {
	case kindMention:
		if env.Mention == nil {
			return nil, errors.New("mention envelope without mention")
		}
	case kindChannelUpdate:
		if env.Channel == nil {
			return nil, errors.New("channel_update envelope without channel")
		}
	default:
		return nil, fmt.Errorf("unknown kind %q", env.Kind)
	}

	return &env, nil
}

// replay publishes every envelope read from r, waiting on limiter between events.
// Invalid lines are skipped unless strict is set.
func replay(ctx context.Context, r io.Reader, pub messaging.Publisher, limiter *rate.Limiter, strict bool) (*Stats, error) {
	stats := &Stats{}
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		env, err := parseLine(scanner.Text())
		if err != nil {
			if strict {
				return stats, fmt.Errorf("line %d: %w", lineNo, err)
			}
			stats.Skipped++
			continue
		}
		if env == nil {
			continue
		}

		if err := limiter.Wait(ctx); err != nil {
			return stats, err
		}

		switch env.Kind {
		case kindMention:
			err = pub.PublishMention(ctx, *env.Mention)
		case kindChannelUpdate:
			err = pub.PublishChannelUpdate(ctx, *env.Channel)
		}
		if err != nil {
			if strict {
				return stats, fmt.Errorf("line %d: %w", lineNo, err)
			}
			stats.Skipped++
			continue
		}

		if env.Kind == kindMention {
			stats.Mentions++
		} else {
			stats.ChannelUpdates++
		}
	}

	if err := scanner.Err(); err != nil {
		return stats, fmt.Errorf("failed to read input: %w", err)
	}
	return stats, nil
}
