package messaging

import (
	"context"

	"github.com/feral-file/tg-mention-indexer/internal/domain"
)

// Publisher defines the interface for publishing listener events to the message broker
//
//go:generate mockgen -source=publisher.go -destination=../mocks/publisher.go -package=mocks -mock_names=Publisher=MockPublisher
type Publisher interface {
	// PublishMention publishes a detected mention on mentions.<chain>
	PublishMention(ctx context.Context, event domain.MentionEvent) error
	// PublishChannelUpdate publishes a channel snapshot on channels.updated
	PublishChannelUpdate(ctx context.Context, event domain.ChannelUpdateEvent) error
	// Close closes the connection
	Close()
}
