package messaging

import "github.com/feral-file/tg-mention-indexer/internal/domain"

const (
	// MentionSubjectPrefix is followed by the chain code, e.g. mentions.SOL
	MentionSubjectPrefix = "mentions."
	// ChannelUpdateSubject carries snapshots from the channel discovery job
	ChannelUpdateSubject = "channels.updated"
)

// MentionSubject returns the subject a mention of the given chain is published on
func MentionSubject(chain domain.Chain) string {
	return MentionSubjectPrefix + string(chain)
}
