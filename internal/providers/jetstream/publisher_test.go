package jetstream_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/golang/mock/gomock"
	natsjs "github.com/nats-io/nats.go/jetstream"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/feral-file/tg-mention-indexer/internal/domain"
	"github.com/feral-file/tg-mention-indexer/internal/messaging"
	"github.com/feral-file/tg-mention-indexer/internal/mocks"
	"github.com/feral-file/tg-mention-indexer/internal/providers/jetstream"
)

type publisherMocks struct {
	natsJS    *mocks.MockNatsJetStream
	natsConn  *mocks.MockNatsConn
	jetStream *mocks.MockJetStream
}

func setupTestPublisher(t *testing.T) (messaging.Publisher, *publisherMocks) {
	ctrl := gomock.NewController(t)
	m := &publisherMocks{
		natsJS:    mocks.NewMockNatsJetStream(ctrl),
		natsConn:  mocks.NewMockNatsConn(ctrl),
		jetStream: mocks.NewMockJetStream(ctrl),
	}
	m.natsJS.EXPECT().Connect("nats://localhost:4222", gomock.Any()).Return(m.natsConn, m.jetStream, nil)

	pub, err := jetstream.NewPublisher(jetstream.Config{URL: "nats://localhost:4222", ConnectionName: "test"}, m.natsJS)
	require.NoError(t, err)
	return pub, m
}

func TestNewPublisher_ConnectError(t *testing.T) {
	ctrl := gomock.NewController(t)
	natsJS := mocks.NewMockNatsJetStream(ctrl)
	natsJS.EXPECT().Connect(gomock.Any(), gomock.Any()).Return(nil, nil, errors.New("connection refused"))

	pub, err := jetstream.NewPublisher(jetstream.Config{URL: "nats://localhost:4222"}, natsJS)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to connect to NATS")
	assert.Nil(t, pub)
}

func TestPublishMention(t *testing.T) {
	pub, m := setupTestPublisher(t)

	m.jetStream.EXPECT().
		Publish(gomock.Any(), "mentions.SOL", gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, data []byte) (*natsjs.PubAck, error) {
			var event domain.MentionEvent
			require.NoError(t, json.Unmarshal(data, &event))
			assert.Equal(t, "SOL", event.Chain)
			assert.Equal(t, int64(42), event.MessageID)
			return &natsjs.PubAck{Stream: "TELEGRAM_MENTIONS", Sequence: 7}, nil
		})

	err := pub.PublishMention(context.Background(), domain.MentionEvent{
		Chain:           "solana",
		ContractAddress: "7GCihgDB8fe6KNjn2MYtkzZcRjQy3t9GHdC8uHYmW2hr",
		ChannelID:       "MomentumTrackerCN",
		MessageID:       42,
	})
	require.NoError(t, err)
}

func TestPublishMention_Invalid(t *testing.T) {
	pub, _ := setupTestPublisher(t)

	err := pub.PublishMention(context.Background(), domain.MentionEvent{Chain: "SOL", ChannelID: "a", MessageID: 1})
	assert.ErrorIs(t, err, domain.ErrInvalidMention)

	err = pub.PublishMention(context.Background(), domain.MentionEvent{Chain: "DOGE", ContractAddress: "x", ChannelID: "a", MessageID: 1})
	assert.ErrorIs(t, err, domain.ErrUnsupportedChain)
}

func TestPublishChannelUpdate(t *testing.T) {
	pub, m := setupTestPublisher(t)

	m.jetStream.EXPECT().
		Publish(gomock.Any(), messaging.ChannelUpdateSubject, []byte(`{"channel_id":"-1001234567890","channel_is_group":true,"member_count":1200}`)).
		Return(&natsjs.PubAck{Stream: "TELEGRAM_MENTIONS", Sequence: 8}, nil)

	err := pub.PublishChannelUpdate(context.Background(), domain.ChannelUpdateEvent{
		ChannelID:      "-1001234567890",
		ChannelIsGroup: true,
		MemberCount:    1200,
	})
	require.NoError(t, err)
}

func TestPublishChannelUpdate_Errors(t *testing.T) {
	pub, m := setupTestPublisher(t)

	err := pub.PublishChannelUpdate(context.Background(), domain.ChannelUpdateEvent{ChannelID: "a", MemberCount: -1})
	assert.ErrorIs(t, err, domain.ErrInvalidChannelUpdate)

	m.jetStream.EXPECT().Publish(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, errors.New("no responders"))
	err = pub.PublishChannelUpdate(context.Background(), domain.ChannelUpdateEvent{ChannelID: "a", MemberCount: 1})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to publish event")
}

func TestClose(t *testing.T) {
	pub, m := setupTestPublisher(t)
	m.natsConn.EXPECT().Close()
	pub.Close()
}
