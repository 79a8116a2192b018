package main

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	"github.com/feral-file/tg-mention-indexer/internal/domain"
	"github.com/feral-file/tg-mention-indexer/internal/mocks"
)

const fixture = `# two mentions and a snapshot
{"kind":"channel_update","channel":{"channel_id":"MomentumTrackerCN","member_count":800}}
{"kind":"mention","mention":{"chain":"SOL","contract_address":"7GCihgDB8fe6KNjn2MYtkzZcRjQy3t9GHdC8uHYmW2hr","channel_id":"MomentumTrackerCN","message_id":1}}

{"kind":"mention","mention":{"chain":"SOL","contract_address":"7GCihgDB8fe6KNjn2MYtkzZcRjQy3t9GHdC8uHYmW2hr","channel_id":"-1001234567890","channel_is_group":true,"message_id":2}}
`

func TestParseLine(t *testing.T) {
	env, err := parseLine("  ")
	require.NoError(t, err)
	assert.Nil(t, env)

	env, err = parseLine("# comment")
	require.NoError(t, err)
	assert.Nil(t, env)

	env, err = parseLine(`{"kind":"mention","mention":{"chain":"ETH","message_id":3}}`)
	require.NoError(t, err)
	require.NotNil(t, env.Mention)
	assert.Equal(t, int64(3), env.Mention.MessageID)

	for _, line := range []string{
		`{"kind":"mention"}`,
		`{"kind":"channel_update"}`,
		`{"kind":"like"}`,
		`{"kind":`,
	} {
		_, err := parseLine(line)
		assert.Error(t, err, line)
	}
}

func TestReplay(t *testing.T) {
	ctrl := gomock.NewController(t)
	pub := mocks.NewMockPublisher(ctrl)

	gomock.InOrder(
		pub.EXPECT().PublishChannelUpdate(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, e domain.ChannelUpdateEvent) error {
				assert.Equal(t, int64(800), e.MemberCount)
				return nil
			}),
		pub.EXPECT().PublishMention(gomock.Any(), gomock.Any()).Return(nil).Times(2),
	)

	stats, err := replay(context.Background(), strings.NewReader(fixture), pub, rate.NewLimiter(rate.Inf, 1), true)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Mentions)
	assert.Equal(t, 1, stats.ChannelUpdates)
	assert.Equal(t, 0, stats.Skipped)
}

func TestReplay_SkipsInvalidLines(t *testing.T) {
	ctrl := gomock.NewController(t)
	pub := mocks.NewMockPublisher(ctrl)
	input := "not json\n" + `{"kind":"mention","mention":{"chain":"SOL","message_id":1}}` + "\n"

	pub.EXPECT().PublishMention(gomock.Any(), gomock.Any()).Return(domain.ErrInvalidMention)

	stats, err := replay(context.Background(), strings.NewReader(input), pub, rate.NewLimiter(rate.Inf, 1), false)
	require.NoError(t, err)
	assert.Equal(t, 0, stats.Mentions)
	assert.Equal(t, 2, stats.Skipped)
}

func TestReplay_StrictStops(t *testing.T) {
	ctrl := gomock.NewController(t)
	pub := mocks.NewMockPublisher(ctrl)
	input := `{"kind":"mention","mention":{"chain":"SOL","message_id":1}}` + "\n" + "not json\n"

	pub.EXPECT().PublishMention(gomock.Any(), gomock.Any()).Return(errors.New("no responders"))

	_, err := replay(context.Background(), strings.NewReader(input), pub, rate.NewLimiter(rate.Inf, 1), true)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 1")
}

func TestReplay_ContextCanceled(t *testing.T) {
	ctrl := gomock.NewController(t)
	pub := mocks.NewMockPublisher(ctrl)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := replay(ctx, strings.NewReader(fixture), pub, rate.NewLimiter(1, 1), true)
	assert.ErrorIs(t, err, context.Canceled)
}
