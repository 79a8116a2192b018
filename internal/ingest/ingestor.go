package ingest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/alitto/pond/v2"
	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
	"go.uber.org/zap"

	"github.com/feral-file/tg-mention-indexer/internal/adapter"
	"github.com/feral-file/tg-mention-indexer/internal/channel"
	"github.com/feral-file/tg-mention-indexer/internal/domain"
	"github.com/feral-file/tg-mention-indexer/internal/logger"
	"github.com/feral-file/tg-mention-indexer/internal/mention"
	"github.com/feral-file/tg-mention-indexer/internal/messaging"
	"github.com/feral-file/tg-mention-indexer/internal/metrics"
)

const (
	MentionSubjectPrefix = messaging.MentionSubjectPrefix
	ChannelUpdateSubject = messaging.ChannelUpdateSubject
)

const (
	kindMention = "mention"
	kindChannel = "channel"
	kindUnknown = "unknown"
)

// Config holds the configuration for the ingestor
type Config struct {
	URL             string
	StreamName      string
	ConsumerName    string
	MaxReconnects   int
	ReconnectWait   time.Duration
	ConnectionName  string
	AckWaitTimeout  time.Duration
	MaxDeliver      int
	NakDelay        time.Duration
	WorkerPoolSize  int
	WorkerQueueSize int
}

// Subjects returns the subjects the ingestor's stream and consumer cover
func Subjects() []string {
	return []string{MentionSubjectPrefix + ">", ChannelUpdateSubject}
}

// Ingestor consumes mention and channel events from JetStream
type Ingestor interface {
	// Run starts consuming and blocks until ctx is done
	Run(ctx context.Context) error
	// Handle processes one message and settles it with Ack, Nak or Term
	Handle(ctx context.Context, msg adapter.Message)
	// Close closes the NATS connection
	Close()
}

type ingestor struct {
	nc        adapter.NatsConn
	js        adapter.JetStream
	recorder  mention.Recorder
	directory channel.Directory
	config    Config
}

// NewIngestor connects to NATS and creates a new ingestor
func NewIngestor(
	cfg Config,
	natsJS adapter.NatsJetStream,
	recorder mention.Recorder,
	directory channel.Directory,
) (Ingestor, error) {
	opts := []nats.Option{
		nats.Name(cfg.ConnectionName),
		nats.MaxReconnects(cfg.MaxReconnects),
		nats.ReconnectWait(cfg.ReconnectWait),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			if err != nil {
				logger.Error(err, zap.String("message", "Disconnected from NATS"))
			}
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			logger.Info("Reconnected to NATS", zap.String("url", nc.ConnectedUrl()))
		}),
		nats.ClosedHandler(func(nc *nats.Conn) {
			logger.Info("NATS connection closed")
		}),
	}

	nc, js, err := natsJS.Connect(cfg.URL, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS and create JetStream: %w", err)
	}

	if cfg.WorkerPoolSize <= 0 {
		cfg.WorkerPoolSize = 1
	}

	return &ingestor{
		nc:        nc,
		js:        js,
		recorder:  recorder,
		directory: directory,
		config:    cfg,
	}, nil
}

// consumerConfig is the durable consumer the ingestor binds to
func (i *ingestor) consumerConfig() jetstream.ConsumerConfig {
	return jetstream.ConsumerConfig{
		Durable:        i.config.ConsumerName,
		AckPolicy:      jetstream.AckExplicitPolicy,
		AckWait:        i.config.AckWaitTimeout,
		MaxDeliver:     i.config.MaxDeliver,
		FilterSubjects: Subjects(),
	}
}

func (i *ingestor) Run(ctx context.Context) error {
	logger.Info("Starting ingestor", zap.String("stream", i.config.StreamName), zap.String("consumer", i.config.ConsumerName))

	if err := i.js.CreateOrUpdateStream(ctx, jetstream.StreamConfig{
		Name:     i.config.StreamName,
		Subjects: Subjects(),
	}); err != nil {
		return fmt.Errorf("failed to create/update stream: %w", err)
	}

	consumer, err := i.js.CreateOrUpdateConsumer(ctx, i.config.StreamName, i.consumerConfig())
	if err != nil {
		return fmt.Errorf("failed to create/update consumer: %w", err)
	}

	consumerInfo, err := consumer.Info(ctx)
	if err != nil {
		return fmt.Errorf("failed to get consumer info: %w", err)
	}
	logger.Info("Consumer created/retrieved", zap.String("consumer", consumerInfo.Name))

	poolOpts := []pond.Option{pond.WithContext(ctx)}
	if i.config.WorkerQueueSize > 0 {
		poolOpts = append(poolOpts, pond.WithQueueSize(i.config.WorkerQueueSize))
	}
	pool := pond.NewPool(i.config.WorkerPoolSize, poolOpts...)
	defer pool.StopAndWait()

	// Submit blocks while the queue is full, which stops the pull loop from buffering more
	sub, err := consumer.Consume(func(msg adapter.Message) {
		pool.Submit(func() {
			i.Handle(ctx, msg)
		})
	})
	if err != nil {
		return fmt.Errorf("failed to create subscription: %w", err)
	}
	defer sub.Stop()

	logger.Info("Started consuming messages", zap.Int("workers", i.config.WorkerPoolSize))

	<-ctx.Done()
	logger.Info("Shutting down ingestor")
	return ctx.Err()
}

func (i *ingestor) Handle(ctx context.Context, msg adapter.Message) {
	fields := []zap.Field{zap.String("subject", msg.Subject())}
	var delivered uint64
	if metadata, err := msg.Metadata(); err == nil && metadata != nil {
		delivered = metadata.NumDelivered
		fields = append(fields,
			zap.Uint64("streamSeq", metadata.Sequence.Stream),
			zap.Uint64("deliveryCount", delivered))
	}
	ctx = logger.WithContext(ctx, fields...)

	kind, err := i.dispatch(ctx, msg)
	switch {
	case err == nil:
		i.settle(ctx, kind, "ack", msg.Ack)

	case isPermanent(err):
		logger.WarnCtx(ctx, "Dropping invalid message", zap.String("kind", kind), zap.Error(err))
		i.settle(ctx, kind, "term", msg.Term)

	default:
		if i.config.MaxDeliver > 0 && delivered >= uint64(i.config.MaxDeliver) { //nolint:gosec,G115
			logger.ErrorCtx(ctx, fmt.Errorf("giving up on message after %d deliveries: %w", delivered, err))
		} else {
			logger.WarnCtx(ctx, "Failed to process message, will retry", zap.String("kind", kind), zap.Error(err))
		}
		i.settle(ctx, kind, "nak", func() error { return msg.NakWithDelay(i.config.NakDelay) })
	}
}

func (i *ingestor) dispatch(ctx context.Context, msg adapter.Message) (string, error) {
	subject := msg.Subject()

	switch {
	case strings.HasPrefix(subject, MentionSubjectPrefix):
		var event domain.MentionEvent
		if err := json.Unmarshal(msg.Data(), &event); err != nil {
			return kindMention, newDecodeError(err)
		}
		if event.Chain == "" {
			event.Chain = strings.TrimPrefix(subject, MentionSubjectPrefix)
		}
		_, err := i.recorder.Record(ctx, event, msg.Data())
		return kindMention, err

	case subject == ChannelUpdateSubject:
		var event domain.ChannelUpdateEvent
		if err := json.Unmarshal(msg.Data(), &event); err != nil {
			return kindChannel, newDecodeError(err)
		}
		_, err := i.directory.ApplyUpdate(ctx, event)
		return kindChannel, err
	}

	return kindUnknown, ErrUnknownSubject
}

func (i *ingestor) settle(ctx context.Context, kind, outcome string, fn func() error) {
	metrics.IngestMessagesTotal.WithLabelValues(kind, outcome).Inc()
	if err := fn(); err != nil {
		logger.ErrorCtx(ctx, err, zap.String("message", "Failed to "+outcome+" message"))
	}
}

// Close closes the ingestor and cleans up resources
func (i *ingestor) Close() {
	if i.nc == nil {
		return
	}

	i.nc.Close()
}

// ErrUnknownSubject is returned for messages on a subject the ingestor does not route
var ErrUnknownSubject = errors.New("unknown subject")

// decodeError marks a payload that can never be decoded
type decodeError struct {
	err error
}

func newDecodeError(err error) error {
	return &decodeError{err: err}
}

func (e *decodeError) Error() string {
	return fmt.Sprintf("failed to decode message: %v", e.err)
}

func (e *decodeError) Unwrap() error {
	return e.err
}

// isPermanent reports whether redelivering the message could ever succeed
func isPermanent(err error) bool {
	var de *decodeError
	if errors.As(err, &de) {
		return true
	}
	for _, target := range []error{
		ErrUnknownSubject,
		domain.ErrInvalidMention,
		domain.ErrInvalidChannelRef,
		domain.ErrInvalidChannelUpdate,
		domain.ErrInvalidContract,
		domain.ErrUnsupportedChain,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
