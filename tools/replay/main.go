// Command replay publishes recorded listener events to the mention stream.
//
// Input is JSON lines, one envelope per line:
//
//	{"kind":"mention","mention":{"chain":"SOL","contract_address":"...","channel_id":"MomentumTrackerCN","message_id":1}}
//	{"kind":"channel_update","channel":{"channel_id":"MomentumTrackerCN","member_count":800}}
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/feral-file/tg-mention-indexer/internal/adapter"
	"github.com/feral-file/tg-mention-indexer/internal/logger"
	"github.com/feral-file/tg-mention-indexer/internal/providers/jetstream"
)

func main() {
	natsURL := flag.String("nats-url", "nats://localhost:4222", "NATS server URL")
	input := flag.String("file", "-", "JSON lines file to replay, - for stdin")
	perSecond := flag.Float64("rate", 20, "Events published per second")
	strict := flag.Bool("strict", false, "Stop at the first invalid line or publish error")
	debug := flag.Bool("debug", false, "Enable debug logging")
	flag.Parse()

	if err := logger.Initialize(logger.Config{Debug: *debug, Service: "replay"}); err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer logger.Flush(time.Second)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var r io.Reader = os.Stdin
	if *input != "-" {
		f, err := os.Open(*input)
		if err != nil {
			logger.Fatal("Failed to open input", zap.Error(err), zap.String("file", *input))
		}
		defer f.Close()
		r = f
	}

	pub, err := jetstream.NewPublisher(jetstream.Config{
		URL:            *natsURL,
		MaxReconnects:  5,
		ReconnectWait:  time.Second,
		ConnectionName: "tg-mention-replay",
	}, adapter.NewNatsJetStream())
	if err != nil {
		logger.Fatal("Failed to connect to NATS", zap.Error(err), zap.String("url", *natsURL))
	}
	defer pub.Close()

	limiter := rate.NewLimiter(rate.Limit(*perSecond), 1)
	start := time.Now()
	stats, err := replay(ctx, r, pub, limiter, *strict)
	logger.Info("Replay finished",
		zap.Int("mentions", stats.Mentions),
		zap.Int("channel_updates", stats.ChannelUpdates),
		zap.Int("skipped", stats.Skipped),
		zap.Duration("elapsed", time.Since(start)),
		zap.Error(err))
	if err != nil {
		os.Exit(1)
	}
}
