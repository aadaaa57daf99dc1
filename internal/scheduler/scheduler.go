package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"KLineCore/internal/collector"
	"KLineCore/internal/model"
	"KLineCore/internal/series"

	"github.com/robfig/cron/v3"
)

// LiveFeed polls a collector on a cron schedule and hands store mutations to
// the render loop over a channel. It never touches the store itself: it only
// tracks the last candle it has sent.
type LiveFeed struct {
	Cron      *cron.Cron
	Collector *collector.Collector
	Ctx       context.Context

	out chan series.Mutation

	mu      sync.Mutex
	closed  bool
	last    model.Candle
	hasLast bool
}

// NewLiveFeed creates a feed whose tracking starts from the store's current last candle.
func NewLiveFeed(ctx context.Context, col *collector.Collector, store *series.Store) *LiveFeed {
	f := &LiveFeed{
		Cron:      cron.New(cron.WithSeconds()),
		Collector: col,
		Ctx:       ctx,
		out:       make(chan series.Mutation, 16),
	}
	f.last, f.hasLast = store.Last()
	return f
}

// Register adds the poll task with the given seconds-aware cron spec.
func (f *LiveFeed) Register(spec string) error {
	if _, err := f.Cron.AddFunc(spec, f.poll); err != nil {
		return fmt.Errorf("register live feed: %w", err)
	}
	return nil
}

// Mutations is the channel the render loop drains. It is closed by Stop.
func (f *LiveFeed) Mutations() <-chan series.Mutation { return f.out }

// Start starts the cron scheduler.
func (f *LiveFeed) Start() {
	f.Cron.Start()
	slog.Info("live feed started", "source", f.Collector.Fetcher.Name())
}

// Stop waits for a running poll to finish and closes the mutation channel.
// Cancel the feed context first unless the channel is still being drained.
func (f *LiveFeed) Stop() {
	<-f.Cron.Stop().Done()
	f.mu.Lock()
	if !f.closed {
		close(f.out)
		f.closed = true
	}
	f.mu.Unlock()
	slog.Info("live feed stopped")
}

// PollNow runs one poll immediately.
func (f *LiveFeed) PollNow() {
	f.poll()
}

func (f *LiveFeed) poll() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return
	}

	m, ok, err := f.Collector.Next(f.Ctx, f.last, f.hasLast)
	if err != nil {
		slog.Error("live feed poll", "error", err)
		return
	}
	if !ok {
		slog.Debug("live feed: no new candles")
		return
	}

	select {
	case f.out <- m:
		f.last = m.Candles[len(m.Candles)-1]
		f.hasLast = true
		slog.Debug("live feed mutation", "kind", m.Kind, "candles", len(m.Candles))
	case <-f.Ctx.Done():
	}
}
