package collector

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"KLineCore/internal/formatter"
	"KLineCore/internal/model"
	"KLineCore/internal/series"
)

// Collector fetches candles, drops malformed ones and derives store mutations.
type Collector struct {
	Fetcher Fetcher
	Limit   int
	// Dates fills DateLabel on candles that arrive without one. Nil leaves it empty.
	Dates formatter.DateFormatter
}

// NewCollector creates a new Collector.
func NewCollector(fetcher Fetcher, limit int) *Collector {
	return &Collector{Fetcher: fetcher, Limit: limit, Dates: formatter.TimeFormatter{}}
}

// Collect fetches and normalizes candles: sorted by ID, one per ID (the later
// wins), invalid bars dropped.
func (c *Collector) Collect(ctx context.Context) ([]model.Candle, error) {
	raw, err := c.Fetcher.FetchCandles(ctx, c.Limit)
	if err != nil {
		return nil, fmt.Errorf("fetch candles from %s: %w", c.Fetcher.Name(), err)
	}
	return c.normalize(raw), nil
}

// Next fetches and returns the mutation that brings a store ending on last up to date.
// It reports false when nothing changed.
func (c *Collector) Next(ctx context.Context, last model.Candle, hasLast bool) (series.Mutation, bool, error) {
	candles, err := c.Collect(ctx)
	if err != nil {
		return series.Mutation{}, false, err
	}
	m, ok := series.Diff(last.ID, hasLast, candles)
	if ok && m.Kind == series.MutationReplaceLast && sameBar(m.Candles[0], last) {
		return series.Mutation{}, false, nil
	}
	return m, ok, nil
}

func (c *Collector) normalize(raw []model.Candle) []model.Candle {
	out := make([]model.Candle, 0, len(raw))
	for _, k := range raw {
		if !valid(k) {
			slog.Warn("dropping invalid candle", "source", c.Fetcher.Name(), "id", k.ID,
				"open", k.Open, "high", k.High, "low", k.Low, "close", k.Close)
			continue
		}
		if k.DateLabel == "" && c.Dates != nil {
			k.DateLabel = c.Dates.FormatTime(k.Time())
		}
		out = append(out, k)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].ID < out[j].ID })

	dedup := out[:0]
	for _, k := range out {
		if n := len(dedup); n > 0 && dedup[n-1].ID == k.ID {
			dedup[n-1] = k
			continue
		}
		dedup = append(dedup, k)
	}
	return dedup
}

func valid(k model.Candle) bool {
	if k.Open == 0 && k.High == 0 && k.Low == 0 && k.Close == 0 {
		return false
	}
	if k.High < k.Low || k.Volume < 0 {
		return false
	}
	return k.High >= max(k.Open, k.Close) && k.Low <= min(k.Open, k.Close)
}

func sameBar(a, b model.Candle) bool {
	return a.ID == b.ID && a.Open == b.Open && a.High == b.High &&
		a.Low == b.Low && a.Close == b.Close && a.Volume == b.Volume
}
