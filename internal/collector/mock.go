package collector

import (
	"context"
	"math"
	"sync"
	"time"

	"KLineCore/internal/model"
)

// MockFetcher generates a deterministic wave of candles aligned to Interval and
// ending at the interval containing Now. Each fetch nudges the in-progress
// candle so a live feed sees both new and updated candles. Seed shifts the
// wave phase; candle times are unaffected.
type MockFetcher struct {
	BasePrice float64
	Interval  time.Duration
	Count     int
	Seed      int64
	Now       func() time.Time

	mu    sync.Mutex
	ticks int
}

func NewMockFetcher(basePrice float64, count int, interval time.Duration) *MockFetcher {
	return &MockFetcher{BasePrice: basePrice, Count: count, Interval: interval, Now: time.Now}
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) FetchCandles(ctx context.Context, limit int) ([]model.Candle, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	tick := m.ticks
	m.ticks++
	m.mu.Unlock()

	now := time.Now
	if m.Now != nil {
		now = m.Now
	}
	interval := m.Interval
	switch {
	case interval <= 0:
		interval = time.Minute
	case interval < time.Millisecond:
		interval = time.Millisecond
	}
	count := m.Count
	if limit > 0 && limit < count {
		count = limit
	}
	return generateMockCandles(m.BasePrice, count, now().Truncate(interval), interval, m.Seed, tick), nil
}

func generateMockCandles(basePrice float64, count int, last time.Time, interval time.Duration, seed int64, tick int) []model.Candle {
	candles := make([]model.Candle, count)
	end := last.UnixMilli() / interval.Milliseconds()
	for i := 0; i < count; i++ {
		// Index the wave by absolute slot so overlapping fetches agree on past candles.
		slot := end - int64(count-1-i)
		phase := slot + seed
		p := basePrice * (1 + 0.02*math.Sin(float64(phase)/7) + 0.005*math.Sin(float64(phase)/2))
		open := basePrice * (1 + 0.02*math.Sin(float64(phase-1)/7) + 0.005*math.Sin(float64(phase-1)/2))
		if i == count-1 {
			p *= 1 + 0.001*math.Sin(float64(tick))
		}
		t := time.UnixMilli(slot * interval.Milliseconds())
		candles[i] = model.Candle{
			ID:     t.UnixMilli(),
			Open:   open,
			High:   math.Max(open, p) * 1.003,
			Low:    math.Min(open, p) * 0.997,
			Close:  p,
			Volume: 1000000 * (1.5 + math.Sin(float64(phase)/3)),
		}
	}
	return candles
}
