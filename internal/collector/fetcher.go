package collector

import (
	"context"

	"KLineCore/internal/model"
)

// Fetcher defines the interface for fetching candles.
type Fetcher interface {
	// FetchCandles returns up to limit of the most recent candles, oldest first.
	// A limit of 0 means everything the source has.
	FetchCandles(ctx context.Context, limit int) ([]model.Candle, error)
	Name() string
}
