package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"KLineCore/internal/model"
)

// FileFetcher reads candles from a JSON file holding either an array of candles
// or an object with a "data" array. The file is re-read on every fetch so an
// external writer can extend it while the live feed runs.
type FileFetcher struct {
	Path string
}

func NewFileFetcher(path string) *FileFetcher {
	return &FileFetcher{Path: path}
}

func (f *FileFetcher) Name() string { return "file" }

type candleEnvelope struct {
	Data []model.Candle `json:"data"`
}

func (f *FileFetcher) FetchCandles(ctx context.Context, limit int) ([]model.Candle, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(f.Path)
	if err != nil {
		return nil, fmt.Errorf("read candles: %w", err)
	}
	candles, err := decodeCandles(data)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", f.Path, err)
	}
	return tail(candles, limit), nil
}

func decodeCandles(data []byte) ([]model.Candle, error) {
	var candles []model.Candle
	if err := json.Unmarshal(data, &candles); err == nil {
		return candles, nil
	}
	var env candleEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, err
	}
	return env.Data, nil
}

// LoadPrediction reads a prediction overlay from a JSON file.
func LoadPrediction(path string) (*model.PredictionSpec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read prediction: %w", err)
	}
	var spec model.PredictionSpec
	if err := json.Unmarshal(data, &spec); err != nil {
		return nil, fmt.Errorf("decode prediction: %w", err)
	}
	return &spec, nil
}

func tail(candles []model.Candle, limit int) []model.Candle {
	if limit > 0 && len(candles) > limit {
		return candles[len(candles)-limit:]
	}
	return candles
}
