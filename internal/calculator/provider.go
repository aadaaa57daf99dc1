package calculator

import (
	"math"

	"KLineCore/internal/model"
)

// ValueProvider reports how a candle contributes to one panel's value range.
type ValueProvider interface {
	MaxValue(c model.Candle) float64
	MinValue(c model.Candle) float64
}

// MainProvider covers the candle body plus the enabled price overlay.
type MainProvider struct {
	Indicator model.MainIndicator
}

func (p MainProvider) MaxValue(c model.Candle) float64 {
	v := c.High
	switch p.Indicator {
	case model.MainMA:
		v = math.Max(v, maxOf(c.Indicators.MA))
	case model.MainBOLL:
		if !math.IsNaN(c.Indicators.BollUp) {
			v = math.Max(v, c.Indicators.BollUp)
		}
	}
	return v
}

func (p MainProvider) MinValue(c model.Candle) float64 {
	v := c.Low
	switch p.Indicator {
	case model.MainMA:
		v = math.Min(v, minOf(c.Indicators.MA))
	case model.MainBOLL:
		if !math.IsNaN(c.Indicators.BollDn) {
			v = math.Min(v, c.Indicators.BollDn)
		}
	}
	return v
}

// VolumeProvider covers the volume bar and its moving averages.
type VolumeProvider struct{}

func (VolumeProvider) MaxValue(c model.Candle) float64 {
	return math.Max(c.Volume, maxOf(c.Indicators.VolumeMA))
}

func (VolumeProvider) MinValue(c model.Candle) float64 {
	return math.Min(c.Volume, minOf(c.Indicators.VolumeMA))
}

// MACDProvider covers DIF, DEA and the histogram.
type MACDProvider struct{}

func (MACDProvider) MaxValue(c model.Candle) float64 {
	return math.Max(c.Indicators.MACD, math.Max(c.Indicators.DEA, c.Indicators.DIF))
}

func (MACDProvider) MinValue(c model.Candle) float64 {
	return math.Min(c.Indicators.MACD, math.Min(c.Indicators.DEA, c.Indicators.DIF))
}

// KDJProvider covers the K, D and J lines.
type KDJProvider struct{}

func (KDJProvider) MaxValue(c model.Candle) float64 {
	return math.Max(c.Indicators.K, math.Max(c.Indicators.D, c.Indicators.J))
}

func (KDJProvider) MinValue(c model.Candle) float64 {
	return math.Min(c.Indicators.K, math.Min(c.Indicators.D, c.Indicators.J))
}

// RSIProvider covers every configured RSI line.
type RSIProvider struct{}

func (RSIProvider) MaxValue(c model.Candle) float64 { return maxOf(c.Indicators.RSI) }
func (RSIProvider) MinValue(c model.Candle) float64 { return minOf(c.Indicators.RSI) }

// WRProvider covers every configured Williams %R line.
type WRProvider struct{}

func (WRProvider) MaxValue(c model.Candle) float64 { return maxOf(c.Indicators.WR) }
func (WRProvider) MinValue(c model.Candle) float64 { return minOf(c.Indicators.WR) }

// AuxProvider returns the provider for an auxiliary indicator, or nil when the panel is hidden.
func AuxProvider(kind model.AuxIndicator) ValueProvider {
	switch kind {
	case model.AuxMACD:
		return MACDProvider{}
	case model.AuxKDJ:
		return KDJProvider{}
	case model.AuxRSI:
		return RSIProvider{}
	case model.AuxWR:
		return WRProvider{}
	default:
		return nil
	}
}

// maxOf returns -Inf for an empty slice so it never widens a fold.
func maxOf(vs []float64) float64 {
	m := math.Inf(-1)
	for _, v := range vs {
		if v > m {
			m = v
		}
	}
	return m
}

func minOf(vs []float64) float64 {
	m := math.Inf(1)
	for _, v := range vs {
		if v < m {
			m = v
		}
	}
	return m
}
