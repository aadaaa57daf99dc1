package model

import "time"

// Candle is a single K-line record plus the indicator values derived from the series.
type Candle struct {
	ID        int64   `json:"time"`
	Open      float64 `json:"open"`
	High      float64 `json:"high"`
	Low       float64 `json:"low"`
	Close     float64 `json:"close"`
	Volume    float64 `json:"volume"`
	DateLabel string  `json:"dateString,omitempty"`

	Indicators Indicators `json:"-"`
}

// Indicators holds the values filled in by calculator.ComputeIndicators.
// Slices are indexed by the configured period order.
type Indicators struct {
	MA       []float64
	VolumeMA []float64

	BollUp float64
	BollMB float64
	BollDn float64

	DIF  float64
	DEA  float64
	MACD float64

	K float64
	D float64
	J float64

	RSI []float64
	WR  []float64
}

// Time returns the candle timestamp, interpreting ID as Unix milliseconds.
func (c Candle) Time() time.Time {
	return time.UnixMilli(c.ID)
}

// IsBullish reports whether the candle closed above its open.
func (c Candle) IsBullish() bool {
	return c.Close >= c.Open
}
