package calculator

import (
	"fmt"
	"math"

	"KLineCore/internal/model"
)

// Params configures the indicator periods.
type Params struct {
	MA       []int
	VolumeMA []int
	RSI      []int
	WR       []int

	BollN int
	BollP float64

	MACDShort  int
	MACDLong   int
	MACDSignal int

	KDJN  int
	KDJM1 int
	KDJM2 int
}

// DefaultParams returns the standard period set: MA 5/10/20, volume MA 5/10,
// RSI 6/12/24, WR 14, BOLL(20,2), MACD(12,26,9), KDJ(9,3,3).
func DefaultParams() Params {
	return Params{
		MA:         []int{5, 10, 20},
		VolumeMA:   []int{5, 10},
		RSI:        []int{6, 12, 24},
		WR:         []int{14},
		BollN:      20,
		BollP:      2,
		MACDShort:  12,
		MACDLong:   26,
		MACDSignal: 9,
		KDJN:       9,
		KDJM1:      3,
		KDJM2:      3,
	}
}

// Validate checks that every period is usable.
func (p Params) Validate() error {
	for name, periods := range map[string][]int{"ma": p.MA, "volume_ma": p.VolumeMA, "rsi": p.RSI, "wr": p.WR} {
		for _, v := range periods {
			if v <= 0 {
				return fmt.Errorf("%s period must be positive, got %d", name, v)
			}
		}
	}
	if p.BollN < 2 {
		return fmt.Errorf("boll period must be at least 2, got %d", p.BollN)
	}
	if p.MACDShort <= 0 || p.MACDLong <= 0 || p.MACDSignal <= 0 {
		return fmt.Errorf("macd periods must be positive")
	}
	if p.KDJN <= 0 || p.KDJM1 <= 0 {
		return fmt.Errorf("kdj periods must be positive")
	}
	return nil
}

// ComputeIndicators fills the Indicators field of every candle in place.
func ComputeIndicators(candles []model.Candle, p Params) error {
	if err := p.Validate(); err != nil {
		return err
	}
	n := len(candles)
	if n == 0 {
		return nil
	}

	highs := make([]float64, n)
	lows := make([]float64, n)
	closes := make([]float64, n)
	volumes := make([]float64, n)
	for i, c := range candles {
		highs[i], lows[i], closes[i], volumes[i] = c.High, c.Low, c.Close, c.Volume
	}

	ma := movingAverages(closes, p.MA)
	volMA := movingAverages(volumes, p.VolumeMA)
	rsi := make([][]float64, len(p.RSI))
	for j, period := range p.RSI {
		rsi[j] = rsiSeries(closes, period)
	}
	wr := make([][]float64, len(p.WR))
	for j, period := range p.WR {
		wr[j] = wrSeries(highs, lows, closes, period)
	}

	for i := range candles {
		ind := &candles[i].Indicators
		ind.MA = ma[i]
		ind.VolumeMA = volMA[i]
		ind.RSI = column(rsi, i)
		ind.WR = column(wr, i)
	}

	fillBoll(candles, closes, p.BollN, p.BollP)
	fillMACD(candles, closes, p.MACDShort, p.MACDLong, p.MACDSignal)
	fillKDJ(candles, highs, lows, closes, p.KDJN, p.KDJM1, p.KDJM2)
	return nil
}

func column(series [][]float64, i int) []float64 {
	out := make([]float64, len(series))
	for j := range series {
		out[j] = series[j][i]
	}
	return out
}

// fillBoll uses the sample standard deviation. Candles before the window fills
// collapse all three bands onto the close.
func fillBoll(candles []model.Candle, closes []float64, n int, p float64) {
	for i := range candles {
		ind := &candles[i].Indicators
		if i < n-1 {
			ind.BollMB, ind.BollUp, ind.BollDn = closes[i], closes[i], closes[i]
			continue
		}
		mb, _ := CalculateSMA(closes[:i+1], n)
		var variance float64
		for k := i - n + 1; k <= i; k++ {
			d := closes[k] - mb
			variance += d * d
		}
		std := math.Sqrt(variance / float64(n-1))
		ind.BollMB = mb
		ind.BollUp = mb + p*std
		ind.BollDn = mb - p*std
	}
}

// fillMACD seeds both EMAs with the first close; the first candle is all zeros.
func fillMACD(candles []model.Candle, closes []float64, short, long, signal int) {
	emaShort, emaLong := closes[0], closes[0]
	var dea float64
	for i := range candles {
		ind := &candles[i].Indicators
		if i == 0 {
			ind.DIF, ind.DEA, ind.MACD = 0, 0, 0
			continue
		}
		emaShort = (2*closes[i] + float64(short-1)*emaShort) / float64(short+1)
		emaLong = (2*closes[i] + float64(long-1)*emaLong) / float64(long+1)
		dif := emaShort - emaLong
		dea = (2*dif + float64(signal-1)*dea) / float64(signal+1)
		ind.DIF = dif
		ind.DEA = dea
		ind.MACD = 2 * (dif - dea)
	}
}

// fillKDJ starts K and D at 50. A flat window yields RSV 50.
func fillKDJ(candles []model.Candle, highs, lows, closes []float64, n, m1, m2 int) {
	k, d := 50.0, 50.0
	for i := range candles {
		ind := &candles[i].Indicators
		if i > 0 {
			highest, lowest := windowExtremes(highs, lows, max(0, i-n+1), i)
			rsv := 50.0
			if highest != lowest {
				rsv = (closes[i] - lowest) / (highest - lowest) * 100
			}
			k = (rsv + float64(m1-1)*k) / float64(m1)
			d = (k + float64(m1-1)*d) / float64(m1)
		}
		ind.K = k
		ind.D = d
		ind.J = float64(m2)*k - 2*d
	}
}

func windowExtremes(highs, lows []float64, from, to int) (highest, lowest float64) {
	highest = math.Inf(-1)
	lowest = math.Inf(1)
	for i := from; i <= to; i++ {
		if highs[i] > highest {
			highest = highs[i]
		}
		if lows[i] < lowest {
			lowest = lows[i]
		}
	}
	return highest, lowest
}
