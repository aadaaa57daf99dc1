package calculator

// rsiSeries computes the simple-average RSI over the trailing period changes.
// Values before the window fills default to 50.
func rsiSeries(closes []float64, period int) []float64 {
	out := make([]float64, len(closes))
	for i := range closes {
		if i < period || period <= 0 {
			out[i] = 50
			continue
		}
		var gains, losses float64
		for k := i - period + 1; k <= i; k++ {
			change := closes[k] - closes[k-1]
			if change > 0 {
				gains += change
			} else {
				losses -= change
			}
		}
		avgGain := gains / float64(period)
		avgLoss := losses / float64(period)
		rs := 100.0
		if avgLoss != 0 {
			rs = avgGain / avgLoss
		}
		out[i] = 100 - 100/(1+rs)
	}
	return out
}

// wrSeries computes Williams %R in [-100, 0]. Values before the window fills,
// and flat windows, default to -50.
func wrSeries(highs, lows, closes []float64, period int) []float64 {
	out := make([]float64, len(closes))
	for i := range closes {
		if i < period-1 || period <= 0 {
			out[i] = -50
			continue
		}
		highest, lowest := windowExtremes(highs, lows, i-period+1, i)
		if highest == lowest {
			out[i] = -50
			continue
		}
		out[i] = -((highest - closes[i]) / (highest - lowest)) * 100
	}
	return out
}
