package calculator

import "errors"

// CalculateSMA computes the simple moving average of the last period values.
func CalculateSMA(values []float64, period int) (float64, error) {
	if period <= 0 {
		return 0, errors.New("period must be positive")
	}
	if len(values) < period {
		return 0, errors.New("not enough data for SMA calculation")
	}
	sum := 0.0
	for i := len(values) - period; i < len(values); i++ {
		sum += values[i]
	}
	return sum / float64(period), nil
}

// movingAverages returns one series per period. Until a window fills, the raw value
// itself is used so the line starts on the first candle.
func movingAverages(values []float64, periods []int) [][]float64 {
	out := make([][]float64, len(values))
	for i := range values {
		row := make([]float64, len(periods))
		for j, period := range periods {
			ma, err := CalculateSMA(values[:i+1], period)
			if err != nil {
				ma = values[i]
			}
			row[j] = ma
		}
		out[i] = row
	}
	return out
}

