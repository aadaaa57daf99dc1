package calculator

import (
	"math"

	"KLineCore/internal/model"
	"KLineCore/internal/series"
	"KLineCore/internal/viewport"
)

// ValueRange is a panel's [Min, Max] for one frame.
type ValueRange struct {
	Min float64
	Max float64
}

// Span returns Max - Min.
func (r ValueRange) Span() float64 { return r.Max - r.Min }

// Reveal is the externally driven range-reveal animation state sampled per frame.
type Reveal struct {
	Active   bool
	Progress float64
}

// RangeInput is everything one range pass reads.
type RangeInput struct {
	Transform viewport.Transform
	Series    series.Reader

	Main         ValueProvider
	Volume       ValueProvider
	Aux          ValueProvider
	AuxIndicator model.AuxIndicator

	Prediction *model.PredictionSpec
	Reveal     Reveal
}

// Ranges is the result of one range pass.
type Ranges struct {
	Visible model.VisibleRange
	Empty   bool

	Main   ValueRange
	Volume ValueRange
	Aux    ValueRange

	// Index and value of the first highest high and first lowest low in view.
	MainMaxIndex int
	MainMinIndex int
	MainHigh     float64
	MainLow      float64
}

// CalculateRange folds the visible candles into per-panel value ranges.
// An empty series yields a zero Ranges with Empty set.
func CalculateRange(in RangeInput) Ranges {
	n := in.Series.Len()
	if n == 0 {
		return Ranges{Empty: true}
	}
	t := in.Transform
	t.ItemCount = n

	start := viewport.Clamp(t.IndexFromScrollX(t.ViewXToDataX(0)), 0, n-1)
	stop := viewport.Clamp(t.IndexFromScrollX(t.ViewXToDataX(t.WidthPx)), 0, n-1)

	r := Ranges{
		Visible:      model.VisibleRange{Start: start, Stop: stop},
		Main:         emptyRange(),
		Volume:       emptyRange(),
		Aux:          emptyRange(),
		MainMaxIndex: start,
		MainMinIndex: start,
		MainHigh:     math.Inf(-1),
		MainLow:      math.Inf(1),
	}

	for i := start; i <= stop; i++ {
		c := in.Series.At(i)
		if in.Main != nil {
			fold(&r.Main, in.Main, c)
			// Strict comparison against the recorded extreme keeps the first occurrence.
			if c.High > r.MainHigh {
				r.MainHigh = c.High
				r.MainMaxIndex = i
			}
			if c.Low < r.MainLow {
				r.MainLow = c.Low
				r.MainMinIndex = i
			}
		}
		if in.Volume != nil {
			fold(&r.Volume, in.Volume, c)
		}
		if in.Aux != nil {
			fold(&r.Aux, in.Aux, c)
		}
	}

	r.Main = settle(r.Main)
	r.Volume = settle(r.Volume)
	r.Aux = settle(r.Aux)

	r.Volume.Min = math.Max(0, r.Volume.Min-r.Volume.Span()/10)
	if math.Abs(r.Volume.Max) < 0.01 {
		r.Volume.Max = 15
	}

	if p := in.Prediction; p != nil && p.InScale() {
		r.Main = foldPrediction(r.Main, p)
	}

	r.Main = expandFlat(r.Main)
	r.Volume = expandFlat(r.Volume)
	if in.Aux != nil {
		r.Aux = expandFlat(r.Aux)
		if in.AuxIndicator == model.AuxWR {
			r.Aux.Max = 0
			if math.Abs(r.Aux.Min) < 0.01 {
				r.Aux.Min = -10
			}
		}
	}

	if in.Reveal.Active {
		progress := viewport.Clamp(in.Reveal.Progress, 0, 1)
		r.Visible.Stop = start + int(math.Round(progress*float64(stop-start)))
	}
	return r
}

// foldPrediction widens the main range to every prediction level, then pads it by 5%.
func foldPrediction(r ValueRange, p *model.PredictionSpec) ValueRange {
	levels := p.Levels()
	if len(levels) == 0 {
		return r
	}
	for _, v := range levels {
		r.Max = math.Max(r.Max, v)
		r.Min = math.Min(r.Min, v)
	}
	if span := r.Span(); span > 0 {
		pad := span * 0.05
		r.Max += pad
		r.Min -= pad
	}
	return r
}

// expandFlat opens a collapsed range by 5% of its magnitude each side, pinning Max to 1 at zero.
func expandFlat(r ValueRange) ValueRange {
	if r.Max != r.Min {
		return r
	}
	r.Max += math.Abs(r.Max * 0.05)
	r.Min -= math.Abs(r.Min * 0.05)
	if r.Max == 0 {
		r.Max = 1
	}
	return r
}

func emptyRange() ValueRange {
	return ValueRange{Min: math.Inf(1), Max: math.Inf(-1)}
}

func fold(r *ValueRange, p ValueProvider, c model.Candle) {
	r.Max = math.Max(r.Max, p.MaxValue(c))
	r.Min = math.Min(r.Min, p.MinValue(c))
}

// settle replaces a range that saw no finite values with zero.
func settle(r ValueRange) ValueRange {
	if math.IsInf(r.Max, 0) || math.IsInf(r.Min, 0) {
		return ValueRange{}
	}
	return r
}
