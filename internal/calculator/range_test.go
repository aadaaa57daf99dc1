package calculator

import (
	"testing"

	"KLineCore/internal/model"
	"KLineCore/internal/series"
	"KLineCore/internal/viewport"
)

func rangeInput(cs []model.Candle, scroll, width float64) RangeInput {
	return RangeInput{
		Transform: viewport.Transform{
			Viewport:  viewport.Viewport{ScrollOffset: scroll, Scale: 1, WidthPx: width, HeightPx: 600},
			ItemWidth: 10,
		},
		Series: series.NewStore(cs),
		Main:   MainProvider{},
		Volume: VolumeProvider{},
	}
}

func TestCalculateRange_EmptySeries(t *testing.T) {
	r := CalculateRange(rangeInput(nil, 0, 400))
	if !r.Empty {
		t.Fatal("expected empty result")
	}
	if r.Visible.Start != 0 || r.Visible.Stop != 0 {
		t.Errorf("expected zero visible range, got %+v", r.Visible)
	}
}

func TestCalculateRange_VisibleWindowWithinBounds(t *testing.T) {
	cs := candlesFromCloses(1, 2, 3, 4, 5, 6, 7, 8, 9, 10)
	tests := []struct {
		scroll, width float64
		start, stop   int
	}{
		{0, 400, 0, 9},
		{25, 40, 2, 6},
		{-100, 40, 0, 0},
		{500, 40, 9, 9},
		{95, 0, 9, 9},
	}
	for _, tt := range tests {
		r := CalculateRange(rangeInput(cs, tt.scroll, tt.width))
		if r.Visible.Start != tt.start || r.Visible.Stop != tt.stop {
			t.Errorf("scroll=%v width=%v: expected [%d,%d], got [%d,%d]",
				tt.scroll, tt.width, tt.start, tt.stop, r.Visible.Start, r.Visible.Stop)
		}
		if r.Visible.Start > r.Visible.Stop || r.Visible.Start < 0 || r.Visible.Stop > len(cs)-1 {
			t.Errorf("visible range out of bounds: %+v", r.Visible)
		}
	}
}

func TestCalculateRange_MainExtremesAndFirstWins(t *testing.T) {
	cs := candlesFromCloses(10, 15, 12, 15, 8, 8)
	r := CalculateRange(rangeInput(cs, 0, 400))
	if r.Main.Max != 16 || r.Main.Min != 7 {
		t.Errorf("expected main range [7,16], got [%v,%v]", r.Main.Min, r.Main.Max)
	}
	if r.MainMaxIndex != 1 {
		t.Errorf("tie on high should keep first index 1, got %d", r.MainMaxIndex)
	}
	if r.MainMinIndex != 4 {
		t.Errorf("tie on low should keep first index 4, got %d", r.MainMinIndex)
	}
}

func TestCalculateRange_AppendedHighMovesMaxIndex(t *testing.T) {
	store := series.NewStore(candlesFromCloses(10, 20, 15))
	in := rangeInput(nil, 0, 400)
	in.Series = store

	r := CalculateRange(in)
	if r.MainMaxIndex != 1 {
		t.Fatalf("expected max index 1, got %d", r.MainMaxIndex)
	}

	store.Append(model.Candle{ID: 4, Open: 20, High: 21, Low: 19, Close: 20})
	r = CalculateRange(in)
	if r.MainMaxIndex != 1 {
		t.Errorf("equal high must not move max index, got %d", r.MainMaxIndex)
	}

	store.Append(model.Candle{ID: 5, Open: 20, High: 30, Low: 19, Close: 29})
	r = CalculateRange(in)
	if r.MainMaxIndex != 4 {
		t.Errorf("new high should move max index to 4, got %d", r.MainMaxIndex)
	}
}

func TestCalculateRange_VolumeMinNeverNegative(t *testing.T) {
	cs := candlesFromCloses(1, 2, 3)
	cs[0].Volume, cs[1].Volume, cs[2].Volume = 10, 1000, 50
	r := CalculateRange(rangeInput(cs, 0, 400))
	if r.Volume.Min < 0 {
		t.Fatalf("volume min must be >= 0, got %v", r.Volume.Min)
	}
	if r.Volume.Min != 0 {
		t.Errorf("expected 10 - 99 lifted to 0, got %v", r.Volume.Min)
	}

	cs[0].Volume, cs[1].Volume, cs[2].Volume = 500, 510, 520
	r = CalculateRange(rangeInput(cs, 0, 400))
	if r.Volume.Min != 498 {
		t.Errorf("expected 500 - 2 = 498, got %v", r.Volume.Min)
	}
}

func TestCalculateRange_ZeroVolumeGetsDefaultScale(t *testing.T) {
	cs := candlesFromCloses(1, 2)
	cs[0].Volume, cs[1].Volume = 0, 0
	r := CalculateRange(rangeInput(cs, 0, 400))
	if r.Volume.Min != 0 || r.Volume.Max != 15 {
		t.Errorf("expected volume range [0,15], got [%v,%v]", r.Volume.Min, r.Volume.Max)
	}
}

func TestCalculateRange_FlatMainExpands(t *testing.T) {
	cs := []model.Candle{{ID: 1, Open: 100, High: 100, Low: 100, Close: 100, Volume: 1}}
	r := CalculateRange(rangeInput(cs, 0, 400))
	if r.Main.Max != 105 || r.Main.Min != 95 {
		t.Errorf("expected [95,105], got [%v,%v]", r.Main.Min, r.Main.Max)
	}

	cs[0] = model.Candle{ID: 1, Volume: 1}
	r = CalculateRange(rangeInput(cs, 0, 400))
	if r.Main.Max != 1 || r.Main.Min != 0 {
		t.Errorf("expected zero range pinned to [0,1], got [%v,%v]", r.Main.Min, r.Main.Max)
	}
}

func TestCalculateRange_PredictionWidensMain(t *testing.T) {
	cs := candlesFromCloses(100, 101, 102)
	in := rangeInput(cs, 0, 400)
	in.Prediction = &model.PredictionSpec{
		Entry:    model.Float(100),
		StopLoss: model.Float(90),
		Targets:  []model.Target{{Value: 110}, {Value: 120}},
	}
	r := CalculateRange(in)
	// [90,120] padded by 1.5 each side.
	if !approx(r.Main.Min, 88.5) || !approx(r.Main.Max, 121.5) {
		t.Errorf("expected [88.5,121.5], got [%v,%v]", r.Main.Min, r.Main.Max)
	}

	excluded := false
	in.Prediction.IncludeInScale = &excluded
	r = CalculateRange(in)
	if r.Main.Min != 99 || r.Main.Max != 103 {
		t.Errorf("excluded prediction should not widen range, got [%v,%v]", r.Main.Min, r.Main.Max)
	}
}

func TestCalculateRange_PredictionBandsAndPoints(t *testing.T) {
	cs := candlesFromCloses(100)
	in := rangeInput(cs, 0, 400)
	in.Prediction = &model.PredictionSpec{
		Bands:  []model.Band{{FromOffset: 0, ToOffset: 5, Top: 140, Bottom: 60}},
		Points: []model.Point{{Offset: 3, Price: 150}},
	}
	r := CalculateRange(in)
	if !approx(r.Main.Max, 150+4.5) || !approx(r.Main.Min, 60-4.5) {
		t.Errorf("expected [55.5,154.5], got [%v,%v]", r.Main.Min, r.Main.Max)
	}
}

func TestCalculateRange_WRPinsMax(t *testing.T) {
	cs := candlesFromCloses(10, 11, 12)
	for i := range cs {
		cs[i].Indicators.WR = []float64{-0.001}
	}
	in := rangeInput(cs, 0, 400)
	in.Aux = WRProvider{}
	in.AuxIndicator = model.AuxWR
	r := CalculateRange(in)
	if r.Aux.Max != 0 || r.Aux.Min != -10 {
		t.Errorf("expected WR range [-10,0], got [%v,%v]", r.Aux.Min, r.Aux.Max)
	}
}

func TestCalculateRange_AuxFlatAndHidden(t *testing.T) {
	cs := candlesFromCloses(10, 11)
	for i := range cs {
		cs[i].Indicators.RSI = []float64{40, 40}
	}
	in := rangeInput(cs, 0, 400)
	in.Aux = RSIProvider{}
	in.AuxIndicator = model.AuxRSI
	r := CalculateRange(in)
	if r.Aux.Max != 42 || r.Aux.Min != 38 {
		t.Errorf("expected flat RSI expanded to [38,42], got [%v,%v]", r.Aux.Min, r.Aux.Max)
	}

	in.Aux = nil
	r = CalculateRange(in)
	if r.Aux.Max != 0 || r.Aux.Min != 0 {
		t.Errorf("hidden aux panel should have zero range, got %+v", r.Aux)
	}
}

func TestCalculateRange_RevealInterpolatesStop(t *testing.T) {
	cs := candlesFromCloses(1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11)
	in := rangeInput(cs, 0, 200)
	in.Reveal = Reveal{Active: true, Progress: 0.5}
	r := CalculateRange(in)
	if r.Visible.Start != 0 || r.Visible.Stop != 5 {
		t.Errorf("expected [0,5] at half progress, got %+v", r.Visible)
	}
	in.Reveal.Progress = 0
	if r = CalculateRange(in); r.Visible.Stop != 0 {
		t.Errorf("expected stop 0 at zero progress, got %d", r.Visible.Stop)
	}
	in.Reveal.Progress = 1
	if r = CalculateRange(in); r.Visible.Stop != 10 {
		t.Errorf("expected stop 10 at full progress, got %d", r.Visible.Stop)
	}
}

func TestCalculateRange_MAWidensMain(t *testing.T) {
	cs := candlesFromCloses(10, 11)
	cs[1].Indicators.MA = []float64{30, 10.5}
	in := rangeInput(cs, 0, 400)
	in.Main = MainProvider{Indicator: model.MainMA}
	r := CalculateRange(in)
	if r.Main.Max != 30 {
		t.Errorf("expected MA to lift max to 30, got %v", r.Main.Max)
	}
}
