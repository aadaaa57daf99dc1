package prediction

import (
	"testing"

	"KLineCore/internal/model"
	"KLineCore/internal/series"
	"KLineCore/internal/viewport"
)

// testFrame has 20 candles 10px wide, a 400px viewport with 40px right padding,
// and a main panel mapping [80,130] onto rows [0,500] (10px per unit).
func testFrame() (*series.Store, viewport.Transform, viewport.Panel) {
	cs := make([]model.Candle, 20)
	for i := range cs {
		cs[i] = model.Candle{ID: int64(i) * 60000, Open: 100, High: 101, Low: 99, Close: 100}
	}
	store := series.NewStore(cs)
	tr := viewport.Transform{
		Viewport:     viewport.Viewport{Scale: 1, WidthPx: 400, HeightPx: 600},
		ItemWidth:    10,
		ItemCount:    len(cs),
		PaddingRight: 40,
	}
	main := viewport.NewPanel(model.PanelMain, viewport.Rect{Top: 0, Bottom: 500}).WithRange(80, 130)
	return store, tr, main
}

func sampleSpec() *model.PredictionSpec {
	return &model.PredictionSpec{
		Entry:    model.Float(100),
		StopLoss: model.Float(90),
		Targets:  []model.Target{{Value: 110}, {Value: 120}},
		Bias:     model.BiasBullish,
	}
}

func build(t *testing.T, spec *model.PredictionSpec) (Geometry, viewport.Panel) {
	t.Helper()
	store, tr, main := testFrame()
	g, ok := Build(Input{Spec: spec, Series: store, Transform: tr, Main: main, MinExtension: 10, Progress: 1})
	if !ok {
		t.Fatal("expected overlay geometry")
	}
	return g, main
}

func TestExtremeTarget(t *testing.T) {
	spec := sampleSpec()
	if v, ok := ExtremeTarget(spec); !ok || v != 120 {
		t.Errorf("bullish: expected 120, got %v", v)
	}
	spec.Bias = model.BiasBearish
	spec.Targets = []model.Target{{Value: 95}, {Value: 85}}
	if v, _ := ExtremeTarget(spec); v != 85 {
		t.Errorf("bearish: expected 85, got %v", v)
	}
	spec.Bias = model.BiasNone
	spec.Targets = []model.Target{{Value: 104}, {Value: 93}, {Value: 106}}
	if v, _ := ExtremeTarget(spec); v != 93 {
		t.Errorf("no bias: expected furthest 93, got %v", v)
	}
	spec.Targets = nil
	if _, ok := ExtremeTarget(spec); ok {
		t.Error("expected no extreme without targets")
	}
}

func TestBuild_TargetZoneSpansEntryToExtreme(t *testing.T) {
	g, main := build(t, sampleSpec())
	if g.TargetZone == nil {
		t.Fatal("expected take-profit zone")
	}
	if got := main.ValueFromY(g.TargetZone.Top); got != 120 {
		t.Errorf("zone top should be 120, got %v", got)
	}
	if got := main.ValueFromY(g.TargetZone.Bottom); got != 100 {
		t.Errorf("zone bottom should be 100, got %v", got)
	}
	if g.TargetZone.EntryY != main.YFromValue(100) || g.TargetZone.EntryAlpha <= g.TargetZone.LevelAlpha {
		t.Errorf("gradient should start strong at the entry edge, got %+v", g.TargetZone)
	}

	if g.StopZone == nil {
		t.Fatal("expected stop-loss zone")
	}
	if g.StopZone.Top != main.YFromValue(100) || g.StopZone.Bottom != main.YFromValue(90) {
		t.Errorf("stop zone should span entry to stop, got %+v", g.StopZone)
	}
}

func TestBuild_ExtentDefaultsToLastCandle(t *testing.T) {
	g, _ := build(t, sampleSpec())
	if g.AnchorIndex != 19 {
		t.Fatalf("expected anchor 19, got %d", g.AnchorIndex)
	}
	// Center of candle 19 is 195; ten candles further is 295, inside the 360px bound.
	if g.StartX != 195 || g.EndX != 295 {
		t.Errorf("expected [195,295], got [%v,%v]", g.StartX, g.EndX)
	}
}

func TestBuild_AnchorTimestamp(t *testing.T) {
	spec := sampleSpec()
	ts := int64(5*60000 - 1)
	spec.AnchorTimestamp = &ts
	g, _ := build(t, spec)
	if g.AnchorIndex != 5 {
		t.Fatalf("expected anchor 5, got %d", g.AnchorIndex)
	}
	// 14 candles remain after the anchor.
	if g.StartX != 55 || g.EndX != 195 {
		t.Errorf("expected [55,195], got [%v,%v]", g.StartX, g.EndX)
	}

	late := int64(999999999)
	spec.AnchorTimestamp = &late
	if g, _ = build(t, spec); g.AnchorIndex != 19 {
		t.Errorf("timestamp past the series should fall back to last index, got %d", g.AnchorIndex)
	}
}

func TestBuild_EndXClampedToPadding(t *testing.T) {
	store, tr, main := testFrame()
	tr.Scale = 4
	tr.ScrollOffset = 110
	g, ok := Build(Input{Spec: sampleSpec(), Series: store, Transform: tr, Main: main, MinExtension: 10, Progress: 1})
	if !ok {
		t.Fatal("expected geometry")
	}
	if g.StartX != 340 || g.EndX != 360 {
		t.Errorf("expected span [340,360], got [%v,%v]", g.StartX, g.EndX)
	}
}

func TestBuild_AnchorPastRightPadding(t *testing.T) {
	store, tr, main := testFrame()
	tr.Scale = 4
	if _, startX, endX, ok := Extent(sampleSpec(), store, tr, 10); ok || endX < startX {
		t.Errorf("expected no span, got ok=%v [%v,%v]", ok, startX, endX)
	}
	if g, ok := Build(Input{Spec: sampleSpec(), Series: store, Transform: tr, Main: main, MinExtension: 10, Progress: 1}); ok {
		t.Errorf("expected no overlay, got span [%v,%v]", g.StartX, g.EndX)
	}
}

func TestBuild_ConeMeanLineAndLabel(t *testing.T) {
	spec := sampleSpec()
	ts := int64(5 * 60000)
	spec.AnchorTimestamp = &ts
	conf := 0.8
	spec.Bands = []model.Band{{FromOffset: 0, ToOffset: 5, Top: 120, Bottom: 100, Confidence: &conf}}
	spec.Points = []model.Point{{Offset: 0, Price: 100}, {Offset: 3, Price: 110}}

	store, tr, main := testFrame()
	g, ok := Build(Input{Spec: spec, Series: store, Transform: tr, Main: main, MinExtension: 10, Progress: 0.5})
	if !ok {
		t.Fatal("expected geometry")
	}
	if len(g.Bands) != 1 {
		t.Fatalf("expected 1 band, got %d", len(g.Bands))
	}
	b := g.Bands[0]
	if b.Left != 55 || b.Right != 105 || b.Top != 100 || b.Bottom != 300 || b.Confidence == nil {
		t.Errorf("unexpected band rect %+v", b)
	}
	if len(g.MeanLine) != 2 || g.MeanLine[1] != (Vertex{X: 85, Y: 200}) {
		t.Errorf("unexpected mean line %+v", g.MeanLine)
	}
	if g.Bias == nil || g.Bias.Text != "LONG" || g.Bias.X != g.StartX+10 || g.Bias.Y != main.Top+20 {
		t.Errorf("unexpected bias label %+v", g.Bias)
	}
	if g.ClipX != g.StartX+(g.EndX-g.StartX)/2 {
		t.Errorf("expected clip at half width, got %v", g.ClipX)
	}
}

func TestBuild_Inactive(t *testing.T) {
	store, tr, main := testFrame()
	if _, ok := Build(Input{Spec: nil, Series: store, Transform: tr, Main: main}); ok {
		t.Error("nil spec should not build")
	}
	if _, ok := Build(Input{Spec: &model.PredictionSpec{}, Series: store, Transform: tr, Main: main}); ok {
		t.Error("empty spec should not build")
	}
	if _, ok := Build(Input{Spec: sampleSpec(), Series: series.NewStore(nil), Transform: tr, Main: main}); ok {
		t.Error("empty series should not build")
	}
}

func TestHitTest_EntryWinsWhenClosest(t *testing.T) {
	spec := sampleSpec()
	spec.Targets = []model.Target{{Value: 105.5}, {Value: 120}}
	g, main := build(t, spec)

	// Entry at y=300, nearest target at y=245.
	h, ok := HitTest(g, spec, main, 200, 295, 30)
	if !ok {
		t.Fatal("expected a hit")
	}
	if h.Kind != model.ElementEntry || h.Distance != 5 || h.Price != 100 {
		t.Errorf("expected entry at distance 5, got %+v", h)
	}
}

func TestHitTest_OutsideHorizontalExtent(t *testing.T) {
	spec := sampleSpec()
	g, main := build(t, spec)
	for _, x := range []float64{0, 194.9, 295.1, 1000} {
		if _, ok := HitTest(g, spec, main, x, main.YFromValue(100), 30); ok {
			t.Errorf("x=%v outside [%v,%v] should not hit", x, g.StartX, g.EndX)
		}
	}
}

func TestHitTest_ThresholdIsStrict(t *testing.T) {
	spec := sampleSpec()
	g, main := build(t, spec)
	if _, ok := HitTest(g, spec, main, 200, 330, 30); ok {
		t.Error("distance equal to threshold should not hit")
	}
	if h, ok := HitTest(g, spec, main, 200, 329, 30); !ok || h.Kind != model.ElementEntry {
		t.Errorf("expected entry just inside threshold, got %+v", h)
	}
}

func TestHitTest_TiesFollowDeclarationOrder(t *testing.T) {
	spec := &model.PredictionSpec{
		Entry:    model.Float(100),
		StopLoss: model.Float(100),
		Targets:  []model.Target{{Value: 110}, {Value: 110}},
	}
	g, main := build(t, spec)
	if h, _ := HitTest(g, spec, main, 200, main.YFromValue(100), 60); h.Kind != model.ElementEntry {
		t.Errorf("entry should win tie with stop-loss, got %v", h.Kind)
	}
	if h, _ := HitTest(g, spec, main, 200, main.YFromValue(110), 30); h.Kind != model.ElementTarget || h.TargetIndex != 0 {
		t.Errorf("first target should win tie, got %+v", h)
	}
}

func TestHitTest_MetadataMerged(t *testing.T) {
	spec := sampleSpec()
	spec.EntryZones = []model.Metadata{{"price": 1.0, "label": "zone A"}, {"label": "zone B"}}
	spec.Targets[1].Metadata = model.Metadata{"value": 5.0, "level": 3.0, "name": "TP2", "probability": 0.4}
	g, main := build(t, spec)

	h, ok := HitTest(g, spec, main, 250, main.YFromValue(100)+1, 60)
	if !ok || h.Metadata["label"] != "zone A" {
		t.Fatalf("expected first entry zone metadata, got %+v", h)
	}
	if _, leaked := h.Metadata["price"]; leaked {
		t.Error("entry zone price must not be merged")
	}

	h, ok = HitTest(g, spec, main, 250, main.YFromValue(120), 60)
	if !ok || h.Kind != model.ElementTarget || h.TargetIndex != 1 {
		t.Fatalf("expected second target, got %+v", h)
	}
	p := h.Payload()
	if p["type"] != "tp" || p["price"] != 120.0 || p["index"] != 1 || p["name"] != "TP2" || p["probability"] != 0.4 {
		t.Errorf("unexpected payload %v", p)
	}
	if _, leaked := p["level"]; leaked {
		t.Error("target level must not be merged")
	}
	if p["price"] != 120.0 {
		t.Error("metadata must not override price")
	}

	if got := (Hit{}).Payload(); len(got) != 0 {
		t.Errorf("zero hit should give empty payload, got %v", got)
	}
}

func TestSelector_TapAndScroll(t *testing.T) {
	s := NewSelector()
	if s.ObserveScroll(0) {
		t.Error("first scroll observation should not clear")
	}
	if !s.Tap(Hit{Kind: model.ElementStopLoss, TargetIndex: -1}, true) {
		t.Error("hit should notify")
	}
	if s.Selected().Kind != model.ElementStopLoss {
		t.Errorf("expected stop-loss selected, got %+v", s.Selected())
	}
	if s.ObserveScroll(0) {
		t.Error("unchanged scroll should not clear")
	}
	if !s.ObserveScroll(12.5) {
		t.Error("scroll change should clear the selection")
	}
	if s.ObserveScroll(20) {
		t.Error("clear must only be reported once")
	}

	s.Tap(Hit{Kind: model.ElementTarget, TargetIndex: 2}, true)
	if !s.Tap(Hit{}, false) {
		t.Error("miss should notify when it clears a selection")
	}
	if s.Tap(Hit{}, false) {
		t.Error("miss with nothing selected should not notify")
	}
}
