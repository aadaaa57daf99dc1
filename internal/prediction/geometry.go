// Package prediction lays out the entry / stop-loss / take-profit overlay and resolves taps on it.
package prediction

import (
	"math"

	"KLineCore/internal/model"
	"KLineCore/internal/series"
	"KLineCore/internal/viewport"
)

// Gradient alpha at the entry edge and at the level edge of a zone.
const (
	ZoneEntryAlpha = 50
	ZoneLevelAlpha = 10
)

// Segment is a straight line in pixel space.
type Segment struct {
	X1, Y1, X2, Y2 float64
}

// Line is a drawn prediction level. Entry and stop-loss are horizontal;
// targets run diagonally from the entry at StartX to the level at EndX.
type Line struct {
	Kind        model.ElementKind
	TargetIndex int
	Price       float64
	Y           float64
	Segment
	Selected bool
}

// Zone is a gradient-filled rectangle between the entry and a level.
// The gradient runs from EntryY at EntryAlpha to LevelY at LevelAlpha.
type Zone struct {
	Kind   model.ElementKind
	Left   float64
	Right  float64
	Top    float64
	Bottom float64
	EntryY float64
	LevelY float64

	EntryAlpha uint8
	LevelAlpha uint8
}

// BandRect is one confidence cone slice in pixels.
type BandRect struct {
	Left, Right float64
	Top, Bottom float64
	Confidence  *float64
}

// Vertex is a point of the mean line.
type Vertex struct {
	X, Y float64
}

// Label marks the bias text anchor.
type Label struct {
	Text string
	X, Y float64
	Bias model.Bias
}

// Geometry is the overlay laid out for one frame.
type Geometry struct {
	AnchorIndex int
	StartX      float64
	EndX        float64

	Lines      []Line
	StopZone   *Zone
	TargetZone *Zone
	Extreme    float64

	Bands    []BandRect
	MeanLine []Vertex
	Bias     *Label

	// ClipX is the right edge revealed so far by the intro animation.
	ClipX float64
}

// Input is everything one overlay pass reads.
type Input struct {
	Spec      *model.PredictionSpec
	Series    series.Reader
	Transform viewport.Transform
	Main      viewport.Panel

	// MinExtension is the least number of candles the overlay reaches past the anchor.
	MinExtension int
	// Progress is the reveal animation position in [0, 1].
	Progress float64
	Selected model.PredictionElement
}

// Active reports whether spec has anything to draw.
func Active(spec *model.PredictionSpec) bool {
	if spec == nil {
		return false
	}
	return spec.Entry != nil || spec.StopLoss != nil || len(spec.Targets) > 0 ||
		len(spec.Bands) > 0 || len(spec.Points) > 0
}

// Extent returns the anchor index and horizontal span of the overlay.
// EndX reaches at least minExtension candles past the anchor, clipped at the right padding.
// An anchor right of the padding boundary has no span and reports !ok.
func Extent(spec *model.PredictionSpec, r series.Reader, t viewport.Transform, minExtension int) (anchor int, startX, endX float64, ok bool) {
	n := r.Len()
	if n == 0 {
		return -1, 0, 0, false
	}
	anchor = series.AnchorIndex(r, spec.AnchorTimestamp)
	ext := max(n-1-anchor, minExtension)
	startX = t.ItemCenterViewX(anchor)
	endX = math.Min(startX+float64(ext)*t.ItemWidthPx(), t.WidthPx-t.PaddingRight)
	if endX < startX {
		return anchor, startX, startX, false
	}
	return anchor, startX, endX, true
}

// ExtremeTarget picks the target bounding the take-profit zone: the highest for a
// bullish bias, the lowest for bearish, otherwise the one furthest from the entry.
// The search starts from the entry, or from the first target when there is none.
func ExtremeTarget(spec *model.PredictionSpec) (float64, bool) {
	if len(spec.Targets) == 0 {
		return 0, false
	}
	ref := spec.Targets[0].Value
	if spec.Entry != nil {
		ref = *spec.Entry
	}
	extreme := ref
	for _, tg := range spec.Targets {
		switch spec.Bias {
		case model.BiasBullish:
			extreme = math.Max(extreme, tg.Value)
		case model.BiasBearish:
			extreme = math.Min(extreme, tg.Value)
		default:
			if math.Abs(tg.Value-ref) > math.Abs(extreme-ref) {
				extreme = tg.Value
			}
		}
	}
	return extreme, true
}

// Build lays out the overlay. It reports false when there is nothing to draw.
func Build(in Input) (Geometry, bool) {
	spec := in.Spec
	if !Active(spec) {
		return Geometry{}, false
	}
	anchor, startX, endX, ok := Extent(spec, in.Series, in.Transform, in.MinExtension)
	if !ok {
		return Geometry{}, false
	}
	y := in.Main.YFromValue
	g := Geometry{
		AnchorIndex: anchor,
		StartX:      startX,
		EndX:        endX,
		ClipX:       startX + (endX-startX)*viewport.Clamp(in.Progress, 0, 1),
	}

	if spec.Entry != nil {
		entryY := y(*spec.Entry)
		if spec.StopLoss != nil {
			g.StopZone = newZone(model.ElementStopLoss, startX, endX, entryY, y(*spec.StopLoss))
		}
		if extreme, ok := ExtremeTarget(spec); ok {
			g.Extreme = extreme
			g.TargetZone = newZone(model.ElementTarget, startX, endX, entryY, y(extreme))
		}
		g.Lines = append(g.Lines, Line{
			Kind:        model.ElementEntry,
			TargetIndex: -1,
			Price:       *spec.Entry,
			Y:           entryY,
			Segment:     Segment{startX, entryY, endX, entryY},
			Selected:    in.Selected.Kind == model.ElementEntry,
		})
	}
	if spec.StopLoss != nil {
		slY := y(*spec.StopLoss)
		g.Lines = append(g.Lines, Line{
			Kind:        model.ElementStopLoss,
			TargetIndex: -1,
			Price:       *spec.StopLoss,
			Y:           slY,
			Segment:     Segment{startX, slY, endX, slY},
			Selected:    in.Selected.Kind == model.ElementStopLoss,
		})
	}
	for i, tg := range spec.Targets {
		tpY := y(tg.Value)
		fromY := tpY
		if spec.Entry != nil {
			fromY = y(*spec.Entry)
		}
		g.Lines = append(g.Lines, Line{
			Kind:        model.ElementTarget,
			TargetIndex: i,
			Price:       tg.Value,
			Y:           tpY,
			Segment:     Segment{startX, fromY, endX, tpY},
			Selected:    in.Selected.Kind == model.ElementTarget && in.Selected.TargetIndex == i,
		})
	}

	for _, b := range spec.Bands {
		top, bottom := y(b.Top), y(b.Bottom)
		g.Bands = append(g.Bands, BandRect{
			Left:       in.Transform.ItemCenterViewX(anchor + b.FromOffset),
			Right:      in.Transform.ItemCenterViewX(anchor + b.ToOffset),
			Top:        math.Min(top, bottom),
			Bottom:     math.Max(top, bottom),
			Confidence: b.Confidence,
		})
	}
	for _, p := range spec.Points {
		g.MeanLine = append(g.MeanLine, Vertex{
			X: in.Transform.ItemCenterViewX(anchor + p.Offset),
			Y: y(p.Price),
		})
	}

	if spec.Bias != model.BiasNone {
		text := "SHORT"
		if spec.Bias == model.BiasBullish {
			text = "LONG"
		}
		g.Bias = &Label{Text: text, X: startX + 10, Y: in.Main.Top + 20, Bias: spec.Bias}
	}
	return g, true
}

func newZone(kind model.ElementKind, left, right, entryY, levelY float64) *Zone {
	return &Zone{
		Kind:       kind,
		Left:       left,
		Right:      right,
		Top:        math.Min(entryY, levelY),
		Bottom:     math.Max(entryY, levelY),
		EntryY:     entryY,
		LevelY:     levelY,
		EntryAlpha: ZoneEntryAlpha,
		LevelAlpha: ZoneLevelAlpha,
	}
}
