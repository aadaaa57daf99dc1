// Package grid places time-axis gridlines, price ticks and panel separators.
package grid

import (
	"math"

	"KLineCore/internal/formatter"
	"KLineCore/internal/model"
	"KLineCore/internal/viewport"
)

var niceBases = [...]int{1, 2, 3, 5}

// NiceCandleStep returns the smallest step from {1,2,3,5}x10^i whose on-screen
// width reaches minSpacingPx. A non-positive item width yields 1.
func NiceCandleStep(itemWidthPx, minSpacingPx float64) int {
	if itemWidthPx <= 0 {
		return 1
	}
	raw := int(math.Ceil(minSpacingPx / itemWidthPx))
	if raw < 1 {
		raw = 1
	}

	mag := 1
	r := raw
	for r > 5 {
		r = (r + 9) / 10
		mag *= 10
	}
	for _, b := range niceBases {
		if b >= r {
			return b * mag
		}
	}
	return 5 * mag
}

// VerticalLine is a time-axis gridline through the center of candle Index.
type VerticalLine struct {
	Index  int
	X      float64
	Top    float64
	Bottom float64
}

// VerticalLines anchors lines on absolute multiples of step so they keep their
// phase while scrolling.
func VerticalLines(t viewport.Transform, vis model.VisibleRange, step int, top, bottom float64) []VerticalLine {
	if step < 1 {
		step = 1
	}
	first := (vis.Start / step) * step
	var lines []VerticalLine
	for i := first; i <= vis.Stop; i += step {
		lines = append(lines, VerticalLine{
			Index:  i,
			X:      t.ItemCenterViewX(i),
			Top:    top,
			Bottom: bottom,
		})
	}
	return lines
}

// PriceTick is one shared price level used by both the horizontal gridline and the right-edge label.
type PriceTick struct {
	Value float64
	Y     float64
	Label string
}

// PriceTicks spreads count levels evenly over [MinValue, MaxValue] inclusive.
// It returns nil for a flat panel or count below 2. A nil formatter leaves labels empty.
func PriceTicks(main viewport.Panel, count int, f formatter.Formatter) []PriceTick {
	span := main.MaxValue - main.MinValue
	if span <= 0 || count < 2 {
		return nil
	}
	step := span / float64(count-1)
	ticks := make([]PriceTick, count)
	for i := range ticks {
		v := main.MinValue + step*float64(i)
		if i == count-1 {
			v = main.MaxValue
		}
		ticks[i] = PriceTick{Value: v, Y: main.YFromValue(v)}
		if f != nil {
			ticks[i].Label = f.Format(v)
		}
	}
	return ticks
}

// Separator is a horizontal rule drawn under a panel.
type Separator struct {
	Kind model.PanelKind
	Y    float64
}

// Separators returns a rule at the bottom of every given panel that has nonzero height.
func Separators(panels ...viewport.Panel) []Separator {
	var out []Separator
	for _, p := range panels {
		if p.Hidden() {
			continue
		}
		out = append(out, Separator{Kind: p.Kind, Y: p.Bottom})
	}
	return out
}

// Input is what one planning pass reads.
type Input struct {
	Transform    viewport.Transform
	Visible      model.VisibleRange
	Main         viewport.Panel
	Volume       viewport.Panel
	Aux          viewport.Panel
	MinSpacingPx float64
	TickCount    int
	Formatter    formatter.Formatter
}

// Plan is the full set of guides for one frame.
type Plan struct {
	Step       int
	Vertical   []VerticalLine
	Ticks      []PriceTick
	Separators []Separator
}

// Build plans every guide for the frame. Callers skip it for an empty series.
func Build(in Input) Plan {
	step := NiceCandleStep(in.Transform.ItemWidthPx(), in.MinSpacingPx)
	bottom := max(in.Volume.Bottom, in.Aux.Bottom)
	return Plan{
		Step:       step,
		Vertical:   VerticalLines(in.Transform, in.Visible, step, in.Main.Top, bottom),
		Ticks:      PriceTicks(in.Main, in.TickCount, in.Formatter),
		Separators: Separators(in.Volume, in.Aux),
	}
}
