package viewport

import "KLineCore/internal/model"

// Rect is a horizontal band of the chart in pixel rows.
type Rect struct {
	Top    float64
	Bottom float64
}

// Height returns the band height, never negative.
func (r Rect) Height() float64 {
	return max(0, r.Bottom-r.Top)
}

// Panel is a laid out chart region together with the value range computed for the current frame.
// The zero value is a valid flat panel at row 0.
type Panel struct {
	Kind model.PanelKind
	Rect

	MinValue float64
	MaxValue float64
	ScaleY   float64
}

// NewPanel creates a panel of the given kind covering r with an empty range.
func NewPanel(kind model.PanelKind, r Rect) Panel {
	return Panel{Kind: kind, Rect: r}
}

// WithRange returns a copy of p scaled for [lo, hi]. ScaleY is 0 for a flat range.
func (p Panel) WithRange(lo, hi float64) Panel {
	p.MinValue = lo
	p.MaxValue = hi
	p.ScaleY = 0
	if hi != lo {
		p.ScaleY = p.Height() / (hi - lo)
	}
	return p
}

// Flat reports whether the panel range has collapsed to a single value.
func (p Panel) Flat() bool {
	return p.MaxValue == p.MinValue
}

// Hidden reports whether the panel has no rows to draw into.
func (p Panel) Hidden() bool {
	return p.Height() == 0
}

// MidY is the vertical middle of the panel.
func (p Panel) MidY() float64 {
	return p.Top + p.Height()/2
}

// YFromValue maps a value to a pixel row. A flat panel maps every value to its midpoint.
func (p Panel) YFromValue(v float64) float64 {
	if p.Flat() {
		return p.MidY()
	}
	return (p.MaxValue-v)*p.ScaleY + p.Top
}

// ValueFromY maps a pixel row back to a value. A flat panel returns MinValue.
func (p Panel) ValueFromY(y float64) float64 {
	if p.Flat() || p.ScaleY == 0 {
		return p.MinValue
	}
	return p.MaxValue - (y-p.Top)/p.ScaleY
}
