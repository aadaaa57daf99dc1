package viewport

// Viewport is the pan/zoom state supplied by the gesture layer each frame.
// ScrollOffset is measured in data-space units (index * item width), not pixels.
type Viewport struct {
	ScrollOffset float64
	Scale        float64
	WidthPx      float64
	HeightPx     float64
}

// Transform maps between data indices, data-space x and on-screen pixels for one frame.
// It holds no state beyond its fields, so every method is a pure function of them.
type Transform struct {
	Viewport

	ItemWidth          float64
	ItemCount          int
	PaddingRight       float64
	RightOffsetCandles float64
}

// IndexFromScrollX returns floor(x / itemWidth) clamped to [0, n-1]. An empty series yields 0.
func (t Transform) IndexFromScrollX(x float64) int {
	if t.ItemCount == 0 || t.ItemWidth <= 0 {
		return 0
	}
	return Clamp(floorIndex(x/t.ItemWidth), 0, t.ItemCount-1)
}

// ViewXToDataX converts a pixel column to data space.
func (t Transform) ViewXToDataX(px float64) float64 {
	return t.ScrollOffset + px/t.Scale
}

// DataXToViewX converts a data-space x to a pixel column.
func (t Transform) DataXToViewX(x float64) float64 {
	return (x - t.ScrollOffset) * t.Scale
}

// ItemCenterDataX returns the data-space x of the middle of item i.
func (t Transform) ItemCenterDataX(i int) float64 {
	return float64(i)*t.ItemWidth + t.ItemWidth/2
}

// ItemCenterViewX returns the pixel column of the middle of item i.
func (t Transform) ItemCenterViewX(i int) float64 {
	return t.DataXToViewX(t.ItemCenterDataX(i))
}

// ItemWidthPx is the on-screen width of one item at the current scale.
func (t Transform) ItemWidthPx() float64 {
	return t.ItemWidth * t.Scale
}

// DataWidth is the data-space width of the whole series.
func (t Transform) DataWidth() float64 {
	return float64(t.ItemCount) * t.ItemWidth
}

// IndexAtViewX resolves a pixel column to a clamped item index.
func (t Transform) IndexAtViewX(px float64) int {
	return t.IndexFromScrollX(t.ViewXToDataX(px))
}

// MinScrollOffset is the smallest scroll offset the gesture layer should allow.
func (t Transform) MinScrollOffset() float64 {
	return 0
}

// MaxScrollOffset is the largest scroll offset that still keeps the right offset
// gap visible past the last candle.
func (t Transform) MaxScrollOffset() float64 {
	offsetWidth := t.RightOffsetCandles * t.ItemWidth
	return max(0, (t.DataWidth()+offsetWidth)-(t.WidthPx-t.PaddingRight)/t.Scale)
}

// ClampScroll limits offset to the scroll bounds. The core never applies it itself.
func (t Transform) ClampScroll(offset float64) float64 {
	return Clamp(offset, t.MinScrollOffset(), t.MaxScrollOffset())
}
