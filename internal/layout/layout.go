// Package layout splits the chart height into the stacked main, volume and auxiliary panels.
package layout

import (
	"math"

	"KLineCore/internal/model"
	"KLineCore/internal/viewport"
)

// Params are the layout constants, all in pixels except the flex ratios.
type Params struct {
	PaddingTop    float64
	PaddingBottom float64
	ChildPadding  float64
	TextHeight    float64
	MainFlex      float64
	VolumeFlex    float64
}

// Layout holds the panel rectangles for one layout pass.
type Layout struct {
	Main   viewport.Panel
	Volume viewport.Panel
	Aux    viewport.Panel
}

// Compute lays the panels out top to bottom. The auxiliary panel gets what is left
// after the main and volume shares; when showAux is false it collapses onto the
// bottom of the volume panel.
func Compute(p Params, heightPx float64, showAux bool) Layout {
	all := heightPx - p.PaddingBottom
	mainH := math.Floor(all * p.MainFlex)
	volH := math.Floor(all * p.VolumeFlex)
	auxH := all - mainH - volH

	main := viewport.Rect{Top: p.PaddingTop - p.TextHeight, Bottom: mainH - p.TextHeight}
	vol := viewport.Rect{
		Top:    main.Bottom + p.TextHeight + p.ChildPadding,
		Bottom: main.Bottom + p.TextHeight + volH,
	}
	aux := viewport.Rect{Top: vol.Bottom + p.ChildPadding, Bottom: vol.Bottom + auxH}
	if !showAux {
		aux = viewport.Rect{Top: vol.Bottom, Bottom: vol.Bottom}
	}

	return Layout{
		Main:   viewport.NewPanel(model.PanelMain, main),
		Volume: viewport.NewPanel(model.PanelVolume, vol),
		Aux:    viewport.NewPanel(model.PanelAuxiliary, aux),
	}
}

// Bottom is the lowest row used by any panel.
func (l Layout) Bottom() float64 {
	return max(l.Volume.Bottom, l.Aux.Bottom)
}

// Panels returns the panels in drawing order.
func (l Layout) Panels() []viewport.Panel {
	return []viewport.Panel{l.Main, l.Volume, l.Aux}
}
