// Package chart runs one frame of the geometry pipeline: range, transform, grid,
// prediction overlay and selection. It owns the selection notifications.
package chart

import (
	"fmt"

	"KLineCore/internal/calculator"
	"KLineCore/internal/grid"
	"KLineCore/internal/layout"
	"KLineCore/internal/model"
	"KLineCore/internal/prediction"
	"KLineCore/internal/selection"
	"KLineCore/internal/series"
	"KLineCore/internal/viewport"
)

// Listener receives selection notifications. OnPredictionSelected gets the zero Hit on clear.
type Listener interface {
	OnSelectionChanged(index int, c model.Candle)
	OnPredictionSelected(h prediction.Hit)
}

// Frame is the read-only render context produced by one pass.
type Frame struct {
	Empty     bool
	Transform viewport.Transform
	Ranges    calculator.Ranges

	Main   viewport.Panel
	Volume viewport.Panel
	Aux    viewport.Panel

	Grid       grid.Plan
	Prediction *prediction.Geometry

	Selection    model.SelectionState
	DisplayIndex int
}

// Engine holds the inputs that persist between frames and recomputes everything
// else from scratch on each Render. It is not safe for concurrent use: mutations
// must reach it through Apply on the render loop.
type Engine struct {
	opts  Options
	store *series.Store

	vp       viewport.Viewport
	layout   layout.Layout
	laidOutH float64

	spec       *model.PredictionSpec
	specReveal float64
	reveal     calculator.Reveal

	selection *selection.Engine
	predSel   *prediction.Selector
	listeners []Listener

	frame Frame
}

// NewEngine computes indicators for the store and lays out a zero-height chart.
func NewEngine(store *series.Store, opts Options) (*Engine, error) {
	if opts.ItemWidth <= 0 {
		return nil, fmt.Errorf("item width must be positive, got %v", opts.ItemWidth)
	}
	e := &Engine{
		opts:       opts,
		store:      store,
		specReveal: 1,
		selection:  selection.NewEngine(),
		predSel:    prediction.NewSelector(),
		vp:         viewport.Viewport{Scale: 1},
		frame:      Frame{Empty: true, Selection: model.NoSelection(), DisplayIndex: -1},
	}
	if err := calculator.ComputeIndicators(store.Candles(), opts.Indicators); err != nil {
		return nil, fmt.Errorf("compute indicators: %w", err)
	}
	e.relayout()
	return e, nil
}

// AddListener registers l for selection notifications.
func (e *Engine) AddListener(l Listener) {
	e.listeners = append(e.listeners, l)
}

// Store returns the series the engine renders.
func (e *Engine) Store() *series.Store { return e.store }

// Options returns the engine configuration.
func (e *Engine) Options() Options { return e.opts }

// SetViewport records the gesture layer's pan/zoom state for the next frame.
func (e *Engine) SetViewport(v viewport.Viewport) {
	if v.Scale <= 0 {
		v.Scale = 1
	}
	e.vp = v
	if v.HeightPx != e.laidOutH {
		e.relayout()
	}
}

// Viewport returns the current pan/zoom state.
func (e *Engine) Viewport() viewport.Viewport { return e.vp }

// SetIndicators switches the main overlay and auxiliary oscillator.
func (e *Engine) SetIndicators(main model.MainIndicator, aux model.AuxIndicator) {
	showChanged := (aux == model.AuxNone) != (e.opts.AuxIndicator == model.AuxNone)
	e.opts.MainIndicator = main
	e.opts.AuxIndicator = aux
	if showChanged {
		e.relayout()
	}
}

// SetPrediction replaces the overlay. Any prediction selection is dropped and listeners are told.
func (e *Engine) SetPrediction(spec *model.PredictionSpec) {
	e.spec = spec
	if e.predSel.Clear() {
		e.notifyPrediction(prediction.Hit{})
	}
}

// Prediction returns the active overlay, or nil.
func (e *Engine) Prediction() *model.PredictionSpec { return e.spec }

// SetPredictionProgress sets the overlay reveal position in [0, 1].
func (e *Engine) SetPredictionProgress(p float64) { e.specReveal = p }

// SetReveal sets the range-reveal animation state for the next frame.
func (e *Engine) SetReveal(r calculator.Reveal) { e.reveal = r }

// Apply merges a store mutation and refreshes indicators. Call Render afterwards.
func (e *Engine) Apply(m series.Mutation) error {
	if err := e.store.Apply(m); err != nil {
		return fmt.Errorf("apply %s: %w", m.Kind, err)
	}
	if err := calculator.ComputeIndicators(e.store.Candles(), e.opts.Indicators); err != nil {
		return fmt.Errorf("compute indicators: %w", err)
	}
	return nil
}

// Transform returns the coordinate transform for the current inputs.
func (e *Engine) Transform() viewport.Transform {
	return viewport.Transform{
		Viewport:           e.vp,
		ItemWidth:          e.opts.ItemWidth,
		ItemCount:          e.store.Len(),
		PaddingRight:       e.opts.PaddingRight,
		RightOffsetCandles: e.opts.RightOffsetCandles,
	}
}

// Frame returns the most recently rendered frame.
func (e *Engine) Frame() Frame { return e.frame }

// Render runs one full pass and returns the frame.
func (e *Engine) Render() Frame {
	if e.predSel.ObserveScroll(e.vp.ScrollOffset) {
		e.notifyPrediction(prediction.Hit{})
	}

	t := e.Transform()
	r := calculator.CalculateRange(calculator.RangeInput{
		Transform:    t,
		Series:       e.store,
		Main:         calculator.MainProvider{Indicator: e.opts.MainIndicator},
		Volume:       calculator.VolumeProvider{},
		Aux:          calculator.AuxProvider(e.opts.AuxIndicator),
		AuxIndicator: e.opts.AuxIndicator,
		Prediction:   e.spec,
		Reveal:       e.reveal,
	})

	f := Frame{
		Empty:     r.Empty,
		Transform: t,
		Ranges:    r,
		Main:      e.layout.Main.WithRange(r.Main.Min, r.Main.Max),
		Volume:    e.layout.Volume.WithRange(r.Volume.Min, r.Volume.Max),
		Aux:       e.layout.Aux.WithRange(r.Aux.Min, r.Aux.Max),
	}

	e.selection.Reconcile(r.Visible, t.ItemCount)
	f.Selection = model.SelectionState{
		SelectedIndex: e.selection.Index(),
		Prediction:    e.predSel.Selected(),
	}
	f.DisplayIndex = e.selection.DisplayIndex(r.Visible)

	if !r.Empty {
		f.Grid = grid.Build(grid.Input{
			Transform:    t,
			Visible:      r.Visible,
			Main:         f.Main,
			Volume:       f.Volume,
			Aux:          f.Aux,
			MinSpacingPx: e.opts.MinGridSpacingPx,
			TickCount:    e.opts.PriceTickCount,
			Formatter:    e.opts.PriceFormatter,
		})
		if g, ok := prediction.Build(prediction.Input{
			Spec:         e.spec,
			Series:       e.store,
			Transform:    t,
			Main:         f.Main,
			MinExtension: e.opts.MinOverlayExtension,
			Progress:     e.specReveal,
			Selected:     f.Selection.Prediction,
		}); ok {
			f.Prediction = &g
		}
	}

	e.frame = f
	return f
}

// LongPress starts a crosshair selection at pixel column x of the last frame.
func (e *Engine) LongPress(x float64) {
	if e.frame.Empty {
		return
	}
	if e.selection.Press(e.frame.Transform, e.frame.Ranges.Visible, x) {
		e.notifySelection()
	}
}

// PointerMove drags an active crosshair selection.
func (e *Engine) PointerMove(x float64) {
	if e.frame.Empty {
		return
	}
	if e.selection.Move(e.frame.Transform, e.frame.Ranges.Visible, x) {
		e.notifySelection()
	}
}

// Release ends the press-and-hold gesture, keeping the last index.
func (e *Engine) Release() {
	e.selection.Release()
}

// ClearSelection removes the crosshair.
func (e *Engine) ClearSelection() {
	e.selection.Clear()
}

// Tap resolves a tap against the prediction overlay of the last frame.
func (e *Engine) Tap(x, y float64) (prediction.Hit, bool) {
	var (
		h  prediction.Hit
		ok bool
	)
	if g := e.frame.Prediction; g != nil {
		h, ok = prediction.HitTest(*g, e.spec, e.frame.Main, x, y, e.opts.HitThreshold)
	}
	if e.predSel.Tap(h, ok) {
		e.notifyPrediction(h)
	}
	return h, ok
}

func (e *Engine) relayout() {
	e.layout = layout.Compute(e.opts.Layout, e.vp.HeightPx, e.opts.AuxIndicator != model.AuxNone)
	e.laidOutH = e.vp.HeightPx
}

func (e *Engine) notifySelection() {
	i := e.selection.Index()
	if i < 0 || i >= e.store.Len() {
		return
	}
	c := e.store.At(i)
	for _, l := range e.listeners {
		l.OnSelectionChanged(i, c)
	}
}

func (e *Engine) notifyPrediction(h prediction.Hit) {
	for _, l := range e.listeners {
		l.OnPredictionSelected(h)
	}
}
