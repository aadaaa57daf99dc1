// Package selection tracks the crosshair index driven by press-and-hold input.
package selection

import (
	"KLineCore/internal/model"
	"KLineCore/internal/viewport"
)

// State is the crosshair state machine position.
type State int

const (
	Idle State = iota
	Selecting
)

func (s State) String() string {
	if s == Selecting {
		return "selecting"
	}
	return "idle"
}

// Engine resolves pointer columns to candle indices. It holds only the current
// state and index; every resolution reads the frame passed in.
type Engine struct {
	state State
	index int
}

// NewEngine returns an idle engine with nothing selected.
func NewEngine() *Engine {
	return &Engine{index: -1}
}

// State returns the current state.
func (e *Engine) State() State { return e.state }

// Index returns the selected index, or -1.
func (e *Engine) Index() int { return e.index }

// Resolve maps a pointer column to an index clamped into the visible range.
func Resolve(t viewport.Transform, vis model.VisibleRange, px float64) int {
	return viewport.Clamp(t.IndexAtViewX(px), vis.Start, vis.Stop)
}

// Press starts a selection at px. It reports whether the selected index changed.
func (e *Engine) Press(t viewport.Transform, vis model.VisibleRange, px float64) bool {
	if t.ItemCount == 0 {
		return false
	}
	e.state = Selecting
	return e.set(Resolve(t, vis, px))
}

// Move follows the pointer while selecting. It is ignored when idle.
func (e *Engine) Move(t viewport.Transform, vis model.VisibleRange, px float64) bool {
	if e.state != Selecting || t.ItemCount == 0 {
		return false
	}
	return e.set(Resolve(t, vis, px))
}

// Release ends the gesture. The index stays until Clear so the last crosshair remains visible.
func (e *Engine) Release() {
	e.state = Idle
}

// Clear drops the selection entirely.
func (e *Engine) Clear() {
	e.state = Idle
	e.index = -1
}

// Reconcile fits the selection to a new frame. A selection past the end of the
// series is dropped; otherwise it is re-clamped into the visible range.
// It reports whether the index changed.
func (e *Engine) Reconcile(vis model.VisibleRange, itemCount int) bool {
	if e.index < 0 {
		return false
	}
	if e.index >= itemCount {
		e.Clear()
		return true
	}
	return e.set(viewport.Clamp(e.index, vis.Start, vis.Stop))
}

// DisplayIndex is the candle whose values the legend shows: the selection when
// there is one, otherwise the last visible candle.
func (e *Engine) DisplayIndex(vis model.VisibleRange) int {
	if e.index >= 0 {
		return e.index
	}
	return vis.Stop
}

func (e *Engine) set(i int) bool {
	if i == e.index {
		return false
	}
	e.index = i
	return true
}
