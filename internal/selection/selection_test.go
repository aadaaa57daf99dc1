package selection

import (
	"testing"

	"KLineCore/internal/model"
	"KLineCore/internal/viewport"
)

func frame(n int, scroll float64) (viewport.Transform, model.VisibleRange) {
	t := viewport.Transform{
		Viewport:  viewport.Viewport{ScrollOffset: scroll, Scale: 1, WidthPx: 100},
		ItemWidth: 10,
		ItemCount: n,
	}
	start := t.IndexAtViewX(0)
	stop := t.IndexAtViewX(t.WidthPx)
	return t, model.VisibleRange{Start: start, Stop: stop}
}

func TestEngine_PressMoveRelease(t *testing.T) {
	e := NewEngine()
	tr, vis := frame(50, 0)

	if e.State() != Idle || e.Index() != -1 {
		t.Fatalf("expected idle with no selection, got %v/%d", e.State(), e.Index())
	}
	if !e.Press(tr, vis, 35) {
		t.Fatal("press should report a change")
	}
	if e.State() != Selecting || e.Index() != 3 {
		t.Fatalf("expected selecting index 3, got %v/%d", e.State(), e.Index())
	}
	if e.Move(tr, vis, 38) {
		t.Error("move within the same candle should not report a change")
	}
	if !e.Move(tr, vis, 71) || e.Index() != 7 {
		t.Errorf("expected move to index 7, got %d", e.Index())
	}

	e.Release()
	if e.State() != Idle || e.Index() != 7 {
		t.Errorf("release should keep index 7, got %v/%d", e.State(), e.Index())
	}
	if e.Move(tr, vis, 5) {
		t.Error("move while idle should be ignored")
	}

	e.Clear()
	if e.Index() != -1 {
		t.Errorf("expected cleared selection, got %d", e.Index())
	}
}

func TestEngine_ClampsToVisibleRange(t *testing.T) {
	e := NewEngine()
	tr, vis := frame(50, 200)
	e.Press(tr, vis, -500)
	if e.Index() != vis.Start {
		t.Errorf("expected clamp to start %d, got %d", vis.Start, e.Index())
	}
	e.Move(tr, vis, 5000)
	if e.Index() != vis.Stop {
		t.Errorf("expected clamp to stop %d, got %d", vis.Stop, e.Index())
	}
}

func TestEngine_ReconcileReclampsAndDrops(t *testing.T) {
	e := NewEngine()
	tr, vis := frame(50, 0)
	e.Press(tr, vis, 95)
	if e.Index() != 9 {
		t.Fatalf("expected 9, got %d", e.Index())
	}

	if !e.Reconcile(model.VisibleRange{Start: 0, Stop: 5}, 50) || e.Index() != 5 {
		t.Errorf("expected re-clamp to 5, got %d", e.Index())
	}
	if !e.Reconcile(model.VisibleRange{Start: 0, Stop: 2}, 50) || e.Index() != 2 {
		t.Errorf("expected re-clamp to 2, got %d", e.Index())
	}
	if e.Reconcile(model.VisibleRange{Start: 0, Stop: 2}, 50) {
		t.Error("unchanged frame should not report a change")
	}
	if !e.Reconcile(model.VisibleRange{Start: 0, Stop: 1}, 2) {
		t.Fatal("expected change")
	}
	if e.Index() != 1 || e.State() != Selecting {
		t.Errorf("expected 1 while selecting, got %v/%d", e.State(), e.Index())
	}
	if !e.Reconcile(model.VisibleRange{Start: 0, Stop: 0}, 1) || e.Index() != -1 || e.State() != Idle {
		t.Errorf("selection past the end should be dropped, got %v/%d", e.State(), e.Index())
	}
}

func TestEngine_EmptySeriesIgnoresPress(t *testing.T) {
	e := NewEngine()
	tr, vis := frame(0, 0)
	if e.Press(tr, vis, 10) {
		t.Error("press on an empty series should not select")
	}
	if e.Index() != -1 {
		t.Errorf("expected no selection, got %d", e.Index())
	}
}

func TestEngine_DisplayIndex(t *testing.T) {
	e := NewEngine()
	vis := model.VisibleRange{Start: 3, Stop: 12}
	if got := e.DisplayIndex(vis); got != 12 {
		t.Errorf("expected stop 12 without selection, got %d", got)
	}
	tr, v := frame(50, 0)
	e.Press(tr, v, 45)
	if got := e.DisplayIndex(vis); got != 4 {
		t.Errorf("expected selected 4, got %d", got)
	}
}
