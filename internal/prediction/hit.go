package prediction

import (
	"math"

	"KLineCore/internal/model"
	"KLineCore/internal/viewport"
)

// DefaultHitThreshold is the pixel tolerance used when none is configured.
const DefaultHitThreshold = 60

// Hit is a resolved tap on a prediction line. The zero Hit means nothing is selected.
type Hit struct {
	Kind        model.ElementKind
	Price       float64
	TargetIndex int
	Distance    float64
	Metadata    model.Metadata
}

// Empty reports whether h carries no selection.
func (h Hit) Empty() bool {
	return h.Kind == model.ElementNone
}

// Element returns the selection state h corresponds to.
func (h Hit) Element() model.PredictionElement {
	if h.Empty() {
		return model.PredictionElement{TargetIndex: -1}
	}
	return model.PredictionElement{Kind: h.Kind, TargetIndex: h.TargetIndex}
}

// Payload flattens the hit into the record handed to selection callbacks:
// type, price, index for targets, plus every metadata field.
// The zero Hit yields an empty record.
func (h Hit) Payload() map[string]any {
	out := make(map[string]any, len(h.Metadata)+3)
	if h.Empty() {
		return out
	}
	for k, v := range h.Metadata {
		out[k] = v
	}
	out["type"] = string(h.Kind)
	out["price"] = h.Price
	if h.Kind == model.ElementTarget {
		out["index"] = h.TargetIndex
	}
	return out
}

// reserved keys are never copied from caller metadata.
var reserved = map[string]struct{}{"price": {}, "value": {}, "level": {}}

func mergeMetadata(src model.Metadata) model.Metadata {
	if len(src) == 0 {
		return nil
	}
	out := make(model.Metadata, len(src))
	for k, v := range src {
		if _, skip := reserved[k]; skip {
			continue
		}
		out[k] = v
	}
	return out
}

// HitTest resolves a tap at (x, y) against the overlay. Taps outside
// [StartX, EndX] never hit. Among lines closer than threshold the nearest wins,
// with ties going to entry, then stop-loss, then targets in order.
func HitTest(g Geometry, spec *model.PredictionSpec, main viewport.Panel, x, y, threshold float64) (Hit, bool) {
	if spec == nil || x < g.StartX || x > g.EndX {
		return Hit{}, false
	}

	var candidates []Hit
	consider := func(h Hit, level float64) {
		h.Distance = math.Abs(y - main.YFromValue(level))
		if h.Distance < threshold {
			candidates = append(candidates, h)
		}
	}

	if spec.Entry != nil {
		h := Hit{Kind: model.ElementEntry, Price: *spec.Entry, TargetIndex: -1}
		if len(spec.EntryZones) > 0 {
			h.Metadata = mergeMetadata(spec.EntryZones[0])
		}
		consider(h, *spec.Entry)
	}
	if spec.StopLoss != nil {
		consider(Hit{Kind: model.ElementStopLoss, Price: *spec.StopLoss, TargetIndex: -1}, *spec.StopLoss)
	}
	for i, tg := range spec.Targets {
		consider(Hit{
			Kind:        model.ElementTarget,
			Price:       tg.Value,
			TargetIndex: i,
			Metadata:    mergeMetadata(tg.Metadata),
		}, tg.Value)
	}

	if len(candidates) == 0 {
		return Hit{}, false
	}
	best := candidates[0]
	for _, c := range candidates[1:] {
		if c.Distance < best.Distance {
			best = c
		}
	}
	return best, true
}

// Selector holds the selected prediction element across frames and decides
// when a selection notification is due.
type Selector struct {
	selected   model.PredictionElement
	scroll     float64
	seenScroll bool
}

// NewSelector returns a Selector with nothing selected.
func NewSelector() *Selector {
	return &Selector{selected: model.PredictionElement{TargetIndex: -1}}
}

// Selected returns the current element.
func (s *Selector) Selected() model.PredictionElement { return s.selected }

// Tap records a hit-test result. It reports whether listeners should be told:
// always for a hit, and for a miss only when it clears an existing selection.
func (s *Selector) Tap(h Hit, ok bool) bool {
	if ok {
		s.selected = h.Element()
		return true
	}
	return s.Clear()
}

// Clear drops the selection and reports whether there was one.
func (s *Selector) Clear() bool {
	if s.selected.Kind == model.ElementNone {
		return false
	}
	s.selected = model.PredictionElement{TargetIndex: -1}
	return true
}

// ObserveScroll clears the selection when the scroll offset moved since the last call.
// It reports whether a selection was cleared.
func (s *Selector) ObserveScroll(offset float64) bool {
	moved := s.seenScroll && offset != s.scroll
	s.scroll = offset
	s.seenScroll = true
	if !moved {
		return false
	}
	return s.Clear()
}
