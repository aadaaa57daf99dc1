package model

// Bias is the directional view attached to a prediction.
type Bias string

const (
	BiasNone    Bias = ""
	BiasBullish Bias = "bullish"
	BiasBearish Bias = "bearish"
)

// Metadata carries descriptive fields supplied with a prediction level.
type Metadata map[string]any

// Target is a single take-profit level.
type Target struct {
	Value    float64  `json:"value"`
	Metadata Metadata `json:"metadata,omitempty"`
}

// Band is one slice of the confidence cone, positioned in candle offsets from the anchor.
type Band struct {
	FromOffset int      `json:"fromOffset"`
	ToOffset   int      `json:"toOffset"`
	Top        float64  `json:"top"`
	Bottom     float64  `json:"bottom"`
	Confidence *float64 `json:"confidence,omitempty"`
}

// Point is a vertex of the mean prediction line.
type Point struct {
	Offset int     `json:"offset"`
	Price  float64 `json:"price"`
}

// PredictionSpec describes the overlay drawn over the main panel.
type PredictionSpec struct {
	Entry           *float64   `json:"entry,omitempty"`
	StopLoss        *float64   `json:"stopLoss,omitempty"`
	Targets         []Target   `json:"targets,omitempty"`
	Bias            Bias       `json:"bias,omitempty"`
	AnchorTimestamp *int64     `json:"anchorTimestamp,omitempty"`
	EntryZones      []Metadata `json:"entryZones,omitempty"`
	Bands           []Band     `json:"bands,omitempty"`
	Points          []Point    `json:"points,omitempty"`
	IncludeInScale  *bool      `json:"includeInScale,omitempty"`
}

// InScale reports whether the prediction levels widen the main panel range. Defaults to true.
func (p *PredictionSpec) InScale() bool {
	return p.IncludeInScale == nil || *p.IncludeInScale
}

// Levels returns every price the overlay draws, in declaration order.
func (p *PredictionSpec) Levels() []float64 {
	var out []float64
	if p.Entry != nil {
		out = append(out, *p.Entry)
	}
	if p.StopLoss != nil {
		out = append(out, *p.StopLoss)
	}
	for _, t := range p.Targets {
		out = append(out, t.Value)
	}
	for _, b := range p.Bands {
		out = append(out, b.Top, b.Bottom)
	}
	for _, pt := range p.Points {
		out = append(out, pt.Price)
	}
	return out
}

// Float returns a pointer to v, for building optional prediction fields.
func Float(v float64) *float64 { return &v }

// ElementKind identifies a selectable prediction line.
type ElementKind string

const (
	ElementNone     ElementKind = ""
	ElementEntry    ElementKind = "entry"
	ElementStopLoss ElementKind = "sl"
	ElementTarget   ElementKind = "tp"
)

// PredictionElement is the currently selected prediction line.
// TargetIndex is -1 unless Kind is ElementTarget.
type PredictionElement struct {
	Kind        ElementKind
	TargetIndex int
}

// SelectionState is the crosshair and prediction selection shared with the render layer.
type SelectionState struct {
	SelectedIndex int // -1 when nothing is selected
	Prediction    PredictionElement
}

// NoSelection returns an empty SelectionState.
func NoSelection() SelectionState {
	return SelectionState{SelectedIndex: -1, Prediction: PredictionElement{TargetIndex: -1}}
}
