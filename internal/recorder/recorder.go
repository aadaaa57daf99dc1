package recorder

// SelectionEvent is a crosshair move onto a candle.
type SelectionEvent struct {
	Index    int
	CandleID int64
	Close    float64
}

// PredictionTapEvent is a prediction line selected or cleared. Kind is empty on clear.
type PredictionTapEvent struct {
	Kind        string // "entry", "sl", "tp" or ""
	Price       float64
	TargetIndex int
	Metadata    map[string]any
}

// FeedEvent is a live-feed mutation applied to the series.
type FeedEvent struct {
	Kind      string // "append", "replace_last" or "replace"
	Count     int
	LastID    int64
	SeriesLen int
}

// Recorder persists chart interaction history for later analysis.
type Recorder interface {
	RecordSelection(evt *SelectionEvent) error
	RecordPredictionTap(evt *PredictionTapEvent) error
	RecordFeed(evt *FeedEvent) error
	Close() error
}
