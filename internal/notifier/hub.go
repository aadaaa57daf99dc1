package notifier

import (
	"fmt"
	"io"
	"log/slog"

	"KLineCore/internal/chart"
	"KLineCore/internal/formatter"
	"KLineCore/internal/model"
	"KLineCore/internal/prediction"
	"KLineCore/internal/recorder"
	"KLineCore/internal/series"
)

// Hub is the chart listener the CLI registers. It logs and records every
// notification, then fans it out to subscribers in registration order.
type Hub struct {
	Recorder    recorder.Recorder
	subscribers []chart.Listener
}

// NewHub creates a Hub. A nil recorder records nothing.
func NewHub(rec recorder.Recorder) *Hub {
	if rec == nil {
		rec = recorder.NewNoopRecorder()
	}
	return &Hub{Recorder: rec}
}

// Subscribe adds a downstream listener.
func (h *Hub) Subscribe(l chart.Listener) {
	h.subscribers = append(h.subscribers, l)
}

func (h *Hub) OnSelectionChanged(index int, c model.Candle) {
	slog.Debug("selection changed", "index", index, "id", c.ID, "close", c.Close)
	if err := h.Recorder.RecordSelection(&recorder.SelectionEvent{
		Index: index, CandleID: c.ID, Close: c.Close,
	}); err != nil {
		slog.Error("record selection", "error", err)
	}
	for _, l := range h.subscribers {
		l.OnSelectionChanged(index, c)
	}
}

func (h *Hub) OnPredictionSelected(hit prediction.Hit) {
	if hit.Empty() {
		slog.Debug("prediction selection cleared")
	} else {
		slog.Debug("prediction selected", "type", hit.Kind, "price", hit.Price, "index", hit.TargetIndex)
	}
	if err := h.Recorder.RecordPredictionTap(&recorder.PredictionTapEvent{
		Kind:        string(hit.Kind),
		Price:       hit.Price,
		TargetIndex: hit.TargetIndex,
		Metadata:    hit.Metadata,
	}); err != nil {
		slog.Error("record prediction tap", "error", err)
	}
	for _, l := range h.subscribers {
		l.OnPredictionSelected(hit)
	}
}

// OnMutation records a live-feed mutation after it has been applied.
func (h *Hub) OnMutation(m series.Mutation, seriesLen int) {
	evt := &recorder.FeedEvent{Kind: m.Kind.String(), Count: len(m.Candles), SeriesLen: seriesLen}
	if n := len(m.Candles); n > 0 {
		evt.LastID = m.Candles[n-1].ID
	}
	slog.Info("series updated", "kind", evt.Kind, "candles", evt.Count, "len", seriesLen)
	if err := h.Recorder.RecordFeed(evt); err != nil {
		slog.Error("record feed event", "error", err)
	}
}

// WriterListener prints notifications as single lines.
type WriterListener struct {
	W     io.Writer
	Price formatter.Formatter
}

func (w WriterListener) OnSelectionChanged(index int, c model.Candle) {
	fmt.Fprintf(w.W, "select #%d %s close=%s\n", index, c.DateLabel, w.price(c.Close))
}

func (w WriterListener) OnPredictionSelected(hit prediction.Hit) {
	if hit.Empty() {
		fmt.Fprintln(w.W, "prediction cleared")
		return
	}
	fmt.Fprintf(w.W, "prediction %s\n", FormatPayload(hit.Payload()))
}

func (w WriterListener) price(v float64) string {
	if w.Price == nil {
		return fmt.Sprint(v)
	}
	return w.Price.Format(v)
}
