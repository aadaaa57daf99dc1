package notifier

import (
	"fmt"
	"sort"
	"strings"

	"KLineCore/internal/chart"
	"KLineCore/internal/formatter"
	"KLineCore/internal/model"
	"KLineCore/internal/series"
)

// ReportFormatters label the values in a frame report.
type ReportFormatters struct {
	Price  formatter.Formatter
	Volume formatter.Formatter
}

// FormatFrameReport renders a frame as plain text for terminals and logs.
func FormatFrameReport(f chart.Frame, r series.Reader, fm ReportFormatters) string {
	var b strings.Builder
	if f.Empty {
		b.WriteString("(no candles)\n")
		return b.String()
	}
	price, volume := fm.Price, fm.Volume
	if price == nil {
		price = formatter.PriceFormatter{}
	}
	if volume == nil {
		volume = formatter.NewCompactFormatter()
	}

	vis := f.Ranges.Visible
	b.WriteString(fmt.Sprintf("visible: %d..%d of %d (scroll %.1f, scale %.2f)\n",
		vis.Start, vis.Stop, r.Len(), f.Transform.ScrollOffset, f.Transform.Scale))
	b.WriteString(fmt.Sprintf("main   [%s, %s] rows %.0f-%.0f\n",
		price.Format(f.Main.MinValue), price.Format(f.Main.MaxValue), f.Main.Top, f.Main.Bottom))
	b.WriteString(fmt.Sprintf("volume [%s, %s] rows %.0f-%.0f\n",
		volume.Format(f.Volume.MinValue), volume.Format(f.Volume.MaxValue), f.Volume.Top, f.Volume.Bottom))
	if !f.Aux.Hidden() {
		aux := formatter.StandardFormatter{}
		b.WriteString(fmt.Sprintf("aux    [%s, %s] rows %.0f-%.0f\n",
			aux.Format(f.Aux.MinValue), aux.Format(f.Aux.MaxValue), f.Aux.Top, f.Aux.Bottom))
	}
	b.WriteString(fmt.Sprintf("high %s @%d, low %s @%d\n",
		price.Format(f.Ranges.MainHigh), f.Ranges.MainMaxIndex,
		price.Format(f.Ranges.MainLow), f.Ranges.MainMinIndex))

	if i := f.DisplayIndex; i >= 0 && i < r.Len() {
		b.WriteString(formatLegend(i, r.At(i), price, volume))
	}

	labels := make([]string, 0, len(f.Grid.Ticks))
	for _, t := range f.Grid.Ticks {
		labels = append(labels, t.Label)
	}
	b.WriteString(fmt.Sprintf("grid: every %d candles, %d columns; ticks %s\n",
		f.Grid.Step, len(f.Grid.Vertical), strings.Join(labels, " ")))

	if g := f.Prediction; g != nil {
		b.WriteString(fmt.Sprintf("prediction from #%d, x %.1f-%.1f (revealed to %.1f)\n",
			g.AnchorIndex, g.StartX, g.EndX, g.ClipX))
		if g.Bias != nil {
			b.WriteString(fmt.Sprintf("  bias %s\n", g.Bias.Text))
		}
		for _, l := range g.Lines {
			mark := " "
			if l.Selected {
				mark = "*"
			}
			name := string(l.Kind)
			if l.Kind == model.ElementTarget {
				name = fmt.Sprintf("tp%d", l.TargetIndex+1)
			}
			b.WriteString(fmt.Sprintf(" %s%-4s %s y=%.1f\n", mark, name, price.Format(l.Price), l.Y))
		}
		if len(g.Bands) > 0 || len(g.MeanLine) > 0 {
			b.WriteString(fmt.Sprintf("  %d bands, %d mean points\n", len(g.Bands), len(g.MeanLine)))
		}
	}
	return b.String()
}

func formatLegend(i int, c model.Candle, price, volume formatter.Formatter) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("#%d %s O %s H %s L %s C %s V %s\n", i, c.DateLabel,
		price.Format(c.Open), price.Format(c.High), price.Format(c.Low), price.Format(c.Close),
		volume.Format(c.Volume)))
	if len(c.Indicators.MA) > 0 {
		parts := make([]string, len(c.Indicators.MA))
		for j, v := range c.Indicators.MA {
			parts[j] = price.Format(v)
		}
		b.WriteString(fmt.Sprintf("  MA %s\n", strings.Join(parts, " / ")))
	}
	return b.String()
}

// FormatPayload renders a selection payload as sorted key=value pairs.
func FormatPayload(p map[string]any) string {
	keys := make([]string, 0, len(p))
	for k := range p {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%s=%v", k, p[k])
	}
	return strings.Join(parts, " ")
}
