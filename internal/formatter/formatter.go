// Package formatter renders axis and label text. Geometry never depends on its output.
package formatter

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/ncruces/go-strftime"
	"github.com/shopspring/decimal"
)

// Formatter turns a panel value into label text.
type Formatter interface {
	Format(v float64) string
}

// DateFormatter turns a candle time into label text.
type DateFormatter interface {
	FormatTime(t time.Time) string
}

// Func adapts a plain function to Formatter.
type Func func(float64) string

func (f Func) Format(v float64) string { return f(v) }

// PriceFormatter prints prices with as many decimals as they carry, dropping trailing zeros.
// A positive Precision rounds first.
type PriceFormatter struct {
	Precision int32
}

func (p PriceFormatter) Format(v float64) string {
	d := decimal.NewFromFloat(v)
	if p.Precision > 0 {
		d = d.Round(p.Precision)
	}
	return d.String()
}

// FixedFormatter truncates to Digits decimals and pads with zeros.
type FixedFormatter struct {
	Digits int32
}

func (f FixedFormatter) Format(v float64) string {
	return decimal.NewFromFloat(v).Truncate(f.Digits).StringFixed(f.Digits)
}

// StandardFormatter groups thousands and keeps two to four decimals:
// two above 100, four at or below.
type StandardFormatter struct{}

func (StandardFormatter) Format(v float64) string {
	digits := int32(4)
	if math.Abs(v) > 100 {
		digits = 2
	}
	rounded := decimal.NewFromFloat(v).Round(digits).InexactFloat64()
	return padFraction(humanize.Commaf(rounded), 2)
}

// BigValueFormatter abbreviates large volumes with unit suffixes.
type BigValueFormatter struct {
	Thresholds []float64
	Units      []string
}

// NewChineseBigValueFormatter uses the 万 / 百万 / 亿 units.
func NewChineseBigValueFormatter() BigValueFormatter {
	return BigValueFormatter{
		Thresholds: []float64{1e4, 1e6, 1e8},
		Units:      []string{"万", "百万", "亿"},
	}
}

// NewCompactFormatter uses the K / M / B / T units.
func NewCompactFormatter() BigValueFormatter {
	return BigValueFormatter{
		Thresholds: []float64{1e3, 1e6, 1e9, 1e12},
		Units:      []string{"K", "M", "B", "T"},
	}
}

func (b BigValueFormatter) Format(v float64) string {
	unit := ""
	for i := len(b.Thresholds) - 1; i >= 0; i-- {
		if v > b.Thresholds[i] {
			v /= b.Thresholds[i]
			unit = b.Units[i]
			break
		}
	}
	return fmt.Sprintf("%.2f%s", v, unit)
}

// TimeFormatter formats candle times with a strftime layout.
type TimeFormatter struct {
	Layout   string
	Location *time.Location
}

// DefaultDateLayout is used when a TimeFormatter has no layout.
const DefaultDateLayout = "%Y-%m-%d %H:%M"

func (f TimeFormatter) FormatTime(t time.Time) string {
	layout := f.Layout
	if layout == "" {
		layout = DefaultDateLayout
	}
	if f.Location != nil {
		t = t.In(f.Location)
	}
	return strftime.Format(layout, t)
}

func padFraction(s string, minDigits int) string {
	dot := strings.IndexByte(s, '.')
	if dot < 0 {
		return s + "." + strings.Repeat("0", minDigits)
	}
	if have := len(s) - dot - 1; have < minDigits {
		return s + strings.Repeat("0", minDigits-have)
	}
	return s
}
