package formatter

import (
	"testing"
	"time"
)

func TestPriceFormatter(t *testing.T) {
	tests := []struct {
		precision int32
		in        float64
		want      string
	}{
		{0, 1.5, "1.5"},
		{0, 100, "100"},
		{0, 0.000123, "0.000123"},
		{0, -42.25, "-42.25"},
		{2, 3.14159, "3.14"},
		{2, 2.10, "2.1"},
	}
	for _, tt := range tests {
		got := PriceFormatter{Precision: tt.precision}.Format(tt.in)
		if got != tt.want {
			t.Errorf("PriceFormatter{%d}.Format(%v): expected %q, got %q", tt.precision, tt.in, tt.want, got)
		}
	}
}

func TestFixedFormatter(t *testing.T) {
	f := FixedFormatter{Digits: 4}
	if got := f.Format(12.5); got != "12.5000" {
		t.Errorf("expected 12.5000, got %q", got)
	}
	if got := f.Format(1.23456789); got != "1.2345" {
		t.Errorf("expected truncation to 1.2345, got %q", got)
	}
}

func TestStandardFormatter(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{1234.5, "1,234.50"},
		{1234567.891, "1,234,567.89"},
		{12.3456789, "12.3457"},
		{0.5, "0.50"},
		{7, "7.00"},
	}
	for _, tt := range tests {
		if got := (StandardFormatter{}).Format(tt.in); got != tt.want {
			t.Errorf("StandardFormatter.Format(%v): expected %q, got %q", tt.in, tt.want, got)
		}
	}
}

func TestBigValueFormatter(t *testing.T) {
	cn := NewChineseBigValueFormatter()
	if got := cn.Format(25000); got != "2.50万" {
		t.Errorf("expected 2.50万, got %q", got)
	}
	if got := cn.Format(300000000); got != "3.00亿" {
		t.Errorf("expected 3.00亿, got %q", got)
	}
	if got := cn.Format(9999); got != "9999.00" {
		t.Errorf("expected 9999.00, got %q", got)
	}

	en := NewCompactFormatter()
	if got := en.Format(1500000); got != "1.50M" {
		t.Errorf("expected 1.50M, got %q", got)
	}
}

func TestTimeFormatter(t *testing.T) {
	ts := time.Date(2024, 3, 9, 14, 5, 0, 0, time.UTC)
	f := TimeFormatter{Location: time.UTC}
	if got := f.FormatTime(ts); got != "2024-03-09 14:05" {
		t.Errorf("expected default layout, got %q", got)
	}
	f.Layout = "%m/%d"
	if got := f.FormatTime(ts); got != "03/09" {
		t.Errorf("expected 03/09, got %q", got)
	}
}

func TestFunc(t *testing.T) {
	var f Formatter = Func(func(v float64) string { return "x" })
	if f.Format(1) != "x" {
		t.Error("Func adapter did not call through")
	}
}
