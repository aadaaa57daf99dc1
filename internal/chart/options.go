package chart

import (
	"time"

	"KLineCore/internal/calculator"
	"KLineCore/internal/formatter"
	"KLineCore/internal/layout"
	"KLineCore/internal/model"
	"KLineCore/internal/prediction"
)

// Options are the chart constants, already converted to pixels.
type Options struct {
	ItemWidth          float64
	PaddingRight       float64
	RightOffsetCandles float64
	Layout             layout.Params

	MinGridSpacingPx float64
	PriceTickCount   int

	HitThreshold        float64
	MinOverlayExtension int

	RevealDuration           time.Duration
	PredictionRevealDuration time.Duration

	Indicators    calculator.Params
	MainIndicator model.MainIndicator
	AuxIndicator  model.AuxIndicator

	PriceFormatter  formatter.Formatter
	VolumeFormatter formatter.Formatter
}

// DefaultOptions mirrors the default configuration at density 1.
func DefaultOptions() Options {
	return Options{
		ItemWidth:          8,
		PaddingRight:       50,
		RightOffsetCandles: 0,
		Layout: layout.Params{
			PaddingTop:    20,
			PaddingBottom: 20,
			ChildPadding:  50,
			MainFlex:      0.6,
			VolumeFlex:    0.2,
		},
		MinGridSpacingPx:         84,
		PriceTickCount:           6,
		HitThreshold:             prediction.DefaultHitThreshold,
		MinOverlayExtension:      10,
		RevealDuration:           500 * time.Millisecond,
		PredictionRevealDuration: 1500 * time.Millisecond,
		Indicators:               calculator.DefaultParams(),
		MainIndicator:            model.MainMA,
		AuxIndicator:             model.AuxMACD,
		PriceFormatter:           formatter.PriceFormatter{},
		VolumeFormatter:          formatter.NewCompactFormatter(),
	}
}
