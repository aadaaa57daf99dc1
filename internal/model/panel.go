package model

import (
	"fmt"
	"strings"
)

// PanelKind identifies one of the stacked chart regions.
type PanelKind int

const (
	PanelMain PanelKind = iota
	PanelVolume
	PanelAuxiliary
)

func (k PanelKind) String() string {
	switch k {
	case PanelMain:
		return "main"
	case PanelVolume:
		return "volume"
	case PanelAuxiliary:
		return "auxiliary"
	default:
		return "unknown"
	}
}

// MainIndicator selects the overlay drawn on the main panel.
type MainIndicator int

const (
	MainNone MainIndicator = iota
	MainMA
	MainBOLL
)

// AuxIndicator selects the oscillator shown in the auxiliary panel.
// AuxNone hides the panel.
type AuxIndicator int

const (
	AuxNone AuxIndicator = iota
	AuxMACD
	AuxKDJ
	AuxRSI
	AuxWR
)

func (a AuxIndicator) String() string {
	switch a {
	case AuxMACD:
		return "MACD"
	case AuxKDJ:
		return "KDJ"
	case AuxRSI:
		return "RSI"
	case AuxWR:
		return "WR"
	default:
		return "none"
	}
}

// ParseAuxIndicator maps a config name to an AuxIndicator. "none" and "" hide the panel.
func ParseAuxIndicator(name string) (AuxIndicator, error) {
	switch strings.ToLower(name) {
	case "", "none":
		return AuxNone, nil
	case "macd":
		return AuxMACD, nil
	case "kdj":
		return AuxKDJ, nil
	case "rsi":
		return AuxRSI, nil
	case "wr":
		return AuxWR, nil
	default:
		return AuxNone, fmt.Errorf("unknown auxiliary indicator %q", name)
	}
}

func (m MainIndicator) String() string {
	switch m {
	case MainMA:
		return "MA"
	case MainBOLL:
		return "BOLL"
	default:
		return "none"
	}
}

// ParseMainIndicator maps a config name to a MainIndicator.
func ParseMainIndicator(name string) (MainIndicator, error) {
	switch strings.ToLower(name) {
	case "", "none":
		return MainNone, nil
	case "ma":
		return MainMA, nil
	case "boll":
		return MainBOLL, nil
	default:
		return MainNone, fmt.Errorf("unknown main indicator %q", name)
	}
}

// VisibleRange is the inclusive window of candle indices on screen.
// Both bounds are 0 when the series is empty.
type VisibleRange struct {
	Start int
	Stop  int
}

// Len returns the number of indices covered by the range.
func (r VisibleRange) Len() int {
	return r.Stop - r.Start + 1
}

// Contains reports whether i lies within the range.
func (r VisibleRange) Contains(i int) bool {
	return i >= r.Start && i <= r.Stop
}
