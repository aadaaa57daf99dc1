package series

import (
	"fmt"

	"KLineCore/internal/model"
)

// MutationKind tells Apply how to merge a batch of candles.
type MutationKind int

const (
	MutationAppend MutationKind = iota
	MutationReplaceLast
	MutationReplace
)

func (k MutationKind) String() string {
	switch k {
	case MutationAppend:
		return "append"
	case MutationReplaceLast:
		return "replace_last"
	case MutationReplace:
		return "replace"
	default:
		return "unknown"
	}
}

// Mutation is a store change produced off the render loop and applied on it.
type Mutation struct {
	Kind    MutationKind
	Candles []model.Candle
}

// Diff derives the mutation that brings a store whose last candle has lastID
// up to date with the fetched batch. Candles older than lastID are skipped and
// a batch ending on lastID becomes a replace-last. It reports false when the
// batch holds nothing new.
func Diff(lastID int64, hasLast bool, fetched []model.Candle) (Mutation, bool) {
	if len(fetched) == 0 {
		return Mutation{}, false
	}
	if !hasLast {
		return Mutation{Kind: MutationReplace, Candles: fetched}, true
	}
	for i, c := range fetched {
		if c.ID == lastID && i == len(fetched)-1 {
			return Mutation{Kind: MutationReplaceLast, Candles: fetched[i:]}, true
		}
		if c.ID >= lastID {
			// Apply refreshes the in-progress candle when the batch starts on it.
			return Mutation{Kind: MutationAppend, Candles: fetched[i:]}, true
		}
	}
	return Mutation{}, false
}

// Apply merges m into the store.
func (s *Store) Apply(m Mutation) error {
	switch m.Kind {
	case MutationAppend:
		if len(m.Candles) > 0 && len(s.candles) > 0 && m.Candles[0].ID == s.candles[len(s.candles)-1].ID {
			s.candles[len(s.candles)-1] = m.Candles[0]
			s.Append(m.Candles[1:]...)
			return nil
		}
		s.Append(m.Candles...)
	case MutationReplaceLast:
		if len(m.Candles) != 1 {
			return fmt.Errorf("replace_last expects 1 candle, got %d", len(m.Candles))
		}
		if !s.ReplaceLast(m.Candles[0]) {
			s.Append(m.Candles[0])
		}
	case MutationReplace:
		s.Replace(m.Candles)
	default:
		return fmt.Errorf("unknown mutation kind %d", m.Kind)
	}
	return nil
}
