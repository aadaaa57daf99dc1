package series

import "KLineCore/internal/model"

// Reader is the read-only view of a candle sequence consumed by the geometry code.
type Reader interface {
	Len() int
	At(i int) model.Candle
}

// Store is an ordered, append-friendly candle sequence.
// Only the last element may be replaced in place. Store is not safe for concurrent use;
// mutations from other goroutines go through Mutation and Apply on the render loop.
type Store struct {
	candles []model.Candle
}

// NewStore creates a Store holding a copy of candles.
func NewStore(candles []model.Candle) *Store {
	s := &Store{}
	s.Replace(candles)
	return s
}

func (s *Store) Len() int { return len(s.candles) }

// At returns the candle at index i. It panics if i is out of range, like a slice index.
func (s *Store) At(i int) model.Candle { return s.candles[i] }

// Candles exposes the backing slice so indicators can be filled in place.
func (s *Store) Candles() []model.Candle { return s.candles }

// Append adds candles to the end of the sequence.
func (s *Store) Append(cs ...model.Candle) {
	s.candles = append(s.candles, cs...)
}

// ReplaceLast overwrites the final candle. It reports false when the store is empty.
func (s *Store) ReplaceLast(c model.Candle) bool {
	if len(s.candles) == 0 {
		return false
	}
	s.candles[len(s.candles)-1] = c
	return true
}

// Replace swaps the whole sequence for a copy of cs.
func (s *Store) Replace(cs []model.Candle) {
	s.candles = make([]model.Candle, len(cs))
	copy(s.candles, cs)
}

// Last returns the final candle and whether one exists.
func (s *Store) Last() (model.Candle, bool) {
	if len(s.candles) == 0 {
		return model.Candle{}, false
	}
	return s.candles[len(s.candles)-1], true
}

// AnchorIndex returns the first index whose ID is at or after ts.
// It falls back to the last index when ts is nil or later than every candle,
// and returns -1 for an empty sequence.
func AnchorIndex(r Reader, ts *int64) int {
	n := r.Len()
	if n == 0 {
		return -1
	}
	if ts != nil {
		for i := 0; i < n; i++ {
			if r.At(i).ID >= *ts {
				return i
			}
		}
	}
	return n - 1
}
