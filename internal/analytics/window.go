package analytics

import (
	"errors"
	"sort"
	"time"
)

// ErrEmptyWindow is returned when a requested range resolves to no data.
// Distinct from ErrInvalidSeries: the series has data, the range does not.
var ErrEmptyWindow = errors.New("no data in selected range")

// RangeKind discriminates the ways a caller can specify a window.
type RangeKind int

const (
	// RangeAll selects the entire available history.
	RangeAll RangeKind = iota
	// RangeLastDays selects the trailing N days ending at the latest snapshot.
	RangeLastDays
	// RangeBetween selects an explicit start/end pair.
	RangeBetween
)

// RangeSpec encodes a user-specified range: explicit dates, a trailing
// shortcut duration, or the whole history.
type RangeSpec struct {
	Kind  RangeKind
	Days  int       // RangeLastDays only
	Start time.Time // RangeBetween only
	End   time.Time // RangeBetween only
}

// AllRange selects the series' entire history.
func AllRange() RangeSpec {
	return RangeSpec{Kind: RangeAll}
}

// LastDays selects the trailing window ending at the latest snapshot.
func LastDays(days int) RangeSpec {
	return RangeSpec{Kind: RangeLastDays, Days: days}
}

// Between selects an explicit date range.
func Between(start, end time.Time) RangeSpec {
	return RangeSpec{Kind: RangeBetween, Start: start, End: end}
}

// Window is a resolved view over a contiguous slice of a series.
// Derived per request, never persisted.
type Window struct {
	series   *Series
	startIdx int
	endIdx   int

	// StartAdjusted is set when the requested start predates the series
	// and the boundary was clamped to the first snapshot. A soft warning
	// for the presentation layer, not an error.
	StartAdjusted bool
}

// Start returns the window's starting boundary snapshot.
func (w Window) Start() Snapshot {
	return w.series.At(w.startIdx)
}

// End returns the window's ending boundary snapshot.
func (w Window) End() Snapshot {
	return w.series.At(w.endIdx)
}

// Snapshots returns the window's snapshots in chronological order.
func (w Window) Snapshots() []Snapshot {
	return w.series.snaps[w.startIdx : w.endIdx+1]
}

// Resolve maps a range spec onto concrete boundary snapshots.
//
// Boundaries use step-function lookback: the boundary snapshot is the last
// snapshot at or before the requested instant, never an interpolated one.
// A start before the first snapshot clamps to the first snapshot and sets
// StartAdjusted; an end after the last snapshot clamps to the last.
//
// Explicit and shortcut specs require strictly positive duration and fail
// with ErrEmptyWindow when they resolve to a single snapshot. RangeAll on a
// single-snapshot series yields the degenerate zero-duration window instead.
func (s *Series) Resolve(spec RangeSpec) (Window, error) {
	if s == nil || s.Len() == 0 {
		return Window{}, ErrEmptyWindow
	}

	switch spec.Kind {
	case RangeAll:
		return Window{series: s, startIdx: 0, endIdx: s.Len() - 1}, nil

	case RangeLastDays:
		if spec.Days <= 0 {
			return Window{}, ErrEmptyWindow
		}
		end := s.Last().Timestamp
		start := end.Add(-time.Duration(spec.Days) * 24 * time.Hour)
		return s.resolveBounds(start, end)

	case RangeBetween:
		return s.resolveBounds(spec.Start, spec.End)

	default:
		return Window{}, ErrEmptyWindow
	}
}

func (s *Series) resolveBounds(start, end time.Time) (Window, error) {
	if end.Before(start) {
		return Window{}, ErrEmptyWindow
	}

	endIdx := s.lastIndexAtOrBefore(end)
	if endIdx < 0 {
		// Requested range ends before the data begins.
		return Window{}, ErrEmptyWindow
	}

	startIdx := s.lastIndexAtOrBefore(start)
	adjusted := false
	if startIdx < 0 {
		// Cannot extrapolate before data begins: clamp and flag.
		startIdx = 0
		adjusted = true
	}

	if startIdx >= endIdx {
		return Window{}, ErrEmptyWindow
	}

	return Window{series: s, startIdx: startIdx, endIdx: endIdx, StartAdjusted: adjusted}, nil
}

// lastIndexAtOrBefore returns the index of the last snapshot with
// timestamp <= t, or -1 when every snapshot is later than t.
func (s *Series) lastIndexAtOrBefore(t time.Time) int {
	// First index strictly after t.
	i := sort.Search(len(s.snaps), func(i int) bool {
		return s.snaps[i].Timestamp.After(t)
	})
	return i - 1
}
