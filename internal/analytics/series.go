// Package analytics turns a vault's historical share-price and TVL
// observations into performance metrics: PnL, annualized return, max
// drawdown, and a flow-vs-price decomposition of TVL change.
//
// The package is pure: it performs no I/O, never mutates its inputs, and
// every computation is deterministic for a given series and range.
package analytics

import (
	"errors"
	"sort"
	"time"
)

// ErrInvalidSeries is returned when no usable snapshots remain after
// validation. Callers for which an empty vault history is acceptable
// check for it with errors.Is.
var ErrInvalidSeries = errors.New("no usable snapshots in series")

// Snapshot is one observed state of a vault: the USD price of one
// accounting share and the total value locked, at a point in time.
// Immutable once constructed.
type Snapshot struct {
	Timestamp     time.Time `json:"timestamp"`
	SharePriceUSD float64   `json:"share_price_usd"`
	TVLUSD        float64   `json:"tvl_usd"`
}

// Shares derives the outstanding share count from TVL and share price.
// Undefined (ok == false) when the share price is zero.
func (s Snapshot) Shares() (float64, bool) {
	if s.SharePriceUSD <= 0 {
		return 0, false
	}
	return s.TVLUSD / s.SharePriceUSD, true
}

// Series is an ordered sequence of snapshots, strictly increasing by
// timestamp, with at most one snapshot per timestamp.
type Series struct {
	snaps   []Snapshot
	dropped int
}

// BuildSeries normalizes raw retrieved points into a canonical series.
// Points may arrive unsorted and with duplicate timestamps: the builder
// sorts ascending and keeps the last-retrieved value per timestamp.
// Points with negative price or TVL (upstream sentinel/error rows) are
// dropped and counted rather than failing the build.
func BuildSeries(points []Snapshot) (*Series, error) {
	sorted := make([]Snapshot, len(points))
	copy(sorted, points)
	// Stable sort preserves retrieval order between equal timestamps,
	// so the later-retrieved duplicate wins below.
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Timestamp.Before(sorted[j].Timestamp)
	})

	s := &Series{snaps: make([]Snapshot, 0, len(sorted))}
	for _, p := range sorted {
		if p.SharePriceUSD < 0 || p.TVLUSD < 0 {
			s.dropped++
			continue
		}
		if n := len(s.snaps); n > 0 && s.snaps[n-1].Timestamp.Equal(p.Timestamp) {
			s.snaps[n-1] = p
			continue
		}
		s.snaps = append(s.snaps, p)
	}

	if len(s.snaps) == 0 {
		return nil, ErrInvalidSeries
	}
	return s, nil
}

// Len returns the number of snapshots.
func (s *Series) Len() int {
	return len(s.snaps)
}

// First returns the earliest snapshot. Panics on empty series, which
// BuildSeries never produces.
func (s *Series) First() Snapshot {
	return s.snaps[0]
}

// Last returns the latest snapshot.
func (s *Series) Last() Snapshot {
	return s.snaps[len(s.snaps)-1]
}

// At returns the snapshot at index i.
func (s *Series) At(i int) Snapshot {
	return s.snaps[i]
}

// Dropped reports how many raw points were discarded during validation.
func (s *Series) Dropped() int {
	return s.dropped
}

// Snapshots returns a copy of the canonical snapshot sequence.
func (s *Series) Snapshots() []Snapshot {
	out := make([]Snapshot, len(s.snaps))
	copy(out, s.snaps)
	return out
}
