package analytics

import (
	"errors"
	"testing"
	"time"
)

var seriesBase = time.Date(2025, 11, 1, 0, 0, 0, 0, time.UTC)

func day(n int) time.Time {
	return seriesBase.AddDate(0, 0, n)
}

func TestBuildSeries_SortsAndDeduplicates(t *testing.T) {
	// Unsorted input with a duplicate timestamp: the later-retrieved
	// value must win.
	points := []Snapshot{
		{Timestamp: day(2), SharePriceUSD: 1.0, TVLUSD: 100},
		{Timestamp: day(1), SharePriceUSD: 1.0, TVLUSD: 100},
		{Timestamp: day(1), SharePriceUSD: 1.0, TVLUSD: 50},
	}

	s, err := BuildSeries(points)
	if err != nil {
		t.Fatalf("BuildSeries() error = %v", err)
	}

	if s.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", s.Len())
	}
	if !s.First().Timestamp.Equal(day(1)) {
		t.Errorf("First().Timestamp = %v, want %v", s.First().Timestamp, day(1))
	}
	if s.First().TVLUSD != 50 {
		t.Errorf("duplicate timestamp TVL = %v, want 50 (last write wins)", s.First().TVLUSD)
	}
	if !s.Last().Timestamp.Equal(day(2)) {
		t.Errorf("Last().Timestamp = %v, want %v", s.Last().Timestamp, day(2))
	}
}

func TestBuildSeries_DropsNegativePoints(t *testing.T) {
	points := []Snapshot{
		{Timestamp: day(0), SharePriceUSD: 1.0, TVLUSD: 100},
		{Timestamp: day(1), SharePriceUSD: -1.0, TVLUSD: 100},
		{Timestamp: day(2), SharePriceUSD: 1.0, TVLUSD: -5},
		{Timestamp: day(3), SharePriceUSD: 1.1, TVLUSD: 110},
	}

	s, err := BuildSeries(points)
	if err != nil {
		t.Fatalf("BuildSeries() error = %v", err)
	}

	if s.Len() != 2 {
		t.Errorf("Len() = %d, want 2", s.Len())
	}
	if s.Dropped() != 2 {
		t.Errorf("Dropped() = %d, want 2", s.Dropped())
	}
}

func TestBuildSeries_Empty(t *testing.T) {
	if _, err := BuildSeries(nil); !errors.Is(err, ErrInvalidSeries) {
		t.Errorf("BuildSeries(nil) error = %v, want ErrInvalidSeries", err)
	}

	// Only sentinel rows: nothing usable remains.
	points := []Snapshot{
		{Timestamp: day(0), SharePriceUSD: -1, TVLUSD: 100},
	}
	if _, err := BuildSeries(points); !errors.Is(err, ErrInvalidSeries) {
		t.Errorf("BuildSeries(sentinels) error = %v, want ErrInvalidSeries", err)
	}
}

func TestBuildSeries_SingleSnapshotIsValid(t *testing.T) {
	s, err := BuildSeries([]Snapshot{
		{Timestamp: day(0), SharePriceUSD: 1.0, TVLUSD: 100},
	})
	if err != nil {
		t.Fatalf("BuildSeries() error = %v", err)
	}
	if s.Len() != 1 {
		t.Errorf("Len() = %d, want 1", s.Len())
	}
}

func TestSnapshot_Shares(t *testing.T) {
	snap := Snapshot{Timestamp: day(0), SharePriceUSD: 1.25, TVLUSD: 250}
	shares, ok := snap.Shares()
	if !ok {
		t.Fatal("Shares() ok = false, want true")
	}
	if shares != 200 {
		t.Errorf("Shares() = %v, want 200", shares)
	}

	zero := Snapshot{Timestamp: day(0), SharePriceUSD: 0, TVLUSD: 250}
	if _, ok := zero.Shares(); ok {
		t.Error("Shares() with zero price should be undefined")
	}
}

func TestSeries_SnapshotsIsACopy(t *testing.T) {
	s, err := BuildSeries([]Snapshot{
		{Timestamp: day(0), SharePriceUSD: 1.0, TVLUSD: 100},
		{Timestamp: day(1), SharePriceUSD: 1.1, TVLUSD: 110},
	})
	if err != nil {
		t.Fatalf("BuildSeries() error = %v", err)
	}

	snaps := s.Snapshots()
	snaps[0].TVLUSD = 0

	if s.First().TVLUSD != 100 {
		t.Error("mutating Snapshots() result must not affect the series")
	}
}
