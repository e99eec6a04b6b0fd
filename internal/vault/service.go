// Package vault orchestrates retrieval, caching and analytics for vaults
// and curators. The analytics core stays fetch-agnostic: it only ever sees
// an already-fetched series.
package vault

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/rdelorme/vaultlens/internal/analytics"
	"github.com/rdelorme/vaultlens/internal/external/morpho"
	"github.com/rdelorme/vaultlens/pkg/logger"
	"github.com/rdelorme/vaultlens/pkg/redis"
)

// ErrCuratorNotFound is returned when no curator matches a query.
var ErrCuratorNotFound = errors.New("no curator matches this value")

// MorphoAPI is the slice of the Morpho client the service depends on.
// Tests substitute an in-memory fake.
type MorphoAPI interface {
	History(ctx context.Context, address string, chainID int64, bounds morpho.TimeRange) ([]morpho.HistoryPoint, error)
	VaultDetails(ctx context.Context, address string, chainID int64) (*morpho.Vault, error)
	ResolveCurator(ctx context.Context, query string) (*morpho.Curator, error)
	VaultsForCurator(ctx context.Context, curatorID string, limit int) ([]morpho.Vault, error)
}

// Ref identifies one vault on one network.
type Ref struct {
	ChainID int64
	Address string
}

// Service wires the Morpho client, the cache and the analytics engine.
type Service struct {
	api    MorphoAPI
	cache  *redis.Cache
	logger *logger.Logger
}

// NewService creates a new vault service.
func NewService(api MorphoAPI, cache *redis.Cache, log *logger.Logger) *Service {
	return &Service{
		api:    api,
		cache:  cache,
		logger: log,
	}
}

// PerformanceSummary fetches the vault's history for the requested range
// and computes the full performance report over it.
func (s *Service) PerformanceSummary(ctx context.Context, ref Ref, spec analytics.RangeSpec) (*analytics.Summary, error) {
	points, err := s.fetchHistory(ctx, ref, spec)
	if err != nil {
		if errors.Is(err, morpho.ErrNoHistory) {
			return nil, analytics.ErrInvalidSeries
		}
		return nil, err
	}

	series, err := s.buildSeries(ref, points)
	if err != nil {
		return nil, err
	}

	return analytics.Summarize(series, spec)
}

// History returns the vault's joined (timestamp, price, TVL) points for the
// requested range, for chart consumers.
func (s *Service) History(ctx context.Context, ref Ref, spec analytics.RangeSpec) ([]morpho.HistoryPoint, error) {
	return s.fetchHistory(ctx, ref, spec)
}

// fetchHistory resolves the fetch bounds from the range spec and returns
// raw points, consulting the cache first.
func (s *Service) fetchHistory(ctx context.Context, ref Ref, spec analytics.RangeSpec) ([]morpho.HistoryPoint, error) {
	bounds := fetchBounds(spec)

	var fromTS, toTS int64
	if bounds.Start != nil {
		fromTS = bounds.Start.Unix()
	}
	if bounds.End != nil {
		toTS = bounds.End.Unix()
	}
	key := redis.HistoryKey(ref.ChainID, strings.ToLower(ref.Address), fromTS, toTS)

	var points []morpho.HistoryPoint
	if found, err := s.cache.Get(ctx, key, &points); err == nil && found {
		return points, nil
	}

	points, err := s.api.History(ctx, ref.Address, ref.ChainID, bounds)
	if err != nil {
		return nil, err
	}

	if err := s.cache.Set(ctx, key, points, redis.TTLMedium); err != nil {
		s.logger.WithError(err).Warn("Failed to cache vault history")
	}

	return points, nil
}

// fetchBounds maps a range spec to upstream query bounds. The shortcut
// range is anchored at the wall clock for fetching; the windowing step then
// re-anchors at the latest observed snapshot.
func fetchBounds(spec analytics.RangeSpec) morpho.TimeRange {
	switch spec.Kind {
	case analytics.RangeLastDays:
		start := time.Now().UTC().Add(-time.Duration(spec.Days) * 24 * time.Hour)
		return morpho.TimeRange{Start: &start}
	case analytics.RangeBetween:
		start, end := spec.Start, spec.End
		return morpho.TimeRange{Start: &start, End: &end}
	default:
		return morpho.TimeRange{}
	}
}

// buildSeries validates raw points into a canonical series, logging what
// the validation had to discard.
func (s *Service) buildSeries(ref Ref, points []morpho.HistoryPoint) (*analytics.Series, error) {
	snaps := make([]analytics.Snapshot, len(points))
	for i, p := range points {
		snaps[i] = analytics.Snapshot{
			Timestamp:     p.Timestamp,
			SharePriceUSD: p.SharePriceUSD,
			TVLUSD:        p.TVLUSD,
		}
	}

	series, err := analytics.BuildSeries(snaps)
	if err != nil {
		return nil, err
	}

	if series.Dropped() > 0 {
		s.logger.WithFields(map[string]interface{}{
			"address":  ref.Address,
			"chain_id": ref.ChainID,
			"dropped":  series.Dropped(),
		}).Warn("Discarded malformed history points")
	}

	return series, nil
}

// CompositionRow is one market allocation of a vault, shaped for display.
type CompositionRow struct {
	Title     string   `json:"title"`
	Assets    string   `json:"assets"`
	SupplyUSD float64  `json:"supply_usd"`
	Percent   *float64 `json:"percent"` // ratio of vault TVL, nil when TVL is zero
	Enabled   bool     `json:"enabled"`
}

// Overview is the current state of a vault plus its market composition.
type Overview struct {
	Name          string           `json:"name"`
	Symbol        string           `json:"symbol"`
	Address       string           `json:"address"`
	ChainID       int64            `json:"chain_id"`
	Network       string           `json:"network,omitempty"`
	AssetSymbol   string           `json:"asset_symbol,omitempty"`
	AssetName     string           `json:"asset_name,omitempty"`
	Description   string           `json:"description,omitempty"`
	Whitelisted   bool             `json:"whitelisted"`
	Promoted      bool             `json:"promoted"`
	TVLUSD        *float64         `json:"tvl_usd"`
	APY           *float64         `json:"apy"`
	NetAPY        *float64         `json:"net_apy"`
	Fee           *float64         `json:"fee"`
	SharePriceUSD *float64         `json:"share_price_usd"`
	Curator       string           `json:"curator,omitempty"`
	Guardian      string           `json:"guardian,omitempty"`
	Owner         string           `json:"owner,omitempty"`
	Composition   []CompositionRow `json:"composition"`
}

// Overview fetches a vault's extended state and shapes it for display.
func (s *Service) Overview(ctx context.Context, ref Ref) (*Overview, error) {
	key := redis.VaultKey(ref.ChainID, strings.ToLower(ref.Address))

	var overview Overview
	if found, err := s.cache.Get(ctx, key, &overview); err == nil && found {
		return &overview, nil
	}

	raw, err := s.api.VaultDetails(ctx, ref.Address, ref.ChainID)
	if err != nil {
		return nil, err
	}

	slug, _ := morpho.SlugByChainID(ref.ChainID)
	result := buildOverview(raw, ref.ChainID, slug)

	if err := s.cache.Set(ctx, key, result, redis.TTLShort); err != nil {
		s.logger.WithError(err).Warn("Failed to cache vault overview")
	}

	return result, nil
}

func buildOverview(raw *morpho.Vault, chainID int64, network string) *Overview {
	o := &Overview{
		Name:        raw.Name,
		Symbol:      raw.Symbol,
		Address:     raw.Address,
		ChainID:     chainID,
		Network:     network,
		Whitelisted: raw.Whitelisted,
		Promoted:    raw.Promoted,
	}

	if raw.Asset != nil {
		o.AssetSymbol = raw.Asset.Symbol
		o.AssetName = raw.Asset.Name
	}
	if raw.Metadata != nil {
		o.Description = raw.Metadata.Description
	}
	if state := raw.State; state != nil {
		o.TVLUSD = state.TotalAssetsUSD
		o.APY = state.APY
		o.NetAPY = state.NetAPY
		o.Fee = state.Fee
		o.SharePriceUSD = state.SharePriceUSD
		o.Curator = state.Curator
		o.Guardian = state.Guardian
		o.Owner = state.Owner
		o.Composition = buildComposition(state)
	}

	return o
}

// buildComposition turns raw market allocations into display rows sorted by
// share of vault TVL, dust filtered out.
func buildComposition(state *morpho.VaultState) []CompositionRow {
	var total float64
	if state.TotalAssetsUSD != nil {
		total = *state.TotalAssetsUSD
	}

	rows := make([]CompositionRow, 0, len(state.Allocation))
	for _, alloc := range state.Allocation {
		if alloc.SupplyAssetsUSD == nil {
			continue
		}
		supply := *alloc.SupplyAssetsUSD

		row := CompositionRow{
			SupplyUSD: supply,
			Enabled:   alloc.Enabled,
		}

		if market := alloc.Market; market != nil {
			row.Title = market.UniqueKey
			var parts []string
			if market.LoanAsset != nil && market.LoanAsset.Symbol != "" {
				parts = append(parts, market.LoanAsset.Symbol)
			}
			if market.CollateralAsset != nil && market.CollateralAsset.Symbol != "" {
				parts = append(parts, market.CollateralAsset.Symbol)
			}
			row.Assets = strings.Join(parts, " / ")
		}
		if row.Title == "" {
			row.Title = row.Assets
		}

		if total > 0 {
			pct := supply / total
			// Skip dust positions.
			if pct < 1e-5 {
				continue
			}
			row.Percent = &pct
		}

		rows = append(rows, row)
	}

	sort.SliceStable(rows, func(i, j int) bool {
		pi, pj := -1.0, -1.0
		if rows[i].Percent != nil {
			pi = *rows[i].Percent
		}
		if rows[j].Percent != nil {
			pj = *rows[j].Percent
		}
		return pi > pj
	})

	return rows
}

// CuratorVault is one vault of a curator, shaped for listing.
type CuratorVault struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	Address        string   `json:"address"`
	Whitelisted    bool     `json:"whitelisted"`
	ChainID        int64    `json:"chain_id"`
	Network        string   `json:"network,omitempty"`
	AssetSymbol    string   `json:"asset_symbol,omitempty"`
	TotalAssetsUSD *float64 `json:"total_assets_usd"`
}

// CuratorProfile is a curator plus its vaults sorted by TVL descending.
type CuratorProfile struct {
	Curator morpho.Curator `json:"curator"`
	Vaults  []CuratorVault `json:"vaults"`
}

// CuratorProfile resolves a curator by slug/id or address and lists its
// vaults by TVL descending.
func (s *Service) CuratorProfile(ctx context.Context, query string) (*CuratorProfile, error) {
	query = strings.TrimSpace(query)
	key := redis.CuratorKey(strings.ToLower(query))

	var profile CuratorProfile
	if found, err := s.cache.Get(ctx, key, &profile); err == nil && found {
		return &profile, nil
	}

	curator, err := s.api.ResolveCurator(ctx, query)
	if err != nil {
		return nil, err
	}
	if curator == nil {
		return nil, ErrCuratorNotFound
	}

	rawVaults, err := s.api.VaultsForCurator(ctx, curator.ID, 50)
	if err != nil {
		return nil, fmt.Errorf("list curator vaults: %w", err)
	}

	vaults := make([]CuratorVault, 0, len(rawVaults))
	for _, item := range rawVaults {
		cv := CuratorVault{
			ID:          item.ID,
			Name:        item.Name,
			Address:     item.Address,
			Whitelisted: item.Whitelisted,
		}
		if item.Chain != nil {
			cv.ChainID = item.Chain.ID
			cv.Network, _ = morpho.SlugByChainID(item.Chain.ID)
		}
		if item.Asset != nil {
			cv.AssetSymbol = item.Asset.Symbol
		}
		if item.State != nil {
			cv.TotalAssetsUSD = item.State.TotalAssetsUSD
		}
		vaults = append(vaults, cv)
	}

	sort.SliceStable(vaults, func(i, j int) bool {
		vi, vj := 0.0, 0.0
		if vaults[i].TotalAssetsUSD != nil {
			vi = *vaults[i].TotalAssetsUSD
		}
		if vaults[j].TotalAssetsUSD != nil {
			vj = *vaults[j].TotalAssetsUSD
		}
		return vi > vj
	})

	result := &CuratorProfile{Curator: *curator, Vaults: vaults}

	if err := s.cache.Set(ctx, key, result, redis.TTLLong); err != nil {
		s.logger.WithError(err).Warn("Failed to cache curator profile")
	}

	return result, nil
}
