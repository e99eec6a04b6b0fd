package commands

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/rdelorme/vaultlens/internal/analytics"
	"github.com/rdelorme/vaultlens/internal/external/morpho"
	"github.com/rdelorme/vaultlens/internal/vault"
	"github.com/rdelorme/vaultlens/pkg/config"
	"github.com/rdelorme/vaultlens/pkg/httputil"
	"github.com/rdelorme/vaultlens/pkg/logger"
	"github.com/rdelorme/vaultlens/pkg/redis"
)

// app bundles the wired dependencies shared by the commands.
type app struct {
	cfg        *config.Config
	log        *logger.Logger
	redis      *redis.Client
	httpClient *httputil.Client
	service    *vault.Service
}

// newApp loads configuration and wires the client stack.
func newApp() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	log := logger.New(cfg)

	rdb, err := redis.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("connect to redis: %w", err)
	}

	httpClient := httputil.New(log, cfg.Morpho.Timeout)
	if rdb.Enabled() {
		limiter := redis.NewRateLimiter(rdb, "vaultlens")
		httpClient = httpClient.WithRateLimiter(limiter, redis.MorphoRateLimit)
	}

	morphoClient := morpho.NewClient(cfg.Morpho.APIURL, httpClient, log)
	cache := redis.NewCache(rdb, "vaultlens")
	service := vault.NewService(morphoClient, cache, log)

	return &app{
		cfg:        cfg,
		log:        log,
		redis:      rdb,
		httpClient: httpClient,
		service:    service,
	}, nil
}

func (a *app) close() {
	if err := a.redis.Close(); err != nil {
		a.log.WithError(err).Warn("Failed to close redis client")
	}
}

// parseRange turns the CLI range flags into a range spec. Same grammar as
// the API: --range 7d|30d|90d|all, or an explicit --start/--end pair.
func parseRange(rangeStr, startStr, endStr string) (analytics.RangeSpec, error) {
	rangeStr = strings.ToLower(strings.TrimSpace(rangeStr))

	if rangeStr != "" {
		if rangeStr == "all" {
			return analytics.AllRange(), nil
		}
		days, err := strconv.Atoi(strings.TrimSuffix(rangeStr, "d"))
		if err != nil || days <= 0 {
			return analytics.RangeSpec{}, fmt.Errorf("invalid range %q", rangeStr)
		}
		return analytics.LastDays(days), nil
	}

	if startStr == "" && endStr == "" {
		return analytics.LastDays(30), nil
	}

	start := time.Time{}
	end := time.Now().UTC()
	var err error

	if startStr != "" {
		if start, err = parseCLIDate(startStr); err != nil {
			return analytics.RangeSpec{}, err
		}
	}
	if endStr != "" {
		if end, err = parseCLIDate(endStr); err != nil {
			return analytics.RangeSpec{}, err
		}
	}

	return analytics.Between(start, end), nil
}

func parseCLIDate(value string) (time.Time, error) {
	for _, layout := range []string{"2006-01-02 15:04:05", "2006-01-02 15:04", "2006-01-02"} {
		if t, err := time.ParseInLocation(layout, value, time.UTC); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", value)
}

// parseVaultArg parses a "chainId:address" pair.
func parseVaultArg(value string) (vault.Ref, error) {
	parts := strings.SplitN(strings.TrimSpace(value), ":", 2)
	if len(parts) != 2 {
		return vault.Ref{}, fmt.Errorf("expected chainId:address, got %q", value)
	}

	chainID, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil {
		return vault.Ref{}, fmt.Errorf("invalid chain id %q", parts[0])
	}
	if !morpho.LooksLikeAddress(parts[1]) {
		return vault.Ref{}, fmt.Errorf("invalid vault address %q", parts[1])
	}

	return vault.Ref{ChainID: chainID, Address: parts[1]}, nil
}
