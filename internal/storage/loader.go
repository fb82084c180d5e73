package storage

import (
	"context"
	"log/slog"
	"sort"
	"sync"
	"time"

	"whalelake/internal/model"
)

// LoaderConfig holds snapshot loader settings.
type LoaderConfig struct {
	// Prefix is the snapshot key prefix the bot writes under.
	Prefix string

	// RecencyWindow bounds how old a trade may be to appear in the dataset.
	RecencyWindow time.Duration

	// MaxSnapshots caps how many objects one load downloads, newest first.
	MaxSnapshots int

	// CacheTTL is how long a loaded dataset is reused before re-reading
	// the store. Zero disables caching.
	CacheTTL time.Duration
}

// Loader discovers, downloads and merges recent snapshots into one
// time-ordered dataset for the dashboard. Results are cached for a short
// TTL so repeated UI refreshes don't hammer the object store.
type Loader struct {
	store  ObjectStore
	cfg    LoaderConfig
	logger *slog.Logger

	mu          sync.Mutex
	cached      []model.Trade
	cacheExpiry time.Time
}

// NewLoader creates a snapshot loader.
func NewLoader(store ObjectStore, cfg LoaderConfig, logger *slog.Logger) *Loader {
	return &Loader{
		store:  store,
		cfg:    cfg,
		logger: logger,
	}
}

// Load returns all trades within the recency window ending at now, sorted
// ascending by time. When nothing matches, or every download fails, it
// returns an empty dataset and no error. A cached dataset is returned as-is
// until its TTL expires.
func (l *Loader) Load(ctx context.Context, now time.Time) ([]model.Trade, error) {
	l.mu.Lock()
	if l.cached != nil && now.Before(l.cacheExpiry) {
		cached := l.cached
		l.mu.Unlock()
		return cached, nil
	}
	l.mu.Unlock()

	trades, err := l.load(ctx, now)
	if err != nil {
		return nil, err
	}

	l.mu.Lock()
	l.cached = trades
	l.cacheExpiry = now.Add(l.cfg.CacheTTL)
	l.mu.Unlock()

	return trades, nil
}

// Invalidate discards the cached dataset so the next Load re-reads the
// store. Wired to the dashboard's manual refresh.
func (l *Loader) Invalidate() {
	l.mu.Lock()
	l.cached = nil
	l.cacheExpiry = time.Time{}
	l.mu.Unlock()
}

func (l *Loader) load(ctx context.Context, now time.Time) ([]model.Trade, error) {
	// Listing today and yesterday covers the recency window across the
	// UTC midnight rollover without scanning the whole bucket.
	prefixes := []string{
		DayPrefix(l.cfg.Prefix, now),
		DayPrefix(l.cfg.Prefix, now.AddDate(0, 0, -1)),
	}

	var objects []ObjectInfo
	for _, prefix := range prefixes {
		page, err := l.store.List(ctx, prefix)
		if err != nil {
			return nil, err
		}
		objects = append(objects, page...)
	}

	if len(objects) == 0 {
		return []model.Trade{}, nil
	}

	// Newest snapshots first, then cap transfer volume.
	sort.Slice(objects, func(i, j int) bool {
		return objects[i].LastModified.After(objects[j].LastModified)
	})
	if l.cfg.MaxSnapshots > 0 && len(objects) > l.cfg.MaxSnapshots {
		objects = objects[:l.cfg.MaxSnapshots]
	}

	cutoff := now.Add(-l.cfg.RecencyWindow)
	var merged []model.Trade

	for _, obj := range objects {
		body, err := l.store.Get(ctx, obj.Key)
		if err != nil {
			l.logger.Warn("Failed to download snapshot", "key", obj.Key, "error", err)
			continue
		}
		trades, err := DecodeSnapshot(body)
		if err != nil {
			l.logger.Warn("Failed to decode snapshot", "key", obj.Key, "error", err)
			continue
		}
		for _, t := range trades {
			if t.Time.After(cutoff) {
				merged = append(merged, t)
			}
		}
	}

	if merged == nil {
		return []model.Trade{}, nil
	}

	sort.Slice(merged, func(i, j int) bool {
		return merged[i].Time.Before(merged[j].Time)
	})

	return merged, nil
}
