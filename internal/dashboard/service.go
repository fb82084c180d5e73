// Package dashboard serves the analytical read side over the snapshot lake:
// the merged recent dataset, KPI stats, and the whale filter.
package dashboard

import (
	"context"
	"time"

	"whalelake/internal/model"
)

// Stats are the headline numbers shown above the charts.
type Stats struct {
	// TradeCount is the number of trades in the current dataset.
	TradeCount int `json:"trade_count"`

	// LastPrice is the price of the newest trade, 0 when empty.
	LastPrice float64 `json:"last_price"`

	// MaxQuantity is the largest single trade size in the dataset.
	MaxQuantity float64 `json:"max_quantity"`

	// WindowStart and WindowEnd bound the dataset's time range.
	WindowStart time.Time `json:"window_start"`
	WindowEnd   time.Time `json:"window_end"`
}

// Loader is the dataset source the service reads from.
type Loader interface {
	Load(ctx context.Context, now time.Time) ([]model.Trade, error)
	Invalidate()
}

// Service computes dashboard views over the loader's merged dataset.
type Service struct {
	loader Loader
}

// NewService creates a dashboard service.
func NewService(loader Loader) *Service {
	return &Service{loader: loader}
}

// Trades returns the merged recent dataset, oldest first.
func (s *Service) Trades(ctx context.Context) ([]model.Trade, error) {
	return s.loader.Load(ctx, time.Now())
}

// Stats computes the KPI numbers over the current dataset.
func (s *Service) Stats(ctx context.Context) (Stats, error) {
	trades, err := s.loader.Load(ctx, time.Now())
	if err != nil {
		return Stats{}, err
	}
	return computeStats(trades), nil
}

// Whales returns dataset trades with quantity strictly above min, preserving
// time order.
func (s *Service) Whales(ctx context.Context, min float64) ([]model.Trade, error) {
	trades, err := s.loader.Load(ctx, time.Now())
	if err != nil {
		return nil, err
	}

	whales := make([]model.Trade, 0)
	for _, t := range trades {
		if t.Quantity > min {
			whales = append(whales, t)
		}
	}
	return whales, nil
}

// Refresh discards the cached dataset so the next read hits the store.
func (s *Service) Refresh() {
	s.loader.Invalidate()
}

func computeStats(trades []model.Trade) Stats {
	stats := Stats{TradeCount: len(trades)}
	if len(trades) == 0 {
		return stats
	}

	stats.WindowStart = trades[0].Time
	stats.WindowEnd = trades[len(trades)-1].Time
	stats.LastPrice = trades[len(trades)-1].Price

	for _, t := range trades {
		if t.Quantity > stats.MaxQuantity {
			stats.MaxQuantity = t.Quantity
		}
	}
	return stats
}
