package dashboard

import (
	"context"
	"errors"
	"testing"
	"time"

	"whalelake/internal/model"
)

type fakeLoader struct {
	trades      []model.Trade
	err         error
	invalidated bool
}

func (f *fakeLoader) Load(ctx context.Context, now time.Time) ([]model.Trade, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.trades, nil
}

func (f *fakeLoader) Invalidate() {
	f.invalidated = true
}

func dataset() []model.Trade {
	base := time.Date(2025, 11, 25, 12, 0, 0, 0, time.UTC)
	return []model.Trade{
		{Time: base, Price: 50000, Quantity: 0.01},
		{Time: base.Add(time.Minute), Price: 50100, Quantity: 2.5, BuyerMaker: true},
		{Time: base.Add(2 * time.Minute), Price: 50050, Quantity: 0.06},
	}
}

func TestServiceStats(t *testing.T) {
	svc := NewService(&fakeLoader{trades: dataset()})

	stats, err := svc.Stats(context.Background())
	if err != nil {
		t.Fatalf("Stats failed: %v", err)
	}

	if stats.TradeCount != 3 {
		t.Errorf("Expected 3 trades, got %d", stats.TradeCount)
	}
	if stats.LastPrice != 50050 {
		t.Errorf("Expected last price 50050, got %v", stats.LastPrice)
	}
	if stats.MaxQuantity != 2.5 {
		t.Errorf("Expected max quantity 2.5, got %v", stats.MaxQuantity)
	}
	if !stats.WindowStart.Before(stats.WindowEnd) {
		t.Error("Expected a non-empty time window")
	}
}

func TestServiceStatsEmptyDataset(t *testing.T) {
	svc := NewService(&fakeLoader{})

	stats, err := svc.Stats(context.Background())
	if err != nil {
		t.Fatalf("Stats failed: %v", err)
	}
	if stats.TradeCount != 0 || stats.LastPrice != 0 || stats.MaxQuantity != 0 {
		t.Errorf("Expected zero stats for empty dataset, got %+v", stats)
	}
}

func TestServiceWhalesFilter(t *testing.T) {
	svc := NewService(&fakeLoader{trades: dataset()})

	whales, err := svc.Whales(context.Background(), 0.05)
	if err != nil {
		t.Fatalf("Whales failed: %v", err)
	}

	if len(whales) != 2 {
		t.Fatalf("Expected 2 whales above 0.05, got %d", len(whales))
	}
	if whales[0].Quantity != 2.5 || whales[1].Quantity != 0.06 {
		t.Errorf("Unexpected whale set: %+v", whales)
	}
}

func TestServiceWhalesEmptyNotNil(t *testing.T) {
	svc := NewService(&fakeLoader{trades: dataset()})

	whales, err := svc.Whales(context.Background(), 100)
	if err != nil {
		t.Fatalf("Whales failed: %v", err)
	}
	if whales == nil {
		t.Error("Expected empty slice, not nil, for JSON rendering")
	}
	if len(whales) != 0 {
		t.Errorf("Expected no whales, got %d", len(whales))
	}
}

func TestServiceRefreshInvalidates(t *testing.T) {
	loader := &fakeLoader{}
	svc := NewService(loader)

	svc.Refresh()
	if !loader.invalidated {
		t.Error("Refresh should invalidate the loader cache")
	}
}

func TestServicePropagatesLoaderError(t *testing.T) {
	svc := NewService(&fakeLoader{err: errors.New("bucket unreachable")})

	if _, err := svc.Trades(context.Background()); err == nil {
		t.Error("Expected loader error from Trades")
	}
	if _, err := svc.Stats(context.Background()); err == nil {
		t.Error("Expected loader error from Stats")
	}
}
