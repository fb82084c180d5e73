package alert

import (
	"strings"
	"testing"
	"time"

	"whalelake/internal/model"
)

func sampleTrade(quantity float64, buyerMaker bool) model.Trade {
	return model.Trade{
		Time:       time.UnixMilli(1700000000000).UTC(),
		Price:      50000.00,
		Quantity:   quantity,
		BuyerMaker: buyerMaker,
	}
}

func TestClassifyBelowThreshold(t *testing.T) {
	msg, ok := Classify(sampleTrade(0.01, false), 1.0)
	if ok {
		t.Errorf("Expected no alert below threshold, got %q", msg)
	}
}

func TestClassifyAtThreshold(t *testing.T) {
	// >= threshold fires, not strictly greater
	if _, ok := Classify(sampleTrade(1.0, false), 1.0); !ok {
		t.Error("Expected alert at exact threshold")
	}
}

func TestClassifySellSide(t *testing.T) {
	msg, ok := Classify(sampleTrade(1.5, true), 1.0)
	if !ok {
		t.Fatal("Expected alert to fire")
	}

	if !strings.Contains(msg, "SELL") {
		t.Errorf("Expected SELL side in message: %q", msg)
	}
	if !strings.Contains(msg, "1.5000 BTC") {
		t.Errorf("Expected quantity 1.5000 BTC in message: %q", msg)
	}
	if !strings.Contains(msg, "Price: $50,000.00") {
		t.Errorf("Expected formatted price in message: %q", msg)
	}
	if !strings.Contains(msg, "Value: $75,000") {
		t.Errorf("Expected notional 75,000 in message: %q", msg)
	}
	if !strings.Contains(msg, "2023-11-14") {
		t.Errorf("Expected timestamp in message: %q", msg)
	}
}

func TestClassifyBuySide(t *testing.T) {
	msg, ok := Classify(sampleTrade(2.0, false), 1.0)
	if !ok {
		t.Fatal("Expected alert to fire")
	}
	if !strings.Contains(msg, "BUY") {
		t.Errorf("Expected BUY side in message: %q", msg)
	}
	if strings.Contains(msg, "SELL") {
		t.Errorf("Did not expect SELL side in message: %q", msg)
	}
}

// Monotonic in quantity: if a trade fires, any larger trade fires too.
func TestClassifyMonotonic(t *testing.T) {
	threshold := 1.0
	quantities := []float64{1.0, 1.01, 2.5, 10, 1000}

	fired := false
	for _, q := range quantities {
		_, ok := Classify(sampleTrade(q, false), threshold)
		if fired && !ok {
			t.Errorf("Classification not monotonic: quantity %v did not fire after a smaller one did", q)
		}
		if ok {
			fired = true
		}
	}
	if !fired {
		t.Error("Expected at least one alert to fire")
	}
}

func TestGroupThousands(t *testing.T) {
	tests := []struct {
		v        float64
		decimals int
		expected string
	}{
		{75000, 0, "75,000"},
		{50000.00, 2, "50,000.00"},
		{999, 0, "999"},
		{1000, 0, "1,000"},
		{1234567.89, 2, "1,234,567.89"},
		{0.5, 2, "0.50"},
		{-12345, 0, "-12,345"},
	}

	for _, tt := range tests {
		if got := groupThousands(tt.v, tt.decimals); got != tt.expected {
			t.Errorf("groupThousands(%v, %d) = %q, want %q", tt.v, tt.decimals, got, tt.expected)
		}
	}
}
