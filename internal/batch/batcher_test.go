package batch

import (
	"testing"
	"time"

	"whalelake/internal/model"
)

func testTrade(price float64) model.Trade {
	return model.Trade{
		Time:     time.UnixMilli(1700000000000).UTC(),
		Price:    price,
		Quantity: 0.5,
	}
}

func TestShouldFlushRequiresElapsedInterval(t *testing.T) {
	start := time.Now()
	b := New(60*time.Second, start)
	b.Append(testTrade(100))

	if b.ShouldFlush(start.Add(59 * time.Second)) {
		t.Error("Should not flush before interval elapses")
	}
	if !b.ShouldFlush(start.Add(60 * time.Second)) {
		t.Error("Should flush exactly at the interval")
	}
	if !b.ShouldFlush(start.Add(61 * time.Second)) {
		t.Error("Should flush after the interval")
	}
}

func TestShouldFlushRequiresNonEmptyBuffer(t *testing.T) {
	start := time.Now()
	b := New(60*time.Second, start)

	if b.ShouldFlush(start.Add(10 * time.Minute)) {
		t.Error("Empty buffer should never flush")
	}
}

func TestTakeAndReset(t *testing.T) {
	start := time.Now()
	b := New(60*time.Second, start)
	b.Append(testTrade(100))
	b.Append(testTrade(200))

	flushTime := start.Add(61 * time.Second)
	taken := b.TakeAndReset(flushTime)

	if len(taken) != 2 {
		t.Fatalf("Expected 2 trades, got %d", len(taken))
	}
	if taken[0].Price != 100 || taken[1].Price != 200 {
		t.Error("Expected trades in append order")
	}
	if b.Len() != 0 {
		t.Errorf("Expected empty buffer after take, got %d", b.Len())
	}

	// Clock restarted: next flush needs a full interval from flushTime.
	if b.ShouldFlush(flushTime.Add(59 * time.Second)) {
		t.Error("Flush clock should restart on TakeAndReset")
	}
}

func TestTakeAndResetIdempotent(t *testing.T) {
	start := time.Now()
	b := New(60*time.Second, start)
	b.Append(testTrade(100))

	first := b.TakeAndReset(start.Add(time.Minute))
	second := b.TakeAndReset(start.Add(2 * time.Minute))

	if len(first) != 1 {
		t.Errorf("Expected 1 trade from first take, got %d", len(first))
	}
	if len(second) != 0 {
		t.Errorf("Expected empty second take, got %d", len(second))
	}
}

func TestAppendAfterTakeStartsFresh(t *testing.T) {
	start := time.Now()
	b := New(60*time.Second, start)
	b.Append(testTrade(100))
	b.TakeAndReset(start.Add(time.Minute))

	b.Append(testTrade(300))
	if b.Len() != 1 {
		t.Fatalf("Expected 1 trade, got %d", b.Len())
	}

	taken := b.TakeAndReset(start.Add(2 * time.Minute))
	if len(taken) != 1 || taken[0].Price != 300 {
		t.Error("Expected only the trade appended after reset")
	}
}
