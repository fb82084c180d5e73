// Package batch buffers decoded trades between snapshot flushes.
package batch

import (
	"time"

	"whalelake/internal/model"
)

// Batcher accumulates trades in memory and decides, by elapsed wall-clock
// time, when the buffer should be flushed to storage. It is owned by the
// single message-handling loop and is not safe for concurrent use; there
// is exactly one writer by construction, so it carries no locks.
//
// ShouldFlush is checked once per inbound message rather than on a timer,
// so flush latency is bounded by message inter-arrival time. Under a quiet
// market a flush can be delayed indefinitely; that is an accepted tradeoff
// at this feed's throughput.
type Batcher struct {
	trades        []model.Trade
	flushInterval time.Duration
	lastFlush     time.Time
}

// New creates an empty Batcher. The first flush becomes eligible one full
// interval after start.
func New(flushInterval time.Duration, now time.Time) *Batcher {
	return &Batcher{
		trades:        make([]model.Trade, 0, 256),
		flushInterval: flushInterval,
		lastFlush:     now,
	}
}

// Append adds one trade to the buffer.
func (b *Batcher) Append(t model.Trade) {
	b.trades = append(b.trades, t)
}

// Len returns the number of buffered trades.
func (b *Batcher) Len() int {
	return len(b.trades)
}

// ShouldFlush reports whether the flush interval has elapsed and the buffer
// is non-empty. An empty buffer never flushes regardless of elapsed time.
func (b *Batcher) ShouldFlush(now time.Time) bool {
	return len(b.trades) > 0 && now.Sub(b.lastFlush) >= b.flushInterval
}

// TakeAndReset returns the buffered trades, installs a fresh empty buffer,
// and restarts the flush clock at now. A second call with no intervening
// Append returns an empty slice.
func (b *Batcher) TakeAndReset(now time.Time) []model.Trade {
	taken := b.trades
	b.trades = make([]model.Trade, 0, cap(taken))
	b.lastFlush = now
	return taken
}
