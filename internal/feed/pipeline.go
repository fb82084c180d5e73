package feed

import (
	"context"
	"log/slog"
	"time"

	"whalelake/internal/alert"
	"whalelake/internal/batch"
	"whalelake/internal/model"
)

// Notifier delivers a formatted alert, best-effort.
type Notifier interface {
	Send(ctx context.Context, text string)
}

// SnapshotWriter persists one flushed batch.
type SnapshotWriter interface {
	Write(ctx context.Context, trades []model.Trade, now time.Time) (string, error)
}

// Pipeline is the per-message processing path: decode, classify and notify,
// append, flush when due. All stages run synchronously on the supervisor's
// single message-handling goroutine, so the batcher needs no locking.
type Pipeline struct {
	batcher   *batch.Batcher
	sink      SnapshotWriter
	notifier  Notifier
	threshold float64
	logger    *slog.Logger
	now       func() time.Time
}

// NewPipeline wires the pipeline stages together. threshold is the whale
// alert quantity.
func NewPipeline(batcher *batch.Batcher, sink SnapshotWriter, notifier Notifier, threshold float64, logger *slog.Logger) *Pipeline {
	return &Pipeline{
		batcher:   batcher,
		sink:      sink,
		notifier:  notifier,
		threshold: threshold,
		logger:    logger,
		now:       time.Now,
	}
}

// HandleMessage processes one inbound feed message. Decode failures are
// logged and dropped without touching pipeline state. The batch buffer is
// cleared before the storage write is attempted, so a refused write loses
// that interval's trades under the drop policy; the sink logs it.
func (p *Pipeline) HandleMessage(ctx context.Context, raw []byte) {
	trade, err := DecodeTrade(raw)
	if err != nil {
		p.logger.Warn("Dropping malformed feed message", "error", err)
		return
	}

	if msg, ok := alert.Classify(trade, p.threshold); ok {
		p.notifier.Send(ctx, msg)
	}

	p.batcher.Append(trade)

	now := p.now()
	if p.batcher.ShouldFlush(now) {
		flushed := p.batcher.TakeAndReset(now)
		p.sink.Write(ctx, flushed, now)
	}
}
