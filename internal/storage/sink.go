package storage

import (
	"context"
	"log/slog"
	"time"

	"whalelake/internal/model"
)

// Sink writes flushed batches to the object store as parquet snapshots.
//
// Durability is at-most-once by default: on a failed write the batch is
// logged and dropped, matching the drop policy, and the caller has already
// cleared its buffer either way. With a spool attached, refused batches are
// parked on local disk instead and uploaded later by the spool drain.
type Sink struct {
	store  ObjectStore
	prefix string
	spool  *Spool // nil means drop on failure
	logger *slog.Logger
}

// NewSink creates a Sink with the drop-on-failure policy.
func NewSink(store ObjectStore, prefix string, logger *slog.Logger) *Sink {
	return &Sink{
		store:  store,
		prefix: prefix,
		logger: logger,
	}
}

// NewSpoolingSink creates a Sink that parks refused batches in spool
// instead of dropping them.
func NewSpoolingSink(store ObjectStore, prefix string, spool *Spool, logger *slog.Logger) *Sink {
	return &Sink{
		store:  store,
		prefix: prefix,
		spool:  spool,
		logger: logger,
	}
}

// Write serializes the batch and stores it under a key derived from now.
// Returns the key on success. On failure the error is returned for the
// caller to log; the batch itself is either gone (drop policy) or parked in
// the spool.
func (s *Sink) Write(ctx context.Context, trades []model.Trade, now time.Time) (string, error) {
	if len(trades) == 0 {
		return "", nil
	}

	key := SnapshotKey(s.prefix, now)

	body, err := EncodeSnapshot(trades)
	if err != nil {
		s.logger.Error("Failed to encode snapshot", "key", key, "count", len(trades), "error", err)
		return "", err
	}

	if err := s.store.Put(ctx, key, body); err != nil {
		if s.spool != nil {
			if spoolErr := s.spool.Park(key, body); spoolErr == nil {
				s.logger.Warn("Upload failed, snapshot spooled", "key", key, "count", len(trades), "error", err)
				return key, nil
			}
			s.logger.Error("Upload failed and spooling failed, batch lost", "key", key, "count", len(trades), "error", err)
			return "", err
		}
		s.logger.Error("Upload failed, batch dropped", "key", key, "count", len(trades), "error", err)
		return "", err
	}

	s.logger.Info("Uploaded snapshot", "key", key, "count", len(trades))
	return key, nil
}
