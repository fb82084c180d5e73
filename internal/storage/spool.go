package storage

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/sethvargo/go-retry"
)

const (
	drainInterval  = 30 * time.Second
	uploadBackoff  = 2 * time.Second
	uploadMaxTries = 5
)

// Spool parks snapshots that the object store refused, as files on local
// disk, and re-uploads them in the background. It exists as the corrected
// alternative to the default drop-on-failure policy, which silently loses a
// batch per failed write.
type Spool struct {
	dir    string
	store  ObjectStore
	logger *slog.Logger
}

// NewSpool creates the spool directory if needed.
func NewSpool(dir string, store ObjectStore, logger *slog.Logger) (*Spool, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create spool dir %s: %w", dir, err)
	}
	return &Spool{dir: dir, store: store, logger: logger}, nil
}

// Park writes one refused snapshot to the spool directory under its object
// key. The write goes through a temp file and rename so the drain never
// picks up a half-written snapshot.
func (sp *Spool) Park(key string, body []byte) error {
	tmp := filepath.Join(sp.dir, key+".tmp")
	if err := os.WriteFile(tmp, body, 0o644); err != nil {
		return fmt.Errorf("write spool file: %w", err)
	}
	if err := os.Rename(tmp, filepath.Join(sp.dir, key)); err != nil {
		return fmt.Errorf("commit spool file: %w", err)
	}
	return nil
}

// Run drains the spool on an interval until ctx is cancelled.
func (sp *Spool) Run(ctx context.Context) {
	ticker := time.NewTicker(drainInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			sp.drain(ctx)
		}
	}
}

// drain attempts to upload every spooled snapshot, oldest first, deleting
// each file once stored. Snapshots that still fail stay for the next pass.
func (sp *Spool) drain(ctx context.Context) {
	entries, err := os.ReadDir(sp.dir)
	if err != nil {
		sp.logger.Error("Failed to read spool dir", "dir", sp.dir, "error", err)
		return
	}

	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != snapshotExt {
			continue
		}
		if err := sp.upload(ctx, entry.Name()); err != nil {
			if ctx.Err() != nil {
				return
			}
			sp.logger.Warn("Spooled snapshot still not uploaded", "key", entry.Name(), "error", err)
		}
	}
}

// upload pushes one spooled file with a bounded constant-backoff retry.
func (sp *Spool) upload(ctx context.Context, key string) error {
	path := filepath.Join(sp.dir, key)
	body, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read spool file: %w", err)
	}

	backoff := retry.WithMaxRetries(uploadMaxTries, retry.NewConstant(uploadBackoff))
	err = retry.Do(ctx, backoff, func(ctx context.Context) error {
		if err := sp.store.Put(ctx, key, body); err != nil {
			return retry.RetryableError(err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	if err := os.Remove(path); err != nil {
		sp.logger.Warn("Uploaded spooled snapshot but failed to remove file", "path", path, "error", err)
	} else {
		sp.logger.Info("Drained spooled snapshot", "key", key)
	}
	return nil
}
