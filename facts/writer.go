package facts

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"histfacts/storage"
)

const (
	maxRetries       = 3
	retryBackoffBase = 100 * time.Millisecond
)

// Writer seeds a storage backend with a dataset.
type Writer struct {
	m   *storage.Manager
	cfg *Config
}

func NewWriter(m *storage.Manager, opts ...Option) *Writer {
	cfg := newConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return &Writer{m: m, cfg: cfg}
}

// Execute replaces the backend's dataset with dataset. Transient
// serialization conflicts are retried with exponential backoff.
func (w *Writer) Execute(ctx context.Context, dataset []Fact) error {
	if len(dataset) == 0 {
		return ErrEmptyDataset
	}
	if err := checkIDs(dataset); err != nil {
		return err
	}
	if w.m == nil {
		return storage.ErrNotStarted
	}
	repo, err := w.m.Facts()
	if err != nil {
		return err
	}

	recs := toRecords(dataset)
	for attempt := 0; ; attempt++ {
		err := w.replace(ctx, repo, recs)
		if err == nil {
			w.cfg.Logger.Info("facts written",
				zap.String("dialect", w.m.Dialect()),
				zap.Int("facts", len(recs)),
			)
			return nil
		}
		if !isRetriableError(err) || attempt >= maxRetries-1 {
			return fmt.Errorf("write facts: %w", err)
		}

		backoff := retryBackoffBase * time.Duration(1<<attempt)
		w.cfg.Logger.Warn("write facts failed, retrying",
			zap.Int("attempt", attempt+1),
			zap.Duration("backoff", backoff),
			zap.Error(err),
		)
		select {
		case <-time.After(backoff):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (w *Writer) replace(ctx context.Context, repo storage.FactRepo, recs []storage.FactRecord) error {
	ctx, cancel := context.WithTimeout(ctx, w.cfg.Timeout)
	defer cancel()
	return repo.ReplaceAll(ctx, recs)
}

// checkIDs rejects datasets a backend could not store one row per fact.
func checkIDs(dataset []Fact) error {
	seen := make(map[int]struct{}, len(dataset))
	for _, f := range dataset {
		if f.ID <= 0 {
			return &InvalidArgumentError{Arg: "id", Value: f.ID, Reason: "must be a positive integer"}
		}
		if _, dup := seen[f.ID]; dup {
			return &InvalidArgumentError{Arg: "id", Value: f.ID, Reason: "duplicate fact id"}
		}
		seen[f.ID] = struct{}{}
	}
	return nil
}

func isRetriableError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	for _, s := range []string{"restart transaction", "serialization failure", "database is locked", "sqlite_busy"} {
		if strings.Contains(msg, s) {
			return true
		}
	}
	return false
}
