package facts

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"histfacts/storage"
)

// Load builds a Store from the dataset held by a storage backend.
// An empty backend yields ErrEmptyDataset.
func Load(ctx context.Context, m *storage.Manager, opts ...Option) (*Store, error) {
	cfg := newConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	dataset, err := fetch(ctx, m, cfg)
	if err != nil {
		return nil, err
	}
	s, err := newStore(cfg, dataset)
	if err != nil {
		return nil, err
	}
	cfg.Logger.Info("facts loaded",
		zap.String("dialect", m.Dialect()),
		zap.Int("facts", len(dataset)),
	)
	return s, nil
}

// ReloadFrom replaces the stored facts with the dataset held by m.
func (s *Store) ReloadFrom(ctx context.Context, m *storage.Manager) error {
	cfg := s.cfg
	if cfg == nil {
		cfg = newConfig()
	}
	dataset, err := fetch(ctx, m, cfg)
	if err != nil {
		return err
	}
	return s.Reload(dataset)
}

func fetch(ctx context.Context, m *storage.Manager, cfg *Config) ([]Fact, error) {
	if m == nil {
		return nil, storage.ErrNotStarted
	}
	repo, err := m.Facts()
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, cfg.Timeout)
	defer cancel()

	recs, err := repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list facts: %w", err)
	}
	return fromRecords(recs), nil
}

func fromRecords(recs []storage.FactRecord) []Fact {
	out := make([]Fact, 0, len(recs))
	for _, r := range recs {
		out = append(out, Fact{
			ID:         r.ID,
			Text:       r.Text,
			ImageURL:   r.ImageURL,
			Tags:       r.Tags,
			Period:     r.Period,
			Year:       r.Year,
			IsExplicit: r.IsExplicit,
		})
	}
	return out
}

func toRecords(dataset []Fact) []storage.FactRecord {
	out := make([]storage.FactRecord, 0, len(dataset))
	for i, f := range dataset {
		out = append(out, storage.FactRecord{
			ID:         f.ID,
			Position:   i,
			Text:       f.Text,
			ImageURL:   f.ImageURL,
			Tags:       f.Tags,
			Period:     f.Period,
			Year:       f.Year,
			IsExplicit: f.IsExplicit,
		})
	}
	return out
}
