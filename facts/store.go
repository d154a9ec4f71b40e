package facts

import (
	"math/rand/v2"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"
)

// Store is an in-memory, read-mostly collection of facts.
//
// Every accessor returns deep copies, so callers may freely modify results.
// Queries run against an immutable snapshot and are safe for concurrent use;
// Reload swaps in a new snapshot atomically.
type Store struct {
	cfg   *Config
	facts atomic.Pointer[[]Fact]

	mu  sync.Mutex // guards rng
	rng *rand.Rand
}

// New copies dataset into a new Store.
// It returns ErrEmptyDataset when dataset is nil or empty.
func New(dataset []Fact, opts ...Option) (*Store, error) {
	cfg := newConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return newStore(cfg, dataset)
}

func newStore(cfg *Config, dataset []Fact) (*Store, error) {
	if len(dataset) == 0 {
		return nil, ErrEmptyDataset
	}

	s := &Store{
		cfg: cfg,
		rng: rand.New(cfg.randSource()),
	}
	snap := cloneAll(dataset)
	s.facts.Store(&snap)

	cfg.Logger.Debug("fact store built", zap.Int("facts", len(snap)))
	return s, nil
}

// Reload replaces the stored facts with a copy of dataset.
// On error the current facts are kept.
func (s *Store) Reload(dataset []Fact) error {
	if len(dataset) == 0 {
		return ErrEmptyDataset
	}
	snap := cloneAll(dataset)
	old := s.facts.Swap(&snap)

	prev := 0
	if old != nil {
		prev = len(*old)
	}
	s.logger().Debug("fact store reloaded",
		zap.Int("previous", prev),
		zap.Int("facts", len(snap)),
	)
	return nil
}

func (s *Store) snapshot() []Fact {
	if p := s.facts.Load(); p != nil {
		return *p
	}
	return nil
}

func (s *Store) logger() *zap.Logger {
	if s.cfg == nil || s.cfg.Logger == nil {
		return zap.NewNop()
	}
	return s.cfg.Logger
}

func (s *Store) intN(n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.rng == nil {
		return rand.IntN(n)
	}
	return s.rng.IntN(n)
}

// Count returns the number of stored facts.
func (s *Store) Count() int { return len(s.snapshot()) }

// RandomFact returns a uniformly chosen fact.
func (s *Store) RandomFact() (Fact, error) {
	all := s.snapshot()
	if len(all) == 0 {
		return Fact{}, ErrEmptyDataset
	}
	return all[s.intN(len(all))].Clone(), nil
}

// RandomFamilyFriendlyFact returns a uniformly chosen fact that is not
// flagged explicit. It fails with ErrNotFound when every fact is explicit.
func (s *Store) RandomFamilyFriendlyFact() (Fact, error) {
	all := s.snapshot()
	if len(all) == 0 {
		return Fact{}, ErrEmptyDataset
	}

	idx := make([]int, 0, len(all))
	for i := range all {
		if all[i].FamilyFriendly() {
			idx = append(idx, i)
		}
	}
	if len(idx) == 0 {
		return Fact{}, &NotFoundError{Kind: "family-friendly fact"}
	}
	return all[idx[s.intN(len(idx))]].Clone(), nil
}

// FactByID returns the first fact with the given id.
// A missing id is not an error: the result is (nil, nil).
func (s *Store) FactByID(id int) (*Fact, error) {
	if id <= 0 {
		return nil, &InvalidArgumentError{Arg: "id", Value: id, Reason: "must be a positive integer"}
	}
	all := s.snapshot()
	for i := range all {
		if all[i].ID == id {
			f := all[i].Clone()
			return &f, nil
		}
	}
	return nil, nil
}

// AllFacts returns every fact in stored order.
func (s *Store) AllFacts() ([]Fact, error) {
	all := s.snapshot()
	if len(all) == 0 {
		return nil, ErrEmptyDataset
	}
	return cloneAll(all), nil
}

// AllFamilyFriendlyFacts returns the non-explicit facts in stored order.
// The result is empty, not an error, when every fact is explicit.
func (s *Store) AllFamilyFriendlyFacts() ([]Fact, error) {
	all := s.snapshot()
	if len(all) == 0 {
		return nil, ErrEmptyDataset
	}
	out := collect(all, Fact.FamilyFriendly)
	if out == nil {
		out = []Fact{}
	}
	return out, nil
}

// collect returns copies of the facts accepted by keep, preserving order.
func collect(all []Fact, keep func(Fact) bool) []Fact {
	var out []Fact
	for i := range all {
		if keep(all[i]) {
			out = append(out, all[i].Clone())
		}
	}
	return out
}
