package facts

import (
	"cmp"
	"maps"
	"slices"
	"strconv"
	"strings"
)

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// FactsByTag returns the facts carrying tag. Matching ignores case and
// surrounding whitespace on both sides.
// It fails with a *NotFoundError when no fact carries the tag.
func (s *Store) FactsByTag(tag string) ([]Fact, error) {
	want := normalize(tag)
	out := collect(s.snapshot(), func(f Fact) bool {
		return slices.ContainsFunc(f.Tags, func(t string) bool {
			return normalize(t) == want
		})
	})
	if len(out) == 0 {
		return nil, &NotFoundError{Kind: "tag", Query: tag}
	}
	return out, nil
}

// FactsByPeriod returns the facts whose period equals period, ignoring case
// and surrounding whitespace. The *NotFoundError for an unknown period lists
// the periods that do exist.
func (s *Store) FactsByPeriod(period string) ([]Fact, error) {
	want := normalize(period)
	all := s.snapshot()
	out := collect(all, func(f Fact) bool {
		return normalize(f.Period) == want
	})
	if len(out) == 0 {
		return nil, &NotFoundError{Kind: "period", Query: period, Choices: periodsOf(all)}
	}
	return out, nil
}

// FactsBeforeYear returns the facts dated in or before year.
func (s *Store) FactsBeforeYear(year int) ([]Fact, error) {
	out := collect(s.snapshot(), func(f Fact) bool { return f.Year <= year })
	if len(out) == 0 {
		return nil, &NotFoundError{Kind: "fact", Query: "year <= " + strconv.Itoa(year)}
	}
	return out, nil
}

// FactsAfterYear returns the facts dated in or after year.
// A fact dated exactly year is returned by both FactsBeforeYear and FactsAfterYear.
func (s *Store) FactsAfterYear(year int) ([]Fact, error) {
	out := collect(s.snapshot(), func(f Fact) bool { return f.Year >= year })
	if len(out) == 0 {
		return nil, &NotFoundError{Kind: "fact", Query: "year >= " + strconv.Itoa(year)}
	}
	return out, nil
}

// SortedByYearAscending returns all facts, oldest first.
// Facts sharing a year keep their stored order.
func (s *Store) SortedByYearAscending() ([]Fact, error) {
	return s.sortedByYear(func(a, b Fact) int { return cmp.Compare(a.Year, b.Year) })
}

// SortedByYearDescending returns all facts, newest first.
// Facts sharing a year keep their stored order.
func (s *Store) SortedByYearDescending() ([]Fact, error) {
	return s.sortedByYear(func(a, b Fact) int { return cmp.Compare(b.Year, a.Year) })
}

func (s *Store) sortedByYear(order func(a, b Fact) int) ([]Fact, error) {
	out, err := s.AllFacts()
	if err != nil {
		return nil, err
	}
	slices.SortStableFunc(out, order)
	return out, nil
}

// Tags returns the distinct tags in the store, sorted. Tags are listed as
// stored, so values FactsByTag treats as one tag (" Rome " and "rome") may
// appear separately.
func (s *Store) Tags() []string {
	set := make(map[string]struct{})
	for _, f := range s.snapshot() {
		for _, t := range f.Tags {
			set[t] = struct{}{}
		}
	}
	return slices.Sorted(maps.Keys(set))
}

// Periods returns the distinct non-blank periods in the store, sorted.
func (s *Store) Periods() []string {
	return periodsOf(s.snapshot())
}

func periodsOf(all []Fact) []string {
	set := make(map[string]struct{})
	for _, f := range all {
		if strings.TrimSpace(f.Period) == "" {
			continue
		}
		set[f.Period] = struct{}{}
	}
	return slices.Sorted(maps.Keys(set))
}
