package facts

import "slices"

// Known period labels used by the bundled dataset.
const (
	PeriodPrehistoric = "prehistoric"
	PeriodAncient     = "ancient"
	PeriodMedieval    = "medieval"
	PeriodRenaissance = "renaissance"
	PeriodEarlyModern = "early modern"
)

// DefaultPeriods lists the period labels in chronological order.
var DefaultPeriods = []string{
	PeriodPrehistoric,
	PeriodAncient,
	PeriodMedieval,
	PeriodRenaissance,
	PeriodEarlyModern,
}

// Fact is a single historical fact record.
// Year is negative for BC and non-negative for AD/CE.
type Fact struct {
	ID         int
	Text       string
	ImageURL   string
	Tags       []string
	Period     string
	Year       int
	IsExplicit bool
}

// Clone returns a deep copy of f.
func (f Fact) Clone() Fact {
	f.Tags = slices.Clone(f.Tags)
	return f
}

// FamilyFriendly reports whether the fact may be shown without content warnings.
func (f Fact) FamilyFriendly() bool { return !f.IsExplicit }

func cloneAll(in []Fact) []Fact {
	out := make([]Fact, len(in))
	for i := range in {
		out[i] = in[i].Clone()
	}
	return out
}
