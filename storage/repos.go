package storage

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
)

// FactRecord is the persisted form of a fact.
// Position keeps the dataset order across backends.
type FactRecord struct {
	ID          int
	UUID        string
	Position    int
	Text        string
	ImageURL    string
	Tags        []string
	Period      string
	Year        int
	IsExplicit  bool
	DateCreated time.Time
}

// FactRepo stores a dataset of facts.
type FactRepo interface {
	// Upsert inserts rec after the last stored fact, or replaces the fact with
	// the same ID in place. rec.Position is ignored.
	Upsert(ctx context.Context, rec FactRecord) error
	// ReplaceAll swaps the stored dataset for recs, assigning positions in slice order.
	ReplaceAll(ctx context.Context, recs []FactRecord) error
	// List returns all facts ordered by position.
	List(ctx context.Context) ([]FactRecord, error)
	Count(ctx context.Context) (int64, error)
	DeleteAll(ctx context.Context) error
}

// stamp fills identity columns left empty by the caller.
func stamp(rec *FactRecord, now time.Time) {
	if rec.UUID == "" {
		rec.UUID = uuid.New().String()
	}
	if rec.DateCreated.IsZero() {
		rec.DateCreated = now
	}
}

func decodeAnyTime(v any) (time.Time, bool) {
	switch x := v.(type) {
	case time.Time:
		return x, true
	case string:
		return parseTimeString(x)
	case []byte:
		return parseTimeString(string(x))
	default:
		return time.Time{}, false
	}
}

func parseTimeString(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	layouts := []string{
		time.RFC3339Nano,
		time.RFC3339,
		"2006-01-02 15:04:05.999999999-07:00", // modernc.org/sqlite time.Time encoding
		"2006-01-02 15:04:05.999999999",
		"2006-01-02 15:04:05",
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
