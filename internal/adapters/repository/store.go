// Package repository persists the leaderboard collection behind a tiered store:
// Redis, then a local JSON file, then process memory.
package repository

import (
	"context"
	"fmt"
	"slices"

	"github.com/okian/typerank/internal/domain/score"
)

// Collection is the persisted aggregate: every score record in insertion
// order. Its JSON form is the document stored by every tier.
type Collection struct {
	Scores []score.Record `json:"scores"`
}

// Clone returns a deep copy whose Scores slice is never nil.
func (c Collection) Clone() Collection {
	out := Collection{Scores: slices.Clone(c.Scores)}
	if out.Scores == nil {
		out.Scores = []score.Record{}
	}
	return out
}

// Len returns the number of records.
func (c Collection) Len() int { return len(c.Scores) }

// Rejected is a stored record dropped on load.
type Rejected struct {
	Index int
	ID    string
	Err   error
}

// Sanitize splits the collection into the records that satisfy the record
// invariants and the ones that do not. Of records sharing an id, the first
// is kept.
func (c Collection) Sanitize() (Collection, []Rejected) {
	kept := Collection{Scores: make([]score.Record, 0, len(c.Scores))}
	var rejected []Rejected
	seen := make(map[string]struct{}, len(c.Scores))
	for i, rec := range c.Scores {
		if err := rec.Validate(); err != nil {
			rejected = append(rejected, Rejected{Index: i, ID: rec.ID, Err: err})
			continue
		}
		if _, dup := seen[rec.ID]; dup {
			rejected = append(rejected, Rejected{Index: i, ID: rec.ID, Err: fmt.Errorf("duplicate id %q", rec.ID)})
			continue
		}
		seen[rec.ID] = struct{}{}
		kept.Scores = append(kept.Scores, rec)
	}
	return kept, rejected
}

// Store provides whole-collection reads and writes.
type Store interface {
	// Load returns the current collection. An empty store yields an empty collection.
	Load(ctx context.Context) (Collection, error)
	// Save replaces the stored collection.
	Save(ctx context.Context, c Collection) error
}

// Tier is one level of the fallback chain.
type Tier interface {
	Store
	// Name labels the tier in logs and metrics.
	Name() string
}
