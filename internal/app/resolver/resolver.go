// Package resolver narrows partial track references to catalog matches.
package resolver

import (
	"context"

	"github.com/cockroachdb/errors"

	"github.com/stavik/jambot/internal/domain/track"
	"github.com/stavik/jambot/internal/infra/catalog"
)

// Resolver resolves user track references against the catalog using tiered
// widening: exact, then prefix, then substring. The first tier with any
// candidates decides the outcome, which keeps fuzzy matches from shadowing
// exact ones and makes repeated runs reproducible.
type Resolver struct {
	catalog       catalog.Catalog
	maxCandidates int
}

// New creates a resolver. maxCandidates bounds ambiguous results.
func New(cat catalog.Catalog, maxCandidates int) *Resolver {
	if maxCandidates < 2 {
		maxCandidates = 10
	}
	return &Resolver{catalog: cat, maxCandidates: maxCandidates}
}

// Resolve finds catalog matches for a reference.
//
// A URI reference is looked up directly. With an artist hint, both fields
// must match within a tier before widening to title-only matching. A bare
// reference is matched against titles first and against artist names as a
// last resort, so "queen" alone surfaces the artist's tracks as candidates.
func (r *Resolver) Resolve(ctx context.Context, ref track.Ref) (track.MatchResult, error) {
	if ref.IsZero() {
		return track.NotFound(), nil
	}

	if ref.URI != "" {
		t, err := r.catalog.LookupURI(ctx, ref.URI)
		if errors.Is(err, catalog.ErrNotFound) {
			return track.NotFound(), nil
		}
		if err != nil {
			return track.NotFound(), errors.Wrap(err, "catalog lookup failed")
		}
		return track.Unique(t), nil
	}

	phases := []track.Ref{ref}
	if ref.Artist != "" {
		phases = append(phases, track.Ref{Title: ref.Title})
	} else {
		phases = append(phases, track.Ref{Artist: ref.Title})
	}

	for _, phase := range phases {
		result, err := r.resolveTiered(ctx, phase)
		if err != nil {
			return track.NotFound(), err
		}
		if result.Kind != track.MatchNotFound {
			return result, nil
		}
	}
	return track.NotFound(), nil
}

// resolveTiered runs one reference through the widening tiers.
func (r *Resolver) resolveTiered(ctx context.Context, ref track.Ref) (track.MatchResult, error) {
	for _, tier := range catalog.Tiers {
		candidates, err := r.catalog.Search(ctx, ref, tier, r.maxCandidates)
		if err != nil {
			return track.NotFound(), errors.Wrap(err, "catalog search failed")
		}
		switch len(candidates) {
		case 0:
			continue
		case 1:
			return track.Unique(candidates[0]), nil
		default:
			return track.Ambiguous(candidates), nil
		}
	}
	return track.NotFound(), nil
}
