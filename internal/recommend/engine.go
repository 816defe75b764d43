// Package recommend orchestrates inventory, matching, catalog lookups and
// version comparison into per-application update recommendations.
package recommend

import (
	"context"
	"fmt"

	"github.com/docdyhr/versiontracker-sub000/internal/catalog"
	"github.com/docdyhr/versiontracker-sub000/internal/inventory"
	"github.com/docdyhr/versiontracker-sub000/internal/match"
	"github.com/docdyhr/versiontracker-sub000/internal/version"
)

// Status classifies one installed application against the catalog.
type Status string

const (
	StatusUpToDate Status = "up_to_date"
	StatusOutdated Status = "outdated"
	StatusNewer    Status = "newer_than_catalog"
	StatusNotFound Status = "not_found"
	StatusUnknown  Status = "unknown"
	StatusSkipped  Status = "skipped"
)

// Recommendation is the engine's verdict for one installed application.
// The sequence returned by Run preserves inventory order.
type Recommendation struct {
	// Name is the application's display name
	Name string `json:"name"`
	// InstalledVersion is the raw installed version string
	InstalledVersion string `json:"installed_version"`
	// CaskToken is the matched catalog identifier, empty when unmatched
	CaskToken string `json:"cask,omitempty"`
	// CatalogVersion is the catalog's current version, empty when unknown
	CatalogVersion string `json:"catalog_version,omitempty"`
	// Score is the match confidence in [0,1]
	Score float64 `json:"score,omitempty"`
	// Status is derived solely from the version comparison
	Status Status `json:"status"`
	// Detail carries the failure message behind an unknown status
	Detail string `json:"detail,omitempty"`
}

// Engine classifies every installed application. A failure for one
// application degrades that row to unknown; the run always produces a
// complete result set.
type Engine struct {
	provider inventory.Provider
	matcher  *match.Matcher
	coord    *catalog.Coordinator
	excludes map[string]bool
}

// EngineOption is a functional option for configuring Engine
type EngineOption func(*Engine)

// WithExcludes skips the named applications. Names are matched after
// normalization, so config files can hold display names.
func WithExcludes(names []string, norm *match.Normalizer) EngineOption {
	return func(e *Engine) {
		for _, n := range names {
			e.excludes[norm.Normalize(n)] = true
		}
	}
}

// NewEngine wires the collaborators together. The coordinator owns the
// cache; the engine owns nothing with a lifecycle.
func NewEngine(provider inventory.Provider, matcher *match.Matcher, coord *catalog.Coordinator, opts ...EngineOption) *Engine {
	e := &Engine{
		provider: provider,
		matcher:  matcher,
		coord:    coord,
		excludes: make(map[string]bool),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Run produces one recommendation per installed application, in inventory
// order. It returns an error only when the inventory itself cannot be read;
// catalog failures degrade individual rows to unknown instead.
func (e *Engine) Run(ctx context.Context) ([]Recommendation, error) {
	apps, err := e.provider.Applications(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read inventory: %w", err)
	}

	tokens, catErr := e.coord.Catalog(ctx)
	entries := make([]match.CatalogEntry, len(tokens))
	for i, token := range tokens {
		entries[i] = match.CatalogEntry{Token: token}
	}

	recs := make([]Recommendation, len(apps))
	matched := make([]int, 0, len(apps))
	keys := make([]string, 0, len(apps))

	for i, app := range apps {
		rec := Recommendation{
			Name:             app.Name,
			InstalledVersion: app.Version,
		}

		switch {
		case e.excludes[e.matcher.Normalize(app.Name)]:
			rec.Status = StatusSkipped
		case catErr != nil:
			rec.Status = StatusUnknown
			rec.Detail = catErr.Error()
		default:
			if best, ok := e.matcher.Best(app.Name, entries); ok {
				rec.CaskToken = best.Token
				rec.Score = best.Score
				matched = append(matched, i)
				keys = append(keys, best.Token)
			} else {
				rec.Status = StatusNotFound
			}
		}

		recs[i] = rec
	}

	if len(keys) > 0 {
		results := e.coord.FetchMany(ctx, keys)
		for _, i := range matched {
			rec := &recs[i]
			res := results[rec.CaskToken]
			if res.Err != nil {
				rec.Status = StatusUnknown
				rec.Detail = res.Err.Error()
				continue
			}
			rec.CatalogVersion = res.Version
			rec.Status = classify(rec.InstalledVersion, res.Version)
		}
	}

	return recs, nil
}

// classify derives the status from the version comparison alone.
func classify(installed, catalogVersion string) Status {
	switch version.Compare(version.Parse(installed), version.Parse(catalogVersion)) {
	case -1:
		return StatusOutdated
	case 1:
		return StatusNewer
	}
	return StatusUpToDate
}
