package filter

import (
	"strings"

	"golang.org/x/text/cases"

	"github.com/flavioheleno/php-ext-web/internal/platform"
	"github.com/flavioheleno/php-ext-web/internal/results"
)

// Apply produces the visible extension list for a filter state.
//
// Name-level predicates (search substring, extension facet) always apply.
// When no detail-granularity facet is constrained, only the coarse status
// filter runs against the aggregate counts and views pass through
// unmodified. When a detail facet is constrained, a view whose builds are
// loaded has them filtered and its counts re-aggregated from the surviving
// records; a view with zero surviving builds is dropped entirely. A view
// whose builds are not yet loaded passes through unchanged and snaps to
// exact counts once the caller has loaded them.
//
// Apply is pure: it never mutates its inputs and re-running it with the
// same state and views yields the same output.
func Apply(state State, views []results.ExtensionView) []results.ExtensionView {
	// Casers are stateful, so each call folds with its own.
	fold := cases.Fold()
	needle := fold.String(state.Search)
	detail := state.HasDetailFilters()

	visible := make([]results.ExtensionView, 0, len(views))
	for _, view := range views {
		if needle != "" && !strings.Contains(fold.String(view.Name), needle) {
			continue
		}
		if !state.Extensions.Contains(view.Name) {
			continue
		}

		if !detail {
			// Coarse status filter over aggregate counts.
			if state.Status == StatusSuccess && view.Fail > 0 {
				continue
			}
			if state.Status == StatusFailure && view.Fail == 0 {
				continue
			}
			visible = append(visible, view)
			continue
		}

		// nil means not loaded yet; an empty non-nil slice is a loaded
		// result and is filtered like any other.
		if view.Builds == nil {
			visible = append(visible, view)
			continue
		}

		builds := FilterBuilds(state, view.Builds)
		if len(builds) == 0 {
			continue
		}

		pass := 0
		for _, b := range builds {
			if b.Succeeded() {
				pass++
			}
		}

		view.Builds = builds
		view.Pass = pass
		view.Fail = len(builds) - pass
		view.Total = len(builds)
		view.SuccessRate = results.SuccessRate(pass, len(builds))
		visible = append(visible, view)
	}

	return visible
}

// FilterBuilds keeps the build records that match every constrained facet:
// the OS facet on the build's "os|version" pair, the PHP and architecture
// facets on their fields, and the status facet on the build outcome.
func FilterBuilds(state State, records []results.BuildRecord) []results.BuildRecord {
	kept := make([]results.BuildRecord, 0, len(records))
	for _, record := range records {
		if !state.OS.Contains(platform.MakeKey(record.Platform, record.PlatformVersion)) {
			continue
		}
		if !state.PHP.Contains(record.PHPVersion) {
			continue
		}
		if !state.Arch.Contains(record.Arch) {
			continue
		}
		if state.Status != StatusAll && string(state.Status) != record.Status {
			continue
		}
		kept = append(kept, record)
	}
	return kept
}

// Stats summarizes an already-filtered extension list. Every build counts
// equally; there is no per-extension weighting.
type Stats struct {
	Total       int `json:"total"`
	Pass        int `json:"pass"`
	Fail        int `json:"fail"`
	SuccessRate int `json:"success_rate"`
}

// Summarize sums the counts across the given views
func Summarize(views []results.ExtensionView) Stats {
	var stats Stats
	for _, view := range views {
		stats.Total += view.Total
		stats.Pass += view.Pass
		stats.Fail += view.Fail
	}
	stats.SuccessRate = results.SuccessRate(stats.Pass, stats.Total)
	return stats
}
