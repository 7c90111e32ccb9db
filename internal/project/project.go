// Package project converts raw aggregate records into the uniform
// per-extension view models the filter engine and the dashboard consume.
package project

import (
	"sort"

	"github.com/flavioheleno/php-ext-web/internal/catalog"
	"github.com/flavioheleno/php-ext-web/internal/results"
)

// BuildSource exposes already-cached build records. Projection never
// triggers a fetch; it only attaches what is already there.
type BuildSource interface {
	Get(path string) ([]results.BuildRecord, bool)
}

// Extensions maps every aggregate record into a view model, in name order.
// The success rate is recomputed from the aggregate counts and detail
// records are attached when the source already holds them.
func Extensions(latest catalog.LatestData, source BuildSource) []results.ExtensionView {
	views := make([]results.ExtensionView, 0, len(latest))
	for name, agg := range latest {
		view := results.ExtensionView{
			Name:        name,
			Version:     agg.Version,
			UpdatedAt:   agg.UpdatedAt,
			Pass:        agg.Pass,
			Fail:        agg.Fail,
			Total:       agg.Total,
			SuccessRate: results.SuccessRate(agg.Pass, agg.Total),
			Path:        agg.Path,
		}

		if source != nil {
			if builds, ok := source.Get(agg.Path); ok {
				view.Builds = builds
			}
		}

		views = append(views, view)
	}

	sort.Slice(views, func(i, j int) bool {
		return views[i].Name < views[j].Name
	})

	return views
}
