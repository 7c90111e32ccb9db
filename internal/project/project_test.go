package project

import (
	"testing"

	"github.com/flavioheleno/php-ext-web/internal/catalog"
	"github.com/flavioheleno/php-ext-web/internal/results"
)

// mapSource serves builds from a plain map, mimicking the build cache
type mapSource map[string][]results.BuildRecord

func (m mapSource) Get(path string) ([]results.BuildRecord, bool) {
	records, ok := m[path]
	return records, ok
}

func TestExtensions(t *testing.T) {
	latest := catalog.LatestData{
		"redis": {
			Version:   "6.2.0",
			UpdatedAt: "2026-08-01T00:00:00Z",
			Pass:      8,
			Fail:      2,
			Total:     10,
			Path:      "results/redis.json",
		},
		"apcu": {
			Version: "5.1.24",
			Pass:    0,
			Fail:    0,
			Total:   0,
			Path:    "results/apcu.json",
		},
	}

	views := Extensions(latest, nil)

	if len(views) != 2 {
		t.Fatalf("Extensions() returned %d views, want 2", len(views))
	}

	// Deterministic name order regardless of map iteration.
	if views[0].Name != "apcu" || views[1].Name != "redis" {
		t.Errorf("views not sorted by name: %s, %s", views[0].Name, views[1].Name)
	}

	redis := views[1]
	if redis.SuccessRate != 80 {
		t.Errorf("redis SuccessRate = %d, want 80", redis.SuccessRate)
	}
	if redis.Pass != 8 || redis.Fail != 2 || redis.Total != 10 {
		t.Errorf("redis counts = %d/%d/%d, want 8/2/10", redis.Pass, redis.Fail, redis.Total)
	}
	if redis.Builds != nil {
		t.Errorf("redis builds should be nil without a source")
	}

	// Zero total must not divide by zero.
	if views[0].SuccessRate != 0 {
		t.Errorf("apcu SuccessRate = %d, want 0", views[0].SuccessRate)
	}
}

func TestExtensionsAttachesCachedBuilds(t *testing.T) {
	latest := catalog.LatestData{
		"redis": {Pass: 1, Fail: 0, Total: 1, Path: "results/redis.json"},
		"xdebug": {Pass: 1, Fail: 1, Total: 2, Path: "results/xdebug.json"},
	}

	source := mapSource{
		"results/redis.json": {
			{Extension: "redis", Status: results.StatusSuccess},
		},
	}

	views := Extensions(latest, source)

	for _, v := range views {
		switch v.Name {
		case "redis":
			if len(v.Builds) != 1 {
				t.Errorf("redis should have its cached build attached, got %d", len(v.Builds))
			}
		case "xdebug":
			if v.Builds != nil {
				t.Errorf("xdebug has no cached builds, got %v", v.Builds)
			}
		}
	}
}
