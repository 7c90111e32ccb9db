// Package phpver provides ordering for version labels coming from the build
// farm catalogs. PHP versions are "major.minor" labels ("8.3"), OS versions
// are either numeric ("3.20", "24.04") or codenames ("bookworm"), so sorting
// is semver-aware with a lexical fallback.
package phpver

import (
	"errors"
	"sort"

	"github.com/Masterminds/semver/v3"
)

// ErrInvalidVersion indicates a label that cannot be parsed as a version
var ErrInvalidVersion = errors.New("invalid version format")

// Parse parses a version label into a semver version.
// Partial labels like "8.3" are accepted (missing parts default to zero).
func Parse(label string) (*semver.Version, error) {
	v, err := semver.NewVersion(label)
	if err != nil {
		return nil, ErrInvalidVersion
	}
	return v, nil
}

// Compare orders two version labels.
// Semver-parseable labels sort before codename labels; two semver labels
// compare numerically, two codenames compare lexically.
// Returns <0 if a<b, 0 if equal, >0 if a>b.
func Compare(a, b string) int {
	va, errA := Parse(a)
	vb, errB := Parse(b)

	switch {
	case errA == nil && errB == nil:
		return va.Compare(vb)
	case errA == nil:
		return -1
	case errB == nil:
		return 1
	default:
		switch {
		case a < b:
			return -1
		case a > b:
			return 1
		default:
			return 0
		}
	}
}

// Sort orders version labels ascending, in place.
func Sort(labels []string) {
	sort.SliceStable(labels, func(i, j int) bool {
		return Compare(labels[i], labels[j]) < 0
	})
}

// SortDescending orders version labels newest-first, in place.
func SortDescending(labels []string) {
	sort.SliceStable(labels, func(i, j int) bool {
		return Compare(labels[i], labels[j]) > 0
	})
}

// Latest returns the highest version label, or "" for an empty slice.
func Latest(labels []string) string {
	if len(labels) == 0 {
		return ""
	}
	latest := labels[0]
	for _, l := range labels[1:] {
		if Compare(l, latest) > 0 {
			latest = l
		}
	}
	return latest
}
