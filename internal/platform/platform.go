// Package platform provides OS/version pair handling for the build matrix.
// Builds are keyed by a "os|version" pair (e.g. "alpine|3.20"), which is the
// unit the OS facet filter selects on.
package platform

import (
	"fmt"
	"strings"
)

// Separator joins the OS name and version in a pair key.
const Separator = "|"

// Pair represents a target OS/version combination
type Pair struct {
	OS      string // alpine, debian, ubuntu
	Version string // 3.20, bookworm, 24.04
}

// Key returns the canonical "os|version" key for this pair
func (p Pair) Key() string {
	return p.OS + Separator + p.Version
}

// String returns a human-readable "os version" form
func (p Pair) String() string {
	return p.OS + " " + p.Version
}

// MakeKey builds a pair key from separate OS and version strings
func MakeKey(os, version string) string {
	return os + Separator + version
}

// ParseKey splits a "os|version" key back into a Pair.
// Versions never contain the separator, so the first one wins.
func ParseKey(key string) (Pair, error) {
	idx := strings.Index(key, Separator)
	if idx <= 0 || idx == len(key)-1 {
		return Pair{}, fmt.Errorf("invalid platform key: %q", key)
	}

	return Pair{
		OS:      key[:idx],
		Version: key[idx+1:],
	}, nil
}

// ResolvePairs converts user-supplied platform selectors to pair keys.
// Selectors may be full "os|version" keys or a bare OS name, which expands
// to every version of that OS known to the catalog.
func ResolvePairs(selectors []string, known map[string][]string) ([]string, error) {
	var result []string
	for _, sel := range selectors {
		sel = strings.TrimSpace(sel)
		if sel == "" {
			continue
		}

		if strings.Contains(sel, Separator) {
			if _, err := ParseKey(sel); err != nil {
				return nil, err
			}
			result = append(result, sel)
			continue
		}

		versions, ok := known[sel]
		if !ok {
			return nil, fmt.Errorf("unknown platform: %s", sel)
		}
		for _, v := range versions {
			result = append(result, MakeKey(sel, v))
		}
	}

	return result, nil
}
