package catalog

import (
	"github.com/flavioheleno/php-ext-web/internal/phpver"
	"github.com/flavioheleno/php-ext-web/internal/platform"
)

// OsExclusion marks a (version, architecture) combination the build matrix
// skips for an OS.
type OsExclusion struct {
	Version string `json:"version"`
	Arch    string `json:"arch"`
}

// OsVersions holds the build-matrix versions for one OS, plus any excluded
// version/architecture combinations.
type OsVersions struct {
	Versions []string      `json:"versions"`
	Excluded []OsExclusion `json:"excluded,omitempty"`
}

// IsExcluded reports whether a version/arch combination is excluded from the
// build matrix for this OS.
func (o OsVersions) IsExcluded(version, arch string) bool {
	for _, e := range o.Excluded {
		if e.Version == version && e.Arch == arch {
			return true
		}
	}
	return false
}

// OsCatalog maps an OS name to its build-matrix versions
type OsCatalog map[string]OsVersions

// Names returns the OS names in sorted order
func (c OsCatalog) Names() []string {
	names := make([]string, 0, len(c))
	for name := range c {
		names = append(names, name)
	}
	phpver.Sort(names)
	return names
}

// PairKeys returns every "os|version" key in the catalog, OS then version
// order. Exclusions do not remove keys; they are per-arch matrix holes.
func (c OsCatalog) PairKeys() []string {
	var keys []string
	for _, name := range c.Names() {
		for _, v := range c[name].Versions {
			keys = append(keys, platform.MakeKey(name, v))
		}
	}
	return keys
}

// VersionsByOS returns the plain os -> versions mapping used by selector
// expansion.
func (c OsCatalog) VersionsByOS() map[string][]string {
	m := make(map[string][]string, len(c))
	for name, v := range c {
		m[name] = v.Versions
	}
	return m
}

// PhpRelease holds the release tag and branch metadata for a PHP version
type PhpRelease struct {
	Ref    string `json:"ref"`
	Branch string `json:"branch"`
}

// PhpCatalog maps a PHP version label ("8.3") to its release metadata
type PhpCatalog map[string]PhpRelease

// Labels returns the PHP version labels, oldest first
func (c PhpCatalog) Labels() []string {
	labels := make([]string, 0, len(c))
	for label := range c {
		labels = append(labels, label)
	}
	phpver.Sort(labels)
	return labels
}

// ExtensionMeta describes one extension in the farm's extension index
type ExtensionMeta struct {
	URL     string `json:"url"`
	Channel string `json:"channel"`
}

// ExtensionIndex is the extensions.json document: the registry builds are
// published to, the architecture list, and per-extension metadata.
type ExtensionIndex struct {
	BaseImageRegistry string                   `json:"base_image_registry"`
	Architectures     []string                 `json:"architectures"`
	Extensions        map[string]ExtensionMeta `json:"extensions"`
}

// ExtensionAggregate is one extension's entry in latest.json: the rolled-up
// pass/fail counts of the most recent build run, plus the path of the
// per-build detail resource.
type ExtensionAggregate struct {
	Version   string `json:"version"`
	UpdatedAt string `json:"updated_at"`
	Pass      int    `json:"pass"`
	Fail      int    `json:"fail"`
	Total     int    `json:"total"`
	Path      string `json:"path"`
}

// LatestData maps an extension name to its aggregate record
type LatestData map[string]ExtensionAggregate

// Metadata is the consistent catalog snapshot the rest of the application
// consumes: OS catalog, PHP catalog and the extension index.
type Metadata struct {
	OS    OsCatalog      `json:"os"`
	PHP   PhpCatalog     `json:"php"`
	Index ExtensionIndex `json:"index"`
}
