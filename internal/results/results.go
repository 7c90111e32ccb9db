// Package results defines the build-result domain types and the projection
// from raw aggregate records to per-extension view models.
package results

import (
	"math"
)

// Build status values as emitted by the build farm
const (
	StatusSuccess = "success"
	StatusFailure = "failure"
)

// BuildRecord represents one build attempt of an extension on a specific
// platform/php/arch combination. Records are immutable and fetched in bulk
// per extension.
type BuildRecord struct {
	Extension        string `json:"extension"`
	ExtensionVersion string `json:"extension_version"`
	Channel          string `json:"channel"`
	PHPVersion       string `json:"php_version"`
	Platform         string `json:"platform"`
	PlatformVersion  string `json:"platform_version"`
	Arch             string `json:"arch"`
	Status           string `json:"status"`
	StartedAt        string `json:"started_at"`
	FinishedAt       string `json:"finished_at"`
	WorkflowRunID    int64  `json:"workflow_run_id"`
	RunAttempt       int    `json:"run_attempt"`
	GitSHA           string `json:"git_sha"`
	LogURL           string `json:"log_url"`
	AssetName        string `json:"asset_name"`
}

// Succeeded reports whether the build finished successfully
func (b BuildRecord) Succeeded() bool {
	return b.Status == StatusSuccess
}

// ExtensionView is the transient per-extension view model the dashboard
// renders. It carries the aggregate counts plus the detail records when
// those have been loaded; Builds stays nil until then.
type ExtensionView struct {
	Name        string        `json:"name"`
	Version     string        `json:"version"`
	UpdatedAt   string        `json:"updated_at"`
	Pass        int           `json:"pass"`
	Fail        int           `json:"fail"`
	Total       int           `json:"total"`
	SuccessRate int           `json:"success_rate"`
	Path        string        `json:"path"`
	Builds      []BuildRecord `json:"builds,omitempty"`
}

// SuccessRate computes the integer success percentage for a pass/total
// pair. Zero total yields zero; otherwise the ratio is rounded half away
// from zero into [0,100].
func SuccessRate(pass, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(100 * float64(pass) / float64(total)))
}
