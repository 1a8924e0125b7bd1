package update

import "context"

// Descriptor is the release metadata document served at the update URL.
type Descriptor struct {
	Version string `json:"version"` // may carry a leading "v"
	Notes   string `json:"notes"`
	PubDate string `json:"pub_date"`
}

// UpdateInfo is the outcome of a single update check.
type UpdateInfo struct {
	HasUpdate      bool   `json:"has_update" yaml:"has_update"`
	CurrentVersion string `json:"current_version" yaml:"current_version"`
	LatestVersion  string `json:"latest_version" yaml:"latest_version"`
	ReleaseURL     string `json:"release_url" yaml:"release_url"`
	ReleaseNotes   string `json:"release_notes" yaml:"release_notes"`
	PubDate        string `json:"pub_date,omitempty" yaml:"pub_date,omitempty"`
	Prerelease     bool   `json:"prerelease,omitempty" yaml:"prerelease,omitempty"`
}

// VersionProvider reports the version of the running application.
type VersionProvider interface {
	CurrentVersion(ctx context.Context) (string, error)
}

// StaticVersion is a VersionProvider for a version known at build time.
type StaticVersion string

func (v StaticVersion) CurrentVersion(context.Context) (string, error) {
	return string(v), nil
}
