package update

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const (
	cacheFileName = ".update-check"
	cacheDuration = 10 * time.Minute
)

// CacheEntry stores the last update check result
type CacheEntry struct {
	CheckedAt       time.Time `json:"checked_at"`
	LatestVersion   string    `json:"latest_version"`
	UpdateAvailable bool      `json:"update_available"`
	ReleaseURL      string    `json:"release_url,omitempty"`
	ReleaseNotes    string    `json:"release_notes,omitempty"`
	DescriptorURL   string    `json:"descriptor_url,omitempty"`
}

// GetCachePath returns the path to the cache file
func GetCachePath(homeDir string) string {
	return filepath.Join(homeDir, cacheFileName)
}

// LoadCache loads the cached update check result
func LoadCache(homeDir string) (*CacheEntry, error) {
	data, err := os.ReadFile(GetCachePath(homeDir))
	if err != nil {
		return nil, err
	}

	var entry CacheEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil, err
	}
	return &entry, nil
}

// SaveCache saves the update check result, creating homeDir if needed.
func SaveCache(homeDir string, entry *CacheEntry) error {
	data, err := json.MarshalIndent(entry, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(homeDir, 0o755); err != nil {
		return err
	}
	return os.WriteFile(GetCachePath(homeDir), data, 0o644)
}

// IsCacheValid returns true if cache is fresh (< 10m old)
func IsCacheValid(entry *CacheEntry) bool {
	return time.Since(entry.CheckedAt) < cacheDuration
}

// CachedCheck answers from a fresh cache entry for the same descriptor when
// one exists and otherwise performs a network check and records it. Only the
// latest version is taken from the cache; HasUpdate is always recomputed
// against the version being checked now.
func CachedCheck(ctx context.Context, c *Checker, homeDir string) (*UpdateInfo, error) {
	entry, err := LoadCache(homeDir)
	if err == nil && IsCacheValid(entry) && entry.DescriptorURL == c.DescriptorURL {
		current, err := c.Versions.CurrentVersion(ctx)
		if err == nil && strings.TrimSpace(current) != "" {
			current = strings.TrimSpace(current)
			return &UpdateInfo{
				HasUpdate:      IsNewerVersion(current, entry.LatestVersion),
				CurrentVersion: current,
				LatestVersion:  entry.LatestVersion,
				ReleaseURL:     entry.ReleaseURL,
				ReleaseNotes:   entry.ReleaseNotes,
				Prerelease:     IsPrerelease(entry.LatestVersion),
			}, nil
		}
	}
	return ForceCheck(ctx, c, homeDir)
}

// ForceCheck performs a fresh update check, ignoring cache, and stores the
// result for later CachedCheck calls. Cache write failures are ignored.
func ForceCheck(ctx context.Context, c *Checker, homeDir string) (*UpdateInfo, error) {
	info, err := c.Check(ctx)
	if err != nil {
		return nil, err
	}

	_ = SaveCache(homeDir, &CacheEntry{
		CheckedAt:       time.Now(),
		LatestVersion:   info.LatestVersion,
		UpdateAvailable: info.HasUpdate,
		ReleaseURL:      info.ReleaseURL,
		ReleaseNotes:    info.ReleaseNotes,
		DescriptorURL:   c.DescriptorURL,
	})
	return info, nil
}
