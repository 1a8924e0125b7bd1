package update

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"github.com/aitoolbox/aitoolbox-cli/internal/exitcodes"
	"github.com/aitoolbox/aitoolbox-cli/internal/logger"
)

const (
	userAgent   = "aitoolbox-cli"
	httpTimeout = 30 * time.Second

	// versionPlaceholder is replaced in the release URL template.
	versionPlaceholder = "{version}"
)

// ErrCheckInFlight is returned when Check is called while a previous call on
// the same Checker has not returned yet.
var ErrCheckInFlight = exitcodes.PreconditionError("an update check is already in progress")

// HTTPDoer is the subset of *http.Client used by the checker.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Checker fetches the release descriptor and compares it with the running
// version. A Checker allows one check at a time.
type Checker struct {
	Versions           VersionProvider
	DescriptorURL      string
	ReleaseURLTemplate string
	Client             HTTPDoer

	busy atomic.Bool
}

// NewChecker creates a checker with a default HTTP client.
func NewChecker(versions VersionProvider, descriptorURL, releaseURLTemplate string) *Checker {
	return &Checker{
		Versions:           versions,
		DescriptorURL:      descriptorURL,
		ReleaseURLTemplate: releaseURLTemplate,
		Client:             &http.Client{Timeout: httpTimeout},
	}
}

// Busy reports whether a check is currently outstanding.
func (c *Checker) Busy() bool { return c.busy.Load() }

// Check performs one update check. Network failures and non-success statuses
// are returned as NetworkError, undecodable bodies as ParseError. Nothing is
// retried.
func (c *Checker) Check(ctx context.Context) (*UpdateInfo, error) {
	if !c.busy.CompareAndSwap(false, true) {
		return nil, ErrCheckInFlight
	}
	defer c.busy.Store(false)

	log := logger.Component("update")

	current, err := c.Versions.CurrentVersion(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read current version: %w", err)
	}
	current = strings.TrimSpace(current)
	if current == "" {
		return nil, exitcodes.ValidationErr("current version is empty")
	}

	desc, err := c.FetchDescriptor(ctx)
	if err != nil {
		log.Warn("update check failed", "url", c.DescriptorURL, "err", err)
		return nil, err
	}

	latest := strings.TrimPrefix(desc.Version, "v")
	info := &UpdateInfo{
		HasUpdate:      CompareVersions(latest, current) > 0,
		CurrentVersion: current,
		LatestVersion:  latest,
		ReleaseURL:     ReleaseURL(c.ReleaseURLTemplate, latest),
		ReleaseNotes:   desc.Notes,
		PubDate:        desc.PubDate,
		Prerelease:     IsPrerelease(latest),
	}
	log.Debug("update check complete", "current", current, "latest", latest, "has_update", info.HasUpdate)
	return info, nil
}

// FetchDescriptor downloads and decodes the release descriptor.
func (c *Checker) FetchDescriptor(ctx context.Context) (*Descriptor, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.DescriptorURL, nil)
	if err != nil {
		return nil, exitcodes.WrapError(exitcodes.NetworkError, "invalid release descriptor URL", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	client := c.Client
	if client == nil {
		client = &http.Client{Timeout: httpTimeout}
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, exitcodes.WrapError(exitcodes.NetworkError, "failed to fetch release descriptor", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, exitcodes.NetworkErrf("release descriptor request failed: %s", statusText(resp))
	}

	var desc Descriptor
	if err := json.NewDecoder(resp.Body).Decode(&desc); err != nil {
		return nil, exitcodes.ParseErr("failed to parse release descriptor", err)
	}
	return &desc, nil
}

// ReleaseURL substitutes version into a release page template.
func ReleaseURL(template, version string) string {
	return strings.ReplaceAll(template, versionPlaceholder, version)
}

// statusText prefers the server's status line and falls back to the
// canonical text when a test or proxy leaves Status empty.
func statusText(resp *http.Response) string {
	if resp.Status != "" {
		return resp.Status
	}
	return fmt.Sprintf("%d %s", resp.StatusCode, http.StatusText(resp.StatusCode))
}

// IsNetworkError reports whether err came from the transport or a
// non-success HTTP status.
func IsNetworkError(err error) bool {
	return exitcodes.Is(err, exitcodes.NetworkError)
}

// IsParseError reports whether err came from decoding the descriptor.
func IsParseError(err error) bool {
	return exitcodes.Is(err, exitcodes.ParseError)
}

// IsInFlight reports whether err is ErrCheckInFlight.
func IsInFlight(err error) bool {
	return errors.Is(err, ErrCheckInFlight)
}
