package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/aitoolbox/aitoolbox-cli/internal/bridge"
	"github.com/aitoolbox/aitoolbox-cli/internal/exitcodes"
	"github.com/aitoolbox/aitoolbox-cli/internal/update"
)

func descriptorServer(t *testing.T, version string, hits *int32) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(hits, 1)
		fmt.Fprintf(w, `{"version":%q,"notes":"bug fixes","pub_date":"2026-10-01T00:00:00Z"}`, version)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func withVersion(t *testing.T, v string) {
	t.Helper()
	orig := Version
	Version = v
	t.Cleanup(func() { Version = orig })
}

func TestRunUpdateCheck_UpdateAvailableJSON(t *testing.T) {
	withVersion(t, "1.0.0")
	var hits int32
	srv := descriptorServer(t, "v1.2.0", &hits)

	env := newTestEnv(t, "json", nil)
	env.deps.Cfg.UpdateURL = srv.URL

	if err := runUpdateCheck(context.Background(), env.deps, updateCheckOpts{}); err != nil {
		t.Fatalf("runUpdateCheck: %v", err)
	}

	var info update.UpdateInfo
	if err := json.Unmarshal(env.out.Bytes(), &info); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, env.out.String())
	}
	if !info.HasUpdate || info.LatestVersion != "1.2.0" || info.CurrentVersion != "1.0.0" {
		t.Errorf("unexpected info %+v", info)
	}
	if info.ReleaseURL != "https://github.com/coulsontl/ai-toolbox/releases/tag/v1.2.0" {
		t.Errorf("ReleaseURL = %q", info.ReleaseURL)
	}
}

func TestRunUpdateCheck_AlwaysFetchesAndRefreshesCache(t *testing.T) {
	withVersion(t, "1.0.0")
	var hits int32
	srv := descriptorServer(t, "1.0.0", &hits)

	env := newTestEnv(t, "text", nil)
	env.deps.Cfg.UpdateURL = srv.URL

	for i := 0; i < 2; i++ {
		if err := runUpdateCheck(context.Background(), env.deps, updateCheckOpts{}); err != nil {
			t.Fatalf("runUpdateCheck: %v", err)
		}
	}
	if got := atomic.LoadInt32(&hits); got != 2 {
		t.Errorf("descriptor fetched %d times, want 2", got)
	}
	if !strings.Contains(env.out.String(), "Already up to date (v1.0.0)") {
		t.Errorf("unexpected output %q", env.out.String())
	}

	entry, err := update.LoadCache(env.deps.Cfg.HomeDir)
	if err != nil {
		t.Fatalf("LoadCache: %v", err)
	}
	if entry.LatestVersion != "1.0.0" || entry.DescriptorURL != srv.URL {
		t.Errorf("cache entry = %+v, want refreshed entry for %s", entry, srv.URL)
	}
}

func TestRunUpdateCheck_FromHost(t *testing.T) {
	withVersion(t, "9.9.9")
	var hits int32
	srv := descriptorServer(t, "2.0.0", &hits)

	mux := bridge.NewMux()
	mux.Handle(bridge.CmdGetAppVersion, func(context.Context, json.RawMessage) (any, error) {
		return "1.5.0", nil
	})
	env := newTestEnv(t, "text", mux)
	env.deps.Cfg.UpdateURL = srv.URL

	if err := runUpdateCheck(context.Background(), env.deps, updateCheckOpts{fromHost: true}); err != nil {
		t.Fatalf("runUpdateCheck: %v", err)
	}
	out := env.out.String()
	if !strings.Contains(out, "v1.5.0 → v2.0.0") {
		t.Errorf("expected host version in output, got %q", out)
	}
	if !strings.Contains(out, "bug fixes") {
		t.Errorf("expected release notes in output, got %q", out)
	}
	if !env.conn.closed {
		t.Error("bridge connection not closed")
	}
}

func TestRunUpdateCheck_ServerError(t *testing.T) {
	withVersion(t, "1.0.0")
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	env := newTestEnv(t, "text", nil)
	env.deps.Cfg.UpdateURL = srv.URL

	err := runUpdateCheck(context.Background(), env.deps, updateCheckOpts{})
	if !exitcodes.Is(err, exitcodes.NetworkError) {
		t.Fatalf("expected NetworkError, got %v", err)
	}
	if !strings.Contains(err.Error(), "503") {
		t.Errorf("error should carry the status text: %v", err)
	}
}
