package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/aitoolbox/aitoolbox-cli/internal/bridge"
	"github.com/aitoolbox/aitoolbox-cli/internal/config"
	"github.com/aitoolbox/aitoolbox-cli/internal/files"
	"github.com/aitoolbox/aitoolbox-cli/internal/models"
	"github.com/aitoolbox/aitoolbox-cli/internal/ui"
)

// errMock is a generic error for test assertions.
var errMock = errors.New("mock error")

// muxConn adapts an in-process bridge.Mux to hostConn.
type muxConn struct {
	*bridge.Mux
	closed bool
}

func (m *muxConn) Close() error {
	m.closed = true
	return nil
}

type testEnv struct {
	deps   *Deps
	out    *bytes.Buffer
	conn   *muxConn
	dialed int
}

// newTestEnv builds Deps writing to a buffer, with the host served by mux.
func newTestEnv(t *testing.T, format string, mux *bridge.Mux) *testEnv {
	t.Helper()
	if mux == nil {
		mux = bridge.NewMux()
	}
	env := &testEnv{out: &bytes.Buffer{}, conn: &muxConn{Mux: mux}}

	p := ui.NewPrinter(format).WithWriter(env.out)
	p.Colors = &ui.ColorConfig{Enabled: false, EmojiEnabled: false, Theme: ui.DefaultTheme()}

	cfg := config.Defaults()
	cfg.HomeDir = t.TempDir()
	cfg.BridgeURL = "ws://host.invalid/bridge"

	env.deps = &Deps{
		Cfg:     cfg,
		Printer: p,
		Output:  env.out,
		HTTP:    http.DefaultClient,
		Files:   files.New(),
		Dial: func(ctx context.Context, url string) (hostConn, error) {
			env.dialed++
			return env.conn, nil
		},
		Interactive: func() bool { return false },
		Pick: func(ctx context.Context, s *models.Session) ([]models.FetchedModel, error) {
			t.Fatal("picker should not run")
			return nil, nil
		},
	}
	return env
}

// decodeArgs unmarshals handler arguments or fails the test.
func decodeArgs(t *testing.T, raw json.RawMessage, v any) {
	t.Helper()
	if err := json.Unmarshal(raw, v); err != nil {
		t.Fatalf("decode args: %v", err)
	}
}
