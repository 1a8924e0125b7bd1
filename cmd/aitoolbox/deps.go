package main

import (
	"context"
	"io"
	"net/http"
	"os"

	"github.com/aitoolbox/aitoolbox-cli/internal/bridge"
	"github.com/aitoolbox/aitoolbox-cli/internal/config"
	"github.com/aitoolbox/aitoolbox-cli/internal/files"
	"github.com/aitoolbox/aitoolbox-cli/internal/models"
	"github.com/aitoolbox/aitoolbox-cli/internal/picker"
	"github.com/aitoolbox/aitoolbox-cli/internal/ui"
	"github.com/aitoolbox/aitoolbox-cli/internal/update"
)

// hostConn is an open connection to the host command bridge.
type hostConn interface {
	bridge.Invoker
	Close() error
}

// Deps holds all injectable dependencies for command handlers.
type Deps struct {
	Cfg     config.Config
	Printer ui.Printer
	Output  io.Writer
	HTTP    update.HTTPDoer
	Files   *files.Store

	// Dial opens the host bridge.
	Dial func(ctx context.Context, url string) (hostConn, error)
	// Interactive reports whether the picker may be shown.
	Interactive func() bool
	// Pick runs the interactive picker and returns the confirmed selection.
	Pick func(ctx context.Context, s *models.Session) ([]models.FetchedModel, error)
}

// newDeps builds production dependencies from the loaded config and flags.
func newDeps() (*Deps, error) {
	cfg, err := loadCfg()
	if err != nil {
		return nil, err
	}
	return &Deps{
		Cfg:     cfg,
		Printer: printer(),
		Output:  os.Stdout,
		HTTP:    &http.Client{Timeout: cfg.HTTPTimeout},
		Files:   files.New(),
		Dial: func(ctx context.Context, url string) (hostConn, error) {
			return bridge.Dial(ctx, url)
		},
		Interactive: ui.IsInteractive,
		Pick: func(ctx context.Context, s *models.Session) ([]models.FetchedModel, error) {
			defer ui.ResetTerminalAfterTUI()
			return picker.Run(ctx, s, os.Stdin, os.Stdout)
		},
	}, nil
}

// commands dials the host and returns typed commands plus a close func.
func (d *Deps) commands(ctx context.Context) (*bridge.Commands, func(), error) {
	conn, err := d.Dial(ctx, d.Cfg.BridgeURL)
	if err != nil {
		return nil, nil, err
	}
	return bridge.NewCommands(conn), func() { _ = conn.Close() }, nil
}

// newChecker builds an update checker for the given version source.
func (d *Deps) newChecker(versions update.VersionProvider) *update.Checker {
	c := update.NewChecker(versions, d.Cfg.UpdateURL, d.Cfg.ReleaseURLTemplate)
	if d.HTTP != nil {
		c.Client = d.HTTP
	}
	return c
}
