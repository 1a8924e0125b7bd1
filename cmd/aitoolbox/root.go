package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"sync"

	"github.com/spf13/cobra"

	"github.com/aitoolbox/aitoolbox-cli/internal/config"
	"github.com/aitoolbox/aitoolbox-cli/internal/exitcodes"
	"github.com/aitoolbox/aitoolbox-cli/internal/logger"
	"github.com/aitoolbox/aitoolbox-cli/internal/ui"
	"github.com/aitoolbox/aitoolbox-cli/internal/update"
)

// Version information - set via -ldflags during build
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildDate = "unknown"
)

// updateCheckResult stores the result of the background update check.
var (
	updateCheckResult *update.UpdateInfo
	updateCheckMu     sync.Mutex
	updateCheckDone   chan struct{}
)

var rootCmd = &cobra.Command{
	Use:           "aitoolbox",
	Short:         "AI Toolbox",
	Long:          "Manage AI providers and models: update checks, model list fetching and config editing against a running AI Toolbox host.",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if !ui.ValidFormat(flagOutput) {
			return exitcodes.InvalidArgsErrorf("invalid --output: %s (use json|yaml|text)", flagOutput)
		}

		ui.InitGlobal(ui.Config{
			NoColor:        flagNoColor,
			NoEmoji:        flagNoEmoji,
			NonInteractive: flagNonInteractive,
			Quiet:          flagQuiet,
		})
		// lipgloss reads NO_COLOR on its own
		if flagNoColor {
			_ = os.Setenv("NO_COLOR", "1")
		}

		cfg, err := loadCfg()
		if err != nil {
			return err
		}
		level := flagLogLevel
		if level == "" {
			level = cfg.LogLevel
		}
		if err := logger.Configure(level, flagLogFile); err != nil {
			return exitcodes.WrapError(exitcodes.GeneralError, "open log file", err)
		}

		if !shouldSkipUpdateCheck(cmd) {
			updateCheckDone = make(chan struct{})
			go func(done chan struct{}) {
				defer close(done)
				checkForUpdateBackground(cfg)
			}(updateCheckDone)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if shouldSkipUpdateCheck(cmd) || updateCheckDone == nil {
			return
		}
		// Only report a result that is already in; never delay the command.
		select {
		case <-updateCheckDone:
		default:
			return
		}
		updateCheckMu.Lock()
		result := updateCheckResult
		updateCheckMu.Unlock()
		if result != nil && result.HasUpdate {
			showUpdateNotification(os.Stderr, result)
		}
	},
}

var (
	flagHome           string
	flagBridge         string
	flagOutput         string
	flagLogLevel       string
	flagLogFile        string
	flagQuiet          bool
	flagNoColor        bool
	flagNoEmoji        bool
	flagNonInteractive bool
)

func init() {
	rootCmd.PersistentFlags().StringVar(&flagHome, "home", "", "App home directory (overrides AITOOLBOX_HOME)")
	rootCmd.PersistentFlags().StringVar(&flagBridge, "bridge", "", "Host bridge websocket URL (overrides config)")
	rootCmd.PersistentFlags().StringVarP(&flagOutput, "output", "o", "text", "Output format: json|yaml|text")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Log level: debug|info|warn|error")
	rootCmd.PersistentFlags().StringVar(&flagLogFile, "log-file", "", "Write logs to this file instead of stderr")
	rootCmd.PersistentFlags().BoolVarP(&flagQuiet, "quiet", "q", false, "Quiet mode: minimal output (suppresses extras)")
	rootCmd.PersistentFlags().BoolVar(&flagNoColor, "no-color", false, "Disable ANSI colors")
	rootCmd.PersistentFlags().BoolVar(&flagNoEmoji, "no-emoji", false, "Disable emoji output")
	rootCmd.PersistentFlags().BoolVar(&flagNonInteractive, "non-interactive", false, "Never open the interactive picker")
}

func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	code := exitStatus(err)
	_ = logger.Close()
	if code != exitcodes.Success {
		os.Exit(code)
	}
}

// exitStatus reports err to the user and the log and returns the exit code.
func exitStatus(err error) int {
	if err == nil {
		return exitcodes.Success
	}
	code := exitcodes.CodeForError(err)
	logger.Component("cli").Debug("command failed", "kind", exitcodes.KindName(code), "code", code, "err", err)
	var se silentErr
	if !errors.As(err, &se) {
		ui.PrintError(os.Stderr, ui.ErrorFor(err))
	}
	return code
}

// loadCfg reads defaults, config.yaml, .env and env via internal/config and
// then applies overrides from persistent flags (home, bridge).
func loadCfg() (config.Config, error) {
	cfg, err := config.Load(flagHome)
	if err != nil {
		return config.Config{}, exitcodes.WrapError(exitcodes.GeneralError, "load config", err)
	}
	if flagBridge != "" {
		cfg.BridgeURL = flagBridge
	}
	return cfg, nil
}

// silentErr signals that the command already reported the failure.
type silentErr struct{ err error }

func (e silentErr) Error() string { return e.err.Error() }
func (e silentErr) Unwrap() error { return e.err }

func printer() ui.Printer {
	return ui.NewPrinterFromGlobal(flagOutput)
}
