package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/aitoolbox/aitoolbox-cli/internal/config"
	"github.com/aitoolbox/aitoolbox-cli/internal/logger"
	"github.com/aitoolbox/aitoolbox-cli/internal/ui"
	"github.com/aitoolbox/aitoolbox-cli/internal/update"
)

// backgroundCheckTimeout bounds the startup update check.
const backgroundCheckTimeout = 5 * time.Second

type versionInfo struct {
	Version   string `json:"version" yaml:"version"`
	Commit    string `json:"commit" yaml:"commit"`
	BuildDate string `json:"build_date" yaml:"build_date"`
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version",
	RunE: func(cmd *cobra.Command, args []string) error {
		p := printer()
		v := versionInfo{Version: Version, Commit: Commit, BuildDate: BuildDate}
		return p.Emit(v, func() {
			p.Textf("aitoolbox %s (%s) built %s\n", Version, Commit, BuildDate)
		})
	},
}

var completionCmd = &cobra.Command{
	Use:   "completion [bash|zsh|fish|powershell]",
	Short: "Generate shell completion",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		switch args[0] {
		case "bash":
			return rootCmd.GenBashCompletion(os.Stdout)
		case "zsh":
			return rootCmd.GenZshCompletion(os.Stdout)
		case "fish":
			return rootCmd.GenFishCompletion(os.Stdout, true)
		case "powershell":
			return rootCmd.GenPowerShellCompletionWithDesc(os.Stdout)
		default:
			return fmt.Errorf("unknown shell: %s", args[0])
		}
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(completionCmd)
}

// checkForUpdateBackground runs a cached update check and stores a positive
// result for PersistentPostRun. Failures are only logged.
func checkForUpdateBackground(cfg config.Config) {
	ctx, cancel := context.WithTimeout(context.Background(), backgroundCheckTimeout)
	defer cancel()

	c := update.NewChecker(update.StaticVersion(Version), cfg.UpdateURL, cfg.ReleaseURLTemplate)
	info, err := update.CachedCheck(ctx, c, cfg.HomeDir)
	if err != nil {
		logger.Component("update").Debug("background update check failed", "err", err)
		return
	}
	if info.HasUpdate {
		updateCheckMu.Lock()
		updateCheckResult = info
		updateCheckMu.Unlock()
	}
}

// showUpdateNotification displays an update notice after the command completes.
func showUpdateNotification(w io.Writer, info *update.UpdateInfo) {
	if flagOutput == ui.FormatJSON || flagOutput == ui.FormatYAML {
		return
	}
	if flagQuiet {
		return
	}

	c := ui.NewColorConfigFromGlobal()
	fmt.Fprintln(w)
	fmt.Fprintln(w, c.Separator(60))
	fmt.Fprintln(w, c.Warning(fmt.Sprintf("  Update available: %s → %s", info.CurrentVersion, info.LatestVersion)))
	if info.ReleaseURL != "" {
		fmt.Fprintln(w, c.Info("  "+info.ReleaseURL))
	}
	fmt.Fprintln(w, c.Separator(60))
}

// shouldSkipUpdateCheck returns true for commands where update notifications are disruptive
func shouldSkipUpdateCheck(cmd *cobra.Command) bool {
	switch cmd.Name() {
	case "update", "check", "help", "version", "completion", "__complete":
		return true
	}
	if Version == "dev" {
		return true
	}
	return cmd.Parent() != nil && cmd.Parent().Name() == "update"
}
