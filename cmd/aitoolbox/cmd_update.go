package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aitoolbox/aitoolbox-cli/internal/update"
)

type updateCheckOpts struct {
	fromHost bool
}

// runUpdateCheck performs a fresh check and prints the result. The on-disk
// cache only serves the background notice; this refreshes it.
func runUpdateCheck(ctx context.Context, d *Deps, opts updateCheckOpts) error {
	var versions update.VersionProvider = update.StaticVersion(Version)
	if opts.fromHost {
		cmds, closeFn, err := d.commands(ctx)
		if err != nil {
			return err
		}
		defer closeFn()
		versions = cmds
	}

	info, err := update.ForceCheck(ctx, d.newChecker(versions), d.Cfg.HomeDir)
	if err != nil {
		return err
	}

	p := d.Printer
	return p.Emit(info, func() {
		if !info.HasUpdate {
			p.Success(fmt.Sprintf("Already up to date (v%s)", info.CurrentVersion))
			return
		}
		p.Info(fmt.Sprintf("Update available: v%s → v%s", info.CurrentVersion, info.LatestVersion))
		if info.Prerelease {
			p.Warn("The latest release is a pre-release")
		}
		if info.PubDate != "" {
			p.KeyValueLine("Published", info.PubDate, "dim")
		}
		p.KeyValueLine("Release", info.ReleaseURL, "blue")
		if info.ReleaseNotes != "" {
			p.Section("Release notes")
			p.Textf("%s\n", info.ReleaseNotes)
		}
	})
}

func init() {
	var opts updateCheckOpts

	updateCmd := &cobra.Command{
		Use:   "update",
		Short: "Check for a newer AI Toolbox release",
	}

	checkCmd := &cobra.Command{
		Use:   "check",
		Short: "Compare the running version with the latest release",
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := newDeps()
			if err != nil {
				return err
			}
			return runUpdateCheck(cmd.Context(), d, opts)
		},
	}
	checkCmd.Flags().BoolVar(&opts.fromHost, "host", false, "Check the version reported by the host instead of this CLI")

	updateCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(updateCmd)
}
