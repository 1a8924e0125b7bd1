package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aitoolbox/aitoolbox-cli/internal/configedit"
	"github.com/aitoolbox/aitoolbox-cli/internal/exitcodes"
	"github.com/aitoolbox/aitoolbox-cli/internal/ohmyopencode"
)

type configTarget struct {
	common bool
}

func (t configTarget) name() string {
	if t.common {
		return "common config"
	}
	return "config"
}

func readConfigFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", exitcodes.WrapError(exitcodes.InvalidArgs, "read "+path, err)
	}
	return string(data), nil
}

// runConfigGet prints the stored config, pretty-printed.
func runConfigGet(ctx context.Context, d *Deps, t configTarget) error {
	cmds, closeFn, err := d.commands(ctx)
	if err != nil {
		return err
	}
	defer closeFn()

	get := cmds.GetConfig
	if t.common {
		get = cmds.GetCommonConfig
	}
	raw, err := get(ctx)
	if err != nil {
		return err
	}

	ed := configedit.NewEditor(string(raw))
	if err := ed.Format(); err != nil {
		return exitcodes.WrapError(exitcodes.ParseError, "host returned an invalid "+t.name(), err)
	}
	value, err := ed.Value()
	if err != nil {
		return err
	}
	p := d.Printer
	return p.Emit(value, func() { p.Textf("%s\n", ed.Text()) })
}

// runConfigValidate checks a local JSON file and reports the first error
// position.
func runConfigValidate(d *Deps, path string) error {
	text, err := readConfigFile(path)
	if err != nil {
		return err
	}
	v := configedit.Validate(text)

	p := d.Printer
	if err := p.Emit(v, func() {
		if v.Valid {
			p.Success(path + " is valid")
			return
		}
		if v.Line > 0 {
			p.Error(fmt.Sprintf("%s:%d:%d: %s", path, v.Line, v.Column, v.Err))
		} else {
			p.Error(fmt.Sprintf("%s: %s", path, v.Err))
		}
	}); err != nil {
		return err
	}
	if !v.Valid {
		return silentErr{exitcodes.ValidationErrf("%s is not a valid config", path)}
	}
	return nil
}

// runConfigFormat re-indents a local JSON file, in place with write.
func runConfigFormat(d *Deps, path string, write bool) error {
	text, err := readConfigFile(path)
	if err != nil {
		return err
	}
	ed := configedit.NewEditor(text)
	if err := ed.Format(); err != nil {
		return err
	}

	p := d.Printer
	if !write {
		p.Textf("%s\n", ed.Text())
		return nil
	}

	var (
		changed bool
		backup  string
	)
	err = ed.Save(context.Background(), func(_ context.Context, c json.RawMessage) error {
		var werr error
		changed, backup, werr = d.Files.Write(path, append([]byte(c), '\n'))
		return werr
	})
	if err != nil {
		return exitcodes.WrapError(exitcodes.GeneralError, "write "+path, err)
	}
	if !changed {
		p.Info(path + " is already formatted")
		return nil
	}
	p.Success("Formatted " + path)
	if backup != "" {
		p.KeyValueLine("Backup", backup, "dim")
	}
	return nil
}

// runConfigSet stores a local JSON file as the host config. With merge the
// file is deep-merged over the current stored config first.
func runConfigSet(ctx context.Context, d *Deps, t configTarget, path string, merge bool) error {
	text, err := readConfigFile(path)
	if err != nil {
		return err
	}
	ed := configedit.NewEditor("")
	if v := ed.Change(text); !v.Valid {
		if v.Line > 0 {
			return exitcodes.ValidationErrf("%s:%d:%d: %s", path, v.Line, v.Column, v.Err)
		}
		return exitcodes.ValidationErrf("%s: %s", path, v.Err)
	}

	cmds, closeFn, err := d.commands(ctx)
	if err != nil {
		return err
	}
	defer closeFn()

	get, save := cmds.GetConfig, cmds.SaveConfig
	if t.common {
		get, save = cmds.GetCommonConfig, cmds.SaveCommonConfig
	}

	if merge {
		raw, err := get(ctx)
		if err != nil {
			return err
		}
		current, err := configedit.NewEditor(string(raw)).Value()
		if err != nil {
			return exitcodes.WrapError(exitcodes.ParseError, "host returned an invalid "+t.name(), err)
		}
		overlay, err := ed.Value()
		if err != nil {
			return err
		}
		ohmyopencode.DeepMerge(current, overlay)
		merged, err := json.MarshalIndent(current, "", "  ")
		if err != nil {
			return exitcodes.WrapError(exitcodes.GeneralError, "encode merged config", err)
		}
		ed.Change(string(merged))
	}

	if err := ed.Save(ctx, save); err != nil {
		return err
	}
	d.Printer.Success("Saved " + t.name())
	return nil
}

// runConfigAgents decodes a stored oh-my-opencode record from a local file
// and prints it in normalized snake_case form.
func runConfigAgents(d *Deps, path string, global bool) error {
	text, err := readConfigFile(path)
	if err != nil {
		return err
	}
	value, err := configedit.NewEditor(text).Value()
	if err != nil {
		return err
	}

	var normalized map[string]any
	if global {
		g := ohmyopencode.GlobalConfigFromDBValue(value)
		normalized = ohmyopencode.GlobalConfigToDBValue(ohmyopencode.GlobalConfigContent{
			ConfigID:       g.ID,
			Schema:         g.Schema,
			SisyphusAgent:  g.SisyphusAgent,
			DisabledAgents: g.DisabledAgents,
			DisabledMCPs:   g.DisabledMCPs,
			DisabledHooks:  g.DisabledHooks,
			LSP:            g.LSP,
			Experimental:   g.Experimental,
			OtherFields:    g.OtherFields,
			UpdatedAt:      g.UpdatedAt,
		})
	} else {
		c := ohmyopencode.FromDBValue(value)
		normalized = ohmyopencode.ToDBValue(ohmyopencode.ConfigContent{
			ConfigID:    c.ID,
			Name:        c.Name,
			IsApplied:   c.IsApplied,
			Agents:      c.Agents,
			OtherFields: c.OtherFields,
			CreatedAt:   c.CreatedAt,
			UpdatedAt:   c.UpdatedAt,
		})
	}

	// text mode prints JSON too; a normalized record has no tabular form
	p := d.Printer
	if p.Structured() {
		return p.Emit(normalized, nil)
	}
	return p.JSON(normalized)
}

func init() {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Read, validate and store JSON configs",
	}

	var getTarget configTarget
	getCmd := &cobra.Command{
		Use:   "get",
		Short: "Print the stored config",
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := newDeps()
			if err != nil {
				return err
			}
			return runConfigGet(cmd.Context(), d, getTarget)
		},
	}
	getCmd.Flags().BoolVar(&getTarget.common, "common", false, "Use the shared common config")

	validateCmd := &cobra.Command{
		Use:   "validate <file>",
		Short: "Check that a file is a valid JSON config",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := newDeps()
			if err != nil {
				return err
			}
			return runConfigValidate(d, args[0])
		},
	}

	var formatWrite bool
	formatCmd := &cobra.Command{
		Use:   "format <file>",
		Short: "Re-indent a JSON config",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := newDeps()
			if err != nil {
				return err
			}
			return runConfigFormat(d, args[0], formatWrite)
		},
	}
	formatCmd.Flags().BoolVarP(&formatWrite, "write", "w", false, "Write the result back to the file")

	var (
		setTarget configTarget
		setMerge  bool
	)
	setCmd := &cobra.Command{
		Use:   "set <file>",
		Short: "Store a JSON file as the config",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := newDeps()
			if err != nil {
				return err
			}
			return runConfigSet(cmd.Context(), d, setTarget, args[0], setMerge)
		},
	}
	setCmd.Flags().BoolVar(&setTarget.common, "common", false, "Use the shared common config")
	setCmd.Flags().BoolVar(&setMerge, "merge", false, "Deep-merge over the stored config instead of replacing it")

	var agentsGlobal bool
	agentsCmd := &cobra.Command{
		Use:   "agents <file>",
		Short: "Normalize a stored oh-my-opencode profile record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := newDeps()
			if err != nil {
				return err
			}
			return runConfigAgents(d, args[0], agentsGlobal)
		},
	}
	agentsCmd.Flags().BoolVar(&agentsGlobal, "global", false, "Treat the file as the global settings record")

	configCmd.AddCommand(getCmd, validateCmd, formatCmd, setCmd, agentsCmd)
	rootCmd.AddCommand(configCmd)
}
