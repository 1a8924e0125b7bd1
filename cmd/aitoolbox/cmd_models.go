package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aitoolbox/aitoolbox-cli/internal/bridge"
	"github.com/aitoolbox/aitoolbox-cli/internal/exitcodes"
	"github.com/aitoolbox/aitoolbox-cli/internal/models"
)

type providerOpts struct {
	baseURL string
	apiKey  string
	apiType string
	sdkType string
	headers []string
}

func (o providerOpts) inputs() (models.Inputs, error) {
	apiType, ok := models.ParseAPIType(o.apiType)
	if !ok {
		return models.Inputs{}, exitcodes.InvalidArgsErrorf("invalid --api-type: %s (use native|openai_compat)", o.apiType)
	}
	headers, err := parseHeaders(o.headers)
	if err != nil {
		return models.Inputs{}, err
	}
	return models.Inputs{
		BaseURL: o.baseURL,
		APIKey:  o.apiKey,
		Headers: headers,
		APIType: apiType,
		SDKType: o.sdkType,
	}, nil
}

// parseHeaders accepts "Name: value" or "Name=value".
func parseHeaders(raw []string) (map[string]string, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	out := make(map[string]string, len(raw))
	for _, h := range raw {
		name, value, ok := strings.Cut(h, ":")
		if !ok {
			name, value, ok = strings.Cut(h, "=")
		}
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return nil, exitcodes.InvalidArgsErrorf("invalid --header %q (use Name: value)", h)
		}
		out[name] = strings.TrimSpace(value)
	}
	return out, nil
}

type fetchOpts struct {
	providerOpts
	provider    string
	customURL   string
	search      string
	interactive bool
}

type modelRow struct {
	ID            string `json:"id" yaml:"id"`
	Name          string `json:"name,omitempty" yaml:"name,omitempty"`
	OwnedBy       string `json:"owned_by,omitempty" yaml:"owned_by,omitempty"`
	AlreadyExists bool   `json:"already_exists" yaml:"already_exists"`
}

type fetchResult struct {
	URL    string     `json:"url" yaml:"url"`
	Total  int        `json:"total" yaml:"total"`
	Shown  int        `json:"shown" yaml:"shown"`
	Models []modelRow `json:"models" yaml:"models"`
}

// runModelsFetch lists a provider's models through the host and marks the
// ones already configured under --provider.
func runModelsFetch(ctx context.Context, d *Deps, o fetchOpts) error {
	in, err := o.inputs()
	if err != nil {
		return err
	}

	cmds, closeFn, err := d.commands(ctx)
	if err != nil {
		return err
	}
	defer closeFn()

	var existing []string
	if o.provider != "" {
		existing, err = cmds.ExistingModelIDs(ctx, o.provider)
		if err != nil {
			return err
		}
	}

	session := models.NewSession(cmds, in, existing...)
	if o.customURL != "" {
		session.Dispatch(models.URLEdited{Value: o.customURL})
	}
	if o.search != "" {
		session.Dispatch(models.SearchChanged{Query: o.search})
	}

	if o.interactive && d.Interactive() {
		selected, err := d.Pick(ctx, session)
		if err != nil {
			return err
		}
		return printSelection(d, selected)
	}

	if err := session.Fetch(ctx); err != nil {
		return err
	}
	st := session.State()
	rows := st.Rows()

	res := fetchResult{URL: st.URL.Value, Total: st.Total, Shown: len(rows), Models: make([]modelRow, 0, len(rows))}
	for _, r := range rows {
		res.Models = append(res.Models, modelRow{
			ID:            r.Model.ID,
			Name:          r.Model.Name,
			OwnedBy:       r.Model.OwnedBy,
			AlreadyExists: r.AlreadyExists,
		})
	}

	p := d.Printer
	return p.Emit(res, func() {
		table := make([][]string, 0, len(res.Models))
		for _, m := range res.Models {
			status := "new"
			if m.AlreadyExists {
				status = "added"
			}
			table = append(table, []string{m.ID, m.Name, m.OwnedBy, status})
		}
		p.Table([]string{"ID", "NAME", "OWNER", "STATUS"}, table)
		p.Textf("\n%d shown, %d total (%s)\n", res.Shown, res.Total, res.URL)
	})
}

func printSelection(d *Deps, selected []models.FetchedModel) error {
	p := d.Printer
	if selected == nil {
		selected = []models.FetchedModel{}
	}
	return p.Emit(selected, func() {
		if len(selected) == 0 {
			p.Warn("No models selected")
			return
		}
		p.Success(fmt.Sprintf("Selected %d models", len(selected)))
		for _, m := range selected {
			p.Textf("  %s\n", m.ID)
		}
	})
}

func runModelsURL(d *Deps, o providerOpts) error {
	in, err := o.inputs()
	if err != nil {
		return err
	}
	url := models.BuildFetchURL(in.BaseURL, in.APIType, in.SDKType, in.APIKey)
	p := d.Printer
	return p.Emit(map[string]string{"url": url}, func() { p.Textf("%s\n", url) })
}

func runModelsFree(ctx context.Context, d *Deps) error {
	cmds, closeFn, err := d.commands(ctx)
	if err != nil {
		return err
	}
	defer closeFn()

	list, err := cmds.GetFreeModels(ctx)
	if err != nil {
		return err
	}
	if list == nil {
		list = []bridge.FreeModel{}
	}

	p := d.Printer
	return p.Emit(list, func() {
		rows := make([][]string, 0, len(list))
		for _, m := range list {
			provider := m.ProviderName
			if provider == "" {
				provider = m.ProviderID
			}
			rows = append(rows, []string{m.ID, m.Name, provider})
		}
		p.Table([]string{"ID", "NAME", "PROVIDER"}, rows)
	})
}

func runModelsList(ctx context.Context, d *Deps, provider string) error {
	cmds, closeFn, err := d.commands(ctx)
	if err != nil {
		return err
	}
	defer closeFn()

	list, err := cmds.GetProviderModels(ctx, provider)
	if err != nil {
		return err
	}
	if list == nil {
		list = []bridge.ProviderModel{}
	}

	p := d.Printer
	return p.Emit(list, func() {
		rows := make([][]string, 0, len(list))
		for _, m := range list {
			rows = append(rows, []string{m.ID, m.Name})
		}
		p.Table([]string{"ID", "NAME"}, rows)
	})
}

func addProviderFlags(cmd *cobra.Command, o *providerOpts) {
	cmd.Flags().StringVar(&o.baseURL, "base-url", "", "Provider base URL")
	cmd.Flags().StringVar(&o.apiKey, "api-key", "", "Provider API key")
	cmd.Flags().StringVar(&o.apiType, "api-type", string(models.APIOpenAICompat), "API type: native|openai_compat")
	cmd.Flags().StringVar(&o.sdkType, "sdk-type", "", "Provider SDK identifier, e.g. @ai-sdk/google")
	cmd.Flags().StringArrayVar(&o.headers, "header", nil, "Extra request header (Name: value), repeatable")
}

func init() {
	modelsCmd := &cobra.Command{
		Use:   "models",
		Short: "Fetch and inspect provider models",
	}

	var urlOpts providerOpts
	urlCmd := &cobra.Command{
		Use:   "url",
		Short: "Show the model listing URL derived from provider settings",
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := newDeps()
			if err != nil {
				return err
			}
			return runModelsURL(d, urlOpts)
		},
	}
	addProviderFlags(urlCmd, &urlOpts)

	var fo fetchOpts
	fetchCmd := &cobra.Command{
		Use:   "fetch",
		Short: "Fetch a provider's model list through the host",
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := newDeps()
			if err != nil {
				return err
			}
			return runModelsFetch(cmd.Context(), d, fo)
		},
	}
	addProviderFlags(fetchCmd, &fo.providerOpts)
	fetchCmd.Flags().StringVar(&fo.provider, "provider", "", "Configured provider id; its models are marked as already added")
	fetchCmd.Flags().StringVar(&fo.customURL, "url", "", "Use this listing URL instead of the derived one")
	fetchCmd.Flags().StringVar(&fo.search, "search", "", "Only show models matching this text")
	fetchCmd.Flags().BoolVarP(&fo.interactive, "interactive", "i", false, "Pick models interactively")

	freeCmd := &cobra.Command{
		Use:   "free",
		Short: "List models the host offers without a key",
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := newDeps()
			if err != nil {
				return err
			}
			return runModelsFree(cmd.Context(), d)
		},
	}

	listCmd := &cobra.Command{
		Use:   "list <provider>",
		Short: "List models configured under a provider",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := newDeps()
			if err != nil {
				return err
			}
			return runModelsList(cmd.Context(), d, args[0])
		},
	}

	modelsCmd.AddCommand(urlCmd, fetchCmd, freeCmd, listCmd)
	rootCmd.AddCommand(modelsCmd)
}
