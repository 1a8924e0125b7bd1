package bridge

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/aitoolbox/aitoolbox-cli/internal/exitcodes"
	"github.com/aitoolbox/aitoolbox-cli/internal/models"
)

// Host command names.
const (
	CmdFetchProviderModels = "fetch_provider_models"
	CmdGetConfig           = "get_config"
	CmdSaveConfig          = "save_config"
	CmdGetCommonConfig     = "get_common_config"
	CmdSaveCommonConfig    = "save_common_config"
	CmdGetFreeModels       = "get_free_models"
	CmdGetProviderModels   = "get_provider_models"
	CmdGetAppVersion       = "get_app_version"
)

// FreeModel is a model the host offers without a provider key.
type FreeModel struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	ProviderID   string `json:"providerId"`
	ProviderName string `json:"providerName,omitempty"`
}

// ProviderModel is a model already configured under a provider.
type ProviderModel struct {
	ID   string `json:"id"`
	Name string `json:"name,omitempty"`
}

// Commands wraps an Invoker with the typed host commands.
type Commands struct {
	inv Invoker
}

// NewCommands returns typed commands over inv.
func NewCommands(inv Invoker) *Commands {
	return &Commands{inv: inv}
}

// FetchProviderModels implements models.Lister.
func (c *Commands) FetchProviderModels(ctx context.Context, req models.ListRequest) (*models.ListResponse, error) {
	var resp models.ListResponse
	if err := c.inv.Invoke(ctx, CmdFetchProviderModels, map[string]any{"request": req}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// GetConfig returns the stored tool configuration as raw JSON.
func (c *Commands) GetConfig(ctx context.Context) (json.RawMessage, error) {
	var out json.RawMessage
	if err := c.inv.Invoke(ctx, CmdGetConfig, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// SaveConfig stores the tool configuration.
func (c *Commands) SaveConfig(ctx context.Context, config json.RawMessage) error {
	return c.inv.Invoke(ctx, CmdSaveConfig, map[string]any{"config": config}, nil)
}

// GetCommonConfig returns the shared configuration as raw JSON.
func (c *Commands) GetCommonConfig(ctx context.Context) (json.RawMessage, error) {
	var out json.RawMessage
	if err := c.inv.Invoke(ctx, CmdGetCommonConfig, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// SaveCommonConfig stores the shared configuration.
func (c *Commands) SaveCommonConfig(ctx context.Context, config json.RawMessage) error {
	return c.inv.Invoke(ctx, CmdSaveCommonConfig, map[string]any{"config": config}, nil)
}

// GetFreeModels lists models usable without a key.
func (c *Commands) GetFreeModels(ctx context.Context) ([]FreeModel, error) {
	var out []FreeModel
	if err := c.inv.Invoke(ctx, CmdGetFreeModels, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetProviderModels lists the models configured under providerID.
func (c *Commands) GetProviderModels(ctx context.Context, providerID string) ([]ProviderModel, error) {
	var out []ProviderModel
	if err := c.inv.Invoke(ctx, CmdGetProviderModels, map[string]any{"providerId": providerID}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ExistingModelIDs returns the ids configured under providerID, ready for
// models.Reconcile.
func (c *Commands) ExistingModelIDs(ctx context.Context, providerID string) ([]string, error) {
	list, err := c.GetProviderModels(ctx, providerID)
	if err != nil {
		return nil, err
	}
	ids := make([]string, len(list))
	for i, m := range list {
		ids[i] = m.ID
	}
	return ids, nil
}

// CurrentVersion implements update.VersionProvider using the host's version.
func (c *Commands) CurrentVersion(ctx context.Context) (string, error) {
	var v string
	if err := c.inv.Invoke(ctx, CmdGetAppVersion, nil, &v); err != nil {
		return "", err
	}
	if strings.TrimSpace(v) == "" {
		return "", exitcodes.ValidationErr("host reported an empty version")
	}
	return v, nil
}
