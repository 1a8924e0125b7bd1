// Package ohmyopencode converts stored oh-my-opencode agent profiles and the
// global settings record between their loosely typed stored form and typed
// values. Stored records may use snake_case or older camelCase keys.
package ohmyopencode

// AgentConfig is the per-agent override inside a profile.
type AgentConfig struct {
	Model       string   `json:"model,omitempty"`
	Temperature *float64 `json:"temperature,omitempty"`
	TopP        *float64 `json:"top_p,omitempty"`
	Prompt      string   `json:"prompt,omitempty"`
	Disable     bool     `json:"disable,omitempty"`
}

// Config is one stored agents profile.
type Config struct {
	ID          string                 `json:"id"`
	Name        string                 `json:"name"`
	IsApplied   bool                   `json:"is_applied"`
	Agents      map[string]AgentConfig `json:"agents"`
	OtherFields any                    `json:"other_fields,omitempty"`
	CreatedAt   string                 `json:"created_at,omitempty"`
	UpdatedAt   string                 `json:"updated_at,omitempty"`
}

// ConfigContent is what gets written back for a profile.
type ConfigContent struct {
	ConfigID    string                 `json:"config_id"`
	Name        string                 `json:"name"`
	IsApplied   bool                   `json:"is_applied"`
	Agents      map[string]AgentConfig `json:"agents"`
	OtherFields any                    `json:"other_fields,omitempty"`
	CreatedAt   string                 `json:"created_at,omitempty"`
	UpdatedAt   string                 `json:"updated_at,omitempty"`
}

// SisyphusAgent toggles the orchestrator agent.
type SisyphusAgent struct {
	Disabled              *bool `json:"disabled,omitempty"`
	DefaultBuilderEnabled *bool `json:"default_builder_enabled,omitempty"`
	PlannerEnabled        *bool `json:"planner_enabled,omitempty"`
	ReplacePlan           *bool `json:"replace_plan,omitempty"`
}

// GlobalConfig is the settings record shared by all profiles.
type GlobalConfig struct {
	ID             string         `json:"id"`
	Schema         string         `json:"schema,omitempty"`
	SisyphusAgent  *SisyphusAgent `json:"sisyphus_agent,omitempty"`
	DisabledAgents []string       `json:"disabled_agents,omitempty"`
	DisabledMCPs   []string       `json:"disabled_mcps,omitempty"`
	DisabledHooks  []string       `json:"disabled_hooks,omitempty"`
	LSP            map[string]any `json:"lsp,omitempty"`
	Experimental   map[string]any `json:"experimental,omitempty"`
	OtherFields    any            `json:"other_fields,omitempty"`
	UpdatedAt      string         `json:"updated_at,omitempty"`
}

// GlobalConfigContent is what gets written back for the global record.
type GlobalConfigContent struct {
	ConfigID       string         `json:"config_id"`
	Schema         string         `json:"schema,omitempty"`
	SisyphusAgent  *SisyphusAgent `json:"sisyphus_agent,omitempty"`
	DisabledAgents []string       `json:"disabled_agents,omitempty"`
	DisabledMCPs   []string       `json:"disabled_mcps,omitempty"`
	DisabledHooks  []string       `json:"disabled_hooks,omitempty"`
	LSP            map[string]any `json:"lsp,omitempty"`
	Experimental   map[string]any `json:"experimental,omitempty"`
	OtherFields    any            `json:"other_fields,omitempty"`
	UpdatedAt      string         `json:"updated_at,omitempty"`
}
