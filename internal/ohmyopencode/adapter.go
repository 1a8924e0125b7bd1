package ohmyopencode

import (
	"encoding/json"

	"github.com/aitoolbox/aitoolbox-cli/internal/logger"
)

const (
	defaultName     = "Unnamed Config"
	defaultGlobalID = "global"
)

// sisyphusFields maps camelCase keys to their snake_case form.
var sisyphusFields = [][2]string{
	{"disabled", "disabled"},
	{"defaultBuilderEnabled", "default_builder_enabled"},
	{"plannerEnabled", "planner_enabled"},
	{"replacePlan", "replace_plan"},
}

// lookup returns value[snake], falling back to value[camel].
func lookup(value map[string]any, snake, camel string) (any, bool) {
	if v, ok := value[snake]; ok {
		return v, true
	}
	v, ok := value[camel]
	return v, ok
}

func strCompat(value map[string]any, snake, camel, def string) string {
	if v, ok := lookup(value, snake, camel); ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return def
}

func boolCompat(value map[string]any, snake, camel string, def bool) bool {
	if v, ok := lookup(value, snake, camel); ok {
		if b, ok := v.(bool); ok {
			return b
		}
	}
	return def
}

// convert re-decodes a loosely typed value into out.
func convert(v any, out any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, out)
}

// FromDBValue decodes a stored profile. Bad or missing fields fall back to
// defaults instead of failing; an agent entry that does not decode becomes
// an empty AgentConfig.
func FromDBValue(value map[string]any) Config {
	agents := map[string]AgentConfig{}
	if raw, ok := value["agents"].(map[string]any); ok {
		for name, v := range raw {
			var a AgentConfig
			if err := convert(v, &a); err != nil {
				a = AgentConfig{}
			}
			agents[name] = a
		}
	}

	other, _ := lookup(value, "other_fields", "otherFields")
	created := strCompat(value, "created_at", "createdAt", "")
	updated := strCompat(value, "updated_at", "updatedAt", "")

	return Config{
		ID:          strCompat(value, "config_id", "configId", ""),
		Name:        strCompat(value, "name", "name", defaultName),
		IsApplied:   boolCompat(value, "is_applied", "isApplied", false),
		Agents:      agents,
		OtherFields: other,
		CreatedAt:   created,
		UpdatedAt:   updated,
	}
}

// ToDBValue encodes a profile for storage. An encoding failure is logged and
// yields an empty object.
func ToDBValue(content ConfigContent) map[string]any {
	return toValue(content, "profile")
}

// GlobalConfigFromDBValue decodes the stored global record with the same
// tolerance as FromDBValue.
func GlobalConfigFromDBValue(value map[string]any) GlobalConfig {
	cfg := GlobalConfig{
		ID:        strCompat(value, "config_id", "configId", defaultGlobalID),
		Schema:    strCompat(value, "schema", "schema", ""),
		UpdatedAt: strCompat(value, "updated_at", "updatedAt", ""),
	}

	snake, hasSnake := value["sisyphus_agent"]
	camel, hasCamel := value["sisyphusAgent"]
	var merged map[string]any
	switch {
	case hasSnake && hasCamel:
		merged = mergeSisyphus(snake, camel)
	case hasSnake:
		merged, _ = snake.(map[string]any)
	case hasCamel:
		merged = mergeSisyphus(map[string]any{}, camel)
	}
	if merged != nil {
		var s SisyphusAgent
		if err := convert(merged, &s); err == nil {
			cfg.SisyphusAgent = &s
		}
	}

	decodeOptional(value, "disabled_agents", "disabledAgents", &cfg.DisabledAgents)
	decodeOptional(value, "disabled_mcps", "disabledMcps", &cfg.DisabledMCPs)
	decodeOptional(value, "disabled_hooks", "disabledHooks", &cfg.DisabledHooks)
	decodeOptional(value, "lsp", "lsp", &cfg.LSP)
	decodeOptional(value, "experimental", "experimental", &cfg.Experimental)
	cfg.OtherFields, _ = lookup(value, "other_fields", "otherFields")
	return cfg
}

// GlobalConfigToDBValue encodes the global record for storage.
func GlobalConfigToDBValue(content GlobalConfigContent) map[string]any {
	return toValue(content, "global config")
}

// decodeOptional leaves out untouched when the key is missing or the value
// has the wrong shape.
func decodeOptional[T any](value map[string]any, snake, camel string, out *T) {
	v, ok := lookup(value, snake, camel)
	if !ok {
		return
	}
	var decoded T
	if err := convert(v, &decoded); err == nil {
		*out = decoded
	}
}

// mergeSisyphus combines the snake_case and camelCase variants of the
// sisyphus settings. snake_case keys win; camelCase fills the gaps. Returns
// nil when either side is not an object or nothing is set.
func mergeSisyphus(snake, camel any) map[string]any {
	snakeObj, ok := snake.(map[string]any)
	if !ok {
		return nil
	}
	camelObj, ok := camel.(map[string]any)
	if !ok {
		return nil
	}

	merged := map[string]any{}
	for _, f := range sisyphusFields {
		camelKey, snakeKey := f[0], f[1]
		if v, ok := snakeObj[snakeKey]; ok {
			merged[snakeKey] = v
		} else if v, ok := camelObj[camelKey]; ok {
			merged[snakeKey] = v
		}
	}
	if len(merged) == 0 {
		return nil
	}
	return merged
}

// DeepMerge merges overlay into base. Nested objects merge recursively; any
// other overlay value replaces the base value.
func DeepMerge(base, overlay map[string]any) {
	for key, value := range overlay {
		if existing, ok := base[key]; ok {
			baseObj, baseIsObj := existing.(map[string]any)
			overObj, overIsObj := value.(map[string]any)
			if baseIsObj && overIsObj {
				DeepMerge(baseObj, overObj)
				continue
			}
		}
		base[key] = value
	}
}

func toValue(v any, what string) map[string]any {
	out := map[string]any{}
	if err := convert(v, &out); err != nil {
		logger.Component("ohmyopencode").Error("failed to serialize "+what, "err", err)
		return map[string]any{}
	}
	return out
}
