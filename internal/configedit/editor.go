// Package configedit holds the state of a raw JSON config editor: the
// current text, whether it parses, and whether it differs from what was
// last saved.
package configedit

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/cespare/xxhash/v2"
	"gopkg.in/yaml.v3"

	"github.com/aitoolbox/aitoolbox-cli/internal/exitcodes"
)

// Validation is the outcome of checking the editor text. Line and Column are
// 1-based and only set when the text failed to parse.
type Validation struct {
	Valid  bool   `json:"valid" yaml:"valid"`
	Err    string `json:"error,omitempty" yaml:"error,omitempty"`
	Line   int    `json:"line,omitempty" yaml:"line,omitempty"`
	Column int    `json:"column,omitempty" yaml:"column,omitempty"`
}

// Saver persists validated config text, e.g. (*bridge.Commands).SaveConfig.
type Saver func(ctx context.Context, config json.RawMessage) error

// Editor is not safe for concurrent use.
type Editor struct {
	text       string
	validation Validation
	saved      uint64
}

// NewEditor starts an editor whose saved baseline is text.
func NewEditor(text string) *Editor {
	e := &Editor{}
	e.Change(text)
	e.saved = xxhash.Sum64String(text)
	return e
}

// Change replaces the text and revalidates it.
func (e *Editor) Change(text string) Validation {
	e.text = text
	e.validation = Validate(text)
	return e.validation
}

func (e *Editor) Text() string { return e.text }

func (e *Editor) Validation() Validation { return e.validation }

// Dirty reports whether the text differs from the last saved content.
func (e *Editor) Dirty() bool {
	return xxhash.Sum64String(e.text) != e.saved
}

// Format re-indents valid text with two spaces. Invalid text is left as is.
func (e *Editor) Format() error {
	if !e.validation.Valid {
		return e.invalidErr()
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, []byte(strings.TrimSpace(e.text)), "", "  "); err != nil {
		return exitcodes.ParseErr("format config", err)
	}
	e.Change(buf.String())
	return nil
}

// Value decodes the text into a generic object.
func (e *Editor) Value() (map[string]any, error) {
	if !e.validation.Valid {
		return nil, e.invalidErr()
	}
	var out map[string]any
	if err := json.Unmarshal([]byte(e.text), &out); err != nil {
		return nil, exitcodes.ParseErr("decode config", err)
	}
	return out, nil
}

// YAML renders the config as YAML.
func (e *Editor) YAML() ([]byte, error) {
	v, err := e.Value()
	if err != nil {
		return nil, err
	}
	return yaml.Marshal(v)
}

// Save hands the text to save when it is valid and marks it as the new
// baseline on success. Invalid text is never saved.
func (e *Editor) Save(ctx context.Context, save Saver) error {
	if !e.validation.Valid {
		return e.invalidErr()
	}
	if err := save(ctx, json.RawMessage(e.text)); err != nil {
		return err
	}
	e.saved = xxhash.Sum64String(e.text)
	return nil
}

func (e *Editor) invalidErr() error {
	v := e.validation
	if v.Line > 0 {
		return exitcodes.ValidationErrf("invalid config at line %d, column %d: %s", v.Line, v.Column, v.Err)
	}
	return exitcodes.ValidationErrf("invalid config: %s", v.Err)
}

// Validate checks that text is a single JSON object.
func Validate(text string) Validation {
	if strings.TrimSpace(text) == "" {
		return Validation{Err: "config is empty"}
	}

	var v any
	if err := json.Unmarshal([]byte(text), &v); err != nil {
		var syn *json.SyntaxError
		if errors.As(err, &syn) {
			line, col := position(text, syn.Offset)
			return Validation{Err: syn.Error(), Line: line, Column: col}
		}
		return Validation{Err: err.Error()}
	}
	if _, ok := v.(map[string]any); !ok {
		return Validation{Err: "config must be a JSON object"}
	}
	return Validation{Valid: true}
}

// position converts a syntax error offset (count of bytes read, including
// the offending one) to a 1-based line and byte column.
func position(text string, offset int64) (int, int) {
	idx := int(offset) - 1
	if idx < 0 {
		idx = 0
	}
	if idx > len(text) {
		idx = len(text)
	}
	prefix := text[:idx]
	line := strings.Count(prefix, "\n") + 1
	col := len(prefix) - (strings.LastIndex(prefix, "\n") + 1) + 1
	return line, col
}
