// Package bridge invokes commands on the host process that owns persistence
// and provider HTTP calls. Commands take a JSON-serializable argument record
// and return a JSON result.
package bridge

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aitoolbox/aitoolbox-cli/internal/exitcodes"
)

// Invoker calls a named host command. args is marshaled to JSON; a non-nil
// out receives the decoded result.
type Invoker interface {
	Invoke(ctx context.Context, command string, args any, out any) error
}

// RemoteError is a failure reported by the host for a command.
type RemoteError struct {
	Command string
	Message string
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("%s: %s", e.Command, e.Message)
}

// Unwrap classifies host failures as exitcodes.ProcessError.
func (e *RemoteError) Unwrap() error {
	return exitcodes.ProcessErrf("host command %s failed", e.Command)
}

// Handler serves one command in-process.
type Handler func(ctx context.Context, args json.RawMessage) (any, error)

// Mux is an in-process Invoker routing commands to handlers. It goes through
// the same JSON encoding as a remote host so type mismatches surface in tests.
type Mux struct {
	handlers map[string]Handler
}

// NewMux returns an empty Mux.
func NewMux() *Mux {
	return &Mux{handlers: map[string]Handler{}}
}

// Handle registers h for command.
func (m *Mux) Handle(command string, h Handler) {
	m.handlers[command] = h
}

// Invoke implements Invoker.
func (m *Mux) Invoke(ctx context.Context, command string, args any, out any) error {
	h, ok := m.handlers[command]
	if !ok {
		return &RemoteError{Command: command, Message: "unknown command"}
	}
	raw, err := json.Marshal(args)
	if err != nil {
		return fmt.Errorf("failed to encode %s arguments: %w", command, err)
	}
	res, err := h(ctx, raw)
	if err != nil {
		return &RemoteError{Command: command, Message: err.Error()}
	}
	if out == nil {
		return nil
	}
	data, err := json.Marshal(res)
	if err != nil {
		return fmt.Errorf("failed to encode %s result: %w", command, err)
	}
	return decodeResult(command, data, out)
}

func decodeResult(command string, data []byte, out any) error {
	if out == nil || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return exitcodes.ParseErr(fmt.Sprintf("failed to decode %s result", command), err)
	}
	return nil
}
