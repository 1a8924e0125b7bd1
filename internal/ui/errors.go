package ui

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/aitoolbox/aitoolbox-cli/internal/bridge"
	"github.com/aitoolbox/aitoolbox-cli/internal/exitcodes"
)

// ErrorMessage represents a structured, actionable error to present to users.
type ErrorMessage struct {
	Problem string   // one-line problem statement
	Causes  []string // possible causes
	Actions []string // actionable steps to resolve
	Hints   []string // optional hints (e.g., commands to try)
}

// Format renders the error using the color theme. It does not include ANSI
// codes when colors are disabled (NO_COLOR or dumb terminal).
func (e ErrorMessage) Format(c *ColorConfig) string {
	var b strings.Builder
	b.WriteString(c.Error("✗ "))
	b.WriteString(c.Header("Error"))
	b.WriteString("\n")
	if e.Problem != "" {
		b.WriteString("  ")
		b.WriteString(c.Label("Problem"))
		b.WriteString(": ")
		b.WriteString(e.Problem)
		b.WriteString("\n")
	}
	writeList(&b, c, "Possible causes", "   • ", e.Causes, false)
	writeList(&b, c, "Try", "   → ", e.Actions, false)
	writeList(&b, c, "Hints", "   · ", e.Hints, true)
	return b.String()
}

func writeList(b *strings.Builder, c *ColorConfig, label, bullet string, items []string, dim bool) {
	if len(items) == 0 {
		return
	}
	b.WriteString("  ")
	b.WriteString(c.Label(label))
	b.WriteString(":\n")
	for _, it := range items {
		b.WriteString(bullet)
		if dim {
			it = c.Description(it)
		}
		b.WriteString(it)
		b.WriteString("\n")
	}
}

// ErrorFor builds a user-facing message for err based on its kind.
func ErrorFor(err error) ErrorMessage {
	msg := ErrorMessage{Problem: err.Error()}

	var remote *bridge.RemoteError
	if errors.As(err, &remote) {
		msg.Causes = []string{fmt.Sprintf("the host rejected %q", remote.Command)}
		msg.Actions = []string{"Check the host application log for details"}
		return msg
	}

	switch exitcodes.CodeForError(err) {
	case exitcodes.NetworkError:
		msg.Causes = []string{"The endpoint is unreachable or returned an error status"}
		msg.Actions = []string{"Check your network connection", "Verify --bridge or the configured URL"}
	case exitcodes.ParseError:
		msg.Causes = []string{"The response was not the expected JSON shape"}
	case exitcodes.ValidationError:
		msg.Actions = []string{"Fix the input and try again"}
	case exitcodes.PreconditionFailed:
		msg.Hints = []string{"Wait for the running operation to finish"}
	case exitcodes.InvalidArgs:
		msg.Hints = []string{"Run with --help to see usage"}
	}
	return msg
}

// PrintError writes the structured error to w using the global theme.
func PrintError(w io.Writer, e ErrorMessage) {
	if w == nil {
		w = os.Stderr
	}
	fmt.Fprintln(w, e.Format(NewColorConfigFromGlobal()))
}
