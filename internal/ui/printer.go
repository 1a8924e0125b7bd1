package ui

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// Output formats accepted by --output.
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// ValidFormat reports whether f is a supported --output value.
func ValidFormat(f string) bool {
	return f == FormatText || f == FormatJSON || f == FormatYAML
}

// Printer centralizes output formatting for commands.
// - Respects --output (text|json|yaml)
// - Uses ColorConfig for styling when printing text
type Printer struct {
	format string
	out    io.Writer
	Colors *ColorConfig
}

func NewPrinter(format string) Printer {
	return Printer{format: format, out: os.Stdout, Colors: NewColorConfig()}
}

// WithWriter returns a copy of p that writes to w.
func (p Printer) WithWriter(w io.Writer) Printer {
	p.out = w
	return p
}

// Format returns the configured output format.
func (p Printer) Format() string { return p.format }

// Structured reports whether output is json or yaml.
func (p Printer) Structured() bool { return p.format == FormatJSON || p.format == FormatYAML }

// Textf prints formatted text (always text path).
func (p Printer) Textf(format string, a ...any) { fmt.Fprintf(p.out, format, a...) }

// JSON pretty-prints a JSON value.
func (p Printer) JSON(v any) error {
	enc := json.NewEncoder(p.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// YAML prints v as YAML.
func (p Printer) YAML(v any) error {
	enc := yaml.NewEncoder(p.out)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}

// Emit writes v in the structured format, or calls text for text output.
func (p Printer) Emit(v any, text func()) error {
	switch p.format {
	case FormatJSON:
		return p.JSON(v)
	case FormatYAML:
		return p.YAML(v)
	default:
		text()
		return nil
	}
}

// Success prints a success line with themed prefix.
func (p Printer) Success(msg string) {
	fmt.Fprintln(p.out, p.Colors.StatusIcon("success"), msg)
}

// Info prints an informational line.
func (p Printer) Info(msg string) {
	fmt.Fprintln(p.out, p.Colors.StatusIcon("info"), msg)
}

// Warn prints a warning line.
func (p Printer) Warn(msg string) {
	fmt.Fprintln(p.out, p.Colors.StatusIcon("warning"), msg)
}

// Error prints an error line.
func (p Printer) Error(msg string) {
	fmt.Fprintln(p.out, p.Colors.StatusIcon("error"), msg)
}

// Header prints a section header.
func (p Printer) Header(title string) {
	fmt.Fprintln(p.out, p.Colors.Header(" "+title+" "))
}

// Section prints a section header with separator
func (p Printer) Section(title string) {
	fmt.Fprintln(p.out)
	fmt.Fprintln(p.out, p.Colors.SubHeader(title))
	fmt.Fprintln(p.out, p.Colors.Separator(40))
}

// KeyValueLine prints a key-value pair with proper formatting
func (p Printer) KeyValueLine(key, value, colorType string) {
	var coloredValue string
	switch colorType {
	case "blue":
		coloredValue = p.Colors.Info(value)
	case "yellow":
		coloredValue = p.Colors.Warning(value)
	case "green":
		coloredValue = p.Colors.Success(value)
	case "dim":
		coloredValue = p.Colors.Description(value)
	default:
		coloredValue = p.Colors.Value(value)
	}
	fmt.Fprintf(p.out, "%s %s\n", p.Colors.Label(key+":"), coloredValue)
}

// Table prints a table rendered by Table.
func (p Printer) Table(headers []string, rows [][]string) {
	fmt.Fprint(p.out, Table(p.Colors, headers, rows, nil))
}
