// Where: internal/ui/console.go
// What: Console output helpers for consistent CLI UX.
// Why: Standardize headers, indentation, and warnings across commands.
package ui

import (
	"fmt"
	"io"
)

// Console provides helper methods for formatted output.
type Console struct {
	Out io.Writer
}

// New creates a new Console writing to the provided writer.
func New(out io.Writer) *Console {
	if out == nil {
		out = io.Discard
	}
	return &Console{Out: out}
}

// Header prints a section header with an emoji.
// Example: 📦 Pulling images:
func (c *Console) Header(emoji, title string) {
	fmt.Fprintf(c.Out, "%s %s\n", emoji, title)
}

// Item prints a key-value item with indentation.
// Example:    Node: gateway
func (c *Console) Item(key string, value any) {
	fmt.Fprintf(c.Out, "   %-18s %v\n", key+":", value)
}

// ItemPlain prints a generic indented line.
func (c *Console) ItemPlain(msg string) {
	fmt.Fprintf(c.Out, "   %s\n", msg)
}

// Warn prints a non-fatal warning.
func (c *Console) Warn(msg string) {
	fmt.Fprintf(c.Out, "Warning: %s\n", msg)
}

// Warnf prints a formatted non-fatal warning.
func (c *Console) Warnf(format string, args ...any) {
	c.Warn(fmt.Sprintf(format, args...))
}
