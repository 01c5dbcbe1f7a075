// SPDX-FileCopyrightText: Copyright 2026 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

// Package printer renders CLI progress output. Color is handled by
// fatih/color, which honors NO_COLOR and disables itself off a TTY.
package printer

import (
	"fmt"
	"io"

	"github.com/fatih/color"
)

// Printer writes user-facing progress lines to one destination.
type Printer struct {
	out io.Writer

	green  *color.Color
	yellow *color.Color
	cyan   *color.Color
}

// New creates a Printer writing to out.
func New(out io.Writer) *Printer {
	return &Printer{
		out:    out,
		green:  color.New(color.FgGreen),
		yellow: color.New(color.FgYellow),
		cyan:   color.New(color.FgCyan),
	}
}

// Successf prints a green check-marked line.
func (p *Printer) Successf(format string, a ...any) {
	_, _ = p.green.Fprintf(p.out, "✓ "+format, a...)
}

// Warnf prints a yellow warning line.
func (p *Printer) Warnf(format string, a ...any) {
	_, _ = p.yellow.Fprintf(p.out, "! "+format, a...)
}

// Stepf prints a cyan step line for multi-step operations.
func (p *Printer) Stepf(format string, a ...any) {
	_, _ = p.cyan.Fprintf(p.out, "→ "+format, a...)
}

// Printf prints a plain formatted message.
func (p *Printer) Printf(format string, a ...any) {
	_, _ = fmt.Fprintf(p.out, format, a...)
}

// Println prints a plain line.
func (p *Printer) Println(a ...any) {
	_, _ = fmt.Fprintln(p.out, a...)
}
