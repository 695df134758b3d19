// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package repl

import (
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// =============================================================================
// STYLES
// =============================================================================

// Styles are the REPL's output styles.
type Styles struct {
	Prompt lipgloss.Style
	Result lipgloss.Style
	Error  lipgloss.Style
}

// NewStyles builds styles rendering to out. Without color every style
// renders plain text.
func NewStyles(out io.Writer, color bool) Styles {
	r := lipgloss.NewRenderer(out)
	if !color {
		r.SetColorProfile(termenv.Ascii)
	}
	return Styles{
		Prompt: r.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39")), // Cyan
		Result: r.NewStyle().
			Foreground(lipgloss.Color("82")), // Green
		Error: r.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("196")), // Red
	}
}
