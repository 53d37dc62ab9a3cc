// Copyright 2026 The Tally Authors
// SPDX-License-Identifier: MIT

package render

import (
	"fmt"

	"github.com/fatih/color"
)

// Shared color printers.
var (
	colorRed    = color.New(color.FgRed)
	colorYellow = color.New(color.FgYellow)
	colorGreen  = color.New(color.FgGreen)
	colorCyan   = color.New(color.FgCyan)
	colorFaint  = color.New(color.Faint)
	colorBold   = color.New(color.Bold)
)

// SetColor enables or disables ANSI colour globally.
func SetColor(enabled bool) {
	color.NoColor = !enabled
}

// Title renders a bold heading.
func Title(title string) string {
	return colorBold.Sprint(title)
}

// Label renders a field label.
func Label(s string) string {
	return colorCyan.Sprint(s)
}

// ColorTokens colors a token count: zero is green, anything else yellow.
func ColorTokens(val string) string {
	if val == "0" {
		return colorGreen.Sprint(val)
	}
	return colorYellow.Sprint(val)
}

// tokens formats a count for the table and panels.
func tokens(n int64) string {
	return fmt.Sprintf("%d", n)
}
