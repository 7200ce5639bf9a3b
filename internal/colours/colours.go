// Package colours holds the CLI output colour scheme.
package colours

import "github.com/fatih/color"

var (
	Title   = color.New(color.FgCyan, color.Bold)
	Muted   = color.New(color.FgHiBlack)
	ID      = color.New(color.FgYellow)
	Error   = color.New(color.FgRed, color.Bold)
	Success = color.New(color.FgGreen)
	Warning = color.New(color.FgYellow)
)
