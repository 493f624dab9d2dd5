// Package ui renders envmatch command output.
//
// Commands print through a Printer: one-line success, warning and failure
// messages, and Result boxes for operations worth a summary such as init.
// Machine-readable output (get, export) bypasses styling entirely so it can
// be piped. Colors degrade automatically when stdout is not a terminal.
//
//	p := ui.NewPrinter(cmd.OutOrStdout())
//	p.Success("Switched to environment 'production'")
//
// Confirm implements the y/N prompt used before destructive commands.
package ui
