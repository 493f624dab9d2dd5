// Package session implements the interactive terminal session for envmatch.
//
// The session is a Bubble Tea program with two panels, environments and the
// variables of the current environment, plus modal overlays for help, delete
// confirmation and text input. Exactly one State is active at a time.
//
// # Data Flow
//
// The session holds no authoritative data. Every change goes through the
// command engine, and after every key press and refresh tick the model
// re-reads the store. When a read fails the last good snapshot stays on
// screen and the failure is shown in the status line.
//
// # Rendering
//
// RenderModel derives everything visible from the model; View only draws a
// RenderModel. Tests assert against RenderModel rather than terminal output.
//
// # Usage Example
//
//	s := store.Open(dir)
//	if err := session.Run(ctx, s, session.DefaultOptions()); err != nil {
//	    return err
//	}
package session
