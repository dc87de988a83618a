// Package viz draws a running Schotter grid in the terminal.
//
// The package implements an interactive TUI using the Bubble Tea framework:
//
//   - [Model]: live view of one session with a side panel
//   - [App]: setup screen for preset, scales, motion and seed
//   - [Canvas]: Braille-based dot canvas the squares are drawn on
//
// # Key Bindings
//
//	Up/Down    - Displacement ±0.1 (never below 0)
//	Right/Left - Rotation ±0.1 (never below 0)
//	+/-        - Motion probability ±0.05
//	N          - New random seed
//	R          - Toggle frame recording
//	S          - Save a snapshot
//	Space      - Pause/Resume
//	T          - Cycle color themes
//	?          - Show help overlay
//
// # Recording
//
// While recording, every second rendered frame is written as a numbered PNG
// through the session's recorder. A recorder failure ends the program and is
// returned from [Run].
package viz
