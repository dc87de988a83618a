// Package control turns user and script commands into changes on a running
// session.
//
// Commands are applied between ticks, never during one:
//
//   - displacement, rotation and motion steps and absolute sets
//   - [Reseed] restarts the grid's random stream
//   - [ToggleRecording] starts or stops frame capture
//   - [Snapshot] writes the current frame to a single image
//
// # Usage
//
//	s := control.NewSession(g, rec, capturer, "schotter.png", log)
//	s.Apply(control.DisplacementUp, 0)
//	s.Apply(control.SetMotion, 0.8)
package control
