// Package viz provides terminal visualization for traced field lines.
//
// [Model] is a Bubble Tea program that reveals a finished trace slot by
// slot, outward from its seed, on a Braille [Canvas]. Three-dimensional
// lines are drawn through a rotatable [Camera]; planar lines use a fixed
// projection.
//
// # Key Bindings
//
//	Space - Pause/Resume
//	R     - Restart from the seed
//	[ ]   - Step back/forward one frame
//	x/y/z - Rotate the camera (shift reverses)
//	+/-   - Zoom
//	T     - Cycle color themes
//	?     - Show help overlay
package viz
