// Package viz is a terminal view of a running simulation built on Bubble Tea.
//
// The live [Model] owns the wall clock: every frame it ticks the simulation
// with the elapsed seconds since start, then draws all bodies on a Braille
// [Canvas] through a [Camera] that follows body 0.
//
// # Key Bindings
//
//	Space - Pause/Resume simulation
//	M / N - Scale the primary mass up / down by 10
//	R     - Reinitialize
//	[ ]   - Halve / double the body count and reinitialize
//	+ -   - Zoom
//	x y   - Rotate the camera (shift reverses)
//	T     - Cycle color themes
//	?     - Show help overlay
package viz
