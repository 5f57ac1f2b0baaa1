// Package analysis extracts periodicity from recorded simulation series.
//
// A run's primary trajectory wobbles with the orbits of the bodies around
// it; [DominantPeriod] finds the strongest such period with a windowed FFT:
//
//	period, err := analysis.DominantPeriod(xs, frameDeltaT)
package analysis
