// Package models builds initial conditions for a run.
//
// [Disc] places an Earth-like primary at the origin and scatters
// secondaries in a thin disc in the XZ plane, each seeded with a tangential
// velocity. [Fixed] replays an explicit body list.
package models
