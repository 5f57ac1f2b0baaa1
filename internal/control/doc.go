// Package control provides the runtime commands a collaborator may issue
// against a running body set.
//
//   - [PrimaryMass]: scale body 0's mass up or down by [MassFactor]
//
// # Usage
//
//	ctrl := control.NewPrimaryMass()
//	ctrl.ScaleUp(bs)   // mass *= 10
//	ctrl.ScaleDown(bs) // mass /= 10
package control
