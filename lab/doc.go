// Package lab runs homogeneous load cases on hyperelastic materials: uniaxial
// tension, equi-biaxial tension, planar shear and simple shear. The
// incompressible lab eliminates the hydrostatic pressure in closed form; the
// compressible lab solves for the free lateral stretches with Newton's method
// on the material hessian. Both classify the stability of every point.
//
// HandleToolCall exposes the lab as JSON tools for cmd/lab-server.
package lab
