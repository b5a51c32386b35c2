// Package models is a library of constitutive models written against the
// sym package: isotropic and anisotropic hyperelastic strain energies,
// pseudo-elastic softening, finite-strain viscoelasticity and MORPH, plus the
// kinematic splits they are built from.
//
// Energies take the 3x3 deformation gradient and return a 1x1 expression.
// Models with internal state are StateFuncs that return the first
// Piola-Kirchhoff stress together with the updated state vector.
package models
