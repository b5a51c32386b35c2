package lab

import "errors"

// ErrNoConvergence indicates that the lateral stress-free conditions of a
// compressible load case could not be solved.
var ErrNoConvergence = errors.New("lab: no convergence")

// ErrConfig indicates an invalid lab configuration.
var ErrConfig = errors.New("lab: invalid configuration")
