package matadi

import "errors"

// ErrShapeMismatch indicates that the leading axes of an input array do not
// match the declared shape of its variable, or that the batch axes of the
// inputs disagree.
var ErrShapeMismatch = errors.New("matadi: shape mismatch")

// ErrInputCount indicates a call with a different number of arrays than
// declared variables.
var ErrInputCount = errors.New("matadi: wrong number of inputs")

// ErrNoVariables indicates a facade constructed without variables.
var ErrNoVariables = errors.New("matadi: no variables")

// ErrNilFunc indicates a facade constructed without a model function.
var ErrNilFunc = errors.New("matadi: nil model function")

// ErrNotScalar indicates a scalar model function that returned a non 1x1
// expression.
var ErrNotScalar = errors.New("matadi: model function is not scalar")

// ErrNoOutputs indicates a tensor model function that returned no outputs.
var ErrNoOutputs = errors.New("matadi: model function returned no outputs")

// ErrStateVars indicates more state variables than inputs or outputs.
var ErrStateVars = errors.New("matadi: invalid number of state variables")

// ErrModify indicates a perturbation requested for a variable that has no
// [1,1] entry.
var ErrModify = errors.New("matadi: cannot modify variable")

// ErrDataLength indicates an array whose data does not fill its shape.
var ErrDataLength = errors.New("matadi: data length does not match shape")
