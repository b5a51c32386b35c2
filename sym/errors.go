package sym

import "errors"

// ErrFreeVariable is returned by Compile when an output depends on a symbol
// that is not among the declared inputs.
var ErrFreeVariable = errors.New("sym: free variable")

// ErrVoigtShape is returned by AsVoigt and AsTensor for shapes they cannot
// convert.
var ErrVoigtShape = errors.New("sym: invalid voigt/tensor conversion shape")

// ErrDimension is returned by the compiled evaluator when buffers do not
// match the declared input or output sizes.
var ErrDimension = errors.New("sym: dimension mismatch")
