// Package matadi turns symbolic strain-energy and stress functions of
// tensor-valued variables into batched numeric evaluators.
//
// A model is written once as a function of sym variables. At construction
// the facades derive gradients and upper-triangular hessians symbolically,
// compile them, and afterwards evaluate them over arrays whose leading axes
// are the variable shapes and whose trailing axes are free batch axes (for
// example elements and quadrature points).
//
//   - Function and FunctionTensor evaluate a scalar or a list of tensors
//   - Material adds gradient, hessian and directional derivative products
//   - MaterialTensor adds the jacobian grid of a list of tensors, with
//     state variables passed through undifferentiated
//
// Arrays are column-major. The batch axes of all inputs in one call must be
// equal; they are taken from the first input.
package matadi
