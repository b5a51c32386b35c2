// Package sym is a small symbolic expression engine for tensor-valued
// constitutive models.
//
// Design goals:
//   - Scalar expression DAG with light simplification at construction
//   - Dense column-major symbolic matrices with 1x1 broadcasting
//   - Reverse and forward mode symbolic differentiation
//   - Compilation to a flat instruction tape with common sub-expression
//     elimination, evaluated per sample or over batches in parallel
package sym
