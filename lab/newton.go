package lab

import (
	"math"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// system evaluates the residual r(x) and its jacobian.
type system func(x []float64) (r []float64, jac *mat.Dense, err error)

// newton solves r(x) = 0 from x0. It fails with ErrNoConvergence when the
// jacobian is singular, the iterate leaves the finite numbers or maxIter
// steps do not reach tol.
func newton(f system, x0 []float64, tol float64, maxIter int) ([]float64, error) {
	x := append([]float64(nil), x0...)
	n := len(x)
	var dx mat.VecDense
	for it := 0; it < maxIter; it++ {
		r, jac, err := f(x)
		if err != nil {
			return nil, err
		}
		if floats.HasNaN(r) {
			return nil, errors.Wrapf(ErrNoConvergence, "residual is NaN at %v", x)
		}
		if floats.Norm(r, math.Inf(1)) < tol {
			return x, nil
		}
		if err := dx.SolveVec(jac, mat.NewVecDense(n, r)); err != nil {
			return nil, errors.Wrapf(ErrNoConvergence, "singular jacobian at %v", x)
		}
		for i := range x {
			x[i] -= dx.AtVec(i)
		}
	}
	return nil, errors.Wrapf(ErrNoConvergence, "%d iterations", maxIter)
}
