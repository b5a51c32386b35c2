package matadi

import (
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"

	"github.com/njchilds90/matadi/sym"
)

// apply evaluates f over a batch. Every input array is shaped
// inShapes[k] + batch, where batch is read off the first input whose
// variable is not all ones (the first input if every variable is); each sample
// is one contiguous column-major slice, so the arrays are viewed as
// samples x entries matrices without copying. Outputs come back shaped
// outShapes[k] + batch. Without batch axes the call is a single sample and
// scalar outputs are returned with shape (1,).
func apply(f *sym.Function, x []*Array, inShapes, outShapes []Shape, ec evalConfig) ([]*Array, error) {
	if len(x) != len(inShapes) {
		return nil, errors.Wrapf(ErrInputCount, "%s: %d arrays for %d variables", f.Name(), len(x), len(inShapes))
	}
	if len(x) == 0 {
		return nil, errors.Wrapf(ErrInputCount, "%s: no inputs", f.Name())
	}
	for k, a := range x {
		if a == nil {
			return nil, errors.Wrapf(ErrInputCount, "%s: input %d is nil", f.Name(), k)
		}
	}

	// all-ones variables may drop their leading axes, so they cannot tell
	// the batch rank
	ref := 0
	for k, s := range inShapes {
		if !s.AllOnes() {
			ref = k
			break
		}
	}
	trailing := x[ref].Rank() - len(inShapes[ref])
	if trailing < 0 {
		return nil, errors.Wrapf(ErrShapeMismatch, "%s: input %d has shape %v, variable shape %v",
			f.Name(), ref, x[ref].shape, inShapes[ref])
	}
	batch := x[ref].shape[x[ref].Rank()-trailing:].clone()

	for k, a := range x {
		split := a.Rank() - trailing
		if split < 0 {
			return nil, errors.Wrapf(ErrShapeMismatch, "%s: input %d has shape %v, batch shape %v",
				f.Name(), k, a.shape, batch)
		}
		lead, b := a.shape[:split], a.shape[split:]
		if !b.Equal(batch) {
			return nil, errors.Wrapf(ErrShapeMismatch, "%s: input %d has batch shape %v, input %d has %v",
				f.Name(), k, b, ref, batch)
		}
		if !lead.Equal(inShapes[k]) && !(lead.AllOnes() && inShapes[k].AllOnes()) {
			return nil, errors.Wrapf(ErrShapeMismatch, "%s: input %d has leading shape %v, variable shape %v",
				f.Name(), k, lead, inShapes[k])
		}
	}
	for k, on := range ec.modify {
		if !on {
			continue
		}
		if k >= len(x) {
			return nil, errors.Wrapf(ErrModify, "%s: flag %d for %d inputs", f.Name(), k, len(x))
		}
		if s := inShapes[k]; len(s) != 2 || s[0] < 2 || s[1] < 2 {
			return nil, errors.Wrapf(ErrModify, "%s: input %d has shape %v", f.Name(), k, s)
		}
	}

	n := batch.Numel()
	if trailing == 0 {
		n = 1
	}
	results := make([]*Array, len(outShapes))
	for k, s := range outShapes {
		shape := concat(s, batch)
		if trailing == 0 && len(s) == 0 {
			shape = Shape{1}
		}
		results[k] = &Array{shape: shape, data: make([]float64, shape.Numel())}
	}
	if n == 0 {
		return results, nil
	}

	ins := make([]*mat.Dense, len(x))
	for k, a := range x {
		data := a.data
		if k < len(ec.modify) && ec.modify[k] {
			data = perturb(data, inShapes[k], n, ec.eps)
		}
		ins[k] = mat.NewDense(n, inShapes[k].Numel(), data)
	}
	outs := make([]*mat.Dense, len(outShapes))
	for k, s := range outShapes {
		outs[k] = mat.NewDense(n, s.Numel(), results[k].data)
	}
	if err := f.Map(n, ec.threads, ins, outs); err != nil {
		return nil, errors.WithMessagef(err, "matadi: evaluate %s", f.Name())
	}
	return results, nil
}

// perturb copies a batch of matrices shaped s and adds +eps at [0,0] and
// -eps at [1,1] of every sample.
func perturb(data []float64, s Shape, n int, eps float64) []float64 {
	out := append([]float64(nil), data...)
	size, rows := s.Numel(), s[0]
	for r := 0; r < n; r++ {
		out[r*size] += eps
		out[r*size+1+rows] -= eps
	}
	return out
}
