package matadi

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/njchilds90/matadi/sym"
)

// ============================================================
// Material: scalar energy with derivatives
// ============================================================

// Material is a scalar function of tensor variables together with its
// gradient, the upper triangle of its hessian and directional derivative
// products. All derivatives are derived from the same expression at
// construction and compiled once.
type Material struct {
	base
	f        *sym.Matrix
	g        []*sym.Matrix
	h        []*sym.Matrix
	nd       int
	gradient *sym.Function
	hessian  *sym.Function
	gvp      *sym.Function
	hvp      *sym.Function
}

// NewMaterial builds fun(x) once, derives the gradient with respect to every
// variable that is not a state variable and the hessian blocks (i, j) with
// j >= i, and compiles them.
func NewMaterial(x []*sym.Matrix, fun ScalarFunc, opts ...Option) (*Material, error) {
	if err := checkVariables(x); err != nil {
		return nil, err
	}
	if fun == nil {
		return nil, ErrNilFunc
	}
	cfg := gatherOptions(opts)
	if cfg.statevars > len(x) {
		return nil, errors.Wrapf(ErrStateVars, "%d state variables for %d variables", cfg.statevars, len(x))
	}
	f := fun(x)
	if f == nil || !f.IsScalar() {
		return nil, errors.Wrapf(ErrNotScalar, "got %s", describe(f))
	}

	nd := len(x) - cfg.statevars
	xd := x[:nd]
	m := &Material{f: f, nd: nd}

	// the diagonal block and the gradient come from one pass
	diag := make([]*sym.Matrix, nd)
	for i, y := range xd {
		h, g := sym.Hessian(f, y)
		diag[i] = h
		m.g = append(m.g, g)
	}
	inputs := shapesOf(x, cfg.compress)
	idx := Index{Inputs: inputs, Function: []Shape{{}}}
	for i := 0; i < nd; i++ {
		idx.Gradient = append(idx.Gradient, inputs[i].clone())
		for j := i; j < nd; j++ {
			if i == j {
				m.h = append(m.h, diag[i])
			} else {
				m.h = append(m.h, sym.Jacobian(m.g[i], xd[j]))
			}
			idx.Hessian = append(idx.Hessian, concat(inputs[i], inputs[j]))
			idx.Pairs = append(idx.Pairs, Pair{I: i, J: j})
		}
	}

	// direction variables for the vector products
	v := make([]*sym.Matrix, nd)
	u := make([]*sym.Matrix, nd)
	for i, y := range xd {
		v[i] = sym.Variable(fmt.Sprintf("v%d", i), y.Rows(), y.Cols())
		u[i] = sym.Variable(fmt.Sprintf("u%d", i), y.Rows(), y.Cols())
	}
	gv := sym.JtimesAll(f, xd, v)
	hv := sym.JtimesAll(gv, xd, u)

	var err error
	compile := func(name string, in []*sym.Matrix, out ...*sym.Matrix) *sym.Function {
		if err != nil {
			return nil
		}
		var fn *sym.Function
		fn, err = sym.Compile(name, in, out)
		if err != nil {
			err = errors.WithMessagef(err, "matadi: compile %s", name)
		}
		return fn
	}
	m.function = compile("f", x, f)
	m.gradient = compile("g", x, m.g...)
	m.hessian = compile("h", x, m.h...)
	m.gvp = compile("gvp", join(x, v), gv)
	m.hvp = compile("hvp", join(x, v, u), hv)
	if err != nil {
		return nil, err
	}
	m.x = x
	m.idx = idx
	return m, nil
}

func join(lists ...[]*sym.Matrix) []*sym.Matrix {
	var out []*sym.Matrix
	for _, l := range lists {
		out = append(out, l...)
	}
	return out
}

// Expr returns the scalar expression.
func (m *Material) Expr() *sym.Matrix { return m.f }

// Gradients returns the gradient expressions, one per differentiated
// variable.
func (m *Material) Gradients() []*sym.Matrix { return append([]*sym.Matrix(nil), m.g...) }

// Hessians returns the upper-triangle hessian expressions in Index().Pairs
// order, each a numel(x_i) x numel(x_j) matrix.
func (m *Material) Hessians() []*sym.Matrix { return append([]*sym.Matrix(nil), m.h...) }

// Gradient evaluates the gradient with respect to every variable that is not
// a state variable. Entry i is shaped like variable i + batch shape.
func (m *Material) Gradient(x []*Array, opts ...EvalOption) ([]*Array, error) {
	return apply(m.gradient, x, m.idx.Inputs, m.idx.Gradient, gatherEvalOptions(opts))
}

// Jacobian is Gradient, for symmetry with MaterialTensor.
func (m *Material) Jacobian(x []*Array, opts ...EvalOption) ([]*Array, error) {
	return m.Gradient(x, opts...)
}

// Hessian evaluates the upper triangle of the hessian. Entry k belongs to
// Index().Pairs[k] = (i, j) and is shaped variable i + variable j + batch
// shape.
func (m *Material) Hessian(x []*Array, opts ...EvalOption) ([]*Array, error) {
	return apply(m.hessian, x, m.idx.Inputs, m.idx.Hessian, gatherEvalOptions(opts))
}

// GradientVectorProduct evaluates sum_i <gradient_i, v_i> without forming
// the gradient arrays. v holds one array per differentiated variable, shaped
// like x. The single result is shaped like the batch.
func (m *Material) GradientVectorProduct(x, v []*Array, opts ...EvalOption) ([]*Array, error) {
	in := append(append([]*Array(nil), x...), v...)
	return apply(m.gvp, in, m.directionShapes(1), m.idx.Function, gatherEvalOptions(opts))
}

// HessianVectorProduct evaluates the bilinear form v^T H u summed over all
// pairs of differentiated variables, without forming the hessian.
func (m *Material) HessianVectorProduct(x, v, u []*Array, opts ...EvalOption) ([]*Array, error) {
	in := append(append(append([]*Array(nil), x...), v...), u...)
	return apply(m.hvp, in, m.directionShapes(2), m.idx.Function, gatherEvalOptions(opts))
}

func (m *Material) directionShapes(sets int) []Shape {
	out := append([]Shape(nil), m.idx.Inputs...)
	for s := 0; s < sets; s++ {
		out = append(out, m.idx.Inputs[:m.nd]...)
	}
	return out
}
