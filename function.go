package matadi

import (
	"github.com/pkg/errors"

	"github.com/njchilds90/matadi/sym"
)

// ScalarFunc builds a scalar (1x1) expression from the variables. Model
// parameters are bound by closure. It is called once, at construction.
type ScalarFunc func(x []*sym.Matrix) *sym.Matrix

// TensorFunc builds a list of output expressions from the variables. It is
// called once, at construction.
type TensorFunc func(x []*sym.Matrix) []*sym.Matrix

// base holds what every facade shares: the variables, the shape index and
// the compiled function.
type base struct {
	x        []*sym.Matrix
	idx      Index
	function *sym.Function
}

func checkVariables(x []*sym.Matrix) error {
	if len(x) == 0 {
		return ErrNoVariables
	}
	for k, v := range x {
		if v == nil {
			return errors.Wrapf(ErrNoVariables, "variable %d is nil", k)
		}
	}
	return nil
}

// Variables returns the declared variables in order.
func (b *base) Variables() []*sym.Matrix { return append([]*sym.Matrix(nil), b.x...) }

// Index returns a copy of the shape index.
func (b *base) Index() Index { return b.idx.clone() }

// Function evaluates the model function over a batch. x holds one array per
// variable, each shaped variable shape + batch shape.
func (b *base) Function(x []*Array, opts ...EvalOption) ([]*Array, error) {
	return apply(b.function, x, b.idx.Inputs, b.idx.Function, gatherEvalOptions(opts))
}

// ============================================================
// Function: scalar, no derivatives
// ============================================================

// Function is a compiled scalar function of tensor variables.
type Function struct {
	base
	f *sym.Matrix
}

// NewFunction builds fun(x) once and compiles it.
func NewFunction(x []*sym.Matrix, fun ScalarFunc, opts ...Option) (*Function, error) {
	if err := checkVariables(x); err != nil {
		return nil, err
	}
	if fun == nil {
		return nil, ErrNilFunc
	}
	cfg := gatherOptions(opts)
	f := fun(x)
	if f == nil || !f.IsScalar() {
		return nil, errors.Wrapf(ErrNotScalar, "got %s", describe(f))
	}
	compiled, err := sym.Compile("f", x, []*sym.Matrix{f})
	if err != nil {
		return nil, errors.WithMessage(err, "matadi: compile function")
	}
	return &Function{
		base: base{
			x:        x,
			function: compiled,
			idx: Index{
				Inputs:   shapesOf(x, cfg.compress),
				Function: []Shape{{}},
			},
		},
		f: f,
	}, nil
}

// Expr returns the scalar expression.
func (fn *Function) Expr() *sym.Matrix { return fn.f }

// ============================================================
// FunctionTensor: list of tensors, no derivatives
// ============================================================

// FunctionTensor is a compiled list of tensor-valued outputs.
type FunctionTensor struct {
	base
	outputs []*sym.Matrix
}

// NewFunctionTensor builds fun(x) once and compiles all outputs.
func NewFunctionTensor(x []*sym.Matrix, fun TensorFunc, opts ...Option) (*FunctionTensor, error) {
	if err := checkVariables(x); err != nil {
		return nil, err
	}
	if fun == nil {
		return nil, ErrNilFunc
	}
	cfg := gatherOptions(opts)
	outputs, err := tensorOutputs(x, fun)
	if err != nil {
		return nil, err
	}
	compiled, err := sym.Compile("f", x, outputs)
	if err != nil {
		return nil, errors.WithMessage(err, "matadi: compile function")
	}
	return &FunctionTensor{
		base: base{
			x:        x,
			function: compiled,
			idx: Index{
				Inputs:   shapesOf(x, cfg.compress),
				Function: shapesOf(outputs, cfg.compress),
			},
		},
		outputs: outputs,
	}, nil
}

// Outputs returns the output expressions.
func (ft *FunctionTensor) Outputs() []*sym.Matrix {
	return append([]*sym.Matrix(nil), ft.outputs...)
}

func tensorOutputs(x []*sym.Matrix, fun TensorFunc) ([]*sym.Matrix, error) {
	outputs := fun(x)
	if len(outputs) == 0 {
		return nil, ErrNoOutputs
	}
	for k, o := range outputs {
		if o == nil {
			return nil, errors.Wrapf(ErrNoOutputs, "output %d is nil", k)
		}
	}
	return outputs, nil
}

func describe(m *sym.Matrix) string {
	if m == nil {
		return "nil"
	}
	return Shape{m.Rows(), m.Cols()}.String()
}
