package matadi

import (
	"github.com/pkg/errors"

	"github.com/njchilds90/matadi/sym"
)

// ============================================================
// MaterialTensor: list of tensors with a jacobian grid
// ============================================================

// MaterialTensor is a list of tensor-valued outputs together with the
// jacobian of each output with respect to each variable. With state
// variables, the last outputs and the last variables stay out of the grid;
// the outputs are still returned by Function.
type MaterialTensor struct {
	base
	outputs   []*sym.Matrix
	grid      []*sym.Matrix
	jacobian  *sym.Function
	statevars int
}

// NewMaterialTensor builds fun(x) once and derives the jacobian blocks
// d output_i / d x_j for every output i and variable j that are not state
// variables. WithTriu keeps only blocks with j >= i.
func NewMaterialTensor(x []*sym.Matrix, fun TensorFunc, opts ...Option) (*MaterialTensor, error) {
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
	s := cfg.statevars
	if s > len(x) || s > len(outputs) {
		return nil, errors.Wrapf(ErrStateVars, "%d state variables for %d variables and %d outputs",
			s, len(x), len(outputs))
	}

	inputs := shapesOf(x, cfg.compress)
	funShapes := shapesOf(outputs, cfg.compress)
	mt := &MaterialTensor{outputs: outputs, statevars: s}
	idx := Index{Inputs: inputs, Function: funShapes}
	for i := 0; i < len(outputs)-s; i++ {
		for j := 0; j < len(x)-s; j++ {
			if cfg.triu && j < i {
				continue
			}
			mt.grid = append(mt.grid, sym.Jacobian(outputs[i], x[j]))
			idx.Gradient = append(idx.Gradient, concat(funShapes[i], inputs[j]))
			idx.Pairs = append(idx.Pairs, Pair{I: i, J: j})
		}
	}

	function, err := sym.Compile("f", x, outputs)
	if err != nil {
		return nil, errors.WithMessage(err, "matadi: compile function")
	}
	jacobian, err := sym.Compile("g", x, mt.grid)
	if err != nil {
		return nil, errors.WithMessage(err, "matadi: compile jacobian")
	}
	mt.x = x
	mt.idx = idx
	mt.function = function
	mt.jacobian = jacobian
	return mt, nil
}

// Outputs returns the output expressions.
func (mt *MaterialTensor) Outputs() []*sym.Matrix {
	return append([]*sym.Matrix(nil), mt.outputs...)
}

// Jacobians returns the grid expressions in Index().Pairs order.
func (mt *MaterialTensor) Jacobians() []*sym.Matrix { return append([]*sym.Matrix(nil), mt.grid...) }

// StateVars is the number of trailing variables excluded from
// differentiation.
func (mt *MaterialTensor) StateVars() int { return mt.statevars }

// Gradient evaluates the jacobian grid. Entry k belongs to
// Index().Pairs[k] = (i, j) and is shaped output i + variable j + batch
// shape.
func (mt *MaterialTensor) Gradient(x []*Array, opts ...EvalOption) ([]*Array, error) {
	return apply(mt.jacobian, x, mt.idx.Inputs, mt.idx.Gradient, gatherEvalOptions(opts))
}

// Jacobian is Gradient.
func (mt *MaterialTensor) Jacobian(x []*Array, opts ...EvalOption) ([]*Array, error) {
	return mt.Gradient(x, opts...)
}
